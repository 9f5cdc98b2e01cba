package source

import (
	"downhome-cli/internal/model"
)

// Observer receives incremental changes to an item stream. Callbacks are
// delivered on the single event goroutine; implementations must not block.
type Observer interface {
	ItemsAdded(items []model.OfflineItem)
	ItemsRemoved(items []model.OfflineItem)
	ItemUpdated(old, updated model.OfflineItem)
}

// Source is an observable set of offline items. Every filter stage is a
// Source, so stages compose into a chain by subscribing to the previous link.
type Source interface {
	Items() []model.OfflineItem
	AddObserver(o Observer)
	RemoveObserver(o Observer)
}

// Provider is the external download backend: the authoritative item set plus
// the commit operations the mediator forwards user actions to. Item callbacks
// may arrive synchronously or on a later turn of the event loop.
type Provider interface {
	Source

	OpenItem(id string)
	PauseItem(id string)
	ResumeItem(id string)
	CancelItem(id string)
	RemoveItem(id string)

	// ShareInfo asks for the share payload of one item. The reply always
	// fires exactly once; info is nil when the item is gone or not sharable.
	ShareInfo(id string, reply func(id string, info *model.ShareInfo))
}

// Publisher is the observer-list half of a Source, meant for embedding.
type Publisher struct {
	observers []Observer
}

func (p *Publisher) AddObserver(o Observer) {
	for _, cur := range p.observers {
		if cur == o {
			return
		}
	}
	p.observers = append(p.observers, o)
}

func (p *Publisher) RemoveObserver(o Observer) {
	for i, cur := range p.observers {
		if cur == o {
			p.observers = append(p.observers[:i], p.observers[i+1:]...)
			return
		}
	}
}

func (p *Publisher) NotifyItemsAdded(items []model.OfflineItem) {
	if len(items) == 0 {
		return
	}
	for _, o := range p.snapshot() {
		o.ItemsAdded(items)
	}
}

func (p *Publisher) NotifyItemsRemoved(items []model.OfflineItem) {
	if len(items) == 0 {
		return
	}
	for _, o := range p.snapshot() {
		o.ItemsRemoved(items)
	}
}

func (p *Publisher) NotifyItemUpdated(old, updated model.OfflineItem) {
	for _, o := range p.snapshot() {
		o.ItemUpdated(old, updated)
	}
}

// snapshot guards against observers unsubscribing while being notified.
func (p *Publisher) snapshot() []Observer {
	out := make([]Observer, len(p.observers))
	copy(out, p.observers)
	return out
}
