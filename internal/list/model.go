package list

import "downhome-cli/internal/model"

// ModelObserver receives positional change events from a Model. Index ranges
// are in the observed model's own coordinates (the decorated wrapper shifts
// them past its header prefix).
type ModelObserver interface {
	ItemsInserted(index, count int)
	ItemsRemoved(index, count int)
	ItemsChanged(index, count int)
	PropertiesChanged()
}

// VisualsProvider resolves thumbnails/icons for items, asynchronously.
type VisualsProvider interface {
	Visuals(id string, reply func(id string, v *model.Visuals))
}

// Properties is the shared, non-per-item state of the list: user action
// callbacks and cross-cutting flags. One value per slot; slot writes are
// announced via PropertiesChanged, not per-item diffs.
type Properties struct {
	EnableItemAnimations bool
	SelectionModeActive  bool

	Open   func(model.OfflineItem)
	Pause  func(model.OfflineItem)
	Resume func(model.OfflineItem)
	Cancel func(model.OfflineItem)
	Select func(model.OfflineItem)

	Share  func(items []model.OfflineItem)
	Remove func(items []model.OfflineItem)

	Visuals VisualsProvider
}

// Model is an ordered, observable sequence of list items plus the shared
// property bag. The mutator owns its contents exclusively.
type Model struct {
	items     []Item
	props     Properties
	observers []ModelObserver
}

func NewModel() *Model {
	return &Model{props: Properties{EnableItemAnimations: true}}
}

func (m *Model) Size() int      { return len(m.items) }
func (m *Model) Get(i int) Item { return m.items[i] }

func (m *Model) Items() []Item {
	out := make([]Item, len(m.items))
	copy(out, m.items)
	return out
}

func (m *Model) AddObserver(o ModelObserver) {
	for _, cur := range m.observers {
		if cur == o {
			return
		}
	}
	m.observers = append(m.observers, o)
}

func (m *Model) RemoveObserver(o ModelObserver) {
	for i, cur := range m.observers {
		if cur == o {
			m.observers = append(m.observers[:i], m.observers[i+1:]...)
			return
		}
	}
}

// Set atomically replaces the whole sequence. Equal lengths collapse to one
// full-range change event; otherwise the old range is removed and the new one
// inserted. Consumers re-render correctly either way; a minimal diff is not
// attempted here.
func (m *Model) Set(items []Item) {
	old := len(m.items)
	m.items = items
	if old == len(items) {
		if old > 0 {
			m.notify(func(o ModelObserver) { o.ItemsChanged(0, old) })
		}
		return
	}
	if old > 0 {
		m.notify(func(o ModelObserver) { o.ItemsRemoved(0, old) })
	}
	if len(items) > 0 {
		m.notify(func(o ModelObserver) { o.ItemsInserted(0, len(items)) })
	}
}

// Update replaces one entry in place and emits a single-item change event.
func (m *Model) Update(i int, it Item) {
	m.items[i] = it
	m.notify(func(o ModelObserver) { o.ItemsChanged(i, 1) })
}

// Props exposes the shared property bag for slot writes. Callers that mutate
// a slot must follow up with NotifyPropertiesChanged.
func (m *Model) Props() *Properties { return &m.props }

func (m *Model) NotifyPropertiesChanged() {
	m.notify(func(o ModelObserver) { o.PropertiesChanged() })
}

func (m *Model) notify(fn func(ModelObserver)) {
	obs := make([]ModelObserver, len(m.observers))
	copy(obs, m.observers)
	for _, o := range obs {
		fn(o)
	}
}
