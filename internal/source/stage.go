package source

import (
	"fmt"

	"downhome-cli/internal/model"
)

// stage is the shared machinery of one filter link. It mirrors the upstream
// set, applies an accept predicate, and republishes the filtered view.
//
// Contract: the notifications a stage emits are exactly equivalent to
// recomputing Items() before and after each change and set-diffing the two.
type stage struct {
	Publisher

	upstream Source
	accept   func(model.OfflineItem) bool

	all     map[string]model.OfflineItem // upstream view, unfiltered
	visible map[string]model.OfflineItem // all minus rejected items

	// onRemoved, when set, sees every upstream removal, including items the
	// predicate already hid. Stages with per-id state hook it to drop ids
	// that no longer exist upstream.
	onRemoved func(model.OfflineItem)
}

func newStage(upstream Source, accept func(model.OfflineItem) bool) *stage {
	s := &stage{
		upstream: upstream,
		accept:   accept,
		all:      map[string]model.OfflineItem{},
		visible:  map[string]model.OfflineItem{},
	}
	for _, it := range upstream.Items() {
		s.all[it.ID] = it
		if accept(it) {
			s.visible[it.ID] = it
		}
	}
	upstream.AddObserver(s)
	return s
}

func (s *stage) Items() []model.OfflineItem {
	out := make([]model.OfflineItem, 0, len(s.visible))
	for _, it := range s.visible {
		out = append(out, it)
	}
	return out
}

// Destroy unsubscribes from the upstream link. The stage stops publishing;
// downstream observers are left for their own owners to detach.
func (s *stage) Destroy() {
	s.upstream.RemoveObserver(s)
}

func (s *stage) ItemsAdded(items []model.OfflineItem) {
	var pass []model.OfflineItem
	for _, it := range items {
		s.all[it.ID] = it
		if s.accept(it) {
			s.visible[it.ID] = it
			pass = append(pass, it)
		}
	}
	s.NotifyItemsAdded(pass)
}

func (s *stage) ItemsRemoved(items []model.OfflineItem) {
	var gone []model.OfflineItem
	for _, it := range items {
		delete(s.all, it.ID)
		if s.onRemoved != nil {
			s.onRemoved(it)
		}
		if _, ok := s.visible[it.ID]; ok {
			delete(s.visible, it.ID)
			gone = append(gone, it)
		}
	}
	s.NotifyItemsRemoved(gone)
}

func (s *stage) ItemUpdated(old, updated model.OfflineItem) {
	if old.ID != updated.ID {
		panic(fmt.Sprintf("source: item update changed identity (%q -> %q)", old.ID, updated.ID))
	}
	s.all[updated.ID] = updated

	_, wasVisible := s.visible[old.ID]
	nowVisible := s.accept(updated)
	switch {
	case wasVisible && nowVisible:
		s.visible[updated.ID] = updated
		s.NotifyItemUpdated(old, updated)
	case wasVisible && !nowVisible:
		delete(s.visible, old.ID)
		s.NotifyItemsRemoved([]model.OfflineItem{old})
	case !wasVisible && nowVisible:
		s.visible[updated.ID] = updated
		s.NotifyItemsAdded([]model.OfflineItem{updated})
	}
}

// refilter re-evaluates the predicate over the whole upstream set and emits
// the remove-old/add-new pair relative to the previous output. Used when the
// predicate itself changes (filter type, search query, pending deletions).
func (s *stage) refilter() {
	var added, removed []model.OfflineItem
	for id, it := range s.all {
		ok := s.accept(it)
		_, vis := s.visible[id]
		if ok && !vis {
			s.visible[id] = it
			added = append(added, it)
		}
		if !ok && vis {
			delete(s.visible, id)
			removed = append(removed, it)
		}
	}
	s.NotifyItemsRemoved(removed)
	s.NotifyItemsAdded(added)
}
