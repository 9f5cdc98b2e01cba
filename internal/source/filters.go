package source

import (
	"strings"

	"downhome-cli/internal/model"
)

// ItemSource is the head of the filter chain: a caching pass-through view of
// the provider, so downstream stages never call back into provider internals.
type ItemSource struct {
	*stage
}

func NewItemSource(provider Provider) *ItemSource {
	return &ItemSource{stage: newStage(provider, func(model.OfflineItem) bool { return true })}
}

// OffTheRecordFilter drops the entire stream when the session is incognito
// and the provider cannot safely expose its items. The gate is evaluated once
// at construction; there is no way to flip it mid-session.
type OffTheRecordFilter struct {
	*stage
}

func NewOffTheRecordFilter(upstream Source, dropAll bool) *OffTheRecordFilter {
	return &OffTheRecordFilter{
		stage: newStage(upstream, func(model.OfflineItem) bool { return !dropAll }),
	}
}

// DeleteUndoFilter hides items that are optimistically deleted but whose
// removal has not been committed to the provider yet. Pending state is keyed
// by item id so unrelated mutations cannot disturb an in-flight decision. An
// id leaves the pending set either by undo or by the upstream removal that
// confirms the delete, so a later re-download under the same id is shown
// again.
type DeleteUndoFilter struct {
	*stage
	pending map[string]bool
}

func NewDeleteUndoFilter(upstream Source) *DeleteUndoFilter {
	f := &DeleteUndoFilter{pending: map[string]bool{}}
	f.stage = newStage(upstream, func(it model.OfflineItem) bool { return !f.pending[it.ID] })
	f.stage.onRemoved = func(it model.OfflineItem) { delete(f.pending, it.ID) }
	return f
}

// AddPendingDeletions hides items immediately, synthesizing removal
// notifications downstream without touching the upstream source.
func (f *DeleteUndoFilter) AddPendingDeletions(items []model.OfflineItem) {
	for _, it := range items {
		f.pending[it.ID] = true
	}
	f.refilter()
}

// RemovePendingDeletions restores exactly the given items, provided they are
// still present upstream. Restoring an id that was never pending is a no-op.
func (f *DeleteUndoFilter) RemovePendingDeletions(items []model.OfflineItem) {
	for _, it := range items {
		delete(f.pending, it.ID)
	}
	f.refilter()
}

// TypeFilter keeps only items matching the selected filter type.
// FilterNone passes everything.
type TypeFilter struct {
	*stage
	selected model.FilterType
}

func NewTypeFilter(upstream Source) *TypeFilter {
	f := &TypeFilter{selected: model.FilterNone}
	f.stage = newStage(upstream, func(it model.OfflineItem) bool {
		return f.selected == model.FilterNone || model.FilterTypeOf(it) == f.selected
	})
	return f
}

func (f *TypeFilter) OnFilterSelected(t model.FilterType) {
	if t == f.selected {
		return
	}
	f.selected = t
	f.refilter()
}

func (f *TypeFilter) Selected() model.FilterType { return f.selected }

// SearchFilter keeps items whose title or page URL contains the query,
// case-insensitively. An empty query passes everything.
type SearchFilter struct {
	*stage
	query string
}

func NewSearchFilter(upstream Source) *SearchFilter {
	f := &SearchFilter{}
	f.stage = newStage(upstream, func(it model.OfflineItem) bool {
		if f.query == "" {
			return true
		}
		return strings.Contains(strings.ToLower(it.Title), f.query) ||
			strings.Contains(strings.ToLower(it.PageURL), f.query)
	})
	return f
}

func (f *SearchFilter) OnQueryChanged(query string) {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == f.query {
		return
	}
	f.query = query
	f.refilter()
}
