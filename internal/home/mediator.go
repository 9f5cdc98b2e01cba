package home

import (
	"time"

	"downhome-cli/internal/list"
	"downhome-cli/internal/model"
	"downhome-cli/internal/source"
	"downhome-cli/internal/visuals"
)

// DeleteController decides whether an optimistic deletion may proceed. The
// reply may arrive synchronously or after an arbitrary delay, on the event
// goroutine either way.
type DeleteController interface {
	CanDelete(items []model.OfflineItem, reply func(accept bool))
}

// SharePayload is the combined result of a share request: the requested items
// plus whatever share info the provider reported for them.
type SharePayload struct {
	Items []model.OfflineItem
	Infos map[string]model.ShareInfo
}

// ShareController receives the assembled payload once per share request.
type ShareController interface {
	Share(p SharePayload)
}

// Config wires a Mediator. Provider, Model and Deletes are required.
type Config struct {
	Provider source.Provider
	Model    *list.Model

	Deletes DeleteController
	Shares  ShareController
	Visuals *visuals.Cache

	// OffTheRecord gates the whole stream off when the provider cannot
	// safely expose items for an incognito session.
	OffTheRecord bool

	// Dispatch schedules the re-enable of item animations after a filter
	// change. Nil means "run immediately".
	Dispatch *Dispatcher

	Now func() time.Time
}

// Mediator owns the filter-chain graph, binds the shared callbacks into the
// model, and implements the delete-with-undo and share workflows.
//
// Chain order is fixed: provider -> source -> off-the-record -> delete-undo
// -> type -> search -> mutator -> model. Search applies after the type filter
// so query results reflect both; reordering changes semantics.
type Mediator struct {
	provider source.Provider
	model    *list.Model

	src        *source.ItemSource
	offRecord  *source.OffTheRecordFilter
	deleteUndo *source.DeleteUndoFilter
	typeFilter *source.TypeFilter
	search     *source.SearchFilter
	mutator    *list.Mutator

	deletes  DeleteController
	shares   ShareController
	visuals  *visuals.Cache
	dispatch *Dispatcher

	selection map[string]bool
}

func NewMediator(cfg Config) *Mediator {
	m := &Mediator{
		provider:  cfg.Provider,
		model:     cfg.Model,
		deletes:   cfg.Deletes,
		shares:    cfg.Shares,
		visuals:   cfg.Visuals,
		dispatch:  cfg.Dispatch,
		selection: map[string]bool{},
	}

	m.src = source.NewItemSource(cfg.Provider)
	m.offRecord = source.NewOffTheRecordFilter(m.src, cfg.OffTheRecord)
	m.deleteUndo = source.NewDeleteUndoFilter(m.offRecord)
	m.typeFilter = source.NewTypeFilter(m.deleteUndo)
	m.search = source.NewSearchFilter(m.typeFilter)
	m.mutator = list.NewMutator(m.search, cfg.Model, cfg.Now)

	props := m.model.Props()
	props.Open = func(it model.OfflineItem) { m.provider.OpenItem(it.ID) }
	props.Pause = func(it model.OfflineItem) { m.provider.PauseItem(it.ID) }
	props.Resume = func(it model.OfflineItem) { m.provider.ResumeItem(it.ID) }
	props.Cancel = func(it model.OfflineItem) { m.provider.CancelItem(it.ID) }
	props.Select = m.OnItemSelected
	props.Share = m.OnShareRequested
	props.Remove = m.OnDeletionRequested
	props.Visuals = cfg.Visuals
	m.model.NotifyPropertiesChanged()

	return m
}

// Destroy tears the chain down in reverse construction order so no stage is
// left observing a torn-down upstream.
func (m *Mediator) Destroy() {
	m.mutator.Destroy()
	m.search.Destroy()
	m.typeFilter.Destroy()
	m.deleteUndo.Destroy()
	m.offRecord.Destroy()
	m.src.Destroy()
}

// OnFilterTypeSelected switches the type filter. The resulting wholesale
// remove/add burst is meaningless to animate per-item, so animations are
// suppressed for this turn and re-enabled on the next one.
func (m *Mediator) OnFilterTypeSelected(t model.FilterType) {
	props := m.model.Props()
	props.EnableItemAnimations = false
	m.model.NotifyPropertiesChanged()

	m.typeFilter.OnFilterSelected(t)
	m.mutator.OnFilterTypeSelected(t)

	m.dispatch.Post(func() {
		props.EnableItemAnimations = true
		m.model.NotifyPropertiesChanged()
	})
}

func (m *Mediator) OnFilterStringChanged(query string) {
	m.search.OnQueryChanged(query)
}

// OnDeletionRequested starts the two-phase delete: the resolved items vanish
// immediately (pending-delete), then the controller confirms or cancels.
// Cancel restores exactly the resolved set; confirm commits each removal to
// the provider and purges cached visuals. Committing an item that already
// disappeared upstream is a harmless no-op.
func (m *Mediator) OnDeletionRequested(items []model.OfflineItem) {
	resolved := m.resolveDeletionSet(items)
	if len(resolved) == 0 {
		return
	}
	m.deleteUndo.AddPendingDeletions(resolved)

	m.deletes.CanDelete(resolved, func(accept bool) {
		if !accept {
			m.deleteUndo.RemovePendingDeletions(resolved)
			return
		}
		for _, it := range resolved {
			m.provider.RemoveItem(it.ID)
			if m.visuals != nil {
				m.visuals.Remove(it.ID)
			}
		}
	})
}

// resolveDeletionSet widens the request to every item sharing a file path
// with a requested item: several logical items can reference one physical
// file, and deleting the file must take all of them.
func (m *Mediator) resolveDeletionSet(items []model.OfflineItem) []model.OfflineItem {
	paths := map[string]bool{}
	ids := map[string]bool{}
	for _, it := range items {
		ids[it.ID] = true
		if it.FilePath != "" {
			paths[it.FilePath] = true
		}
	}
	resolved := append([]model.OfflineItem(nil), items...)
	for _, it := range m.src.Items() {
		if ids[it.ID] {
			continue
		}
		if it.FilePath != "" && paths[it.FilePath] {
			ids[it.ID] = true
			resolved = append(resolved, it)
		}
	}
	return resolved
}

// OnShareRequested gathers share info for every requested item and hands one
// combined payload to the share controller once the last reply lands.
// Completion is by count alone; arrival order does not matter. An item the
// provider reports nil info for still counts, its entry is just omitted.
func (m *Mediator) OnShareRequested(items []model.OfflineItem) {
	if m.shares == nil || len(items) == 0 {
		return
	}
	payload := SharePayload{
		Items: append([]model.OfflineItem(nil), items...),
		Infos: map[string]model.ShareInfo{},
	}
	remaining := len(items)
	for _, it := range items {
		m.provider.ShareInfo(it.ID, func(id string, info *model.ShareInfo) {
			if info != nil {
				payload.Infos[id] = *info
			}
			remaining--
			if remaining == 0 {
				m.shares.Share(payload)
			}
		})
	}
}

// OnItemSelected toggles one item's membership in the selection set.
func (m *Mediator) OnItemSelected(it model.OfflineItem) {
	if m.selection[it.ID] {
		delete(m.selection, it.ID)
	} else {
		m.selection[it.ID] = true
	}
	m.syncSelection()
}

// OnSelectionChanged replaces the selection set wholesale.
func (m *Mediator) OnSelectionChanged(selected map[string]bool) {
	m.selection = map[string]bool{}
	for id, on := range selected {
		if on {
			m.selection[id] = true
		}
	}
	m.syncSelection()
}

// SelectedItems returns the selected items still visible after filtering.
func (m *Mediator) SelectedItems() []model.OfflineItem {
	if len(m.selection) == 0 {
		return nil
	}
	var out []model.OfflineItem
	for _, it := range m.search.Items() {
		if m.selection[it.ID] {
			out = append(out, it)
		}
	}
	return out
}

// syncSelection syncs every row's selected flag to the selection set.
// ShowSelectedAnimation is set only on rows that just transitioned into the
// selected state.
func (m *Mediator) syncSelection() {
	props := m.model.Props()
	props.SelectionModeActive = len(m.selection) > 0
	m.model.NotifyPropertiesChanged()

	for i := 0; i < m.model.Size(); i++ {
		row, ok := m.model.Get(i).(list.OfflineItemRow)
		if !ok {
			continue
		}
		now := m.selection[row.Item.ID]
		if now == row.Selected && !row.ShowSelectedAnimation {
			continue
		}
		row.ShowSelectedAnimation = now && !row.Selected
		row.Selected = now
		m.model.Update(i, row)
	}
}

// SelectedFilterType exposes the active type filter (for chip rendering).
func (m *Mediator) SelectedFilterType() model.FilterType {
	return m.typeFilter.Selected()
}

// VisibleItems is the post-filter item set feeding the mutator.
func (m *Mediator) VisibleItems() []model.OfflineItem {
	return m.search.Items()
}
