package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"downhome-cli/internal/home"
	itemlist "downhome-cli/internal/list"
	"downhome-cli/internal/model"
	"downhome-cli/internal/store"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// undoWindow is how long a delete stays undoable before it commits.
const undoWindow = 5 * time.Second

type tickMsg struct{}
type drainMsg struct{}

// deleteQueue implements home.DeleteController: deletions are held open until
// the undo window lapses (commit) or the user presses undo (cancel).
type deleteQueue struct {
	entries []*undoEntry
}

type undoEntry struct {
	items    []model.OfflineItem
	reply    func(accept bool)
	deadline time.Time
}

func (q *deleteQueue) CanDelete(items []model.OfflineItem, reply func(accept bool)) {
	q.entries = append(q.entries, &undoEntry{
		items:    items,
		reply:    reply,
		deadline: time.Now().Add(undoWindow),
	})
}

// expire commits every entry whose undo window lapsed.
func (q *deleteQueue) expire(now time.Time) {
	kept := q.entries[:0]
	for _, e := range q.entries {
		if now.After(e.deadline) {
			e.reply(true)
			continue
		}
		kept = append(kept, e)
	}
	q.entries = kept
}

// undo cancels the most recent pending deletion.
func (q *deleteQueue) undo() (*undoEntry, bool) {
	if len(q.entries) == 0 {
		return nil, false
	}
	e := q.entries[len(q.entries)-1]
	q.entries = q.entries[:len(q.entries)-1]
	e.reply(false)
	return e, true
}

// flushAll commits everything still pending (used on quit).
func (q *deleteQueue) flushAll() {
	for _, e := range q.entries {
		e.reply(true)
	}
	q.entries = nil
}

// shareSink implements home.ShareController by remembering the last payload
// for the app to surface as a flash message.
type shareSink struct {
	payload *home.SharePayload
}

func (s *shareSink) Share(p home.SharePayload) { s.payload = &p }

// modelWatcher marks the view dirty on any list-model event. Registered once
// as a stable pointer so tea's value-copied app model can share it.
type modelWatcher struct {
	dirty bool
}

func (w *modelWatcher) ItemsInserted(int, int) { w.dirty = true }
func (w *modelWatcher) ItemsRemoved(int, int)  { w.dirty = true }
func (w *modelWatcher) ItemsChanged(int, int)  { w.dirty = true }
func (w *modelWatcher) PropertiesChanged()     { w.dirty = true }

type confirmState struct {
	items []model.OfflineItem
	focus confirmModalFocus
}

type appModel struct {
	dbPath   string
	provider *store.Provider

	coreModel *itemlist.Model
	decorated *itemlist.DecoratedModel
	mediator  *home.Mediator
	dispatch  *home.Dispatcher
	watcher   *modelWatcher

	deletes *deleteQueue
	shares  *shareSink

	rows        list.Model
	searchInput textinput.Model
	searching   bool

	filterIdx int

	confirm *confirmState
	flash   string

	width  int
	height int
}

func newAppModel(dbPath string, provider *store.Provider) appModel {
	coreModel := itemlist.NewModel()
	decorated := itemlist.NewDecoratedModel(coreModel)
	dispatch := &home.Dispatcher{}
	deletes := &deleteQueue{}
	shares := &shareSink{}
	watcher := &modelWatcher{}
	decorated.AddObserver(watcher)

	mediator := home.NewMediator(home.Config{
		Provider: provider,
		Model:    coreModel,
		Deletes:  deletes,
		Shares:   shares,
		Dispatch: dispatch,
	})

	input := textinput.New()
	input.Placeholder = "search downloads"
	input.Prompt = "/ "
	input.CharLimit = 120

	rows := list.New(nil, newCompactRowDelegate(), 0, 0)
	rows.SetShowTitle(false)
	rows.SetShowHelp(false)
	rows.SetShowStatusBar(false)
	rows.SetShowPagination(false)
	// Incremental search is ours (the search filter stage), not the bubbles
	// built-in fuzzy filter.
	rows.SetFilteringEnabled(false)
	rows.KeyMap.Quit.SetKeys("q")

	m := appModel{
		dbPath:      dbPath,
		provider:    provider,
		coreModel:   coreModel,
		decorated:   decorated,
		mediator:    mediator,
		dispatch:    dispatch,
		watcher:     watcher,
		deletes:     deletes,
		shares:      shares,
		rows:        rows,
		searchInput: input,
	}
	m.syncHeaders()
	m.refreshRows()
	return m
}

func (m appModel) Init() tea.Cmd { return tick() }

func tick() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(time.Time) tea.Msg { return tickMsg{} })
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case tickMsg:
		m.deletes.expire(time.Now())
		m.refreshIfDirty()
		return m, tick()

	case drainMsg:
		m.dispatch.Drain()
		m.refreshIfDirty()
		return m, nil

	case tea.KeyMsg:
		return m.updateKey(msg)
	}

	var cmd tea.Cmd
	m.rows, cmd = m.rows.Update(msg)
	return m, cmd
}

func (m appModel) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.confirm != nil {
		return m.updateConfirmKey(msg)
	}
	if m.searching {
		return m.updateSearchKey(msg)
	}

	switch msg.String() {
	case "ctrl+c", "q":
		m.deletes.flushAll()
		return m, tea.Quit

	case "/":
		m.searching = true
		m.searchInput.Focus()
		return m, textinput.Blink

	case "f":
		m.filterIdx = (m.filterIdx + 1) % len(chipOrder)
		m.mediator.OnFilterTypeSelected(chipOrder[m.filterIdx])
		m.syncHeaders()
		m.refreshIfDirty()
		return m, m.scheduleDrain()

	case " ":
		if it, ok := m.cursorItem(); ok {
			m.decorated.Props().Select(it)
			m.refreshIfDirty()
		}
		return m, nil

	case "esc":
		if m.decorated.Props().SelectionModeActive {
			m.mediator.OnSelectionChanged(nil)
			m.refreshIfDirty()
			return m, nil
		}

	case "enter":
		if it, ok := m.cursorItem(); ok {
			m.decorated.Props().Open(it)
			m.flash = "Opened " + it.Title
		}
		return m, nil

	case "p":
		if it, ok := m.cursorItem(); ok {
			m.decorated.Props().Pause(it)
			m.refreshIfDirty()
		}
		return m, nil

	case "r":
		if it, ok := m.cursorItem(); ok {
			m.decorated.Props().Resume(it)
			m.refreshIfDirty()
		}
		return m, nil

	case "c":
		if it, ok := m.cursorItem(); ok {
			m.decorated.Props().Cancel(it)
			m.refreshIfDirty()
		}
		return m, nil

	case "d":
		items := m.actionTargets()
		if len(items) > 0 {
			m.confirm = &confirmState{items: items, focus: confirmFocusCancel}
		}
		return m, nil

	case "u":
		if _, ok := m.deletes.undo(); ok {
			m.flash = "Restored"
			m.refreshIfDirty()
		}
		return m, nil

	case "s":
		items := m.actionTargets()
		if len(items) > 0 {
			m.decorated.Props().Share(items)
			if p := m.shares.payload; p != nil {
				m.flash = shareFlash(*p)
				m.shares.payload = nil
			}
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.rows, cmd = m.rows.Update(msg)
	return m, cmd
}

func (m appModel) updateConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "left", "right":
		if m.confirm.focus == confirmFocusConfirm {
			m.confirm.focus = confirmFocusCancel
		} else {
			m.confirm.focus = confirmFocusConfirm
		}
	case "enter":
		st := m.confirm
		m.confirm = nil
		if st.focus == confirmFocusConfirm {
			m.decorated.Props().Remove(st.items)
			m.mediator.OnSelectionChanged(nil)
			m.flash = fmt.Sprintf("Deleted %d · u: undo", len(st.items))
			m.refreshIfDirty()
		}
	case "esc", "ctrl+g":
		m.confirm = nil
	}
	return m, nil
}

func (m appModel) updateSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.searching = false
		m.searchInput.SetValue("")
		m.searchInput.Blur()
		m.mediator.OnFilterStringChanged("")
		m.refreshIfDirty()
		return m, nil
	case "enter":
		m.searching = false
		m.searchInput.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	m.mediator.OnFilterStringChanged(m.searchInput.Value())
	m.refreshIfDirty()
	return m, cmd
}

func (m appModel) View() string {
	title := lipgloss.NewStyle().Bold(true).Render("Downloads")
	sub := styleMuted().Render(m.dbPath)
	header := title + "  " + sub

	if m.confirm != nil {
		body := fmt.Sprintf("Delete %d download(s)? Files are removed from disk.", len(m.confirm.items))
		return header + "\n\n" + renderConfirmModal(m.width, "Delete downloads", body, "Delete", "Cancel", m.confirm.focus)
	}

	var lines []string
	lines = append(lines, header)
	if m.searching || m.searchInput.Value() != "" {
		lines = append(lines, m.searchInput.View())
	}
	lines = append(lines, m.rows.View())

	if m.flash != "" {
		lines = append(lines, lipgloss.NewStyle().Foreground(colorAccent).Render(m.flash))
	}
	if n := len(m.deletes.entries); n > 0 {
		lines = append(lines, styleMuted().Render(fmt.Sprintf("%d pending deletion · u: undo", n)))
	}

	footer := styleMuted().Render("enter: open  space: select  d: delete  u: undo  s: share  f: filter  /: search  q: quit")
	lines = append(lines, footer)
	return strings.Join(lines, "\n")
}

func (m *appModel) resize() {
	h := m.height - 5
	if h < 8 {
		h = 8
	}
	w := m.width
	if w < 40 {
		w = 40
	}
	m.rows.SetSize(w, h)
	m.searchInput.Width = w - 4
}

// refreshRows rebuilds the bubbles rows from the decorated model, keeping the
// cursor on the same stable id when it survives the rebuild.
func (m *appModel) refreshRows() {
	var prev uint64
	hadPrev := false
	if r, ok := m.rows.SelectedItem().(listRow); ok {
		prev = r.stableID()
		hadPrev = true
	}

	now := time.Now()
	selMode := m.decorated.Props().SelectionModeActive
	items := m.decorated.Items()
	rows := make([]list.Item, 0, len(items))
	for _, it := range items {
		rows = append(rows, listRow{item: it, now: now, selectionMode: selMode})
	}
	m.rows.SetItems(rows)

	if hadPrev {
		for i, it := range rows {
			if it.(listRow).stableID() == prev {
				m.rows.Select(i)
				break
			}
		}
	}
	m.watcher.dirty = false
}

func (m *appModel) refreshIfDirty() {
	if m.watcher.dirty {
		m.syncHeaders()
		m.refreshRows()
	}
}

// syncHeaders rewrites the decoration prefix (storage summary + filter chips).
func (m *appModel) syncHeaders() {
	items := m.provider.Items()
	m.decorated.SetHeaders([]itemlist.Item{
		itemlist.ViewItem{ID: headerIDStorage, Content: storageSummary{
			usedBytes: m.provider.TotalSizeBytes(),
			itemCount: len(items),
		}},
		itemlist.ViewItem{ID: headerIDChips, Content: filterChips{
			selected: m.mediator.SelectedFilterType(),
		}},
	})
}

func (m *appModel) scheduleDrain() tea.Cmd {
	if !m.dispatch.Pending() {
		return nil
	}
	return func() tea.Msg { return drainMsg{} }
}

// cursorItem resolves the offline item under the cursor, if any.
func (m *appModel) cursorItem() (model.OfflineItem, bool) {
	r, ok := m.rows.SelectedItem().(listRow)
	if !ok {
		return model.OfflineItem{}, false
	}
	row, ok := r.item.(itemlist.OfflineItemRow)
	if !ok {
		return model.OfflineItem{}, false
	}
	return row.Item, true
}

// actionTargets is the multi-selection when active, else the cursor item.
func (m *appModel) actionTargets() []model.OfflineItem {
	if items := m.mediator.SelectedItems(); len(items) > 0 {
		return items
	}
	if it, ok := m.cursorItem(); ok {
		return []model.OfflineItem{it}
	}
	return nil
}

func shareFlash(p home.SharePayload) string {
	uris := make([]string, 0, len(p.Infos))
	for _, it := range p.Items {
		if info, ok := p.Infos[it.ID]; ok {
			uris = append(uris, info.URI)
		}
	}
	if len(uris) == 0 {
		return "Nothing to share"
	}
	return "Share: " + strings.Join(uris, " ")
}

// Run opens the provider and drives the TUI until quit.
func Run(dbPath string) error {
	cfg, _ := store.LoadConfig()
	applyColorProfilePreference()
	theme, glyphs := "", ""
	if cfg.TUI != nil {
		theme, glyphs = cfg.TUI.Theme, cfg.TUI.Glyphs
	}
	applyThemePreference(theme)
	applyGlyphPreference(glyphs)

	provider, err := store.Open(context.Background(), dbPath)
	if err != nil {
		return err
	}
	defer provider.Close()

	m := newAppModel(dbPath, provider)
	defer m.mediator.Destroy()

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
