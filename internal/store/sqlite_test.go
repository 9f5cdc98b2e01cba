package store

import (
	"context"
	"errors"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"

	"downhome-cli/internal/model"
)

func openTemp(t *testing.T) (*Provider, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "downloads.sqlite")
	p, err := Open(context.Background(), path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { p.Close() })
	return p, path
}

type notifyLog struct {
	added   []string
	removed []string
	updated []string
}

func (l *notifyLog) ItemsAdded(items []model.OfflineItem) {
	for _, it := range items {
		l.added = append(l.added, it.ID)
	}
}

func (l *notifyLog) ItemsRemoved(items []model.OfflineItem) {
	for _, it := range items {
		l.removed = append(l.removed, it.ID)
	}
}

func (l *notifyLog) ItemUpdated(_, updated model.OfflineItem) {
	l.updated = append(l.updated, updated.ID)
}

func TestProviderPersistsAcrossReopen(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	p, path := openTemp(t)

	done := time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)
	stored, err := p.Add(ctx, model.OfflineItem{
		Title:          "Quarterly report",
		Category:       model.CategoryDocument,
		State:          model.StateComplete,
		CreatedAt:      done.Add(-time.Hour),
		CompletedAt:    &done,
		TotalSizeBytes: 2048,
		PageURL:        "https://example.com/report",
		FilePath:       "/files/report.pdf",
	})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if !strings.HasPrefix(stored.ID, "offline-") {
		t.Fatalf("generated id %q", stored.ID)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	p2, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer p2.Close()

	got, ok := p2.Get(stored.ID)
	if !ok {
		t.Fatalf("item lost across reopen")
	}
	if got.Title != stored.Title || got.Category != stored.Category ||
		got.TotalSizeBytes != stored.TotalSizeBytes || got.FilePath != stored.FilePath {
		t.Fatalf("reloaded item differs: %+v vs %+v", got, stored)
	}
	if got.CompletedAt == nil || got.CompletedAt.UnixMilli() != done.UnixMilli() {
		t.Fatalf("completed-at lost: %v", got.CompletedAt)
	}
	if got.CreatedAt.UnixMilli() != stored.CreatedAt.UnixMilli() {
		t.Fatalf("created-at drifted: %v vs %v", got.CreatedAt, stored.CreatedAt)
	}
}

func TestProviderAddDefaultsAndDuplicates(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	p, _ := openTemp(t)

	stored, err := p.Add(ctx, model.OfflineItem{Title: "bare"})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if stored.Category != model.CategoryOther || stored.State != model.StateComplete {
		t.Fatalf("defaults not applied: %+v", stored)
	}
	if stored.CreatedAt.IsZero() {
		t.Fatalf("created-at not defaulted")
	}

	if _, err := p.Add(ctx, model.OfflineItem{ID: stored.ID, Title: "dup"}); err == nil {
		t.Fatalf("duplicate id accepted")
	}
}

func TestProviderNotifications(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	p, _ := openTemp(t)
	log := &notifyLog{}
	p.AddObserver(log)

	stored, err := p.Add(ctx, model.OfflineItem{Title: "a", State: model.StateInProgress})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	stored.ReceivedBytes = 42
	if err := p.Update(ctx, stored); err != nil {
		t.Fatalf("Update: %v", err)
	}
	p.RemoveItem(stored.ID)
	p.RemoveItem(stored.ID) // second removal is silent

	if len(log.added) != 1 || len(log.updated) != 1 || len(log.removed) != 1 {
		t.Fatalf("notifications: +%v ~%v -%v", log.added, log.updated, log.removed)
	}
}

func TestProviderUpdateUnknown(t *testing.T) {
	t.Parallel()

	p, _ := openTemp(t)
	err := p.Update(context.Background(), model.OfflineItem{ID: "ghost"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestProviderStateTransitions(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	p, _ := openTemp(t)
	stored, err := p.Add(ctx, model.OfflineItem{Title: "dl", State: model.StateInProgress})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	id := stored.ID

	state := func() model.State {
		it, _ := p.Get(id)
		return it.State
	}

	p.ResumeItem(id) // not paused: ignored
	if state() != model.StateInProgress {
		t.Fatalf("resume from in_progress changed state to %s", state())
	}

	p.PauseItem(id)
	if state() != model.StatePaused {
		t.Fatalf("pause: %s", state())
	}
	p.PauseItem(id) // already paused: ignored
	if state() != model.StatePaused {
		t.Fatalf("double pause: %s", state())
	}

	p.ResumeItem(id)
	if state() != model.StateInProgress {
		t.Fatalf("resume: %s", state())
	}

	p.CancelItem(id)
	if state() != model.StateCancelled {
		t.Fatalf("cancel: %s", state())
	}
	p.CancelItem(id) // terminal: ignored
	if state() != model.StateCancelled {
		t.Fatalf("double cancel: %s", state())
	}

	done, err := p.Add(ctx, model.OfflineItem{Title: "done", State: model.StateComplete})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	p.CancelItem(done.ID)
	if it, _ := p.Get(done.ID); it.State != model.StateComplete {
		t.Fatalf("cancel mutated a completed item: %s", it.State)
	}
}

func TestProviderShareInfo(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	p, _ := openTemp(t)

	file, _ := p.Add(ctx, model.OfflineItem{Title: "File", FilePath: "/files/a.png", PageURL: "https://example.com/a"})
	page, _ := p.Add(ctx, model.OfflineItem{Title: "Page", PageURL: "https://example.com/b"})
	bare, _ := p.Add(ctx, model.OfflineItem{Title: "Bare"})

	share := func(id string) *model.ShareInfo {
		var got *model.ShareInfo
		p.ShareInfo(id, func(_ string, info *model.ShareInfo) { got = info })
		return got
	}

	if info := share(file.ID); info == nil || info.URI != "file:///files/a.png" || info.Text != "File" {
		t.Fatalf("file share info: %+v", info)
	}
	if info := share(page.ID); info == nil || info.URI != "https://example.com/b" {
		t.Fatalf("page share info: %+v", info)
	}
	if info := share(bare.ID); info != nil {
		t.Fatalf("unsharable item produced info: %+v", info)
	}
	if info := share("ghost"); info != nil {
		t.Fatalf("unknown item produced info: %+v", info)
	}
}

func TestProviderTotalsAndListing(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	p, _ := openTemp(t)

	if _, err := p.Add(ctx, model.OfflineItem{Title: "a", TotalSizeBytes: 100}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := p.Add(ctx, model.OfflineItem{Title: "b", TotalSizeBytes: 250}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	if got := p.TotalSizeBytes(); got != 350 {
		t.Fatalf("TotalSizeBytes = %d, want 350", got)
	}

	var titles []string
	for _, it := range p.Items() {
		titles = append(titles, it.Title)
	}
	sort.Strings(titles)
	if len(titles) != 2 || titles[0] != "a" || titles[1] != "b" {
		t.Fatalf("Items = %v", titles)
	}
}
