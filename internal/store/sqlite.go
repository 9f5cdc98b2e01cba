// Package store provides the SQLite-backed offline content provider: the
// authoritative item set the list pipeline observes, plus the commit side of
// user actions (pause/resume/cancel/remove) and share-info lookup.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"downhome-cli/internal/model"
	"downhome-cli/internal/source"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Provider persists items in SQLite and serves reads from an in-memory
// mirror loaded at Open. All mutations write through to the database, update
// the mirror, and publish the matching observer notification.
type Provider struct {
	source.Publisher

	db    *sql.DB
	items map[string]model.OfflineItem
}

func Open(ctx context.Context, path string) (*Provider, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL enables one writer + many readers; busy_timeout avoids
	// "database is locked" flakiness when a CLI command runs beside the TUI.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	p := &Provider{db: db, items: map[string]model.OfflineItem{}}
	if err := p.loadAll(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return p, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS schema_meta (k TEXT PRIMARY KEY, v TEXT NOT NULL)`,
		`CREATE TABLE IF NOT EXISTS items (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			category TEXT NOT NULL,
			state TEXT NOT NULL,
			is_suggested INTEGER NOT NULL DEFAULT 0,
			created_at_ms INTEGER NOT NULL,
			completed_at_ms INTEGER,
			total_size_bytes INTEGER NOT NULL DEFAULT 0,
			received_bytes INTEGER NOT NULL DEFAULT 0,
			page_url TEXT NOT NULL DEFAULT '',
			file_path TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE INDEX IF NOT EXISTS idx_items_created_at ON items(created_at_ms)`,
		`INSERT OR IGNORE INTO schema_meta(k, v) VALUES('schema_version', '1')`,
	}
	for _, s := range stmts {
		if _, err := db.ExecContext(ctx, s); err != nil {
			return fmt.Errorf("store: migrate: %w", err)
		}
	}
	return nil
}

func (p *Provider) Close() error { return p.db.Close() }

func (p *Provider) loadAll(ctx context.Context) error {
	rows, err := p.db.QueryContext(ctx, `SELECT id, title, description, category, state,
		is_suggested, created_at_ms, completed_at_ms, total_size_bytes, received_bytes,
		page_url, file_path FROM items`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			it          model.OfflineItem
			suggested   int64
			createdMs   int64
			completedMs sql.NullInt64
		)
		if err := rows.Scan(&it.ID, &it.Title, &it.Description, &it.Category, &it.State,
			&suggested, &createdMs, &completedMs, &it.TotalSizeBytes, &it.ReceivedBytes,
			&it.PageURL, &it.FilePath); err != nil {
			return err
		}
		it.IsSuggested = suggested != 0
		it.CreatedAt = time.UnixMilli(createdMs)
		if completedMs.Valid {
			t := time.UnixMilli(completedMs.Int64)
			it.CompletedAt = &t
		}
		p.items[it.ID] = it
	}
	return rows.Err()
}

func (p *Provider) Items() []model.OfflineItem {
	out := make([]model.OfflineItem, 0, len(p.items))
	for _, it := range p.items {
		out = append(out, it)
	}
	return out
}

// Add inserts a new item. An empty id gets a generated one. The stored item
// (with its final id) is returned.
func (p *Provider) Add(ctx context.Context, it model.OfflineItem) (model.OfflineItem, error) {
	if it.ID == "" {
		it.ID = "offline-" + uuid.NewString()
	}
	if _, exists := p.items[it.ID]; exists {
		return model.OfflineItem{}, fmt.Errorf("store: item %q already exists", it.ID)
	}
	if it.CreatedAt.IsZero() {
		it.CreatedAt = time.Now()
	}
	if it.Category == "" {
		it.Category = model.CategoryOther
	}
	if it.State == "" {
		it.State = model.StateComplete
	}
	if err := p.upsert(ctx, it); err != nil {
		return model.OfflineItem{}, err
	}
	p.items[it.ID] = it
	p.NotifyItemsAdded([]model.OfflineItem{it})
	return it, nil
}

// Update replaces an existing item and publishes the old/new pair.
func (p *Provider) Update(ctx context.Context, it model.OfflineItem) error {
	old, ok := p.items[it.ID]
	if !ok {
		return fmt.Errorf("%w: %q", ErrNotFound, it.ID)
	}
	if err := p.upsert(ctx, it); err != nil {
		return err
	}
	p.items[it.ID] = it
	p.NotifyItemUpdated(old, it)
	return nil
}

func (p *Provider) upsert(ctx context.Context, it model.OfflineItem) error {
	var completedMs any
	if it.CompletedAt != nil {
		completedMs = it.CompletedAt.UnixMilli()
	}
	_, err := p.db.ExecContext(ctx, `INSERT OR REPLACE INTO items
		(id, title, description, category, state, is_suggested, created_at_ms,
		 completed_at_ms, total_size_bytes, received_bytes, page_url, file_path)
		VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		it.ID, it.Title, it.Description, string(it.Category), string(it.State),
		boolInt(it.IsSuggested), it.CreatedAt.UnixMilli(), completedMs,
		it.TotalSizeBytes, it.ReceivedBytes, it.PageURL, it.FilePath)
	return err
}

// RemoveItem deletes an item and publishes its removal. Removing an id that
// is already gone is a no-op: delete commits race with other removal paths.
func (p *Provider) RemoveItem(id string) {
	it, ok := p.items[id]
	if !ok {
		return
	}
	if _, err := p.db.Exec(`DELETE FROM items WHERE id = ?`, id); err != nil {
		return
	}
	delete(p.items, id)
	p.NotifyItemsRemoved([]model.OfflineItem{it})
}

// OpenItem is a hook for the host UI (spawning a viewer is its concern, not
// the provider's); the sqlite provider itself has nothing to commit.
func (p *Provider) OpenItem(id string) {}

func (p *Provider) PauseItem(id string) {
	p.setState(id, model.StatePaused, onlyFrom(model.StateInProgress))
}

func (p *Provider) ResumeItem(id string) {
	p.setState(id, model.StateInProgress, onlyFrom(model.StatePaused))
}
func (p *Provider) CancelItem(id string) {
	p.setState(id, model.StateCancelled, func(s model.State) bool {
		return s != model.StateComplete && s != model.StateCancelled
	})
}

func onlyFrom(from model.State) func(model.State) bool {
	return func(s model.State) bool { return s == from }
}

func (p *Provider) setState(id string, to model.State, allowed func(model.State) bool) {
	old, ok := p.items[id]
	if !ok || !allowed(old.State) {
		return
	}
	updated := old
	updated.State = to
	if err := p.upsert(context.Background(), updated); err != nil {
		return
	}
	p.items[id] = updated
	p.NotifyItemUpdated(old, updated)
}

// ShareInfo replies synchronously: share payloads derive from stored fields.
// Unknown or unsharable items reply with nil info.
func (p *Provider) ShareInfo(id string, reply func(id string, info *model.ShareInfo)) {
	it, ok := p.items[id]
	if !ok {
		reply(id, nil)
		return
	}
	info := &model.ShareInfo{Text: it.Title}
	switch {
	case it.FilePath != "":
		info.URI = "file://" + it.FilePath
	case it.PageURL != "":
		info.URI = it.PageURL
	default:
		reply(id, nil)
		return
	}
	reply(id, info)
}

// TotalSizeBytes sums the stored size of all items (storage summary header).
func (p *Provider) TotalSizeBytes() int64 {
	var total int64
	for _, it := range p.items {
		total += it.TotalSizeBytes
	}
	return total
}

// Get returns a stored item by id.
func (p *Provider) Get(id string) (model.OfflineItem, bool) {
	it, ok := p.items[id]
	return it, ok
}

var ErrNotFound = errors.New("store: item not found")

func boolInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
