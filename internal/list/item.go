package list

import (
	"fmt"
	"hash/fnv"
	"time"

	"downhome-cli/internal/model"
)

// Item is one entry of the flattened download list. Stable ids let the
// rendering layer match entries across rebuilds instead of reconstructing
// every row on each change.
type Item interface {
	StableID() uint64
}

// ViewItem is opaque decorative content owned by the renderer (storage
// summary, filter chips, ...). It is only ever part of the decoration prefix;
// the mutator never produces one.
type ViewItem struct {
	ID      uint64
	Content any
}

func (v ViewItem) StableID() uint64 { return v.ID }

// SectionHeader starts a (date, filter-type) section. The first section of a
// day carries the date header too (ShowDate); later sections of the same day
// render a divider instead.
type SectionHeader struct {
	Type model.FilterType
	Date time.Time // day bucket

	ShowDate    bool
	ShowDivider bool
	// IsJustNow marks today's section when it holds an active download or one
	// that finished moments ago. Display-only; never affects grouping.
	IsJustNow bool
}

func (s SectionHeader) StableID() uint64 {
	return stableHash("section", string(s.Type), dayKey(s.Date))
}

// OfflineItemRow wraps one provider item.
type OfflineItemRow struct {
	Item model.OfflineItem

	// SpanFullWidth is set when this is the sole image of its section.
	SpanFullWidth bool

	Selected bool
	// ShowSelectedAnimation is set only on the transition into the selected
	// state, so renderers animate new selections rather than the whole set.
	ShowSelectedAnimation bool
}

func (r OfflineItemRow) StableID() uint64 {
	return stableHash("item", r.Item.ID, dayKey(DayOf(r.Item.CreatedAt)))
}

// Separator is a thin divider. DateDivider separates two day buckets; a
// section divider separates two sections of the same day and records which
// section it follows so its id stays unique within the day.
type Separator struct {
	Date        time.Time
	After       model.FilterType
	DateDivider bool
}

func (s Separator) StableID() uint64 {
	kind := "section"
	if s.DateDivider {
		kind = "date"
	}
	return stableHash("divider", kind, string(s.After), dayKey(s.Date))
}

// DayOf truncates a timestamp to its local calendar day.
func DayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func dayKey(day time.Time) string {
	return day.Format("2006-01-02")
}

func stableHash(parts ...string) uint64 {
	h := fnv.New64a()
	for _, p := range parts {
		fmt.Fprint(h, p, "\x00")
	}
	return h.Sum64()
}
