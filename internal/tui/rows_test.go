package tui

import (
	"strings"
	"testing"
	"time"

	itemlist "downhome-cli/internal/list"
	"downhome-cli/internal/model"
)

// Rendering tests assert on content, not styling; styles collapse to plain
// text without a terminal.

var testNow = time.Date(2024, 3, 5, 12, 0, 0, 0, time.Local)

func TestDateLabel(t *testing.T) {
	t.Parallel()

	day := func(daysAgo int) time.Time {
		return itemlist.DayOf(testNow).AddDate(0, 0, -daysAgo)
	}

	cases := []struct {
		name string
		day  time.Time
		want string
	}{
		{"today", day(0), "Today"},
		{"yesterday", day(1), "Yesterday"},
		{"same year", day(30), "Sun, Feb 4"},
		{"other year", time.Date(2023, 12, 31, 0, 0, 0, 0, time.Local), "Dec 31, 2023"},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := dateLabel(tc.day, testNow); got != tc.want {
				t.Fatalf("dateLabel = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestSectionHeaderRendering(t *testing.T) {
	t.Parallel()

	day := itemlist.DayOf(testNow)
	h := itemlist.SectionHeader{Type: model.FilterImages, Date: day, ShowDate: true}
	out := renderSectionHeader(h, testNow)
	if !strings.Contains(out, "Today") || !strings.Contains(out, "Images") {
		t.Fatalf("header = %q", out)
	}

	h.IsJustNow = true
	if out := renderSectionHeader(h, testNow); !strings.Contains(out, "Just now") {
		t.Fatalf("just-now header = %q", out)
	}

	h = itemlist.SectionHeader{Type: model.FilterVideos, Date: day, ShowDivider: true}
	out = renderSectionHeader(h, testNow)
	if strings.Contains(out, "Today") {
		t.Fatalf("divider header repeats the date: %q", out)
	}
	if !strings.Contains(out, "Videos") {
		t.Fatalf("divider header = %q", out)
	}
}

func TestItemRowRendering(t *testing.T) {
	t.Parallel()

	it := model.OfflineItem{
		ID:             "a",
		Title:          "Vacation album",
		Category:       model.CategoryImage,
		State:          model.StateInProgress,
		TotalSizeBytes: 1000,
		ReceivedBytes:  250,
		PageURL:        "https://photos.example.com/album/1",
		CreatedAt:      testNow,
	}
	out := renderItemRow(itemlist.OfflineItemRow{Item: it}, false)
	for _, want := range []string{"Vacation album", "downloading 25%", "photos.example.com"} {
		if !strings.Contains(out, want) {
			t.Fatalf("row %q missing %q", out, want)
		}
	}

	it.State = model.StateComplete
	it.Title = "   "
	out = renderItemRow(itemlist.OfflineItemRow{Item: it}, false)
	if !strings.Contains(out, "(untitled)") {
		t.Fatalf("blank title not substituted: %q", out)
	}
	if strings.Contains(out, "downloading") {
		t.Fatalf("completed item shows progress: %q", out)
	}
}

func TestItemRowSelectionMarks(t *testing.T) {
	t.Parallel()

	row := itemlist.OfflineItemRow{Item: model.OfflineItem{Title: "clip", CreatedAt: testNow}}

	if out := renderItemRow(row, false); strings.Contains(out, glyphUnselected()) {
		t.Fatalf("unselected glyph outside selection mode: %q", out)
	}
	if out := renderItemRow(row, true); !strings.Contains(out, glyphUnselected()) {
		t.Fatalf("selection mode row missing the hollow mark: %q", out)
	}

	row.Selected = true
	if out := renderItemRow(row, true); !strings.Contains(out, glyphSelected()) {
		t.Fatalf("selected row missing the mark: %q", out)
	}
}

func TestFilterLabels(t *testing.T) {
	t.Parallel()

	if got := filterLabel(model.FilterPrefetched); got != "Explore" {
		t.Fatalf("prefetched label = %q", got)
	}
	if got := filterLabel(model.FilterNone); got != "All" {
		t.Fatalf("none label = %q", got)
	}
	if got := filterLabel(model.FilterType("weird")); got != "Other" {
		t.Fatalf("fallback label = %q", got)
	}
}

func TestListRowSelectableAndFilterValue(t *testing.T) {
	t.Parallel()

	item := listRow{item: itemlist.OfflineItemRow{Item: model.OfflineItem{Title: "clip"}}, now: testNow}
	if !item.selectable() || item.FilterValue() != "clip" {
		t.Fatalf("item row: selectable=%t filter=%q", item.selectable(), item.FilterValue())
	}

	header := listRow{item: itemlist.SectionHeader{Type: model.FilterVideos}, now: testNow}
	if header.selectable() || header.FilterValue() != "" {
		t.Fatalf("header row: selectable=%t filter=%q", header.selectable(), header.FilterValue())
	}

	sep := listRow{item: itemlist.Separator{DateDivider: true}, now: testNow}
	if sep.selectable() {
		t.Fatalf("separator is selectable")
	}
}

func TestHostOf(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"https://example.com/a/b?q=1": "example.com",
		"http://example.com":          "example.com",
		"file:///tmp/a.png":           "",
		"not a url":                   "",
		"":                            "",
	}
	for in, want := range cases {
		if got := hostOf(in); got != want {
			t.Fatalf("hostOf(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestRenderStorageSummary(t *testing.T) {
	t.Parallel()

	one := renderDecoration(itemlist.ViewItem{ID: headerIDStorage, Content: storageSummary{usedBytes: 2048, itemCount: 1}})
	if !strings.Contains(one, "used") || !strings.Contains(one, "1 download") {
		t.Fatalf("summary = %q", one)
	}
	many := renderDecoration(itemlist.ViewItem{ID: headerIDStorage, Content: storageSummary{usedBytes: 0, itemCount: 3}})
	if !strings.Contains(many, "3 downloads") {
		t.Fatalf("summary = %q", many)
	}
}

func TestRenderFilterChips(t *testing.T) {
	t.Parallel()

	out := renderDecoration(itemlist.ViewItem{ID: headerIDChips, Content: filterChips{selected: model.FilterVideos}})
	for _, label := range []string{"All", "Videos", "Explore"} {
		if !strings.Contains(out, label) {
			t.Fatalf("chips %q missing %q", out, label)
		}
	}
}
