package list

import (
	"testing"
	"time"

	"downhome-cli/internal/model"
)

func TestStableIDs(t *testing.T) {
	t.Parallel()

	day := time.Date(2024, 3, 5, 0, 0, 0, 0, time.Local)
	created := day.Add(9 * time.Hour)

	a := OfflineItemRow{Item: model.OfflineItem{ID: "x", CreatedAt: created}}
	// Presentation flags never change identity.
	b := OfflineItemRow{Item: model.OfflineItem{ID: "x", CreatedAt: created}, Selected: true, SpanFullWidth: true}
	if a.StableID() != b.StableID() {
		t.Fatalf("row id changed with presentation flags")
	}

	other := OfflineItemRow{Item: model.OfflineItem{ID: "y", CreatedAt: created}}
	if a.StableID() == other.StableID() {
		t.Fatalf("distinct items share an id")
	}

	moved := OfflineItemRow{Item: model.OfflineItem{ID: "x", CreatedAt: created.Add(24 * time.Hour)}}
	if a.StableID() == moved.StableID() {
		t.Fatalf("same item in a different day bucket should get a new id")
	}

	h1 := SectionHeader{Type: model.FilterImages, Date: day}
	h2 := SectionHeader{Type: model.FilterImages, Date: day, ShowDate: true, IsJustNow: true}
	if h1.StableID() != h2.StableID() {
		t.Fatalf("header id changed with display flags")
	}
	h3 := SectionHeader{Type: model.FilterVideos, Date: day}
	if h1.StableID() == h3.StableID() {
		t.Fatalf("headers of different sections share an id")
	}

	sectionDiv := Separator{Date: day, After: model.FilterVideos}
	dateDiv := Separator{Date: day, DateDivider: true}
	if sectionDiv.StableID() == dateDiv.StableID() {
		t.Fatalf("section and date dividers share an id")
	}
	otherDiv := Separator{Date: day, After: model.FilterImages}
	if sectionDiv.StableID() == otherDiv.StableID() {
		t.Fatalf("dividers after different sections share an id")
	}
}

func TestDayOf(t *testing.T) {
	t.Parallel()

	late := time.Date(2024, 3, 5, 23, 59, 59, 0, time.Local)
	early := time.Date(2024, 3, 5, 0, 0, 1, 0, time.Local)
	if !DayOf(late).Equal(DayOf(early)) {
		t.Fatalf("same calendar day truncated to different buckets")
	}
	if DayOf(late).Equal(DayOf(late.Add(time.Second))) {
		t.Fatalf("midnight boundary not respected")
	}
}
