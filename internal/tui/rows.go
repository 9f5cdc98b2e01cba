package tui

import (
	"fmt"
	"strings"
	"time"

	itemlist "downhome-cli/internal/list"
	"downhome-cli/internal/model"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

// Decoration header payloads (carried by itemlist.ViewItem).

type storageSummary struct {
	usedBytes int64
	itemCount int
}

type filterChips struct {
	selected model.FilterType
}

const (
	headerIDStorage uint64 = 1
	headerIDChips   uint64 = 2
)

// chipOrder is the cycling order of the filter chip row.
var chipOrder = []model.FilterType{
	model.FilterNone,
	model.FilterSites,
	model.FilterVideos,
	model.FilterMusic,
	model.FilterImages,
	model.FilterDocuments,
	model.FilterOther,
	model.FilterPrefetched,
}

func filterLabel(t model.FilterType) string {
	switch t {
	case model.FilterNone:
		return "All"
	case model.FilterSites:
		return "Sites"
	case model.FilterVideos:
		return "Videos"
	case model.FilterMusic:
		return "Music"
	case model.FilterImages:
		return "Images"
	case model.FilterDocuments:
		return "Documents"
	case model.FilterPrefetched:
		return "Explore"
	default:
		return "Other"
	}
}

// listRow adapts one model entry to the bubbles list. Rendering happens in
// Title(); Description is unused with the compact delegate.
type listRow struct {
	item itemlist.Item
	now  time.Time

	// selectionMode marks unselected item rows with a hollow glyph so the
	// multi-select state is visible on every row, not just selected ones.
	selectionMode bool
}

func (r listRow) stableID() uint64 { return r.item.StableID() }

func (r listRow) FilterValue() string {
	if row, ok := r.item.(itemlist.OfflineItemRow); ok {
		return row.Item.Title
	}
	return ""
}

func (r listRow) Description() string { return "" }

func (r listRow) Title() string {
	switch it := r.item.(type) {
	case itemlist.ViewItem:
		return renderDecoration(it)
	case itemlist.SectionHeader:
		return renderSectionHeader(it, r.now)
	case itemlist.OfflineItemRow:
		return renderItemRow(it, r.selectionMode)
	case itemlist.Separator:
		return styleMuted().Render(strings.Repeat(glyphDivider(), 24))
	default:
		return ""
	}
}

// selectable reports whether the cursor should treat this row as a real
// entry (headers and separators are display-only).
func (r listRow) selectable() bool {
	_, ok := r.item.(itemlist.OfflineItemRow)
	return ok
}

func renderDecoration(v itemlist.ViewItem) string {
	switch c := v.Content.(type) {
	case storageSummary:
		label := fmt.Sprintf("%s used", humanize.Bytes(uint64(max64(c.usedBytes, 0))))
		if c.itemCount == 1 {
			label += "  ·  1 download"
		} else {
			label += fmt.Sprintf("  ·  %d downloads", c.itemCount)
		}
		return styleMuted().Render(label)
	case filterChips:
		parts := make([]string, 0, len(chipOrder))
		active := lipgloss.NewStyle().Foreground(colorSelectedFg).Background(colorSelectedBg).Bold(true).Padding(0, 1)
		idle := lipgloss.NewStyle().Foreground(colorSubtleFg).Padding(0, 1)
		for _, t := range chipOrder {
			if t == c.selected {
				parts = append(parts, active.Render(filterLabel(t)))
			} else {
				parts = append(parts, idle.Render(filterLabel(t)))
			}
		}
		return strings.Join(parts, "")
	default:
		return ""
	}
}

func renderSectionHeader(h itemlist.SectionHeader, now time.Time) string {
	var parts []string
	if h.ShowDate {
		if h.IsJustNow {
			parts = append(parts, styleHeading().Render("Just now"))
		} else {
			parts = append(parts, styleHeading().Render(dateLabel(h.Date, now)))
		}
	}
	parts = append(parts, styleMuted().Render(filterLabel(h.Type)))
	return strings.Join(parts, "  ")
}

func dateLabel(day time.Time, now time.Time) string {
	today := itemlist.DayOf(now)
	switch {
	case day.Equal(today):
		return "Today"
	case day.Equal(today.AddDate(0, 0, -1)):
		return "Yesterday"
	case day.Year() == today.Year():
		return day.Format("Mon, Jan 2")
	default:
		return day.Format("Jan 2, 2006")
	}
}

func renderItemRow(row itemlist.OfflineItemRow, selectionMode bool) string {
	it := row.Item

	mark := " "
	switch {
	case row.Selected:
		mark = lipgloss.NewStyle().Foreground(colorSelectMark).Render(glyphSelected())
	case selectionMode:
		mark = styleMuted().Render(glyphUnselected())
	}

	title := strings.TrimSpace(it.Title)
	if title == "" {
		title = "(untitled)"
	}
	titleStyle := lipgloss.NewStyle()
	if row.SpanFullWidth {
		titleStyle = titleStyle.Bold(true)
	}

	metaParts := make([]string, 0, 4)
	if lbl := stateLabel(it); lbl != "" {
		metaParts = append(metaParts, lbl)
	}
	if it.TotalSizeBytes > 0 {
		metaParts = append(metaParts, styleMuted().Render(humanize.Bytes(uint64(it.TotalSizeBytes))))
	}
	if host := hostOf(it.PageURL); host != "" {
		metaParts = append(metaParts, styleMuted().Render(host))
	}
	meta := ""
	if len(metaParts) > 0 {
		meta = "  " + strings.Join(metaParts, " · ")
	}

	return fmt.Sprintf("%s %s%s", mark, titleStyle.Render(title), meta)
}

func stateLabel(it model.OfflineItem) string {
	switch it.State {
	case model.StateInProgress:
		pct := ""
		if it.TotalSizeBytes > 0 {
			pct = fmt.Sprintf(" %d%%", it.ReceivedBytes*100/it.TotalSizeBytes)
		}
		return lipgloss.NewStyle().Foreground(colorStateActive).Render("downloading" + pct)
	case model.StatePaused:
		return lipgloss.NewStyle().Foreground(colorStateHold).Render("paused")
	case model.StatePending:
		return lipgloss.NewStyle().Foreground(colorStateHold).Render("pending")
	case model.StateInterrupted, model.StateFailed:
		return lipgloss.NewStyle().Foreground(colorStateDanger).Render(string(it.State))
	case model.StateCancelled:
		return lipgloss.NewStyle().Foreground(colorStateDone).Render("cancelled")
	default:
		return ""
	}
}

func hostOf(rawURL string) string {
	rest := rawURL
	if i := strings.Index(rest, "://"); i >= 0 {
		rest = rest[i+3:]
	} else {
		return ""
	}
	if i := strings.IndexAny(rest, "/?#"); i >= 0 {
		rest = rest[:i]
	}
	return rest
}

func max64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
