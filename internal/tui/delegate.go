package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

// compactRowDelegate renders one line per row, highlighting the cursor row.
// Display-only rows (headers, separators, decorations) never get the cursor
// highlight even when the bubbles cursor lands on them.
type compactRowDelegate struct {
	normal   lipgloss.Style
	selected lipgloss.Style
}

func newCompactRowDelegate() compactRowDelegate {
	return compactRowDelegate{
		normal: lipgloss.NewStyle(),
		selected: lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")).
			Background(lipgloss.Color("236")).
			Bold(true),
	}
}

func (d compactRowDelegate) Height() int  { return 1 }
func (d compactRowDelegate) Spacing() int { return 0 }
func (d compactRowDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

func (d compactRowDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	contentW := m.Width()
	if contentW < 4 {
		fmt.Fprint(w, "")
		return
	}

	style := d.normal
	row, isRow := item.(listRow)
	if index == m.Index() && (!isRow || row.selectable()) {
		style = d.selected
	}

	txt := ""
	if t, ok := item.(interface{ Title() string }); ok {
		txt = t.Title()
	} else {
		txt = fmt.Sprint(item)
	}

	line := txt
	lineW := xansi.StringWidth(line)
	if lineW < contentW {
		line += strings.Repeat(" ", contentW-lineW)
	} else if lineW > contentW {
		line = xansi.Cut(line, 0, contentW)
	}

	fmt.Fprint(w, style.Render(line))
}
