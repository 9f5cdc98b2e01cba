package tui

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme/palette helpers.
//
// The TUI must stay readable on both light and dark terminal backgrounds, so
// colors are lipgloss.AdaptiveColor pairs and "faint" styling is only applied
// on dark backgrounds (faint text on light terminals often becomes illegible).

func ac(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

func faintIfDark(st lipgloss.Style) lipgloss.Style {
	if lipgloss.HasDarkBackground() {
		return st.Faint(true)
	}
	return st
}

var (
	colorMuted    lipgloss.TerminalColor = ac("240", "243")
	colorSubtleFg lipgloss.TerminalColor = ac("241", "245")

	colorSelectedBg lipgloss.TerminalColor = ac("#e9e9e9", "#262626")
	colorSelectedFg lipgloss.TerminalColor = ac("235", "255")

	colorSurfaceFg lipgloss.TerminalColor = ac("235", "252")
	colorControlBg lipgloss.TerminalColor = ac("252", "235")

	colorAccent lipgloss.TerminalColor = ac("27", "62") // blue

	// Section/date heading foregrounds.
	colorHeadingFg lipgloss.TerminalColor = ac("240", "245")

	// Download state accents.
	colorStateActive lipgloss.TerminalColor = lipgloss.Color("#5f9fb0")
	colorStateDanger lipgloss.TerminalColor = lipgloss.Color("#d16d7a")
	colorStateDone   lipgloss.TerminalColor = lipgloss.Color("#6c757d")
	colorStateHold   lipgloss.TerminalColor = lipgloss.Color("#f39c12")

	// Marker for rows in the multi-select set.
	colorSelectMark lipgloss.TerminalColor = ac("27", "75")
)

func styleMuted() lipgloss.Style {
	return faintIfDark(lipgloss.NewStyle().Foreground(colorMuted))
}

func styleHeading() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(colorHeadingFg).Bold(true)
}

// applyColorProfilePreference sets Lip Gloss's color profile for the TUI.
// Only NO_COLOR is honored; otherwise the terminal's capabilities decide
// (CLICOLOR heuristics are for non-interactive output, not a TUI).
func applyColorProfilePreference() {
	if strings.TrimSpace(os.Getenv("NO_COLOR")) != "" {
		lipgloss.SetColorProfile(termenv.Ascii)
		return
	}

	profile := termenv.ColorProfile()
	term := strings.ToLower(strings.TrimSpace(os.Getenv("TERM")))
	colorterm := strings.ToLower(strings.TrimSpace(os.Getenv("COLORTERM")))
	if strings.Contains(colorterm, "truecolor") || strings.Contains(colorterm, "24bit") {
		if profile != termenv.Ascii {
			profile = termenv.TrueColor
		}
	} else if strings.Contains(term, "256color") && (profile == termenv.Ascii || profile == termenv.ANSI) {
		profile = termenv.ANSI256
	}
	lipgloss.SetColorProfile(profile)
}

// applyThemePreference configures background detection. Some terminals don't
// report their background, which makes AdaptiveColor pick the wrong variant.
//
// Priority: explicit config value, then DOWNHOME_TUI_THEME, then COLORFGBG.
func applyThemePreference(configured string) {
	pick := func(v string) bool {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "light":
			lipgloss.SetHasDarkBackground(false)
			return true
		case "dark":
			lipgloss.SetHasDarkBackground(true)
			return true
		}
		return false
	}
	if pick(configured) {
		return
	}
	if pick(os.Getenv("DOWNHOME_TUI_THEME")) {
		return
	}

	// COLORFGBG is usually "fg;bg" (sometimes more segments); last segment
	// is the background color index.
	if v := strings.TrimSpace(os.Getenv("COLORFGBG")); v != "" {
		parts := strings.Split(v, ";")
		if bg, err := strconv.Atoi(strings.TrimSpace(parts[len(parts)-1])); err == nil {
			lipgloss.SetHasDarkBackground(bg < 7)
		}
	}
}

type glyphSet int

const (
	glyphSetUnicode glyphSet = iota
	glyphSetASCII
)

var activeGlyphs = glyphSetUnicode

func applyGlyphPreference(configured string) {
	switch strings.ToLower(strings.TrimSpace(configured)) {
	case "ascii":
		activeGlyphs = glyphSetASCII
	case "unicode":
		activeGlyphs = glyphSetUnicode
	}
}

func glyphSelected() string {
	if activeGlyphs == glyphSetASCII {
		return "*"
	}
	return "●"
}

func glyphUnselected() string {
	if activeGlyphs == glyphSetASCII {
		return "-"
	}
	return "○"
}

func glyphDivider() string {
	if activeGlyphs == glyphSetASCII {
		return "-"
	}
	return "─"
}
