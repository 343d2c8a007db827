// Package tui holds terminal presentation for the abacus REPL: the banner,
// the colored display panel and markdown rendering for help.
package tui

import (
	"strings"
	"unicode/utf8"

	"github.com/muesli/termenv"

	"github.com/aretw0/abacus/pkg/domain"
	"github.com/aretw0/abacus/pkg/runner"
)

// Theme is the palette of the display panel.
type Theme struct {
	Border    string
	Equation  string
	Display   string
	Indicator string
	Error     string
}

var (
	DarkTheme = Theme{
		Border:    "#475569",
		Equation:  "#94a3b8",
		Display:   "#f8fafc",
		Indicator: "#2dd4bf",
		Error:     "#f87171",
	}
	LightTheme = Theme{
		Border:    "#94a3b8",
		Equation:  "#475569",
		Display:   "#0f172a",
		Indicator: "#0d9488",
		Error:     "#dc2626",
	}
)

// ThemeFor picks the palette matching the dark mode preference.
func ThemeFor(dark bool) Theme {
	if dark {
		return DarkTheme
	}
	return LightTheme
}

const minPanelWidth = 24

// NewPanel returns a runner.PanelRenderer drawing a boxed display:
//
//	┌──────────────────────────┐
//	│             12 + 30 = 42 │
//	│                       42 │
//	│ DEG M                    │
//	└──────────────────────────┘
func NewPanel(p termenv.Profile, theme Theme) runner.PanelRenderer {
	return func(s *domain.State) string {
		status := runner.Indicators(s)
		if s.Error != nil {
			status += "  " + s.Error.Message
		}

		width := minPanelWidth
		for _, t := range []string{s.Equation, s.Display, status} {
			width = max(width, utf8.RuneCountInString(t))
		}

		border := func(t string) string {
			return p.String(t).Foreground(p.Color(theme.Border)).String()
		}
		row := func(text string, right bool, style termenv.Style) string {
			pad := strings.Repeat(" ", width-utf8.RuneCountInString(text))
			styled := style.Styled(text)
			if right {
				styled = pad + styled
			} else {
				styled += pad
			}
			return border("│ ") + styled + border(" │")
		}

		displayStyle := p.String().Foreground(p.Color(theme.Display)).Bold()
		if s.Error != nil {
			displayStyle = p.String().Foreground(p.Color(theme.Error)).Bold()
		}
		statusStyle := p.String().Foreground(p.Color(theme.Indicator))

		lines := []string{
			border("┌" + strings.Repeat("─", width+2) + "┐"),
			row(s.Equation, true, p.String().Foreground(p.Color(theme.Equation))),
			row(s.Display, true, displayStyle),
			row(status, false, statusStyle),
			border("└" + strings.Repeat("─", width+2) + "┘"),
		}
		return strings.Join(lines, "\n")
	}
}
