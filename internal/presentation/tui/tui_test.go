package tui_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/abacus/internal/presentation/tui"
	"github.com/aretw0/abacus/pkg/domain"
)

func TestPanel_Ascii(t *testing.T) {
	panel := tui.NewPanel(termenv.Ascii, tui.DarkTheme)

	s := domain.NewState()
	s.Display = "42"
	s.Equation = "12 + 30 = 42"
	s.Memory = domain.Memory{Value: 42, HasValue: true}

	want := strings.Join([]string{
		"┌──────────────────────────┐",
		"│             12 + 30 = 42 │",
		"│                       42 │",
		"│ DEG M                    │",
		"└──────────────────────────┘",
	}, "\n")
	assert.Equal(t, want, panel(s))
}

func TestPanel_GrowsAndShowsError(t *testing.T) {
	panel := tui.NewPanel(termenv.Ascii, tui.LightTheme)

	s := domain.NewState()
	s.Display = domain.ErrorMarker
	s.Equation = "1234567890 / 0 = Error, really long"
	s.Error = &domain.CalcError{Message: "division by zero", Kind: domain.ErrorKindMath}

	lines := strings.Split(panel(s), "\n")
	require.Len(t, lines, 5)
	for _, l := range lines[1:4] {
		assert.Equal(t, len([]rune(lines[0])), len([]rune(l)), l)
	}
	assert.Contains(t, lines[3], "DEG  division by zero")
}

func TestPanel_Colors(t *testing.T) {
	panel := tui.NewPanel(termenv.TrueColor, tui.DarkTheme)
	assert.Contains(t, panel(domain.NewState()), "\x1b[")
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	tui.PrintBanner(&buf, termenv.Ascii, "0.1.0")

	out := buf.String()
	assert.NotContains(t, out, "\x1b[")
	assert.Contains(t, out, "v0.1.0")
	assert.Contains(t, out, `\__,_|`)
}

func TestRenderer(t *testing.T) {
	for _, dark := range []bool{true, false} {
		render, err := tui.NewRenderer(dark)
		require.NoError(t, err)

		out, err := render("# Keys\n\n- `sin` sine\n")
		require.NoError(t, err)
		assert.Contains(t, out, "Keys")
		assert.Contains(t, out, "sin")
	}
	assert.Equal(t, tui.DarkTheme, tui.ThemeFor(true))
	assert.Equal(t, tui.LightTheme, tui.ThemeFor(false))
}
