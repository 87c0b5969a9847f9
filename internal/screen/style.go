package screen

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Style describes how a run of cells is painted. The zero value renders
// with the terminal defaults. Styles are compared by value when
// coalescing runs at flush time, so the struct must stay comparable.
type Style struct {
	FG      string // ANSI 256 color code or hex, empty for default
	BG      string
	Bold    bool
	Reverse bool
}

// render applies the style to a run of text.
func (s Style) render(text string) string {
	if s == (Style{}) {
		return text
	}
	st := lipgloss.NewStyle()
	if s.FG != "" {
		st = st.Foreground(lipgloss.Color(s.FG))
	}
	if s.BG != "" {
		st = st.Background(lipgloss.Color(s.BG))
	}
	if s.Bold {
		st = st.Bold(true)
	}
	if s.Reverse {
		st = st.Reverse(true)
	}
	return st.Render(text)
}

// DetectProfile pins the lipgloss color profile to what the environment
// supports (honors NO_COLOR). Call once at startup, before any flush.
func DetectProfile() {
	lipgloss.SetColorProfile(termenv.EnvColorProfile())
}

// DisableColor forces plain output regardless of terminal capabilities.
func DisableColor() {
	lipgloss.SetColorProfile(termenv.Ascii)
}
