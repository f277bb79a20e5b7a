package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nibzard/tasklist/internal/theme"
)

// styles holds the lipgloss styles for one theme.
type styles struct {
	App      lipgloss.Style
	Title    lipgloss.Style
	Header   lipgloss.Style
	Active   lipgloss.Style
	Item     lipgloss.Style
	Selected lipgloss.Style
	Done     lipgloss.Style
	Muted    lipgloss.Style
	Invalid  lipgloss.Style
	Field    lipgloss.Style
	Focused  lipgloss.Style
}

type palette struct {
	bg, fg, accent, muted, done, invalid, selBg string
}

var (
	lightPalette = palette{bg: "#f4f4f4", fg: "#222222", accent: "#2f6fdb", muted: "#777777", done: "#2e8b57", invalid: "#c0392b", selBg: "#dde7fb"}
	darkPalette  = palette{bg: "#121212", fg: "#e6e6e6", accent: "#8ab4f8", muted: "#9a9a9a", done: "#81c995", invalid: "#f28b82", selBg: "#2a3550"}
)

func newStyles(t theme.Theme) styles {
	p := lightPalette
	if t.Dark {
		p = darkPalette
	}
	base := lipgloss.NewStyle().Foreground(lipgloss.Color(p.fg))
	return styles{
		App:      lipgloss.NewStyle().Background(lipgloss.Color(p.bg)).Foreground(lipgloss.Color(p.fg)).Padding(1, 2),
		Title:    base.Bold(true).Foreground(lipgloss.Color(p.accent)),
		Header:   base.Bold(true),
		Active:   base.Bold(true).Underline(true).Foreground(lipgloss.Color(p.accent)),
		Item:     base,
		Selected: base.Background(lipgloss.Color(p.selBg)).Bold(true),
		Done:     lipgloss.NewStyle().Foreground(lipgloss.Color(p.done)).Strikethrough(true),
		Muted:    lipgloss.NewStyle().Foreground(lipgloss.Color(p.muted)),
		Invalid:  lipgloss.NewStyle().Foreground(lipgloss.Color(p.invalid)),
		Field:    base,
		Focused:  base.Bold(true).Foreground(lipgloss.Color(p.accent)),
	}
}
