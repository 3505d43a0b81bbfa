package ui

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorPrimary = lipgloss.Color("#7C3AED")
	colorAccent  = lipgloss.Color("#06B6D4")
	colorSuccess = lipgloss.Color("#10B981")
	colorError   = lipgloss.Color("#EF4444")
	colorMuted   = lipgloss.Color("#6B7280")
)

// Styles groups the text styles used by the REPL
type Styles struct {
	Title  lipgloss.Style
	Intent lipgloss.Style
	Score  lipgloss.Style
	Key    lipgloss.Style
	Reply  lipgloss.Style
	Error  lipgloss.Style
	Muted  lipgloss.Style
}

// NewStyles builds styles rendered for w. With color disabled every style
// renders text unchanged.
func NewStyles(w io.Writer, color bool) Styles {
	r := lipgloss.NewRenderer(w)
	if !color {
		plain := r.NewStyle()
		return Styles{Title: plain, Intent: plain, Score: plain, Key: plain, Reply: plain, Error: plain, Muted: plain}
	}
	return Styles{
		Title:  r.NewStyle().Foreground(colorPrimary).Bold(true),
		Intent: r.NewStyle().Foreground(colorAccent).Bold(true),
		Score:  r.NewStyle().Foreground(colorMuted),
		Key:    r.NewStyle().Foreground(colorPrimary),
		Reply:  r.NewStyle().Foreground(colorSuccess),
		Error:  r.NewStyle().Foreground(colorError),
		Muted:  r.NewStyle().Foreground(colorMuted),
	}
}
