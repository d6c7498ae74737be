// Package tui draws navigation trees for terminals: a static lipgloss tree
// for navctl tree and an interactive bubbletea sidebar for navctl browse.
package tui

import "github.com/charmbracelet/lipgloss"

const (
	colorBlue     lipgloss.Color = "#89b4fa"
	colorGreen    lipgloss.Color = "#a6e3a1"
	colorPeach    lipgloss.Color = "#fab387"
	colorYellow   lipgloss.Color = "#f9e2af"
	colorRed      lipgloss.Color = "#f38ba8"
	colorSubtext0 lipgloss.Color = "#a6adc8"
	colorOverlay0 lipgloss.Color = "#6c7086"
	colorLavender lipgloss.Color = "#b4befe"
)

// Theme holds the styles used by every view. Styles are bound to a renderer so
// output written to a pipe or a file carries no escape sequences.
type Theme struct {
	Title    lipgloss.Style
	Branch   lipgloss.Style
	Group    lipgloss.Style
	Link     lipgloss.Style
	Active   lipgloss.Style
	External lipgloss.Style
	URL      lipgloss.Style
	Cursor   lipgloss.Style
	Warning  lipgloss.Style
	Error    lipgloss.Style
	Help     lipgloss.Style
}

// NewTheme builds the default palette on r. A nil renderer uses lipgloss'
// default renderer (stdout).
func NewTheme(r *lipgloss.Renderer) Theme {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	return Theme{
		Title:    r.NewStyle().Bold(true).Foreground(colorBlue),
		Branch:   r.NewStyle().Foreground(colorOverlay0),
		Group:    r.NewStyle().Bold(true).Foreground(colorLavender),
		Link:     r.NewStyle(),
		Active:   r.NewStyle().Bold(true).Foreground(colorGreen),
		External: r.NewStyle().Foreground(colorPeach),
		URL:      r.NewStyle().Foreground(colorSubtext0),
		Cursor:   r.NewStyle().Bold(true).Foreground(colorBlue),
		Warning:  r.NewStyle().Foreground(colorYellow),
		Error:    r.NewStyle().Bold(true).Foreground(colorRed),
		Help:     r.NewStyle().Faint(true),
	}
}
