package ui

import "github.com/charmbracelet/lipgloss"

const (
	pathColorConstant      = "5"
	referenceColorConstant = "4"
	failureColorConstant   = "1"
	mutedColorConstant     = "8"
)

// Theme groups the styles used for tracking reports.
type Theme struct {
	Header    lipgloss.Style
	Path      lipgloss.Style
	Reference lipgloss.Style
	Failure   lipgloss.Style
	Muted     lipgloss.Style
}

// NewTheme builds the default report theme bound to renderer.
// A renderer whose output is not a terminal renders every style as plain text.
func NewTheme(renderer *lipgloss.Renderer) Theme {
	if renderer == nil {
		renderer = lipgloss.DefaultRenderer()
	}
	return Theme{
		Header:    renderer.NewStyle().Bold(true),
		Path:      renderer.NewStyle().Bold(true).Foreground(lipgloss.Color(pathColorConstant)),
		Reference: renderer.NewStyle().Foreground(lipgloss.Color(referenceColorConstant)),
		Failure:   renderer.NewStyle().Foreground(lipgloss.Color(failureColorConstant)),
		Muted:     renderer.NewStyle().Foreground(lipgloss.Color(mutedColorConstant)),
	}
}
