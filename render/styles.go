package render

import "github.com/charmbracelet/lipgloss"

var (
	colorPass   = lipgloss.Color("#10b981") // green-500
	colorFail   = lipgloss.Color("#ef4444") // red-500
	colorDim    = lipgloss.Color("#6b7280") // gray-500
	colorMuted  = lipgloss.Color("#9ca3af") // gray-400
	colorBorder = lipgloss.Color("#374151") // gray-700
	colorAccent = lipgloss.Color("#3b82f6") // blue-500
)

// Styles holds the lipgloss styles used for table output.
type Styles struct {
	Header lipgloss.Style
	Cell   lipgloss.Style
	Border lipgloss.Style
	Dim    lipgloss.Style
	Muted  lipgloss.Style
	Pass   lipgloss.Style
	Fail   lipgloss.Style

	SymbolPass string
	SymbolFail string
	// Absent renders nil optional properties.
	Absent string
}

// DefaultStyles returns the default styles.
func DefaultStyles() *Styles {
	return &Styles{
		Header: lipgloss.NewStyle().Foreground(colorAccent).Bold(true).Padding(0, 1),
		Cell:   lipgloss.NewStyle().Padding(0, 1),
		Border: lipgloss.NewStyle().Foreground(colorBorder),
		Dim:    lipgloss.NewStyle().Foreground(colorDim),
		Muted:  lipgloss.NewStyle().Foreground(colorMuted),
		Pass:   lipgloss.NewStyle().Foreground(colorPass).Bold(true),
		Fail:   lipgloss.NewStyle().Foreground(colorFail).Bold(true),

		SymbolPass: "✓",
		SymbolFail: "✗",
		Absent:     "-",
	}
}
