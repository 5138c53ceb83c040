package cli

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	colorRed    = lipgloss.AdaptiveColor{Light: "#cc0000", Dark: "#ff5555"}
	colorGreen  = lipgloss.AdaptiveColor{Light: "#008000", Dark: "#50fa7b"}
	colorYellow = lipgloss.AdaptiveColor{Light: "#b8860b", Dark: "#f1fa8c"}
	colorGray   = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#888888"}
	colorCyan   = lipgloss.AdaptiveColor{Light: "#008b8b", Dark: "#00ffff"}
)

// Style definitions
var (
	styleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorCyan)

	styleHeader = lipgloss.NewStyle().
			Bold(true).
			Underline(true)

	styleKey = lipgloss.NewStyle().
			Bold(true)

	styleSuccess = lipgloss.NewStyle().
			Foreground(colorGreen)

	styleError = lipgloss.NewStyle().
			Foreground(colorRed)

	styleWarning = lipgloss.NewStyle().
			Foreground(colorYellow)

	styleSubtle = lipgloss.NewStyle().
			Foreground(colorGray)
)

// pad renders s left-aligned in a cell of the given width. Longer
// strings are returned as is, never wrapped.
func pad(s string, width int) string {
	if lipgloss.Width(s) >= width {
		return s
	}
	return lipgloss.NewStyle().Width(width).Render(s)
}
