// Package style holds the shared colors and icons for terminal output.
package style

import "github.com/charmbracelet/lipgloss"

// Colors.
var (
	Iris   = lipgloss.Color("#8B5CF6")
	Slate  = lipgloss.Color("#667085")
	Green  = lipgloss.Color("#22A06B")
	Red    = lipgloss.Color("#D93025")
	Yellow = lipgloss.Color("#F59E0B")
)

// Icons.
const (
	Check   = "✓"
	Cross   = "✗"
	Warning = "!"
	Dot     = "●"
	Arrow   = "→"
	Plus    = "+"
	Minus   = "-"
)

// Label renders a fixed-width, bold event label in the given color.
func Label(r *lipgloss.Renderer, text string, color lipgloss.Color) string {
	return r.NewStyle().
		Bold(true).
		Foreground(color).
		Width(7).
		Render(text)
}
