// Package style provides shared UI styling primitives including brand colors
// and icons for consistent visual presentation across the CLI.
package style

import "github.com/charmbracelet/lipgloss"

// Brand Colors.
var (
	Ember  = lipgloss.Color("#EA580C")
	Slate  = lipgloss.Color("#667085")
	Ash    = lipgloss.Color("#98A2B3")
	Green  = lipgloss.Color("#22A06B")
	Red    = lipgloss.Color("#D93025")
	Yellow = lipgloss.Color("#F59E0B")
)

// Icons.
const (
	Check   = "✓"
	Cross   = "✗"
	Warning = "!"
	Arrow   = "→"
	Dot     = "●"
)

// Label renders a bold brand-colored label, e.g. for server banners.
func Label(s string) string {
	return lipgloss.NewStyle().Bold(true).Foreground(Ember).Render(s)
}
