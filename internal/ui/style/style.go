// Package style provides the colours, icons and lipgloss styles shared by unitstat's terminal output.
package style

import "github.com/charmbracelet/lipgloss"

// Palette.
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
	Circle  = "○"
)

// Styles groups the lipgloss styles bound to one renderer.
type Styles struct {
	Header lipgloss.Style
	Loaded lipgloss.Style
	Dead   lipgloss.Style
	Count  lipgloss.Style
	Muted  lipgloss.Style

	// Log levels.
	Info lipgloss.Style
	Warn lipgloss.Style
	Fail lipgloss.Style
}

// New returns the styles for the given renderer.
func New(r *lipgloss.Renderer) Styles {
	return Styles{
		Header: r.NewStyle().Bold(true).Foreground(Iris),
		Loaded: r.NewStyle().Foreground(Green),
		Dead:   r.NewStyle().Foreground(Slate),
		Count:  r.NewStyle().Align(lipgloss.Right),
		Muted:  r.NewStyle().Foreground(Slate).Italic(true),
		Info:   r.NewStyle().Foreground(Slate),
		Warn:   r.NewStyle().Foreground(Yellow),
		Fail:   r.NewStyle().Foreground(Red).Bold(true),
	}
}
