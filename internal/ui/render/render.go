// Package render prints daemon status and inspected objects for humans.
package render

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"go.trai.ch/unitstat/internal/core/ports"
	"go.trai.ch/unitstat/internal/ui/output"
	"go.trai.ch/unitstat/internal/ui/style"
)

// Status prints the daemon summary followed by one line per published name.
func Status(w io.Writer, st *ports.DaemonStatus) error {
	s := style.New(output.Renderer(w))

	var b strings.Builder
	b.WriteString(s.Header.Render(fmt.Sprintf("unitstat daemon pid %d, up %s", st.PID, st.Uptime.Round(time.Second))))
	b.WriteString("\n")

	if len(st.Published) == 0 {
		b.WriteString(s.Muted.Render("nothing published"))
		b.WriteString("\n")
	}
	for _, name := range st.Published {
		b.WriteString(s.Loaded.Render(style.Dot))
		b.WriteString(" ")
		b.WriteString(name)
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// Object prints the attributes of one inspected object as an aligned key/value list.
func Object(w io.Writer, name string, attrs map[string]any) error {
	s := style.New(output.Renderer(w))
	keys := slices.Sorted(maps.Keys(attrs))

	width := 0
	for _, k := range keys {
		width = max(width, lipgloss.Width(k))
	}
	key := s.Dead.Width(width + 2)

	var b strings.Builder
	b.WriteString(s.Header.Render(name))
	b.WriteString("\n")
	for _, k := range keys {
		b.WriteString("  ")
		b.WriteString(key.Render(k))
		b.WriteString(formatValue(attrs[k]))
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func formatValue(v any) string {
	switch val := v.(type) {
	case []any:
		parts := make([]string, len(val))
		for i, p := range val {
			parts[i] = formatValue(p)
		}
		return strings.Join(parts, ", ")
	case float64:
		// Numbers arrive as float64 from structpb; print integral values without a fraction.
		if val == float64(int64(val)) {
			return fmt.Sprintf("%d", int64(val))
		}
		return fmt.Sprintf("%g", val)
	case nil:
		return "-"
	default:
		return fmt.Sprintf("%v", val)
	}
}
