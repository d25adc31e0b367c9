package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"go.trai.ch/unitstat/internal/ui/output"
	"go.trai.ch/unitstat/internal/ui/style"
)

// causesKey carries the cause chain of a logged error from Logger.Error to the handler.
const causesKey = "causes"

// PrettyHandler renders records for a terminal. The first line holds the level icon, the
// message and the attributes as "(key=value, ...)". Errors logged through Logger.Error
// are followed by their causes.
type PrettyHandler struct {
	w      io.Writer
	mu     *sync.Mutex
	styles style.Styles
	level  slog.Leveler
	attrs  []slog.Attr
	prefix string
}

// NewPrettyHandler creates a PrettyHandler writing to w, or to stderr when w is nil.
func NewPrettyHandler(w io.Writer, opts *slog.HandlerOptions) *PrettyHandler {
	if w == nil {
		w = os.Stderr
	}

	var level slog.Leveler = slog.LevelInfo
	if opts != nil && opts.Level != nil {
		level = opts.Level
	}

	return &PrettyHandler{
		w:      w,
		mu:     &sync.Mutex{},
		styles: style.New(output.Renderer(w)),
		level:  level,
	}
}

// Enabled reports whether the handler handles records at the given level.
func (h *PrettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle writes one record.
//
//nolint:gocritic // slog.Handler interface requires slog.Record by value
func (h *PrettyHandler) Handle(_ context.Context, r slog.Record) error {
	icon, line := h.decorate(r.Level)

	attrs := slices.Clone(h.attrs)
	var causes []errorEntry
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == causesKey {
			causes, _ = a.Value.Any().([]errorEntry)
			return true
		}
		attrs = append(attrs, flatten(h.prefix, a)...)
		return true
	})

	lead := ""
	if icon != "" {
		lead = icon + " "
	}

	var b strings.Builder
	for i, text := range strings.Split(r.Message, "\n") {
		if i > 0 {
			b.WriteString("\n")
			b.WriteString(line.Render(strings.Repeat(" ", lipgloss.Width(lead)) + text))
			continue
		}
		b.WriteString(line.Render(lead + text))
		b.WriteString(h.formatAttrs(attrs))
	}
	b.WriteString("\n")

	if len(causes) > 0 {
		b.WriteString("\n  ")
		b.WriteString(h.styles.Muted.Render("Caused by:"))
		b.WriteString("\n")
		for _, c := range causes {
			b.WriteString(h.formatCause(c))
		}
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, b.String())
	return err
}

// WithAttrs returns a new Handler with the given attributes appended.
func (h *PrettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := h.clone()
	for _, a := range attrs {
		c.attrs = append(c.attrs, flatten(h.prefix, a)...)
	}
	return c
}

// WithGroup returns a new Handler qualifying later attribute keys with name.
// An empty name returns the receiver.
func (h *PrettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	c := h.clone()
	c.prefix = h.prefix + name + "."
	return c
}

func (h *PrettyHandler) clone() *PrettyHandler {
	c := *h
	c.attrs = slices.Clip(h.attrs)
	return &c
}

func (h *PrettyHandler) decorate(level slog.Level) (string, lipgloss.Style) {
	switch {
	case level >= slog.LevelError:
		return style.Cross, h.styles.Fail
	case level >= slog.LevelWarn:
		return style.Warning, h.styles.Warn
	default:
		return "", h.styles.Info
	}
}

// formatAttrs renders " (key=value, ...)" in the order the attributes were added.
func (h *PrettyHandler) formatAttrs(attrs []slog.Attr) string {
	if len(attrs) == 0 {
		return ""
	}
	parts := make([]string, 0, len(attrs))
	for _, a := range attrs {
		parts = append(parts, h.styles.Muted.Render(a.Key+"=")+a.Value.String())
	}
	return " (" + strings.Join(parts, ", ") + ")"
}

// formatCause renders one cause as an arrow line with its metadata; continuation lines are indented.
func (h *PrettyHandler) formatCause(c errorEntry) string {
	var b strings.Builder
	for i, text := range strings.Split(c.Message, "\n") {
		if i > 0 {
			b.WriteString("      " + text + "\n")
			continue
		}
		b.WriteString("    → " + text)
		b.WriteString(h.formatAttrs(metadataAttrs(c.Metadata)))
		b.WriteString("\n")
	}
	return b.String()
}

// flatten resolves a and expands groups into prefixed keys.
func flatten(prefix string, a slog.Attr) []slog.Attr {
	a.Value = a.Value.Resolve()
	if a.Value.Kind() != slog.KindGroup {
		if a.Key == "" {
			return nil
		}
		a.Key = prefix + a.Key
		return []slog.Attr{a}
	}

	inner := prefix
	if a.Key != "" {
		inner = prefix + a.Key + "."
	}
	var out []slog.Attr
	for _, member := range a.Value.Group() {
		out = append(out, flatten(inner, member)...)
	}
	return out
}

// metadataAttrs turns zerr metadata into attributes sorted by key.
func metadataAttrs(md map[string]any) []slog.Attr {
	attrs := make([]slog.Attr, 0, len(md))
	for k, v := range md {
		attrs = append(attrs, slog.Any(k, v))
	}
	slices.SortFunc(attrs, func(a, b slog.Attr) int {
		return strings.Compare(a.Key, b.Key)
	})
	return attrs
}
