package logger_test

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/unitstat/internal/adapters/logger"
)

func newPrettyHandler(t *testing.T, level slog.Level) (*logger.PrettyHandler, *bytes.Buffer) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")

	buf := &bytes.Buffer{}
	return logger.NewPrettyHandler(buf, &slog.HandlerOptions{Level: level}), buf
}

func TestPrettyHandler_Handle_Levels(t *testing.T) {
	tests := []struct {
		name       string
		level      slog.Level
		msg        string
		goldenName string
	}{
		{name: "info level", level: slog.LevelInfo, msg: "information message", goldenName: "handler_info"},
		{name: "warn level", level: slog.LevelWarn, msg: "warning message", goldenName: "handler_warn"},
		{name: "error level", level: slog.LevelError, msg: "error message", goldenName: "handler_error"},
		{name: "debug level filtered", level: slog.LevelDebug, msg: "debug message", goldenName: "handler_debug_filtered"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, buf := newPrettyHandler(t, slog.LevelInfo)
			slog.New(handler).Log(t.Context(), tt.level, tt.msg)

			g := goldie.New(t)
			g.Assert(t, tt.goldenName, buf.Bytes())
		})
	}
}

func TestPrettyHandler_WithAttrs(t *testing.T) {
	tests := []struct {
		name       string
		attrs      []slog.Attr
		msg        string
		goldenName string
	}{
		{
			name:       "single attribute",
			attrs:      []slog.Attr{slog.String("key", "value")},
			msg:        "single attr message",
			goldenName: "handler_attrs_single",
		},
		{
			name:       "multiple attributes",
			attrs:      []slog.Attr{slog.String("a", "1"), slog.Int("b", 2)},
			msg:        "multi attr message",
			goldenName: "handler_attrs_multi",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, buf := newPrettyHandler(t, slog.LevelInfo)
			slog.New(handler.WithAttrs(tt.attrs)).Info(tt.msg)

			g := goldie.New(t)
			g.Assert(t, tt.goldenName, buf.Bytes())
		})
	}
}

func TestPrettyHandler_WithGroup(t *testing.T) {
	t.Run("nested groups", func(t *testing.T) {
		handler, buf := newPrettyHandler(t, slog.LevelInfo)
		slog.New(handler.WithGroup("a").WithGroup("b")).Info("nested group message", "key", "val")

		g := goldie.New(t)
		g.Assert(t, "handler_group_nested", buf.Bytes())
	})

	t.Run("group then attrs", func(t *testing.T) {
		handler, buf := newPrettyHandler(t, slog.LevelInfo)
		h := handler.WithGroup("req").WithAttrs([]slog.Attr{slog.String("id", "123")})
		slog.New(h).Info("grouped message", "extra", "data")

		g := goldie.New(t)
		g.Assert(t, "handler_combined_group", buf.Bytes())
	})

	t.Run("empty name", func(t *testing.T) {
		handler, buf := newPrettyHandler(t, slog.LevelInfo)
		same := handler.WithGroup("")
		assert.Same(t, handler, same)

		slog.New(same).Info("empty group test", "key", "val")

		g := goldie.New(t)
		g.Assert(t, "handler_group_empty", buf.Bytes())
	})
}

func TestPrettyHandler_Enabled(t *testing.T) {
	tests := []struct {
		name         string
		handlerLevel slog.Level
		recordLevel  slog.Level
		wantEnabled  bool
	}{
		{name: "debug below info", handlerLevel: slog.LevelInfo, recordLevel: slog.LevelDebug, wantEnabled: false},
		{name: "info at info", handlerLevel: slog.LevelInfo, recordLevel: slog.LevelInfo, wantEnabled: true},
		{name: "warn above info", handlerLevel: slog.LevelInfo, recordLevel: slog.LevelWarn, wantEnabled: true},
		{name: "warn at error", handlerLevel: slog.LevelError, recordLevel: slog.LevelWarn, wantEnabled: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := logger.NewPrettyHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: tt.handlerLevel})
			assert.Equal(t, tt.wantEnabled, handler.Enabled(t.Context(), tt.recordLevel))
		})
	}
}

func TestPrettyHandler_NilWriter(t *testing.T) {
	require.NotPanics(t, func() {
		_ = logger.NewPrettyHandler(nil, &slog.HandlerOptions{Level: slog.LevelInfo})
	})
}

type brokenWriter struct{}

func (brokenWriter) Write([]byte) (int, error) {
	return 0, errors.New("broken pipe")
}

func TestPrettyHandler_Handle_ReturnsError(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	handler := logger.NewPrettyHandler(brokenWriter{}, &slog.HandlerOptions{Level: slog.LevelInfo})
	record := slog.NewRecord(time.Time{}, slog.LevelInfo, "lost", 0)

	err := handler.Handle(t.Context(), record)
	require.Error(t, err)
}

func TestPrettyHandler_GroupAttrsAreFlattened(t *testing.T) {
	handler, buf := newPrettyHandler(t, slog.LevelInfo)
	slog.New(handler).Info("inventory scanned",
		slog.Group("scan", slog.String("root", "/opt/lib"), slog.Int("units", 3)),
		slog.Group("", slog.Int("records", 3)),
	)

	assert.Equal(t, "inventory scanned (scan.root=/opt/lib, scan.units=3, records=3)\n", buf.String())
}

func TestPrettyHandler_MultilineWarnIsIndented(t *testing.T) {
	handler, buf := newPrettyHandler(t, slog.LevelInfo)
	slog.New(handler).Warn("skipping search path element\nroot is not readable", "root", "/opt/lib")

	assert.Equal(t, "! skipping search path element (root=/opt/lib)\n  root is not readable\n", buf.String())
}
