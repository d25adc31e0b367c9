package telemetry

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/unitstat/internal/core/ports"
)

// Bridge implements sdktrace.SpanProcessor to report finished spans through a Logger.
// It is installed by long running commands so the daemon log shows scan and export activity.
type Bridge struct {
	logger ports.Logger
}

// NewBridge returns a new Bridge.
func NewBridge(logger ports.Logger) *Bridge {
	return &Bridge{logger: logger}
}

// OnStart does nothing.
func (b *Bridge) OnStart(_ context.Context, _ sdktrace.ReadWriteSpan) {}

// OnEnd logs the span name, duration and attributes.
func (b *Bridge) OnEnd(s sdktrace.ReadOnlySpan) {
	if b.logger == nil || !s.SpanContext().IsValid() {
		return
	}

	var attrs strings.Builder
	for _, kv := range s.Attributes() {
		fmt.Fprintf(&attrs, " %s=%s", kv.Key, kv.Value.Emit())
	}

	elapsed := s.EndTime().Sub(s.StartTime())
	if s.Status().Code == codes.Error {
		desc := s.Status().Description
		if desc == "" {
			desc = "failed"
		}
		b.logger.Warn(fmt.Sprintf("%s failed after %s:%s: %s", s.Name(), elapsed, attrs.String(), desc))
		return
	}
	b.logger.Info(fmt.Sprintf("%s finished in %s%s", s.Name(), elapsed, attrs.String()))
}

// ForceFlush does nothing.
func (b *Bridge) ForceFlush(_ context.Context) error {
	return nil
}

// Shutdown does nothing.
func (b *Bridge) Shutdown(_ context.Context) error {
	return nil
}
