package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/prcl/internal/core/ports"
)

// Bridge implements sdktrace.SpanProcessor to report finished spans as debug log lines.
type Bridge struct {
	logger ports.Logger
}

// NewBridge returns a new Bridge.
func NewBridge(logger ports.Logger) *Bridge {
	return &Bridge{
		logger: logger,
	}
}

// OnStart does nothing. Spans are reported once they end.
func (b *Bridge) OnStart(_ context.Context, _ sdktrace.ReadWriteSpan) {}

// OnEnd logs the span name, its duration and its failure if any.
func (b *Bridge) OnEnd(s sdktrace.ReadOnlySpan) {
	if b.logger == nil {
		return
	}

	sc := s.SpanContext()
	if !sc.IsValid() {
		return
	}

	took := s.EndTime().Sub(s.StartTime()).Round(time.Microsecond)
	msg := fmt.Sprintf("%s took %s", describe(s), took)
	if s.Status().Code == codes.Error {
		desc := s.Status().Description
		if desc == "" {
			desc = "span failed"
		}
		msg += " (" + desc + ")"
	}
	b.logger.Debug(msg)
}

// ForceFlush does nothing.
func (b *Bridge) ForceFlush(_ context.Context) error {
	return nil
}

// Shutdown does nothing.
func (b *Bridge) Shutdown(_ context.Context) error {
	return nil
}

// describe names a span after its path or entry attribute when it has one.
func describe(s sdktrace.ReadOnlySpan) string {
	for _, kv := range s.Attributes() {
		switch kv.Key {
		case "path", "entry":
			return s.Name() + " " + kv.Value.Emit()
		}
	}
	return s.Name()
}
