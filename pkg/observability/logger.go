package observability

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/trace"
)

const (
	attrTraceID = "trace_id"
	attrSpanID  = "span_id"
	attrService = "service"
	attrMode    = "mode"
)

// ErrUnknownLogLevel is returned by ParseLevel for unrecognized names.
var ErrUnknownLogLevel = errors.New("unknown log level")

// TracingHandler is an [slog.Handler] that adds the active trace and span
// IDs to each record. Service and mode are attached once, at the top level.
type TracingHandler struct {
	inner slog.Handler
}

// NewTracingHandler wraps inner with trace context injection.
func NewTracingHandler(inner slog.Handler, service string, mode AppMode) *TracingHandler {
	return &TracingHandler{
		inner: inner.WithAttrs([]slog.Attr{
			slog.String(attrService, service),
			slog.String(attrMode, string(mode)),
		}),
	}
}

// Enabled delegates to the inner handler.
func (th *TracingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return th.inner.Enabled(ctx, level)
}

// Handle adds trace_id and span_id when ctx carries a valid span.
func (th *TracingHandler) Handle(ctx context.Context, record slog.Record) error {
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		record.AddAttrs(
			slog.String(attrTraceID, sc.TraceID().String()),
			slog.String(attrSpanID, sc.SpanID().String()),
		)
	}

	if err := th.inner.Handle(ctx, record); err != nil {
		return fmt.Errorf("tracing handler: %w", err)
	}

	return nil
}

// WithAttrs implements [slog.Handler].
func (th *TracingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &TracingHandler{inner: th.inner.WithAttrs(attrs)}
}

// WithGroup implements [slog.Handler].
func (th *TracingHandler) WithGroup(name string) slog.Handler {
	return &TracingHandler{inner: th.inner.WithGroup(name)}
}

// ParseLevel maps "debug", "info", "warn" or "error" (any case) to a level.
func ParseLevel(name string) (slog.Level, error) {
	var level slog.Level

	if err := level.UnmarshalText([]byte(name)); err != nil {
		return slog.LevelInfo, fmt.Errorf("%w: %q", ErrUnknownLogLevel, name)
	}

	return level, nil
}
