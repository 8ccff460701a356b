package observability

import (
	"context"

	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// ProbeBuildResource exposes buildResource for testing.
func ProbeBuildResource(cfg Config) (*resource.Resource, error) {
	return buildResource(cfg)
}

// ProbeSamplerSpan reports whether a root span is sampled under cfg.
func ProbeSamplerSpan(cfg Config) bool {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exporter),
		sdktrace.WithSampler(selectSampler(cfg)),
	)

	_, span := tp.Tracer("test").Start(context.Background(), "probe")
	span.End()

	spans := exporter.GetSpans()

	if err := tp.Shutdown(context.Background()); err != nil {
		return false
	}

	return len(spans) > 0
}
