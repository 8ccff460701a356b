package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	metricFunctionsTotal      = "bindinfo.functions.total"
	metricTypedefsTotal       = "bindinfo.typedefs.total"
	metricEnumsTotal          = "bindinfo.enums.total"
	metricConstantsTotal      = "bindinfo.constants.total"
	metricImportantEnumsTotal = "bindinfo.important_enums.total"
	metricPhaseDuration       = "bindinfo.phase.duration.seconds"

	attrPhase = "phase"
)

// phaseBucketBoundaries spans 1ms to 30s: a parse of a small header up to a
// slow preprocessor on a large include tree.
var phaseBucketBoundaries = []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30}

// ExtractionStats summarizes one extraction run.
type ExtractionStats struct {
	Functions      int
	Typedefs       int
	Enums          int
	Constants      int
	ImportantEnums int
}

// ExtractionMetrics holds the OTel instruments for extraction runs.
type ExtractionMetrics struct {
	functions      metric.Int64Counter
	typedefs       metric.Int64Counter
	enums          metric.Int64Counter
	constants      metric.Int64Counter
	importantEnums metric.Int64Counter
	phaseDuration  metric.Float64Histogram
}

// NewExtractionMetrics creates the extraction instruments from mt.
func NewExtractionMetrics(mt metric.Meter) (*ExtractionMetrics, error) {
	em := &ExtractionMetrics{}

	var err error

	if em.functions, err = newCounter(mt, metricFunctionsTotal, "Functions extracted", "{function}"); err != nil {
		return nil, err
	}

	if em.typedefs, err = newCounter(mt, metricTypedefsTotal, "Typedefs extracted", "{typedef}"); err != nil {
		return nil, err
	}

	if em.enums, err = newCounter(mt, metricEnumsTotal, "Enumerations extracted", "{enum}"); err != nil {
		return nil, err
	}

	if em.constants, err = newCounter(mt, metricConstantsTotal, "Enumeration constants extracted", "{constant}"); err != nil {
		return nil, err
	}

	em.importantEnums, err = newCounter(mt, metricImportantEnumsTotal, "Important enumeration names reconciled", "{enum}")
	if err != nil {
		return nil, err
	}

	em.phaseDuration, err = mt.Float64Histogram(metricPhaseDuration,
		metric.WithDescription("Extraction phase duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(phaseBucketBoundaries...),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricPhaseDuration, err)
	}

	return em, nil
}

func newCounter(mt metric.Meter, name, desc, unit string) (metric.Int64Counter, error) {
	counter, err := mt.Int64Counter(name, metric.WithDescription(desc), metric.WithUnit(unit))
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", name, err)
	}

	return counter, nil
}

// RecordRun adds the counts of a finished run. Safe on a nil receiver.
func (em *ExtractionMetrics) RecordRun(ctx context.Context, stats ExtractionStats) {
	if em == nil {
		return
	}

	em.functions.Add(ctx, int64(stats.Functions))
	em.typedefs.Add(ctx, int64(stats.Typedefs))
	em.enums.Add(ctx, int64(stats.Enums))
	em.constants.Add(ctx, int64(stats.Constants))
	em.importantEnums.Add(ctx, int64(stats.ImportantEnums))
}

// RecordPhase records how long phase took. Safe on a nil receiver.
func (em *ExtractionMetrics) RecordPhase(ctx context.Context, phase string, d time.Duration) {
	if em == nil {
		return
	}

	em.phaseDuration.Record(ctx, d.Seconds(), metric.WithAttributes(attribute.String(attrPhase, phase)))
}

const (
	metricToolCallsTotal   = "bindinfo.mcp.calls.total"
	metricToolCallDuration = "bindinfo.mcp.call.duration.seconds"

	attrTool   = "tool"
	attrStatus = "status"
)

// ToolMetrics holds the instruments for MCP tool calls.
type ToolMetrics struct {
	calls    metric.Int64Counter
	duration metric.Float64Histogram
}

// NewToolMetrics creates the MCP tool instruments from mt.
func NewToolMetrics(mt metric.Meter) (*ToolMetrics, error) {
	calls, err := newCounter(mt, metricToolCallsTotal, "MCP tool calls", "{call}")
	if err != nil {
		return nil, err
	}

	duration, err := mt.Float64Histogram(metricToolCallDuration,
		metric.WithDescription("MCP tool call duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(phaseBucketBoundaries...),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricToolCallDuration, err)
	}

	return &ToolMetrics{calls: calls, duration: duration}, nil
}

// RecordCall counts one call of tool with its status ("ok" or "error").
// Safe on a nil receiver.
func (tm *ToolMetrics) RecordCall(ctx context.Context, tool, status string, d time.Duration) {
	if tm == nil {
		return
	}

	attrs := metric.WithAttributes(attribute.String(attrTool, tool), attribute.String(attrStatus, status))

	tm.calls.Add(ctx, 1, attrs)
	tm.duration.Record(ctx, d.Seconds(), attrs)
}
