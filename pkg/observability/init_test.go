package observability_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/bindinfo/pkg/observability"
)

func TestInit_NoopWhenNoEndpoint(t *testing.T) {
	t.Parallel()

	var logs bytes.Buffer

	cfg := observability.DefaultConfig()
	cfg.LogOutput = &logs

	providers, err := observability.Init(cfg)
	require.NoError(t, err)

	assert.NotNil(t, providers.Tracer)
	assert.NotNil(t, providers.Meter)
	require.NotNil(t, providers.Logger)

	ctx, span := providers.Tracer.Start(context.Background(), "bindinfo.test")
	span.End()

	providers.Logger.InfoContext(ctx, "noop run")
	assert.Contains(t, logs.String(), "noop run")
	assert.NotContains(t, logs.String(), "trace_id")

	require.NoError(t, providers.Shutdown(context.Background()))
	require.NoError(t, providers.Shutdown(context.Background()))
}

func TestNewLogger_RespectsLevelAndFormat(t *testing.T) {
	t.Parallel()

	var logs bytes.Buffer

	cfg := observability.DefaultConfig()
	cfg.LogOutput = &logs
	cfg.LogJSON = true

	logger := observability.NewLogger(cfg)
	logger.Debug("hidden")
	logger.Info("shown")

	assert.NotContains(t, logs.String(), "hidden")
	assert.Contains(t, logs.String(), `"msg":"shown"`)
	assert.Contains(t, logs.String(), `"service":"bindinfo"`)
}

func TestBuildResource_IncludesAppMode(t *testing.T) {
	t.Parallel()

	cfg := observability.DefaultConfig()
	cfg.ServiceVersion = "1.2.3"

	res, err := observability.ProbeBuildResource(cfg)
	require.NoError(t, err)

	attrs := make(map[string]string)
	for _, attr := range res.Attributes() {
		attrs[string(attr.Key)] = attr.Value.Emit()
	}

	assert.Equal(t, "cli", attrs["app.mode"])
	assert.Equal(t, "bindinfo", attrs["service.name"])
	assert.Equal(t, "1.2.3", attrs["service.version"])
}

func TestSampler(t *testing.T) {
	t.Parallel()

	cfg := observability.DefaultConfig()
	assert.True(t, observability.ProbeSamplerSpan(cfg))

	cfg.SampleRatio = 1
	assert.True(t, observability.ProbeSamplerSpan(cfg))

	cfg.SampleRatio = 1e-12
	assert.False(t, observability.ProbeSamplerSpan(cfg))
}

func TestInit_PrometheusHandler(t *testing.T) {
	t.Parallel()

	cfg := observability.DefaultConfig()
	cfg.LogOutput = &bytes.Buffer{}

	providers, err := observability.Init(cfg)
	require.NoError(t, err)
	assert.Nil(t, providers.MetricsHandler)

	cfg.Prometheus = true

	providers, err = observability.Init(cfg)
	require.NoError(t, err)
	require.NotNil(t, providers.MetricsHandler)

	em, err := observability.NewExtractionMetrics(providers.Meter)
	require.NoError(t, err)

	em.RecordRun(context.Background(), observability.ExtractionStats{Functions: 3})

	rec := httptest.NewRecorder()
	providers.MetricsHandler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "bindinfo_functions")

	require.NoError(t, providers.Shutdown(context.Background()))
}
