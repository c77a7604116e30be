package telemetry

import (
	"context"
	"errors"
	"testing"

	"github.com/crm/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestSetup_Disabled(t *testing.T) {
	ctx := context.Background()
	p, err := Setup(ctx, config.TelemetryConfig{}, zap.NewNop())
	require.NoError(t, err)

	assert.False(t, p.Tracer.IsEnabled())
	assert.False(t, p.Meter.IsEnabled())
	assert.False(t, p.Logs.IsEnabled())
	assert.False(t, p.Profiler.IsEnabled())
	assert.False(t, p.Tracer.SpanProfilesEnabled())
	assert.NotNil(t, p.Tracer.Tracer("x"))
	assert.NotNil(t, p.Meter.Meter("x"))
	assert.NoError(t, p.Shutdown(ctx))

	var nilProviders *Providers
	assert.NoError(t, nilProviders.Shutdown(ctx))
}

func TestServiceName(t *testing.T) {
	assert.Equal(t, DefaultServiceName, serviceName(config.TelemetryConfig{}))
	assert.Equal(t, "crm-api", serviceName(config.TelemetryConfig{ServiceName: "crm-api"}))
}

func TestNewSampler(t *testing.T) {
	assert.Equal(t, sdktrace.AlwaysSample().Description(), newSampler(1).Description())
	assert.Equal(t, sdktrace.NeverSample().Description(), newSampler(0).Description())
	assert.Contains(t, newSampler(0.25).Description(), "TraceIDRatioBased{0.25}")
}

func TestNewProfiler(t *testing.T) {
	p, err := NewProfiler(config.TelemetryConfig{}, zap.NewNop())
	require.NoError(t, err)
	assert.False(t, p.IsEnabled())
	assert.NoError(t, p.Stop())
	assert.NoError(t, p.Stop())

	_, err = NewProfiler(config.TelemetryConfig{ProfilingEnabled: true}, zap.NewNop())
	assert.ErrorIs(t, err, errMissingPyroscopeEndpoint)
}

func TestLabelPairs(t *testing.T) {
	long := make([]byte, 200)
	for i := range long {
		long[i] = 'a'
	}
	pairs := labelPairs(map[string]string{
		ProfilingLabelRoute:    "/api/v1/leads/:id",
		ProfilingLabelMethod:   "GET",
		ProfilingLabelTenantID: "",
		"user_id":              "u-1",
		"job":                  string(long),
	})
	require.Len(t, pairs, 6)
	assert.Equal(t, []string{"job", "method", "route"}, []string{pairs[0], pairs[2], pairs[4]})
	assert.Len(t, pairs[1], maxLabelValueLength)
}

func TestWithProfilingLabels_RunsFunction(t *testing.T) {
	called := 0
	WithProfilingLabels(context.Background(), nil, func(context.Context) { called++ })
	WithProfilingLabels(context.Background(), HTTPRequestLabels("GET", "/health", "t1"), func(context.Context) { called++ })
	assert.Equal(t, 2, called)
}

func TestSpans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder)))
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	ctx, span := StartServiceSpan(context.Background(), "workflow", "process", SpanAttrEntityType, "LEAD", SpanAttrRuleCount, 3, 42, "ignored")
	assert.NotEmpty(t, GetTraceID(ctx))
	SetAttributes(span, SpanAttrTriggerEvent, "CREATED")
	RecordError(span, errors.New("boom"))
	RecordError(span, nil)
	span.End()

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "workflow.process", ended[0].Name())
	assert.Equal(t, codes.Error, ended[0].Status().Code)
	assert.Contains(t, ended[0].Attributes(), attribute.String(SpanAttrEntityType, "LEAD"))
	assert.Contains(t, ended[0].Attributes(), attribute.Int(SpanAttrRuleCount, 3))
	assert.Contains(t, ended[0].Attributes(), attribute.String(SpanAttrTriggerEvent, "CREATED"))

	assert.Empty(t, GetTraceID(context.Background()))
}

func TestMetricHelpers(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	meter := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)).Meter("test")
	ctx := context.Background()

	counter, err := NewCounter(meter, "crm_test_total", "test counter", "1")
	require.NoError(t, err)
	counter.Inc(ctx, AttrEntityType.String("LEAD"))
	counter.Inc(ctx, AttrEntityType.String("LEAD"))

	hist, err := NewHistogram(meter, "crm_test_seconds", "test histogram", "s", HTTPDurationBuckets...)
	require.NoError(t, err)
	hist.Record(ctx, 0.2)

	gauge, err := NewUpDownCounter(meter, "crm_test_active", "in flight", "1")
	require.NoError(t, err)
	gauge.Add(ctx, 1)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))
	require.Len(t, rm.ScopeMetrics, 1)

	byName := map[string]metricdata.Metrics{}
	for _, m := range rm.ScopeMetrics[0].Metrics {
		byName[m.Name] = m
	}
	sum := byName["crm_test_total"].Data.(metricdata.Sum[int64])
	require.Len(t, sum.DataPoints, 1)
	assert.Equal(t, int64(2), sum.DataPoints[0].Value)

	h := byName["crm_test_seconds"].Data.(metricdata.Histogram[float64])
	assert.Equal(t, uint64(1), h.DataPoints[0].Count)
}

func TestLoggerProvider_Disabled(t *testing.T) {
	lp, err := NewLoggerProvider(context.Background(), config.TelemetryConfig{}, zap.NewNop())
	require.NoError(t, err)
	assert.False(t, lp.Core(zapcore.DebugLevel).Enabled(zapcore.ErrorLevel))
	assert.NoError(t, lp.Shutdown(context.Background()))
}

func TestLevelFilterCore(t *testing.T) {
	inner, logs := observer.New(zapcore.DebugLevel)
	core := &levelFilterCore{Core: inner, minLevel: zapcore.WarnLevel}
	logger := zap.New(core).With(zap.String("tenant_id", "t1"))

	logger.Info("dropped")
	logger.Warn("kept")

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "kept", entry.Message)
	assert.Equal(t, "t1", entry.ContextMap()["tenant_id"])
}
