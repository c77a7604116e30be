package middleware

import (
	"time"

	"github.com/crm/backend/internal/infrastructure/telemetry"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

type httpMetrics struct {
	requests *telemetry.Counter
	duration *telemetry.Histogram
	inFlight *telemetry.UpDownCounter
}

// HTTPMetrics records request count, latency and in-flight requests on the
// OTel meter. It is a pass-through when the provider is disabled.
func HTTPMetrics(mp *telemetry.MeterProvider, log *zap.Logger) gin.HandlerFunc {
	if mp == nil || !mp.IsEnabled() {
		return func(c *gin.Context) { c.Next() }
	}
	m, err := newHTTPMetrics(mp)
	if err != nil {
		log.Warn("HTTP metrics disabled", zap.Error(err))
		return func(c *gin.Context) { c.Next() }
	}
	return m.handle
}

func newHTTPMetrics(mp *telemetry.MeterProvider) (*httpMetrics, error) {
	meter := mp.Meter("crm.http.server")
	requests, err := telemetry.NewCounter(meter, "http_server_request_total", "Total number of HTTP requests", "{request}")
	if err != nil {
		return nil, err
	}
	duration, err := telemetry.NewHistogram(meter, "http_server_request_duration_seconds",
		"HTTP request latency in seconds", "s", telemetry.HTTPDurationBuckets...)
	if err != nil {
		return nil, err
	}
	inFlight, err := telemetry.NewUpDownCounter(meter, "http_server_active_requests", "In-flight HTTP requests", "{request}")
	if err != nil {
		return nil, err
	}
	return &httpMetrics{requests: requests, duration: duration, inFlight: inFlight}, nil
}

func (m *httpMetrics) handle(c *gin.Context) {
	ctx := c.Request.Context()
	start := time.Now()
	m.inFlight.Add(ctx, 1)

	c.Next()

	m.inFlight.Add(ctx, -1)
	route := c.FullPath()
	if route == "" {
		route = "unmatched"
	}
	base := []attribute.KeyValue{
		telemetry.AttrHTTPMethod.String(c.Request.Method),
		telemetry.AttrHTTPRoute.String(route),
	}
	m.duration.RecordDuration(ctx, time.Since(start), base...)
	m.requests.Inc(ctx, append(base,
		telemetry.AttrHTTPStatusCode.Int(c.Writer.Status()),
		telemetry.AttrTenantID.String(GetTenantID(c).String()),
	)...)
}
