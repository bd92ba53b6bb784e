package httpmiddleware

import (
	"net/http"

	"github.com/go-faster/sdk/app"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Instrument wraps the handler in OpenTelemetry tracing plus a per-method
// request counter.
func Instrument(operation string, m *app.Telemetry) Middleware {
	meter := m.MeterProvider().Meter("httpmiddleware")
	requests, _ := meter.Int64Counter("http.server.request_count",
		metric.WithDescription("Number of HTTP requests received"),
	)

	return func(next http.Handler) http.Handler {
		counted := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requests.Add(r.Context(), 1, metric.WithAttributes(
				attribute.String("http.method", r.Method),
			))
			next.ServeHTTP(w, r)
		})

		return otelhttp.NewHandler(counted, operation,
			otelhttp.WithTracerProvider(m.TracerProvider()),
			otelhttp.WithMeterProvider(m.MeterProvider()),
		)
	}
}
