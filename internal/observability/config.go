package observability

import (
	"net/http"

	"hireall/internal/config"

	"go.opentelemetry.io/otel/attribute"
	oteltrace "go.opentelemetry.io/otel/trace"
)

// GetObservabilityConfig creates observability config from provided config
func GetObservabilityConfig(cfg *config.Config, version string) ObservabilityConfig {
	if cfg == nil {
		return ObservabilityConfig{
			ServiceName:    "hireall",
			ServiceVersion: version,
			Enabled:        false,
			SampleRate:     1.0,
			Prometheus:     GetPrometheusConfig(nil),
		}
	}

	obsConfig := cfg.Observability

	serviceVersion := obsConfig.ServiceVersion
	if serviceVersion == "" {
		serviceVersion = version
	}

	return ObservabilityConfig{
		ServiceName:    obsConfig.ServiceName,
		ServiceVersion: serviceVersion,
		Enabled:        obsConfig.Enabled,
		ConsoleOutput:  obsConfig.ConsoleOutput,
		PrettyPrint:    obsConfig.Console.PrettyPrint,
		SampleRate:     obsConfig.SampleRate,
		Prometheus:     GetPrometheusConfig(cfg),
	}
}

// RouteMiddleware names the span started by HTTPMiddleware after the route
// and tags it with the request ID, so traces group by endpoint instead of raw URL
func RouteMiddleware(route string) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			span := oteltrace.SpanFromContext(r.Context())
			if span.IsRecording() {
				span.SetName(r.Method + " " + route)
				span.SetAttributes(
					attribute.String("http.route", route),
					attribute.String("hireall.request_id", w.Header().Get("X-Request-ID")),
				)
			}
			next(w, r)
		}
	}
}
