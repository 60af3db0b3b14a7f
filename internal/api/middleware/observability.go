package middleware

import (
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/zoyasiddiqui7867/ai-agent-Health-Assistant/internal/infrastructure/observability"
)

// unmatchedRoute labels requests no mux pattern matched.
const unmatchedRoute = "unmatched"

// ObservabilityMiddleware traces each request and records request metrics.
// Handlers between it and the ServeMux must pass the request through
// unchanged; the route is read from the request the mux matched.
func ObservabilityMiddleware(metrics *observability.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, span := observability.StartSpan(r.Context(), r.Method+" "+unmatchedRoute)
			defer span.End()

			req := r.WithContext(ctx)
			rw := newStatusRecorder(w)
			start := time.Now()

			next.ServeHTTP(rw, req)

			duration := time.Since(start)
			route := routeOf(req)
			span.SetName(r.Method + " " + route)

			attrs := []attribute.KeyValue{
				attribute.String("http.method", r.Method),
				attribute.String("http.route", route),
				attribute.Int("http.status_code", rw.statusCode),
				attribute.Int("http.response_size", rw.bytes),
			}
			if requestID := observability.RequestIDFromContext(ctx); requestID != "" {
				attrs = append(attrs, attribute.String("http.request_id", requestID))
			}
			if patientID := req.PathValue("patient_id"); patientID != "" {
				attrs = append(attrs, attribute.String("record.patient_id", patientID))
			}
			observability.SetSpanAttributes(span, attrs...)

			if rw.statusCode >= http.StatusInternalServerError {
				span.SetStatus(codes.Error, http.StatusText(rw.statusCode))
			}

			observability.RecordRequestMetric(ctx, metrics, r.Method, route, rw.statusCode, duration)
		})
	}
}

// routeOf returns the path part of the matched mux pattern, e.g.
// "/api/records/{patient_id}" for "PUT /api/records/{patient_id}".
func routeOf(r *http.Request) string {
	if r.Pattern == "" {
		return unmatchedRoute
	}
	if _, path, ok := strings.Cut(r.Pattern, " "); ok {
		return path
	}
	return r.Pattern
}
