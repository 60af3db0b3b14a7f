package gemini

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/zoyasiddiqui7867/ai-agent-Health-Assistant/internal/domain/entities"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type geminiMetrics struct {
	requestCount    metric.Int64Counter
	requestDuration metric.Float64Histogram
	requestErrors   metric.Int64Counter
}

var (
	geminiMetricsOnce sync.Once
	geminiMetricsOK   bool
	metrics           geminiMetrics
)

func ensureGeminiMetrics() bool {
	geminiMetricsOnce.Do(func() {
		meter := otel.Meter("github.com/zoyasiddiqui7867/ai-agent-Health-Assistant/gemini")

		requestCount, err := meter.Int64Counter(
			"ai.gemini.request.count",
			metric.WithDescription("Number of Gemini requests"),
		)
		if err != nil {
			return
		}
		requestDuration, err := meter.Float64Histogram(
			"ai.gemini.request.duration",
			metric.WithDescription("Gemini request duration in milliseconds"),
			metric.WithUnit("ms"),
		)
		if err != nil {
			return
		}
		requestErrors, err := meter.Int64Counter(
			"ai.gemini.request.errors",
			metric.WithDescription("Number of failed Gemini requests by error kind"),
		)
		if err != nil {
			return
		}

		metrics = geminiMetrics{
			requestCount:    requestCount,
			requestDuration: requestDuration,
			requestErrors:   requestErrors,
		}
		geminiMetricsOK = true
	})
	return geminiMetricsOK
}

func recordGeminiMetric(ctx context.Context, model string, statusCode int, duration time.Duration, err error) {
	if !ensureGeminiMetrics() {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String("ai.provider", "gemini"),
		attribute.String("ai.model", model),
	}
	if statusCode > 0 {
		attrs = append(attrs, attribute.Int("http.status_code", statusCode))
	}

	metrics.requestCount.Add(ctx, 1, metric.WithAttributes(attrs...))
	metrics.requestDuration.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))
	if err != nil {
		kind := entities.InferenceUnexpected
		var inferenceErr *entities.InferenceError
		if errors.As(err, &inferenceErr) {
			kind = inferenceErr.Kind
		}
		errAttrs := append(attrs, attribute.String("ai.error_kind", string(kind)))
		metrics.requestErrors.Add(ctx, 1, metric.WithAttributes(errAttrs...))
	}
}
