package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerFromContext_IncludesRequestID(t *testing.T) {
	var buf bytes.Buffer
	InitLoggerWithWriter(&buf, "health-assistant", "production", "debug")
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	ctx := WithRequestID(context.Background(), "req-123")
	LoggerFromContext(ctx).Info().Msg("hello")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "req-123", entry["request_id"])
	assert.Equal(t, "health-assistant", entry["service"])
	assert.Equal(t, "hello", entry["message"])
}

func TestInitLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	InitLoggerWithWriter(&buf, "health-assistant", "production", "warn")
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	GetLogger().Info().Msg("dropped")
	assert.Zero(t, buf.Len())

	GetLogger().Warn().Msg("kept")
	assert.Contains(t, buf.String(), "kept")
}

func TestInitLogger_InvalidLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	InitLoggerWithWriter(&buf, "health-assistant", "production", "loud")
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
	assert.Empty(t, RequestIDFromContext(context.Background()))
}

func TestRecordMetrics_NilMetricsIsNoop(t *testing.T) {
	assert.NotPanics(t, func() {
		RecordRequestMetric(context.Background(), nil, "GET", "/", 200, 0)
		RecordIngestionMetric(context.Background(), nil, "startup", 10, nil)
	})
}
