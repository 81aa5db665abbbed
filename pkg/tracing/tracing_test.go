package tracing

import (
	"context"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"

	"audioguard/internal/config"
)

func TestKafkaHeaderRoundTrip(t *testing.T) {
	tp, err := Init(config.TracingConfig{})
	require.NoError(t, err)
	defer tp.Shutdown(context.Background())

	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)

	headers := InjectTraceContext(ctx, []kafka.Header{{Key: "event_type", Value: []byte("alert.dispatched")}})
	require.GreaterOrEqual(t, len(headers), 2)
	assert.Equal(t, "event_type", headers[0].Key)

	extracted := ExtractTraceContext(context.Background(), headers)
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", TraceID(extracted))
}

func TestTraceID_NoSpan(t *testing.T) {
	assert.Empty(t, TraceID(context.Background()))
}

func TestCreateSampler(t *testing.T) {
	assert.Contains(t, createSampler(config.SamplerConfig{Type: "always_off"}).Description(), "AlwaysOff")
	assert.Contains(t, createSampler(config.SamplerConfig{}).Description(), "AlwaysOn")
}
