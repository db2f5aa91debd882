package tracing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapWithSpanRecordsSpans(t *testing.T) {
	ctx := AttachTracingIntoContext(context.Background())
	require.NotEmpty(t, ctx.Value(TraceIdKey))

	v, err := WrapWithSpan(ctx, "balance", func() (int, error) { return 7, nil })
	require.NoError(t, err)
	assert.Equal(t, 7, v)

	_, err = WrapWithSpan(ctx, "tvl", func() (string, error) { return "", errors.New("boom") })
	assert.EqualError(t, err, "boom")

	info := ctx.Value(TracingInfoKey).(*TracingInfo)
	require.Len(t, info.SpanDetails, 2)
	assert.Equal(t, "balance", info.SpanDetails[0].Name)
	assert.Equal(t, "tvl", info.SpanDetails[1].Name)
}

func TestWrapWithSpanWithoutTracing(t *testing.T) {
	v, err := WrapWithSpan(context.Background(), "rate", func() (int, error) { return 1, nil })
	require.NoError(t, err)
	assert.Equal(t, 1, v)
}
