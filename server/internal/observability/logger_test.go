package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestContext_Logging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	reqCtx := NewRequestContextWithID(logger, "req-1", "/api/v1/parse")
	reqCtx.Info("parse served", slog.Int(LogFieldCandidates, 3))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "req-1", line[LogFieldRequestID])
	assert.Equal(t, "/api/v1/parse", line[LogFieldRoute])
	assert.Equal(t, 3.0, line[LogFieldCandidates])

	buf.Reset()
	reqCtx.Error("parse failed", errors.New("boom"))
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "boom", line["error"])
	assert.Equal(t, "ERROR", line["level"])

	buf.Reset()
	reqCtx.Debug("request served", slog.Int64(LogFieldDuration, reqCtx.DurationMs()))
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "DEBUG", line["level"])
	assert.Equal(t, "req-1", line[LogFieldRequestID])
	assert.GreaterOrEqual(t, reqCtx.DurationMs(), int64(0))
}

func TestRequestContext_Context(t *testing.T) {
	reqCtx := NewRequestContext(nil, "/healthz")
	assert.Len(t, reqCtx.RequestID, 36)
	assert.Equal(t, "/healthz", reqCtx.Route)

	ctx := WithRequestContext(context.Background(), reqCtx)
	got, ok := FromContext(ctx)
	require.True(t, ok)
	assert.Same(t, reqCtx, got)
	assert.Same(t, reqCtx, FromContextOrNew(ctx, "/other"))

	_, ok = FromContext(context.Background())
	assert.False(t, ok)
	fresh := FromContextOrNew(context.Background(), "/other")
	assert.Equal(t, "/other", fresh.Route)
	assert.NotEqual(t, reqCtx.RequestID, fresh.RequestID)
}
