package logger

import (
	"bytes"
	"context"
	log "log/slog"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	lines := make([]map[string]any, 0)
	for _, line := range bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n")) {
		if len(line) == 0 {
			continue
		}
		var m map[string]any
		require.NoError(t, json.Unmarshal(line, &m))
		lines = append(lines, m)
	}
	return lines
}

func TestContextHandlerAddsTraceAndUser(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&ContextHandler{log.NewJSONHandler(&buf, nil)})

	ctx := WithUserID(WithTraceID(context.Background(), "t-1"), 42)
	logger.InfoContext(ctx, "hello")
	logger.InfoContext(context.Background(), "plain")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 2)
	assert.Equal(t, "t-1", lines[0][TraceIDKey])
	assert.Equal(t, float64(42), lines[0][UserIDKey])
	assert.NotContains(t, lines[1], TraceIDKey)
}

func TestRemoteFilterOnlyForwardsTracedRecords(t *testing.T) {
	var local, remote bytes.Buffer
	logger := log.New(&ContextHandler{&TeeHandler{handlers: []log.Handler{
		log.NewJSONHandler(&local, nil),
		&RemoteFilterHandler{next: log.NewJSONHandler(&remote, nil)},
	}}})

	logger.Info("startup")
	logger.InfoContext(WithTraceID(context.Background(), "t-2"), "request")

	assert.Len(t, decodeLines(t, &local), 2)
	remoteLines := decodeLines(t, &remote)
	require.Len(t, remoteLines, 1)
	assert.Equal(t, "request", remoteLines[0]["msg"])
}
