package hooks

import (
	"bytes"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogging_EnterAndExit(t *testing.T) {
	var buf bytes.Buffer
	hook := NewLogging(zerolog.New(&buf)).WithLevel(zerolog.InfoLevel)

	hctx, err := hook.Enter(t.Context(), "api.call", []any{"a", "b"})
	require.NoError(t, err)
	require.NoError(t, hook.Exit(t.Context(), "api.call", "ok", hctx))

	out := buf.String()
	assert.Contains(t, out, `"event":"api.call"`)
	assert.Contains(t, out, `"args":2`)
	assert.Contains(t, out, "event entered")
	assert.Contains(t, out, `"result":"ok"`)
	assert.Contains(t, out, "event exited")
}

func TestLogging_CleanupLogsOnlyFailures(t *testing.T) {
	var buf bytes.Buffer
	hook := NewLogging(zerolog.New(&buf))

	require.NoError(t, hook.Cleanup(t.Context(), "quiet", nil, nil))
	assert.Empty(t, buf.String(), "successful calls log nothing on cleanup")

	require.NoError(t, hook.Cleanup(t.Context(), "noisy", nil, errors.New("kaput")))
	out := buf.String()
	assert.Contains(t, out, `"event":"noisy"`)
	assert.Contains(t, out, "kaput")
	assert.Contains(t, out, "event failed")
	assert.Contains(t, out, `"level":"error"`)
}

func TestLogging_LevelRespected(t *testing.T) {
	var buf bytes.Buffer
	// Logger filters below info; the hook writes at debug by default.
	logger := zerolog.New(&buf).Level(zerolog.InfoLevel)
	hook := NewLogging(logger)

	_, _ = hook.Enter(t.Context(), "quiet", nil)

	assert.Empty(t, buf.String())
}
