package hooks

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/kweiss/tap"
)

// Logging writes a structured log line on every phase of every event it
// observes. It keeps no state, so a single instance can be shared freely.
type Logging struct {
	logger zerolog.Logger
	level  zerolog.Level
}

var (
	_ tap.Hook        = (*Logging)(nil)
	_ tap.CleanupHook = (*Logging)(nil)
)

// NewLogging creates a Logging hook writing to logger at debug level.
func NewLogging(logger zerolog.Logger) *Logging {
	return &Logging{logger: logger, level: zerolog.DebugLevel}
}

// WithLevel sets the level for enter/exit lines. Failures always log at
// error level.
func (l *Logging) WithLevel(level zerolog.Level) *Logging {
	l.level = level
	return l
}

// Enter logs the call arguments.
func (l *Logging) Enter(ctx context.Context, event string, args []any) (any, error) {
	l.logger.WithLevel(l.level).
		Str("event", event).
		Int("args", len(args)).
		Msg("event entered")
	return nil, nil
}

// Exit logs the result.
func (l *Logging) Exit(ctx context.Context, event string, result any, hctx any) error {
	l.logger.WithLevel(l.level).
		Str("event", event).
		Interface("result", result).
		Msg("event exited")
	return nil
}

// Cleanup logs failures; successful calls already logged on exit.
func (l *Logging) Cleanup(ctx context.Context, event string, hctx any, callErr error) error {
	if callErr == nil {
		return nil
	}
	l.logger.Error().
		Str("event", event).
		Err(callErr).
		Msg("event failed")
	return nil
}
