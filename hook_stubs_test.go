package tap

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

func nopLogger() zerolog.Logger { return zerolog.Nop() }

// journal records phase invocations across multiple stub hooks so tests
// can assert on relative ordering.
type journal struct {
	mu      sync.Mutex
	entries []string
}

func (j *journal) add(entry string) {
	j.mu.Lock()
	j.entries = append(j.entries, entry)
	j.mu.Unlock()
}

func (j *journal) all() []string {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]string, len(j.entries))
	copy(out, j.entries)
	return out
}

// stubHook is a minimal configurable hook for in-package tests. It writes
// "<name>:<phase>" lines to a shared journal and can fail at any phase.
type stubHook struct {
	HookPriority

	name    string
	journal *journal

	enterCtx   any
	enterErr   error
	exitErr    error
	cleanupErr error
	reportErr  error
	resetErr   error
	disabled   bool

	resetCalled bool

	// lastExitCtx / lastCleanupCtx capture the private context the
	// engine handed back, for isolation assertions.
	lastExitCtx    any
	lastCleanupCtx any
	lastCleanupErr error
}

func (h *stubHook) Enter(ctx context.Context, event string, args []any) (any, error) {
	h.journal.add(h.name + ":enter")
	if h.enterErr != nil {
		return nil, h.enterErr
	}
	return h.enterCtx, nil
}

func (h *stubHook) Exit(ctx context.Context, event string, result any, hctx any) error {
	h.journal.add(h.name + ":exit")
	h.lastExitCtx = hctx
	return h.exitErr
}

func (h *stubHook) Cleanup(ctx context.Context, event string, hctx any, callErr error) error {
	h.journal.add(h.name + ":cleanup")
	h.lastCleanupCtx = hctx
	h.lastCleanupErr = callErr
	return h.cleanupErr
}

func (h *stubHook) HookEnabled() bool { return !h.disabled }

func (h *stubHook) Reset() error {
	h.resetCalled = true
	return h.resetErr
}

func (h *stubHook) Report(sink ReportSink) error {
	if h.reportErr != nil {
		return h.reportErr
	}
	sink.Report(h.name, zerolog.InfoLevel, "report")
	return nil
}

// newEventForTest builds an event directly, bypassing auditor
// registration, with a no-op logger and the default error policy.
func newEventForTest(name string, target Target, opts ...EventOption) *Event {
	return newEvent(name, target, nopLogger(), AggregateAll, opts...)
}

func okTarget(result any) Target {
	return func(ctx context.Context, args ...any) (any, error) {
		return result, nil
	}
}

func errTarget(err error) Target {
	return func(ctx context.Context, args ...any) (any, error) {
		return nil, err
	}
}

// bareHook implements only the mandatory capability: no cleanup, no
// priorities, nothing optional.
type bareHook struct {
	name    string
	journal *journal
}

func (h *bareHook) Enter(ctx context.Context, event string, args []any) (any, error) {
	h.journal.add(h.name + ":enter")
	return nil, nil
}

func (h *bareHook) Exit(ctx context.Context, event string, result any, hctx any) error {
	h.journal.add(h.name + ":exit")
	return nil
}
