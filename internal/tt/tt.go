// Package tt provides shared test doubles for the tap engine and its
// hook implementations.
package tt

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/kweiss/tap"
)

// -----------------------------------------------------------------------------
// Recording Hook
// -----------------------------------------------------------------------------

// Call is one recorded hook phase invocation.
type Call struct {
	Phase   tap.Phase
	Event   string
	Args    []any
	Result  any
	Ctx     any // the private context value the engine handed back
	CallErr error
}

// RecordingHook records every phase invocation and can be configured to
// fail at any phase. It implements every optional capability so tests can
// exercise capability detection.
type RecordingHook struct {
	tap.HookPriority

	// Name distinguishes instances in multi-hook order assertions.
	Name string

	// EnterCtx is the private context value Enter returns.
	EnterCtx any

	// EnterErr, ExitErr, CleanupErr, ReportErr, ResetErr make the
	// corresponding phase fail when non-nil.
	EnterErr   error
	ExitErr    error
	CleanupErr error
	ReportErr  error
	ResetErr   error

	// Disabled makes the hook report itself switched off.
	Disabled bool

	mu    sync.Mutex
	calls []Call
}

var (
	_ tap.Hook            = (*RecordingHook)(nil)
	_ tap.CleanupHook     = (*RecordingHook)(nil)
	_ tap.ResettableHook  = (*RecordingHook)(nil)
	_ tap.ReportableHook  = (*RecordingHook)(nil)
	_ tap.ToggleableHook  = (*RecordingHook)(nil)
	_ tap.PrioritizedHook = (*RecordingHook)(nil)
)

func (h *RecordingHook) Enter(ctx context.Context, event string, args []any) (any, error) {
	h.record(Call{Phase: tap.PhaseEnter, Event: event, Args: args})
	if h.EnterErr != nil {
		return nil, h.EnterErr
	}
	return h.EnterCtx, nil
}

func (h *RecordingHook) Exit(ctx context.Context, event string, result any, hctx any) error {
	h.record(Call{Phase: tap.PhaseExit, Event: event, Result: result, Ctx: hctx})
	return h.ExitErr
}

func (h *RecordingHook) Cleanup(ctx context.Context, event string, hctx any, callErr error) error {
	h.record(Call{Phase: tap.PhaseCleanup, Event: event, Ctx: hctx, CallErr: callErr})
	return h.CleanupErr
}

func (h *RecordingHook) Reset() error {
	h.mu.Lock()
	h.calls = nil
	h.mu.Unlock()
	return h.ResetErr
}

func (h *RecordingHook) Report(sink tap.ReportSink) error {
	if h.ReportErr != nil {
		return h.ReportErr
	}
	sink.Report(h.Name, zerolog.InfoLevel, "report")
	return nil
}

func (h *RecordingHook) HookEnabled() bool { return !h.Disabled }

func (h *RecordingHook) record(c Call) {
	h.mu.Lock()
	h.calls = append(h.calls, c)
	h.mu.Unlock()
}

// Calls returns a copy of every recorded phase invocation, in order.
func (h *RecordingHook) Calls() []Call {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]Call, len(h.calls))
	copy(out, h.calls)
	return out
}

// Phases returns just the phase sequence, convenient for order assertions.
func (h *RecordingHook) Phases() []tap.Phase {
	calls := h.Calls()
	out := make([]tap.Phase, len(calls))
	for i, c := range calls {
		out[i] = c.Phase
	}
	return out
}

// CountPhase returns how many recorded calls hit the given phase.
func (h *RecordingHook) CountPhase(phase tap.Phase) int {
	n := 0
	for _, c := range h.Calls() {
		if c.Phase == phase {
			n++
		}
	}
	return n
}

// -----------------------------------------------------------------------------
// Memory Sink
// -----------------------------------------------------------------------------

// Entry is one report line captured by MemorySink.
type Entry struct {
	Event string
	Level zerolog.Level
	Msg   string
}

// MemorySink collects report lines in memory.
type MemorySink struct {
	mu      sync.Mutex
	entries []Entry
}

var _ tap.ReportSink = (*MemorySink)(nil)

func (s *MemorySink) Report(event string, level zerolog.Level, msg string) {
	s.mu.Lock()
	s.entries = append(s.entries, Entry{Event: event, Level: level, Msg: msg})
	s.mu.Unlock()
}

// Entries returns a copy of the captured report lines, in order.
func (s *MemorySink) Entries() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// -----------------------------------------------------------------------------
// Fake Clock
// -----------------------------------------------------------------------------

// FakeClock is a manually advanced clock for deterministic timing tests.
type FakeClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewFakeClock creates a FakeClock starting at a fixed instant.
func NewFakeClock() *FakeClock {
	return &FakeClock{now: time.Date(2025, 2, 15, 12, 0, 0, 0, time.UTC)}
}

// Now returns the clock's current instant.
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}
