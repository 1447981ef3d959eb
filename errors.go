package tap

import (
	"errors"
	"fmt"
)

// ErrDuplicateEvent is returned when registering an event under a name that
// is already taken. The existing event is left untouched.
var ErrDuplicateEvent = errors.New("tap: event already registered")

// ErrUnknownEvent is returned by lookups, toggles, and raises that name an
// event that was never registered.
var ErrUnknownEvent = errors.New("tap: unknown event")

// ErrNoTarget is returned when a signal-only event is called as if it
// wrapped a function.
var ErrNoTarget = errors.New("tap: event has no target")

// ErrNotSignal is returned when Raise is used on an event that wraps a
// target function. Targeted events are invoked through their wrapper.
var ErrNotSignal = errors.New("tap: event wraps a target")

// Phase identifies which hook phase produced a HookError.
type Phase string

const (
	PhaseEnter   Phase = "enter"
	PhaseExit    Phase = "exit"
	PhaseCleanup Phase = "cleanup"
)

// HookError wraps an error returned by a hook phase during dispatch.
//
// An enter-phase HookError aborts the invocation before the target runs.
// Exit- and cleanup-phase HookErrors are collected so that sibling hooks
// still run; they surface to the caller only when the target itself
// succeeded (the target's error always takes precedence).
type HookError struct {
	// Phase is the hook phase that failed.
	Phase Phase

	// Event is the name of the event being dispatched.
	Event string

	// Err is the error the hook returned.
	Err error
}

func (e *HookError) Error() string {
	return fmt.Sprintf("tap: %s hook failed for event %q: %v", e.Phase, e.Event, e.Err)
}

func (e *HookError) Unwrap() error {
	return e.Err
}

// ErrorPolicy controls how multiple hook errors from a single invocation
// are surfaced when no target error takes precedence.
type ErrorPolicy int

const (
	// AggregateAll joins every collected hook error with errors.Join.
	// This is the default.
	AggregateAll ErrorPolicy = iota

	// FirstOnly surfaces only the first hook error; the rest go to the
	// diagnostic logger.
	FirstOnly
)

// combine reduces collected hook errors according to the policy. The
// returned remainder holds errors the caller should log rather than
// propagate (always empty for AggregateAll).
func (p ErrorPolicy) combine(errs []error) (surfaced error, remainder []error) {
	if len(errs) == 0 {
		return nil, nil
	}
	if p == FirstOnly {
		return errs[0], errs[1:]
	}
	return errors.Join(errs...), nil
}
