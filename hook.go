package tap

import (
	"context"
)

// -----------------------------------------------------------------------------
// Hook Capability Interfaces
// -----------------------------------------------------------------------------
//
// A hook is any value implementing Hook. The remaining interfaces are
// optional capabilities: implement the ones you need and the engine detects
// them once, when the hook is attached to an event.
//
// Example:
//
//	type SlowCallHook struct {
//	    tap.HookPriority
//	    threshold time.Duration
//	}
//
//	func (h *SlowCallHook) Enter(ctx context.Context, event string, args []any) (any, error) {
//	    return time.Now(), nil
//	}
//
//	func (h *SlowCallHook) Exit(ctx context.Context, event string, result, hctx any) error {
//	    if elapsed := time.Since(hctx.(time.Time)); elapsed > h.threshold {
//	        log.Printf("%s took %v", event, elapsed)
//	    }
//	    return nil
//	}
//
//	// Wrap tightly around the target.
//	hook := &SlowCallHook{HookPriority: tap.HookPriority{Enter: 8, Exit: -8}}
// -----------------------------------------------------------------------------

// Hook is the baseline capability every event participant must implement.
//
// Enter runs before the event's target, Exit after it returns successfully.
// The value Enter returns is the hook's private context for that call: the
// engine passes it back, untouched, to the same hook's Exit and Cleanup.
// Hooks never see each other's context values.
//
// Returning an error from Enter aborts the invocation before the target
// runs (cleanup still fires for hooks that already entered). Errors from
// Exit never prevent sibling hooks or cleanup from running.
type Hook interface {
	// Enter is called before the target, in ascending enter-priority
	// order. It returns a context value private to this hook for this
	// call.
	Enter(ctx context.Context, event string, args []any) (any, error)

	// Exit is called after the target returns without error, in
	// ascending exit-priority order. hctx is the value this hook's
	// Enter returned for the same call.
	Exit(ctx context.Context, event string, result any, hctx any) error
}

// CleanupHook is implemented by hooks that need a phase which runs exactly
// once per invocation whose Enter completed, regardless of whether the
// target succeeded, returned an error, or panicked.
//
// Cleanup runs in reverse entry order, mirroring scoped resource release:
// the last hook to enter is the first to clean up. callErr is the target's
// error, or nil if the target succeeded or never ran.
type CleanupHook interface {
	Cleanup(ctx context.Context, event string, hctx any, callErr error) error
}

// ResettableHook is implemented by hooks that accumulate state which can be
// cleared. See [Auditor.ResetAll].
type ResettableHook interface {
	Reset() error
}

// ReportableHook is implemented by hooks that can emit accumulated results
// to a [ReportSink]. See [Auditor.ReportAll].
type ReportableHook interface {
	Report(sink ReportSink) error
}

// ToggleableHook is implemented by hooks that can be switched off without
// detaching them. A hook reporting false is skipped entirely for that
// invocation: no Enter, and therefore no Exit or Cleanup.
type ToggleableHook interface {
	HookEnabled() bool
}

// PrioritizedHook is implemented by hooks that want to control where their
// phases run relative to other hooks on the same event. Hooks that do not
// implement it get priority 0 for both phases.
//
// Enter phases run in ascending enter-priority order, so a high enter
// priority runs closest to the target's start. Exit phases run in
// ascending exit-priority order, so a low exit priority runs closest to
// the target's end. A measuring hook that wants to wrap tightly around
// the target therefore uses a high enter priority and a low exit priority.
//
// Ties are broken by attachment order, which makes ordering deterministic
// across repeated invocations.
type PrioritizedHook interface {
	EnterPriority() int
	ExitPriority() int
}

// HookPriority is an embeddable implementation of [PrioritizedHook].
//
//	type MyHook struct {
//	    tap.HookPriority
//	}
//
//	hook := &MyHook{HookPriority: tap.HookPriority{Enter: 8, Exit: -8}}
type HookPriority struct {
	// Enter is the enter-phase priority. Higher runs later (closer to
	// the target).
	Enter int

	// Exit is the exit-phase priority. Lower runs earlier (closer to
	// the target).
	Exit int
}

// EnterPriority returns the enter-phase priority.
func (p HookPriority) EnterPriority() int { return p.Enter }

// ExitPriority returns the exit-phase priority.
func (p HookPriority) ExitPriority() int { return p.Exit }

// -----------------------------------------------------------------------------
// Attachment
// -----------------------------------------------------------------------------

// attachedHook caches a hook's optional capabilities and priorities at
// attach time so dispatch never repeats the type assertions.
type attachedHook struct {
	hook    Hook
	cleanup CleanupHook    // nil if the hook has no cleanup phase
	toggle  ToggleableHook // nil if the hook cannot be switched off

	enterPriority int
	exitPriority  int
}

// attach performs capability detection for a hook.
func attach(h Hook) attachedHook {
	ah := attachedHook{hook: h}
	if c, ok := h.(CleanupHook); ok {
		ah.cleanup = c
	}
	if t, ok := h.(ToggleableHook); ok {
		ah.toggle = t
	}
	if p, ok := h.(PrioritizedHook); ok {
		ah.enterPriority = p.EnterPriority()
		ah.exitPriority = p.ExitPriority()
	}
	return ah
}

// enabled reports whether the hook should participate in a dispatch.
func (ah *attachedHook) enabled() bool {
	return ah.toggle == nil || ah.toggle.HookEnabled()
}
