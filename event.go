package tap

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/kweiss/tap/schema"
)

// Target is the callable wrapped by an event. Arguments pass through the
// wrapper untouched, as does the returned value or error.
type Target func(ctx context.Context, args ...any) (any, error)

// WrappedFunc is the instrumented handle returned by [Auditor.Wrap].
// Calling it behaves identically to calling the target directly, except
// that hooks observe the call while auditing is enabled.
type WrappedFunc func(ctx context.Context, args ...any) (any, error)

// Event binds a name to an optional target and an ordered list of hooks.
//
// Events are created through [Auditor.Wrap] (targeted) or
// [Auditor.CreateEvent] (signal-only); they are never constructed
// directly. An event's name is its identity within a registry.
type Event struct {
	name   string
	target Target // nil for signal-only events

	mu      sync.RWMutex
	enabled bool
	hooks   []attachedHook
	entry   []int // entry order, indices into hooks
	exit    []int // exit order, indices into hooks

	runtimeEvents bool
	payload       *schema.Schema
	logger        zerolog.Logger
	policy        ErrorPolicy
}

// EventOption configures an event at registration time.
type EventOption func(*Event)

// WithHooks attaches hooks to the event, after any already attached.
// Attachment order is the tie-break for equal priorities.
func WithHooks(hooks ...Hook) EventOption {
	return func(e *Event) { e.addHooks(hooks) }
}

// Disabled registers the event switched off. It can be enabled later with
// [Auditor.ToggleEvent].
func Disabled() EventOption {
	return func(e *Event) { e.enabled = false }
}

// WithRuntimeEvents makes the event additionally notify process-wide
// runtime sinks (see [AddRuntimeSink]) with an "enter:<name>" /
// "exit:<name>" pair around every audited call, independent of any
// attached hooks.
func WithRuntimeEvents() EventOption {
	return func(e *Event) { e.runtimeEvents = true }
}

// WithPayloadSchema declares a schema that data passed to
// [Auditor.RaiseEvent] is validated against. Only meaningful for
// signal-only events.
func WithPayloadSchema(s *schema.Schema) EventOption {
	return func(e *Event) { e.payload = s }
}

func newEvent(name string, target Target, logger zerolog.Logger, policy ErrorPolicy, opts ...EventOption) *Event {
	e := &Event{
		name:    name,
		target:  target,
		enabled: true,
		logger:  logger,
		policy:  policy,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name returns the event's registered name.
func (e *Event) Name() string { return e.name }

// Enabled reports whether the event itself is switched on. Hooks run only
// when both the event and the owning auditor are enabled.
func (e *Event) Enabled() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.enabled
}

// SetEnabled toggles this event alone; other events are unaffected.
func (e *Event) SetEnabled(enabled bool) {
	e.mu.Lock()
	e.enabled = enabled
	e.mu.Unlock()
}

// Signal reports whether the event is signal-only (has no wrapped target).
func (e *Event) Signal() bool { return e.target == nil }

// AddHooks attaches additional hooks after registration. Phase orderings
// are recomputed; relative order of previously attached hooks is
// preserved.
func (e *Event) AddHooks(hooks ...Hook) {
	e.addHooks(hooks)
}

func (e *Event) addHooks(hooks []Hook) {
	e.mu.Lock()
	defer e.mu.Unlock()
	// Rebuild rather than append in place: dispatch snapshots these
	// slices under RLock and must not observe partial updates.
	next := make([]attachedHook, 0, len(e.hooks)+len(hooks))
	next = append(next, e.hooks...)
	for _, h := range hooks {
		next = append(next, attach(h))
	}
	e.hooks = next
	e.entry = entryOrder(next)
	e.exit = exitOrder(next)
}

// Hooks returns the attached hooks in attachment order.
func (e *Event) Hooks() []Hook {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]Hook, len(e.hooks))
	for i := range e.hooks {
		out[i] = e.hooks[i].hook
	}
	return out
}

// Call invokes the wrapped target through the dispatch protocol. If the
// event is disabled the target is called directly with no hook
// involvement. The auditor-level enabled check lives in the wrapper
// returned by [Auditor.Wrap]; Call itself only consults the event's own
// flag.
func (e *Event) Call(ctx context.Context, args ...any) (any, error) {
	if e.target == nil {
		return nil, fmt.Errorf("%w: %q", ErrNoTarget, e.name)
	}
	if !e.Enabled() {
		return e.target(ctx, args...)
	}
	return e.dispatch(ctx, args, func(ctx context.Context) (any, error) {
		return e.target(ctx, args...)
	})
}

// Raise dispatches a signal-only event. data is handed to hooks both as
// the call arguments and as the stand-in result. Raising a disabled event
// is a no-op.
func (e *Event) Raise(ctx context.Context, data ...any) error {
	if e.target != nil {
		return fmt.Errorf("%w: %q", ErrNotSignal, e.name)
	}
	if !e.Enabled() {
		return nil
	}
	if e.payload != nil {
		if err := e.payload.Validate(data); err != nil {
			return fmt.Errorf("tap: event %q payload: %w", e.name, err)
		}
	}
	_, err := e.dispatch(ctx, data, func(context.Context) (any, error) {
		return data, nil
	})
	return err
}

// dispatch runs the full protocol: ordered enter phases, the target,
// ordered exit phases, and a cleanup phase that is guaranteed to run for
// every hook that entered, in reverse entry order, on every termination
// path including panics.
func (e *Event) dispatch(
	ctx context.Context,
	args []any,
	invoke func(context.Context) (any, error),
) (result any, err error) {
	e.mu.RLock()
	hooks, entry, exit := e.hooks, e.entry, e.exit
	e.mu.RUnlock()

	ctx = withCurrentEvent(ctx, e.name)

	if e.runtimeEvents {
		emitRuntime("enter:"+e.name, args)
	}

	// frames holds each hook's private context, indexed like hooks.
	frames := make([]any, len(hooks))
	entered := make([]int, 0, len(entry))

	var enterErr error
	var targetErr error
	var hookErrs []error

	// Cleanup unwinds entered hooks LIFO. Running it in a defer keeps
	// the guarantee intact when the target or a hook panics: the panic
	// propagates to the caller only after every entered hook's cleanup
	// has run.
	defer func() {
		for i := len(entered) - 1; i >= 0; i-- {
			idx := entered[i]
			ah := &hooks[idx]
			if ah.cleanup == nil {
				continue
			}
			if cerr := ah.cleanup.Cleanup(ctx, e.name, frames[idx], targetErr); cerr != nil {
				hookErrs = append(hookErrs, &HookError{Phase: PhaseCleanup, Event: e.name, Err: cerr})
			}
		}
		err = e.resolve(targetErr, enterErr, hookErrs)
	}()

	for _, idx := range entry {
		ah := &hooks[idx]
		if !ah.enabled() {
			continue
		}
		hctx, herr := ah.hook.Enter(ctx, e.name, args)
		if herr != nil {
			enterErr = &HookError{Phase: PhaseEnter, Event: e.name, Err: herr}
			return nil, nil // final err is assigned in the deferred cleanup
		}
		frames[idx] = hctx
		entered = append(entered, idx)
	}

	result, targetErr = invoke(ctx)
	if targetErr != nil {
		return nil, nil
	}

	for _, idx := range exit {
		if !containsIndex(entered, idx) {
			continue
		}
		ah := &hooks[idx]
		if xerr := ah.hook.Exit(ctx, e.name, result, frames[idx]); xerr != nil {
			hookErrs = append(hookErrs, &HookError{Phase: PhaseExit, Event: e.name, Err: xerr})
		}
	}

	if e.runtimeEvents {
		emitRuntime("exit:"+e.name, []any{result})
	}

	return result, nil
}

// resolve picks the error the caller observes. The target's error wins
// over everything; an enter error wins over exit/cleanup errors. Hook
// errors suppressed by a more significant error are logged, never
// silently dropped.
func (e *Event) resolve(targetErr, enterErr error, hookErrs []error) error {
	switch {
	case targetErr != nil:
		e.logSuppressed(hookErrs)
		return targetErr
	case enterErr != nil:
		e.logSuppressed(hookErrs)
		return enterErr
	default:
		surfaced, remainder := e.policy.combine(hookErrs)
		e.logSuppressed(remainder)
		return surfaced
	}
}

func (e *Event) logSuppressed(errs []error) {
	for _, herr := range errs {
		e.logger.Error().Err(herr).Str("event", e.name).Msg("suppressed hook error")
	}
}

func containsIndex(indices []int, idx int) bool {
	for _, i := range indices {
		if i == idx {
			return true
		}
	}
	return false
}
