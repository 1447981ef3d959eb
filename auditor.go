package tap

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"
)

// Auditor is the auditing context controller: it owns a registry of events
// and the ambient enabled/disabled state that gates whether any of their
// hooks run.
//
// The enabled state is deliberately coarse, one flag per auditor, not per
// event. Scopes created with [Auditor.Start] nest: each End restores
// whatever state its Start observed, so a scope opened while auditing is
// already on is a no-op on state but still balances correctly.
type Auditor struct {
	registry *Registry
	logger   zerolog.Logger
	policy   ErrorPolicy

	mu      sync.Mutex
	enabled bool
	prior   []bool // stack of states saved by open scopes
}

// Option configures an Auditor.
type Option func(*Auditor)

// WithLogger sets the diagnostic logger. Suppressed hook errors and
// scope-exit report/reset failures are written here. The default logger
// discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(a *Auditor) { a.logger = logger }
}

// WithErrorPolicy sets how multiple hook errors from one invocation are
// surfaced. The default is [AggregateAll].
func WithErrorPolicy(policy ErrorPolicy) Option {
	return func(a *Auditor) { a.policy = policy }
}

// New creates an Auditor with an empty registry. Auditing starts disabled.
func New(opts ...Option) *Auditor {
	a := &Auditor{
		registry: NewRegistry(),
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Registry returns the auditor's event registry.
func (a *Auditor) Registry() *Registry { return a.registry }

// Enabled reports whether auditing is currently on.
func (a *Auditor) Enabled() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.enabled
}

// SetEnabled toggles auditing directly, outside any scope discipline.
// Scopes opened before a manual toggle still restore the state they
// observed when they end.
func (a *Auditor) SetEnabled(enabled bool) {
	a.mu.Lock()
	a.enabled = enabled
	a.mu.Unlock()
}

// -----------------------------------------------------------------------------
// Scoped Auditing
// -----------------------------------------------------------------------------

// Scope is a region within which auditing is enabled. End restores the
// state observed by Start and is safe to call more than once; defer it
// immediately:
//
//	scope := auditor.Start()
//	defer scope.End()
type Scope struct {
	auditor *Auditor
	once    sync.Once
	reset   bool
	report  ReportSink
}

// ScopeOption configures a Scope at Start time.
type ScopeOption func(*Scope)

// ResetOnEnd makes the scope reset every resettable hook when it ends.
func ResetOnEnd() ScopeOption {
	return func(s *Scope) { s.reset = true }
}

// ReportOnEnd makes the scope report every reportable hook to sink when
// it ends. Reporting happens before any reset and before the enabled
// state is restored, so hooks are still conceptually inside the audited
// region.
func ReportOnEnd(sink ReportSink) ScopeOption {
	return func(s *Scope) { s.report = sink }
}

// Start enables auditing and returns a Scope whose End restores the prior
// state. Nesting is safe: starting while already enabled changes nothing
// but still balances on End.
func (a *Auditor) Start(opts ...ScopeOption) *Scope {
	s := &Scope{auditor: a}
	for _, opt := range opts {
		opt(s)
	}
	a.mu.Lock()
	a.prior = append(a.prior, a.enabled)
	a.enabled = true
	a.mu.Unlock()
	return s
}

// End runs the scope's report/reset actions, then restores the enabled
// state observed by Start. Subsequent calls are no-ops.
func (s *Scope) End() {
	s.once.Do(func() {
		a := s.auditor
		if s.report != nil {
			if err := a.ReportAll(s.report); err != nil {
				a.logger.Error().Err(err).Msg("scope-exit report failed")
			}
		}
		if s.reset {
			if err := a.ResetAll(); err != nil {
				a.logger.Error().Err(err).Msg("scope-exit reset failed")
			}
		}
		a.mu.Lock()
		if n := len(a.prior); n > 0 {
			a.enabled = a.prior[n-1]
			a.prior = a.prior[:n-1]
		} else {
			a.enabled = false
		}
		a.mu.Unlock()
	})
}

// Within runs fn inside an auditing scope. The scope ends on every return
// path, including a panic in fn.
func (a *Auditor) Within(fn func(), opts ...ScopeOption) {
	scope := a.Start(opts...)
	defer scope.End()
	fn()
}

// -----------------------------------------------------------------------------
// Registration
// -----------------------------------------------------------------------------

// Wrap registers target under name and returns an instrumented handle.
// While auditing is off, or the event is disabled, the handle calls the
// target directly with zero hook involvement.
func (a *Auditor) Wrap(name string, target Target, opts ...EventOption) (WrappedFunc, error) {
	if target == nil {
		return nil, errors.New("tap: Wrap requires a target, use CreateEvent for signal events")
	}
	e := newEvent(name, target, a.logger, a.policy, opts...)
	if err := a.registry.Register(e); err != nil {
		return nil, err
	}
	wrapped := func(ctx context.Context, args ...any) (any, error) {
		if !a.Enabled() {
			return target(ctx, args...)
		}
		return e.Call(ctx, args...)
	}
	return wrapped, nil
}

// Unwrap unregisters the event with the given name. Existing handles from
// Wrap keep working but dispatch through the removed event, which still
// honors its own enabled flag.
func (a *Auditor) Unwrap(name string) error {
	return a.registry.Remove(name)
}

// CreateEvent registers a signal-only event: no wrapped callable, raised
// explicitly with [Auditor.RaiseEvent].
func (a *Auditor) CreateEvent(name string, opts ...EventOption) (*Event, error) {
	e := newEvent(name, nil, a.logger, a.policy, opts...)
	if err := a.registry.Register(e); err != nil {
		return nil, err
	}
	return e, nil
}

// RaiseEvent dispatches the named signal event with data standing in for
// a result. A raise while auditing is off is a no-op.
func (a *Auditor) RaiseEvent(ctx context.Context, name string, data ...any) error {
	e, err := a.registry.Lookup(name)
	if err != nil {
		return err
	}
	if !a.Enabled() {
		return nil
	}
	return e.Raise(ctx, data...)
}

// ToggleEvent switches one event on or off by name.
func (a *Auditor) ToggleEvent(name string, enabled bool) error {
	return a.registry.SetEnabled(name, enabled)
}

// -----------------------------------------------------------------------------
// Report / Reset Coordination
// -----------------------------------------------------------------------------

// ReportAll calls Report on every unique reportable hook across all
// registered events. A hook attached to several events reports once.
// Individual failures do not stop the fan-out; they are joined into the
// returned error.
func (a *Auditor) ReportAll(sink ReportSink) error {
	return a.registry.EachUniqueHook(func(h Hook) error {
		r, ok := h.(ReportableHook)
		if !ok {
			return nil
		}
		return r.Report(sink)
	})
}

// ResetAll calls Reset on every unique resettable hook across all
// registered events, with the same de-duplication and failure handling
// as [Auditor.ReportAll].
func (a *Auditor) ResetAll() error {
	return a.registry.EachUniqueHook(func(h Hook) error {
		r, ok := h.(ResettableHook)
		if !ok {
			return nil
		}
		return r.Reset()
	})
}

// -----------------------------------------------------------------------------
// Default Auditor
// -----------------------------------------------------------------------------

var defaultAuditor = New()

// Default returns the package-level auditor used by the top-level
// convenience functions.
func Default() *Auditor { return defaultAuditor }

// Wrap registers an event on the default auditor. See [Auditor.Wrap].
func Wrap(name string, target Target, opts ...EventOption) (WrappedFunc, error) {
	return defaultAuditor.Wrap(name, target, opts...)
}

// CreateEvent registers a signal event on the default auditor. See
// [Auditor.CreateEvent].
func CreateEvent(name string, opts ...EventOption) (*Event, error) {
	return defaultAuditor.CreateEvent(name, opts...)
}

// RaiseEvent raises a signal event on the default auditor. See
// [Auditor.RaiseEvent].
func RaiseEvent(ctx context.Context, name string, data ...any) error {
	return defaultAuditor.RaiseEvent(ctx, name, data...)
}

// ToggleEvent toggles an event on the default auditor. See
// [Auditor.ToggleEvent].
func ToggleEvent(name string, enabled bool) error {
	return defaultAuditor.ToggleEvent(name, enabled)
}

// SetEnabled toggles the default auditor. See [Auditor.SetEnabled].
func SetEnabled(enabled bool) { defaultAuditor.SetEnabled(enabled) }

// Start opens an auditing scope on the default auditor. See
// [Auditor.Start].
func Start(opts ...ScopeOption) *Scope { return defaultAuditor.Start(opts...) }

// Within runs fn inside an auditing scope on the default auditor. See
// [Auditor.Within].
func Within(fn func(), opts ...ScopeOption) { defaultAuditor.Within(fn, opts...) }

// ReportAll reports every unique hook on the default auditor. See
// [Auditor.ReportAll].
func ReportAll(sink ReportSink) error { return defaultAuditor.ReportAll(sink) }

// ResetAll resets every unique hook on the default auditor. See
// [Auditor.ResetAll].
func ResetAll() error { return defaultAuditor.ResetAll() }
