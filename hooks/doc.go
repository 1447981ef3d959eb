// Package hooks provides ready-made hook implementations for the tap
// engine.
//
// Each hook implements [tap.Hook] plus whichever optional capabilities
// it needs - the engine detects capabilities once at attach time:
//
//   - [Counter] - counts calls per event (resettable, reportable)
//   - [Timer] - accumulates wall time per event (resettable, reportable,
//     prioritized to wrap tightly around the target)
//   - [Tracing] - records nested event call trees (resettable, reportable)
//   - [Logging] - writes enter/exit/failure lines to a zerolog logger
//   - [Prometheus] - exports call counts, errors, and durations as
//     Prometheus metrics (resettable)
//
// # Sharing Hooks Across Events
//
// A single hook instance may be attached to any number of events; its
// per-event state is keyed by event name. [tap.Auditor.ReportAll] and
// [tap.Auditor.ResetAll] de-duplicate by instance, so a shared hook is
// reported and reset exactly once.
//
// # Example
//
//	counter := hooks.NewCounter()
//	timer := hooks.NewTimer()
//
//	add, _ := tap.Wrap("calc.add", addFunc, tap.WithHooks(counter, timer))
//	mul, _ := tap.Wrap("calc.mul", mulFunc, tap.WithHooks(counter))
//
//	tap.Within(func() {
//	    add(ctx, 1, 2)
//	    mul(ctx, 3, 4)
//	})
//
//	tap.ReportAll(tap.LoggerSink{Logger: logger})
package hooks
