// Package tap provides a composable instrumentation framework for Go.
//
// The library lets you wrap arbitrary units of work ("targets") with named
// events. Each event carries an ordered set of hooks that observe the
// target's entry, exit, and failure without altering its externally visible
// behavior. Auditing is gated behind an ambient enabled/disabled state, so
// instrumented code runs at full speed when nobody is watching.
//
// # Quick Start
//
//	package main
//
//	import (
//	    "context"
//	    "fmt"
//	    "os"
//
//	    "github.com/kweiss/tap"
//	    "github.com/kweiss/tap/hooks"
//	    "github.com/rs/zerolog"
//	)
//
//	func main() {
//	    counter := hooks.NewCounter()
//	    timer := hooks.NewTimer()
//
//	    // 1. Wrap a function under a named event.
//	    add, _ := tap.Wrap("calc.add",
//	        func(ctx context.Context, args ...any) (any, error) {
//	            return args[0].(int) + args[1].(int), nil
//	        },
//	        tap.WithHooks(counter, timer),
//	    )
//
//	    // 2. Call it inside an auditing scope. Outside a scope the
//	    //    wrapped function behaves exactly like the original.
//	    scope := tap.Start()
//	    sum, _ := add(context.Background(), 1, 2)
//	    scope.End()
//
//	    fmt.Println(sum) // 3
//
//	    // 3. Report accumulated results.
//	    logger := zerolog.New(os.Stderr)
//	    tap.ReportAll(tap.LoggerSink{Logger: logger})
//	}
//
// # Hooks
//
// A hook implements [Hook] (Enter/Exit) and any combination of the optional
// capability interfaces: [CleanupHook], [ResettableHook], [ReportableHook],
// [ToggleableHook], and [PrioritizedHook]. Capabilities are detected once,
// when the hook is attached to an event, so dispatch never performs
// repeated type assertions.
//
// The value returned by a hook's Enter is private to that hook: the engine
// hands it back to the same hook's Exit and Cleanup for the same call, and
// never to any other hook.
//
// # Dispatch Guarantees
//
// For every call through an enabled event:
//
//   - Enter phases run in ascending enter-priority order (stable).
//   - Exit phases run in ascending exit-priority order (stable), only when
//     the target returned without error.
//   - Cleanup runs for every hook whose Enter completed, exactly once, in
//     reverse entry order, whether the target succeeded, returned an error,
//     or panicked.
//   - The target's own error always reaches the caller unchanged; hook
//     errors suppressed in its favor go to the auditor's diagnostic logger.
//
// # Events Without a Target
//
// [Auditor.CreateEvent] registers a signal-only event with no wrapped
// callable. [Auditor.RaiseEvent] runs its hooks around caller-supplied
// data standing in for a result. Signal events may declare a payload
// schema (see the schema subpackage) that raised data is validated
// against.
//
// # Ambient State
//
// The auditing toggle is deliberately coarse: one enabled flag per
// [Auditor], shared by all of its events. Scopes created with
// [Auditor.Start] nest safely; each End restores the state its Start
// observed. A package-level default auditor mirrors the Auditor API for
// programs that only ever need one.
//
// All Auditor and Registry state is mutex-guarded, but the single ambient
// flag means concurrent goroutines toggling scopes will observe each
// other. The intended model is one logical auditing session at a time.
package tap
