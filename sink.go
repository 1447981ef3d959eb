package tap

import (
	"sync"

	"github.com/rs/zerolog"
)

// -----------------------------------------------------------------------------
// Report Sink
// -----------------------------------------------------------------------------

// ReportSink is the destination hooks write accumulated results to. Each
// entry is a (event, level, message) triple, which maps directly onto a
// structured logger but keeps hooks decoupled from any particular one.
type ReportSink interface {
	Report(event string, level zerolog.Level, msg string)
}

// LoggerSink adapts a zerolog.Logger into a [ReportSink].
type LoggerSink struct {
	Logger zerolog.Logger
}

// Report writes one report line to the underlying logger with the event
// name attached as a structured field.
func (s LoggerSink) Report(event string, level zerolog.Level, msg string) {
	s.Logger.WithLevel(level).Str("event", event).Msg(msg)
}

// -----------------------------------------------------------------------------
// Runtime Sink Bridge
// -----------------------------------------------------------------------------

// RuntimeSink receives pass-through notifications for events registered
// with [WithRuntimeEvents]. The engine emits "enter:<name>" with the call
// arguments before the target runs and "exit:<name>" with the result after
// it returns successfully. There is no context-passing contract: this is a
// side channel to host-level audit machinery, not a hook.
type RuntimeSink interface {
	Emit(name string, data []any)
}

var runtimeSinks struct {
	mu    sync.RWMutex
	sinks []RuntimeSink
}

// AddRuntimeSink registers a process-wide runtime sink. Sinks cannot be
// removed; register them once during startup.
func AddRuntimeSink(s RuntimeSink) {
	runtimeSinks.mu.Lock()
	runtimeSinks.sinks = append(runtimeSinks.sinks, s)
	runtimeSinks.mu.Unlock()
}

// emitRuntime notifies every registered runtime sink.
func emitRuntime(name string, data []any) {
	runtimeSinks.mu.RLock()
	sinks := runtimeSinks.sinks
	runtimeSinks.mu.RUnlock()
	for _, s := range sinks {
		s.Emit(name, data)
	}
}
