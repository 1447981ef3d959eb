package hooks

import (
	"context"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/kweiss/tap"
)

// Tracing records every audited call it observes together with the chain
// of events enclosing it, building a flat log of the nested call
// structure. Attach it to every event you want in the trace; nesting is
// recovered from the event chain the engine carries in the context.
type Tracing struct {
	tap.HookPriority

	mu    sync.Mutex
	spans []Span
}

// Span is one recorded call.
type Span struct {
	// Event is the name of the event that was dispatched.
	Event string

	// Chain is the stack of event names enclosing the call, outermost
	// first; its last element is Event.
	Chain []string

	// Err is the target's error, nil if it succeeded.
	Err error
}

// Depth returns the nesting depth of the call, 0 for a top-level event.
func (s Span) Depth() int { return len(s.Chain) - 1 }

var (
	_ tap.Hook           = (*Tracing)(nil)
	_ tap.CleanupHook    = (*Tracing)(nil)
	_ tap.ResettableHook = (*Tracing)(nil)
	_ tap.ReportableHook = (*Tracing)(nil)
)

// NewTracing creates an empty Tracing hook. High priorities keep other
// hooks' phases outside the recorded call.
func NewTracing() *Tracing {
	return &Tracing{HookPriority: tap.HookPriority{Enter: 15, Exit: -15}}
}

// Enter is a no-op; spans are recorded in Cleanup so that failed calls
// appear in the trace too.
func (t *Tracing) Enter(ctx context.Context, event string, args []any) (any, error) {
	return nil, nil
}

// Exit is a no-op.
func (t *Tracing) Exit(ctx context.Context, event string, result any, hctx any) error {
	return nil
}

// Cleanup records the completed call, whether it succeeded or failed.
func (t *Tracing) Cleanup(ctx context.Context, event string, hctx any, callErr error) error {
	span := Span{
		Event: event,
		Chain: tap.EventChain(ctx),
		Err:   callErr,
	}
	t.mu.Lock()
	t.spans = append(t.spans, span)
	t.mu.Unlock()
	return nil
}

// Spans returns a copy of the recorded spans in completion order. Nested
// calls complete before their enclosing call, so a parent appears after
// its children.
func (t *Tracing) Spans() []Span {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Span, len(t.spans))
	copy(out, t.spans)
	return out
}

// Reset discards all recorded spans.
func (t *Tracing) Reset() error {
	t.mu.Lock()
	t.spans = nil
	t.mu.Unlock()
	return nil
}

// Report writes one line per span, indented by nesting depth.
func (t *Tracing) Report(sink tap.ReportSink) error {
	for _, span := range t.Spans() {
		msg := strings.Repeat("  ", span.Depth()) + "call completed"
		level := zerolog.InfoLevel
		if span.Err != nil {
			msg = strings.Repeat("  ", span.Depth()) + "call failed: " + span.Err.Error()
			level = zerolog.WarnLevel
		}
		sink.Report(span.Event, level, msg)
	}
	return nil
}
