package hooks

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/kweiss/tap"
)

// Timer accumulates wall time spent inside each event it observes.
//
// Its default priorities (high enter, low exit) make it run last among
// enter phases and first among exit phases, so the measured window wraps
// as tightly around the target as the hook list allows. Time spent in
// other hooks' phases is excluded to the extent ordering permits.
type Timer struct {
	tap.HookPriority

	clock Clock

	mu     sync.Mutex
	totals map[string]time.Duration
}

var (
	_ tap.Hook            = (*Timer)(nil)
	_ tap.PrioritizedHook = (*Timer)(nil)
	_ tap.ResettableHook  = (*Timer)(nil)
	_ tap.ReportableHook  = (*Timer)(nil)
)

// NewTimer creates a Timer backed by the system clock.
func NewTimer() *Timer {
	return NewTimerWithClock(SystemClock{})
}

// NewTimerWithClock creates a Timer backed by the given clock.
func NewTimerWithClock(clock Clock) *Timer {
	return &Timer{
		HookPriority: tap.HookPriority{Enter: 8, Exit: -8},
		clock:        clock,
		totals:       make(map[string]time.Duration),
	}
}

// Enter records the start time as this hook's private context.
func (t *Timer) Enter(ctx context.Context, event string, args []any) (any, error) {
	return t.clock.Now(), nil
}

// Exit adds the elapsed time since Enter to the event's total.
func (t *Timer) Exit(ctx context.Context, event string, result any, hctx any) error {
	elapsed := t.clock.Now().Sub(hctx.(time.Time))
	t.mu.Lock()
	t.totals[event] += elapsed
	t.mu.Unlock()
	return nil
}

// Total returns the accumulated time for event.
func (t *Timer) Total(event string) time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.totals[event]
}

// Reset clears all accumulated times.
func (t *Timer) Reset() error {
	t.mu.Lock()
	t.totals = make(map[string]time.Duration)
	t.mu.Unlock()
	return nil
}

// Report writes one line per timed event, in name order.
func (t *Timer) Report(sink tap.ReportSink) error {
	for _, event := range t.sortedEvents() {
		sink.Report(event, zerolog.InfoLevel, fmt.Sprintf("spent %v in event", t.Total(event)))
	}
	return nil
}

func (t *Timer) sortedEvents() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	events := make([]string, 0, len(t.totals))
	for event := range t.totals {
		events = append(events, event)
	}
	sort.Strings(events)
	return events
}
