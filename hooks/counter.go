package hooks

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/kweiss/tap"
)

// Counter counts how many times each event it observes is called.
type Counter struct {
	mu     sync.Mutex
	counts map[string]int64
}

var (
	_ tap.Hook           = (*Counter)(nil)
	_ tap.ResettableHook = (*Counter)(nil)
	_ tap.ReportableHook = (*Counter)(nil)
)

// NewCounter creates a Counter with all counts at zero.
func NewCounter() *Counter {
	return &Counter{counts: make(map[string]int64)}
}

// Enter increments the count for the event.
func (c *Counter) Enter(ctx context.Context, event string, args []any) (any, error) {
	c.mu.Lock()
	c.counts[event]++
	c.mu.Unlock()
	return nil, nil
}

// Exit is a no-op; counting happens on entry.
func (c *Counter) Exit(ctx context.Context, event string, result any, hctx any) error {
	return nil
}

// Count returns the number of recorded calls for event.
func (c *Counter) Count(event string) int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counts[event]
}

// Counts returns a copy of all recorded counts.
func (c *Counter) Counts() map[string]int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]int64, len(c.counts))
	for k, v := range c.counts {
		out[k] = v
	}
	return out
}

// Reset clears all counts.
func (c *Counter) Reset() error {
	c.mu.Lock()
	c.counts = make(map[string]int64)
	c.mu.Unlock()
	return nil
}

// Report writes one line per counted event, in name order.
func (c *Counter) Report(sink tap.ReportSink) error {
	for _, event := range c.sortedEvents() {
		sink.Report(event, zerolog.InfoLevel, fmt.Sprintf("called %d times", c.Count(event)))
	}
	return nil
}

func (c *Counter) sortedEvents() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	events := make([]string, 0, len(c.counts))
	for event := range c.counts {
		events = append(events, event)
	}
	sort.Strings(events)
	return events
}
