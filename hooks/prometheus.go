package hooks

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kweiss/tap"
)

// Prometheus exports per-event call counts, failure counts, and call
// durations as Prometheus metrics, labeled by event name.
//
// It does not implement [tap.ReportableHook]: its sink is the Prometheus
// registry it was constructed with, scraped out of band.
type Prometheus struct {
	tap.HookPriority

	clock Clock

	calls    *prometheus.CounterVec
	failures *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

var (
	_ tap.Hook           = (*Prometheus)(nil)
	_ tap.CleanupHook    = (*Prometheus)(nil)
	_ tap.ResettableHook = (*Prometheus)(nil)
)

// NewPrometheus creates a Prometheus hook and registers its collectors
// with reg. Panics if a collector with the same name is already
// registered, matching prometheus.MustRegister.
func NewPrometheus(reg prometheus.Registerer) *Prometheus {
	p := &Prometheus{
		HookPriority: tap.HookPriority{Enter: 8, Exit: -8},
		clock:        SystemClock{},
		calls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tap_event_calls_total",
				Help: "Total number of audited event calls",
			},
			[]string{"event"},
		),
		failures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tap_event_failures_total",
				Help: "Total number of audited event calls that returned an error",
			},
			[]string{"event"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "tap_event_duration_seconds",
				Help: "Duration of audited event calls",
			},
			[]string{"event"},
		),
	}
	reg.MustRegister(p.calls, p.failures, p.duration)
	return p
}

// Enter counts the call and records the start time.
func (p *Prometheus) Enter(ctx context.Context, event string, args []any) (any, error) {
	p.calls.WithLabelValues(event).Inc()
	return p.clock.Now(), nil
}

// Exit observes the duration of a successful call.
func (p *Prometheus) Exit(ctx context.Context, event string, result any, hctx any) error {
	p.observe(event, hctx)
	return nil
}

// Cleanup counts failures and observes their duration; the exit phase is
// skipped for failed calls, so the duration would otherwise be lost.
func (p *Prometheus) Cleanup(ctx context.Context, event string, hctx any, callErr error) error {
	if callErr == nil {
		return nil
	}
	p.failures.WithLabelValues(event).Inc()
	p.observe(event, hctx)
	return nil
}

func (p *Prometheus) observe(event string, hctx any) {
	start, ok := hctx.(time.Time)
	if !ok {
		return
	}
	elapsed := p.clock.Now().Sub(start)
	p.duration.WithLabelValues(event).Observe(elapsed.Seconds())
}

// Reset deletes all labeled series from the hook's collectors.
func (p *Prometheus) Reset() error {
	p.calls.Reset()
	p.failures.Reset()
	p.duration.Reset()
	return nil
}
