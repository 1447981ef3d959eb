package tap

import (
	"errors"
	"fmt"
	"sync"
)

// Registry owns the namespace of events for one auditor.
//
// Lookup is by name; iteration (for reporting and reset) follows
// registration order so that output is stable across runs. All methods
// are safe for concurrent use, though the intended model is a single
// logical auditing session at a time.
type Registry struct {
	mu     sync.RWMutex
	events map[string]*Event
	order  []string // registration order, for stable iteration
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		events: make(map[string]*Event),
	}
}

// Register adds an event under its name. Returns ErrDuplicateEvent if the
// name is taken; the existing event is not replaced.
func (r *Registry) Register(e *Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.events[e.name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateEvent, e.name)
	}
	r.events[e.name] = e
	r.order = append(r.order, e.name)
	return nil
}

// Lookup returns the event registered under name, or ErrUnknownEvent.
func (r *Registry) Lookup(name string) (*Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.events[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEvent, name)
	}
	return e, nil
}

// Remove unregisters the event with the given name. The event's hooks are
// not touched; a hook shared with other events keeps observing those.
func (r *Registry) Remove(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.events[name]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownEvent, name)
	}
	delete(r.events, name)
	for i, n := range r.order {
		if n == name {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// SetEnabled toggles one event's flag; no effect on others.
func (r *Registry) SetEnabled(name string, enabled bool) error {
	e, err := r.Lookup(name)
	if err != nil {
		return err
	}
	e.SetEnabled(enabled)
	return nil
}

// Names returns all registered event names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Len returns the number of registered events.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.events)
}

// EachUniqueHook calls fn once per distinct hook instance across all
// registered events, in registration order (events, then attachment
// order within each event). A hook attached to several events is visited
// exactly once. Errors from fn do not stop the iteration; they are
// collected and joined.
func (r *Registry) EachUniqueHook(fn func(Hook) error) error {
	r.mu.RLock()
	events := make([]*Event, 0, len(r.order))
	for _, name := range r.order {
		events = append(events, r.events[name])
	}
	r.mu.RUnlock()

	seen := make(map[Hook]struct{})
	var errs []error
	for _, e := range events {
		for _, h := range e.Hooks() {
			if _, ok := seen[h]; ok {
				continue
			}
			seen[h] = struct{}{}
			if err := fn(h); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}
