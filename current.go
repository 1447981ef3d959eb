package tap

import "context"

// chainKey carries the stack of event names currently being dispatched.
type chainKey struct{}

// withCurrentEvent pushes an event name onto the chain carried by ctx.
// The chain is copied so that sibling dispatches never share a slice.
func withCurrentEvent(ctx context.Context, name string) context.Context {
	prev, _ := ctx.Value(chainKey{}).([]string)
	chain := make([]string, 0, len(prev)+1)
	chain = append(chain, prev...)
	chain = append(chain, name)
	return context.WithValue(ctx, chainKey{}, chain)
}

// CurrentEvent returns the name of the innermost event being dispatched
// through ctx, if any. Hooks receive a ctx for which this reports the
// event they are observing.
func CurrentEvent(ctx context.Context) (string, bool) {
	chain, _ := ctx.Value(chainKey{}).([]string)
	if len(chain) == 0 {
		return "", false
	}
	return chain[len(chain)-1], true
}

// EventChain returns the stack of nested event names being dispatched
// through ctx, outermost first. The returned slice is a copy.
func EventChain(ctx context.Context) []string {
	chain, _ := ctx.Value(chainKey{}).([]string)
	if len(chain) == 0 {
		return nil
	}
	out := make([]string, len(chain))
	copy(out, chain)
	return out
}
