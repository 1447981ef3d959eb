package tap

import "sort"

// Hook phase ordering.
//
// Both orderings are stable ascending sorts over the attached hook list, so
// equal priorities fall back to attachment order. Cleanup does not get its
// own ordering: it is always the reverse of the entry order actually taken,
// which the dispatch loop realizes by unwinding entered hooks LIFO.

// entryOrder returns indices into hooks sorted by ascending enter priority.
func entryOrder(hooks []attachedHook) []int {
	return sortedIndices(hooks, func(ah *attachedHook) int { return ah.enterPriority })
}

// exitOrder returns indices into hooks sorted by ascending exit priority.
func exitOrder(hooks []attachedHook) []int {
	return sortedIndices(hooks, func(ah *attachedHook) int { return ah.exitPriority })
}

func sortedIndices(hooks []attachedHook, priority func(*attachedHook) int) []int {
	order := make([]int, len(hooks))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return priority(&hooks[order[a]]) < priority(&hooks[order[b]])
	})
	return order
}
