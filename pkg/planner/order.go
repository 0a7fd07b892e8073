// SPDX-License-Identifier: Apache-2.0

package planner

import (
	"sort"

	"github.com/polarstack/icequery/pkg/schema"
)

// Order topologically sorts a node set using Kahn's algorithm: at each
// round every node whose dependencies are already satisfied becomes a
// candidate, and candidates are emitted in (Category, Key) order —
// Tables, then Columns, then Types, then Constraints/Indexes, ties
// broken lexicographically — before the next round is computed.
// Because the tie-break depends only on each node's own content, never
// on its position in the input slice, Order is a pure function of the
// input set: reordering the slice passed in
// produces an identical result.
func Order(nodes []schema.Node) ([]schema.Node, error) {
	remaining := append([]schema.Node(nil), nodes...)
	emitted := make(map[string]bool, len(nodes))
	out := make([]schema.Node, 0, len(nodes))

	for len(remaining) > 0 {
		var ready []schema.Node
		var next []schema.Node

		for _, n := range remaining {
			if dependenciesSatisfied(n, emitted) {
				ready = append(ready, n)
			} else {
				next = append(next, n)
			}
		}

		if len(ready) == 0 {
			keys := make([]string, len(remaining))
			for i, n := range remaining {
				keys[i] = n.Key()
			}
			return nil, UnresolvedDependencyError{Remaining: keys}
		}

		sort.Slice(ready, func(i, j int) bool {
			if ready[i].Category() != ready[j].Category() {
				return ready[i].Category() < ready[j].Category()
			}
			return ready[i].Key() < ready[j].Key()
		})

		for _, n := range ready {
			out = append(out, n)
			emitted[n.Key()] = true
		}
		remaining = next
	}

	return out, nil
}

func dependenciesSatisfied(n schema.Node, emitted map[string]bool) bool {
	for _, dep := range n.Dependencies() {
		if !dep.Satisfied(emitted) {
			return false
		}
	}
	return true
}
