// SPDX-License-Identifier: Apache-2.0

package schema

// Category orders nodes of equal dependency-satisfaction for a stable,
// readable emission order: Tables, then Columns, then Types, then
// Constraints/Indexes.
type Category int

const (
	TableCategory Category = iota
	ColumnCategory
	TypeCategory
	ConstraintCategory
)

// Node is a frozen, value-equal, hashable schema object: a table,
// column, enum type or constraint/index. Nodes exist only for the
// duration of a single planning pass.
type Node interface {
	// Key is the node's representation key — a stable string identity
	// used for merge and diff, unique within a snapshot after Merge has
	// been applied to duplicates.
	Key() string

	// Category is this node's tie-break bucket in the emission order.
	Category() Category

	// Dependencies lists the nodes (via pointer) that must be created
	// before this node and destroyed after it.
	Dependencies() []DependencyRef

	// Create emits the actions that bring this node into existence.
	Create(rec Recorder)

	// Destroy emits the actions that remove this node.
	Destroy(rec Recorder)

	// Migrate emits the minimal delta that transforms prev into this
	// node. prev is guaranteed to share this node's Key.
	Migrate(prev Node, rec Recorder)

	// Merge combines this node with another sharing the same Key,
	// returning the unioned node or a MergeConflictError if the two
	// disagree on non-unionable content.
	Merge(other Node) (Node, error)

	// Equal reports whether two nodes sharing the same Key have
	// identical content (and therefore require no migration).
	Equal(other Node) bool
}
