// SPDX-License-Identifier: Apache-2.0

package schema

// TableNode is the schema object for a single table. It carries no
// dependencies of its own; everything else in the table depends on it.
type TableNode struct {
	Name string
}

func (t TableNode) Key() string          { return t.Name }
func (t TableNode) Category() Category   { return TableCategory }
func (t TableNode) Dependencies() []DependencyRef { return nil }

// Create emits a banner comment followed by add_table.
func (t TableNode) Create(rec Recorder) {
	rec.AddComment("NEW TABLE: "+t.Name, nil)
	rec.AddTable(t.Name)
}

func (t TableNode) Destroy(rec Recorder) {
	rec.DropTable(t.Name)
}

// Migrate is a no-op: a TableNode carries no content beyond its name,
// and a differing name is a differing representation key, handled by
// Phase C as a create/destroy pair rather than a migration.
func (t TableNode) Migrate(prev Node, rec Recorder) {}

func (t TableNode) Merge(other Node) (Node, error) {
	o, ok := other.(TableNode)
	if !ok || o.Name != t.Name {
		return nil, MergeConflictError{Key: t.Key(), Reason: "not a compatible TableNode"}
	}
	return t, nil
}

func (t TableNode) Equal(other Node) bool {
	o, ok := other.(TableNode)
	return ok && o.Name == t.Name
}

var _ Node = TableNode{}
