// SPDX-License-Identifier: Apache-2.0

package schema

import "sort"

// ConstraintNode is the schema object for a primary key, foreign key,
// unique, check or index constraint. Columns are stored as a set but
// always rendered sorted.
type ConstraintNode struct {
	Table   string
	Columns []string
	Kind    ConstraintType
	Name    string

	FK    *ForeignKeySpec
	Check *CheckSpec
	Index *IndexSpec
}

// NewConstraintNode validates kind/spec agreement at construction time —
// a ConstraintNode is never allowed to exist in an inconsistent state,
// so Create/Destroy/Migrate never need to guard against it.
func NewConstraintNode(n ConstraintNode) (ConstraintNode, error) {
	switch n.Kind {
	case ForeignKey:
		if n.FK == nil {
			return ConstraintNode{}, ConstraintInconsistencyError{Key: n.Key(), Reason: "FOREIGN_KEY constraint missing FK spec"}
		}
	case Check:
		if n.Check == nil {
			return ConstraintNode{}, ConstraintInconsistencyError{Key: n.Key(), Reason: "CHECK constraint missing check spec"}
		}
	case Index:
		if n.Index == nil {
			return ConstraintNode{}, ConstraintInconsistencyError{Key: n.Key(), Reason: "INDEX constraint missing index spec"}
		}
	}
	if n.Kind != ForeignKey && n.FK != nil {
		return ConstraintNode{}, ConstraintInconsistencyError{Key: n.Key(), Reason: "FK spec on a non-FOREIGN_KEY constraint"}
	}
	if n.Kind != Check && n.Check != nil {
		return ConstraintNode{}, ConstraintInconsistencyError{Key: n.Key(), Reason: "check spec on a non-CHECK constraint"}
	}
	if n.Kind != Index && n.Index != nil {
		return ConstraintNode{}, ConstraintInconsistencyError{Key: n.Key(), Reason: "index spec on a non-INDEX constraint"}
	}
	return n, nil
}

func (c ConstraintNode) Key() string        { return ConstraintKey(c.Table, c.Columns, c.Kind) }
func (c ConstraintNode) Category() Category { return ConstraintCategory }

func (c ConstraintNode) Dependencies() []DependencyRef {
	deps := []DependencyRef{TablePointer{Name: c.Table}}
	for _, col := range c.Columns {
		deps = append(deps, ColumnPointer{Table: c.Table, Column: col})
	}
	if c.Kind == ForeignKey && c.FK != nil {
		deps = append(deps, ConstraintPointer{
			RepKey: ConstraintKey(c.FK.TargetTable, []string{c.FK.TargetColumn}, PrimaryKey),
		})
	}
	return deps
}

func (c ConstraintNode) sortedColumns() []string {
	v := append([]string(nil), c.Columns...)
	sort.Strings(v)
	return v
}

func (c ConstraintNode) args() map[string]any {
	switch c.Kind {
	case ForeignKey:
		return map[string]any{
			"target_table":  c.FK.TargetTable,
			"target_column": c.FK.TargetColumn,
			"on_delete":     c.FK.OnDelete,
			"on_update":     c.FK.OnUpdate,
		}
	case Check:
		return map[string]any{"expression": c.Check.Expression}
	case Index:
		return map[string]any{"method": c.Index.Method, "unique": c.Index.Unique}
	default:
		return nil
	}
}

func (c ConstraintNode) name() string {
	if c.Name != "" {
		return c.Name
	}
	if c.Kind == PrimaryKey {
		return c.Table + "_pkey"
	}
	return c.Key()
}

func (c ConstraintNode) Create(rec Recorder) {
	if c.Kind == Index {
		rec.AddIndex(c.Table, c.sortedColumns(), c.name())
		return
	}
	rec.AddConstraint(c.Table, c.Kind, c.name(), c.sortedColumns(), c.args())
}

func (c ConstraintNode) Destroy(rec Recorder) {
	if c.Kind == Index {
		rec.DropIndex(c.Table, c.sortedColumns(), c.name())
		return
	}
	rec.DropConstraint(c.Table, c.name())
}

// Migrate treats any content change as drop-then-recreate: constraints
// carry no partial-alteration DDL in Postgres.
func (c ConstraintNode) Migrate(prev Node, rec Recorder) {
	p, ok := prev.(ConstraintNode)
	if !ok || p.Equal(c) {
		return
	}
	p.Destroy(rec)
	c.Create(rec)
}

func (c ConstraintNode) Merge(other Node) (Node, error) {
	o, ok := other.(ConstraintNode)
	if !ok || !c.Equal(o) {
		return nil, MergeConflictError{Key: c.Key(), Reason: "conflicting constraint definitions"}
	}
	return c, nil
}

func (c ConstraintNode) Equal(other Node) bool {
	o, ok := other.(ConstraintNode)
	if !ok || o.Table != c.Table || o.Kind != c.Kind || o.Name != c.Name {
		return false
	}
	if !sameSet(c.Columns, o.Columns) {
		return false
	}
	return equalSpecs(c, o)
}

func equalSpecs(a, b ConstraintNode) bool {
	switch a.Kind {
	case ForeignKey:
		return a.FK != nil && b.FK != nil && *a.FK == *b.FK
	case Check:
		return a.Check != nil && b.Check != nil && *a.Check == *b.Check
	case Index:
		return a.Index != nil && b.Index != nil &&
			a.Index.Name == b.Index.Name && a.Index.Method == b.Index.Method &&
			a.Index.Unique == b.Index.Unique && sameSet(a.Index.Columns, b.Index.Columns)
	default:
		return true
	}
}

var _ Node = ConstraintNode{}
