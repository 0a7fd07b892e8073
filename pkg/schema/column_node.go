// SPDX-License-Identifier: Apache-2.0

package schema

// ColumnTypeSpec is a ColumnNode's data type: either a concrete
// ColumnType or a reference to a named enum type declared elsewhere in
// the same snapshot.
type ColumnTypeSpec struct {
	Concrete ColumnType
	EnumName string
}

func (c ColumnTypeSpec) IsEnum() bool { return c.EnumName != "" }

func ConcreteType(t ColumnType) ColumnTypeSpec { return ColumnTypeSpec{Concrete: t} }
func EnumRef(name string) ColumnTypeSpec       { return ColumnTypeSpec{EnumName: name} }

// ColumnNode is the schema object for a single column.
type ColumnNode struct {
	Table         string
	Name          string
	Type          ColumnTypeSpec
	IsList        bool
	Nullable      bool
	Autoincrement bool
}

func (c ColumnNode) Key() string        { return c.Table + "." + c.Name }
func (c ColumnNode) Category() Category { return ColumnCategory }

func (c ColumnNode) Dependencies() []DependencyRef {
	deps := []DependencyRef{TablePointer{Name: c.Table}}
	if c.Type.IsEnum() {
		deps = append(deps, TypePointer{Name: c.Type.EnumName})
	}
	return deps
}

func (c ColumnNode) explicitAndCustom() (*ColumnType, *string) {
	if c.Type.IsEnum() {
		name := c.Type.EnumName
		return nil, &name
	}
	t := c.Type.Concrete
	if c.Autoincrement && t == Integer {
		t = Serial
	}
	return &t, nil
}

func (c ColumnNode) Create(rec Recorder) {
	explicit, custom := c.explicitAndCustom()
	rec.AddColumn(c.Table, c.Name, explicit, c.IsList, custom)
	if !c.Nullable {
		rec.AddNotNull(c.Table, c.Name)
	}
}

func (c ColumnNode) Destroy(rec Recorder) {
	rec.DropColumn(c.Table, c.Name)
}

// Migrate emits the minimal delta between prev and c: a type change (with
// a TODO comment flagging that a value-level migration may be needed) and
// a nullability flip, independently.
func (c ColumnNode) Migrate(prev Node, rec Recorder) {
	p, ok := prev.(ColumnNode)
	if !ok {
		return
	}
	if p.Type != c.Type || p.IsList != c.IsList {
		note := "TODO: verify existing data is compatible with the new column type for " + c.Key()
		rec.AddComment(note, nil)
		explicit, custom := c.explicitAndCustom()
		rec.ModifyColumnType(c.Table, c.Name, explicit, c.IsList, custom)
	}
	if p.Nullable && !c.Nullable {
		rec.AddNotNull(c.Table, c.Name)
	} else if !p.Nullable && c.Nullable {
		rec.DropNotNull(c.Table, c.Name)
	}
}

func (c ColumnNode) Merge(other Node) (Node, error) {
	o, ok := other.(ColumnNode)
	if !ok || !c.Equal(o) {
		return nil, MergeConflictError{Key: c.Key(), Reason: "conflicting column definitions"}
	}
	return c, nil
}

func (c ColumnNode) Equal(other Node) bool {
	o, ok := other.(ColumnNode)
	return ok && o == c
}

var _ Node = ColumnNode{}
