// SPDX-License-Identifier: Apache-2.0

package schema

// TableDescriptor is the inbound, abstract description of a table
// handed to the planner by a Schema Source. It carries no dependency
// information of its own — Delegate (pkg/planner) derives the
// dependency graph from it.
type TableDescriptor struct {
	TableName string
	Fields    []FieldDescriptor

	// Table-level constraints that span more than one column. Single-
	// column constraints are expressed directly on the FieldDescriptor.
	UniqueConstraints []UniqueSpec
	Indexes           []IndexSpec
	CheckConstraints  []CheckSpec
}

// FieldKind distinguishes a primitive column type from a reference to a
// shared enum type.
type FieldKind int

const (
	KindPrimitive FieldKind = iota
	KindEnum
)

// FieldType is the base_type of a field: either a concrete ColumnType or
// a reference to an enum type, identified by name. Enum values are
// carried on the first field descriptor that introduces the enum; later
// descriptors referencing the same name must supply the same values,
// enforced at EnumTypeNode.Merge time.
type FieldType struct {
	Kind       FieldKind
	Primitive  ColumnType
	EnumName   string
	EnumValues []string
}

// Primitive builds a FieldType wrapping a concrete column type.
func Primitive(t ColumnType) FieldType {
	return FieldType{Kind: KindPrimitive, Primitive: t}
}

// Enum builds a FieldType referencing (and, on first use, declaring) a
// named enum type with the given values.
func Enum(name string, values ...string) FieldType {
	return FieldType{Kind: KindEnum, EnumName: name, EnumValues: values}
}

// FieldDescriptor is one column of a TableDescriptor.
type FieldDescriptor struct {
	Name           string
	Type           FieldType
	IsList         bool
	Nullable       bool
	PrimaryKey     bool
	Autoincrement  bool
	Default        *string
	ForeignKey     *ForeignKeySpec
	Unique         bool
	Check          *CheckSpec
	PostgresConfig map[string]string
}

// ForeignKeySpec describes a single-column foreign key reference to the
// primary key of another table.
type ForeignKeySpec struct {
	TargetTable  string
	TargetColumn string
	OnDelete     string
	OnUpdate     string
}

// CheckSpec describes a CHECK constraint's body. Name is optional; when
// empty the planner derives one from the representation key.
type CheckSpec struct {
	Name       string
	Expression string
}

// UniqueSpec describes a (possibly multi-column) UNIQUE constraint.
type UniqueSpec struct {
	Name    string
	Columns []string
}

// IndexSpec describes a (possibly multi-column) index.
type IndexSpec struct {
	Name    string
	Columns []string
	Method  string
	Unique  bool
}
