// SPDX-License-Identifier: Apache-2.0

package schema

// ColumnLocation identifies a column by (table, column) pair — used when
// a recorded action needs to name the columns that reference an enum
// type, without pulling in a full ColumnNode.
type ColumnLocation struct {
	Table  string
	Column string
}

// Recorder is the outbound, append-only action vocabulary nodes emit
// against. It never executes anything; it records. Argument order and
// shape are part of the contract — tests compare recorded sequences
// literally.
type Recorder interface {
	AddTable(tableName string)
	DropTable(tableName string)

	AddColumn(tableName, columnName string, explicitType *ColumnType, isList bool, customType *string)
	DropColumn(tableName, columnName string)
	ModifyColumnType(tableName, columnName string, explicitType *ColumnType, isList bool, customType *string)

	AddNotNull(tableName, columnName string)
	DropNotNull(tableName, columnName string)

	AddType(typeName string, values []string)
	AddTypeValues(typeName string, values []string, referencingColumns []ColumnLocation)
	DropTypeValues(typeName string, values []string, referencingColumns []ColumnLocation)
	DropType(typeName string)

	AddConstraint(tableName string, kind ConstraintType, constraintName string, columns []string, args map[string]any)
	DropConstraint(tableName, constraintName string)

	AddIndex(tableName string, columns []string, indexName string)
	DropIndex(tableName string, columns []string, indexName string)

	AddComment(text string, previousLine *string)
}
