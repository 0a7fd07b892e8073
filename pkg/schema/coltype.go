// SPDX-License-Identifier: Apache-2.0

// Package schema is the frozen, value-equal, hashable model of schema
// objects — tables, columns, enum types, constraints and indexes — that
// the migration planner builds its dependency graph from. Every node
// type exposes Create/Destroy/Migrate against a Recorder; nothing in
// this package executes SQL.
package schema

// ColumnType is a concrete PostgreSQL column type. The zero value is
// invalid; always use one of the named constants.
type ColumnType string

const (
	Integer     ColumnType = "INTEGER"
	Serial      ColumnType = "SERIAL"
	Varchar     ColumnType = "VARCHAR"
	Text        ColumnType = "TEXT"
	Boolean     ColumnType = "BOOLEAN"
	Timestamp   ColumnType = "TIMESTAMP"
	TimestampTZ ColumnType = "TIMESTAMP WITH TIME ZONE"
	Time        ColumnType = "TIME"
	TimeTZ      ColumnType = "TIME WITH TIME ZONE"
	Date        ColumnType = "DATE"
	UUID        ColumnType = "UUID"
	JSON        ColumnType = "JSON"
	JSONB       ColumnType = "JSONB"
	Bytea       ColumnType = "BYTEA"
	Float       ColumnType = "REAL"
	Double      ColumnType = "DOUBLE PRECISION"
)

// SQL renders the type keyword(s) used in DDL. Varchar renders as
// VARCHAR with no length; ColumnType carries no length parameter.
func (c ColumnType) SQL() string {
	return string(c)
}
