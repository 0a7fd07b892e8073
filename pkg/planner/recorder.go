// SPDX-License-Identifier: Apache-2.0

package planner

import "github.com/polarstack/icequery/pkg/schema"

// ActionKind distinguishes a recorded DDL action from a banner comment.
type ActionKind int

const (
	ActionKindAction ActionKind = iota
	ActionKindComment
)

// RecordedAction is one entry in an ActionRecorder's append-only log.
// Method and Args mirror the schema.Recorder call that produced it, so a
// test can assert on the recorded sequence without a live database.
type RecordedAction struct {
	Kind   ActionKind
	Method string
	Args   []any
}

// ActionRecorder is the concrete, in-memory schema.Recorder: it records
// every call in order and executes nothing. pkg/apply replays the
// resulting log against a real connection inside one transaction.
type ActionRecorder struct {
	Actions []RecordedAction
}

func (r *ActionRecorder) record(method string, args ...any) {
	r.Actions = append(r.Actions, RecordedAction{Kind: ActionKindAction, Method: method, Args: args})
}

func (r *ActionRecorder) AddTable(tableName string) { r.record("add_table", tableName) }
func (r *ActionRecorder) DropTable(tableName string) { r.record("drop_table", tableName) }

func (r *ActionRecorder) AddColumn(tableName, columnName string, explicitType *schema.ColumnType, isList bool, customType *string) {
	r.record("add_column", tableName, columnName, explicitType, isList, customType)
}

func (r *ActionRecorder) DropColumn(tableName, columnName string) {
	r.record("drop_column", tableName, columnName)
}

func (r *ActionRecorder) ModifyColumnType(tableName, columnName string, explicitType *schema.ColumnType, isList bool, customType *string) {
	r.record("modify_column_type", tableName, columnName, explicitType, isList, customType)
}

func (r *ActionRecorder) AddNotNull(tableName, columnName string) {
	r.record("add_not_null", tableName, columnName)
}

func (r *ActionRecorder) DropNotNull(tableName, columnName string) {
	r.record("drop_not_null", tableName, columnName)
}

func (r *ActionRecorder) AddType(typeName string, values []string) {
	r.record("add_type", typeName, values)
}

func (r *ActionRecorder) AddTypeValues(typeName string, values []string, referencingColumns []schema.ColumnLocation) {
	r.record("add_type_values", typeName, values, referencingColumns)
}

func (r *ActionRecorder) DropTypeValues(typeName string, values []string, referencingColumns []schema.ColumnLocation) {
	r.record("drop_type_values", typeName, values, referencingColumns)
}

func (r *ActionRecorder) DropType(typeName string) { r.record("drop_type", typeName) }

func (r *ActionRecorder) AddConstraint(tableName string, kind schema.ConstraintType, constraintName string, columns []string, args map[string]any) {
	r.record("add_constraint", tableName, kind, constraintName, columns, args)
}

func (r *ActionRecorder) DropConstraint(tableName, constraintName string) {
	r.record("drop_constraint", tableName, constraintName)
}

func (r *ActionRecorder) AddIndex(tableName string, columns []string, indexName string) {
	r.record("add_index", tableName, columns, indexName)
}

func (r *ActionRecorder) DropIndex(tableName string, columns []string, indexName string) {
	r.record("drop_index", tableName, columns, indexName)
}

func (r *ActionRecorder) AddComment(text string, previousLine *string) {
	r.Actions = append(r.Actions, RecordedAction{Kind: ActionKindComment, Method: "add_comment", Args: []any{text, previousLine}})
}

var _ schema.Recorder = (*ActionRecorder)(nil)
