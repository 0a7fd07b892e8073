// SPDX-License-Identifier: Apache-2.0

// Package apply replays a planner.ActionRecorder's recorded action log as
// real DDL against a live connection, inside a single retryable
// transaction — one Diff, one transaction, committed only if every
// action succeeds.
package apply

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"github.com/pterm/pterm"

	"github.com/polarstack/icequery/pkg/db"
	"github.com/polarstack/icequery/pkg/planner"
	"github.com/polarstack/icequery/pkg/schema"
)

// Apply executes every recorded action from rec in order, inside one
// retryable transaction. A banner comment is logged, not executed: it
// exists for operator-facing audit trails, not for Postgres.
func Apply(ctx context.Context, conn db.DB, rec *planner.ActionRecorder) error {
	return conn.WithRetryableTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		for _, a := range rec.Actions {
			if a.Kind == planner.ActionKindComment {
				pterm.Debug.Printfln("%s", a.Args[0])
				continue
			}
			stmt, err := render(a)
			if err != nil {
				return err
			}
			if stmt == "" {
				continue
			}
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("apply: %s: %w", a.Method, err)
			}
		}
		return nil
	})
}

func render(a planner.RecordedAction) (string, error) {
	switch a.Method {
	case "add_table":
		return fmt.Sprintf("CREATE TABLE %s ()", ident(a.Args[0])), nil
	case "drop_table":
		return fmt.Sprintf("DROP TABLE %s", ident(a.Args[0])), nil

	case "add_column":
		return renderAddColumn(a, "ADD COLUMN")
	case "drop_column":
		return fmt.Sprintf("ALTER TABLE %s DROP COLUMN %s", ident(a.Args[0]), ident(a.Args[1])), nil
	case "modify_column_type":
		return renderModifyColumnType(a)

	case "add_not_null":
		return fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s SET NOT NULL", ident(a.Args[0]), ident(a.Args[1])), nil
	case "drop_not_null":
		return fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s DROP NOT NULL", ident(a.Args[0]), ident(a.Args[1])), nil

	case "add_type":
		return renderAddType(a)
	case "add_type_values":
		return renderAlterTypeValues(a)
	case "drop_type_values":
		// Postgres has no DROP VALUE for enum types: removing a value
		// safely requires rewriting every referencing row first, which is
		// an operator-supplied data migration, not DDL this package can
		// synthesize. Nothing to execute here.
		return "", nil
	case "drop_type":
		return fmt.Sprintf("DROP TYPE %s", ident(a.Args[0])), nil

	case "add_constraint":
		return renderAddConstraint(a)
	case "drop_constraint":
		return fmt.Sprintf("ALTER TABLE %s DROP CONSTRAINT %s", ident(a.Args[0]), ident(a.Args[1])), nil

	case "add_index":
		return renderAddIndex(a)
	case "drop_index":
		return fmt.Sprintf("DROP INDEX %s", ident(a.Args[2])), nil

	default:
		return "", fmt.Errorf("apply: unrecognized action %q", a.Method)
	}
}

func ident(v any) string { return pq.QuoteIdentifier(v.(string)) }

func renderAddColumn(a planner.RecordedAction, verb string) (string, error) {
	table, column := a.Args[0].(string), a.Args[1].(string)
	explicit, _ := a.Args[2].(*schema.ColumnType)
	isList, _ := a.Args[3].(bool)
	custom, _ := a.Args[4].(*string)

	colSQL := columnTypeSQL(explicit, isList, custom)
	return fmt.Sprintf("ALTER TABLE %s %s %s %s", ident(table), verb, ident(column), colSQL), nil
}

func renderModifyColumnType(a planner.RecordedAction) (string, error) {
	table, column := a.Args[0].(string), a.Args[1].(string)
	explicit, _ := a.Args[2].(*schema.ColumnType)
	isList, _ := a.Args[3].(bool)
	custom, _ := a.Args[4].(*string)

	typeName := baseTypeSQL(explicit, custom)
	if isList {
		typeName += "[]"
	}
	return fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s TYPE %s USING %s::%s",
		ident(table), ident(column), typeName, ident(column), typeName), nil
}

func columnTypeSQL(explicit *schema.ColumnType, isList bool, custom *string) string {
	t := baseTypeSQL(explicit, custom)
	if isList {
		t += "[]"
	}
	return t
}

func baseTypeSQL(explicit *schema.ColumnType, custom *string) string {
	if custom != nil {
		return pq.QuoteIdentifier(*custom)
	}
	if explicit != nil {
		return explicit.SQL()
	}
	return "TEXT"
}

func renderAddType(a planner.RecordedAction) (string, error) {
	name := a.Args[0].(string)
	values := a.Args[1].([]string)
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = pq.QuoteLiteral(v)
	}
	return fmt.Sprintf("CREATE TYPE %s AS ENUM (%s)", pq.QuoteIdentifier(name), strings.Join(quoted, ", ")), nil
}

func renderAlterTypeValues(a planner.RecordedAction) (string, error) {
	name := a.Args[0].(string)
	values := a.Args[1].([]string)
	var stmts []string
	for _, v := range values {
		stmts = append(stmts, fmt.Sprintf("ALTER TYPE %s ADD VALUE %s", pq.QuoteIdentifier(name), pq.QuoteLiteral(v)))
	}
	return strings.Join(stmts, "; "), nil
}

func renderAddConstraint(a planner.RecordedAction) (string, error) {
	table := a.Args[0].(string)
	kind := a.Args[1].(schema.ConstraintType)
	name := a.Args[2].(string)
	columns := a.Args[3].([]string)
	args, _ := a.Args[4].(map[string]any)

	quotedCols := quoteAll(columns)

	switch kind {
	case schema.PrimaryKey:
		return fmt.Sprintf("ALTER TABLE %s ADD CONSTRAINT %s PRIMARY KEY (%s)", ident(table), ident(name), strings.Join(quotedCols, ", ")), nil
	case schema.Unique:
		return fmt.Sprintf("ALTER TABLE %s ADD CONSTRAINT %s UNIQUE (%s)", ident(table), ident(name), strings.Join(quotedCols, ", ")), nil
	case schema.ForeignKey:
		targetTable := args["target_table"].(string)
		targetColumn := args["target_column"].(string)
		onDelete, _ := args["on_delete"].(string)
		stmt := fmt.Sprintf("ALTER TABLE %s ADD CONSTRAINT %s FOREIGN KEY (%s) REFERENCES %s (%s)",
			ident(table), ident(name), strings.Join(quotedCols, ", "), ident(targetTable), ident(targetColumn))
		if onDelete != "" {
			stmt += " ON DELETE " + onDelete
		}
		return stmt, nil
	case schema.Check:
		expr, _ := args["expression"].(string)
		return fmt.Sprintf("ALTER TABLE %s ADD CONSTRAINT %s CHECK (%s)", ident(table), ident(name), expr), nil
	default:
		return "", fmt.Errorf("apply: unsupported constraint kind %q", kind)
	}
}

func renderAddIndex(a planner.RecordedAction) (string, error) {
	table := a.Args[0].(string)
	columns := a.Args[1].([]string)
	name := a.Args[2].(string)
	return fmt.Sprintf("CREATE INDEX %s ON %s (%s)", ident(name), ident(table), strings.Join(quoteAll(columns), ", ")), nil
}

func quoteAll(columns []string) []string {
	out := make([]string, len(columns))
	for i, c := range columns {
		out[i] = pq.QuoteIdentifier(c)
	}
	return out
}
