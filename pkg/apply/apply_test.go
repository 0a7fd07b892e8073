// SPDX-License-Identifier: Apache-2.0

package apply

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polarstack/icequery/pkg/planner"
	"github.com/polarstack/icequery/pkg/schema"
)

func TestRenderAddTable(t *testing.T) {
	t.Parallel()

	sql, err := render(planner.RecordedAction{Method: "add_table", Args: []any{"widgets"}})
	require.NoError(t, err)
	assert.Equal(t, `CREATE TABLE "widgets" ()`, sql)
}

func TestRenderAddColumnWithExplicitType(t *testing.T) {
	t.Parallel()

	explicit := schema.Integer
	sql, err := render(planner.RecordedAction{
		Method: "add_column",
		Args:   []any{"widgets", "weight", &explicit, false, (*string)(nil)},
	})
	require.NoError(t, err)
	assert.Equal(t, `ALTER TABLE "widgets" ADD COLUMN "weight" INTEGER`, sql)
}

func TestRenderAddColumnWithCustomEnumType(t *testing.T) {
	t.Parallel()

	custom := "color"
	sql, err := render(planner.RecordedAction{
		Method: "add_column",
		Args:   []any{"widgets", "shade", (*schema.ColumnType)(nil), false, &custom},
	})
	require.NoError(t, err)
	assert.Equal(t, `ALTER TABLE "widgets" ADD COLUMN "shade" "color"`, sql)
}

func TestRenderAddColumnDefaultsToTextWhenUntyped(t *testing.T) {
	t.Parallel()

	sql, err := render(planner.RecordedAction{
		Method: "add_column",
		Args:   []any{"widgets", "notes", (*schema.ColumnType)(nil), false, (*string)(nil)},
	})
	require.NoError(t, err)
	assert.Equal(t, `ALTER TABLE "widgets" ADD COLUMN "notes" TEXT`, sql)
}

func TestRenderAddColumnListType(t *testing.T) {
	t.Parallel()

	explicit := schema.Text
	sql, err := render(planner.RecordedAction{
		Method: "add_column",
		Args:   []any{"widgets", "tags", &explicit, true, (*string)(nil)},
	})
	require.NoError(t, err)
	assert.Equal(t, `ALTER TABLE "widgets" ADD COLUMN "tags" TEXT[]`, sql)
}

func TestRenderDropTypeValuesIsANoOp(t *testing.T) {
	t.Parallel()

	sql, err := render(planner.RecordedAction{
		Method: "drop_type_values",
		Args:   []any{"color", []string{"purple"}, []schema.ColumnLocation{{Table: "widgets", Column: "color"}}},
	})
	require.NoError(t, err)
	assert.Empty(t, sql)
}

func TestRenderAddType(t *testing.T) {
	t.Parallel()

	sql, err := render(planner.RecordedAction{
		Method: "add_type",
		Args:   []any{"color", []string{"blue", "red"}},
	})
	require.NoError(t, err)
	assert.Equal(t, `CREATE TYPE "color" AS ENUM ('blue', 'red')`, sql)
}

func TestRenderAddConstraintForeignKeyWithOnDelete(t *testing.T) {
	t.Parallel()

	sql, err := render(planner.RecordedAction{
		Method: "add_constraint",
		Args: []any{
			"orders", schema.ForeignKey, "orders.customer_id.FOREIGN_KEY", []string{"customer_id"},
			map[string]any{"target_table": "customers", "target_column": "id", "on_delete": "CASCADE", "on_update": ""},
		},
	})
	require.NoError(t, err)
	assert.Equal(t,
		`ALTER TABLE "orders" ADD CONSTRAINT "orders.customer_id.FOREIGN_KEY" FOREIGN KEY ("customer_id") REFERENCES "customers" ("id") ON DELETE CASCADE`,
		sql)
}

func TestRenderAddConstraintPrimaryKey(t *testing.T) {
	t.Parallel()

	sql, err := render(planner.RecordedAction{
		Method: "add_constraint",
		Args:   []any{"widgets", schema.PrimaryKey, "widgets.id.PRIMARY_KEY", []string{"id"}, map[string]any(nil)},
	})
	require.NoError(t, err)
	assert.Equal(t, `ALTER TABLE "widgets" ADD CONSTRAINT "widgets.id.PRIMARY_KEY" PRIMARY KEY ("id")`, sql)
}

func TestRenderAddIndex(t *testing.T) {
	t.Parallel()

	sql, err := render(planner.RecordedAction{
		Method: "add_index",
		Args:   []any{"widgets", []string{"sku"}, "widgets.sku.INDEX"},
	})
	require.NoError(t, err)
	assert.Equal(t, `CREATE INDEX "widgets.sku.INDEX" ON "widgets" ("sku")`, sql)
}

func TestRenderUnrecognizedActionErrors(t *testing.T) {
	t.Parallel()

	_, err := render(planner.RecordedAction{Method: "teleport_table"})
	assert.Error(t, err)
}
