// SPDX-License-Identifier: Apache-2.0

package apply_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polarstack/icequery/internal/testutils"
	"github.com/polarstack/icequery/pkg/apply"
	"github.com/polarstack/icequery/pkg/db"
	"github.com/polarstack/icequery/pkg/planner"
	"github.com/polarstack/icequery/pkg/schema"
)

func widgetsTable() schema.TableDescriptor {
	return schema.TableDescriptor{
		TableName: "widgets",
		Fields: []schema.FieldDescriptor{
			{Name: "id", Type: schema.Primitive(schema.Integer), PrimaryKey: true, Autoincrement: true},
			{Name: "status", Type: schema.Enum("widget_status", "draft", "live"), Nullable: false},
			{Name: "notes", Type: schema.Primitive(schema.Text), Nullable: true},
		},
	}
}

func TestApplyCreatesTableFromFreshSnapshot(t *testing.T) {
	testutils.WithContainerDB(t, func(conn db.DB, sqlDB *sql.DB) {
		ctx := context.Background()

		next, err := planner.NewSnapshot([]schema.TableDescriptor{widgetsTable()})
		require.NoError(t, err)

		entries := planner.Diff(&planner.Snapshot{}, next)
		rec := &planner.ActionRecorder{}
		planner.Emit(entries, rec)

		require.NoError(t, apply.Apply(ctx, conn, rec))

		var exists bool
		err = sqlDB.QueryRowContext(ctx, `
			SELECT EXISTS (
				SELECT 1 FROM information_schema.tables
				WHERE table_schema = 'public' AND table_name = 'widgets'
			)`).Scan(&exists)
		require.NoError(t, err)
		assert.True(t, exists)

		_, err = sqlDB.ExecContext(ctx, `INSERT INTO widgets (status) VALUES ('draft')`)
		assert.NoError(t, err)

		_, err = sqlDB.ExecContext(ctx, `INSERT INTO widgets (status) VALUES (NULL)`)
		assert.Error(t, err, "status is not-null, a NULL insert must be rejected")
	})
}

func TestApplyIsEmptyOnSecondRunWithUnchangedSnapshot(t *testing.T) {
	testutils.WithContainerDB(t, func(conn db.DB, sqlDB *sql.DB) {
		ctx := context.Background()

		snap, err := planner.NewSnapshot([]schema.TableDescriptor{widgetsTable()})
		require.NoError(t, err)

		rec := &planner.ActionRecorder{}
		planner.Emit(planner.Diff(&planner.Snapshot{}, snap), rec)
		require.NoError(t, apply.Apply(ctx, conn, rec))

		rec2 := &planner.ActionRecorder{}
		planner.Emit(planner.Diff(snap, snap), rec2)
		assert.Empty(t, rec2.Actions)
	})
}
