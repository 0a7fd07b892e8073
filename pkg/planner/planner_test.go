// SPDX-License-Identifier: Apache-2.0

package planner_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polarstack/icequery/pkg/planner"
	"github.com/polarstack/icequery/pkg/schema"
)

func userTable() schema.TableDescriptor {
	return schema.TableDescriptor{
		TableName: "users",
		Fields: []schema.FieldDescriptor{
			{Name: "id", Type: schema.Primitive(schema.Integer), PrimaryKey: true, Autoincrement: true},
			{Name: "role", Type: schema.Enum("user_role", "admin", "member"), Nullable: false},
			{Name: "bio", Type: schema.Primitive(schema.Text), Nullable: true},
		},
	}
}

func TestDelegateAndOrderRespectDependencies(t *testing.T) {
	t.Parallel()

	nodes, err := planner.Delegate([]schema.TableDescriptor{userTable()})
	require.NoError(t, err)

	ordered, err := planner.Order(nodes)
	require.NoError(t, err)

	index := make(map[string]int, len(ordered))
	for i, n := range ordered {
		index[n.Key()] = i
	}

	assert.Less(t, index["users"], index["users.id"], "table must be created before its columns")
	assert.Less(t, index["user_role"], index["users.role"], "enum type must be created before the column referencing it")
	assert.Less(t, index["users.id"], index["users.id.PRIMARY_KEY"], "column must exist before its primary key constraint")
}

func TestOrderIsInvariantToInputOrder(t *testing.T) {
	t.Parallel()

	nodes, err := planner.Delegate([]schema.TableDescriptor{userTable()})
	require.NoError(t, err)

	first, err := planner.Order(nodes)
	require.NoError(t, err)

	shuffled := append([]schema.Node(nil), nodes...)
	rand.New(rand.NewSource(1)).Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	second, err := planner.Order(shuffled)
	require.NoError(t, err)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].Key(), second[i].Key())
	}
}

func TestDelegateMergesSharedEnum(t *testing.T) {
	t.Parallel()

	posts := schema.TableDescriptor{
		TableName: "posts",
		Fields: []schema.FieldDescriptor{
			{Name: "id", Type: schema.Primitive(schema.Integer), PrimaryKey: true},
			{Name: "status", Type: schema.Enum("publish_state", "draft", "live")},
		},
	}
	comments := schema.TableDescriptor{
		TableName: "comments",
		Fields: []schema.FieldDescriptor{
			{Name: "id", Type: schema.Primitive(schema.Integer), PrimaryKey: true},
			{Name: "status", Type: schema.Enum("publish_state", "draft", "live")},
		},
	}

	nodes, err := planner.Delegate([]schema.TableDescriptor{posts, comments})
	require.NoError(t, err)

	var enum schema.EnumTypeNode
	count := 0
	for _, n := range nodes {
		if e, ok := n.(schema.EnumTypeNode); ok {
			enum = e
			count++
		}
	}

	assert.Equal(t, 1, count, "the two tables' identically-named enums must merge into one node")
	assert.Len(t, enum.ReferencedBy, 2)
}

func TestDelegateRejectsConflictingEnumValues(t *testing.T) {
	t.Parallel()

	a := schema.TableDescriptor{
		TableName: "a",
		Fields: []schema.FieldDescriptor{
			{Name: "state", Type: schema.Enum("shared_state", "on", "off")},
		},
	}
	b := schema.TableDescriptor{
		TableName: "b",
		Fields: []schema.FieldDescriptor{
			{Name: "state", Type: schema.Enum("shared_state", "on", "off", "unknown")},
		},
	}

	_, err := planner.Delegate([]schema.TableDescriptor{a, b})
	require.Error(t, err)
	assert.IsType(t, schema.MergeConflictError{}, err)
}

func TestOrderReportsUnresolvedDependency(t *testing.T) {
	t.Parallel()

	dangling := schema.ConstraintNode{
		Table:   "orders",
		Columns: []string{"customer_id"},
		Kind:    schema.ForeignKey,
		FK:      &schema.ForeignKeySpec{TargetTable: "customers", TargetColumn: "id"},
	}

	_, err := planner.Order([]schema.Node{dangling})
	require.Error(t, err)
	assert.IsType(t, planner.UnresolvedDependencyError{}, err)
}

func TestDiffIsEmptyForIdenticalSnapshots(t *testing.T) {
	t.Parallel()

	snap, err := planner.NewSnapshot([]schema.TableDescriptor{userTable()})
	require.NoError(t, err)

	entries := planner.Diff(snap, snap)
	assert.Empty(t, entries)
}

func TestDiffCreatesNewTableAndDestroysRemovedOne(t *testing.T) {
	t.Parallel()

	prev, err := planner.NewSnapshot([]schema.TableDescriptor{userTable()})
	require.NoError(t, err)

	next, err := planner.NewSnapshot([]schema.TableDescriptor{
		{
			TableName: "accounts",
			Fields: []schema.FieldDescriptor{
				{Name: "id", Type: schema.Primitive(schema.Integer), PrimaryKey: true},
			},
		},
	})
	require.NoError(t, err)

	entries := planner.Diff(prev, next)

	rec := &planner.ActionRecorder{}
	planner.Emit(entries, rec)

	methods := make([]string, 0, len(rec.Actions))
	for _, a := range rec.Actions {
		if a.Kind == planner.ActionKindAction {
			methods = append(methods, a.Method)
		}
	}

	assert.Contains(t, methods, "add_table")
	assert.Contains(t, methods, "drop_table")

	// Creations (accounts) must precede destructions (users): Diff walks
	// next_order first, then reverse(prev_order).
	addIdx, dropIdx := -1, -1
	for i, m := range methods {
		if m == "add_table" && addIdx == -1 {
			addIdx = i
		}
		if m == "drop_table" {
			dropIdx = i
		}
	}
	assert.Less(t, addIdx, dropIdx)
}

func TestEnumTypeNodeCreateSortsValues(t *testing.T) {
	t.Parallel()

	enum := schema.EnumTypeNode{Name: "priority", Values: []string{"low", "high", "medium"}}
	rec := &planner.ActionRecorder{}
	enum.Create(rec)

	require.Len(t, rec.Actions, 1)
	assert.Equal(t, "add_type", rec.Actions[0].Method)
	assert.Equal(t, []string{"high", "low", "medium"}, rec.Actions[0].Args[1])
}

func modelATable() schema.TableDescriptor {
	return schema.TableDescriptor{
		TableName: "modela",
		Fields: []schema.FieldDescriptor{
			{Name: "id", Type: schema.Primitive(schema.Integer), PrimaryKey: true},
			{Name: "animal", Type: schema.Enum("oldvalues", "A")},
		},
	}
}

// Before EnumTypeNode carried a dependency on the tables referencing it,
// the type and its owning column were free to race ahead of each other:
// this asserts the literal, fully deterministic action sequence for a
// fresh table with one primary-key column and one enum-typed column.
func TestOrderFromScratchTableWithEnumColumn(t *testing.T) {
	t.Parallel()

	snap, err := planner.NewSnapshot([]schema.TableDescriptor{modelATable()})
	require.NoError(t, err)

	rec := &planner.ActionRecorder{}
	planner.Emit(planner.Diff(&planner.Snapshot{}, snap), rec)

	var methods []string
	for _, a := range rec.Actions {
		methods = append(methods, a.Method)
	}

	assert.Equal(t, []string{
		"add_comment",
		"add_table",
		"add_column",      // id
		"add_not_null",    // id
		"add_type",        // oldvalues
		"add_column",      // animal
		"add_not_null",    // animal
		"add_constraint",  // modela_pkey
	}, methods)

	// the column referencing the enum must name it only once it exists.
	require.Equal(t, "add_type", rec.Actions[4].Method)
	assert.Equal(t, "oldvalues", rec.Actions[4].Args[0])
	require.Equal(t, "add_column", rec.Actions[5].Method)
	assert.Equal(t, "animal", rec.Actions[5].Args[1])
}

// A foreign key constraint must never be emitted before its target
// table's primary-key constraint, even when both become ready in the
// same round of Order's Kahn loop: accounts.owner_id's representation
// key sorts lexicographically before zusers.id's PK key, so a plain
// ColumnPointer dependency (satisfied as soon as the target column
// exists) would let the FK jump ahead of the PK it references.
func TestOrderForeignKeyNeverPrecedesTargetPrimaryKey(t *testing.T) {
	t.Parallel()

	zusers := schema.TableDescriptor{
		TableName: "zusers",
		Fields: []schema.FieldDescriptor{
			{Name: "id", Type: schema.Primitive(schema.Integer), PrimaryKey: true},
		},
	}
	accounts := schema.TableDescriptor{
		TableName: "accounts",
		Fields: []schema.FieldDescriptor{
			{
				Name: "owner_id",
				Type: schema.Primitive(schema.Integer),
				ForeignKey: &schema.ForeignKeySpec{
					TargetTable:  "zusers",
					TargetColumn: "id",
				},
			},
		},
	}

	nodes, err := planner.Delegate([]schema.TableDescriptor{zusers, accounts})
	require.NoError(t, err)

	ordered, err := planner.Order(nodes)
	require.NoError(t, err)

	index := make(map[string]int, len(ordered))
	for i, n := range ordered {
		index[n.Key()] = i
	}

	require.Contains(t, index, "zusers.id.PRIMARY_KEY")
	require.Contains(t, index, "accounts.owner_id.FOREIGN_KEY")
	assert.Less(t, index["zusers.id.PRIMARY_KEY"], index["accounts.owner_id.FOREIGN_KEY"],
		"FOREIGN KEY must be emitted after the PRIMARY KEY it references")
}

// Two tables declaring the same enum by name must merge into a single
// add_type action, and both referencing columns must be emitted after
// it, never before.
func TestOrderSharedEnumPrecedesBothReferencingColumns(t *testing.T) {
	t.Parallel()

	posts := schema.TableDescriptor{
		TableName: "posts",
		Fields: []schema.FieldDescriptor{
			{Name: "id", Type: schema.Primitive(schema.Integer), PrimaryKey: true},
			{Name: "status", Type: schema.Enum("publish_state", "draft", "live")},
		},
	}
	comments := schema.TableDescriptor{
		TableName: "comments",
		Fields: []schema.FieldDescriptor{
			{Name: "id", Type: schema.Primitive(schema.Integer), PrimaryKey: true},
			{Name: "status", Type: schema.Enum("publish_state", "draft", "live")},
		},
	}

	snap, err := planner.NewSnapshot([]schema.TableDescriptor{posts, comments})
	require.NoError(t, err)

	rec := &planner.ActionRecorder{}
	planner.Emit(planner.Diff(&planner.Snapshot{}, snap), rec)

	addTypeIdx, statusColumnIdxs := -1, []int{}
	for i, a := range rec.Actions {
		switch {
		case a.Method == "add_type" && a.Args[0] == "publish_state":
			require.Equal(t, -1, addTypeIdx, "publish_state must be added exactly once")
			addTypeIdx = i
		case a.Method == "add_column" && a.Args[1] == "status":
			statusColumnIdxs = append(statusColumnIdxs, i)
		}
	}

	require.NotEqual(t, -1, addTypeIdx)
	require.Len(t, statusColumnIdxs, 2)
	for _, idx := range statusColumnIdxs {
		assert.Less(t, addTypeIdx, idx, "status column must be added after its shared enum type")
	}
}

// A column added, an enum renamed (new representation key) with a wider
// value set, a nullability tightened, and the old enum dropped: exercises
// Diff/Emit's create-before-migrate-before-destroy contract end to end.
func TestDiffAddsColumnRenamesEnumAndTightensNullability(t *testing.T) {
	t.Parallel()

	prev, err := planner.NewSnapshot([]schema.TableDescriptor{
		{
			TableName: "modela",
			Fields: []schema.FieldDescriptor{
				{Name: "id", Type: schema.Primitive(schema.Integer), PrimaryKey: true},
				{Name: "animal", Type: schema.Enum("oldvalues", "A")},
				{Name: "was_nullable", Type: schema.Primitive(schema.Text), Nullable: true},
			},
		},
	})
	require.NoError(t, err)

	next, err := planner.NewSnapshot([]schema.TableDescriptor{
		{
			TableName: "modela",
			Fields: []schema.FieldDescriptor{
				{Name: "id", Type: schema.Primitive(schema.Integer), PrimaryKey: true},
				{Name: "name", Type: schema.Primitive(schema.Text)},
				{Name: "animal", Type: schema.Enum("newvalues", "A", "B")},
				{Name: "was_nullable", Type: schema.Primitive(schema.Text), Nullable: false},
			},
		},
	})
	require.NoError(t, err)

	rec := &planner.ActionRecorder{}
	planner.Emit(planner.Diff(prev, next), rec)

	var methods []string
	for _, a := range rec.Actions {
		methods = append(methods, a.Method)
	}

	assert.Equal(t, []string{
		"add_column",         // name
		"add_not_null",       // name
		"add_not_null",       // was_nullable tightened
		"add_type",           // newvalues
		"add_comment",        // TODO on animal's type change
		"modify_column_type", // animal -> newvalues
		"drop_type_values",   // oldvalues, still referenced at drop time
		"drop_type",          // oldvalues
	}, methods)
}

func TestColumnNodeCreateSubstitutesSerialForAutoincrement(t *testing.T) {
	t.Parallel()

	col := schema.ColumnNode{
		Table:         "users",
		Name:          "id",
		Type:          schema.ConcreteType(schema.Integer),
		Autoincrement: true,
	}
	rec := &planner.ActionRecorder{}
	col.Create(rec)

	require.Len(t, rec.Actions, 2)
	assert.Equal(t, "add_column", rec.Actions[0].Method)
	explicit := rec.Actions[0].Args[2].(*schema.ColumnType)
	require.NotNil(t, explicit)
	assert.Equal(t, schema.Serial, *explicit)
	assert.Equal(t, "add_not_null", rec.Actions[1].Method)
}
