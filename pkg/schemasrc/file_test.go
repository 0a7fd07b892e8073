// SPDX-License-Identifier: Apache-2.0

package schemasrc_test

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polarstack/icequery/pkg/schema"
	"github.com/polarstack/icequery/pkg/schemasrc"
)

func TestLoadParsesFieldsInDeclaredOrder(t *testing.T) {
	t.Parallel()

	dir := fstest.MapFS{
		"widgets.yaml": &fstest.MapFile{Data: []byte(`
tables:
  - name: widgets
    fields:
      - name: id
        type: integer
        primary_key: true
        autoincrement: true
      - name: sku
        type: varchar
        unique: true
      - name: status
        enum: widget_status
        enum_values: [draft, live]
`)},
	}

	tables, err := schemasrc.Load(dir)
	require.NoError(t, err)
	require.Len(t, tables, 1)

	tbl := tables[0]
	assert.Equal(t, "widgets", tbl.TableName)
	require.Len(t, tbl.Fields, 3)
	assert.Equal(t, "id", tbl.Fields[0].Name)
	assert.Equal(t, "sku", tbl.Fields[1].Name)
	assert.Equal(t, "status", tbl.Fields[2].Name)
	assert.True(t, tbl.Fields[0].PrimaryKey)
	assert.True(t, tbl.Fields[0].Autoincrement)
	assert.True(t, tbl.Fields[1].Unique)
	assert.Equal(t, schema.KindEnum, tbl.Fields[2].Type.Kind)
	assert.Equal(t, []string{"draft", "live"}, tbl.Fields[2].Type.EnumValues)
}

func TestLoadRejectsUnknownColumnType(t *testing.T) {
	t.Parallel()

	dir := fstest.MapFS{
		"bad.yaml": &fstest.MapFile{Data: []byte(`
tables:
  - name: widgets
    fields:
      - name: id
        type: not_a_real_type
`)},
	}

	_, err := schemasrc.Load(dir)
	assert.Error(t, err)
}

func TestLoadRejectsUnknownYAMLFields(t *testing.T) {
	t.Parallel()

	dir := fstest.MapFS{
		"bad.yaml": &fstest.MapFile{Data: []byte(`
tables:
  - name: widgets
    bogus_key: true
    fields: []
`)},
	}

	_, err := schemasrc.Load(dir)
	assert.Error(t, err)
}

func TestLoadCombinesMultipleFilesInSortedOrder(t *testing.T) {
	t.Parallel()

	dir := fstest.MapFS{
		"b_second.yaml": &fstest.MapFile{Data: []byte(`
tables:
  - name: second
    fields:
      - name: id
        type: integer
`)},
		"a_first.yaml": &fstest.MapFile{Data: []byte(`
tables:
  - name: first
    fields:
      - name: id
        type: integer
`)},
	}

	tables, err := schemasrc.Load(dir)
	require.NoError(t, err)
	require.Len(t, tables, 2)
	assert.Equal(t, "first", tables[0].TableName)
	assert.Equal(t, "second", tables[1].TableName)
}

func TestLoadParsesForeignKeyAndCheckSpecs(t *testing.T) {
	t.Parallel()

	dir := fstest.MapFS{
		"orders.yaml": &fstest.MapFile{Data: []byte(`
tables:
  - name: orders
    fields:
      - name: id
        type: integer
        primary_key: true
      - name: customer_id
        type: integer
        references:
          table: customers
          column: id
          on_delete: CASCADE
      - name: quantity
        type: integer
        check:
          name: quantity_positive
          expression: "quantity > 0"
`)},
	}

	tables, err := schemasrc.Load(dir)
	require.NoError(t, err)
	require.Len(t, tables, 1)

	fields := tables[0].Fields
	require.NotNil(t, fields[1].ForeignKey)
	assert.Equal(t, "customers", fields[1].ForeignKey.TargetTable)
	assert.Equal(t, "CASCADE", fields[1].ForeignKey.OnDelete)

	require.NotNil(t, fields[2].Check)
	assert.Equal(t, "quantity_positive", fields[2].Check.Name)
}
