// SPDX-License-Identifier: Apache-2.0

// Package query is the branching SQL builder: an immutable-by-branching
// accumulator of SELECT/UPDATE/DELETE intent that renders to a
// (sql, params) pair. Every mutating method returns an independent copy;
// callers may reuse a base builder as a template for multiple
// refinements without interference.
package query

import (
	"github.com/polarstack/icequery/pkg/expr"
	"github.com/polarstack/icequery/pkg/sqltoken"
)

type mode int

const (
	modeSelect mode = iota
	modeUpdate
	modeDelete
)

// JoinType is the kind of SQL join.
type JoinType string

const (
	InnerJoin JoinType = "INNER JOIN"
	LeftJoin  JoinType = "LEFT JOIN"
	RightJoin JoinType = "RIGHT JOIN"
	FullJoin  JoinType = "FULL JOIN"
)

// OrderDir is ascending or descending order.
type OrderDir string

const (
	Asc  OrderDir = "ASC"
	Desc OrderDir = "DESC"
)

// TableRef selects every column of a table, rendering "t".*.
type TableRef struct {
	Table string
}

func (t TableRef) Render() string {
	return sqltoken.Identifier(t.Table).Render() + ".*"
}

type joinClause struct {
	kind  JoinType
	table string
	on    expr.Comparison
}

type orderItem struct {
	key renderable
	dir OrderDir
}

type setClause struct {
	col   expr.ColumnRef
	value any
}

type textOverride struct {
	sql    string
	params []any
}

// renderable is anything with a Render() string method: expr.ColumnRef,
// expr.FunctionMeta, TableRef, sqltoken.Identifier, sqltoken.RawLiteral.
type renderable interface {
	Render() string
}

// Builder accumulates SELECT/UPDATE/DELETE intent. The zero value is not
// useful; construct one with Select, Update or Delete.
type Builder struct {
	md mode

	mainTable string

	selectRaw []any // expr.ColumnRef | TableRef | expr.FunctionMeta

	where []any // expr.Comparison | expr.ComparisonGroup
	joins []joinClause

	orderBy []orderItem

	groupBy []expr.ColumnRef
	having  []any // expr.Comparison | expr.ComparisonGroup

	distinctOn []any // expr.ColumnRef | renderable

	limit  *int
	offset *int

	updateSet []setClause

	text *textOverride
}

func (b *Builder) clone() *Builder {
	n := *b
	n.selectRaw = append([]any(nil), b.selectRaw...)
	n.where = append([]any(nil), b.where...)
	n.joins = append([]joinClause(nil), b.joins...)
	n.orderBy = append([]orderItem(nil), b.orderBy...)
	n.groupBy = append([]expr.ColumnRef(nil), b.groupBy...)
	n.having = append([]any(nil), b.having...)
	n.distinctOn = append([]any(nil), b.distinctOn...)
	n.updateSet = append([]setClause(nil), b.updateSet...)
	return &n
}

// Select starts a SELECT builder over the given fields, each an
// expr.ColumnRef, TableRef or expr.FunctionMeta. The main table defaults
// to the first field's owning table unless overridden with Table.
func Select(fields ...any) *Builder {
	b := &Builder{md: modeSelect}
	return b.Select(fields...)
}

// Select appends further fields to the SELECT list.
func (b *Builder) Select(fields ...any) *Builder {
	n := b.clone()
	for _, f := range fields {
		table, ok := fieldTable(f)
		if !ok {
			badArgument("Select", f)
		}
		if n.mainTable == "" && table != "" {
			n.mainTable = table
		}
		n.selectRaw = append(n.selectRaw, f)
	}
	return n
}

func fieldTable(f any) (string, bool) {
	switch v := f.(type) {
	case expr.ColumnRef:
		return v.Table, true
	case TableRef:
		return v.Table, true
	case expr.FunctionMeta:
		if v.Field != nil {
			return v.Field.Table, true
		}
		return "", true
	default:
		return "", false
	}
}

// Update starts an UPDATE builder against the given table.
func Update(table string) *Builder {
	return &Builder{md: modeUpdate, mainTable: table}
}

// Delete starts a DELETE builder against the given table.
func Delete(table string) *Builder {
	return &Builder{md: modeDelete, mainTable: table}
}

// Text builds a builder whose Build() returns (sqlText, params) verbatim,
// bypassing every other piece of state.
func Text(sqlText string, params ...any) *Builder {
	return &Builder{text: &textOverride{sql: sqlText, params: params}}
}

// Table overrides the inferred main table.
func (b *Builder) Table(name string) *Builder {
	n := b.clone()
	n.mainTable = name
	return n
}

// Set adds a column assignment to an UPDATE's SET clause.
func (b *Builder) Set(col expr.ColumnRef, value any) *Builder {
	n := b.clone()
	n.updateSet = append(n.updateSet, setClause{col: col, value: value})
	return n
}

// Where adds one or more conditions, combined with the existing WHERE
// clause by implicit AND. Each condition must be an expr.Comparison or
// expr.ComparisonGroup.
func (b *Builder) Where(conds ...any) *Builder {
	n := b.clone()
	for _, c := range conds {
		if !isPredicate(c) {
			badArgument("Where", c)
		}
		n.where = append(n.where, c)
	}
	return n
}

// Having adds one or more post-GROUP-BY conditions, combined by implicit
// AND.
func (b *Builder) Having(conds ...any) *Builder {
	n := b.clone()
	for _, c := range conds {
		if !isPredicate(c) {
			badArgument("Having", c)
		}
		n.having = append(n.having, c)
	}
	return n
}

func isPredicate(v any) bool {
	switch v.(type) {
	case expr.Comparison, expr.ComparisonGroup:
		return true
	default:
		return false
	}
}

// Join adds a join clause. on must be an expr.Comparison.
func (b *Builder) Join(kind JoinType, table string, on any) *Builder {
	cmp, ok := on.(expr.Comparison)
	if !ok {
		badArgument("Join", on)
	}
	n := b.clone()
	n.joins = append(n.joins, joinClause{kind: kind, table: table, on: cmp})
	return n
}

// GroupBy adds columns to GROUP BY. Each must be an expr.ColumnRef.
func (b *Builder) GroupBy(cols ...any) *Builder {
	n := b.clone()
	for _, c := range cols {
		col, ok := c.(expr.ColumnRef)
		if !ok {
			badArgument("GroupBy", c)
		}
		n.groupBy = append(n.groupBy, col)
	}
	return n
}

// OrderBy adds a sort key: an expr.ColumnRef or a sqltoken.RawLiteral.
func (b *Builder) OrderBy(col any, dir OrderDir) *Builder {
	r, ok := col.(renderable)
	if !ok {
		badArgument("OrderBy", col)
	}
	n := b.clone()
	n.orderBy = append(n.orderBy, orderItem{key: r, dir: dir})
	return n
}

// DistinctOn adds fields to DISTINCT ON (...). Each must be an
// expr.ColumnRef or another renderable field.
func (b *Builder) DistinctOn(fields ...any) *Builder {
	n := b.clone()
	for _, f := range fields {
		if _, ok := f.(renderable); !ok {
			badArgument("DistinctOn", f)
		}
		n.distinctOn = append(n.distinctOn, f)
	}
	return n
}

// Limit sets the LIMIT clause.
func (b *Builder) Limit(n int) *Builder {
	c := b.clone()
	c.limit = &n
	return c
}

// Offset sets the OFFSET clause.
func (b *Builder) Offset(n int) *Builder {
	c := b.clone()
	c.offset = &n
	return c
}

// SelectRaw returns the builder's recorded select-list fields in
// lockstep with the rendered SQL, for the executor to decode result rows
// positionally.
func (b *Builder) SelectRaw() []any {
	return append([]any(nil), b.selectRaw...)
}
