// SPDX-License-Identifier: Apache-2.0

package expr

import "fmt"

// FunctionMeta is the result of an aggregate or scalar function builder:
// the rendered SQL, the column it was computed from (nil for functions
// like RowNumber that target no column), and an optional alias assigned
// by the query builder when the function appears in a SELECT list.
type FunctionMeta struct {
	SQL   string
	Field *ColumnRef
	Alias string
}

func (f FunctionMeta) renderOperand() string {
	if f.Alias != "" {
		return f.Alias
	}
	return f.SQL
}

// Render renders the function call (ignoring any assigned alias); used
// for the SELECT-list expression itself, before "AS alias" is appended.
func (f FunctionMeta) Render() string {
	return f.SQL
}

// WithAlias returns a copy of f with its local alias set. Called by the
// query builder's aggregate-aliasing pass, never by user code directly.
func (f FunctionMeta) WithAlias(alias string) FunctionMeta {
	f.Alias = alias
	return f
}

func (f FunctionMeta) Eq(v any) Comparison  { return newComparison(f, OpEQ, v) }
func (f FunctionMeta) Ne(v any) Comparison  { return newComparison(f, OpNE, v) }
func (f FunctionMeta) Lt(v any) Comparison  { return newComparison(f, OpLT, v) }
func (f FunctionMeta) Le(v any) Comparison  { return newComparison(f, OpLE, v) }
func (f FunctionMeta) Gt(v any) Comparison  { return newComparison(f, OpGT, v) }
func (f FunctionMeta) Ge(v any) Comparison  { return newComparison(f, OpGE, v) }

func fn(sqlText string, field *ColumnRef) FunctionMeta {
	return FunctionMeta{SQL: sqlText, Field: field}
}

// Count renders count("t"."c").
func Count(c ColumnRef) FunctionMeta {
	return fn(fmt.Sprintf("count(%s)", c.renderOperand()), &c)
}

// CountStar renders count(*), which targets no column.
func CountStar() FunctionMeta {
	return fn("count(*)", nil)
}

// Sum renders sum("t"."c").
func Sum(c ColumnRef) FunctionMeta {
	return fn(fmt.Sprintf("sum(%s)", c.renderOperand()), &c)
}

// Avg renders avg("t"."c").
func Avg(c ColumnRef) FunctionMeta {
	return fn(fmt.Sprintf("avg(%s)", c.renderOperand()), &c)
}

// Min renders min("t"."c").
func Min(c ColumnRef) FunctionMeta {
	return fn(fmt.Sprintf("min(%s)", c.renderOperand()), &c)
}

// Max renders max("t"."c").
func Max(c ColumnRef) FunctionMeta {
	return fn(fmt.Sprintf("max(%s)", c.renderOperand()), &c)
}

// RowNumber renders row_number() over (), with an empty window, as a
// sentinel-field function that targets no column and may only appear in
// a SELECT list, never in a WHERE clause.
func RowNumber() FunctionMeta {
	return fn("row_number() over ()", nil)
}

// DateTrunc renders date_trunc('unit', "t"."c").
func DateTrunc(unit string, c ColumnRef) FunctionMeta {
	return fn(fmt.Sprintf("date_trunc('%s', %s)", unit, c.renderOperand()), &c)
}

// Lower renders lower("t"."c").
func Lower(c ColumnRef) FunctionMeta {
	return fn(fmt.Sprintf("lower(%s)", c.renderOperand()), &c)
}

// Upper renders upper("t"."c").
func Upper(c ColumnRef) FunctionMeta {
	return fn(fmt.Sprintf("upper(%s)", c.renderOperand()), &c)
}

// Coalesce renders coalesce("t"."c", <fallback>), inserting
// fallbackLiteralSQL verbatim: the fallback is not parameterized, so the
// caller supplies it as pre-formatted SQL. This keeps FunctionMeta
// parameter-free and therefore safe to reuse across builder branches
// without renumbering.
func Coalesce(c ColumnRef, fallbackLiteralSQL string) FunctionMeta {
	return fn(fmt.Sprintf("coalesce(%s, %s)", c.renderOperand(), fallbackLiteralSQL), &c)
}

var _ Operand = FunctionMeta{}
