// SPDX-License-Identifier: Apache-2.0

package expr

import "github.com/polarstack/icequery/pkg/sqltoken"

// ColumnRef is a reference to a column on a specific table, tagged with
// the static Kind that gates which comparison combinators are legal on
// it (e.g. Like requires KindString or the untyped KindAny).
type ColumnRef struct {
	Table string
	Name  string
	Kind  Kind
}

// Col builds a ColumnRef. Kind defaults to KindAny if not given; use
// ColOf to set it explicitly.
func Col(table, name string) ColumnRef {
	return ColumnRef{Table: table, Name: name, Kind: KindAny}
}

// ColOf builds a ColumnRef with an explicit static type.
func ColOf(table, name string, kind Kind) ColumnRef {
	return ColumnRef{Table: table, Name: name, Kind: kind}
}

func (c ColumnRef) renderOperand() string {
	return sqltoken.Qualified(c.Table, c.Name)
}

// Render renders the column reference as it would appear in a SELECT
// list, ORDER BY or GROUP BY clause.
func (c ColumnRef) Render() string {
	return c.renderOperand()
}

func (c ColumnRef) Eq(v any) Comparison    { return newComparison(c, OpEQ, v) }
func (c ColumnRef) Ne(v any) Comparison    { return newComparison(c, OpNE, v) }
func (c ColumnRef) Lt(v any) Comparison    { return newComparison(c, OpLT, v) }
func (c ColumnRef) Le(v any) Comparison    { return newComparison(c, OpLE, v) }
func (c ColumnRef) Gt(v any) Comparison    { return newComparison(c, OpGT, v) }
func (c ColumnRef) Ge(v any) Comparison    { return newComparison(c, OpGE, v) }
func (c ColumnRef) In(xs any) Comparison   { return newComparison(c, OpIN, xs) }
func (c ColumnRef) NotIn(xs any) Comparison {
	return newComparison(c, OpNotIn, xs)
}
func (c ColumnRef) IsNull() Comparison    { return newComparison(c, OpEQ, Null) }
func (c ColumnRef) IsNotNull() Comparison { return newComparison(c, OpNE, Null) }

// Like requires the column's static Kind to be string-like; it panics
// otherwise, mirroring the source's compile-time-enforced type
// constraint (spec §4.2) with a runtime check in a language without it.
func (c ColumnRef) Like(pattern string) Comparison {
	c.requireStringLike("Like")
	return newComparison(c, OpLike, pattern)
}

func (c ColumnRef) NotLike(pattern string) Comparison {
	c.requireStringLike("NotLike")
	return newComparison(c, OpNotLike, pattern)
}

func (c ColumnRef) ILike(pattern string) Comparison {
	c.requireStringLike("ILike")
	return newComparison(c, OpILike, pattern)
}

func (c ColumnRef) NotILike(pattern string) Comparison {
	c.requireStringLike("NotILike")
	return newComparison(c, OpNotILike, pattern)
}

func (c ColumnRef) requireStringLike(op string) {
	if !c.Kind.stringLike() {
		panic("expr: " + op + " is only valid on string-like columns, got " + sqltoken.Qualified(c.Table, c.Name))
	}
}

var _ Operand = ColumnRef{}
