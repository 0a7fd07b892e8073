// SPDX-License-Identifier: Apache-2.0

package expr

import "fmt"

// CmpOp is a comparison operator.
type CmpOp string

const (
	OpEQ       CmpOp = "="
	OpNE       CmpOp = "!="
	OpLT       CmpOp = "<"
	OpLE       CmpOp = "<="
	OpGT       CmpOp = ">"
	OpGE       CmpOp = ">="
	OpIN       CmpOp = "IN"
	OpNotIn    CmpOp = "NOT IN"
	OpLike     CmpOp = "LIKE"
	OpNotLike  CmpOp = "NOT LIKE"
	OpILike    CmpOp = "ILIKE"
	OpNotILike CmpOp = "NOT ILIKE"
	OpIs       CmpOp = "IS"
	OpIsNot    CmpOp = "IS NOT"
)

// Operand is anything that may appear on either side of a Comparison:
// a column reference or a function expression.
type Operand interface {
	// renderOperand renders the operand as it appears inside a comparison,
	// e.g. "t"."c" or count("t"."id").
	renderOperand() string
}

// Comparison is a single predicate: left OP right. Right is either an
// Operand (column-to-column or column-to-function, rendered without
// parameters) or a plain Go value (parameterized as $n).
type Comparison struct {
	Left  Operand
	Op    CmpOp
	Right any
}

// Predicate is implemented by both Comparison and ComparisonGroup, so the
// two compose recursively wherever the builder or and_/or_ accept a
// condition.
type Predicate interface {
	// Render produces the SQL fragment and the parameter values it
	// contributed, threading the parameter counter starting at
	// startParam (the next $n to use) and returning the counter's new
	// value for the caller's next fragment.
	Render(startParam int) (sql string, params []any, nextParam int)
	isPredicate()
}

// nullValue marks a value that should render as SQL NULL. Passing plain
// Go nil to Eq/Ne has the same effect; Null exists so a caller can be
// explicit.
type nullValue struct{}

// Null is the sentinel value that, compared with Eq or Ne, rewrites the
// comparison to IS / IS NOT per the null-comparison invariant.
var Null = nullValue{}

func isNull(v any) bool {
	if v == nil {
		return true
	}
	_, ok := v.(nullValue)
	return ok
}

func newComparison(left Operand, op CmpOp, right any) Comparison {
	switch op {
	case OpEQ:
		if isNull(right) {
			return Comparison{Left: left, Op: OpIs, Right: nullValue{}}
		}
	case OpNE:
		if isNull(right) {
			return Comparison{Left: left, Op: OpIsNot, Right: nullValue{}}
		}
	}
	return Comparison{Left: left, Op: op, Right: right}
}

func (Comparison) isPredicate() {}

// Render renders "left OP right", parameterizing right unless it is itself
// an Operand (column-to-column comparisons are never parameterized).
func (c Comparison) Render(startParam int) (string, []any, int) {
	left := c.Left.renderOperand()

	switch right := c.Right.(type) {
	case nullValue:
		return fmt.Sprintf("%s %s NULL", left, c.Op), nil, startParam
	case Operand:
		return fmt.Sprintf("%s %s %s", left, c.Op, right.renderOperand()), nil, startParam
	default:
		if c.Op == OpIN || c.Op == OpNotIn {
			return renderInList(left, c.Op, right, startParam)
		}
		return fmt.Sprintf("%s %s $%d", left, c.Op, startParam), []any{right}, startParam + 1
	}
}

func renderInList(left string, op CmpOp, right any, startParam int) (string, []any, int) {
	values := toSlice(right)
	if len(values) == 0 {
		// An empty IN list matches nothing; NOT IN matches everything.
		if op == OpIN {
			return "FALSE", nil, startParam
		}
		return "TRUE", nil, startParam
	}

	placeholders := make([]byte, 0, len(values)*4)
	n := startParam
	for i := range values {
		if i > 0 {
			placeholders = append(placeholders, ", "...)
		}
		placeholders = append(placeholders, []byte(fmt.Sprintf("$%d", n))...)
		n++
	}
	return fmt.Sprintf("%s %s (%s)", left, op, placeholders), values, n
}

func toSlice(v any) []any {
	if vv, ok := v.([]any); ok {
		return vv
	}
	return reflectSlice(v)
}
