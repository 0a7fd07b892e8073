// SPDX-License-Identifier: Apache-2.0

package query

import "fmt"

// BadArgumentError reports that a value passed to a builder method is not
// a valid AST node for that position (e.g. a plain string passed where an
// expr.Comparison was required).
//
// Go's type system already rejects most such mistakes at compile time
// (Where/Having/Join/GroupBy/OrderBy/DistinctOn accept any only where the
// source's dynamic API genuinely allows more than one concrete AST type in
// the same position); where a runtime check remains necessary, the
// offending method panics with this error rather than deferring the
// failure to Build(), so stack traces point at the buggy caller.
type BadArgumentError struct {
	Method string
	Value  any
}

func (e BadArgumentError) Error() string {
	return fmt.Sprintf("query: %s: %#v is not a valid argument", e.Method, e.Value)
}

// IncompleteQuery reports that Build was called on an under-specified
// query: a SELECT with no fields, an UPDATE with no SET, or an UPDATE /
// DELETE with no target table.
type IncompleteQuery struct {
	Reason string
}

func (e IncompleteQuery) Error() string {
	return "query: incomplete query: " + e.Reason
}

func badArgument(method string, value any) {
	panic(BadArgumentError{Method: method, Value: value})
}
