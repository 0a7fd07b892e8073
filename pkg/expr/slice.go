// SPDX-License-Identifier: Apache-2.0

package expr

import "reflect"

// reflectSlice normalizes any slice argument to []any so that In/NotIn
// accept []int, []string, etc. without every caller wrapping values in
// []any{...} by hand.
func reflectSlice(v any) []any {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return []any{v}
	}

	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out
}
