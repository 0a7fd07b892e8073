// SPDX-License-Identifier: Apache-2.0

package schema

import "fmt"

// MergeConflictError reports that two schema descriptors sharing a
// representation key disagree in content that cannot be unioned — e.g.
// the same enum name declared with two different value sets.
type MergeConflictError struct {
	Key    string
	Reason string
}

func (e MergeConflictError) Error() string {
	return fmt.Sprintf("schema: merge conflict for %q: %s", e.Key, e.Reason)
}

// ConstraintInconsistencyError reports a ConstraintNode whose kind and
// spec fields disagree — e.g. kind FOREIGN_KEY with no FK spec, or vice
// versa. Caught at node construction, never at Create/Destroy/Migrate
// time.
type ConstraintInconsistencyError struct {
	Key    string
	Reason string
}

func (e ConstraintInconsistencyError) Error() string {
	return fmt.Sprintf("schema: constraint %q is inconsistent: %s", e.Key, e.Reason)
}
