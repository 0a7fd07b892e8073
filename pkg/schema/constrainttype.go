// SPDX-License-Identifier: Apache-2.0

package schema

// ConstraintType is the kind of a ConstraintNode. Indexes are modeled as
// a ConstraintNode with kind Index.
type ConstraintType string

const (
	PrimaryKey ConstraintType = "PRIMARY_KEY"
	ForeignKey ConstraintType = "FOREIGN_KEY"
	Unique     ConstraintType = "UNIQUE"
	Check      ConstraintType = "CHECK"
	Index      ConstraintType = "INDEX"
)
