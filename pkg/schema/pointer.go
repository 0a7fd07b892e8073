// SPDX-License-Identifier: Apache-2.0

package schema

import (
	"sort"
	"strings"
)

// DependencyRef is a lightweight reference to a schema object used only
// to express ordering, never content equality: changing the node a
// pointer targets never forces the pointer holder's content hash to
// change, so a referencing constraint is not re-emitted just because an
// unrelated attribute of its target changed.
type DependencyRef interface {
	// Key is the representation key this pointer targets, for
	// diagnostics (e.g. UnresolvedDependencyError).
	Key() string

	// Satisfied reports whether this pointer's target has already been
	// emitted, given the set of representation keys emitted so far.
	Satisfied(emitted map[string]bool) bool
}

// TablePointer targets a TableNode by name.
type TablePointer struct{ Name string }

func (p TablePointer) Key() string { return p.Name }
func (p TablePointer) Satisfied(emitted map[string]bool) bool {
	return emitted[p.Name]
}

// ColumnPointer targets a ColumnNode by (table, column).
type ColumnPointer struct{ Table, Column string }

func (p ColumnPointer) Key() string { return p.Table + "." + p.Column }
func (p ColumnPointer) Satisfied(emitted map[string]bool) bool {
	return emitted[p.Key()]
}

// TypePointer targets an EnumTypeNode by name.
type TypePointer struct{ Name string }

func (p TypePointer) Key() string { return p.Name }
func (p TypePointer) Satisfied(emitted map[string]bool) bool {
	return emitted[p.Name]
}

// ConstraintPointer targets a ConstraintNode by its already-computed
// representation key (table.sorted(columns).kind).
type ConstraintPointer struct{ RepKey string }

func (p ConstraintPointer) Key() string { return p.RepKey }
func (p ConstraintPointer) Satisfied(emitted map[string]bool) bool {
	return emitted[p.RepKey]
}

// OrPointer is satisfied if any one of its members is satisfied.
type OrPointer struct{ Members []DependencyRef }

func (p OrPointer) Key() string {
	keys := make([]string, len(p.Members))
	for i, m := range p.Members {
		keys[i] = m.Key()
	}
	return "(" + strings.Join(keys, " OR ") + ")"
}

func (p OrPointer) Satisfied(emitted map[string]bool) bool {
	for _, m := range p.Members {
		if m.Satisfied(emitted) {
			return true
		}
	}
	return false
}

// ConstraintKey computes a ConstraintNode's representation key:
// table.sorted(columns).kind.
func ConstraintKey(table string, columns []string, kind ConstraintType) string {
	sorted := append([]string(nil), columns...)
	sort.Strings(sorted)
	return table + "." + strings.Join(sorted, ",") + "." + string(kind)
}
