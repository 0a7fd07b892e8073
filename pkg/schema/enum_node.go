// SPDX-License-Identifier: Apache-2.0

package schema

import "sort"

// EnumTypeNode is the schema object for a Postgres enum type. Values are
// stored as a set but always rendered sorted, so value order never
// participates in equality or in the emitted DDL's determinism.
type EnumTypeNode struct {
	Name         string
	Values       []string
	ReferencedBy []ColumnLocation
}

func (e EnumTypeNode) Key() string        { return e.Name }
func (e EnumTypeNode) Category() Category { return TypeCategory }

// Dependencies ties the enum type to every table that declares a column
// of this type, one TablePointer per distinct table in ReferencedBy, so
// the type is never free to race ahead of (or trail behind) the table
// round that introduces it.
func (e EnumTypeNode) Dependencies() []DependencyRef {
	seen := make(map[string]bool, len(e.ReferencedBy))
	var deps []DependencyRef
	for _, loc := range e.ReferencedBy {
		if seen[loc.Table] {
			continue
		}
		seen[loc.Table] = true
		deps = append(deps, TablePointer{Name: loc.Table})
	}
	return deps
}

func (e EnumTypeNode) sortedValues() []string {
	v := append([]string(nil), e.Values...)
	sort.Strings(v)
	return v
}

func (e EnumTypeNode) Create(rec Recorder) {
	rec.AddType(e.Name, e.sortedValues())
}

// Destroy flags any still-referencing columns so the executor can
// substitute or purge their values before the type itself is dropped.
// Enums cannot be dropped while referencing columns remain.
func (e EnumTypeNode) Destroy(rec Recorder) {
	if len(e.ReferencedBy) > 0 {
		rec.DropTypeValues(e.Name, e.sortedValues(), e.ReferencedBy)
	}
	rec.DropType(e.Name)
}

// Migrate diffs the value sets of two enum nodes sharing the same name:
// additions via add_type_values, removals via drop_type_values (guarded
// by a TODO comment, since removing a value used by existing rows
// requires an operator-supplied substitution).
func (e EnumTypeNode) Migrate(prev Node, rec Recorder) {
	p, ok := prev.(EnumTypeNode)
	if !ok {
		return
	}
	prevSet := toSet(p.Values)
	nextSet := toSet(e.Values)

	var added, removed []string
	for _, v := range e.Values {
		if !prevSet[v] {
			added = append(added, v)
		}
	}
	for _, v := range p.Values {
		if !nextSet[v] {
			removed = append(removed, v)
		}
	}
	sort.Strings(added)
	sort.Strings(removed)

	if len(added) > 0 {
		rec.AddTypeValues(e.Name, added, nil)
	}
	if len(removed) > 0 {
		rec.AddComment("TODO: verify no existing row still uses a removed value of "+e.Name, nil)
		rec.DropTypeValues(e.Name, removed, e.ReferencedBy)
	}
}

func (e EnumTypeNode) Merge(other Node) (Node, error) {
	o, ok := other.(EnumTypeNode)
	if !ok || o.Name != e.Name {
		return nil, MergeConflictError{Key: e.Key(), Reason: "not a compatible EnumTypeNode"}
	}
	if !sameSet(e.Values, o.Values) {
		return nil, MergeConflictError{Key: e.Key(), Reason: "same enum name declared with different value sets"}
	}
	merged := e
	merged.ReferencedBy = unionLocations(e.ReferencedBy, o.ReferencedBy)
	return merged, nil
}

func (e EnumTypeNode) Equal(other Node) bool {
	o, ok := other.(EnumTypeNode)
	if !ok || o.Name != e.Name {
		return false
	}
	return sameSet(e.Values, o.Values) && sameLocationSet(e.ReferencedBy, o.ReferencedBy)
}

func toSet(values []string) map[string]bool {
	m := make(map[string]bool, len(values))
	for _, v := range values {
		m[v] = true
	}
	return m
}

func sameSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	sa := toSet(a)
	for _, v := range b {
		if !sa[v] {
			return false
		}
	}
	return true
}

func unionLocations(a, b []ColumnLocation) []ColumnLocation {
	seen := make(map[ColumnLocation]bool, len(a)+len(b))
	out := make([]ColumnLocation, 0, len(a)+len(b))
	for _, loc := range append(append([]ColumnLocation(nil), a...), b...) {
		if !seen[loc] {
			seen[loc] = true
			out = append(out, loc)
		}
	}
	return out
}

func sameLocationSet(a, b []ColumnLocation) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[ColumnLocation]bool, len(a))
	for _, loc := range a {
		seen[loc] = true
	}
	for _, loc := range b {
		if !seen[loc] {
			return false
		}
	}
	return true
}

var _ Node = EnumTypeNode{}
