// SPDX-License-Identifier: Apache-2.0

package planner

import "github.com/polarstack/icequery/pkg/schema"

// Snapshot is a fully ordered, deduplicated schema: the output of
// Delegate followed by Order for one set of table descriptors. It is
// the unit pkg/state persists and pkg/planner.Diff compares.
type Snapshot struct {
	Order []schema.Node
}

// NewSnapshot runs Phase A (Delegate) and Phase B (Order) over a set of
// table descriptors.
func NewSnapshot(tables []schema.TableDescriptor) (*Snapshot, error) {
	nodes, err := Delegate(tables)
	if err != nil {
		return nil, err
	}
	ordered, err := Order(nodes)
	if err != nil {
		return nil, err
	}
	return &Snapshot{Order: ordered}, nil
}

func (s *Snapshot) byKey() map[string]schema.Node {
	m := make(map[string]schema.Node, len(s.Order))
	for _, n := range s.Order {
		m[n.Key()] = n
	}
	return m
}

// EntryKind distinguishes the three possible diff outcomes for a node.
type EntryKind int

const (
	EntryCreate EntryKind = iota
	EntryMigrate
	EntryDestroy
)

// Entry is one step of a Diff: a node to create or destroy, or a
// (prev, next) pair to migrate.
type Entry struct {
	Kind EntryKind
	Node schema.Node
	Prev schema.Node
}

// Diff computes the minimal ordered action list that transforms prev
// into next: nodes are classified by representation key, not positional
// comparison, so renaming a table is a drop-and-recreate rather than a
// detected rename. Creations and migrations are emitted walking
// next's order; destructions are emitted walking prev's order in
// reverse, so a dependent is always destroyed before what it depends
// on.
func Diff(prev, next *Snapshot) []Entry {
	prevByKey := prev.byKey()
	nextByKey := next.byKey()

	var entries []Entry

	for _, n := range next.Order {
		p, existed := prevByKey[n.Key()]
		switch {
		case !existed:
			entries = append(entries, Entry{Kind: EntryCreate, Node: n})
		case !p.Equal(n):
			entries = append(entries, Entry{Kind: EntryMigrate, Node: n, Prev: p})
		}
	}

	for i := len(prev.Order) - 1; i >= 0; i-- {
		p := prev.Order[i]
		if _, stillExists := nextByKey[p.Key()]; !stillExists {
			entries = append(entries, Entry{Kind: EntryDestroy, Node: p})
		}
	}

	return entries
}

// Emit replays a Diff's entries against a Recorder.
func Emit(entries []Entry, rec schema.Recorder) {
	for _, e := range entries {
		switch e.Kind {
		case EntryCreate:
			e.Node.Create(rec)
		case EntryMigrate:
			e.Node.Migrate(e.Prev, rec)
		case EntryDestroy:
			e.Node.Destroy(rec)
		}
	}
}
