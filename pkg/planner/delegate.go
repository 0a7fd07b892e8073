// SPDX-License-Identifier: Apache-2.0

package planner

import "github.com/polarstack/icequery/pkg/schema"

// Delegate walks a set of table descriptors and yields the full,
// deduplicated node set describing them: a TableNode and, for every
// field, an EnumTypeNode (when the field is enum-typed, emitted before
// its column) plus a ColumnNode, plus one ConstraintNode per primary
// key, foreign key, unique, check or index declared on the table.
//
// Nodes sharing a representation key (most commonly an enum type
// declared by two tables) are unioned via Node.Merge; a genuine content
// conflict surfaces as a MergeConflictError.
func Delegate(tables []schema.TableDescriptor) ([]schema.Node, error) {
	var nodes []schema.Node

	for _, t := range tables {
		nodes = append(nodes, schema.TableNode{Name: t.TableName})

		var pkColumns []string
		for _, f := range t.Fields {
			colType, enumNode := fieldColumnType(t.TableName, f)
			if enumNode != nil {
				nodes = append(nodes, *enumNode)
			}

			nodes = append(nodes, schema.ColumnNode{
				Table:         t.TableName,
				Name:          f.Name,
				Type:          colType,
				IsList:        f.IsList,
				Nullable:      f.Nullable,
				Autoincrement: f.Autoincrement,
			})

			if f.PrimaryKey {
				pkColumns = append(pkColumns, f.Name)
			}
			if f.ForeignKey != nil {
				fk, err := schema.NewConstraintNode(schema.ConstraintNode{
					Table:   t.TableName,
					Columns: []string{f.Name},
					Kind:    schema.ForeignKey,
					FK:      f.ForeignKey,
				})
				if err != nil {
					return nil, err
				}
				nodes = append(nodes, fk)
			}
			if f.Unique {
				nodes = append(nodes, schema.ConstraintNode{
					Table:   t.TableName,
					Columns: []string{f.Name},
					Kind:    schema.Unique,
				})
			}
			if f.Check != nil {
				chk, err := schema.NewConstraintNode(schema.ConstraintNode{
					Table:   t.TableName,
					Columns: []string{f.Name},
					Kind:    schema.Check,
					Name:    f.Check.Name,
					Check:   f.Check,
				})
				if err != nil {
					return nil, err
				}
				nodes = append(nodes, chk)
			}
		}

		if len(pkColumns) > 0 {
			nodes = append(nodes, schema.ConstraintNode{
				Table:   t.TableName,
				Columns: pkColumns,
				Kind:    schema.PrimaryKey,
			})
		}

		for _, u := range t.UniqueConstraints {
			nodes = append(nodes, schema.ConstraintNode{
				Table:   t.TableName,
				Columns: u.Columns,
				Kind:    schema.Unique,
				Name:    u.Name,
			})
		}
		for i := range t.Indexes {
			idx := t.Indexes[i]
			node, err := schema.NewConstraintNode(schema.ConstraintNode{
				Table:   t.TableName,
				Columns: idx.Columns,
				Kind:    schema.Index,
				Name:    idx.Name,
				Index:   &idx,
			})
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, node)
		}
		for i := range t.CheckConstraints {
			chk := t.CheckConstraints[i]
			node, err := schema.NewConstraintNode(schema.ConstraintNode{
				Table:   t.TableName,
				Columns: nil,
				Kind:    schema.Check,
				Name:    chk.Name,
				Check:   &chk,
			})
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, node)
		}
	}

	return mergeByKey(nodes)
}

func fieldColumnType(table string, f schema.FieldDescriptor) (schema.ColumnTypeSpec, *schema.EnumTypeNode) {
	if f.Type.Kind == schema.KindEnum {
		enum := schema.EnumTypeNode{
			Name:         f.Type.EnumName,
			Values:       f.Type.EnumValues,
			ReferencedBy: []schema.ColumnLocation{{Table: table, Column: f.Name}},
		}
		return schema.EnumRef(f.Type.EnumName), &enum
	}
	return schema.ConcreteType(f.Type.Primitive), nil
}

// mergeByKey unions nodes sharing a representation key, preserving first
// occurrence order for everything else.
func mergeByKey(nodes []schema.Node) ([]schema.Node, error) {
	order := make([]string, 0, len(nodes))
	byKey := make(map[string]schema.Node, len(nodes))

	for _, n := range nodes {
		existing, ok := byKey[n.Key()]
		if !ok {
			order = append(order, n.Key())
			byKey[n.Key()] = n
			continue
		}
		merged, err := existing.Merge(n)
		if err != nil {
			return nil, err
		}
		byKey[n.Key()] = merged
	}

	out := make([]schema.Node, len(order))
	for i, k := range order {
		out[i] = byKey[k]
	}
	return out, nil
}
