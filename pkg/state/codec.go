// SPDX-License-Identifier: Apache-2.0

package state

import (
	"encoding/json"
	"fmt"

	"github.com/polarstack/icequery/pkg/planner"
	"github.com/polarstack/icequery/pkg/schema"
)

// envelope tags an encoded schema.Node with its concrete Go type, since
// schema.Node is an interface and encoding/json can't round-trip one
// without help.
type envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

const (
	nodeTypeTable      = "table"
	nodeTypeColumn     = "column"
	nodeTypeEnum       = "enum"
	nodeTypeConstraint = "constraint"
)

// EncodeSnapshot renders a Snapshot's ordered node list to JSON, for
// storage in the revisions table's snapshot column.
func EncodeSnapshot(s *planner.Snapshot) ([]byte, error) {
	envelopes := make([]envelope, len(s.Order))
	for i, n := range s.Order {
		tag, err := nodeTag(n)
		if err != nil {
			return nil, err
		}
		data, err := json.Marshal(n)
		if err != nil {
			return nil, err
		}
		envelopes[i] = envelope{Type: tag, Data: data}
	}
	return json.Marshal(envelopes)
}

// DecodeSnapshot parses a Snapshot previously produced by EncodeSnapshot.
// The decoded order is used as-is: it was already a valid topological
// order when it was saved.
func DecodeSnapshot(data []byte) (*planner.Snapshot, error) {
	var envelopes []envelope
	if err := json.Unmarshal(data, &envelopes); err != nil {
		return nil, err
	}

	order := make([]schema.Node, len(envelopes))
	for i, e := range envelopes {
		n, err := decodeNode(e)
		if err != nil {
			return nil, err
		}
		order[i] = n
	}
	return &planner.Snapshot{Order: order}, nil
}

func nodeTag(n schema.Node) (string, error) {
	switch n.(type) {
	case schema.TableNode:
		return nodeTypeTable, nil
	case schema.ColumnNode:
		return nodeTypeColumn, nil
	case schema.EnumTypeNode:
		return nodeTypeEnum, nil
	case schema.ConstraintNode:
		return nodeTypeConstraint, nil
	default:
		return "", fmt.Errorf("state: unencodable node type %T", n)
	}
}

func decodeNode(e envelope) (schema.Node, error) {
	switch e.Type {
	case nodeTypeTable:
		var n schema.TableNode
		return n, json.Unmarshal(e.Data, &n)
	case nodeTypeColumn:
		var n schema.ColumnNode
		return n, json.Unmarshal(e.Data, &n)
	case nodeTypeEnum:
		var n schema.EnumTypeNode
		return n, json.Unmarshal(e.Data, &n)
	case nodeTypeConstraint:
		var n schema.ConstraintNode
		return n, json.Unmarshal(e.Data, &n)
	default:
		return nil, fmt.Errorf("state: unknown node type %q", e.Type)
	}
}
