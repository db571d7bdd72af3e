// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package schema

import (
	"sort"

	"code.hybscloud.com/jflow/node"
)

// MarshalNode renders s as a Node tree matching the JSON Schema Draft-7
// document shape, so callers can serialize it with package node's
// encoder without a second marshaling path.
func (s *Schema) MarshalNode() *node.Node {
	return s.marshalNode(true)
}

func (s *Schema) marshalNode(root bool) *node.Node {
	if s == nil {
		return node.Object()
	}
	fields := make([]node.Pair, 0, 5)
	if root {
		fields = append(fields, node.Pair{Key: "$schema", Value: node.String(DraftVersion)})
	}

	switch len(s.Types) {
	case 0:
		fields = append(fields, node.Pair{Key: "type", Value: node.String("null")})
	case 1:
		fields = append(fields, node.Pair{Key: "type", Value: node.String(s.Types[0])})
	default:
		types := append([]string(nil), s.Types...)
		sort.Strings(types)
		typeElems := make([]*node.Node, len(types))
		for i, t := range types {
			typeElems[i] = node.String(t)
		}
		fields = append(fields, node.Pair{Key: "type", Value: node.Array(typeElems...)})
	}

	if len(s.PropertyOrder) > 0 {
		propFields := make([]node.Pair, 0, len(s.PropertyOrder))
		for _, k := range s.PropertyOrder {
			propFields = append(propFields, node.Pair{Key: k, Value: s.Properties[k].marshalNode(false)})
		}
		fields = append(fields, node.Pair{Key: "properties", Value: node.Object(propFields...)})
	}

	if len(s.Required) > 0 {
		reqElems := make([]*node.Node, len(s.Required))
		for i, k := range s.Required {
			reqElems[i] = node.String(k)
		}
		fields = append(fields, node.Pair{Key: "required", Value: node.Array(reqElems...)})
	}

	if s.Items != nil {
		fields = append(fields, node.Pair{Key: "items", Value: s.Items.marshalNode(false)})
	}

	return node.Object(fields...)
}
