// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package schema induces a JSON Schema Draft-7 description from one
// Node tree or a homogeneous batch of trees. A single tree induces a
// Schema directly; a batch induces one Schema per element and folds
// them together with Merge, an associative and commutative union over
// the type lattice.
package schema

import (
	"sort"

	"code.hybscloud.com/jflow/node"
)

// MaxArraySampleSize bounds how many elements of an Array are sampled
// when inducing "items", so a huge array costs no more than a small one.
const MaxArraySampleSize = 50

// DraftVersion is the $schema URI emitted at the document root.
const DraftVersion = "http://json-schema.org/draft-07/schema#"

// Schema is an induced JSON Schema node. Types holds one or more of
// "null", "boolean", "integer", "number", "string", "array", "object",
// sorted and de-duplicated; the rendered document's "type" is Types[0]
// when len(Types) == 1, otherwise the full sorted slice, so a
// multi-typed field renders deterministically as type: [t1, t2, ...].
type Schema struct {
	Types      []string
	Properties map[string]*Schema
	// PropertyOrder preserves first-insertion order across merges so
	// MarshalNode's output is deterministic rather than map-order
	// dependent.
	PropertyOrder []string
	Required      []string
	Items         *Schema
}

func newLeafSchema(t string) *Schema {
	return &Schema{Types: []string{t}}
}

// Induce derives a Schema describing a single Node.
func Induce(n *node.Node) *Schema {
	if n == nil {
		return newLeafSchema("null")
	}
	switch n.Kind {
	case node.KindNull:
		return newLeafSchema("null")
	case node.KindBool:
		return newLeafSchema("boolean")
	case node.KindNumber:
		if node.IsInteger(n.Num) {
			return newLeafSchema("integer")
		}
		return newLeafSchema("number")
	case node.KindString:
		return newLeafSchema("string")
	case node.KindArray:
		return induceArray(n)
	case node.KindObject:
		return induceObject(n)
	default:
		return newLeafSchema("null")
	}
}

func induceArray(n *node.Node) *Schema {
	s := &Schema{Types: []string{"array"}}
	sampleCount := len(n.Elems)
	if sampleCount > MaxArraySampleSize {
		sampleCount = MaxArraySampleSize
	}
	var items *Schema
	for i := 0; i < sampleCount; i++ {
		elemSchema := Induce(n.Elems[i])
		if items == nil {
			items = elemSchema
		} else {
			items = Merge(items, elemSchema)
		}
	}
	s.Items = items
	return s
}

func induceObject(n *node.Node) *Schema {
	s := &Schema{
		Types:      []string{"object"},
		Properties: make(map[string]*Schema, len(n.Fields)),
	}
	required := make([]string, 0, len(n.Fields))
	for _, p := range n.Fields {
		if _, seen := s.Properties[p.Key]; !seen {
			s.PropertyOrder = append(s.PropertyOrder, p.Key)
			required = append(required, p.Key)
		}
		propSchema := Induce(p.Value)
		if existing, ok := s.Properties[p.Key]; ok {
			s.Properties[p.Key] = Merge(existing, propSchema)
		} else {
			s.Properties[p.Key] = propSchema
		}
	}
	s.Required = required
	return s
}

// InduceBatch induces a Schema per element of elems and folds them
// together with Merge, left to right. Returns a "null"-typed schema
// for an empty batch.
func InduceBatch(elems []*node.Node) *Schema {
	if len(elems) == 0 {
		return newLeafSchema("null")
	}
	result := Induce(elems[0])
	for _, n := range elems[1:] {
		result = Merge(result, Induce(n))
	}
	return result
}

// Merge folds two schemas into one accepting every value either
// accepted: type sets union, object property sets union with shared
// keys merged and required sets intersected, array items merge. Merge
// is associative and commutative up to the sorted type-union ordering
// rule.
func Merge(a, b *Schema) *Schema {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}

	out := &Schema{Types: unionTypes(a.Types, b.Types)}

	if hasType(a, "object") || hasType(b, "object") {
		out.Properties = make(map[string]*Schema)
		order := make([]string, 0, len(a.PropertyOrder)+len(b.PropertyOrder))
		seen := make(map[string]bool)
		for _, k := range a.PropertyOrder {
			if !seen[k] {
				seen[k] = true
				order = append(order, k)
			}
		}
		for _, k := range b.PropertyOrder {
			if !seen[k] {
				seen[k] = true
				order = append(order, k)
			}
		}
		out.PropertyOrder = order

		for _, k := range order {
			av, aok := propOf(a, k)
			bv, bok := propOf(b, k)
			switch {
			case aok && bok:
				out.Properties[k] = Merge(av, bv)
			case aok:
				out.Properties[k] = av
			default:
				out.Properties[k] = bv
			}
		}
		out.Required = intersectSorted(requiredOf(a), requiredOf(b))
	}

	if hasType(a, "array") || hasType(b, "array") {
		switch {
		case a.Items != nil && b.Items != nil:
			out.Items = Merge(a.Items, b.Items)
		case a.Items != nil:
			out.Items = a.Items
		default:
			out.Items = b.Items
		}
	}

	return out
}

func propOf(s *Schema, key string) (*Schema, bool) {
	if s.Properties == nil {
		return nil, false
	}
	v, ok := s.Properties[key]
	return v, ok
}

func requiredOf(s *Schema) []string {
	if s.Required == nil {
		return nil
	}
	return s.Required
}

func hasType(s *Schema, t string) bool {
	for _, v := range s.Types {
		if v == t {
			return true
		}
	}
	return false
}

// unionTypes merges two type-name sets, de-duplicating and sorting the
// result deterministically. "integer" and "number" are not collapsed
// into one another: they stay distinct alternatives, so a batch mixing
// whole and fractional numbers reports both.
func unionTypes(a, b []string) []string {
	set := make(map[string]bool, len(a)+len(b))
	for _, t := range a {
		set[t] = true
	}
	for _, t := range b {
		set[t] = true
	}
	out := make([]string, 0, len(set))
	for t := range set {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// intersectSorted returns the sorted intersection of two string sets
// (inputs need not be sorted); either input being nil (no requirement info, e.g. a
// leaf schema merged against an object) yields an empty intersection.
func intersectSorted(a, b []string) []string {
	aSet := make(map[string]bool, len(a))
	for _, v := range a {
		aSet[v] = true
	}
	bSet := make(map[string]bool, len(b))
	for _, v := range b {
		bSet[v] = true
	}
	var out []string
	for v := range aSet {
		if bSet[v] {
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}
