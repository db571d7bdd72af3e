// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package node provides the tree-of-nodes JSON data structure used
// throughout jflow: an ordered tagged union over null, bool, number,
// string, array and object, plus the parse/serialize glue that keeps
// object key order stable across every transformation.
package node

import "strconv"

// Kind discriminates the tagged union held by a Node.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

// String returns the JSON Schema type name for k, matching the type
// lattice used by package schema.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Pair is a single (key, value) entry of an Object node. Order of Pair
// entries within Object.Fields is insertion order and is preserved
// through every transformation in this module.
type Pair struct {
	Key   string
	Value *Node
}

// Node is the tagged-union tree node. Exactly one of the fields below is
// meaningful for a given Kind:
//
//	KindNull:   none
//	KindBool:   Bool
//	KindNumber: Num
//	KindString: Str
//	KindArray:  Elems
//	KindObject: Fields
type Node struct {
	Kind   Kind
	Bool   bool
	Num    float64
	Str    string
	Elems  []*Node
	Fields []Pair
}

// Null returns a fresh null node.
func Null() *Node { return &Node{Kind: KindNull} }

// Bool returns a fresh boolean node.
func Bool(b bool) *Node { return &Node{Kind: KindBool, Bool: b} }

// Number returns a fresh numeric node.
func Number(f float64) *Node { return &Node{Kind: KindNumber, Num: f} }

// String returns a fresh string node.
func String(s string) *Node { return &Node{Kind: KindString, Str: s} }

// Array returns a fresh array node wrapping elems (not copied).
func Array(elems ...*Node) *Node { return &Node{Kind: KindArray, Elems: elems} }

// Object returns a fresh object node wrapping fields (not copied).
func Object(fields ...Pair) *Node { return &Node{Kind: KindObject, Fields: fields} }

// IsContainer reports whether n is an Array or Object.
func (n *Node) IsContainer() bool {
	return n != nil && (n.Kind == KindArray || n.Kind == KindObject)
}

// IsLeaf reports whether n is a non-container node (the flattener's
// definition of a leaf).
func (n *Node) IsLeaf() bool {
	return n != nil && !n.IsContainer()
}

// IsEmptyString reports whether n is a zero-length string leaf.
func (n *Node) IsEmptyString() bool {
	return n != nil && n.Kind == KindString && n.Str == ""
}

// IsNull reports whether n is a null leaf (or nil, treated as null by
// callers that walk possibly-absent children).
func (n *Node) IsNull() bool {
	return n == nil || n.Kind == KindNull
}

// Get returns the value for key in an Object node, or nil if absent or
// n is not an Object. When duplicate keys are present the first match
// wins.
func (n *Node) Get(key string) *Node {
	if n == nil || n.Kind != KindObject {
		return nil
	}
	for _, p := range n.Fields {
		if p.Key == key {
			return p.Value
		}
	}
	return nil
}

// IsInteger reports whether a number's value is exactly representable
// as an integer within the safe range used by the schema inducer: a
// float is classified "integer" iff it equals its truncation and lies
// within [minSafeInt, maxSafeInt].
func IsInteger(f float64) bool {
	const (
		maxSafeInt = float64(1) << 53
		minSafeInt = -maxSafeInt
	)
	return f == float64(int64(f)) && f >= minSafeInt && f <= maxSafeInt
}

// FormatNumber renders f the way the encoder writes numeric leaves:
// integral values with no fractional part print without a decimal
// point, everything else uses the shortest round-tripping form.
func FormatNumber(f float64) string {
	if IsInteger(f) {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}
