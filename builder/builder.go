// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package builder implements a configurable transformation pipeline: an
// ordered list of Operations executed as a single recursive pass over
// a document, with Flatten (if present) applied once after the pass
// completes.
package builder

import (
	"errors"

	"code.hybscloud.com/jflow/flatten"
	"code.hybscloud.com/jflow/node"
	"code.hybscloud.com/jflow/rx"
	"code.hybscloud.com/jflow/slab"
)

// Kind discriminates an Operation.
type Kind uint8

const (
	// OpRemoveEmptyStrings drops Object fields whose value is "".
	OpRemoveEmptyStrings Kind = iota
	// OpRemoveNulls drops Object fields whose value is null.
	OpRemoveNulls
	// OpReplaceKeys rewrites Object keys matching Pattern.
	OpReplaceKeys
	// OpReplaceValues rewrites String leaf values matching Pattern.
	OpReplaceValues
	// OpFlatten collapses the tree to a flat object. This always runs
	// last, regardless of its position in the operation list.
	OpFlatten
)

// Operation is one pipeline step. Pattern/Replacement are only
// meaningful for OpReplaceKeys and OpReplaceValues.
type Operation struct {
	Kind        Kind
	Pattern     string
	Replacement string
}

// mask is the bitmask of operation kinds present in a Builder, used to
// short-circuit the drop-test and rewrite checks at each visited node.
type mask uint8

const (
	maskRemoveEmptyStrings mask = 1 << iota
	maskRemoveNulls
	maskReplaceKeys
	maskReplaceValues
	maskFlatten
)

// ErrNoInput is returned by Build when no document has been set.
var ErrNoInput = errors.New("builder: no input document set")

// Builder accumulates Operations against an input document and
// executes them in one recursive pass via Build.
type Builder struct {
	input *node.Node
	ops   []Operation
	m     mask
	nodes *slab.Allocator[node.Node]

	keysPattern   *rx.Pattern
	keysReplace   string
	valuesPattern *rx.Pattern
	valuesReplace string

	errored bool
	err     error
}

// New creates an empty Builder over doc.
func New(doc *node.Node) *Builder {
	return &Builder{input: doc, nodes: slab.New[node.Node](256)}
}

// Add appends op to the pipeline, compiling any regex pattern
// immediately so a bad pattern is caught at build-configuration time
// rather than partway through Build.
func (b *Builder) Add(op Operation) *Builder {
	if b.errored {
		return b
	}
	switch op.Kind {
	case OpRemoveEmptyStrings:
		b.m |= maskRemoveEmptyStrings
	case OpRemoveNulls:
		b.m |= maskRemoveNulls
	case OpReplaceKeys:
		pattern, err := rx.Compile(op.Pattern, rx.Optimize)
		if err != nil {
			b.errored = true
			b.err = err
			return b
		}
		if err := rx.ValidateReplacement(op.Replacement); err != nil {
			b.errored = true
			b.err = err
			return b
		}
		b.m |= maskReplaceKeys
		b.keysPattern = pattern
		b.keysReplace = op.Replacement
	case OpReplaceValues:
		pattern, err := rx.Compile(op.Pattern, rx.Optimize)
		if err != nil {
			b.errored = true
			b.err = err
			return b
		}
		if err := rx.ValidateReplacement(op.Replacement); err != nil {
			b.errored = true
			b.err = err
			return b
		}
		b.m |= maskReplaceValues
		b.valuesPattern = pattern
		b.valuesReplace = op.Replacement
	case OpFlatten:
		b.m |= maskFlatten
	}
	b.ops = append(b.ops, op)
	return b
}

// Build executes the single recursive pass, applies Flatten last if
// present, and returns the resulting tree.
func (b *Builder) Build() (*node.Node, error) {
	if b.errored {
		return nil, b.err
	}
	if b.input == nil {
		return nil, ErrNoInput
	}

	result := b.walk(b.input)

	if b.m&maskFlatten != 0 {
		flat, err := flatten.Flatten(result)
		if err != nil {
			return nil, err
		}
		return flat, nil
	}
	return result, nil
}

// shouldDrop reports whether v should be dropped from its parent
// Object under the active filter operations, short-circuited via the
// bitmask.
func (b *Builder) shouldDrop(v *node.Node) bool {
	if b.m&maskRemoveEmptyStrings != 0 && v.IsEmptyString() {
		return true
	}
	if b.m&maskRemoveNulls != 0 && v.IsNull() {
		return true
	}
	return false
}

// walk performs the single combined pass: at each Object pair, test
// drop, then rewrite key, then recurse. The value rewrite happens at
// leaf visitation below (the KindString case), not here, so a String
// is rewritten the same way whether it sits directly under an Object
// key or inside an Array — matching package ops's ReplaceValues, which
// recurses into every node kind rather than only Object field values.
func (b *Builder) walk(n *node.Node) *node.Node {
	if n == nil {
		return nil
	}
	switch n.Kind {
	case node.KindObject:
		out := make([]node.Pair, 0, len(n.Fields))
		for _, p := range n.Fields {
			if b.shouldDrop(p.Value) {
				continue
			}
			key := p.Key
			if b.m&maskReplaceKeys != 0 {
				key, _ = b.keysPattern.ReplaceAll(key, b.keysReplace)
			}
			out = appendOrReplace(out, node.Pair{Key: key, Value: b.walk(p.Value)})
		}
		return b.newObject(out)
	case node.KindArray:
		out := make([]*node.Node, len(n.Elems))
		for i, e := range n.Elems {
			out[i] = b.walk(e)
		}
		return b.newArray(out)
	case node.KindString:
		str := n.Str
		if b.m&maskReplaceValues != 0 {
			str, _ = b.valuesPattern.ReplaceAll(str, b.valuesReplace)
		}
		return b.newLeaf(node.KindString, str, n.Bool, n.Num)
	default:
		return b.newLeaf(n.Kind, n.Str, n.Bool, n.Num)
	}
}

// newObject allocates an Object wrapper node from the builder's slab,
// rather than a fresh heap composite literal.
func (b *Builder) newObject(fields []node.Pair) *node.Node {
	n := b.nodes.Alloc()
	n.Kind = node.KindObject
	n.Fields = fields
	return n
}

// newArray allocates an Array wrapper node from the builder's slab.
func (b *Builder) newArray(elems []*node.Node) *node.Node {
	n := b.nodes.Alloc()
	n.Kind = node.KindArray
	n.Elems = elems
	return n
}

// newLeaf allocates a scalar leaf node from the builder's slab.
func (b *Builder) newLeaf(kind node.Kind, str string, boolVal bool, num float64) *node.Node {
	n := b.nodes.Alloc()
	n.Kind = kind
	n.Str = str
	n.Bool = boolVal
	n.Num = num
	return n
}

// appendOrReplace keeps last-wins semantics when ReplaceKeys collapses
// two distinct keys onto the same string, matching package ops's
// ReplaceKeys.
func appendOrReplace(fields []node.Pair, p node.Pair) []node.Pair {
	for i, existing := range fields {
		if existing.Key == p.Key {
			fields[i] = p
			return fields
		}
	}
	return append(fields, p)
}
