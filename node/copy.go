// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package node

// DeepCopy returns a fully independent copy of n: every container is
// copied recursively, and mutating the result never affects n. All
// operators in this module (ops, builder, flatten) return new trees
// built by walking the input once; DeepCopy exists for callers that
// need an independent snapshot without running a transformation (e.g.
// the primitive-array passthrough case in package flatten).
func DeepCopy(n *Node) *Node {
	if n == nil {
		return nil
	}
	cp := *n
	switch n.Kind {
	case KindArray:
		cp.Elems = make([]*Node, len(n.Elems))
		for i, e := range n.Elems {
			cp.Elems[i] = DeepCopy(e)
		}
	case KindObject:
		cp.Fields = make([]Pair, len(n.Fields))
		for i, p := range n.Fields {
			cp.Fields[i] = Pair{Key: p.Key, Value: DeepCopy(p.Value)}
		}
	}
	return &cp
}

// ShallowLeaf returns n unchanged if n is a leaf, otherwise panics. It
// makes explicit that a leaf value is carried by reference rather than
// deep-copied, as the flattener does with its pair values.
func ShallowLeaf(n *Node) *Node {
	if n.IsContainer() {
		panic("node: ShallowLeaf called on a container node")
	}
	return n
}
