// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package ops implements the document filter/rewrite operators:
// RemoveEmptyStrings, RemoveNulls, ReplaceKeys and ReplaceValues. Every
// operator walks its input once and returns a new tree; the input is
// never mutated.
package ops

import (
	"code.hybscloud.com/jflow/node"
	"code.hybscloud.com/jflow/rx"
)

// RemoveEmptyStrings returns a copy of n with every Object field whose
// value is a zero-length String dropped. Arrays are not filtered
// themselves, only recursed into.
func RemoveEmptyStrings(n *node.Node) *node.Node {
	return filterWalk(n, func(v *node.Node) bool { return v.IsEmptyString() })
}

// RemoveNulls returns a copy of n with every Object field whose value
// is Null dropped.
func RemoveNulls(n *node.Node) *node.Node {
	return filterWalk(n, func(v *node.Node) bool { return v.IsNull() })
}

// filterWalk recurses n, dropping Object pairs whose value drop(value)
// reports true before recursing into the surviving pairs' values.
func filterWalk(n *node.Node, drop func(*node.Node) bool) *node.Node {
	if n == nil {
		return nil
	}
	switch n.Kind {
	case node.KindObject:
		out := make([]node.Pair, 0, len(n.Fields))
		for _, p := range n.Fields {
			if drop(p.Value) {
				continue
			}
			out = append(out, node.Pair{Key: p.Key, Value: filterWalk(p.Value, drop)})
		}
		return &node.Node{Kind: node.KindObject, Fields: out}
	case node.KindArray:
		out := make([]*node.Node, len(n.Elems))
		for i, e := range n.Elems {
			out[i] = filterWalk(e, drop)
		}
		return &node.Node{Kind: node.KindArray, Elems: out}
	default:
		return node.DeepCopy(n)
	}
}

// ReplaceKeys walks n, substituting every Object key that matches
// pattern's ReplaceAll with replacement. Duplicate keys that result from
// substitution are resolved last-wins: the later pair's value replaces
// the earlier one's at its original position.
func ReplaceKeys(n *node.Node, pattern *rx.Pattern, replacement string) *node.Node {
	if n == nil {
		return nil
	}
	switch n.Kind {
	case node.KindObject:
		out := make([]node.Pair, 0, len(n.Fields))
		index := make(map[string]int, len(n.Fields))
		for _, p := range n.Fields {
			newKey, _ := pattern.ReplaceAll(p.Key, replacement)
			newVal := ReplaceKeys(p.Value, pattern, replacement)
			if i, dup := index[newKey]; dup {
				out[i] = node.Pair{Key: newKey, Value: newVal}
				continue
			}
			index[newKey] = len(out)
			out = append(out, node.Pair{Key: newKey, Value: newVal})
		}
		return &node.Node{Kind: node.KindObject, Fields: out}
	case node.KindArray:
		out := make([]*node.Node, len(n.Elems))
		for i, e := range n.Elems {
			out[i] = ReplaceKeys(e, pattern, replacement)
		}
		return &node.Node{Kind: node.KindArray, Elems: out}
	default:
		return node.DeepCopy(n)
	}
}

// ReplaceValues walks n, applying pattern's replace_all to every String
// leaf's value; non-String leaves pass through unchanged.
func ReplaceValues(n *node.Node, pattern *rx.Pattern, replacement string) *node.Node {
	if n == nil {
		return nil
	}
	switch n.Kind {
	case node.KindObject:
		out := make([]node.Pair, len(n.Fields))
		for i, p := range n.Fields {
			out[i] = node.Pair{Key: p.Key, Value: ReplaceValues(p.Value, pattern, replacement)}
		}
		return &node.Node{Kind: node.KindObject, Fields: out}
	case node.KindArray:
		out := make([]*node.Node, len(n.Elems))
		for i, e := range n.Elems {
			out[i] = ReplaceValues(e, pattern, replacement)
		}
		return &node.Node{Kind: node.KindArray, Elems: out}
	case node.KindString:
		replaced, _ := pattern.ReplaceAll(n.Str, replacement)
		return node.String(replaced)
	default:
		return node.DeepCopy(n)
	}
}
