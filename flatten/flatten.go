// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package flatten implements the path-building recursive flattener: a
// single document's tree is walked depth-first, building a
// dotted/bracketed key for every leaf and assembling the results into a
// flat object. Batches of documents are flattened per-element,
// optionally in parallel across package pool's workers.
package flatten

import (
	"sync"

	"code.hybscloud.com/jflow/arena"
	"code.hybscloud.com/jflow/node"
	"code.hybscloud.com/jflow/pathbuf"
	"code.hybscloud.com/jflow/pool"
	"code.hybscloud.com/jflow/slab"
)

// arenaKeyThreshold is the byte cutoff above which a flattened key is
// heap-allocated instead of arena-allocated.
const arenaKeyThreshold = 128

// defaultArenaBytes sizes a fresh arena for a flatten call expected to
// produce roughly capacity keys.
func defaultArenaBytes(capacity int) int {
	return 8*1024 + 64*capacity
}

// containerNodes backs the wrapper Object/Array node every Flatten and
// Document call allocates exactly once. Shared across calls (the
// allocator is safe for concurrent use) so a batch's worth of wrapper
// nodes come from one contiguous slab before falling back to the heap.
var containerNodes = slab.New[node.Node](4096)

// Pair is a single flattened (key, leaf-value) entry.
type Pair struct {
	Key   string
	Value *node.Node
}

// flattenedArray is the growable pair vector backing one Flatten call,
// paired one-to-one with the arena that owns its short keys: both are
// created together in newFlattenedArray and released together at the
// end of Flatten. pb is a reusable path-building scratch buffer shared
// across the whole walk.
type flattenedArray struct {
	pairs []Pair
	arena *arena.Arena
	pb    pathbuf.Builder
}

func newFlattenedArray() *flattenedArray {
	const initialCap = 64
	return &flattenedArray{
		pairs: make([]Pair, 0, initialCap),
		arena: arena.New(defaultArenaBytes(initialCap)),
	}
}

// append grows pairs by a 1.5x factor when full, rather than relying on
// Go's built-in append growth curve.
func (fa *flattenedArray) append(p Pair) {
	if len(fa.pairs) == cap(fa.pairs) {
		newCap := int(float64(cap(fa.pairs)) * 1.5)
		if newCap <= cap(fa.pairs) {
			newCap = cap(fa.pairs) + 1
		}
		grown := make([]Pair, len(fa.pairs), newCap)
		copy(grown, fa.pairs)
		fa.pairs = grown
	}
	fa.pairs = append(fa.pairs, p)
}

// ownedKey returns an owned copy of key: arena-backed for keys at or
// under arenaKeyThreshold bytes, heap-allocated otherwise or if the
// arena has run out of room.
func (fa *flattenedArray) ownedKey(key string) string {
	if len(key) <= arenaKeyThreshold {
		if s, ok := fa.arena.AllocString(key); ok {
			return s
		}
	}
	return string([]byte(key)) // explicit heap copy, independent of the source buffer
}

// Flatten collapses n's nested structure into a flat object whose keys
// encode the path to each leaf. The root may be an Object, an Array, or
// a leaf; Object and Array fields/elements are both walked starting
// from the empty path, so a bare Array root produces "[0]", "[1]", ...
// keys the same way a nested array field would.
func Flatten(n *node.Node) (*node.Node, error) {
	fa := newFlattenedArray()
	if err := walk(fa, n, ""); err != nil {
		return nil, err
	}
	fields := make([]node.Pair, len(fa.pairs))
	for i, p := range fa.pairs {
		fields[i] = node.Pair{Key: p.Key, Value: p.Value}
	}
	fa.arena.Reset(true)
	out := containerNodes.Alloc()
	out.Kind = node.KindObject
	out.Fields = fields
	return out, nil
}

func walk(fa *flattenedArray, n *node.Node, path string) error {
	if n == nil {
		fa.append(Pair{Key: fa.ownedKey(path), Value: node.Null()})
		return nil
	}
	switch n.Kind {
	case node.KindObject:
		for _, p := range n.Fields {
			childPath, err := fa.pb.Child(path, p.Key)
			if err != nil {
				return err
			}
			if err := walk(fa, p.Value, childPath); err != nil {
				return err
			}
		}
	case node.KindArray:
		for i, el := range n.Elems {
			childPath, err := fa.pb.Index(path, i)
			if err != nil {
				return err
			}
			if err := walk(fa, el, childPath); err != nil {
				return err
			}
		}
	default:
		fa.append(Pair{Key: fa.ownedKey(path), Value: n})
	}
	return nil
}

// IsPrimitiveArray reports whether n is an Array all of whose elements
// are non-container leaves.
func IsPrimitiveArray(n *node.Node) bool {
	if n == nil || n.Kind != node.KindArray {
		return false
	}
	for _, el := range n.Elems {
		if el.IsContainer() {
			return false
		}
	}
	return true
}

// Options configures batch dispatch.
type Options struct {
	// UseThreads enables the parallel path when the batch is large
	// enough.
	UseThreads bool
	// NumThreads is passed to pool.New; 0 selects the auto heuristic.
	NumThreads int
	// MinBatchSize is the minimum batch length before the parallel path
	// is used; 0 defaults to 100.
	MinBatchSize int
	// Pool, if non-nil, is reused instead of creating a fresh one per
	// call.
	Pool *pool.Pool
}

func (o Options) minBatchSize() int {
	if o.MinBatchSize > 0 {
		return o.MinBatchSize
	}
	return 100
}

// Document dispatches a single parsed root: a primitive array passes
// through unchanged, an array with at least one container element is
// flattened per-element via Batch, and everything else is flattened
// directly.
func Document(root *node.Node, opts Options) (*node.Node, error) {
	if IsPrimitiveArray(root) {
		return node.DeepCopy(root), nil
	}
	if root != nil && root.Kind == node.KindArray {
		flattened, err := Batch(root.Elems, opts)
		if err != nil {
			return nil, err
		}
		out := containerNodes.Alloc()
		out.Kind = node.KindArray
		out.Elems = flattened
		return out, nil
	}
	return Flatten(root)
}

// Batch flattens each element of elems independently, in original
// index order, optionally across a worker pool. A per-element error
// fails the whole batch.
func Batch(elems []*node.Node, opts Options) ([]*node.Node, error) {
	n := len(elems)
	if n == 0 {
		return nil, nil
	}

	useParallel := opts.UseThreads && n >= opts.minBatchSize()

	var p *pool.Pool
	ownPool := false
	if useParallel {
		p = opts.Pool
		if p == nil {
			p = pool.New(opts.NumThreads)
			ownPool = true
		}
		if p.NumWorkers() <= 1 {
			useParallel = false
			if ownPool {
				p.Shutdown()
				p = nil
				ownPool = false
			}
		}
	}

	results := make([]*node.Node, n)

	if !useParallel {
		for i, el := range elems {
			r, err := Flatten(el)
			if err != nil {
				return nil, err
			}
			results[i] = r
		}
		return results, nil
	}

	errs := make([]error, n)
	var wg sync.WaitGroup
	wg.Add(n)
	for i, el := range elems {
		i, el := i, el
		_ = p.AddTask(func() {
			defer wg.Done()
			r, err := Flatten(el)
			results[i] = r
			errs[i] = err
		})
	}
	wg.Wait()
	if ownPool {
		p.Shutdown()
	}
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}
