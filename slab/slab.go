// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package slab implements a fixed-size object pool with O(1) lock-free
// acquire/release, backing the hot-path node allocations made by
// package builder (every node produced while rewriting a tree) and
// package flatten (the wrapper object/array node produced once per
// call).
//
// The free list is an intrusive singly-linked list threaded through a
// companion atomic field stored alongside each slot's payload — a
// sequence-style field beside the data field, the same shape used to
// order entries in a lock-free ring buffer, adapted here to link free
// slots instead.
package slab

import (
	"unsafe"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// DefaultSlabBytes is the default backing-slab size.
const DefaultSlabBytes = 4096

// HugeSlabBytes is the optional huge-page slab size.
const HugeSlabBytes = 2 * 1024 * 1024

// roundObjectSize rounds sz up to 16 bytes, then to a 64-byte cache
// line, so adjacent slots never share a cache line.
func roundObjectSize(sz uintptr) uintptr {
	sz = (sz + 15) / 16 * 16
	sz = (sz + 63) / 64 * 64
	if sz == 0 {
		sz = 64
	}
	return sz
}

type slot[T any] struct {
	next atomix.Uintptr // 0 = end of list, else (index+1) of next free slot
	data T
}

// Allocator is a fixed-size object pool for T. Create with New; the
// zero value is not usable.
type Allocator[T any] struct {
	backing    []slot[T]
	free       atomix.Uintptr // 0 = empty, else (index+1) of head free slot
	objectSize uintptr
}

// New creates an allocator sized to cover initialObjects, allocating one
// contiguous slab. The per-object size is derived from T via
// unsafe.Sizeof and rounded per roundObjectSize; initialObjects is
// clamped to at least 1.
func New[T any](initialObjects int) *Allocator[T] {
	if initialObjects < 1 {
		initialObjects = 1
	}
	var zero T
	a := &Allocator[T]{
		backing:    make([]slot[T], initialObjects),
		objectSize: roundObjectSize(unsafe.Sizeof(zero)),
	}
	// Thread the free list through every slot, tail first so index 0
	// ends up at the head.
	for i := len(a.backing) - 1; i >= 0; i-- {
		next := uintptr(0)
		if i+1 < len(a.backing) {
			next = uintptr(i+2) // (i+1)+1, i.e. index+1 of the next slot
		}
		a.backing[i].next.StoreRelaxed(next)
	}
	if len(a.backing) > 0 {
		a.free.StoreRelease(1) // index 0 + 1
	}
	return a
}

// ObjectSize returns the rounded per-object size in bytes.
func (a *Allocator[T]) ObjectSize() uintptr { return a.objectSize }

// Cap returns the number of objects in the backing slab.
func (a *Allocator[T]) Cap() int { return len(a.backing) }

// Alloc returns a pointer to a fresh T. If the free list is exhausted,
// Alloc falls back to the Go heap (new(T)) and returns a pointer outside
// the slab's address range — callers need not distinguish.
func (a *Allocator[T]) Alloc() *T {
	sw := spin.Wait{}
	for {
		head := a.free.LoadAcquire()
		if head == 0 {
			return new(T)
		}
		idx := head - 1
		next := a.backing[idx].next.LoadAcquire()
		if a.free.CompareAndSwapAcqRel(head, next) {
			return &a.backing[idx].data
		}
		sw.Once()
	}
}

// Free releases ptr. If ptr lies within the slab's backing array, it is
// pushed back onto the free list via a CAS loop; otherwise it is a
// heap-fallback pointer and Free is a no-op (the Go garbage collector
// reclaims it — the Go analogue of "delegate to the global free
// function").
func (a *Allocator[T]) Free(ptr *T) {
	idx, ok := a.indexOf(ptr)
	if !ok {
		return
	}
	sw := spin.Wait{}
	for {
		head := a.free.LoadAcquire()
		a.backing[idx].next.StoreRelaxed(head)
		if a.free.CompareAndSwapAcqRel(head, idx+1) {
			return
		}
		sw.Once()
	}
}

func (a *Allocator[T]) indexOf(ptr *T) (uintptr, bool) {
	if len(a.backing) == 0 {
		return 0, false
	}
	base := uintptr(unsafe.Pointer(&a.backing[0]))
	stride := unsafe.Sizeof(a.backing[0])
	p := uintptr(unsafe.Pointer(ptr))
	end := base + stride*uintptr(len(a.backing))
	if p < base || p >= end {
		return 0, false
	}
	offsetFromData := unsafe.Offsetof(a.backing[0].data)
	idx := (p - offsetFromData - base) / stride
	return idx, true
}

// Destroy releases the slab's backing memory. After Destroy, the
// Allocator must not be used.
func (a *Allocator[T]) Destroy() {
	a.backing = nil
	a.free.StoreRelease(0)
}
