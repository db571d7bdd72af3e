// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package arena implements a linear bump allocator backing a flatten
// call's key strings: allocations are never freed individually, only
// released as a whole via Reset. A byte slab allocated up front by New,
// with a bump offset guarded by a mutex; a single slab suffices since one
// flatten pass's arena has one well-known default capacity.
package arena

import (
	"sync"
	"unsafe"
)

// Arena is a linear bump allocator. The zero value is not usable; use
// New.
type Arena struct {
	mu     sync.Mutex
	buf    []byte
	offset int
}

// New creates an arena with the given byte capacity. Capacity is not
// rounded; callers (package flatten) size it relative to the expected
// number of flattened keys.
func New(capacityBytes int) *Arena {
	if capacityBytes < 0 {
		capacityBytes = 0
	}
	return &Arena{buf: make([]byte, capacityBytes)}
}

// Alloc reserves size bytes and returns a pointer to them, or nil if
// the arena has insufficient remaining capacity. Callers that receive
// nil fall back to an ordinary heap allocation.
func (a *Arena) Alloc(size int) unsafe.Pointer {
	a.mu.Lock()
	defer a.mu.Unlock()
	if size < 0 || a.offset+size > len(a.buf) {
		return nil
	}
	ptr := unsafe.Pointer(&a.buf[a.offset])
	a.offset += size
	return ptr
}

// AllocString copies s into the arena and returns a string that aliases
// the arena's backing bytes (no additional heap allocation), or
// ("", false) if the arena has no room left, in which case the caller
// should fall back to an ordinary heap-owned copy.
func (a *Arena) AllocString(s string) (string, bool) {
	if len(s) == 0 {
		return "", true
	}
	ptr := a.Alloc(len(s))
	if ptr == nil {
		return "", false
	}
	dst := unsafe.Slice((*byte)(ptr), len(s))
	copy(dst, s)
	return unsafe.String((*byte)(ptr), len(s)), true
}

// Reset releases all allocations at once. The arena's buffer is
// reused for subsequent allocations (not deallocated) unless release
// is true, in which case the backing buffer itself is dropped so the
// Go garbage collector can reclaim it once every string that aliases it
// has gone out of scope.
func (a *Arena) Reset(release bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.offset = 0
	if release {
		a.buf = nil
	}
}

// Cap returns the arena's total byte capacity.
func (a *Arena) Cap() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.buf)
}
