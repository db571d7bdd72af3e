// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package slab

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"code.hybscloud.com/jflow/internal/raceflag"
)

type payload struct {
	A int64
	B int64
}

func TestAllocFromSlabThenHeapFallback(t *testing.T) {
	a := New[payload](4)
	require.Equal(t, 4, a.Cap())

	var got []*payload
	for i := 0; i < 4; i++ {
		p := a.Alloc()
		require.NotNil(t, p)
		got = append(got, p)
	}
	// Free list exhausted now; further Alloc falls back to the heap.
	heapPtr := a.Alloc()
	require.NotNil(t, heapPtr)

	idx, ok := a.indexOf(heapPtr)
	_ = idx
	require.False(t, ok, "heap fallback pointer must be outside slab range")
}

func TestFreeRecyclesSlabSlot(t *testing.T) {
	a := New[payload](2)
	p1 := a.Alloc()
	p2 := a.Alloc()
	require.NotNil(t, p1)
	require.NotNil(t, p2)

	a.Free(p1)
	p3 := a.Alloc()
	require.Same(t, p1, p3, "freed slot should be recycled before heap fallback")
}

func TestFreeOnHeapPointerIsNoop(t *testing.T) {
	a := New[payload](1)
	a.Alloc() // exhaust the single slot
	heapPtr := a.Alloc()
	require.NotPanics(t, func() { a.Free(heapPtr) })
}

func TestConcurrentAllocFreeNoCorruption(t *testing.T) {
	a := New[payload](64)
	iterations := 1000
	if raceflag.Enabled {
		iterations = 100
	}
	var wg sync.WaitGroup
	for g := 0; g < 16; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < iterations; i++ {
				p := a.Alloc()
				p.A = int64(i)
				a.Free(p)
			}
		}()
	}
	wg.Wait()
}

func TestObjectSizeRounding(t *testing.T) {
	require.Equal(t, uintptr(64), roundObjectSize(1))
	require.Equal(t, uintptr(64), roundObjectSize(16))
	require.Equal(t, uintptr(128), roundObjectSize(65))
}

func TestDestroyClearsBacking(t *testing.T) {
	a := New[payload](4)
	a.Destroy()
	require.Equal(t, 0, a.Cap())
}
