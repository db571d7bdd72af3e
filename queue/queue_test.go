// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package queue

import (
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"code.hybscloud.com/jflow/internal/raceflag"
)

func TestEmptyQueueDequeueFails(t *testing.T) {
	q := New[int]()
	require.True(t, q.IsEmpty())
	_, ok := q.Dequeue()
	require.False(t, ok)
}

func TestFIFOOrderSingleProducerConsumer(t *testing.T) {
	q := New[int]()
	for i := 0; i < 100; i++ {
		q.Enqueue(i)
	}
	require.False(t, q.IsEmpty())
	for i := 0; i < 100; i++ {
		v, ok := q.Dequeue()
		require.True(t, ok)
		require.Equal(t, i, v)
	}
	_, ok := q.Dequeue()
	require.False(t, ok)
}

func TestSizeApproxBoundedWalk(t *testing.T) {
	q := New[int]()
	for i := 0; i < 2000; i++ {
		q.Enqueue(i)
	}
	require.Equal(t, maxSizeWalk, q.SizeApprox())
}

func TestConcurrentProducersConsumersNoLoss(t *testing.T) {
	q := New[int]()
	const producers = 8
	perProducer := 2000
	if raceflag.Enabled {
		// The race detector's shadow-memory bookkeeping turns this
		// test's CAS retries quadratic; shrink the workload rather
		// than risk a flaky timeout under -race.
		perProducer = 200
	}
	var wg sync.WaitGroup
	wg.Add(producers)
	for p := 0; p < producers; p++ {
		go func(base int) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				q.Enqueue(base*perProducer + i)
			}
		}(p)
	}
	wg.Wait()

	var mu sync.Mutex
	var got []int
	var consumers sync.WaitGroup
	consumers.Add(4)
	for c := 0; c < 4; c++ {
		go func() {
			defer consumers.Done()
			for {
				v, ok := q.Dequeue()
				if !ok {
					// Give producers (already done) a moment; queue may
					// briefly look empty mid-CAS. Retry until truly drained.
					if q.IsEmpty() {
						return
					}
					continue
				}
				mu.Lock()
				got = append(got, v)
				mu.Unlock()
			}
		}()
	}
	consumers.Wait()

	require.Len(t, got, producers*perProducer)
	sort.Ints(got)
	for i := range got {
		require.Equal(t, i, got[i])
	}
}

func TestPerProducerFIFOPreserved(t *testing.T) {
	// A single producer's elements must dequeue in the order it
	// enqueued them (MS queue guarantees per-element FIFO observable to
	// a single consumer).
	q := New[string]()
	q.Enqueue("a1")
	q.Enqueue("a2")
	q.Enqueue("a3")

	v1, _ := q.Dequeue()
	v2, _ := q.Dequeue()
	v3, _ := q.Dequeue()
	require.Equal(t, []string{"a1", "a2", "a3"}, []string{v1, v2, v3})
}
