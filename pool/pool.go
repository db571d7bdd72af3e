// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package pool implements a fixed-size worker pool backing batch
// flattening and schema induction: a set of goroutines parked on a
// condition variable, dispatching tasks stored in a lock-free
// Michael-Scott queue (package queue). The mutex/cond pair provides
// parking and the wait-for-idle barrier; the lock-free queue provides
// storage and ordering, so AddTask itself never blocks on a lock held
// across task storage.
package pool

import (
	"runtime"
	"sync"

	"code.hybscloud.com/atomix"

	"code.hybscloud.com/jflow/queue"
)

// LegacyMaxWorkers caps the worker count for NewLegacy.
const LegacyMaxWorkers = 4

// task is a unit of dispatched work.
type task struct {
	fn func()
}

// Pool is a fixed-size worker pool.
type Pool struct {
	mu         sync.Mutex
	queueCond  *sync.Cond
	idleCond   *sync.Cond
	tasks      *queue.Queue[task]
	pending    int // tasks enqueued but not yet completed by a worker, guarded by mu
	active     atomix.Int64
	shutdown   atomix.Bool
	numWorkers int
	wg         sync.WaitGroup
}

// autoWorkerCount applies the default sizing heuristic to the current
// GOMAXPROCS.
func autoWorkerCount() int {
	return autoWorkerCountFor(runtime.GOMAXPROCS(0))
}

// autoWorkerCountFor sizes the pool from the core count: 1-2 cores →
// all; 3-8 → cores-1; >8 → cores/2+2.
func autoWorkerCountFor(cores int) int {
	switch {
	case cores <= 2:
		return cores
	case cores <= 8:
		return cores - 1
	default:
		return cores/2 + 2
	}
}

// New creates a pool with numWorkers workers. numWorkers == 0 selects
// the auto heuristic.
func New(numWorkers int) *Pool {
	if numWorkers == 0 {
		numWorkers = autoWorkerCount()
	}
	if numWorkers < 1 {
		numWorkers = 1
	}
	return newPool(numWorkers)
}

// NewLegacy creates a pool using the auto heuristic, hard-capped at
// LegacyMaxWorkers.
func NewLegacy() *Pool {
	n := autoWorkerCount()
	if n > LegacyMaxWorkers {
		n = LegacyMaxWorkers
	}
	return newPool(n)
}

func newPool(numWorkers int) *Pool {
	p := &Pool{
		tasks:      queue.New[task](),
		numWorkers: numWorkers,
	}
	p.queueCond = sync.NewCond(&p.mu)
	p.idleCond = sync.NewCond(&p.mu)
	p.wg.Add(numWorkers)
	for i := 0; i < numWorkers; i++ {
		go p.worker()
	}
	return p
}

// NumWorkers returns the configured worker count.
func (p *Pool) NumWorkers() int { return p.numWorkers }

// AddTask enqueues fn for execution by a worker and wakes one parked
// waiter. Returns an error only if the pool has already begun shutting
// down.
func (p *Pool) AddTask(fn func()) error {
	if p.shutdown.LoadAcquire() {
		return errPoolShutdown
	}
	p.mu.Lock()
	p.pending++
	p.mu.Unlock()

	p.tasks.Enqueue(task{fn: fn})
	// Signal under the lock so it cannot fall between a worker's
	// empty-queue re-check and its Wait in claimTask.
	p.mu.Lock()
	p.queueCond.Signal()
	p.mu.Unlock()
	return nil
}

// Wait blocks until the task queue is empty and no worker is active.
// It returns no earlier than the completion of every task added before
// the call.
func (p *Pool) Wait() {
	p.mu.Lock()
	for p.pending > 0 || p.active.LoadAcquire() > 0 {
		p.idleCond.Wait()
	}
	p.mu.Unlock()
}

// Shutdown stops accepting new tasks, lets parked workers drain the
// remaining queue, then joins every worker: producers stop first, then
// consumers are allowed to fully empty the queue without further
// pressure.
func (p *Pool) Shutdown() {
	if !p.shutdown.CompareAndSwapAcqRel(false, true) {
		return // already shut down
	}
	p.mu.Lock()
	p.queueCond.Broadcast()
	p.mu.Unlock()
	p.wg.Wait()
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for {
		t, ok := p.claimTask()
		if !ok {
			return // shutdown and queue drained
		}
		p.active.AddAcqRel(1)
		t.fn()
		p.active.AddAcqRel(-1)

		p.mu.Lock()
		p.pending--
		done := p.pending == 0 && p.active.LoadAcquire() == 0
		p.mu.Unlock()
		if done {
			p.idleCond.Broadcast()
		}
	}
}

// claimTask waits for a task to become available in the lock-free
// queue, or returns ok=false once the pool is shutting down and the
// queue has been fully drained.
func (p *Pool) claimTask() (task, bool) {
	for {
		if t, ok := p.tasks.Dequeue(); ok {
			return t, true
		}
		if p.shutdown.LoadAcquire() {
			return task{}, false
		}
		p.mu.Lock()
		// Re-check under the lock to avoid a lost wakeup between the
		// Dequeue attempt above and Wait below.
		if !p.tasks.IsEmpty() || p.shutdown.LoadAcquire() {
			p.mu.Unlock()
			continue
		}
		p.queueCond.Wait()
		p.mu.Unlock()
	}
}
