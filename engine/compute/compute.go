// Package compute splits index ranges into chunks and runs them either inline or on
// a bounded pool of reusable worker goroutines. It is the CPU-side parallelism used by
// the transport precompute and the per-frame radiosity phases.
package compute

import (
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
)

// Dispatcher runs fn over the half-open range [0, n) split into contiguous chunks.
// Every call to For returns only after all chunks have finished, so consecutive calls
// are separated by a barrier.
type Dispatcher interface {
	// For invokes fn(lo, hi) for chunks covering [0, n). Chunks never overlap, so fn may
	// write to per-index state without synchronization.
	//
	// Parameters:
	//   - n: the number of indices to cover
	//   - fn: the chunk body, receiving its half-open index range
	For(n int, fn func(lo, hi int))

	// Workers returns the maximum number of chunks that run at the same time.
	//
	// Returns:
	//   - int: the worker count (1 for serial dispatchers)
	Workers() int
}

// serialDispatcher runs every chunk inline on the calling goroutine.
type serialDispatcher struct{}

var _ Dispatcher = serialDispatcher{}

// Serial returns a Dispatcher that runs the whole range as one chunk on the caller's goroutine.
//
// Returns:
//   - Dispatcher: the serial dispatcher
func Serial() Dispatcher {
	return serialDispatcher{}
}

func (serialDispatcher) For(n int, fn func(lo, hi int)) {
	if n <= 0 {
		return
	}
	fn(0, n)
}

func (serialDispatcher) Workers() int {
	return 1
}

// poolDispatcher submits chunks to a DynamicWorkerPool. Workers persist between calls,
// which avoids goroutine spawn cost for per-frame work.
type poolDispatcher struct {
	pool      worker.DynamicWorkerPool
	workers   int
	minChunk  int
	queueSize int
	idle      time.Duration
	taskID    int
	mu        sync.Mutex
}

var _ Dispatcher = &poolDispatcher{}

// NewPool creates a pooled Dispatcher. Defaults: runtime.NumCPU()-1 workers (minimum 1),
// a task queue of 256 and a 1 second idle timeout, matching the scene compute pool.
//
// Parameters:
//   - options: functional options to configure the pool
//
// Returns:
//   - Dispatcher: the pooled dispatcher
func NewPool(options ...PoolBuilderOption) Dispatcher {
	d := &poolDispatcher{
		workers:   max(runtime.NumCPU()-1, 1),
		minChunk:  1,
		queueSize: 256,
		idle:      1 * time.Second,
	}
	for _, opt := range options {
		opt(d)
	}
	d.pool = worker.NewDynamicWorkerPool(d.workers, d.queueSize, d.idle)
	return d
}

func (d *poolDispatcher) Workers() int {
	return d.workers
}

func (d *poolDispatcher) For(n int, fn func(lo, hi int)) {
	if n <= 0 {
		return
	}

	// Oversplit so uneven chunk costs (triangular pair loops) still balance.
	chunks := d.workers * 4
	size := max((n+chunks-1)/chunks, d.minChunk)
	if size >= n || d.workers == 1 {
		fn(0, n)
		return
	}

	// pool.Wait() blocks until workers idle-exit, so a WaitGroup provides the barrier.
	var wg sync.WaitGroup
	for lo := 0; lo < n; lo += size {
		hi := min(lo+size, n)
		wg.Add(1)
		d.pool.SubmitTask(worker.Task{
			ID: d.nextID(),
			Do: func() (any, error) {
				defer wg.Done()
				fn(lo, hi)
				return nil, nil
			},
		})
	}
	wg.Wait()
}

func (d *poolDispatcher) nextID() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.taskID++
	return d.taskID
}
