package compute

import "time"

// PoolBuilderOption is a functional option for configuring a pooled Dispatcher.
type PoolBuilderOption func(d *poolDispatcher)

// WithWorkers sets the number of worker goroutines. Values below 1 are clamped to 1.
//
// Parameters:
//   - n: the worker count
//
// Returns:
//   - PoolBuilderOption: option function to apply
func WithWorkers(n int) PoolBuilderOption {
	return func(d *poolDispatcher) {
		if n < 1 {
			n = 1
		}
		d.workers = n
	}
}

// WithMinChunk sets the smallest chunk handed to a worker. Ranges that would split into
// smaller chunks run inline instead.
//
// Parameters:
//   - n: the minimum chunk length (minimum 1)
//
// Returns:
//   - PoolBuilderOption: option function to apply
func WithMinChunk(n int) PoolBuilderOption {
	return func(d *poolDispatcher) {
		if n < 1 {
			n = 1
		}
		d.minChunk = n
	}
}

// WithQueueSize sets the capacity of the pool's task queue.
//
// Parameters:
//   - n: the queue capacity
//
// Returns:
//   - PoolBuilderOption: option function to apply
func WithQueueSize(n int) PoolBuilderOption {
	return func(d *poolDispatcher) {
		d.queueSize = n
	}
}

// WithIdleTimeout sets how long an idle worker lingers before exiting.
//
// Parameters:
//   - idle: the idle timeout
//
// Returns:
//   - PoolBuilderOption: option function to apply
func WithIdleTimeout(idle time.Duration) PoolBuilderOption {
	return func(d *poolDispatcher) {
		d.idle = idle
	}
}
