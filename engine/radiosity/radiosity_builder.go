package radiosity

import "github.com/Carmen-Shannon/oxy-gi/engine/compute"

// IteratorBuilderOption is a functional option for configuring an Iterator.
type IteratorBuilderOption func(it *iteratorImpl)

// WithBounces sets the number of propagation sweeps per frame. Negative values are
// treated as 0, which leaves only the direct term.
//
// Parameters:
//   - n: the bounce count
//
// Returns:
//   - IteratorBuilderOption: option function to apply
func WithBounces(n int) IteratorBuilderOption {
	return func(it *iteratorImpl) {
		it.bounces = max(n, 0)
	}
}

// WithMode sets the initial propagation mode. Defaults to ModeAggregate.
func WithMode(mode Mode) IteratorBuilderOption {
	return func(it *iteratorImpl) {
		it.mode = mode
	}
}

// WithDispatcher sets the dispatcher used to split each phase across groups.
// Defaults to compute.Serial().
func WithDispatcher(d compute.Dispatcher) IteratorBuilderOption {
	return func(it *iteratorImpl) {
		if d != nil {
			it.dispatcher = d
		}
	}
}

// NewIterator creates a new Iterator.
//
// Parameters:
//   - options: functional options to configure the iterator
//
// Returns:
//   - Iterator: the new iterator
func NewIterator(options ...IteratorBuilderOption) Iterator {
	it := &iteratorImpl{
		bounces:    DefaultBounces,
		mode:       ModeAggregate,
		dispatcher: compute.Serial(),
	}
	for _, opt := range options {
		opt(it)
	}
	return it
}
