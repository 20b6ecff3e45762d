package transport

import (
	"github.com/Carmen-Shannon/oxy-gi/engine/compute"
	"github.com/Carmen-Shannon/oxy-gi/engine/geometry"
)

// SolverBuilderOption is a functional option for configuring a Solver.
type SolverBuilderOption func(s *solverImpl)

// WithAttenuation sets the k constant of patch-to-patch transport.
//
// Parameters:
//   - k: the attenuation constant
//
// Returns:
//   - SolverBuilderOption: option function to apply
func WithAttenuation(k float32) SolverBuilderOption {
	return func(s *solverImpl) {
		s.attenuation = k
	}
}

// WithProbeAttenuation sets the k constant of patch-to-probe transport.
func WithProbeAttenuation(k float32) SolverBuilderOption {
	return func(s *solverImpl) {
		s.probeAttenuation = k
	}
}

// WithSignificance sets the transport at or below which pairs are discarded.
func WithSignificance(v float32) SolverBuilderOption {
	return func(s *solverImpl) {
		s.significance = v
	}
}

// WithSurfaceOffset sets how far along its normal a patch's visibility ray starts.
func WithSurfaceOffset(v float32) SolverBuilderOption {
	return func(s *solverImpl) {
		s.surfaceOffset = v
	}
}

// WithMaxNeighbors sets the neighbor group cap K.
//
// Parameters:
//   - k: the cap, values below 1 are ignored
//
// Returns:
//   - SolverBuilderOption: option function to apply
func WithMaxNeighbors(k int) SolverBuilderOption {
	return func(s *solverImpl) {
		if k > 0 {
			s.maxNeighbors = k
		}
	}
}

// WithMaxProbeGroups sets the per-probe group cap M. Values below 1 are ignored.
func WithMaxProbeGroups(m int) SolverBuilderOption {
	return func(s *solverImpl) {
		if m > 0 {
			s.maxProbeGroups = m
		}
	}
}

// WithDispatcher sets the dispatcher used for the pair and probe passes. Defaults to
// compute.Serial().
func WithDispatcher(d compute.Dispatcher) SolverBuilderOption {
	return func(s *solverImpl) {
		if d != nil {
			s.dispatcher = d
		}
	}
}

// NewSolver creates a Solver that tests visibility with occluder.
//
// Parameters:
//   - occluder: the visibility oracle, usually a geometry.TriangleOccluder over the whole scene
//   - options: functional options to configure the solver
//
// Returns:
//   - Solver: the new solver
func NewSolver(occluder geometry.Occluder, options ...SolverBuilderOption) Solver {
	if occluder == nil {
		panic("transport: occluder cannot be nil")
	}

	s := &solverImpl{
		occluder:         occluder,
		dispatcher:       compute.Serial(),
		attenuation:      DefaultAttenuation,
		probeAttenuation: DefaultAttenuation,
		significance:     DefaultSignificance,
		surfaceOffset:    DefaultSurfaceOffset,
		maxNeighbors:     DefaultMaxNeighbors,
		maxProbeGroups:   DefaultMaxProbeGroups,
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}
