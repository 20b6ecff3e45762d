package gi

import (
	"github.com/Carmen-Shannon/oxy-gi/engine/compute"
	"github.com/Carmen-Shannon/oxy-gi/engine/geometry"
	"github.com/Carmen-Shannon/oxy-gi/engine/reflector"
)

// SystemBuilderOption is a functional option for configuring a System.
type SystemBuilderOption func(s *systemImpl)

// WithConfig sets the solver configuration. Defaults to DefaultConfig().
//
// Parameters:
//   - cfg: the configuration, validated by NewSystem
//
// Returns:
//   - SystemBuilderOption: option function to apply
func WithConfig(cfg Config) SystemBuilderOption {
	return func(s *systemImpl) {
		s.config = cfg
	}
}

// WithDiffuseRule sets the rule coloring each patch. Defaults to the constant 0.7 grey.
//
// Parameters:
//   - rule: the diffuse rule
//
// Returns:
//   - SystemBuilderOption: option function to apply
func WithDiffuseRule(rule reflector.DiffuseRule) SystemBuilderOption {
	return func(s *systemImpl) {
		if rule != nil {
			s.diffuse = rule
		}
	}
}

// WithProbePositions places probes at explicit positions, overriding the configured grid.
func WithProbePositions(positions [][3]float32) SystemBuilderOption {
	return func(s *systemImpl) {
		s.positions = positions
	}
}

// WithOccluder replaces the visibility oracle. Defaults to a TriangleOccluder over every
// scene triangle.
func WithOccluder(o geometry.Occluder) SystemBuilderOption {
	return func(s *systemImpl) {
		s.occluder = o
	}
}

// WithDispatcher replaces the dispatcher derived from Config.Workers.
func WithDispatcher(d compute.Dispatcher) SystemBuilderOption {
	return func(s *systemImpl) {
		s.dispatcher = d
	}
}
