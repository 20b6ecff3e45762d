package gi

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/Carmen-Shannon/oxy-gi/common"
	"github.com/Carmen-Shannon/oxy-gi/engine/cluster"
	"github.com/Carmen-Shannon/oxy-gi/engine/geometry"
	"github.com/Carmen-Shannon/oxy-gi/engine/probe"
	"github.com/Carmen-Shannon/oxy-gi/engine/radiosity"
	"github.com/Carmen-Shannon/oxy-gi/engine/transport"
)

// ErrInvalidConfig is returned when a Config holds values the solver cannot use.
var ErrInvalidConfig = errors.New("invalid gi config")

// ProbeGrid describes a regular probe lattice over the scene bounds.
type ProbeGrid struct {
	// Counts is the number of probes along each axis. Any count below 1 disables the grid.
	Counts [3]int `json:"counts"`

	// Inset shrinks the scene bounds on every side before the lattice is laid out.
	Inset float32 `json:"inset"`
}

// Enabled reports whether the grid produces any probe.
func (g ProbeGrid) Enabled() bool {
	return g.Counts[0] > 0 && g.Counts[1] > 0 && g.Counts[2] > 0
}

// positions lays the lattice out over the bounds shrunk by Inset. An axis thinner than
// twice the inset collapses onto its midpoint.
func (g ProbeGrid) positions(lo, hi [3]float32) [][3]float32 {
	for k := range lo {
		inset := min(g.Inset, (hi[k]-lo[k])/2)
		lo[k] += inset
		hi[k] -= inset
	}
	probes := probe.Grid(lo, hi, g.Counts)
	out := make([][3]float32, len(probes))
	for i := range probes {
		out[i] = probes[i].Position
	}
	return out
}

// Config holds every tunable of the precompute and per-frame solve.
type Config struct {
	MaxNeighbors      int       `json:"max_neighbors"`
	MaxProbeGroups    int       `json:"max_probe_groups"`
	Bounces           int       `json:"bounces"`
	Attenuation       float32   `json:"attenuation"`
	ProbeAttenuation  float32   `json:"probe_attenuation"`
	PlaneDistance     float32   `json:"plane_distance"`
	NormalAlignment   float32   `json:"normal_alignment"`
	ClusterRadius     float32   `json:"cluster_radius"`
	MaxGrowIterations int       `json:"max_grow_iterations"`
	Significance      float32   `json:"significance"`
	SurfaceOffset     float32   `json:"surface_offset"`
	OcclusionEpsilon  float32   `json:"occlusion_epsilon"`
	Mode              string    `json:"mode"`
	Workers           int       `json:"workers"`
	KeepPairs         bool      `json:"keep_pairs"`
	Probes            ProbeGrid `json:"probes"`
}

// DefaultConfig returns the configuration tuned for room-scale scenes.
func DefaultConfig() Config {
	return Config{
		MaxNeighbors:      transport.DefaultMaxNeighbors,
		MaxProbeGroups:    transport.DefaultMaxProbeGroups,
		Bounces:           radiosity.DefaultBounces,
		Attenuation:       transport.DefaultAttenuation,
		ProbeAttenuation:  transport.DefaultAttenuation,
		PlaneDistance:     cluster.DefaultPlaneDistance,
		NormalAlignment:   cluster.DefaultNormalAlignment,
		ClusterRadius:     cluster.DefaultRadius,
		MaxGrowIterations: cluster.DefaultMaxGrowIterations,
		Significance:      transport.DefaultSignificance,
		SurfaceOffset:     transport.DefaultSurfaceOffset,
		OcclusionEpsilon:  geometry.DefaultOcclusionEpsilon,
		Mode:              radiosity.ModeAggregate.String(),
		Probes:            ProbeGrid{Counts: [3]int{3, 3, 3}, Inset: 0.5},
	}
}

// LoadConfig reads a JSON configuration file over DefaultConfig, so absent fields keep
// their defaults and explicit zeros are kept. An empty mode selects aggregate.
//
// Parameters:
//   - path: the file to read
//
// Returns:
//   - *Config: the loaded and validated configuration
//   - error: a read, decode, or wrapped ErrInvalidConfig error
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("gi: read config: %w", err)
	}
	cfg := DefaultConfig()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("gi: decode config %s: %w", path, err)
	}
	cfg.Mode = common.Coalesce(cfg.Mode, radiosity.ModeAggregate.String())
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	common.Logger().Info("gi: loaded config", "path", path, "mode", cfg.Mode,
		"bounces", cfg.Bounces, "maxNeighbors", cfg.MaxNeighbors, "workers", cfg.Workers)
	return &cfg, nil
}

// Validate checks that every field is usable.
//
// Returns:
//   - error: a wrapped ErrInvalidConfig naming the first bad field, or nil
func (c *Config) Validate() error {
	switch {
	case c.MaxNeighbors < 1:
		return fmt.Errorf("max_neighbors %d must be at least 1: %w", c.MaxNeighbors, ErrInvalidConfig)
	case c.MaxProbeGroups < 1:
		return fmt.Errorf("max_probe_groups %d must be at least 1: %w", c.MaxProbeGroups, ErrInvalidConfig)
	case c.Bounces < 0:
		return fmt.Errorf("bounces %d is negative: %w", c.Bounces, ErrInvalidConfig)
	case c.Attenuation <= 0 || c.ProbeAttenuation <= 0:
		return fmt.Errorf("attenuation %v / probe_attenuation %v must be positive: %w", c.Attenuation, c.ProbeAttenuation, ErrInvalidConfig)
	case c.PlaneDistance < 0:
		return fmt.Errorf("plane_distance %v is negative: %w", c.PlaneDistance, ErrInvalidConfig)
	case c.NormalAlignment < -1 || c.NormalAlignment > 1:
		return fmt.Errorf("normal_alignment %v is outside [-1, 1]: %w", c.NormalAlignment, ErrInvalidConfig)
	case c.ClusterRadius <= 0:
		return fmt.Errorf("cluster_radius %v must be positive: %w", c.ClusterRadius, ErrInvalidConfig)
	case c.MaxGrowIterations < 0:
		return fmt.Errorf("max_grow_iterations %d is negative: %w", c.MaxGrowIterations, ErrInvalidConfig)
	case c.Significance < 0:
		return fmt.Errorf("significance %v is negative: %w", c.Significance, ErrInvalidConfig)
	case c.SurfaceOffset < 0 || c.OcclusionEpsilon < 0:
		return fmt.Errorf("surface_offset %v / occlusion_epsilon %v is negative: %w", c.SurfaceOffset, c.OcclusionEpsilon, ErrInvalidConfig)
	case c.Workers < 0:
		return fmt.Errorf("workers %d is negative: %w", c.Workers, ErrInvalidConfig)
	}
	if _, err := radiosity.ParseMode(c.Mode); err != nil {
		return fmt.Errorf("mode: %w: %w", err, ErrInvalidConfig)
	}
	return nil
}

// clusterOptions returns the grouping thresholds of the configuration.
func (c *Config) clusterOptions() cluster.Options {
	return cluster.Options{
		PlaneDistance:     c.PlaneDistance,
		NormalAlignment:   c.NormalAlignment,
		Radius:            c.ClusterRadius,
		MaxGrowIterations: c.MaxGrowIterations,
	}
}
