// Package gi owns the global illumination state of a static scene. It runs the one-time
// precompute (patches, groups, transport and probe tables) and the per-frame radiosity
// and probe projection, and exposes the results as read-only views for rendering.
package gi

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-gi/common"
	"github.com/Carmen-Shannon/oxy-gi/engine/cluster"
	"github.com/Carmen-Shannon/oxy-gi/engine/compute"
	"github.com/Carmen-Shannon/oxy-gi/engine/geometry"
	"github.com/Carmen-Shannon/oxy-gi/engine/probe"
	"github.com/Carmen-Shannon/oxy-gi/engine/radiosity"
	"github.com/Carmen-Shannon/oxy-gi/engine/reflector"
	"github.com/Carmen-Shannon/oxy-gi/engine/transport"
	"golang.org/x/sync/errgroup"
)

// ErrNoReflectors is returned when the scene has no triangles to build patches from.
var ErrNoReflectors = errors.New("scene has no reflectors")

// Stats summarizes the precompute and the most recent frame.
type Stats struct {
	Meshes     int
	Reflectors int
	Groups     int
	Probes     int

	// VertexOverflow counts patch references dropped from full per-vertex sets.
	VertexOverflow int

	// Transport holds the pair and probe counters of the transport solve.
	Transport transport.Stats

	ClusterTime    time.Duration
	TransportTime  time.Duration
	PrecomputeTime time.Duration

	// Frames is the number of Update calls so far.
	Frames uint64

	// UpdateTime is the duration of the most recent Update.
	UpdateTime time.Duration
}

// System is the global illumination state of one static scene.
//
// The precompute runs once in NewSystem. Update is then called once per frame; the
// accessors return views into the internal tables that stay valid until the next Update
// and must not be modified by the caller. A System is not safe for concurrent Update calls.
type System interface {
	// Update runs the radiosity bounces with the given direct light and reprojects every probe.
	//
	// Parameters:
	//   - direct: the lighting policy for this frame, nil for no light
	Update(direct radiosity.DirectLight)

	// Reflectors returns the patch table.
	//
	// Returns:
	//   - []reflector.Reflector: one patch per scene triangle, meshes in order
	Reflectors() []reflector.Reflector

	// Groups returns the group table.
	//
	// Returns:
	//   - []cluster.Group: the groups, indexed by each reflector's GroupID
	Groups() []cluster.Group

	// Probes returns the light probes with their current SH coefficients.
	//
	// Returns:
	//   - []probe.Probe: the probes in position order
	Probes() []probe.Probe

	// ReflectorLight returns the TotalLight of patch i after the last Update.
	//
	// Parameters:
	//   - i: the patch index
	//
	// Returns:
	//   - [3]float32: the accumulated light
	ReflectorLight(i int) [3]float32

	// VertexLight returns the per-vertex colors of mesh m, averaged from the vertex's
	// cached patches. The returned slice is reused by the next call for the same mesh.
	//
	// Parameters:
	//   - m: the mesh index as passed to NewSystem
	//
	// Returns:
	//   - [][3]float32: one color per vertex, nil when m is out of range
	VertexLight(m int) [][3]float32

	// Pairs returns the surviving patch pairs when pair retention is enabled, else nil.
	//
	// Returns:
	//   - []transport.Pair: the pair table
	Pairs() []transport.Pair

	// Stats returns the precompute counters and the latest frame timing.
	//
	// Returns:
	//   - Stats: a copy of the counters
	Stats() Stats

	// Mode returns the radiosity propagation mode.
	//
	// Returns:
	//   - radiosity.Mode: the active mode
	Mode() radiosity.Mode

	// SetMode switches the radiosity propagation mode.
	//
	// Parameters:
	//   - mode: the new mode
	SetMode(mode radiosity.Mode)
}

// systemImpl is the implementation of the System interface.
type systemImpl struct {
	config     Config
	diffuse    reflector.DiffuseRule
	occluder   geometry.Occluder
	dispatcher compute.Dispatcher
	positions  [][3]float32

	reflectors []reflector.Reflector
	vertexRefs [][]reflector.VertexReflectors
	groups     []cluster.Group
	probes     []probe.Probe
	pairs      []transport.Pair
	iterator   radiosity.Iterator

	vertexLight [][][3]float32
	stats       Stats
	mu          sync.Mutex
}

var _ System = &systemImpl{}

// NewSystem runs the precompute for a static scene.
//
// Parameters:
//   - meshes: the scene objects, retained only for the duration of the call
//   - options: functional options to configure the system
//
// Returns:
//   - System: the ready system, with all light zero until the first Update
//   - error: a wrapped ErrInvalidConfig, geometry.ErrInvalidMesh or ErrNoReflectors
func NewSystem(meshes []geometry.Mesh, options ...SystemBuilderOption) (System, error) {
	s := &systemImpl{
		config:  DefaultConfig(),
		diffuse: reflector.ConstantDiffuse(reflector.DefaultDiffuse),
	}
	for _, opt := range options {
		opt(s)
	}

	if err := s.config.Validate(); err != nil {
		return nil, fmt.Errorf("gi: %w", err)
	}
	mode, _ := radiosity.ParseMode(s.config.Mode)

	// Everything below indexes vertices through the mesh indices.
	for i := range meshes {
		if err := meshes[i].Validate(); err != nil {
			return nil, fmt.Errorf("gi: %w", err)
		}
	}

	start := time.Now()

	set, err := reflector.Build(meshes, reflector.WithDiffuseRule(s.diffuse))
	if err != nil {
		return nil, fmt.Errorf("gi: %w", err)
	}
	if len(set.Reflectors) == 0 {
		return nil, fmt.Errorf("gi: %d meshes: %w", len(meshes), ErrNoReflectors)
	}

	if s.dispatcher == nil {
		s.dispatcher = newDispatcher(s.config.Workers)
	}
	if s.occluder == nil {
		s.occluder = geometry.NewTriangleOccluder(geometry.TriangleSoup(meshes), s.config.OcclusionEpsilon)
	}
	if s.positions == nil && s.config.Probes.Enabled() {
		s.positions = s.config.Probes.positions(geometry.Bounds(meshes))
	}
	s.reflectors = set.Reflectors
	s.vertexRefs = set.VertexReflectors
	s.vertexLight = make([][][3]float32, len(meshes))
	s.stats.VertexOverflow = set.VertexOverflow

	clusterStart := time.Now()
	s.groups = cluster.Build(s.reflectors, s.config.clusterOptions())
	s.stats.ClusterTime = time.Since(clusterStart)

	transportStart := time.Now()
	if err := s.solveTransport(); err != nil {
		return nil, err
	}
	s.stats.TransportTime = time.Since(transportStart)

	s.iterator = radiosity.NewIterator(
		radiosity.WithBounces(s.config.Bounces),
		radiosity.WithMode(mode),
		radiosity.WithDispatcher(s.dispatcher),
	)

	s.stats.Meshes = len(meshes)
	s.stats.Reflectors = len(s.reflectors)
	s.stats.Groups = len(s.groups)
	s.stats.Probes = len(s.probes)
	s.stats.PrecomputeTime = time.Since(start)

	log := common.Logger()
	log.Info("gi: precompute finished",
		"reflectors", s.stats.Reflectors, "groups", s.stats.Groups, "probes", s.stats.Probes,
		"pairs", s.stats.Transport.Pairs, "occluded", s.stats.Transport.Occluded,
		"cluster", s.stats.ClusterTime, "transport", s.stats.TransportTime, "total", s.stats.PrecomputeTime)
	if s.stats.Transport.NeighborTruncations > 0 || s.stats.Transport.ProbeTruncations > 0 {
		log.Warn("gi: influence tables truncated",
			"neighborGroupsDropped", s.stats.Transport.NeighborTruncations, "maxNeighbors", s.config.MaxNeighbors,
			"probeGroupsDropped", s.stats.Transport.ProbeTruncations, "maxProbeGroups", s.config.MaxProbeGroups)
	}

	return s, nil
}

// solveTransport builds the neighbor tables and the probe tables concurrently. Both
// passes read patch geometry and group membership; only the neighbor pass writes, and
// only to the neighbor fields.
func (s *systemImpl) solveTransport() error {
	solver := transport.NewSolver(s.occluder,
		transport.WithAttenuation(s.config.Attenuation),
		transport.WithProbeAttenuation(s.config.ProbeAttenuation),
		transport.WithSignificance(s.config.Significance),
		transport.WithSurfaceOffset(s.config.SurfaceOffset),
		transport.WithMaxNeighbors(s.config.MaxNeighbors),
		transport.WithMaxProbeGroups(s.config.MaxProbeGroups),
		transport.WithDispatcher(s.dispatcher),
	)

	var (
		tables     *transport.Tables
		probeStats transport.Stats
	)
	var g errgroup.Group
	g.Go(func() error {
		var err error
		tables, err = solver.Solve(s.reflectors, s.groups)
		return err
	})
	g.Go(func() error {
		var err error
		s.probes, probeStats, err = solver.SolveProbes(s.reflectors, s.groups, s.positions)
		return err
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("gi: %w", err)
	}

	s.stats.Transport = tables.Stats
	s.stats.Transport.ProbeOccluded = probeStats.ProbeOccluded
	s.stats.Transport.ProbeTruncations = probeStats.ProbeTruncations
	if s.config.KeepPairs {
		s.pairs = tables.Pairs
	}
	return nil
}

// newDispatcher returns a serial dispatcher for one worker and a pool otherwise.
// Zero workers lets the pool pick its default size.
func newDispatcher(workers int) compute.Dispatcher {
	switch {
	case workers == 1:
		return compute.Serial()
	case workers > 1:
		return compute.NewPool(compute.WithWorkers(workers))
	default:
		return compute.NewPool()
	}
}

func (s *systemImpl) Update(direct radiosity.DirectLight) {
	start := time.Now()

	s.iterator.Iterate(s.reflectors, s.groups, direct)
	probe.Project(s.probes, s.groups)

	elapsed := time.Since(start)
	s.mu.Lock()
	s.stats.Frames++
	s.stats.UpdateTime = elapsed
	s.mu.Unlock()

	common.Logger().Debug("gi: frame updated", "elapsed", elapsed, "mode", s.iterator.Mode())
}

func (s *systemImpl) Reflectors() []reflector.Reflector {
	return s.reflectors
}

func (s *systemImpl) Groups() []cluster.Group {
	return s.groups
}

func (s *systemImpl) Probes() []probe.Probe {
	return s.probes
}

func (s *systemImpl) ReflectorLight(i int) [3]float32 {
	return s.reflectors[i].TotalLight
}

func (s *systemImpl) VertexLight(m int) [][3]float32 {
	if m < 0 || m >= len(s.vertexRefs) {
		return nil
	}
	s.vertexLight[m] = reflector.InterpolateVertexLight(s.reflectors, s.vertexRefs[m], s.vertexLight[m])
	return s.vertexLight[m]
}

func (s *systemImpl) Pairs() []transport.Pair {
	return s.pairs
}

func (s *systemImpl) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

func (s *systemImpl) Mode() radiosity.Mode {
	return s.iterator.Mode()
}

func (s *systemImpl) SetMode(mode radiosity.Mode) {
	s.iterator.SetMode(mode)
	common.Logger().Info("gi: radiosity mode changed", "mode", mode)
}
