package transport

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"github.com/Carmen-Shannon/oxy-gi/common"
	"github.com/Carmen-Shannon/oxy-gi/engine/cluster"
	"github.com/Carmen-Shannon/oxy-gi/engine/compute"
	"github.com/Carmen-Shannon/oxy-gi/engine/geometry"
	"github.com/Carmen-Shannon/oxy-gi/engine/probe"
	"github.com/Carmen-Shannon/oxy-gi/engine/reflector"
)

// ErrUngrouped is returned when a reflector has no group at solve time.
var ErrUngrouped = errors.New("reflector is not grouped")

// Pair is a surviving patch-to-patch relationship, A < B.
type Pair struct {
	A, B      int
	Distance  float32
	Transport float32
}

// Other returns the index of the patch at the opposite end from ri.
func (p Pair) Other(ri int) int {
	if p.A == ri {
		return p.B
	}
	return p.A
}

// Stats counts what the solver kept and dropped.
type Stats struct {
	// Pairs is the number of pairs that passed both the significance and visibility filters.
	Pairs int

	// Occluded is the number of significant pairs dropped by the visibility test.
	Occluded int

	// NeighborTruncations is the number of candidate neighbor groups dropped by the K cap.
	NeighborTruncations int

	// ProbeOccluded is the number of significant patch-probe links dropped by visibility.
	ProbeOccluded int

	// ProbeTruncations is the number of candidate probe groups dropped by the M cap.
	ProbeTruncations int
}

// Tables is the output of Solve. Neighbor tables are written into the groups and
// reflectors themselves; Tables keeps the intermediate pair data.
type Tables struct {
	// Pairs are the surviving pairs in ascending (A, B) order.
	Pairs []Pair

	// Adjacency lists, per reflector, the indices into Pairs it takes part in.
	Adjacency [][]int

	Stats Stats

	numGroups int
	influence []float32
}

// GroupInfluence returns the accumulated transport between groups a and b.
func (t *Tables) GroupInfluence(a, b int) float32 {
	return t.influence[a*t.numGroups+b]
}

// Solver computes the transport tables of a grouped reflector set.
type Solver interface {
	// Solve runs the pair pass, selects each group's neighbor groups and fills the
	// per-patch NeighborContribution and per-group NeighborsInfluence tables.
	//
	// Parameters:
	//   - reflectors: the grouped patch table, NeighborContribution is rewritten
	//   - groups: the group table, Neighbors and NeighborsInfluence are rewritten
	//
	// Returns:
	//   - *Tables: the pair data and counters
	//   - error: a wrapped ErrUngrouped if any reflector has no group
	Solve(reflectors []reflector.Reflector, groups []cluster.Group) (*Tables, error)

	// SolveProbes builds one probe per position with its table of influencing groups.
	//
	// Parameters:
	//   - reflectors: the grouped patch table
	//   - groups: the group table
	//   - positions: the probe positions
	//
	// Returns:
	//   - []probe.Probe: the probes, in position order, with zero SH
	//   - Stats: ProbeOccluded and ProbeTruncations are filled
	//   - error: a wrapped ErrUngrouped if any reflector has no group
	SolveProbes(reflectors []reflector.Reflector, groups []cluster.Group, positions [][3]float32) ([]probe.Probe, Stats, error)

	// MaxNeighbors returns the neighbor group cap K.
	MaxNeighbors() int
}

type solverImpl struct {
	occluder   geometry.Occluder
	dispatcher compute.Dispatcher

	attenuation      float32
	probeAttenuation float32
	significance     float32
	surfaceOffset    float32
	maxNeighbors     int
	maxProbeGroups   int
}

var _ Solver = &solverImpl{}

func (s *solverImpl) MaxNeighbors() int {
	return s.maxNeighbors
}

// pairRow is the output of one row of the pair pass.
type pairRow struct {
	pairs    []Pair
	occluded int
}

func (s *solverImpl) Solve(reflectors []reflector.Reflector, groups []cluster.Group) (*Tables, error) {
	if err := checkGrouped(reflectors, len(groups)); err != nil {
		return nil, err
	}

	n := len(reflectors)
	rows := make([]pairRow, n)
	s.dispatcher.For(n, func(lo, hi int) {
		for a := lo; a < hi; a++ {
			rows[a] = s.solveRow(reflectors, a)
		}
	})

	ng := len(groups)
	t := &Tables{
		Adjacency: make([][]int, n),
		numGroups: ng,
		influence: make([]float32, ng*ng),
	}
	for a := range rows {
		t.Stats.Occluded += rows[a].occluded
		for _, p := range rows[a].pairs {
			pi := len(t.Pairs)
			t.Pairs = append(t.Pairs, p)
			t.Adjacency[p.A] = append(t.Adjacency[p.A], pi)
			t.Adjacency[p.B] = append(t.Adjacency[p.B], pi)

			ga, gb := reflectors[p.A].Group.Index(), reflectors[p.B].Group.Index()
			t.influence[ga*ng+gb] += p.Transport
			t.influence[gb*ng+ga] += p.Transport
		}
	}
	t.Stats.Pairs = len(t.Pairs)

	for gi := range groups {
		t.Stats.NeighborTruncations += s.selectNeighbors(t, gi, &groups[gi])
	}

	s.dispatcher.For(ng, func(lo, hi int) {
		for gi := lo; gi < hi; gi++ {
			s.refineGroup(t, reflectors, groups, gi)
		}
	})

	common.Logger().Debug("transport: solved pairs",
		"reflectors", n, "pairs", t.Stats.Pairs, "occluded", t.Stats.Occluded,
		"neighborTruncations", t.Stats.NeighborTruncations)

	return t, nil
}

// solveRow evaluates every pair (a, b) with b > a.
func (s *solverImpl) solveRow(reflectors []reflector.Reflector, a int) pairRow {
	var row pairRow
	ra := &reflectors[a]
	from := common.Add3(ra.Position, common.Scale3(ra.Normal, s.surfaceOffset))

	for b := a + 1; b < len(reflectors); b++ {
		rb := &reflectors[b]
		tr := DiscDisc(ra.Position, ra.Normal, rb.Position, rb.Normal, s.attenuation)
		if tr <= s.significance {
			continue
		}
		to := common.Add3(rb.Position, common.Scale3(rb.Normal, s.surfaceOffset))
		if s.occluder.Occluded(from, to) {
			row.occluded++
			continue
		}
		row.pairs = append(row.pairs, Pair{
			A:         a,
			B:         b,
			Distance:  common.Length3(common.Sub3(rb.Position, ra.Position)),
			Transport: tr,
		})
	}
	return row
}

// selectNeighbors keeps the K other groups with the highest positive influence on gi,
// strongest first with ties broken by group index. It returns the number dropped.
func (s *solverImpl) selectNeighbors(t *Tables, gi int, g *cluster.Group) int {
	var cand []int
	for other := 0; other < t.numGroups; other++ {
		if other != gi && t.GroupInfluence(gi, other) > 0 {
			cand = append(cand, other)
		}
	}
	slices.SortFunc(cand, func(a, b int) int {
		if c := cmp.Compare(t.GroupInfluence(gi, b), t.GroupInfluence(gi, a)); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})

	dropped := 0
	if len(cand) > s.maxNeighbors {
		dropped = len(cand) - s.maxNeighbors
		cand = cand[:s.maxNeighbors]
	}
	g.Neighbors = cand
	g.NeighborsInfluence = make([]float32, len(cand))
	return dropped
}

// refineGroup fills the NeighborContribution of each member of group gi and derives the
// group's NeighborsInfluence as the member average.
func (s *solverImpl) refineGroup(t *Tables, reflectors []reflector.Reflector, groups []cluster.Group, gi int) {
	g := &groups[gi]
	for _, ri := range g.Reflectors {
		r := &reflectors[ri]
		r.NeighborContribution = make([]float32, s.maxNeighbors)
		for _, pi := range t.Adjacency[ri] {
			p := t.Pairs[pi]
			og := reflectors[p.Other(ri)].Group.Index()
			if og == gi {
				continue
			}
			if slot := g.NeighborSlot(og); slot >= 0 {
				r.NeighborContribution[slot] += p.Transport
			}
		}
		for slot := range g.NeighborsInfluence {
			g.NeighborsInfluence[slot] += r.NeighborContribution[slot]
		}
	}
	if len(g.Reflectors) > 0 {
		count := float32(len(g.Reflectors))
		for slot := range g.NeighborsInfluence {
			g.NeighborsInfluence[slot] /= count
		}
	}
}

// probeRow is the output of one probe of the probe pass.
type probeRow struct {
	groups    []probe.GroupInfluence
	occluded  int
	truncated int
}

func (s *solverImpl) SolveProbes(reflectors []reflector.Reflector, groups []cluster.Group, positions [][3]float32) ([]probe.Probe, Stats, error) {
	if err := checkGrouped(reflectors, len(groups)); err != nil {
		return nil, Stats{}, err
	}

	rows := make([]probeRow, len(positions))
	s.dispatcher.For(len(positions), func(lo, hi int) {
		score := make([]float32, len(groups))
		for pi := lo; pi < hi; pi++ {
			clear(score)
			rows[pi] = s.solveProbe(reflectors, positions[pi], score)
		}
	})

	var stats Stats
	probes := make([]probe.Probe, len(positions))
	for pi := range positions {
		probes[pi] = probe.Probe{Position: positions[pi], Groups: rows[pi].groups}
		stats.ProbeOccluded += rows[pi].occluded
		stats.ProbeTruncations += rows[pi].truncated
	}

	common.Logger().Debug("transport: solved probes",
		"probes", len(probes), "occluded", stats.ProbeOccluded, "truncations", stats.ProbeTruncations)

	return probes, stats, nil
}

// solveProbe scores every group by its visible transport into pos and keeps the top M.
func (s *solverImpl) solveProbe(reflectors []reflector.Reflector, pos [3]float32, score []float32) probeRow {
	var row probeRow
	for ri := range reflectors {
		r := &reflectors[ri]
		tr := DiscPos(r.Position, r.Normal, pos, s.probeAttenuation)
		if tr <= s.significance {
			continue
		}
		from := common.Add3(r.Position, common.Scale3(r.Normal, s.surfaceOffset))
		if s.occluder.Occluded(from, pos) {
			row.occluded++
			continue
		}
		score[r.Group.Index()] += tr
	}

	for gi, v := range score {
		if v > 0 {
			row.groups = append(row.groups, probe.GroupInfluence{Group: gi, Influence: v})
		}
	}
	slices.SortFunc(row.groups, func(a, b probe.GroupInfluence) int {
		if c := cmp.Compare(b.Influence, a.Influence); c != 0 {
			return c
		}
		return cmp.Compare(a.Group, b.Group)
	})
	if len(row.groups) > s.maxProbeGroups {
		row.truncated = len(row.groups) - s.maxProbeGroups
		row.groups = row.groups[:s.maxProbeGroups]
	}
	return row
}

// checkGrouped verifies every reflector refers to one of numGroups groups.
func checkGrouped(reflectors []reflector.Reflector, numGroups int) error {
	for ri := range reflectors {
		gi, ok := reflectors[ri].Group.Get()
		if !ok || gi >= numGroups {
			return fmt.Errorf("transport: reflector %d: %w", ri, ErrUngrouped)
		}
	}
	return nil
}
