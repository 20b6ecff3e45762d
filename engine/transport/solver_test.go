package transport

import (
	"errors"
	"reflect"
	"testing"

	"github.com/Carmen-Shannon/oxy-gi/engine/cluster"
	"github.com/Carmen-Shannon/oxy-gi/engine/compute"
	"github.com/Carmen-Shannon/oxy-gi/engine/geometry"
	"github.com/Carmen-Shannon/oxy-gi/engine/reflector"
)

var (
	up   = [3]float32{0, 1, 0}
	down = [3]float32{0, -1, 0}
)

var unoccluded geometry.Occluder = geometry.OccluderFunc(func(_, _ [3]float32) bool { return false })

func patch(pos, normal [3]float32) reflector.Reflector {
	return reflector.Reflector{Position: pos, Normal: normal}
}

func grouped(refl []reflector.Reflector) []cluster.Group {
	return cluster.Build(refl, cluster.DefaultOptions())
}

// slab returns an n x n floor grid at y=0 facing up and a ceiling grid at y=2 facing down.
func slab(n int) []reflector.Reflector {
	var refl []reflector.Reflector
	for i := range n {
		for j := range n {
			refl = append(refl, patch([3]float32{float32(i), 0, float32(j)}, up))
		}
	}
	for i := range n {
		for j := range n {
			refl = append(refl, patch([3]float32{float32(i), 2, float32(j)}, down))
		}
	}
	return refl
}

func TestSolveOccluderExcludesPair(t *testing.T) {
	facing := func() []reflector.Reflector {
		return []reflector.Reflector{
			patch([3]float32{0, 0, 0}, [3]float32{1, 0, 0}),
			patch([3]float32{1, 0, 0}, [3]float32{-1, 0, 0}),
		}
	}
	wall := []geometry.Triangle{{
		A: [3]float32{0.5, -1, -1},
		B: [3]float32{0.5, -1, 2},
		C: [3]float32{0.5, 2, -1},
	}}

	t.Run("blocked", func(t *testing.T) {
		refl := facing()
		groups := grouped(refl)
		tables, err := NewSolver(geometry.NewTriangleOccluder(wall, geometry.DefaultOcclusionEpsilon)).Solve(refl, groups)
		if err != nil {
			t.Fatalf("Solve: %v", err)
		}
		if tables.Stats.Pairs != 0 || tables.Stats.Occluded != 1 {
			t.Errorf("Stats = %+v, want 0 pairs and 1 occluded", tables.Stats)
		}
		for gi := range groups {
			if len(groups[gi].Neighbors) != 0 {
				t.Errorf("group %d Neighbors = %v, want none", gi, groups[gi].Neighbors)
			}
		}
	})

	t.Run("open", func(t *testing.T) {
		refl := facing()
		groups := grouped(refl)
		tables, err := NewSolver(geometry.NewTriangleOccluder(nil, geometry.DefaultOcclusionEpsilon)).Solve(refl, groups)
		if err != nil {
			t.Fatalf("Solve: %v", err)
		}
		if len(tables.Pairs) != 1 {
			t.Fatalf("len(Pairs) = %d, want 1", len(tables.Pairs))
		}
		p := tables.Pairs[0]
		if p.A != 0 || p.B != 1 || p.Transport <= 0 || !near(p.Distance, 1) {
			t.Errorf("Pair = %+v", p)
		}
		if !reflect.DeepEqual(groups[0].Neighbors, []int{1}) || !reflect.DeepEqual(groups[1].Neighbors, []int{0}) {
			t.Errorf("Neighbors = %v / %v, want [1] / [0]", groups[0].Neighbors, groups[1].Neighbors)
		}
		if groups[0].NeighborsInfluence[0] != p.Transport {
			t.Errorf("NeighborsInfluence = %v, want %v", groups[0].NeighborsInfluence, p.Transport)
		}
		if refl[1].NeighborContribution[0] != p.Transport {
			t.Errorf("NeighborContribution = %v, want slot 0 = %v", refl[1].NeighborContribution, p.Transport)
		}
	})
}

func TestSolveSymmetricInfluence(t *testing.T) {
	refl := slab(5)
	groups := grouped(refl)
	tables, err := NewSolver(unoccluded).Solve(refl, groups)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if tables.Stats.Pairs == 0 {
		t.Fatal("no pairs between facing slabs")
	}
	for a := range groups {
		for b := range groups {
			if tables.GroupInfluence(a, b) != tables.GroupInfluence(b, a) {
				t.Errorf("influence(%d,%d)=%v != influence(%d,%d)=%v",
					a, b, tables.GroupInfluence(a, b), b, a, tables.GroupInfluence(b, a))
			}
		}
	}
	for ri, adj := range tables.Adjacency {
		for _, pi := range adj {
			p := tables.Pairs[pi]
			if p.A != ri && p.B != ri {
				t.Errorf("reflector %d lists pair %+v", ri, p)
			}
		}
	}
}

func TestSolveNeighborTruncation(t *testing.T) {
	refl := []reflector.Reflector{patch([3]float32{}, up)}
	for _, h := range []float32{2.5, 1, 3, 1.5, 2} {
		refl = append(refl, patch([3]float32{0, h, 0}, down))
	}
	groups := grouped(refl)
	if len(groups) != 6 {
		t.Fatalf("len(groups) = %d, want 6", len(groups))
	}

	tables, err := NewSolver(unoccluded, WithMaxNeighbors(3)).Solve(refl, groups)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}

	// Groups 2, 4 and 5 sit at heights 1, 1.5 and 2.
	if want := []int{2, 4, 5}; !reflect.DeepEqual(groups[0].Neighbors, want) {
		t.Errorf("Neighbors = %v, want %v", groups[0].Neighbors, want)
	}
	if tables.Stats.NeighborTruncations != 2 {
		t.Errorf("NeighborTruncations = %d, want 2", tables.Stats.NeighborTruncations)
	}
	for gi := range groups {
		g := &groups[gi]
		if len(g.Neighbors) > 3 {
			t.Errorf("group %d has %d neighbors", gi, len(g.Neighbors))
		}
		for i := 1; i < len(g.Neighbors); i++ {
			if tables.GroupInfluence(gi, g.Neighbors[i-1]) < tables.GroupInfluence(gi, g.Neighbors[i]) {
				t.Errorf("group %d neighbors not sorted: %v", gi, g.Neighbors)
			}
		}
	}
	for ri := range refl {
		if len(refl[ri].NeighborContribution) != 3 {
			t.Errorf("reflector %d contribution length %d, want 3", ri, len(refl[ri].NeighborContribution))
		}
	}
}

func TestSolveGroupInfluenceIsMemberAverage(t *testing.T) {
	refl := slab(4)
	groups := grouped(refl)
	if _, err := NewSolver(unoccluded).Solve(refl, groups); err != nil {
		t.Fatalf("Solve: %v", err)
	}
	for gi := range groups {
		g := &groups[gi]
		for slot := range g.Neighbors {
			var sum float32
			for _, ri := range g.Reflectors {
				sum += refl[ri].NeighborContribution[slot]
			}
			if want := sum / float32(len(g.Reflectors)); !near(g.NeighborsInfluence[slot], want) {
				t.Errorf("group %d slot %d influence %v, want %v", gi, slot, g.NeighborsInfluence[slot], want)
			}
		}
	}
}

func TestSolveParallelMatchesSerial(t *testing.T) {
	serialRefl := slab(6)
	serialGroups := grouped(serialRefl)
	serial, err := NewSolver(unoccluded).Solve(serialRefl, serialGroups)
	if err != nil {
		t.Fatalf("serial Solve: %v", err)
	}

	pool := compute.NewPool(compute.WithWorkers(4))
	parRefl := slab(6)
	parGroups := grouped(parRefl)
	par, err := NewSolver(unoccluded, WithDispatcher(pool)).Solve(parRefl, parGroups)
	if err != nil {
		t.Fatalf("parallel Solve: %v", err)
	}

	if !reflect.DeepEqual(serial.Pairs, par.Pairs) {
		t.Error("pairs differ between serial and parallel solves")
	}
	if !reflect.DeepEqual(serialGroups, parGroups) {
		t.Error("groups differ between serial and parallel solves")
	}
	if !reflect.DeepEqual(serialRefl, parRefl) {
		t.Error("reflectors differ between serial and parallel solves")
	}
}

func TestSolveUngrouped(t *testing.T) {
	refl := []reflector.Reflector{patch([3]float32{}, up)}
	if _, err := NewSolver(unoccluded).Solve(refl, nil); !errors.Is(err, ErrUngrouped) {
		t.Errorf("Solve err = %v, want ErrUngrouped", err)
	}
	if _, _, err := NewSolver(unoccluded).SolveProbes(refl, nil, [][3]float32{{}}); !errors.Is(err, ErrUngrouped) {
		t.Errorf("SolveProbes err = %v, want ErrUngrouped", err)
	}
}

func TestSolveProbes(t *testing.T) {
	refl := []reflector.Reflector{
		patch([3]float32{0, 0, 0}, up),
		patch([3]float32{0, 2, 0}, down),
		patch([3]float32{0, -1, 0}, down),
	}
	groups := grouped(refl)
	positions := [][3]float32{{0, 1, 0}}

	probes, stats, err := NewSolver(unoccluded, WithMaxProbeGroups(1)).SolveProbes(refl, groups, positions)
	if err != nil {
		t.Fatalf("SolveProbes: %v", err)
	}
	if len(probes) != 1 || probes[0].Position != positions[0] {
		t.Fatalf("probes = %+v", probes)
	}
	// Floor and ceiling tie; the lower group index wins.
	if probes[0].NumGroups() != 1 || probes[0].Groups[0].Group != 0 {
		t.Errorf("Groups = %+v, want only group 0", probes[0].Groups)
	}
	if stats.ProbeTruncations != 1 {
		t.Errorf("ProbeTruncations = %d, want 1", stats.ProbeTruncations)
	}

	blocked := geometry.OccluderFunc(func(from, _ [3]float32) bool { return from[1] > 1 })
	probes, stats, err = NewSolver(blocked).SolveProbes(refl, groups, positions)
	if err != nil {
		t.Fatalf("SolveProbes: %v", err)
	}
	if probes[0].NumGroups() != 1 || stats.ProbeOccluded != 1 {
		t.Errorf("Groups = %+v, occluded %d, want floor only and 1 occluded", probes[0].Groups, stats.ProbeOccluded)
	}
}

func TestNewSolverNilOccluderPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("NewSolver(nil) did not panic")
		}
	}()
	NewSolver(nil)
}
