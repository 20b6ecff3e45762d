package cluster

import (
	"errors"
	"reflect"
	"testing"

	"github.com/Carmen-Shannon/oxy-gi/engine/geometry"
	"github.com/Carmen-Shannon/oxy-gi/engine/reflector"
)

func patch(pos, normal [3]float32) reflector.Reflector {
	return reflector.Reflector{Position: pos, Normal: normal, Group: reflector.Unassigned()}
}

var (
	up    = [3]float32{0, 1, 0}
	down  = [3]float32{0, -1, 0}
	right = [3]float32{1, 0, 0}
)

func TestBuildCoplanarPair(t *testing.T) {
	refl := []reflector.Reflector{
		patch([3]float32{0, 0, 0}, up),
		patch([3]float32{0.5, 0, 0.5}, up),
	}
	groups := Build(refl, DefaultOptions())

	if len(groups) != 1 {
		t.Fatalf("len(groups) = %d, want 1", len(groups))
	}
	if !reflect.DeepEqual(groups[0].Reflectors, []int{0, 1}) {
		t.Errorf("Reflectors = %v, want [0 1]", groups[0].Reflectors)
	}
	if groups[0].Center != [3]float32{0.25, 0, 0.25} {
		t.Errorf("Center = %v, want (0.25,0,0.25)", groups[0].Center)
	}
	if groups[0].Normal != up {
		t.Errorf("Normal = %v, want %v", groups[0].Normal, up)
	}
	if err := Validate(refl, groups); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestBuildQuadIsOneGroup(t *testing.T) {
	quad := geometry.Quad("floor", [3]float32{-1, 0, -1}, [3]float32{0, 0, 2}, [3]float32{2, 0, 0}, 1, 1)
	set, err := reflector.Build([]geometry.Mesh{quad})
	if err != nil {
		t.Fatalf("reflector.Build: %v", err)
	}
	if len(set.Reflectors) != 2 {
		t.Fatalf("len(Reflectors) = %d, want 2", len(set.Reflectors))
	}

	groups := Build(set.Reflectors, DefaultOptions())
	if len(groups) != 1 {
		t.Fatalf("len(groups) = %d, want 1", len(groups))
	}
	if !reflect.DeepEqual(groups[0].Reflectors, []int{0, 1}) {
		t.Errorf("Reflectors = %v, want [0 1]", groups[0].Reflectors)
	}
	for i, r := range set.Reflectors {
		if g, ok := r.Group.Get(); !ok || g != 0 {
			t.Errorf("reflector %d Group = %v, want 0", i, r.Group)
		}
	}
	if err := Validate(set.Reflectors, groups); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestBuildRejections(t *testing.T) {
	tests := []struct {
		name      string
		candidate reflector.Reflector
	}{
		{"off plane", patch([3]float32{1, 0.2, 0}, up)},
		{"opposite normal", patch([3]float32{1, 0, 0}, down)},
		{"perpendicular normal", patch([3]float32{1, 0, 0}, right)},
		{"outside radius", patch([3]float32{4, 0, 0}, up)},
		{"exactly at radius", patch([3]float32{3, 0, 0}, up)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			refl := []reflector.Reflector{patch([3]float32{0, 0, 0}, up), tt.candidate}
			groups := Build(refl, DefaultOptions())
			if len(groups) != 2 {
				t.Fatalf("len(groups) = %d, want 2", len(groups))
			}
			if got := refl[1].Group.Index(); got != 1 {
				t.Errorf("candidate group = %d, want 1", got)
			}
			if err := Validate(refl, groups); err != nil {
				t.Errorf("Validate: %v", err)
			}
		})
	}
}

func TestBuildPicksClosestFirst(t *testing.T) {
	refl := []reflector.Reflector{
		patch([3]float32{0, 0, 0}, up),
		patch([3]float32{2, 0, 0}, up),
		patch([3]float32{1, 0, 0}, up),
		patch([3]float32{-1, 0, 0}, up),
	}
	groups := Build(refl, DefaultOptions())
	if len(groups) != 1 {
		t.Fatalf("len(groups) = %d, want 1", len(groups))
	}
	// 2 and 3 tie at distance 1; the lower index wins.
	if want := []int{0, 2, 3, 1}; !reflect.DeepEqual(groups[0].Reflectors, want) {
		t.Errorf("Reflectors = %v, want %v", groups[0].Reflectors, want)
	}
}

func TestBuildGrowCap(t *testing.T) {
	var refl []reflector.Reflector
	for i := range 10 {
		refl = append(refl, patch([3]float32{float32(i) * 0.1, 0, 0}, up))
	}
	opts := DefaultOptions()
	opts.MaxGrowIterations = 3

	groups := Build(refl, opts)
	if len(groups[0].Reflectors) != 4 {
		t.Errorf("first group size = %d, want seed + 3", len(groups[0].Reflectors))
	}
	if err := Validate(refl, groups); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestBuildDeterministic(t *testing.T) {
	scene := func() []reflector.Reflector {
		var refl []reflector.Reflector
		for i := range 6 {
			for j := range 6 {
				p := [3]float32{float32(i), 0, float32(j)}
				refl = append(refl, patch(p, up))
				refl = append(refl, patch([3]float32{0, float32(i), float32(j)}, right))
			}
		}
		return refl
	}

	a, b := scene(), scene()
	ga, gb := Build(a, DefaultOptions()), Build(b, DefaultOptions())
	if !reflect.DeepEqual(ga, gb) {
		t.Fatal("two builds of the same input differ")
	}
	for i := range a {
		if a[i].Group != b[i].Group {
			t.Fatalf("reflector %d: group %v vs %v", i, a[i].Group, b[i].Group)
		}
	}
	if err := Validate(a, ga); err != nil {
		t.Errorf("Validate: %v", err)
	}
	for gi := range ga {
		n := ga[gi].Normal
		for _, ri := range ga[gi].Reflectors {
			if a[ri].Normal != n {
				t.Errorf("group %d mixes normals %v and %v", gi, n, a[ri].Normal)
			}
		}
	}
}

func TestBuildEmpty(t *testing.T) {
	if groups := Build(nil, DefaultOptions()); len(groups) != 0 {
		t.Errorf("len(groups) = %d, want 0", len(groups))
	}
}

func TestValidateDetectsViolations(t *testing.T) {
	refl := []reflector.Reflector{patch([3]float32{}, up), patch([3]float32{5, 0, 0}, up)}
	groups := Build(refl, DefaultOptions())

	dup := append([]Group(nil), groups...)
	dup[1].Reflectors = []int{1, 0}
	if err := Validate(refl, dup); !errors.Is(err, ErrNotPartition) {
		t.Errorf("duplicate membership: err = %v, want ErrNotPartition", err)
	}

	if err := Validate(refl, groups[:1]); !errors.Is(err, ErrNotPartition) {
		t.Errorf("missing reflector: err = %v, want ErrNotPartition", err)
	}

	refl[0].Group = reflector.Assigned(1)
	if err := Validate(refl, groups); !errors.Is(err, ErrNotPartition) {
		t.Errorf("mismatched GroupID: err = %v, want ErrNotPartition", err)
	}
}

func TestNeighborSlot(t *testing.T) {
	g := Group{Neighbors: []int{4, 2, 9}}
	if g.NeighborSlot(2) != 1 || g.NeighborSlot(7) != -1 || g.NumNeighbors() != 3 {
		t.Errorf("NeighborSlot/NumNeighbors mismatch on %v", g.Neighbors)
	}
}
