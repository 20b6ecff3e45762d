package probe

import (
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-gi/engine/cluster"
)

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-5
}

func TestProjectSingleGroup(t *testing.T) {
	groups := []cluster.Group{
		{Center: [3]float32{0, 2, 0}, TotalLight: [3]float32{1, 0.5, 0}},
	}
	probes := []Probe{{
		Position: [3]float32{0, 0, 0},
		SH:       [4][3]float32{{9, 9, 9}},
		Groups:   []GroupInfluence{{Group: 0, Influence: 2}},
	}}

	Project(probes, groups)
	sh := probes[0].SH

	want0 := [3]float32{2 * SHBand0, SHBand0, 0}
	want2 := [3]float32{2 * SHBand1, SHBand1, 0}
	for c := range 3 {
		if !near(sh[0][c], want0[c]) {
			t.Errorf("SH[0][%d] = %v, want %v", c, sh[0][c], want0[c])
		}
		if !near(sh[2][c], want2[c]) {
			t.Errorf("SH[2][%d] = %v, want %v", c, sh[2][c], want2[c])
		}
		if sh[1][c] != 0 || sh[3][c] != 0 {
			t.Errorf("x/z bands channel %d = %v/%v, want 0", c, sh[1][c], sh[3][c])
		}
	}
}

func TestProjectNoGroupsResets(t *testing.T) {
	probes := []Probe{{SH: [4][3]float32{{1, 1, 1}, {1, 1, 1}}}}
	Project(probes, nil)
	if probes[0].SH != ([4][3]float32{}) {
		t.Errorf("SH = %v, want zero", probes[0].SH)
	}
}

func TestEvaluateFavorsLitSide(t *testing.T) {
	p := Probe{}
	p.Accumulate([3]float32{1, 1, 1}, [3]float32{0, 1, 0})

	top := p.Evaluate([3]float32{0, 1, 0})
	bottom := p.Evaluate([3]float32{0, -1, 0})
	if top[0] <= bottom[0] {
		t.Errorf("Evaluate(up) = %v, Evaluate(down) = %v, want up brighter", top, bottom)
	}
	if bottom[0] < 0 {
		t.Errorf("Evaluate(down) = %v, want clamped at 0", bottom)
	}
}

func TestGrid(t *testing.T) {
	probes := Grid([3]float32{0, 0, 0}, [3]float32{2, 4, 6}, [3]int{3, 1, 0})
	if len(probes) != 3 {
		t.Fatalf("len = %d, want 3", len(probes))
	}
	want := [][3]float32{{0, 2, 3}, {1, 2, 3}, {2, 2, 3}}
	for i, p := range probes {
		if p.Position != want[i] {
			t.Errorf("probe %d = %v, want %v", i, p.Position, want[i])
		}
	}
}
