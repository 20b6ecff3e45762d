package gi

import (
	"errors"
	"reflect"
	"testing"

	"github.com/Carmen-Shannon/oxy-gi/engine/cluster"
	"github.com/Carmen-Shannon/oxy-gi/engine/compute"
	"github.com/Carmen-Shannon/oxy-gi/engine/geometry"
	"github.com/Carmen-Shannon/oxy-gi/engine/light"
	"github.com/Carmen-Shannon/oxy-gi/engine/radiosity"
	"github.com/Carmen-Shannon/oxy-gi/engine/reflector"
)

func serialConfig() Config {
	cfg := DefaultConfig()
	cfg.Workers = 1
	return cfg
}

func newRoom(t *testing.T, options ...SystemBuilderOption) System {
	t.Helper()
	options = append([]SystemBuilderOption{WithConfig(serialConfig())}, options...)
	sys, err := NewSystem(geometry.Room(2.5, 4), options...)
	if err != nil {
		t.Fatalf("NewSystem: %v", err)
	}
	return sys
}

func TestNewSystemRoom(t *testing.T) {
	sys := newRoom(t,
		WithDiffuseRule(reflector.WallTintDiffuse),
		WithProbePositions([][3]float32{{0, 0, 0}}),
	)

	st := sys.Stats()
	if st.Reflectors != 5*4*4*2 {
		t.Errorf("Reflectors = %d, want 160", st.Reflectors)
	}
	if st.Groups == 0 || st.Groups != len(sys.Groups()) {
		t.Errorf("Groups = %d, len(Groups()) = %d", st.Groups, len(sys.Groups()))
	}
	if err := cluster.Validate(sys.Reflectors(), sys.Groups()); err != nil {
		t.Errorf("partition: %v", err)
	}
	if st.Transport.Pairs == 0 {
		t.Error("no transport pairs in a closed room")
	}
	if sys.Pairs() != nil {
		t.Error("Pairs retained without keep_pairs")
	}
	if len(sys.Probes()) != 1 || sys.Probes()[0].NumGroups() == 0 {
		t.Fatalf("probe table empty: %+v", sys.Probes())
	}

	for ri := range sys.Reflectors() {
		if sys.ReflectorLight(ri) != ([3]float32{}) {
			t.Fatalf("reflector %d lit before the first Update", ri)
		}
	}

	sys.Update(light.NewOrbit())

	lit := 0
	for ri := range sys.Reflectors() {
		if sys.ReflectorLight(ri)[0] > 0 {
			lit++
		}
	}
	if lit == 0 {
		t.Error("no reflector lit after Update")
	}
	if sh := sys.Probes()[0].SH[0]; sh[0] <= 0 {
		t.Errorf("probe SH[0] = %v, want positive", sh)
	}
	if got := sys.Stats().Frames; got != 1 {
		t.Errorf("Frames = %d, want 1", got)
	}
}

func TestVertexLight(t *testing.T) {
	sys := newRoom(t)
	sys.Update(light.NewOrbit())

	floor := sys.VertexLight(0)
	if len(floor) != 25 {
		t.Fatalf("len(VertexLight(0)) = %d, want 25", len(floor))
	}
	// Vertex 0 of the floor is a corner shared by the first cell's two triangles.
	a, b := sys.ReflectorLight(0), sys.ReflectorLight(1)
	want := (a[0] + b[0]) / 2
	if d := floor[0][0] - want; d > 1e-6 || d < -1e-6 {
		t.Errorf("corner vertex = %v, want %v", floor[0][0], want)
	}
	if sys.VertexLight(-1) != nil || sys.VertexLight(5) != nil {
		t.Error("out of range mesh index returned a table")
	}
}

func TestKeepPairs(t *testing.T) {
	cfg := serialConfig()
	cfg.KeepPairs = true
	sys, err := NewSystem(geometry.Room(2.5, 2), WithConfig(cfg))
	if err != nil {
		t.Fatalf("NewSystem: %v", err)
	}
	if len(sys.Pairs()) != sys.Stats().Transport.Pairs {
		t.Errorf("len(Pairs) = %d, Stats.Pairs = %d", len(sys.Pairs()), sys.Stats().Transport.Pairs)
	}
}

func TestOccluderBlocksPairs(t *testing.T) {
	open := newRoom(t)

	meshes := append(geometry.Room(2.5, 4), geometry.Box("block", [3]float32{-1, -2.5, -1}, [3]float32{1, 1, 1}))
	blocked, err := NewSystem(meshes, WithConfig(serialConfig()))
	if err != nil {
		t.Fatalf("NewSystem: %v", err)
	}
	if blocked.Stats().Transport.Occluded == 0 {
		t.Error("block in the room occluded nothing")
	}
	if open.Stats().Transport.Occluded != 0 {
		t.Errorf("empty convex room occluded %d pairs", open.Stats().Transport.Occluded)
	}
}

func TestProbeGridFromConfig(t *testing.T) {
	cfg := serialConfig()
	cfg.Probes = ProbeGrid{Counts: [3]int{2, 2, 2}, Inset: 0.5}
	sys, err := NewSystem(geometry.Room(2.5, 2), WithConfig(cfg))
	if err != nil {
		t.Fatalf("NewSystem: %v", err)
	}
	probes := sys.Probes()
	if len(probes) != 8 {
		t.Fatalf("len(Probes) = %d, want 8", len(probes))
	}
	if probes[0].Position != [3]float32{-2, -2, -2} || probes[7].Position != [3]float32{2, 2, 2} {
		t.Errorf("grid corners = %v / %v", probes[0].Position, probes[7].Position)
	}
}

func TestSetMode(t *testing.T) {
	sys := newRoom(t)
	if sys.Mode() != radiosity.ModeAggregate {
		t.Errorf("default Mode = %v", sys.Mode())
	}
	sys.SetMode(radiosity.ModeSeparate)
	if sys.Mode() != radiosity.ModeSeparate {
		t.Errorf("Mode after SetMode = %v", sys.Mode())
	}
}

func TestParallelMatchesSerial(t *testing.T) {
	serial := newRoom(t)
	parallel := newRoom(t, WithDispatcher(compute.NewPool(compute.WithWorkers(4))))

	serial.Update(light.NewOrbit())
	parallel.Update(light.NewOrbit())

	if !reflect.DeepEqual(serial.Reflectors(), parallel.Reflectors()) {
		t.Error("reflectors differ between serial and parallel systems")
	}
	if !reflect.DeepEqual(serial.Groups(), parallel.Groups()) {
		t.Error("groups differ between serial and parallel systems")
	}
}

func TestNewSystemErrors(t *testing.T) {
	bad := DefaultConfig()
	bad.Mode = "jacobi"
	if _, err := NewSystem(geometry.Room(1, 1), WithConfig(bad)); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("bad config: err = %v, want ErrInvalidConfig", err)
	}

	if _, err := NewSystem(nil, WithConfig(serialConfig())); !errors.Is(err, ErrNoReflectors) {
		t.Errorf("no meshes: err = %v, want ErrNoReflectors", err)
	}

	broken := []geometry.Mesh{{Name: "broken", Vertices: make([]geometry.Vertex, 2), Indices: []uint32{0, 1, 2}}}
	if _, err := NewSystem(broken, WithConfig(serialConfig())); !errors.Is(err, geometry.ErrInvalidMesh) {
		t.Errorf("broken mesh: err = %v, want ErrInvalidMesh", err)
	}
}

func TestNewSystemRejectsBadIndicesAfterValidMesh(t *testing.T) {
	meshes := append(geometry.Room(1, 1), geometry.Mesh{
		Name:     "dangling",
		Vertices: make([]geometry.Vertex, 3),
		Indices:  []uint32{0, 1, 7},
	})
	never := geometry.OccluderFunc(func(from, to [3]float32) bool { return false })

	tests := []struct {
		name    string
		options []SystemBuilderOption
	}{
		{"default occluder and grid", nil},
		{"custom occluder", []SystemBuilderOption{WithOccluder(never)}},
		{"explicit probes", []SystemBuilderOption{WithProbePositions([][3]float32{{0, 0, 0}})}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			options := append([]SystemBuilderOption{WithConfig(serialConfig())}, tt.options...)
			if _, err := NewSystem(meshes, options...); !errors.Is(err, geometry.ErrInvalidMesh) {
				t.Errorf("err = %v, want ErrInvalidMesh", err)
			}
		})
	}
}

func TestDefaultProbeGrid(t *testing.T) {
	sys := newRoom(t)
	probes := sys.Probes()
	if len(probes) != 27 {
		t.Fatalf("len(Probes) = %d, want 27", len(probes))
	}
	if probes[0].Position != [3]float32{-2, -2, -2} || probes[26].Position != [3]float32{2, 2, 2} {
		t.Errorf("grid corners = %v / %v", probes[0].Position, probes[26].Position)
	}
	if probes[13].Position != [3]float32{} {
		t.Errorf("grid center = %v, want origin", probes[13].Position)
	}

	sys.Update(light.NewOrbit())
	lit := 0
	for _, p := range sys.Probes() {
		if p.SH[0][0] > 0 {
			lit++
		}
	}
	if lit == 0 {
		t.Error("no default probe received light")
	}
}

func TestProbeGridCollapsesThinAxis(t *testing.T) {
	floor := geometry.Quad("floor", [3]float32{-2, 0, -2}, [3]float32{0, 0, 4}, [3]float32{4, 0, 0}, 2, 2)
	sys, err := NewSystem([]geometry.Mesh{floor}, WithConfig(serialConfig()))
	if err != nil {
		t.Fatalf("NewSystem: %v", err)
	}
	for i, p := range sys.Probes() {
		if p.Position[1] != 0 {
			t.Fatalf("probe %d at %v, want y = 0 on a flat scene", i, p.Position)
		}
	}
	if got := len(sys.Probes()); got != 27 {
		t.Errorf("len(Probes) = %d, want 27", got)
	}
}
