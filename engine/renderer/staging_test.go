package renderer

import (
	"testing"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-gi/engine/geometry"
	"github.com/Carmen-Shannon/oxy-gi/engine/reflector"
	"github.com/cogentcore/webgpu/wgpu"
)

func TestGroupColorPalette(t *testing.T) {
	tests := []struct {
		group int
		want  [4]float32
	}{
		{0, [4]float32{0, 0, 0, 1}},
		{1, [4]float32{60.0 / 255, 0, 0, 1}},
		{3, [4]float32{0, 60.0 / 255, 0, 1}},
		{9, [4]float32{0, 0, 60.0 / 255, 1}},
		{26, [4]float32{120.0 / 255, 120.0 / 255, 120.0 / 255, 1}},
		{27, [4]float32{0, 0, 0, 1}},
	}
	for _, tt := range tests {
		if got := GroupColor(tt.group); got != tt.want {
			t.Errorf("GroupColor(%d) = %v, want %v", tt.group, got, tt.want)
		}
	}
}

func TestDiscGeometry(t *testing.T) {
	verts, indices := DiscGeometry(ReflectorSegments)
	if len(verts) != ReflectorSegments+1 {
		t.Fatalf("expected %d vertices, got %d", ReflectorSegments+1, len(verts))
	}
	if verts[ReflectorSegments] != [2]float32{} {
		t.Errorf("expected the center last, got %v", verts[ReflectorSegments])
	}
	if len(indices) != ReflectorSegments*3 {
		t.Fatalf("expected %d indices, got %d", ReflectorSegments*3, len(indices))
	}
	last := indices[len(indices)-3:]
	if last[0] != ReflectorSegments || last[1] != ReflectorSegments-1 || last[2] != 0 {
		t.Errorf("expected the fan to close on vertex 0, got %v", last)
	}

	if v, _ := DiscGeometry(1); len(v) != 4 {
		t.Errorf("expected at least 3 segments, got %d vertices", len(v))
	}
}

func TestReflectorInstances(t *testing.T) {
	reflectors := []reflector.Reflector{
		{Position: [3]float32{0, 0, 0}, Normal: [3]float32{0, 1, 0}, Radius: 0.5, Group: reflector.Assigned(1), TotalLight: [3]float32{0.2, 0.3, 0.4}},
		{Position: [3]float32{1, 0, 0}},
		{Position: [3]float32{2, 0, 0}, Normal: [3]float32{0, 0, 1}, Radius: 0.25},
	}

	got := ReflectorInstances(reflectors, nil)
	if len(got) != 2 {
		t.Fatalf("expected the degenerate patch to be skipped, got %d instances", len(got))
	}
	if got[0].Color != GroupColor(1) || got[0].Light != reflectors[0].TotalLight || got[0].Radius != 0.5 {
		t.Errorf("unexpected first instance %+v", got[0])
	}
	if got[1].Color != [4]float32{1, 1, 1, 1} {
		t.Errorf("expected an ungrouped patch to be white, got %v", got[1].Color)
	}
	if want := [3]float32{2, 0, 2 * reflectorLift}; got[1].Position != want {
		t.Errorf("expected the disc lifted by its index, got %v want %v", got[1].Position, want)
	}

	reused := ReflectorInstances(reflectors[:1], got)
	if len(reused) != 1 || &reused[0] != &got[0] {
		t.Error("expected the destination buffer to be reused")
	}
}

func TestMeshVertices(t *testing.T) {
	m := geometry.Quad("q", [3]float32{}, [3]float32{1, 0, 0}, [3]float32{0, 0, 1}, 1, 1)
	got := MeshVertices(m, nil)
	if len(got) != len(m.Vertices) {
		t.Fatalf("expected %d vertices, got %d", len(m.Vertices), len(got))
	}
	for i := range got {
		if got[i].Position != m.Vertices[i].Position {
			t.Errorf("vertex %d: got %v want %v", i, got[i].Position, m.Vertices[i].Position)
		}
	}
}

func TestGPUTypeSizes(t *testing.T) {
	if got := (&GPUReflectorInstance{}).Size(); got != 64 {
		t.Errorf("expected a 64-byte reflector instance, got %d", got)
	}
	if got := unsafe.Sizeof(GPUCameraUniform{}); got != 64 {
		t.Errorf("expected a 64-byte camera uniform, got %d", got)
	}
	if got := unsafe.Sizeof(GPUVertex{}); got != 12 {
		t.Errorf("expected a 12-byte vertex, got %d", got)
	}
}

func TestBackendModeMapping(t *testing.T) {
	if PresentModeVSync.surfaceMode() != wgpu.PresentModeFifo {
		t.Error("expected vsync to map to FIFO")
	}
	if PresentModeUncapped.surfaceMode() != wgpu.PresentModeImmediate {
		t.Error("expected uncapped to map to immediate")
	}
	for _, tt := range []struct{ in, want MSAASampleCount }{{MSAAOff, MSAAOff}, {MSAA4x, MSAA4x}, {8, MSAA4x}, {0, MSAA4x}} {
		if got := tt.in.sanitize(); got != tt.want {
			t.Errorf("sanitize(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
