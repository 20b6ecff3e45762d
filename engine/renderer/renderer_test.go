package renderer

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-gi/engine/geometry"
	"github.com/Carmen-Shannon/oxy-gi/engine/reflector"
	"github.com/cogentcore/webgpu/wgpu"
)

// fakeBackend records calls instead of talking to a GPU.
type fakeBackend struct {
	created   map[*wgpu.Buffer]int // buffer -> size
	writes    map[*wgpu.Buffer]int // buffer -> last write size
	released  int
	camera    []byte
	frames    int
	meshDraws int
	discDraws []uint32 // instance counts
	beginErr  error
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{created: map[*wgpu.Buffer]int{}, writes: map[*wgpu.Buffer]int{}}
}

func (f *fakeBackend) ConfigureSurface(int, int)  {}
func (f *fakeBackend) SetPresentMode(PresentMode) {}
func (f *fakeBackend) RegisterPipelines() error   { return nil }
func (f *fakeBackend) WriteCamera(data []byte)    { f.camera = append(f.camera[:0], data...) }
func (f *fakeBackend) EndFrame()                  {}
func (f *fakeBackend) Present()                   {}
func (f *fakeBackend) ReleaseBuffer(b *wgpu.Buffer) {
	if b != nil {
		f.released++
	}
}

func (f *fakeBackend) CreateBuffer(_ string, _ wgpu.BufferUsage, data []byte) (*wgpu.Buffer, error) {
	b := new(wgpu.Buffer)
	f.created[b] = len(data)
	return b, nil
}

func (f *fakeBackend) WriteBuffer(b *wgpu.Buffer, data []byte) {
	f.writes[b] = len(data)
}

func (f *fakeBackend) BeginFrame() error {
	if f.beginErr != nil {
		return f.beginErr
	}
	f.frames++
	return nil
}

func (f *fakeBackend) DrawMesh(_, _, _ *wgpu.Buffer, _ uint32) error {
	f.meshDraws++
	return nil
}

func (f *fakeBackend) DrawReflectors(_, _, _ *wgpu.Buffer, _, instanceCount uint32) error {
	f.discDraws = append(f.discDraws, instanceCount)
	return nil
}

func newTestRenderer(t *testing.T) (*renderer, *fakeBackend) {
	t.Helper()
	fb := newFakeBackend()
	r := &renderer{}
	if err := r.init(fb); err != nil {
		t.Fatalf("init: %v", err)
	}
	return r, fb
}

func testMeshes() []geometry.Mesh {
	return []geometry.Mesh{
		geometry.Quad("floor", [3]float32{-1, 0, -1}, [3]float32{2, 0, 0}, [3]float32{0, 0, 2}, 1, 1),
		{Name: "empty"},
		geometry.Quad("wall", [3]float32{-1, 0, -1}, [3]float32{0, 2, 0}, [3]float32{2, 0, 0}, 2, 1),
	}
}

func TestRendererUploadsAndDrawsMeshes(t *testing.T) {
	r, fb := newTestRenderer(t)
	meshes := testMeshes()
	if err := r.SetMeshes(meshes); err != nil {
		t.Fatalf("SetMeshes: %v", err)
	}

	// 2 disc buffers plus 3 per non-empty mesh.
	if len(fb.created) != 2+3*2 {
		t.Errorf("expected 8 buffers, got %d", len(fb.created))
	}

	light := make([][3]float32, len(meshes[2].Vertices))
	if err := r.UpdateVertexLight(2, light); err != nil {
		t.Fatalf("UpdateVertexLight: %v", err)
	}
	if got := fb.writes[r.meshes[2].light]; got != len(light)*12 {
		t.Errorf("expected a %d-byte light write, got %d", len(light)*12, got)
	}

	if err := r.Render(); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if fb.meshDraws != 2 || len(fb.discDraws) != 0 {
		t.Errorf("expected 2 mesh draws and no disc draws, got %d and %d", fb.meshDraws, len(fb.discDraws))
	}
	if len(fb.camera) != 64 {
		t.Errorf("expected a 64-byte camera upload, got %d", len(fb.camera))
	}

	if err := r.SetMeshes(meshes[:1]); err != nil {
		t.Fatalf("SetMeshes: %v", err)
	}
	if fb.released != 6 {
		t.Errorf("expected the previous 6 mesh buffers released, got %d", fb.released)
	}
}

func TestRendererLightErrors(t *testing.T) {
	r, _ := newTestRenderer(t)
	if err := r.SetMeshes(testMeshes()); err != nil {
		t.Fatalf("SetMeshes: %v", err)
	}

	if err := r.UpdateVertexLight(3, nil); !errors.Is(err, ErrMeshIndex) {
		t.Errorf("expected ErrMeshIndex, got %v", err)
	}
	if err := r.UpdateVertexLight(-1, nil); !errors.Is(err, ErrMeshIndex) {
		t.Errorf("expected ErrMeshIndex, got %v", err)
	}
	if err := r.UpdateVertexLight(0, make([][3]float32, 1)); !errors.Is(err, ErrLightLength) {
		t.Errorf("expected ErrLightLength, got %v", err)
	}
}

func TestRendererReflectorView(t *testing.T) {
	r, fb := newTestRenderer(t)
	if err := r.SetMeshes(testMeshes()); err != nil {
		t.Fatalf("SetMeshes: %v", err)
	}

	reflectors := make([]reflector.Reflector, 4)
	for i := range reflectors {
		reflectors[i] = reflector.Reflector{Normal: [3]float32{0, 1, 0}, Radius: 0.1, Group: reflector.Assigned(i)}
	}

	if err := r.UpdateReflectors(reflectors[:2]); err != nil {
		t.Fatalf("UpdateReflectors: %v", err)
	}
	first := r.instances
	if err := r.UpdateReflectors(reflectors[:1]); err != nil {
		t.Fatalf("UpdateReflectors: %v", err)
	}
	if r.instances != first {
		t.Error("expected a smaller update to reuse the instance buffer")
	}
	if err := r.UpdateReflectors(reflectors); err != nil {
		t.Fatalf("UpdateReflectors: %v", err)
	}
	if r.instances == first || r.instanceCap != 4 {
		t.Errorf("expected the instance buffer to grow to 4, cap %d", r.instanceCap)
	}

	r.SetShowReflectors(true)
	if !r.ShowReflectors() {
		t.Fatal("expected the reflector view to be active")
	}
	if err := r.Render(); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if fb.meshDraws != 0 || len(fb.discDraws) != 1 || fb.discDraws[0] != 4 {
		t.Errorf("expected one disc draw of 4 instances, got meshes=%d discs=%v", fb.meshDraws, fb.discDraws)
	}
}

func TestRendererBeginFrameError(t *testing.T) {
	r, fb := newTestRenderer(t)
	fb.beginErr = errors.New("surface lost")
	if err := r.Render(); !errors.Is(err, fb.beginErr) {
		t.Errorf("expected the BeginFrame error, got %v", err)
	}
	if fb.meshDraws != 0 {
		t.Error("expected no draws after a failed BeginFrame")
	}
}
