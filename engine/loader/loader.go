// Package loader imports static scene geometry from model files and caches it by name.
package loader

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Carmen-Shannon/oxy-gi/common"
	"github.com/Carmen-Shannon/oxy-gi/engine/geometry"
)

// ErrUnsupportedFormat is returned when no backend handles a file extension.
var ErrUnsupportedFormat = errors.New("unsupported model format")

// LoaderBackendType identifies the model file format backend to use.
type LoaderBackendType int

const (
	// BackendTypeOBJ selects the Wavefront OBJ loader backend.
	BackendTypeOBJ LoaderBackendType = iota
)

// loader is the implementation of the Loader interface.
type loader struct {
	mu sync.RWMutex

	meshCache map[string][]geometry.Mesh

	backend loaderBackend
}

// Loader defines the public-facing interface for loading and caching scene meshes.
// It abstracts the file format behind a backend and manages a cache of previously loaded files.
type Loader interface {
	// Load imports a model file and caches the result.
	// If the file is already cached (by path), the cached meshes are returned.
	// The backend is selected based on the file extension (.obj → OBJ backend).
	// Every mesh is validated before it is cached.
	//
	// Parameters:
	//   - path: the file path to the model file
	//
	// Returns:
	//   - []geometry.Mesh: one mesh per object in the file
	//   - error: error if loading or validation fails
	Load(path string) ([]geometry.Mesh, error)

	// LoadReader imports a model from a reader stream and caches it by the given name.
	//
	// Parameters:
	//   - name: the cache key, also used for faces outside any named object
	//   - r: the reader providing model data
	//
	// Returns:
	//   - []geometry.Mesh: one mesh per object in the stream
	//   - error: error if loading or validation fails
	LoadReader(name string, r io.Reader) ([]geometry.Mesh, error)

	// Get retrieves cached meshes by name. Returns nil if not found.
	//
	// Parameters:
	//   - name: the cache key to look up
	//
	// Returns:
	//   - []geometry.Mesh: the cached meshes or nil
	Get(name string) []geometry.Mesh

	// Names returns the cache keys in no particular order.
	Names() []string
}

var _ Loader = &loader{}

// NewLoader creates a new Loader instance with the specified backend type and options applied.
//
// Parameters:
//   - backendType: the type of loader backend to use (e.g., BackendTypeOBJ)
//   - options: a variadic list of LoaderBuilderOption functions to configure the Loader
//
// Returns:
//   - Loader: a new instance of Loader configured with the provided backend and options
func NewLoader(backendType LoaderBackendType, options ...LoaderBuilderOption) Loader {
	l := &loader{
		mu:        sync.RWMutex{},
		meshCache: make(map[string][]geometry.Mesh),
	}

	switch backendType {
	case BackendTypeOBJ:
		fallthrough
	default:
		l.backend = newOBJLoaderBackend()
	}

	for _, option := range options {
		option(l)
	}
	return l
}

func (l *loader) Load(path string) ([]geometry.Mesh, error) {
	if cached := l.Get(path); cached != nil {
		return cached, nil
	}

	backend, err := l.resolveBackend(path)
	if err != nil {
		return nil, err
	}

	meshes, err := backend.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return l.store(path, meshes)
}

func (l *loader) LoadReader(name string, r io.Reader) ([]geometry.Mesh, error) {
	if cached := l.Get(name); cached != nil {
		return cached, nil
	}

	meshes, err := l.backend.LoadReader(name, r)
	if err != nil {
		return nil, fmt.Errorf("failed to load from reader %q: %w", name, err)
	}
	return l.store(name, meshes)
}

func (l *loader) Get(name string) []geometry.Mesh {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.meshCache[name]
}

func (l *loader) Names() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	names := make([]string, 0, len(l.meshCache))
	for k := range l.meshCache {
		names = append(names, k)
	}
	return names
}

// store validates and caches a freshly imported mesh set.
func (l *loader) store(key string, meshes []geometry.Mesh) ([]geometry.Mesh, error) {
	for i := range meshes {
		if err := meshes[i].Validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
	}

	l.mu.Lock()
	l.meshCache[key] = meshes
	l.mu.Unlock()

	vertices, triangles := 0, 0
	for i := range meshes {
		vertices += len(meshes[i].Vertices)
		triangles += meshes[i].TriangleCount()
	}
	common.Logger().Info("loader: meshes loaded", "name", key, "objects", len(meshes), "vertices", vertices, "triangles", triangles)
	return meshes, nil
}

// resolveBackend selects an appropriate loader backend based on the file extension.
// Currently only OBJ is supported.
func (l *loader) resolveBackend(path string) (loaderBackend, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".obj":
		return l.backend, nil
	default:
		return nil, fmt.Errorf("%s: %w", ext, ErrUnsupportedFormat)
	}
}
