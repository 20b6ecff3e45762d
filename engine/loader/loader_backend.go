package loader

import (
	"io"

	"github.com/Carmen-Shannon/oxy-gi/engine/geometry"
)

// loaderBackend defines the generic interface for loading static scene meshes from files or streams.
// Concrete implementations (e.g., objLoaderBackend) handle format-specific details.
type loaderBackend interface {
	// Load imports every object of the file at path.
	//
	// Parameters:
	//   - path: the file path to load
	//
	// Returns:
	//   - []geometry.Mesh: one mesh per object, in file order
	//   - error: error if loading fails
	Load(path string) ([]geometry.Mesh, error)

	// LoadReader imports every object from a reader stream.
	//
	// Parameters:
	//   - name: the name given to faces that appear before any object statement
	//   - r: the reader providing model data
	//
	// Returns:
	//   - []geometry.Mesh: one mesh per object, in stream order
	//   - error: error if loading fails
	LoadReader(name string, r io.Reader) ([]geometry.Mesh, error)
}
