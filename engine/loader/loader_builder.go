package loader

import (
	"github.com/Carmen-Shannon/oxy-gi/engine/geometry"
)

// LoaderBuilderOption is a functional option for configuring a Loader via NewLoader.
type LoaderBuilderOption func(*loader)

// WithMeshes is an option builder that pre-populates the cache with a mesh set,
// e.g. procedural geometry that should be resolvable by name.
//
// Parameters:
//   - key: the cache key for the meshes
//   - meshes: the meshes to cache
//
// Returns:
//   - LoaderBuilderOption: a function that applies the meshes option to a loader
func WithMeshes(key string, meshes []geometry.Mesh) LoaderBuilderOption {
	return func(l *loader) {
		l.meshCache[key] = meshes
	}
}
