package loader

import "github.com/Carmen-Shannon/oxy-gl/engine/mesh"

// LoaderBuilderOption is a functional option for configuring a Loader via NewLoader.
type LoaderBuilderOption func(*loader)

// WithWorkers sets the maximum number of files LoadAll parses at once.
//
// Parameters:
//   - n: the worker count; values below 1 are treated as 1
//
// Returns:
//   - LoaderBuilderOption: a function that applies the worker option to a loader
func WithWorkers(n int) LoaderBuilderOption {
	return func(l *loader) {
		l.workers = max(n, 1)
	}
}

// WithMesh pre-populates the mesh cache. m must be unattached.
//
// Parameters:
//   - key: the cache key, usually a file path
//   - m: the master mesh
//
// Returns:
//   - LoaderBuilderOption: a function that applies the mesh option to a loader
func WithMesh(key string, m *mesh.Mesh) LoaderBuilderOption {
	return func(l *loader) {
		l.meshCache[key] = m
	}
}
