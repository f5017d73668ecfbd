package loader

import (
	"io"

	"github.com/Carmen-Shannon/oxy-gl/engine/mesh"
)

// loaderBackend parses one model file format into an unattached mesh.
type loaderBackend interface {
	// Extensions returns the lower-case file extensions, with the leading dot, the backend handles.
	Extensions() []string

	// Load parses a model from r.
	//
	// Parameters:
	//   - name: the mesh name
	//   - source: the file path or other label reported in parse errors
	//   - r: the model source
	//
	// Returns:
	//   - *mesh.Mesh: the parsed, unattached mesh
	//   - error: a *ParseFailureError if the source is malformed
	Load(name, source string, r io.Reader) (*mesh.Mesh, error)
}
