package mesh

import (
	"fmt"
	"slices"

	"github.com/Carmen-Shannon/oxy-gl/engine/renderer"
	"github.com/go-gl/mathgl/mgl32"
)

// AlreadyAttachedError is returned when attaching a Mesh whose geometry has already been moved
// to a program. Attach a Clone taken before the first Attach instead.
type AlreadyAttachedError struct {
	Name string
}

func (e *AlreadyAttachedError) Error() string {
	return fmt.Sprintf("mesh %q is already attached", e.Name)
}

// Mesh is triangle geometry that has not been uploaded yet.
//
// Attach moves the geometry to the GPU for one program and returns the Attached form; the Mesh is
// spent afterwards and keeps only its name and boundaries.
type Mesh struct {
	name       string
	vertices   []mgl32.Vec3
	normals    []mgl32.Vec3
	uvs        []mgl32.Vec2
	indices    []uint32
	boundaries [8]mgl32.Vec3
	attached   bool
}

// NewMesh validates triangle geometry and computes its bounding box corners.
//
// Parameters:
//   - name: the mesh name
//   - vertices: vertex positions
//   - normals: one normal per vertex
//   - uvs: one texture coordinate per vertex, or nil
//   - indices: triangle list indices into vertices
//
// Returns:
//   - *Mesh: the unattached mesh
//   - error: an error if the arrays disagree in length, the index list is not a whole number of
//     triangles, or an index is out of range
func NewMesh(name string, vertices, normals []mgl32.Vec3, uvs []mgl32.Vec2, indices []uint32) (*Mesh, error) {
	if len(normals) != len(vertices) {
		return nil, fmt.Errorf("mesh %q: %d normals for %d vertices", name, len(normals), len(vertices))
	}
	if uvs != nil && len(uvs) != len(vertices) {
		return nil, fmt.Errorf("mesh %q: %d uvs for %d vertices", name, len(uvs), len(vertices))
	}
	if len(indices) == 0 || len(indices)%3 != 0 {
		return nil, fmt.Errorf("mesh %q: %d indices is not a triangle list", name, len(indices))
	}
	for _, idx := range indices {
		if int(idx) >= len(vertices) {
			return nil, fmt.Errorf("mesh %q: index %d out of range for %d vertices", name, idx, len(vertices))
		}
	}
	return &Mesh{
		name:       name,
		vertices:   vertices,
		normals:    normals,
		uvs:        uvs,
		indices:    indices,
		boundaries: boundaries(vertices),
	}, nil
}

// boundaries returns the 8 corners of the axis-aligned box around vertices.
func boundaries(vertices []mgl32.Vec3) [8]mgl32.Vec3 {
	var lo, hi mgl32.Vec3
	for i, v := range vertices {
		if i == 0 {
			lo, hi = v, v
			continue
		}
		for axis := range 3 {
			lo[axis] = min(lo[axis], v[axis])
			hi[axis] = max(hi[axis], v[axis])
		}
	}
	var corners [8]mgl32.Vec3
	for i := range corners {
		for axis := range 3 {
			if i&(1<<axis) == 0 {
				corners[i][axis] = lo[axis]
			} else {
				corners[i][axis] = hi[axis]
			}
		}
	}
	return corners
}

func (m *Mesh) Name() string {
	return m.name
}

// Vertices returns the vertex positions, or nil once attached.
func (m *Mesh) Vertices() []mgl32.Vec3 {
	return m.vertices
}

// Normals returns the vertex normals, or nil once attached.
func (m *Mesh) Normals() []mgl32.Vec3 {
	return m.normals
}

// UVs returns the texture coordinates, or nil if the source had none or the mesh is attached.
func (m *Mesh) UVs() []mgl32.Vec2 {
	return m.uvs
}

// Indices returns the triangle list, or nil once attached.
func (m *Mesh) Indices() []uint32 {
	return m.indices
}

// Boundaries returns the corners of the mesh's axis-aligned bounding box.
// Corner i takes the maximum on axis k when bit k of i is set.
func (m *Mesh) Boundaries() [8]mgl32.Vec3 {
	return m.boundaries
}

// Attached reports whether the geometry has been moved to a program.
func (m *Mesh) Attached() bool {
	return m.attached
}

// Clone returns an unattached deep copy, renamed to name when name is not empty.
// Cloning an attached mesh is not possible since its geometry is gone.
func (m *Mesh) Clone(name string) (*Mesh, error) {
	if m.attached {
		return nil, &AlreadyAttachedError{Name: m.name}
	}
	if name == "" {
		name = m.name
	}
	return &Mesh{
		name:       name,
		vertices:   slices.Clone(m.vertices),
		normals:    slices.Clone(m.normals),
		uvs:        slices.Clone(m.uvs),
		indices:    slices.Clone(m.indices),
		boundaries: m.boundaries,
	}, nil
}

// Attach uploads the geometry for one linked program and moves the mesh to its Attached form.
//
// Attach allocates a vertex array and an element buffer, then binds the per-vertex vertices and
// normals attributes and the per-instance object_mw_transforms and object_mw_normal_transforms
// attributes, each instance buffer seeded with one identity entry. Attach is atomic: if any
// attribute is missing from the program nothing stays allocated and the mesh remains unattached.
//
// Parameters:
//   - b: the backend
//   - programID: the linked program
//
// Returns:
//   - Attached: the attached mesh
//   - error: an *AlreadyAttachedError, or an *attribute.NotFoundError naming the missing attribute
func (m *Mesh) Attach(b renderer.RendererBackend, programID uint32) (Attached, error) {
	if m.attached {
		return nil, &AlreadyAttachedError{Name: m.name}
	}
	am, err := attach(b, programID, m)
	if err != nil {
		return nil, err
	}
	m.attached = true
	m.vertices, m.normals, m.uvs, m.indices = nil, nil, nil, nil
	return am, nil
}
