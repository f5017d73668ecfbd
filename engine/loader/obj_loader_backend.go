package loader

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Carmen-Shannon/oxy-gl/engine/mesh"
	"github.com/go-gl/mathgl/mgl32"
)

// objLoaderBackend reads Wavefront OBJ geometry: positions, normals, texture coordinates and
// triangular faces. Materials, groups and smoothing directives are ignored.
type objLoaderBackend struct{}

var _ loaderBackend = &objLoaderBackend{}

func newOBJLoaderBackend() *objLoaderBackend {
	return &objLoaderBackend{}
}

func (b *objLoaderBackend) Extensions() []string {
	return []string{".obj"}
}

// objCorner is one face corner's (position, uv, normal) index triple. A missing uv is -1.
type objCorner struct {
	v, t, n int
}

// objBuilder accumulates OBJ data and emits one output vertex per distinct corner.
type objBuilder struct {
	source string

	positions []mgl32.Vec3
	normals   []mgl32.Vec3
	uvs       []mgl32.Vec2

	outVertices []mgl32.Vec3
	outNormals  []mgl32.Vec3
	outUVs      []mgl32.Vec2
	indices     []uint32
	corners     map[objCorner]uint32
	hasUVs      bool
}

func (b *objLoaderBackend) Load(name, source string, r io.Reader) (*mesh.Mesh, error) {
	ob := &objBuilder{
		source:  source,
		corners: make(map[objCorner]uint32),
	}

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if i := strings.IndexByte(text, '#'); i >= 0 {
			text = strings.TrimSpace(text[:i])
		}
		if text == "" {
			continue
		}
		fields := strings.Fields(text)
		var err error
		switch fields[0] {
		case "v":
			var v mgl32.Vec3
			if v, err = ob.vec3(line, fields[1:]); err == nil {
				ob.positions = append(ob.positions, v)
			}
		case "vn":
			var n mgl32.Vec3
			if n, err = ob.vec3(line, fields[1:]); err == nil {
				ob.normals = append(ob.normals, n)
			}
		case "vt":
			var t mgl32.Vec2
			if t, err = ob.vec2(line, fields[1:]); err == nil {
				ob.uvs = append(ob.uvs, t)
			}
		case "f":
			err = ob.face(line, fields[1:])
		}
		if err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", source, err)
	}
	if len(ob.indices) == 0 {
		return nil, &ParseFailureError{Path: source, Msg: "no faces"}
	}

	var uvs []mgl32.Vec2
	if ob.hasUVs {
		uvs = ob.outUVs
	}
	m, err := mesh.NewMesh(name, ob.outVertices, ob.outNormals, uvs, ob.indices)
	if err != nil {
		return nil, &ParseFailureError{Path: source, Msg: err.Error()}
	}
	return m, nil
}

func (ob *objBuilder) fail(line int, format string, args ...any) error {
	return &ParseFailureError{Path: ob.source, Line: line, Msg: fmt.Sprintf(format, args...)}
}

func (ob *objBuilder) floats(line int, fields []string, want int) ([]float32, error) {
	if len(fields) < want {
		return nil, ob.fail(line, "expected at least %d components, got %d", want, len(fields))
	}
	out := make([]float32, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 32)
		if err != nil {
			return nil, ob.fail(line, "invalid number %q", f)
		}
		out[i] = float32(v)
	}
	return out, nil
}

func (ob *objBuilder) vec3(line int, fields []string) (mgl32.Vec3, error) {
	f, err := ob.floats(line, fields, 3)
	if err != nil {
		return mgl32.Vec3{}, err
	}
	return mgl32.Vec3{f[0], f[1], f[2]}, nil
}

func (ob *objBuilder) vec2(line int, fields []string) (mgl32.Vec2, error) {
	f, err := ob.floats(line, fields, 1)
	if err != nil {
		return mgl32.Vec2{}, err
	}
	if len(f) == 1 {
		return mgl32.Vec2{f[0], 0}, nil
	}
	return mgl32.Vec2{f[0], f[1]}, nil
}

// face parses a triangle. Corners are v, v/t, v//n or v/t/n with 1-based or negative relative indices.
func (ob *objBuilder) face(line int, fields []string) error {
	if len(fields) != 3 {
		return ob.fail(line, "face has %d vertices, only triangles are supported", len(fields))
	}
	for _, field := range fields {
		c, err := ob.corner(line, field)
		if err != nil {
			return err
		}
		idx, seen := ob.corners[c]
		if !seen {
			idx = uint32(len(ob.outVertices))
			ob.corners[c] = idx
			ob.outVertices = append(ob.outVertices, ob.positions[c.v])
			ob.outNormals = append(ob.outNormals, ob.normals[c.n])
			uv := mgl32.Vec2{}
			if c.t >= 0 {
				uv = ob.uvs[c.t]
				ob.hasUVs = true
			}
			ob.outUVs = append(ob.outUVs, uv)
		}
		ob.indices = append(ob.indices, idx)
	}
	return nil
}

func (ob *objBuilder) corner(line int, field string) (objCorner, error) {
	parts := strings.Split(field, "/")
	if len(parts) > 3 {
		return objCorner{}, ob.fail(line, "malformed face vertex %q", field)
	}
	c := objCorner{t: -1, n: -1}
	var err error
	if c.v, err = ob.index(line, parts[0], len(ob.positions), "position"); err != nil {
		return objCorner{}, err
	}
	if len(parts) > 1 && parts[1] != "" {
		if c.t, err = ob.index(line, parts[1], len(ob.uvs), "texture coordinate"); err != nil {
			return objCorner{}, err
		}
	}
	if len(parts) < 3 || parts[2] == "" {
		return objCorner{}, ob.fail(line, "face vertex %q has no normal", field)
	}
	if c.n, err = ob.index(line, parts[2], len(ob.normals), "normal"); err != nil {
		return objCorner{}, err
	}
	return c, nil
}

// index resolves a 1-based or negative relative OBJ index to a 0-based one.
func (ob *objBuilder) index(line int, s string, count int, kind string) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, ob.fail(line, "invalid %s index %q", kind, s)
	}
	switch {
	case i > 0 && i <= count:
		return i - 1, nil
	case i < 0 && -i <= count:
		return count + i, nil
	}
	return 0, ob.fail(line, "%s index %d out of range (%d defined)", kind, i, count)
}
