package loader

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

// quadOBJ is two triangles sharing an edge; the shared corners must be emitted once.
const quadOBJ = `# quad
o quad
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
vt 0 0
vt 1 0
vt 1 1
vt 0 1
vn 0 0 1
s off
f 1/1/1 2/2/1 3/3/1
f 1/1/1 3/3/1 4/4/1
`

func writeOBJ(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func TestLoadMeshDedupesCorners(t *testing.T) {
	path := writeOBJ(t, t.TempDir(), "quad.obj", quadOBJ)
	m, err := NewLoader().LoadMesh(path)
	if err != nil {
		t.Fatalf("LoadMesh: %v", err)
	}
	if m.Name() != "quad" {
		t.Errorf("name: got %q, want quad", m.Name())
	}
	if got := len(m.Vertices()); got != 4 {
		t.Errorf("vertices: got %d, want 4", got)
	}
	want := []uint32{0, 1, 2, 0, 2, 3}
	got := m.Indices()
	if len(got) != len(want) {
		t.Fatalf("indices: got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("indices: got %v, want %v", got, want)
		}
	}
	if uvs := m.UVs(); len(uvs) != 4 || uvs[2] != (mgl32.Vec2{1, 1}) {
		t.Errorf("uvs: got %v", uvs)
	}
	for _, n := range m.Normals() {
		if n != (mgl32.Vec3{0, 0, 1}) {
			t.Errorf("normal: got %v", n)
		}
	}
	b := m.Boundaries()
	if b[0] != (mgl32.Vec3{0, 0, 0}) || b[7] != (mgl32.Vec3{1, 1, 0}) {
		t.Errorf("boundaries: got %v", b)
	}
}

func TestLoadMeshSplitsCornersWithDifferentNormals(t *testing.T) {
	body := `v 0 0 0
v 1 0 0
v 0 1 0
v 0 0 1
vn 0 0 -1
vn -1 0 0
f 1//1 3//1 2//1
f 1//2 4//2 3//2
`
	path := writeOBJ(t, t.TempDir(), "corner.obj", body)
	m, err := NewLoader().LoadMesh(path)
	if err != nil {
		t.Fatalf("LoadMesh: %v", err)
	}
	if m.UVs() != nil {
		t.Errorf("uvs: got %v, want nil without vt", m.UVs())
	}
	// positions 1 and 3 appear with two different normals each
	if got := len(m.Vertices()); got != 6 {
		t.Errorf("vertices: got %d, want 6", got)
	}
}

func TestLoadMeshNegativeIndices(t *testing.T) {
	body := `v 0 0 0
v 1 0 0
v 0 1 0
vn 0 0 1
f -3//-1 -2//-1 -1//-1
`
	path := writeOBJ(t, t.TempDir(), "neg.obj", body)
	m, err := NewLoader().LoadMesh(path)
	if err != nil {
		t.Fatalf("LoadMesh: %v", err)
	}
	if m.Vertices()[1] != (mgl32.Vec3{1, 0, 0}) {
		t.Errorf("vertex 1: got %v", m.Vertices()[1])
	}
}

func TestLoadMeshParseFailures(t *testing.T) {
	tests := []struct {
		name string
		body string
		line int
		msg  string
	}{
		{"quad face", "v 0 0 0\nv 1 0 0\nv 1 1 0\nv 0 1 0\nvn 0 0 1\nf 1//1 2//1 3//1 4//1\n", 6, "only triangles"},
		{"bad number", "v 0 zero 0\n", 1, "invalid number"},
		{"short vertex", "v 0 0\n", 1, "at least 3"},
		{"index out of range", "v 0 0 0\nvn 0 0 1\nf 1//1 2//1 3//1\n", 3, "out of range"},
		{"missing normal", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n", 4, "no normal"},
		{"no faces", "v 0 0 0\n", 0, "no faces"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeOBJ(t, t.TempDir(), "bad.obj", tt.body)
			_, err := NewLoader().LoadMesh(path)
			var pe *ParseFailureError
			if !errors.As(err, &pe) {
				t.Fatalf("got %v, want *ParseFailureError", err)
			}
			if pe.Line != tt.line {
				t.Errorf("line: got %d, want %d", pe.Line, tt.line)
			}
			if pe.Path != path {
				t.Errorf("path: got %q, want %q", pe.Path, path)
			}
			if !strings.Contains(pe.Msg, tt.msg) {
				t.Errorf("msg: got %q, want it to contain %q", pe.Msg, tt.msg)
			}
		})
	}
}

func TestLoadMeshUnsupportedFormat(t *testing.T) {
	path := writeOBJ(t, t.TempDir(), "model.gltf", "{}")
	_, err := NewLoader().LoadMesh(path)
	var ue *UnsupportedFileFormatError
	if !errors.As(err, &ue) {
		t.Fatalf("got %v, want *UnsupportedFileFormatError", err)
	}
	if ue.Ext != ".gltf" {
		t.Errorf("ext: got %q", ue.Ext)
	}
}

func TestLoadMeshCachesAndClones(t *testing.T) {
	path := writeOBJ(t, t.TempDir(), "quad.obj", quadOBJ)
	l := NewLoader()
	first, err := l.LoadMesh(path)
	if err != nil {
		t.Fatalf("LoadMesh: %v", err)
	}
	if err := os.Remove(path); err != nil {
		t.Fatalf("remove: %v", err)
	}
	second, err := l.LoadMesh(path)
	if err != nil {
		t.Fatalf("cached LoadMesh: %v", err)
	}
	if first == second {
		t.Error("cache returned the same mesh twice")
	}
	first.Vertices()[0] = mgl32.Vec3{9, 9, 9}
	if second.Vertices()[0] == first.Vertices()[0] {
		t.Error("clones share vertex storage")
	}
	if got := l.Cached(); len(got) != 1 || got[0] != path {
		t.Errorf("Cached: got %v", got)
	}
}

func TestLoadReader(t *testing.T) {
	l := NewLoader()
	m, err := l.LoadReader("inline", ".OBJ", strings.NewReader(quadOBJ))
	if err != nil {
		t.Fatalf("LoadReader: %v", err)
	}
	if m.Name() != "inline" || len(m.Indices()) != 6 {
		t.Errorf("got %q with %d indices", m.Name(), len(m.Indices()))
	}
	if _, err := l.LoadReader("other", ".stl", strings.NewReader("")); err == nil {
		t.Error("expected unsupported format error")
	}
}

func TestLoadAll(t *testing.T) {
	dir := t.TempDir()
	paths := map[string]string{
		"a": writeOBJ(t, dir, "a.obj", quadOBJ),
		"b": writeOBJ(t, dir, "b.obj", quadOBJ),
		"c": writeOBJ(t, dir, "c.obj", quadOBJ),
	}
	var done atomic.Int32
	meshes, err := NewLoader(WithWorkers(2)).LoadAll(paths, func() { done.Add(1) })
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(meshes) != 3 {
		t.Fatalf("got %d meshes, want 3", len(meshes))
	}
	for name, m := range meshes {
		if m.Name() != name {
			t.Errorf("mesh %q is named %q", name, m.Name())
		}
	}
	if done.Load() != 3 {
		t.Errorf("onDone called %d times, want 3", done.Load())
	}
}

func TestLoadAllReportsFailures(t *testing.T) {
	dir := t.TempDir()
	paths := map[string]string{
		"good":    writeOBJ(t, dir, "good.obj", quadOBJ),
		"bad":     writeOBJ(t, dir, "bad.obj", "v 1 2\n"),
		"missing": filepath.Join(dir, "missing.obj"),
	}
	meshes, err := NewLoader().LoadAll(paths, nil)
	if err == nil {
		t.Fatal("expected an error")
	}
	var pe *ParseFailureError
	if !errors.As(err, &pe) {
		t.Errorf("joined error does not carry the parse failure: %v", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("joined error does not carry the missing file: %v", err)
	}
	if len(meshes) != 1 || meshes["good"] == nil {
		t.Errorf("got %v, want only the good mesh", meshes)
	}
}

func TestLoadAllEmpty(t *testing.T) {
	meshes, err := NewLoader().LoadAll(nil, nil)
	if err != nil || len(meshes) != 0 {
		t.Errorf("got %v, %v", meshes, err)
	}
}
