package mesh

import (
	"bytes"
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/attribute"
	"github.com/Carmen-Shannon/oxy-gl/engine/scene_object"
	"github.com/go-gl/mathgl/mgl32"
)

const vertexMain = `
out vec3 world_normal;
void main() {
	gl_Position = object_mw_transforms * vec4(vertices, 1.0);
	world_normal = object_mw_normal_transforms * normals;
}
`

const fragmentSource = `#version 410 core
in vec3 world_normal;
out vec4 color;
void main() {
	color = vec4(normalize(world_normal), 1.0);
}
`

func linkProgram(t *testing.T, b *renderer.HeadlessBackend, vertexSource string) uint32 {
	t.Helper()
	p := b.CreateProgram()
	for stage, src := range map[renderer.ShaderStage]string{
		renderer.ShaderStageVertex:   vertexSource,
		renderer.ShaderStageFragment: fragmentSource,
	} {
		s := b.CreateShader(stage)
		if ok, log := b.CompileShader(s, src); !ok {
			t.Fatal(log)
		}
		b.AttachShader(p, s)
	}
	if ok, log := b.LinkProgram(p); !ok {
		t.Fatal(log)
	}
	return p
}

func newInstancedProgram(t *testing.T) (*renderer.HeadlessBackend, uint32) {
	t.Helper()
	b := renderer.NewHeadlessBackend()
	return b, linkProgram(t, b, "#version 410 core\n"+GPUInstanceInputSource+vertexMain)
}

func triangle(t *testing.T) *Mesh {
	t.Helper()
	m, err := NewMesh("tri",
		[]mgl32.Vec3{{0, 0, 0}, {2, 0, -1}, {0, 3, 1}},
		[]mgl32.Vec3{{0, 0, 1}, {0, 0, 1}, {0, 0, 1}},
		nil,
		[]uint32{0, 1, 2},
	)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestNewMeshValidation(t *testing.T) {
	v := []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}
	tests := []struct {
		name    string
		normals []mgl32.Vec3
		uvs     []mgl32.Vec2
		indices []uint32
	}{
		{"normal count", v[:2], nil, []uint32{0, 1, 2}},
		{"uv count", v, []mgl32.Vec2{{0, 0}}, []uint32{0, 1, 2}},
		{"not triangles", v, nil, []uint32{0, 1}},
		{"empty", v, nil, nil},
		{"index range", v, nil, []uint32{0, 1, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewMesh("bad", v, tt.normals, tt.uvs, tt.indices); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestBoundaries(t *testing.T) {
	m := triangle(t)
	corners := m.Boundaries()
	if corners[0] != (mgl32.Vec3{0, 0, -1}) || corners[7] != (mgl32.Vec3{2, 3, 1}) {
		t.Errorf("corners = %v", corners)
	}
	if corners[1] != (mgl32.Vec3{2, 0, -1}) || corners[6] != (mgl32.Vec3{0, 3, 1}) {
		t.Errorf("corner order = %v", corners)
	}
}

func TestAttachLayout(t *testing.T) {
	b, p := newInstancedProgram(t)
	m := triangle(t)
	am, err := m.Attach(b, p)
	if err != nil {
		t.Fatal(err)
	}
	vao := am.VAO()

	for loc := uint32(ModelTransformsLocation); loc < ModelTransformsLocation+4; loc++ {
		st, ok := b.VertexAttrib(vao, loc)
		if !ok || !st.Enabled || st.Divisor != 1 || st.Size != 4 || st.Stride != 64 {
			t.Errorf("mat4 slot %d = %+v", loc, st)
		}
		if st.Offset != uintptr(loc-ModelTransformsLocation)*16 {
			t.Errorf("mat4 slot %d offset = %d", loc, st.Offset)
		}
	}
	for loc := uint32(NormalTransformsLocation); loc < NormalTransformsLocation+3; loc++ {
		st, ok := b.VertexAttrib(vao, loc)
		if !ok || !st.Enabled || st.Divisor != 1 || st.Size != 3 || st.Stride != 36 {
			t.Errorf("mat3 slot %d = %+v", loc, st)
		}
	}
	for _, loc := range []uint32{VerticesLocation, NormalsLocation} {
		st, _ := b.VertexAttrib(vao, loc)
		if !st.Enabled || st.Divisor != 0 || st.Size != 3 {
			t.Errorf("vertex slot %d = %+v", loc, st)
		}
	}

	eb, _ := b.Buffer(b.ElementBuffer(vao))
	if !bytes.Equal(eb, common.SliceToBytes([]uint32{0, 1, 2})) || am.IndexCount() != 3 {
		t.Errorf("element buffer = %v", eb)
	}

	// Instance buffers are seeded with one identity entry.
	mw, _ := am.Binder().Attribute(ModelTransformsAttribute)
	got, _ := b.Buffer(mw.Buffer)
	if !bytes.Equal(got, attribute.Mat4s{mgl32.Ident4()}.Bytes()) {
		t.Error("model transform buffer not seeded with identity")
	}
	nt, _ := am.Binder().Attribute(NormalTransformsAttribute)
	got, _ = b.Buffer(nt.Buffer)
	if !bytes.Equal(got, attribute.Mat3s{mgl32.Ident3()}.Bytes()) {
		t.Error("normal transform buffer not seeded with identity")
	}

	if !m.Attached() || m.Vertices() != nil || m.Indices() != nil {
		t.Error("attached mesh kept its geometry")
	}
	if errs := b.Errors(); len(errs) != 0 {
		t.Errorf("backend errors: %v", errs)
	}
}

func TestAttachTwice(t *testing.T) {
	b, p := newInstancedProgram(t)
	m := triangle(t)
	fresh, err := m.Clone("tri2")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := m.Attach(b, p); err != nil {
		t.Fatal(err)
	}

	var ae *AlreadyAttachedError
	if _, err := m.Attach(b, p); !errors.As(err, &ae) {
		t.Errorf("expected AlreadyAttachedError, got %v", err)
	}
	if _, err := m.Clone(""); !errors.As(err, &ae) {
		t.Errorf("expected AlreadyAttachedError from Clone, got %v", err)
	}
	if _, err := fresh.Attach(b, p); err != nil {
		t.Errorf("clone taken before attach failed: %v", err)
	}
}

func TestAttachMissingAttributeIsAtomic(t *testing.T) {
	b := renderer.NewHeadlessBackend()
	p := linkProgram(t, b, `#version 410 core
layout(location = 0) in vec3 vertices;
layout(location = 2) in mat4 object_mw_transforms;
layout(location = 6) in mat3 object_mw_normal_transforms;
out vec3 world_normal;
void main() {
	gl_Position = object_mw_transforms * vec4(vertices, 1.0);
	world_normal = object_mw_normal_transforms * vec3(0.0, 0.0, 1.0);
}
`)
	m := triangle(t)
	_, err := m.Attach(b, p)

	var nf *attribute.NotFoundError
	if !errors.As(err, &nf) || nf.Name != NormalsAttribute {
		t.Fatalf("expected NotFoundError for normals, got %v", err)
	}
	if b.CallCount("GenVertexArray") != 0 || b.CallCount("GenBuffer") != 0 {
		t.Error("failed attach allocated GPU objects")
	}
	if m.Attached() || m.Vertices() == nil {
		t.Error("failed attach consumed the mesh")
	}
}

type scene struct {
	reg  scene_object.Registry
	mesh Attached
}

func newScene(t *testing.T, names ...string) (*renderer.HeadlessBackend, *scene) {
	t.Helper()
	b, p := newInstancedProgram(t)
	am, err := triangle(t).Attach(b, p)
	if err != nil {
		t.Fatal(err)
	}
	s := &scene{reg: scene_object.NewRegistry(), mesh: am}
	for i, name := range names {
		obj := scene_object.NewSceneObject(name, "tri", mgl32.Translate3D(float32(i), 0, 0))
		ref, ok := s.reg.Insert(obj)
		if !ok {
			t.Fatalf("duplicate object %q", name)
		}
		am.AddInstance(ref)
	}
	return b, s
}

func (s *scene) transforms(t *testing.T, b *renderer.HeadlessBackend) []byte {
	t.Helper()
	a, _ := s.mesh.Binder().Attribute(ModelTransformsAttribute)
	got, _ := b.Buffer(a.Buffer)
	return got
}

func TestDrawCollectsEnabledInOrder(t *testing.T) {
	b, s := newScene(t, "a", "b", "c")
	mid, _ := s.reg.Get("b")
	mid.SetEnabled(false)

	n, err := s.mesh.Draw(s.reg)
	if err != nil || n != 2 {
		t.Fatalf("draw = %d, %v", n, err)
	}
	want := attribute.Mat4s{mgl32.Translate3D(0, 0, 0), mgl32.Translate3D(2, 0, 0)}.Bytes()
	if !bytes.Equal(s.transforms(t, b), want) {
		t.Error("instance buffer does not hold a and c in order")
	}

	mid.SetEnabled(true)
	if n, _ := s.mesh.Draw(s.reg); n != 3 {
		t.Errorf("re-enabling changed the count to %d, want 3", n)
	}
	draws := b.Draws()
	if len(draws) != 2 || draws[0].Instances != 2 || draws[1].Instances != 3 || draws[1].Count != 3 {
		t.Errorf("draw calls = %+v", draws)
	}
	if errs := b.Errors(); len(errs) != 0 {
		t.Errorf("backend errors: %v", errs)
	}
}

func TestDrawSingleInstanceUploads(t *testing.T) {
	b, s := newScene(t, "a", "b")
	s.reg.Remove("a")
	if n, _ := s.mesh.Draw(s.reg); n != 1 {
		t.Fatalf("draw = %d, want 1", n)
	}
	want := attribute.Mat4s{mgl32.Translate3D(1, 0, 0)}.Bytes()
	if !bytes.Equal(s.transforms(t, b), want) {
		t.Error("single live instance was not uploaded")
	}
}

func TestDrawDropsDeadRefs(t *testing.T) {
	_, s := newScene(t, "a", "b", "c")
	s.reg.Remove("a")
	s.reg.Remove("c")

	n, err := s.mesh.Draw(s.reg)
	if err != nil || n != 1 {
		t.Fatalf("draw = %d, %v", n, err)
	}
	if s.mesh.Instances() != 1 {
		t.Errorf("dead refs kept: %d observed", s.mesh.Instances())
	}
}

func TestDrawNothingEnabledSkipsBackend(t *testing.T) {
	b, s := newScene(t, "a", "b")
	for _, name := range s.reg.Names() {
		obj, _ := s.reg.Get(name)
		obj.SetEnabled(false)
	}
	before := map[string]int{}
	for _, call := range []string{"UseProgram", "BindVertexArray", "BufferData", "DrawElementsInstanced"} {
		before[call] = b.CallCount(call)
	}

	n, err := s.mesh.Draw(s.reg)
	if err != nil || n != 0 {
		t.Fatalf("draw = %d, %v", n, err)
	}
	for call, count := range before {
		if b.CallCount(call) != count {
			t.Errorf("%s called during an empty draw", call)
		}
	}
	if s.mesh.Instances() != 2 {
		t.Error("disabled instances were dropped")
	}
}

func TestRelease(t *testing.T) {
	b, s := newScene(t, "a")
	s.mesh.Release()
	if b.BufferCount() != 0 {
		t.Errorf("%d buffers left after release", b.BufferCount())
	}
}
