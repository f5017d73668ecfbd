package uniform

import (
	"bytes"
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-gl/engine/renderer"
	"github.com/go-gl/mathgl/mgl32"
)

const vertexSource = `#version 410 core
layout(location = 0) in vec3 vertices;
uniform mat4 mvp;
uniform float time;
void main() {
	gl_Position = mvp * vec4(vertices, time);
}
`

const fragmentSource = `#version 410 core
struct Light {
	vec4 color;
	vec4 position;
};
layout(std140) uniform Lights {
	Light lights[100];
};
uniform uint num_lights;
uniform vec4 tint;
out vec4 color;
void main() {
	color = tint * float(num_lights);
}
`

func newTestStore(t *testing.T) (*renderer.HeadlessBackend, Store, uint32) {
	t.Helper()
	b := renderer.NewHeadlessBackend()
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
	return b, NewStore(b, p), p
}

func TestCreateAndUpdate(t *testing.T) {
	b, s, p := newTestStore(t)

	if _, err := s.Create("time", Float(1.5)); err != nil {
		t.Fatal(err)
	}
	if err := s.Update("time", Float(2.5)); err != nil {
		t.Fatal(err)
	}
	got, ok := b.UniformValue(p, "time")
	if !ok || len(got) != 1 || got[0] != 2.5 {
		t.Errorf("time = %v, want [2.5]", got)
	}

	m := mgl32.Translate3D(1, 2, 3)
	if _, err := s.Create("mvp", Mat4(m)); err != nil {
		t.Fatal(err)
	}
	got, _ = b.UniformValue(p, "mvp")
	if len(got) != 16 || got[12] != 1 || got[13] != 2 || got[14] != 3 {
		t.Errorf("mvp = %v", got)
	}
	if errs := b.Errors(); len(errs) != 0 {
		t.Errorf("backend errors: %v", errs)
	}
}

func TestCreateUnknownUniform(t *testing.T) {
	_, s, _ := newTestStore(t)
	_, err := s.Create("does_not_exist", Float(1))

	var nf *NotFoundError
	if !errors.As(err, &nf) || nf.Name != "does_not_exist" {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if s.Has("does_not_exist") {
		t.Error("failed create registered the uniform")
	}
}

func TestUpdateBeforeCreate(t *testing.T) {
	b, s, p := newTestStore(t)
	err := s.Update("tint", Vec4{1, 0, 0, 1})

	var na *NotAttachedError
	if !errors.As(err, &na) || na.Name != "tint" {
		t.Fatalf("expected NotAttachedError, got %v", err)
	}
	if _, ok := b.UniformValue(p, "tint"); ok {
		t.Error("update before create wrote a value")
	}
}

func TestUpdateSelectsProgram(t *testing.T) {
	b, s, p := newTestStore(t)
	if _, err := s.Create("num_lights", Uint(0)); err != nil {
		t.Fatal(err)
	}
	b.UseProgram(0)
	if err := s.Update("num_lights", Uint(3)); err != nil {
		t.Fatal(err)
	}
	if b.CurrentProgram() != p {
		t.Errorf("current program = %d, want %d", b.CurrentProgram(), p)
	}
	got, _ := b.UniformValue(p, "num_lights")
	if len(got) != 1 || got[0] != 3 {
		t.Errorf("num_lights = %v, want [3]", got)
	}
}

func TestHandleIsWeak(t *testing.T) {
	_, s, _ := newTestStore(t)
	h, err := s.Create("tint", Vec4{1, 1, 1, 1})
	if err != nil {
		t.Fatal(err)
	}
	if err := h.Update(Vec4{0, 1, 0, 1}); err != nil {
		t.Fatal(err)
	}

	s.Release()
	if h.Alive() {
		t.Error("handle alive after release")
	}
	var na *NotAttachedError
	if err := h.Update(Vec4{}); !errors.As(err, &na) {
		t.Errorf("expected NotAttachedError after release, got %v", err)
	}
	if err := (Handle{}).Update(Float(0)); !errors.As(err, &na) {
		t.Errorf("expected NotAttachedError for zero handle, got %v", err)
	}
}

func TestRemove(t *testing.T) {
	_, s, _ := newTestStore(t)
	h, _ := s.Create("time", Float(0))
	if !s.Remove("time") {
		t.Fatal("remove returned false")
	}
	if s.Remove("time") {
		t.Error("second remove returned true")
	}
	if h.Alive() {
		t.Error("handle alive after remove")
	}
	if !s.Declared("time") {
		t.Error("removed uniform no longer declared by the program")
	}
}

func TestCreateBlock(t *testing.T) {
	b, s, p := newTestStore(t)
	blk, err := s.CreateBlock("Lights", 1)
	if err != nil {
		t.Fatal(err)
	}
	if binding, ok := b.UniformBlockBindingOf(p, "Lights"); !ok || binding != 1 {
		t.Errorf("Lights binding = %d, %v", binding, ok)
	}

	data := bytes.Repeat([]byte{0xAB}, 64)
	blk.Upload(data)
	if b.UniformBufferAt(1) != blk.Buffer() {
		t.Errorf("binding 1 holds buffer %d, want %d", b.UniformBufferAt(1), blk.Buffer())
	}
	got, _ := b.Buffer(blk.Buffer())
	if !bytes.Equal(got, data) || blk.Size() != 64 {
		t.Errorf("block buffer = %d bytes, size %d", len(got), blk.Size())
	}

	blk.Upload(data[:32])
	got, _ = b.Buffer(blk.Buffer())
	if len(got) != 32 {
		t.Errorf("upload did not replace the whole buffer: %d bytes", len(got))
	}

	again, err := s.CreateBlock("Lights", 1)
	if err != nil || again.Buffer() != blk.Buffer() {
		t.Errorf("second CreateBlock allocated a new buffer")
	}
}

func TestCreateBlockUnknown(t *testing.T) {
	b, s, _ := newTestStore(t)
	before := b.BufferCount()
	_, err := s.CreateBlock("Materials", 2)

	var bi *BlockIndexNotFoundError
	if !errors.As(err, &bi) || bi.Name != "Materials" {
		t.Fatalf("expected BlockIndexNotFoundError, got %v", err)
	}
	if b.BufferCount() != before {
		t.Error("failed CreateBlock allocated a buffer")
	}
}
