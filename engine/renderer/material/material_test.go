package material

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/uniform"
	"github.com/go-gl/mathgl/mgl32"
)

func TestNewMaterialClamps(t *testing.T) {
	m := NewMaterial(
		WithName("hot"),
		WithDiffuse(mgl32.Vec3{2, -1, 0.5}),
		WithShininess(0),
	)
	if m.Name() != "hot" {
		t.Errorf("name: got %q", m.Name())
	}
	if m.Diffuse() != (mgl32.Vec3{1, 0, 0.5}) {
		t.Errorf("diffuse: got %v", m.Diffuse())
	}
	if m.Shininess() != 1 {
		t.Errorf("shininess: got %v, want clamped to 1", m.Shininess())
	}
	if got := m.WithShininess(5000).Shininess(); got != 1024 {
		t.Errorf("WithShininess: got %v, want 1024", got)
	}
	if m.Shininess() != 1 {
		t.Error("WithShininess modified the original")
	}
}

func TestUniforms(t *testing.T) {
	m := NewMaterial(WithSpecular(mgl32.Vec3{0.1, 0.2, 0.3}), WithShininess(16))
	u := m.Uniforms()
	if len(u) != 4 {
		t.Fatalf("got %d uniforms, want 4", len(u))
	}
	if u[SpecularUniform] != uniform.Vec3(mgl32.Vec3{0.1, 0.2, 0.3}) {
		t.Errorf("specular: got %v", u[SpecularUniform])
	}
	if u[ShininessUniform] != uniform.Float(16) {
		t.Errorf("shininess: got %v", u[ShininessUniform])
	}
	if u[AmbientUniform] != uniform.Vec3(mgl32.Vec3{0.9, 0.9, 0.9}) {
		t.Errorf("ambient default: got %v", u[AmbientUniform])
	}
}
