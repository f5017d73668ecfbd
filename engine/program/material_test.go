package program

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/uniform"
	"github.com/go-gl/mathgl/mgl32"
)

func TestDefaultMaterialUploaded(t *testing.T) {
	tests := []struct {
		shading   shader.Shading
		shininess float32
	}{
		{shader.ShadingBlinnPhong, material.DefaultShininess},
		{shader.ShadingPhong, phongShininess},
	}
	for _, tt := range tests {
		t.Run(string(tt.shading), func(t *testing.T) {
			b, p := newTestProgram(t, WithShading(tt.shading))
			if p.Material() == nil {
				t.Fatal("expected a default material")
			}
			got, ok := b.UniformValue(p.ID(), material.ShininessUniform)
			if !ok || got[0] != tt.shininess {
				t.Errorf("shininess: got %v, want %v", got, tt.shininess)
			}
			diffuse, _ := b.UniformValue(p.ID(), material.DiffuseUniform)
			if len(diffuse) != 3 || diffuse[0] != 0.9 {
				t.Errorf("diffuse: got %v", diffuse)
			}
		})
	}
}

func TestWithMaterial(t *testing.T) {
	m := material.NewMaterial(material.WithName("red"), material.WithDiffuse(mgl32.Vec3{1, 0, 0}))
	b, p := newTestProgram(t, WithMaterial(m))
	if p.Material().Name() != "red" {
		t.Errorf("material: got %q", p.Material().Name())
	}
	got, _ := b.UniformValue(p.ID(), material.DiffuseUniform)
	if len(got) != 3 || got[0] != 1 || got[1] != 0 {
		t.Errorf("diffuse: got %v", got)
	}
}

func TestSetMaterial(t *testing.T) {
	b, p := newTestProgram(t)
	if err := p.SetMaterial(material.NewMaterial(material.WithShininess(8))); err != nil {
		t.Fatal(err)
	}
	got, _ := b.UniformValue(p.ID(), material.ShininessUniform)
	if got[0] != 8 {
		t.Errorf("shininess: got %v, want 8", got)
	}

	_, unlit := newTestProgram(t, WithSources(unlitVertex, unlitFragment))
	if unlit.Material() != nil {
		t.Error("unlit program should have no material")
	}
	var nf *uniform.NotFoundError
	if err := unlit.SetMaterial(material.NewMaterial()); !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}
