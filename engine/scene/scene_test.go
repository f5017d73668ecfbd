package scene

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Carmen-Shannon/oxy-gl/engine/camera"
	"github.com/Carmen-Shannon/oxy-gl/engine/mesh"
	"github.com/Carmen-Shannon/oxy-gl/engine/program"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/animator"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/shader"
	"github.com/go-gl/mathgl/mgl32"
)

const sceneYAML = `
window:
  width: 640
  height: 480
  title: test scene
shading: phong
clear_color: [0.1, 0.2, 0.3, 1]
ambient:
  color: [1, 1, 1]
  intensity: 0.2
material:
  name: matte
  diffuse: [0.5, 0.5, 0.5]
  shininess: 4
camera:
  radius: 12
  projection: ortho
meshes:
  tri: models/tri.obj
objects:
  - name: a
    mesh: tri
    translate: [1, 0, 0]
    spin: [0, 90, 0]
  - name: b
    mesh: tri
    rotate: [0, 90, 0]
    scale: [2, 2, 2]
    enabled: false
lights:
  - position: [0, 10, 0]
  - position: [5, 5, 5]
    color: [1, 0, 0]
    intensity: 0.5
`

func triangle(t *testing.T, name string) *mesh.Mesh {
	t.Helper()
	m, err := mesh.NewMesh(name,
		[]mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
		[]mgl32.Vec3{{0, 0, 1}, {0, 0, 1}, {0, 0, 1}},
		nil,
		[]uint32{0, 1, 2},
	)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestParse(t *testing.T) {
	d, err := Parse([]byte(sceneYAML))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if d.Window.Width != 640 || d.Window.Height != 480 || d.Window.Title != "test scene" {
		t.Errorf("window: got %+v", d.Window)
	}
	if d.ShadingModel() != shader.ShadingPhong {
		t.Errorf("shading: got %q", d.Shading)
	}
	if d.ClearColorVec() != (mgl32.Vec4{0.1, 0.2, 0.3, 1}) {
		t.Errorf("clear color: got %v", d.ClearColorVec())
	}
	if d.Objects[0].Scale != [3]float32{1, 1, 1} {
		t.Errorf("default scale: got %v", d.Objects[0].Scale)
	}
	if d.Objects[1].Enabled == nil || *d.Objects[1].Enabled {
		t.Error("object b should be disabled")
	}
	if d.Lights[0].Color != [3]float32{1, 1, 1} || d.Lights[0].Intensity != 1 {
		t.Errorf("light defaults: got %+v", d.Lights[0])
	}
	if d.Lights[1].Intensity != 0.5 {
		t.Errorf("light intensity: got %v", d.Lights[1].Intensity)
	}
}

func TestParseDefaults(t *testing.T) {
	d, err := Parse([]byte("meshes: {}\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	def := Default()
	if d.Window != def.Window || d.Shading != def.Shading || d.Camera != def.Camera {
		t.Errorf("got %+v, want defaults %+v", d, def)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"shading", "shading: toon\n", "unknown shading"},
		{"projection", "camera: {projection: fisheye}\n", "unknown projection"},
		{"window", "window: {width: 0}\n", "must be positive"},
		{"undeclared mesh", "objects: [{name: a, mesh: nope}]\n", "undeclared mesh"},
		{"unnamed object", "meshes: {m: m.obj}\nobjects: [{mesh: m}]\n", "has no name"},
		{"duplicate object", "meshes: {m: m.obj}\nobjects: [{name: a, mesh: m}, {name: a, mesh: m}]\n", "defined twice"},
		{"material", "material: {shininess: -1}\n", "must not be negative"},
		{"bad yaml", "clear_color: [1, 2]\n", "parse"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("got %v, want an error containing %q", err, tt.want)
			}
		})
	}
}

func TestLoadResolvesMeshPaths(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scene.yaml")
	abs := filepath.Join(dir, "abs.obj")
	doc := strings.Replace(sceneYAML, "  tri: models/tri.obj\n", "  tri: models/tri.obj\n  abs: "+abs+"\n", 1)
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	d, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got, want := d.Meshes["tri"], filepath.Join(dir, "models", "tri.obj"); got != want {
		t.Errorf("relative mesh: got %q, want %q", got, want)
	}
	if d.Meshes["abs"] != abs {
		t.Errorf("absolute mesh: got %q, want %q", d.Meshes["abs"], abs)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	d, err := Parse([]byte(sceneYAML))
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := d.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	back, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(back.Objects) != 2 || back.Objects[1].Rotate != d.Objects[1].Rotate || back.Camera != d.Camera {
		t.Errorf("round trip changed the scene: %+v", back)
	}
}

func TestNewCamera(t *testing.T) {
	d, err := Parse([]byte(sceneYAML))
	if err != nil {
		t.Fatal(err)
	}
	c := d.NewCamera(2)
	if c.Radius() != 12 {
		t.Errorf("radius: got %v", c.Radius())
	}
	if c.Projection().Kind() != camera.ProjectionOrtho || c.Projection().AspectRatio() != 2 {
		t.Errorf("projection: got %v aspect %v", c.Projection().Kind(), c.Projection().AspectRatio())
	}
}

func TestObjectTransform(t *testing.T) {
	o := ObjectConfig{Translate: [3]float32{1, 2, 3}, Rotate: [3]float32{0, 90, 0}, Scale: [3]float32{2, 2, 2}}
	got := o.Transform().Mul4x1(mgl32.Vec4{1, 0, 0, 1})
	// +X rotated 90 degrees about Y points to -Z, scaled by 2, then translated
	want := mgl32.Vec4{1, 2, 1, 1}
	if !got.ApproxEqualThreshold(want, 1e-5) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestApply(t *testing.T) {
	d, err := Parse([]byte(sceneYAML))
	if err != nil {
		t.Fatal(err)
	}
	b := renderer.NewHeadlessBackend()
	r, err := renderer.NewRenderer(renderer.BackendTypeHeadless, renderer.WithBackend(b))
	if err != nil {
		t.Fatal(err)
	}
	p, err := program.NewProgram(r, program.WithShading(d.ShadingModel()))
	if err != nil {
		t.Fatal(err)
	}

	if err := d.Apply(p, map[string]*mesh.Mesh{"tri": triangle(t, "tri")}); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if p.Objects() != 2 {
		t.Errorf("objects: got %d, want 2", p.Objects())
	}
	if len(p.Lights()) != 2 {
		t.Errorf("lights: got %d, want 2", len(p.Lights()))
	}
	if m := p.Material(); m.Name() != "matte" || m.Shininess() != 4 || m.Diffuse() != (mgl32.Vec3{0.5, 0.5, 0.5}) {
		t.Errorf("material: got %s shininess %v diffuse %v", m.Name(), m.Shininess(), m.Diffuse())
	}
	if m := p.Material(); m.Specular() != (mgl32.Vec3{1, 1, 1}) {
		t.Errorf("unset specular should keep the default, got %v", m.Specular())
	}
	stats, err := p.Draw()
	if err != nil {
		t.Fatalf("Draw: %v", err)
	}
	if stats.Instances != 1 {
		t.Errorf("instances drawn: got %d, want 1 (b is disabled)", stats.Instances)
	}
}

func TestAnimator(t *testing.T) {
	d, err := Parse([]byte(sceneYAML))
	if err != nil {
		t.Fatal(err)
	}
	a, err := d.Animator()
	if err != nil {
		t.Fatal(err)
	}
	if a.Len() != 1 {
		t.Fatalf("animated objects: got %d, want 1", a.Len())
	}
	s, ok := a.State("a")
	if !ok || !mgl32.FloatEqualThreshold(s.Spin.Y(), mgl32.DegToRad(90), 1e-6) {
		t.Errorf("spin: got %v", s.Spin)
	}

	r, err := renderer.NewRenderer(renderer.BackendTypeHeadless)
	if err != nil {
		t.Fatal(err)
	}
	p, err := program.NewProgram(r, program.WithShading(d.ShadingModel()))
	if err != nil {
		t.Fatal(err)
	}
	if err := d.Apply(p, map[string]*mesh.Mesh{"tri": triangle(t, "tri")}); err != nil {
		t.Fatal(err)
	}
	a.PrepareFrame(1)
	if n, err := a.Flush(p); err != nil || n != 1 {
		t.Fatalf("Flush: n=%d err=%v", n, err)
	}
	obj, _ := p.Object("a")
	// +X turned 90 degrees about Y lands on -Z, then translated by +X
	got := obj.ModelTransform().Mul4x1(mgl32.Vec4{1, 0, 0, 1})
	if !got.ApproxEqualThreshold(mgl32.Vec4{1, 0, -1, 1}, 1e-5) {
		t.Errorf("animated transform moved +X to %v", got)
	}
}

func TestAnimatorDuplicateSpin(t *testing.T) {
	d := Default()
	d.Objects = []ObjectConfig{
		{Name: "twin", Mesh: "m", Spin: [3]float32{0, 10, 0}},
		{Name: "twin", Mesh: "m", Spin: [3]float32{10, 0, 0}},
	}
	a, err := d.Animator()
	var dup *animator.DuplicateInstanceError
	if !errors.As(err, &dup) || dup.Name != "twin" {
		t.Fatalf("expected DuplicateInstanceError for twin, got %v", err)
	}
	if a.Len() != 1 {
		t.Errorf("animated objects: got %d, want 1", a.Len())
	}
}

func TestApplyMissingMesh(t *testing.T) {
	d, err := Parse([]byte(sceneYAML))
	if err != nil {
		t.Fatal(err)
	}
	r, err := renderer.NewRenderer(renderer.BackendTypeHeadless)
	if err != nil {
		t.Fatal(err)
	}
	p, err := program.NewProgram(r)
	if err != nil {
		t.Fatal(err)
	}
	err = d.Apply(p, nil)
	var nf *program.MeshNotFoundError
	if !errors.As(err, &nf) || nf.Name != "tri" {
		t.Errorf("got %v, want *program.MeshNotFoundError for tri", err)
	}
}
