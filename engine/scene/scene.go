// Package scene reads YAML scene files and applies them to a program.
package scene

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/camera"
	"github.com/Carmen-Shannon/oxy-gl/engine/light"
	"github.com/Carmen-Shannon/oxy-gl/engine/logger"
	"github.com/Carmen-Shannon/oxy-gl/engine/mesh"
	"github.com/Carmen-Shannon/oxy-gl/engine/program"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/animator"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-gl/engine/scene_object"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Description is a scene file: what to open, how to shade, which meshes to load and what to place.
type Description struct {
	Window     WindowConfig      `yaml:"window"`
	Shading    string            `yaml:"shading"`
	ClearColor [4]float32        `yaml:"clear_color"`
	Ambient    *ColorConfig      `yaml:"ambient,omitempty"`
	Material   *MaterialConfig   `yaml:"material,omitempty"`
	Camera     CameraConfig      `yaml:"camera"`
	Meshes     map[string]string `yaml:"meshes"`
	Objects    []ObjectConfig    `yaml:"objects"`
	Lights     []LightConfig     `yaml:"lights,omitempty"`
}

type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

type CameraConfig struct {
	Radius     float32    `yaml:"radius"`
	Target     [3]float32 `yaml:"target"`
	Projection string     `yaml:"projection"`
}

// ObjectConfig places one instance of a mesh. Rotate is in degrees about X, Y and Z; Spin in
// degrees per second.
type ObjectConfig struct {
	Name      string     `yaml:"name"`
	Mesh      string     `yaml:"mesh"`
	Translate [3]float32 `yaml:"translate"`
	Rotate    [3]float32 `yaml:"rotate"`
	Scale     [3]float32 `yaml:"scale"`
	Spin      [3]float32 `yaml:"spin,omitempty"`
	Enabled   *bool      `yaml:"enabled,omitempty"`
}

type ColorConfig struct {
	Color     [3]float32 `yaml:"color"`
	Intensity float32    `yaml:"intensity"`
}

// MaterialConfig overrides the program's surface material. Omitted fields keep the defaults.
type MaterialConfig struct {
	Name      string      `yaml:"name,omitempty"`
	Ambient   *[3]float32 `yaml:"ambient,omitempty"`
	Diffuse   *[3]float32 `yaml:"diffuse,omitempty"`
	Specular  *[3]float32 `yaml:"specular,omitempty"`
	Shininess float32     `yaml:"shininess,omitempty"`
}

// Build creates the configured material.
func (m MaterialConfig) Build() material.Material {
	opts := []material.MaterialBuilderOption{material.WithName(common.Coalesce(m.Name, "scene"))}
	if m.Ambient != nil {
		opts = append(opts, material.WithAmbient(mgl32.Vec3(*m.Ambient)))
	}
	if m.Diffuse != nil {
		opts = append(opts, material.WithDiffuse(mgl32.Vec3(*m.Diffuse)))
	}
	if m.Specular != nil {
		opts = append(opts, material.WithSpecular(mgl32.Vec3(*m.Specular)))
	}
	if m.Shininess != 0 {
		opts = append(opts, material.WithShininess(m.Shininess))
	}
	return material.NewMaterial(opts...)
}

type LightConfig struct {
	Position  [3]float32 `yaml:"position"`
	Color     [3]float32 `yaml:"color"`
	Intensity float32    `yaml:"intensity"`
}

// Default returns the description every scene file is decoded on top of.
func Default() Description {
	return Description{
		Window: WindowConfig{
			Width:  1280,
			Height: 720,
			Title:  "oxyview",
		},
		Shading:    string(shader.ShadingBlinnPhong),
		ClearColor: [4]float32{0.05, 0.05, 0.08, 1},
		Camera: CameraConfig{
			Radius:     camera.DefaultRadius,
			Projection: camera.ProjectionPerspective.String(),
		},
		Meshes: map[string]string{},
	}
}

// Load reads a scene file. Relative mesh paths are resolved against the file's directory.
//
// Parameters:
//   - path: the YAML file
//
// Returns:
//   - Description: the decoded, validated description
//   - error: an I/O, YAML or validation error
func Load(path string) (Description, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Description{}, fmt.Errorf("read scene: %w", err)
	}
	d, err := Parse(data)
	if err != nil {
		return Description{}, fmt.Errorf("scene %s: %w", path, err)
	}
	dir := filepath.Dir(path)
	for name, p := range d.Meshes {
		if !filepath.IsAbs(p) {
			d.Meshes[name] = filepath.Join(dir, p)
		}
	}
	return d, nil
}

// Parse decodes and validates a scene document.
func Parse(data []byte) (Description, error) {
	d := Default()
	if err := yaml.Unmarshal(data, &d); err != nil {
		return Description{}, fmt.Errorf("parse: %w", err)
	}
	d.normalize()
	if err := d.Validate(); err != nil {
		return Description{}, err
	}
	return d, nil
}

// Save writes the description as YAML.
func (d Description) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	enc := yaml.NewEncoder(f)
	enc.SetIndent(2)
	if err := enc.Encode(&d); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}

func (d *Description) normalize() {
	if d.Meshes == nil {
		d.Meshes = map[string]string{}
	}
	for i := range d.Objects {
		if d.Objects[i].Scale == [3]float32{} {
			d.Objects[i].Scale = [3]float32{1, 1, 1}
		}
	}
	for i := range d.Lights {
		if d.Lights[i].Color == [3]float32{} {
			d.Lights[i].Color = [3]float32{1, 1, 1}
		}
		if d.Lights[i].Intensity == 0 {
			d.Lights[i].Intensity = 1
		}
	}
}

// Validate checks references and enumerations. Every problem found is reported.
func (d Description) Validate() error {
	var errs []error
	if d.Window.Width <= 0 || d.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d must be positive", d.Window.Width, d.Window.Height))
	}
	if _, _, err := shader.Preset(shader.Shading(d.Shading)); err != nil {
		errs = append(errs, err)
	}
	switch d.Camera.Projection {
	case camera.ProjectionPerspective.String(), camera.ProjectionOrtho.String():
	default:
		errs = append(errs, fmt.Errorf("unknown projection %q", d.Camera.Projection))
	}
	if d.Material != nil && d.Material.Shininess < 0 {
		errs = append(errs, fmt.Errorf("material shininess %v must not be negative", d.Material.Shininess))
	}
	if len(d.Lights) > light.MaxLights {
		errs = append(errs, fmt.Errorf("%d lights exceed the maximum of %d", len(d.Lights), light.MaxLights))
	}
	seen := make(map[string]bool, len(d.Objects))
	for i, o := range d.Objects {
		switch {
		case o.Name == "":
			errs = append(errs, fmt.Errorf("object %d has no name", i))
		case seen[o.Name]:
			errs = append(errs, fmt.Errorf("object %q is defined twice", o.Name))
		}
		seen[o.Name] = true
		if _, ok := d.Meshes[o.Mesh]; !ok {
			errs = append(errs, fmt.Errorf("object %q uses undeclared mesh %q", o.Name, o.Mesh))
		}
	}
	return errors.Join(errs...)
}

// ShadingModel returns the shading preset.
func (d Description) ShadingModel() shader.Shading {
	return shader.Shading(d.Shading)
}

// ClearColorVec returns the clear color.
func (d Description) ClearColorVec() mgl32.Vec4 {
	return mgl32.Vec4(d.ClearColor)
}

// NewCamera builds the scene camera for a framebuffer aspect ratio.
func (d Description) NewCamera(aspect float32) camera.Camera {
	var proj camera.Projection = camera.DefaultPerspective().WithAspectRatio(aspect)
	if d.Camera.Projection == camera.ProjectionOrtho.String() {
		proj = camera.DefaultOrtho().WithAspectRatio(aspect)
	}
	return camera.NewCamera(
		camera.WithTarget(mgl32.Vec3(d.Camera.Target)),
		camera.WithRadius(d.Camera.Radius),
		camera.WithProjection(proj),
	)
}

// Transform returns the object's model-to-world matrix.
func (o ObjectConfig) Transform() mgl32.Mat4 {
	return o.State().Transform()
}

// State returns the object's placement and spin as animator state, in radians.
func (o ObjectConfig) State() animator.State {
	return animator.State{
		Position: mgl32.Vec3(o.Translate),
		Scale:    mgl32.Vec3(o.Scale),
		Rotation: degToRad(o.Rotate),
		Spin:     degToRad(o.Spin),
	}
}

func degToRad(v [3]float32) mgl32.Vec3 {
	return mgl32.Vec3{mgl32.DegToRad(v[0]), mgl32.DegToRad(v[1]), mgl32.DegToRad(v[2])}
}

// Animator returns an animator driving every object with a non-zero spin.
// It is empty when nothing spins.
//
// Returns:
//   - animator.Animator: the animator, holding every object that could be added
//   - error: an *animator.DuplicateInstanceError per spinning name defined twice, joined
func (d Description) Animator() (animator.Animator, error) {
	a := animator.NewAnimator()
	var errs []error
	for _, o := range d.Objects {
		if o.Spin == [3]float32{} {
			continue
		}
		if _, err := a.Add(o.Name, o.State()); err != nil {
			errs = append(errs, err)
		}
	}
	return a, errors.Join(errs...)
}

// Apply attaches the scene's meshes to p in name order, then creates its objects and lights.
//
// Parameters:
//   - p: the program to populate
//   - meshes: unattached meshes keyed by the names used in the description
//
// Returns:
//   - error: the first attach, object or light error
func (d Description) Apply(p program.Program, meshes map[string]*mesh.Mesh) error {
	names := make([]string, 0, len(d.Meshes))
	for name := range d.Meshes {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		m, ok := meshes[name]
		if !ok {
			return &program.MeshNotFoundError{Name: name}
		}
		if _, err := p.AddMesh(m); err != nil {
			return fmt.Errorf("attach mesh %q: %w", name, err)
		}
	}

	if d.Material != nil {
		if err := p.SetMaterial(d.Material.Build()); err != nil {
			return fmt.Errorf("material: %w", err)
		}
	}
	if d.Ambient != nil {
		c := d.Ambient.Color
		if err := p.SetAmbientLight(light.NewLightColor(c[0], c[1], c[2], d.Ambient.Intensity)); err != nil {
			return fmt.Errorf("ambient light: %w", err)
		}
	}

	for _, o := range d.Objects {
		var opts []scene_object.SceneObjectBuilderOption
		if o.Enabled != nil {
			opts = append(opts, scene_object.WithEnabled(*o.Enabled))
		}
		if _, err := p.AddObject(o.Name, o.Mesh, o.Transform(), opts...); err != nil {
			return fmt.Errorf("object %q: %w", o.Name, err)
		}
	}

	for i, l := range d.Lights {
		color := light.NewLightColor(l.Color[0], l.Color[1], l.Color[2], l.Intensity)
		if err := p.AddLight(mgl32.Vec3(l.Position), color); err != nil {
			return fmt.Errorf("light %d: %w", i, err)
		}
	}

	logger.Log.Debug("scene applied",
		zap.Int("meshes", len(names)),
		zap.Int("objects", len(d.Objects)),
		zap.Int("lights", len(d.Lights)),
	)
	return nil
}
