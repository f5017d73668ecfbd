package material

import (
	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/uniform"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	DefaultShininess float32 = 128
	minShininess     float32 = 1
	maxShininess     float32 = 1024
)

// material is the implementation of the Material interface.
type material struct {
	name      string
	ambient   mgl32.Vec3
	diffuse   mgl32.Vec3
	specular  mgl32.Vec3
	shininess float32
}

// Material is a Phong surface description: reflectance per light term and a specular exponent.
// Materials are immutable; WithShininess returns a modified copy.
type Material interface {
	// Name retrieves the material identifier.
	//
	// Returns:
	//   - string: the name of the material
	Name() string

	// Ambient retrieves the reflectance applied to the ambient light color.
	Ambient() mgl32.Vec3

	// Diffuse retrieves the Lambertian reflectance.
	Diffuse() mgl32.Vec3

	// Specular retrieves the specular reflectance.
	Specular() mgl32.Vec3

	// Shininess retrieves the specular exponent.
	Shininess() float32

	// WithShininess returns a copy with a new specular exponent.
	//
	// Parameters:
	//   - shininess: the exponent, clamped to [1, 1024]
	//
	// Returns:
	//   - Material: the modified copy
	WithShininess(shininess float32) Material

	// Uniforms returns the values to upload, keyed by uniform name.
	//
	// Returns:
	//   - map[string]uniform.Value: one entry per uniform in GPUMaterialSource
	Uniforms() map[string]uniform.Value
}

var _ Material = &material{}

// NewMaterial creates a light grey, fully specular material, then applies options.
// Every color channel is clamped to [0, 1].
//
// Parameters:
//   - options: variadic MaterialBuilderOption functions
//
// Returns:
//   - Material: the configured material
func NewMaterial(options ...MaterialBuilderOption) Material {
	m := &material{
		name:      "default",
		ambient:   mgl32.Vec3{0.9, 0.9, 0.9},
		diffuse:   mgl32.Vec3{0.9, 0.9, 0.9},
		specular:  mgl32.Vec3{1, 1, 1},
		shininess: DefaultShininess,
	}
	for _, opt := range options {
		opt(m)
	}
	m.ambient = clampColor(m.ambient)
	m.diffuse = clampColor(m.diffuse)
	m.specular = clampColor(m.specular)
	m.shininess = common.Clamp(m.shininess, minShininess, maxShininess)
	return m
}

func clampColor(c mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{common.Clamp(c[0], 0, 1), common.Clamp(c[1], 0, 1), common.Clamp(c[2], 0, 1)}
}

func (m *material) Name() string {
	return m.name
}

func (m *material) Ambient() mgl32.Vec3 {
	return m.ambient
}

func (m *material) Diffuse() mgl32.Vec3 {
	return m.diffuse
}

func (m *material) Specular() mgl32.Vec3 {
	return m.specular
}

func (m *material) Shininess() float32 {
	return m.shininess
}

func (m *material) WithShininess(shininess float32) Material {
	c := *m
	c.shininess = common.Clamp(shininess, minShininess, maxShininess)
	return &c
}

func (m *material) Uniforms() map[string]uniform.Value {
	return map[string]uniform.Value{
		AmbientUniform:   uniform.Vec3(m.ambient),
		DiffuseUniform:   uniform.Vec3(m.diffuse),
		SpecularUniform:  uniform.Vec3(m.specular),
		ShininessUniform: uniform.Float(m.shininess),
	}
}
