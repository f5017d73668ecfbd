package material

import "github.com/go-gl/mathgl/mgl32"

// MaterialBuilderOption is a functional option for configuring a Material during construction via NewMaterial.
type MaterialBuilderOption func(*material)

// WithName sets the material identifier.
//
// Parameters:
//   - name: the material name
//
// Returns:
//   - MaterialBuilderOption: a function that applies the name option to a material
func WithName(name string) MaterialBuilderOption {
	return func(m *material) {
		m.name = name
	}
}

// WithAmbient sets the ambient reflectance.
//
// Parameters:
//   - c: RGB reflectance
//
// Returns:
//   - MaterialBuilderOption: a function that applies the ambient option to a material
func WithAmbient(c mgl32.Vec3) MaterialBuilderOption {
	return func(m *material) {
		m.ambient = c
	}
}

// WithDiffuse sets the diffuse reflectance.
//
// Parameters:
//   - c: RGB reflectance
//
// Returns:
//   - MaterialBuilderOption: a function that applies the diffuse option to a material
func WithDiffuse(c mgl32.Vec3) MaterialBuilderOption {
	return func(m *material) {
		m.diffuse = c
	}
}

// WithSpecular sets the specular reflectance.
//
// Parameters:
//   - c: RGB reflectance
//
// Returns:
//   - MaterialBuilderOption: a function that applies the specular option to a material
func WithSpecular(c mgl32.Vec3) MaterialBuilderOption {
	return func(m *material) {
		m.specular = c
	}
}

// WithShininess sets the specular exponent.
func WithShininess(shininess float32) MaterialBuilderOption {
	return func(m *material) {
		m.shininess = shininess
	}
}
