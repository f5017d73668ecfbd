package program

import (
	"github.com/Carmen-Shannon/oxy-gl/engine/camera"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/shader"
)

// ProgramBuilderOption is a functional option for configuring a Program during construction.
type ProgramBuilderOption func(*program)

// WithName sets the pipeline key used in logs and errors.
//
// Parameters:
//   - name: the program name
//
// Returns:
//   - ProgramBuilderOption: a function that sets the program name
func WithName(name string) ProgramBuilderOption {
	return func(p *program) {
		p.name = name
	}
}

// WithShading selects a built-in shader preset. Ignored when WithSources is also given.
//
// Parameters:
//   - s: the shading model
//
// Returns:
//   - ProgramBuilderOption: a function that sets the shading preset
func WithShading(s shader.Shading) ProgramBuilderOption {
	return func(p *program) {
		p.shading = s
	}
}

// WithSources supplies custom vertex and fragment GLSL. The sources may use //@oxy:include.
//
// Parameters:
//   - vertexSource: GLSL source of the vertex stage
//   - fragmentSource: GLSL source of the fragment stage
//
// Returns:
//   - ProgramBuilderOption: a function that sets the shader sources
func WithSources(vertexSource, fragmentSource string) ProgramBuilderOption {
	return func(p *program) {
		p.vertexSource = vertexSource
		p.fragmentSource = fragmentSource
	}
}

// WithCamera sets the camera whose uniforms are uploaded each frame.
//
// Parameters:
//   - cam: the camera
//
// Returns:
//   - ProgramBuilderOption: a function that sets the camera
func WithCamera(cam camera.Camera) ProgramBuilderOption {
	return func(p *program) {
		p.camera = cam
	}
}

// WithMagicUniforms enables the per-frame time and resolution uniforms when the shader declares them.
//
// Parameters:
//   - enabled: true to upload time and resolution every frame
//
// Returns:
//   - ProgramBuilderOption: a function that toggles the magic uniforms
func WithMagicUniforms(enabled bool) ProgramBuilderOption {
	return func(p *program) {
		p.magicUniforms = enabled
	}
}

// WithMaterial sets the initial surface material. It is uploaded at construction when the shader
// includes the material block.
//
// Parameters:
//   - m: the material
//
// Returns:
//   - ProgramBuilderOption: a function that sets the material
func WithMaterial(m material.Material) ProgramBuilderOption {
	return func(p *program) {
		p.material = m
	}
}
