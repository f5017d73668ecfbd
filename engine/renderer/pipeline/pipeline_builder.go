package pipeline

import "github.com/Carmen-Shannon/oxy-gl/engine/renderer/shader"

// PipelineBuilderOption is a functional option used to configure a Pipeline during construction.
type PipelineBuilderOption func(*pipeline)

// WithVertexShader sets the vertex stage for this pipeline. Required.
//
// Parameters:
//   - s: the compiled vertex shader
//
// Returns:
//   - PipelineBuilderOption: a function that sets the vertex shader for this pipeline
func WithVertexShader(s shader.Shader) PipelineBuilderOption {
	return func(p *pipeline) {
		p.vertexShader = s
	}
}

// WithFragmentShader sets the fragment stage for this pipeline. Required.
//
// Parameters:
//   - s: the compiled fragment shader
//
// Returns:
//   - PipelineBuilderOption: a function that sets the fragment shader for this pipeline
func WithFragmentShader(s shader.Shader) PipelineBuilderOption {
	return func(p *pipeline) {
		p.fragmentShader = s
	}
}

// WithGeometryShader sets the optional geometry stage for this pipeline.
//
// Parameters:
//   - s: the compiled geometry shader
//
// Returns:
//   - PipelineBuilderOption: a function that sets the geometry shader for this pipeline
func WithGeometryShader(s shader.Shader) PipelineBuilderOption {
	return func(p *pipeline) {
		p.geometryShader = s
	}
}

// WithTessellationShaders sets the optional tessellation stages for this pipeline.
// The control stage may be nil, in which case default tessellation levels apply.
//
// Parameters:
//   - control: the compiled tessellation control shader, or nil
//   - evaluation: the compiled tessellation evaluation shader
//
// Returns:
//   - PipelineBuilderOption: a function that sets the tessellation shaders for this pipeline
func WithTessellationShaders(control, evaluation shader.Shader) PipelineBuilderOption {
	return func(p *pipeline) {
		p.tessControlShader = control
		p.tessEvalShader = evaluation
	}
}
