package shader

import (
	"fmt"
	"os"

	"github.com/Carmen-Shannon/oxy-gl/engine/renderer"
)

// shader is the implementation of the Shader interface.
type shader struct {
	b        renderer.RendererBackend
	id       uint32
	stage    renderer.ShaderStage
	source   string
	released bool
}

// Shader is a single compiled pipeline stage. It is consumed by a pipeline at link time.
type Shader interface {
	// ID returns the backend shader object id.
	//
	// Returns:
	//   - uint32: the shader object id, 0 once released
	ID() uint32

	// Stage returns the pipeline stage the shader was compiled for.
	//
	// Returns:
	//   - renderer.ShaderStage: the stage
	Stage() renderer.ShaderStage

	// Source returns the pre-processed GLSL source that was compiled.
	//
	// Returns:
	//   - string: the compiled source
	Source() string

	// Release deletes the backend shader object. Releasing twice is a no-op.
	Release()
}

var _ Shader = &shader{}

// CompileError reports a failed stage compilation with the complete driver log.
type CompileError struct {
	Stage renderer.ShaderStage
	Log   string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("failed to compile %s shader:\n%s", e.Stage, e.Log)
}

// Compile pre-processes and compiles source for the given stage.
//
// Parameters:
//   - b: the backend to compile on
//   - source: the GLSL source, which may contain //@oxy:include annotations
//   - stage: the pipeline stage
//
// Returns:
//   - Shader: the compiled shader
//   - error: a *CompileError carrying the full driver log, or a pre-processing error
func Compile(b renderer.RendererBackend, source string, stage renderer.ShaderStage) (Shader, error) {
	expanded, err := NewPreProcessor().Process(source)
	if err != nil {
		return nil, fmt.Errorf("failed to pre-process %s shader: %w", stage, err)
	}

	id := b.CreateShader(stage)
	if id == 0 {
		return nil, fmt.Errorf("failed to create %s shader object", stage)
	}
	ok, log := b.CompileShader(id, expanded)
	if !ok {
		b.DeleteShader(id)
		return nil, &CompileError{Stage: stage, Log: log}
	}
	return &shader{b: b, id: id, stage: stage, source: expanded}, nil
}

// CompileFile reads GLSL source from path and compiles it for the given stage.
//
// Parameters:
//   - b: the backend to compile on
//   - path: the file path to read GLSL source from
//   - stage: the pipeline stage
//
// Returns:
//   - Shader: the compiled shader
//   - error: an error if the file cannot be read or compilation fails
func CompileFile(b renderer.RendererBackend, path string, stage renderer.ShaderStage) (Shader, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read shader source %q: %w", path, err)
	}
	s, err := Compile(b, string(data), stage)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

func (s *shader) ID() uint32 {
	if s.released {
		return 0
	}
	return s.id
}

func (s *shader) Stage() renderer.ShaderStage {
	return s.stage
}

func (s *shader) Source() string {
	return s.source
}

func (s *shader) Release() {
	if s.released {
		return
	}
	s.b.DeleteShader(s.id)
	s.released = true
}
