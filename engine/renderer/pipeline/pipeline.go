package pipeline

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-gl/engine/logger"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/shader"
	"go.uber.org/zap"
)

// pipeline is the implementation of the Pipeline interface.
// It accumulates compiled stages and links them into a single program object.
type pipeline struct {
	// pipelineKey is the unique identifier for this pipeline, used in logs and errors
	pipelineKey string

	b renderer.RendererBackend

	// the vertex and fragment stages are mandatory; the remaining stages are optional.

	vertexShader, fragmentShader shader.Shader
	geometryShader               shader.Shader
	tessControlShader            shader.Shader
	tessEvalShader               shader.Shader

	// programID is 0 until Link succeeds
	programID uint32
}

// Pipeline is a set of shader stages linked into one program object.
//
// Stages are supplied through builder options; Link validates that the mandatory vertex and
// fragment stages are present, links every supplied stage and releases the stage objects once
// the program is linked. The program id then stays valid until Release.
type Pipeline interface {
	// PipelineKey returns the unique identifier of the pipeline.
	//
	// Returns:
	//   - string: the pipeline key
	PipelineKey() string

	// ProgramID returns the linked program object id.
	//
	// Returns:
	//   - uint32: the program id, 0 before a successful Link or after Release
	ProgramID() uint32

	// Linked reports whether Link has succeeded.
	//
	// Returns:
	//   - bool: true once the program is linked
	Linked() bool

	// Link creates a program object, attaches every stage and links it.
	// Linking an already linked pipeline is a no-op.
	//
	// Returns:
	//   - error: a *MissingStageError if the vertex or fragment stage is absent, or a *LinkError with the full driver log
	Link() error

	// Release deletes the program object and any stage objects not yet released.
	Release()
}

var _ Pipeline = &pipeline{}

// MissingStageError is returned when linking without a mandatory stage.
type MissingStageError struct {
	Stage renderer.ShaderStage
}

func (e *MissingStageError) Error() string {
	return fmt.Sprintf("pipeline is missing its %s stage", e.Stage)
}

// LinkError reports a failed program link with the complete driver log.
type LinkError struct {
	Log string
}

func (e *LinkError) Error() string {
	return fmt.Sprintf("failed to link program:\n%s", e.Log)
}

// NewPipeline creates an unlinked Pipeline with all specified options applied.
//
// Parameters:
//   - pipelineKey: a unique identifier for the pipeline
//   - b: the backend the program object is created on
//   - opts: variadic list of PipelineBuilderOption functions supplying the stages
//
// Returns:
//   - Pipeline: the unlinked pipeline
func NewPipeline(pipelineKey string, b renderer.RendererBackend, opts ...PipelineBuilderOption) Pipeline {
	p := &pipeline{
		pipelineKey: pipelineKey,
		b:           b,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// FromSources compiles a vertex and fragment source pair and links them.
//
// Parameters:
//   - pipelineKey: a unique identifier for the pipeline
//   - b: the backend to compile and link on
//   - vertexSource: GLSL source of the vertex stage
//   - fragmentSource: GLSL source of the fragment stage
//
// Returns:
//   - Pipeline: the linked pipeline
//   - error: a *shader.CompileError, *LinkError or other setup error
func FromSources(pipelineKey string, b renderer.RendererBackend, vertexSource, fragmentSource string) (Pipeline, error) {
	vs, err := shader.Compile(b, vertexSource, renderer.ShaderStageVertex)
	if err != nil {
		return nil, err
	}
	fs, err := shader.Compile(b, fragmentSource, renderer.ShaderStageFragment)
	if err != nil {
		vs.Release()
		return nil, err
	}
	p := NewPipeline(pipelineKey, b, WithVertexShader(vs), WithFragmentShader(fs))
	if err := p.Link(); err != nil {
		p.Release()
		return nil, err
	}
	return p, nil
}

// Link attaches stages to an existing program object and links it. Stage objects are detached
// and released once linking succeeds; on failure they are left attached for inspection.
//
// Parameters:
//   - b: the backend owning the program
//   - programID: the program object id
//   - stages: the compiled stages; a vertex and a fragment stage are required
//
// Returns:
//   - error: a *MissingStageError or *LinkError
func Link(b renderer.RendererBackend, programID uint32, stages ...shader.Shader) error {
	var hasVertex, hasFragment bool
	for _, s := range stages {
		switch s.Stage() {
		case renderer.ShaderStageVertex:
			hasVertex = true
		case renderer.ShaderStageFragment:
			hasFragment = true
		}
	}
	if !hasVertex {
		return &MissingStageError{Stage: renderer.ShaderStageVertex}
	}
	if !hasFragment {
		return &MissingStageError{Stage: renderer.ShaderStageFragment}
	}

	for _, s := range stages {
		b.AttachShader(programID, s.ID())
	}
	ok, log := b.LinkProgram(programID)
	if !ok {
		return &LinkError{Log: log}
	}
	for _, s := range stages {
		b.DetachShader(programID, s.ID())
		s.Release()
	}
	return nil
}

func (p *pipeline) stages() []shader.Shader {
	var out []shader.Shader
	for _, s := range []shader.Shader{p.vertexShader, p.tessControlShader, p.tessEvalShader, p.geometryShader, p.fragmentShader} {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}

func (p *pipeline) PipelineKey() string {
	return p.pipelineKey
}

func (p *pipeline) ProgramID() uint32 {
	return p.programID
}

func (p *pipeline) Linked() bool {
	return p.programID != 0
}

func (p *pipeline) Link() error {
	if p.programID != 0 {
		return nil
	}
	if p.vertexShader == nil {
		return &MissingStageError{Stage: renderer.ShaderStageVertex}
	}
	if p.fragmentShader == nil {
		return &MissingStageError{Stage: renderer.ShaderStageFragment}
	}

	id := p.b.CreateProgram()
	if id == 0 {
		return fmt.Errorf("pipeline %s: failed to create program object", p.pipelineKey)
	}
	if err := Link(p.b, id, p.stages()...); err != nil {
		p.b.DeleteProgram(id)
		return fmt.Errorf("pipeline %s: %w", p.pipelineKey, err)
	}
	p.programID = id
	logger.Log.Debug("linked pipeline",
		zap.String("pipeline", p.pipelineKey),
		zap.Uint32("program", id),
		zap.Int("stages", len(p.stages())))
	return nil
}

func (p *pipeline) Release() {
	for _, s := range p.stages() {
		s.Release()
	}
	if p.programID != 0 {
		p.b.DeleteProgram(p.programID)
		p.programID = 0
	}
}
