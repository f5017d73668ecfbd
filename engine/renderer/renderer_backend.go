package renderer

import "github.com/go-gl/mathgl/mgl32"

// RendererBackendType identifies the graphics backend implementation used by the Renderer.
type RendererBackendType int

const (
	// BackendTypeGL selects the OpenGL 4.1 core backend. A GL context must be current on the calling thread.
	BackendTypeGL RendererBackendType = iota

	// BackendTypeHeadless selects the in-memory recording backend. It needs no context or display.
	BackendTypeHeadless
)

func (t RendererBackendType) String() string {
	switch t {
	case BackendTypeGL:
		return "gl"
	case BackendTypeHeadless:
		return "headless"
	default:
		return "unknown"
	}
}

// ShaderStage identifies a programmable pipeline stage.
type ShaderStage int

const (
	ShaderStageVertex ShaderStage = iota
	ShaderStageFragment
	ShaderStageGeometry
	ShaderStageTessellationControl
	ShaderStageTessellation
)

func (s ShaderStage) String() string {
	switch s {
	case ShaderStageVertex:
		return "vertex"
	case ShaderStageFragment:
		return "fragment"
	case ShaderStageGeometry:
		return "geometry"
	case ShaderStageTessellationControl:
		return "tessellation control"
	case ShaderStageTessellation:
		return "tessellation evaluation"
	default:
		return "unknown"
	}
}

// BufferTarget is the binding point a buffer object is bound to.
type BufferTarget int

const (
	BufferTargetArray BufferTarget = iota
	BufferTargetElementArray
	BufferTargetUniform
)

// BufferUsage is the expected update frequency of a buffer's data store.
type BufferUsage int

const (
	// BufferUsageStatic is for data uploaded once and drawn many times.
	BufferUsageStatic BufferUsage = iota

	// BufferUsageDynamic is for data replaced repeatedly, such as per-frame instance transforms.
	BufferUsageDynamic
)

// InvalidIndex is returned by UniformBlockIndex when the program declares no block with the requested name.
const InvalidIndex uint32 = 0xFFFFFFFF

// RendererBackend is the graphics command surface used by every GPU-facing package.
// It mirrors the subset of OpenGL 4.1 core used for program objects, vertex arrays, buffer objects,
// uniforms and instanced indexed drawing. All calls must be issued from the thread owning the context.
//
// The "current program" is backend-wide state: uniform setters and draw calls act on whichever
// program was last passed to UseProgram.
type RendererBackend interface {
	// Type returns the kind of backend.
	Type() RendererBackendType

	// CreateShader allocates an empty shader object for the given stage.
	//
	// Parameters:
	//   - stage: the pipeline stage the shader will run in
	//
	// Returns:
	//   - uint32: the shader object id (0 on failure)
	CreateShader(stage ShaderStage) uint32

	// CompileShader uploads source into the shader object and compiles it.
	//
	// Parameters:
	//   - shader: the shader object id
	//   - source: the complete GLSL source text
	//
	// Returns:
	//   - bool: true if compilation succeeded
	//   - string: the complete driver info log (may be non-empty on success)
	CompileShader(shader uint32, source string) (bool, string)

	// DeleteShader releases a shader object.
	DeleteShader(shader uint32)

	// CreateProgram allocates an empty program object.
	//
	// Returns:
	//   - uint32: the program object id (0 on failure)
	CreateProgram() uint32

	// AttachShader attaches a compiled shader to a program prior to linking.
	AttachShader(program, shader uint32)

	// DetachShader detaches a shader from a program.
	DetachShader(program, shader uint32)

	// LinkProgram links every shader attached to the program.
	//
	// Parameters:
	//   - program: the program object id
	//
	// Returns:
	//   - bool: true if linking succeeded
	//   - string: the complete driver info log
	LinkProgram(program uint32) (bool, string)

	// DeleteProgram releases a program object.
	DeleteProgram(program uint32)

	// UseProgram makes program the current program. Passing 0 unbinds.
	UseProgram(program uint32)

	// CurrentProgram returns the id of the current program, or 0 if none is bound.
	CurrentProgram() uint32

	// AttribLocation looks up an active vertex attribute of a linked program by name.
	//
	// Returns:
	//   - int32: the attribute location, or -1 if the program has no active attribute with that name
	AttribLocation(program uint32, name string) int32

	// UniformLocation looks up an active uniform of a linked program by name.
	//
	// Returns:
	//   - int32: the uniform location, or -1 if the program has no active uniform with that name
	UniformLocation(program uint32, name string) int32

	// UniformBlockIndex looks up a uniform block of a linked program by name.
	//
	// Returns:
	//   - uint32: the block index, or InvalidIndex if the program declares no such block
	UniformBlockIndex(program uint32, name string) uint32

	// UniformBlockBinding assigns a uniform block of a program to a buffer binding point.
	UniformBlockBinding(program, block, binding uint32)

	// GenVertexArray allocates a vertex array object.
	GenVertexArray() uint32

	// BindVertexArray binds a vertex array object. Passing 0 unbinds.
	BindVertexArray(vao uint32)

	// DeleteVertexArray releases a vertex array object.
	DeleteVertexArray(vao uint32)

	// GenBuffer allocates a buffer object.
	GenBuffer() uint32

	// BindBuffer binds a buffer object to a target. Element array bindings are recorded in the bound vertex array.
	BindBuffer(target BufferTarget, buffer uint32)

	// BufferData replaces the whole data store of the buffer bound to target.
	//
	// Parameters:
	//   - target: the binding point whose buffer is written
	//   - data: the new contents; the store is resized to len(data)
	//   - usage: the expected update frequency
	BufferData(target BufferTarget, data []byte, usage BufferUsage)

	// BindBufferBase binds a buffer to an indexed binding point of target (uniform buffer binding points).
	BindBufferBase(target BufferTarget, index, buffer uint32)

	// DeleteBuffer releases a buffer object.
	DeleteBuffer(buffer uint32)

	// EnableVertexAttribArray enables an attribute slot in the bound vertex array.
	EnableVertexAttribArray(location uint32)

	// VertexAttribPointer describes how the slot reads float components from the buffer currently bound to BufferTargetArray.
	//
	// Parameters:
	//   - location: the attribute slot
	//   - size: the number of float components (1-4)
	//   - stride: the byte distance between consecutive elements
	//   - offset: the byte offset of the first component inside an element
	VertexAttribPointer(location uint32, size, stride int32, offset uintptr)

	// VertexAttribDivisor sets how often the slot advances: 0 per vertex, 1 per instance.
	VertexAttribDivisor(location, divisor uint32)

	// Uniform setters write to the current program.
	Uniform1f(location int32, v float32)
	Uniform1i(location int32, v int32)
	Uniform1ui(location int32, v uint32)
	Uniform2f(location int32, x, y float32)
	Uniform3f(location int32, x, y, z float32)
	Uniform4f(location int32, x, y, z, w float32)
	UniformMatrix3fv(location int32, values []float32)
	UniformMatrix4fv(location int32, values []float32)

	// EnableDepthTest turns on depth testing with a less-than comparison.
	EnableDepthTest()

	// Viewport sets the viewport to the given framebuffer size.
	Viewport(width, height int32)

	// Clear clears the color and depth buffers.
	Clear(color mgl32.Vec4)

	// DrawElementsInstanced draws count uint32 indices from the bound vertex array's element buffer as triangles, instances times.
	DrawElementsInstanced(count, instances int32)
}

// NewRendererBackend creates a backend of the requested type.
//
// Parameters:
//   - backendType: the kind of backend to create
//
// Returns:
//   - RendererBackend: the backend
//   - error: an error if the GL function pointers could not be loaded
func NewRendererBackend(backendType RendererBackendType) (RendererBackend, error) {
	switch backendType {
	case BackendTypeHeadless:
		return NewHeadlessBackend(), nil
	case BackendTypeGL:
		fallthrough
	default:
		return newGLRendererBackend()
	}
}
