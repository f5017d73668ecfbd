package renderer

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// glRendererBackend issues commands to the OpenGL context current on the calling thread.
type glRendererBackend struct{}

var _ RendererBackend = &glRendererBackend{}

func newGLRendererBackend() (RendererBackend, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to load OpenGL functions: %w", err)
	}
	return &glRendererBackend{}, nil
}

func glStage(stage ShaderStage) uint32 {
	switch stage {
	case ShaderStageFragment:
		return gl.FRAGMENT_SHADER
	case ShaderStageGeometry:
		return gl.GEOMETRY_SHADER
	case ShaderStageTessellationControl:
		return gl.TESS_CONTROL_SHADER
	case ShaderStageTessellation:
		return gl.TESS_EVALUATION_SHADER
	default:
		return gl.VERTEX_SHADER
	}
}

func glTarget(target BufferTarget) uint32 {
	switch target {
	case BufferTargetElementArray:
		return gl.ELEMENT_ARRAY_BUFFER
	case BufferTargetUniform:
		return gl.UNIFORM_BUFFER
	default:
		return gl.ARRAY_BUFFER
	}
}

func glUsage(usage BufferUsage) uint32 {
	if usage == BufferUsageDynamic {
		return gl.DYNAMIC_DRAW
	}
	return gl.STATIC_DRAW
}

func (b *glRendererBackend) Type() RendererBackendType {
	return BackendTypeGL
}

func (b *glRendererBackend) CreateShader(stage ShaderStage) uint32 {
	return gl.CreateShader(glStage(stage))
}

func (b *glRendererBackend) CompileShader(shader uint32, source string) (bool, string) {
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)

	var logLength int32
	gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
	log := ""
	if logLength > 0 {
		log = strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
		log = strings.TrimRight(log, "\x00")
	}
	return status == gl.TRUE, log
}

func (b *glRendererBackend) DeleteShader(shader uint32) {
	gl.DeleteShader(shader)
}

func (b *glRendererBackend) CreateProgram() uint32 {
	return gl.CreateProgram()
}

func (b *glRendererBackend) AttachShader(program, shader uint32) {
	gl.AttachShader(program, shader)
}

func (b *glRendererBackend) DetachShader(program, shader uint32) {
	gl.DetachShader(program, shader)
}

func (b *glRendererBackend) LinkProgram(program uint32) (bool, string) {
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)

	var logLength int32
	gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
	log := ""
	if logLength > 0 {
		log = strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
		log = strings.TrimRight(log, "\x00")
	}
	return status == gl.TRUE, log
}

func (b *glRendererBackend) DeleteProgram(program uint32) {
	gl.DeleteProgram(program)
}

func (b *glRendererBackend) UseProgram(program uint32) {
	gl.UseProgram(program)
}

func (b *glRendererBackend) CurrentProgram() uint32 {
	var id int32
	gl.GetIntegerv(gl.CURRENT_PROGRAM, &id)
	return uint32(id)
}

func (b *glRendererBackend) AttribLocation(program uint32, name string) int32 {
	return gl.GetAttribLocation(program, gl.Str(name+"\x00"))
}

func (b *glRendererBackend) UniformLocation(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}

func (b *glRendererBackend) UniformBlockIndex(program uint32, name string) uint32 {
	return gl.GetUniformBlockIndex(program, gl.Str(name+"\x00"))
}

func (b *glRendererBackend) UniformBlockBinding(program, block, binding uint32) {
	gl.UniformBlockBinding(program, block, binding)
}

func (b *glRendererBackend) GenVertexArray() uint32 {
	var vao uint32
	gl.GenVertexArrays(1, &vao)
	return vao
}

func (b *glRendererBackend) BindVertexArray(vao uint32) {
	gl.BindVertexArray(vao)
}

func (b *glRendererBackend) DeleteVertexArray(vao uint32) {
	gl.DeleteVertexArrays(1, &vao)
}

func (b *glRendererBackend) GenBuffer() uint32 {
	var buf uint32
	gl.GenBuffers(1, &buf)
	return buf
}

func (b *glRendererBackend) BindBuffer(target BufferTarget, buffer uint32) {
	gl.BindBuffer(glTarget(target), buffer)
}

func (b *glRendererBackend) BufferData(target BufferTarget, data []byte, usage BufferUsage) {
	if len(data) == 0 {
		gl.BufferData(glTarget(target), 0, nil, glUsage(usage))
		return
	}
	gl.BufferData(glTarget(target), len(data), gl.Ptr(data), glUsage(usage))
}

func (b *glRendererBackend) BindBufferBase(target BufferTarget, index, buffer uint32) {
	gl.BindBufferBase(glTarget(target), index, buffer)
}

func (b *glRendererBackend) DeleteBuffer(buffer uint32) {
	gl.DeleteBuffers(1, &buffer)
}

func (b *glRendererBackend) EnableVertexAttribArray(location uint32) {
	gl.EnableVertexAttribArray(location)
}

func (b *glRendererBackend) VertexAttribPointer(location uint32, size, stride int32, offset uintptr) {
	gl.VertexAttribPointerWithOffset(location, size, gl.FLOAT, false, stride, offset)
}

func (b *glRendererBackend) VertexAttribDivisor(location, divisor uint32) {
	gl.VertexAttribDivisor(location, divisor)
}

func (b *glRendererBackend) Uniform1f(location int32, v float32) {
	gl.Uniform1f(location, v)
}

func (b *glRendererBackend) Uniform1i(location int32, v int32) {
	gl.Uniform1i(location, v)
}

func (b *glRendererBackend) Uniform1ui(location int32, v uint32) {
	gl.Uniform1ui(location, v)
}

func (b *glRendererBackend) Uniform2f(location int32, x, y float32) {
	gl.Uniform2f(location, x, y)
}

func (b *glRendererBackend) Uniform3f(location int32, x, y, z float32) {
	gl.Uniform3f(location, x, y, z)
}

func (b *glRendererBackend) Uniform4f(location int32, x, y, z, w float32) {
	gl.Uniform4f(location, x, y, z, w)
}

func (b *glRendererBackend) UniformMatrix3fv(location int32, values []float32) {
	if len(values) < 9 {
		return
	}
	gl.UniformMatrix3fv(location, int32(len(values)/9), false, &values[0])
}

func (b *glRendererBackend) UniformMatrix4fv(location int32, values []float32) {
	if len(values) < 16 {
		return
	}
	gl.UniformMatrix4fv(location, int32(len(values)/16), false, &values[0])
}

func (b *glRendererBackend) EnableDepthTest() {
	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
}

func (b *glRendererBackend) Viewport(width, height int32) {
	gl.Viewport(0, 0, width, height)
}

func (b *glRendererBackend) Clear(color mgl32.Vec4) {
	gl.ClearColor(color.X(), color.Y(), color.Z(), color.W())
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

func (b *glRendererBackend) DrawElementsInstanced(count, instances int32) {
	gl.DrawElementsInstanced(gl.TRIANGLES, count, gl.UNSIGNED_INT, nil, instances)
}
