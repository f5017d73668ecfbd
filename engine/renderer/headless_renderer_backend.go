package renderer

import (
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
)

// AttribState is the recorded configuration of one attribute slot in a vertex array.
type AttribState struct {
	Enabled bool
	Buffer  uint32
	Size    int32
	Stride  int32
	Offset  uintptr
	Divisor uint32
}

// DrawCall is one recorded DrawElementsInstanced invocation.
type DrawCall struct {
	Program   uint32
	VAO       uint32
	Count     int32
	Instances int32
}

type headlessShader struct {
	stage      ShaderStage
	compiled   bool
	reflection glslReflection
}

type headlessProgram struct {
	shaders       []uint32
	linked        bool
	attribs       map[string]int
	uniforms      map[string]int32
	blocks        map[string]uint32
	blockBindings map[uint32]uint32
	values        map[int32][]float32
}

type headlessVAO struct {
	attribs      map[uint32]*AttribState
	elementArray uint32
}

// HeadlessBackend is a RendererBackend that records every command in memory instead of driving a GPU.
// Shader sources are reflected to provide attribute, uniform and uniform block lookups, so programs
// behave like linked GL programs. Invalid usage (such as setting a uniform with no current program)
// is recorded as a GL-style error rather than panicking.
type HeadlessBackend struct {
	mu sync.Mutex

	nextID uint32

	shaders  map[uint32]*headlessShader
	programs map[uint32]*headlessProgram
	vaos     map[uint32]*headlessVAO
	buffers  map[uint32][]byte

	current      uint32
	boundVAO     uint32
	bound        map[BufferTarget]uint32
	uniformBases map[uint32]uint32

	depthTest  bool
	viewport   [2]int32
	clearColor mgl32.Vec4

	calls  map[string]int
	draws  []DrawCall
	errors []string
}

var _ RendererBackend = &HeadlessBackend{}

// NewHeadlessBackend creates an empty recording backend.
func NewHeadlessBackend() *HeadlessBackend {
	return &HeadlessBackend{
		shaders:      make(map[uint32]*headlessShader),
		programs:     make(map[uint32]*headlessProgram),
		vaos:         make(map[uint32]*headlessVAO),
		buffers:      make(map[uint32][]byte),
		bound:        make(map[BufferTarget]uint32),
		uniformBases: make(map[uint32]uint32),
		calls:        make(map[string]int),
	}
}

func (b *HeadlessBackend) record(call string) {
	b.calls[call]++
}

func (b *HeadlessBackend) fail(format string, args ...any) {
	b.errors = append(b.errors, fmt.Sprintf(format, args...))
}

func (b *HeadlessBackend) id() uint32 {
	b.nextID++
	return b.nextID
}

func (b *HeadlessBackend) Type() RendererBackendType {
	return BackendTypeHeadless
}

func (b *HeadlessBackend) CreateShader(stage ShaderStage) uint32 {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("CreateShader")
	id := b.id()
	b.shaders[id] = &headlessShader{stage: stage}
	return id
}

func (b *HeadlessBackend) CompileShader(shader uint32, source string) (bool, string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("CompileShader")
	s, ok := b.shaders[shader]
	if !ok {
		b.fail("CompileShader: unknown shader %d", shader)
		return false, fmt.Sprintf("error: unknown shader object %d\n", shader)
	}
	r, log := reflectGLSL(source)
	s.reflection = r
	s.compiled = log == ""
	return s.compiled, log
}

func (b *HeadlessBackend) DeleteShader(shader uint32) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("DeleteShader")
	delete(b.shaders, shader)
}

func (b *HeadlessBackend) CreateProgram() uint32 {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("CreateProgram")
	id := b.id()
	b.programs[id] = &headlessProgram{}
	return id
}

func (b *HeadlessBackend) AttachShader(program, shader uint32) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("AttachShader")
	p, ok := b.programs[program]
	if !ok {
		b.fail("AttachShader: unknown program %d", program)
		return
	}
	if slices.Contains(p.shaders, shader) {
		b.fail("AttachShader: shader %d already attached to program %d", shader, program)
		return
	}
	p.shaders = append(p.shaders, shader)
}

func (b *HeadlessBackend) DetachShader(program, shader uint32) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("DetachShader")
	if p, ok := b.programs[program]; ok {
		p.shaders = slices.DeleteFunc(p.shaders, func(s uint32) bool { return s == shader })
	}
}

func (b *HeadlessBackend) LinkProgram(program uint32) (bool, string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("LinkProgram")
	p, ok := b.programs[program]
	if !ok {
		b.fail("LinkProgram: unknown program %d", program)
		return false, fmt.Sprintf("error: unknown program object %d\n", program)
	}

	byStage := make(map[ShaderStage]*headlessShader)
	for _, id := range p.shaders {
		s, ok := b.shaders[id]
		if !ok || !s.compiled {
			return false, fmt.Sprintf("error: shader %d is not compiled\n", id)
		}
		byStage[s.stage] = s
	}
	vs, hasVS := byStage[ShaderStageVertex]
	fs, hasFS := byStage[ShaderStageFragment]
	if !hasVS {
		return false, "error: program lacks a vertex shader\n"
	}
	if !hasFS {
		return false, "error: program lacks a fragment shader\n"
	}

	// Fragment inputs must be written by the last pre-rasterization stage.
	last := vs
	for _, stage := range []ShaderStage{ShaderStageTessellation, ShaderStageGeometry} {
		if s, ok := byStage[stage]; ok {
			last = s
		}
	}
	for _, in := range fs.reflection.inputs {
		if !slices.Contains(last.reflection.outputs, in.name) {
			return false, fmt.Sprintf("error: fragment shader input `%s' has no matching output in the previous stage\n", in.name)
		}
	}

	p.attribs = assignAttribLocations(vs.reflection.inputs)
	p.uniforms = make(map[string]int32)
	p.blocks = make(map[string]uint32)
	p.blockBindings = make(map[uint32]uint32)
	p.values = make(map[int32][]float32)
	for _, id := range p.shaders {
		r := b.shaders[id].reflection
		for _, u := range r.uniforms {
			if _, ok := p.uniforms[u]; !ok {
				p.uniforms[u] = int32(len(p.uniforms))
			}
		}
		for _, blk := range r.blocks {
			if _, ok := p.blocks[blk]; !ok {
				p.blocks[blk] = uint32(len(p.blocks))
			}
		}
	}
	p.linked = true
	return true, ""
}

func (b *HeadlessBackend) DeleteProgram(program uint32) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("DeleteProgram")
	delete(b.programs, program)
	if b.current == program {
		b.current = 0
	}
}

func (b *HeadlessBackend) UseProgram(program uint32) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("UseProgram")
	if program != 0 {
		p, ok := b.programs[program]
		if !ok || !p.linked {
			b.fail("UseProgram: program %d is not linked", program)
			return
		}
	}
	b.current = program
}

func (b *HeadlessBackend) CurrentProgram() uint32 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current
}

func (b *HeadlessBackend) AttribLocation(program uint32, name string) int32 {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("AttribLocation")
	p, ok := b.programs[program]
	if !ok || !p.linked {
		b.fail("AttribLocation: program %d is not linked", program)
		return -1
	}
	if loc, ok := p.attribs[name]; ok {
		return int32(loc)
	}
	return -1
}

func (b *HeadlessBackend) UniformLocation(program uint32, name string) int32 {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("UniformLocation")
	p, ok := b.programs[program]
	if !ok || !p.linked {
		b.fail("UniformLocation: program %d is not linked", program)
		return -1
	}
	if loc, ok := p.uniforms[name]; ok {
		return loc
	}
	return -1
}

func (b *HeadlessBackend) UniformBlockIndex(program uint32, name string) uint32 {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("UniformBlockIndex")
	p, ok := b.programs[program]
	if !ok || !p.linked {
		b.fail("UniformBlockIndex: program %d is not linked", program)
		return InvalidIndex
	}
	if idx, ok := p.blocks[name]; ok {
		return idx
	}
	return InvalidIndex
}

func (b *HeadlessBackend) UniformBlockBinding(program, block, binding uint32) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("UniformBlockBinding")
	p, ok := b.programs[program]
	if !ok || !p.linked || int(block) >= len(p.blocks) {
		b.fail("UniformBlockBinding: invalid block %d for program %d", block, program)
		return
	}
	p.blockBindings[block] = binding
}

func (b *HeadlessBackend) GenVertexArray() uint32 {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("GenVertexArray")
	id := b.id()
	b.vaos[id] = &headlessVAO{attribs: make(map[uint32]*AttribState)}
	return id
}

func (b *HeadlessBackend) BindVertexArray(vao uint32) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("BindVertexArray")
	if _, ok := b.vaos[vao]; vao != 0 && !ok {
		b.fail("BindVertexArray: unknown vertex array %d", vao)
		return
	}
	b.boundVAO = vao
}

func (b *HeadlessBackend) DeleteVertexArray(vao uint32) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("DeleteVertexArray")
	delete(b.vaos, vao)
	if b.boundVAO == vao {
		b.boundVAO = 0
	}
}

func (b *HeadlessBackend) GenBuffer() uint32 {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("GenBuffer")
	id := b.id()
	b.buffers[id] = nil
	return id
}

func (b *HeadlessBackend) BindBuffer(target BufferTarget, buffer uint32) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("BindBuffer")
	if _, ok := b.buffers[buffer]; buffer != 0 && !ok {
		b.fail("BindBuffer: unknown buffer %d", buffer)
		return
	}
	if target == BufferTargetElementArray {
		vao, ok := b.vaos[b.boundVAO]
		if !ok {
			b.fail("BindBuffer: element array bound with no vertex array")
			return
		}
		vao.elementArray = buffer
		return
	}
	b.bound[target] = buffer
}

func (b *HeadlessBackend) boundBuffer(target BufferTarget) uint32 {
	if target == BufferTargetElementArray {
		if vao, ok := b.vaos[b.boundVAO]; ok {
			return vao.elementArray
		}
		return 0
	}
	return b.bound[target]
}

func (b *HeadlessBackend) BufferData(target BufferTarget, data []byte, usage BufferUsage) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("BufferData")
	buf := b.boundBuffer(target)
	if buf == 0 {
		b.fail("BufferData: no buffer bound to target %d", target)
		return
	}
	b.buffers[buf] = slices.Clone(data)
}

func (b *HeadlessBackend) BindBufferBase(target BufferTarget, index, buffer uint32) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("BindBufferBase")
	if _, ok := b.buffers[buffer]; !ok {
		b.fail("BindBufferBase: unknown buffer %d", buffer)
		return
	}
	b.bound[target] = buffer
	if target == BufferTargetUniform {
		b.uniformBases[index] = buffer
	}
}

func (b *HeadlessBackend) DeleteBuffer(buffer uint32) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("DeleteBuffer")
	delete(b.buffers, buffer)
	for t, id := range b.bound {
		if id == buffer {
			b.bound[t] = 0
		}
	}
}

func (b *HeadlessBackend) attrib(call string, location uint32) *AttribState {
	vao, ok := b.vaos[b.boundVAO]
	if !ok {
		b.fail("%s: no vertex array bound", call)
		return nil
	}
	a, ok := vao.attribs[location]
	if !ok {
		a = &AttribState{}
		vao.attribs[location] = a
	}
	return a
}

func (b *HeadlessBackend) EnableVertexAttribArray(location uint32) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("EnableVertexAttribArray")
	if a := b.attrib("EnableVertexAttribArray", location); a != nil {
		a.Enabled = true
	}
}

func (b *HeadlessBackend) VertexAttribPointer(location uint32, size, stride int32, offset uintptr) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("VertexAttribPointer")
	if size < 1 || size > 4 {
		b.fail("VertexAttribPointer: invalid size %d", size)
		return
	}
	if b.bound[BufferTargetArray] == 0 {
		b.fail("VertexAttribPointer: no array buffer bound")
		return
	}
	if a := b.attrib("VertexAttribPointer", location); a != nil {
		a.Buffer = b.bound[BufferTargetArray]
		a.Size = size
		a.Stride = stride
		a.Offset = offset
	}
}

func (b *HeadlessBackend) VertexAttribDivisor(location, divisor uint32) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("VertexAttribDivisor")
	if a := b.attrib("VertexAttribDivisor", location); a != nil {
		a.Divisor = divisor
	}
}

func (b *HeadlessBackend) setUniform(call string, location int32, values ...float32) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record(call)
	p, ok := b.programs[b.current]
	if !ok {
		b.fail("%s: no current program", call)
		return
	}
	if location < 0 {
		return
	}
	if int(location) >= len(p.uniforms) {
		b.fail("%s: invalid location %d", call, location)
		return
	}
	p.values[location] = slices.Clone(values)
}

func (b *HeadlessBackend) Uniform1f(location int32, v float32) {
	b.setUniform("Uniform1f", location, v)
}

func (b *HeadlessBackend) Uniform1i(location int32, v int32) {
	b.setUniform("Uniform1i", location, float32(v))
}

func (b *HeadlessBackend) Uniform1ui(location int32, v uint32) {
	b.setUniform("Uniform1ui", location, float32(v))
}

func (b *HeadlessBackend) Uniform2f(location int32, x, y float32) {
	b.setUniform("Uniform2f", location, x, y)
}

func (b *HeadlessBackend) Uniform3f(location int32, x, y, z float32) {
	b.setUniform("Uniform3f", location, x, y, z)
}

func (b *HeadlessBackend) Uniform4f(location int32, x, y, z, w float32) {
	b.setUniform("Uniform4f", location, x, y, z, w)
}

func (b *HeadlessBackend) UniformMatrix3fv(location int32, values []float32) {
	b.setUniform("UniformMatrix3fv", location, values...)
}

func (b *HeadlessBackend) UniformMatrix4fv(location int32, values []float32) {
	b.setUniform("UniformMatrix4fv", location, values...)
}

func (b *HeadlessBackend) EnableDepthTest() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("EnableDepthTest")
	b.depthTest = true
}

func (b *HeadlessBackend) Viewport(width, height int32) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("Viewport")
	b.viewport = [2]int32{width, height}
}

func (b *HeadlessBackend) Clear(color mgl32.Vec4) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("Clear")
	b.clearColor = color
}

func (b *HeadlessBackend) DrawElementsInstanced(count, instances int32) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("DrawElementsInstanced")
	if b.current == 0 {
		b.fail("DrawElementsInstanced: no current program")
		return
	}
	vao, ok := b.vaos[b.boundVAO]
	if !ok || vao.elementArray == 0 {
		b.fail("DrawElementsInstanced: no element array buffer bound")
		return
	}
	if need := int(count) * 4; len(b.buffers[vao.elementArray]) < need {
		b.fail("DrawElementsInstanced: element buffer holds %d bytes, draw reads %d", len(b.buffers[vao.elementArray]), need)
		return
	}
	b.draws = append(b.draws, DrawCall{Program: b.current, VAO: b.boundVAO, Count: count, Instances: instances})
}

// CallCount returns how many times the named backend method has been invoked.
func (b *HeadlessBackend) CallCount(name string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[name]
}

// Draws returns every recorded draw call in submission order.
func (b *HeadlessBackend) Draws() []DrawCall {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.draws)
}

// Errors returns the GL-style errors raised by invalid usage.
func (b *HeadlessBackend) Errors() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.errors)
}

// Buffer returns a copy of a buffer's data store.
//
// Returns:
//   - []byte: the contents
//   - bool: false if the buffer does not exist
func (b *HeadlessBackend) Buffer(buffer uint32) ([]byte, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	data, ok := b.buffers[buffer]
	return slices.Clone(data), ok
}

// BufferCount returns the number of live buffer objects.
func (b *HeadlessBackend) BufferCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.buffers)
}

// ShaderCount returns the number of live shader objects.
func (b *HeadlessBackend) ShaderCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.shaders)
}

// VertexAttrib returns the recorded state of an attribute slot in a vertex array.
func (b *HeadlessBackend) VertexAttrib(vao, location uint32) (AttribState, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	v, ok := b.vaos[vao]
	if !ok {
		return AttribState{}, false
	}
	a, ok := v.attribs[location]
	if !ok {
		return AttribState{}, false
	}
	return *a, true
}

// ElementBuffer returns the element array buffer recorded in a vertex array.
func (b *HeadlessBackend) ElementBuffer(vao uint32) uint32 {
	b.mu.Lock()
	defer b.mu.Unlock()
	if v, ok := b.vaos[vao]; ok {
		return v.elementArray
	}
	return 0
}

// UniformValue returns the last value written to a program's uniform. Integer uniforms are widened to float32.
func (b *HeadlessBackend) UniformValue(program uint32, name string) ([]float32, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	p, ok := b.programs[program]
	if !ok || !p.linked {
		return nil, false
	}
	loc, ok := p.uniforms[name]
	if !ok {
		return nil, false
	}
	v, ok := p.values[loc]
	return slices.Clone(v), ok
}

// UniformBlockBindingOf returns the binding point assigned to a program's named uniform block.
func (b *HeadlessBackend) UniformBlockBindingOf(program uint32, name string) (uint32, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	p, ok := b.programs[program]
	if !ok || !p.linked {
		return 0, false
	}
	idx, ok := p.blocks[name]
	if !ok {
		return 0, false
	}
	binding, ok := p.blockBindings[idx]
	return binding, ok
}

// UniformBufferAt returns the buffer bound to a uniform buffer binding point.
func (b *HeadlessBackend) UniformBufferAt(binding uint32) uint32 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.uniformBases[binding]
}

// AttribNames returns the active attribute names of a linked program, sorted.
func (b *HeadlessBackend) AttribNames(program uint32) []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	p, ok := b.programs[program]
	if !ok {
		return nil
	}
	return slices.Sorted(maps.Keys(p.attribs))
}

// FrameState returns the last viewport size, clear color and whether depth testing was enabled.
func (b *HeadlessBackend) FrameState() (width, height int32, clear mgl32.Vec4, depthTest bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.viewport[0], b.viewport[1], b.clearColor, b.depthTest
}
