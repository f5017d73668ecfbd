package uniform

import "github.com/Carmen-Shannon/oxy-gl/engine/renderer"

// block is the implementation of the Block interface.
type block struct {
	b       renderer.RendererBackend
	name    string
	index   uint32
	binding uint32
	buffer  uint32
	size    int
}

// Block is a uniform block backed by one buffer bound to a fixed binding point.
type Block interface {
	// Name returns the block name.
	Name() string

	// Index returns the block index in the program.
	Index() uint32

	// Binding returns the uniform buffer binding point.
	Binding() uint32

	// Buffer returns the backing buffer id.
	Buffer() uint32

	// Size returns the number of bytes last uploaded.
	Size() int

	// Upload replaces the whole backing buffer with data and re-binds it to the binding point.
	//
	// Parameters:
	//   - data: the complete block contents
	Upload(data []byte)

	// Bind re-binds the backing buffer to the binding point. Binding points are shared by every
	// program on the context, so a program re-binds its blocks before drawing.
	Bind()
}

var _ Block = &block{}

func (blk *block) Name() string {
	return blk.name
}

func (blk *block) Index() uint32 {
	return blk.index
}

func (blk *block) Binding() uint32 {
	return blk.binding
}

func (blk *block) Buffer() uint32 {
	return blk.buffer
}

func (blk *block) Size() int {
	return blk.size
}

func (blk *block) Upload(data []byte) {
	blk.b.BindBuffer(renderer.BufferTargetUniform, blk.buffer)
	blk.b.BufferData(renderer.BufferTargetUniform, data, renderer.BufferUsageDynamic)
	blk.b.BindBufferBase(renderer.BufferTargetUniform, blk.binding, blk.buffer)
	blk.size = len(data)
}

func (blk *block) Bind() {
	blk.b.BindBufferBase(renderer.BufferTargetUniform, blk.binding, blk.buffer)
}
