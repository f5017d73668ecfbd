package attribute

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-gl/engine/renderer"
)

// MaxVertexAttribs is the number of attribute slots every GL 4.1 implementation provides.
const MaxVertexAttribs = 16

// Attribute is a named attribute bound to a vertex array: its first slot and its backing buffer.
type Attribute struct {
	Name      string
	Location  uint32
	Buffer    uint32
	Slots     int
	Instanced bool
}

// NotFoundError is returned when a program has no active attribute with the requested name.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("attribute %q not found in program", e.Name)
}

// binder is the implementation of the Binder interface.
type binder struct {
	b         renderer.RendererBackend
	programID uint32
	vao       uint32

	cache map[string]Attribute
}

// Binder uploads named attribute arrays into buffers and wires them to the shader slots of one vertex array.
//
// Attributes are created lazily on the first Bind of a name and cached; later binds of the same
// name reuse the cached buffer and slots. Every call re-selects the program and vertex array it
// acts on, since both are backend-wide state.
type Binder interface {
	// Locate resolves the first slot of a named attribute without allocating anything.
	//
	// Parameters:
	//   - name: the attribute name in the linked program
	//
	// Returns:
	//   - uint32: the attribute location
	//   - error: a *NotFoundError if the program has no active attribute with that name
	Locate(name string) (uint32, error)

	// Bind uploads data for the named attribute. On the first bind the buffer is allocated and each
	// slot is enabled and described: matrices take one consecutive slot per column with a stride of
	// one whole matrix and a byte offset per column, and instanced slots get a divisor of 1.
	// Validation happens before any allocation, so a failed bind leaves no buffer behind.
	//
	// Parameters:
	//   - name: the attribute name in the linked program
	//   - data: the element array
	//   - usage: the expected update frequency of the buffer
	//   - instanced: true to advance the attribute once per instance instead of once per vertex
	//
	// Returns:
	//   - Attribute: the cached attribute
	//   - error: a *NotFoundError, or an error if the element layout does not fit the slot range
	Bind(name string, data Data, usage renderer.BufferUsage, instanced bool) (Attribute, error)

	// Upload replaces the whole buffer of an already bound attribute.
	//
	// Parameters:
	//   - name: the attribute name
	//   - data: the new element array
	//   - usage: the expected update frequency of the buffer
	//
	// Returns:
	//   - error: an error if the attribute has not been bound
	Upload(name string, data Data, usage renderer.BufferUsage) error

	// Attribute returns a cached attribute by name.
	//
	// Returns:
	//   - Attribute: the attribute
	//   - bool: false if the name has not been bound
	Attribute(name string) (Attribute, bool)

	// Attributes returns the number of cached attributes.
	Attributes() int

	// Release deletes every buffer owned by the binder.
	Release()
}

var _ Binder = &binder{}

// NewBinder creates a Binder for one vertex array of a linked program.
//
// Parameters:
//   - b: the backend
//   - programID: the linked program whose attribute names are resolved
//   - vao: the vertex array that receives the slot configuration
//
// Returns:
//   - Binder: the binder
func NewBinder(b renderer.RendererBackend, programID, vao uint32) Binder {
	return &binder{
		b:         b,
		programID: programID,
		vao:       vao,
		cache:     make(map[string]Attribute),
	}
}

func (bd *binder) Locate(name string) (uint32, error) {
	loc := bd.b.AttribLocation(bd.programID, name)
	if loc < 0 {
		return 0, &NotFoundError{Name: name}
	}
	return uint32(loc), nil
}

func (bd *binder) Bind(name string, data Data, usage renderer.BufferUsage, instanced bool) (Attribute, error) {
	if a, ok := bd.cache[name]; ok {
		return a, bd.Upload(name, data, usage)
	}

	loc, err := bd.Locate(name)
	if err != nil {
		return Attribute{}, err
	}
	cols, comps := data.Columns(), data.Components()
	if comps < 1 || comps > 4 || cols < 1 {
		return Attribute{}, fmt.Errorf("attribute %q: unsupported layout of %d slots with %d components", name, cols, comps)
	}
	if int(loc)+cols > MaxVertexAttribs {
		return Attribute{}, fmt.Errorf("attribute %q: slots %d..%d exceed the %d available", name, loc, int(loc)+cols-1, MaxVertexAttribs)
	}

	bd.b.UseProgram(bd.programID)
	bd.b.BindVertexArray(bd.vao)

	buf := bd.b.GenBuffer()
	bd.b.BindBuffer(renderer.BufferTargetArray, buf)
	bd.b.BufferData(renderer.BufferTargetArray, data.Bytes(), usage)

	stride := int32(ElementSize(data))
	for col := range cols {
		slot := loc + uint32(col)
		bd.b.EnableVertexAttribArray(slot)
		bd.b.VertexAttribPointer(slot, int32(comps), stride, uintptr(col*comps*4))
		if instanced {
			bd.b.VertexAttribDivisor(slot, 1)
		}
	}

	a := Attribute{Name: name, Location: loc, Buffer: buf, Slots: cols, Instanced: instanced}
	bd.cache[name] = a
	return a, nil
}

func (bd *binder) Upload(name string, data Data, usage renderer.BufferUsage) error {
	a, ok := bd.cache[name]
	if !ok {
		return fmt.Errorf("attribute %q has not been bound", name)
	}
	if data.Columns() != a.Slots {
		return fmt.Errorf("attribute %q: upload with %d slots per element, bound with %d", name, data.Columns(), a.Slots)
	}
	bd.b.UseProgram(bd.programID)
	bd.b.BindVertexArray(bd.vao)
	bd.b.BindBuffer(renderer.BufferTargetArray, a.Buffer)
	bd.b.BufferData(renderer.BufferTargetArray, data.Bytes(), usage)
	return nil
}

func (bd *binder) Attribute(name string) (Attribute, bool) {
	a, ok := bd.cache[name]
	return a, ok
}

func (bd *binder) Attributes() int {
	return len(bd.cache)
}

func (bd *binder) Release() {
	for name, a := range bd.cache {
		bd.b.DeleteBuffer(a.Buffer)
		delete(bd.cache, name)
	}
}
