package uniform

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-gl/engine/renderer"
)

// NotFoundError is returned when a program has no active uniform with the requested name.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("uniform %q not found in program", e.Name)
}

// NotAttachedError is returned when updating a uniform that was never created, or has been released.
type NotAttachedError struct {
	Name string
}

func (e *NotAttachedError) Error() string {
	return fmt.Sprintf("uniform %q is not attached", e.Name)
}

// BlockIndexNotFoundError is returned when a program declares no uniform block with the requested name.
type BlockIndexNotFoundError struct {
	Name string
}

func (e *BlockIndexNotFoundError) Error() string {
	return fmt.Sprintf("uniform block %q not found in program", e.Name)
}

// entry is the strong owner of a created uniform. Handles observe it.
type entry struct {
	s        *store
	name     string
	location int32
	alive    bool
}

// Handle is a weak observer of a uniform created through a Store. It stays valid for updates
// while the store owns the uniform, and reports NotAttachedError once the uniform is released.
type Handle struct {
	e *entry
}

// Name returns the uniform name, or "" for the zero Handle.
func (h Handle) Name() string {
	if h.e == nil {
		return ""
	}
	return h.e.name
}

// Alive reports whether the store still owns the uniform.
func (h Handle) Alive() bool {
	return h.e != nil && h.e.alive
}

// Update uploads a new value through the owning store.
//
// Parameters:
//   - v: the new value
//
// Returns:
//   - error: a *NotAttachedError if the uniform has been released or the handle is zero
func (h Handle) Update(v Value) error {
	if !h.Alive() {
		return &NotAttachedError{Name: h.Name()}
	}
	h.e.s.write(h.e.location, v)
	return nil
}

// store is the implementation of the Store interface.
type store struct {
	b         renderer.RendererBackend
	programID uint32

	uniforms map[string]*entry
	blocks   map[string]*block
}

// Store caches uniform locations and uniform blocks of one program by name.
//
// A uniform must be created before it can be updated; updating an unknown name is an error rather
// than a silent no-op. Every write re-selects the owning program first.
type Store interface {
	// Create looks up the uniform location, uploads the initial value and registers the uniform.
	// Creating an existing name uploads the value and returns a handle to the existing entry.
	//
	// Parameters:
	//   - name: the uniform name in the linked program
	//   - v: the initial value
	//
	// Returns:
	//   - Handle: a weak observer for later updates
	//   - error: a *NotFoundError if the program has no active uniform with that name
	Create(name string, v Value) (Handle, error)

	// Update uploads a new value for a created uniform.
	//
	// Parameters:
	//   - name: the uniform name
	//   - v: the new value
	//
	// Returns:
	//   - error: a *NotAttachedError if the uniform was never created
	Update(name string, v Value) error

	// Has reports whether a uniform with the given name has been created.
	Has(name string) bool

	// Declared reports whether the program has an active uniform with the given name, without registering it.
	Declared(name string) bool

	// Remove releases a created uniform; its handles report NotAttachedError afterwards.
	//
	// Returns:
	//   - bool: false if the uniform was not created
	Remove(name string) bool

	// CreateBlock looks up a uniform block, assigns it a binding point and allocates its backing buffer.
	//
	// Parameters:
	//   - name: the block name in the linked program
	//   - binding: the uniform buffer binding point
	//
	// Returns:
	//   - Block: the interface block
	//   - error: a *BlockIndexNotFoundError if the program declares no such block
	CreateBlock(name string, binding uint32) (Block, error)

	// Block returns a created block by name.
	Block(name string) (Block, bool)

	// Release drops every uniform and deletes every block buffer.
	Release()
}

var _ Store = &store{}

// NewStore creates an empty Store for a linked program.
//
// Parameters:
//   - b: the backend
//   - programID: the linked program
//
// Returns:
//   - Store: the uniform store
func NewStore(b renderer.RendererBackend, programID uint32) Store {
	return &store{
		b:         b,
		programID: programID,
		uniforms:  make(map[string]*entry),
		blocks:    make(map[string]*block),
	}
}

func (s *store) write(location int32, v Value) {
	s.b.UseProgram(s.programID)
	v.apply(s.b, location)
}

func (s *store) Create(name string, v Value) (Handle, error) {
	if e, ok := s.uniforms[name]; ok {
		s.write(e.location, v)
		return Handle{e: e}, nil
	}
	loc := s.b.UniformLocation(s.programID, name)
	if loc < 0 {
		return Handle{}, &NotFoundError{Name: name}
	}
	e := &entry{s: s, name: name, location: loc, alive: true}
	s.write(loc, v)
	s.uniforms[name] = e
	return Handle{e: e}, nil
}

func (s *store) Update(name string, v Value) error {
	e, ok := s.uniforms[name]
	if !ok {
		return &NotAttachedError{Name: name}
	}
	s.write(e.location, v)
	return nil
}

func (s *store) Has(name string) bool {
	_, ok := s.uniforms[name]
	return ok
}

func (s *store) Declared(name string) bool {
	if s.Has(name) {
		return true
	}
	return s.b.UniformLocation(s.programID, name) >= 0
}

func (s *store) Remove(name string) bool {
	e, ok := s.uniforms[name]
	if !ok {
		return false
	}
	e.alive = false
	delete(s.uniforms, name)
	return true
}

func (s *store) CreateBlock(name string, binding uint32) (Block, error) {
	if blk, ok := s.blocks[name]; ok {
		return blk, nil
	}
	idx := s.b.UniformBlockIndex(s.programID, name)
	if idx == renderer.InvalidIndex {
		return nil, &BlockIndexNotFoundError{Name: name}
	}
	s.b.UniformBlockBinding(s.programID, idx, binding)

	buf := s.b.GenBuffer()
	s.b.BindBuffer(renderer.BufferTargetUniform, buf)
	s.b.BufferData(renderer.BufferTargetUniform, nil, renderer.BufferUsageDynamic)
	s.b.BindBufferBase(renderer.BufferTargetUniform, binding, buf)

	blk := &block{b: s.b, name: name, index: idx, binding: binding, buffer: buf}
	s.blocks[name] = blk
	return blk, nil
}

func (s *store) Block(name string) (Block, bool) {
	blk, ok := s.blocks[name]
	return blk, ok
}

func (s *store) Release() {
	for name, e := range s.uniforms {
		e.alive = false
		delete(s.uniforms, name)
	}
	for name, blk := range s.blocks {
		s.b.DeleteBuffer(blk.buffer)
		delete(s.blocks, name)
	}
}
