package scene_object

import (
	"slices"
	"sync"
)

// Ref is a weak reference to a registry slot. It resolves only while the object it was issued for
// is still registered; removal bumps the slot generation, so stale refs resolve dead even after the
// slot is reused.
type Ref struct {
	index      uint32
	generation uint32
}

// Resolver resolves weak references to live objects.
type Resolver interface {
	// Resolve returns the object behind ref.
	//
	// Parameters:
	//   - ref: a reference returned by Registry.Insert
	//
	// Returns:
	//   - SceneObject: the live object, or nil
	//   - bool: false if the object has been removed
	Resolve(ref Ref) (SceneObject, bool)
}

type slot struct {
	generation uint32
	obj        SceneObject
}

type registry struct {
	mu *sync.RWMutex

	slots  []slot
	free   []uint32
	byName map[string]uint32
	order  []string
}

// Registry strongly owns SceneObjects by name and hands out weak Refs to them.
type Registry interface {
	Resolver

	// Insert registers obj under its name.
	//
	// Parameters:
	//   - obj: the object to own
	//
	// Returns:
	//   - Ref: a weak reference to the stored object
	//   - bool: false if the name is already taken, in which case nothing is stored
	Insert(obj SceneObject) (Ref, bool)

	// Replace swaps the object registered under obj.Name() in place. Refs issued for the old object
	// resolve to the replacement and its position in Names is kept.
	//
	// Returns:
	//   - bool: false if no object is registered under that name, in which case nothing is stored
	Replace(obj SceneObject) bool

	// Get returns a registered object by name.
	Get(name string) (SceneObject, bool)

	// Remove drops the object registered under name. Every Ref to it resolves dead afterwards.
	//
	// Returns:
	//   - bool: false if no such object exists
	Remove(name string) bool

	// Clear drops every object.
	Clear()

	// Names returns registered names in insertion order.
	Names() []string

	// Len returns the number of registered objects.
	Len() int
}

var _ Registry = &registry{}

// NewRegistry creates an empty Registry.
//
// Returns:
//   - Registry: the registry
func NewRegistry() Registry {
	return &registry{
		mu:     &sync.RWMutex{},
		byName: make(map[string]uint32),
	}
}

func (r *registry) Insert(obj SceneObject) (Ref, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byName[obj.Name()]; exists {
		return Ref{}, false
	}

	var idx uint32
	if n := len(r.free); n > 0 {
		idx = r.free[n-1]
		r.free = r.free[:n-1]
	} else {
		idx = uint32(len(r.slots))
		r.slots = append(r.slots, slot{})
	}
	r.slots[idx].obj = obj
	r.byName[obj.Name()] = idx
	r.order = append(r.order, obj.Name())
	return Ref{index: idx, generation: r.slots[idx].generation}, true
}

func (r *registry) Replace(obj SceneObject) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	idx, ok := r.byName[obj.Name()]
	if !ok {
		return false
	}
	r.slots[idx].obj = obj
	return true
}

func (r *registry) Resolve(ref Ref) (SceneObject, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if int(ref.index) >= len(r.slots) {
		return nil, false
	}
	s := r.slots[ref.index]
	if s.obj == nil || s.generation != ref.generation {
		return nil, false
	}
	return s.obj, true
}

func (r *registry) Get(name string) (SceneObject, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	idx, ok := r.byName[name]
	if !ok {
		return nil, false
	}
	return r.slots[idx].obj, true
}

func (r *registry) Remove(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	idx, ok := r.byName[name]
	if !ok {
		return false
	}
	r.release(idx)
	delete(r.byName, name)
	r.order = slices.DeleteFunc(r.order, func(n string) bool { return n == name })
	return true
}

func (r *registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, idx := range r.byName {
		r.release(idx)
	}
	clear(r.byName)
	r.order = r.order[:0]
}

// release empties a slot and retires its generation. Caller must hold the write lock.
func (r *registry) release(idx uint32) {
	r.slots[idx].obj = nil
	r.slots[idx].generation++
	r.free = append(r.free, idx)
}

func (r *registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.order)
}

func (r *registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byName)
}
