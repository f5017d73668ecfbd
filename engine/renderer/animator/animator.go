// Package animator drives scene object transforms from per-instance position, scale, rotation and
// spin state. Spinning instances advance every frame; changed instances are written back to a
// program in index order on Flush.
package animator

import (
	"fmt"
	"math"
	"slices"
	"sync"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/logger"
	"github.com/Carmen-Shannon/oxy-gl/engine/scene_object"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

const defaultCapacity = 8

// State is the animated transform of one instance. Rotation is in radians about X, Y and Z,
// Spin in radians per second. A zero Scale is stored as {1, 1, 1} by Add and SetState.
type State struct {
	Position mgl32.Vec3
	Scale    mgl32.Vec3
	Rotation mgl32.Vec3
	Spin     mgl32.Vec3
}

// withDefaults replaces a zero Scale with unit scale.
func (s State) withDefaults() State {
	if s.Scale == (mgl32.Vec3{}) {
		s.Scale = mgl32.Vec3{1, 1, 1}
	}
	return s
}

// Transform builds the model matrix for the state.
func (s State) Transform() mgl32.Mat4 {
	return common.BuildModelMatrix(s.Position, s.Rotation, s.Scale)
}

// ObjectReplacer is the part of a program the animator writes to.
type ObjectReplacer interface {
	ReplaceObject(name string, transform mgl32.Mat4) (scene_object.SceneObject, error)
}

// DuplicateInstanceError is returned when adding an instance under a name already animated.
type DuplicateInstanceError struct {
	Name string
}

func (e *DuplicateInstanceError) Error() string {
	return fmt.Sprintf("instance %q is already animated", e.Name)
}

type animator struct {
	mu *sync.Mutex

	names   []string
	states  []State
	indices map[string]uint32

	// dirtyIndices holds instances changed since the last Flush; dirtyBitset dedups them.
	dirtyIndices []uint32
	dirtyBitset  []uint64 // word = index/64, bit = index%64
}

// Animator tracks animated instances by scene object name.
type Animator interface {
	// Add registers an instance. It is written on the next Flush.
	//
	// Parameters:
	//   - name: the scene object to drive
	//   - s: its initial state
	//
	// Returns:
	//   - uint32: the instance index
	//   - error: a *DuplicateInstanceError if name is already animated
	Add(name string, s State) (uint32, error)

	// Remove stops animating an instance. The last instance is swapped into its slot.
	//
	// Returns:
	//   - bool: false if name is not animated
	Remove(name string) bool

	// State returns the current state of an instance.
	State(name string) (State, bool)

	// SetState overwrites the state of an instance and marks it dirty.
	//
	// Returns:
	//   - bool: false if name is not animated
	SetState(name string, s State) bool

	// Len returns the number of animated instances.
	Len() int

	// PrepareFrame advances the rotation of every spinning instance by spin * deltaTime. Angles
	// wrap into [-2π, 2π].
	//
	// Parameters:
	//   - deltaTime: elapsed time since the last frame in seconds
	PrepareFrame(deltaTime float32)

	// Flush writes every dirty instance to target in ascending index order and clears the dirty set.
	//
	// Parameters:
	//   - target: the program owning the scene objects
	//
	// Returns:
	//   - int: the number of instances written
	//   - error: the first replace error; instances not yet written stay dirty
	Flush(target ObjectReplacer) (int, error)
}

var _ Animator = &animator{}

// NewAnimator creates an empty Animator.
//
// Parameters:
//   - options: functional options to configure the animator
//
// Returns:
//   - Animator: the newly created animator
func NewAnimator(options ...AnimatorBuilderOption) Animator {
	a := &animator{
		mu:      &sync.Mutex{},
		indices: make(map[string]uint32),
	}
	a.reserve(defaultCapacity)
	for _, opt := range options {
		opt(a)
	}
	return a
}

// reserve grows the backing slices to hold at least n instances. Caller must hold a.mu.
func (a *animator) reserve(n int) {
	if n <= cap(a.states) {
		return
	}
	a.names = slices.Grow(a.names, n-len(a.names))
	a.states = slices.Grow(a.states, n-len(a.states))
	words := (cap(a.states) + 63) / 64
	if words > len(a.dirtyBitset) {
		a.dirtyBitset = append(a.dirtyBitset, make([]uint64, words-len(a.dirtyBitset))...)
	}
}

func (a *animator) Add(name string, s State) (uint32, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, exists := a.indices[name]; exists {
		return 0, &DuplicateInstanceError{Name: name}
	}
	s = s.withDefaults()
	if len(a.states) == cap(a.states) {
		a.reserve(max(2*cap(a.states), defaultCapacity))
	}
	idx := uint32(len(a.states))
	a.names = append(a.names, name)
	a.states = append(a.states, s)
	a.indices[name] = idx
	a.enqueueDirty(idx)
	return idx, nil
}

func (a *animator) Remove(name string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	idx, ok := a.indices[name]
	if !ok {
		return false
	}
	last := uint32(len(a.states) - 1)
	if idx != last {
		a.states[idx] = a.states[last]
		a.names[idx] = a.names[last]
		a.indices[a.names[idx]] = idx
		a.enqueueDirty(idx)
	}
	a.states = a.states[:last]
	a.names = a.names[:last]
	delete(a.indices, name)
	a.dropDirty(last)
	return true
}

func (a *animator) State(name string) (State, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	idx, ok := a.indices[name]
	if !ok {
		return State{}, false
	}
	return a.states[idx], true
}

func (a *animator) SetState(name string, s State) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	idx, ok := a.indices[name]
	if !ok {
		return false
	}
	a.states[idx] = s.withDefaults()
	a.enqueueDirty(idx)
	return true
}

func (a *animator) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.states)
}

func (a *animator) PrepareFrame(deltaTime float32) {
	if deltaTime <= 0 {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	for i := range a.states {
		s := &a.states[i]
		if s.Spin == (mgl32.Vec3{}) {
			continue
		}
		for axis := range 3 {
			s.Rotation[axis] = wrapAngle(s.Rotation[axis] + s.Spin[axis]*deltaTime)
		}
		a.enqueueDirty(uint32(i))
	}
}

func (a *animator) Flush(target ObjectReplacer) (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.dirtyIndices) == 0 {
		return 0, nil
	}
	slices.Sort(a.dirtyIndices)

	written := 0
	for i, idx := range a.dirtyIndices {
		if _, err := target.ReplaceObject(a.names[idx], a.states[idx].Transform()); err != nil {
			remaining := a.dirtyIndices[i:]
			for _, done := range a.dirtyIndices[:i] {
				a.clearBit(done)
			}
			a.dirtyIndices = append(a.dirtyIndices[:0], remaining...)
			return written, fmt.Errorf("animate %q: %w", a.names[idx], err)
		}
		a.clearBit(idx)
		written++
	}
	a.dirtyIndices = a.dirtyIndices[:0]

	logger.Log.Debug("animator flushed", zap.Int("instances", written))
	return written, nil
}

// enqueueDirty adds an index to the dirty queue if not already present. Caller must hold a.mu.
func (a *animator) enqueueDirty(index uint32) {
	word, bit := index/64, uint64(1)<<(index%64)
	if a.dirtyBitset[word]&bit != 0 {
		return
	}
	a.dirtyBitset[word] |= bit
	a.dirtyIndices = append(a.dirtyIndices, index)
}

// dropDirty removes an index from the dirty queue. Caller must hold a.mu.
func (a *animator) dropDirty(index uint32) {
	word, bit := index/64, uint64(1)<<(index%64)
	if a.dirtyBitset[word]&bit == 0 {
		return
	}
	a.dirtyBitset[word] &^= bit
	a.dirtyIndices = slices.DeleteFunc(a.dirtyIndices, func(i uint32) bool { return i == index })
}

func (a *animator) clearBit(index uint32) {
	a.dirtyBitset[index/64] &^= uint64(1) << (index % 64)
}

func wrapAngle(v float32) float32 {
	return float32(math.Mod(float64(v), 2*math.Pi))
}
