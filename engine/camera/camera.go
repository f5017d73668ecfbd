package camera

import (
	"sync"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	DefaultRadius float32 = 25.0
	MinRadius     float32 = 0.11

	// RotationStep is the angle in radians applied by a single Up/Down/Left/Right rotation event.
	RotationStep float32 = 0.05

	defaultPanSpeed float32 = 25.0
)

// home is the state restored by a Center movement.
type home struct {
	target     mgl32.Vec3
	radius     float32
	rotation   mgl32.Mat3
	projection Projection
}

type cameraImpl struct {
	mu *sync.Mutex

	target   mgl32.Vec3
	radius   float32
	rotation mgl32.Mat3 // columns are the camera's local X, Y and Z axes in world space
	panSpeed float32

	projection Projection
	viewMatrix mgl32.Mat4
	position   mgl32.Vec3

	home home
}

// Camera is an arc-ball camera: it orbits a target point at a fixed radius, oriented by an
// orthonormal rotation basis, and always looks at the target.
//
// The view matrix is cached. Update drains an event queue and recomputes the view matrix only when
// at least one event was applied.
type Camera interface {
	// Target returns the point the camera orbits.
	//
	// Returns:
	//   - mgl32.Vec3: world-space target
	Target() mgl32.Vec3

	// Radius returns the distance from the target.
	//
	// Returns:
	//   - float32: the orbit radius, never below MinRadius
	Radius() float32

	// Rotation returns the rotation basis. Column i is local axis i.
	//
	// Returns:
	//   - mgl32.Mat3: the rotation basis
	Rotation() mgl32.Mat3

	// Position returns the world-space eye position as of the last view matrix computation.
	//
	// Returns:
	//   - mgl32.Vec3: the eye position
	Position() mgl32.Vec3

	// ViewMatrix returns the cached view matrix.
	//
	// Returns:
	//   - mgl32.Mat4: inverse(rotation) * inverse(translation(target + localZ*radius))
	ViewMatrix() mgl32.Mat4

	// Projection returns the current projection.
	//
	// Returns:
	//   - Projection: an *Ortho or *Perspective
	Projection() Projection

	// Uniforms returns the per-frame camera uniform set.
	//
	// Returns:
	//   - GPUCameraUniforms: mvp, mv and mvn
	Uniforms() GPUCameraUniforms

	// Update drains the queue in order, applying every event. The view matrix is recomputed only if
	// the queue was non-empty.
	//
	// Parameters:
	//   - events: the queue to drain; nil is treated as empty
	Update(events *EventQueue)
}

var _ Camera = &cameraImpl{}

// NewCamera creates an arc-ball camera looking at the origin from DefaultRadius along +Z with a
// default perspective projection. The state after options are applied is the one restored by Center.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu:         &sync.Mutex{},
		radius:     DefaultRadius,
		rotation:   mgl32.Ident3(),
		panSpeed:   defaultPanSpeed,
		projection: DefaultPerspective(),
	}
	for _, option := range options {
		option(c)
	}
	c.radius = max(c.radius, MinRadius)
	c.home = home{
		target:     c.target,
		radius:     c.radius,
		rotation:   c.rotation,
		projection: c.projection,
	}
	c.computeViewMatrix()
	return c
}

func (c *cameraImpl) Target() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.target
}

func (c *cameraImpl) Radius() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.radius
}

func (c *cameraImpl) Rotation() mgl32.Mat3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rotation
}

func (c *cameraImpl) Position() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.position
}

func (c *cameraImpl) ViewMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewMatrix
}

func (c *cameraImpl) Projection() Projection {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projection
}

func (c *cameraImpl) Uniforms() GPUCameraUniforms {
	c.mu.Lock()
	defer c.mu.Unlock()
	return newGPUCameraUniforms(c.viewMatrix, c.projection.Matrix())
}

func (c *cameraImpl) Update(events *EventQueue) {
	if events == nil || events.Len() == 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for {
		ev, ok := events.Pop()
		if !ok {
			break
		}
		switch e := ev.(type) {
		case Movement:
			c.move(e.Direction)
		case Rotation:
			c.rotate(e.Direction)
		case ZoomProjection:
			c.projection = c.projection.Zoom(e.Amount)
		case SwapProjection:
			c.projection = c.projection.Swap()
		case ProjectionAspectRatio:
			c.projection = c.projection.WithAspectRatio(e.Aspect)
		}
	}
	c.computeViewMatrix()
}

// move applies a Movement direction. Caller must hold the mutex.
func (c *cameraImpl) move(d Direction) {
	switch d.Kind {
	case DirectionForwards:
		c.radius = max(c.radius-d.Magnitude, MinRadius)
	case DirectionBackwards:
		c.radius = max(c.radius+d.Magnitude, MinRadius)
	case DirectionCenter:
		c.target = c.home.target
		c.radius = c.home.radius
		c.rotation = c.home.rotation
		c.projection = c.home.projection
	case DirectionVector:
		c.target = c.target.
			Sub(c.rotation.Col(0).Mul(d.Vector.X() * c.panSpeed)).
			Sub(c.rotation.Col(1).Mul(d.Vector.Y() * c.panSpeed))
	}
}

// rotate applies a Rotation direction by left-multiplying the basis. Caller must hold the mutex.
func (c *cameraImpl) rotate(d Direction) {
	switch d.Kind {
	case DirectionUp:
		c.turn(0, RotationStep)
	case DirectionDown:
		c.turn(0, -RotationStep)
	case DirectionLeft:
		c.turn(1, RotationStep)
	case DirectionRight:
		c.turn(1, -RotationStep)
	case DirectionVector:
		c.turn(0, d.Vector.Y())
		c.turn(1, -d.Vector.X())
	}
}

// turn rotates the basis by angle about its current local axis. Caller must hold the mutex.
func (c *cameraImpl) turn(axis int, angle float32) {
	if angle == 0 {
		return
	}
	r := mgl32.HomogRotate3D(angle, c.rotation.Col(axis).Normalize()).Mat3()
	c.rotation = r.Mul3(c.rotation)
}

// computeViewMatrix refreshes the eye position and view matrix. Caller must hold the mutex.
func (c *cameraImpl) computeViewMatrix() {
	c.position = c.target.Add(c.rotation.Col(2).Mul(c.radius))
	inverseRotation := c.rotation.Mat4().Transpose()
	inverseTranslation := mgl32.Translate3D(-c.position.X(), -c.position.Y(), -c.position.Z())
	c.viewMatrix = inverseRotation.Mul4(inverseTranslation)
}
