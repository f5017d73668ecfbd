package camera

import "github.com/go-gl/mathgl/mgl32"

type CameraBuilderOption func(*cameraImpl)

// WithTarget sets the point the camera orbits.
//
// Parameters:
//   - target: world-space target
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's target
func WithTarget(target mgl32.Vec3) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.target = target
	}
}

// WithRadius sets the initial distance from the target. Values below MinRadius are raised to it.
//
// Parameters:
//   - radius: orbit radius
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's radius
func WithRadius(radius float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.radius = radius
	}
}

// WithRotation sets the initial rotation basis. The columns must be orthonormal.
//
// Parameters:
//   - rotation: the rotation basis
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's rotation
func WithRotation(rotation mgl32.Mat3) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.rotation = rotation
	}
}

// WithProjection sets the initial projection.
//
// Parameters:
//   - projection: an *Ortho or *Perspective
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's projection
func WithProjection(projection Projection) CameraBuilderOption {
	return func(c *cameraImpl) {
		if projection != nil {
			c.projection = projection
		}
	}
}

// WithPanSpeed sets how far a Movement vector of magnitude 1 moves the target.
//
// Parameters:
//   - speed: world units per unit of vector magnitude
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's pan speed
func WithPanSpeed(speed float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.panSpeed = speed
	}
}
