package light

import "github.com/go-gl/mathgl/mgl32"

// LightBuilderOption is a function that configures a LightSource during construction.
type LightBuilderOption func(*LightSource)

// WithPosition is an option builder that sets the world-space position of the light.
//
// Parameters:
//   - x: the x position component
//   - y: the y position component
//   - z: the z position component
//
// Returns:
//   - LightBuilderOption: a function that applies the position option to a LightSource
func WithPosition(x, y, z float32) LightBuilderOption {
	return func(l *LightSource) {
		l.Position = mgl32.Vec3{x, y, z}
	}
}

// WithColor is an option builder that sets the color of the light. Components are clamped to [0, 1].
//
// Parameters:
//   - r: the red color component
//   - g: the green color component
//   - b: the blue color component
//
// Returns:
//   - LightBuilderOption: a function that applies the color option to a LightSource
func WithColor(r, g, b float32) LightBuilderOption {
	return func(l *LightSource) {
		l.Color = NewLightColor(r, g, b, l.Color.intensity)
	}
}

// WithIntensity is an option builder that sets the brightness of the light, clamped to [0, 1].
//
// Parameters:
//   - intensity: the intensity value
//
// Returns:
//   - LightBuilderOption: a function that applies the intensity option to a LightSource
func WithIntensity(intensity float32) LightBuilderOption {
	return func(l *LightSource) {
		l.Color = l.Color.WithIntensity(intensity)
	}
}

// WithLightColor is an option builder that sets color and intensity from an existing LightColor.
//
// Parameters:
//   - c: the color to use
//
// Returns:
//   - LightBuilderOption: a function that applies the color to a LightSource
func WithLightColor(c LightColor) LightBuilderOption {
	return func(l *LightSource) {
		l.Color = c
	}
}
