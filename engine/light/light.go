package light

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/go-gl/mathgl/mgl32"
)

// LightColor is an RGB color with an intensity. Every component is clamped to [0, 1].
type LightColor struct {
	r, g, b, intensity float32
}

// Predefined colors at full intensity.
var (
	White = NewLightColor(1, 1, 1, 1)
	Red   = NewLightColor(1, 0, 0, 1)
	Green = NewLightColor(0, 1, 0, 1)
	Blue  = NewLightColor(0, 0, 1, 1)
)

// NewLightColor creates a LightColor, clamping each component to [0, 1].
//
// Parameters:
//   - r, g, b: the color channels
//   - intensity: the scalar brightness
//
// Returns:
//   - LightColor: the clamped color
func NewLightColor(r, g, b, intensity float32) LightColor {
	return LightColor{
		r:         common.Clamp(r, 0, 1),
		g:         common.Clamp(g, 0, 1),
		b:         common.Clamp(b, 0, 1),
		intensity: common.Clamp(intensity, 0, 1),
	}
}

// RGB returns the color channels.
func (c LightColor) RGB() (float32, float32, float32) {
	return c.r, c.g, c.b
}

// Intensity returns the brightness.
func (c LightColor) Intensity() float32 {
	return c.intensity
}

// Vec4 returns the color as (r, g, b, intensity).
func (c LightColor) Vec4() mgl32.Vec4 {
	return mgl32.Vec4{c.r, c.g, c.b, c.intensity}
}

// WithIntensity returns a copy of c with a new, clamped intensity.
func (c LightColor) WithIntensity(intensity float32) LightColor {
	c.intensity = common.Clamp(intensity, 0, 1)
	return c
}

// LightSource is a point light as stored in the Lights block.
type LightSource struct {
	Color    LightColor
	Position mgl32.Vec3
}

// NewLightSource creates a white light at the origin, then applies options.
//
// Parameters:
//   - options: variadic LightBuilderOption functions
//
// Returns:
//   - LightSource: the configured light
func NewLightSource(options ...LightBuilderOption) LightSource {
	l := LightSource{Color: White}
	for _, opt := range options {
		opt(&l)
	}
	return l
}

// GPU converts the light to its block layout. The position is homogeneous with w = 1.
func (l LightSource) GPU() GPULight {
	return GPULight{
		Color:    l.Color.Vec4(),
		Position: l.Position.Vec4(1),
	}
}

// CapacityError is returned when adding a light to a full Lights block.
type CapacityError struct {
	Max int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("light capacity exceeded: the Lights block holds at most %d lights", e.Max)
}
