package camera

import (
	"math"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/go-gl/mathgl/mgl32"
)

// ProjectionKind identifies the variant behind a Projection.
type ProjectionKind int

const (
	ProjectionPerspective ProjectionKind = iota
	ProjectionOrtho
)

func (k ProjectionKind) String() string {
	switch k {
	case ProjectionPerspective:
		return "perspective"
	case ProjectionOrtho:
		return "ortho"
	default:
		return "unknown"
	}
}

const (
	DefaultFov       float32 = math.Pi / 3
	DefaultNear      float32 = 0.1
	DefaultFar       float32 = 10000
	DefaultOrthoSide float32 = 10

	minOrthoSide float32 = 0.01
	minFov       float32 = 0.01
	maxFov       float32 = math.Pi - 0.01
)

// Projection is either an *Ortho or a *Perspective. Both variants are immutable and cache their
// matrix at construction; every mutation returns a new value.
type Projection interface {
	// Kind returns the variant.
	Kind() ProjectionKind

	// Matrix returns the cached projection matrix.
	Matrix() mgl32.Mat4

	// AspectRatio returns width / height.
	AspectRatio() float32

	// Swap converts to the other variant, preserving comparable framing:
	// side = near * tan(fov / 2) and fov = 2 * atan(side / near).
	//
	// Returns:
	//   - Projection: the converted projection
	Swap() Projection

	// Zoom adds amount to the side (ortho) or field of view (perspective), clamped so the
	// projection never degenerates.
	//
	// Parameters:
	//   - amount: the signed adjustment
	//
	// Returns:
	//   - Projection: the zoomed projection
	Zoom(amount float32) Projection

	// WithAspectRatio returns a copy with a new aspect ratio.
	//
	// Parameters:
	//   - aspect: width / height
	//
	// Returns:
	//   - Projection: the updated projection
	WithAspectRatio(aspect float32) Projection
}

// Ortho is an orthographic projection described by its vertical half-extent.
type Ortho struct {
	side   float32
	aspect float32
	matrix mgl32.Mat4
}

// Perspective is a perspective projection.
type Perspective struct {
	fov    float32
	aspect float32
	near   float32
	far    float32
	matrix mgl32.Mat4
}

var (
	_ Projection = &Ortho{}
	_ Projection = &Perspective{}
)

// NewOrtho creates an orthographic projection. side is the vertical half-extent.
func NewOrtho(side, aspect float32) *Ortho {
	s := side * aspect
	return &Ortho{
		side:   side,
		aspect: aspect,
		matrix: mgl32.Ortho(-s, s, -side, side, DefaultNear, DefaultFar),
	}
}

// NewPerspective creates a perspective projection. fov is the vertical field of view in radians.
func NewPerspective(fov, aspect, near, far float32) *Perspective {
	return &Perspective{
		fov:    fov,
		aspect: aspect,
		near:   near,
		far:    far,
		matrix: mgl32.Perspective(fov, aspect, near, far),
	}
}

// DefaultPerspective returns the projection a camera starts with.
func DefaultPerspective() *Perspective {
	return NewPerspective(DefaultFov, 1, DefaultNear, DefaultFar)
}

// DefaultOrtho returns the default orthographic projection.
func DefaultOrtho() *Ortho {
	return NewOrtho(DefaultOrthoSide, 1)
}

func (o *Ortho) Kind() ProjectionKind {
	return ProjectionOrtho
}

func (o *Ortho) Matrix() mgl32.Mat4 {
	return o.matrix
}

func (o *Ortho) AspectRatio() float32 {
	return o.aspect
}

// Side returns the vertical half-extent.
func (o *Ortho) Side() float32 {
	return o.side
}

func (o *Ortho) Swap() Projection {
	fov := 2 * math.Atan(float64(o.side)/float64(DefaultNear))
	return NewPerspective(float32(fov), o.aspect, DefaultNear, DefaultFar)
}

func (o *Ortho) Zoom(amount float32) Projection {
	return NewOrtho(max(o.side+amount, minOrthoSide), o.aspect)
}

func (o *Ortho) WithAspectRatio(aspect float32) Projection {
	return NewOrtho(o.side, aspect)
}

func (p *Perspective) Kind() ProjectionKind {
	return ProjectionPerspective
}

func (p *Perspective) Matrix() mgl32.Mat4 {
	return p.matrix
}

func (p *Perspective) AspectRatio() float32 {
	return p.aspect
}

// Fov returns the vertical field of view in radians.
func (p *Perspective) Fov() float32 {
	return p.fov
}

// Near returns the near plane distance.
func (p *Perspective) Near() float32 {
	return p.near
}

// Far returns the far plane distance.
func (p *Perspective) Far() float32 {
	return p.far
}

func (p *Perspective) Swap() Projection {
	side := float64(p.near) * math.Tan(float64(p.fov)/2)
	return NewOrtho(float32(side), p.aspect)
}

func (p *Perspective) Zoom(amount float32) Projection {
	return NewPerspective(common.Clamp(p.fov+amount, minFov, maxFov), p.aspect, p.near, p.far)
}

func (p *Perspective) WithAspectRatio(aspect float32) Projection {
	return NewPerspective(p.fov, aspect, p.near, p.far)
}
