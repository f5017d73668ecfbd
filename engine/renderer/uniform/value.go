package uniform

import (
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer"
	"github.com/go-gl/mathgl/mgl32"
)

// Value is a typed uniform value that knows which setter uploads it.
type Value interface {
	apply(b renderer.RendererBackend, location int32)
}

type (
	Float float32
	Int   int32
	Uint  uint32
	Vec2  mgl32.Vec2
	Vec3  mgl32.Vec3
	Vec4  mgl32.Vec4
	Mat3  mgl32.Mat3
	Mat4  mgl32.Mat4
)

func (v Float) apply(b renderer.RendererBackend, loc int32) { b.Uniform1f(loc, float32(v)) }
func (v Int) apply(b renderer.RendererBackend, loc int32)   { b.Uniform1i(loc, int32(v)) }
func (v Uint) apply(b renderer.RendererBackend, loc int32)  { b.Uniform1ui(loc, uint32(v)) }
func (v Vec2) apply(b renderer.RendererBackend, loc int32)  { b.Uniform2f(loc, v[0], v[1]) }
func (v Vec3) apply(b renderer.RendererBackend, loc int32)  { b.Uniform3f(loc, v[0], v[1], v[2]) }
func (v Vec4) apply(b renderer.RendererBackend, loc int32)  { b.Uniform4f(loc, v[0], v[1], v[2], v[3]) }
func (v Mat3) apply(b renderer.RendererBackend, loc int32)  { b.UniformMatrix3fv(loc, v[:]) }
func (v Mat4) apply(b renderer.RendererBackend, loc int32)  { b.UniformMatrix4fv(loc, v[:]) }
