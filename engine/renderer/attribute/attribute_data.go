package attribute

import (
	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/go-gl/mathgl/mgl32"
)

// Data is a typed array of attribute elements ready for upload.
// Matrices occupy one attribute slot per column; scalars and vectors occupy one slot.
type Data interface {
	// Len returns the number of elements.
	Len() int

	// Columns returns the number of attribute slots one element occupies.
	Columns() int

	// Components returns the number of floats per slot (1 to 4).
	Components() int

	// Bytes returns the tightly packed element data.
	Bytes() []byte
}

// Float32s is a scalar attribute array.
type Float32s []float32

// Vec2s is a vec2 attribute array.
type Vec2s []mgl32.Vec2

// Vec3s is a vec3 attribute array.
type Vec3s []mgl32.Vec3

// Vec4s is a vec4 attribute array.
type Vec4s []mgl32.Vec4

// Mat3s is a column-major mat3 attribute array, split across 3 slots of vec3.
type Mat3s []mgl32.Mat3

// Mat4s is a column-major mat4 attribute array, split across 4 slots of vec4.
type Mat4s []mgl32.Mat4

func (d Float32s) Len() int        { return len(d) }
func (d Float32s) Columns() int    { return 1 }
func (d Float32s) Components() int { return 1 }
func (d Float32s) Bytes() []byte   { return common.SliceToBytes(d) }

func (d Vec2s) Len() int        { return len(d) }
func (d Vec2s) Columns() int    { return 1 }
func (d Vec2s) Components() int { return 2 }
func (d Vec2s) Bytes() []byte   { return common.SliceToBytes(d) }

func (d Vec3s) Len() int        { return len(d) }
func (d Vec3s) Columns() int    { return 1 }
func (d Vec3s) Components() int { return 3 }
func (d Vec3s) Bytes() []byte   { return common.SliceToBytes(d) }

func (d Vec4s) Len() int        { return len(d) }
func (d Vec4s) Columns() int    { return 1 }
func (d Vec4s) Components() int { return 4 }
func (d Vec4s) Bytes() []byte   { return common.SliceToBytes(d) }

func (d Mat3s) Len() int        { return len(d) }
func (d Mat3s) Columns() int    { return 3 }
func (d Mat3s) Components() int { return 3 }
func (d Mat3s) Bytes() []byte   { return common.SliceToBytes(d) }

func (d Mat4s) Len() int        { return len(d) }
func (d Mat4s) Columns() int    { return 4 }
func (d Mat4s) Components() int { return 4 }
func (d Mat4s) Bytes() []byte   { return common.SliceToBytes(d) }

// ElementSize returns the byte size of one element of d, which is also its attribute stride.
func ElementSize(d Data) int {
	return d.Columns() * d.Components() * 4
}
