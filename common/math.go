package common

import (
	"cmp"
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
)

// SliceToBytes converts any slice to a byte slice for GPU buffer uploads.
// Uses unsafe pointer operations to create a view into the original data.
// WARNING: The returned slice shares memory with the input - do not modify.
//
// Parameters:
//   - data: source slice of any type
//
// Returns:
//   - []byte: byte slice view of the input data, or nil if input is empty
func SliceToBytes[T any](data []T) []byte {
	if len(data) == 0 {
		return nil
	}
	var zero T
	size := unsafe.Sizeof(zero)
	totalBytes := int(size) * len(data)
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), totalBytes)
}

// Float32s decodes a little-endian float32 byte stream. Trailing bytes that do not form a full float are ignored.
//
// Parameters:
//   - buf: the encoded bytes
//
// Returns:
//   - []float32: the decoded values
func Float32s(buf []byte) []float32 {
	out := make([]float32, len(buf)/4)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:]))
	}
	return out
}

// Clamp restricts v to the closed range [lo, hi].
func Clamp[T cmp.Ordered](v, lo, hi T) T {
	return min(max(v, lo), hi)
}

// NormalMatrix derives the matrix used to transform normals from a model matrix:
// transpose(inverse(upper-left 3x3 of m)). This stays correct under non-uniform scale,
// where the rotation block alone would skew normals.
//
// Parameters:
//   - m: the model matrix
//
// Returns:
//   - mgl32.Mat3: the normal matrix, or the zero matrix if m's 3x3 block is singular
func NormalMatrix(m mgl32.Mat4) mgl32.Mat3 {
	return m.Mat3().Inv().Transpose()
}

// BuildModelMatrix constructs a model matrix from a translation, Euler rotation and scale.
// The rotation order is Y * X * Z (yaw-pitch-roll), applied after scale.
//
// Parameters:
//   - pos: translation in world space
//   - rot: rotation angles in radians around each axis
//   - scale: scale factors along each axis
//
// Returns:
//   - mgl32.Mat4: translate * Ry * Rx * Rz * scale
func BuildModelMatrix(pos, rot, scale mgl32.Vec3) mgl32.Mat4 {
	r := mgl32.HomogRotate3DY(rot.Y()).
		Mul4(mgl32.HomogRotate3DX(rot.X())).
		Mul4(mgl32.HomogRotate3DZ(rot.Z()))
	return mgl32.Translate3D(pos.X(), pos.Y(), pos.Z()).
		Mul4(r).
		Mul4(mgl32.Scale3D(scale.X(), scale.Y(), scale.Z()))
}

// ApproxEqualMat3 reports whether every element of a and b differs by at most eps.
func ApproxEqualMat3(a, b mgl32.Mat3, eps float32) bool {
	for i := range a {
		if float32(math.Abs(float64(a[i]-b[i]))) > eps {
			return false
		}
	}
	return true
}
