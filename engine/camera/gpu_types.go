package camera

import (
	_ "embed"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/go-gl/mathgl/mgl32"
)

// Uniform names declared by GPUCameraUniformSource.
const (
	MVPUniform = "mvp"
	MVUniform  = "mv"
	MVNUniform = "mvn"
)

// GPUCameraUniformSource is the canonical GLSL declaration of the camera uniforms.
//
//go:embed assets/camera.glsl
var GPUCameraUniformSource string

// GPUCameraUniforms holds the per-frame camera transforms uploaded to a program.
type GPUCameraUniforms struct {
	MVP mgl32.Mat4 // projection * view
	MV  mgl32.Mat4 // view
	MVN mgl32.Mat3 // transpose(inverse(mat3(view)))
}

// newGPUCameraUniforms derives the uniform set from a view and projection matrix.
func newGPUCameraUniforms(view, projection mgl32.Mat4) GPUCameraUniforms {
	return GPUCameraUniforms{
		MVP: projection.Mul4(view),
		MV:  view,
		MVN: common.NormalMatrix(view),
	}
}
