package shader

import (
	_ "embed"
	"fmt"
)

// InstancedVertexSource is the vertex stage shared by the lit presets. It reads per-vertex positions
// and normals plus per-instance model and normal matrices, and emits model-view position and normal.
//
//go:embed assets/instanced.vert
var InstancedVertexSource string

// BlinnPhongFragmentSource shades with the Blinn-Phong half-angle specular term.
//
//go:embed assets/blinn_phong.frag
var BlinnPhongFragmentSource string

// PhongFragmentSource shades with the Phong reflection-vector specular term.
//
//go:embed assets/phong.frag
var PhongFragmentSource string

// Shading selects a built-in vertex/fragment source pair.
type Shading string

const (
	ShadingBlinnPhong Shading = "blinn"
	ShadingPhong      Shading = "phong"
)

// Preset returns the vertex and fragment sources for a built-in shading model.
//
// Parameters:
//   - s: the shading model
//
// Returns:
//   - string: the vertex source
//   - string: the fragment source
//   - error: an error if s is not a known shading model
func Preset(s Shading) (string, string, error) {
	switch s {
	case ShadingBlinnPhong, "":
		return InstancedVertexSource, BlinnPhongFragmentSource, nil
	case ShadingPhong:
		return InstancedVertexSource, PhongFragmentSource, nil
	default:
		return "", "", fmt.Errorf("unknown shading model %q", s)
	}
}
