package mesh

import _ "embed"

// Attribute names and locations declared by GPUInstanceInputSource.
const (
	VerticesAttribute         = "vertices"
	NormalsAttribute          = "normals"
	ModelTransformsAttribute  = "object_mw_transforms"
	NormalTransformsAttribute = "object_mw_normal_transforms"

	VerticesLocation         = 0
	NormalsLocation          = 1
	ModelTransformsLocation  = 2
	NormalTransformsLocation = 6
)

// GPUInstanceInputSource is the canonical GLSL declaration of the vertex stage inputs of an
// instanced mesh.
//
//go:embed assets/instance.glsl
var GPUInstanceInputSource string
