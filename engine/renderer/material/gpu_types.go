package material

import _ "embed"

// Uniform names declared by GPUMaterialSource.
const (
	AmbientUniform   = "material_ambient"
	DiffuseUniform   = "material_diffuse"
	SpecularUniform  = "material_specular"
	ShininessUniform = "material_shininess"
)

// GPUMaterialSource is the canonical GLSL declaration of the material uniforms.
//
//go:embed assets/material.glsl
var GPUMaterialSource string
