package program

import (
	"github.com/Carmen-Shannon/oxy-gl/engine/logger"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/uniform"
	"go.uber.org/zap"
)

// phongShininess is the default exponent of the reflect-based preset.
const phongShininess float32 = 32

// defaultMaterial returns the material a program starts with when none was configured.
func (p *program) defaultMaterial() material.Material {
	m := material.NewMaterial()
	if p.vertexSource == "" && p.shading == shader.ShadingPhong {
		m = m.WithShininess(phongShininess)
	}
	return m
}

func (p *program) SetMaterial(m material.Material) error {
	if !p.uniforms.Declared(material.DiffuseUniform) {
		return &uniform.NotFoundError{Name: material.DiffuseUniform}
	}
	p.material = m
	return p.uploadMaterial()
}

func (p *program) Material() material.Material {
	return p.material
}

// uploadMaterial writes every material uniform the shader declares.
func (p *program) uploadMaterial() error {
	for name, v := range p.material.Uniforms() {
		if !p.uniforms.Declared(name) {
			continue
		}
		if _, err := p.uniforms.Create(name, v); err != nil {
			return err
		}
	}
	logger.Log.Debug("material set",
		zap.String("program", p.name),
		zap.String("material", p.material.Name()),
	)
	return nil
}
