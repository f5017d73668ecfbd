package program

import (
	"slices"

	"github.com/Carmen-Shannon/oxy-gl/engine/light"
	"github.com/Carmen-Shannon/oxy-gl/engine/logger"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/uniform"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

func (p *program) AddLight(position mgl32.Vec3, color light.LightColor) error {
	if len(p.lights) >= light.MaxLights {
		return &light.CapacityError{Max: light.MaxLights}
	}
	if p.lightsBlock == nil {
		blk, err := p.uniforms.CreateBlock(light.LightsBlockName, light.LightsBinding)
		if err != nil {
			return err
		}
		p.lightsBlock = blk
	}
	if !p.uniforms.Declared(light.NumLightsUniform) {
		return &uniform.NotFoundError{Name: light.NumLightsUniform}
	}

	p.lights = append(p.lights, light.LightSource{Color: color, Position: position})
	p.lightsBlock.Upload(light.MarshalLights(p.lights))
	if _, err := p.uniforms.Create(light.NumLightsUniform, uniform.Uint(len(p.lights))); err != nil {
		return err
	}
	logger.Log.Debug("light added",
		zap.String("program", p.name),
		zap.Int("count", len(p.lights)),
		zap.Float32s("position", position[:]),
	)
	return nil
}

func (p *program) Lights() []light.LightSource {
	return slices.Clone(p.lights)
}

func (p *program) SetAmbientLight(color light.LightColor) error {
	_, err := p.uniforms.Create(light.AmbientUniform, uniform.Vec4(color.Vec4()))
	return err
}
