package light

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"
)

// MaxLights is the capacity of the Lights uniform block. It must match the array length declared in GPULightsSource.
const MaxLights = 100

// LightsBlockName is the name of the uniform block holding the light array.
const LightsBlockName = "Lights"

// LightsBinding is the uniform buffer binding point the Lights block is bound to.
const LightsBinding = 1

// NumLightsUniform is the name of the uniform holding the number of valid entries in the Lights block.
const NumLightsUniform = "num_lights"

// AmbientUniform is the name of the uniform holding the ambient light color.
const AmbientUniform = "ambient_light_color"

// GPULightsSource is the canonical GLSL declaration of the Light struct, the Lights block and its companion uniforms.
//
//go:embed assets/lights.glsl
var GPULightsSource string

// GPULight is the GPU-aligned representation of a single light source.
// Matches the GLSL Light struct layout exactly (see GPULightsSource).
// Size: 32 bytes (std140, two vec4 members, no padding).
type GPULight struct {
	Color    [4]float32 // offset  0: rgb + intensity
	Position [4]float32 // offset 16: homogeneous position
}

// Size returns the size of the GPULight struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (32)
func (g *GPULight) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPULight struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 32-byte buffer ready for GPU upload
func (g *GPULight) Marshal() []byte {
	buf := make([]byte, 32)
	g.marshalInto(buf)
	return buf
}

func (g *GPULight) marshalInto(buf []byte) {
	for i, v := range g.Color {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	for i, v := range g.Position {
		binary.LittleEndian.PutUint32(buf[16+i*4:], math.Float32bits(v))
	}
}

// MarshalLights packs lights into a tightly packed array of 32-byte entries.
//
// Parameters:
//   - lights: the lights to pack, in block order
//
// Returns:
//   - []byte: 32*len(lights) bytes
func MarshalLights(lights []LightSource) []byte {
	var g GPULight
	stride := g.Size()
	buf := make([]byte, stride*len(lights))
	for i, l := range lights {
		g = l.GPU()
		g.marshalInto(buf[i*stride:])
	}
	return buf
}
