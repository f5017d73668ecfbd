// pre_processor.go implements the Oxy GLSL shader pre-processor. It scans shader source
// for //@oxy:include annotations and replaces each with the canonical GLSL declaration
// owned by the engine package whose CPU-side layout must agree with it: the Lights block
// (engine/light), the camera uniforms (engine/camera), the vertex/instance inputs
// (engine/mesh) and the material uniforms (engine/renderer/material). Including these
// rather than copying them keeps attribute locations, uniform names and the light
// capacity in one place.
package shader

import (
	"fmt"
	"slices"
	"strings"

	"github.com/Carmen-Shannon/oxy-gl/engine/camera"
	"github.com/Carmen-Shannon/oxy-gl/engine/light"
	"github.com/Carmen-Shannon/oxy-gl/engine/mesh"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/material"
)

// preProcessor is the implementation of the PreProcessor interface.
type preProcessor struct {
	// registry maps include keys to their embedded GLSL source.
	registry map[AnnotationArg]string

	// included records the blocks injected by the most recent Process call, in source order.
	included []AnnotationArg
}

// PreProcessor expands //@oxy:include annotations in GLSL source.
type PreProcessor interface {
	// Process replaces every //@oxy:include annotation with its registered GLSL declaration.
	// Each block is injected at most once per source; repeated includes are dropped.
	//
	// Parameters:
	//   - source: the raw GLSL source
	//
	// Returns:
	//   - string: the expanded source
	//   - error: an error if an annotation is malformed or names an unknown block
	Process(source string) (string, error)

	// Included returns the blocks injected by the most recent Process call, in source order.
	//
	// Returns:
	//   - []AnnotationArg: the injected block keys
	Included() []AnnotationArg
}

var _ PreProcessor = &preProcessor{}

// NewPreProcessor creates a PreProcessor with every engine-owned GLSL block registered.
//
// Returns:
//   - PreProcessor: a ready-to-use pre-processor instance
func NewPreProcessor() PreProcessor {
	return &preProcessor{
		registry: map[AnnotationArg]string{
			AnnotationArgLights:   light.GPULightsSource,
			AnnotationArgCamera:   camera.GPUCameraUniformSource,
			AnnotationArgInstance: mesh.GPUInstanceInputSource,
			AnnotationArgMaterial: material.GPUMaterialSource,
		},
	}
}

func (p *preProcessor) Process(source string) (string, error) {
	p.included = p.included[:0]

	lines := strings.Split(source, "\n")
	out := make([]string, 0, len(lines))
	for i, line := range lines {
		a, err := parseAnnotation(line, i+1)
		if err != nil {
			return "", err
		}
		if a == nil {
			out = append(out, line)
			continue
		}

		switch a.Type {
		case annotationTypeInclude:
			key := a.Args[0]
			src, ok := p.registry[key]
			if !ok {
				return "", fmt.Errorf("line %d: unknown @oxy:include argument %q", i+1, key)
			}
			if slices.Contains(p.included, key) {
				continue
			}
			p.included = append(p.included, key)
			out = append(out, strings.TrimRight(src, "\n"))
		default:
			return "", fmt.Errorf("line %d: unknown annotation type %q", i+1, a.Type)
		}
	}
	return strings.Join(out, "\n"), nil
}

func (p *preProcessor) Included() []AnnotationArg {
	return p.included
}

