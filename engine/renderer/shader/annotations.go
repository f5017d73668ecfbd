package shader

import (
	"fmt"
	"slices"
	"strings"
)

// annotationPrefix is the marker that identifies an Oxy annotation within a GLSL comment line.
const annotationPrefix = "@oxy:"

// AnnotationType identifies the kind of annotation parsed from a GLSL comment line.
type AnnotationType string

const (
	// annotationTypeInclude injects a registered GLSL declaration block into the shader at the
	// annotation site. The block source is embedded from the owning engine package's .glsl asset.
	//
	// Syntax: //@oxy:include <block>
	//
	// Example: //@oxy:include lights
	annotationTypeInclude AnnotationType = "include"
)

// AnnotationArg is a typed string used as an annotation argument.
type AnnotationArg string

const (
	// AnnotationArgLights identifies the Light struct, the Lights uniform block, num_lights and ambient_light_color.
	// Source: engine/light/assets/lights.glsl
	AnnotationArgLights AnnotationArg = "lights"

	// AnnotationArgCamera identifies the mvp, mv and mvn camera uniforms.
	// Source: engine/camera/assets/camera.glsl
	AnnotationArgCamera AnnotationArg = "camera"

	// AnnotationArgInstance identifies the per-vertex and per-instance inputs at locations 0 through 8.
	// Source: engine/mesh/assets/instance.glsl
	AnnotationArgInstance AnnotationArg = "instance"

	// AnnotationArgMaterial identifies the Phong material uniforms.
	// Source: engine/renderer/material/assets/material.glsl
	AnnotationArgMaterial AnnotationArg = "material"
)

var validIncludes = []AnnotationArg{
	AnnotationArgLights,
	AnnotationArgCamera,
	AnnotationArgInstance,
	AnnotationArgMaterial,
}

// Annotation represents a single parsed @oxy: annotation from a GLSL source line.
type Annotation struct {
	// Type identifies which annotation was parsed.
	Type AnnotationType

	// Args holds the annotation's arguments. For include: [0] = block key.
	Args []AnnotationArg

	// Line is the 1-based line number in the original source.
	Line int
}

// parseAnnotation attempts to parse a single source line as an @oxy: annotation.
// Lines that are not comments carrying the annotation prefix are not annotations.
//
// Parameters:
//   - line: the raw source line
//   - lineNum: the 1-based line number for error reporting
//
// Returns:
//   - *Annotation: the parsed annotation, or nil if the line is not an annotation
//   - error: a descriptive error if the annotation is malformed
func parseAnnotation(line string, lineNum int) (*Annotation, error) {
	trimmed := strings.TrimSpace(line)
	comment, ok := strings.CutPrefix(trimmed, "//")
	if !ok {
		return nil, nil
	}
	after, ok := strings.CutPrefix(strings.TrimSpace(comment), annotationPrefix)
	if !ok {
		return nil, nil
	}

	args := strings.Fields(after)
	if len(args) == 0 {
		return nil, fmt.Errorf("line %d: empty @oxy annotation", lineNum)
	}

	switch args[0] {
	case string(annotationTypeInclude):
		if len(args) != 2 {
			return nil, fmt.Errorf("line %d: @oxy include annotation requires exactly one argument", lineNum)
		}
		if !slices.Contains(validIncludes, AnnotationArg(args[1])) {
			return nil, fmt.Errorf("line %d: unknown block %q in @oxy include annotation", lineNum, args[1])
		}
		return &Annotation{
			Type: annotationTypeInclude,
			Args: []AnnotationArg{AnnotationArg(args[1])},
			Line: lineNum,
		}, nil
	default:
		return nil, fmt.Errorf("line %d: unknown annotation type %q", lineNum, args[0])
	}
}
