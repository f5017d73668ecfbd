package renderer

import (
	"regexp"
	"strconv"
	"strings"
)

// glslSlotCount maps GLSL vertex input types to the number of attribute slots they occupy.
var glslSlotCount = map[string]int{
	"float": 1, "int": 1, "uint": 1,
	"vec2": 1, "vec3": 1, "vec4": 1,
	"ivec2": 1, "ivec3": 1, "ivec4": 1,
	"uvec2": 1, "uvec3": 1, "uvec4": 1,
	"mat2": 2, "mat3": 3, "mat4": 4,
}

var (
	versionRegex      = regexp.MustCompile(`(?m)^\s*#version\s+(\d+)`)
	errorRegex        = regexp.MustCompile(`(?m)^\s*#error\s*(.*)$`)
	mainRegex         = regexp.MustCompile(`\bvoid\s+main\s*\(\s*(void)?\s*\)`)
	inputRegex        = regexp.MustCompile(`(?m)^\s*(?:layout\s*\(\s*location\s*=\s*(\d+)\s*\)\s*)?(?:flat\s+|smooth\s+|noperspective\s+)?in\s+(\w+)\s+(\w+)\s*(?:\[\s*\d*\s*\])?\s*;`)
	outputRegex       = regexp.MustCompile(`(?m)^\s*(?:layout\s*\([^)]*\)\s*)?(?:flat\s+|smooth\s+|noperspective\s+)?out\s+(\w+)\s+(\w+)\s*(?:\[\s*\d*\s*\])?\s*;`)
	uniformRegex      = regexp.MustCompile(`(?m)^\s*(?:layout\s*\([^)]*\)\s*)?uniform\s+(\w+)\s+(\w+)\s*(\[\s*\d+\s*\])?\s*;`)
	uniformBlockRegex = regexp.MustCompile(`(?m)^\s*(?:layout\s*\([^)]*\)\s*)?uniform\s+(\w+)\s*\{`)
	lineCommentRegex  = regexp.MustCompile(`//[^\n]*`)
	blockCommentRegex = regexp.MustCompile(`(?s)/\*.*?\*/`)
)

// glslInput is a stage input variable. location is -1 when not given by a layout qualifier.
type glslInput struct {
	name     string
	typeName string
	location int
}

// glslReflection is the interface of a single GLSL stage as seen by the headless backend.
type glslReflection struct {
	version  int
	inputs   []glslInput
	outputs  []string
	uniforms []string
	blocks   []string
}

// stripGLSLComments removes line and block comments so declarations inside them are ignored.
func stripGLSLComments(source string) string {
	source = blockCommentRegex.ReplaceAllString(source, "")
	return lineCommentRegex.ReplaceAllString(source, "")
}

// reflectGLSL validates source the way a minimal driver would and extracts its interface.
//
// Parameters:
//   - source: the GLSL source of one stage
//
// Returns:
//   - glslReflection: the parsed interface
//   - string: a driver-style error log, empty when the source is accepted
func reflectGLSL(source string) (glslReflection, string) {
	var r glslReflection
	src := stripGLSLComments(source)

	var log strings.Builder
	m := versionRegex.FindStringSubmatch(src)
	if m == nil {
		log.WriteString("0:1(1): error: missing #version directive\n")
	} else {
		r.version, _ = strconv.Atoi(m[1])
		if r.version < 330 {
			log.WriteString("0:1(10): error: GLSL " + m[1] + " is not supported by a core profile context\n")
		}
	}
	for _, em := range errorRegex.FindAllStringSubmatch(src, -1) {
		log.WriteString("0:" + strconv.Itoa(lineOf(src, em[0])) + "(1): error: #error " + strings.TrimSpace(em[1]) + "\n")
	}
	if !mainRegex.MatchString(src) {
		log.WriteString("error: function `main' is not defined\n")
	}
	if strings.Count(src, "{") != strings.Count(src, "}") {
		log.WriteString("0:" + strconv.Itoa(strings.Count(src, "\n")+1) + "(1): error: syntax error, unbalanced braces\n")
	}
	if log.Len() > 0 {
		return r, log.String()
	}

	for _, im := range inputRegex.FindAllStringSubmatch(src, -1) {
		in := glslInput{typeName: im[2], name: im[3], location: -1}
		if im[1] != "" {
			in.location, _ = strconv.Atoi(im[1])
		}
		r.inputs = append(r.inputs, in)
	}
	for _, om := range outputRegex.FindAllStringSubmatch(src, -1) {
		r.outputs = append(r.outputs, om[2])
	}
	for _, um := range uniformRegex.FindAllStringSubmatch(src, -1) {
		r.uniforms = append(r.uniforms, um[2])
	}
	for _, bm := range uniformBlockRegex.FindAllStringSubmatch(src, -1) {
		r.blocks = append(r.blocks, bm[1])
	}
	return r, ""
}

// lineOf returns the 1-based line number of the first occurrence of needle in src.
func lineOf(src, needle string) int {
	idx := strings.Index(src, needle)
	if idx < 0 {
		return 1
	}
	return strings.Count(src[:idx], "\n") + 1
}

// assignAttribLocations resolves vertex input locations: explicit layout locations are kept, the
// remaining inputs take the next free slots in declaration order. Matrix inputs reserve one slot per column.
func assignAttribLocations(inputs []glslInput) map[string]int {
	used := make(map[int]bool)
	out := make(map[string]int, len(inputs))
	for _, in := range inputs {
		if in.location < 0 {
			continue
		}
		out[in.name] = in.location
		for i := range slotsFor(in.typeName) {
			used[in.location+i] = true
		}
	}
	next := 0
	for _, in := range inputs {
		if in.location >= 0 {
			continue
		}
		n := slotsFor(in.typeName)
		for !freeRun(used, next, n) {
			next++
		}
		out[in.name] = next
		for i := range n {
			used[next+i] = true
		}
		next += n
	}
	return out
}

func slotsFor(typeName string) int {
	if n, ok := glslSlotCount[typeName]; ok {
		return n
	}
	return 1
}

func freeRun(used map[int]bool, start, n int) bool {
	for i := range n {
		if used[start+i] {
			return false
		}
	}
	return true
}
