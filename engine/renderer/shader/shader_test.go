package shader

import (
	"errors"
	"strings"
	"testing"

	"github.com/Carmen-Shannon/oxy-gl/engine/renderer"
)

func TestCompilePresets(t *testing.T) {
	for _, shading := range []Shading{ShadingBlinnPhong, ShadingPhong} {
		t.Run(string(shading), func(t *testing.T) {
			b := renderer.NewHeadlessBackend()
			vs, fs, err := Preset(shading)
			if err != nil {
				t.Fatal(err)
			}
			v, err := Compile(b, vs, renderer.ShaderStageVertex)
			if err != nil {
				t.Fatalf("vertex: %v", err)
			}
			f, err := Compile(b, fs, renderer.ShaderStageFragment)
			if err != nil {
				t.Fatalf("fragment: %v", err)
			}
			if strings.Contains(v.Source(), annotationPrefix) || strings.Contains(f.Source(), annotationPrefix) {
				t.Error("annotations left in compiled source")
			}
			if !strings.Contains(f.Source(), "uniform Lights") {
				t.Error("fragment source is missing the Lights block")
			}
			if !strings.Contains(f.Source(), "uniform float material_shininess;") {
				t.Error("fragment source is missing the material uniforms")
			}
		})
	}
}

func TestCompileErrorCarriesFullLog(t *testing.T) {
	b := renderer.NewHeadlessBackend()
	_, err := Compile(b, "#version 410 core\n#error first\n#error second\nvoid main() {}", renderer.ShaderStageFragment)

	var ce *CompileError
	if !errors.As(err, &ce) {
		t.Fatalf("expected *CompileError, got %v", err)
	}
	if ce.Stage != renderer.ShaderStageFragment {
		t.Errorf("Stage = %v", ce.Stage)
	}
	if !strings.Contains(ce.Log, "first") || !strings.Contains(ce.Log, "second") {
		t.Errorf("log is not complete: %q", ce.Log)
	}
	if b.ShaderCount() != 0 {
		t.Errorf("failed compile leaked %d shader objects", b.ShaderCount())
	}
}

func TestPreProcessor(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		want    []AnnotationArg
		wantErr bool
	}{
		{"plain", "void main() {}", nil, false},
		{"single", "//@oxy:include lights", []AnnotationArg{AnnotationArgLights}, false},
		{"repeated", "// @oxy:include camera\n//@oxy:include camera", []AnnotationArg{AnnotationArgCamera}, false},
		{"material", "//@oxy:include material", []AnnotationArg{AnnotationArgMaterial}, false},
		{"unknown block", "//@oxy:include shadows", nil, true},
		{"unknown type", "//@oxy:group 0 0", nil, true},
		{"missing arg", "//@oxy:include", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pp := NewPreProcessor()
			out, err := pp.Process(tt.source)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			got := pp.Included()
			if len(got) != len(tt.want) {
				t.Fatalf("Included = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("Included = %v, want %v", got, tt.want)
				}
			}
			if len(tt.want) == 1 && strings.Count(out, "uniform") == 0 {
				t.Errorf("include did not expand: %q", out)
			}
		})
	}
}

func TestReleaseIsIdempotent(t *testing.T) {
	b := renderer.NewHeadlessBackend()
	s, err := Compile(b, InstancedVertexSource, renderer.ShaderStageVertex)
	if err != nil {
		t.Fatal(err)
	}
	s.Release()
	s.Release()
	if s.ID() != 0 {
		t.Error("released shader still reports an id")
	}
	if n := b.CallCount("DeleteShader"); n != 1 {
		t.Errorf("DeleteShader called %d times, want 1", n)
	}
}
