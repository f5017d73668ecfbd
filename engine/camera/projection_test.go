package camera

import (
	"math"
	"testing"
)

func TestOrthoSwapRoundTrip(t *testing.T) {
	p := NewOrtho(10, 1).Swap()
	if p.Kind() != ProjectionPerspective {
		t.Fatalf("swap produced %v", p.Kind())
	}
	back, ok := p.Swap().(*Ortho)
	if !ok {
		t.Fatalf("second swap produced %T", p.Swap())
	}
	if math.Abs(float64(back.Side()-10)) > 1e-3 {
		t.Errorf("side = %v, want 10", back.Side())
	}
}

func TestPerspectiveSwapFraming(t *testing.T) {
	p := DefaultPerspective()
	o := p.Swap().(*Ortho)
	want := float64(DefaultNear) * math.Tan(float64(DefaultFov)/2)
	if math.Abs(float64(o.Side())-want) > 1e-6 {
		t.Errorf("side = %v, want %v", o.Side(), want)
	}
	if o.AspectRatio() != p.AspectRatio() {
		t.Errorf("aspect changed across swap")
	}
	back := o.Swap().(*Perspective)
	if math.Abs(float64(back.Fov()-DefaultFov)) > 1e-5 {
		t.Errorf("fov = %v, want %v", back.Fov(), DefaultFov)
	}
}

func TestZoomClamps(t *testing.T) {
	tests := []struct {
		name string
		p    Projection
		zoom float32
		want float32
	}{
		{"ortho grows", NewOrtho(10, 1), 0.5, 10.5},
		{"ortho floor", NewOrtho(0.05, 1), -1, minOrthoSide},
		{"perspective floor", DefaultPerspective(), -10, minFov},
		{"perspective ceiling", DefaultPerspective(), 10, maxFov},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got float32
			switch z := tt.p.Zoom(tt.zoom).(type) {
			case *Ortho:
				got = z.Side()
			case *Perspective:
				got = z.Fov()
			}
			if math.Abs(float64(got-tt.want)) > 1e-6 {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOrthoMatrixUsesAspect(t *testing.T) {
	m := NewOrtho(5, 2).Matrix()
	// x spans [-10, 10], y spans [-5, 5]
	if math.Abs(float64(m[0]-0.1)) > 1e-6 || math.Abs(float64(m[5]-0.2)) > 1e-6 {
		t.Errorf("ortho scale = %v, %v", m[0], m[5])
	}
}
