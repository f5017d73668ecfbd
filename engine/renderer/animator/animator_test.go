package animator

import (
	"errors"
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-gl/engine/scene_object"
	"github.com/go-gl/mathgl/mgl32"
)

type replaceCall struct {
	name      string
	transform mgl32.Mat4
}

type fakeProgram struct {
	calls  []replaceCall
	failOn string
}

func (f *fakeProgram) ReplaceObject(name string, transform mgl32.Mat4) (scene_object.SceneObject, error) {
	if name == f.failOn {
		return nil, errors.New("boom")
	}
	f.calls = append(f.calls, replaceCall{name, transform})
	return scene_object.NewSceneObject(name, "mesh", transform), nil
}

func (f *fakeProgram) names() []string {
	var out []string
	for _, c := range f.calls {
		out = append(out, c.name)
	}
	return out
}

func equalNames(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestAddFlushesOnce(t *testing.T) {
	a := NewAnimator()
	if _, err := a.Add("a", State{Position: mgl32.Vec3{1, 2, 3}}); err != nil {
		t.Fatal(err)
	}
	var dup *DuplicateInstanceError
	if _, err := a.Add("a", State{}); !errors.As(err, &dup) {
		t.Fatalf("expected DuplicateInstanceError, got %v", err)
	}
	s, _ := a.State("a")
	if s.Scale != (mgl32.Vec3{1, 1, 1}) {
		t.Errorf("zero scale not defaulted: %v", s.Scale)
	}

	p := &fakeProgram{}
	if n, err := a.Flush(p); err != nil || n != 1 {
		t.Fatalf("Flush: n=%d err=%v", n, err)
	}
	if p.calls[0].transform != mgl32.Translate3D(1, 2, 3) {
		t.Errorf("transform: got %v", p.calls[0].transform)
	}
	if n, _ := a.Flush(p); n != 0 {
		t.Errorf("second Flush wrote %d instances, want 0", n)
	}
}

func TestPrepareFrameSpins(t *testing.T) {
	a := NewAnimator(
		WithInstance("still", State{}),
		WithInstance("spin", State{Spin: mgl32.Vec3{0, 1, 0}}),
	)
	p := &fakeProgram{}
	a.Flush(p)
	p.calls = nil

	a.PrepareFrame(0.5)
	a.PrepareFrame(0.25)
	if n, _ := a.Flush(p); n != 1 || p.calls[0].name != "spin" {
		t.Fatalf("expected only the spinning instance, got %v", p.names())
	}
	s, _ := a.State("spin")
	if math.Abs(float64(s.Rotation.Y()-0.75)) > 1e-6 {
		t.Errorf("rotation: got %v, want 0.75", s.Rotation.Y())
	}
	if p.calls[0].transform != mgl32.HomogRotate3DY(0.75) {
		t.Errorf("transform: got %v", p.calls[0].transform)
	}

	a.PrepareFrame(0)
	if n, _ := a.Flush(p); n != 0 {
		t.Errorf("zero delta wrote %d instances", n)
	}
}

func TestWrapAngle(t *testing.T) {
	a := NewAnimator(WithInstance("fast", State{Spin: mgl32.Vec3{10, 0, 0}}))
	a.PrepareFrame(1)
	s, _ := a.State("fast")
	want := float32(10 - 2*math.Pi)
	if math.Abs(float64(s.Rotation.X()-want)) > 1e-5 {
		t.Errorf("rotation: got %v, want %v", s.Rotation.X(), want)
	}
}

func TestFlushOrderAndGrowth(t *testing.T) {
	a := NewAnimator(WithCapacity(2))
	names := []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"}
	for _, n := range names {
		if _, err := a.Add(n, State{}); err != nil {
			t.Fatal(err)
		}
	}
	p := &fakeProgram{}
	a.Flush(p)

	p.calls = nil
	a.SetState("h", State{Position: mgl32.Vec3{1, 0, 0}})
	a.SetState("b", State{Position: mgl32.Vec3{2, 0, 0}})
	a.SetState("b", State{Position: mgl32.Vec3{3, 0, 0}})
	a.Flush(p)
	if !equalNames(p.names(), []string{"b", "h"}) {
		t.Errorf("flush order: got %v, want [b h]", p.names())
	}
	if p.calls[0].transform != mgl32.Translate3D(3, 0, 0) {
		t.Error("latest state not written")
	}
	if a.SetState("missing", State{}) {
		t.Error("SetState on unknown instance reported success")
	}
}

func TestSetStateDefaultsScale(t *testing.T) {
	a := NewAnimator(WithInstance("x", State{}))
	p := &fakeProgram{}
	a.Flush(p)
	p.calls = nil

	a.SetState("x", State{Position: mgl32.Vec3{3, 0, 0}})
	s, _ := a.State("x")
	if s.Scale != (mgl32.Vec3{1, 1, 1}) {
		t.Errorf("scale: got %v, want unit scale", s.Scale)
	}
	a.Flush(p)
	if len(p.calls) != 1 || p.calls[0].transform != mgl32.Translate3D(3, 0, 0) {
		t.Errorf("transform: got %v", p.calls)
	}
}

func TestRemoveSwapsLast(t *testing.T) {
	a := NewAnimator(
		WithInstance("a", State{}),
		WithInstance("b", State{}),
		WithInstance("c", State{Position: mgl32.Vec3{0, 0, 9}}),
	)
	p := &fakeProgram{}
	a.Flush(p)
	p.calls = nil

	if !a.Remove("a") {
		t.Fatal("Remove reported missing")
	}
	if a.Remove("a") {
		t.Error("second Remove reported success")
	}
	if a.Len() != 2 {
		t.Errorf("len: got %d, want 2", a.Len())
	}
	if s, ok := a.State("c"); !ok || s.Position.Z() != 9 {
		t.Errorf("swapped instance lost its state: %v %v", s, ok)
	}
	a.Flush(p)
	if !equalNames(p.names(), []string{"c"}) {
		t.Errorf("got %v, want the swapped instance rewritten", p.names())
	}
}

func TestFlushErrorKeepsRemainingDirty(t *testing.T) {
	a := NewAnimator(
		WithInstance("a", State{}),
		WithInstance("b", State{}),
		WithInstance("c", State{}),
	)
	p := &fakeProgram{failOn: "b"}
	n, err := a.Flush(p)
	if err == nil || n != 1 {
		t.Fatalf("Flush: n=%d err=%v", n, err)
	}
	p.failOn = ""
	p.calls = nil
	if n, err := a.Flush(p); err != nil || n != 2 {
		t.Fatalf("retry: n=%d err=%v", n, err)
	}
	if !equalNames(p.names(), []string{"b", "c"}) {
		t.Errorf("retry wrote %v, want [b c]", p.names())
	}
}

func TestWithInstanceSkipsDuplicate(t *testing.T) {
	a := NewAnimator(
		WithInstance("a", State{Position: mgl32.Vec3{1, 0, 0}}),
		WithInstance("a", State{Position: mgl32.Vec3{2, 0, 0}}),
	)
	if a.Len() != 1 {
		t.Fatalf("len: got %d, want 1", a.Len())
	}
	if s, _ := a.State("a"); s.Position.X() != 1 {
		t.Errorf("duplicate overwrote the first instance: %v", s.Position)
	}
}
