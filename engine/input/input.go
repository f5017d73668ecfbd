// Package input turns window events into camera events.
package input

import (
	"math"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/camera"
	"github.com/Carmen-Shannon/oxy-gl/engine/window"
)

const (
	// DragScale converts drag pixels into camera rotation radians and pan units.
	DragScale float32 = 0.01

	// ZoomStep is the projection zoom applied per = or - key press.
	ZoomStep float32 = 0.05

	// MoveStep is the radius change applied per W or S key press.
	MoveStep float32 = 1
)

// Translate maps a frame's window events onto camera events in arrival order.
//
// Key presses and repeats are mapped as follows: W and S move forwards and backwards, the arrow keys
// rotate, C recenters, P swaps the projection, = and - (or keypad + and -) zoom in and out.
// Scrolling moves forwards or backwards by the scroll amount. A left drag rotates and a right drag
// pans. A resize updates the projection aspect ratio. Escape or a close request asks the loop to stop.
//
// Parameters:
//   - events: the batch returned by Surface.PollEvents
//
// Returns:
//   - []camera.Event: the camera events to apply this frame
//   - bool: true if the render loop should stop
func Translate(events []window.Event) ([]camera.Event, bool) {
	var out []camera.Event
	shouldClose := false
	for _, ev := range events {
		switch e := ev.(type) {
		case window.KeyEvent:
			if e.Action == window.KeyRelease {
				continue
			}
			if e.Key == common.KeyEsc {
				shouldClose = true
				continue
			}
			if ce, ok := keyEvent(e.Key); ok {
				out = append(out, ce)
			}
		case window.ScrollEvent:
			switch {
			case e.DY > 0:
				out = append(out, camera.Movement{Direction: camera.Forwards(float32(math.Abs(e.DY)))})
			case e.DY < 0:
				out = append(out, camera.Movement{Direction: camera.Backwards(float32(math.Abs(e.DY)))})
			}
		case window.DragEvent:
			v := camera.Vector(float32(e.DX)*DragScale, float32(e.DY)*DragScale, 0)
			switch e.Button {
			case common.MouseButtonLeft:
				out = append(out, camera.Rotation{Direction: v})
			case common.MouseButtonRight:
				out = append(out, camera.Movement{Direction: v})
			}
		case window.ResizeEvent:
			if e.Width > 0 && e.Height > 0 {
				out = append(out, camera.ProjectionAspectRatio{Aspect: float32(e.Width) / float32(e.Height)})
			}
		case window.CloseEvent:
			shouldClose = true
		}
	}
	return out, shouldClose
}

func keyEvent(key int) (camera.Event, bool) {
	switch key {
	case common.KeyW:
		return camera.Movement{Direction: camera.Forwards(MoveStep)}, true
	case common.KeyS:
		return camera.Movement{Direction: camera.Backwards(MoveStep)}, true
	case common.KeyUp:
		return camera.Rotation{Direction: camera.Up()}, true
	case common.KeyDown:
		return camera.Rotation{Direction: camera.Down()}, true
	case common.KeyLeft:
		return camera.Rotation{Direction: camera.Left()}, true
	case common.KeyRight:
		return camera.Rotation{Direction: camera.Right()}, true
	case common.KeyC:
		return camera.Movement{Direction: camera.Center()}, true
	case common.KeyP:
		return camera.SwapProjection{}, true
	case common.KeyEqual, common.KeyKPAdd:
		return camera.ZoomProjection{Amount: -ZoomStep}, true
	case common.KeyMinus, common.KeyKPSubtract:
		return camera.ZoomProjection{Amount: ZoomStep}, true
	}
	return nil, false
}
