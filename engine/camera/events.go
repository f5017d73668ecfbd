package camera

import "github.com/go-gl/mathgl/mgl32"

// DirectionKind selects what a Direction does to the camera.
type DirectionKind int

const (
	DirectionForwards DirectionKind = iota
	DirectionBackwards
	DirectionUp
	DirectionDown
	DirectionLeft
	DirectionRight
	DirectionCenter
	DirectionVector
)

// Direction is the payload of Movement and Rotation events.
// Magnitude is used by Forwards/Backwards, Vector by DirectionVector.
type Direction struct {
	Kind      DirectionKind
	Magnitude float32
	Vector    mgl32.Vec3
}

func Forwards(magnitude float32) Direction {
	return Direction{Kind: DirectionForwards, Magnitude: magnitude}
}

func Backwards(magnitude float32) Direction {
	return Direction{Kind: DirectionBackwards, Magnitude: magnitude}
}

func Up() Direction     { return Direction{Kind: DirectionUp} }
func Down() Direction   { return Direction{Kind: DirectionDown} }
func Left() Direction   { return Direction{Kind: DirectionLeft} }
func Right() Direction  { return Direction{Kind: DirectionRight} }
func Center() Direction { return Direction{Kind: DirectionCenter} }

func Vector(x, y, z float32) Direction {
	return Direction{Kind: DirectionVector, Vector: mgl32.Vec3{x, y, z}}
}

// Event is a camera or projection mutation. Events are applied in the order they were queued.
type Event interface {
	cameraEvent()
}

// Movement changes the radius, pans the target, or re-centers the camera.
type Movement struct {
	Direction Direction
}

// Rotation turns the camera about its local axes.
type Rotation struct {
	Direction Direction
}

// ZoomProjection adjusts the projection's side (ortho) or field of view (perspective).
type ZoomProjection struct {
	Amount float32
}

// SwapProjection toggles between orthographic and perspective projection.
type SwapProjection struct{}

// ProjectionAspectRatio sets the projection's aspect ratio, typically after a resize.
type ProjectionAspectRatio struct {
	Aspect float32
}

func (Movement) cameraEvent()              {}
func (Rotation) cameraEvent()              {}
func (ZoomProjection) cameraEvent()        {}
func (SwapProjection) cameraEvent()        {}
func (ProjectionAspectRatio) cameraEvent() {}

// EventQueue is a FIFO of camera events drained by Camera.Update.
type EventQueue struct {
	events []Event
}

// NewEventQueue creates a queue holding the given events in order.
func NewEventQueue(events ...Event) *EventQueue {
	return &EventQueue{events: append([]Event(nil), events...)}
}

// Push appends events to the back of the queue.
func (q *EventQueue) Push(events ...Event) {
	q.events = append(q.events, events...)
}

// Pop removes and returns the front event.
func (q *EventQueue) Pop() (Event, bool) {
	if len(q.events) == 0 {
		return nil, false
	}
	ev := q.events[0]
	q.events[0] = nil
	q.events = q.events[1:]
	return ev, true
}

// Len returns the number of queued events.
func (q *EventQueue) Len() int {
	return len(q.events)
}
