package scene_object

import (
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/go-gl/mathgl/mgl32"
)

// nextID hands out object IDs when none is given by WithID.
var nextID atomic.Uint64

type sceneObject struct {
	id       uint64
	name     string
	meshName string
	enabled  atomic.Bool

	modelTransform  mgl32.Mat4
	normalTransform mgl32.Mat3
}

// SceneObject is one instance of a mesh placed in the world.
// Its transforms are fixed at creation; only the enabled flag is mutable.
type SceneObject interface {
	// ID returns the object's unique identifier.
	//
	// Returns:
	//   - uint64: the object ID
	ID() uint64

	// Name returns the name the object is registered under.
	//
	// Returns:
	//   - string: the object name
	Name() string

	// MeshName returns the name of the mesh this object instances.
	//
	// Returns:
	//   - string: the mesh name
	MeshName() string

	// Enabled returns whether the object contributes an instance to its mesh's draw.
	//
	// Returns:
	//   - bool: true if enabled
	Enabled() bool

	// SetEnabled sets whether the object contributes an instance to its mesh's draw.
	//
	// Parameters:
	//   - enabled: true to draw the object
	SetEnabled(enabled bool)

	// ModelTransform returns the model-to-world matrix.
	//
	// Returns:
	//   - mgl32.Mat4: the model transform
	ModelTransform() mgl32.Mat4

	// NormalTransform returns transpose(inverse(upper3x3(ModelTransform()))), computed once at creation.
	//
	// Returns:
	//   - mgl32.Mat3: the normal transform
	NormalTransform() mgl32.Mat3
}

var _ SceneObject = &sceneObject{}

// NewSceneObject creates an enabled SceneObject and derives its normal transform.
//
// Parameters:
//   - name: the registry name
//   - meshName: the mesh to instance
//   - transform: the model-to-world matrix
//   - options: functional options to configure the object
//
// Returns:
//   - SceneObject: the newly created object
func NewSceneObject(name, meshName string, transform mgl32.Mat4, options ...SceneObjectBuilderOption) SceneObject {
	obj := &sceneObject{
		id:              nextID.Add(1),
		name:            name,
		meshName:        meshName,
		modelTransform:  transform,
		normalTransform: common.NormalMatrix(transform),
	}
	obj.enabled.Store(true)
	for _, option := range options {
		option(obj)
	}
	return obj
}

func (o *sceneObject) ID() uint64 {
	return o.id
}

func (o *sceneObject) Name() string {
	return o.name
}

func (o *sceneObject) MeshName() string {
	return o.meshName
}

func (o *sceneObject) Enabled() bool {
	return o.enabled.Load()
}

func (o *sceneObject) SetEnabled(enabled bool) {
	o.enabled.Store(enabled)
}

func (o *sceneObject) ModelTransform() mgl32.Mat4 {
	return o.modelTransform
}

func (o *sceneObject) NormalTransform() mgl32.Mat3 {
	return o.normalTransform
}
