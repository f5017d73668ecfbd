package scene_object

// SceneObjectBuilderOption is a functional option for configuring a SceneObject during construction.
type SceneObjectBuilderOption func(*sceneObject)

// WithID sets the ID of the SceneObject.
//
// Parameters:
//   - id: unique identifier for the SceneObject
//
// Returns:
//   - SceneObjectBuilderOption: functional option to set the ID
func WithID(id uint64) SceneObjectBuilderOption {
	return func(obj *sceneObject) {
		obj.id = id
	}
}

// WithEnabled sets whether the SceneObject starts enabled.
//
// Parameters:
//   - enabled: true to draw the object, false to skip it
//
// Returns:
//   - SceneObjectBuilderOption: functional option to set the Enabled state
func WithEnabled(enabled bool) SceneObjectBuilderOption {
	return func(obj *sceneObject) {
		obj.enabled.Store(enabled)
	}
}
