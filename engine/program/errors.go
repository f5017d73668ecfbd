package program

import "fmt"

// MeshAlreadyAttachedError is returned when adding a mesh under a name the program already holds.
type MeshAlreadyAttachedError struct {
	Name string
}

func (e *MeshAlreadyAttachedError) Error() string {
	return fmt.Sprintf("mesh %q is already attached to the program", e.Name)
}

// MeshNotFoundError is returned when an object names a mesh the program does not hold.
type MeshNotFoundError struct {
	Name string
}

func (e *MeshNotFoundError) Error() string {
	return fmt.Sprintf("mesh %q not found", e.Name)
}

// ObjectExistsError is returned when adding an object under a name that is already registered.
type ObjectExistsError struct {
	Name string
}

func (e *ObjectExistsError) Error() string {
	return fmt.Sprintf("scene object %q already exists", e.Name)
}

// ObjectNotFoundError is returned when replacing an object that is not registered.
type ObjectNotFoundError struct {
	Name string
}

func (e *ObjectNotFoundError) Error() string {
	return fmt.Sprintf("scene object %q not found", e.Name)
}
