package scene

import "fmt"

type ObjectNotFoundError struct {
	Name string
}

func (e *ObjectNotFoundError) Error() string {
	return fmt.Sprintf("mesh object %q not found", e.Name)
}

type MissingUVLayerError struct {
	Name string // empty for the active layer
}

func (e *MissingUVLayerError) Error() string {
	if e.Name == "" {
		return "no active UV layer"
	}
	return fmt.Sprintf("UV layer %q not found", e.Name)
}
