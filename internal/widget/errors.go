package widget

import (
	"errors"
	"fmt"
)

// ErrNilSurface is returned when Init is handed a nil render slot. This fails
// fast instead of silently no-oping so a broken layout is visible immediately.
var ErrNilSurface = errors.New("widget: nil surface")

type AlreadyBoundError struct {
	Type string
}

func (e AlreadyBoundError) Error() string {
	return fmt.Sprintf("widget %q already bound to a surface", e.Type)
}

type UnknownTypeError struct {
	Type string
}

func (e UnknownTypeError) Error() string {
	return fmt.Sprintf("unknown widget type: %s", e.Type)
}
