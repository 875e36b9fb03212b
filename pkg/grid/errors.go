package grid

import "fmt"

// ErrInvalidSpec indicates a grid request that cannot be generated.
type ErrInvalidSpec struct {
	Field  string
	Reason string
}

func (e *ErrInvalidSpec) Error() string {
	return fmt.Sprintf("invalid grid spec (%s): %s", e.Field, e.Reason)
}
