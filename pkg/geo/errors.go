package geo

import (
	"fmt"
)

// ErrInvalidCoordinate indicates a coordinate that is not a finite number pair.
type ErrInvalidCoordinate struct {
	Lon, Lat float64
}

func (e *ErrInvalidCoordinate) Error() string {
	return fmt.Sprintf("invalid coordinate: lon=%f lat=%f (both must be finite)", e.Lon, e.Lat)
}

// ErrInvalidGeometry indicates a geometry whose payload does not match its type.
type ErrInvalidGeometry struct {
	Type   GeometryType
	Reason string
}

func (e *ErrInvalidGeometry) Error() string {
	return fmt.Sprintf("invalid geometry (%v): %s", e.Type, e.Reason)
}

// ErrUnsupportedGeometry indicates a geometry type this package does not model.
type ErrUnsupportedGeometry struct {
	Type string
}

func (e *ErrUnsupportedGeometry) Error() string {
	return fmt.Sprintf("unsupported geometry type: %s", e.Type)
}
