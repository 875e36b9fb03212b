package grid

import (
	"fmt"
	"strings"
)

// Model selects how kilometers are converted to map distance.
type Model int

const (
	// ModelProjected spaces lines evenly in spherical Mercator meters
	// (R = 6378137). Cells stay square regardless of box height.
	ModelProjected Model = iota

	// ModelGeographic uses 111.32 km per degree of latitude and
	// 111.32·cos(ReferenceLatitude) km per degree of longitude.
	ModelGeographic
)

// String returns the model name accepted by ParseModel.
func (m Model) String() string {
	switch m {
	case ModelProjected:
		return "projected"
	case ModelGeographic:
		return "geographic"
	default:
		return fmt.Sprintf("Model(%d)", int(m))
	}
}

// ParseModel converts a name ("projected", "mercator", "geographic",
// "degrees") to a Model. The empty string selects ModelProjected.
func ParseModel(s string) (Model, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "projected", "mercator":
		return ModelProjected, nil
	case "geographic", "degrees":
		return ModelGeographic, nil
	default:
		return 0, &ErrInvalidSpec{Field: "Model", Reason: fmt.Sprintf("unknown model %q", s)}
	}
}
