// Package units defines the physical unit tags recognized by the geometry
// builders and the length scale factors used by the scanner presets.
package units

import (
	"errors"
	"fmt"
)

// Recognized unit tags. The empty tag means unitless sample spacing.
const (
	Unitless   = ""
	Millimeter = "mm"
	Centimeter = "cm"
)

// ErrUnknown is returned when a unit tag has no defined scale factor.
var ErrUnknown = errors.New("unknown unit tag")

// Scale returns the factor that converts a length expressed in millimeters
// into the given unit. Scanner presets store their geometric constants in
// millimeters and multiply by this factor before building a record.
func Scale(tag string) (float64, error) {
	switch tag {
	case Unitless, Millimeter:
		return 1, nil
	case Centimeter:
		return 0.1, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknown, tag)
	}
}
