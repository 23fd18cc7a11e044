// Package units provides shared constants and conversions for angle units
package units

import "math"

// Unit constants
const (
	Degrees      = "deg"
	Radians      = "rad"
	Milliradians = "mrad"
)

// ValidUnits contains all valid unit values
var ValidUnits = []string{Degrees, Radians, Milliradians}

// IsValid checks if the given unit is in the list of valid units
func IsValid(unit string) bool {
	for _, validUnit := range ValidUnits {
		if unit == validUnit {
			return true
		}
	}
	return false
}

// GetValidUnitsString returns a comma-separated string of valid units for error messages
func GetValidUnitsString() string {
	return "deg, rad, mrad"
}

// ConvertAngle converts an angle from radians to the target units.
// Vertical angles are computed in radians.
func ConvertAngle(angleRad float64, targetUnits string) float64 {
	switch targetUnits {
	case Degrees:
		return angleRad * 180 / math.Pi
	case Milliradians:
		return angleRad * 1000
	case Radians:
		return angleRad
	default:
		return angleRad // default to radians if unknown unit
	}
}

// ToRadians converts an angle expressed in the given units back to radians.
func ToRadians(angle float64, fromUnits string) float64 {
	switch fromUnits {
	case Degrees:
		return angle * math.Pi / 180
	case Milliradians:
		return angle / 1000
	default:
		return angle
	}
}

// Deg converts radians to degrees.
func Deg(rad float64) float64 { return rad * 180 / math.Pi }

// Rad converts degrees to radians.
func Rad(deg float64) float64 { return deg * math.Pi / 180 }
