// Package validator provides input validators that are independent
// of the HTTP and storage layers.
package validator

import (
	"fmt"
)

// Coordinate bounds in decimal degrees.
const (
	MinLatitude  = -90.0
	MaxLatitude  = 90.0
	MinLongitude = -180.0
	MaxLongitude = 180.0
)

// CoordinateValidator validates geographic coordinates for stations.
type CoordinateValidator struct{}

// NewCoordinateValidator creates a new coordinate validator
func NewCoordinateValidator() *CoordinateValidator {
	return &CoordinateValidator{}
}

// Validate checks that latitude and longitude are within bounds.
func (v *CoordinateValidator) Validate(latitude, longitude float64) error {
	if latitude < MinLatitude || latitude > MaxLatitude {
		return fmt.Errorf("latitude %.6f is out of range [%.0f, %.0f]", latitude, MinLatitude, MaxLatitude)
	}
	if longitude < MinLongitude || longitude > MaxLongitude {
		return fmt.Errorf("longitude %.6f is out of range [%.0f, %.0f]", longitude, MinLongitude, MaxLongitude)
	}
	return nil
}
