package kernel

import (
	"errors"
	"fmt"
	"math"

	"lattice/internal/pkg/errs"
	"lattice/internal/pkg/guard"
)

const (
	// LatMin is the minimum valid latitude in degrees.
	LatMin = -90.0
	// LatMax is the maximum valid latitude in degrees.
	LatMax = 90.0
	// LonMin is the minimum valid longitude in degrees.
	LonMin = -180.0
	// LonMax is the maximum valid longitude in degrees.
	LonMax = 180.0
)

// ErrGeoPointIsNotConstructed is returned when attempting to use an
// improperly initialized GeoPoint. GeoPoints must be created via NewGeoPoint.
var ErrGeoPointIsNotConstructed = errs.NewValueIsRequiredError(
	"geo point must be created via NewGeoPoint constructor")

// GeoPoint is an immutable geographic position in decimal degrees.
// The zero value is invalid and fails validation; use NewGeoPoint.
//
// Distances between GeoPoints are planar Euclidean over raw degrees. This is
// an explicit approximation acceptable for regional networks only; callers
// converting to kilometers must apply a fixed degrees-to-km constant.
//
// Example:
//
//	p, err := kernel.NewGeoPoint(40.7128, -74.0060)
//	if err != nil {
//	    // handle validation error
//	}
//	fmt.Println(p) // GeoPoint(40.7128,-74.0060)
type GeoPoint struct { //nolint:recvcheck // pointer receivers used for construction-time setters
	lat   float64
	lon   float64
	guard guard.ConstructorGuard
}

// NewGeoPoint creates a GeoPoint from latitude and longitude in decimal
// degrees. Latitude must be within [LatMin, LatMax] and longitude within
// [LonMin, LonMax]; out-of-range coordinates return a validation error.
func NewGeoPoint(lat float64, lon float64) (GeoPoint, error) {
	p := GeoPoint{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(p.setLat(lat), p.setLon(lon)); err != nil {
		return GeoPoint{}, err
	}

	return p, nil
}

// Validate checks that the GeoPoint was built through NewGeoPoint.
// The zero value fails with ErrGeoPointIsNotConstructed.
func (p GeoPoint) Validate() error {
	return p.guard.Validate(ErrGeoPointIsNotConstructed)
}

// Lat returns the latitude in decimal degrees.
func (p GeoPoint) Lat() float64 {
	return p.lat
}

// Lon returns the longitude in decimal degrees.
func (p GeoPoint) Lon() float64 {
	return p.lon
}

// String implements fmt.Stringer.
func (p GeoPoint) String() string {
	return fmt.Sprintf("GeoPoint(%.4f,%.4f)", p.lat, p.lon)
}

// IsEqual compares two points for coordinate equality. Both points must be
// properly constructed for the comparison to succeed.
func (p GeoPoint) IsEqual(other GeoPoint) (bool, error) {
	if err := errors.Join(p.Validate(), other.Validate()); err != nil {
		return false, err
	}

	return p.lat == other.lat && p.lon == other.lon, nil
}

// DistanceTo returns the planar Euclidean distance to other, in degrees.
// The result is NOT kilometers; it is only meaningful as a relative ordering
// metric and, at regional scales, via a fixed degrees-to-km conversion.
func (p GeoPoint) DistanceTo(other GeoPoint) (float64, error) {
	if err := errors.Join(p.Validate(), other.Validate()); err != nil {
		return 0, err
	}

	dLat := p.lat - other.lat
	dLon := p.lon - other.lon
	return math.Sqrt(dLat*dLat + dLon*dLon), nil
}

// setLat sets the latitude with range validation.
// Pointer receiver is intentional: private setters self-encapsulate
// validation during construction while the public API stays value-based.
func (p *GeoPoint) setLat(lat float64) error {
	if lat < LatMin || lat > LatMax {
		return errs.NewValueIsOutOfRangeError("lat", lat, LatMin, LatMax)
	}

	p.lat = lat
	return nil
}

// setLon sets the longitude with range validation.
func (p *GeoPoint) setLon(lon float64) error {
	if lon < LonMin || lon > LonMax {
		return errs.NewValueIsOutOfRangeError("lon", lon, LonMin, LonMax)
	}

	p.lon = lon
	return nil
}
