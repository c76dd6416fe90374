// Package guard implements the constructor-guard pattern used by domain
// value objects and aggregates. Embedding a ConstructorGuard in a struct makes
// zero-value instances detectable: only objects built through their designated
// constructor pass validation.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when the caller passes a
// nil validation error, so that validation always fails with a meaningful
// message for improperly constructed objects.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard marks an object as having been created through its
// constructor. The zero value is "not constructed" and fails Validate.
//
// Example:
//
//	type GeoPoint struct {
//	    lat, lon float64
//	    guard    guard.ConstructorGuard
//	}
//
//	func NewGeoPoint(lat, lon float64) (GeoPoint, error) {
//	    // ...validation...
//	    return GeoPoint{lat: lat, lon: lon, guard: guard.NewConstructorGuard()}, nil
//	}
//
//	func (p GeoPoint) Validate() error {
//	    return p.guard.Validate(ErrGeoPointIsNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard returns a guard marking the enclosing object as
// properly constructed. Call it from every constructor of the guarded type.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns nil if the guarded object was built through its
// constructor, and validationError otherwise. A nil validationError falls
// back to ErrDefaultConstructorGuard.
func (g ConstructorGuard) Validate(validationError error) error {
	if validationError == nil {
		validationError = ErrDefaultConstructorGuard
	}
	if !g.isConstructed {
		return validationError
	}
	return nil
}
