package network

import (
	"errors"

	"lattice/internal/core/domain/model/kernel"
	"lattice/internal/pkg/errs"
	"lattice/internal/pkg/guard"
)

// ErrRoutePointIsNotConstructed is returned when using an improperly initialized RoutePoint.
var ErrRoutePointIsNotConstructed = errors.New("RoutePoint must be created via NewRoutePoint constructor")

// RoutePoint is a waypoint on the road network, such as a highway junction,
// rest stop, or checkpoint. PointType is a free-form tag.
type RoutePoint struct {
	id        kernel.ID
	name      string
	location  kernel.GeoPoint
	pointType string
	guard     guard.ConstructorGuard
}

// NewRoutePoint creates a route point node. An empty pointType defaults to
// "checkpoint".
func NewRoutePoint(id kernel.ID, name string, location kernel.GeoPoint, pointType string) (*RoutePoint, error) {
	if err := errors.Join(id.Validate(), location.Validate()); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, errs.NewValueIsRequiredError("name")
	}
	if pointType == "" {
		pointType = "checkpoint"
	}

	return &RoutePoint{
		id:        id,
		name:      name,
		location:  location,
		pointType: pointType,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate checks that the RoutePoint was built through NewRoutePoint.
func (r *RoutePoint) Validate() error {
	if r == nil {
		return ErrRoutePointIsNotConstructed
	}
	return r.guard.Validate(ErrRoutePointIsNotConstructed)
}

// ID returns the route point's unique identifier.
func (r *RoutePoint) ID() kernel.ID { return r.id }

// Name returns the waypoint name.
func (r *RoutePoint) Name() string { return r.name }

// Location returns the waypoint coordinate.
func (r *RoutePoint) Location() kernel.GeoPoint { return r.location }

// PointType returns the waypoint type tag.
func (r *RoutePoint) PointType() string { return r.pointType }
