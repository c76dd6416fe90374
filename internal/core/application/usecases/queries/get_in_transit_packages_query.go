package queries

import (
	"errors"

	"lattice/internal/core/domain/model/kernel"
	"lattice/internal/pkg/guard"
)

var ErrGetInTransitPackagesQueryIsNotConstructed = errors.New(
	"GetInTransitPackagesQuery must be created via NewGetInTransitPackagesQuery constructor",
)

// GetInTransitPackagesQuery retrieves the packages currently on a truck,
// together with their carrier, for the dashboard shipment view.
type GetInTransitPackagesQuery struct {
	guard guard.ConstructorGuard
}

// NewGetInTransitPackagesQuery creates a query for in-transit packages.
func NewGetInTransitPackagesQuery() GetInTransitPackagesQuery {
	return GetInTransitPackagesQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
func (q GetInTransitPackagesQuery) Validate() error {
	return q.guard.Validate(ErrGetInTransitPackagesQueryIsNotConstructed)
}

// GetInTransitPackagesQueryResponse is one shipment row in the read model.
// CarrierID is empty when the carrying truck was removed out-of-band.
type GetInTransitPackagesQueryResponse struct {
	ID          string
	Weight      float64
	Destination kernel.GeoPoint
	Priority    string
	CarrierID   string
}
