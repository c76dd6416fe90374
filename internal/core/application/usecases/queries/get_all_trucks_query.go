// Package queries contains the dashboard read models. Each query reads the
// Postgres graph directly with raw SQL, bypassing the domain aggregates:
// the dashboard needs flat rows, not invariant-guarded objects.
package queries

import (
	"errors"

	"lattice/internal/core/domain/model/kernel"
	"lattice/internal/pkg/guard"
)

var ErrGetAllTrucksQueryIsNotConstructed = errors.New(
	"GetAllTrucksQuery must be created via NewGetAllTrucksQuery constructor",
)

// GetAllTrucksQuery retrieves the whole fleet with current capacity and
// status for the dashboard fleet view.
type GetAllTrucksQuery struct {
	guard guard.ConstructorGuard
}

// NewGetAllTrucksQuery creates a query to retrieve all trucks.
func NewGetAllTrucksQuery() GetAllTrucksQuery {
	return GetAllTrucksQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
func (q GetAllTrucksQuery) Validate() error {
	return q.guard.Validate(ErrGetAllTrucksQueryIsNotConstructed)
}

// GetAllTrucksQueryResponse is one fleet row in the read model.
type GetAllTrucksQueryResponse struct {
	ID                string
	Capacity          float64
	AvailableCapacity float64
	Location          kernel.GeoPoint
	Status            string
	Direction         string
}
