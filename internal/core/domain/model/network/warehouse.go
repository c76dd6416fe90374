package network

import (
	"errors"

	"lattice/internal/core/domain/model/kernel"
	"lattice/internal/pkg/errs"
	"lattice/internal/pkg/guard"
)

// ErrWarehouseIsNotConstructed is returned when using an improperly initialized Warehouse.
var ErrWarehouseIsNotConstructed = errors.New("Warehouse must be created via NewWarehouse constructor")

// Warehouse is a distribution center node. Capacity is informational and not
// enforced against stored packages.
type Warehouse struct {
	id       kernel.ID
	name     string
	location kernel.GeoPoint
	capacity float64
	guard    guard.ConstructorGuard
}

// NewWarehouse creates a warehouse node.
func NewWarehouse(id kernel.ID, name string, location kernel.GeoPoint, capacity float64) (*Warehouse, error) {
	if err := errors.Join(id.Validate(), location.Validate()); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, errs.NewValueIsRequiredError("name")
	}
	if capacity <= 0 {
		return nil, errs.NewValueIsRequiredError("capacity")
	}

	return &Warehouse{
		id:       id,
		name:     name,
		location: location,
		capacity: capacity,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

// Validate checks that the Warehouse was built through NewWarehouse.
func (w *Warehouse) Validate() error {
	if w == nil {
		return ErrWarehouseIsNotConstructed
	}
	return w.guard.Validate(ErrWarehouseIsNotConstructed)
}

// ID returns the warehouse's unique identifier.
func (w *Warehouse) ID() kernel.ID { return w.id }

// Name returns the human-readable warehouse name.
func (w *Warehouse) Name() string { return w.name }

// Location returns the warehouse coordinate.
func (w *Warehouse) Location() kernel.GeoPoint { return w.location }

// Capacity returns the informational storage capacity.
func (w *Warehouse) Capacity() float64 { return w.capacity }
