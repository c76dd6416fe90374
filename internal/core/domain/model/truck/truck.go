package truck

import (
	"errors"
	"fmt"

	"lattice/internal/core/domain/model/kernel"
	"lattice/internal/pkg/errs"
	"lattice/internal/pkg/guard"
)

// Domain errors for truck operations.
var (
	// ErrCapacityIsRequired is returned when creating a truck with a non-positive capacity.
	ErrCapacityIsRequired = errs.NewValueIsRequiredError("capacity")
	// ErrTruckIsNotConstructed is returned when using an improperly initialized Truck.
	ErrTruckIsNotConstructed = errors.New("Truck must be created via NewTruck constructor")
	// ErrInsufficientCapacity is returned when a reservation exceeds the available capacity.
	ErrInsufficientCapacity = errors.New("insufficient available capacity")
	// ErrTruckNotActive is returned when a status transition requires an active truck.
	ErrTruckNotActive = errors.New("truck is not active")
)

// Truck is the aggregate root for a vehicle in the network.
//
// Invariants maintained by every operation:
//   - 0 <= AvailableCapacity() <= Capacity()
//   - AvailableCapacity() equals Capacity() minus the weight currently
//     reserved for carried packages
//
// Capacity bookkeeping is driven by the store: loading a package reserves its
// weight, unloading releases it. The aggregate rejects any reservation or
// release that would push available capacity outside its bounds.
type Truck struct {
	id                kernel.ID
	capacity          float64
	availableCapacity float64
	location          kernel.GeoPoint
	status            Status
	direction         string
	guard             guard.ConstructorGuard
}

// NewTruck creates an active truck with its full capacity available.
//
// Parameters:
//   - id: unique opaque identifier (e.g. "TRUCK-001")
//   - capacity: total carrying capacity in kg, must be positive
//   - location: current position
//   - direction: optional heading tag (e.g. "northeast"); empty means unset
func NewTruck(id kernel.ID, capacity float64, location kernel.GeoPoint, direction string) (*Truck, error) {
	t := &Truck{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		t.setID(id),
		t.setCapacity(capacity),
		t.setLocation(location),
	); err != nil {
		return nil, err
	}

	t.availableCapacity = t.capacity
	t.status = StatusActive
	t.direction = direction
	return t, nil
}

// RestoreTruck reconstructs a truck from persisted state, including its
// current available capacity and status. Unlike NewTruck it does not reset
// the truck to a fresh active state.
func RestoreTruck(
	id kernel.ID,
	capacity float64,
	availableCapacity float64,
	location kernel.GeoPoint,
	status Status,
	direction string,
) (*Truck, error) {
	t := &Truck{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		t.setID(id),
		t.setCapacity(capacity),
		t.setLocation(location),
		status.Validate(),
	); err != nil {
		return nil, err
	}

	if availableCapacity < 0 || availableCapacity > capacity {
		return nil, errs.NewValueIsOutOfRangeError(
			"availableCapacity", availableCapacity, 0.0, capacity)
	}

	t.availableCapacity = availableCapacity
	t.status = status
	t.direction = direction
	return t, nil
}

// Validate checks that the Truck was built through a constructor.
func (t *Truck) Validate() error {
	if t == nil {
		return ErrTruckIsNotConstructed
	}
	return t.guard.Validate(ErrTruckIsNotConstructed)
}

// ID returns the truck's unique identifier.
func (t *Truck) ID() kernel.ID {
	return t.id
}

// Capacity returns the total carrying capacity in kg. Fixed at creation.
func (t *Truck) Capacity() float64 {
	return t.capacity
}

// AvailableCapacity returns the capacity not currently reserved for packages.
func (t *Truck) AvailableCapacity() float64 {
	return t.availableCapacity
}

// Location returns the truck's current position.
func (t *Truck) Location() kernel.GeoPoint {
	return t.location
}

// Status returns the truck's operational status.
func (t *Truck) Status() Status {
	return t.status
}

// Direction returns the optional heading tag; empty when unset.
func (t *Truck) Direction() string {
	return t.direction
}

// IsEqual compares trucks by identity.
func (t *Truck) IsEqual(other *Truck) bool {
	if other == nil {
		return false
	}
	return t.id.IsEqual(other.id)
}

// CanCarry reports whether a weight fits into the available capacity.
func (t *Truck) CanCarry(weight float64) bool {
	return weight > 0 && weight <= t.availableCapacity
}

// ReserveCapacity debits weight from the available capacity when a package is
// loaded. Fails with ErrInsufficientCapacity when the reservation would drive
// available capacity below zero; the truck is left unchanged on failure.
func (t *Truck) ReserveCapacity(weight float64) error {
	if weight <= 0 {
		return errs.NewValueIsRequiredError("weight")
	}
	if weight > t.availableCapacity {
		return fmt.Errorf("%w: need %.2f, have %.2f", ErrInsufficientCapacity, weight, t.availableCapacity)
	}

	t.availableCapacity -= weight
	return nil
}

// ReleaseCapacity credits weight back when a package is unloaded. Fails when
// the release would exceed the total capacity, which would mean the
// bookkeeping has diverged from the carried set.
func (t *Truck) ReleaseCapacity(weight float64) error {
	if weight <= 0 {
		return errs.NewValueIsRequiredError("weight")
	}
	if t.availableCapacity+weight > t.capacity {
		return errs.NewValueIsOutOfRangeError(
			"availableCapacity", t.availableCapacity+weight, 0.0, t.capacity)
	}

	t.availableCapacity += weight
	return nil
}

// MarkFailed transitions the truck from active to failed. Only active trucks
// can fail; repeating the transition returns ErrTruckNotActive.
func (t *Truck) MarkFailed() error {
	if t.status != StatusActive {
		return fmt.Errorf("%w: status is %s", ErrTruckNotActive, t.status)
	}

	t.status = StatusFailed
	return nil
}

// MarkMaintenance withdraws an active truck for maintenance. This transition
// is reserved for explicit operator actions; the core pipeline never calls it.
func (t *Truck) MarkMaintenance() error {
	if t.status != StatusActive {
		return fmt.Errorf("%w: status is %s", ErrTruckNotActive, t.status)
	}

	t.status = StatusMaintenance
	return nil
}

// MoveTo updates the truck's current position.
func (t *Truck) MoveTo(location kernel.GeoPoint) error {
	return t.setLocation(location)
}

// setID sets the identifier with validation.
func (t *Truck) setID(id kernel.ID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	t.id = id
	return nil
}

// setCapacity sets the total capacity with validation.
func (t *Truck) setCapacity(capacity float64) error {
	if capacity <= 0 {
		return ErrCapacityIsRequired
	}

	t.capacity = capacity
	return nil
}

// setLocation sets the current position with validation.
func (t *Truck) setLocation(location kernel.GeoPoint) error {
	if err := location.Validate(); err != nil {
		return err
	}

	t.location = location
	return nil
}
