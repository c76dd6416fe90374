package cargo

import (
	"errors"

	"lattice/internal/core/domain/model/kernel"
	"lattice/internal/pkg/errs"
	"lattice/internal/pkg/guard"
)

// Domain errors for package operations.
var (
	// ErrWeightIsRequired is returned when creating a package with non-positive weight.
	ErrWeightIsRequired = errs.NewValueIsRequiredError("weight")
	// ErrPackageIsNotConstructed is returned when using an improperly initialized Package.
	ErrPackageIsNotConstructed = errors.New("Package must be created via NewPackage constructor")
)

// Package is the aggregate root for a shipment. Weight is fixed at creation
// and strictly positive; the destination is the customer-facing drop
// coordinate used for ETA estimation after rerouting.
type Package struct {
	id          kernel.ID
	weight      float64
	destination kernel.GeoPoint
	status      Status
	priority    Priority
	guard       guard.ConstructorGuard
}

// NewPackage creates a pending package.
//
// Parameters:
//   - id: unique opaque identifier (e.g. "PKG-0042")
//   - weight: shipment weight in kg, must be positive
//   - destination: delivery coordinate
//   - priority: delivery urgency; PriorityUnknown is rejected
func NewPackage(id kernel.ID, weight float64, destination kernel.GeoPoint, priority Priority) (*Package, error) {
	p := &Package{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		p.setID(id),
		p.setWeight(weight),
		p.setDestination(destination),
		p.setPriority(priority),
	); err != nil {
		return nil, err
	}

	p.status = StatusPending
	return p, nil
}

// RestorePackage reconstructs a package from persisted state.
func RestorePackage(
	id kernel.ID,
	weight float64,
	destination kernel.GeoPoint,
	status Status,
	priority Priority,
) (*Package, error) {
	p := &Package{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		p.setID(id),
		p.setWeight(weight),
		p.setDestination(destination),
		p.setPriority(priority),
		status.Validate(),
	); err != nil {
		return nil, err
	}

	p.status = status
	return p, nil
}

// Validate checks that the Package was built through a constructor.
func (p *Package) Validate() error {
	if p == nil {
		return ErrPackageIsNotConstructed
	}
	return p.guard.Validate(ErrPackageIsNotConstructed)
}

// ID returns the package's unique identifier.
func (p *Package) ID() kernel.ID {
	return p.id
}

// Weight returns the shipment weight in kg.
func (p *Package) Weight() float64 {
	return p.weight
}

// Destination returns the delivery coordinate.
func (p *Package) Destination() kernel.GeoPoint {
	return p.destination
}

// Status returns the delivery lifecycle status.
func (p *Package) Status() Status {
	return p.status
}

// Priority returns the delivery urgency.
func (p *Package) Priority() Priority {
	return p.priority
}

// IsEqual compares packages by identity.
func (p *Package) IsEqual(other *Package) bool {
	if other == nil {
		return false
	}
	return p.id.IsEqual(other.id)
}

// MarkInTransit records the package's first assignment to a truck. Calling it
// on a package already in transit is a no-op, so transfers between trucks do
// not touch the status.
func (p *Package) MarkInTransit() {
	if p.status == StatusPending {
		p.status = StatusInTransit
	}
}

// MarkDelivered records final delivery.
func (p *Package) MarkDelivered() {
	p.status = StatusDelivered
}

// setID sets the identifier with validation.
func (p *Package) setID(id kernel.ID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	p.id = id
	return nil
}

// setWeight sets the weight with validation.
func (p *Package) setWeight(weight float64) error {
	if weight <= 0 {
		return ErrWeightIsRequired
	}

	p.weight = weight
	return nil
}

// setDestination sets the destination with validation.
func (p *Package) setDestination(destination kernel.GeoPoint) error {
	if err := destination.Validate(); err != nil {
		return err
	}

	p.destination = destination
	return nil
}

// setPriority sets the priority with validation.
func (p *Package) setPriority(priority Priority) error {
	if err := priority.Validate(); err != nil {
		return err
	}

	p.priority = priority
	return nil
}
