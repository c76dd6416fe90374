package network

import (
	"errors"

	"lattice/internal/core/domain/model/kernel"
	"lattice/internal/pkg/errs"
	"lattice/internal/pkg/guard"
)

// ErrCustomerIsNotConstructed is returned when using an improperly initialized Customer.
var ErrCustomerIsNotConstructed = errors.New("Customer must be created via NewCustomer constructor")

// Customer is a delivery endpoint with an SLA commitment window in hours.
type Customer struct {
	id       kernel.ID
	name     string
	location kernel.GeoPoint
	slaHours float64
	guard    guard.ConstructorGuard
}

// NewCustomer creates a customer node. slaHours is the committed delivery
// window and must be positive.
func NewCustomer(id kernel.ID, name string, location kernel.GeoPoint, slaHours float64) (*Customer, error) {
	if err := errors.Join(id.Validate(), location.Validate()); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, errs.NewValueIsRequiredError("name")
	}
	if slaHours <= 0 {
		return nil, errs.NewValueIsRequiredError("slaHours")
	}

	return &Customer{
		id:       id,
		name:     name,
		location: location,
		slaHours: slaHours,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

// Validate checks that the Customer was built through NewCustomer.
func (c *Customer) Validate() error {
	if c == nil {
		return ErrCustomerIsNotConstructed
	}
	return c.guard.Validate(ErrCustomerIsNotConstructed)
}

// ID returns the customer's unique identifier.
func (c *Customer) ID() kernel.ID { return c.id }

// Name returns the customer name.
func (c *Customer) Name() string { return c.name }

// Location returns the delivery coordinate.
func (c *Customer) Location() kernel.GeoPoint { return c.location }

// SLAHours returns the committed delivery window in hours.
func (c *Customer) SLAHours() float64 { return c.slaHours }
