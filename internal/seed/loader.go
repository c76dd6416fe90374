// Package seed populates a store with the sample logistics network used by
// demos, the simulate subcommand and local development: four warehouses,
// eight customers, five route points and a randomized fleet with pre-assigned
// cargo.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	rand "math/rand/v2"

	"lattice/internal/core/domain/model/cargo"
	"lattice/internal/core/domain/model/kernel"
	"lattice/internal/core/domain/model/network"
	"lattice/internal/core/domain/model/truck"
	"lattice/internal/core/ports"
	"lattice/internal/pkg/errs"
)

type warehouseSpec struct {
	id       string
	name     string
	lat, lon float64
	capacity float64
}

type customerSpec struct {
	id       string
	name     string
	lat, lon float64
	slaHours float64
}

type routePointSpec struct {
	id        string
	name      string
	lat, lon  float64
	pointType string
}

var warehouseCatalog = []warehouseSpec{
	{"WH-001", "North Distribution Center", 40.7128, -74.0060, 10000},
	{"WH-002", "South Distribution Center", 34.0522, -118.2437, 8000},
	{"WH-003", "East Distribution Center", 42.3601, -71.0589, 12000},
	{"WH-004", "West Distribution Center", 37.7749, -122.4194, 9000},
}

var customerCatalog = []customerSpec{
	{"CUST-001", "ABC Electronics", 40.7580, -73.9855, 24},
	{"CUST-002", "XYZ Retail", 34.0522, -118.2437, 48},
	{"CUST-003", "Global Manufacturing", 41.8781, -87.6298, 72},
	{"CUST-004", "Tech Solutions Inc", 37.7749, -122.4194, 24},
	{"CUST-005", "Midwest Distribution", 39.7392, -104.9903, 48},
	{"CUST-006", "East Coast Logistics", 42.3601, -71.0589, 36},
	{"CUST-007", "Pacific Traders", 47.6062, -122.3321, 48},
	{"CUST-008", "Southern Supply Co", 33.7490, -84.3880, 24},
}

var routePointCatalog = []routePointSpec{
	{"RP-001", "Interstate Junction 95", 40.0, -74.0, "highway"},
	{"RP-002", "Highway Rest Stop A", 39.0, -75.0, "rest_stop"},
	{"RP-003", "Bridge Checkpoint", 38.0, -76.0, "checkpoint"},
	{"RP-004", "Mountain Pass", 37.5, -119.0, "checkpoint"},
	{"RP-005", "Desert Highway", 35.0, -115.0, "highway"},
}

var directions = []string{
	"north", "south", "east", "west",
	"northeast", "northwest", "southeast", "southwest",
}

var priorities = []cargo.Priority{
	cargo.PriorityNormal, cargo.PriorityHigh, cargo.PriorityUrgent,
}

// Loader seeds a store with the sample network. The random source drives
// truck positions, capacities and cargo assignment; seed it for reproducible
// fixtures.
type Loader struct {
	store  ports.Store
	rng    *rand.Rand
	logger *slog.Logger
}

// NewLoader creates a sample-data loader.
func NewLoader(store ports.Store, rng *rand.Rand, logger *slog.Logger) (*Loader, error) {
	if store == nil {
		return nil, errs.NewValueIsRequiredError("store")
	}
	if rng == nil {
		return nil, errs.NewValueIsRequiredError("rng")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Loader{store: store, rng: rng, logger: logger}, nil
}

// LoadAll seeds the full sample network: the fixed warehouse, customer and
// route point catalogs plus numTrucks randomized trucks and numPackages
// packages assigned to trucks with capacity for them.
func (l *Loader) LoadAll(ctx context.Context, numTrucks, numPackages int) error {
	if err := l.LoadWarehouses(ctx); err != nil {
		return err
	}
	if err := l.LoadCustomers(ctx); err != nil {
		return err
	}
	if err := l.LoadRoutePoints(ctx); err != nil {
		return err
	}
	if err := l.LoadTrucks(ctx, numTrucks); err != nil {
		return err
	}
	return l.LoadPackages(ctx, numPackages)
}

// LoadWarehouses seeds the warehouse catalog.
func (l *Loader) LoadWarehouses(ctx context.Context) error {
	for _, spec := range warehouseCatalog {
		id, err := kernel.NewID(spec.id)
		if err != nil {
			return err
		}
		location, err := kernel.NewGeoPoint(spec.lat, spec.lon)
		if err != nil {
			return err
		}
		warehouse, err := network.NewWarehouse(id, spec.name, location, spec.capacity)
		if err != nil {
			return err
		}
		if err := l.store.UpsertWarehouse(ctx, warehouse); err != nil {
			return err
		}
	}

	l.logger.Info("warehouses loaded", "count", len(warehouseCatalog))
	return nil
}

// LoadCustomers seeds the customer catalog.
func (l *Loader) LoadCustomers(ctx context.Context) error {
	for _, spec := range customerCatalog {
		id, err := kernel.NewID(spec.id)
		if err != nil {
			return err
		}
		location, err := kernel.NewGeoPoint(spec.lat, spec.lon)
		if err != nil {
			return err
		}
		customer, err := network.NewCustomer(id, spec.name, location, spec.slaHours)
		if err != nil {
			return err
		}
		if err := l.store.UpsertCustomer(ctx, customer); err != nil {
			return err
		}
	}

	l.logger.Info("customers loaded", "count", len(customerCatalog))
	return nil
}

// LoadRoutePoints seeds the route point catalog.
func (l *Loader) LoadRoutePoints(ctx context.Context) error {
	for _, spec := range routePointCatalog {
		id, err := kernel.NewID(spec.id)
		if err != nil {
			return err
		}
		location, err := kernel.NewGeoPoint(spec.lat, spec.lon)
		if err != nil {
			return err
		}
		point, err := network.NewRoutePoint(id, spec.name, location, spec.pointType)
		if err != nil {
			return err
		}
		if err := l.store.UpsertRoutePoint(ctx, point); err != nil {
			return err
		}
	}

	l.logger.Info("route points loaded", "count", len(routePointCatalog))
	return nil
}

// LoadTrucks seeds numTrucks active trucks at random positions within rough
// continental-US bounds, with capacities between 1000 and 5000 kg.
func (l *Loader) LoadTrucks(ctx context.Context, numTrucks int) error {
	for i := 1; i <= numTrucks; i++ {
		id, err := kernel.NewID(fmt.Sprintf("TRUCK-%03d", i))
		if err != nil {
			return err
		}

		lat := 30.0 + l.rng.Float64()*15.0
		lon := -125.0 + l.rng.Float64()*55.0
		location, err := kernel.NewGeoPoint(lat, lon)
		if err != nil {
			return err
		}

		capacity := 1000.0 + l.rng.Float64()*4000.0
		direction := directions[l.rng.IntN(len(directions))]

		t, err := truck.NewTruck(id, capacity, location, direction)
		if err != nil {
			return err
		}
		if err := l.store.UpsertTruck(ctx, t); err != nil {
			return err
		}
	}

	l.logger.Info("trucks loaded", "count", numTrucks)
	return nil
}

// LoadPackages seeds numPackages packages with weights between 50 and 500 kg,
// each destined for a random customer and loaded onto a random truck with
// capacity left. Packages that fit on no truck stay pending and unassigned.
func (l *Loader) LoadPackages(ctx context.Context, numPackages int) error {
	trucks, err := l.store.ListTrucks(ctx, ports.TruckFilter{Status: truck.StatusActive})
	if err != nil {
		return err
	}
	if len(trucks) == 0 {
		l.logger.Warn("no active trucks available, packages stay unassigned")
	}

	// Local capacity tracking avoids re-reading every truck per package.
	available := make(map[string]float64, len(trucks))
	for _, t := range trucks {
		available[t.ID().String()] = t.AvailableCapacity()
	}

	assigned := 0
	for i := 1; i <= numPackages; i++ {
		id, err := kernel.NewID(fmt.Sprintf("PKG-%04d", i))
		if err != nil {
			return err
		}

		weight := 50.0 + l.rng.Float64()*450.0
		customer := customerCatalog[l.rng.IntN(len(customerCatalog))]

		destination, err := kernel.NewGeoPoint(customer.lat, customer.lon)
		if err != nil {
			return err
		}
		priority := priorities[l.rng.IntN(len(priorities))]

		pkg, err := cargo.NewPackage(id, weight, destination, priority)
		if err != nil {
			return err
		}
		if err := l.store.UpsertPackage(ctx, pkg); err != nil {
			return err
		}

		customerID, err := kernel.NewID(customer.id)
		if err != nil {
			return err
		}
		if err := l.store.LinkDestinedFor(ctx, id, customerID); err != nil {
			return err
		}

		candidates := make([]*truck.Truck, 0, len(trucks))
		for _, t := range trucks {
			if available[t.ID().String()] >= weight {
				candidates = append(candidates, t)
			}
		}
		if len(candidates) == 0 {
			l.logger.Warn("package not assigned, no truck with capacity", "package_id", id.String())
			continue
		}

		carrier := candidates[l.rng.IntN(len(candidates))]
		if err := l.store.LinkCarrying(ctx, carrier.ID(), id); err != nil {
			return err
		}
		available[carrier.ID().String()] -= weight
		assigned++
	}

	l.logger.Info("packages loaded", "count", numPackages, "assigned", assigned)
	return nil
}
