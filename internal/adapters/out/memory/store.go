// Package memory provides an in-process implementation of ports.Store backed
// by plain maps. It is the default engine for the simulate and test CLI modes
// and for service-level tests, where spinning up a database is not worth it.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"lattice/internal/core/domain/model/cargo"
	"lattice/internal/core/domain/model/kernel"
	"lattice/internal/core/domain/model/network"
	"lattice/internal/core/domain/model/truck"
	"lattice/internal/core/ports"
	"lattice/internal/pkg/errs"
)

// Store keeps all nodes and edges in memory behind a single RWMutex. Holding
// one lock for every mutation is what makes TransferPackage atomic: no reader
// can observe the package detached from both trucks.
//
// Trucks and packages are mutable aggregates, so the store keeps private
// copies and hands out fresh copies on every read. Network nodes have no
// mutating operations and are shared directly.
type Store struct {
	mu sync.RWMutex

	trucks      map[string]*truck.Truck
	packages    map[string]*cargo.Package
	warehouses  map[string]*network.Warehouse
	customers   map[string]*network.Customer
	routePoints map[string]*network.RoutePoint

	// carrierOf maps package id -> truck id. Keying edges by package id is
	// what enforces at-most-one-carrier structurally.
	carrierOf   map[string]string
	destinedFor map[string]string
	locatedAt   map[string]string
}

var _ ports.Store = (*Store)(nil)

// NewStore creates an empty in-memory graph.
func NewStore() *Store {
	return &Store{
		trucks:      make(map[string]*truck.Truck),
		packages:    make(map[string]*cargo.Package),
		warehouses:  make(map[string]*network.Warehouse),
		customers:   make(map[string]*network.Customer),
		routePoints: make(map[string]*network.RoutePoint),
		carrierOf:   make(map[string]string),
		destinedFor: make(map[string]string),
		locatedAt:   make(map[string]string),
	}
}

// UpsertTruck creates or replaces a truck node.
func (s *Store) UpsertTruck(_ context.Context, t *truck.Truck) error {
	if err := t.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	clone, err := cloneTruck(t)
	if err != nil {
		return err
	}
	s.trucks[t.ID().String()] = clone
	return nil
}

// UpsertPackage creates or replaces a package node.
func (s *Store) UpsertPackage(_ context.Context, p *cargo.Package) error {
	if err := p.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	clone, err := clonePackage(p)
	if err != nil {
		return err
	}
	s.packages[p.ID().String()] = clone
	return nil
}

// UpsertWarehouse creates or replaces a warehouse node.
func (s *Store) UpsertWarehouse(_ context.Context, w *network.Warehouse) error {
	if err := w.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.warehouses[w.ID().String()] = w
	return nil
}

// UpsertCustomer creates or replaces a customer node.
func (s *Store) UpsertCustomer(_ context.Context, c *network.Customer) error {
	if err := c.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.customers[c.ID().String()] = c
	return nil
}

// UpsertRoutePoint creates or replaces a route point node.
func (s *Store) UpsertRoutePoint(_ context.Context, r *network.RoutePoint) error {
	if err := r.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.routePoints[r.ID().String()] = r
	return nil
}

// GetTruck retrieves a truck by id.
func (s *Store) GetTruck(_ context.Context, id kernel.ID) (*truck.Truck, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.truckLocked(id)
}

// GetPackage retrieves a package by id.
func (s *Store) GetPackage(_ context.Context, id kernel.ID) (*cargo.Package, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.packageLocked(id)
}

// GetCustomer retrieves a customer by id.
func (s *Store) GetCustomer(_ context.Context, id kernel.ID) (*network.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.customers[id.String()]
	if !ok {
		return nil, errs.NewObjectNotFoundError("customerID", id)
	}
	return c, nil
}

// GetRoutePoint retrieves a route point by id.
func (s *Store) GetRoutePoint(_ context.Context, id kernel.ID) (*network.RoutePoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.routePoints[id.String()]
	if !ok {
		return nil, errs.NewObjectNotFoundError("routePointID", id)
	}
	return r, nil
}

// ListTrucks returns trucks matching the filter, ordered by id.
func (s *Store) ListTrucks(_ context.Context, filter ports.TruckFilter) ([]*truck.Truck, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*truck.Truck, 0, len(s.trucks))
	for _, t := range s.trucks {
		if filter.Status != truck.StatusUnknown && t.Status() != filter.Status {
			continue
		}

		clone, err := cloneTruck(t)
		if err != nil {
			return nil, err
		}
		result = append(result, clone)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID().String() < result[j].ID().String()
	})
	return result, nil
}

// ListPackages returns packages matching the filter, ordered by id.
func (s *Store) ListPackages(_ context.Context, filter ports.PackageFilter) ([]*cargo.Package, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*cargo.Package, 0, len(s.packages))
	for _, p := range s.packages {
		if filter.Status != cargo.StatusUnknown && p.Status() != filter.Status {
			continue
		}

		clone, err := clonePackage(p)
		if err != nil {
			return nil, err
		}
		result = append(result, clone)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID().String() < result[j].ID().String()
	})
	return result, nil
}

// ListRoutePoints returns all route points, ordered by id.
func (s *Store) ListRoutePoints(_ context.Context) ([]*network.RoutePoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*network.RoutePoint, 0, len(s.routePoints))
	for _, r := range s.routePoints {
		result = append(result, r)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID().String() < result[j].ID().String()
	})
	return result, nil
}

// LinkCarrying loads a package onto a truck, reserving its weight.
func (s *Store) LinkCarrying(_ context.Context, truckID, packageID kernel.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.trucks[truckID.String()]
	if !ok {
		return errs.NewObjectNotFoundError("truckID", truckID)
	}
	p, ok := s.packages[packageID.String()]
	if !ok {
		return errs.NewObjectNotFoundError("packageID", packageID)
	}

	if carrier, linked := s.carrierOf[packageID.String()]; linked {
		if carrier == truckID.String() {
			return nil
		}
		return fmt.Errorf("%w: package %s is already carried by truck %s",
			ports.ErrRelationConflict, packageID, carrier)
	}

	if err := t.ReserveCapacity(p.Weight()); err != nil {
		return err
	}

	s.carrierOf[packageID.String()] = truckID.String()
	p.MarkInTransit()
	return nil
}

// LinkDestinedFor assigns a package's destination customer.
func (s *Store) LinkDestinedFor(_ context.Context, packageID, customerID kernel.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.packages[packageID.String()]; !ok {
		return errs.NewObjectNotFoundError("packageID", packageID)
	}
	if _, ok := s.customers[customerID.String()]; !ok {
		return errs.NewObjectNotFoundError("customerID", customerID)
	}

	s.destinedFor[packageID.String()] = customerID.String()
	return nil
}

// LinkLocatedAt records the route point a truck is currently near.
func (s *Store) LinkLocatedAt(_ context.Context, truckID, pointID kernel.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.trucks[truckID.String()]; !ok {
		return errs.NewObjectNotFoundError("truckID", truckID)
	}
	if _, ok := s.routePoints[pointID.String()]; !ok {
		return errs.NewObjectNotFoundError("routePointID", pointID)
	}

	s.locatedAt[truckID.String()] = pointID.String()
	return nil
}

// TruckPackages returns the packages a truck is carrying, ordered by id.
func (s *Store) TruckPackages(_ context.Context, truckID kernel.ID) ([]*cargo.Package, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.trucks[truckID.String()]; !ok {
		return nil, errs.NewObjectNotFoundError("truckID", truckID)
	}

	result := make([]*cargo.Package, 0)
	for pkgID, carrier := range s.carrierOf {
		if carrier != truckID.String() {
			continue
		}

		clone, err := clonePackage(s.packages[pkgID])
		if err != nil {
			return nil, err
		}
		result = append(result, clone)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID().String() < result[j].ID().String()
	})
	return result, nil
}

// PackageCustomer resolves the destination customer of a package, or
// (nil, nil) when no destination has been assigned.
func (s *Store) PackageCustomer(_ context.Context, packageID kernel.ID) (*network.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.packages[packageID.String()]; !ok {
		return nil, errs.NewObjectNotFoundError("packageID", packageID)
	}

	customerID, ok := s.destinedFor[packageID.String()]
	if !ok {
		return nil, nil
	}
	return s.customers[customerID], nil
}

// SetTruckStatus updates a truck's operational status. The store allows any
// valid status value here; transition rules (only active trucks fail) are the
// callers' concern.
func (s *Store) SetTruckStatus(_ context.Context, truckID kernel.ID, status truck.Status) error {
	if err := status.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.trucks[truckID.String()]
	if !ok {
		return errs.NewObjectNotFoundError("truckID", truckID)
	}

	updated, err := truck.RestoreTruck(
		t.ID(), t.Capacity(), t.AvailableCapacity(), t.Location(), status, t.Direction())
	if err != nil {
		return err
	}

	s.trucks[truckID.String()] = updated
	return nil
}

// SetTruckLocation updates a truck's current position.
func (s *Store) SetTruckLocation(_ context.Context, truckID kernel.ID, location kernel.GeoPoint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.trucks[truckID.String()]
	if !ok {
		return errs.NewObjectNotFoundError("truckID", truckID)
	}
	return t.MoveTo(location)
}

// TransferPackage atomically moves a package between trucks. The receiving
// truck's capacity is reserved before the source releases anything, so a
// failed transfer leaves every node and edge exactly as it was.
func (s *Store) TransferPackage(_ context.Context, packageID, fromTruckID, toTruckID kernel.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.packages[packageID.String()]
	if !ok {
		return errs.NewObjectNotFoundError("packageID", packageID)
	}
	from, ok := s.trucks[fromTruckID.String()]
	if !ok {
		return errs.NewObjectNotFoundError("fromTruckID", fromTruckID)
	}
	to, ok := s.trucks[toTruckID.String()]
	if !ok {
		return errs.NewObjectNotFoundError("toTruckID", toTruckID)
	}

	carrier, linked := s.carrierOf[packageID.String()]
	if !linked || carrier != fromTruckID.String() {
		return fmt.Errorf("%w: truck %s is not carrying package %s",
			ports.ErrNoSuchRelation, fromTruckID, packageID)
	}
	if fromTruckID.IsEqual(toTruckID) {
		return nil
	}

	if err := to.ReserveCapacity(p.Weight()); err != nil {
		return err
	}
	if err := from.ReleaseCapacity(p.Weight()); err != nil {
		// Bookkeeping diverged; undo the reservation before reporting.
		_ = to.ReleaseCapacity(p.Weight())
		return err
	}

	s.carrierOf[packageID.String()] = toTruckID.String()
	return nil
}

// Ping reports the store as always reachable.
func (s *Store) Ping(_ context.Context) error {
	return nil
}

// truckLocked returns a copy of a stored truck. Caller holds at least a read lock.
func (s *Store) truckLocked(id kernel.ID) (*truck.Truck, error) {
	t, ok := s.trucks[id.String()]
	if !ok {
		return nil, errs.NewObjectNotFoundError("truckID", id)
	}
	return cloneTruck(t)
}

// packageLocked returns a copy of a stored package. Caller holds at least a read lock.
func (s *Store) packageLocked(id kernel.ID) (*cargo.Package, error) {
	p, ok := s.packages[id.String()]
	if !ok {
		return nil, errs.NewObjectNotFoundError("packageID", id)
	}
	return clonePackage(p)
}

func cloneTruck(t *truck.Truck) (*truck.Truck, error) {
	return truck.RestoreTruck(
		t.ID(), t.Capacity(), t.AvailableCapacity(), t.Location(), t.Status(), t.Direction())
}

func clonePackage(p *cargo.Package) (*cargo.Package, error) {
	return cargo.RestorePackage(
		p.ID(), p.Weight(), p.Destination(), p.Status(), p.Priority())
}
