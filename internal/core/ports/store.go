// Package ports defines the contract between the domain services and the
// entity graph store. The store owns all node and relationship state; any
// backing engine (in-process maps, a relational database, a graph database)
// is interchangeable behind this interface.
package ports

import (
	"context"
	"errors"

	"lattice/internal/core/domain/model/cargo"
	"lattice/internal/core/domain/model/kernel"
	"lattice/internal/core/domain/model/network"
	"lattice/internal/core/domain/model/truck"
)

// Relationship errors shared by all store implementations.
var (
	// ErrNoSuchRelation is returned when an operation requires an edge that
	// does not exist, e.g. transferring a package the source truck is not
	// carrying.
	ErrNoSuchRelation = errors.New("no such relation")

	// ErrRelationConflict is returned when creating an edge would violate
	// the at-most-one-carrier invariant.
	ErrRelationConflict = errors.New("relation conflict")
)

// TruckFilter narrows ListTrucks. Zero values mean "no constraint".
type TruckFilter struct {
	// Status filters by operational status; truck.StatusUnknown disables the filter.
	Status truck.Status
}

// PackageFilter narrows ListPackages. Zero values mean "no constraint".
type PackageFilter struct {
	// Status filters by lifecycle status; cargo.StatusUnknown disables the filter.
	Status cargo.Status
}

// Store is the entity graph contract.
//
// Node writes are idempotent upserts keyed by id. Edge writes are
// upsert-idempotent: creating the same edge twice is a no-op, never a
// duplicate. All methods honor the context's deadline; implementations
// surface connectivity or timeout failures as errs.StoreUnavailableError
// rather than blocking indefinitely.
//
// Every mutation leaves the capacity invariants intact:
// 0 <= available <= capacity for every truck, available = capacity minus the
// carried weight, and no package has more than one carrier.
type Store interface {
	// UpsertTruck creates or replaces a truck node.
	UpsertTruck(ctx context.Context, t *truck.Truck) error
	// UpsertPackage creates or replaces a package node.
	UpsertPackage(ctx context.Context, p *cargo.Package) error
	// UpsertWarehouse creates or replaces a warehouse node.
	UpsertWarehouse(ctx context.Context, w *network.Warehouse) error
	// UpsertCustomer creates or replaces a customer node.
	UpsertCustomer(ctx context.Context, c *network.Customer) error
	// UpsertRoutePoint creates or replaces a route point node.
	UpsertRoutePoint(ctx context.Context, r *network.RoutePoint) error

	// GetTruck retrieves a truck by id; errs.ObjectNotFoundError when absent.
	GetTruck(ctx context.Context, id kernel.ID) (*truck.Truck, error)
	// GetPackage retrieves a package by id; errs.ObjectNotFoundError when absent.
	GetPackage(ctx context.Context, id kernel.ID) (*cargo.Package, error)
	// GetCustomer retrieves a customer by id; errs.ObjectNotFoundError when absent.
	GetCustomer(ctx context.Context, id kernel.ID) (*network.Customer, error)
	// GetRoutePoint retrieves a route point by id; errs.ObjectNotFoundError when absent.
	GetRoutePoint(ctx context.Context, id kernel.ID) (*network.RoutePoint, error)

	// ListTrucks returns trucks matching the filter, ordered by id.
	ListTrucks(ctx context.Context, filter TruckFilter) ([]*truck.Truck, error)
	// ListPackages returns packages matching the filter, ordered by id.
	ListPackages(ctx context.Context, filter PackageFilter) ([]*cargo.Package, error)
	// ListRoutePoints returns all route points, ordered by id.
	ListRoutePoints(ctx context.Context) ([]*network.RoutePoint, error)

	// LinkCarrying creates a CARRYING edge truck -> package, reserving the
	// package's weight on the truck and moving a pending package to
	// in-transit. Re-linking the same pair is a no-op. Linking a package
	// already carried by another truck fails with ErrRelationConflict;
	// a reservation exceeding the truck's available capacity fails with
	// truck.ErrInsufficientCapacity. Either failure leaves the store
	// unchanged.
	LinkCarrying(ctx context.Context, truckID, packageID kernel.ID) error

	// LinkDestinedFor creates the DESTINED_FOR edge package -> customer.
	// The edge is single-valued per package: re-linking replaces the target.
	LinkDestinedFor(ctx context.Context, packageID, customerID kernel.ID) error

	// LinkLocatedAt creates the informational LOCATED_AT edge
	// truck -> route point (zero or one per truck; re-linking replaces).
	LinkLocatedAt(ctx context.Context, truckID, pointID kernel.ID) error

	// TruckPackages returns the packages currently carried by a truck,
	// ordered by package id. Empty slice for a truck carrying nothing.
	TruckPackages(ctx context.Context, truckID kernel.ID) ([]*cargo.Package, error)

	// PackageCustomer resolves the DESTINED_FOR edge of a package.
	// Returns (nil, nil) when the package has no destination assigned.
	PackageCustomer(ctx context.Context, packageID kernel.ID) (*network.Customer, error)

	// SetTruckStatus updates a truck's operational status.
	SetTruckStatus(ctx context.Context, truckID kernel.ID, status truck.Status) error

	// SetTruckLocation updates a truck's current position.
	SetTruckLocation(ctx context.Context, truckID kernel.ID, location kernel.GeoPoint) error

	// TransferPackage atomically moves a package between trucks: the old
	// CARRYING edge is removed, the new one created, and both trucks'
	// available capacities adjusted by the package's weight, with no
	// intermediate state observable to any other reader.
	//
	// Preconditions: a CARRYING edge fromTruckID -> packageID exists
	// (ErrNoSuchRelation otherwise) and the receiving truck has available
	// capacity for the package's weight (truck.ErrInsufficientCapacity
	// otherwise). On any failure the store is left unchanged.
	TransferPackage(ctx context.Context, packageID, fromTruckID, toTruckID kernel.ID) error

	// Ping verifies connectivity to the backing engine.
	Ping(ctx context.Context) error
}
