package graphstore

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"lattice/internal/core/domain/model/cargo"
	"lattice/internal/core/domain/model/kernel"
	"lattice/internal/core/domain/model/network"
	"lattice/internal/core/domain/model/truck"
	"lattice/internal/core/ports"
	"lattice/internal/pkg/errs"
)

// Store implements ports.Store on top of a GORM Postgres connection.
// Multi-row mutations (LinkCarrying, TransferPackage) run in a transaction
// with SELECT ... FOR UPDATE row locks, so concurrent writers never observe a
// capacity value outside [0, capacity].
type Store struct {
	db *gorm.DB
}

var _ ports.Store = (*Store)(nil)

// NewStore creates a Postgres-backed graph store.
func NewStore(db *gorm.DB) (*Store, error) {
	if db == nil {
		return nil, errs.NewValueIsRequiredError("db")
	}
	return &Store{db: db}, nil
}

// truckUpsertColumns are the columns refreshed on truck upsert. Edge columns
// are deliberately excluded: re-upserting a node must not detach its edges.
var truckUpsertColumns = []string{
	"capacity", "available_capacity", "lat", "lon", "status", "direction",
}

// packageUpsertColumns are the columns refreshed on package upsert.
var packageUpsertColumns = []string{
	"weight", "destination_lat", "destination_lon", "status", "priority",
}

// UpsertTruck creates or replaces a truck node.
func (s *Store) UpsertTruck(ctx context.Context, t *truck.Truck) error {
	if err := t.Validate(); err != nil {
		return err
	}

	dto := truckFromDomain(t)
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns(truckUpsertColumns),
	}).Create(&dto).Error
	return s.wrapDB("upsert truck", err)
}

// UpsertPackage creates or replaces a package node.
func (s *Store) UpsertPackage(ctx context.Context, p *cargo.Package) error {
	if err := p.Validate(); err != nil {
		return err
	}

	dto := packageFromDomain(p)
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns(packageUpsertColumns),
	}).Create(&dto).Error
	return s.wrapDB("upsert package", err)
}

// UpsertWarehouse creates or replaces a warehouse node.
func (s *Store) UpsertWarehouse(ctx context.Context, w *network.Warehouse) error {
	if err := w.Validate(); err != nil {
		return err
	}

	dto := warehouseFromDomain(w)
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(&dto).Error
	return s.wrapDB("upsert warehouse", err)
}

// UpsertCustomer creates or replaces a customer node.
func (s *Store) UpsertCustomer(ctx context.Context, c *network.Customer) error {
	if err := c.Validate(); err != nil {
		return err
	}

	dto := customerFromDomain(c)
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(&dto).Error
	return s.wrapDB("upsert customer", err)
}

// UpsertRoutePoint creates or replaces a route point node.
func (s *Store) UpsertRoutePoint(ctx context.Context, r *network.RoutePoint) error {
	if err := r.Validate(); err != nil {
		return err
	}

	dto := routePointFromDomain(r)
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(&dto).Error
	return s.wrapDB("upsert route point", err)
}

// GetTruck retrieves a truck by id.
func (s *Store) GetTruck(ctx context.Context, id kernel.ID) (*truck.Truck, error) {
	var dto TruckDTO
	if err := s.db.WithContext(ctx).First(&dto, "id = ?", id.String()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("truckID", id)
		}
		return nil, s.wrapDB("get truck", err)
	}
	return truckToDomain(dto)
}

// GetPackage retrieves a package by id.
func (s *Store) GetPackage(ctx context.Context, id kernel.ID) (*cargo.Package, error) {
	var dto PackageDTO
	if err := s.db.WithContext(ctx).First(&dto, "id = ?", id.String()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("packageID", id)
		}
		return nil, s.wrapDB("get package", err)
	}
	return packageToDomain(dto)
}

// GetCustomer retrieves a customer by id.
func (s *Store) GetCustomer(ctx context.Context, id kernel.ID) (*network.Customer, error) {
	var dto CustomerDTO
	if err := s.db.WithContext(ctx).First(&dto, "id = ?", id.String()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("customerID", id)
		}
		return nil, s.wrapDB("get customer", err)
	}
	return customerToDomain(dto)
}

// GetRoutePoint retrieves a route point by id.
func (s *Store) GetRoutePoint(ctx context.Context, id kernel.ID) (*network.RoutePoint, error) {
	var dto RoutePointDTO
	if err := s.db.WithContext(ctx).First(&dto, "id = ?", id.String()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("routePointID", id)
		}
		return nil, s.wrapDB("get route point", err)
	}
	return routePointToDomain(dto)
}

// ListTrucks returns trucks matching the filter, ordered by id.
func (s *Store) ListTrucks(ctx context.Context, filter ports.TruckFilter) ([]*truck.Truck, error) {
	query := s.db.WithContext(ctx).Order("id")
	if filter.Status != truck.StatusUnknown {
		query = query.Where("status = ?", filter.Status.String())
	}

	var dtos []TruckDTO
	if err := query.Find(&dtos).Error; err != nil {
		return nil, s.wrapDB("list trucks", err)
	}

	trucks := make([]*truck.Truck, 0, len(dtos))
	for _, dto := range dtos {
		t, err := truckToDomain(dto)
		if err != nil {
			return nil, err
		}
		trucks = append(trucks, t)
	}
	return trucks, nil
}

// ListPackages returns packages matching the filter, ordered by id.
func (s *Store) ListPackages(ctx context.Context, filter ports.PackageFilter) ([]*cargo.Package, error) {
	query := s.db.WithContext(ctx).Order("id")
	if filter.Status != cargo.StatusUnknown {
		query = query.Where("status = ?", filter.Status.String())
	}

	var dtos []PackageDTO
	if err := query.Find(&dtos).Error; err != nil {
		return nil, s.wrapDB("list packages", err)
	}

	packages := make([]*cargo.Package, 0, len(dtos))
	for _, dto := range dtos {
		p, err := packageToDomain(dto)
		if err != nil {
			return nil, err
		}
		packages = append(packages, p)
	}
	return packages, nil
}

// ListRoutePoints returns all route points, ordered by id.
func (s *Store) ListRoutePoints(ctx context.Context) ([]*network.RoutePoint, error) {
	var dtos []RoutePointDTO
	if err := s.db.WithContext(ctx).Order("id").Find(&dtos).Error; err != nil {
		return nil, s.wrapDB("list route points", err)
	}

	points := make([]*network.RoutePoint, 0, len(dtos))
	for _, dto := range dtos {
		r, err := routePointToDomain(dto)
		if err != nil {
			return nil, err
		}
		points = append(points, r)
	}
	return points, nil
}

// LinkCarrying loads a package onto a truck, reserving its weight. Both rows
// are locked for the duration of the transaction.
func (s *Store) LinkCarrying(ctx context.Context, truckID, packageID kernel.ID) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		truckDTO, err := lockTruck(tx, truckID)
		if err != nil {
			return err
		}
		packageDTO, err := lockPackage(tx, packageID)
		if err != nil {
			return err
		}

		if packageDTO.CarrierID != nil {
			if *packageDTO.CarrierID == truckID.String() {
				return nil
			}
			return fmt.Errorf("%w: package %s is already carried by truck %s",
				ports.ErrRelationConflict, packageID, *packageDTO.CarrierID)
		}

		if packageDTO.Weight > truckDTO.AvailableCapacity {
			return fmt.Errorf("%w: need %.2f, have %.2f",
				truck.ErrInsufficientCapacity, packageDTO.Weight, truckDTO.AvailableCapacity)
		}

		if err := tx.Model(&TruckDTO{}).Where("id = ?", truckID.String()).
			UpdateColumn("available_capacity",
				gorm.Expr("available_capacity - ?", packageDTO.Weight)).Error; err != nil {
			return err
		}

		updates := map[string]any{"carrier_id": truckID.String()}
		if packageDTO.Status == cargo.StatusPending.String() {
			updates["status"] = cargo.StatusInTransit.String()
		}
		return tx.Model(&PackageDTO{}).Where("id = ?", packageID.String()).
			UpdateColumns(updates).Error
	})
	return s.wrapDB("link carrying", err)
}

// LinkDestinedFor assigns a package's destination customer.
func (s *Store) LinkDestinedFor(ctx context.Context, packageID, customerID kernel.ID) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var customer CustomerDTO
		if err := tx.First(&customer, "id = ?", customerID.String()).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errs.NewObjectNotFoundError("customerID", customerID)
			}
			return err
		}

		result := tx.Model(&PackageDTO{}).Where("id = ?", packageID.String()).
			UpdateColumn("customer_id", customerID.String())
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return errs.NewObjectNotFoundError("packageID", packageID)
		}
		return nil
	})
	return s.wrapDB("link destined for", err)
}

// LinkLocatedAt records the route point a truck is currently near.
func (s *Store) LinkLocatedAt(ctx context.Context, truckID, pointID kernel.ID) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var point RoutePointDTO
		if err := tx.First(&point, "id = ?", pointID.String()).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errs.NewObjectNotFoundError("routePointID", pointID)
			}
			return err
		}

		result := tx.Model(&TruckDTO{}).Where("id = ?", truckID.String()).
			UpdateColumn("route_point_id", pointID.String())
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return errs.NewObjectNotFoundError("truckID", truckID)
		}
		return nil
	})
	return s.wrapDB("link located at", err)
}

// TruckPackages returns the packages a truck is carrying, ordered by id.
func (s *Store) TruckPackages(ctx context.Context, truckID kernel.ID) ([]*cargo.Package, error) {
	var truckDTO TruckDTO
	if err := s.db.WithContext(ctx).First(&truckDTO, "id = ?", truckID.String()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("truckID", truckID)
		}
		return nil, s.wrapDB("truck packages", err)
	}

	var dtos []PackageDTO
	if err := s.db.WithContext(ctx).
		Where("carrier_id = ?", truckID.String()).
		Order("id").
		Find(&dtos).Error; err != nil {
		return nil, s.wrapDB("truck packages", err)
	}

	packages := make([]*cargo.Package, 0, len(dtos))
	for _, dto := range dtos {
		p, err := packageToDomain(dto)
		if err != nil {
			return nil, err
		}
		packages = append(packages, p)
	}
	return packages, nil
}

// PackageCustomer resolves the destination customer of a package, or
// (nil, nil) when no destination has been assigned.
func (s *Store) PackageCustomer(ctx context.Context, packageID kernel.ID) (*network.Customer, error) {
	var packageDTO PackageDTO
	if err := s.db.WithContext(ctx).First(&packageDTO, "id = ?", packageID.String()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("packageID", packageID)
		}
		return nil, s.wrapDB("package customer", err)
	}

	if packageDTO.CustomerID == nil {
		return nil, nil
	}

	customerID, err := kernel.NewID(*packageDTO.CustomerID)
	if err != nil {
		return nil, err
	}
	return s.GetCustomer(ctx, customerID)
}

// SetTruckStatus updates a truck's operational status.
func (s *Store) SetTruckStatus(ctx context.Context, truckID kernel.ID, status truck.Status) error {
	if err := status.Validate(); err != nil {
		return err
	}

	result := s.db.WithContext(ctx).Model(&TruckDTO{}).
		Where("id = ?", truckID.String()).
		UpdateColumn("status", status.String())
	if result.Error != nil {
		return s.wrapDB("set truck status", result.Error)
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("truckID", truckID)
	}
	return nil
}

// SetTruckLocation updates a truck's current position.
func (s *Store) SetTruckLocation(ctx context.Context, truckID kernel.ID, location kernel.GeoPoint) error {
	if err := location.Validate(); err != nil {
		return err
	}

	result := s.db.WithContext(ctx).Model(&TruckDTO{}).
		Where("id = ?", truckID.String()).
		UpdateColumns(map[string]any{"lat": location.Lat(), "lon": location.Lon()})
	if result.Error != nil {
		return s.wrapDB("set truck location", result.Error)
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("truckID", truckID)
	}
	return nil
}

// TransferPackage atomically moves a package between trucks. Truck rows are
// locked in id order so two concurrent transfers over the same pair cannot
// deadlock.
func (s *Store) TransferPackage(ctx context.Context, packageID, fromTruckID, toTruckID kernel.ID) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		first, second := fromTruckID, toTruckID
		if second.String() < first.String() {
			first, second = second, first
		}

		lockedFirst, err := lockTruck(tx, first)
		if err != nil {
			return relabelTruckNotFound(err, first, fromTruckID, toTruckID)
		}
		var lockedSecond TruckDTO
		if first.IsEqual(second) {
			lockedSecond = lockedFirst
		} else {
			lockedSecond, err = lockTruck(tx, second)
			if err != nil {
				return relabelTruckNotFound(err, second, fromTruckID, toTruckID)
			}
		}

		fromDTO, toDTO := lockedFirst, lockedSecond
		if !first.IsEqual(fromTruckID) {
			fromDTO, toDTO = lockedSecond, lockedFirst
		}

		packageDTO, err := lockPackage(tx, packageID)
		if err != nil {
			return err
		}

		if packageDTO.CarrierID == nil || *packageDTO.CarrierID != fromTruckID.String() {
			return fmt.Errorf("%w: truck %s is not carrying package %s",
				ports.ErrNoSuchRelation, fromTruckID, packageID)
		}
		if fromTruckID.IsEqual(toTruckID) {
			return nil
		}

		if packageDTO.Weight > toDTO.AvailableCapacity {
			return fmt.Errorf("%w: need %.2f, have %.2f",
				truck.ErrInsufficientCapacity, packageDTO.Weight, toDTO.AvailableCapacity)
		}

		if err := tx.Model(&TruckDTO{}).Where("id = ?", fromDTO.ID).
			UpdateColumn("available_capacity",
				gorm.Expr("available_capacity + ?", packageDTO.Weight)).Error; err != nil {
			return err
		}
		if err := tx.Model(&TruckDTO{}).Where("id = ?", toDTO.ID).
			UpdateColumn("available_capacity",
				gorm.Expr("available_capacity - ?", packageDTO.Weight)).Error; err != nil {
			return err
		}
		return tx.Model(&PackageDTO{}).Where("id = ?", packageID.String()).
			UpdateColumn("carrier_id", toTruckID.String()).Error
	})
	return s.wrapDB("transfer package", err)
}

// Ping verifies database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return errs.NewStoreUnavailableError("ping", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return errs.NewStoreUnavailableError("ping", err)
	}
	return nil
}

// lockTruck loads a truck row under SELECT ... FOR UPDATE.
func lockTruck(tx *gorm.DB, id kernel.ID) (TruckDTO, error) {
	var dto TruckDTO
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&dto, "id = ?", id.String()).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return TruckDTO{}, errs.NewObjectNotFoundError("truckID", id)
	}
	return dto, err
}

// lockPackage loads a package row under SELECT ... FOR UPDATE.
func lockPackage(tx *gorm.DB, id kernel.ID) (PackageDTO, error) {
	var dto PackageDTO
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&dto, "id = ?", id.String()).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return PackageDTO{}, errs.NewObjectNotFoundError("packageID", id)
	}
	return dto, err
}

// relabelTruckNotFound renames the not-found parameter to the transfer
// argument it corresponds to; locking order obscures which side was missing.
func relabelTruckNotFound(err error, locked, from, to kernel.ID) error {
	if !errors.Is(err, errs.ErrObjectNotFound) {
		return err
	}
	if locked.IsEqual(from) {
		return errs.NewObjectNotFoundError("fromTruckID", from)
	}
	return errs.NewObjectNotFoundError("toTruckID", to)
}

// wrapDB classifies an error coming back from a store operation: domain and
// relationship errors pass through untouched, anything else (driver failures,
// timeouts) becomes a StoreUnavailableError.
func (s *Store) wrapDB(operation string, err error) error {
	if err == nil {
		return nil
	}

	for _, known := range []error{
		errs.ErrObjectNotFound,
		errs.ErrValueIsInvalid,
		errs.ErrValueIsOutOfRange,
		errs.ErrValueIsRequired,
		ports.ErrNoSuchRelation,
		ports.ErrRelationConflict,
		truck.ErrInsufficientCapacity,
	} {
		if errors.Is(err, known) {
			return err
		}
	}
	return errs.NewStoreUnavailableError(operation, err)
}
