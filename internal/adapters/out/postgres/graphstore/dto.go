// Package graphstore persists the entity graph in Postgres through GORM,
// implementing the same ports.Store contract as the in-memory store. Nodes
// map to tables; the single-valued edges (CARRYING, DESTINED_FOR, LOCATED_AT)
// map to nullable foreign-key columns, which makes at-most-one-carrier a
// structural property of the schema.
package graphstore

import (
	"lattice/internal/core/domain/model/cargo"
	"lattice/internal/core/domain/model/kernel"
	"lattice/internal/core/domain/model/network"
	"lattice/internal/core/domain/model/truck"
)

// TruckDTO is the database row for a truck node. RoutePointID carries the
// informational LOCATED_AT edge.
type TruckDTO struct {
	ID                string  `gorm:"type:varchar(64);primaryKey"`
	Capacity          float64 `gorm:"not null"`
	AvailableCapacity float64 `gorm:"not null"`
	Lat               float64 `gorm:"not null"`
	Lon               float64 `gorm:"not null"`
	Status            string  `gorm:"type:varchar(32);not null;index"`
	Direction         string  `gorm:"type:varchar(32)"`
	RoutePointID      *string `gorm:"type:varchar(64);index"`
}

// TableName overrides GORM's default naming.
func (TruckDTO) TableName() string {
	return "trucks"
}

// PackageDTO is the database row for a package node. CarrierID carries the
// CARRYING edge, CustomerID the DESTINED_FOR edge.
type PackageDTO struct {
	ID             string  `gorm:"type:varchar(64);primaryKey"`
	Weight         float64 `gorm:"not null"`
	DestinationLat float64 `gorm:"not null"`
	DestinationLon float64 `gorm:"not null"`
	Status         string  `gorm:"type:varchar(32);not null;index"`
	Priority       string  `gorm:"type:varchar(32);not null"`
	CarrierID      *string `gorm:"type:varchar(64);index"`
	CustomerID     *string `gorm:"type:varchar(64);index"`
}

// TableName overrides GORM's default naming.
func (PackageDTO) TableName() string {
	return "packages"
}

// WarehouseDTO is the database row for a warehouse node.
type WarehouseDTO struct {
	ID       string  `gorm:"type:varchar(64);primaryKey"`
	Name     string  `gorm:"type:varchar(255);not null"`
	Lat      float64 `gorm:"not null"`
	Lon      float64 `gorm:"not null"`
	Capacity float64 `gorm:"not null"`
}

// TableName overrides GORM's default naming.
func (WarehouseDTO) TableName() string {
	return "warehouses"
}

// CustomerDTO is the database row for a customer node.
type CustomerDTO struct {
	ID       string  `gorm:"type:varchar(64);primaryKey"`
	Name     string  `gorm:"type:varchar(255);not null"`
	Lat      float64 `gorm:"not null"`
	Lon      float64 `gorm:"not null"`
	SLAHours float64 `gorm:"not null"`
}

// TableName overrides GORM's default naming.
func (CustomerDTO) TableName() string {
	return "customers"
}

// RoutePointDTO is the database row for a route point node.
type RoutePointDTO struct {
	ID        string  `gorm:"type:varchar(64);primaryKey"`
	Name      string  `gorm:"type:varchar(255);not null"`
	Lat       float64 `gorm:"not null"`
	Lon       float64 `gorm:"not null"`
	PointType string  `gorm:"type:varchar(32);not null"`
}

// TableName overrides GORM's default naming.
func (RoutePointDTO) TableName() string {
	return "route_points"
}

func truckFromDomain(t *truck.Truck) TruckDTO {
	return TruckDTO{
		ID:                t.ID().String(),
		Capacity:          t.Capacity(),
		AvailableCapacity: t.AvailableCapacity(),
		Lat:               t.Location().Lat(),
		Lon:               t.Location().Lon(),
		Status:            t.Status().String(),
		Direction:         t.Direction(),
	}
}

func truckToDomain(dto TruckDTO) (*truck.Truck, error) {
	id, err := kernel.NewID(dto.ID)
	if err != nil {
		return nil, err
	}
	location, err := kernel.NewGeoPoint(dto.Lat, dto.Lon)
	if err != nil {
		return nil, err
	}
	status, err := truck.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	return truck.RestoreTruck(id, dto.Capacity, dto.AvailableCapacity, location, status, dto.Direction)
}

func packageFromDomain(p *cargo.Package) PackageDTO {
	return PackageDTO{
		ID:             p.ID().String(),
		Weight:         p.Weight(),
		DestinationLat: p.Destination().Lat(),
		DestinationLon: p.Destination().Lon(),
		Status:         p.Status().String(),
		Priority:       p.Priority().String(),
	}
}

func packageToDomain(dto PackageDTO) (*cargo.Package, error) {
	id, err := kernel.NewID(dto.ID)
	if err != nil {
		return nil, err
	}
	destination, err := kernel.NewGeoPoint(dto.DestinationLat, dto.DestinationLon)
	if err != nil {
		return nil, err
	}
	status, err := cargo.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}
	priority, err := cargo.PriorityFromString(dto.Priority)
	if err != nil {
		return nil, err
	}

	return cargo.RestorePackage(id, dto.Weight, destination, status, priority)
}

func warehouseFromDomain(w *network.Warehouse) WarehouseDTO {
	return WarehouseDTO{
		ID:       w.ID().String(),
		Name:     w.Name(),
		Lat:      w.Location().Lat(),
		Lon:      w.Location().Lon(),
		Capacity: w.Capacity(),
	}
}

func customerFromDomain(c *network.Customer) CustomerDTO {
	return CustomerDTO{
		ID:       c.ID().String(),
		Name:     c.Name(),
		Lat:      c.Location().Lat(),
		Lon:      c.Location().Lon(),
		SLAHours: c.SLAHours(),
	}
}

func customerToDomain(dto CustomerDTO) (*network.Customer, error) {
	id, err := kernel.NewID(dto.ID)
	if err != nil {
		return nil, err
	}
	location, err := kernel.NewGeoPoint(dto.Lat, dto.Lon)
	if err != nil {
		return nil, err
	}

	return network.NewCustomer(id, dto.Name, location, dto.SLAHours)
}

func routePointFromDomain(r *network.RoutePoint) RoutePointDTO {
	return RoutePointDTO{
		ID:        r.ID().String(),
		Name:      r.Name(),
		Lat:       r.Location().Lat(),
		Lon:       r.Location().Lon(),
		PointType: r.PointType(),
	}
}

func routePointToDomain(dto RoutePointDTO) (*network.RoutePoint, error) {
	id, err := kernel.NewID(dto.ID)
	if err != nil {
		return nil, err
	}
	location, err := kernel.NewGeoPoint(dto.Lat, dto.Lon)
	if err != nil {
		return nil, err
	}

	return network.NewRoutePoint(id, dto.Name, location, dto.PointType)
}
