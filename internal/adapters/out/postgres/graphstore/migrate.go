package graphstore

import "gorm.io/gorm"

// Migrate creates or updates the graph schema. Called by the setup CLI
// subcommand and by integration tests.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&TruckDTO{},
		&PackageDTO{},
		&WarehouseDTO{},
		&CustomerDTO{},
		&RoutePointDTO{},
	)
}
