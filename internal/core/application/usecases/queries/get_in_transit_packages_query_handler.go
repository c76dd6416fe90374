package queries

import (
	"context"
	"database/sql"

	"gorm.io/gorm"

	"lattice/internal/core/domain/model/cargo"
	"lattice/internal/core/domain/model/kernel"
)

// GetInTransitPackagesQueryHandler reads in-transit shipments from the
// packages table.
type GetInTransitPackagesQueryHandler struct {
	db *gorm.DB
}

// NewGetInTransitPackagesQueryHandler creates a handler for shipment queries.
func NewGetInTransitPackagesQueryHandler(db *gorm.DB) GetInTransitPackagesQueryHandler {
	return GetInTransitPackagesQueryHandler{db: db}
}

// Handle returns all in-transit packages ordered by id.
func (h GetInTransitPackagesQueryHandler) Handle(
	ctx context.Context,
	query GetInTransitPackagesQuery,
) ([]GetInTransitPackagesQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	packages := make([]GetInTransitPackagesQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			weight,
			destination_lat,
			destination_lon,
			priority,
			carrier_id
		FROM packages
		WHERE status = ?
		ORDER BY id
	`, cargo.StatusInTransit.String()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var resp GetInTransitPackagesQueryResponse
		var lat, lon float64
		var carrierID sql.NullString

		if err = rows.Scan(
			&resp.ID,
			&resp.Weight,
			&lat,
			&lon,
			&resp.Priority,
			&carrierID,
		); err != nil {
			return nil, err
		}

		destination, locErr := kernel.NewGeoPoint(lat, lon)
		if locErr != nil {
			return nil, locErr
		}
		resp.Destination = destination
		resp.CarrierID = carrierID.String
		packages = append(packages, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return packages, nil
}
