package queries

import (
	"context"

	"gorm.io/gorm"

	"lattice/internal/core/domain/model/kernel"
)

// GetAllTrucksQueryHandler reads the fleet directly from the trucks table.
type GetAllTrucksQueryHandler struct {
	db *gorm.DB
}

// NewGetAllTrucksQueryHandler creates a handler for fleet retrieval queries.
func NewGetAllTrucksQueryHandler(db *gorm.DB) GetAllTrucksQueryHandler {
	return GetAllTrucksQueryHandler{db: db}
}

// Handle returns all trucks ordered by id.
func (h GetAllTrucksQueryHandler) Handle(
	ctx context.Context,
	query GetAllTrucksQuery,
) ([]GetAllTrucksQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	trucks := make([]GetAllTrucksQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			capacity,
			available_capacity,
			lat,
			lon,
			status,
			direction
		FROM trucks
		ORDER BY id
	`).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var resp GetAllTrucksQueryResponse
		var lat, lon float64

		if err = rows.Scan(
			&resp.ID,
			&resp.Capacity,
			&resp.AvailableCapacity,
			&lat,
			&lon,
			&resp.Status,
			&resp.Direction,
		); err != nil {
			return nil, err
		}

		location, locErr := kernel.NewGeoPoint(lat, lon)
		if locErr != nil {
			return nil, locErr
		}
		resp.Location = location
		trucks = append(trucks, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return trucks, nil
}
