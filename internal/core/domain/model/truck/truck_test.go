package truck_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lattice/internal/core/domain/model/kernel"
	"lattice/internal/core/domain/model/truck"
	"lattice/internal/pkg/errs"
)

func mustID(t *testing.T, raw string) kernel.ID {
	t.Helper()
	id, err := kernel.NewID(raw)
	require.NoError(t, err)
	return id
}

func mustPoint(t *testing.T, lat, lon float64) kernel.GeoPoint {
	t.Helper()
	p, err := kernel.NewGeoPoint(lat, lon)
	require.NoError(t, err)
	return p
}

func TestNewTruck(t *testing.T) {
	t.Run("created active with full capacity available", func(t *testing.T) {
		tr, err := truck.NewTruck(mustID(t, "TRUCK-001"), 1000, mustPoint(t, 40.0, -74.0), "north")
		require.NoError(t, err)

		assert.Equal(t, "TRUCK-001", tr.ID().String())
		assert.Equal(t, 1000.0, tr.Capacity())
		assert.Equal(t, 1000.0, tr.AvailableCapacity())
		assert.Equal(t, truck.StatusActive, tr.Status())
		assert.Equal(t, "north", tr.Direction())
		assert.NoError(t, tr.Validate())
	})

	t.Run("direction is optional", func(t *testing.T) {
		tr, err := truck.NewTruck(mustID(t, "TRUCK-001"), 1000, mustPoint(t, 40.0, -74.0), "")
		require.NoError(t, err)
		assert.Empty(t, tr.Direction())
	})

	t.Run("non-positive capacity is rejected", func(t *testing.T) {
		for _, capacity := range []float64{0, -100} {
			_, err := truck.NewTruck(mustID(t, "TRUCK-001"), capacity, mustPoint(t, 40.0, -74.0), "")
			assert.ErrorIs(t, err, errs.ErrValueIsRequired)
		}
	})

	t.Run("zero value is invalid", func(t *testing.T) {
		var tr truck.Truck
		assert.ErrorIs(t, tr.Validate(), truck.ErrTruckIsNotConstructed)
	})
}

func TestRestoreTruck(t *testing.T) {
	t.Run("restores persisted state", func(t *testing.T) {
		tr, err := truck.RestoreTruck(
			mustID(t, "TRUCK-001"), 1000, 250, mustPoint(t, 40.0, -74.0), truck.StatusFailed, "west")
		require.NoError(t, err)

		assert.Equal(t, 250.0, tr.AvailableCapacity())
		assert.Equal(t, truck.StatusFailed, tr.Status())
	})

	t.Run("available capacity outside bounds is rejected", func(t *testing.T) {
		for _, available := range []float64{-1, 1001} {
			_, err := truck.RestoreTruck(
				mustID(t, "TRUCK-001"), 1000, available, mustPoint(t, 40.0, -74.0), truck.StatusActive, "")
			assert.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
		}
	})

	t.Run("invalid status is rejected", func(t *testing.T) {
		_, err := truck.RestoreTruck(
			mustID(t, "TRUCK-001"), 1000, 1000, mustPoint(t, 40.0, -74.0), truck.StatusUnknown, "")
		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestTruck_CapacityBookkeeping(t *testing.T) {
	t.Run("reserve then release restores available capacity exactly", func(t *testing.T) {
		tr, err := truck.NewTruck(mustID(t, "TRUCK-001"), 1000, mustPoint(t, 40.0, -74.0), "")
		require.NoError(t, err)

		require.NoError(t, tr.ReserveCapacity(200))
		assert.Equal(t, 800.0, tr.AvailableCapacity())

		require.NoError(t, tr.ReserveCapacity(300.5))
		assert.Equal(t, 499.5, tr.AvailableCapacity())

		require.NoError(t, tr.ReleaseCapacity(300.5))
		require.NoError(t, tr.ReleaseCapacity(200))
		assert.Equal(t, 1000.0, tr.AvailableCapacity())
	})

	t.Run("reservation above available capacity fails and leaves truck unchanged", func(t *testing.T) {
		tr, err := truck.NewTruck(mustID(t, "TRUCK-001"), 500, mustPoint(t, 40.0, -74.0), "")
		require.NoError(t, err)
		require.NoError(t, tr.ReserveCapacity(400))

		err = tr.ReserveCapacity(200)
		assert.ErrorIs(t, err, truck.ErrInsufficientCapacity)
		assert.Equal(t, 100.0, tr.AvailableCapacity())
	})

	t.Run("release above total capacity fails", func(t *testing.T) {
		tr, err := truck.NewTruck(mustID(t, "TRUCK-001"), 500, mustPoint(t, 40.0, -74.0), "")
		require.NoError(t, err)

		err = tr.ReleaseCapacity(1)
		assert.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
		assert.Equal(t, 500.0, tr.AvailableCapacity())
	})

	t.Run("non-positive weights are rejected", func(t *testing.T) {
		tr, err := truck.NewTruck(mustID(t, "TRUCK-001"), 500, mustPoint(t, 40.0, -74.0), "")
		require.NoError(t, err)

		assert.Error(t, tr.ReserveCapacity(0))
		assert.Error(t, tr.ReserveCapacity(-10))
		assert.Error(t, tr.ReleaseCapacity(0))
	})

	t.Run("CanCarry respects available capacity", func(t *testing.T) {
		tr, err := truck.NewTruck(mustID(t, "TRUCK-001"), 500, mustPoint(t, 40.0, -74.0), "")
		require.NoError(t, err)
		require.NoError(t, tr.ReserveCapacity(450))

		assert.True(t, tr.CanCarry(50))
		assert.False(t, tr.CanCarry(51))
		assert.False(t, tr.CanCarry(0))
	})
}

func TestTruck_StatusTransitions(t *testing.T) {
	t.Run("active truck can fail", func(t *testing.T) {
		tr, err := truck.NewTruck(mustID(t, "TRUCK-001"), 500, mustPoint(t, 40.0, -74.0), "")
		require.NoError(t, err)

		require.NoError(t, tr.MarkFailed())
		assert.Equal(t, truck.StatusFailed, tr.Status())
	})

	t.Run("failed truck cannot fail again", func(t *testing.T) {
		tr, err := truck.NewTruck(mustID(t, "TRUCK-001"), 500, mustPoint(t, 40.0, -74.0), "")
		require.NoError(t, err)
		require.NoError(t, tr.MarkFailed())

		assert.ErrorIs(t, tr.MarkFailed(), truck.ErrTruckNotActive)
	})

	t.Run("maintenance requires an active truck", func(t *testing.T) {
		tr, err := truck.NewTruck(mustID(t, "TRUCK-001"), 500, mustPoint(t, 40.0, -74.0), "")
		require.NoError(t, err)

		require.NoError(t, tr.MarkMaintenance())
		assert.Equal(t, truck.StatusMaintenance, tr.Status())
		assert.ErrorIs(t, tr.MarkFailed(), truck.ErrTruckNotActive)
	})
}

func TestStatus(t *testing.T) {
	t.Run("string round trip", func(t *testing.T) {
		for _, s := range []truck.Status{truck.StatusActive, truck.StatusFailed, truck.StatusMaintenance} {
			parsed, err := truck.StatusFromString(s.String())
			require.NoError(t, err)
			assert.Equal(t, s, parsed)
		}
	})

	t.Run("unknown strings are rejected", func(t *testing.T) {
		_, err := truck.StatusFromString("parked")
		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("unknown status is invalid", func(t *testing.T) {
		assert.Error(t, truck.StatusUnknown.Validate())
		assert.Equal(t, "unknown", truck.StatusUnknown.String())
	})
}
