package seed

import (
	"context"
	"io"
	"log/slog"
	rand "math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lattice/internal/adapters/out/memory"
	"lattice/internal/core/domain/model/cargo"
	"lattice/internal/core/domain/model/truck"
	"lattice/internal/core/ports"
)

func newTestLoader(t *testing.T, store *memory.Store, seed uint64) *Loader {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	loader, err := NewLoader(store, rand.New(rand.NewPCG(seed, 0)), logger)
	require.NoError(t, err)
	return loader
}

func Test_Loader_LoadAll_PopulatesNetwork(t *testing.T) {
	// Arrange
	ctx := context.Background()
	store := memory.NewStore()
	loader := newTestLoader(t, store, 1)

	// Act
	err := loader.LoadAll(ctx, 10, 30)

	// Assert
	require.NoError(t, err)

	trucks, err := store.ListTrucks(ctx, ports.TruckFilter{})
	require.NoError(t, err)
	require.Len(t, trucks, 10)
	for _, tr := range trucks {
		assert.Equal(t, truck.StatusActive, tr.Status())
		assert.GreaterOrEqual(t, tr.Capacity(), 1000.0)
		assert.LessOrEqual(t, tr.Capacity(), 5000.0)
		assert.GreaterOrEqual(t, tr.AvailableCapacity(), 0.0)
		assert.LessOrEqual(t, tr.AvailableCapacity(), tr.Capacity())
	}

	packages, err := store.ListPackages(ctx, ports.PackageFilter{})
	require.NoError(t, err)
	require.Len(t, packages, 30)

	points, err := store.ListRoutePoints(ctx)
	require.NoError(t, err)
	assert.Len(t, points, 5)
}

func Test_Loader_LoadAll_AssignedPackagesHaveCarrierAndDestination(t *testing.T) {
	// Arrange
	ctx := context.Background()
	store := memory.NewStore()
	loader := newTestLoader(t, store, 2)
	require.NoError(t, loader.LoadAll(ctx, 10, 30))

	// Act: collect carried packages across the fleet
	trucks, err := store.ListTrucks(ctx, ports.TruckFilter{})
	require.NoError(t, err)

	carriedTotal := 0
	for _, tr := range trucks {
		carried, err := store.TruckPackages(ctx, tr.ID())
		require.NoError(t, err)
		carriedTotal += len(carried)

		weightSum := 0.0
		for _, p := range carried {
			weightSum += p.Weight()
			assert.Equal(t, cargo.StatusInTransit, p.Status())

			customer, err := store.PackageCustomer(ctx, p.ID())
			require.NoError(t, err)
			assert.NotNil(t, customer)
		}

		// Capacity bookkeeping matches the carried set exactly
		assert.InDelta(t, tr.Capacity()-weightSum, tr.AvailableCapacity(), 1e-9)
	}
	assert.Positive(t, carriedTotal)
}

func Test_Loader_IsSeedDeterministic(t *testing.T) {
	// Arrange
	ctx := context.Background()

	capacities := func(seed uint64) []float64 {
		store := memory.NewStore()
		loader := newTestLoader(t, store, seed)
		require.NoError(t, loader.LoadTrucks(ctx, 5))

		trucks, err := store.ListTrucks(ctx, ports.TruckFilter{})
		require.NoError(t, err)

		result := make([]float64, 0, len(trucks))
		for _, tr := range trucks {
			result = append(result, tr.Capacity())
		}
		return result
	}

	// Act / Assert
	assert.Equal(t, capacities(9), capacities(9))
}
