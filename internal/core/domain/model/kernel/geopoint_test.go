package kernel_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lattice/internal/core/domain/model/kernel"
	"lattice/internal/pkg/errs"
)

func TestNewGeoPoint(t *testing.T) {
	tests := []struct {
		name    string
		lat     float64
		lon     float64
		wantErr bool
	}{
		{
			name: "valid point",
			lat:  40.7128,
			lon:  -74.0060,
		},
		{
			name: "valid point at min bounds",
			lat:  kernel.LatMin,
			lon:  kernel.LonMin,
		},
		{
			name: "valid point at max bounds",
			lat:  kernel.LatMax,
			lon:  kernel.LonMax,
		},
		{
			name:    "latitude too small",
			lat:     kernel.LatMin - 0.1,
			lon:     0,
			wantErr: true,
		},
		{
			name:    "latitude too large",
			lat:     kernel.LatMax + 0.1,
			lon:     0,
			wantErr: true,
		},
		{
			name:    "longitude too small",
			lat:     0,
			lon:     kernel.LonMin - 0.1,
			wantErr: true,
		},
		{
			name:    "longitude too large",
			lat:     0,
			lon:     kernel.LonMax + 0.1,
			wantErr: true,
		},
		{
			name:    "both coordinates invalid",
			lat:     -91,
			lon:     181,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := kernel.NewGeoPoint(tt.lat, tt.lon)

			if tt.wantErr {
				assert.Error(t, err)
				assert.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
				assert.Zero(t, p)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.lat, p.Lat())
				assert.Equal(t, tt.lon, p.Lon())
				assert.NoError(t, p.Validate())
			}
		})
	}
}

func TestGeoPoint_Validate(t *testing.T) {
	t.Run("zero value is invalid", func(t *testing.T) {
		var p kernel.GeoPoint
		assert.Error(t, p.Validate())
	})
}

func TestGeoPoint_DistanceTo(t *testing.T) {
	t.Run("euclidean distance over degrees", func(t *testing.T) {
		a, err := kernel.NewGeoPoint(40.0, -74.0)
		require.NoError(t, err)
		b, err := kernel.NewGeoPoint(37.0, -70.0)
		require.NoError(t, err)

		d, err := a.DistanceTo(b)
		require.NoError(t, err)
		assert.InDelta(t, 5.0, d, 1e-9) // 3-4-5 triangle in degrees

		// symmetric
		d2, err := b.DistanceTo(a)
		require.NoError(t, err)
		assert.Equal(t, d, d2)
	})

	t.Run("distance to self is zero", func(t *testing.T) {
		p, err := kernel.NewGeoPoint(40.0, -74.0)
		require.NoError(t, err)

		d, err := p.DistanceTo(p)
		require.NoError(t, err)
		assert.Zero(t, d)
	})

	t.Run("unconstructed point fails", func(t *testing.T) {
		p, err := kernel.NewGeoPoint(40.0, -74.0)
		require.NoError(t, err)

		var zero kernel.GeoPoint
		_, err = p.DistanceTo(zero)
		assert.Error(t, err)
	})
}

func TestGeoPoint_IsEqual(t *testing.T) {
	a, err := kernel.NewGeoPoint(40.0, -74.0)
	require.NoError(t, err)
	b, err := kernel.NewGeoPoint(40.0, -74.0)
	require.NoError(t, err)
	c, err := kernel.NewGeoPoint(41.0, -74.0)
	require.NoError(t, err)

	equal, err := a.IsEqual(b)
	require.NoError(t, err)
	assert.True(t, equal)

	equal, err = a.IsEqual(c)
	require.NoError(t, err)
	assert.False(t, equal)
}

func TestNewID(t *testing.T) {
	t.Run("valid id", func(t *testing.T) {
		id, err := kernel.NewID("TRUCK-001")
		require.NoError(t, err)
		assert.Equal(t, "TRUCK-001", id.String())
		assert.NoError(t, id.Validate())
	})

	t.Run("blank id is rejected", func(t *testing.T) {
		for _, raw := range []string{"", "   ", "\t\n"} {
			_, err := kernel.NewID(raw)
			assert.ErrorIs(t, err, errs.ErrValueIsRequired)
		}
	})

	t.Run("zero value fails validation", func(t *testing.T) {
		var id kernel.ID
		assert.Error(t, id.Validate())
	})

	t.Run("equality is by value", func(t *testing.T) {
		a, err := kernel.NewID("TRUCK-001")
		require.NoError(t, err)
		b, err := kernel.NewID("TRUCK-001")
		require.NoError(t, err)
		c, err := kernel.NewID("TRUCK-002")
		require.NoError(t, err)

		assert.True(t, a.IsEqual(b))
		assert.False(t, a.IsEqual(c))
	})
}
