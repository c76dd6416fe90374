package disruption_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lattice/internal/core/domain/model/disruption"
	"lattice/internal/core/domain/model/kernel"
	"lattice/internal/pkg/errs"
)

func TestNewEvent(t *testing.T) {
	entityID, err := kernel.NewID("TRUCK-001")
	require.NoError(t, err)

	t.Run("created unresolved with generated id", func(t *testing.T) {
		e, err := disruption.NewEvent(
			disruption.EventTruckFailure, entityID, disruption.SeverityHigh, "Truck TRUCK-001: Engine Failure")
		require.NoError(t, err)

		assert.NotEmpty(t, e.ID())
		assert.False(t, e.Resolved())
		assert.False(t, e.Timestamp().IsZero())
		assert.NoError(t, e.Validate())
		assert.Contains(t, e.String(), "ACTIVE")
	})

	t.Run("ids are unique", func(t *testing.T) {
		a, err := disruption.NewEvent(
			disruption.EventTruckFailure, entityID, disruption.SeverityHigh, "first")
		require.NoError(t, err)
		b, err := disruption.NewEvent(
			disruption.EventTruckFailure, entityID, disruption.SeverityHigh, "second")
		require.NoError(t, err)

		assert.NotEqual(t, a.ID(), b.ID())
	})

	t.Run("invalid type and severity are rejected", func(t *testing.T) {
		_, err := disruption.NewEvent(
			disruption.EventType("meteor_strike"), entityID, disruption.SeverityHigh, "boom")
		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)

		_, err = disruption.NewEvent(
			disruption.EventTruckFailure, entityID, disruption.Severity("apocalyptic"), "boom")
		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("description is required", func(t *testing.T) {
		_, err := disruption.NewEvent(
			disruption.EventTruckFailure, entityID, disruption.SeverityHigh, "")
		assert.ErrorIs(t, err, errs.ErrValueIsRequired)
	})
}

func TestEvent_MarkResolved(t *testing.T) {
	entityID, err := kernel.NewID("RP-001")
	require.NoError(t, err)

	e, err := disruption.NewEvent(
		disruption.EventRouteBlocked, entityID, disruption.SeverityLow, "Route RP-001: Road Construction")
	require.NoError(t, err)

	e.MarkResolved()
	assert.True(t, e.Resolved())
	assert.Contains(t, e.String(), "RESOLVED")

	// one-way and idempotent
	e.MarkResolved()
	assert.True(t, e.Resolved())
}
