package errs_test

import (
	"errors"
	"testing"

	"lattice/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectNotFoundError(t *testing.T) {
	t.Run("NewObjectNotFoundError", func(t *testing.T) {
		err := errs.NewObjectNotFoundError("truckId", "TRUCK-001")

		assert.Equal(t, "truckId", err.ParamName)
		assert.Equal(t, "TRUCK-001", err.ID)
		require.NoError(t, err.Cause)
		assert.Equal(t, "object not found: TRUCK-001", err.Error())
		assert.Equal(t, errs.ErrObjectNotFound, err.Unwrap())
	})

	t.Run("NewObjectNotFoundErrorWithCause", func(t *testing.T) {
		cause := errors.New("database connection failed")
		err := errs.NewObjectNotFoundErrorWithCause("truckId", "TRUCK-001", cause)

		assert.Equal(t, "truckId", err.ParamName)
		assert.Equal(t, "TRUCK-001", err.ID)
		assert.Equal(t, cause, err.Cause)
		assert.Equal(t,
			"object not found: param is: truckId, ID is: TRUCK-001 (cause: database connection failed)",
			err.Error())
		assert.Equal(t, errs.ErrObjectNotFound, err.Unwrap())
	})
}

func TestValueIsInvalidError(t *testing.T) {
	t.Run("NewValueIsInvalidError", func(t *testing.T) {
		err := errs.NewValueIsInvalidError("status")

		assert.Equal(t, "status", err.ParamName)
		require.NoError(t, err.Cause)
		assert.Equal(t, "value is invalid: status", err.Error())
		assert.Equal(t, errs.ErrValueIsInvalid, err.Unwrap())
	})

	t.Run("NewValueIsInvalidErrorWithCause", func(t *testing.T) {
		cause := errors.New("invalid format")
		err := errs.NewValueIsInvalidErrorWithCause("status", cause)

		assert.Equal(t, "status", err.ParamName)
		assert.Equal(t, cause, err.Cause)
		assert.Equal(t, "value is invalid: status (cause: invalid format)", err.Error())
		assert.Equal(t, errs.ErrValueIsInvalid, err.Unwrap())
	})
}

func TestValueIsOutOfRangeError(t *testing.T) {
	t.Run("NewValueIsOutOfRangeError", func(t *testing.T) {
		err := errs.NewValueIsOutOfRangeError("lat", 95.0, -90.0, 90.0)

		assert.Equal(t, "lat", err.ParamName)
		assert.Equal(t, 95.0, err.Value)
		assert.Equal(t, -90.0, err.Min)
		assert.Equal(t, 90.0, err.Max)
		require.NoError(t, err.Cause)
		assert.Equal(t, "value is invalid: 95 is lat, min value is -90, max value is 90", err.Error())
		assert.Equal(t, errs.ErrValueIsOutOfRange, err.Unwrap())
	})

	t.Run("sanitize function with newlines", func(t *testing.T) {
		err := errs.NewValueIsOutOfRangeError("text", "hello\nworld", 0, 10)
		assert.Contains(t, err.Error(), "hello world")
		assert.NotContains(t, err.Error(), "\n")
	})
}

func TestValueIsRequiredError(t *testing.T) {
	t.Run("NewValueIsRequiredError", func(t *testing.T) {
		err := errs.NewValueIsRequiredError("name")

		assert.Equal(t, "name", err.ParamName)
		require.NoError(t, err.Cause)
		assert.Equal(t, "value is required: name", err.Error())
		assert.Equal(t, errs.ErrValueIsRequired, err.Unwrap())
	})
}

func TestStoreUnavailableError(t *testing.T) {
	t.Run("NewStoreUnavailableError", func(t *testing.T) {
		cause := errors.New("dial tcp: connection refused")
		err := errs.NewStoreUnavailableError("GetTruck", cause)

		assert.Equal(t, "GetTruck", err.Operation)
		assert.Equal(t, cause, err.Cause)
		assert.Equal(t, "store unavailable: GetTruck (cause: dial tcp: connection refused)", err.Error())
		assert.Equal(t, errs.ErrStoreUnavailable, err.Unwrap())
	})
}

func TestSentinelErrors(t *testing.T) {
	t.Run("error messages match expectations", func(t *testing.T) {
		assert.Equal(t, "object not found", errs.ErrObjectNotFound.Error())
		assert.Equal(t, "value is invalid", errs.ErrValueIsInvalid.Error())
		assert.Equal(t, "value is out of range", errs.ErrValueIsOutOfRange.Error())
		assert.Equal(t, "value is required", errs.ErrValueIsRequired.Error())
		assert.Equal(t, "store unavailable", errs.ErrStoreUnavailable.Error())
	})
}

func TestErrorsCanBeUnwrapped(t *testing.T) {
	t.Run("errors.Is works with custom errors", func(t *testing.T) {
		require.ErrorIs(t, errs.NewObjectNotFoundError("truckId", "TRUCK-001"), errs.ErrObjectNotFound)
		require.ErrorIs(t, errs.NewValueIsInvalidError("status"), errs.ErrValueIsInvalid)
		require.ErrorIs(t, errs.NewValueIsOutOfRangeError("lat", 95.0, -90.0, 90.0), errs.ErrValueIsOutOfRange)
		require.ErrorIs(t, errs.NewValueIsRequiredError("name"), errs.ErrValueIsRequired)
		require.ErrorIs(t, errs.NewStoreUnavailableError("GetTruck", errors.New("timeout")), errs.ErrStoreUnavailable)
	})
}
