package queries_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lattice/internal/core/application/usecases/queries"
)

func TestNewGetAllTrucksQuery_Valid(t *testing.T) {
	query := queries.NewGetAllTrucksQuery()
	err := query.Validate()
	require.NoError(t, err)
}

func TestGetAllTrucksQuery_NotConstructedViaConstructor(t *testing.T) {
	query := queries.GetAllTrucksQuery{}
	err := query.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, queries.ErrGetAllTrucksQueryIsNotConstructed)
}
