package queries_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"lattice/internal/adapters/out/postgres/graphstore"
	"lattice/internal/core/application/usecases/queries"
	"lattice/internal/core/domain/model/cargo"
	"lattice/internal/core/domain/model/kernel"
	"lattice/internal/core/domain/model/truck"
)

type QueryHandlersTestSuite struct {
	suite.Suite
	container       *postgres.PostgresContainer
	db              *gorm.DB
	store           *graphstore.Store
	trucksHandler   queries.GetAllTrucksQueryHandler
	packagesHandler queries.GetInTransitPackagesQueryHandler
}

func (suite *QueryHandlersTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(graphstore.Migrate(db))

	store, err := graphstore.NewStore(db)
	suite.Require().NoError(err)
	suite.store = store

	suite.trucksHandler = queries.NewGetAllTrucksQueryHandler(db)
	suite.packagesHandler = queries.NewGetInTransitPackagesQueryHandler(db)
}

func (suite *QueryHandlersTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *QueryHandlersTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE packages, trucks CASCADE").Error)
}

func (suite *QueryHandlersTestSuite) mustID(raw string) kernel.ID {
	id, err := kernel.NewID(raw)
	suite.Require().NoError(err)
	return id
}

func (suite *QueryHandlersTestSuite) mustPoint(lat, lon float64) kernel.GeoPoint {
	p, err := kernel.NewGeoPoint(lat, lon)
	suite.Require().NoError(err)
	return p
}

func (suite *QueryHandlersTestSuite) TestGetAllTrucks_EmptyDatabase_ReturnsEmptySlice() {
	result, err := suite.trucksHandler.Handle(context.Background(), queries.NewGetAllTrucksQuery())

	suite.Require().NoError(err)
	suite.NotNil(result)
	suite.Empty(result)
}

func (suite *QueryHandlersTestSuite) TestGetAllTrucks_ReturnsFleetOrderedByID() {
	ctx := context.Background()
	for _, id := range []string{"TRUCK-002", "TRUCK-001"} {
		t, err := truck.NewTruck(suite.mustID(id), 1000, suite.mustPoint(40.0, -74.0), "northeast")
		suite.Require().NoError(err)
		suite.Require().NoError(suite.store.UpsertTruck(ctx, t))
	}

	result, err := suite.trucksHandler.Handle(ctx, queries.NewGetAllTrucksQuery())

	suite.Require().NoError(err)
	suite.Require().Len(result, 2)
	suite.Equal("TRUCK-001", result[0].ID)
	suite.Equal("TRUCK-002", result[1].ID)
	suite.Equal(1000.0, result[0].Capacity)
	suite.Equal("active", result[0].Status)
	suite.Equal("northeast", result[0].Direction)
}

func (suite *QueryHandlersTestSuite) TestGetInTransitPackages_OnlyInTransitRows() {
	ctx := context.Background()

	carrier, err := truck.NewTruck(suite.mustID("TRUCK-001"), 1000, suite.mustPoint(40.0, -74.0), "")
	suite.Require().NoError(err)
	suite.Require().NoError(suite.store.UpsertTruck(ctx, carrier))

	for _, id := range []string{"PKG-001", "PKG-002"} {
		p, pkgErr := cargo.NewPackage(suite.mustID(id), 100, suite.mustPoint(41.0, -73.0), cargo.PriorityUrgent)
		suite.Require().NoError(pkgErr)
		suite.Require().NoError(suite.store.UpsertPackage(ctx, p))
	}
	suite.Require().NoError(suite.store.LinkCarrying(ctx,
		suite.mustID("TRUCK-001"), suite.mustID("PKG-001")))

	result, err := suite.packagesHandler.Handle(ctx, queries.NewGetInTransitPackagesQuery())

	suite.Require().NoError(err)
	suite.Require().Len(result, 1)
	suite.Equal("PKG-001", result[0].ID)
	suite.Equal("TRUCK-001", result[0].CarrierID)
	suite.Equal("urgent", result[0].Priority)
}

func TestQueryHandlersTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration tests in short mode")
	}
	suite.Run(t, new(QueryHandlersTestSuite))
}
