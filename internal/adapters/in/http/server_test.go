package http

import (
	"context"
	"encoding/json"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"lattice/internal/adapters/out/memory"
	"lattice/internal/core/application/usecases/queries"
	"lattice/internal/core/domain/model/cargo"
	"lattice/internal/core/domain/model/kernel"
	"lattice/internal/core/domain/model/network"
	"lattice/internal/core/domain/model/truck"
	"lattice/internal/core/domain/services/chaos"
	"lattice/internal/core/domain/services/impact"
	"lattice/internal/core/domain/services/queryengine"
	"lattice/internal/core/domain/services/reroute"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
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

// newTestAPI wires a server over a seeded in-memory network: two active
// trucks, one package carried by TRUCK-001 and destined for a customer.
func newTestAPI(t *testing.T) (*echo.Echo, *memory.Store) {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()

	t1, err := truck.NewTruck(mustID(t, "TRUCK-001"), 1000, mustPoint(t, 40.0, -74.0), "north")
	require.NoError(t, err)
	t2, err := truck.NewTruck(mustID(t, "TRUCK-002"), 1000, mustPoint(t, 40.1, -74.0), "north")
	require.NoError(t, err)
	require.NoError(t, store.UpsertTruck(ctx, t1))
	require.NoError(t, store.UpsertTruck(ctx, t2))

	pkg, err := cargo.NewPackage(mustID(t, "PKG-0001"), 200, mustPoint(t, 41.0, -73.0), cargo.PriorityNormal)
	require.NoError(t, err)
	require.NoError(t, store.UpsertPackage(ctx, pkg))

	customer, err := network.NewCustomer(mustID(t, "CUST-001"), "ABC Electronics", mustPoint(t, 41.0, -73.0), 24)
	require.NoError(t, err)
	require.NoError(t, store.UpsertCustomer(ctx, customer))

	require.NoError(t, store.LinkDestinedFor(ctx, pkg.ID(), customer.ID()))
	require.NoError(t, store.LinkCarrying(ctx, t1.ID(), pkg.ID()))

	queryEngine, err := queryengine.NewEngine(store)
	require.NoError(t, err)
	chaosEngine, err := chaos.NewEngine(store, rand.New(rand.NewPCG(7, 7)))
	require.NoError(t, err)
	pipeline, err := reroute.NewPipeline(store, queryEngine, 60, nil)
	require.NoError(t, err)
	analyzer, err := impact.NewAnalyzer(queryEngine, 10)
	require.NoError(t, err)

	server := NewServer(
		queries.NewGetAllTrucksQueryHandler(nil),
		queries.NewGetInTransitPackagesQueryHandler(nil),
		chaosEngine,
		pipeline,
		analyzer,
	)

	e := echo.New()
	server.RegisterRoutes(e)
	return e, store
}

func doJSON(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("{}")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func Test_Server_Health(t *testing.T) {
	e, _ := newTestAPI(t)

	rec := doJSON(e, http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Healthy", rec.Body.String())
}

func Test_Server_InjectTruckFailure(t *testing.T) {
	// Arrange
	e, store := newTestAPI(t)

	// Act
	rec := doJSON(e, http.MethodPost, "/api/v1/disruptions/truck-failures",
		`{"truckId":"TRUCK-001"}`)

	// Assert
	require.Equal(t, http.StatusCreated, rec.Code)
	var response DisruptionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, "truck_failure", response.Type)
	assert.Equal(t, "TRUCK-001", response.EntityID)
	assert.False(t, response.Resolved)

	failed, err := store.GetTruck(context.Background(), mustID(t, "TRUCK-001"))
	require.NoError(t, err)
	assert.Equal(t, truck.StatusFailed, failed.Status())
}

func Test_Server_InjectTruckFailure_AlreadyFailed(t *testing.T) {
	// Arrange
	e, _ := newTestAPI(t)
	first := doJSON(e, http.MethodPost, "/api/v1/disruptions/truck-failures",
		`{"truckId":"TRUCK-001"}`)
	require.Equal(t, http.StatusCreated, first.Code)

	// Act
	second := doJSON(e, http.MethodPost, "/api/v1/disruptions/truck-failures",
		`{"truckId":"TRUCK-001"}`)

	// Assert
	assert.Equal(t, http.StatusConflict, second.Code)
}

func Test_Server_InjectTruckFailure_UnknownTruck(t *testing.T) {
	e, _ := newTestAPI(t)

	rec := doJSON(e, http.MethodPost, "/api/v1/disruptions/truck-failures",
		`{"truckId":"TRUCK-404"}`)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func Test_Server_InjectRouteBlockage_IsAdvisory(t *testing.T) {
	// Arrange
	e, store := newTestAPI(t)

	// Act
	rec := doJSON(e, http.MethodPost, "/api/v1/disruptions/route-blockages", "")

	// Assert
	require.Equal(t, http.StatusCreated, rec.Code)
	var response DisruptionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, "route_blocked", response.Type)
	assert.True(t, strings.HasPrefix(response.EntityID, "ROUTE-"))

	// Fleet state is untouched by a blockage.
	tr, err := store.GetTruck(context.Background(), mustID(t, "TRUCK-001"))
	require.NoError(t, err)
	assert.Equal(t, truck.StatusActive, tr.Status())
}

func Test_Server_RerouteFailedTruck(t *testing.T) {
	// Arrange
	e, _ := newTestAPI(t)
	failure := doJSON(e, http.MethodPost, "/api/v1/disruptions/truck-failures",
		`{"truckId":"TRUCK-001"}`)
	require.Equal(t, http.StatusCreated, failure.Code)

	// Act
	rec := doJSON(e, http.MethodPost, "/api/v1/rerouting/TRUCK-001", "")

	// Assert
	require.Equal(t, http.StatusOK, rec.Code)
	var response RerouteResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, string(reroute.StatusCompleted), response.Status)
	require.Len(t, response.Plan, 1)
	assert.Equal(t, "PKG-0001", response.Plan[0].PackageID)
	assert.Equal(t, "TRUCK-002", response.Plan[0].NewTruckID)
}

func Test_Server_RerouteActiveTruck_Conflict(t *testing.T) {
	e, _ := newTestAPI(t)

	rec := doJSON(e, http.MethodPost, "/api/v1/rerouting/TRUCK-001", "")

	require.Equal(t, http.StatusConflict, rec.Code)
	var response RerouteResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, string(reroute.StatusError), response.Status)
	assert.Empty(t, response.Plan)
}

func Test_Server_GetImpact(t *testing.T) {
	// Arrange
	e, _ := newTestAPI(t)

	// Act
	rec := doJSON(e, http.MethodGet, "/api/v1/impact/TRUCK-001", "")

	// Assert
	require.Equal(t, http.StatusOK, rec.Code)
	var response ImpactResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, 1, response.AffectedDeliveries)
	assert.Equal(t, 1, response.AffectedCustomers)
	assert.InDelta(t, 30.0, response.TotalPenalty, 1e-9)
	assert.Contains(t, response.Summary, "1 late deliveries")
}

func Test_Server_GetImpact_UnknownTruck(t *testing.T) {
	e, _ := newTestAPI(t)

	rec := doJSON(e, http.MethodGet, "/api/v1/impact/TRUCK-404", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func Test_Server_DisruptionListAndStatistics(t *testing.T) {
	// Arrange
	e, _ := newTestAPI(t)
	require.Equal(t, http.StatusCreated,
		doJSON(e, http.MethodPost, "/api/v1/disruptions/truck-failures", `{"truckId":"TRUCK-001"}`).Code)
	require.Equal(t, http.StatusCreated,
		doJSON(e, http.MethodPost, "/api/v1/disruptions/route-blockages", "").Code)

	// Act
	listRec := doJSON(e, http.MethodGet, "/api/v1/disruptions", "")
	statsRec := doJSON(e, http.MethodGet, "/api/v1/disruptions/statistics", "")

	// Assert
	require.Equal(t, http.StatusOK, listRec.Code)
	var events []DisruptionResponse
	require.NoError(t, json.Unmarshal(listRec.Body.Bytes(), &events))
	assert.Len(t, events, 2)

	require.Equal(t, http.StatusOK, statsRec.Code)
	var stats map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(statsRec.Body.Bytes(), &stats))
	assert.JSONEq(t, "2", string(stats["totalEvents"]))
	assert.JSONEq(t, "2", string(stats["activeEvents"]))
}

func Test_Server_ReroutingStatistics_Empty(t *testing.T) {
	e, _ := newTestAPI(t)

	rec := doJSON(e, http.MethodGet, "/api/v1/rerouting/statistics", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t,
		`{"totalOperations":0,"totalPackagesRerouted":0,"averagePackagesPerOperation":0}`,
		rec.Body.String())
}
