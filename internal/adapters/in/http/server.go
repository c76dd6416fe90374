// Package http exposes the dashboard API: fleet and shipment read models,
// disruption injection and the recovery pipeline, served over echo.
package http

import (
	"errors"
	"net/http"
	"time"

	"lattice/internal/core/application/usecases/queries"
	"lattice/internal/core/domain/model/disruption"
	"lattice/internal/core/domain/model/kernel"
	"lattice/internal/core/domain/model/truck"
	"lattice/internal/core/domain/services/chaos"
	"lattice/internal/core/domain/services/impact"
	"lattice/internal/core/domain/services/reroute"
	"lattice/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Server coordinates between HTTP handlers, the CQRS read models and the
// domain services. Handlers translate domain errors into status codes and
// never propagate panics to the client.
type Server struct {
	// Query handlers
	getAllTrucksHandler         queries.GetAllTrucksQueryHandler
	getInTransitPackagesHandler queries.GetInTransitPackagesQueryHandler

	// Domain services
	chaosEngine *chaos.Engine
	pipeline    *reroute.Pipeline
	analyzer    *impact.Analyzer
}

// NewServer creates an HTTP server with the required query handlers and
// domain services.
func NewServer(
	getAllTrucksHandler queries.GetAllTrucksQueryHandler,
	getInTransitPackagesHandler queries.GetInTransitPackagesQueryHandler,
	chaosEngine *chaos.Engine,
	pipeline *reroute.Pipeline,
	analyzer *impact.Analyzer,
) *Server {
	return &Server{
		getAllTrucksHandler:         getAllTrucksHandler,
		getInTransitPackagesHandler: getInTransitPackagesHandler,
		chaosEngine:                 chaosEngine,
		pipeline:                    pipeline,
		analyzer:                    analyzer,
	}
}

// RegisterRoutes wires all API routes onto the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", s.Health)

	api := e.Group("/api/v1")
	api.GET("/trucks", s.GetTrucks)
	api.GET("/packages/in-transit", s.GetInTransitPackages)
	api.GET("/disruptions", s.GetDisruptions)
	api.GET("/disruptions/statistics", s.GetDisruptionStatistics)
	api.POST("/disruptions/truck-failures", s.InjectTruckFailure)
	api.POST("/disruptions/route-blockages", s.InjectRouteBlockage)
	api.POST("/rerouting/:truckId", s.RerouteTruck)
	api.GET("/rerouting/statistics", s.GetReroutingStatistics)
	api.GET("/impact/:truckId", s.GetImpact)
}

// Error is the JSON error envelope returned by every failing handler.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// TruckResponse is one fleet row.
type TruckResponse struct {
	ID                string  `json:"id"`
	Capacity          float64 `json:"capacity"`
	AvailableCapacity float64 `json:"availableCapacity"`
	Lat               float64 `json:"lat"`
	Lon               float64 `json:"lon"`
	Status            string  `json:"status"`
	Direction         string  `json:"direction"`
}

// PackageResponse is one in-transit shipment row.
type PackageResponse struct {
	ID             string  `json:"id"`
	Weight         float64 `json:"weight"`
	DestinationLat float64 `json:"destinationLat"`
	DestinationLon float64 `json:"destinationLon"`
	Priority       string  `json:"priority"`
	CarrierID      string  `json:"carrierId,omitempty"`
}

// DisruptionResponse is one disruption event.
type DisruptionResponse struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	EntityID    string    `json:"entityId"`
	Severity    string    `json:"severity"`
	Description string    `json:"description"`
	Timestamp   time.Time `json:"timestamp"`
	Resolved    bool      `json:"resolved"`
}

// TruckFailureRequest names the truck to fail. An empty TruckID picks a
// random active truck.
type TruckFailureRequest struct {
	TruckID string `json:"truckId"`
}

// RouteBlockageRequest names the route point to block. An empty RoutePointID
// yields a synthetic route segment.
type RouteBlockageRequest struct {
	RoutePointID string `json:"routePointId"`
}

// PlanEntryResponse is one executed package transfer in a rerouting plan.
type PlanEntryResponse struct {
	PackageID    string    `json:"packageId"`
	NewTruckID   string    `json:"newTruckId"`
	Distance     float64   `json:"distance"`
	EstimatedEta time.Time `json:"estimatedEta"`
	DelayHours   float64   `json:"delayHours"`
}

// RerouteResponse is the final pipeline context of a recovery run.
type RerouteResponse struct {
	FailedTruckID    string              `json:"failedTruckId"`
	Status           string              `json:"status"`
	Message          string              `json:"message,omitempty"`
	AffectedPackages []string            `json:"affectedPackages"`
	Plan             []PlanEntryResponse `json:"plan"`
}

// ImpactResponse is the blast radius of a truck failure.
type ImpactResponse struct {
	TruckID             string  `json:"truckId"`
	AffectedDeliveries  int     `json:"affectedDeliveries"`
	AffectedCustomers   int     `json:"affectedCustomers"`
	EstimatedDelayHours float64 `json:"estimatedDelayHours"`
	PenaltyPerPackage   float64 `json:"penaltyPerPackage"`
	TotalPenalty        float64 `json:"totalPenalty"`
	Summary             string  `json:"summary"`
}

// Health handles GET /health.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Healthy")
}

// GetTrucks handles GET /api/v1/trucks - retrieves the whole fleet.
func (s *Server) GetTrucks(ctx echo.Context) error {
	query := queries.NewGetAllTrucksQuery()

	trucks, err := s.getAllTrucksHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, Error{
			Code:    http.StatusInternalServerError,
			Message: "Failed to retrieve trucks",
		})
	}

	response := make([]TruckResponse, len(trucks))
	for i, t := range trucks {
		response[i] = TruckResponse{
			ID:                t.ID,
			Capacity:          t.Capacity,
			AvailableCapacity: t.AvailableCapacity,
			Lat:               t.Location.Lat(),
			Lon:               t.Location.Lon(),
			Status:            t.Status,
			Direction:         t.Direction,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// GetInTransitPackages handles GET /api/v1/packages/in-transit.
func (s *Server) GetInTransitPackages(ctx echo.Context) error {
	query := queries.NewGetInTransitPackagesQuery()

	packages, err := s.getInTransitPackagesHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, Error{
			Code:    http.StatusInternalServerError,
			Message: "Failed to retrieve packages",
		})
	}

	response := make([]PackageResponse, len(packages))
	for i, p := range packages {
		response[i] = PackageResponse{
			ID:             p.ID,
			Weight:         p.Weight,
			DestinationLat: p.Destination.Lat(),
			DestinationLon: p.Destination.Lon(),
			Priority:       p.Priority,
			CarrierID:      p.CarrierID,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// GetDisruptions handles GET /api/v1/disruptions - lists unresolved events.
func (s *Server) GetDisruptions(ctx echo.Context) error {
	events := s.chaosEngine.ActiveEvents()

	response := make([]DisruptionResponse, len(events))
	for i, event := range events {
		response[i] = disruptionToResponse(event)
	}

	return ctx.JSON(http.StatusOK, response)
}

// GetDisruptionStatistics handles GET /api/v1/disruptions/statistics.
func (s *Server) GetDisruptionStatistics(ctx echo.Context) error {
	stats := s.chaosEngine.EventStatistics()

	byType := make(map[string]int, len(stats.ByType))
	for eventType, count := range stats.ByType {
		byType[string(eventType)] = count
	}
	bySeverity := make(map[string]int, len(stats.BySeverity))
	for severity, count := range stats.BySeverity {
		bySeverity[string(severity)] = count
	}

	return ctx.JSON(http.StatusOK, map[string]any{
		"totalEvents":    stats.TotalEvents,
		"activeEvents":   stats.ActiveEvents,
		"resolvedEvents": stats.ResolvedEvents,
		"byType":         byType,
		"bySeverity":     bySeverity,
	})
}

// InjectTruckFailure handles POST /api/v1/disruptions/truck-failures.
func (s *Server) InjectTruckFailure(ctx echo.Context) error {
	var request TruckFailureRequest
	if err := ctx.Bind(&request); err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	var truckID kernel.ID
	if request.TruckID != "" {
		id, err := kernel.NewID(request.TruckID)
		if err != nil {
			return ctx.JSON(http.StatusBadRequest, Error{
				Code:    http.StatusBadRequest,
				Message: "Invalid truck id: " + err.Error(),
			})
		}
		truckID = id
	}

	event, err := s.chaosEngine.InjectTruckFailure(ctx.Request().Context(), truckID)
	if err != nil {
		return s.disruptionError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, disruptionToResponse(event))
}

// InjectRouteBlockage handles POST /api/v1/disruptions/route-blockages.
func (s *Server) InjectRouteBlockage(ctx echo.Context) error {
	var request RouteBlockageRequest
	if err := ctx.Bind(&request); err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	var pointID kernel.ID
	if request.RoutePointID != "" {
		id, err := kernel.NewID(request.RoutePointID)
		if err != nil {
			return ctx.JSON(http.StatusBadRequest, Error{
				Code:    http.StatusBadRequest,
				Message: "Invalid route point id: " + err.Error(),
			})
		}
		pointID = id
	}

	event, err := s.chaosEngine.InjectRouteBlockage(ctx.Request().Context(), pointID)
	if err != nil {
		return s.disruptionError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, disruptionToResponse(event))
}

// RerouteTruck handles POST /api/v1/rerouting/:truckId - runs the recovery
// pipeline for a failed truck. A run that terminates in the error state is
// reported as a conflict with the pipeline's message.
func (s *Server) RerouteTruck(ctx echo.Context) error {
	truckID, err := kernel.NewID(ctx.Param("truckId"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid truck id: " + err.Error(),
		})
	}

	result := s.pipeline.HandleTruckFailure(ctx.Request().Context(), truckID)

	response := RerouteResponse{
		FailedTruckID:    result.FailedTruckID.String(),
		Status:           string(result.Status),
		Message:          result.Message,
		AffectedPackages: make([]string, len(result.AffectedPackages)),
		Plan:             make([]PlanEntryResponse, len(result.Plan)),
	}
	for i, packageID := range result.AffectedPackages {
		response.AffectedPackages[i] = packageID.String()
	}
	for i, entry := range result.Plan {
		response.Plan[i] = PlanEntryResponse{
			PackageID:    entry.PackageID.String(),
			NewTruckID:   entry.NewTruckID.String(),
			Distance:     entry.Distance,
			EstimatedEta: entry.EstimatedEta,
			DelayHours:   entry.DelayHours,
		}
	}

	if result.Status == reroute.StatusError {
		return ctx.JSON(http.StatusConflict, response)
	}
	return ctx.JSON(http.StatusOK, response)
}

// GetReroutingStatistics handles GET /api/v1/rerouting/statistics.
func (s *Server) GetReroutingStatistics(ctx echo.Context) error {
	stats := s.pipeline.ReroutingStatistics()

	return ctx.JSON(http.StatusOK, map[string]any{
		"totalOperations":             stats.TotalOperations,
		"totalPackagesRerouted":       stats.TotalPackagesRerouted,
		"averagePackagesPerOperation": stats.AveragePackagesPerOperation,
	})
}

// GetImpact handles GET /api/v1/impact/:truckId - computes the blast radius
// of a truck failure without mutating anything.
func (s *Server) GetImpact(ctx echo.Context) error {
	truckID, err := kernel.NewID(ctx.Param("truckId"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid truck id: " + err.Error(),
		})
	}

	radius, err := s.analyzer.CalculateBlastRadius(ctx.Request().Context(), truckID)
	if err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			return ctx.JSON(http.StatusNotFound, Error{
				Code:    http.StatusNotFound,
				Message: "Truck not found: " + truckID.String(),
			})
		}
		return ctx.JSON(http.StatusInternalServerError, Error{
			Code:    http.StatusInternalServerError,
			Message: "Failed to calculate impact",
		})
	}

	return ctx.JSON(http.StatusOK, ImpactResponse{
		TruckID:             truckID.String(),
		AffectedDeliveries:  radius.AffectedDeliveries,
		AffectedCustomers:   radius.AffectedCustomers,
		EstimatedDelayHours: radius.EstimatedDelayHours,
		PenaltyPerPackage:   radius.PenaltyPerPackage,
		TotalPenalty:        radius.TotalPenalty,
		Summary:             radius.Summary,
	})
}

func (s *Server) disruptionError(ctx echo.Context, err error) error {
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return ctx.JSON(http.StatusNotFound, Error{
			Code:    http.StatusNotFound,
			Message: err.Error(),
		})
	case errors.Is(err, truck.ErrTruckNotActive), errors.Is(err, chaos.ErrNoActiveTrucks):
		return ctx.JSON(http.StatusConflict, Error{
			Code:    http.StatusConflict,
			Message: err.Error(),
		})
	case errors.Is(err, errs.ErrValueIsInvalid), errors.Is(err, errs.ErrValueIsRequired):
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: err.Error(),
		})
	default:
		return ctx.JSON(http.StatusInternalServerError, Error{
			Code:    http.StatusInternalServerError,
			Message: "Failed to inject disruption",
		})
	}
}

func disruptionToResponse(event *disruption.Event) DisruptionResponse {
	return DisruptionResponse{
		ID:          event.ID(),
		Type:        string(event.Type()),
		EntityID:    event.EntityID().String(),
		Severity:    string(event.Severity()),
		Description: event.Description(),
		Timestamp:   event.Timestamp(),
		Resolved:    event.Resolved(),
	}
}
