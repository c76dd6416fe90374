// Package reroute implements the recovery pipeline that reacts to a truck
// failure: an explicit six-stage state machine that assesses the blast
// radius, finds alternative trucks, executes the package transfers and
// recalculates ETAs. Every run is recorded in an in-process history used for
// statistics.
package reroute

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"lattice/internal/core/domain/model/kernel"
	"lattice/internal/core/domain/model/truck"
	"lattice/internal/core/domain/services/queryengine"
	"lattice/internal/core/ports"
	"lattice/internal/pkg/errs"
)

// Status names the pipeline states. Each stage advances the status on
// success; StatusError terminates the run immediately.
type Status string

const (
	StatusInitialized       Status = "initialized"
	StatusFailureDetected   Status = "failure_detected"
	StatusImpactAssessed    Status = "impact_assessed"
	StatusNoPackages        Status = "no_packages"
	StatusAlternativesFound Status = "alternatives_found"
	StatusReroutingExecuted Status = "rerouting_executed"
	StatusEtaCalculated     Status = "eta_calculated"
	StatusCompleted         Status = "completed"
	StatusError             Status = "error"
)

// degreesToKm converts planar degree distances to approximate kilometers.
const degreesToKm = 111.0

// candidateLimit caps the alternative trucks considered per package.
const candidateLimit = 5

// PlanEntry records one successful package transfer. Distance is in degrees;
// EstimatedEta and DelayHours are filled by the ETA stage.
type PlanEntry struct {
	PackageID    kernel.ID
	NewTruckID   kernel.ID
	Distance     float64
	Timestamp    time.Time
	EstimatedEta time.Time
	DelayHours   float64
}

// Context is the mutable state shared by the pipeline stages and returned to
// the caller as the run's result. A run that ends in StatusError carries an
// explanatory Message and an empty plan.
type Context struct {
	FailedTruckID    kernel.ID
	AffectedPackages []kernel.ID
	// Candidates maps package id to its ranked alternative trucks. Packages
	// with no viable candidate are absent and stay unrouted.
	Candidates map[string][]queryengine.TruckDistance
	Plan       []PlanEntry
	Status     Status
	Message    string

	failedTruck *truck.Truck
}

// HistoryRecord is one completed pipeline run.
type HistoryRecord struct {
	Timestamp        time.Time
	FailedTruckID    kernel.ID
	PackagesRerouted int
	Plan             []PlanEntry
}

// Statistics aggregates the rerouting history.
type Statistics struct {
	TotalOperations             int
	TotalPackagesRerouted       int
	AveragePackagesPerOperation float64
}

// Pipeline runs the six-stage recovery state machine. Runs for the same
// failed truck are serialized through a lock keyed by truck id, so two
// concurrent recoveries can never claim the same package.
type Pipeline struct {
	store         ports.Store
	queries       *queryengine.Engine
	truckSpeedKmh float64
	logger        *slog.Logger

	locksMu    sync.Mutex
	truckLocks map[string]*sync.Mutex

	historyMu sync.Mutex
	history   []HistoryRecord
}

// NewPipeline creates a recovery pipeline. truckSpeedKmh is the assumed
// average speed used for ETA recalculation and must be positive.
func NewPipeline(
	store ports.Store,
	queries *queryengine.Engine,
	truckSpeedKmh float64,
	logger *slog.Logger,
) (*Pipeline, error) {
	if store == nil {
		return nil, errs.NewValueIsRequiredError("store")
	}
	if queries == nil {
		return nil, errs.NewValueIsRequiredError("queries")
	}
	if truckSpeedKmh <= 0 {
		return nil, errs.NewValueIsRequiredError("truckSpeedKmh")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Pipeline{
		store:         store,
		queries:       queries,
		truckSpeedKmh: truckSpeedKmh,
		logger:        logger,
		truckLocks:    make(map[string]*sync.Mutex),
	}, nil
}

// HandleTruckFailure runs the full recovery for a failed truck and returns
// the final pipeline context. Store failures never escape as panics or bare
// errors; they terminate the run with StatusError and a message, leaving the
// graph in whatever consistent state the last atomic operation produced.
func (p *Pipeline) HandleTruckFailure(ctx context.Context, truckID kernel.ID) Context {
	lock := p.lockFor(truckID)
	lock.Lock()
	defer lock.Unlock()

	rc := &Context{
		FailedTruckID:    truckID,
		AffectedPackages: []kernel.ID{},
		Candidates:       make(map[string][]queryengine.TruckDistance),
		Plan:             []PlanEntry{},
		Status:           StatusInitialized,
	}

	p.logger.Info("rerouting started", "truck_id", truckID.String())

	p.detectFailure(ctx, rc)
	if rc.Status == StatusError {
		p.logger.Warn("rerouting aborted", "truck_id", truckID.String(), "message", rc.Message)
		return *rc
	}

	p.assessImpact(ctx, rc)
	if rc.Status == StatusError {
		p.logger.Warn("rerouting aborted", "truck_id", truckID.String(), "message", rc.Message)
		return *rc
	}

	// An empty affected set skips straight to completion; there is nothing
	// to find, transfer or estimate.
	if rc.Status != StatusNoPackages {
		for _, stage := range []func(context.Context, *Context){
			p.findAlternatives,
			p.executeRerouting,
			p.calculateEta,
		} {
			stage(ctx, rc)
			if rc.Status == StatusError {
				p.logger.Warn("rerouting aborted", "truck_id", truckID.String(), "message", rc.Message)
				return *rc
			}
		}
	}

	p.complete(rc)
	p.logger.Info("rerouting completed",
		"truck_id", truckID.String(),
		"packages_rerouted", len(rc.Plan),
	)
	return *rc
}

// History returns a copy of all completed runs, oldest first.
func (p *Pipeline) History() []HistoryRecord {
	p.historyMu.Lock()
	defer p.historyMu.Unlock()

	result := make([]HistoryRecord, len(p.history))
	copy(result, p.history)
	return result
}

// ReroutingStatistics aggregates the run history. The average is 0 when no
// run has completed yet.
func (p *Pipeline) ReroutingStatistics() Statistics {
	p.historyMu.Lock()
	defer p.historyMu.Unlock()

	stats := Statistics{TotalOperations: len(p.history)}
	for _, record := range p.history {
		stats.TotalPackagesRerouted += record.PackagesRerouted
	}
	if stats.TotalOperations > 0 {
		stats.AveragePackagesPerOperation =
			float64(stats.TotalPackagesRerouted) / float64(stats.TotalOperations)
	}
	return stats
}

// detectFailure loads the truck and confirms it is actually failed. Anything
// else terminates the run: recovering a healthy truck would strip its cargo.
func (p *Pipeline) detectFailure(ctx context.Context, rc *Context) {
	t, err := p.store.GetTruck(ctx, rc.FailedTruckID)
	if err != nil || t.Status() != truck.StatusFailed {
		rc.Status = StatusError
		rc.Message = fmt.Sprintf("truck %s not found or not in failed state", rc.FailedTruckID)
		return
	}

	rc.failedTruck = t
	rc.Status = StatusFailureDetected
	rc.Message = fmt.Sprintf("truck %s failure confirmed", rc.FailedTruckID)
}

// assessImpact loads the affected package set via the impact traversal.
func (p *Pipeline) assessImpact(ctx context.Context, rc *Context) {
	report, err := p.queries.ImpactAnalysis(ctx, rc.FailedTruckID)
	if err != nil {
		rc.Status = StatusError
		rc.Message = fmt.Sprintf("impact assessment failed: %v", err)
		return
	}

	rc.AffectedPackages = report.AffectedPackageIDs
	if len(rc.AffectedPackages) == 0 {
		rc.Status = StatusNoPackages
		rc.Message = "no packages to reroute"
		return
	}

	rc.Status = StatusImpactAssessed
	rc.Message = fmt.Sprintf("found %d affected packages", len(rc.AffectedPackages))
}

// findAlternatives queries candidate trucks for every affected package,
// searching from the failed truck's position and heading. Packages with zero
// candidates are left unrouted; they are not retried later.
func (p *Pipeline) findAlternatives(ctx context.Context, rc *Context) {
	carried, err := p.store.TruckPackages(ctx, rc.FailedTruckID)
	if err != nil {
		rc.Status = StatusError
		rc.Message = fmt.Sprintf("loading affected packages failed: %v", err)
		return
	}

	origin := rc.failedTruck.Location()
	direction := rc.failedTruck.Direction()

	for _, pkg := range carried {
		candidates, err := p.queries.FindNearestAvailableTrucks(
			ctx, origin, pkg.Weight(), direction, candidateLimit)
		if err != nil {
			rc.Status = StatusError
			rc.Message = fmt.Sprintf("candidate search failed for package %s: %v", pkg.ID(), err)
			return
		}
		if len(candidates) == 0 {
			continue
		}

		rc.Candidates[pkg.ID().String()] = candidates
	}

	rc.Status = StatusAlternativesFound
	rc.Message = fmt.Sprintf("found alternative trucks for %d packages", len(rc.Candidates))
}

// executeRerouting transfers each routable package to its single nearest
// candidate. There is no fallback to the second-best candidate: the recovery
// decision stays single-shot and auditable. A transfer lost to a concurrent
// capacity race is skipped; the package stays unrouted.
func (p *Pipeline) executeRerouting(ctx context.Context, rc *Context) {
	for _, packageID := range rc.AffectedPackages {
		candidates, ok := rc.Candidates[packageID.String()]
		if !ok {
			continue
		}

		best := candidates[0]
		err := p.store.TransferPackage(ctx, packageID, rc.FailedTruckID, best.Truck.ID())
		if err != nil {
			p.logger.Warn("transfer skipped",
				"package_id", packageID.String(),
				"to_truck_id", best.Truck.ID().String(),
				"reason", err.Error(),
			)
			continue
		}

		rc.Plan = append(rc.Plan, PlanEntry{
			PackageID:  packageID,
			NewTruckID: best.Truck.ID(),
			Distance:   best.Distance,
			Timestamp:  time.Now(),
		})
	}

	rc.Status = StatusReroutingExecuted
	rc.Message = fmt.Sprintf("successfully rerouted %d packages", len(rc.Plan))
}

// calculateEta estimates delivery times for the executed plan using the fixed
// degree-to-km approximation and the configured average truck speed.
func (p *Pipeline) calculateEta(_ context.Context, rc *Context) {
	now := time.Now()
	for i := range rc.Plan {
		distanceKm := rc.Plan[i].Distance * degreesToKm
		hours := distanceKm / p.truckSpeedKmh

		rc.Plan[i].DelayHours = hours
		rc.Plan[i].EstimatedEta = now.Add(time.Duration(hours * float64(time.Hour)))
	}

	rc.Status = StatusEtaCalculated
	rc.Message = "ETAs recalculated for all packages"
}

// complete finalizes the run and appends it to the history.
func (p *Pipeline) complete(rc *Context) {
	rc.Status = StatusCompleted

	p.historyMu.Lock()
	defer p.historyMu.Unlock()
	p.history = append(p.history, HistoryRecord{
		Timestamp:        time.Now(),
		FailedTruckID:    rc.FailedTruckID,
		PackagesRerouted: len(rc.Plan),
		Plan:             rc.Plan,
	})
}

// lockFor returns the serialization lock for a truck id, creating it on
// first use. Locks are never removed; the fleet is small and bounded.
func (p *Pipeline) lockFor(truckID kernel.ID) *sync.Mutex {
	p.locksMu.Lock()
	defer p.locksMu.Unlock()

	lock, ok := p.truckLocks[truckID.String()]
	if !ok {
		lock = &sync.Mutex{}
		p.truckLocks[truckID.String()] = lock
	}
	return lock
}
