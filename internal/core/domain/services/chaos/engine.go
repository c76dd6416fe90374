// Package chaos implements the disruption engine: injection of truck failures
// and route blockages into the entity graph, an append-only event log, and
// statistics over it. The random source is injected so simulations are
// reproducible under a fixed seed.
package chaos

import (
	"context"
	"errors"
	"fmt"
	rand "math/rand/v2"
	"sync"

	"lattice/internal/core/domain/model/disruption"
	"lattice/internal/core/domain/model/kernel"
	"lattice/internal/core/domain/model/truck"
	"lattice/internal/core/ports"
	"lattice/internal/pkg/errs"
)

// ErrNoActiveTrucks is returned when a random truck failure is requested but
// no truck is currently active.
var ErrNoActiveTrucks = errors.New("no active trucks available for failure injection")

// Failure and blockage catalogs. Descriptions are presentation text only; the
// graph mutation is the status flip.
var (
	truckFailureKinds = []string{
		"Engine Failure",
		"Tire Blowout",
		"Transmission Problem",
		"Electrical System Failure",
		"Brake Malfunction",
		"Fuel System Issue",
		"Overheating",
	}

	routeIssueKinds = []string{
		"Road Flooded",
		"Bridge Closed",
		"Traffic Accident",
		"Road Construction",
		"Severe Weather",
		"Road Collapse",
	}

	// Severity pools differ per event type: a truck failure always takes a
	// vehicle out of service, a blockage may be a mild slowdown.
	truckFailureSeverities = []disruption.Severity{
		disruption.SeverityMedium,
		disruption.SeverityHigh,
		disruption.SeverityCritical,
	}

	routeBlockageSeverities = []disruption.Severity{
		disruption.SeverityLow,
		disruption.SeverityMedium,
		disruption.SeverityHigh,
	}
)

// Statistics summarizes the full event log.
type Statistics struct {
	TotalEvents    int
	ActiveEvents   int
	ResolvedEvents int
	ByType         map[disruption.EventType]int
	BySeverity     map[disruption.Severity]int
}

// Engine injects disruptions and tracks them in an append-only log plus an
// active (unresolved) subset. All log mutations run under one mutex, so
// concurrent injections and resolutions never race on membership.
type Engine struct {
	store ports.Store
	rng   *rand.Rand

	mu        sync.Mutex
	eventsLog []*disruption.Event
	active    map[string]*disruption.Event
}

// NewEngine creates a disruption engine over the given store. rng drives
// every random choice (truck selection, failure kind, severity); pass a
// seeded source for deterministic tests.
func NewEngine(store ports.Store, rng *rand.Rand) (*Engine, error) {
	if store == nil {
		return nil, errs.NewValueIsRequiredError("store")
	}
	if rng == nil {
		return nil, errs.NewValueIsRequiredError("rng")
	}

	return &Engine{
		store:  store,
		rng:    rng,
		active: make(map[string]*disruption.Event),
	}, nil
}

// InjectTruckFailure takes a truck out of service and logs the event.
//
// With an empty truckID a uniformly random active truck is chosen; if none
// exists the injection fails with ErrNoActiveTrucks. A named truck must
// currently be active, otherwise the injection fails with
// truck.ErrTruckNotActive and no event is appended, so repeated injections on
// the same truck never double-count.
func (e *Engine) InjectTruckFailure(ctx context.Context, truckID kernel.ID) (*disruption.Event, error) {
	target, err := e.pickTarget(ctx, truckID)
	if err != nil {
		return nil, err
	}

	if err := e.store.SetTruckStatus(ctx, target, truck.StatusFailed); err != nil {
		return nil, err
	}

	kind := truckFailureKinds[e.rng.IntN(len(truckFailureKinds))]
	severity := truckFailureSeverities[e.rng.IntN(len(truckFailureSeverities))]

	event, err := disruption.NewEvent(
		disruption.EventTruckFailure,
		target,
		severity,
		fmt.Sprintf("Truck %s: %s", target, kind),
	)
	if err != nil {
		return nil, err
	}

	e.append(event)
	return event, nil
}

// InjectRouteBlockage logs a route_blocked event. Blockages are advisory: the
// point id is not validated against the route-point set and nothing in the
// graph changes. An empty pointID generates a synthetic ROUTE-n id.
func (e *Engine) InjectRouteBlockage(_ context.Context, pointID kernel.ID) (*disruption.Event, error) {
	target := pointID
	if target.String() == "" {
		synthetic, err := kernel.NewID(fmt.Sprintf("ROUTE-%d", 1+e.rng.IntN(100)))
		if err != nil {
			return nil, err
		}
		target = synthetic
	}

	kind := routeIssueKinds[e.rng.IntN(len(routeIssueKinds))]
	severity := routeBlockageSeverities[e.rng.IntN(len(routeBlockageSeverities))]

	event, err := disruption.NewEvent(
		disruption.EventRouteBlocked,
		target,
		severity,
		fmt.Sprintf("Route %s: %s", target, kind),
	)
	if err != nil {
		return nil, err
	}

	e.append(event)
	return event, nil
}

// InjectRandomChaos rolls the dice: with the given probability it performs one
// of the two injections (uniform choice of type), otherwise it does nothing
// and returns (nil, nil).
func (e *Engine) InjectRandomChaos(ctx context.Context, probability float64) (*disruption.Event, error) {
	if probability < 0 || probability > 1 {
		return nil, errs.NewValueIsOutOfRangeError("probability", probability, 0.0, 1.0)
	}

	if e.rng.Float64() >= probability {
		return nil, nil
	}

	if e.rng.IntN(2) == 0 {
		return e.InjectTruckFailure(ctx, kernel.ID{})
	}
	return e.InjectRouteBlockage(ctx, kernel.ID{})
}

// ResolveEvent flips an event to resolved and drops it from the active set.
// Resolving an already-resolved event is a no-op, never an error.
func (e *Engine) ResolveEvent(event *disruption.Event) error {
	if err := event.Validate(); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	event.MarkResolved()
	if tracked, ok := e.active[event.ID()]; ok {
		tracked.MarkResolved()
		delete(e.active, event.ID())
	}
	return nil
}

// ActiveEvents returns the currently unresolved events, ordered by injection.
func (e *Engine) ActiveEvents() []*disruption.Event {
	e.mu.Lock()
	defer e.mu.Unlock()

	result := make([]*disruption.Event, 0, len(e.active))
	for _, event := range e.eventsLog {
		if _, ok := e.active[event.ID()]; ok {
			result = append(result, event)
		}
	}
	return result
}

// EventsByType returns all logged events of the given type, oldest first.
func (e *Engine) EventsByType(eventType disruption.EventType) []*disruption.Event {
	e.mu.Lock()
	defer e.mu.Unlock()

	result := make([]*disruption.Event, 0)
	for _, event := range e.eventsLog {
		if event.Type() == eventType {
			result = append(result, event)
		}
	}
	return result
}

// EventStatistics computes totals and per-type / per-severity breakdowns over
// the full log.
func (e *Engine) EventStatistics() Statistics {
	e.mu.Lock()
	defer e.mu.Unlock()

	stats := Statistics{
		TotalEvents:    len(e.eventsLog),
		ActiveEvents:   len(e.active),
		ResolvedEvents: len(e.eventsLog) - len(e.active),
		ByType:         make(map[disruption.EventType]int),
		BySeverity:     make(map[disruption.Severity]int),
	}

	for _, event := range e.eventsLog {
		stats.ByType[event.Type()]++
		stats.BySeverity[event.Severity()]++
	}
	return stats
}

// pickTarget resolves the truck to fail: the named one when given (and
// active), or a random active truck.
func (e *Engine) pickTarget(ctx context.Context, truckID kernel.ID) (kernel.ID, error) {
	if truckID.String() != "" {
		t, err := e.store.GetTruck(ctx, truckID)
		if err != nil {
			return kernel.ID{}, err
		}
		if t.Status() != truck.StatusActive {
			return kernel.ID{}, fmt.Errorf("%w: cannot fail truck %s in status %s",
				truck.ErrTruckNotActive, truckID, t.Status())
		}
		return truckID, nil
	}

	active, err := e.store.ListTrucks(ctx, ports.TruckFilter{Status: truck.StatusActive})
	if err != nil {
		return kernel.ID{}, err
	}
	if len(active) == 0 {
		return kernel.ID{}, ErrNoActiveTrucks
	}
	return active[e.rng.IntN(len(active))].ID(), nil
}

// append adds an event to the log and active set.
func (e *Engine) append(event *disruption.Event) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.eventsLog = append(e.eventsLog, event)
	e.active[event.ID()] = event
}
