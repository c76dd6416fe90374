package disruption

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"lattice/internal/core/domain/model/kernel"
	"lattice/internal/pkg/errs"
	"lattice/internal/pkg/guard"
)

// ErrEventIsNotConstructed is returned when using an improperly initialized Event.
var ErrEventIsNotConstructed = errors.New("Event must be created via NewEvent constructor")

// EventType classifies a disruption.
type EventType string

const (
	// EventTruckFailure marks a truck taken out of service.
	EventTruckFailure EventType = "truck_failure"
	// EventRouteBlocked marks a blocked route point. Route blockages are
	// advisory: they are logged but do not mutate the entity graph.
	EventRouteBlocked EventType = "route_blocked"
)

// Validate checks that the EventType holds one of the defined values.
func (t EventType) Validate() error {
	switch t {
	case EventTruckFailure, EventRouteBlocked:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause(
			"eventType", fmt.Errorf("%q is not a valid event type", string(t)))
	}
}

// Severity ranks how disruptive an event is.
type Severity string

const (
	// SeverityLow marks minor disruptions.
	SeverityLow Severity = "low"
	// SeverityMedium marks disruptions with noticeable delivery impact.
	SeverityMedium Severity = "medium"
	// SeverityHigh marks disruptions with broad delivery impact.
	SeverityHigh Severity = "high"
	// SeverityCritical marks disruptions demanding immediate recovery.
	SeverityCritical Severity = "critical"
)

// Validate checks that the Severity holds one of the defined values.
func (s Severity) Validate() error {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause(
			"severity", fmt.Errorf("%q is not a valid severity", string(s)))
	}
}

// Event is a single injected disruption. The id is generated at creation;
// EntityID names the affected truck or route point. Resolved starts false and
// flips to true at most once.
type Event struct {
	id          string
	eventType   EventType
	entityID    kernel.ID
	severity    Severity
	description string
	timestamp   time.Time
	resolved    bool
	guard       guard.ConstructorGuard
}

// NewEvent creates an unresolved event with a generated id and the current
// timestamp.
func NewEvent(eventType EventType, entityID kernel.ID, severity Severity, description string) (*Event, error) {
	if err := errors.Join(
		eventType.Validate(),
		entityID.Validate(),
		severity.Validate(),
	); err != nil {
		return nil, err
	}
	if description == "" {
		return nil, errs.NewValueIsRequiredError("description")
	}

	return &Event{
		id:          uuid.NewString(),
		eventType:   eventType,
		entityID:    entityID,
		severity:    severity,
		description: description,
		timestamp:   time.Now(),
		guard:       guard.NewConstructorGuard(),
	}, nil
}

// Validate checks that the Event was built through NewEvent.
func (e *Event) Validate() error {
	if e == nil {
		return ErrEventIsNotConstructed
	}
	return e.guard.Validate(ErrEventIsNotConstructed)
}

// ID returns the generated event identifier.
func (e *Event) ID() string { return e.id }

// Type returns the event classification.
func (e *Event) Type() EventType { return e.eventType }

// EntityID returns the id of the affected truck or route point.
func (e *Event) EntityID() kernel.ID { return e.entityID }

// Severity returns the event's severity rank.
func (e *Event) Severity() Severity { return e.severity }

// Description returns the human-readable event description.
func (e *Event) Description() string { return e.description }

// Timestamp returns the injection time.
func (e *Event) Timestamp() time.Time { return e.timestamp }

// Resolved reports whether the event has been resolved.
func (e *Event) Resolved() bool { return e.resolved }

// MarkResolved performs the one-way active -> resolved transition. Calling it
// on an already-resolved event is a no-op.
func (e *Event) MarkResolved() {
	e.resolved = true
}

// String renders the event the way the dashboard log displays it.
func (e *Event) String() string {
	state := "ACTIVE"
	if e.resolved {
		state = "RESOLVED"
	}
	return fmt.Sprintf("[%s] %s - %s: %s",
		state, e.timestamp.Format("15:04:05"), strings.ToUpper(string(e.severity)), e.description)
}
