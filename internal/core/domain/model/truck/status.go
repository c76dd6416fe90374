package truck

import (
	"fmt"

	"lattice/internal/pkg/errs"
)

// Status represents the operational state of a truck.
//
// State transitions:
//
//	Active ──> Failed       (chaos injection)
//	Active ──> Maintenance  (operator action only)
//
// No transition back to Active is defined; recovery of a failed truck is
// outside the core's lifecycle.
type Status int

const (
	// StatusUnknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	StatusUnknown Status = iota

	// StatusActive marks a truck available for carrying and rerouting.
	StatusActive

	// StatusFailed marks a truck taken out of service by a disruption.
	StatusFailed

	// StatusMaintenance marks a truck withdrawn by an operator.
	StatusMaintenance
)

// getStatusStrings returns string representations for all statuses,
// including the invalid ones, for display purposes.
func getStatusStrings() map[Status]string {
	return map[Status]string{
		StatusUnknown:     "unknown",
		StatusActive:      "active",
		StatusFailed:      "failed",
		StatusMaintenance: "maintenance",
	}
}

// getValidStatusStrings returns only the statuses a persisted truck may hold.
func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // StatusUnknown is intentionally excluded as invalid
	return map[Status]string{
		StatusActive:      "active",
		StatusFailed:      "failed",
		StatusMaintenance: "maintenance",
	}
}

// StatusFromString parses the persisted string form of a status.
// Returns a validation error for unrecognized values.
func StatusFromString(s string) (Status, error) {
	for status, str := range getValidStatusStrings() {
		if str == s {
			return status, nil
		}
	}
	return StatusUnknown, errs.NewValueIsInvalidErrorWithCause(
		"status", fmt.Errorf("%q is not a valid truck status", s))
}

// Validate checks that the Status holds one of the defined values.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause(
			"status", fmt.Errorf("%d is not a valid truck status", s))
	}
	return nil
}

// String returns the lowercase persisted form of the status.
// Implements fmt.Stringer and is safe on any value.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}
