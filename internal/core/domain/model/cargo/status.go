package cargo

import (
	"fmt"

	"lattice/internal/pkg/errs"
)

// Status represents the delivery lifecycle of a package.
//
// State transitions:
//
//	Pending ──> InTransit ──> Delivered
//
// A package becomes InTransit on its first assignment to a truck and keeps
// that status across truck-to-truck transfers.
type Status int

const (
	// StatusUnknown represents an invalid or undefined status.
	StatusUnknown Status = iota

	// StatusPending marks a package not yet assigned to any truck.
	StatusPending

	// StatusInTransit marks a package currently carried by a truck.
	StatusInTransit

	// StatusDelivered marks a package that reached its customer.
	StatusDelivered
)

func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // StatusUnknown is intentionally excluded as invalid
	return map[Status]string{
		StatusPending:   "pending",
		StatusInTransit: "in_transit",
		StatusDelivered: "delivered",
	}
}

// StatusFromString parses the persisted string form of a status.
func StatusFromString(s string) (Status, error) {
	for status, str := range getValidStatusStrings() {
		if str == s {
			return status, nil
		}
	}
	return StatusUnknown, errs.NewValueIsInvalidErrorWithCause(
		"status", fmt.Errorf("%q is not a valid package status", s))
}

// Validate checks that the Status holds one of the defined values.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause(
			"status", fmt.Errorf("%d is not a valid package status", s))
	}
	return nil
}

// String returns the lowercase persisted form of the status.
func (s Status) String() string {
	if str, ok := getValidStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}
