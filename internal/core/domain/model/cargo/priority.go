package cargo

import (
	"fmt"

	"lattice/internal/pkg/errs"
)

// Priority ranks a package's delivery urgency.
type Priority int

const (
	// PriorityUnknown represents an invalid or undefined priority.
	PriorityUnknown Priority = iota

	// PriorityNormal is the default priority.
	PriorityNormal

	// PriorityHigh marks packages with tightened delivery windows.
	PriorityHigh

	// PriorityUrgent marks packages with the tightest delivery windows.
	PriorityUrgent
)

func getValidPriorityStrings() map[Priority]string {
	//nolint:exhaustive // PriorityUnknown is intentionally excluded as invalid
	return map[Priority]string{
		PriorityNormal: "normal",
		PriorityHigh:   "high",
		PriorityUrgent: "urgent",
	}
}

// PriorityFromString parses the persisted string form of a priority.
func PriorityFromString(s string) (Priority, error) {
	for priority, str := range getValidPriorityStrings() {
		if str == s {
			return priority, nil
		}
	}
	return PriorityUnknown, errs.NewValueIsInvalidErrorWithCause(
		"priority", fmt.Errorf("%q is not a valid package priority", s))
}

// Validate checks that the Priority holds one of the defined values.
func (p Priority) Validate() error {
	if _, ok := getValidPriorityStrings()[p]; !ok {
		return errs.NewValueIsInvalidErrorWithCause(
			"priority", fmt.Errorf("%d is not a valid package priority", p))
	}
	return nil
}

// String returns the lowercase persisted form of the priority.
func (p Priority) String() string {
	if str, ok := getValidPriorityStrings()[p]; ok {
		return str
	}
	return "unknown"
}
