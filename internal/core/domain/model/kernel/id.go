package kernel

import (
	"strings"

	"lattice/internal/pkg/errs"
)

// ID is an opaque entity identifier. The network uses human-assigned ids such
// as "TRUCK-001" or "CUST-005"; the domain treats them as unique opaque
// strings and imposes no format beyond being non-blank.
//
// The zero value is invalid; use NewID.
type ID struct {
	value string
}

// NewID creates an ID from its string form. Blank (empty or whitespace-only)
// ids are rejected with a value-is-required error.
func NewID(value string) (ID, error) {
	if strings.TrimSpace(value) == "" {
		return ID{}, errs.NewValueIsRequiredError("id")
	}
	return ID{value: value}, nil
}

// String returns the identifier's string form.
func (id ID) String() string {
	return id.value
}

// IsEqual reports whether two ids refer to the same entity.
func (id ID) IsEqual(other ID) bool {
	return id.value == other.value
}

// Validate checks that the ID was built through NewID.
func (id ID) Validate() error {
	if id.value == "" {
		return errs.NewValueIsRequiredError("id")
	}
	return nil
}
