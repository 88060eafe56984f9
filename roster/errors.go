package roster

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidEmployee is returned when an employee's rule fields cannot
	// support generation (negative fare, unknown rotation values).
	ErrInvalidEmployee = errors.New("invalid employee profile")

	// ErrNotFound is returned when a queried Schedule does not exist.
	ErrNotFound = errors.New("schedule not found")

	// ErrStoreConflict is returned when the store's uniqueness key is
	// violated despite upsert semantics. This signals a persistence-layer
	// bug; callers surface it rather than retry.
	ErrStoreConflict = errors.New("schedule store conflict")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// InvalidEmployeeError reports why a profile was rejected.
type InvalidEmployeeError struct {
	EmployeeID string
	Reason     string
}

func (e *InvalidEmployeeError) Error() string {
	return fmt.Sprintf("invalid employee %s: %s", e.EmployeeID, e.Reason)
}

func (e *InvalidEmployeeError) Unwrap() error { return ErrInvalidEmployee }

// EmployeeFailure records one employee that failed inside a batch run.
// A failed employee never aborts the batch; see Generator.GenerateSchedules.
type EmployeeFailure struct {
	EmployeeID string `json:"employee_id"`
	Reason     string `json:"reason"`
	Err        error  `json:"-"`
}

func (f EmployeeFailure) Error() string {
	return fmt.Sprintf("employee %s: %s", f.EmployeeID, f.Reason)
}

func (f EmployeeFailure) Unwrap() error { return f.Err }
