/*
store.go - Persistence contracts for schedules and employees

PURPOSE:
  Defines the interfaces between roster generation and the database.
  Implementations: store/sqlite (production), store/memory (tests).

REPLACE-ON-CONFLICT CONTRACT:
  Upsert is keyed by (EmployeeID, Year, Month) and must be atomic with
  respect to that key: concurrent regenerations of the same month never
  produce duplicate rows, and the later write wins. A Schedule is either
  Absent or Present; there is no partial state. CreatedAt survives a
  replace, UpdatedAt is stamped on every write.
*/
package roster

import (
	"context"
	"time"
)

// ScheduleStore persists one Schedule per (employee, year, month).
type ScheduleStore interface {
	// Upsert creates the Schedule or replaces the existing row for the
	// same key. Returns the stored value with timestamps filled in.
	Upsert(ctx context.Context, s Schedule) (Schedule, error)

	// GetByMonth returns all Schedules of a month, ordered by employee id.
	GetByMonth(ctx context.Context, year int, month time.Month) ([]Schedule, error)

	// GetByEmployeeMonth returns one Schedule or ErrNotFound.
	GetByEmployeeMonth(ctx context.Context, employeeID string, year int, month time.Month) (Schedule, error)
}

// EmployeeDirectory supplies the employee profiles generation runs over.
// The records themselves are owned by the surrounding CRUD service.
type EmployeeDirectory interface {
	// ListActive returns all employees eligible for generation.
	ListActive(ctx context.Context) ([]EmployeeProfile, error)

	// GetEmployee returns one profile or ErrNotFound.
	GetEmployee(ctx context.Context, id string) (EmployeeProfile, error)
}
