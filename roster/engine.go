/*
engine.go - Batch roster generation

PURPOSE:
  Runs Build + Upsert across every active employee for one month. Each
  employee's computation is independent, so builds run on a bounded pool
  of workers; the only shared mutable state is the store, whose Upsert
  serializes per key.

FAILURE MODEL:
  - Missing calendar month: synthesized on the fly via calendar.Ensure;
    if that fails, the whole batch aborts (nothing to classify against).
  - Invalid employee or invalid calendar: that employee's Build fails and
    lands in the Failed list, the rest of the batch continues. The
    calendar is shared, so a broken stored month surfaces on every
    employee; nothing is written for any of them.
  - Store conflict: unexpected invariant breach, aborts the batch.

IDEMPOTENCE:
  Identical inputs produce identical Schedules and Upsert replaces in
  place, so re-running after a partial failure is always safe.
*/
package roster

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/farepass/roster-engine/calendar"
)

const defaultWorkers = 4

// BatchResult is the partial-success outcome of one generation run.
type BatchResult struct {
	Succeeded []Schedule        `json:"succeeded"`
	Failed    []EmployeeFailure `json:"failed"`
}

// Generator orchestrates batch generation for a month.
type Generator struct {
	Schedules ScheduleStore
	Employees EmployeeDirectory
	Calendars calendar.Store

	// Workers bounds the per-employee build pool. Zero means default.
	Workers int

	Log zerolog.Logger
}

// GenerateSchedules regenerates Schedules for all active employees for
// (year, month). The calendar month is created when absent. Per-employee
// failures are collected in the result; the returned error is non-nil only
// for batch-fatal conditions (no calendar, store conflict).
func (g *Generator) GenerateSchedules(ctx context.Context, year int, month time.Month) (BatchResult, error) {
	cal, err := calendar.Ensure(ctx, g.Calendars, year, month)
	if err != nil {
		return BatchResult{}, err
	}

	employees, err := g.Employees.ListActive(ctx)
	if err != nil {
		return BatchResult{}, err
	}

	workers := g.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}

	var (
		mu     sync.Mutex
		result BatchResult
		fatal  error
	)
	jobs := make(chan EmployeeProfile)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for e := range jobs {
				s, err := g.generateOne(ctx, e, cal)

				mu.Lock()
				switch {
				case err == nil:
					result.Succeeded = append(result.Succeeded, s)
				case errors.Is(err, ErrStoreConflict):
					// Persistence invariant breach: surface, don't retry.
					if fatal == nil {
						fatal = err
					}
				default:
					result.Failed = append(result.Failed, EmployeeFailure{
						EmployeeID: e.ID,
						Reason:     err.Error(),
						Err:        err,
					})
				}
				mu.Unlock()
			}
		}()
	}

	for _, e := range employees {
		jobs <- e
	}
	close(jobs)
	wg.Wait()

	if fatal != nil {
		return result, fatal
	}

	// Workers finish in arbitrary order; keep output deterministic.
	sort.Slice(result.Succeeded, func(i, j int) bool {
		return result.Succeeded[i].EmployeeID < result.Succeeded[j].EmployeeID
	})
	sort.Slice(result.Failed, func(i, j int) bool {
		return result.Failed[i].EmployeeID < result.Failed[j].EmployeeID
	})

	g.Log.Info().
		Int("year", year).
		Int("month", int(month)).
		Int("succeeded", len(result.Succeeded)).
		Int("failed", len(result.Failed)).
		Msg("roster generation finished")

	return result, nil
}

func (g *Generator) generateOne(ctx context.Context, e EmployeeProfile, cal calendar.Month) (Schedule, error) {
	s, err := Build(e, cal)
	if err != nil {
		return Schedule{}, err
	}
	return g.Schedules.Upsert(ctx, s)
}

// GetSchedules is a read-only fetch of a month's Schedules, optionally
// filtered to one org unit (exact match). Empty orgUnit means no filter.
func (g *Generator) GetSchedules(ctx context.Context, year int, month time.Month, orgUnit string) ([]Schedule, error) {
	schedules, err := g.Schedules.GetByMonth(ctx, year, month)
	if err != nil {
		return nil, err
	}
	if orgUnit == "" {
		return schedules, nil
	}
	filtered := make([]Schedule, 0, len(schedules))
	for _, s := range schedules {
		if s.OrgUnit == orgUnit {
			filtered = append(filtered, s)
		}
	}
	return filtered, nil
}
