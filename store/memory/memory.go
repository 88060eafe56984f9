// Package memory provides in-memory store implementations (for testing/dev).
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/farepass/roster-engine/calendar"
	"github.com/farepass/roster-engine/roster"
)

// =============================================================================
// MEMORY STORE - Implements roster.ScheduleStore, roster.EmployeeDirectory
// and calendar.Store behind one mutex
// =============================================================================

type Store struct {
	mu        sync.RWMutex
	schedules map[scheduleKey]roster.Schedule
	employees map[string]roster.EmployeeProfile
	calendars map[monthKey]calendar.Month

	// Now is swappable so tests can pin timestamps.
	Now func() time.Time
}

type scheduleKey struct {
	EmployeeID string
	Year       int
	Month      time.Month
}

type monthKey struct {
	Year  int
	Month time.Month
}

func New() *Store {
	return &Store{
		schedules: make(map[scheduleKey]roster.Schedule),
		employees: make(map[string]roster.EmployeeProfile),
		calendars: make(map[monthKey]calendar.Month),
		Now:       time.Now,
	}
}

// =============================================================================
// SCHEDULES
// =============================================================================

// Upsert replaces any existing row for the same (employee, year, month).
// CreatedAt is preserved across replacements, UpdatedAt always restamped.
func (s *Store) Upsert(_ context.Context, sched roster.Schedule) (roster.Schedule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := scheduleKey{EmployeeID: sched.EmployeeID, Year: sched.Year, Month: sched.Month}
	now := s.Now().UTC()
	if existing, ok := s.schedules[k]; ok {
		sched.CreatedAt = existing.CreatedAt
	} else {
		sched.CreatedAt = now
	}
	sched.UpdatedAt = now
	s.schedules[k] = sched
	return sched, nil
}

func (s *Store) GetByMonth(_ context.Context, year int, month time.Month) ([]roster.Schedule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []roster.Schedule
	for k, sched := range s.schedules {
		if k.Year == year && k.Month == month {
			result = append(result, sched)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].EmployeeID < result[j].EmployeeID })
	return result, nil
}

func (s *Store) GetByEmployeeMonth(_ context.Context, employeeID string, year int, month time.Month) (roster.Schedule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sched, ok := s.schedules[scheduleKey{EmployeeID: employeeID, Year: year, Month: month}]
	if !ok {
		return roster.Schedule{}, roster.ErrNotFound
	}
	return sched, nil
}

// =============================================================================
// EMPLOYEES
// =============================================================================

func (s *Store) SaveEmployee(_ context.Context, e roster.EmployeeProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.employees[e.ID] = e
	return nil
}

func (s *Store) GetEmployee(_ context.Context, id string) (roster.EmployeeProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.employees[id]
	if !ok {
		return roster.EmployeeProfile{}, roster.ErrNotFound
	}
	return e, nil
}

func (s *Store) ListEmployees(_ context.Context) ([]roster.EmployeeProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]roster.EmployeeProfile, 0, len(s.employees))
	for _, e := range s.employees {
		result = append(result, e)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (s *Store) ListActive(ctx context.Context) ([]roster.EmployeeProfile, error) {
	all, err := s.ListEmployees(ctx)
	if err != nil {
		return nil, err
	}
	active := make([]roster.EmployeeProfile, 0, len(all))
	for _, e := range all {
		if e.Active {
			active = append(active, e)
		}
	}
	return active, nil
}

// =============================================================================
// CALENDARS
// =============================================================================

func (s *Store) GetMonth(_ context.Context, year int, month time.Month) (calendar.Month, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.calendars[monthKey{Year: year, Month: month}]
	if !ok {
		return calendar.Month{}, calendar.ErrNotFound
	}
	return m, nil
}

func (s *Store) SaveMonth(_ context.Context, m calendar.Month) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calendars[monthKey{Year: m.Year, Month: m.Month}] = m
	return nil
}
