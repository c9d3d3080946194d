// Package timer provides the one-shot deadline scheduler consumed by the
// project lifecycle engine.
package timer

import (
	"context"
	"log"
	"time"

	domain "github.com/atelier-studio/atelier-go/internal/domain/timer"
	"github.com/atelier-studio/atelier-go/internal/repository"
)

// Service schedules and cancels one-shot deadline callbacks keyed by
// project id. Schedule is an idempotent upsert: a second call for the
// same key replaces the pending timer instead of stacking a second one.
type Service interface {
	Schedule(projectID uint, fireAt time.Time) error
	Cancel(projectID uint) error
}

// DeadlineFunc handles a fired timer. It must re-validate project state:
// by fire time the project may have been uploaded, advanced, paused or
// deleted, so firing is advisory, never authoritative.
type DeadlineFunc func(projectID uint)

// DBService is the database-backed Service. Timers survive restarts;
// timers overdue by less than the grace window still fire on the next
// tick, older ones are dropped. Firing is at-least-once: the row is
// removed only after the handler returns.
type DBService struct {
	repo    repository.TimerRepo
	handler DeadlineFunc
	tick    time.Duration
	grace   time.Duration
	now     func() time.Time
}

func New(repo repository.TimerRepo, tick, grace time.Duration) *DBService {
	return &DBService{
		repo:  repo,
		tick:  tick,
		grace: grace,
		now:   time.Now,
	}
}

// SetHandler installs the deadline callback. The lifecycle engine owns
// the handler but is constructed after the service, hence the setter.
func (s *DBService) SetHandler(fn DeadlineFunc) {
	s.handler = fn
}

// SetNow overrides the clock (tests).
func (s *DBService) SetNow(now func() time.Time) {
	s.now = now
}

func (s *DBService) Schedule(projectID uint, fireAt time.Time) error {
	return s.repo.UpsertTimer(&domain.DeadlineTimer{ProjectID: projectID, FireAt: fireAt})
}

func (s *DBService) Cancel(projectID uint) error {
	return s.repo.DeleteTimer(projectID)
}

// Run polls for due timers until ctx is cancelled.
func (s *DBService) Run(ctx context.Context) error {
	log.Println("Deadline timer loop started")

	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Deadline timer loop stopped")
			return ctx.Err()
		case <-ticker.C:
			s.FireDue()
		}
	}
}

// FireDue fires every due timer once. Exported so tests and the run loop
// share one code path.
func (s *DBService) FireDue() {
	now := s.now()
	due, err := s.repo.ListDueTimers(now)
	if err != nil {
		log.Printf("timer: listing due timers: %v", err)
		return
	}

	for _, t := range due {
		if now.Sub(t.FireAt) > s.grace {
			log.Printf("timer: dropping stale timer for project %d (due %s)", t.ProjectID, t.FireAt)
			if err := s.repo.DeleteTimerAt(t.ProjectID, t.FireAt); err != nil {
				log.Printf("timer: deleting stale timer for project %d: %v", t.ProjectID, err)
			}
			continue
		}
		if s.handler != nil {
			s.handler(t.ProjectID)
		}
		// Keyed to the listed fire time: if the handler triggered a
		// reschedule, the replacement timer stays pending.
		if err := s.repo.DeleteTimerAt(t.ProjectID, t.FireAt); err != nil {
			// Row stays; the handler is idempotent so refiring is safe.
			log.Printf("timer: deleting fired timer for project %d: %v", t.ProjectID, err)
		}
	}
}
