// ABOUTME: In-process scheduler for measurement reminders.
// ABOUTME: Recomputes due reminders on a tick; no schedule state is persisted.
package reminder

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/harperreed/vitals/internal/models"
	"github.com/harperreed/vitals/internal/storage"
)

// DueReminder is a reminder that should fire now, with context for
// rendering a notification.
type DueReminder struct {
	Vital           models.VitalType `json:"vital"`
	Interval        time.Duration    `json:"interval"`
	LastMeasurement *time.Time       `json:"last_measurement,omitempty"`
	OverdueBy       time.Duration    `json:"overdue_by"`
}

// Due returns the reminders that should fire for a user right now.
// Everything is derived from settings plus the latest measurement, so
// the result is always consistent with the data even after restarts.
func Due(repo storage.Repository, userID uuid.UUID, now time.Time) ([]DueReminder, error) {
	reminders, err := repo.ListReminders(userID)
	if err != nil {
		return nil, err
	}

	var due []DueReminder
	for _, rm := range reminders {
		last, err := repo.LastMeasurement(userID, rm.Vital)
		if err != nil {
			return nil, err
		}
		if !rm.Due(last, now) {
			continue
		}

		d := DueReminder{
			Vital:           rm.Vital,
			Interval:        rm.Interval,
			LastMeasurement: last,
		}
		if last != nil {
			d.OverdueBy = now.Sub(*last) - rm.Interval
		}
		due = append(due, d)
	}
	return due, nil
}

// Scheduler periodically checks all users' reminders and logs fires.
// Each fire is reported once per interval; the notified map suppresses
// repeats until the user records a new measurement.
type Scheduler struct {
	repo storage.Repository
	log  *log.Logger
	tick time.Duration

	mu       sync.Mutex
	notified map[string]time.Time // userID:vital -> last measurement seen at fire time
}

// NewScheduler creates a scheduler checking reminders every tick.
func NewScheduler(repo storage.Repository, logger *log.Logger, tick time.Duration) *Scheduler {
	if tick <= 0 {
		tick = time.Minute
	}
	return &Scheduler{
		repo:     repo,
		log:      logger,
		tick:     tick,
		notified: make(map[string]time.Time),
	}
}

// Run checks reminders until the context is cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	s.check(time.Now())
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			s.check(now)
		}
	}
}

func (s *Scheduler) check(now time.Time) {
	users, err := s.repo.ListUsers()
	if err != nil {
		s.log.Error("reminder check failed", "err", err)
		return
	}

	for _, u := range users {
		due, err := Due(s.repo, u.ID, now)
		if err != nil {
			s.log.Error("reminder check failed", "user", u.ID, "err", err)
			continue
		}
		for _, d := range due {
			if !s.shouldNotify(u.ID, d) {
				continue
			}
			s.log.Info("measurement reminder due",
				"user", u.ID,
				"vital", d.Vital,
				"interval", d.Interval,
				"overdue_by", d.OverdueBy)
		}
	}
}

// shouldNotify suppresses repeat fires for the same stale measurement.
func (s *Scheduler) shouldNotify(userID uuid.UUID, d DueReminder) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := userID.String() + ":" + string(d.Vital)
	var lastSeen time.Time
	if d.LastMeasurement != nil {
		lastSeen = *d.LastMeasurement
	}

	if prev, ok := s.notified[key]; ok && prev.Equal(lastSeen) {
		return false
	}
	s.notified[key] = lastSeen
	return true
}
