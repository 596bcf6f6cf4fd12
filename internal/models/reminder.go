// ABOUTME: Measurement reminder settings model.
// ABOUTME: Computes remaining time until the next reminder fire.
package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Reminder is a per-user, per-vital measurement reminder setting.
// Only the setting is persisted; the next fire time is always derived
// from the latest measurement.
type Reminder struct {
	UserID    uuid.UUID     `json:"user_id" yaml:"user_id"`
	Vital     VitalType     `json:"vital" yaml:"vital"`
	Interval  time.Duration `json:"interval" yaml:"interval"`
	Enabled   bool          `json:"enabled" yaml:"enabled"`
	UpdatedAt time.Time     `json:"updated_at" yaml:"updated_at"`
}

// NewReminder creates an enabled reminder setting.
func NewReminder(userID uuid.UUID, vital VitalType, interval time.Duration) *Reminder {
	return &Reminder{
		UserID:    userID,
		Vital:     vital,
		Interval:  interval,
		Enabled:   true,
		UpdatedAt: time.Now(),
	}
}

// Validate checks the reminder setting.
func (r *Reminder) Validate() error {
	if !IsValidVitalType(string(r.Vital)) {
		return fmt.Errorf("unknown vital type: %s", r.Vital)
	}
	if r.Interval < time.Minute {
		return fmt.Errorf("interval must be at least one minute")
	}
	return nil
}

// Remaining returns the time left until the reminder should fire:
// interval - (now - last_measurement). A user with no measurement yet,
// or whose last measurement is older than the interval, is due now
// (zero remaining).
func (r *Reminder) Remaining(last *time.Time, now time.Time) time.Duration {
	if last == nil {
		return 0
	}
	remaining := r.Interval - now.Sub(*last)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Due reports whether the reminder should fire now.
func (r *Reminder) Due(last *time.Time, now time.Time) bool {
	return r.Enabled && r.Remaining(last, now) == 0
}
