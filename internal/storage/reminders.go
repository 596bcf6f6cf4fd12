// ABOUTME: Reminder setting persistence for SQLite storage.
// ABOUTME: Upsert semantics keyed by (user_id, vital).
package storage

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/vitals/internal/models"
)

// SetReminder inserts or replaces a reminder setting.
func (d *DB) SetReminder(rm *models.Reminder) error {
	rm.UpdatedAt = time.Now()
	_, err := d.db.Exec(`
		INSERT INTO reminders (user_id, vital, interval_seconds, enabled, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(user_id, vital) DO UPDATE SET
			interval_seconds = excluded.interval_seconds,
			enabled = excluded.enabled,
			updated_at = excluded.updated_at`,
		rm.UserID.String(), string(rm.Vital), int64(rm.Interval.Seconds()),
		boolToInt(rm.Enabled), rm.UpdatedAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("set reminder: %w", err)
	}
	return nil
}

// ListReminders returns all reminder settings for a user.
func (d *DB) ListReminders(userID uuid.UUID) ([]*models.Reminder, error) {
	rows, err := d.db.Query(`
		SELECT user_id, vital, interval_seconds, enabled, updated_at
		FROM reminders WHERE user_id = ? ORDER BY vital`, userID.String())
	if err != nil {
		return nil, fmt.Errorf("list reminders: %w", err)
	}
	defer rows.Close()

	var reminders []*models.Reminder
	for rows.Next() {
		var rm models.Reminder
		var userStr, vital, updatedAt string
		var intervalSeconds int64
		var enabled int

		if err := rows.Scan(&userStr, &vital, &intervalSeconds, &enabled, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan reminder: %w", err)
		}

		rm.UserID, err = uuid.Parse(userStr)
		if err != nil {
			return nil, fmt.Errorf("invalid user ID in database: %w", err)
		}
		rm.Vital = models.VitalType(vital)
		rm.Interval = time.Duration(intervalSeconds) * time.Second
		rm.Enabled = enabled != 0
		rm.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)

		reminders = append(reminders, &rm)
	}
	return reminders, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
