// ABOUTME: Tests for the reminder due computation and scheduler.
// ABOUTME: Uses a real SQLite store in a temp directory.
package reminder

import (
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/harperreed/vitals/internal/models"
	"github.com/harperreed/vitals/internal/storage"
)

func setupRepo(t *testing.T) (*storage.DB, *models.User) {
	t.Helper()
	db, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	u, err := models.NewUser("Harper", "harper@example.com", "hunter2hunter2")
	if err != nil {
		t.Fatalf("NewUser failed: %v", err)
	}
	if err := db.CreateUser(u); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	return db, u
}

func TestDueNoMeasurement(t *testing.T) {
	db, u := setupRepo(t)

	if err := db.SetReminder(models.NewReminder(u.ID, models.VitalWeight, 24*time.Hour)); err != nil {
		t.Fatalf("SetReminder failed: %v", err)
	}

	due, err := Due(db, u.ID, time.Now())
	if err != nil {
		t.Fatalf("Due failed: %v", err)
	}
	if len(due) != 1 {
		t.Fatalf("expected 1 due reminder for user with no measurements, got %d", len(due))
	}
	if due[0].Vital != models.VitalWeight {
		t.Errorf("Vital = %s, want weight", due[0].Vital)
	}
	if due[0].LastMeasurement != nil {
		t.Error("expected nil LastMeasurement")
	}
}

func TestDueRespectsRecentMeasurement(t *testing.T) {
	db, u := setupRepo(t)

	if err := db.SetReminder(models.NewReminder(u.ID, models.VitalHeartRate, 24*time.Hour)); err != nil {
		t.Fatalf("SetReminder failed: %v", err)
	}
	r := models.NewHeartRateReading(u.ID, 72).WithRecordedAt(time.Now().Add(-time.Hour))
	if err := db.CreateHeartRate(r); err != nil {
		t.Fatalf("CreateHeartRate failed: %v", err)
	}

	due, err := Due(db, u.ID, time.Now())
	if err != nil {
		t.Fatalf("Due failed: %v", err)
	}
	if len(due) != 0 {
		t.Errorf("expected no due reminders after a recent measurement, got %d", len(due))
	}
}

func TestDueOverdueMeasurement(t *testing.T) {
	db, u := setupRepo(t)

	if err := db.SetReminder(models.NewReminder(u.ID, models.VitalHeartRate, time.Hour)); err != nil {
		t.Fatalf("SetReminder failed: %v", err)
	}
	r := models.NewHeartRateReading(u.ID, 72).WithRecordedAt(time.Now().Add(-3 * time.Hour))
	if err := db.CreateHeartRate(r); err != nil {
		t.Fatalf("CreateHeartRate failed: %v", err)
	}

	due, err := Due(db, u.ID, time.Now())
	if err != nil {
		t.Fatalf("Due failed: %v", err)
	}
	if len(due) != 1 {
		t.Fatalf("expected 1 due reminder, got %d", len(due))
	}
	if due[0].OverdueBy < time.Hour {
		t.Errorf("OverdueBy = %v, want at least 2h minus interval", due[0].OverdueBy)
	}
}

func TestDueSkipsDisabled(t *testing.T) {
	db, u := setupRepo(t)

	rm := models.NewReminder(u.ID, models.VitalBloodPressure, time.Hour)
	rm.Enabled = false
	if err := db.SetReminder(rm); err != nil {
		t.Fatalf("SetReminder failed: %v", err)
	}

	due, err := Due(db, u.ID, time.Now())
	if err != nil {
		t.Fatalf("Due failed: %v", err)
	}
	if len(due) != 0 {
		t.Errorf("expected disabled reminder to be skipped, got %d", len(due))
	}
}

func TestSchedulerSuppressesRepeats(t *testing.T) {
	db, u := setupRepo(t)

	if err := db.SetReminder(models.NewReminder(u.ID, models.VitalWeight, time.Hour)); err != nil {
		t.Fatalf("SetReminder failed: %v", err)
	}

	logger := log.New(io.Discard)
	s := NewScheduler(db, logger, time.Minute)

	d := DueReminder{Vital: models.VitalWeight, Interval: time.Hour}
	if !s.shouldNotify(u.ID, d) {
		t.Error("first fire should notify")
	}
	if s.shouldNotify(u.ID, d) {
		t.Error("repeat fire for the same measurement should be suppressed")
	}

	// A new measurement resets suppression
	at := time.Now().Truncate(time.Second)
	d.LastMeasurement = &at
	if !s.shouldNotify(u.ID, d) {
		t.Error("fire after a new measurement should notify")
	}
}
