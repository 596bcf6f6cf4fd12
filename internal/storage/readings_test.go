// ABOUTME: Tests for vital-sign reading storage.
// ABOUTME: Verifies ordering, latest selection, prefix delete, and scoping.
package storage

import (
	"errors"
	"testing"
	"time"

	"github.com/harperreed/vitals/internal/models"
)

func TestCreateAndListBP(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	u := createTestUser(t, db, "harper@example.com")

	r1 := models.NewBPReading(u.ID, 118, 76).WithRecordedAt(time.Now().Add(-2 * time.Hour))
	r2 := models.NewBPReading(u.ID, 132, 84).WithPulse(68).WithRecordedAt(time.Now().Add(-1 * time.Hour))

	for _, r := range []*models.BPReading{r1, r2} {
		if err := db.CreateBP(r); err != nil {
			t.Fatalf("CreateBP failed: %v", err)
		}
	}

	readings, err := db.ListBP(u.ID, 0)
	if err != nil {
		t.Fatalf("ListBP failed: %v", err)
	}
	if len(readings) != 2 {
		t.Fatalf("expected 2 readings, got %d", len(readings))
	}
	// Most recent first
	if readings[0].ID != r2.ID {
		t.Errorf("expected newest reading first")
	}
	if readings[0].Pulse == nil || *readings[0].Pulse != 68 {
		t.Errorf("Pulse = %v, want 68", readings[0].Pulse)
	}
	if readings[0].Category != models.BPStage1 {
		t.Errorf("Category = %s, want stage1", readings[0].Category)
	}
}

func TestLatestBP(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	u := createTestUser(t, db, "harper@example.com")

	old := models.NewBPReading(u.ID, 110, 70).WithRecordedAt(time.Now().Add(-24 * time.Hour))
	recent := models.NewBPReading(u.ID, 125, 79).WithRecordedAt(time.Now().Add(-time.Hour))
	for _, r := range []*models.BPReading{old, recent} {
		if err := db.CreateBP(r); err != nil {
			t.Fatalf("CreateBP failed: %v", err)
		}
	}

	got, err := db.LatestBP(u.ID)
	if err != nil {
		t.Fatalf("LatestBP failed: %v", err)
	}
	if got.ID != recent.ID {
		t.Errorf("expected most recent reading, got %v", got.ID)
	}
}

func TestLatestBPEmpty(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	u := createTestUser(t, db, "harper@example.com")

	if _, err := db.LatestBP(u.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestWeightRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	u := createTestUser(t, db, "harper@example.com")

	r := models.NewWeightRecord(u.ID, 82.5, 180)
	if err := db.CreateWeight(r); err != nil {
		t.Fatalf("CreateWeight failed: %v", err)
	}

	got, err := db.LatestWeight(u.ID)
	if err != nil {
		t.Fatalf("LatestWeight failed: %v", err)
	}
	if got.BMI != 25.5 {
		t.Errorf("BMI = %v, want 25.5", got.BMI)
	}
	if got.Category != models.BMIOverweight {
		t.Errorf("Category = %s, want overweight", got.Category)
	}
}

func TestHeartRateRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	u := createTestUser(t, db, "harper@example.com")

	r := models.NewHeartRateReading(u.ID, 55)
	if err := db.CreateHeartRate(r); err != nil {
		t.Fatalf("CreateHeartRate failed: %v", err)
	}

	got, err := db.LatestHeartRate(u.ID)
	if err != nil {
		t.Fatalf("LatestHeartRate failed: %v", err)
	}
	if got.BPM != 55 {
		t.Errorf("BPM = %d, want 55", got.BPM)
	}
	if got.Status != models.HeartRateLow {
		t.Errorf("Status = %s, want low", got.Status)
	}
}

func TestDeleteReadingByPrefix(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	u := createTestUser(t, db, "harper@example.com")

	r := models.NewHeartRateReading(u.ID, 72)
	if err := db.CreateHeartRate(r); err != nil {
		t.Fatalf("CreateHeartRate failed: %v", err)
	}

	if err := db.DeleteHeartRate(u.ID, r.ID.String()[:8]); err != nil {
		t.Fatalf("DeleteHeartRate by prefix failed: %v", err)
	}

	readings, err := db.ListHeartRate(u.ID, 0)
	if err != nil {
		t.Fatalf("ListHeartRate failed: %v", err)
	}
	if len(readings) != 0 {
		t.Errorf("expected 0 readings after delete, got %d", len(readings))
	}
}

func TestDeleteReadingScopedToUser(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	owner := createTestUser(t, db, "owner@example.com")
	other := createTestUser(t, db, "other@example.com")

	r := models.NewBPReading(owner.ID, 120, 80)
	if err := db.CreateBP(r); err != nil {
		t.Fatalf("CreateBP failed: %v", err)
	}

	if err := db.DeleteBP(other.ID, r.ID.String()); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound deleting another user's reading, got %v", err)
	}
}

func TestListLimit(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	u := createTestUser(t, db, "harper@example.com")

	for i := 0; i < 5; i++ {
		r := models.NewHeartRateReading(u.ID, 60+i).
			WithRecordedAt(time.Now().Add(time.Duration(-i) * time.Hour))
		if err := db.CreateHeartRate(r); err != nil {
			t.Fatalf("CreateHeartRate failed: %v", err)
		}
	}

	readings, err := db.ListHeartRate(u.ID, 3)
	if err != nil {
		t.Fatalf("ListHeartRate failed: %v", err)
	}
	if len(readings) != 3 {
		t.Errorf("expected 3 readings with limit, got %d", len(readings))
	}
}

func TestLastMeasurement(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	u := createTestUser(t, db, "harper@example.com")

	last, err := db.LastMeasurement(u.ID, models.VitalWeight)
	if err != nil {
		t.Fatalf("LastMeasurement failed: %v", err)
	}
	if last != nil {
		t.Errorf("expected nil for user with no measurements, got %v", last)
	}

	at := time.Now().Add(-3 * time.Hour).Truncate(time.Second)
	r := models.NewWeightRecord(u.ID, 80, 180).WithRecordedAt(at)
	if err := db.CreateWeight(r); err != nil {
		t.Fatalf("CreateWeight failed: %v", err)
	}

	last, err = db.LastMeasurement(u.ID, models.VitalWeight)
	if err != nil {
		t.Fatalf("LastMeasurement failed: %v", err)
	}
	if last == nil || !last.Equal(at) {
		t.Errorf("LastMeasurement = %v, want %v", last, at)
	}
}
