// ABOUTME: Tests for user and session storage.
// ABOUTME: Covers CRUD, unique email, cascade delete, and sessions.
package storage

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/vitals/internal/models"
)

func TestCreateAndGetUser(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	u := createTestUser(t, db, "harper@example.com")

	got, err := db.GetUser(u.ID)
	if err != nil {
		t.Fatalf("GetUser failed: %v", err)
	}
	if got.Email != "harper@example.com" {
		t.Errorf("Email = %q, want harper@example.com", got.Email)
	}
	if !got.CheckPassword("hunter2hunter2") {
		t.Error("password hash did not survive round trip")
	}
}

func TestGetUserByEmail(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	u := createTestUser(t, db, "harper@example.com")

	got, err := db.GetUserByEmail("  Harper@Example.COM ")
	if err != nil {
		t.Fatalf("GetUserByEmail failed: %v", err)
	}
	if got.ID != u.ID {
		t.Errorf("ID mismatch: got %v, want %v", got.ID, u.ID)
	}
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	createTestUser(t, db, "harper@example.com")

	dup, err := models.NewUser("Other", "harper@example.com", "hunter2hunter2")
	if err != nil {
		t.Fatalf("NewUser failed: %v", err)
	}
	if err := db.CreateUser(dup); err == nil {
		t.Error("expected error for duplicate email")
	}
}

func TestUpdateUser(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	u := createTestUser(t, db, "harper@example.com")

	height := 180.0
	u.HeightCm = &height
	u.Avatar = 3
	if err := db.UpdateUser(u); err != nil {
		t.Fatalf("UpdateUser failed: %v", err)
	}

	got, err := db.GetUser(u.ID)
	if err != nil {
		t.Fatalf("GetUser failed: %v", err)
	}
	if got.HeightCm == nil || *got.HeightCm != 180.0 {
		t.Errorf("HeightCm = %v, want 180", got.HeightCm)
	}
	if got.Avatar != 3 {
		t.Errorf("Avatar = %d, want 3", got.Avatar)
	}
}

func TestUpdateUserNotFound(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	u, _ := models.NewUser("Ghost", "ghost@example.com", "hunter2hunter2")
	if err := db.UpdateUser(u); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteUserCascades(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	u := createTestUser(t, db, "harper@example.com")
	if err := db.CreateBP(models.NewBPReading(u.ID, 120, 80)); err != nil {
		t.Fatalf("CreateBP failed: %v", err)
	}

	if err := db.DeleteUser(u.ID); err != nil {
		t.Fatalf("DeleteUser failed: %v", err)
	}

	if _, err := db.GetUser(u.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	readings, err := db.ListBP(u.ID, 0)
	if err != nil {
		t.Fatalf("ListBP failed: %v", err)
	}
	if len(readings) != 0 {
		t.Errorf("expected readings to cascade, got %d rows", len(readings))
	}
}

func TestSessions(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	u := createTestUser(t, db, "harper@example.com")
	s := models.NewSession(u.ID, time.Hour)

	if err := db.CreateSession(s); err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	got, err := db.GetSession(s.Token)
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if got.UserID != u.ID {
		t.Errorf("UserID mismatch: got %v, want %v", got.UserID, u.ID)
	}

	if err := db.DeleteSession(s.Token); err != nil {
		t.Fatalf("DeleteSession failed: %v", err)
	}
	if _, err := db.GetSession(s.Token); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestGetUserNotFound(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	if _, err := db.GetUser(uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
