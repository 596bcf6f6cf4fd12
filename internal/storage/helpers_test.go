// ABOUTME: Shared test helpers for storage tests.
// ABOUTME: Opens a temp SQLite database and seeds test users.
package storage

import (
	"path/filepath"
	"testing"

	"github.com/harperreed/vitals/internal/models"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	return db
}

func createTestUser(t *testing.T, db *DB, email string) *models.User {
	t.Helper()
	u, err := models.NewUser("Test User", email, "hunter2hunter2")
	if err != nil {
		t.Fatalf("NewUser failed: %v", err)
	}
	if err := db.CreateUser(u); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	return u
}
