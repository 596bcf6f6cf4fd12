// ABOUTME: Repository interface for vitals data storage.
// ABOUTME: Defines the contract shared by the SQLite and Charm KV backends.
package storage

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/vitals/internal/models"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("not found")

// Repository defines the storage interface for vitals data.
// This interface allows swapping implementations (e.g., for testing).
type Repository interface {
	// User operations
	CreateUser(u *models.User) error
	GetUser(id uuid.UUID) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	ListUsers() ([]*models.User, error)
	UpdateUser(u *models.User) error
	DeleteUser(id uuid.UUID) error

	// Session operations
	CreateSession(s *models.Session) error
	GetSession(token string) (*models.Session, error)
	DeleteSession(token string) error

	// Blood pressure
	CreateBP(r *models.BPReading) error
	ListBP(userID uuid.UUID, limit int) ([]*models.BPReading, error)
	LatestBP(userID uuid.UUID) (*models.BPReading, error)
	DeleteBP(userID uuid.UUID, idOrPrefix string) error

	// Weight
	CreateWeight(r *models.WeightRecord) error
	ListWeight(userID uuid.UUID, limit int) ([]*models.WeightRecord, error)
	LatestWeight(userID uuid.UUID) (*models.WeightRecord, error)
	DeleteWeight(userID uuid.UUID, idOrPrefix string) error

	// Heart rate
	CreateHeartRate(r *models.HeartRateReading) error
	ListHeartRate(userID uuid.UUID, limit int) ([]*models.HeartRateReading, error)
	LatestHeartRate(userID uuid.UUID) (*models.HeartRateReading, error)
	DeleteHeartRate(userID uuid.UUID, idOrPrefix string) error

	// LastMeasurement returns the recorded_at of the most recent reading
	// of the given vital, or nil when the user has none.
	LastMeasurement(userID uuid.UUID, vital models.VitalType) (*time.Time, error)

	// Reminders
	SetReminder(rm *models.Reminder) error
	ListReminders(userID uuid.UUID) ([]*models.Reminder, error)

	// Export/Import
	GetAllData() (*ExportData, error)
	ImportData(data *ExportData) error

	// Lifecycle
	Close() error
}
