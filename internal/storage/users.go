// ABOUTME: User and session CRUD operations for SQLite storage.
// ABOUTME: Implements Repository interface methods for accounts.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/vitals/internal/models"
)

// CreateUser stores a new user profile.
func (d *DB) CreateUser(u *models.User) error {
	query := `
		INSERT INTO users (id, name, email, password_hash, date_of_birth, gender, height_cm, avatar, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := d.db.Exec(query,
		u.ID.String(),
		u.Name,
		u.Email,
		u.PasswordHash,
		u.DateOfBirth,
		u.Gender,
		u.HeightCm,
		u.Avatar,
		u.CreatedAt.Format(time.RFC3339),
		u.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			return fmt.Errorf("email already registered: %s", u.Email)
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// GetUser retrieves a user by ID.
func (d *DB) GetUser(id uuid.UUID) (*models.User, error) {
	row := d.db.QueryRow(userSelect+" WHERE id = ?", id.String())
	return scanUser(row)
}

// GetUserByEmail retrieves a user by normalized email.
func (d *DB) GetUserByEmail(email string) (*models.User, error) {
	row := d.db.QueryRow(userSelect+" WHERE email = ?", strings.ToLower(strings.TrimSpace(email)))
	return scanUser(row)
}

// ListUsers returns all users ordered by creation time.
func (d *DB) ListUsers() ([]*models.User, error) {
	rows, err := d.db.Query(userSelect + " ORDER BY created_at")
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		u, err := scanUserRows(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// UpdateUser persists profile changes. The updated_at timestamp is
// refreshed on every write.
func (d *DB) UpdateUser(u *models.User) error {
	u.UpdatedAt = time.Now()
	query := `
		UPDATE users
		SET name = ?, email = ?, password_hash = ?, date_of_birth = ?, gender = ?, height_cm = ?, avatar = ?, updated_at = ?
		WHERE id = ?
	`
	result, err := d.db.Exec(query,
		u.Name, u.Email, u.PasswordHash, u.DateOfBirth, u.Gender, u.HeightCm, u.Avatar,
		u.UpdatedAt.Format(time.RFC3339), u.ID.String())
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("user %s: %w", u.ID, ErrNotFound)
	}
	return nil
}

// DeleteUser removes a user; readings, sessions, and reminders cascade.
func (d *DB) DeleteUser(id uuid.UUID) error {
	result, err := d.db.Exec("DELETE FROM users WHERE id = ?", id.String())
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("user %s: %w", id, ErrNotFound)
	}
	return nil
}

// CreateSession stores a login session.
func (d *DB) CreateSession(s *models.Session) error {
	_, err := d.db.Exec(`
		INSERT INTO sessions (token, user_id, created_at, expires_at)
		VALUES (?, ?, ?, ?)`,
		s.Token, s.UserID.String(),
		s.CreatedAt.Format(time.RFC3339), s.ExpiresAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

// GetSession retrieves a session by token.
func (d *DB) GetSession(token string) (*models.Session, error) {
	row := d.db.QueryRow(`
		SELECT token, user_id, created_at, expires_at
		FROM sessions WHERE token = ?`, token)

	var s models.Session
	var userID, createdAt, expiresAt string
	if err := row.Scan(&s.Token, &userID, &createdAt, &expiresAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("session: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scan session: %w", err)
	}

	var err error
	s.UserID, err = uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid session user ID in database: %w", err)
	}
	s.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	s.ExpiresAt, _ = time.Parse(time.RFC3339, expiresAt)
	return &s, nil
}

// DeleteSession removes a session (logout).
func (d *DB) DeleteSession(token string) error {
	result, err := d.db.Exec("DELETE FROM sessions WHERE token = ?", token)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	affected, _ := result.RowsAffected()
	if affected == 0 {
		return fmt.Errorf("session: %w", ErrNotFound)
	}
	return nil
}

const userSelect = `
	SELECT id, name, email, password_hash, date_of_birth, gender, height_cm, avatar, created_at, updated_at
	FROM users`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanUser(row *sql.Row) (*models.User, error) {
	u, err := scanUserFrom(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user: %w", ErrNotFound)
		}
		return nil, err
	}
	return u, nil
}

func scanUserRows(rows *sql.Rows) (*models.User, error) {
	return scanUserFrom(rows)
}

func scanUserFrom(row rowScanner) (*models.User, error) {
	var u models.User
	var idStr, createdAt, updatedAt string
	var dob, gender sql.NullString
	var height sql.NullFloat64

	err := row.Scan(&idStr, &u.Name, &u.Email, &u.PasswordHash, &dob, &gender, &height, &u.Avatar, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}

	u.ID, err = uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID in database: %w", err)
	}
	if dob.Valid {
		u.DateOfBirth = &dob.String
	}
	if gender.Valid {
		u.Gender = &gender.String
	}
	if height.Valid {
		u.HeightCm = &height.Float64
	}
	u.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	u.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)

	return &u, nil
}
