// ABOUTME: User profile and session models.
// ABOUTME: Handles bcrypt password hashing and profile validation.
package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// AvatarCount is the number of built-in avatar choices.
const AvatarCount = 12

// User is an account profile. Height is kept on the profile so weight
// posts that omit height can fall back to it.
type User struct {
	ID           uuid.UUID `json:"id" yaml:"id"`
	Name         string    `json:"name" yaml:"name"`
	Email        string    `json:"email" yaml:"email"`
	PasswordHash string    `json:"password_hash" yaml:"password_hash"`
	DateOfBirth  *string   `json:"date_of_birth,omitempty" yaml:"date_of_birth,omitempty"`
	Gender       *string   `json:"gender,omitempty" yaml:"gender,omitempty"`
	HeightCm     *float64  `json:"height_cm,omitempty" yaml:"height_cm,omitempty"`
	Avatar       int       `json:"avatar" yaml:"avatar"`
	CreatedAt    time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" yaml:"updated_at"`
}

// NewUser creates a user with a hashed password.
func NewUser(name, email, password string) (*User, error) {
	now := time.Now()
	u := &User{
		ID:        uuid.New(),
		Name:      strings.TrimSpace(name),
		Email:     strings.ToLower(strings.TrimSpace(email)),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := u.SetPassword(password); err != nil {
		return nil, err
	}
	if err := u.Validate(); err != nil {
		return nil, err
	}
	return u, nil
}

// SetPassword hashes and stores the password.
func (u *User) SetPassword(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	u.PasswordHash = string(hash)
	return nil
}

// CheckPassword verifies a password against the stored hash.
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// Validate checks profile fields.
func (u *User) Validate() error {
	if u.Name == "" {
		return fmt.Errorf("name must not be empty")
	}
	if !strings.Contains(u.Email, "@") || strings.HasPrefix(u.Email, "@") || strings.HasSuffix(u.Email, "@") {
		return fmt.Errorf("invalid email address")
	}
	if u.HeightCm != nil && (*u.HeightCm < 50 || *u.HeightCm > 280) {
		return fmt.Errorf("height must be between 50 and 280 cm")
	}
	if u.Avatar < 0 || u.Avatar >= AvatarCount {
		return fmt.Errorf("avatar must be between 0 and %d", AvatarCount-1)
	}
	return nil
}

// Session is a bearer token issued at login.
type Session struct {
	Token     string    `json:"token" yaml:"token"`
	UserID    uuid.UUID `json:"user_id" yaml:"user_id"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	ExpiresAt time.Time `json:"expires_at" yaml:"expires_at"`
}

// NewSession creates a session for the user with the given lifetime.
func NewSession(userID uuid.UUID, ttl time.Duration) *Session {
	now := time.Now()
	return &Session{
		Token:     uuid.NewString(),
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// Expired reports whether the session is past its expiry.
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
