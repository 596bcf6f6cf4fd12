// ABOUTME: Account handlers: register, login, logout, profile CRUD.
// ABOUTME: Passwords are bcrypt-hashed; sessions are opaque bearer tokens.
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/vitals/internal/models"
)

// profileView is the user shape returned over HTTP. The stored model
// serializes its password hash for backup and KV persistence, so the
// redaction happens here, not on the model.
type profileView struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	DateOfBirth *string   `json:"date_of_birth,omitempty"`
	Gender      *string   `json:"gender,omitempty"`
	HeightCm    *float64  `json:"height_cm,omitempty"`
	Avatar      int       `json:"avatar"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func newProfileView(u *models.User) profileView {
	return profileView{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		DateOfBirth: u.DateOfBirth,
		Gender:      u.Gender,
		HeightCm:    u.HeightCm,
		Avatar:      u.Avatar,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	u, err := models.NewUser(req.Name, req.Email, req.Password)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if err := s.repo.CreateUser(u); err != nil {
		if strings.Contains(err.Error(), "already registered") {
			respondError(w, http.StatusConflict, "email already registered")
			return
		}
		respondStorageError(w, err)
		return
	}

	s.log.Info("user registered", "user", u.ID, "email", u.Email)
	respondData(w, http.StatusCreated, newProfileView(u))
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string      `json:"token"`
	User  profileView `json:"user"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	u, err := s.repo.GetUserByEmail(req.Email)
	if err != nil || !u.CheckPassword(req.Password) {
		// Same answer for unknown email and wrong password
		respondError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	session := models.NewSession(u.ID, s.cfg.TokenTTL)
	if err := s.repo.CreateSession(session); err != nil {
		respondStorageError(w, err)
		return
	}

	s.log.Info("user logged in", "user", u.ID)
	respondData(w, http.StatusOK, loginResponse{Token: session.Token, User: newProfileView(u)})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	if err := s.repo.DeleteSession(token); err != nil {
		respondStorageError(w, err)
		return
	}
	respondData(w, http.StatusOK, map[string]string{"message": "logged out"})
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	u, err := s.repo.GetUser(userID(r))
	if err != nil {
		respondStorageError(w, err)
		return
	}
	respondData(w, http.StatusOK, newProfileView(u))
}

type updateProfileRequest struct {
	Name        *string  `json:"name,omitempty"`
	DateOfBirth *string  `json:"date_of_birth,omitempty"`
	Gender      *string  `json:"gender,omitempty"`
	HeightCm    *float64 `json:"height_cm,omitempty"`
	Avatar      *int     `json:"avatar,omitempty"`
	Password    *string  `json:"password,omitempty"`
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req updateProfileRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	u, err := s.repo.GetUser(userID(r))
	if err != nil {
		respondStorageError(w, err)
		return
	}

	if req.Name != nil {
		u.Name = strings.TrimSpace(*req.Name)
	}
	if req.DateOfBirth != nil {
		u.DateOfBirth = req.DateOfBirth
	}
	if req.Gender != nil {
		u.Gender = req.Gender
	}
	if req.HeightCm != nil {
		u.HeightCm = req.HeightCm
	}
	if req.Avatar != nil {
		u.Avatar = *req.Avatar
	}
	if req.Password != nil {
		if err := u.SetPassword(*req.Password); err != nil {
			respondError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
	}

	if err := u.Validate(); err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if err := s.repo.UpdateUser(u); err != nil {
		respondStorageError(w, err)
		return
	}
	respondData(w, http.StatusOK, newProfileView(u))
}

func (s *Server) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	id := userID(r)
	if err := s.repo.DeleteUser(id); err != nil {
		respondStorageError(w, err)
		return
	}
	s.log.Info("account deleted", "user", id)
	respondData(w, http.StatusOK, map[string]string{"message": "account deleted"})
}
