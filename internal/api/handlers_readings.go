// ABOUTME: Vital-sign reading handlers: create, list, latest, delete.
// ABOUTME: The same fetch/post pattern instantiated per vital type.
package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/harperreed/vitals/internal/models"
)

const defaultListLimit = 20

// parseLimit reads the ?limit query parameter with a sane default.
func parseLimit(r *http.Request) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return defaultListLimit
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return defaultListLimit
	}
	return n
}

// parseRecordedAt reads an optional RFC3339 recorded_at override.
func parseRecordedAt(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// --- Blood pressure ---

type createBPRequest struct {
	Systolic   int    `json:"systolic"`
	Diastolic  int    `json:"diastolic"`
	Pulse      *int   `json:"pulse,omitempty"`
	RecordedAt string `json:"recorded_at,omitempty"`
}

func (s *Server) handleCreateBP(w http.ResponseWriter, r *http.Request) {
	var req createBPRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	reading := models.NewBPReading(userID(r), req.Systolic, req.Diastolic)
	if req.Pulse != nil {
		reading.WithPulse(*req.Pulse)
	}
	at, err := parseRecordedAt(req.RecordedAt)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, "recorded_at must be RFC 3339")
		return
	}
	if at != nil {
		reading.WithRecordedAt(*at)
	}

	if err := reading.Validate(); err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if err := s.repo.CreateBP(reading); err != nil {
		respondStorageError(w, err)
		return
	}
	respondData(w, http.StatusCreated, reading)
}

func (s *Server) handleListBP(w http.ResponseWriter, r *http.Request) {
	readings, err := s.repo.ListBP(userID(r), parseLimit(r))
	if err != nil {
		respondStorageError(w, err)
		return
	}
	respondData(w, http.StatusOK, readings)
}

func (s *Server) handleLatestBP(w http.ResponseWriter, r *http.Request) {
	reading, err := s.repo.LatestBP(userID(r))
	if err != nil {
		respondStorageError(w, err)
		return
	}
	respondData(w, http.StatusOK, reading)
}

func (s *Server) handleDeleteBP(w http.ResponseWriter, r *http.Request) {
	if err := s.repo.DeleteBP(userID(r), mux.Vars(r)["id"]); err != nil {
		respondStorageError(w, err)
		return
	}
	respondData(w, http.StatusOK, map[string]string{"message": "reading deleted"})
}

// --- Weight ---

type createWeightRequest struct {
	WeightKg   float64  `json:"weight_kg"`
	HeightCm   *float64 `json:"height_cm,omitempty"`
	RecordedAt string   `json:"recorded_at,omitempty"`
}

func (s *Server) handleCreateWeight(w http.ResponseWriter, r *http.Request) {
	var req createWeightRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	// Height falls back to the profile when the post omits it
	height := req.HeightCm
	if height == nil {
		u, err := s.repo.GetUser(userID(r))
		if err != nil {
			respondStorageError(w, err)
			return
		}
		height = u.HeightCm
	}
	if height == nil {
		respondError(w, http.StatusUnprocessableEntity, "height_cm required: no height on profile")
		return
	}

	record := models.NewWeightRecord(userID(r), req.WeightKg, *height)
	at, err := parseRecordedAt(req.RecordedAt)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, "recorded_at must be RFC 3339")
		return
	}
	if at != nil {
		record.WithRecordedAt(*at)
	}

	if err := record.Validate(); err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if err := s.repo.CreateWeight(record); err != nil {
		respondStorageError(w, err)
		return
	}
	respondData(w, http.StatusCreated, record)
}

func (s *Server) handleListWeight(w http.ResponseWriter, r *http.Request) {
	records, err := s.repo.ListWeight(userID(r), parseLimit(r))
	if err != nil {
		respondStorageError(w, err)
		return
	}
	respondData(w, http.StatusOK, records)
}

func (s *Server) handleLatestWeight(w http.ResponseWriter, r *http.Request) {
	record, err := s.repo.LatestWeight(userID(r))
	if err != nil {
		respondStorageError(w, err)
		return
	}
	respondData(w, http.StatusOK, record)
}

func (s *Server) handleDeleteWeight(w http.ResponseWriter, r *http.Request) {
	if err := s.repo.DeleteWeight(userID(r), mux.Vars(r)["id"]); err != nil {
		respondStorageError(w, err)
		return
	}
	respondData(w, http.StatusOK, map[string]string{"message": "record deleted"})
}

// --- Heart rate ---

type createHeartRateRequest struct {
	BPM        int    `json:"bpm"`
	RecordedAt string `json:"recorded_at,omitempty"`
}

func (s *Server) handleCreateHeartRate(w http.ResponseWriter, r *http.Request) {
	var req createHeartRateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	reading := models.NewHeartRateReading(userID(r), req.BPM)
	at, err := parseRecordedAt(req.RecordedAt)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, "recorded_at must be RFC 3339")
		return
	}
	if at != nil {
		reading.WithRecordedAt(*at)
	}

	if err := reading.Validate(); err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if err := s.repo.CreateHeartRate(reading); err != nil {
		respondStorageError(w, err)
		return
	}
	respondData(w, http.StatusCreated, reading)
}

func (s *Server) handleListHeartRate(w http.ResponseWriter, r *http.Request) {
	readings, err := s.repo.ListHeartRate(userID(r), parseLimit(r))
	if err != nil {
		respondStorageError(w, err)
		return
	}
	respondData(w, http.StatusOK, readings)
}

func (s *Server) handleLatestHeartRate(w http.ResponseWriter, r *http.Request) {
	reading, err := s.repo.LatestHeartRate(userID(r))
	if err != nil {
		respondStorageError(w, err)
		return
	}
	respondData(w, http.StatusOK, reading)
}

func (s *Server) handleDeleteHeartRate(w http.ResponseWriter, r *http.Request) {
	if err := s.repo.DeleteHeartRate(userID(r), mux.Vars(r)["id"]); err != nil {
		respondStorageError(w, err)
		return
	}
	respondData(w, http.StatusOK, map[string]string{"message": "reading deleted"})
}
