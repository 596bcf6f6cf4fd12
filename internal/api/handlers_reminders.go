// ABOUTME: Reminder handlers: settings and due computation.
// ABOUTME: Next fire is always derived from the latest measurement.
package api

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/harperreed/vitals/internal/models"
	"github.com/harperreed/vitals/internal/reminder"
)

type reminderView struct {
	Vital     models.VitalType `json:"vital"`
	Interval  string           `json:"interval"`
	Enabled   bool             `json:"enabled"`
	Remaining string           `json:"remaining"`
	Due       bool             `json:"due"`
}

func (s *Server) handleListReminders(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	reminders, err := s.repo.ListReminders(uid)
	if err != nil {
		respondStorageError(w, err)
		return
	}

	now := time.Now()
	views := make([]reminderView, 0, len(reminders))
	for _, rm := range reminders {
		last, err := s.repo.LastMeasurement(uid, rm.Vital)
		if err != nil {
			respondStorageError(w, err)
			return
		}
		views = append(views, reminderView{
			Vital:     rm.Vital,
			Interval:  rm.Interval.String(),
			Enabled:   rm.Enabled,
			Remaining: rm.Remaining(last, now).String(),
			Due:       rm.Due(last, now),
		})
	}
	respondData(w, http.StatusOK, views)
}

type setReminderRequest struct {
	Interval string `json:"interval"`
	Enabled  *bool  `json:"enabled,omitempty"`
}

func (s *Server) handleSetReminder(w http.ResponseWriter, r *http.Request) {
	var req setReminderRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	interval, err := time.ParseDuration(req.Interval)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, "interval must be a duration like 24h or 90m")
		return
	}

	rm := models.NewReminder(userID(r), models.VitalType(mux.Vars(r)["vital"]), interval)
	if req.Enabled != nil {
		rm.Enabled = *req.Enabled
	}
	if err := rm.Validate(); err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if err := s.repo.SetReminder(rm); err != nil {
		respondStorageError(w, err)
		return
	}

	last, err := s.repo.LastMeasurement(rm.UserID, rm.Vital)
	if err != nil {
		respondStorageError(w, err)
		return
	}
	now := time.Now()
	respondData(w, http.StatusOK, reminderView{
		Vital:     rm.Vital,
		Interval:  rm.Interval.String(),
		Enabled:   rm.Enabled,
		Remaining: rm.Remaining(last, now).String(),
		Due:       rm.Due(last, now),
	})
}

func (s *Server) handleDueReminders(w http.ResponseWriter, r *http.Request) {
	due, err := reminder.Due(s.repo, userID(r), time.Now())
	if err != nil {
		respondStorageError(w, err)
		return
	}
	if due == nil {
		due = []reminder.DueReminder{}
	}
	respondData(w, http.StatusOK, due)
}
