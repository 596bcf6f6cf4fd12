// ABOUTME: Route table for the vitals HTTP API.
// ABOUTME: One subrouter per vital type, mirroring the mobile client's endpoints.
package api

import (
	"net/http"

	"github.com/gorilla/mux"
)

// Router builds the full route table.
func (s *Server) Router() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		respondData(w, http.StatusOK, map[string]string{"service": "vitals"})
	}).Methods("GET")

	api := r.PathPrefix("/api/v1").Subrouter()

	// Unauthenticated: account creation and login
	api.HandleFunc("/users", s.handleRegister).Methods("POST")
	api.HandleFunc("/users/login", s.handleLogin).Methods("POST")

	// Everything else requires a session
	auth := api.NewRoute().Subrouter()
	auth.Use(s.authMiddleware)

	auth.HandleFunc("/users/logout", s.handleLogout).Methods("POST")
	auth.HandleFunc("/users/me", s.handleGetProfile).Methods("GET")
	auth.HandleFunc("/users/me", s.handleUpdateProfile).Methods("PUT")
	auth.HandleFunc("/users/me", s.handleDeleteAccount).Methods("DELETE")

	auth.HandleFunc("/bp", s.handleCreateBP).Methods("POST")
	auth.HandleFunc("/bp", s.handleListBP).Methods("GET")
	auth.HandleFunc("/bp/latest", s.handleLatestBP).Methods("GET")
	auth.HandleFunc("/bp/{id}", s.handleDeleteBP).Methods("DELETE")

	auth.HandleFunc("/weight", s.handleCreateWeight).Methods("POST")
	auth.HandleFunc("/weight", s.handleListWeight).Methods("GET")
	auth.HandleFunc("/weight/latest", s.handleLatestWeight).Methods("GET")
	auth.HandleFunc("/weight/{id}", s.handleDeleteWeight).Methods("DELETE")

	auth.HandleFunc("/heartbeat", s.handleCreateHeartRate).Methods("POST")
	auth.HandleFunc("/heartbeat", s.handleListHeartRate).Methods("GET")
	auth.HandleFunc("/heartbeat/latest", s.handleLatestHeartRate).Methods("GET")
	auth.HandleFunc("/heartbeat/{id}", s.handleDeleteHeartRate).Methods("DELETE")

	auth.HandleFunc("/reminders", s.handleListReminders).Methods("GET")
	auth.HandleFunc("/reminders/due", s.handleDueReminders).Methods("GET")
	auth.HandleFunc("/reminders/{vital}", s.handleSetReminder).Methods("PUT")

	return requestLogger(s.log)(r)
}
