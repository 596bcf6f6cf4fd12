// ABOUTME: HTTP API tests covering the full request/response contract.
// ABOUTME: Runs the real router against a temp SQLite store via httptest.
package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/harperreed/vitals/internal/config"
	"github.com/harperreed/vitals/internal/storage"
)

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	db, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	cfg := &config.ServerConfig{
		Addr:     ":0",
		TokenTTL: time.Hour,
	}
	s := NewServer(db, log.New(io.Discard), cfg)
	ts := httptest.NewServer(s.Router())
	t.Cleanup(ts.Close)
	return s, ts
}

type testEnvelope struct {
	Status  string          `json:"status"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

func doJSON(t *testing.T, method, url, token string, body interface{}) (*http.Response, testEnvelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()

	var env testEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	return resp, env
}

// registerAndLogin creates an account and returns a session token.
func registerAndLogin(t *testing.T, base, email string) string {
	t.Helper()
	resp, _ := doJSON(t, "POST", base+"/api/v1/users", "", map[string]string{
		"name":     "Test User",
		"email":    email,
		"password": "hunter2hunter2",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register status = %d, want 201", resp.StatusCode)
	}

	resp, env := doJSON(t, "POST", base+"/api/v1/users/login", "", map[string]string{
		"email":    email,
		"password": "hunter2hunter2",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login status = %d, want 200", resp.StatusCode)
	}
	var login struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(env.Data, &login); err != nil {
		t.Fatalf("decode login: %v", err)
	}
	if login.Token == "" {
		t.Fatal("login returned empty token")
	}
	return login.Token
}

func TestRegisterValidation(t *testing.T) {
	_, ts := newTestServer(t)

	resp, env := doJSON(t, "POST", ts.URL+"/api/v1/users", "", map[string]string{
		"name":     "Short Password",
		"email":    "short@example.com",
		"password": "short",
	})
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", resp.StatusCode)
	}
	if env.Status != "error" || env.Message == "" {
		t.Errorf("envelope = %+v, want error with message", env)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	_, ts := newTestServer(t)
	registerAndLogin(t, ts.URL, "dupe@example.com")

	resp, env := doJSON(t, "POST", ts.URL+"/api/v1/users", "", map[string]string{
		"name":     "Second",
		"email":    "dupe@example.com",
		"password": "hunter2hunter2",
	})
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("status = %d, want 409", resp.StatusCode)
	}
	if env.Message != "email already registered" {
		t.Errorf("message = %q", env.Message)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	_, ts := newTestServer(t)
	registerAndLogin(t, ts.URL, "login@example.com")

	resp, env := doJSON(t, "POST", ts.URL+"/api/v1/users/login", "", map[string]string{
		"email":    "login@example.com",
		"password": "not-the-password",
	})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}
	if env.Message != "invalid email or password" {
		t.Errorf("message = %q", env.Message)
	}
}

func TestAuthRequired(t *testing.T) {
	_, ts := newTestServer(t)

	resp, _ := doJSON(t, "GET", ts.URL+"/api/v1/bp", "", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("no token: status = %d, want 401", resp.StatusCode)
	}

	resp, _ = doJSON(t, "GET", ts.URL+"/api/v1/bp", "not-a-real-token", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("bad token: status = %d, want 401", resp.StatusCode)
	}
}

func TestLogoutInvalidatesToken(t *testing.T) {
	_, ts := newTestServer(t)
	token := registerAndLogin(t, ts.URL, "logout@example.com")

	resp, _ := doJSON(t, "POST", ts.URL+"/api/v1/users/logout", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("logout status = %d, want 200", resp.StatusCode)
	}

	resp, _ = doJSON(t, "GET", ts.URL+"/api/v1/users/me", token, nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("after logout: status = %d, want 401", resp.StatusCode)
	}
}

func TestBPLifecycle(t *testing.T) {
	_, ts := newTestServer(t)
	token := registerAndLogin(t, ts.URL, "bp@example.com")

	resp, env := doJSON(t, "POST", ts.URL+"/api/v1/bp", token, map[string]interface{}{
		"systolic":  135,
		"diastolic": 85,
		"pulse":     72,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d, want 201: %s", resp.StatusCode, env.Message)
	}
	var created struct {
		ID       string `json:"id"`
		Category string `json:"category"`
	}
	if err := json.Unmarshal(env.Data, &created); err != nil {
		t.Fatalf("decode reading: %v", err)
	}
	if created.Category != "stage1" {
		t.Errorf("category = %q, want stage1", created.Category)
	}

	// Older reading should not displace the latest
	resp, _ = doJSON(t, "POST", ts.URL+"/api/v1/bp", token, map[string]interface{}{
		"systolic":    118,
		"diastolic":   76,
		"recorded_at": time.Now().Add(-48 * time.Hour).Format(time.RFC3339),
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create old status = %d, want 201", resp.StatusCode)
	}

	resp, env = doJSON(t, "GET", ts.URL+"/api/v1/bp/latest", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("latest status = %d, want 200", resp.StatusCode)
	}
	var latest struct {
		ID       string `json:"id"`
		Systolic int    `json:"systolic"`
	}
	if err := json.Unmarshal(env.Data, &latest); err != nil {
		t.Fatalf("decode latest: %v", err)
	}
	if latest.ID != created.ID {
		t.Errorf("latest = %s, want most recent reading %s", latest.ID, created.ID)
	}

	resp, env = doJSON(t, "GET", ts.URL+"/api/v1/bp", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list status = %d", resp.StatusCode)
	}
	var list []json.RawMessage
	if err := json.Unmarshal(env.Data, &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list) != 2 {
		t.Errorf("list len = %d, want 2", len(list))
	}

	resp, _ = doJSON(t, "DELETE", ts.URL+"/api/v1/bp/"+created.ID, token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete status = %d, want 200", resp.StatusCode)
	}
	resp, _ = doJSON(t, "DELETE", ts.URL+"/api/v1/bp/"+created.ID, token, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", resp.StatusCode)
	}
}

func TestBPValidation(t *testing.T) {
	_, ts := newTestServer(t)
	token := registerAndLogin(t, ts.URL, "bpval@example.com")

	resp, env := doJSON(t, "POST", ts.URL+"/api/v1/bp", token, map[string]interface{}{
		"systolic":  80,
		"diastolic": 120,
	})
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", resp.StatusCode)
	}
	if env.Status != "error" {
		t.Errorf("status field = %q, want error", env.Status)
	}
}

func TestWeightBMIFromProfileHeight(t *testing.T) {
	_, ts := newTestServer(t)
	token := registerAndLogin(t, ts.URL, "bmi@example.com")

	// No height anywhere: reject
	resp, _ := doJSON(t, "POST", ts.URL+"/api/v1/weight", token, map[string]interface{}{
		"weight_kg": 70,
	})
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("no height: status = %d, want 422", resp.StatusCode)
	}

	resp, _ = doJSON(t, "PUT", ts.URL+"/api/v1/users/me", token, map[string]interface{}{
		"height_cm": 175,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("profile update status = %d", resp.StatusCode)
	}

	resp, env := doJSON(t, "POST", ts.URL+"/api/v1/weight", token, map[string]interface{}{
		"weight_kg": 70,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d, want 201: %s", resp.StatusCode, env.Message)
	}
	var record struct {
		BMI      float64 `json:"bmi"`
		Category string  `json:"category"`
	}
	if err := json.Unmarshal(env.Data, &record); err != nil {
		t.Fatalf("decode record: %v", err)
	}
	if record.BMI != 22.9 {
		t.Errorf("bmi = %v, want 22.9", record.BMI)
	}
	if record.Category != "normal" {
		t.Errorf("category = %q, want normal", record.Category)
	}
}

func TestHeartRateStatus(t *testing.T) {
	_, ts := newTestServer(t)
	token := registerAndLogin(t, ts.URL, "hr@example.com")

	resp, env := doJSON(t, "POST", ts.URL+"/api/v1/heartbeat", token, map[string]interface{}{
		"bpm": 110,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d, want 201", resp.StatusCode)
	}
	var reading struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(env.Data, &reading); err != nil {
		t.Fatalf("decode reading: %v", err)
	}
	if reading.Status != "high" {
		t.Errorf("status = %q, want high", reading.Status)
	}
}

func TestLatestEmpty(t *testing.T) {
	_, ts := newTestServer(t)
	token := registerAndLogin(t, ts.URL, "empty@example.com")

	resp, env := doJSON(t, "GET", ts.URL+"/api/v1/heartbeat/latest", token, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
	if env.Message != "record not found" {
		t.Errorf("message = %q", env.Message)
	}
}

func TestMalformedBody(t *testing.T) {
	_, ts := newTestServer(t)
	token := registerAndLogin(t, ts.URL, "badbody@example.com")

	req, _ := http.NewRequest("POST", ts.URL+"/api/v1/bp", bytes.NewBufferString("{not json"))
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestReminders(t *testing.T) {
	_, ts := newTestServer(t)
	token := registerAndLogin(t, ts.URL, "remind@example.com")

	resp, env := doJSON(t, "PUT", ts.URL+"/api/v1/reminders/heart_rate", token, map[string]interface{}{
		"interval": "24h",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("set status = %d, want 200: %s", resp.StatusCode, env.Message)
	}
	// Same shape as the list endpoint: durations as strings
	var set struct {
		Interval string `json:"interval"`
		Due      bool   `json:"due"`
	}
	if err := json.Unmarshal(env.Data, &set); err != nil {
		t.Fatalf("decode set response: %v", err)
	}
	if set.Interval != "24h0m0s" {
		t.Errorf("interval = %q, want 24h0m0s", set.Interval)
	}
	if !set.Due {
		t.Error("reminder with no measurement should be due")
	}

	// No measurement yet, so the reminder is immediately due
	resp, env = doJSON(t, "GET", ts.URL+"/api/v1/reminders/due", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("due status = %d", resp.StatusCode)
	}
	var due []struct {
		Vital string `json:"vital"`
	}
	if err := json.Unmarshal(env.Data, &due); err != nil {
		t.Fatalf("decode due: %v", err)
	}
	if len(due) != 1 || due[0].Vital != "heart_rate" {
		t.Fatalf("due = %+v, want one heart_rate reminder", due)
	}

	// A fresh measurement satisfies the reminder
	resp, _ = doJSON(t, "POST", ts.URL+"/api/v1/heartbeat", token, map[string]interface{}{"bpm": 64})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d", resp.StatusCode)
	}
	resp, env = doJSON(t, "GET", ts.URL+"/api/v1/reminders/due", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("due status = %d", resp.StatusCode)
	}
	due = nil
	if err := json.Unmarshal(env.Data, &due); err != nil {
		t.Fatalf("decode due: %v", err)
	}
	if len(due) != 0 {
		t.Errorf("due = %+v, want none after measurement", due)
	}

	resp, env = doJSON(t, "GET", ts.URL+"/api/v1/reminders", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list status = %d", resp.StatusCode)
	}
	var views []struct {
		Vital   string `json:"vital"`
		Enabled bool   `json:"enabled"`
		Due     bool   `json:"due"`
	}
	if err := json.Unmarshal(env.Data, &views); err != nil {
		t.Fatalf("decode reminders: %v", err)
	}
	if len(views) != 1 || !views[0].Enabled || views[0].Due {
		t.Errorf("reminders = %+v, want one enabled, not due", views)
	}
}

func TestSetReminderValidation(t *testing.T) {
	_, ts := newTestServer(t)
	token := registerAndLogin(t, ts.URL, "remindval@example.com")

	resp, _ := doJSON(t, "PUT", ts.URL+"/api/v1/reminders/bp", token, map[string]interface{}{
		"interval": "nonsense",
	})
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("bad interval: status = %d, want 422", resp.StatusCode)
	}

	resp, _ = doJSON(t, "PUT", ts.URL+"/api/v1/reminders/steps", token, map[string]interface{}{
		"interval": "24h",
	})
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("bad vital: status = %d, want 422", resp.StatusCode)
	}
}

func TestProfileResponsesOmitPasswordHash(t *testing.T) {
	_, ts := newTestServer(t)
	token := registerAndLogin(t, ts.URL, "redact@example.com")

	resp, env := doJSON(t, "GET", ts.URL+"/api/v1/users/me", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("profile status = %d", resp.StatusCode)
	}
	if bytes.Contains(env.Data, []byte("password_hash")) {
		t.Errorf("profile response leaks password hash: %s", env.Data)
	}

	resp, env = doJSON(t, "POST", ts.URL+"/api/v1/users/login", "", map[string]string{
		"email":    "redact@example.com",
		"password": "hunter2hunter2",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login status = %d", resp.StatusCode)
	}
	if bytes.Contains(env.Data, []byte("password_hash")) {
		t.Errorf("login response leaks password hash: %s", env.Data)
	}
}

func TestDeleteAccountCascades(t *testing.T) {
	_, ts := newTestServer(t)
	token := registerAndLogin(t, ts.URL, "cascade@example.com")

	resp, _ := doJSON(t, "POST", ts.URL+"/api/v1/heartbeat", token, map[string]interface{}{"bpm": 70})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d", resp.StatusCode)
	}

	resp, _ = doJSON(t, "DELETE", ts.URL+"/api/v1/users/me", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete account status = %d", resp.StatusCode)
	}

	resp, _ = doJSON(t, "GET", ts.URL+"/api/v1/users/me", token, nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("after delete: status = %d, want 401", resp.StatusCode)
	}
}

func TestHealthz(t *testing.T) {
	_, ts := newTestServer(t)

	resp, env := doJSON(t, "GET", ts.URL+"/healthz", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	if env.Status != "ok" {
		t.Errorf("envelope status = %q, want ok", env.Status)
	}
}
