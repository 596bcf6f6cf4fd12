// ABOUTME: Tests for MCP server, tools, and resources.
// ABOUTME: Covers NewServer, tool handlers, and resource handlers.
package mcp

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/harperreed/vitals/internal/models"
	"github.com/harperreed/vitals/internal/storage"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// setupTestServer creates a server over a temp database with one user.
func setupTestServer(t *testing.T) (*Server, *storage.DB, *models.User) {
	t.Helper()

	db, err := storage.Open(filepath.Join(t.TempDir(), "vitals.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	u, err := models.NewUser("Test User", "mcp@example.com", "hunter2hunter2")
	if err != nil {
		t.Fatalf("NewUser failed: %v", err)
	}
	height := 175.0
	u.HeightCm = &height
	if err := db.CreateUser(u); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	server, err := NewServer(db, u)
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}
	return server, db, u
}

func TestNewServer(t *testing.T) {
	server, _, _ := setupTestServer(t)

	if server.mcpServer == nil {
		t.Error("Expected non-nil mcpServer")
	}
	if server.repo == nil {
		t.Error("Expected non-nil repo")
	}
	if server.user == nil {
		t.Error("Expected non-nil user")
	}
}

func TestHandleRecordBP(t *testing.T) {
	server, _, _ := setupTestServer(t)
	ctx := context.Background()

	tests := []struct {
		name         string
		input        recordBPInput
		wantErr      bool
		wantCategory string
	}{
		{
			name:         "normal reading",
			input:        recordBPInput{Systolic: 118, Diastolic: 76},
			wantCategory: "normal",
		},
		{
			name:         "stage2 with pulse",
			input:        recordBPInput{Systolic: 145, Diastolic: 95, Pulse: 80},
			wantCategory: "stage2",
		},
		{
			name:         "with RFC3339 timestamp",
			input:        recordBPInput{Systolic: 120, Diastolic: 78, RecordedAt: "2026-01-31T08:00:00Z"},
			wantCategory: "elevated",
		},
		{
			name:    "systolic below diastolic",
			input:   recordBPInput{Systolic: 80, Diastolic: 120},
			wantErr: true,
		},
		{
			name:    "unparseable timestamp",
			input:   recordBPInput{Systolic: 120, Diastolic: 78, RecordedAt: "yesterday-ish"},
			wantErr: true,
		},
		{
			name:    "out of range",
			input:   recordBPInput{Systolic: 500, Diastolic: 90},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, output, err := server.handleRecordBP(ctx, &mcp.CallToolRequest{}, tt.input)

			if tt.wantErr {
				if err == nil {
					t.Error("Expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Errorf("Unexpected error: %v", err)
				return
			}
			if output.Category != tt.wantCategory {
				t.Errorf("Category = %s, want %s", output.Category, tt.wantCategory)
			}
			if output.ID == "" || output.Message == "" {
				t.Error("Expected non-empty ID and message")
			}
		})
	}
}

func TestHandleRecordWeight(t *testing.T) {
	server, _, _ := setupTestServer(t)
	ctx := context.Background()

	// Height from profile
	_, output, err := server.handleRecordWeight(ctx, &mcp.CallToolRequest{}, recordWeightInput{
		WeightKg: 70,
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if output.BMI != 22.9 {
		t.Errorf("BMI = %v, want 22.9", output.BMI)
	}
	if output.Category != "normal" {
		t.Errorf("Category = %s, want normal", output.Category)
	}

	// Explicit height overrides profile
	_, output, err = server.handleRecordWeight(ctx, &mcp.CallToolRequest{}, recordWeightInput{
		WeightKg: 82.5,
		HeightCm: 180,
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if output.BMI != 25.5 {
		t.Errorf("BMI = %v, want 25.5", output.BMI)
	}
	if output.Category != "overweight" {
		t.Errorf("Category = %s, want overweight", output.Category)
	}
}

func TestHandleRecordWeightNoHeight(t *testing.T) {
	server, _, u := setupTestServer(t)
	ctx := context.Background()

	u.HeightCm = nil
	_, _, err := server.handleRecordWeight(ctx, &mcp.CallToolRequest{}, recordWeightInput{
		WeightKg: 70,
	})
	if err == nil {
		t.Error("Expected error when no height is available")
	}
}

func TestHandleRecordHeartRate(t *testing.T) {
	server, _, _ := setupTestServer(t)
	ctx := context.Background()

	_, output, err := server.handleRecordHeartRate(ctx, &mcp.CallToolRequest{}, recordHeartRateInput{
		BPM: 55,
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if output.Category != "low" {
		t.Errorf("Category = %s, want low", output.Category)
	}

	_, _, err = server.handleRecordHeartRate(ctx, &mcp.CallToolRequest{}, recordHeartRateInput{
		BPM: 500,
	})
	if err == nil {
		t.Error("Expected error for out-of-range bpm")
	}
}

func TestHandleListReadings(t *testing.T) {
	server, db, u := setupTestServer(t)
	ctx := context.Background()

	db.CreateBP(models.NewBPReading(u.ID, 120, 80))
	db.CreateBP(models.NewBPReading(u.ID, 118, 76))

	_, output, err := server.handleListReadings(ctx, &mcp.CallToolRequest{}, listReadingsInput{
		Vital: "bp",
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	readings, ok := output.([]*models.BPReading)
	if !ok {
		t.Fatalf("Expected bp reading slice, got %T", output)
	}
	if len(readings) != 2 {
		t.Errorf("len = %d, want 2", len(readings))
	}
}

func TestHandleListReadingsEmpty(t *testing.T) {
	server, _, _ := setupTestServer(t)
	ctx := context.Background()

	_, output, err := server.handleListReadings(ctx, &mcp.CallToolRequest{}, listReadingsInput{
		Vital: "weight",
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	msg, ok := output.(map[string]interface{})
	if !ok {
		t.Fatalf("Expected message map, got %T", output)
	}
	if msg["message"] == "" {
		t.Error("Expected non-empty message")
	}
}

func TestHandleListReadingsUnknownVital(t *testing.T) {
	server, _, _ := setupTestServer(t)
	ctx := context.Background()

	_, _, err := server.handleListReadings(ctx, &mcp.CallToolRequest{}, listReadingsInput{
		Vital: "steps",
	})
	if err == nil {
		t.Error("Expected error for unknown vital type")
	}
}

func TestHandleLatestVitals(t *testing.T) {
	server, db, u := setupTestServer(t)
	ctx := context.Background()

	db.CreateBP(models.NewBPReading(u.ID, 120, 80))
	db.CreateHeartRate(models.NewHeartRateReading(u.ID, 64))

	_, output, err := server.handleLatestVitals(ctx, &mcp.CallToolRequest{}, struct{}{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	results, ok := output.(map[string]interface{})
	if !ok {
		t.Fatalf("Expected map output, got %T", output)
	}
	if _, ok := results["bp"]; !ok {
		t.Error("Expected bp in results")
	}
	if _, ok := results["heart_rate"]; !ok {
		t.Error("Expected heart_rate in results")
	}
	if _, ok := results["weight"]; ok {
		t.Error("Should not have weight with no records")
	}
}

func TestHandleDeleteReading(t *testing.T) {
	server, db, u := setupTestServer(t)
	ctx := context.Background()

	r := models.NewHeartRateReading(u.ID, 70)
	db.CreateHeartRate(r)

	_, output, err := server.handleDeleteReading(ctx, &mcp.CallToolRequest{}, deleteReadingInput{
		Vital: "heart_rate",
		ID:    r.ID.String()[:8],
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if output.Message == "" {
		t.Error("Expected non-empty message")
	}

	_, _, err = server.handleDeleteReading(ctx, &mcp.CallToolRequest{}, deleteReadingInput{
		Vital: "heart_rate",
		ID:    r.ID.String()[:8],
	})
	if err == nil {
		t.Error("Expected error deleting twice")
	}
}

func TestHandleSetReminderAndDue(t *testing.T) {
	server, db, u := setupTestServer(t)
	ctx := context.Background()

	_, output, err := server.handleSetReminder(ctx, &mcp.CallToolRequest{}, setReminderInput{
		Vital:    "bp",
		Interval: "24h",
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if output.Message == "" {
		t.Error("Expected non-empty message")
	}

	// No measurement yet: due immediately
	_, dueOut, err := server.handleDueReminders(ctx, &mcp.CallToolRequest{}, struct{}{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if _, ok := dueOut.(map[string]interface{}); ok {
		t.Fatal("Expected due reminders, got empty message")
	}

	// Fresh measurement clears it
	db.CreateBP(models.NewBPReading(u.ID, 120, 80))
	_, dueOut, err = server.handleDueReminders(ctx, &mcp.CallToolRequest{}, struct{}{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if _, ok := dueOut.(map[string]interface{}); !ok {
		t.Errorf("Expected empty message, got %T", dueOut)
	}
}

func TestHandleSetReminderInvalid(t *testing.T) {
	server, _, _ := setupTestServer(t)
	ctx := context.Background()

	_, _, err := server.handleSetReminder(ctx, &mcp.CallToolRequest{}, setReminderInput{
		Vital:    "bp",
		Interval: "nonsense",
	})
	if err == nil {
		t.Error("Expected error for bad interval")
	}

	_, _, err = server.handleSetReminder(ctx, &mcp.CallToolRequest{}, setReminderInput{
		Vital:    "steps",
		Interval: "24h",
	})
	if err == nil {
		t.Error("Expected error for unknown vital")
	}
}

func TestHandleRecentResource(t *testing.T) {
	server, db, u := setupTestServer(t)
	ctx := context.Background()

	db.CreateBP(models.NewBPReading(u.ID, 120, 80))
	db.CreateWeight(models.NewWeightRecord(u.ID, 70, 175))

	result, err := server.handleRecentResource(ctx, &mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(result.Contents) == 0 {
		t.Fatal("Expected non-empty contents")
	}
	if result.Contents[0].URI != "vitals://recent" {
		t.Errorf("URI = %s, want vitals://recent", result.Contents[0].URI)
	}
	if result.Contents[0].MIMEType != "application/json" {
		t.Errorf("MIMEType = %s, want application/json", result.Contents[0].MIMEType)
	}
	if result.Contents[0].Text == "" {
		t.Error("Expected non-empty Text")
	}
}

func TestHandleTodayResourceFiltersOldData(t *testing.T) {
	server, db, u := setupTestServer(t)
	ctx := context.Background()

	old := models.NewBPReading(u.ID, 150, 95)
	old.WithRecordedAt(time.Now().Add(-48 * time.Hour))
	db.CreateBP(old)

	today := models.NewHeartRateReading(u.ID, 77)
	db.CreateHeartRate(today)

	result, err := server.handleTodayResource(ctx, &mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	text := result.Contents[0].Text
	if !strings.Contains(text, "\"bpm\": 77") {
		t.Error("Expected today's heart rate in result")
	}
	if strings.Contains(text, "\"systolic\": 150") {
		t.Error("Old reading should be filtered out")
	}
}

func TestHandleSummaryResource(t *testing.T) {
	server, db, u := setupTestServer(t)
	ctx := context.Background()

	db.CreateBP(models.NewBPReading(u.ID, 135, 85))
	db.CreateWeight(models.NewWeightRecord(u.ID, 70, 175))
	db.CreateHeartRate(models.NewHeartRateReading(u.ID, 64))

	result, err := server.handleSummaryResource(ctx, &mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.Contents[0].URI != "vitals://summary" {
		t.Errorf("URI = %s, want vitals://summary", result.Contents[0].URI)
	}

	text := result.Contents[0].Text
	if !strings.Contains(text, "stage1") {
		t.Error("Expected bp category in summary")
	}
	if !strings.Contains(text, "22.9") {
		t.Error("Expected BMI in summary")
	}
}

func TestHandleSummaryResourceEmpty(t *testing.T) {
	server, _, _ := setupTestServer(t)
	ctx := context.Background()

	result, err := server.handleSummaryResource(ctx, &mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result == nil {
		t.Fatal("Expected non-nil result")
	}
}
