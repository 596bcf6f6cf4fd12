// ABOUTME: MCP tool implementations for vital-sign readings.
// ABOUTME: Provides record, list, latest, delete, and reminder operations.
package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/harperreed/vitals/internal/models"
	"github.com/harperreed/vitals/internal/reminder"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerTools() {
	// record_bp
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "record_bp",
		Description: "Record a blood pressure reading (systolic/diastolic, optional pulse)",
	}, s.handleRecordBP)

	// record_weight
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "record_weight",
		Description: "Record a weight measurement; BMI is derived from height",
	}, s.handleRecordWeight)

	// record_heart_rate
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "record_heart_rate",
		Description: "Record a resting heart rate reading",
	}, s.handleRecordHeartRate)

	// list_readings
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_readings",
		Description: "List recent readings for a vital type (bp, weight, heart_rate)",
	}, s.handleListReadings)

	// latest_vitals
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "latest_vitals",
		Description: "Get the most recent reading for each vital type",
	}, s.handleLatestVitals)

	// delete_reading
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "delete_reading",
		Description: "Delete a reading by ID or ID prefix",
	}, s.handleDeleteReading)

	// set_reminder
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "set_reminder",
		Description: "Set a measurement reminder interval for a vital type",
	}, s.handleSetReminder)

	// due_reminders
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "due_reminders",
		Description: "List measurement reminders that are due now",
	}, s.handleDueReminders)
}

// Tool input/output types

type recordBPInput struct {
	Systolic   int    `json:"systolic" jsonschema:"Systolic pressure in mmHg"`
	Diastolic  int    `json:"diastolic" jsonschema:"Diastolic pressure in mmHg"`
	Pulse      int    `json:"pulse,omitempty" jsonschema:"Pulse in bpm taken with the reading"`
	RecordedAt string `json:"recorded_at,omitempty" jsonschema:"Timestamp (ISO 8601), defaults to now"`
}

type readingOutput struct {
	ID       string `json:"id"`
	Category string `json:"category"`
	Message  string `json:"message"`
}

type recordWeightInput struct {
	WeightKg   float64 `json:"weight_kg" jsonschema:"Weight in kilograms"`
	HeightCm   float64 `json:"height_cm,omitempty" jsonschema:"Height in cm, defaults to the profile height"`
	RecordedAt string  `json:"recorded_at,omitempty" jsonschema:"Timestamp (ISO 8601), defaults to now"`
}

type weightOutput struct {
	ID       string  `json:"id"`
	BMI      float64 `json:"bmi"`
	Category string  `json:"category"`
	Message  string  `json:"message"`
}

type recordHeartRateInput struct {
	BPM        int    `json:"bpm" jsonschema:"Heart rate in beats per minute"`
	RecordedAt string `json:"recorded_at,omitempty" jsonschema:"Timestamp (ISO 8601), defaults to now"`
}

type listReadingsInput struct {
	Vital string `json:"vital" jsonschema:"Vital type (bp, weight, heart_rate)"`
	Limit int    `json:"limit,omitempty" jsonschema:"Max results (default 20)"`
}

type deleteReadingInput struct {
	Vital string `json:"vital" jsonschema:"Vital type (bp, weight, heart_rate)"`
	ID    string `json:"id" jsonschema:"Reading ID or prefix"`
}

type setReminderInput struct {
	Vital    string `json:"vital" jsonschema:"Vital type (bp, weight, heart_rate)"`
	Interval string `json:"interval" jsonschema:"Reminder interval as a duration (24h, 90m)"`
	Enabled  *bool  `json:"enabled,omitempty" jsonschema:"Whether the reminder fires, defaults to true"`
}

type simpleOutput struct {
	Message string `json:"message"`
}

// parseTimestamp accepts RFC 3339 or a bare "2006-01-02 15:04".
func parseTimestamp(raw string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		t, err = time.Parse("2006-01-02 15:04", raw)
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid recorded_at %q: use RFC 3339 or YYYY-MM-DD HH:MM", raw)
	}
	return t, nil
}

// Tool handlers

func (s *Server) handleRecordBP(ctx context.Context, req *mcp.CallToolRequest, input recordBPInput) (*mcp.CallToolResult, readingOutput, error) {
	r := models.NewBPReading(s.user.ID, input.Systolic, input.Diastolic)
	if input.Pulse > 0 {
		r.WithPulse(input.Pulse)
	}
	if input.RecordedAt != "" {
		t, err := parseTimestamp(input.RecordedAt)
		if err != nil {
			return nil, readingOutput{}, err
		}
		r.WithRecordedAt(t)
	}

	if err := r.Validate(); err != nil {
		return nil, readingOutput{}, err
	}
	if err := s.repo.CreateBP(r); err != nil {
		return nil, readingOutput{}, fmt.Errorf("failed to create reading: %w", err)
	}

	return nil, readingOutput{
		ID:       r.ID.String()[:8],
		Category: string(r.Category),
		Message:  fmt.Sprintf("Recorded %d/%d (%s) (ID: %s)", r.Systolic, r.Diastolic, r.Category, r.ID.String()[:8]),
	}, nil
}

func (s *Server) handleRecordWeight(ctx context.Context, req *mcp.CallToolRequest, input recordWeightInput) (*mcp.CallToolResult, weightOutput, error) {
	height := input.HeightCm
	if height == 0 {
		if s.user.HeightCm == nil {
			return nil, weightOutput{}, fmt.Errorf("height_cm required: no height on profile")
		}
		height = *s.user.HeightCm
	}

	r := models.NewWeightRecord(s.user.ID, input.WeightKg, height)
	if input.RecordedAt != "" {
		t, err := parseTimestamp(input.RecordedAt)
		if err != nil {
			return nil, weightOutput{}, err
		}
		r.WithRecordedAt(t)
	}

	if err := r.Validate(); err != nil {
		return nil, weightOutput{}, err
	}
	if err := s.repo.CreateWeight(r); err != nil {
		return nil, weightOutput{}, fmt.Errorf("failed to create record: %w", err)
	}

	return nil, weightOutput{
		ID:       r.ID.String()[:8],
		BMI:      r.BMI,
		Category: string(r.Category),
		Message:  fmt.Sprintf("Recorded %.1f kg, BMI %.1f (%s) (ID: %s)", r.WeightKg, r.BMI, r.Category, r.ID.String()[:8]),
	}, nil
}

func (s *Server) handleRecordHeartRate(ctx context.Context, req *mcp.CallToolRequest, input recordHeartRateInput) (*mcp.CallToolResult, readingOutput, error) {
	r := models.NewHeartRateReading(s.user.ID, input.BPM)
	if input.RecordedAt != "" {
		t, err := parseTimestamp(input.RecordedAt)
		if err != nil {
			return nil, readingOutput{}, err
		}
		r.WithRecordedAt(t)
	}

	if err := r.Validate(); err != nil {
		return nil, readingOutput{}, err
	}
	if err := s.repo.CreateHeartRate(r); err != nil {
		return nil, readingOutput{}, fmt.Errorf("failed to create reading: %w", err)
	}

	return nil, readingOutput{
		ID:       r.ID.String()[:8],
		Category: string(r.Status),
		Message:  fmt.Sprintf("Recorded %d bpm (%s) (ID: %s)", r.BPM, r.Status, r.ID.String()[:8]),
	}, nil
}

func (s *Server) handleListReadings(ctx context.Context, req *mcp.CallToolRequest, input listReadingsInput) (*mcp.CallToolResult, any, error) {
	if input.Limit <= 0 {
		input.Limit = 20
	}

	switch models.VitalType(input.Vital) {
	case models.VitalBloodPressure:
		readings, err := s.repo.ListBP(s.user.ID, input.Limit)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to list readings: %w", err)
		}
		if len(readings) == 0 {
			return nil, map[string]interface{}{"message": "No readings found."}, nil
		}
		return nil, readings, nil
	case models.VitalWeight:
		records, err := s.repo.ListWeight(s.user.ID, input.Limit)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to list records: %w", err)
		}
		if len(records) == 0 {
			return nil, map[string]interface{}{"message": "No records found."}, nil
		}
		return nil, records, nil
	case models.VitalHeartRate:
		readings, err := s.repo.ListHeartRate(s.user.ID, input.Limit)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to list readings: %w", err)
		}
		if len(readings) == 0 {
			return nil, map[string]interface{}{"message": "No readings found."}, nil
		}
		return nil, readings, nil
	default:
		return nil, nil, fmt.Errorf("unknown vital type: %s", input.Vital)
	}
}

func (s *Server) handleLatestVitals(ctx context.Context, req *mcp.CallToolRequest, input struct{}) (*mcp.CallToolResult, any, error) {
	results := make(map[string]interface{})

	if bp, err := s.repo.LatestBP(s.user.ID); err == nil {
		results["bp"] = bp
	}
	if w, err := s.repo.LatestWeight(s.user.ID); err == nil {
		results["weight"] = w
	}
	if hr, err := s.repo.LatestHeartRate(s.user.ID); err == nil {
		results["heart_rate"] = hr
	}

	return nil, results, nil
}

func (s *Server) handleDeleteReading(ctx context.Context, req *mcp.CallToolRequest, input deleteReadingInput) (*mcp.CallToolResult, simpleOutput, error) {
	var err error
	switch models.VitalType(input.Vital) {
	case models.VitalBloodPressure:
		err = s.repo.DeleteBP(s.user.ID, input.ID)
	case models.VitalWeight:
		err = s.repo.DeleteWeight(s.user.ID, input.ID)
	case models.VitalHeartRate:
		err = s.repo.DeleteHeartRate(s.user.ID, input.ID)
	default:
		return nil, simpleOutput{}, fmt.Errorf("unknown vital type: %s", input.Vital)
	}
	if err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to delete reading: %w", err)
	}

	return nil, simpleOutput{
		Message: fmt.Sprintf("Deleted %s reading: %s", input.Vital, input.ID),
	}, nil
}

func (s *Server) handleSetReminder(ctx context.Context, req *mcp.CallToolRequest, input setReminderInput) (*mcp.CallToolResult, simpleOutput, error) {
	interval, err := time.ParseDuration(input.Interval)
	if err != nil {
		return nil, simpleOutput{}, fmt.Errorf("interval must be a duration like 24h or 90m")
	}

	rm := models.NewReminder(s.user.ID, models.VitalType(input.Vital), interval)
	if input.Enabled != nil {
		rm.Enabled = *input.Enabled
	}
	if err := rm.Validate(); err != nil {
		return nil, simpleOutput{}, err
	}
	if err := s.repo.SetReminder(rm); err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to set reminder: %w", err)
	}

	return nil, simpleOutput{
		Message: fmt.Sprintf("Reminder for %s every %s", input.Vital, interval),
	}, nil
}

func (s *Server) handleDueReminders(ctx context.Context, req *mcp.CallToolRequest, input struct{}) (*mcp.CallToolResult, any, error) {
	due, err := reminder.Due(s.repo, s.user.ID, time.Now())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to compute reminders: %w", err)
	}
	if len(due) == 0 {
		return nil, map[string]interface{}{"message": "No reminders due."}, nil
	}
	return nil, due, nil
}
