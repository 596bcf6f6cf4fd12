// ABOUTME: MCP resource implementations for vital-sign data.
// ABOUTME: Provides vitals://recent, vitals://today, and vitals://summary resources.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/harperreed/vitals/internal/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerResources() {
	// vitals://recent - last 10 readings per vital type
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         "vitals://recent",
		Name:        "Recent Readings",
		Description: "Last 10 readings for each vital type",
		MIMEType:    "application/json",
	}, s.handleRecentResource)

	// vitals://today - everything recorded today
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         "vitals://today",
		Name:        "Today's Readings",
		Description: "All readings recorded today",
		MIMEType:    "application/json",
	}, s.handleTodayResource)

	// vitals://summary - latest of each vital with derived categories
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         "vitals://summary",
		Name:        "Vitals Summary",
		Description: "Latest reading for each vital type with derived category",
		MIMEType:    "application/json",
	}, s.handleSummaryResource)
}

// Resource handlers

func (s *Server) handleRecentResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	bp, err := s.repo.ListBP(s.user.ID, 10)
	if err != nil {
		return nil, fmt.Errorf("failed to list bp readings: %w", err)
	}
	weight, err := s.repo.ListWeight(s.user.ID, 10)
	if err != nil {
		return nil, fmt.Errorf("failed to list weight records: %w", err)
	}
	hr, err := s.repo.ListHeartRate(s.user.ID, 10)
	if err != nil {
		return nil, fmt.Errorf("failed to list heart rate readings: %w", err)
	}

	result := map[string]interface{}{
		"bp":         bp,
		"weight":     weight,
		"heart_rate": hr,
	}

	return resourceResult("vitals://recent", result)
}

func (s *Server) handleTodayResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	now := time.Now()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	bp, err := s.repo.ListBP(s.user.ID, 1000)
	if err != nil {
		return nil, fmt.Errorf("failed to list bp readings: %w", err)
	}
	var todayBP []*models.BPReading
	for _, r := range bp {
		if !r.RecordedAt.Before(todayStart) {
			todayBP = append(todayBP, r)
		}
	}

	weight, err := s.repo.ListWeight(s.user.ID, 1000)
	if err != nil {
		return nil, fmt.Errorf("failed to list weight records: %w", err)
	}
	var todayWeight []*models.WeightRecord
	for _, r := range weight {
		if !r.RecordedAt.Before(todayStart) {
			todayWeight = append(todayWeight, r)
		}
	}

	hr, err := s.repo.ListHeartRate(s.user.ID, 1000)
	if err != nil {
		return nil, fmt.Errorf("failed to list heart rate readings: %w", err)
	}
	var todayHR []*models.HeartRateReading
	for _, r := range hr {
		if !r.RecordedAt.Before(todayStart) {
			todayHR = append(todayHR, r)
		}
	}

	result := map[string]interface{}{
		"date":       todayStart.Format("2006-01-02"),
		"bp":         todayBP,
		"weight":     todayWeight,
		"heart_rate": todayHR,
		"counts": map[string]int{
			"bp":         len(todayBP),
			"weight":     len(todayWeight),
			"heart_rate": len(todayHR),
		},
	}

	return resourceResult("vitals://today", result)
}

func (s *Server) handleSummaryResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	latest := make(map[string]interface{})

	if bp, err := s.repo.LatestBP(s.user.ID); err == nil {
		latest["bp"] = map[string]interface{}{
			"systolic":    bp.Systolic,
			"diastolic":   bp.Diastolic,
			"category":    bp.Category,
			"recorded_at": bp.RecordedAt.Format(time.RFC3339),
		}
	}
	if w, err := s.repo.LatestWeight(s.user.ID); err == nil {
		latest["weight"] = map[string]interface{}{
			"weight_kg":   w.WeightKg,
			"bmi":         w.BMI,
			"category":    w.Category,
			"recorded_at": w.RecordedAt.Format(time.RFC3339),
		}
	}
	if hr, err := s.repo.LatestHeartRate(s.user.ID); err == nil {
		latest["heart_rate"] = map[string]interface{}{
			"bpm":         hr.BPM,
			"status":      hr.Status,
			"recorded_at": hr.RecordedAt.Format(time.RFC3339),
		}
	}

	result := map[string]interface{}{
		"generated_at": time.Now().Format(time.RFC3339),
		"user":         s.user.Name,
		"latest":       latest,
	}

	return resourceResult("vitals://summary", result)
}

func resourceResult(uri string, v interface{}) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
