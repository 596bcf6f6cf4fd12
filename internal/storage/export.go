// ABOUTME: Export and import functionality for vitals data.
// ABOUTME: Supports JSON and YAML export formats.
package storage

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/harperreed/vitals/internal/models"
	"gopkg.in/yaml.v3"
)

// ExportData represents the full export format for vitals data.
// Sessions are deliberately excluded; tokens do not survive a restore.
type ExportData struct {
	Version    string                     `json:"version" yaml:"version"`
	ExportedAt time.Time                  `json:"exported_at" yaml:"exported_at"`
	Tool       string                     `json:"tool" yaml:"tool"`
	Users      []*models.User             `json:"users" yaml:"users"`
	BP         []*models.BPReading        `json:"bp" yaml:"bp"`
	Weight     []*models.WeightRecord     `json:"weight" yaml:"weight"`
	HeartRate  []*models.HeartRateReading `json:"heart_rate" yaml:"heart_rate"`
	Reminders  []*models.Reminder         `json:"reminders" yaml:"reminders"`
}

// GetAllData retrieves all data for export.
func (d *DB) GetAllData() (*ExportData, error) {
	users, err := d.ListUsers()
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	data := &ExportData{
		Version:    "1.0",
		ExportedAt: time.Now(),
		Tool:       "vitals",
		Users:      users,
	}

	for _, u := range users {
		bp, err := d.ListBP(u.ID, 0)
		if err != nil {
			return nil, fmt.Errorf("list bp readings: %w", err)
		}
		data.BP = append(data.BP, bp...)

		weight, err := d.ListWeight(u.ID, 0)
		if err != nil {
			return nil, fmt.Errorf("list weight records: %w", err)
		}
		data.Weight = append(data.Weight, weight...)

		hr, err := d.ListHeartRate(u.ID, 0)
		if err != nil {
			return nil, fmt.Errorf("list heart rate readings: %w", err)
		}
		data.HeartRate = append(data.HeartRate, hr...)

		reminders, err := d.ListReminders(u.ID)
		if err != nil {
			return nil, fmt.Errorf("list reminders: %w", err)
		}
		data.Reminders = append(data.Reminders, reminders...)
	}

	return data, nil
}

// ImportData imports data from an export file. Users are created first
// so reading rows satisfy the foreign keys.
func (d *DB) ImportData(data *ExportData) error {
	for _, u := range data.Users {
		if err := d.CreateUser(u); err != nil {
			return fmt.Errorf("import user: %w", err)
		}
	}
	for _, r := range data.BP {
		if err := d.CreateBP(r); err != nil {
			return fmt.Errorf("import bp reading: %w", err)
		}
	}
	for _, r := range data.Weight {
		if err := d.CreateWeight(r); err != nil {
			return fmt.Errorf("import weight record: %w", err)
		}
	}
	for _, r := range data.HeartRate {
		if err := d.CreateHeartRate(r); err != nil {
			return fmt.Errorf("import heart rate reading: %w", err)
		}
	}
	for _, rm := range data.Reminders {
		if err := d.SetReminder(rm); err != nil {
			return fmt.Errorf("import reminder: %w", err)
		}
	}
	return nil
}

// ExportJSON serializes all data as indented JSON.
func ExportJSON(repo Repository) ([]byte, error) {
	data, err := repo.GetAllData()
	if err != nil {
		return nil, err
	}
	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal export: %w", err)
	}
	return out, nil
}

// ExportYAML serializes all data as YAML.
func ExportYAML(repo Repository) ([]byte, error) {
	data, err := repo.GetAllData()
	if err != nil {
		return nil, err
	}
	out, err := yaml.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("marshal export: %w", err)
	}
	return out, nil
}

// ImportJSON restores data from a JSON export.
func ImportJSON(repo Repository, raw []byte) error {
	var data ExportData
	if err := json.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("parse export file: %w", err)
	}
	return repo.ImportData(&data)
}
