// ABOUTME: CLI command for adding vital-sign readings.
// ABOUTME: Handles bp's two-value form plus weight and heartbeat.
package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/harperreed/vitals/internal/models"
	"github.com/spf13/cobra"
)

var (
	addAt     string
	addPulse  int
	addHeight float64
)

var addCmd = &cobra.Command{
	Use:     "add <vital> <value> [value2]",
	Aliases: []string{"a"},
	Short:   "Add a vital-sign reading",
	Long: `Add a reading. Blood pressure takes both systolic and diastolic values.

Examples:
  vitals add bp 120 80
  vitals add bp 135 85 --pulse 72
  vitals add weight 82.5
  vitals add weight 82.5 --height 180
  vitals add heartbeat 64 --at "2026-08-14 07:00"`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		u, err := resolveUser()
		if err != nil {
			return err
		}

		switch args[0] {
		case "bp":
			if len(args) < 3 {
				return fmt.Errorf("blood pressure requires two values: systolic and diastolic")
			}
			return addBloodPressure(u, args[1], args[2])
		case "weight":
			return addWeight(u, args[1])
		case "heartbeat", "heart_rate", "hr":
			return addHeartRate(u, args[1])
		default:
			return fmt.Errorf("unknown vital type: %s\nValid types: bp, weight, heartbeat", args[0])
		}
	},
}

func addBloodPressure(u *models.User, sysStr, diaStr string) error {
	sys, err := strconv.Atoi(sysStr)
	if err != nil {
		return fmt.Errorf("invalid systolic value: %s", sysStr)
	}
	dia, err := strconv.Atoi(diaStr)
	if err != nil {
		return fmt.Errorf("invalid diastolic value: %s", diaStr)
	}

	r := models.NewBPReading(u.ID, sys, dia)
	if addPulse > 0 {
		r.WithPulse(addPulse)
	}
	if err := applyAt(&r.RecordedAt); err != nil {
		return err
	}

	if err := r.Validate(); err != nil {
		return err
	}
	if err := repo.CreateBP(r); err != nil {
		return fmt.Errorf("failed to create reading: %w", err)
	}

	color.Green("✓ Added blood pressure")
	fmt.Printf("  %s %d/%d mmHg (%s)\n",
		color.New(color.Faint).Sprint(r.ID.String()[:8]),
		r.Systolic, r.Diastolic, r.Category)
	return nil
}

func addWeight(u *models.User, weightStr string) error {
	weight, err := strconv.ParseFloat(weightStr, 64)
	if err != nil {
		return fmt.Errorf("invalid weight value: %s", weightStr)
	}

	height := addHeight
	if height == 0 {
		if u.HeightCm == nil {
			return fmt.Errorf("no height on profile: pass --height or run 'vitals user update --height'")
		}
		height = *u.HeightCm
	}

	r := models.NewWeightRecord(u.ID, weight, height)
	if err := applyAt(&r.RecordedAt); err != nil {
		return err
	}

	if err := r.Validate(); err != nil {
		return err
	}
	if err := repo.CreateWeight(r); err != nil {
		return fmt.Errorf("failed to create record: %w", err)
	}

	color.Green("✓ Added weight")
	fmt.Printf("  %s %.1f kg, BMI %.1f (%s)\n",
		color.New(color.Faint).Sprint(r.ID.String()[:8]),
		r.WeightKg, r.BMI, r.Category)
	return nil
}

func addHeartRate(u *models.User, bpmStr string) error {
	bpm, err := strconv.Atoi(bpmStr)
	if err != nil {
		return fmt.Errorf("invalid heart rate value: %s", bpmStr)
	}

	r := models.NewHeartRateReading(u.ID, bpm)
	if err := applyAt(&r.RecordedAt); err != nil {
		return err
	}

	if err := r.Validate(); err != nil {
		return err
	}
	if err := repo.CreateHeartRate(r); err != nil {
		return fmt.Errorf("failed to create reading: %w", err)
	}

	color.Green("✓ Added heart rate")
	fmt.Printf("  %s %d bpm (%s)\n",
		color.New(color.Faint).Sprint(r.ID.String()[:8]),
		r.BPM, r.Status)
	return nil
}

// applyAt overrides a recorded_at timestamp from the --at flag.
func applyAt(recordedAt *time.Time) error {
	if addAt == "" {
		return nil
	}
	t, err := parseTime(addAt)
	if err != nil {
		return fmt.Errorf("invalid timestamp: %s", addAt)
	}
	*recordedAt = t
	return nil
}

func parseTime(s string) (time.Time, error) {
	formats := []string{
		"2006-01-02 15:04",
		"2006-01-02T15:04",
		"2006-01-02",
		time.RFC3339,
	}
	for _, f := range formats {
		if t, err := time.Parse(f, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time format")
}

func init() {
	addCmd.Flags().StringVar(&addAt, "at", "", "timestamp (YYYY-MM-DD HH:MM)")
	addCmd.Flags().IntVar(&addPulse, "pulse", 0, "pulse in bpm (bp only)")
	addCmd.Flags().Float64Var(&addHeight, "height", 0, "height in cm (weight only, defaults to profile)")
	rootCmd.AddCommand(addCmd)
}
