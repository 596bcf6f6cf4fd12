// ABOUTME: CLI command showing the most recent reading per vital type.
// ABOUTME: Latest means highest recorded_at, not most recently entered.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var latestCmd = &cobra.Command{
	Use:   "latest",
	Short: "Show the latest reading for each vital",
	Long: `Show the most recent reading for each vital type.

"Latest" is by measurement time: a back-dated entry never displaces a
newer reading.

EXAMPLE:

  vitals latest`,
	RunE: func(cmd *cobra.Command, args []string) error {
		u, err := resolveUser()
		if err != nil {
			return err
		}

		faint := color.New(color.Faint)
		found := false

		if r, err := repo.LatestBP(u.ID); err == nil {
			found = true
			fmt.Printf("bp          %d/%d mmHg (%s)  %s\n",
				r.Systolic, r.Diastolic, r.Category,
				faint.Sprint(r.RecordedAt.Format("2006-01-02 15:04")))
		}
		if r, err := repo.LatestWeight(u.ID); err == nil {
			found = true
			fmt.Printf("weight      %.1f kg, BMI %.1f (%s)  %s\n",
				r.WeightKg, r.BMI, r.Category,
				faint.Sprint(r.RecordedAt.Format("2006-01-02 15:04")))
		}
		if r, err := repo.LatestHeartRate(u.ID); err == nil {
			found = true
			fmt.Printf("heart_rate  %d bpm (%s)  %s\n",
				r.BPM, r.Status,
				faint.Sprint(r.RecordedAt.Format("2006-01-02 15:04")))
		}

		if !found {
			fmt.Println("No readings found.")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(latestCmd)
}
