// ABOUTME: CLI command for listing vital-sign readings.
// ABOUTME: One table per vital type, most recent first.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var listLimit int

var listCmd = &cobra.Command{
	Use:     "list <vital>",
	Aliases: []string{"ls", "l"},
	Short:   "List vital-sign readings",
	Long: `List recent readings for one vital type, most recent first.

OUTPUT FORMAT:

  Each line shows: ID  TIMESTAMP  VALUES  (CATEGORY)

  The ID is an 8-character prefix you can use with delete commands.

EXAMPLES:

  vitals list bp             # Last 20 blood pressure readings
  vitals list weight -n 50   # Last 50 weight entries
  vitals list heartbeat      # Heart rate readings`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		u, err := resolveUser()
		if err != nil {
			return err
		}

		faint := color.New(color.Faint)
		switch args[0] {
		case "bp":
			readings, err := repo.ListBP(u.ID, listLimit)
			if err != nil {
				return fmt.Errorf("failed to list readings: %w", err)
			}
			if len(readings) == 0 {
				fmt.Println("No readings found.")
				return nil
			}
			for _, r := range readings {
				pulse := ""
				if r.Pulse != nil {
					pulse = fmt.Sprintf(" pulse %d", *r.Pulse)
				}
				fmt.Printf("%s %s %d/%d mmHg%s (%s)\n",
					faint.Sprint(r.ID.String()[:8]),
					faint.Sprint(r.RecordedAt.Format("2006-01-02 15:04")),
					r.Systolic, r.Diastolic, pulse, r.Category)
			}
		case "weight":
			records, err := repo.ListWeight(u.ID, listLimit)
			if err != nil {
				return fmt.Errorf("failed to list records: %w", err)
			}
			if len(records) == 0 {
				fmt.Println("No records found.")
				return nil
			}
			for _, r := range records {
				fmt.Printf("%s %s %.1f kg, BMI %.1f (%s)\n",
					faint.Sprint(r.ID.String()[:8]),
					faint.Sprint(r.RecordedAt.Format("2006-01-02 15:04")),
					r.WeightKg, r.BMI, r.Category)
			}
		case "heartbeat", "heart_rate", "hr":
			readings, err := repo.ListHeartRate(u.ID, listLimit)
			if err != nil {
				return fmt.Errorf("failed to list readings: %w", err)
			}
			if len(readings) == 0 {
				fmt.Println("No readings found.")
				return nil
			}
			for _, r := range readings {
				fmt.Printf("%s %s %d bpm (%s)\n",
					faint.Sprint(r.ID.String()[:8]),
					faint.Sprint(r.RecordedAt.Format("2006-01-02 15:04")),
					r.BPM, r.Status)
			}
		default:
			return fmt.Errorf("unknown vital type: %s\nValid types: bp, weight, heartbeat", args[0])
		}

		return nil
	},
}

func init() {
	listCmd.Flags().IntVarP(&listLimit, "limit", "n", 20, "max number of results")
	rootCmd.AddCommand(listCmd)
}
