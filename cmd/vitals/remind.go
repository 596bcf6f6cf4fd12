// ABOUTME: CLI commands for measurement reminders.
// ABOUTME: Set intervals and show time remaining per vital.
package main

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/harperreed/vitals/internal/models"
	"github.com/spf13/cobra"
)

var remindDisable bool

var remindCmd = &cobra.Command{
	Use:   "remind",
	Short: "Manage measurement reminders",
	Long: `Manage per-vital measurement reminders.

A reminder fires when your latest measurement of that vital is older
than the interval. Nothing is scheduled ahead of time; the remaining
time is always computed from the last measurement, so logging a new
reading resets the clock.

EXAMPLES:

  vitals remind set bp 24h         # Remind daily for blood pressure
  vitals remind set weight 168h    # Weekly weigh-in
  vitals remind set bp 24h --off   # Keep the setting but disable it
  vitals remind status             # Show remaining time per reminder`,
}

var remindSetCmd = &cobra.Command{
	Use:   "set <vital> <interval>",
	Short: "Set a reminder interval",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		u, err := resolveUser()
		if err != nil {
			return err
		}

		interval, err := time.ParseDuration(args[1])
		if err != nil {
			return fmt.Errorf("invalid interval: %s (use durations like 24h or 90m)", args[1])
		}

		rm := models.NewReminder(u.ID, models.VitalType(args[0]), interval)
		rm.Enabled = !remindDisable
		if err := rm.Validate(); err != nil {
			return err
		}
		if err := repo.SetReminder(rm); err != nil {
			return fmt.Errorf("failed to set reminder: %w", err)
		}

		if rm.Enabled {
			color.Green("✓ Reminder for %s every %s", rm.Vital, interval)
		} else {
			color.Yellow("✓ Reminder for %s saved (disabled)", rm.Vital)
		}
		return nil
	},
}

var remindStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show reminder status",
	RunE: func(cmd *cobra.Command, args []string) error {
		u, err := resolveUser()
		if err != nil {
			return err
		}

		reminders, err := repo.ListReminders(u.ID)
		if err != nil {
			return fmt.Errorf("failed to list reminders: %w", err)
		}
		if len(reminders) == 0 {
			fmt.Println("No reminders set.")
			return nil
		}

		now := time.Now()
		faint := color.New(color.Faint)
		for _, rm := range reminders {
			last, err := repo.LastMeasurement(u.ID, rm.Vital)
			if err != nil {
				return fmt.Errorf("failed to check measurements: %w", err)
			}

			state := faint.Sprint("disabled")
			if rm.Enabled {
				if rm.Due(last, now) {
					state = color.RedString("due now")
				} else {
					state = fmt.Sprintf("in %s", rm.Remaining(last, now).Round(time.Minute))
				}
			}
			fmt.Printf("%-12s every %-8s %s\n", rm.Vital, rm.Interval, state)
		}
		return nil
	},
}

func init() {
	remindSetCmd.Flags().BoolVar(&remindDisable, "off", false, "save the reminder disabled")
	remindCmd.AddCommand(remindSetCmd)
	remindCmd.AddCommand(remindStatusCmd)
	rootCmd.AddCommand(remindCmd)
}
