// ABOUTME: CLI command for deleting vital-sign readings.
// ABOUTME: Supports deletion by full ID or ID prefix.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:     "delete <vital> <id>",
	Aliases: []string{"del", "rm"},
	Short:   "Delete a reading",
	Long: `Delete a reading by its ID or ID prefix.

You can use either the full UUID or just the first few characters.
The ID prefix is shown in the first column of 'vitals list' output.

EXAMPLES:

  vitals delete bp abc12345        # Delete by 8-char prefix
  vitals rm weight abc1            # Short prefix (if unique)

CAUTION:

  This permanently deletes the reading. There is no undo.
  If the prefix matches multiple readings, an error is returned.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		u, err := resolveUser()
		if err != nil {
			return err
		}

		vital, idOrPrefix := args[0], args[1]
		switch vital {
		case "bp":
			err = repo.DeleteBP(u.ID, idOrPrefix)
		case "weight":
			err = repo.DeleteWeight(u.ID, idOrPrefix)
		case "heartbeat", "heart_rate", "hr":
			err = repo.DeleteHeartRate(u.ID, idOrPrefix)
		default:
			return fmt.Errorf("unknown vital type: %s\nValid types: bp, weight, heartbeat", vital)
		}
		if err != nil {
			return fmt.Errorf("failed to delete reading: %w", err)
		}

		color.Yellow("✗ Deleted %s reading", vital)
		fmt.Printf("  %s\n", color.New(color.Faint).Sprint(idOrPrefix))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
