// ABOUTME: CLI command for migrating from the legacy Badger store.
// ABOUTME: One-time migration tool for users upgrading from older versions.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/vitals/internal/legacy"
	"github.com/spf13/cobra"
)

var (
	migrateDryRun bool
	migrateFrom   string
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Migrate from the legacy Badger store",
	Long: `Migrate vitals data from the legacy Badger storage used by older
versions into the configured backend.

IMPORTANT:

  - The legacy store is opened read-only and never modified
  - Existing data in the new store will NOT be overwritten
    (duplicate IDs cause errors)
  - Run with --dry-run first to see what would be migrated

USAGE:

  vitals migrate --dry-run   # Preview what would be migrated
  vitals migrate             # Perform the migration

AFTER MIGRATION:

  Once migration is complete, you can delete the old data:
    rm -rf ~/.local/share/vitals/badger/`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := migrateFrom
		if path == "" {
			path = legacy.DefaultPath()
		}

		src, err := legacy.Open(path)
		if err != nil {
			return err
		}
		defer src.Close()

		if migrateDryRun {
			color.Yellow("Dry run mode - no changes will be made")
			users, readings, err := src.Counts()
			if err != nil {
				return err
			}
			fmt.Printf("Would migrate %d users and %d readings from %s\n", users, readings, path)
			return nil
		}

		summary, err := legacy.Migrate(src, repo)
		if err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}

		color.Green("✓ Migration complete")
		fmt.Printf("  %d users, %d readings, %d reminders\n",
			summary.Users, summary.Readings, summary.Reminders)
		return nil
	},
}

func init() {
	migrateCmd.Flags().BoolVar(&migrateDryRun, "dry-run", false, "preview migration without making changes")
	migrateCmd.Flags().StringVar(&migrateFrom, "from", "", "legacy store path (default: ~/.local/share/vitals/badger)")
	rootCmd.AddCommand(migrateCmd)
}
