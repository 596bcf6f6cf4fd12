// ABOUTME: Root Cobra command for vitals CLI.
// ABOUTME: Handles storage lifecycle and user resolution for subcommands.
package main

import (
	"fmt"

	"github.com/harperreed/vitals/internal/config"
	"github.com/harperreed/vitals/internal/models"
	"github.com/harperreed/vitals/internal/storage"
	"github.com/spf13/cobra"
)

var (
	repo     storage.Repository
	userFlag string
)

var rootCmd = &cobra.Command{
	Use:   "vitals",
	Short: "Personal vital-sign tracker",
	Long: `Vitals is a CLI tool for tracking blood pressure, weight, and heart rate.

WHAT IT TRACKS:

  bp           blood pressure (systolic/diastolic, optional pulse)
  weight       weight with derived BMI and category
  heart_rate   resting heart rate with derived status

QUICK START:

  $ vitals user create "Ada" ada@example.com   # Create a profile
  $ vitals add bp 120 80                       # Log blood pressure
  $ vitals add weight 82.5                     # Log weight (BMI from profile height)
  $ vitals add heartbeat 64                    # Log heart rate
  $ vitals latest                              # Latest reading per vital
  $ vitals list bp                             # Recent blood pressure readings

REMINDERS:

  $ vitals remind set bp 24h      # Remind when the last reading is stale
  $ vitals remind status          # Show time remaining per reminder

SERVER:

  $ vitals serve                  # Start the HTTP API (see VITALS_ADDR)

MCP INTEGRATION:

  Run 'vitals mcp' to start the Model Context Protocol server for use with
  Claude Desktop or other MCP-compatible AI assistants.

DATA STORAGE:

  Readings are stored in SQLite at ~/.local/share/vitals/vitals.db.
  Set "backend": "charm" in ~/.config/vitals/config.json to sync via
  Charm Cloud instead (E2E encrypted with your SSH key).

MULTIPLE USERS:

  The store holds any number of profiles. Commands operate on the only
  user by default; pass --user <email> when there is more than one.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip storage init for commands that don't need it
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		repo, err = cfg.OpenStorage()
		if err != nil {
			return fmt.Errorf("failed to open storage: %w", err)
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if repo != nil {
			return repo.Close()
		}
		return nil
	},
}

// resolveUser finds the user commands should operate on: the --user
// email when given, otherwise the store's only user.
func resolveUser() (*models.User, error) {
	if userFlag != "" {
		u, err := repo.GetUserByEmail(userFlag)
		if err != nil {
			return nil, fmt.Errorf("user not found: %s", userFlag)
		}
		return u, nil
	}

	users, err := repo.ListUsers()
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	switch len(users) {
	case 0:
		return nil, fmt.Errorf("no users yet: run 'vitals user create <name> <email>' first")
	case 1:
		return users[0], nil
	default:
		return nil, fmt.Errorf("multiple users in store: pass --user <email>")
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&userFlag, "user", "u", "", "user email (defaults to the only user)")
}
