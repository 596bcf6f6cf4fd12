// ABOUTME: CLI command for starting MCP server.
// ABOUTME: Runs stdio-based MCP server for Claude integration.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/harperreed/vitals/internal/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server",
	Long: `Start the Model Context Protocol (MCP) server for AI assistant integration.

MCP allows AI assistants like Claude to interact with your vitals data
through a standardized protocol. The server communicates via stdin/stdout
and operates on a single user (resolved like every other command).

CLAUDE DESKTOP CONFIGURATION:

  Add this to your Claude Desktop config (claude_desktop_config.json):

  {
    "mcpServers": {
      "vitals": {
        "command": "vitals",
        "args": ["mcp"]
      }
    }
  }

AVAILABLE TOOLS:

  record_bp           Record a blood pressure reading
  record_weight       Record a weight measurement (BMI derived)
  record_heart_rate   Record a resting heart rate
  list_readings       List recent readings for a vital
  latest_vitals       Latest reading per vital type
  delete_reading      Delete a reading by ID
  set_reminder        Set a measurement reminder interval
  due_reminders       Reminders due now

AVAILABLE RESOURCES:

  vitals://recent     Recent readings per vital
  vitals://today      Today's readings
  vitals://summary    Latest reading per vital with categories`,
	RunE: func(cmd *cobra.Command, args []string) error {
		u, err := resolveUser()
		if err != nil {
			return err
		}

		server, err := mcp.NewServer(repo, u)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-sigChan
			cancel()
		}()

		return server.Serve(ctx)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
