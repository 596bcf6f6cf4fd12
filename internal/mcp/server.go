// ABOUTME: MCP server setup for the vitals store.
// ABOUTME: Binds the MCP server to one user's data via the storage Repository.
package mcp

import (
	"context"

	"github.com/harperreed/vitals/internal/models"
	"github.com/harperreed/vitals/internal/storage"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server wraps the MCP server with storage access for a single user.
type Server struct {
	mcpServer *mcp.Server
	repo      storage.Repository
	user      *models.User
}

// NewServer creates a new MCP server operating on the given user's data.
func NewServer(repo storage.Repository, user *models.User) (*Server, error) {
	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "vitals",
			Version: "1.0.0",
		},
		nil,
	)

	s := &Server{
		mcpServer: mcpServer,
		repo:      repo,
		user:      user,
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Serve starts the MCP server using stdio transport.
func (s *Server) Serve(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}
