// ABOUTME: HTTP server lifecycle for the vitals API.
// ABOUTME: Wraps net/http with config-driven timeouts and graceful shutdown.
package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/harperreed/vitals/internal/config"
	"github.com/harperreed/vitals/internal/storage"
)

// Server serves the vitals HTTP API.
type Server struct {
	repo       storage.Repository
	log        *log.Logger
	cfg        *config.ServerConfig
	httpServer *http.Server
}

// NewServer creates an API server backed by the given repository.
func NewServer(repo storage.Repository, logger *log.Logger, cfg *config.ServerConfig) *Server {
	s := &Server{
		repo: repo,
		log:  logger,
		cfg:  cfg,
	}
	s.httpServer = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.Router(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return s
}

// Start begins listening for HTTP traffic. Blocks until shutdown.
func (s *Server) Start() error {
	s.log.Info("starting vitals API", "addr", s.cfg.Addr)
	err := s.httpServer.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully terminates active connections.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("shutting down vitals API")
	return s.httpServer.Shutdown(ctx)
}
