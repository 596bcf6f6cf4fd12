// ABOUTME: HTTP server configuration parsed from environment variables.
// ABOUTME: Uses caarlos0/env with VITALS_-prefixed variables.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v6"
)

// ServerConfig governs the HTTP API server.
type ServerConfig struct {
	Addr            string        `env:"VITALS_ADDR" envDefault:":8080"`
	ReadTimeout     time.Duration `env:"VITALS_READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout    time.Duration `env:"VITALS_WRITE_TIMEOUT" envDefault:"15s"`
	IdleTimeout     time.Duration `env:"VITALS_IDLE_TIMEOUT" envDefault:"60s"`
	ShutdownTimeout time.Duration `env:"VITALS_SHUTDOWN_TIMEOUT" envDefault:"10s"`
	LogLevel        string        `env:"VITALS_LOG_LEVEL" envDefault:"info"`
	TokenTTL        time.Duration `env:"VITALS_TOKEN_TTL" envDefault:"720h"`
	ReminderTick    time.Duration `env:"VITALS_REMINDER_TICK" envDefault:"1m"`
}

// LoadServer reads server configuration from the environment.
func LoadServer() (*ServerConfig, error) {
	cfg := &ServerConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse server config: %w", err)
	}
	return cfg, nil
}
