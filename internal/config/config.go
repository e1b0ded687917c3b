package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Deployment environments.
const (
	EnvLocal       = "local"
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config captures all runtime configuration for the gateway and the edge proxy.
type Config struct {
	Environment string        `koanf:"environment"`
	Gateway     GatewayConfig `koanf:"gateway"`
	TMDB        TMDBConfig    `koanf:"tmdb"`
	Edge        EdgeConfig    `koanf:"edge"`
	Logging     LoggingConfig `koanf:"logging"`
	CORSOrigins []string      `koanf:"cors_origins"`
}

// GatewayConfig controls the backend HTTP listener.
type GatewayConfig struct {
	Host             string `koanf:"host"`
	Port             string `koanf:"port"`
	ReadTimeoutSecs  int    `koanf:"read_timeout_secs"`
	WriteTimeoutSecs int    `koanf:"write_timeout_secs"`
	IdleTimeoutSecs  int    `koanf:"idle_timeout_secs"`
}

// TMDBConfig describes the upstream metadata provider.
type TMDBConfig struct {
	BaseURL     string `koanf:"base_url"`
	Token       string `koanf:"token"`
	TimeoutSecs int    `koanf:"timeout_secs"`
}

// EdgeConfig controls the frontend-facing proxy.
type EdgeConfig struct {
	Host         string `koanf:"host"`
	Port         string `koanf:"port"`
	APIBaseURL   string `koanf:"api_base_url"`
	ImageBaseURL string `koanf:"image_base_url"`
	TimeoutSecs  int    `koanf:"timeout_secs"`
}

// LoggingConfig mirrors logging.Config.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
	File   string `koanf:"file"`
}

// Addr returns the gateway listen address.
func (g GatewayConfig) Addr() string {
	return g.Host + ":" + g.Port
}

// Addr returns the edge listen address.
func (e EdgeConfig) Addr() string {
	return e.Host + ":" + e.Port
}

// Timeout returns the outbound call timeout towards TMDB.
func (t TMDBConfig) Timeout() time.Duration {
	return time.Duration(t.TimeoutSecs) * time.Second
}

// Timeout returns the outbound call timeout towards the gateway.
func (e EdgeConfig) Timeout() time.Duration {
	return time.Duration(e.TimeoutSecs) * time.Second
}

func defaultConfig() Config {
	return Config{
		Environment: EnvDevelopment,
		Gateway: GatewayConfig{
			Host:             "0.0.0.0",
			Port:             "3000",
			ReadTimeoutSecs:  15,
			WriteTimeoutSecs: 15,
			IdleTimeoutSecs:  60,
		},
		TMDB: TMDBConfig{
			BaseURL:     "https://api.themoviedb.org/3",
			TimeoutSecs: 10,
		},
		Edge: EdgeConfig{
			Host:         "0.0.0.0",
			Port:         "3001",
			APIBaseURL:   "http://localhost:3000",
			ImageBaseURL: "https://image.tmdb.org/t/p/w500",
			TimeoutSecs:  10,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		CORSOrigins: []string{"*"},
	}
}

// validateCommon checks settings shared by both tiers.
func (c Config) validateCommon() error {
	switch c.Environment {
	case EnvLocal, EnvDevelopment, EnvProduction:
	default:
		return fmt.Errorf("NODE_ENV must be one of local, development, production")
	}
	if strings.TrimSpace(c.Gateway.Port) == "" {
		return fmt.Errorf("PORT is required")
	}
	if strings.TrimSpace(c.Edge.Port) == "" {
		return fmt.Errorf("EDGE_PORT is required")
	}
	if c.Gateway.ReadTimeoutSecs < 0 || c.Gateway.WriteTimeoutSecs < 0 || c.Gateway.IdleTimeoutSecs < 0 {
		return fmt.Errorf("SERVER_*_TIMEOUT values must be non-negative")
	}
	return nil
}

// ValidateGateway checks the settings the gateway needs to serve requests.
func (c Config) ValidateGateway() error {
	if err := c.validateCommon(); err != nil {
		return err
	}
	if c.TMDB.Token == "" {
		return fmt.Errorf("TMDB_TOKEN is required")
	}
	if err := validateURL("TMDB_BASE_URL", c.TMDB.BaseURL); err != nil {
		return err
	}
	if c.TMDB.TimeoutSecs <= 0 {
		return fmt.Errorf("UPSTREAM_TIMEOUT_SECS must be positive")
	}
	return nil
}

// ValidateEdge checks the settings the edge proxy needs to serve requests.
func (c Config) ValidateEdge() error {
	if err := c.validateCommon(); err != nil {
		return err
	}
	if err := validateURL("API_BASE_URL", c.Edge.APIBaseURL); err != nil {
		return err
	}
	if c.Edge.TimeoutSecs <= 0 {
		return fmt.Errorf("EDGE_TIMEOUT_SECS must be positive")
	}
	return nil
}

func validateURL(key, raw string) error {
	if raw == "" {
		return fmt.Errorf("%s is required", key)
	}
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("%s must be an absolute URL", key)
	}
	return nil
}
