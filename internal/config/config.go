// Package config loads server settings from the environment and an optional
// config file.
package config

import (
	"fmt"
	"net/url"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ConfigFileEnv names the environment variable holding an optional config
// file path (YAML, TOML or JSON, picked by extension).
const ConfigFileEnv = "MINTSENSE_CONFIG"

const minJWTSecretLength = 32

// Config holds every runtime setting of the server.
type Config struct {
	Port            int           `mapstructure:"PORT"`
	DBPath          string        `mapstructure:"DB_PATH"`
	StaticPath      string        `mapstructure:"STATIC_PATH"`
	LogLevel        string        `mapstructure:"LOG_LEVEL"`
	JWTSecret       string        `mapstructure:"JWT_SECRET"`
	TokenDuration   time.Duration `mapstructure:"TOKEN_DURATION"`
	MaxParticipants int           `mapstructure:"MAX_PARTICIPANTS"`
	AllowedOrigins  []string      `mapstructure:"ALLOWED_ORIGINS"`
}

// Load reads defaults, then the config file named by MINTSENSE_CONFIG if set,
// then environment variables, and validates the result.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("PORT", 8080)
	v.SetDefault("DB_PATH", "./data/mintsense.db")
	v.SetDefault("STATIC_PATH", "../frontend/static")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("TOKEN_DURATION", "24h")
	v.SetDefault("MAX_PARTICIPANTS", 4)
	v.SetDefault("ALLOWED_ORIGINS", []string{"*"})

	if path := os.Getenv(ConfigFileEnv); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config unmarshal failed: %w", err)
	}
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// Validate checks the loaded values are usable.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if c.DBPath == "" {
		return fmt.Errorf("DB_PATH is required")
	}
	if len(c.JWTSecret) < minJWTSecretLength {
		return fmt.Errorf("JWT_SECRET must be at least %d characters long", minJWTSecretLength)
	}
	if c.TokenDuration <= 0 {
		return fmt.Errorf("TOKEN_DURATION must be positive, got %s", c.TokenDuration)
	}
	if c.MaxParticipants < 1 {
		return fmt.Errorf("MAX_PARTICIPANTS must be at least 1, got %d", c.MaxParticipants)
	}
	if !slices.Contains([]string{"debug", "info", "warn", "error"}, c.LogLevel) {
		return fmt.Errorf("unknown LOG_LEVEL %q", c.LogLevel)
	}
	if !c.AllowsAnyOrigin() {
		for _, origin := range c.AllowedOrigins {
			if _, err := url.ParseRequestURI(origin); err != nil {
				return fmt.Errorf("invalid allowed origin '%s': %w", origin, err)
			}
		}
	}
	return nil
}

// AllowsAnyOrigin reports whether CORS is open to every origin.
func (c *Config) AllowsAnyOrigin() bool {
	return len(c.AllowedOrigins) == 0 || slices.Contains(c.AllowedOrigins, "*")
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
