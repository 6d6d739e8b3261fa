package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestLoadDefaults(t *testing.T) {
	t.Setenv(ConfigFileEnv, "")
	t.Setenv("JWT_SECRET", testSecret)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "./data/mintsense.db", cfg.DBPath)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 24*time.Hour, cfg.TokenDuration)
	assert.Equal(t, 4, cfg.MaxParticipants)
	assert.True(t, cfg.AllowsAnyOrigin())
	assert.Equal(t, ":8080", cfg.Addr())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv(ConfigFileEnv, "")
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("TOKEN_DURATION", "90m")
	t.Setenv("MAX_PARTICIPANTS", "6")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example.com,https://b.example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 90*time.Minute, cfg.TokenDuration)
	assert.Equal(t, 6, cfg.MaxParticipants)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.AllowedOrigins)
	assert.False(t, cfg.AllowsAnyOrigin())
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mintsense.yaml")
	content := "JWT_SECRET: " + testSecret + "\nDB_PATH: /tmp/file.db\nMAX_PARTICIPANTS: 8\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv(ConfigFileEnv, path)
	t.Setenv("JWT_SECRET", "")
	t.Setenv("MAX_PARTICIPANTS", "5")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/tmp/file.db", cfg.DBPath)
	assert.Equal(t, 5, cfg.MaxParticipants, "environment overrides the file")
}

func TestLoadMissingFile(t *testing.T) {
	t.Setenv(ConfigFileEnv, filepath.Join(t.TempDir(), "missing.yaml"))

	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Port:            8080,
			DBPath:          "db",
			LogLevel:        "info",
			JWTSecret:       testSecret,
			TokenDuration:   time.Hour,
			MaxParticipants: 4,
			AllowedOrigins:  []string{"*"},
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"short secret", func(c *Config) { c.JWTSecret = "short" }},
		{"bad port", func(c *Config) { c.Port = 0 }},
		{"no db path", func(c *Config) { c.DBPath = "" }},
		{"zero duration", func(c *Config) { c.TokenDuration = 0 }},
		{"zero participants", func(c *Config) { c.MaxParticipants = 0 }},
		{"unknown level", func(c *Config) { c.LogLevel = "verbose" }},
		{"bad origin", func(c *Config) { c.AllowedOrigins = []string{"not a url"} }},
	}

	base := valid()
	require.NoError(t, base.Validate())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
