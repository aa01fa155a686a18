package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

const minimalConfig = `
database:
  host: localhost
  user: dashpos
  password: secret
  database: dashpos
rabbitmq:
  host: localhost
  user: guest
  password: guest
auth:
  jwt_secret: test-secret
`

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "http://localhost:8080", cfg.Server.BaseURL)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, 5672, cfg.Rabbit.Port)
	assert.Equal(t, "/", cfg.Rabbit.VHost)
	assert.Equal(t, 24, cfg.Auth.AccessTTLHours)
	assert.Equal(t, 720, cfg.Auth.RefreshTTLHrs)
}

func TestLoadExplicitValues(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
server:
  port: 9090
  base_url: https://pos.example.com
  allowed_origins:
    - https://dash.example.com
database:
  host: db.internal
  port: 5433
  user: dashpos
  password: secret
  database: dashpos
rabbitmq:
  host: mq.internal
  vhost: /pos
auth:
  jwt_secret: test-secret
  access_ttl_hours: 2
`))
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "https://pos.example.com", cfg.Server.BaseURL)
	assert.Equal(t, []string{"https://dash.example.com"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 5433, cfg.Database.Port)
	assert.Equal(t, "/pos", cfg.Rabbit.VHost)
	assert.Equal(t, 2, cfg.Auth.AccessTTLHours)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "3000")
	t.Setenv("DB_HOST", "db-override")
	t.Setenv("JWT_SECRET", "env-secret")

	cfg, err := Load(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "db-override", cfg.Database.Host)
	assert.Equal(t, "env-secret", cfg.Auth.JWTSecret)
}

func TestLoadRejectsIncomplete(t *testing.T) {
	_, err := Load(writeConfig(t, `
database:
  host: localhost
auth:
  jwt_secret: test-secret
`))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, `
database:
  host: localhost
rabbitmq:
  host: localhost
`))
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
