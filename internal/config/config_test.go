package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
[server]
http_port = 9090

[database]
driver = "pgx"
host = "db"
port = 5433
user = "booking"
password = "secret"
dbname = "events"

[auth]
jwt_secret = "from-file"

[rate_limit]
capacity = 10
refill_interval = "1m"

[payments]
webhook_providers = ["telebirr", "cbe"]
pending_ttl = "2h"
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_FileValuesAndDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.HTTPPort)
	assert.Equal(t, 15, cfg.Server.ReadTimeout)
	assert.Equal(t, "pgx", cfg.Database.Driver)
	assert.Equal(t, 10, cfg.RateLimit.Capacity)
	assert.Equal(t, time.Minute, cfg.RateLimit.RefillInterval.Duration)
	assert.Equal(t, []string{"telebirr", "cbe"}, cfg.Payments.WebhookProviders)
	assert.Equal(t, 2*time.Hour, cfg.Payments.PendingTTL.Duration)
	assert.Equal(t, "ETB", cfg.Payments.Currency)
	assert.Equal(t, "log", cfg.Mail.Mode)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("EVENTBOOKING_AUTH_JWT_SECRET", "from-env")
	t.Setenv("EVENTBOOKING_DATABASE_PASSWORD", "p@ss")

	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Auth.JWTSecret)
	assert.Equal(t, "p@ss", cfg.Database.Password)
}

func TestLoad_Invalid(t *testing.T) {
	_, err := Load(writeConfig(t, `
[database]
driver = "mysql"
[auth]
jwt_secret = "x"
`))
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = Load(writeConfig(t, "[server]\nhttp_port = 8080\n"))
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, ErrLoad)
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p@ss", DBName: "events", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p%40ss@db:5432/events?sslmode=disable", d.DSN())
}
