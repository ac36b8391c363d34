package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avigest/flock-engine/config"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_PORT", "")
	t.Setenv("CORS_ORIGINS", "")
	t.Setenv("DB_PATH", "")
	t.Setenv("SNAPSHOT_ENABLED", "")
	t.Setenv("SNAPSHOT_CRON", "")

	cfg, err := config.Load("does-not-exist.env")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, []string{"http://localhost:5173", "http://localhost:8080"}, cfg.Server.CORSOrigins)
	assert.Equal(t, "flock.db", cfg.Database.Path)
	assert.True(t, cfg.Snapshot.Enabled)
	assert.Equal(t, "0 6 * * 1", cfg.Snapshot.CronSchedule)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("CORS_ORIGINS", "https://app.example.com, https://admin.example.com")
	t.Setenv("DB_PATH", "/var/lib/flock/flock.db")
	t.Setenv("SNAPSHOT_ENABLED", "false")

	cfg, err := config.Load("does-not-exist.env")
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, []string{"https://app.example.com", "https://admin.example.com"}, cfg.Server.CORSOrigins)
	assert.Equal(t, "/var/lib/flock/flock.db", cfg.Database.Path)
	assert.False(t, cfg.Snapshot.Enabled)
}

func TestValidate(t *testing.T) {
	valid := config.Config{
		Server:   config.ServerConfig{Port: "8080"},
		Database: config.DatabaseConfig{Path: "flock.db"},
		Snapshot: config.SnapshotConfig{Enabled: true, CronSchedule: "0 6 * * 1"},
	}
	assert.NoError(t, valid.Validate())

	noPort := valid
	noPort.Server.Port = ""
	assert.Error(t, noPort.Validate())

	noDB := valid
	noDB.Database.Path = ""
	assert.Error(t, noDB.Validate())

	noCron := valid
	noCron.Snapshot.CronSchedule = ""
	assert.Error(t, noCron.Validate())

	disabled := noCron
	disabled.Snapshot.Enabled = false
	assert.NoError(t, disabled.Validate())
}
