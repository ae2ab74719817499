package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	dataDir := t.TempDir()

	cfg, err := Load("", dataDir)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.Server.Address)
	assert.Equal(t, 8090, cfg.Server.Port)
	assert.Equal(t, dataDir, cfg.Storage.DataDir)
	assert.Equal(t, filepath.Join(dataDir, "pulsetrack.db"), cfg.Storage.SQLitePath)
	assert.Equal(t, filepath.Join(dataDir, "badger"), cfg.Storage.BadgerPath)
	assert.Equal(t, 10, cfg.Dashboard.ChartPoints)
	assert.Equal(t, 5, cfg.Dashboard.HistorySize)
	assert.Equal(t, "sunday", cfg.Dashboard.WeekStart)
	assert.NotEmpty(t, cfg.Security.JWTSecret, "secret should be generated when absent")
}

func TestLoad_ConfigFile(t *testing.T) {
	dataDir := t.TempDir()
	configPath := filepath.Join(dataDir, "pulsetrack.yaml")

	yaml := `
server:
  port: 9191
dashboard:
  chart_points: 20
  week_start: monday
security:
  jwt_secret: test-secret
`
	require.NoError(t, os.WriteFile(configPath, []byte(yaml), 0644))

	cfg, err := Load(configPath, dataDir)
	require.NoError(t, err)

	assert.Equal(t, 9191, cfg.Server.Port)
	assert.Equal(t, 20, cfg.Dashboard.ChartPoints)
	assert.Equal(t, "monday", cfg.Dashboard.WeekStart)
	assert.Equal(t, "test-secret", cfg.Security.JWTSecret)
}

func TestLoad_EnvOverrides(t *testing.T) {
	dataDir := t.TempDir()

	t.Setenv("PULSETRACK_SERVER_PORT", "7070")
	t.Setenv("PULSETRACK_DASHBOARD_WEEK_START", "monday")

	cfg, err := Load("", dataDir)
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "monday", cfg.Dashboard.WeekStart)
}

func TestLoad_InvalidWeekStart(t *testing.T) {
	dataDir := t.TempDir()

	t.Setenv("PULSETRACK_DASHBOARD_WEEK_START", "friday")

	_, err := Load("", dataDir)
	assert.Error(t, err)
}
