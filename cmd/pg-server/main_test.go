package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pg-management/pg-server/internal/config"
)

func TestSweepCmd_Args(t *testing.T) {
	cmd := sweepCmd()

	assert.NoError(t, cmd.Args(cmd, nil))
	assert.NoError(t, cmd.Args(cmd, []string{"payments"}))
	assert.Error(t, cmd.Args(cmd, []string{"rooms"}))
	assert.Error(t, cmd.Args(cmd, []string{"lease", "payments"}))
}

func TestSetupLogging_Level(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)

	setupLogging(config.LogConfig{Level: "debug", Format: "json"})
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())

	setupLogging(config.LogConfig{Level: "chatty"})
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	prev := configFile
	defer func() { configFile = prev }()
	configFile = filepath.Join(t.TempDir(), "absent.yml")

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, 30, cfg.Reminder.LeaseLengthDays)
}

func TestLoadConfig_InvalidFileFails(t *testing.T) {
	prev := configFile
	defer func() { configFile = prev }()
	configFile = filepath.Join(t.TempDir(), "bad.yml")
	require.NoError(t, os.WriteFile(configFile, []byte("reminder:\n  lease_length_days: 0\n"), 0o600))

	_, err := loadConfig()
	assert.ErrorContains(t, err, "lease_length_days")
}
