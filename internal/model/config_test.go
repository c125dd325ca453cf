package model

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "local", cfg.User)
	assert.Equal(t, 30, cfg.RetentionDays)
	assert.NotEmpty(t, cfg.DatabasePath)
}

func TestConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	want := &AppConfig{
		DatabasePath:  "/tmp/dayboard-test.db",
		User:          "nga",
		RetentionDays: 14,
		Theme:         "default",
	}
	require.NoError(t, SaveConfig(path, want))

	got, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoadConfigClampsRetention(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, SaveConfig(path, &AppConfig{
		DatabasePath:  "x.db",
		User:          "local",
		RetentionDays: -1,
		Theme:         "default",
	}))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 30, cfg.RetentionDays)
}
