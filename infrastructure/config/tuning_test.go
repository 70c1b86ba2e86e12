package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainconfig "pathways/domain/config"
)

func writeTuningFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadEngineSettings_PartialFileOverridesDefaults(t *testing.T) {
	path := writeTuningFile(t, `scoring:
  tagWeight: 0.7
layout:
  damping: 0.6
`)

	settings, err := LoadEngineSettings(path)

	require.NoError(t, err)
	defaults := domainconfig.DefaultEngineSettings()
	assert.Equal(t, 0.7, settings.Scoring.TagWeight)
	assert.Equal(t, 0.6, settings.Layout.Damping)
	// Unnamed fields keep their defaults
	assert.Equal(t, defaults.Scoring.DifficultyWeight, settings.Scoring.DifficultyWeight)
	assert.Equal(t, defaults.Layout.Repulsion, settings.Layout.Repulsion)
}

func TestLoadEngineSettings_RejectsInvalidValues(t *testing.T) {
	path := writeTuningFile(t, `layout:
  damping: 1.5
`)

	_, err := LoadEngineSettings(path)

	assert.Error(t, err)
}

func TestLoadEngineSettings_MissingFile(t *testing.T) {
	_, err := LoadEngineSettings(filepath.Join(t.TempDir(), "absent.yaml"))

	assert.Error(t, err)
}

func TestTuning_Swap(t *testing.T) {
	tuning := NewTuning(domainconfig.DefaultEngineSettings())

	next := domainconfig.DefaultEngineSettings()
	next.Scoring.TagWeight = 0.9
	tuning.Swap(next)

	assert.Equal(t, 0.9, tuning.Current().Scoring.TagWeight)
}

func TestConfig_Validate(t *testing.T) {
	cfg := &Config{StoreBackend: "memory"}
	assert.NoError(t, cfg.Validate())

	cfg = &Config{StoreBackend: "badger", BadgerPath: "data"}
	assert.NoError(t, cfg.Validate())

	cfg = &Config{StoreBackend: "badger"}
	assert.Error(t, cfg.Validate())

	cfg = &Config{StoreBackend: "dynamo"}
	assert.Error(t, cfg.Validate())
}
