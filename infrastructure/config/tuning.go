package config

import (
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	domainconfig "pathways/domain/config"
	"pathways/pkg/utils"
)

// Tuning holds the current engine settings behind a read lock so the
// watcher can swap them while computations are in flight. Implements
// domainconfig.SettingsSource.
type Tuning struct {
	mu       sync.RWMutex
	settings domainconfig.EngineSettings
}

// NewTuning creates a holder seeded with the given settings
func NewTuning(settings domainconfig.EngineSettings) *Tuning {
	return &Tuning{settings: settings}
}

// Current returns a snapshot of the settings
func (t *Tuning) Current() domainconfig.EngineSettings {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.settings
}

// Swap replaces the settings atomically
func (t *Tuning) Swap(settings domainconfig.EngineSettings) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.settings = settings
}

// LoadEngineSettings reads and validates a tuning file. Missing fields fall
// back to the defaults, so a partial file only overrides what it names.
func LoadEngineSettings(path string) (domainconfig.EngineSettings, error) {
	settings := domainconfig.DefaultEngineSettings()

	data, err := os.ReadFile(path)
	if err != nil {
		return settings, fmt.Errorf("read tuning file: %w", err)
	}

	if err := yaml.Unmarshal(data, &settings); err != nil {
		return settings, fmt.Errorf("parse tuning file: %w", err)
	}

	if err := utils.ValidateStruct(settings); err != nil {
		return domainconfig.DefaultEngineSettings(), fmt.Errorf("invalid tuning values: %w", err)
	}

	return settings, nil
}
