package tap

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// Config is a declarative snapshot of auditor state, typically loaded
// from YAML:
//
//	enabled: true
//	log:
//	  level: warn
//	events:
//	  calc.add: true
//	  db.query: false
//
// Apply it with [Auditor.ApplyConfig]. Absent fields leave the current
// state alone.
type Config struct {
	// Enabled toggles auditing as a whole. Nil leaves the current state.
	Enabled *bool `yaml:"enabled"`

	// Events maps event names to their enabled flag.
	Events map[string]bool `yaml:"events"`

	// Log configures the diagnostic logger.
	Log LogConfig `yaml:"log"`
}

// LogConfig configures the auditor's diagnostic logger.
type LogConfig struct {
	// Level is a zerolog level name ("debug", "info", "warn", ...).
	// Empty leaves the current level.
	Level string `yaml:"level"`
}

// LoadConfig decodes a YAML config. Unknown fields are rejected.
func LoadConfig(r io.Reader) (*Config, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var cfg Config
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("tap: decode config: %w", err)
	}
	return &cfg, nil
}

// ApplyConfig applies a loaded config to the auditor. Every event named
// in cfg.Events must already be registered; unknown names are collected
// and returned joined, after all known toggles have been applied.
//
// The log level applies to the auditor's own diagnostics and to events
// registered afterwards; events capture the logger when they are created.
func (a *Auditor) ApplyConfig(cfg *Config) error {
	if cfg.Enabled != nil {
		a.SetEnabled(*cfg.Enabled)
	}
	if cfg.Log.Level != "" {
		level, err := zerolog.ParseLevel(cfg.Log.Level)
		if err != nil {
			return fmt.Errorf("tap: config log level: %w", err)
		}
		a.logger = a.logger.Level(level)
	}
	var errs []error
	for _, name := range sortedKeys(cfg.Events) {
		if err := a.ToggleEvent(name, cfg.Events[name]); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// sortedKeys keeps toggle application order deterministic; map iteration
// order would make joined error output unstable.
func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
