package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kilianp07/raidplan/core/exclusion"
	"github.com/kilianp07/raidplan/core/history"
	"github.com/kilianp07/raidplan/core/metrics"
	"github.com/kilianp07/raidplan/infra/roster"
)

// EnvPrefix marks environment overrides: K_PLANNER__SEED sets planner.seed.
const EnvPrefix = "K_"

type Config struct {
	Log        LogConfig        `json:"log"`
	Planner    PlannerConfig    `json:"planner"`
	Sequence   SequenceConfig   `json:"sequence"`
	Roster     roster.Config    `json:"roster"`
	Exclusions exclusion.Config `json:"exclusions"`
	History    history.Config   `json:"history"`
	Metrics    metrics.Config   `json:"metrics"`
	Sentry     SentryConfig     `json:"sentry"`
}

// Default returns a configuration with every section defaulted.
func Default() *Config {
	var cfg Config
	cfg.SetDefaults()
	return &cfg
}

// SetDefaults applies the defaults of every section.
func (c *Config) SetDefaults() {
	c.Log.SetDefaults()
	c.Planner.SetDefaults()
	c.Sequence.SetDefaults()
	c.Roster.SetDefaults()
	c.Exclusions.SetDefaults()
	c.History.SetDefaults()
	c.Metrics.SetDefaults()
	c.Sentry.SetDefaults()
}

// Validate checks every section.
func (c Config) Validate() error {
	checks := []struct {
		name string
		fn   func() error
	}{
		{"log", c.Log.Validate},
		{"planner", c.Planner.Validate},
		{"sequence", c.Sequence.Validate},
		{"roster", c.Roster.Validate},
		{"exclusions", c.Exclusions.Validate},
		{"history", c.History.Validate},
		{"metrics", c.Metrics.Validate},
		{"sentry", c.Sentry.Validate},
	}
	for _, ch := range checks {
		if err := ch.fn(); err != nil {
			return fmt.Errorf("%s: %w", ch.name, err)
		}
	}
	return nil
}

// Load reads path (YAML or JSON, chosen by extension) and applies
// environment overrides. An empty path loads defaults and environment only.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	if path != "" {
		ext := strings.ToLower(filepath.Ext(path))
		var parser koanf.Parser
		switch ext {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		default:
			return nil, fmt.Errorf("unsupported config format: %s", ext)
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, err
		}
	}
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
