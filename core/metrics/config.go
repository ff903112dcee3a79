package metrics

import (
	"fmt"

	"github.com/kilianp07/raidplan/core/factory"
)

// Config defines settings for metrics sinks.
type Config struct {
	Sinks []factory.ModuleConfig `json:"sinks"`
	// ListenAddr serves /metrics when non-empty (serve command only).
	ListenAddr string `json:"listen_addr"`
	// PushGateway receives the default registry after one-shot commands.
	PushGateway string `json:"push_gateway"`
	// Job names the pushgateway grouping.
	Job string `json:"job"`
}

// SetDefaults applies default values.
func (c *Config) SetDefaults() {
	if c.Job == "" {
		c.Job = "raidplan"
	}
}

// Validate checks that every sink has a type.
func (c Config) Validate() error {
	for i, s := range c.Sinks {
		if s.Type == "" {
			return fmt.Errorf("metrics sink %d: type is required", i)
		}
	}
	return nil
}
