package config

import (
	"fmt"

	"github.com/kilianp07/raidplan/core/model"
	"github.com/kilianp07/raidplan/core/planner"
)

// PlannerConfig extends the engine settings with the service options.
type PlannerConfig struct {
	planner.Config `json:",squash"`
	// BalanceMode is "overall", "role" or "speed".
	BalanceMode string `json:"balance_mode"`
	// RefreshIntervalSeconds is the rebuild period of the serve command.
	RefreshIntervalSeconds int `json:"refresh_interval_seconds"`
}

// SetDefaults applies default values.
func (c *PlannerConfig) SetDefaults() {
	c.Config.SetDefaults()
	if c.BalanceMode == "" {
		c.BalanceMode = string(model.BalanceSpeed)
	}
	if c.RefreshIntervalSeconds == 0 {
		c.RefreshIntervalSeconds = 300
	}
}

// Validate checks the balance mode and the engine settings.
func (c PlannerConfig) Validate() error {
	if _, err := model.ParseBalanceMode(c.BalanceMode); err != nil {
		return err
	}
	if c.RefreshIntervalSeconds < 0 {
		return fmt.Errorf("refresh_interval_seconds must be >= 0")
	}
	return c.Config.Validate()
}

// Mode returns the parsed balance mode, falling back to speed.
func (c PlannerConfig) Mode() model.BalanceMode {
	m, err := model.ParseBalanceMode(c.BalanceMode)
	if err != nil {
		return model.BalanceSpeed
	}
	return m
}
