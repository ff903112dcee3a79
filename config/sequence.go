package config

import (
	"github.com/kilianp07/raidplan/core/model"
	"github.com/kilianp07/raidplan/core/sequence"
)

// SequenceConfig selects the tiers listed by the sequence command.
type SequenceConfig struct {
	// Order lists tier ids by priority. Defaults to the standard tiers.
	Order []string `json:"order"`
}

// SetDefaults applies default values.
func (c *SequenceConfig) SetDefaults() {
	if len(c.Order) == 0 {
		for _, r := range sequence.DefaultOrder {
			c.Order = append(c.Order, string(r))
		}
	}
}

// Validate checks that every tier exists.
func (c SequenceConfig) Validate() error {
	_, err := c.Raids()
	return err
}

// Raids returns the parsed order.
func (c SequenceConfig) Raids() ([]model.RaidID, error) {
	out := make([]model.RaidID, 0, len(c.Order))
	for _, s := range c.Order {
		r, err := model.ParseRaid(s)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}
