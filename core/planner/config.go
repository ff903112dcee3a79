package planner

import (
	"errors"
	"fmt"

	"github.com/kilianp07/raidplan/core/model"
)

// SquadSize is the number of members a fixed squad must name.
const SquadSize = 4

// SquadMember identifies a pinned character by owner and job.
type SquadMember struct {
	Owner string `json:"owner"`
	Job   string `json:"job"`
}

// FixedSquad binds a set of characters to the first run of one tier.
type FixedSquad struct {
	Raid    model.RaidID  `json:"raid"`
	Members []SquadMember `json:"members"`
}

// Enabled reports whether the squad should be resolved at all.
func (f FixedSquad) Enabled() bool { return f.Raid != "" && len(f.Members) > 0 }

// Config tunes the scheduling pass.
type Config struct {
	Seed uint32 `json:"seed"`
	// MinPowerLevel filters out characters before bucketing.
	MinPowerLevel float64 `json:"min_item_level"`
	// MaxDegradedPlacements caps relaxed placements per tier. Zero means
	// unlimited; characters over the cap are reported as unplaced.
	MaxDegradedPlacements int `json:"max_degraded_placements"`
	// StandardPlanOnly is the default for characters that do not set the
	// flag themselves.
	StandardPlanOnly *bool `json:"standard_plan_only_default"`
	// FlexibleJobs lists the jobs eligible for support promotion.
	FlexibleJobs []string `json:"flexible_jobs"`
	// FixedSquad defaults to DefaultFixedSquad when nil. An empty squad
	// disables pinning.
	FixedSquad *FixedSquad `json:"fixed_squad"`
}

// DefaultFixedSquad is the squad pinned to the hardest elite tier.
func DefaultFixedSquad() FixedSquad {
	return FixedSquad{
		Raid: model.RaidSerkaNightmare,
		Members: []SquadMember{
			{Owner: "딘또썬", Job: "기상"},
			{Owner: "말랭짱", Job: "슬레"},
			{Owner: "흑마66", Job: "워로"},
			{Owner: "고추좋아해요", Job: "홀나"},
		},
	}
}

// DefaultConfig returns the configuration used by the package level
// BuildSchedule.
func DefaultConfig() Config {
	var c Config
	c.SetDefaults()
	return c
}

// SetDefaults fills zero values with defaults.
func (c *Config) SetDefaults() {
	if c.Seed == 0 {
		c.Seed = DefaultSeed
	}
	if c.MinPowerLevel == 0 {
		c.MinPowerLevel = 1700
	}
	if c.StandardPlanOnly == nil {
		v := true
		c.StandardPlanOnly = &v
	}
	if c.FlexibleJobs == nil {
		c.FlexibleJobs = []string{"발키"}
	}
	if c.FixedSquad == nil {
		sq := DefaultFixedSquad()
		c.FixedSquad = &sq
	}
}

// Validate checks the configuration for inconsistent values.
func (c Config) Validate() error {
	if c.MaxDegradedPlacements < 0 {
		return errors.New("max_degraded_placements must be >= 0")
	}
	if c.FixedSquad == nil || !c.FixedSquad.Enabled() {
		return nil
	}
	if !c.FixedSquad.Raid.Valid() {
		return fmt.Errorf("fixed_squad: %w: %q", model.ErrUnknownRaid, c.FixedSquad.Raid)
	}
	if n := len(c.FixedSquad.Members); n != SquadSize {
		return fmt.Errorf("fixed_squad: need exactly %d members, got %d", SquadSize, n)
	}
	if size := c.FixedSquad.Raid.Config().MaxPerRun; size < SquadSize {
		return fmt.Errorf("fixed_squad: raid %s holds only %d members", c.FixedSquad.Raid, size)
	}
	owners := make(map[string]struct{}, SquadSize)
	for _, m := range c.FixedSquad.Members {
		if m.Owner == "" || m.Job == "" {
			return errors.New("fixed_squad: owner and job are required")
		}
		if _, dup := owners[m.Owner]; dup {
			return fmt.Errorf("fixed_squad: owner %q listed twice", m.Owner)
		}
		owners[m.Owner] = struct{}{}
	}
	return nil
}

func (c Config) standardPlanOnly(ch model.Character) bool {
	if ch.StandardPlanOnly != nil {
		return *ch.StandardPlanOnly
	}
	return c.StandardPlanOnly == nil || *c.StandardPlanOnly
}

func (c Config) squad(raid model.RaidID) []SquadMember {
	if c.FixedSquad == nil || !c.FixedSquad.Enabled() || c.FixedSquad.Raid != raid {
		return nil
	}
	return c.FixedSquad.Members
}

func (c Config) isFlexibleJob(job string) bool {
	for _, j := range c.FlexibleJobs {
		if j == job {
			return true
		}
	}
	return false
}
