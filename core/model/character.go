package model

// Role is the combat role of a character.
type Role string

const (
	RoleDPS     Role = "DPS"
	RoleSupport Role = "SUPPORT"
)

// ParseRole maps any value other than SUPPORT to DPS, matching the roster
// sheet where the role column is free text.
func ParseRole(s string) Role {
	if s == string(RoleSupport) {
		return RoleSupport
	}
	return RoleDPS
}

// Character is one player character in the roster. Characters are treated as
// immutable values during a scheduling pass.
type Character struct {
	ID          string  `json:"id"`
	OwnerKey    string  `json:"discordName"` // player identity
	JobCode     string  `json:"jobCode"`
	Role        Role    `json:"role"`
	PowerLevel  float64 `json:"itemLevel"`
	CombatPower float64 `json:"combatPower"`

	// FlexSupport marks a damage character that may be promoted to support
	// when its tier is short on supports. Defaults to false.
	FlexSupport bool `json:"valkyCanSupport,omitempty"`
	// PrefersHardest selects the hardest elite variant first. A nil value
	// means true.
	PrefersHardest *bool `json:"serkaNightmare,omitempty"`
	// StandardPlanOnly keeps the full standard plan even when the character
	// qualifies for an elite tier. A nil value defers to the planner default.
	StandardPlanOnly *bool `json:"standardPlanOnly,omitempty"`
}

// IsSupport reports whether the character plays the support role.
func (c Character) IsSupport() bool { return c.Role == RoleSupport }

// IsDPS reports whether the character plays the damage role.
func (c Character) IsDPS() bool { return c.Role != RoleSupport }

// WantsHardest resolves PrefersHardest with its default.
func (c Character) WantsHardest() bool {
	if c.PrefersHardest == nil {
		return true
	}
	return *c.PrefersHardest
}

// WithRole returns a copy of the character with the given role.
func (c Character) WithRole(r Role) Character {
	c.Role = r
	return c
}
