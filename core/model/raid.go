package model

import (
	"errors"
	"fmt"
)

// RaidID identifies a raid tier.
type RaidID string

const (
	RaidAct3Hard       RaidID = "ACT3_HARD"
	RaidAct4Normal     RaidID = "ACT4_NORMAL"
	RaidAct4Hard       RaidID = "ACT4_HARD"
	RaidSerkaNormal    RaidID = "SERKA_NORMAL"
	RaidSerkaHard      RaidID = "SERKA_HARD"
	RaidSerkaNightmare RaidID = "SERKA_NIGHTMARE"
	RaidFinalNormal    RaidID = "FINAL_NORMAL"
	RaidFinalHard      RaidID = "FINAL_HARD"
)

// ErrUnknownRaid is returned when a raid identifier is not recognised.
var ErrUnknownRaid = errors.New("unknown raid")

// AllRaids lists every raid tier in scheduling order. Buckets are processed
// in this order, which matters for the shared random source.
var AllRaids = []RaidID{
	RaidAct3Hard,
	RaidAct4Normal,
	RaidAct4Hard,
	RaidSerkaNormal,
	RaidSerkaHard,
	RaidSerkaNightmare,
	RaidFinalNormal,
	RaidFinalHard,
}

// Family groups tiers that share eligibility and capacity rules.
type Family int

const (
	FamilyStandard Family = iota
	FamilyElite
)

// String returns a human-readable representation of the family.
func (f Family) String() string {
	switch f {
	case FamilyStandard:
		return "standard"
	case FamilyElite:
		return "elite"
	default:
		return "unknown"
	}
}

// Difficulty is the display difficulty of a tier.
type Difficulty string

const (
	DifficultyNormal    Difficulty = "NORMAL"
	DifficultyHard      Difficulty = "HARD"
	DifficultyNightmare Difficulty = "NIGHTMARE"
)

// RaidConfig holds the static capacity rules of a tier.
type RaidConfig struct {
	MaxPerRun         int // total members per run
	MaxSupportsPerRun int // hard cap on supports per run
	MaxParties        int // sub-parties per run, 1 or 2
}

// PartySize is the in-game party size.
const PartySize = 4

type raidMeta struct {
	label      string
	difficulty Difficulty
	family     Family
}

var raidMetas = map[RaidID]raidMeta{
	RaidAct3Hard:       {label: "3막 하드", difficulty: DifficultyHard, family: FamilyStandard},
	RaidAct4Normal:     {label: "4막 노말", difficulty: DifficultyNormal, family: FamilyStandard},
	RaidAct4Hard:       {label: "4막 하드", difficulty: DifficultyHard, family: FamilyStandard},
	RaidSerkaNormal:    {label: "세르카 노말", difficulty: DifficultyNormal, family: FamilyElite},
	RaidSerkaHard:      {label: "세르카 하드", difficulty: DifficultyHard, family: FamilyElite},
	RaidSerkaNightmare: {label: "세르카 나이트메어", difficulty: DifficultyNightmare, family: FamilyElite},
	RaidFinalNormal:    {label: "종막 노말", difficulty: DifficultyNormal, family: FamilyStandard},
	RaidFinalHard:      {label: "종막 하드", difficulty: DifficultyHard, family: FamilyStandard},
}

// ParseRaid converts a string to a RaidID.
func ParseRaid(s string) (RaidID, error) {
	id := RaidID(s)
	if _, ok := raidMetas[id]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownRaid, s)
	}
	return id, nil
}

// Valid reports whether the identifier names a known tier.
func (r RaidID) Valid() bool {
	_, ok := raidMetas[r]
	return ok
}

func (r RaidID) String() string { return string(r) }

// Label returns the display label of the tier.
func (r RaidID) Label() string { return raidMetas[r].label }

// Difficulty returns the display difficulty of the tier.
func (r RaidID) Difficulty() Difficulty { return raidMetas[r].difficulty }

// Family returns the tier family.
func (r RaidID) Family() Family { return raidMetas[r].family }

// Config returns the capacity rules of the tier. Elite tiers are 4-person
// single-party runs (3 damage + 1 support); every other tier is an 8-person
// run split into two parties.
func (r RaidID) Config() RaidConfig {
	if r.Family() == FamilyElite {
		return RaidConfig{MaxPerRun: 4, MaxSupportsPerRun: 1, MaxParties: 1}
	}
	return RaidConfig{MaxPerRun: 8, MaxSupportsPerRun: 2, MaxParties: 2}
}
