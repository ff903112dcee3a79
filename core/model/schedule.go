package model

import (
	"errors"
	"fmt"
	"sort"
)

// BalanceMode selects the optimisation objective of the run packer.
type BalanceMode string

const (
	// BalanceOverall flattens total power per run.
	BalanceOverall BalanceMode = "overall"
	// BalanceRole flattens damage power and support power separately.
	BalanceRole BalanceMode = "role"
	// BalanceSpeed fills runs first and balances power second.
	BalanceSpeed BalanceMode = "speed"
)

// ErrUnknownBalanceMode is returned for unsupported balance modes.
var ErrUnknownBalanceMode = errors.New("unknown balance mode")

// ParseBalanceMode converts a string to a BalanceMode.
func ParseBalanceMode(s string) (BalanceMode, error) {
	switch m := BalanceMode(s); m {
	case BalanceOverall, BalanceRole, BalanceSpeed:
		return m, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownBalanceMode, s)
}

// Party is a sub-group of at most PartySize members inside a run.
type Party struct {
	PartyIndex int         `json:"partyIndex"`
	Members    []Character `json:"members"`
}

// Supports counts support members of the party.
func (p Party) Supports() int {
	n := 0
	for _, m := range p.Members {
		if m.IsSupport() {
			n++
		}
	}
	return n
}

// Run is one raid instance of a tier.
type Run struct {
	RaidID             RaidID  `json:"raidId"`
	RunIndex           int     `json:"runIndex"`
	Parties            []Party `json:"parties"`
	AverageCombatPower float64 `json:"averageCombatPower"`
}

// Members returns all members of the run in party order.
func (r Run) Members() []Character {
	var out []Character
	for _, p := range r.Parties {
		out = append(out, p.Members...)
	}
	return out
}

// Size returns the number of members of the run.
func (r Run) Size() int {
	n := 0
	for _, p := range r.Parties {
		n += len(p.Members)
	}
	return n
}

// Clone returns a deep copy of the run's party slices.
func (r Run) Clone() Run {
	out := r
	out.Parties = make([]Party, len(r.Parties))
	for i, p := range r.Parties {
		out.Parties[i] = Party{PartyIndex: p.PartyIndex, Members: append([]Character(nil), p.Members...)}
	}
	return out
}

// Schedule maps each tier to its ordered runs.
type Schedule map[RaidID][]Run

// NewSchedule returns a schedule with an empty run list for every tier.
func NewSchedule() Schedule {
	s := make(Schedule, len(AllRaids))
	for _, id := range AllRaids {
		s[id] = []Run{}
	}
	return s
}

// ExclusionMap lists, per tier, the character ids banned from that tier.
type ExclusionMap map[RaidID][]string

// Excluded reports whether id is excluded from raid.
func (e ExclusionMap) Excluded(raid RaidID, id string) bool {
	for _, x := range e[raid] {
		if x == id {
			return true
		}
	}
	return false
}

// Set returns the exclusions of a tier as a set.
func (e ExclusionMap) Set(raid RaidID) map[string]struct{} {
	set := make(map[string]struct{}, len(e[raid]))
	for _, id := range e[raid] {
		set[id] = struct{}{}
	}
	return set
}

// Clone returns a deep copy of the map.
func (e ExclusionMap) Clone() ExclusionMap {
	out := make(ExclusionMap, len(e))
	for k, v := range e {
		out[k] = append([]string(nil), v...)
	}
	return out
}

// With returns a copy with ids added to raid. Existing ids are not duplicated
// and the resulting list is sorted.
func (e ExclusionMap) With(raid RaidID, ids ...string) ExclusionMap {
	out := e.Clone()
	set := out.Set(raid)
	for _, id := range ids {
		if id == "" {
			continue
		}
		set[id] = struct{}{}
	}
	list := make([]string, 0, len(set))
	for id := range set {
		list = append(list, id)
	}
	sort.Strings(list)
	out[raid] = list
	return out
}

// SettingsMap holds the support shortage flag per tier.
type SettingsMap map[RaidID]bool
