package planner

import (
	"sort"

	"github.com/kilianp07/raidplan/core/model"
)

// Bucket holds the characters scheduled for one tier.
type Bucket struct {
	Raid       model.RaidID
	Characters []model.Character
}

// Bucketize filters out characters below the minimum power level and groups
// the rest per tier. Buckets are returned in model.AllRaids order, each sorted
// by combat power descending then id.
func (c Config) Bucketize(chars []model.Character, excl model.ExclusionMap) []Bucket {
	byRaid := make(map[model.RaidID][]model.Character, len(model.AllRaids))
	for _, ch := range chars {
		if ch.PowerLevel < c.MinPowerLevel {
			continue
		}
		for _, raid := range c.Plan(ch, excl) {
			byRaid[raid] = append(byRaid[raid], ch)
		}
	}

	buckets := make([]Bucket, 0, len(model.AllRaids))
	for _, raid := range model.AllRaids {
		members := byRaid[raid]
		sortByPowerDesc(members)
		buckets = append(buckets, Bucket{Raid: raid, Characters: members})
	}
	return buckets
}

// sortByPowerDesc orders characters by combat power descending, ties by id.
func sortByPowerDesc(chars []model.Character) {
	sort.SliceStable(chars, func(i, j int) bool {
		if chars[i].CombatPower != chars[j].CombatPower {
			return chars[i].CombatPower > chars[j].CombatPower
		}
		return chars[i].ID < chars[j].ID
	})
}

// sortByPowerAsc orders characters by combat power ascending, ties by id.
func sortByPowerAsc(chars []model.Character) {
	sort.SliceStable(chars, func(i, j int) bool {
		if chars[i].CombatPower != chars[j].CombatPower {
			return chars[i].CombatPower < chars[j].CombatPower
		}
		return chars[i].ID < chars[j].ID
	})
}

// ownerStats returns the number of distinct owners and the largest number of
// characters held by a single owner.
func ownerStats(chars []model.Character) (owners, maxPerOwner int) {
	counts := make(map[string]int, len(chars))
	for _, ch := range chars {
		counts[ch.OwnerKey]++
		if counts[ch.OwnerKey] > maxPerOwner {
			maxPerOwner = counts[ch.OwnerKey]
		}
	}
	return len(counts), maxPerOwner
}

// RunCount returns the number of runs a bucket needs when each run holds at
// most perRun members.
func RunCount(chars []model.Character, perRun int) int {
	if len(chars) == 0 {
		return 0
	}
	if perRun < 1 {
		perRun = 1
	}
	_, maxPerOwner := ownerStats(chars)
	n := (len(chars) + perRun - 1) / perRun
	if maxPerOwner > n {
		n = maxPerOwner
	}
	return n
}

// EffectiveCapacity caps the tier capacity by the number of distinct owners.
func EffectiveCapacity(raid model.RaidID, chars []model.Character) int {
	owners, _ := ownerStats(chars)
	size := raid.Config().MaxPerRun
	if owners < size {
		size = owners
	}
	if size < 1 {
		size = 1
	}
	return size
}
