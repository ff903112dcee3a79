package planner

import "github.com/kilianp07/raidplan/core/model"

// MaxPlanSize bounds the number of tiers a character is scheduled for.
const MaxPlanSize = 3

type band struct {
	min   float64
	raids []model.RaidID
}

// standardBands lists the standard plan per power band, highest first.
var standardBands = []band{
	{1730, []model.RaidID{model.RaidAct3Hard, model.RaidAct4Hard, model.RaidFinalHard}},
	{1720, []model.RaidID{model.RaidAct3Hard, model.RaidAct4Hard, model.RaidFinalNormal}},
	{1710, []model.RaidID{model.RaidAct3Hard, model.RaidAct4Normal, model.RaidFinalNormal}},
	{1700, []model.RaidID{model.RaidAct3Hard, model.RaidAct4Normal}},
}

// eliteGates is the minimum power level of each elite variant.
var eliteGates = map[model.RaidID]float64{
	model.RaidSerkaNightmare: 1740,
	model.RaidSerkaHard:      1730,
	model.RaidSerkaNormal:    1710,
}

// StandardPlan returns the standard tiers a power level qualifies for.
func StandardPlan(power float64) []model.RaidID {
	for _, b := range standardBands {
		if power >= b.min {
			return append([]model.RaidID(nil), b.raids...)
		}
	}
	return nil
}

// ElitePlan returns at most one elite tier for ch. Variants the character is
// excluded from are skipped in favour of the next easier one.
func ElitePlan(ch model.Character, excl model.ExclusionMap) []model.RaidID {
	var ladder []model.RaidID
	switch p := ch.PowerLevel; {
	case p >= eliteGates[model.RaidSerkaNightmare]:
		if ch.WantsHardest() {
			ladder = []model.RaidID{model.RaidSerkaNightmare, model.RaidSerkaHard, model.RaidSerkaNormal}
		} else {
			ladder = []model.RaidID{model.RaidSerkaHard, model.RaidSerkaNormal}
		}
	case p >= eliteGates[model.RaidSerkaHard]:
		ladder = []model.RaidID{model.RaidSerkaHard, model.RaidSerkaNormal}
	case p >= eliteGates[model.RaidSerkaNormal]:
		ladder = []model.RaidID{model.RaidSerkaNormal}
	}
	for _, raid := range ladder {
		if ch.PowerLevel < eliteGates[raid] || excl.Excluded(raid, ch.ID) {
			continue
		}
		return []model.RaidID{raid}
	}
	return nil
}

// Plan returns the ordered tiers ch is scheduled for. Elite tiers replace the
// lowest standard tier unless the character keeps the standard plan. The plan
// is truncated before tiers the character is excluded from are dropped.
func (c Config) Plan(ch model.Character, excl model.ExclusionMap) []model.RaidID {
	base := StandardPlan(ch.PowerLevel)
	elite := ElitePlan(ch, excl)

	raids := base
	if len(elite) > 0 && !c.standardPlanOnly(ch) {
		raids = make([]model.RaidID, 0, len(base)+len(elite))
		for _, r := range base {
			if r != model.RaidAct3Hard {
				raids = append(raids, r)
			}
		}
		raids = append(raids, elite...)
	}
	if len(raids) > MaxPlanSize {
		raids = raids[:MaxPlanSize]
	}

	out := make([]model.RaidID, 0, len(raids))
	for _, r := range raids {
		if !excl.Excluded(r, ch.ID) {
			out = append(out, r)
		}
	}
	return out
}
