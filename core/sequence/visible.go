package sequence

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/kilianp07/raidplan/core/model"
)

// VisibleMembers returns the members of run that are not excluded from raid.
func VisibleMembers(raid model.RaidID, run model.Run, excl model.ExclusionMap) []model.Character {
	hidden := excl.Set(raid)
	out := make([]model.Character, 0, run.Size())
	for _, m := range run.Members() {
		if _, ok := hidden[m.ID]; !ok {
			out = append(out, m)
		}
	}
	return out
}

// MarkComplete excludes the visible members of run from raid. Other tiers
// are untouched. It returns the updated map and the ids that were added.
func MarkComplete(excl model.ExclusionMap, raid model.RaidID, run model.Run) (model.ExclusionMap, []string) {
	var added []string
	seen := make(map[string]struct{})
	for _, m := range VisibleMembers(raid, run, excl) {
		if _, dup := seen[m.ID]; dup {
			continue
		}
		seen[m.ID] = struct{}{}
		added = append(added, m.ID)
	}
	if len(added) == 0 {
		return excl.Clone(), nil
	}
	return excl.With(raid, added...), added
}

// RunStats are rounded average combat powers of the visible members. A nil
// value means no member of that kind is visible.
type RunStats struct {
	Overall *float64 `json:"overall"`
	DPS     *float64 `json:"dps"`
	Support *float64 `json:"support"`
}

// Stats computes RunStats for run.
func Stats(raid model.RaidID, run model.Run, excl model.ExclusionMap) RunStats {
	var all, dps, sup []float64
	for _, m := range VisibleMembers(raid, run, excl) {
		all = append(all, m.CombatPower)
		if m.IsSupport() {
			sup = append(sup, m.CombatPower)
		} else {
			dps = append(dps, m.CombatPower)
		}
	}
	return RunStats{Overall: roundedMean(all), DPS: roundedMean(dps), Support: roundedMean(sup)}
}

func roundedMean(values []float64) *float64 {
	if len(values) == 0 {
		return nil
	}
	m := math.Round(stat.Mean(values, nil))
	return &m
}
