package planner

import "github.com/kilianp07/raidplan/core/model"

// Promote flips flexible damage characters to support when the tier is short
// on supports. The run estimate uses the full tier capacity. The lowest
// combat power candidates are promoted first and the input is never mutated.
// The ids of promoted characters are returned alongside the new bucket.
func (c Config) Promote(raid model.RaidID, chars []model.Character) ([]model.Character, []string) {
	var candidates []model.Character
	supports := 0
	for _, ch := range chars {
		if ch.IsSupport() {
			supports++
			continue
		}
		if ch.FlexSupport && c.isFlexibleJob(ch.JobCode) {
			candidates = append(candidates, ch)
		}
	}
	if len(candidates) == 0 {
		return chars, nil
	}

	need := RunCount(chars, raid.Config().MaxPerRun)*raid.Config().MaxSupportsPerRun - supports
	if need <= 0 {
		return chars, nil
	}
	sortByPowerAsc(candidates)
	if need > len(candidates) {
		need = len(candidates)
	}
	ids := make(map[string]struct{}, need)
	promoted := make([]string, 0, need)
	for _, ch := range candidates[:need] {
		ids[ch.ID] = struct{}{}
		promoted = append(promoted, ch.ID)
	}

	out := make([]model.Character, len(chars))
	for i, ch := range chars {
		if _, ok := ids[ch.ID]; ok {
			ch = ch.WithRole(model.RoleSupport)
		}
		out[i] = ch
	}
	return out, promoted
}
