package planner

import "github.com/kilianp07/raidplan/core/model"

// Pin resolves a fixed squad against chars. Each member takes the strongest
// matching character not claimed by an earlier member. Nil is returned when
// the squad is empty or any member cannot be resolved.
func Pin(chars []model.Character, squad []SquadMember) []model.Character {
	if len(squad) == 0 {
		return nil
	}
	picked := make([]model.Character, 0, len(squad))
	claimed := make(map[string]struct{}, len(squad))
	for _, want := range squad {
		var match []model.Character
		for _, ch := range chars {
			if _, taken := claimed[ch.ID]; taken {
				continue
			}
			if ch.OwnerKey == want.Owner && ch.JobCode == want.Job {
				match = append(match, ch)
			}
		}
		if len(match) == 0 {
			return nil
		}
		sortByPowerDesc(match)
		picked = append(picked, match[0])
		claimed[match[0].ID] = struct{}{}
	}
	return picked
}
