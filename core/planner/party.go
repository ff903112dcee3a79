package planner

import "github.com/kilianp07/raidplan/core/model"

const (
	maxDPSPerParty     = 3
	maxSupportPerParty = 1
)

// SplitParties divides a run into parties. Each party takes the strongest
// free support, then up to three of the strongest damage characters with
// distinct jobs. Members left over by these rules are appended to the first
// party with room and returned as overflow so that nobody is dropped. Empty
// parties are removed.
func SplitParties(members []model.Character, raid model.RaidID) ([]model.Party, []model.Character) {
	cfg := raid.Config()
	var supports, dps []model.Character
	for _, m := range members {
		if m.IsSupport() {
			supports = append(supports, m)
		} else {
			dps = append(dps, m)
		}
	}
	sortByPowerDesc(supports)
	sortByPowerDesc(dps)

	used := make(map[string]struct{}, len(members))
	parties := make([]model.Party, cfg.MaxParties)
	for i := range parties {
		parties[i] = model.Party{PartyIndex: i + 1, Members: []model.Character{}}
		fillParty(&parties[i], supports, dps, used)
	}

	var overflow []model.Character
	for _, m := range append(supports, dps...) {
		if _, ok := used[m.ID]; ok {
			continue
		}
		overflow = append(overflow, m)
		placeOverflow(parties, m)
		used[m.ID] = struct{}{}
	}

	out := parties[:0]
	for _, p := range parties {
		if len(p.Members) > 0 {
			p.PartyIndex = len(out) + 1
			out = append(out, p)
		}
	}
	return out, overflow
}

func fillParty(party *model.Party, supports, dps []model.Character, used map[string]struct{}) {
	for _, s := range supports {
		if _, ok := used[s.ID]; ok {
			continue
		}
		if party.Supports() < maxSupportPerParty {
			party.Members = append(party.Members, s)
			used[s.ID] = struct{}{}
		}
		break
	}
	count := 0
	for _, d := range dps {
		if _, ok := used[d.ID]; ok {
			continue
		}
		if count >= maxDPSPerParty || len(party.Members) >= model.PartySize {
			break
		}
		if countJobDPS(party.Members, d.JobCode) > 0 {
			continue
		}
		party.Members = append(party.Members, d)
		used[d.ID] = struct{}{}
		count++
	}
}

// placeOverflow puts m into the first party with room, preferring one where
// its job is not yet represented.
func placeOverflow(parties []model.Party, m model.Character) {
	target := -1
	for i := range parties {
		if len(parties[i].Members) >= model.PartySize {
			continue
		}
		if m.IsSupport() || countJobDPS(parties[i].Members, m.JobCode) == 0 {
			target = i
			break
		}
		if target < 0 {
			target = i
		}
	}
	if target < 0 {
		// every party is full; only reachable when a run exceeds its tier
		target = len(parties) - 1
	}
	parties[target].Members = append(parties[target].Members, m)
}
