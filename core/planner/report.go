package planner

import "github.com/kilianp07/raidplan/core/model"

// Placement identifies a character affected by a degraded decision.
type Placement struct {
	Raid        model.RaidID `json:"raid"`
	CharacterID string       `json:"characterId"`
	Owner       string       `json:"owner"`
	Job         string       `json:"job"`
}

func placementOf(raid model.RaidID, ch model.Character) Placement {
	return Placement{Raid: raid, CharacterID: ch.ID, Owner: ch.OwnerKey, Job: ch.JobCode}
}

// TierSummary describes the outcome for one tier.
type TierSummary struct {
	Raid       model.RaidID `json:"raid"`
	Characters int          `json:"characters"`
	Runs       int          `json:"runs"`
	Supports   int          `json:"supports"`
	// Spread is the population standard deviation of run averages.
	Spread float64 `json:"spread"`
}

// Report collects the advisory signals of one scheduling pass. Entries are
// appended in processing order so reports are reproducible.
type Report struct {
	Seed     uint32                    `json:"seed"`
	Mode     model.BalanceMode         `json:"mode"`
	Tiers    []TierSummary             `json:"tiers"`
	Promoted map[model.RaidID][]string `json:"promoted,omitempty"`
	Pinned   map[model.RaidID][]string `json:"pinned,omitempty"`
	Degraded []Placement               `json:"degraded,omitempty"`
	Unplaced []Placement               `json:"unplaced,omitempty"`
	Overflow []Placement               `json:"overflow,omitempty"`
}

// Clean reports whether every character was placed under strict rules.
func (r Report) Clean() bool {
	return len(r.Degraded) == 0 && len(r.Unplaced) == 0 && len(r.Overflow) == 0
}

// Tier returns the summary of raid.
func (r Report) Tier(raid model.RaidID) (TierSummary, bool) {
	for _, t := range r.Tiers {
		if t.Raid == raid {
			return t, true
		}
	}
	return TierSummary{}, false
}

func (r *Report) degraded(raid model.RaidID, ch model.Character) {
	r.Degraded = append(r.Degraded, placementOf(raid, ch))
}

func (r *Report) unplaced(raid model.RaidID, ch model.Character) {
	r.Unplaced = append(r.Unplaced, placementOf(raid, ch))
}

func (r *Report) overflow(raid model.RaidID, chars []model.Character) {
	for _, ch := range chars {
		r.Overflow = append(r.Overflow, placementOf(raid, ch))
	}
}

func (r *Report) promoted(raid model.RaidID, ids []string) {
	if len(ids) == 0 {
		return
	}
	if r.Promoted == nil {
		r.Promoted = make(map[model.RaidID][]string)
	}
	r.Promoted[raid] = ids
}

func (r *Report) pinned(raid model.RaidID, ids []string) {
	if r.Pinned == nil {
		r.Pinned = make(map[model.RaidID][]string)
	}
	r.Pinned[raid] = ids
}
