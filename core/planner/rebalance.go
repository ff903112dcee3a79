package planner

import "github.com/kilianp07/raidplan/core/model"

type partyRef struct {
	run, party int
}

// RebalanceSupports moves lone supports into parties without a support.
// Parties at or below the median run average receive the support from the
// strongest donor run, stronger parties from the weakest. A donor is only
// used when the move keeps the receiving run free of duplicate owners and
// within the tier limits. Locked characters never move. The input is not
// modified; emptied parties and runs are dropped and indexes renumbered.
func RebalanceSupports(runs []model.Run, locked map[string]struct{}) []model.Run {
	out := make([]model.Run, len(runs))
	for i, r := range runs {
		out[i] = r.Clone()
	}

	var lacking, donors []partyRef
	for ri, r := range out {
		for pi, p := range r.Parties {
			sup := p.Supports()
			if sup == 0 && len(p.Members) > 0 {
				lacking = append(lacking, partyRef{ri, pi})
			}
			if sup == 1 && len(p.Members) == 1 {
				if _, ok := locked[p.Members[0].ID]; !ok {
					donors = append(donors, partyRef{ri, pi})
				}
			}
		}
	}

	for len(lacking) > 0 && len(donors) > 0 {
		target := lacking[0]
		lacking = lacking[1:]

		avgs := make([]float64, len(out))
		var positive []float64
		for i, r := range out {
			avgs[i] = runAverage(r.Members())
			if avgs[i] > 0 {
				positive = append(positive, avgs[i])
			}
		}
		weak := avgs[target.run] <= median(positive)

		best := -1
		for di, d := range donors {
			if !acceptsSupport(out, target, d) {
				continue
			}
			if best < 0 ||
				(weak && avgs[d.run] > avgs[donors[best].run]) ||
				(!weak && avgs[d.run] < avgs[donors[best].run]) {
				best = di
			}
		}
		if best < 0 {
			continue
		}
		d := donors[best]
		donors = append(donors[:best], donors[best+1:]...)

		sup := out[d.run].Parties[d.party].Members[0]
		out[d.run].Parties[d.party].Members = out[d.run].Parties[d.party].Members[:0]
		tp := &out[target.run].Parties[target.party]
		tp.Members = append(tp.Members, sup)
	}
	return compactRuns(out)
}

func acceptsSupport(runs []model.Run, target, donor partyRef) bool {
	run := runs[target.run]
	if len(run.Parties[target.party].Members) >= model.PartySize {
		return false
	}
	if donor.run == target.run {
		return true
	}
	sup := runs[donor.run].Parties[donor.party].Members[0]
	cfg := run.RaidID.Config()
	members := run.Members()
	if len(members) >= cfg.MaxPerRun || countSupports(members) >= cfg.MaxSupportsPerRun {
		return false
	}
	return !hasOwner(members, sup.OwnerKey)
}

func compactRuns(runs []model.Run) []model.Run {
	out := make([]model.Run, 0, len(runs))
	for _, r := range runs {
		parties := make([]model.Party, 0, len(r.Parties))
		for _, p := range r.Parties {
			if len(p.Members) > 0 {
				p.PartyIndex = len(parties) + 1
				parties = append(parties, p)
			}
		}
		if len(parties) == 0 {
			continue
		}
		r.Parties = parties
		r.RunIndex = len(out) + 1
		out = append(out, r)
	}
	return out
}
