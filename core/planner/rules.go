package planner

import "github.com/kilianp07/raidplan/core/model"

// maxSameJobDPS is the number of damage characters of one job a run may hold,
// one per party.
const maxSameJobDPS = 2

// limits are the per-run bounds used while packing a bucket.
type limits struct {
	perRun   int // effective capacity
	supports int // hard support cap
}

// runSet is the arena of runs being packed, indexed by run position.
type runSet [][]model.Character

func newRunSet(n int) runSet {
	rs := make(runSet, n)
	for i := range rs {
		rs[i] = []model.Character{}
	}
	return rs
}

func (rs runSet) clone() runSet {
	out := make(runSet, len(rs))
	for i, r := range rs {
		out[i] = append(make([]model.Character, 0, len(r)+1), r...)
	}
	return out
}

func (rs runSet) size() int {
	n := 0
	for _, r := range rs {
		n += len(r)
	}
	return n
}

func (rs runSet) flatten() []model.Character {
	out := make([]model.Character, 0, rs.size())
	for _, r := range rs {
		out = append(out, r...)
	}
	return out
}

// lastNonEmpty returns the index of the last run with members, or -1.
func (rs runSet) lastNonEmpty() int {
	for i := len(rs) - 1; i >= 0; i-- {
		if len(rs[i]) > 0 {
			return i
		}
	}
	return -1
}

func indexOf(run []model.Character, id string) int {
	for i, m := range run {
		if m.ID == id {
			return i
		}
	}
	return -1
}

func removeAt(run []model.Character, i int) []model.Character {
	return append(run[:i], run[i+1:]...)
}

func insertAt(run []model.Character, i int, ch model.Character) []model.Character {
	run = append(run, model.Character{})
	copy(run[i+1:], run[i:])
	run[i] = ch
	return run
}

func hasOwner(run []model.Character, owner string) bool {
	for _, m := range run {
		if m.OwnerKey == owner {
			return true
		}
	}
	return false
}

func countSupports(run []model.Character) int {
	n := 0
	for _, m := range run {
		if m.IsSupport() {
			n++
		}
	}
	return n
}

func countJobDPS(run []model.Character, job string) int {
	n := 0
	for _, m := range run {
		if m.IsDPS() && m.JobCode == job {
			n++
		}
	}
	return n
}

// canJoin applies the strict placement rules: capacity, one character per
// owner, at most two damage characters per job, and the support cap. In tiers
// larger than one party a second support only joins once the run holds four
// members.
func (l limits) canJoin(run []model.Character, ch model.Character) bool {
	if len(run) >= l.perRun || hasOwner(run, ch.OwnerKey) {
		return false
	}
	if ch.IsDPS() {
		return countJobDPS(run, ch.JobCode) < maxSameJobDPS
	}
	sup := countSupports(run)
	if sup >= l.supports {
		return false
	}
	if l.perRun > model.PartySize && sup >= 1 && len(run) < model.PartySize {
		return false
	}
	return true
}

// canJoinRelaxed keeps capacity, the owner rule and the hard support cap but
// ignores job duplicates and the proportional support rule.
func (l limits) canJoinRelaxed(run []model.Character, ch model.Character) bool {
	if len(run) >= l.perRun || hasOwner(run, ch.OwnerKey) {
		return false
	}
	return !ch.IsSupport() || countSupports(run) < l.supports
}
