package planner

import (
	"sort"

	"github.com/kilianp07/raidplan/core/model"
)

// declusterLastRun moves every damage character of a job that appears more
// than once in the last run to the first earlier run that accepts it. The
// duplicated jobs are fixed before any move.
func declusterLastRun(p *packing) {
	last := p.runs.lastNonEmpty()
	if last <= 0 {
		return
	}
	jobs := make(map[string]int)
	for _, m := range p.runs[last] {
		if m.IsDPS() {
			jobs[m.JobCode]++
		}
	}
	duplicated := make(map[string]struct{}, len(jobs))
	for job, n := range jobs {
		if n > 1 {
			duplicated[job] = struct{}{}
		}
	}
	if len(duplicated) == 0 {
		return
	}

	candidates := append([]model.Character(nil), p.runs[last]...)
	for _, ch := range candidates {
		if _, dup := duplicated[ch.JobCode]; !dup || !ch.IsDPS() || p.isLocked(ch.ID) {
			continue
		}
		for ri := 0; ri < last; ri++ {
			if !p.lim.canJoin(p.runs[ri], ch) {
				continue
			}
			idx := indexOf(p.runs[last], ch.ID)
			if idx < 0 {
				break
			}
			p.runs[last] = removeAt(p.runs[last], idx)
			p.runs[ri] = append(p.runs[ri], ch)
			break
		}
	}
}

// adjustSoloLastRun handles a last run holding a single character. Among the
// owner's unlocked characters at or above the strongest other run average,
// the weakest one is swapped into the solo run when both runs stay valid.
func adjustSoloLastRun(p *packing) {
	last := p.runs.lastNonEmpty()
	if last <= 0 || len(p.runs[last]) != 1 {
		return
	}
	solo := p.runs[last][0]
	if p.isLocked(solo.ID) {
		return
	}

	var others []float64
	for i, r := range p.runs {
		if i != last && len(r) > 0 {
			others = append(others, runAverage(r))
		}
	}
	if len(others) == 0 {
		return
	}
	threshold := others[0]
	for _, v := range others[1:] {
		if v > threshold {
			threshold = v
		}
	}

	type candidate struct {
		run int
		ch  model.Character
	}
	var cands []candidate
	for ri, r := range p.runs {
		for _, ch := range r {
			if p.isLocked(ch.ID) || ch.OwnerKey != solo.OwnerKey || ch.CombatPower < threshold {
				continue
			}
			cands = append(cands, candidate{run: ri, ch: ch})
		}
	}
	sort.SliceStable(cands, func(i, j int) bool { return cands[i].ch.CombatPower < cands[j].ch.CombatPower })

	for _, c := range cands {
		if c.ch.ID == solo.ID {
			return
		}
		idx := indexOf(p.runs[c.run], c.ch.ID)
		target := removeAt(p.runs[c.run], idx)
		if p.lim.canJoin(nil, c.ch) && p.lim.canJoin(target, solo) {
			p.runs[c.run] = append(target, solo)
			p.runs[last] = []model.Character{c.ch}
			return
		}
		p.runs[c.run] = insertAt(target, idx, c.ch)
	}
}
