package planner

import (
	"github.com/kilianp07/raidplan/core/logger"
	"github.com/kilianp07/raidplan/core/model"
)

// packing is the mutable state of one bucket while it is packed.
type packing struct {
	raid     model.RaidID
	lim      limits
	shortage bool
	rng      Source
	locked   map[string]struct{}
	runs     runSet

	// running power sums used by greedy placement
	total, dps, sup []float64
}

func newPacking(raid model.RaidID, lim limits, runCount int, shortage bool, rng Source) *packing {
	return &packing{
		raid:     raid,
		lim:      lim,
		shortage: shortage,
		rng:      rng,
		locked:   make(map[string]struct{}),
		runs:     newRunSet(runCount),
		total:    make([]float64, runCount),
		dps:      make([]float64, runCount),
		sup:      make([]float64, runCount),
	}
}

func (p *packing) isLocked(id string) bool {
	_, ok := p.locked[id]
	return ok
}

func (p *packing) place(run int, ch model.Character) {
	p.runs[run] = append(p.runs[run], ch)
	p.total[run] += ch.CombatPower
	if ch.IsSupport() {
		p.sup[run] += ch.CombatPower
	} else {
		p.dps[run] += ch.CombatPower
	}
}

// packer packs a single bucket.
type packer struct {
	cfg      Config
	strategy Strategy
	log      logger.Logger
	report   *Report
}

// pack distributes chars into runs. The returned run set may contain empty
// runs; members of a pinned squad are listed in the locked set.
func (k packer) pack(raid model.RaidID, chars []model.Character, shortage bool, rng Source) (runSet, map[string]struct{}) {
	if len(chars) == 0 {
		return nil, nil
	}
	lim := limits{perRun: EffectiveCapacity(raid, chars), supports: raid.Config().MaxSupportsPerRun}
	runCount := RunCount(chars, lim.perRun)
	p := newPacking(raid, lim, runCount, shortage, rng)

	if squad := Pin(chars, k.cfg.squad(raid)); squad != nil {
		ids := make([]string, 0, len(squad))
		for _, ch := range squad {
			p.place(0, ch)
			p.locked[ch.ID] = struct{}{}
			ids = append(ids, ch.ID)
		}
		k.report.pinned(raid, ids)
	} else if len(k.cfg.squad(raid)) > 0 {
		k.log.Debugf("fixed squad for %s not resolved, scheduling unlocked", raid)
	}

	pool := make([]model.Character, 0, len(chars))
	for _, ch := range chars {
		if !p.isLocked(ch.ID) {
			pool = append(pool, ch)
		}
	}
	sortByPowerDesc(pool)

	if !shortage {
		pool = k.spreadStrongDPS(p, pool)
	}
	degraded := 0
	for _, ch := range pool {
		if best := k.bestRun(p, ch); best >= 0 {
			p.place(best, ch)
			continue
		}
		fb := relaxedRun(p, ch)
		if fb < 0 || (k.cfg.MaxDegradedPlacements > 0 && degraded >= k.cfg.MaxDegradedPlacements) {
			k.log.Errorf("no available run for %s: owner=%s job=%s id=%s", raid, ch.OwnerKey, ch.JobCode, ch.ID)
			k.report.unplaced(raid, ch)
			continue
		}
		degraded++
		k.log.Warnf("degraded placement in %s run %d: owner=%s job=%s id=%s", raid, fb+1, ch.OwnerKey, ch.JobCode, ch.ID)
		k.report.degraded(raid, ch)
		p.place(fb, ch)
	}

	k.strategy.refine(p)
	declusterLastRun(p)
	adjustSoloLastRun(p)
	return p.runs, p.locked
}

// spreadStrongDPS seeds the strongest damage characters one per run, each
// into the legal run with the lowest damage power so far. It returns the
// pool without the seeded characters.
func (k packer) spreadStrongDPS(p *packing, pool []model.Character) []model.Character {
	var strong []model.Character
	for _, ch := range pool {
		if len(strong) == len(p.runs) {
			break
		}
		if ch.IsDPS() {
			strong = append(strong, ch)
		}
	}
	placed := make(map[string]struct{}, len(strong))
	for _, ch := range strong {
		best := -1
		for i := range p.runs {
			if !p.lim.canJoin(p.runs[i], ch) {
				continue
			}
			if best < 0 || p.dps[i] < p.dps[best] {
				best = i
			}
		}
		if best < 0 {
			continue
		}
		p.place(best, ch)
		placed[ch.ID] = struct{}{}
	}
	rest := pool[:0:0]
	for _, ch := range pool {
		if _, ok := placed[ch.ID]; !ok {
			rest = append(rest, ch)
		}
	}
	return rest
}

func (k packer) bestRun(p *packing, ch model.Character) int {
	best := -1
	var bestScore score
	for i := range p.runs {
		if !p.lim.canJoin(p.runs[i], ch) {
			continue
		}
		s := k.strategy.score(p, i, ch)
		if best < 0 || s.less(bestScore) {
			best, bestScore = i, s
		}
	}
	return best
}

// relaxedRun returns the least populated run accepting ch under relaxed
// rules, or -1.
func relaxedRun(p *packing, ch model.Character) int {
	best := -1
	for i, r := range p.runs {
		if !p.lim.canJoinRelaxed(r, ch) {
			continue
		}
		if best < 0 || len(r) < len(p.runs[best]) {
			best = i
		}
	}
	return best
}

// hillClimb moves random unlocked characters to random runs and keeps every
// move that does not increase the variance cost.
func hillClimb(p *packing, byRole bool, movesPerChar int) {
	runCount := len(p.runs)
	if runCount <= 1 {
		return
	}
	all := p.runs.flatten()
	if len(all) == 0 {
		return
	}
	where := make(map[string]int, len(all))
	for ri, r := range p.runs {
		for _, m := range r {
			where[m.ID] = ri
		}
	}

	best := varianceCost(p.runs, byRole)
	iterations := len(all) * movesPerChar
	for iter := 0; iter < iterations; iter++ {
		ch := all[intn(p.rng, len(all))]
		if p.isLocked(ch.ID) {
			continue
		}
		from := where[ch.ID]
		to := intn(p.rng, runCount)
		for guard := 0; to == from && guard < 5; guard++ {
			to = intn(p.rng, runCount)
		}
		if to == from || !p.lim.canJoin(p.runs[to], ch) {
			continue
		}
		idx := indexOf(p.runs[from], ch.ID)
		if idx < 0 {
			continue
		}

		p.runs[from] = removeAt(p.runs[from], idx)
		p.runs[to] = append(p.runs[to], ch)
		if cost := varianceCost(p.runs, byRole); cost <= best {
			best = cost
			where[ch.ID] = to
			continue
		}
		p.runs[to] = p.runs[to][:len(p.runs[to])-1]
		p.runs[from] = insertAt(p.runs[from], idx, ch)
	}
}
