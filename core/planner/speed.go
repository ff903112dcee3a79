package planner

import (
	"math"
	"slices"
	"sort"

	"github.com/kilianp07/raidplan/core/model"
)

// speedObjective is the secondary objective of the speed search. Support
// crowding and starvation only count when the tier is short on supports.
type speedObjective struct {
	crowding   float64
	starvation float64
	sd         float64
	spread     float64
	medPenalty float64
}

func (a speedObjective) better(b speedObjective, shortage bool) bool {
	if shortage {
		if a.crowding != b.crowding {
			return a.crowding < b.crowding
		}
		if a.starvation != b.starvation {
			return a.starvation < b.starvation
		}
	}
	if a.sd != b.sd {
		return a.sd < b.sd
	}
	if a.spread != b.spread {
		return a.spread < b.spread
	}
	return a.medPenalty < b.medPenalty
}

type speedSearch struct {
	p          *packing
	fullTarget int
}

func newSpeedSearch(p *packing) *speedSearch {
	owners, _ := ownerStats(p.runs.flatten())
	target := p.lim.perRun
	if owners < target {
		target = owners
	}
	return &speedSearch{p: p, fullTarget: target}
}

// vector ranks fullness: runs at the target size, then the smallest run,
// then all sizes descending. Higher is better.
func (s *speedSearch) vector(rs runSet) []int {
	sizes := make([]int, len(rs))
	for i, r := range rs {
		sizes[i] = len(r)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(sizes)))
	full, minSize := 0, 0
	for _, n := range sizes {
		if n >= s.fullTarget {
			full++
		}
	}
	if len(sizes) > 0 {
		minSize = sizes[len(sizes)-1]
	}
	return append([]int{full, minSize}, sizes...)
}

func vectorBetter(next, cur []int) bool {
	for i := 0; i < len(next) && i < len(cur); i++ {
		if next[i] != cur[i] {
			return next[i] > cur[i]
		}
	}
	return false
}

// valid checks a whole run. Under support shortage runs of at most one
// party hold a single support.
func (s *speedSearch) valid(run []model.Character) bool {
	lim := s.p.lim
	if len(run) > lim.perRun {
		return false
	}
	owners := make(map[string]struct{}, len(run))
	jobs := make(map[string]int, len(run))
	sup := 0
	for _, m := range run {
		if _, dup := owners[m.OwnerKey]; dup {
			return false
		}
		owners[m.OwnerKey] = struct{}{}
		if m.IsSupport() {
			sup++
			continue
		}
		jobs[m.JobCode]++
		if jobs[m.JobCode] > maxSameJobDPS {
			return false
		}
	}
	maxSup := lim.supports
	if s.p.shortage && lim.perRun > model.PartySize && len(run) <= model.PartySize {
		maxSup = 1
	}
	return sup <= maxSup
}

func (s *speedSearch) objective(rs runSet) speedObjective {
	avgs := nonEmptyAverages(rs)
	med := median(avgs)

	minSize := math.MaxInt
	for _, r := range rs {
		if len(r) < minSize {
			minSize = len(r)
		}
	}
	var obj speedObjective
	for _, r := range rs {
		if len(r) == minSize {
			obj.medPenalty += math.Abs(runAverage(r) - med)
		}
	}
	obj.sd = popStdDev(avgs)
	obj.spread = spread(avgs)

	if !s.p.shortage || s.p.lim.perRun <= model.PartySize {
		return obj
	}
	for _, r := range rs {
		if len(r) == 0 {
			continue
		}
		sup := countSupports(r)
		if len(r) <= model.PartySize && sup > 1 {
			obj.crowding += float64(sup-1) * 100
		}
		if len(r) > model.PartySize {
			if missing := s.p.lim.supports - sup; missing > 0 {
				obj.starvation += float64(missing) * 50
			}
		}
	}
	return obj
}

func (s *speedSearch) run(movesPerChar, swapsPerChar int) {
	if len(s.p.runs) <= 1 {
		return
	}
	n := s.p.runs.size()
	for iter := 0; iter < n*movesPerChar; iter++ {
		if !s.bestMove() {
			break
		}
	}
	fixed := s.vector(s.p.runs)
	cur := s.objective(s.p.runs)
	for iter := 0; iter < n*swapsPerChar; iter++ {
		next, ok := s.firstSwap(fixed, cur)
		if !ok {
			break
		}
		cur = next
	}
}

// bestMove applies the single move with the best fullness vector, breaking
// ties on the objective. It reports whether any improving move existed.
func (s *speedSearch) bestMove() bool {
	p := s.p
	curVec := s.vector(p.runs)
	var (
		bestRuns runSet
		bestVec  []int
		bestObj  speedObjective
	)
	for from := range p.runs {
		for to := range p.runs {
			if to == from || len(p.runs[to]) >= p.lim.perRun {
				continue
			}
			for ci, ch := range p.runs[from] {
				if p.isLocked(ch.ID) || !p.lim.canJoin(p.runs[to], ch) {
					continue
				}
				next := p.runs.clone()
				next[from] = removeAt(next[from], ci)
				next[to] = append(next[to], ch)
				if !s.valid(next[from]) || !s.valid(next[to]) {
					continue
				}
				vec := s.vector(next)
				if !vectorBetter(vec, curVec) {
					continue
				}
				obj := s.objective(next)
				if bestRuns == nil || vectorBetter(vec, bestVec) ||
					(slices.Equal(vec, bestVec) && obj.better(bestObj, p.shortage)) {
					bestRuns, bestVec, bestObj = next, vec, obj
				}
			}
		}
	}
	if bestRuns == nil {
		return false
	}
	p.runs = bestRuns
	return true
}

// firstSwap applies the first pairwise swap that keeps the fullness vector
// and improves the objective.
func (s *speedSearch) firstSwap(fixed []int, cur speedObjective) (speedObjective, bool) {
	p := s.p
	for a := range p.runs {
		for b := a + 1; b < len(p.runs); b++ {
			if len(p.runs[a]) == 0 || len(p.runs[b]) == 0 {
				continue
			}
			for ai, x := range p.runs[a] {
				for bi, y := range p.runs[b] {
					if p.isLocked(x.ID) || p.isLocked(y.ID) {
						continue
					}
					next := p.runs.clone()
					next[a][ai] = y
					next[b][bi] = x
					if !slices.Equal(s.vector(next), fixed) {
						continue
					}
					if !s.valid(next[a]) || !s.valid(next[b]) {
						continue
					}
					obj := s.objective(next)
					if obj.better(cur, p.shortage) {
						p.runs = next
						return obj, true
					}
				}
			}
		}
	}
	return cur, false
}
