package planner

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/raidplan/core/model"
)

var speedJobs = []string{"버서커", "디트", "건슬", "블레", "소서", "기상", "슬레", "워로", "창술", "데헌"}

// distinctDPS returns damage characters with distinct owners and jobs.
func distinctDPS(prefix string, from, n int, cp float64) []model.Character {
	out := make([]model.Character, 0, n)
	for i := from; i < from+n; i++ {
		id := fmt.Sprintf("%s%d", prefix, i)
		out = append(out, dps(id, "owner-"+id, speedJobs[i%len(speedJobs)], 1720, cp))
	}
	return out
}

func sizes(rs runSet) []int {
	out := make([]int, len(rs))
	for i, r := range rs {
		out[i] = len(r)
	}
	return out
}

func TestSpeedVector(t *testing.T) {
	p := newPacking(model.RaidAct3Hard, limits{perRun: 8, supports: 2}, 2, false, nil)
	chars := distinctDPS("d", 0, 8, 1000)
	p.runs[0] = chars[:7]
	p.runs[1] = chars[7:]
	s := newSpeedSearch(p)
	assert.Equal(t, 8, s.fullTarget)

	cur := s.vector(p.runs)
	assert.Equal(t, []int{0, 1, 7, 1}, cur)
	assert.True(t, vectorBetter([]int{1, 0, 8, 0}, cur), "a full run outranks a larger smallest run")
	assert.True(t, vectorBetter([]int{0, 2, 6, 2}, cur))
	assert.False(t, vectorBetter(cur, cur))
}

func TestSpeedMoveFillsRun(t *testing.T) {
	p := newPacking(model.RaidAct3Hard, limits{perRun: 8, supports: 2}, 2, false, nil)
	chars := distinctDPS("d", 0, 8, 1000)
	p.runs[0] = append([]model.Character(nil), chars[:7]...)
	p.runs[1] = append([]model.Character(nil), chars[7:]...)
	s := newSpeedSearch(p)

	require.True(t, s.bestMove())
	assert.Equal(t, []int{8, 0}, sizes(p.runs))
	assert.False(t, s.bestMove(), "no single move beats a full run")
}

func TestSpeedMoveRaisesSmallestRun(t *testing.T) {
	p := newPacking(model.RaidAct3Hard, limits{perRun: 8, supports: 2}, 2, false, nil)
	chars := distinctDPS("d", 0, 8, 1000)
	p.runs[0] = append([]model.Character(nil), chars[:6]...)
	p.runs[1] = append([]model.Character(nil), chars[6:]...)
	s := newSpeedSearch(p)

	prev := s.vector(p.runs)
	for s.bestMove() {
		next := s.vector(p.runs)
		assert.True(t, vectorBetter(next, prev))
		prev = next
	}
	assert.Equal(t, []int{4, 4}, sizes(p.runs))
	assert.ElementsMatch(t, ids(chars), ids(p.runs.flatten()))
}

func TestSpeedSwapFlattensAverages(t *testing.T) {
	p := newPacking(model.RaidAct3Hard, limits{perRun: 8, supports: 2}, 2, false, nil)
	p.runs[0] = distinctDPS("hi", 0, 4, 3000)
	p.runs[1] = distinctDPS("lo", 4, 4, 1000)
	s := newSpeedSearch(p)
	before := s.objective(p.runs)

	s.run(0, 10)
	assert.Equal(t, []int{4, 4}, sizes(p.runs))
	assert.InDelta(t, 2000, runAverage(p.runs[0]), 1e-9)
	assert.InDelta(t, 2000, runAverage(p.runs[1]), 1e-9)
	after := s.objective(p.runs)
	assert.True(t, after.better(before, false))
	assert.Zero(t, after.spread)
}

func TestSpeedSwapKeepsLockedInPlace(t *testing.T) {
	p := newPacking(model.RaidAct3Hard, limits{perRun: 8, supports: 2}, 2, false, nil)
	p.runs[0] = distinctDPS("hi", 0, 4, 3000)
	p.runs[1] = distinctDPS("lo", 4, 4, 1000)
	for _, ch := range p.runs[0] {
		p.locked[ch.ID] = struct{}{}
	}
	newSpeedSearch(p).run(0, 10)
	assert.Equal(t, []string{"hi0", "hi1", "hi2", "hi3"}, ids(p.runs[0]))
}

func TestSpeedValidShortage(t *testing.T) {
	p := newPacking(model.RaidAct3Hard, limits{perRun: 8, supports: 2}, 2, true, nil)
	s := newSpeedSearch(p)
	small := []model.Character{
		sup("s1", "os1", "바드", 1720, 1000),
		sup("s2", "os2", "홀나", 1720, 1000),
		dps("d0", "od0", "버서커", 1720, 1000),
	}
	assert.False(t, s.valid(small), "two supports in one party under shortage")
	assert.True(t, s.valid(small[1:]))

	p.shortage = false
	assert.True(t, s.valid(small))
	assert.False(t, s.valid(append(distinctDPS("d", 1, 8, 1000), small[0])), "over capacity")
}

func TestSpeedShortageMovesSupportsToLargeRun(t *testing.T) {
	p := newPacking(model.RaidAct3Hard, limits{perRun: 8, supports: 2}, 2, true, nil)
	p.runs[0] = []model.Character{
		sup("s1", "os1", "바드", 1720, 1000),
		sup("s2", "os2", "홀나", 1720, 1000),
		dps("d0", "od0", "버서커", 1720, 1000),
	}
	p.runs[1] = distinctDPS("d", 1, 6, 1000)
	s := newSpeedSearch(p)
	before := s.objective(p.runs)
	assert.Positive(t, before.crowding)
	assert.Positive(t, before.starvation)

	s.run(5, 20)
	assert.Equal(t, []int{3, 6}, sizes(p.runs))
	assert.Equal(t, 0, countSupports(p.runs[0]))
	assert.Equal(t, 2, countSupports(p.runs[1]))
	after := s.objective(p.runs)
	assert.Zero(t, after.crowding)
	assert.Zero(t, after.starvation)
}

func TestSpreadStrongDPSOnePerRun(t *testing.T) {
	p := newPacking(model.RaidAct3Hard, limits{perRun: 8, supports: 2}, 3, false, nil)
	pool := []model.Character{sup("s", "os", "바드", 1720, 5000)}
	pool = append(pool, distinctDPS("d", 0, 6, 0)...)
	for i := range pool[1:] {
		pool[i+1].CombatPower = float64(900 - i*100)
	}
	k := packer{cfg: DefaultConfig(), strategy: NewSpeedStrategy(), log: nopLog(), report: &Report{}}

	rest := k.spreadStrongDPS(p, pool)
	assert.Equal(t, []string{"d0"}, ids(p.runs[0]))
	assert.Equal(t, []string{"d1"}, ids(p.runs[1]))
	assert.Equal(t, []string{"d2"}, ids(p.runs[2]))
	assert.Equal(t, []string{"s", "d3", "d4", "d5"}, ids(rest))
}
