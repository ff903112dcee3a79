package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kilianp07/raidplan/core/model"
)

func TestStandardPlan(t *testing.T) {
	tests := []struct {
		power float64
		want  []model.RaidID
	}{
		{1745, []model.RaidID{model.RaidAct3Hard, model.RaidAct4Hard, model.RaidFinalHard}},
		{1730, []model.RaidID{model.RaidAct3Hard, model.RaidAct4Hard, model.RaidFinalHard}},
		{1725, []model.RaidID{model.RaidAct3Hard, model.RaidAct4Hard, model.RaidFinalNormal}},
		{1710, []model.RaidID{model.RaidAct3Hard, model.RaidAct4Normal, model.RaidFinalNormal}},
		{1700, []model.RaidID{model.RaidAct3Hard, model.RaidAct4Normal}},
		{1699.9, nil},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StandardPlan(tt.power), "power %v", tt.power)
	}
}

func TestElitePlan(t *testing.T) {
	top := dps("c1", "o", "j", 1745, 100)
	noHardest := top
	noHardest.PrefersHardest = boolPtr(false)

	assert.Equal(t, []model.RaidID{model.RaidSerkaNightmare}, ElitePlan(top, nil))
	assert.Equal(t, []model.RaidID{model.RaidSerkaHard}, ElitePlan(noHardest, nil))

	excl := model.ExclusionMap{model.RaidSerkaNightmare: {"c1"}}
	assert.Equal(t, []model.RaidID{model.RaidSerkaHard}, ElitePlan(top, excl))

	excl[model.RaidSerkaHard] = []string{"c1"}
	assert.Equal(t, []model.RaidID{model.RaidSerkaNormal}, ElitePlan(top, excl))

	excl[model.RaidSerkaNormal] = []string{"c1"}
	assert.Empty(t, ElitePlan(top, excl))

	mid := dps("c2", "o", "j", 1735, 100)
	assert.Equal(t, []model.RaidID{model.RaidSerkaHard}, ElitePlan(mid, nil))
	assert.Equal(t, []model.RaidID{model.RaidSerkaNormal},
		ElitePlan(mid, model.ExclusionMap{model.RaidSerkaHard: {"c2"}}))

	low := dps("c3", "o", "j", 1712, 100)
	assert.Equal(t, []model.RaidID{model.RaidSerkaNormal}, ElitePlan(low, nil))
	assert.Empty(t, ElitePlan(low, model.ExclusionMap{model.RaidSerkaNormal: {"c3"}}))
	assert.Empty(t, ElitePlan(dps("c4", "o", "j", 1705, 100), nil))
}

func TestPlanKeepsStandardPlanByDefault(t *testing.T) {
	cfg := DefaultConfig()
	ch := dps("c1", "o", "j", 1745, 100)
	assert.Equal(t, StandardPlan(1745), cfg.Plan(ch, nil))

	ch.StandardPlanOnly = boolPtr(false)
	assert.Equal(t,
		[]model.RaidID{model.RaidAct4Hard, model.RaidFinalHard, model.RaidSerkaNightmare},
		cfg.Plan(ch, nil))
}

func TestPlanDefaultCanBeDisabled(t *testing.T) {
	cfg := Config{StandardPlanOnly: boolPtr(false)}
	cfg.SetDefaults()
	ch := dps("c1", "o", "j", 1715, 100)
	assert.Equal(t,
		[]model.RaidID{model.RaidAct4Normal, model.RaidFinalNormal, model.RaidSerkaNormal},
		cfg.Plan(ch, nil))

	// A character-level flag wins over the default.
	ch.StandardPlanOnly = boolPtr(true)
	assert.Equal(t, StandardPlan(1715), cfg.Plan(ch, nil))
}

func TestPlanDropsExcludedTiersAfterTruncation(t *testing.T) {
	cfg := DefaultConfig()
	ch := dps("c1", "o", "j", 1735, 100)
	excl := model.ExclusionMap{model.RaidAct4Hard: {"c1"}, model.RaidAct3Hard: {"other"}}
	assert.Equal(t, []model.RaidID{model.RaidAct3Hard, model.RaidFinalHard}, cfg.Plan(ch, excl))
}

func TestBucketize(t *testing.T) {
	cfg := DefaultConfig()
	chars := []model.Character{
		dps("b", "o1", "j1", 1705, 200),
		dps("a", "o2", "j2", 1705, 200),
		dps("c", "o3", "j3", 1705, 300),
		dps("low", "o4", "j4", 1650, 999),
	}
	buckets := cfg.Bucketize(chars, model.ExclusionMap{model.RaidAct4Normal: {"c"}})
	if len(buckets) != len(model.AllRaids) {
		t.Fatalf("expected %d buckets, got %d", len(model.AllRaids), len(buckets))
	}
	for i, b := range buckets {
		assert.Equal(t, model.AllRaids[i], b.Raid)
	}

	ids := func(cs []model.Character) []string {
		out := make([]string, 0, len(cs))
		for _, c := range cs {
			out = append(out, c.ID)
		}
		return out
	}
	assert.Equal(t, []string{"c", "a", "b"}, ids(buckets[0].Characters))
	assert.Equal(t, []string{"a", "b"}, ids(buckets[1].Characters))
	assert.Empty(t, buckets[2].Characters)
}
