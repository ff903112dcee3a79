package sequence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/raidplan/core/model"
)

func ch(id, owner string, role model.Role, cp float64) model.Character {
	return model.Character{ID: id, OwnerKey: owner, JobCode: "j-" + id, Role: role, PowerLevel: 1720, CombatPower: cp}
}

func mkRun(raid model.RaidID, index int, members ...model.Character) model.Run {
	return model.Run{RaidID: raid, RunIndex: index, Parties: []model.Party{{PartyIndex: 1, Members: members}}}
}

func TestComputeTransitionDiffSwitch(t *testing.T) {
	a := mkRun(model.RaidAct3Hard, 1, ch("x1", "x", model.RoleDPS, 1), ch("y1", "y", model.RoleDPS, 1), ch("z1", "z", model.RoleSupport, 1))
	b := mkRun(model.RaidAct4Hard, 1, ch("x1", "x", model.RoleDPS, 1), ch("y2", "y", model.RoleDPS, 1), ch("z1", "z", model.RoleSupport, 1))

	d := ComputeTransitionDiff(a, b)
	assert.Empty(t, d.Leaving)
	assert.Empty(t, d.Entering)
	require.Len(t, d.Switching, 1)
	assert.Equal(t, "y", d.Switching[0].Owner)
	assert.Equal(t, "y1", d.Switching[0].From.ID)
	assert.Equal(t, "y2", d.Switching[0].To.ID)
	assert.Equal(t, 1, d.Cost())
}

func TestComputeTransitionDiffLeavingEntering(t *testing.T) {
	a := mkRun(model.RaidAct3Hard, 1, ch("x1", "x", model.RoleDPS, 1), ch("y1", "y", model.RoleDPS, 1))
	b := mkRun(model.RaidAct3Hard, 2, ch("y1", "y", model.RoleDPS, 1), ch("w1", "w", model.RoleDPS, 1))

	d := ComputeTransitionDiff(a, b)
	assert.Equal(t, "x1", d.Leaving[0].ID)
	assert.Equal(t, "w1", d.Entering[0].ID)
	assert.Empty(t, d.Switching)
	assert.Equal(t, 200, d.Cost())
	assert.True(t, ComputeTransitionDiff(a, a).Empty())
}

func TestBuildSequenceGroupsAndOrders(t *testing.T) {
	s := model.Schedule{
		model.RaidAct3Hard: {
			mkRun(model.RaidAct3Hard, 1, ch("a1", "a", model.RoleDPS, 1), ch("b1", "b", model.RoleDPS, 1)),
			mkRun(model.RaidAct3Hard, 2, ch("c1", "c", model.RoleDPS, 1)),
		},
		model.RaidAct4Hard: {
			mkRun(model.RaidAct4Hard, 1, ch("a2", "a", model.RoleDPS, 1), ch("b1", "b", model.RoleDPS, 1)),
		},
		model.RaidFinalHard: {
			mkRun(model.RaidFinalHard, 1, ch("a1", "a", model.RoleDPS, 1), ch("b1", "b", model.RoleDPS, 1)),
		},
		// elite tiers are not sequenced by default
		model.RaidSerkaHard: {
			mkRun(model.RaidSerkaHard, 1, ch("a3", "a", model.RoleDPS, 1)),
		},
	}
	seq := BuildSequence(s, Options{})
	require.Len(t, seq.Groups, 2)
	assert.Equal(t, []string{"a", "b"}, seq.Groups[0].Participants)
	assert.Equal(t, []string{"c"}, seq.Groups[1].Participants)

	steps := seq.Steps()
	require.Len(t, steps, 4)
	for i, st := range steps {
		assert.Equal(t, i+1, st.Index)
	}
	// ACT3_HARD and FINAL_HARD share characters, so they are adjacent. All
	// tours cost the same and the smallest tier key sequence wins.
	assert.Equal(t, model.RaidAct3Hard, steps[0].Raid)
	assert.Equal(t, model.RaidFinalHard, steps[1].Raid)
	assert.Equal(t, model.RaidAct4Hard, steps[2].Raid)
	assert.Equal(t, model.RaidAct3Hard, steps[3].Raid)
	assert.Nil(t, steps[0].Diff)
	require.NotNil(t, steps[1].Diff)
	assert.True(t, steps[1].Diff.Empty())
	assert.Len(t, steps[2].Diff.Switching, 1)

	// no change, one switch, then the group change: two leave, one enters
	assert.Equal(t, 0+1+300, seq.TotalCost)
}

func TestBuildSequenceOrderOption(t *testing.T) {
	s := model.Schedule{
		model.RaidAct3Hard:  {mkRun(model.RaidAct3Hard, 1, ch("a1", "a", model.RoleDPS, 1))},
		model.RaidSerkaHard: {mkRun(model.RaidSerkaHard, 1, ch("a2", "a", model.RoleDPS, 1))},
	}
	seq := BuildSequence(s, Options{Order: []model.RaidID{model.RaidSerkaHard}})
	steps := seq.Steps()
	require.Len(t, steps, 1)
	assert.Equal(t, model.RaidSerkaHard, steps[0].Raid)
	assert.Empty(t, BuildSequence(model.Schedule{}, Options{}).Groups)
}

func TestBuildSequenceDiffUsesVisibleMembers(t *testing.T) {
	s := model.Schedule{
		model.RaidAct3Hard: {mkRun(model.RaidAct3Hard, 1, ch("a1", "a", model.RoleDPS, 1), ch("b1", "b", model.RoleDPS, 1))},
		model.RaidAct4Hard: {mkRun(model.RaidAct4Hard, 1, ch("a2", "a", model.RoleDPS, 1), ch("b2", "b", model.RoleDPS, 1))},
	}
	excl := model.ExclusionMap{model.RaidAct3Hard: {"a1", "b1"}}
	steps := BuildSequence(s, Options{Exclusions: excl}).Steps()
	require.Len(t, steps, 2)
	require.NotNil(t, steps[1].Diff)
	assert.Len(t, steps[1].Diff.Entering, 2)
	assert.Empty(t, steps[1].Diff.Switching)
}

func TestMarkComplete(t *testing.T) {
	run := mkRun(model.RaidAct3Hard, 1, ch("a1", "a", model.RoleDPS, 1), ch("b1", "b", model.RoleSupport, 1))
	excl := model.ExclusionMap{model.RaidAct3Hard: {"b1"}, model.RaidAct4Hard: {"z"}}

	out, added := MarkComplete(excl, model.RaidAct3Hard, run)
	assert.Equal(t, []string{"a1"}, added)
	assert.Equal(t, []string{"a1", "b1"}, out[model.RaidAct3Hard])
	assert.Equal(t, []string{"z"}, out[model.RaidAct4Hard])
	assert.Equal(t, []string{"b1"}, excl[model.RaidAct3Hard], "input untouched")

	again, added := MarkComplete(out, model.RaidAct3Hard, run)
	assert.Empty(t, added)
	assert.Equal(t, out, again)
}

func TestStats(t *testing.T) {
	run := mkRun(model.RaidAct3Hard, 1,
		ch("a", "a", model.RoleDPS, 100),
		ch("b", "b", model.RoleDPS, 201),
		ch("c", "c", model.RoleSupport, 50),
	)
	st := Stats(model.RaidAct3Hard, run, nil)
	require.NotNil(t, st.Overall)
	assert.Equal(t, float64(117), *st.Overall)
	assert.Equal(t, float64(151), *st.DPS)
	assert.Equal(t, float64(50), *st.Support)

	st = Stats(model.RaidAct3Hard, run, model.ExclusionMap{model.RaidAct3Hard: {"c"}})
	assert.Nil(t, st.Support)
}
