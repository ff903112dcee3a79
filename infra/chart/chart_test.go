package chart

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/raidplan/core/model"
)

func TestRender(t *testing.T) {
	s := model.NewSchedule()
	s[model.RaidAct4Normal] = []model.Run{
		{RaidID: model.RaidAct4Normal, RunIndex: 1, Parties: []model.Party{{PartyIndex: 1, Members: []model.Character{
			{ID: "a1", OwnerKey: "a", JobCode: "j1", Role: model.RoleDPS, CombatPower: 3000},
			{ID: "b1", OwnerKey: "b", JobCode: "j2", Role: model.RoleSupport, CombatPower: 2000},
		}}}},
		{RaidID: model.RaidAct4Normal, RunIndex: 2, Parties: []model.Party{{PartyIndex: 1, Members: []model.Character{
			{ID: "a2", OwnerKey: "a", JobCode: "j3", Role: model.RoleDPS, CombatPower: 2500},
		}}}},
	}

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, s, nil))
	out := buf.String()
	assert.Contains(t, out, "2 runs")
	assert.Contains(t, out, "Run 2")
	assert.Contains(t, out, "Support average")
	assert.NotContains(t, out, "0 runs")
}

func TestRenderHidesCompleted(t *testing.T) {
	s := model.NewSchedule()
	s[model.RaidAct4Normal] = []model.Run{{RaidID: model.RaidAct4Normal, RunIndex: 1, Parties: []model.Party{{PartyIndex: 1, Members: []model.Character{
		{ID: "a1", OwnerKey: "a", JobCode: "j1", Role: model.RoleDPS, CombatPower: 1234},
	}}}}}
	excl := model.ExclusionMap{model.RaidAct4Normal: {"a1"}}

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, s, excl))
	assert.NotContains(t, buf.String(), "1234")
}

func TestBarValue(t *testing.T) {
	v := 12.5
	assert.Equal(t, 12.5, barValue(&v).Value)
	assert.Equal(t, "-", barValue(nil).Value)
}
