package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/raidplan/core/exclusion"
	"github.com/kilianp07/raidplan/core/history"
	"github.com/kilianp07/raidplan/core/model"
)

const testRoster = `[
  {"id": "a1", "discordName": "alpha", "jobCode": "홀나", "role": "SUPPORT", "itemLevel": 1705, "combatPower": 2100},
  {"id": "b1", "discordName": "beta", "jobCode": "기상", "role": "DPS", "itemLevel": 1705, "combatPower": 3000},
  {"id": "c1", "discordName": "gamma", "jobCode": "블레", "role": "DPS", "itemLevel": 1705, "combatPower": 2800},
  {"id": "d1", "discordName": "delta", "jobCode": "워로", "role": "DPS", "itemLevel": 1705, "combatPower": 2600}
]`

// setup writes a roster and a config into a temp dir and points the CLI at it.
func setup(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	roster := filepath.Join(dir, "roster.json")
	require.NoError(t, os.WriteFile(roster, []byte(testRoster), 0o644))
	cfg := filepath.Join(dir, "config.yaml")
	data := "log:\n  level: error\n" +
		"roster:\n  source: " + roster + "\n" +
		"history:\n  backend: jsonl\n  path: " + filepath.Join(dir, "history.jsonl") + "\n" +
		"exclusions:\n  backend: file\n  path: " + filepath.Join(dir, "exclusions.json") + "\n"
	require.NoError(t, os.WriteFile(cfg, []byte(data), 0o644))
	return cfg
}

// run executes the CLI with args and returns stdout.
func run(t *testing.T, cfg string, args ...string) (string, error) {
	t.Helper()
	jsonOutput, modeFlag, completedBy, excludedBy = false, "", "", ""
	historyLimit, historyMode, chartOutput = 20, "", "raidplan.html"
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--config", cfg}, args...))
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestScheduleCommand(t *testing.T) {
	cfg := setup(t)
	out, err := run(t, cfg, "schedule", "--json", "--mode", "overall")
	require.NoError(t, err)
	var got struct {
		Fingerprint string         `json:"fingerprint"`
		Schedule    model.Schedule `json:"schedule"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Len(t, got.Fingerprint, 16)
	require.Len(t, got.Schedule[model.RaidAct3Hard], 1)
	assert.Equal(t, 4, got.Schedule[model.RaidAct3Hard][0].Size())

	out, err = run(t, cfg, "schedule")
	require.NoError(t, err)
	assert.Contains(t, out, "ACT3_HARD")
	assert.Contains(t, out, "b1[beta/기상/D 3000]")

	_, err = run(t, cfg, "schedule", "--mode", "fastest")
	assert.ErrorIs(t, err, model.ErrUnknownBalanceMode)
}

func TestCompleteAndExclusionsCommands(t *testing.T) {
	cfg := setup(t)
	out, err := run(t, cfg, "complete", "ACT3_HARD", "1", "--by", "raidlead")
	require.NoError(t, err)
	assert.Contains(t, out, "excluded 4 characters")

	out, err = run(t, cfg, "exclusions", "ls", "--json")
	require.NoError(t, err)
	var entries []exclusion.Entry
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	require.Len(t, entries, 4)
	assert.Equal(t, "raidlead", entries[0].UpdatedBy)

	out, err = run(t, cfg, "complete", "ACT3_HARD", "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run not found")

	_, err = run(t, cfg, "exclusions", "add", "ACT4_NORMAL", "a1", "b1", "--by", "alpha")
	require.NoError(t, err)
	out, err = run(t, cfg, "exclusions", "ls")
	require.NoError(t, err)
	assert.Contains(t, out, "ACT4_NORMAL")

	_, err = run(t, cfg, "exclusions", "reset")
	require.NoError(t, err)
	out, err = run(t, cfg, "exclusions", "ls", "--json")
	require.NoError(t, err)
	entries = nil
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	assert.Empty(t, entries)

	_, err = run(t, cfg, "complete", "ACT9", "1")
	assert.ErrorIs(t, err, model.ErrUnknownRaid)
	_, err = run(t, cfg, "complete", "ACT3_HARD", "first")
	assert.Error(t, err)
}

func TestSettingsCommands(t *testing.T) {
	cfg := setup(t)
	_, err := run(t, cfg, "settings", "set", "ACT3_HARD", "true")
	require.NoError(t, err)
	out, err := run(t, cfg, "settings", "ls", "--json")
	require.NoError(t, err)
	var settings model.SettingsMap
	require.NoError(t, json.Unmarshal([]byte(out), &settings))
	assert.True(t, settings[model.RaidAct3Hard])

	_, err = run(t, cfg, "settings", "set", "ACT3_HARD", "maybe")
	assert.Error(t, err)
}

func TestHistoryCommand(t *testing.T) {
	cfg := setup(t)
	_, err := run(t, cfg, "schedule")
	require.NoError(t, err)
	_, err = run(t, cfg, "sequence", "--mode", "role")
	require.NoError(t, err)

	out, err := run(t, cfg, "history", "--json")
	require.NoError(t, err)
	var recs []history.Record
	require.NoError(t, json.Unmarshal([]byte(out), &recs))
	assert.Len(t, recs, 2)

	out, err = run(t, cfg, "history", "--json", "--mode", "role")
	require.NoError(t, err)
	recs = nil
	require.NoError(t, json.Unmarshal([]byte(out), &recs))
	require.Len(t, recs, 1)
	assert.Equal(t, model.BalanceRole, recs[0].Mode)
}

func TestChartCommand(t *testing.T) {
	cfg := setup(t)
	path := filepath.Join(t.TempDir(), "chart.html")
	out, err := run(t, cfg, "chart", "-o", path)
	require.NoError(t, err)
	assert.Contains(t, out, path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "echarts")
}
