package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/raidplan/core/history"
	"github.com/kilianp07/raidplan/core/model"
	"github.com/kilianp07/raidplan/core/sequence"
)

type staticSource struct {
	snap Snapshot
	ok   bool
}

func (s staticSource) Snapshot() (Snapshot, bool) { return s.snap, s.ok }

func char(id, owner, job string, role model.Role, cp float64) model.Character {
	return model.Character{ID: id, OwnerKey: owner, JobCode: job, Role: role, PowerLevel: 1705, CombatPower: cp}
}

func sampleSnapshot() Snapshot {
	s := model.NewSchedule()
	s[model.RaidAct3Hard] = []model.Run{
		{RaidID: model.RaidAct3Hard, RunIndex: 1, Parties: []model.Party{{PartyIndex: 1, Members: []model.Character{
			char("a1", "a", "j1", model.RoleSupport, 2000),
			char("b1", "b", "j2", model.RoleDPS, 3000),
		}}}},
		{RaidID: model.RaidAct3Hard, RunIndex: 2, Parties: []model.Party{{PartyIndex: 1, Members: []model.Character{
			char("a2", "a", "j3", model.RoleDPS, 2500),
			char("b2", "b", "j4", model.RoleDPS, 2600),
		}}}},
	}
	return Snapshot{ID: "s1", Fingerprint: "fp", Schedule: s, Time: time.Date(2026, 3, 1, 20, 0, 0, 0, time.UTC)}
}

func get(t *testing.T, h http.Handler, url string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, url, nil))
	return rr
}

func TestScheduleHandler(t *testing.T) {
	h := NewScheduleHandler(staticSource{snap: sampleSnapshot(), ok: true})

	rr := get(t, h, "/api/schedule")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	var out Snapshot
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	assert.Equal(t, "fp", out.Fingerprint)
	assert.Len(t, out.Schedule[model.RaidAct3Hard], 2)
	assert.Len(t, out.Schedule, len(model.AllRaids))

	rr = get(t, h, "/api/schedule?raid=ACT3_HARD")
	require.Equal(t, http.StatusOK, rr.Code)
	out = Snapshot{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	assert.Len(t, out.Schedule, 1)

	assert.Equal(t, http.StatusBadRequest, get(t, h, "/api/schedule?raid=NOPE").Code)

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/schedule", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestScheduleHandlerBeforeFirstBuild(t *testing.T) {
	assert.Equal(t, http.StatusServiceUnavailable, get(t, NewScheduleHandler(staticSource{}), "/api/schedule").Code)
	assert.Equal(t, http.StatusServiceUnavailable, get(t, NewSequenceHandler(staticSource{}, nil), "/api/sequence").Code)
}

func TestSequenceHandler(t *testing.T) {
	h := NewSequenceHandler(staticSource{snap: sampleSnapshot(), ok: true}, []model.RaidID{model.RaidAct3Hard})
	rr := get(t, h, "/api/sequence")
	require.Equal(t, http.StatusOK, rr.Code)
	var seq sequence.Sequence
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &seq))
	require.Len(t, seq.Groups, 1)
	assert.Len(t, seq.Steps(), 2)
}

func TestHistoryHandler(t *testing.T) {
	store, err := history.NewJSONLStore(filepath.Join(t.TempDir(), "h.jsonl"))
	require.NoError(t, err)
	defer store.Close()
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 20, 0, 0, 0, time.UTC)
	for i, mode := range []model.BalanceMode{model.BalanceSpeed, model.BalanceOverall, model.BalanceSpeed} {
		rec := history.Record{ID: string(rune('a' + i)), Timestamp: base.Add(time.Duration(i) * time.Hour), Mode: mode, Fingerprint: "fp"}
		require.NoError(t, store.Append(ctx, rec))
	}
	h := NewHistoryHandler(store)

	rr := get(t, h, "/api/history?mode=speed&limit=1")
	require.Equal(t, http.StatusOK, rr.Code)
	var recs []history.Record
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &recs))
	require.Len(t, recs, 1)
	assert.Equal(t, "c", recs[0].ID)

	rr = get(t, h, "/api/history?end=2026-03-01T20:30:00Z")
	recs = nil
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &recs))
	require.Len(t, recs, 1)
	assert.Equal(t, "a", recs[0].ID)

	rr = get(t, h, "/api/history?fingerprint=other")
	assert.JSONEq(t, "[]", rr.Body.String())

	assert.Equal(t, http.StatusBadRequest, get(t, h, "/api/history?start=yesterday").Code)
	assert.Equal(t, http.StatusBadRequest, get(t, h, "/api/history?mode=fast").Code)
	assert.Equal(t, http.StatusBadRequest, get(t, h, "/api/history?limit=x").Code)
}

func TestRegister(t *testing.T) {
	mux := http.NewServeMux()
	Register(mux, staticSource{snap: sampleSnapshot(), ok: true}, nil, nil)
	assert.Equal(t, http.StatusOK, get(t, mux, "/api/schedule").Code)
	assert.Equal(t, http.StatusOK, get(t, mux, "/api/sequence").Code)
	rr := get(t, mux, "/api/chart")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "text/html")
	assert.Equal(t, http.StatusNotFound, get(t, mux, "/api/history").Code)
}
