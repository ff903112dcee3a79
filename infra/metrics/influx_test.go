package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coremetrics "github.com/kilianp07/raidplan/core/metrics"
	"github.com/kilianp07/raidplan/core/model"
)

type lineCapture struct {
	mu     sync.Mutex
	bodies []string
}

func (c *lineCapture) handler(w http.ResponseWriter, r *http.Request) {
	data, _ := io.ReadAll(r.Body)
	c.mu.Lock()
	c.bodies = append(c.bodies, string(data))
	c.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

func (c *lineCapture) all() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return strings.Join(c.bodies, "\n")
}

func TestInfluxSink_RecordSchedule(t *testing.T) {
	capt := &lineCapture{}
	srv := httptest.NewServer(http.HandlerFunc(capt.handler))
	defer srv.Close()

	sink := NewInfluxSink(srv.URL, "token", "org", "bucket")
	defer sink.Close()
	require.NoError(t, sink.RecordSchedule(sampleStats()))

	body := capt.all()
	assert.Equal(t, 2, strings.Count(body, "schedule_tier,"))
	assert.Contains(t, body, "raid=ACT3_HARD")
	assert.Contains(t, body, "runs=2i")
	assert.Contains(t, body, "spread=3.5")
	assert.Contains(t, body, "schedule_built,")
	assert.Contains(t, body, "degraded=1i")
}

func TestInfluxSink_DegradedAndCompletion(t *testing.T) {
	capt := &lineCapture{}
	srv := httptest.NewServer(http.HandlerFunc(capt.handler))
	defer srv.Close()

	sink := NewInfluxSink(srv.URL+"/api/v2/write", "token", "org", "bucket")
	defer sink.Close()
	require.NoError(t, sink.RecordDegraded(coremetrics.DegradedEvent{Raid: model.RaidAct4Normal, CharacterID: "c9", Owner: "o", Job: "j"}))
	require.NoError(t, sink.RecordCompletion(coremetrics.CompletionEvent{BatchID: "b1", Raid: model.RaidAct4Normal, RunIndex: 2, Characters: 8}))

	body := capt.all()
	assert.Contains(t, body, "degraded_placement,")
	assert.Contains(t, body, `character_id="c9"`)
	assert.Contains(t, body, "run_completed,")
	assert.Contains(t, body, "batch_id=b1")
	assert.Contains(t, body, "characters=8i")
}

func TestNewInfluxSinkWithFallback(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			called = true
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
	}))
	defer srv.Close()

	sink := NewInfluxSinkWithFallback(srv.URL+"/api/v2/write", "tok", "org", "bucket")
	if _, ok := sink.(*InfluxSink); ok {
		t.Fatalf("expected NopSink on failing health check")
	}
	assert.True(t, called)
}
