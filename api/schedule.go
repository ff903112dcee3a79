package api

import (
	"bytes"
	"net/http"

	"github.com/kilianp07/raidplan/core/model"
	"github.com/kilianp07/raidplan/core/sequence"
	"github.com/kilianp07/raidplan/infra/chart"
)

// NewScheduleHandler serves GET /api/schedule. The optional raid parameter
// restricts the schedule to one tier.
func NewScheduleHandler(src Source) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !allowGet(w, r) {
			return
		}
		snap, ok := src.Snapshot()
		if !ok {
			http.Error(w, "no schedule built yet", http.StatusServiceUnavailable)
			return
		}
		if s := r.URL.Query().Get("raid"); s != "" {
			raid, err := model.ParseRaid(s)
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			snap.Schedule = model.Schedule{raid: snap.Schedule[raid]}
		}
		writeJSON(w, snap)
	})
}

// NewSequenceHandler serves GET /api/sequence, the play order of the latest
// schedule with completed characters hidden from the diffs.
func NewSequenceHandler(src Source, order []model.RaidID) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !allowGet(w, r) {
			return
		}
		snap, ok := src.Snapshot()
		if !ok {
			http.Error(w, "no schedule built yet", http.StatusServiceUnavailable)
			return
		}
		writeJSON(w, sequence.BuildSequence(snap.Schedule, sequence.Options{Order: order, Exclusions: snap.Exclusions}))
	})
}

// NewChartHandler serves GET /api/chart, an HTML page of run averages.
func NewChartHandler(src Source) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !allowGet(w, r) {
			return
		}
		snap, ok := src.Snapshot()
		if !ok {
			http.Error(w, "no schedule built yet", http.StatusServiceUnavailable)
			return
		}
		var buf bytes.Buffer
		if err := chart.Render(&buf, snap.Schedule, snap.Exclusions); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(buf.Bytes())
	})
}
