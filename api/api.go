// Package api exposes the current schedule, its play order, a balance chart
// and the schedule history as read-only HTTP endpoints.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/kilianp07/raidplan/core/history"
	"github.com/kilianp07/raidplan/core/model"
	"github.com/kilianp07/raidplan/core/planner"
)

// Snapshot is the latest built schedule.
type Snapshot struct {
	ID          string             `json:"id"`
	Fingerprint string             `json:"fingerprint"`
	Schedule    model.Schedule     `json:"schedule"`
	Report      planner.Report     `json:"report"`
	Exclusions  model.ExclusionMap `json:"exclusions"`
	Time        time.Time          `json:"time"`
}

// Source returns the latest schedule, if one was built.
type Source interface {
	Snapshot() (Snapshot, bool)
}

// Register mounts the endpoints on mux. A nil store leaves /api/history out.
func Register(mux *http.ServeMux, src Source, store history.Store, order []model.RaidID) {
	mux.Handle("/api/schedule", NewScheduleHandler(src))
	mux.Handle("/api/sequence", NewSequenceHandler(src, order))
	mux.Handle("/api/chart", NewChartHandler(src))
	if store != nil {
		mux.Handle("/api/history", NewHistoryHandler(store))
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func allowGet(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	return true
}
