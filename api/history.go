package api

import (
	"net/http"
	"time"

	"github.com/spf13/cast"

	"github.com/kilianp07/raidplan/core/history"
	"github.com/kilianp07/raidplan/core/model"
)

// NewHistoryHandler serves GET /api/history. Supported parameters are start
// and end (RFC3339), mode, fingerprint and limit.
func NewHistoryHandler(store history.Store) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !allowGet(w, r) {
			return
		}
		q, err := parseQuery(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		records, err := store.Query(r.Context(), q)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if records == nil {
			records = []history.Record{}
		}
		writeJSON(w, records)
	})
}

func parseQuery(r *http.Request) (history.Query, error) {
	v := r.URL.Query()
	q := history.Query{Fingerprint: v.Get("fingerprint")}
	if s := v.Get("start"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return q, err
		}
		q.Start = t
	}
	if s := v.Get("end"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return q, err
		}
		q.End = t
	}
	if s := v.Get("mode"); s != "" {
		m, err := model.ParseBalanceMode(s)
		if err != nil {
			return q, err
		}
		q.Mode = m
	}
	if s := v.Get("limit"); s != "" {
		n, err := cast.ToIntE(s)
		if err != nil {
			return q, err
		}
		q.Limit = n
	}
	return q, nil
}
