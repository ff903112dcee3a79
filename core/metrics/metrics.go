package metrics

import (
	"time"

	"github.com/kilianp07/raidplan/core/model"
	"github.com/kilianp07/raidplan/core/planner"
)

// TierStats is the quality snapshot of one tier.
type TierStats struct {
	Raid       model.RaidID
	Characters int
	Runs       int
	Supports   int
	Spread     float64
}

// ScheduleStats summarises one scheduling pass.
type ScheduleStats struct {
	ID          string
	Mode        model.BalanceMode
	Seed        uint32
	Fingerprint string
	Tiers       []TierStats
	Degraded    int
	Unplaced    int
	Overflow    int
	Promoted    int
	Duration    time.Duration
	Time        time.Time
}

// NewScheduleStats flattens a planner report.
func NewScheduleStats(id, fingerprint string, rep planner.Report, d time.Duration, at time.Time) ScheduleStats {
	st := ScheduleStats{
		ID:          id,
		Mode:        rep.Mode,
		Seed:        rep.Seed,
		Fingerprint: fingerprint,
		Degraded:    len(rep.Degraded),
		Unplaced:    len(rep.Unplaced),
		Overflow:    len(rep.Overflow),
		Duration:    d,
		Time:        at,
	}
	for _, t := range rep.Tiers {
		st.Tiers = append(st.Tiers, TierStats{
			Raid:       t.Raid,
			Characters: t.Characters,
			Runs:       t.Runs,
			Supports:   t.Supports,
			Spread:     t.Spread,
		})
	}
	for _, raid := range model.AllRaids {
		st.Promoted += len(rep.Promoted[raid])
	}
	return st
}

// MetricsSink records scheduling passes for observability purposes.
type MetricsSink interface {
	RecordSchedule(st ScheduleStats) error
}

// DegradedEvent captures one relaxed or failed placement.
type DegradedEvent struct {
	Raid        model.RaidID
	CharacterID string
	Owner       string
	Job         string
	Unplaced    bool
	Time        time.Time
}

// DegradedRecorder records relaxed placements.
type DegradedRecorder interface {
	RecordDegraded(ev DegradedEvent) error
}

// CompletionEvent captures a run marked complete.
type CompletionEvent struct {
	BatchID    string
	Raid       model.RaidID
	RunIndex   int
	Characters int
	Time       time.Time
}

// CompletionRecorder records run completions.
type CompletionRecorder interface {
	RecordCompletion(ev CompletionEvent) error
}

// NopSink implements every recorder with no-op methods.
type NopSink struct{}

func (NopSink) RecordSchedule(ScheduleStats) error     { return nil }
func (NopSink) RecordDegraded(DegradedEvent) error     { return nil }
func (NopSink) RecordCompletion(CompletionEvent) error { return nil }
