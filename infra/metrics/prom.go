package metrics

import (
	"errors"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kilianp07/raidplan/core/metrics"
)

// PromSink records scheduling passes in Prometheus metrics.
type PromSink struct {
	schedules   *prometheus.CounterVec
	duration    prometheus.Histogram
	runs        *prometheus.GaugeVec
	characters  *prometheus.GaugeVec
	supports    *prometheus.GaugeVec
	spread      *prometheus.GaugeVec
	degraded    *prometheus.CounterVec
	completions *prometheus.CounterVec
}

// NewPromSink registers scheduling metrics on the default Prometheus registerer.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer. Collectors
// already registered by an earlier sink are reused.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PromSink{
		schedules: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "raidplan_schedules_total",
			Help: "Total number of scheduling passes",
		}, []string{"mode", "clean"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "raidplan_schedule_duration_seconds",
			Help:    "Time spent computing a schedule",
			Buckets: prometheus.DefBuckets,
		}),
		runs: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "raidplan_tier_runs",
			Help: "Runs in the latest schedule per tier",
		}, []string{"raid"}),
		characters: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "raidplan_tier_characters",
			Help: "Characters eligible for a tier in the latest schedule",
		}, []string{"raid"}),
		supports: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "raidplan_tier_supports",
			Help: "Support characters in the latest schedule per tier",
		}, []string{"raid"}),
		spread: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "raidplan_tier_power_spread",
			Help: "Standard deviation of run average combat power per tier",
		}, []string{"raid"}),
		degraded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "raidplan_degraded_placements_total",
			Help: "Characters placed under relaxed rules or left out",
		}, []string{"raid", "unplaced"}),
		completions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "raidplan_runs_completed_total",
			Help: "Runs marked complete",
		}, []string{"raid"}),
	}
	var err error
	if s.schedules, err = register(reg, s.schedules); err != nil {
		return nil, err
	}
	if s.duration, err = register(reg, s.duration); err != nil {
		return nil, err
	}
	if s.runs, err = register(reg, s.runs); err != nil {
		return nil, err
	}
	if s.characters, err = register(reg, s.characters); err != nil {
		return nil, err
	}
	if s.supports, err = register(reg, s.supports); err != nil {
		return nil, err
	}
	if s.spread, err = register(reg, s.spread); err != nil {
		return nil, err
	}
	if s.degraded, err = register(reg, s.degraded); err != nil {
		return nil, err
	}
	if s.completions, err = register(reg, s.completions); err != nil {
		return nil, err
	}
	return s, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RecordSchedule updates the per-tier gauges and counts the pass.
func (s *PromSink) RecordSchedule(st coremetrics.ScheduleStats) error {
	clean := st.Degraded == 0 && st.Unplaced == 0 && st.Overflow == 0
	s.schedules.WithLabelValues(string(st.Mode), strconv.FormatBool(clean)).Inc()
	s.duration.Observe(st.Duration.Seconds())
	for _, t := range st.Tiers {
		raid := string(t.Raid)
		s.runs.WithLabelValues(raid).Set(float64(t.Runs))
		s.characters.WithLabelValues(raid).Set(float64(t.Characters))
		s.supports.WithLabelValues(raid).Set(float64(t.Supports))
		s.spread.WithLabelValues(raid).Set(t.Spread)
	}
	return nil
}

// RecordDegraded counts one relaxed placement.
func (s *PromSink) RecordDegraded(ev coremetrics.DegradedEvent) error {
	s.degraded.WithLabelValues(string(ev.Raid), strconv.FormatBool(ev.Unplaced)).Inc()
	return nil
}

// RecordCompletion counts one completed run.
func (s *PromSink) RecordCompletion(ev coremetrics.CompletionEvent) error {
	s.completions.WithLabelValues(string(ev.Raid)).Inc()
	return nil
}
