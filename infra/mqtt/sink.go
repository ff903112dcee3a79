package mqtt

import (
	"time"

	"github.com/kilianp07/raidplan/core/factory"
	coremetrics "github.com/kilianp07/raidplan/core/metrics"
	"github.com/kilianp07/raidplan/core/model"
)

// Topic suffixes below the configured prefix.
const (
	TopicSchedule  = "schedule"
	TopicDegraded  = "degraded"
	TopicCompleted = "completed"
)

func init() {
	_ = coremetrics.RegisterMetricsSink("mqtt", func(conf map[string]any) (coremetrics.MetricsSink, error) {
		var c Config
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		p, err := NewPublisher(c)
		if err != nil {
			return nil, err
		}
		return NewSink(p), nil
	})
}

type tierMessage struct {
	Raid       model.RaidID `json:"raid"`
	Characters int          `json:"characters"`
	Runs       int          `json:"runs"`
	Supports   int          `json:"supports"`
	Spread     float64      `json:"spread"`
}

type scheduleMessage struct {
	ID          string            `json:"id"`
	Mode        model.BalanceMode `json:"mode"`
	Seed        uint32            `json:"seed"`
	Fingerprint string            `json:"fingerprint"`
	Tiers       []tierMessage     `json:"tiers"`
	Degraded    int               `json:"degraded"`
	Unplaced    int               `json:"unplaced"`
	Overflow    int               `json:"overflow"`
	Promoted    int               `json:"promoted"`
	DurationMS  int64             `json:"durationMs"`
	Time        time.Time         `json:"time"`
}

type degradedMessage struct {
	Raid        model.RaidID `json:"raid"`
	CharacterID string       `json:"characterId"`
	Owner       string       `json:"owner"`
	Job         string       `json:"job"`
	Unplaced    bool         `json:"unplaced"`
	Time        time.Time    `json:"time"`
}

type completedMessage struct {
	BatchID    string       `json:"batchId"`
	Raid       model.RaidID `json:"raid"`
	RunIndex   int          `json:"runIndex"`
	Characters int          `json:"characters"`
	Time       time.Time    `json:"time"`
}

// Sink forwards scheduling events to MQTT so chat bots and dashboards can
// react to a new schedule without polling.
type Sink struct {
	pub *Publisher
}

// NewSink wraps a connected publisher.
func NewSink(p *Publisher) *Sink { return &Sink{pub: p} }

// RecordSchedule publishes the pass summary.
func (s *Sink) RecordSchedule(st coremetrics.ScheduleStats) error {
	msg := scheduleMessage{
		ID:          st.ID,
		Mode:        st.Mode,
		Seed:        st.Seed,
		Fingerprint: st.Fingerprint,
		Degraded:    st.Degraded,
		Unplaced:    st.Unplaced,
		Overflow:    st.Overflow,
		Promoted:    st.Promoted,
		DurationMS:  st.Duration.Milliseconds(),
		Time:        st.Time,
	}
	for _, t := range st.Tiers {
		msg.Tiers = append(msg.Tiers, tierMessage(t))
	}
	return s.pub.Publish(TopicSchedule, msg)
}

// RecordDegraded publishes one relaxed or failed placement.
func (s *Sink) RecordDegraded(ev coremetrics.DegradedEvent) error {
	return s.pub.Publish(TopicDegraded, degradedMessage(ev))
}

// RecordCompletion publishes a run marked complete.
func (s *Sink) RecordCompletion(ev coremetrics.CompletionEvent) error {
	return s.pub.Publish(TopicCompleted, completedMessage(ev))
}

// Close disconnects from the broker.
func (s *Sink) Close() error {
	s.pub.Disconnect()
	return nil
}
