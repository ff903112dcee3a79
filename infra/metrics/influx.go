package metrics

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/kilianp07/raidplan/core/metrics"
	"github.com/kilianp07/raidplan/infra/logger"
)

// InfluxSink writes scheduling quality points to an InfluxDB instance using
// the official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(url, token, org, bucket string) *InfluxSink {
	base := strings.TrimSuffix(url, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback tries to ping the InfluxDB instance and
// returns a NopSink if the health check fails.
func NewInfluxSinkWithFallback(url, token, org, bucket string) coremetrics.MetricsSink {
	sink := NewInfluxSink(url, token, org, bucket)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordSchedule writes one point per tier plus a summary point.
func (s *InfluxSink) RecordSchedule(st coremetrics.ScheduleStats) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for _, t := range st.Tiers {
		p := write.NewPointWithMeasurement("schedule_tier").
			AddTag("raid", string(t.Raid)).
			AddTag("mode", string(st.Mode)).
			AddTag("schedule_id", st.ID).
			AddField("characters", t.Characters).
			AddField("runs", t.Runs).
			AddField("supports", t.Supports).
			AddField("spread", round3(t.Spread)).
			SetTime(st.Time)
		if err := s.writeAPI.WritePoint(ctx, p); err != nil {
			return err
		}
	}
	p := write.NewPointWithMeasurement("schedule_built").
		AddTag("mode", string(st.Mode)).
		AddTag("schedule_id", st.ID).
		AddTag("seed", strconv.FormatUint(uint64(st.Seed), 10)).
		AddField("fingerprint", st.Fingerprint).
		AddField("degraded", st.Degraded).
		AddField("unplaced", st.Unplaced).
		AddField("overflow", st.Overflow).
		AddField("promoted", st.Promoted).
		AddField("duration_ms", round3(st.Duration.Seconds()*1000)).
		SetTime(st.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordDegraded writes a relaxed placement.
func (s *InfluxSink) RecordDegraded(ev coremetrics.DegradedEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("degraded_placement").
		AddTag("raid", string(ev.Raid)).
		AddTag("unplaced", strconv.FormatBool(ev.Unplaced)).
		AddField("character_id", ev.CharacterID).
		AddField("owner", ev.Owner).
		AddField("job", ev.Job).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordCompletion writes a completed run.
func (s *InfluxSink) RecordCompletion(ev coremetrics.CompletionEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("run_completed").
		AddTag("raid", string(ev.Raid)).
		AddTag("batch_id", ev.BatchID).
		AddField("run_index", ev.RunIndex).
		AddField("characters", ev.Characters).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// Close releases the client.
func (s *InfluxSink) Close() error {
	s.client.Close()
	return nil
}

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
