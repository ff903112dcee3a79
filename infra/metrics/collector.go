package metrics

import (
	"context"

	"github.com/kilianp07/raidplan/core/events"
	coremetrics "github.com/kilianp07/raidplan/core/metrics"
	"github.com/kilianp07/raidplan/internal/eventbus"
)

// collectorBuffer holds a full pass of degraded placements.
const collectorBuffer = 1024

// StartEventCollector subscribes to the event bus and records metrics for events.
// It stops when the context is canceled or the bus is closed. The returned
// channel is closed once the collector has exited.
func StartEventCollector(ctx context.Context, bus *eventbus.TypedBus[events.Event], sink coremetrics.MetricsSink) <-chan struct{} {
	done := make(chan struct{})
	if bus == nil || sink == nil {
		close(done)
		return done
	}
	sub := bus.SubscribeBuffered(collectorBuffer)
	go func() {
		defer close(done)
		defer bus.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sub:
				if !ok {
					return
				}
				record(sink, ev)
			}
		}
	}()
	return done
}

func record(sink coremetrics.MetricsSink, ev events.Event) {
	switch e := ev.(type) {
	case events.ScheduleBuilt:
		_ = sink.RecordSchedule(coremetrics.NewScheduleStats(e.ID, e.Fingerprint, e.Report, e.Duration, e.Time))
	case events.DegradedPlacement:
		if r, ok := sink.(coremetrics.DegradedRecorder); ok {
			_ = r.RecordDegraded(degradedEvent(e))
		}
	case events.RunCompleted:
		if r, ok := sink.(coremetrics.CompletionRecorder); ok {
			_ = r.RecordCompletion(coremetrics.CompletionEvent{
				BatchID:    e.BatchID,
				Raid:       e.Raid,
				RunIndex:   e.RunIndex,
				Characters: len(e.Excluded),
				Time:       e.Time,
			})
		}
	}
}

func degradedEvent(e events.DegradedPlacement) coremetrics.DegradedEvent {
	p := e.Placement
	return coremetrics.DegradedEvent{
		Raid:        p.Raid,
		CharacterID: p.CharacterID,
		Owner:       p.Owner,
		Job:         p.Job,
		Unplaced:    e.Unplaced,
		Time:        e.Time,
	}
}
