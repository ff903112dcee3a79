package metrics

import (
	"errors"
	"io"
)

// MultiSink fans out records to multiple sinks.
type MultiSink struct {
	Sinks []MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordSchedule forwards the stats to all sinks, returning the first error encountered.
func (m *MultiSink) RecordSchedule(st ScheduleStats) error {
	for _, s := range m.Sinks {
		if err := s.RecordSchedule(st); err != nil {
			return err
		}
	}
	return nil
}

// RecordDegraded forwards degraded placements when supported by the sink.
func (m *MultiSink) RecordDegraded(ev DegradedEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(DegradedRecorder); ok {
			if err := rec.RecordDegraded(ev); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordCompletion forwards completions when supported by the sink.
func (m *MultiSink) RecordCompletion(ev CompletionEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(CompletionRecorder); ok {
			if err := rec.RecordCompletion(ev); err != nil {
				return err
			}
		}
	}
	return nil
}

// Close closes every sink that holds resources.
func (m *MultiSink) Close() error {
	var errs []error
	for _, s := range m.Sinks {
		if c, ok := s.(io.Closer); ok {
			errs = append(errs, c.Close())
		}
	}
	return errors.Join(errs...)
}
