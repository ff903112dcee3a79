// Package metrics defines interfaces for recording scheduling metrics.
// Sinks like PromSink and InfluxSink record schedule quality per tier and run
// completions, and can be combined with NewMultiSink. The factory helpers
// return a MultiSink automatically when multiple sinks are configured.
package metrics
