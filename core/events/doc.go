// Package events defines the scheduling events emitted on the event bus.
//
// Available event types:
//   - ScheduleBuilt: a schedule was computed
//   - DegradedPlacement: a character was placed under relaxed rules or left out
//   - RunCompleted: a run was marked complete and its members excluded
package events
