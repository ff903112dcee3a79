package events

import (
	"time"

	"github.com/kilianp07/raidplan/core/model"
	"github.com/kilianp07/raidplan/core/planner"
)

// Event is implemented by every event published on the bus.
type Event interface {
	Kind() string
}

// ScheduleBuilt is published after each scheduling pass.
type ScheduleBuilt struct {
	ID          string
	Fingerprint string
	Report      planner.Report
	Duration    time.Duration
	Time        time.Time
}

func (ScheduleBuilt) Kind() string { return "schedule_built" }

// DegradedPlacement is published for every character the packer could not
// place under strict rules. Unplaced is set when the character ended up in no
// run at all.
type DegradedPlacement struct {
	Placement planner.Placement
	Unplaced  bool
	Time      time.Time
}

func (DegradedPlacement) Kind() string { return "degraded_placement" }

// RunCompleted is published when a run is marked complete.
type RunCompleted struct {
	BatchID  string
	Raid     model.RaidID
	RunIndex int
	Excluded []string
	Time     time.Time
}

func (RunCompleted) Kind() string { return "run_completed" }
