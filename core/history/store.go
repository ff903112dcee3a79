// Package history keeps a log of computed schedules so that successive
// passes can be compared and audited.
package history

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/raidplan/core/model"
	"github.com/kilianp07/raidplan/core/planner"
)

// Record captures one scheduling pass.
type Record struct {
	ID          string                `json:"id"`
	Timestamp   time.Time             `json:"timestamp"`
	Mode        model.BalanceMode     `json:"mode"`
	Seed        uint32                `json:"seed"`
	Fingerprint string                `json:"fingerprint"`
	Characters  int                   `json:"characters"`
	Tiers       []planner.TierSummary `json:"tiers"`
	Degraded    int                   `json:"degraded"`
	Unplaced    int                   `json:"unplaced"`
	Overflow    int                   `json:"overflow"`
	Schedule    model.Schedule        `json:"schedule,omitempty"`
}

// NewRecord builds a record with a fresh id. keepSchedule controls whether
// the full schedule is stored alongside the summary.
func NewRecord(s model.Schedule, rep planner.Report, characters int, at time.Time, keepSchedule bool) Record {
	rec := Record{
		ID:          uuid.NewString(),
		Timestamp:   at,
		Mode:        rep.Mode,
		Seed:        rep.Seed,
		Fingerprint: planner.Fingerprint(s),
		Characters:  characters,
		Tiers:       append([]planner.TierSummary(nil), rep.Tiers...),
		Degraded:    len(rep.Degraded),
		Unplaced:    len(rep.Unplaced),
		Overflow:    len(rep.Overflow),
	}
	if keepSchedule {
		rec.Schedule = s
	}
	return rec
}

// Query defines filters for retrieving records. Limit keeps only the most
// recent matches when positive.
type Query struct {
	Start       time.Time
	End         time.Time
	Mode        model.BalanceMode
	Fingerprint string
	Limit       int
}

func (q Query) matches(r Record) bool {
	if !q.Start.IsZero() && r.Timestamp.Before(q.Start) {
		return false
	}
	if !q.End.IsZero() && r.Timestamp.After(q.End) {
		return false
	}
	if q.Mode != "" && r.Mode != q.Mode {
		return false
	}
	if q.Fingerprint != "" && r.Fingerprint != q.Fingerprint {
		return false
	}
	return true
}

// finish orders records by time and applies the limit.
func (q Query) finish(recs []Record) []Record {
	sort.SliceStable(recs, func(i, j int) bool { return recs[i].Timestamp.Before(recs[j].Timestamp) })
	if q.Limit > 0 && len(recs) > q.Limit {
		recs = recs[len(recs)-q.Limit:]
	}
	return recs
}

// Store persists Records and supports querying.
type Store interface {
	Append(ctx context.Context, rec Record) error
	Query(ctx context.Context, q Query) ([]Record, error)
	Close() error
}

// Latest returns the most recent record, or false when the store is empty.
func Latest(ctx context.Context, s Store) (Record, bool, error) {
	recs, err := s.Query(ctx, Query{Limit: 1})
	if err != nil {
		return Record{}, false, err
	}
	if len(recs) == 0 {
		return Record{}, false, nil
	}
	return recs[0], true, nil
}

// Config selects and configures the history backend.
type Config struct {
	// Backend selects the store type: "jsonl", "rotating", "sqlite" or "none".
	Backend string `json:"backend"`
	// Path is the file location of the store.
	Path string `json:"path"`
	// MaxSizeMB triggers rotation when the file exceeds this size in megabytes.
	MaxSizeMB int `json:"max_size_mb"`
	// MaxBackups limits the number of rotated files to keep.
	MaxBackups int `json:"max_backups"`
	// MaxAgeDays removes rotated files older than this number of days.
	MaxAgeDays int `json:"max_age_days"`
	// KeepSchedule stores full schedules, not only summaries.
	KeepSchedule bool `json:"keep_schedule"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.Backend == "" {
		c.Backend = "jsonl"
	}
	if c.Path == "" {
		c.Path = "raidplan-history.jsonl"
	}
	if c.Backend == "rotating" && c.MaxSizeMB == 0 {
		c.MaxSizeMB = 10
	}
}

// Validate checks mandatory fields.
func (c Config) Validate() error {
	switch c.Backend {
	case "none":
		return nil
	case "jsonl", "rotating", "sqlite":
	default:
		return fmt.Errorf("unknown history backend %s", c.Backend)
	}
	if c.Path == "" {
		return fmt.Errorf("history path is required")
	}
	if c.MaxSizeMB < 0 || c.MaxBackups < 0 || c.MaxAgeDays < 0 {
		return fmt.Errorf("history rotation limits must not be negative")
	}
	return nil
}

// Open returns the store selected by cfg, or nil for the "none" backend.
func Open(cfg Config) (Store, error) {
	var (
		s   Store
		err error
	)
	switch cfg.Backend {
	case "none":
		return nil, nil
	case "jsonl":
		s, err = NewJSONLStore(cfg.Path)
	case "rotating":
		s, err = NewRotatingJSONLStore(cfg.Path, cfg.MaxSizeMB, cfg.MaxBackups, cfg.MaxAgeDays)
	case "sqlite":
		s, err = NewSQLiteStore(cfg.Path)
	default:
		return nil, fmt.Errorf("unknown history backend %s", cfg.Backend)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s history: %w", cfg.Backend, err)
	}
	return s, nil
}
