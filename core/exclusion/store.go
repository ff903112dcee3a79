// Package exclusion persists the per-tier exclusion lists and the support
// shortage settings consumed by the planner.
package exclusion

import (
	"context"
	"fmt"
	"time"

	"github.com/kilianp07/raidplan/core/model"
)

// ErrUnknownRaid is returned when an operation names a tier that does not
// exist. It matches model.ErrUnknownRaid with errors.Is.
var ErrUnknownRaid = fmt.Errorf("exclusion: %w", model.ErrUnknownRaid)

// Entry records who excluded a character from a tier and when.
type Entry struct {
	Raid        model.RaidID `json:"raidId"`
	CharacterID string       `json:"characterId"`
	UpdatedBy   string       `json:"updatedBy,omitempty"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// Store persists exclusions and settings.
type Store interface {
	// Exclusions returns every tier's exclusion list.
	Exclusions(ctx context.Context) (model.ExclusionMap, error)
	// Exclude adds ids to raid, ignoring duplicates and empty ids, and
	// returns the updated map.
	Exclude(ctx context.Context, raid model.RaidID, ids []string, updatedBy string) (model.ExclusionMap, error)
	// Entries returns the audit rows in insertion order.
	Entries(ctx context.Context) ([]Entry, error)
	// Reset clears every exclusion. Settings are kept.
	Reset(ctx context.Context) error
	Settings(ctx context.Context) (model.SettingsMap, error)
	SetSetting(ctx context.Context, raid model.RaidID, shortage bool) error
	Close() error
}

// Config selects the exclusion backend.
type Config struct {
	// Backend is "file" or "sqlite".
	Backend string `json:"backend"`
	Path    string `json:"path"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.Backend == "" {
		c.Backend = "file"
	}
	if c.Path == "" {
		c.Path = "raidplan-exclusions.json"
	}
}

// Validate checks mandatory fields.
func (c Config) Validate() error {
	if c.Backend != "file" && c.Backend != "sqlite" {
		return fmt.Errorf("unknown exclusion backend %s", c.Backend)
	}
	if c.Path == "" {
		return fmt.Errorf("exclusion path is required")
	}
	return nil
}

// Open returns the store selected by cfg.
func Open(cfg Config) (Store, error) {
	switch cfg.Backend {
	case "file":
		s, err := NewFileStore(cfg.Path)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "sqlite":
		s, err := NewSQLiteStore(cfg.Path)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	return nil, fmt.Errorf("unknown exclusion backend %s", cfg.Backend)
}

func checkRaid(raid model.RaidID) error {
	if !raid.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownRaid, raid)
	}
	return nil
}

// uniqueIDs drops empty and repeated ids, keeping first-seen order.
func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
