package exclusion

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/kilianp07/raidplan/core/model"
)

// SQLiteStore persists exclusions and settings to a SQLite database.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteStore opens or creates the database at path and ensures schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// Exclude runs in a transaction; one connection keeps shared-cache
	// in-memory databases from reporting table locks.
	db.SetMaxOpenConns(1)
	schema := []string{
		`CREATE TABLE IF NOT EXISTS raid_exclusions (
            seq INTEGER PRIMARY KEY AUTOINCREMENT,
            raid_id TEXT NOT NULL,
            character_id TEXT NOT NULL,
            updated_by TEXT,
            updated_at INTEGER,
            UNIQUE (raid_id, character_id)
        );`,
		`CREATE TABLE IF NOT EXISTS raid_settings (
            raid_id TEXT PRIMARY KEY,
            shortage INTEGER NOT NULL
        );`,
	}
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			if cerr := db.Close(); cerr != nil {
				return nil, fmt.Errorf("close db: %v (schema err: %w)", cerr, err)
			}
			return nil, err
		}
	}
	return &SQLiteStore{db: db, now: time.Now}, nil
}

func (s *SQLiteStore) Exclusions(ctx context.Context) (model.ExclusionMap, error) {
	entries, err := s.Entries(ctx)
	if err != nil {
		return nil, err
	}
	out := make(model.ExclusionMap)
	for _, e := range entries {
		out[e.Raid] = append(out[e.Raid], e.CharacterID)
	}
	return out, nil
}

func (s *SQLiteStore) Exclude(ctx context.Context, raid model.RaidID, ids []string, updatedBy string) (model.ExclusionMap, error) {
	if err := checkRaid(raid); err != nil {
		return nil, err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	at := s.now().UTC().UnixNano()
	for _, id := range uniqueIDs(ids) {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO raid_exclusions (raid_id, character_id, updated_by, updated_at) VALUES (?, ?, ?, ?)`,
			string(raid), id, updatedBy, at); err != nil {
			_ = tx.Rollback()
			return nil, err
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return s.Exclusions(ctx)
}

func (s *SQLiteStore) Entries(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT raid_id, character_id, updated_by, updated_at FROM raid_exclusions ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []Entry
	for rows.Next() {
		var (
			raid, id string
			by       sql.NullString
			at       sql.NullInt64
		)
		if err := rows.Scan(&raid, &id, &by, &at); err != nil {
			return nil, err
		}
		out = append(out, Entry{
			Raid:        model.RaidID(raid),
			CharacterID: id,
			UpdatedBy:   by.String,
			UpdatedAt:   time.Unix(0, at.Int64).UTC(),
		})
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Reset(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM raid_exclusions`)
	return err
}

func (s *SQLiteStore) Settings(ctx context.Context) (model.SettingsMap, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT raid_id FROM raid_settings WHERE shortage = 1`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	out := model.SettingsMap{}
	for rows.Next() {
		var raid string
		if err := rows.Scan(&raid); err != nil {
			return nil, err
		}
		out[model.RaidID(raid)] = true
	}
	return out, rows.Err()
}

func (s *SQLiteStore) SetSetting(ctx context.Context, raid model.RaidID, shortage bool) error {
	if err := checkRaid(raid); err != nil {
		return err
	}
	v := 0
	if shortage {
		v = 1
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO raid_settings (raid_id, shortage) VALUES (?, ?)
         ON CONFLICT(raid_id) DO UPDATE SET shortage = excluded.shortage`,
		string(raid), v)
	return err
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error { return s.db.Close() }
