package exclusion

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/kilianp07/raidplan/core/model"
)

type document struct {
	Entries  []Entry           `json:"entries"`
	Settings model.SettingsMap `json:"settings"`
}

func (d document) exclusions() model.ExclusionMap {
	out := make(model.ExclusionMap)
	for _, e := range d.Entries {
		out[e.Raid] = append(out[e.Raid], e.CharacterID)
	}
	return out
}

// FileStore keeps exclusions and settings in a single JSON document. Writes
// go to a temporary file that replaces the document.
type FileStore struct {
	mu   sync.Mutex
	path string
	now  func() time.Time
}

// NewFileStore creates the document at path when it does not exist.
func NewFileStore(path string) (*FileStore, error) {
	s := &FileStore{path: path, now: time.Now}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, err
			}
		}
		if err := s.write(document{Settings: model.SettingsMap{}}); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}
	return s, nil
}

func (s *FileStore) read() (document, error) {
	var doc document
	b, err := os.ReadFile(s.path)
	if err != nil {
		return doc, err
	}
	if len(b) == 0 {
		return document{Settings: model.SettingsMap{}}, nil
	}
	if err := json.Unmarshal(b, &doc); err != nil {
		return doc, fmt.Errorf("decode %s: %w", s.path, err)
	}
	if doc.Settings == nil {
		doc.Settings = model.SettingsMap{}
	}
	return doc, nil
}

func (s *FileStore) write(doc document) error {
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

func (s *FileStore) Exclusions(ctx context.Context) (model.ExclusionMap, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.read()
	if err != nil {
		return nil, err
	}
	return doc.exclusions(), nil
}

func (s *FileStore) Exclude(ctx context.Context, raid model.RaidID, ids []string, updatedBy string) (model.ExclusionMap, error) {
	if err := checkRaid(raid); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.read()
	if err != nil {
		return nil, err
	}
	current := doc.exclusions()
	at := s.now().UTC()
	added := false
	for _, id := range uniqueIDs(ids) {
		if current.Excluded(raid, id) {
			continue
		}
		doc.Entries = append(doc.Entries, Entry{Raid: raid, CharacterID: id, UpdatedBy: updatedBy, UpdatedAt: at})
		added = true
	}
	if added {
		if err := s.write(doc); err != nil {
			return nil, err
		}
	}
	return doc.exclusions(), nil
}

func (s *FileStore) Entries(ctx context.Context) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.read()
	if err != nil {
		return nil, err
	}
	return doc.Entries, nil
}

func (s *FileStore) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.read()
	if err != nil {
		return err
	}
	doc.Entries = nil
	return s.write(doc)
}

func (s *FileStore) Settings(ctx context.Context) (model.SettingsMap, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.read()
	if err != nil {
		return nil, err
	}
	return doc.Settings, nil
}

func (s *FileStore) SetSetting(ctx context.Context, raid model.RaidID, shortage bool) error {
	if err := checkRaid(raid); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.read()
	if err != nil {
		return err
	}
	if shortage {
		doc.Settings[raid] = true
	} else {
		delete(doc.Settings, raid)
	}
	return s.write(doc)
}

func (s *FileStore) Close() error { return nil }
