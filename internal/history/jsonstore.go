package history

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/encoding/json"
)

const historyDirName = "warden/history"

// JSONStore persists one JSON file per scan under a directory, matching
// the cache's atomic-write-via-rename discipline.
type JSONStore struct {
	dir string
}

// DefaultHistoryDir returns the persisted-history location under the OS
// user config directory, creating it if needed.
func DefaultHistoryDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolving user config dir: %w", err)
	}
	full := filepath.Join(dir, historyDirName)
	if err := os.MkdirAll(full, 0o755); err != nil {
		return "", fmt.Errorf("creating history dir %s: %w", full, err)
	}
	return full, nil
}

// NewJSONStore opens a JSONStore rooted at dir, creating it if needed.
func NewJSONStore(dir string) (*JSONStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating history dir %s: %w", dir, err)
	}
	return &JSONStore{dir: dir}, nil
}

func (s *JSONStore) pathFor(id string) string {
	return filepath.Join(s.dir, id+".json")
}

func (s *JSONStore) Save(rec Record) (string, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return "", fmt.Errorf("marshaling history record: %w", err)
	}

	path := s.pathFor(rec.ID)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return "", fmt.Errorf("writing temp history file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return "", fmt.Errorf("renaming temp history file: %w", err)
	}
	return rec.ID, nil
}

func (s *JSONStore) Load(id string) (Record, error) {
	data, err := os.ReadFile(s.pathFor(id))
	if err != nil {
		return Record{}, fmt.Errorf("reading history record %s: %w", id, err)
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Record{}, fmt.Errorf("parsing history record %s: %w", id, err)
	}
	return rec, nil
}

func (s *JSONStore) List() ([]Summary, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading history dir %s: %w", s.dir, err)
	}

	var out []Summary
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		id := strings.TrimSuffix(name, ".json")
		rec, err := s.Load(id)
		if err != nil {
			// A single corrupt record doesn't fail the whole listing.
			continue
		}
		out = append(out, summarize(rec))
	}

	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *JSONStore) Delete(id string) error {
	if err := os.Remove(s.pathFor(id)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("deleting history record %s: %w", id, err)
	}
	return nil
}
