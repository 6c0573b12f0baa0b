package resultcache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/agentwarden/warden/internal/model"
)

const cacheFileName = "warden-scan-cache.json"

// DefaultCachePath returns the persisted cache's location under the OS
// user cache directory, creating the warden subdirectory if needed.
func DefaultCachePath() (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("resolving user cache dir: %w", err)
	}
	wardenDir := filepath.Join(dir, "warden")
	if err := os.MkdirAll(wardenDir, 0o755); err != nil {
		return "", fmt.Errorf("creating cache dir %s: %w", wardenDir, err)
	}
	return filepath.Join(wardenDir, cacheFileName), nil
}

// LoadFromFile reads a persisted cache map from path, dropping entries
// whose RuleVersion differs from opts.RuleVersion or whose age exceeds
// opts.TTL. A missing file is not an error; it yields an empty Cache.
func LoadFromFile(path string, opts Options) (*Cache, error) {
	c := New(opts)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return c, nil
		}
		return nil, fmt.Errorf("reading cache file %s: %w", path, err)
	}

	var raw map[string]model.CacheEntry
	if err := json.Unmarshal(data, &raw); err != nil {
		// A corrupt cache file is treated as empty rather than fatal.
		return c, nil
	}

	c.mu.Lock()
	for p, entry := range raw {
		if entry.RuleVersion != c.opts.RuleVersion {
			continue
		}
		if time.Since(entry.Timestamp) >= c.opts.TTL {
			continue
		}
		c.entries[p] = entry
	}
	c.mu.Unlock()

	return c, nil
}

// Persist writes the cache to path atomically (temp file plus rename) if it
// has unsaved changes since the last load or persist.
func (c *Cache) Persist(path string) error {
	c.mu.RLock()
	dirty := c.dirty
	snapshot := make(map[string]model.CacheEntry, len(c.entries))
	for p, e := range c.entries {
		snapshot[p] = e
	}
	c.mu.RUnlock()

	if !dirty {
		return nil
	}

	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("marshaling cache: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing temp cache file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("renaming temp cache file: %w", err)
	}

	c.mu.Lock()
	c.dirty = false
	c.mu.Unlock()

	return nil
}
