// Package cache persists per-(city, date) prayer time records in a single
// flat JSON file so the app keeps working without network access.
//
// The file maps "<city>|<YYYY-MM-DD>" keys to a prayer-name→"HH:MM" object.
// Reads are permissive: a missing or corrupt file degrades to an empty
// cache with a logged warning, never an error. Entries are only written by
// successful fetches and are never deleted; unbounded growth is accepted.
package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/amjadrushdan/waktu-solat/internal/prayer"
)

const cacheFileName = "prayer_times.json"

// Cache is a file-backed store of daily prayer time records.
type Cache struct {
	path string
}

// New creates a Cache rooted at the given directory, creating it if needed.
// If dir is empty, it defaults to ~/.cache/waktu-solat/.
func New(dir string) (*Cache, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("cannot determine home directory: %w", err)
		}
		dir = filepath.Join(home, ".cache", "waktu-solat")
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cannot create cache directory %s: %w", dir, err)
	}

	return &Cache{path: filepath.Join(dir, cacheFileName)}, nil
}

// Key builds the composite cache key for a city and calendar day.
func Key(city string, date time.Time) string {
	return city + "|" + date.Format("2006-01-02")
}

// Get returns the stored TimeSet for the exact (city, date) key.
// Absence is a normal outcome, not an error.
func (c *Cache) Get(city string, date time.Time) (prayer.TimeSet, bool) {
	entries := c.load()
	ts, ok := entries[Key(city, date)]
	return ts, ok
}

// Put persists (city, date)→times, overwriting any prior entry for that
// exact key only. Write failures are logged and dropped; the rest of the
// system keeps functioning from network fetches alone.
func (c *Cache) Put(city string, date time.Time, times prayer.TimeSet) {
	entries := c.load()
	entries[Key(city, date)] = times

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		log.Warn().Err(err).Msg("failed to marshal prayer time cache")
		return
	}
	data = append(data, '\n')

	if err := os.WriteFile(c.path, data, 0o644); err != nil {
		log.Warn().Err(err).Str("path", c.path).Msg("failed to write prayer time cache")
	}
}

// load reads the whole cache file. Any read or parse error is treated as
// an empty cache.
func (c *Cache) load() map[string]prayer.TimeSet {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn().Err(err).Str("path", c.path).Msg("failed to read prayer time cache")
		}
		return map[string]prayer.TimeSet{}
	}

	var entries map[string]prayer.TimeSet
	if err := json.Unmarshal(data, &entries); err != nil {
		log.Warn().Err(err).Str("path", c.path).Msg("prayer time cache is corrupt; starting empty")
		return map[string]prayer.TimeSet{}
	}
	if entries == nil {
		entries = map[string]prayer.TimeSet{}
	}
	return entries
}
