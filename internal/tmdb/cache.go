// MovieNight - Social Movie Tracking and Suggestion Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movienight

package tmdb

import (
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/movienight/internal/logging"
)

const cacheKeyPrefix = "tmdb:"

// Cache stores raw TMDB response bodies.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, body []byte, ttl time.Duration) error
}

// BadgerCache is a Cache persisted in BadgerDB. Entries expire through
// Badger's native TTL.
type BadgerCache struct {
	db *badger.DB
}

type cacheEntry struct {
	Body     []byte    `json:"body"`
	StoredAt time.Time `json:"storedAt"`
}

// OpenBadgerCache opens (or creates) a cache directory at path.
func OpenBadgerCache(path string) (*BadgerCache, error) {
	opts := badger.DefaultOptions(path).WithLogger(badgerLogger{})
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger cache at %s: %w", path, err)
	}
	return &BadgerCache{db: db}, nil
}

// OpenInMemoryCache returns a BadgerCache that never touches disk.
func OpenInMemoryCache() (*BadgerCache, error) {
	opts := badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open in-memory badger cache: %w", err)
	}
	return &BadgerCache{db: db}, nil
}

// Get returns the cached body for key, if present and unexpired.
func (c *BadgerCache) Get(key string) ([]byte, bool) {
	var entry cacheEntry
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(cacheKeyPrefix + key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &entry)
		})
	})
	if err != nil {
		if !errors.Is(err, badger.ErrKeyNotFound) {
			logging.Warn().Err(err).Str("key", key).Msg("TMDB cache read failed")
		}
		return nil, false
	}
	return entry.Body, true
}

// Set stores body under key for ttl.
func (c *BadgerCache) Set(key string, body []byte, ttl time.Duration) error {
	data, err := json.Marshal(cacheEntry{Body: body, StoredAt: time.Now().UTC()})
	if err != nil {
		return fmt.Errorf("marshal cache entry: %w", err)
	}
	return c.db.Update(func(txn *badger.Txn) error {
		return txn.SetEntry(badger.NewEntry([]byte(cacheKeyPrefix+key), data).WithTTL(ttl))
	})
}

// RunGC reclaims value-log space left by expired entries. It returns nil
// when there was nothing to collect.
func (c *BadgerCache) RunGC() error {
	err := c.db.RunValueLogGC(0.5)
	if err == nil || errors.Is(err, badger.ErrNoRewrite) || errors.Is(err, badger.ErrGCInMemoryMode) {
		return nil
	}
	return err
}

// Close closes the underlying database.
func (c *BadgerCache) Close() error {
	return c.db.Close()
}

// badgerLogger routes Badger's internal logging through zerolog.
type badgerLogger struct{}

func (badgerLogger) Errorf(format string, args ...interface{}) {
	logging.Error().Str("component", "badger").Msgf(format, args...)
}

func (badgerLogger) Warningf(format string, args ...interface{}) {
	logging.Warn().Str("component", "badger").Msgf(format, args...)
}

func (badgerLogger) Infof(format string, args ...interface{}) {
	logging.Debug().Str("component", "badger").Msgf(format, args...)
}

func (badgerLogger) Debugf(format string, args ...interface{}) {
	logging.Debug().Str("component", "badger").Msgf(format, args...)
}
