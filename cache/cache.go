// Package cache persists raw external API responses on disk, keyed by
// query text and pagination offset. Entries never expire and are never
// evicted; repeated identical queries within and across sessions are served
// from disk instead of the rate-limited external API.
package cache

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Key identifies one cached response.
type Key struct {
	Query      string
	StartIndex int
}

// Filename derives the deterministic on-disk name for the key. The query is
// sanitized so it cannot escape the cache directory or contain separator
// characters; two queries that sanitize identically share an entry.
func (k Key) Filename() string {
	return fmt.Sprintf("%s_%d.json", sanitize(k.Query), k.StartIndex)
}

// FetchFunc produces the raw document on a cache miss.
type FetchFunc func(ctx context.Context) ([]byte, error)

// Store is the get-or-fetch contract. Implementations return the cached
// document verbatim when present and otherwise invoke fetch, persist its
// result under the key, and return it. Fetch errors propagate uncached.
type Store interface {
	GetOrFetch(ctx context.Context, key Key, fetch FetchFunc) ([]byte, error)
}

// Recorder receives cache hit/miss notifications for metrics.
type Recorder interface {
	CacheHit()
	CacheMiss()
}

// FileStore keeps one file per key under a directory. Disk failures fail
// open: an unreadable entry is fetched live and an unwritable directory only
// skips persistence, never the request.
type FileStore struct {
	dir      string
	recorder Recorder
}

// NewFileStore builds a store rooted at dir. The directory is created
// lazily on the first write. recorder may be nil.
func NewFileStore(dir string, recorder Recorder) *FileStore {
	return &FileStore{dir: dir, recorder: recorder}
}

// GetOrFetch implements Store.
func (s *FileStore) GetOrFetch(ctx context.Context, key Key, fetch FetchFunc) ([]byte, error) {
	path := filepath.Join(s.dir, key.Filename())

	data, err := os.ReadFile(path)
	if err == nil {
		if s.recorder != nil {
			s.recorder.CacheHit()
		}
		return data, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("cache read failed, fetching live",
			slog.String("path", path),
			slog.Any("error", err),
		)
	}

	if s.recorder != nil {
		s.recorder.CacheMiss()
	}

	data, err = fetch(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.write(path, data); err != nil {
		slog.Warn("cache write failed, continuing uncached",
			slog.String("path", path),
			slog.Any("error", err),
		)
	}
	return data, nil
}

// write persists data via a temp file and rename so a concurrent reader
// never observes a partial entry.
func (s *FileStore) write(path string, data []byte) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create cache directory %q: %w", s.dir, err)
	}

	tmp, err := os.CreateTemp(s.dir, ".entry-*")
	if err != nil {
		return fmt.Errorf("create temp entry: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write temp entry: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp entry: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("publish entry: %w", err)
	}
	return nil
}

func sanitize(query string) string {
	var b strings.Builder
	b.Grow(len(query))
	for _, r := range query {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-' || r == '_' || r == '.':
			b.WriteRune(r)
		default:
			b.WriteRune('-')
		}
	}
	return b.String()
}
