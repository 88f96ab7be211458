package transcode

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"freedify/internal/fileutil"
	"freedify/internal/textutil"
)

const tmpPrefix = ".tmp-"

// Cache is an on-disk store of finished transcodes.
type Cache struct {
	dir      string
	maxBytes int64

	mu sync.Mutex
}

// CacheStats summarizes cache occupancy.
type CacheStats struct {
	Entries int   `json:"entries"`
	Bytes   int64 `json:"bytes"`
}

// NewCache opens (creating if needed) a cache directory with a size budget
// in GiB. A zero budget disables pruning.
func NewCache(dir string, maxGiB float64) (*Cache, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, errors.New("transcode cache requires a directory")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return &Cache{
		dir:      dir,
		maxBytes: int64(maxGiB * 1024 * 1024 * 1024),
	}, nil
}

// Key derives the cache filename for one rendition of a track. The name
// carries a readable track fragment plus a digest over the full identity so
// distinct renditions never collide.
func Key(trackID string, opts Options) string {
	sum := sha256.Sum256([]byte(trackID + "|" + strings.ToLower(opts.Format) + "|" + strconv.Itoa(opts.BitrateKbps)))
	fragment := textutil.SanitizeFilename(trackID)
	if fragment == "" {
		fragment = "track"
	}
	if len(fragment) > 40 {
		fragment = fragment[:40]
	}
	return fragment + "-" + hex.EncodeToString(sum[:8]) + "." + strings.ToLower(opts.Format)
}

// Get returns the path of a cached rendition, refreshing its timestamp so
// pruning treats it as recently used.
func (c *Cache) Get(key string) (string, bool) {
	path := filepath.Join(c.dir, key)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", false
	}
	now := time.Now()
	_ = os.Chtimes(path, now, now)
	return path, true
}

// PendingEntry is an in-progress cache write. Commit publishes it under its
// final name; Abort discards it.
type PendingEntry struct {
	cache *Cache
	file  *os.File
	key   string
	done  bool
}

// Create opens a pending entry for writing. The entry stays invisible to
// Get until committed.
func (c *Cache) Create(key string) (*PendingEntry, error) {
	file, err := os.CreateTemp(c.dir, tmpPrefix+"*")
	if err != nil {
		return nil, fmt.Errorf("create cache temp file: %w", err)
	}
	return &PendingEntry{cache: c, file: file, key: key}, nil
}

// Write appends encoded bytes to the pending entry.
func (e *PendingEntry) Write(p []byte) (int, error) {
	return e.file.Write(p)
}

// Commit publishes the entry and prunes the cache if it went over budget.
func (e *PendingEntry) Commit() (string, error) {
	if e.done {
		return "", errors.New("cache entry already finalized")
	}
	e.done = true
	tmpPath := e.file.Name()
	if err := e.file.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("close cache temp file: %w", err)
	}
	finalPath := filepath.Join(e.cache.dir, e.key)
	if err := os.Rename(tmpPath, finalPath); err != nil {
		// Rename can fail across mounts; fall back to a verified copy.
		if copyErr := fileutil.CopyFileVerified(tmpPath, finalPath); copyErr != nil {
			_ = os.Remove(tmpPath)
			return "", fmt.Errorf("publish cache entry: %w", copyErr)
		}
		_ = os.Remove(tmpPath)
	}
	e.cache.prune()
	return finalPath, nil
}

// Abort discards the entry.
func (e *PendingEntry) Abort() {
	if e.done {
		return
	}
	e.done = true
	tmpPath := e.file.Name()
	_ = e.file.Close()
	_ = os.Remove(tmpPath)
}

type cacheFile struct {
	path    string
	size    int64
	modTime time.Time
}

func (c *Cache) listEntries() ([]cacheFile, int64) {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return nil, 0
	}
	files := make([]cacheFile, 0, len(entries))
	var total int64
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), tmpPrefix) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, cacheFile{
			path:    filepath.Join(c.dir, entry.Name()),
			size:    info.Size(),
			modTime: info.ModTime(),
		})
		total += info.Size()
	}
	return files, total
}

// prune removes oldest entries until the cache fits its budget.
func (c *Cache) prune() {
	if c.maxBytes <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	files, total := c.listEntries()
	if total <= c.maxBytes {
		return
	}
	sort.Slice(files, func(i, j int) bool { return files[i].modTime.Before(files[j].modTime) })
	for _, file := range files {
		if total <= c.maxBytes {
			break
		}
		if err := os.Remove(file.path); err == nil {
			total -= file.size
		}
	}
}

// Stats reports current cache occupancy.
func (c *Cache) Stats() CacheStats {
	files, total := c.listEntries()
	return CacheStats{Entries: len(files), Bytes: total}
}
