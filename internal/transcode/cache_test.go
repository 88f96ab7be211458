package transcode

import (
	"os"
	"strings"
	"testing"
	"time"
)

func newTestCache(t *testing.T, maxGiB float64) *Cache {
	t.Helper()
	cache, err := NewCache(t.TempDir(), maxGiB)
	if err != nil {
		t.Fatalf("NewCache: %v", err)
	}
	return cache
}

func TestKeyIsStableAndDistinct(t *testing.T) {
	opts := Options{Format: "mp3", BitrateKbps: 192}
	first := Key("jm_1421044", opts)
	second := Key("jm_1421044", opts)
	if first != second {
		t.Fatalf("key not stable: %q vs %q", first, second)
	}
	if !strings.HasSuffix(first, ".mp3") {
		t.Fatalf("key %q should carry the format extension", first)
	}
	if Key("jm_1421044", Options{Format: "mp3", BitrateKbps: 320}) == first {
		t.Fatal("different bitrates must produce different keys")
	}
	if Key("jm_999", opts) == first {
		t.Fatal("different tracks must produce different keys")
	}
}

func TestKeyHandlesUnfriendlyIDs(t *testing.T) {
	key := Key("!!!", Options{Format: "ogg", BitrateKbps: 96})
	if !strings.HasPrefix(key, "track-") {
		t.Fatalf("key %q should fall back to a generic fragment", key)
	}
}

func TestCacheCommitAndGet(t *testing.T) {
	cache := newTestCache(t, 1)
	key := Key("jm_1", Options{Format: "mp3", BitrateKbps: 192})

	if _, ok := cache.Get(key); ok {
		t.Fatal("empty cache should miss")
	}

	entry, err := cache.Create(key)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := entry.Write([]byte("audio bytes")); err != nil {
		t.Fatalf("Write: %v", err)
	}

	// Pending entries stay invisible until committed.
	if _, ok := cache.Get(key); ok {
		t.Fatal("uncommitted entry should not be visible")
	}

	path, err := entry.Commit()
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "audio bytes" {
		t.Fatalf("cached content = %q", got)
	}

	hitPath, ok := cache.Get(key)
	if !ok || hitPath != path {
		t.Fatalf("Get = (%q, %v), want (%q, true)", hitPath, ok, path)
	}
}

func TestCacheAbortDiscardsEntry(t *testing.T) {
	cache := newTestCache(t, 1)
	key := Key("jm_2", Options{Format: "opus", BitrateKbps: 128})

	entry, err := cache.Create(key)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := entry.Write([]byte("partial")); err != nil {
		t.Fatal(err)
	}
	entry.Abort()

	if _, ok := cache.Get(key); ok {
		t.Fatal("aborted entry should not be visible")
	}
	stats := cache.Stats()
	if stats.Entries != 0 || stats.Bytes != 0 {
		t.Fatalf("stats after abort = %+v, want empty", stats)
	}
}

func TestCachePrunesOldestFirst(t *testing.T) {
	// Budget of four bytes total; each entry is three bytes.
	cache := newTestCache(t, 4.0/(1024*1024*1024))

	write := func(track string, age time.Duration) string {
		entry, err := cache.Create(Key(track, Options{Format: "mp3", BitrateKbps: 192}))
		if err != nil {
			t.Fatal(err)
		}
		if _, err := entry.Write([]byte("abc")); err != nil {
			t.Fatal(err)
		}
		path, err := entry.Commit()
		if err != nil {
			t.Fatal(err)
		}
		old := time.Now().Add(-age)
		if err := os.Chtimes(path, old, old); err != nil {
			t.Fatal(err)
		}
		return path
	}

	oldPath := write("jm_old", time.Hour)
	write("jm_new", 0)

	// A third commit exceeds the budget and should evict the oldest entry.
	entry, err := cache.Create(Key("jm_third", Options{Format: "mp3", BitrateKbps: 192}))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := entry.Write([]byte("abc")); err != nil {
		t.Fatal(err)
	}
	if _, err := entry.Commit(); err != nil {
		t.Fatal(err)
	}

	if _, err := os.Stat(oldPath); !os.IsNotExist(err) {
		t.Fatalf("oldest entry should have been pruned, stat err = %v", err)
	}
	if _, ok := cache.Get(Key("jm_new", Options{Format: "mp3", BitrateKbps: 192})); !ok {
		t.Fatal("newer entry should survive pruning")
	}
}

func TestCacheStatsIgnoresTempFiles(t *testing.T) {
	cache := newTestCache(t, 1)
	entry, err := cache.Create(Key("jm_5", Options{Format: "mp3", BitrateKbps: 192}))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := entry.Write([]byte("in flight")); err != nil {
		t.Fatal(err)
	}
	defer entry.Abort()

	stats := cache.Stats()
	if stats.Entries != 0 {
		t.Fatalf("in-flight temp file counted in stats: %+v", stats)
	}
}

func TestNewCacheRequiresDir(t *testing.T) {
	if _, err := NewCache("  ", 1); err == nil {
		t.Fatal("expected error for empty directory")
	}
}

func TestCacheGetTouchesEntry(t *testing.T) {
	cache := newTestCache(t, 1)
	key := Key("jm_touch", Options{Format: "mp3", BitrateKbps: 192})
	entry, err := cache.Create(key)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := entry.Write([]byte("x")); err != nil {
		t.Fatal(err)
	}
	path, err := entry.Commit()
	if err != nil {
		t.Fatal(err)
	}
	stale := time.Now().Add(-24 * time.Hour)
	if err := os.Chtimes(path, stale, stale); err != nil {
		t.Fatal(err)
	}

	if _, ok := cache.Get(key); !ok {
		t.Fatal("expected hit")
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if time.Since(info.ModTime()) > time.Minute {
		t.Fatalf("Get should refresh mtime, got %v", info.ModTime())
	}
}
