package testsupport

import (
	"context"
	"testing"

	"freedify/internal/config"
	"freedify/internal/store"
)

// MustOpenStore opens a store.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		st.Close()
	})
	return st
}

// Enqueue journals a scrobble for tests using the provided store.
func Enqueue(t testing.TB, st *store.Store, trackName, artistName string) *store.Scrobble {
	t.Helper()

	scrobble, err := st.Enqueue(context.Background(), store.Scrobble{
		TrackName:  trackName,
		ArtistName: artistName,
	})
	if err != nil {
		t.Fatalf("store.Enqueue: %v", err)
	}
	return scrobble
}
