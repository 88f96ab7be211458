package main

import (
	"strings"
	"testing"
)

func TestSearchCommandRendersTracks(t *testing.T) {
	srv := newFakeDaemon(t)

	out, _, err := runCLI(t, []string{"search", "sunrise"}, srv.URL)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	requireContains(t, out, "Tracks")
	requireContains(t, out, "Sunrise")
	requireContains(t, out, "Morning Band")
	requireContains(t, out, "3:35")
}

func TestStatusCommand(t *testing.T) {
	srv := newFakeDaemon(t)

	out, _, err := runCLI(t, []string{"status"}, srv.URL)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	requireContains(t, out, "Daemon")
	requireContains(t, out, "pid 4242")
	requireContains(t, out, "FFmpeg")
	requireContains(t, out, "Transcode Cache")
}

func TestListensCommand(t *testing.T) {
	srv := newFakeDaemon(t)

	out, _, err := runCLI(t, []string{"listens"}, srv.URL)
	if err != nil {
		t.Fatalf("listens: %v", err)
	}
	requireContains(t, out, "Journal")
	requireContains(t, out, "Sunrise")
	requireContains(t, out, "pending")
	requireContains(t, out, "ListenBrainz history")
	requireContains(t, out, "Moonlight")
}

func TestScrobbleCommand(t *testing.T) {
	srv := newFakeDaemon(t)

	out, _, err := runCLI(t, []string{"scrobble", "Sunrise", "--artist", "Morning Band"}, srv.URL)
	if err != nil {
		t.Fatalf("scrobble: %v", err)
	}
	requireContains(t, out, "Listen journaled (listen-2)")
}

func TestScrobbleCommandRequiresArtist(t *testing.T) {
	srv := newFakeDaemon(t)

	_, _, err := runCLI(t, []string{"scrobble", "Sunrise"}, srv.URL)
	if err == nil || !strings.Contains(err.Error(), "--artist is required") {
		t.Fatalf("expected missing artist error, got %v", err)
	}
}

func TestScrobbleCommandPlayingNow(t *testing.T) {
	srv := newFakeDaemon(t)

	out, _, err := runCLI(t, []string{"scrobble", "Sunrise", "--artist", "Morning Band", "--now"}, srv.URL)
	if err != nil {
		t.Fatalf("scrobble --now: %v", err)
	}
	requireContains(t, out, "Now playing: Sunrise by Morning Band")
}

func TestTokenCommand(t *testing.T) {
	srv := newFakeDaemon(t)

	out, _, err := runCLI(t, []string{"token", "good-token"}, srv.URL)
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	requireContains(t, out, "valid for user listener")

	out, _, err = runCLI(t, []string{"token", "bad-token"}, srv.URL)
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	requireContains(t, out, "Token is invalid")
}

func TestRecommendationsCommand(t *testing.T) {
	srv := newFakeDaemon(t)

	out, _, err := runCLI(t, []string{"recommendations"}, srv.URL)
	if err != nil {
		t.Fatalf("recommendations: %v", err)
	}
	requireContains(t, out, "Sunrise")
	requireContains(t, out, "Dawn")
}

func TestStreamCommandPrintsURL(t *testing.T) {
	srv := newFakeDaemon(t)

	out, _, err := runCLI(t, []string{"stream", "jm_1", "--format", "opus", "--bitrate", "128"}, srv.URL)
	if err != nil {
		t.Fatalf("stream: %v", err)
	}
	requireContains(t, out, "/api/tracks/jm_1/stream")
	requireContains(t, out, "format=opus")
	requireContains(t, out, "bitrate=128")
}

func TestProbeCommand(t *testing.T) {
	srv := newFakeDaemon(t)

	out, _, err := runCLI(t, []string{"probe", "jm_1"}, srv.URL)
	if err != nil {
		t.Fatalf("probe: %v", err)
	}
	requireContains(t, out, "Codec: flac")
	requireContains(t, out, "Lossless: yes")
	requireContains(t, out, "Sample rate: 44100 Hz")
}

func TestStreamCommandUnknownTrack(t *testing.T) {
	srv := newFakeDaemon(t)

	_, _, err := runCLI(t, []string{"stream", "jm_404"}, srv.URL)
	if err == nil || !strings.Contains(err.Error(), "track not found") {
		t.Fatalf("expected not found error, got %v", err)
	}
}
