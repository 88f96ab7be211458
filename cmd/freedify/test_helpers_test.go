package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"freedify/internal/api"
	"freedify/internal/catalog"
)

// newFakeDaemon serves canned API responses so commands can be exercised
// without a running daemon.
func newFakeDaemon(t *testing.T) *httptest.Server {
	t.Helper()

	track := catalog.Track{
		ID:         "jm_1",
		Name:       "Sunrise",
		Artist:     "Morning Band",
		Album:      "Dawn",
		DurationMS: 215000,
		Source:     "jamendo",
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/status", func(w http.ResponseWriter, r *http.Request) {
		writeFakeJSON(t, w, api.StatusResponse{
			Running:      true,
			PID:          4242,
			DatabasePath: "/tmp/freedify.db",
			Dependencies: []api.DependencyStatus{
				{Name: "FFmpeg", Command: "ffmpeg", Available: true},
			},
		})
	})
	mux.HandleFunc("GET /api/search", func(w http.ResponseWriter, r *http.Request) {
		writeFakeJSON(t, w, api.SearchResponse{
			Query:  r.URL.Query().Get("q"),
			Kind:   "all",
			Tracks: []catalog.Track{track},
		})
	})
	mux.HandleFunc("GET /api/tracks/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") != track.ID {
			w.WriteHeader(http.StatusNotFound)
			writeFakeJSON(t, w, api.ErrorResponse{Error: "track not found"})
			return
		}
		writeFakeJSON(t, w, api.TrackResponse{Track: track})
	})
	mux.HandleFunc("GET /api/tracks/{id}/probe", func(w http.ResponseWriter, r *http.Request) {
		writeFakeJSON(t, w, api.ProbeResponse{
			TrackID:         r.PathValue("id"),
			Codec:           "flac",
			Container:       "flac",
			Lossless:        true,
			DurationSeconds: 215.0,
			SampleRateHz:    44100,
			Channels:        2,
		})
	})
	mux.HandleFunc("GET /api/listens", func(w http.ResponseWriter, r *http.Request) {
		writeFakeJSON(t, w, api.ListensResponse{
			Journal: []api.Scrobble{{
				ID:         "listen-1",
				TrackName:  track.Name,
				ArtistName: track.Artist,
				ListenedAt: 1700000000,
				Status:     "pending",
			}},
			Remote: []catalog.Listen{{
				TrackName:  "Moonlight",
				ArtistName: "Night Band",
				ListenedAt: 1700000100,
				Source:     "listenbrainz",
			}},
		})
	})
	mux.HandleFunc("POST /api/listens", func(w http.ResponseWriter, r *http.Request) {
		var req api.ListenRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.TrackName == "" {
			w.WriteHeader(http.StatusBadRequest)
			writeFakeJSON(t, w, api.ErrorResponse{Error: "track_name is required"})
			return
		}
		w.WriteHeader(http.StatusAccepted)
		writeFakeJSON(t, w, api.ListenAck{ID: "listen-2", Status: "pending"})
	})
	mux.HandleFunc("POST /api/listens/now", func(w http.ResponseWriter, r *http.Request) {
		writeFakeJSON(t, w, api.ListenAck{Status: "playing_now"})
	})
	mux.HandleFunc("POST /api/listenbrainz/token", func(w http.ResponseWriter, r *http.Request) {
		var req api.TokenRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if req.Token == "good-token" {
			writeFakeJSON(t, w, api.TokenResponse{Valid: true, UserName: "listener"})
			return
		}
		writeFakeJSON(t, w, api.TokenResponse{Valid: false})
	})
	mux.HandleFunc("GET /api/recommendations", func(w http.ResponseWriter, r *http.Request) {
		writeFakeJSON(t, w, api.RecommendationsResponse{Tracks: []catalog.Track{track}})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func writeFakeJSON(t *testing.T, w http.ResponseWriter, payload any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		t.Errorf("encode fake response: %v", err)
	}
}

func runCLI(t *testing.T, args []string, address string) (string, string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	if address != "" {
		args = append([]string{"--address", address}, args...)
	}
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
