package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"freedify/internal/api"
)

func TestSearchBuildsQuery(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/search" {
			t.Errorf("path = %q", r.URL.Path)
		}
		query := r.URL.Query()
		if query.Get("q") != "sigur ros" || query.Get("type") != "track" || query.Get("limit") != "5" {
			t.Errorf("query = %v", query)
		}
		json.NewEncoder(w).Encode(api.SearchResponse{Query: "sigur ros", Kind: "track"})
	}))
	defer server.Close()

	client := New(server.URL)
	resp, err := client.Search(context.Background(), "sigur ros", "track", 5)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if resp.Query != "sigur ros" {
		t.Fatalf("response = %+v", resp)
	}
}

func TestTokenHeaderAttached(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("authorization = %q", got)
		}
		json.NewEncoder(w).Encode(api.StatusResponse{Running: true})
	}))
	defer server.Close()

	client := New(server.URL, WithToken("secret"))
	status, err := client.Status(context.Background())
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if !status.Running {
		t.Fatal("expected running status")
	}
}

func TestErrorBodySurfaced(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(api.ErrorResponse{Error: "not found"})
	}))
	defer server.Close()

	client := New(server.URL)
	_, err := client.Track(context.Background(), "jm_999")
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("expected error detail, got %v", err)
	}
	if !strings.Contains(err.Error(), "404") {
		t.Fatalf("expected status code in error, got %v", err)
	}
}

func TestConnectionRefusedMapsToNotRunning(t *testing.T) {
	// Grab a port that nothing listens on.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	address := server.Listener.Addr().String()
	server.Close()

	client := New(address)
	_, err := client.Status(context.Background())
	if !errors.Is(err, ErrDaemonNotRunning) {
		t.Fatalf("err = %v, want ErrDaemonNotRunning", err)
	}
}

func TestListensForwardsUserAndCount(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/listens" {
			t.Errorf("path = %q", r.URL.Path)
		}
		query := r.URL.Query()
		if query.Get("user") != "friend" || query.Get("count") != "5" {
			t.Errorf("query = %v", query)
		}
		json.NewEncoder(w).Encode(api.ListensResponse{})
	}))
	defer server.Close()

	client := New(server.URL)
	if _, err := client.Listens(context.Background(), "friend", 5); err != nil {
		t.Fatalf("Listens: %v", err)
	}
}

func TestRecommendationsForwardsUser(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/recommendations" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("user"); got != "friend" {
			t.Errorf("user = %q", got)
		}
		json.NewEncoder(w).Encode(api.RecommendationsResponse{})
	}))
	defer server.Close()

	client := New(server.URL)
	if _, err := client.Recommendations(context.Background(), "friend", 0); err != nil {
		t.Fatalf("Recommendations: %v", err)
	}
}

func TestSubmitListenPostsBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/listens" {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		var request api.ListenRequest
		if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if request.TrackName != "Sunrise" {
			t.Errorf("body = %+v", request)
		}
		w.WriteHeader(http.StatusAccepted)
		json.NewEncoder(w).Encode(api.ListenAck{ID: "abc", Status: "pending"})
	}))
	defer server.Close()

	client := New(server.URL)
	ack, err := client.SubmitListen(context.Background(), api.ListenRequest{TrackName: "Sunrise", ArtistName: "Morning Band"})
	if err != nil {
		t.Fatalf("SubmitListen: %v", err)
	}
	if ack.ID != "abc" || ack.Status != "pending" {
		t.Fatalf("ack = %+v", ack)
	}
}

func TestNewNormalizesAddress(t *testing.T) {
	client := New("0.0.0.0:8000")
	if client.BaseURL() != "http://127.0.0.1:8000" {
		t.Fatalf("base url = %q", client.BaseURL())
	}
	client = New("http://localhost:9000/")
	if client.BaseURL() != "http://localhost:9000" {
		t.Fatalf("base url = %q", client.BaseURL())
	}
}

func TestStreamURL(t *testing.T) {
	client := New("127.0.0.1:8000")
	got := client.StreamURL("jm_1", "opus", 128)
	want := "http://127.0.0.1:8000/api/tracks/jm_1/stream?bitrate=128&format=opus"
	if got != want {
		t.Fatalf("stream url = %q, want %q", got, want)
	}
	if got := client.StreamURL("jm_1", "", 0); got != "http://127.0.0.1:8000/api/tracks/jm_1/stream" {
		t.Fatalf("bare stream url = %q", got)
	}
}
