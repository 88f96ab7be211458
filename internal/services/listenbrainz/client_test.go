package listenbrainz

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"freedify/internal/catalog"
	"freedify/internal/services"
	"freedify/internal/services/musicbrainz"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	opts = append([]Option{WithHTTPClient(server.Client())}, opts...)
	client, err := New("secret-token", "listener", server.URL, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return client
}

func decodeSubmit(t *testing.T, r *http.Request) submitRequest {
	t.Helper()
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		t.Fatalf("decode submit request: %v", err)
	}
	return req
}

func TestSubmitPlayingNowOmitsTimestamp(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/1/submit-listens" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Token secret-token" {
			t.Errorf("Authorization = %q", auth)
		}
		req := decodeSubmit(t, r)
		if req.ListenType != "playing_now" {
			t.Errorf("listen_type = %q", req.ListenType)
		}
		if len(req.Payload) != 1 || req.Payload[0].ListenedAt != 0 {
			t.Errorf("payload = %+v, want no timestamp", req.Payload)
		}
		if req.Payload[0].TrackMetadata.AdditionalInfo.DurationMS != 183000 {
			t.Errorf("duration_ms = %d", req.Payload[0].TrackMetadata.AdditionalInfo.DurationMS)
		}
	})

	err := client.SubmitPlayingNow(context.Background(), Submission{
		TrackName:  "Aurora",
		ArtistName: "Nordlys",
		DurationMS: 183000,
	})
	if err != nil {
		t.Fatalf("SubmitPlayingNow: %v", err)
	}
}

func TestSubmitListenDefaultsTimestamp(t *testing.T) {
	fixed := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		req := decodeSubmit(t, r)
		if req.ListenType != "single" {
			t.Errorf("listen_type = %q", req.ListenType)
		}
		if got := req.Payload[0].ListenedAt; got != fixed.Unix() {
			t.Errorf("listened_at = %d, want %d", got, fixed.Unix())
		}
	}, WithClock(func() time.Time { return fixed }))

	err := client.SubmitListen(context.Background(), Submission{TrackName: "Aurora", ArtistName: "Nordlys"})
	if err != nil {
		t.Fatalf("SubmitListen: %v", err)
	}
}

func TestSubmitListenStripsSyntheticISRC(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		req := decodeSubmit(t, r)
		if isrc := req.Payload[0].TrackMetadata.AdditionalInfo.ISRC; isrc != "" {
			t.Errorf("isrc = %q, want omitted for synthetic code", isrc)
		}
	})
	err := client.SubmitListen(context.Background(), Submission{
		TrackName:  "Cast",
		ArtistName: "Host",
		ISRC:       "pod_12345",
		ListenedAt: 1700000000,
	})
	if err != nil {
		t.Fatalf("SubmitListen: %v", err)
	}
}

func TestSubmitRequiresToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("unexpected request without token")
	}))
	defer server.Close()
	client, err := New("", "listener", server.URL, WithHTTPClient(server.Client()))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	err = client.SubmitListen(context.Background(), Submission{TrackName: "Aurora", ArtistName: "Nordlys"})
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("err = %v, want configuration marker", err)
	}
}

func TestSubmitRequiresNames(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("unexpected request with empty names")
	})
	err := client.SubmitListen(context.Background(), Submission{TrackName: "  "})
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("err = %v, want validation marker", err)
	}
}

func TestSetTokenAppliesToSubmissions(t *testing.T) {
	var auth string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
	})

	client.SetToken("fresh-token")
	err := client.SubmitListen(context.Background(), Submission{
		TrackName:  "Aurora",
		ArtistName: "Nordlys",
		ListenedAt: 1700000000,
	})
	if err != nil {
		t.Fatalf("SubmitListen: %v", err)
	}
	if auth != "Token fresh-token" {
		t.Errorf("Authorization = %q, want replaced token", auth)
	}
}

func TestValidateToken(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/1/validate-token" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Token candidate" {
			t.Errorf("Authorization = %q", auth)
		}
		fmt.Fprint(w, `{"valid": true, "user_name": "listener"}`)
	})
	user, err := client.ValidateToken(context.Background(), "candidate")
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if user != "listener" {
		t.Errorf("user = %q", user)
	}
}

func TestValidateTokenRejected(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"valid": false}`)
	})
	_, err := client.ValidateToken(context.Background(), "bogus")
	if !errors.Is(err, services.ErrUnauthorized) {
		t.Fatalf("err = %v, want unauthorized marker", err)
	}
}

func TestListens(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/1/user/listener/listens" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("count"); got != "10" {
			t.Errorf("count = %q", got)
		}
		fmt.Fprint(w, `{"payload": {"listens": [
			{"listened_at": 1700000000, "track_metadata": {"artist_name": "Nordlys", "track_name": "Aurora"}}
		]}}`)
	})
	listens, err := client.Listens(context.Background(), "", 10)
	if err != nil {
		t.Fatalf("Listens: %v", err)
	}
	if len(listens) != 1 {
		t.Fatalf("len(listens) = %d", len(listens))
	}
	if listens[0].TrackName != "Aurora" || listens[0].Source != catalog.SourceListenBrainz {
		t.Errorf("listen = %+v", listens[0])
	}
}

func TestListensOverridesUser(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/1/user/friend/listens" {
			t.Errorf("path = %q", r.URL.Path)
		}
		fmt.Fprint(w, `{"payload": {"listens": []}}`)
	})
	if _, err := client.Listens(context.Background(), "friend", 5); err != nil {
		t.Fatalf("Listens: %v", err)
	}
}

func TestRecommendationsCapped(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/1/cf/recommendation/recording/listener" {
			t.Errorf("path = %q", r.URL.Path)
		}
		var entries []string
		for i := 0; i < 30; i++ {
			entries = append(entries, fmt.Sprintf(`{"recording_mbid": "mbid-%d"}`, i))
		}
		fmt.Fprintf(w, `{"payload": {"mbids": [%s]}}`, joinJSON(entries))
	})
	mbids, err := client.Recommendations(context.Background(), "", 0)
	if err != nil {
		t.Fatalf("Recommendations: %v", err)
	}
	if len(mbids) != 15 {
		t.Fatalf("len(mbids) = %d, want 15", len(mbids))
	}
}

func TestRecommendationsHonorsUserAndCount(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/1/cf/recommendation/recording/friend" {
			t.Errorf("path = %q", r.URL.Path)
		}
		var entries []string
		for i := 0; i < 10; i++ {
			entries = append(entries, fmt.Sprintf(`{"recording_mbid": "mbid-%d"}`, i))
		}
		fmt.Fprintf(w, `{"payload": {"mbids": [%s]}}`, joinJSON(entries))
	})
	mbids, err := client.Recommendations(context.Background(), "friend", 3)
	if err != nil {
		t.Fatalf("Recommendations: %v", err)
	}
	if len(mbids) != 3 {
		t.Fatalf("len(mbids) = %d, want 3", len(mbids))
	}
}

func joinJSON(entries []string) string {
	out := ""
	for i, e := range entries {
		if i > 0 {
			out += ","
		}
		out += e
	}
	return out
}

type fakeLookuper struct {
	recordings map[string]*musicbrainz.Recording
}

func (f *fakeLookuper) LookupISRC(ctx context.Context, isrc string) (*catalog.Enrichment, error) {
	return nil, nil
}

func (f *fakeLookuper) LookupRecording(ctx context.Context, mbid string) (*musicbrainz.Recording, error) {
	if rec, ok := f.recordings[mbid]; ok {
		return rec, nil
	}
	return nil, errors.New("lookup failed")
}

func TestResolveRecommendationsSkipsFailures(t *testing.T) {
	lookuper := &fakeLookuper{recordings: map[string]*musicbrainz.Recording{
		"mbid-1": {MBID: "mbid-1", Title: "Aurora", Artist: "Nordlys"},
	}}
	tracks := ResolveRecommendations(context.Background(), []string{"mbid-1", "mbid-missing"}, lookuper, nil)
	if len(tracks) != 1 {
		t.Fatalf("len(tracks) = %d, want 1", len(tracks))
	}
	if tracks[0].Source != catalog.SourceListenBrainz || tracks[0].Name != "Aurora" {
		t.Errorf("track = %+v", tracks[0])
	}
}
