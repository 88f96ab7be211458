package setlistfm

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client, err := New("test-key", server.URL,
		WithHTTPClient(server.Client()),
		WithClock(func() time.Time { return time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC) }),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return client
}

func TestSearchSetlistsSendsDateFilter(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search/setlists" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if key := r.Header.Get("x-api-key"); key != "test-key" {
			t.Errorf("x-api-key = %q", key)
		}
		q := r.URL.Query()
		if q.Get("artistName") != "phish" {
			t.Errorf("artistName = %q", q.Get("artistName"))
		}
		if q.Get("date") != "22-11-1997" {
			t.Errorf("date = %q", q.Get("date"))
		}
		fmt.Fprint(w, `{"setlist": [{
			"id": "abc123",
			"eventDate": "22-11-1997",
			"url": "https://www.setlist.fm/x",
			"artist": {"mbid": "mb-1", "name": "Phish"},
			"venue": {"name": "Hampton Coliseum", "city": {"name": "Hampton"}},
			"sets": {"set": [
				{"song": [{"name": "Mike's Song"}, {"name": "Weekapaug Groove"}]},
				{"encore": 1, "song": [{"name": "Harry Hood"}]}
			]}
		}]}`)
	})

	setlists, err := client.SearchSetlists(context.Background(), "phish 1997-11-22", 1)
	if err != nil {
		t.Fatalf("SearchSetlists: %v", err)
	}
	if len(setlists) != 1 {
		t.Fatalf("len(setlists) = %d", len(setlists))
	}
	s := setlists[0]
	if s.ID != "setlist_abc123" {
		t.Errorf("ID = %q", s.ID)
	}
	if s.ISODate != "1997-11-22" {
		t.Errorf("ISODate = %q", s.ISODate)
	}
	if s.SongCount != 3 {
		t.Errorf("SongCount = %d, want 3", s.SongCount)
	}
	if s.Name != "Phish at Hampton Coliseum" {
		t.Errorf("Name = %q", s.Name)
	}
}

func TestSearchSetlistsNotFoundIsEmpty(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	setlists, err := client.SearchSetlists(context.Background(), "obscure band", 1)
	if err != nil {
		t.Fatalf("SearchSetlists: %v", err)
	}
	if setlists != nil {
		t.Fatalf("setlists = %+v, want nil", setlists)
	}
}

func TestSearchSetlistsCapsResults(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		entries := make([]string, 0, 30)
		for i := 0; i < 30; i++ {
			entries = append(entries, fmt.Sprintf(`{"id": "s%d", "eventDate": "01-01-2020", "artist": {"name": "Band"}, "venue": {"name": "Hall", "city": {"name": "Town"}}}`, i))
		}
		fmt.Fprintf(w, `{"setlist": [%s]}`, strings.Join(entries, ","))
	})
	setlists, err := client.SearchSetlists(context.Background(), "band", 1)
	if err != nil {
		t.Fatalf("SearchSetlists: %v", err)
	}
	if len(setlists) != 20 {
		t.Fatalf("len(setlists) = %d, want 20", len(setlists))
	}
}

func TestSetlistDetailNamesSetsAndRoutesPhish(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/setlist/abc123" {
			t.Errorf("path = %q", r.URL.Path)
		}
		fmt.Fprint(w, `{
			"id": "abc123",
			"eventDate": "22-11-1997",
			"artist": {"name": "Phish"},
			"venue": {"name": "Hampton Coliseum", "city": {"name": "Hampton"}},
			"sets": {"set": [
				{"song": [{"name": "Mike's Song", "info": "extended jam"}]},
				{"song": [{"name": "Ghost", "with": {"name": "Guest"}}]},
				{"encore": 1, "song": [{"name": "Harry Hood", "cover": {"name": "Original Artist"}}]}
			]}
		}`)
	})

	detail, err := client.Setlist(context.Background(), "setlist_abc123")
	if err != nil {
		t.Fatalf("Setlist: %v", err)
	}
	if detail == nil {
		t.Fatal("detail = nil")
	}
	if len(detail.Songs) != 3 {
		t.Fatalf("len(songs) = %d", len(detail.Songs))
	}
	if detail.Songs[0].SetName != "Set 1" || detail.Songs[1].SetName != "Set 2" || detail.Songs[2].SetName != "Encore" {
		t.Errorf("set names = %q %q %q", detail.Songs[0].SetName, detail.Songs[1].SetName, detail.Songs[2].SetName)
	}
	if detail.Songs[0].Info != "extended jam" {
		t.Errorf("Info = %q", detail.Songs[0].Info)
	}
	if detail.Songs[1].With != "Guest" {
		t.Errorf("With = %q", detail.Songs[1].With)
	}
	if detail.Songs[2].Cover != "Original Artist" {
		t.Errorf("Cover = %q", detail.Songs[2].Cover)
	}
	if detail.AudioSource != "phish.in" || detail.AudioURL != "https://phish.in/1997-11-22" {
		t.Errorf("audio = (%q, %q)", detail.AudioSource, detail.AudioURL)
	}
}

func TestSetlistDetailRoutesArchiveOrg(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
			"id": "def456",
			"eventDate": "03-09-1998",
			"artist": {"name": "Pearl Jam"},
			"venue": {"name": "Alpine Valley", "city": {"name": "East Troy"}},
			"sets": {"set": [{"song": [{"name": "Corduroy"}]}]}
		}`)
	})

	detail, err := client.Setlist(context.Background(), "setlist_def456")
	if err != nil {
		t.Fatalf("Setlist: %v", err)
	}
	if detail.AudioSource != "archive.org" {
		t.Errorf("AudioSource = %q", detail.AudioSource)
	}
	if detail.AudioSearch != "Pearl Jam 1998-09-03" {
		t.Errorf("AudioSearch = %q", detail.AudioSearch)
	}
	if !strings.Contains(detail.AudioURL, "archive.org/search") {
		t.Errorf("AudioURL = %q", detail.AudioURL)
	}
}

func TestSetlistNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	detail, err := client.Setlist(context.Background(), "setlist_missing")
	if err != nil {
		t.Fatalf("Setlist: %v", err)
	}
	if detail != nil {
		t.Fatalf("detail = %+v, want nil", detail)
	}
}
