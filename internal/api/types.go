package api

import (
	"freedify/internal/catalog"
	"freedify/internal/store"
	"freedify/internal/transcode"
)

// DependencyStatus captures availability of an external binary.
type DependencyStatus struct {
	Name        string `json:"name"`
	Command     string `json:"command"`
	Description string `json:"description"`
	Optional    bool   `json:"optional"`
	Available   bool   `json:"available"`
	Detail      string `json:"detail,omitempty"`
}

// StatusResponse aggregates daemon runtime information.
type StatusResponse struct {
	Running      bool                 `json:"running"`
	PID          int                  `json:"pid"`
	Version      string               `json:"version,omitempty"`
	DatabasePath string               `json:"database_path"`
	LockFilePath string               `json:"lock_file_path"`
	Dependencies []DependencyStatus   `json:"dependencies"`
	Journal      store.JournalSummary `json:"journal"`
	Cache        transcode.CacheStats `json:"transcode_cache"`
}

// SearchResponse carries combined catalog search results.
type SearchResponse struct {
	Query    string            `json:"query"`
	Kind     string            `json:"type"`
	Tracks   []catalog.Track   `json:"tracks,omitempty"`
	Albums   []catalog.Album   `json:"albums,omitempty"`
	Artists  []catalog.Artist  `json:"artists,omitempty"`
	Setlists []catalog.Setlist `json:"setlists,omitempty"`
}

// TrackResponse wraps a single track with optional enrichment attached.
type TrackResponse struct {
	Track catalog.Track `json:"track"`
}

// AlbumResponse wraps an album and its tracks.
type AlbumResponse struct {
	Album catalog.Album `json:"album"`
}

// ArtistResponse wraps an artist and their top tracks.
type ArtistResponse struct {
	Artist catalog.Artist `json:"artist"`
}

// SetlistListResponse wraps concert search results.
type SetlistListResponse struct {
	Setlists []catalog.Setlist `json:"setlists"`
}

// SetlistResponse wraps a full setlist with live-audio routing.
type SetlistResponse struct {
	Setlist catalog.SetlistDetail `json:"setlist"`
}

// ProbeResponse reports what ffprobe saw in a track's upstream audio.
type ProbeResponse struct {
	TrackID         string  `json:"track_id"`
	Codec           string  `json:"codec,omitempty"`
	Container       string  `json:"container,omitempty"`
	Lossless        bool    `json:"lossless"`
	DurationSeconds float64 `json:"duration_seconds,omitempty"`
	SampleRateHz    int64   `json:"sample_rate_hz,omitempty"`
	Channels        int     `json:"channels,omitempty"`
	BitRate         int64   `json:"bit_rate,omitempty"`
}

// ListenRequest records a play. For playing-now submissions ListenedAt is
// ignored; for listens a zero ListenedAt means "now".
type ListenRequest struct {
	TrackID     string `json:"track_id,omitempty"`
	TrackName   string `json:"track_name"`
	ArtistName  string `json:"artist_name"`
	AlbumName   string `json:"album_name,omitempty"`
	DurationMS  int64  `json:"duration_ms,omitempty"`
	ISRC        string `json:"isrc,omitempty"`
	TrackNumber int    `json:"track_number,omitempty"`
	ListenedAt  int64  `json:"listened_at,omitempty"`
}

// ListenAck confirms a journaled listen.
type ListenAck struct {
	ID     string `json:"id,omitempty"`
	Status string `json:"status"`
}

// Scrobble is a journal entry in transport form.
type Scrobble struct {
	ID         string `json:"id"`
	TrackName  string `json:"track_name"`
	ArtistName string `json:"artist_name"`
	AlbumName  string `json:"album_name,omitempty"`
	ListenedAt int64  `json:"listened_at"`
	Status     string `json:"status"`
	Attempts   int    `json:"attempts"`
	LastError  string `json:"last_error,omitempty"`
}

// ListensResponse lists recent journal entries alongside the remote
// listening history when one is available.
type ListensResponse struct {
	Journal []Scrobble       `json:"journal"`
	Remote  []catalog.Listen `json:"remote,omitempty"`
}

// TokenRequest submits a ListenBrainz token for validation.
type TokenRequest struct {
	Token string `json:"token"`
}

// TokenResponse reports the outcome of a token validation.
type TokenResponse struct {
	Valid    bool   `json:"valid"`
	UserName string `json:"user_name,omitempty"`
}

// RecommendationsResponse lists resolved track recommendations.
type RecommendationsResponse struct {
	Tracks []catalog.Track `json:"tracks"`
}

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error string `json:"error"`
}

// FromScrobble converts a journal row to its transport form.
func FromScrobble(s store.Scrobble) Scrobble {
	return Scrobble{
		ID:         s.ID,
		TrackName:  s.TrackName,
		ArtistName: s.ArtistName,
		AlbumName:  s.AlbumName,
		ListenedAt: s.ListenedAt,
		Status:     string(s.Status),
		Attempts:   s.Attempts,
		LastError:  s.LastError,
	}
}

// FromScrobbles converts a batch of journal rows.
func FromScrobbles(rows []*store.Scrobble) []Scrobble {
	if len(rows) == 0 {
		return nil
	}
	out := make([]Scrobble, 0, len(rows))
	for _, row := range rows {
		if row == nil {
			continue
		}
		out = append(out, FromScrobble(*row))
	}
	return out
}
