package catalog

import "fmt"

// Source identifiers attached to every catalog entity.
const (
	SourceJamendo      = "jamendo"
	SourceListenBrainz = "listenbrainz"
	SourceSetlistFM    = "setlist.fm"
)

// Track is a playable recording from one of the upstream catalogs.
type Track struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Artist      string   `json:"artists"`
	ArtistNames []string `json:"artist_names,omitempty"`
	ArtistID    string   `json:"artist_id,omitempty"`
	Album       string   `json:"album,omitempty"`
	AlbumID     string   `json:"album_id,omitempty"`
	AlbumArt    string   `json:"album_art,omitempty"`
	DurationMS  int64    `json:"duration_ms,omitempty"`
	AudioURL    string   `json:"audio_url,omitempty"`
	License     string   `json:"license,omitempty"`
	ReleaseDate string   `json:"release_date,omitempty"`
	Source      string   `json:"source"`
	Format      string   `json:"format,omitempty"`
	ISRC        string   `json:"isrc,omitempty"`
	TrackNumber int      `json:"track_number,omitempty"`

	Enrichment *Enrichment `json:"enrichment,omitempty"`
}

// DurationDisplay renders the track duration as M:SS for presentation.
func (t Track) DurationDisplay() string {
	return FormatDuration(t.DurationMS)
}

// Album groups tracks released together.
type Album struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Artist      string  `json:"artists"`
	ArtistID    string  `json:"artist_id,omitempty"`
	AlbumArt    string  `json:"album_art,omitempty"`
	ReleaseDate string  `json:"release_date,omitempty"`
	TotalTracks int     `json:"total_tracks"`
	Source      string  `json:"source"`
	Tracks      []Track `json:"tracks,omitempty"`
}

// Artist is a catalog artist with optional top tracks.
type Artist struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Image   string  `json:"image,omitempty"`
	Website string  `json:"website,omitempty"`
	Source  string  `json:"source"`
	Tracks  []Track `json:"tracks,omitempty"`
}

// Enrichment holds MusicBrainz metadata attached to a track by ISRC.
type Enrichment struct {
	ReleaseDate string   `json:"release_date,omitempty"`
	ReleaseID   string   `json:"release_id,omitempty"`
	Label       string   `json:"label,omitempty"`
	CoverArtURL string   `json:"cover_art_url,omitempty"`
	Genres      []string `json:"genres,omitempty"`
}

// Setlist summarizes a concert from Setlist.fm search results.
type Setlist struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Artist     string `json:"artists"`
	ArtistMBID string `json:"artist_mbid,omitempty"`
	Venue      string `json:"venue,omitempty"`
	City       string `json:"city,omitempty"`
	Date       string `json:"date,omitempty"`
	ISODate    string `json:"iso_date,omitempty"`
	SongCount  int    `json:"song_count"`
	URL        string `json:"url,omitempty"`
	Source     string `json:"source"`
}

// SetlistSong is a single performed song inside a setlist.
type SetlistSong struct {
	Name    string `json:"name"`
	SetName string `json:"set_name"`
	With    string `json:"with_info,omitempty"`
	Cover   string `json:"cover_info,omitempty"`
	Info    string `json:"info,omitempty"`
}

// SetlistDetail is a full setlist with songs and live-audio routing.
type SetlistDetail struct {
	Setlist
	Songs []SetlistSong `json:"songs"`

	// AudioSource names the live recording archive for this show:
	// "phish.in" for Phish, "archive.org" otherwise.
	AudioSource string `json:"audio_source,omitempty"`
	AudioURL    string `json:"audio_url,omitempty"`
	AudioSearch string `json:"audio_search,omitempty"`
}

// Listen is a single scrobbled play from a listening history.
type Listen struct {
	TrackName  string `json:"track_name"`
	ArtistName string `json:"artist_name"`
	ListenedAt int64  `json:"listened_at"`
	Source     string `json:"source"`
}

// FormatDuration renders milliseconds as M:SS.
func FormatDuration(ms int64) string {
	if ms <= 0 {
		return "0:00"
	}
	seconds := ms / 1000
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
