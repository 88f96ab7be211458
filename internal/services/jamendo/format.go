package jamendo

import (
	"strings"

	"freedify/internal/catalog"
)

// trackPayload models one track entry from the Jamendo API.
type trackPayload struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Duration      int64  `json:"duration"`
	ArtistID      string `json:"artist_id"`
	ArtistName    string `json:"artist_name"`
	AlbumID       string `json:"album_id"`
	AlbumName     string `json:"album_name"`
	AlbumImage    string `json:"album_image"`
	ReleaseDate   string `json:"releasedate"`
	Audio         string `json:"audio"`
	AudioDownload string `json:"audiodownload"`
	LicenseURL    string `json:"license_ccurl"`
	Position      int    `json:"position"`
}

// audioURL prefers the downloadable rendition over the streaming one.
func (p trackPayload) audioURL() string {
	if p.AudioDownload != "" {
		return p.AudioDownload
	}
	return p.Audio
}

// albumPayload models one album entry from the Jamendo API.
type albumPayload struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	ArtistID    string `json:"artist_id"`
	ArtistName  string `json:"artist_name"`
	Image       string `json:"image"`
	ReleaseDate string `json:"releasedate"`
}

// albumTracksPayload models the album detail response with nested tracks.
type albumTracksPayload struct {
	albumPayload
	Tracks []trackPayload `json:"tracks"`
}

// artistPayload models one artist entry from the Jamendo API.
type artistPayload struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Image   string `json:"image"`
	Website string `json:"website"`
}

// audioFormatOf classifies a rendition URL as flac or mp3.
func audioFormatOf(url string) string {
	if url == "" {
		return ""
	}
	if strings.Contains(strings.ToLower(url), "flac") {
		return "flac"
	}
	return "mp3"
}

func convertTrack(p trackPayload) catalog.Track {
	streamURL := p.audioURL()
	track := catalog.Track{
		ID:          catalog.JamendoTrackID(p.ID),
		Name:        p.Name,
		Artist:      p.ArtistName,
		ArtistID:    catalog.JamendoArtistID(p.ArtistID),
		Album:       p.AlbumName,
		AlbumArt:    p.AlbumImage,
		DurationMS:  p.Duration * 1000,
		AudioURL:    streamURL,
		License:     p.LicenseURL,
		ReleaseDate: p.ReleaseDate,
		Source:      catalog.SourceJamendo,
		Format:      audioFormatOf(streamURL),
		TrackNumber: p.Position,
	}
	if p.ArtistName != "" {
		track.ArtistNames = []string{p.ArtistName}
	}
	if p.AlbumID != "" {
		track.AlbumID = catalog.JamendoTrackID(p.AlbumID)
	}
	if p.ArtistID == "" {
		track.ArtistID = ""
	}
	return track
}

func convertAlbum(p albumPayload) catalog.Album {
	return catalog.Album{
		ID:          catalog.JamendoTrackID(p.ID),
		Name:        p.Name,
		Artist:      p.ArtistName,
		ArtistID:    catalog.JamendoArtistID(p.ArtistID),
		AlbumArt:    p.Image,
		ReleaseDate: p.ReleaseDate,
		Source:      catalog.SourceJamendo,
	}
}

// convertAlbumDetail stitches album metadata onto each nested track, which
// the album tracks endpoint omits.
func convertAlbumDetail(p albumTracksPayload) catalog.Album {
	album := convertAlbum(p.albumPayload)
	album.TotalTracks = len(p.Tracks)
	album.Tracks = make([]catalog.Track, 0, len(p.Tracks))
	for _, tp := range p.Tracks {
		if tp.ArtistID == "" {
			tp.ArtistID = p.ArtistID
		}
		if tp.ArtistName == "" {
			tp.ArtistName = p.ArtistName
		}
		if tp.AlbumID == "" {
			tp.AlbumID = p.ID
		}
		if tp.AlbumName == "" {
			tp.AlbumName = p.Name
		}
		if tp.AlbumImage == "" {
			tp.AlbumImage = p.Image
		}
		if tp.ReleaseDate == "" {
			tp.ReleaseDate = p.ReleaseDate
		}
		album.Tracks = append(album.Tracks, convertTrack(tp))
	}
	return album
}

func convertArtist(p artistPayload) catalog.Artist {
	return catalog.Artist{
		ID:      catalog.JamendoArtistID(p.ID),
		Name:    p.Name,
		Image:   p.Image,
		Website: p.Website,
		Source:  catalog.SourceJamendo,
	}
}
