package setlistfm

import (
	"fmt"
	"net/url"
	"strings"

	"freedify/internal/catalog"
)

type songPayload struct {
	Name string `json:"name"`
	With struct {
		Name string `json:"name"`
	} `json:"with"`
	Cover struct {
		Name string `json:"name"`
	} `json:"cover"`
	Info string `json:"info"`
}

type setPayload struct {
	Name   string        `json:"name"`
	Encore int           `json:"encore"`
	Song   []songPayload `json:"song"`
}

type setlistPayload struct {
	ID        string `json:"id"`
	EventDate string `json:"eventDate"`
	URL       string `json:"url"`
	Artist    struct {
		MBID string `json:"mbid"`
		Name string `json:"name"`
	} `json:"artist"`
	Venue struct {
		Name string `json:"name"`
		City struct {
			Name string `json:"name"`
		} `json:"city"`
	} `json:"venue"`
	Sets struct {
		Set []setPayload `json:"set"`
	} `json:"sets"`
}

type searchResponse struct {
	Setlist []setlistPayload `json:"setlist"`
}

func (p setlistPayload) songCount() int {
	count := 0
	for _, set := range p.Sets.Set {
		count += len(set.Song)
	}
	return count
}

func (p setlistPayload) displayName() string {
	name := p.Artist.Name
	if p.Venue.Name != "" {
		name += " at " + p.Venue.Name
	}
	return name
}

func convertSummary(p setlistPayload) catalog.Setlist {
	summary := catalog.Setlist{
		ID:         catalog.SetlistID(p.ID),
		Name:       p.displayName(),
		Artist:     p.Artist.Name,
		ArtistMBID: p.Artist.MBID,
		Venue:      p.Venue.Name,
		City:       p.Venue.City.Name,
		Date:       p.EventDate,
		SongCount:  p.songCount(),
		URL:        p.URL,
		Source:     catalog.SourceSetlistFM,
	}
	if iso, err := parseEventDate(p.EventDate); err == nil {
		summary.ISODate = iso
	}
	return summary
}

// convertDetail flattens the nested set structure into an ordered song list
// and attaches the live-audio pointer for the show.
func convertDetail(p setlistPayload) catalog.SetlistDetail {
	detail := catalog.SetlistDetail{Setlist: convertSummary(p)}

	setNumber := 0
	for _, set := range p.Sets.Set {
		name := set.Name
		if name == "" {
			if set.Encore > 0 {
				name = "Encore"
			} else {
				setNumber++
				name = fmt.Sprintf("Set %d", setNumber)
			}
		}
		for _, song := range set.Song {
			detail.Songs = append(detail.Songs, catalog.SetlistSong{
				Name:    song.Name,
				SetName: name,
				With:    song.With.Name,
				Cover:   song.Cover.Name,
				Info:    song.Info,
			})
		}
	}

	detail.AudioSource, detail.AudioURL, detail.AudioSearch = audioPointer(p.Artist.Name, detail.ISODate)
	return detail
}

// audioPointer routes to the archive most likely to hold a live recording.
// Phish shows are mirrored on phish.in by date; everything else falls back
// to an archive.org live music search.
func audioPointer(artist, isoDate string) (source, audioURL, search string) {
	if strings.EqualFold(strings.TrimSpace(artist), "phish") && isoDate != "" {
		return "phish.in", "https://phish.in/" + isoDate, ""
	}
	search = strings.TrimSpace(artist)
	if isoDate != "" {
		if search != "" {
			search += " "
		}
		search += isoDate
	}
	if search == "" {
		return "", "", ""
	}
	audioURL = "https://archive.org/search?query=" + url.QueryEscape(search)
	return "archive.org", audioURL, search
}
