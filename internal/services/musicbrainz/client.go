package musicbrainz

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"freedify/internal/catalog"
	"freedify/internal/services"
)

const maxGenres = 5

// Recording is a resolved MusicBrainz recording used when expanding
// recommendation MBIDs into displayable tracks.
type Recording struct {
	MBID        string
	Title       string
	Artist      string
	Release     string
	ReleaseDate string
	DurationMS  int64
}

// Lookuper defines the MusicBrainz operations used by enrichment and
// recommendations.
type Lookuper interface {
	LookupISRC(ctx context.Context, isrc string) (*catalog.Enrichment, error)
	LookupRecording(ctx context.Context, mbid string) (*Recording, error)
}

// Client provides access to MusicBrainz lookups and Cover Art Archive images.
type Client struct {
	baseURL     string
	coverArtURL string
	userAgent   string
	httpClient  *http.Client
}

var (
	_ Lookuper         = (*Client)(nil)
	_ catalog.Enricher = (*Client)(nil)
)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// New creates a MusicBrainz client.
func New(baseURL, coverArtURL, userAgent string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("musicbrainz base url required")
	}
	coverArtURL = strings.TrimSpace(coverArtURL)
	if coverArtURL == "" {
		return nil, errors.New("cover art base url required")
	}
	userAgent = strings.TrimSpace(userAgent)
	if userAgent == "" {
		return nil, errors.New("musicbrainz user agent required")
	}
	client := &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		coverArtURL: strings.TrimRight(coverArtURL, "/"),
		userAgent:   userAgent,
		httpClient:  &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

type labelInfo struct {
	Label struct {
		Name string `json:"name"`
	} `json:"label"`
}

type release struct {
	ID        string      `json:"id"`
	Title     string      `json:"title"`
	Date      string      `json:"date"`
	LabelInfo []labelInfo `json:"label-info"`
}

type genre struct {
	Name string `json:"name"`
}

type artistCredit struct {
	Name       string `json:"name"`
	JoinPhrase string `json:"joinphrase"`
}

type recording struct {
	ID           string         `json:"id"`
	Title        string         `json:"title"`
	Length       int64          `json:"length"`
	Releases     []release      `json:"releases"`
	Genres       []genre        `json:"genres"`
	ArtistCredit []artistCredit `json:"artist-credit"`
}

type isrcResponse struct {
	Recordings []recording `json:"recordings"`
}

// get performs one GET against the MusicBrainz API, requesting the JSON
// representation and identifying via User-Agent as the service requires.
func (c *Client) get(ctx context.Context, path string, params url.Values, out any) (bool, error) {
	target, err := url.Parse(c.baseURL + path)
	if err != nil {
		return false, fmt.Errorf("parse musicbrainz url: %w", err)
	}
	params.Set("fmt", "json")
	target.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return false, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return false, services.Wrap(services.ErrTransient, "musicbrainz", path, fmt.Sprintf("execute request (latency=%v)", latency), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return false, nil
	}
	if resp.StatusCode != http.StatusOK {
		marker := services.MarkerForStatus(resp.StatusCode)
		return false, services.Wrap(marker, "musicbrainz", path, fmt.Sprintf("returned %d (latency=%v)", resp.StatusCode, latency), nil)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return false, services.Wrap(services.ErrTransient, "musicbrainz", path, "decode response", err)
	}
	return true, nil
}

// LookupISRC resolves an ISRC to release metadata. A nil enrichment with a
// nil error means MusicBrainz has no recording for the code.
func (c *Client) LookupISRC(ctx context.Context, isrc string) (*catalog.Enrichment, error) {
	isrc = strings.TrimSpace(isrc)
	if !catalog.IsRealISRC(isrc) {
		return nil, nil
	}
	params := url.Values{}
	params.Set("inc", "releases+release-groups+labels+genres")

	var payload isrcResponse
	found, err := c.get(ctx, "/isrc/"+url.PathEscape(isrc), params, &payload)
	if err != nil {
		return nil, err
	}
	if !found || len(payload.Recordings) == 0 {
		return nil, nil
	}
	rec := payload.Recordings[0]

	enrichment := &catalog.Enrichment{}
	if len(rec.Releases) > 0 {
		first := rec.Releases[0]
		enrichment.ReleaseID = first.ID
		enrichment.ReleaseDate = first.Date
		if len(first.LabelInfo) > 0 {
			enrichment.Label = first.LabelInfo[0].Label.Name
		}
		if coverURL, err := c.coverArtFront(ctx, first.ID); err == nil {
			enrichment.CoverArtURL = coverURL
		}
	}
	for _, g := range rec.Genres {
		if g.Name == "" {
			continue
		}
		enrichment.Genres = append(enrichment.Genres, g.Name)
		if len(enrichment.Genres) == maxGenres {
			break
		}
	}
	return enrichment, nil
}

// LookupRecording resolves a recording MBID to its title, artist credit, and
// first release. A nil recording means the MBID is unknown.
func (c *Client) LookupRecording(ctx context.Context, mbid string) (*Recording, error) {
	mbid = strings.TrimSpace(mbid)
	if mbid == "" {
		return nil, services.Wrap(services.ErrValidation, "musicbrainz", "recording", "mbid must not be empty", nil)
	}
	params := url.Values{}
	params.Set("inc", "artists+releases")

	var rec recording
	found, err := c.get(ctx, "/recording/"+url.PathEscape(mbid), params, &rec)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}

	var artist strings.Builder
	for _, credit := range rec.ArtistCredit {
		artist.WriteString(credit.Name)
		artist.WriteString(credit.JoinPhrase)
	}
	resolved := &Recording{
		MBID:       rec.ID,
		Title:      rec.Title,
		Artist:     artist.String(),
		DurationMS: rec.Length,
	}
	if len(rec.Releases) > 0 {
		resolved.Release = rec.Releases[0].Title
		resolved.ReleaseDate = rec.Releases[0].Date
	}
	return resolved, nil
}

type coverArtImage struct {
	Front      bool   `json:"front"`
	Image      string `json:"image"`
	Thumbnails struct {
		Px500 string `json:"500"`
		Large string `json:"large"`
	} `json:"thumbnails"`
}

type coverArtResponse struct {
	Images []coverArtImage `json:"images"`
}

// coverArtFront fetches the front cover for a release, preferring the 500px
// thumbnail over the full-size image. Missing art is not an error.
func (c *Client) coverArtFront(ctx context.Context, releaseID string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.coverArtURL+"/release/"+url.PathEscape(releaseID), nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", services.Wrap(services.ErrTransient, "coverartarchive", "release", "execute request", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", nil
	}
	if resp.StatusCode != http.StatusOK {
		marker := services.MarkerForStatus(resp.StatusCode)
		return "", services.Wrap(marker, "coverartarchive", "release", fmt.Sprintf("returned %d", resp.StatusCode), nil)
	}

	var payload coverArtResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", services.Wrap(services.ErrTransient, "coverartarchive", "release", "decode response", err)
	}
	if len(payload.Images) == 0 {
		return "", nil
	}
	for _, img := range payload.Images {
		if !img.Front {
			continue
		}
		return pickImageURL(img), nil
	}
	return pickImageURL(payload.Images[0]), nil
}

func pickImageURL(img coverArtImage) string {
	switch {
	case img.Thumbnails.Px500 != "":
		return img.Thumbnails.Px500
	case img.Thumbnails.Large != "":
		return img.Thumbnails.Large
	default:
		return img.Image
	}
}
