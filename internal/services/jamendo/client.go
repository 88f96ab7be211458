package jamendo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"freedify/internal/catalog"
	"freedify/internal/services"
)

const (
	// FormatLossless requests FLAC renditions from Jamendo.
	FormatLossless = "flac"

	// trackIncludes selects the extended track blocks; without the licenses
	// block Jamendo omits license_ccurl from payloads.
	trackIncludes = "musicinfo licenses"

	artistTopTrackLimit = 20
)

// Client provides access to the Jamendo API for catalog search and streaming.
type Client struct {
	clientID    string
	baseURL     string
	audioFormat string
	httpClient  *http.Client
}

var _ catalog.Provider = (*Client)(nil)

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

// New creates a Jamendo client.
func New(clientID, baseURL, audioFormat string, opts ...Option) (*Client, error) {
	clientID = strings.TrimSpace(clientID)
	if clientID == "" {
		return nil, errors.New("jamendo client id required")
	}
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("jamendo base url required")
	}
	audioFormat = strings.TrimSpace(audioFormat)
	if audioFormat == "" {
		audioFormat = "mp32"
	}
	client := &Client{
		clientID:    clientID,
		baseURL:     strings.TrimRight(baseURL, "/"),
		audioFormat: audioFormat,
		httpClient:  &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// envelope models the common Jamendo response wrapper.
type envelope struct {
	Headers struct {
		Status       string `json:"status"`
		Code         int    `json:"code"`
		ErrorMessage string `json:"error_message"`
	} `json:"headers"`
	Results json.RawMessage `json:"results"`
}

// get performs a GET against one Jamendo endpoint and unmarshals the results
// array into out. Shared credentials and response format are applied here.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values, out any) error {
	target, err := url.Parse(c.baseURL + endpoint)
	if err != nil {
		return fmt.Errorf("parse jamendo url: %w", err)
	}
	params.Set("client_id", c.clientID)
	params.Set("format", "json")
	target.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return services.Wrap(services.ErrTransient, "jamendo", endpoint, fmt.Sprintf("execute request (latency=%v)", latency), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		marker := services.MarkerForStatus(resp.StatusCode)
		return services.Wrap(marker, "jamendo", endpoint, fmt.Sprintf("returned %d (latency=%v)", resp.StatusCode, latency), nil)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return services.Wrap(services.ErrTransient, "jamendo", endpoint, "decode response", err)
	}
	if env.Headers.Code != 0 {
		return services.Wrap(services.ErrValidation, "jamendo", endpoint, fmt.Sprintf("api error %d: %s", env.Headers.Code, env.Headers.ErrorMessage), nil)
	}
	if len(env.Results) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Results, out); err != nil {
		return services.Wrap(services.ErrTransient, "jamendo", endpoint, "decode results", err)
	}
	return nil
}

// SearchTracks searches Jamendo tracks by name.
func (c *Client) SearchTracks(ctx context.Context, query string, limit, offset int) ([]catalog.Track, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, services.Wrap(services.ErrValidation, "jamendo", "tracks", "query must not be empty", nil)
	}
	params := url.Values{}
	params.Set("search", query)
	params.Set("limit", strconv.Itoa(limit))
	params.Set("offset", strconv.Itoa(offset))
	params.Set("audioformat", c.audioFormat)
	params.Set("include", trackIncludes)

	var payloads []trackPayload
	if err := c.get(ctx, "/tracks/", params, &payloads); err != nil {
		return nil, err
	}
	tracks := make([]catalog.Track, 0, len(payloads))
	for _, p := range payloads {
		tracks = append(tracks, convertTrack(p))
	}
	return tracks, nil
}

// Track fetches a single track by its namespaced identifier. A nil track
// means Jamendo has no such recording.
func (c *Client) Track(ctx context.Context, id string) (*catalog.Track, error) {
	raw := catalog.RawJamendoID(id)
	if raw == "" {
		return nil, services.Wrap(services.ErrValidation, "jamendo", "tracks", "track id must not be empty", nil)
	}
	params := url.Values{}
	params.Set("id", raw)
	params.Set("audioformat", c.audioFormat)
	params.Set("include", trackIncludes)

	var payloads []trackPayload
	if err := c.get(ctx, "/tracks/", params, &payloads); err != nil {
		return nil, err
	}
	if len(payloads) == 0 {
		return nil, nil
	}
	track := convertTrack(payloads[0])
	return &track, nil
}

// SearchAlbums searches Jamendo albums by name.
func (c *Client) SearchAlbums(ctx context.Context, query string, limit, offset int) ([]catalog.Album, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, services.Wrap(services.ErrValidation, "jamendo", "albums", "query must not be empty", nil)
	}
	params := url.Values{}
	params.Set("namesearch", query)
	params.Set("limit", strconv.Itoa(limit))
	params.Set("offset", strconv.Itoa(offset))

	var payloads []albumPayload
	if err := c.get(ctx, "/albums/", params, &payloads); err != nil {
		return nil, err
	}
	albums := make([]catalog.Album, 0, len(payloads))
	for _, p := range payloads {
		albums = append(albums, convertAlbum(p))
	}
	return albums, nil
}

// Album fetches an album with its full track list. Album metadata is
// stitched onto each track because the album tracks endpoint returns
// recordings without their parent context.
func (c *Client) Album(ctx context.Context, id string) (*catalog.Album, error) {
	raw := catalog.RawJamendoID(id)
	if raw == "" {
		return nil, services.Wrap(services.ErrValidation, "jamendo", "albums/tracks", "album id must not be empty", nil)
	}
	params := url.Values{}
	params.Set("id", raw)
	params.Set("audioformat", c.audioFormat)

	var payloads []albumTracksPayload
	if err := c.get(ctx, "/albums/tracks/", params, &payloads); err != nil {
		return nil, err
	}
	if len(payloads) == 0 {
		return nil, nil
	}
	album := convertAlbumDetail(payloads[0])
	return &album, nil
}

// SearchArtists searches Jamendo artists by name.
func (c *Client) SearchArtists(ctx context.Context, query string, limit, offset int) ([]catalog.Artist, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, services.Wrap(services.ErrValidation, "jamendo", "artists", "query must not be empty", nil)
	}
	params := url.Values{}
	params.Set("namesearch", query)
	params.Set("limit", strconv.Itoa(limit))
	params.Set("offset", strconv.Itoa(offset))

	var payloads []artistPayload
	if err := c.get(ctx, "/artists/", params, &payloads); err != nil {
		return nil, err
	}
	artists := make([]catalog.Artist, 0, len(payloads))
	for _, p := range payloads {
		artists = append(artists, convertArtist(p))
	}
	return artists, nil
}

// Artist fetches an artist together with their most popular tracks.
func (c *Client) Artist(ctx context.Context, id string) (*catalog.Artist, error) {
	raw := catalog.RawJamendoID(id)
	if raw == "" {
		return nil, services.Wrap(services.ErrValidation, "jamendo", "artists", "artist id must not be empty", nil)
	}
	params := url.Values{}
	params.Set("id", raw)

	var payloads []artistPayload
	if err := c.get(ctx, "/artists/", params, &payloads); err != nil {
		return nil, err
	}
	if len(payloads) == 0 {
		return nil, nil
	}
	artist := convertArtist(payloads[0])

	trackParams := url.Values{}
	trackParams.Set("artist_id", raw)
	trackParams.Set("limit", strconv.Itoa(artistTopTrackLimit))
	trackParams.Set("order", "popularity_total")
	trackParams.Set("audioformat", c.audioFormat)
	trackParams.Set("include", trackIncludes)

	var trackPayloads []trackPayload
	if err := c.get(ctx, "/tracks/", trackParams, &trackPayloads); err != nil {
		return nil, err
	}
	artist.Tracks = make([]catalog.Track, 0, len(trackPayloads))
	for _, p := range trackPayloads {
		artist.Tracks = append(artist.Tracks, convertTrack(p))
	}
	return &artist, nil
}

// StreamURL resolves the best upstream audio URL for a track. Lossless
// preference requests the FLAC rendition first and falls back to the
// configured lossy format when Jamendo has no FLAC for the recording.
func (c *Client) StreamURL(ctx context.Context, id string, preferLossless bool) (string, error) {
	raw := catalog.RawJamendoID(id)
	if raw == "" {
		return "", services.Wrap(services.ErrValidation, "jamendo", "tracks", "track id must not be empty", nil)
	}
	formats := []string{c.audioFormat}
	if preferLossless {
		formats = []string{FormatLossless, c.audioFormat}
	}
	for _, format := range formats {
		params := url.Values{}
		params.Set("id", raw)
		params.Set("audioformat", format)

		var payloads []trackPayload
		if err := c.get(ctx, "/tracks/", params, &payloads); err != nil {
			return "", err
		}
		if len(payloads) == 0 {
			return "", nil
		}
		if streamURL := payloads[0].audioURL(); streamURL != "" {
			return streamURL, nil
		}
	}
	return "", nil
}
