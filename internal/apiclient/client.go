package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"syscall"
	"time"

	"freedify/internal/api"
)

// ErrDaemonNotRunning indicates the daemon API is unreachable.
var ErrDaemonNotRunning = errors.New("freedify daemon is not running")

// Client provides HTTP access to the daemon API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// Option customizes client construction.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client used for API calls.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithToken attaches a bearer token to every request.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = strings.TrimSpace(token)
	}
}

// New builds a client for the daemon at address. A bare host:port gets an
// http scheme; 0.0.0.0 binds are rewritten to localhost for dialing.
func New(address string, opts ...Option) *Client {
	address = strings.TrimSpace(address)
	if !strings.Contains(address, "://") {
		address = "http://" + address
	}
	address = strings.TrimSuffix(address, "/")
	address = strings.Replace(address, "0.0.0.0", "127.0.0.1", 1)

	client := &Client{
		baseURL:    address,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// BaseURL returns the resolved daemon address.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, syscall.ECONNREFUSED) {
			return ErrDaemonNotRunning
		}
		return fmt.Errorf("call daemon: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr api.ErrorResponse
		if decodeErr := json.NewDecoder(resp.Body).Decode(&apiErr); decodeErr == nil && apiErr.Error != "" {
			return fmt.Errorf("daemon returned %d: %s", resp.StatusCode, apiErr.Error)
		}
		return fmt.Errorf("daemon returned %d", resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Status retrieves daemon runtime information.
func (c *Client) Status(ctx context.Context) (*api.StatusResponse, error) {
	var resp api.StatusResponse
	if err := c.do(ctx, http.MethodGet, "/api/status", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Search runs a catalog search.
func (c *Client) Search(ctx context.Context, query, kind string, limit int) (*api.SearchResponse, error) {
	params := url.Values{"q": {query}}
	if kind != "" {
		params.Set("type", kind)
	}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	var resp api.SearchResponse
	if err := c.do(ctx, http.MethodGet, "/api/search?"+params.Encode(), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Track fetches a single track.
func (c *Client) Track(ctx context.Context, id string) (*api.TrackResponse, error) {
	var resp api.TrackResponse
	if err := c.do(ctx, http.MethodGet, "/api/tracks/"+url.PathEscape(id), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Album fetches a single album with its tracks.
func (c *Client) Album(ctx context.Context, id string) (*api.AlbumResponse, error) {
	var resp api.AlbumResponse
	if err := c.do(ctx, http.MethodGet, "/api/albums/"+url.PathEscape(id), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Artist fetches a single artist with top tracks.
func (c *Client) Artist(ctx context.Context, id string) (*api.ArtistResponse, error) {
	var resp api.ArtistResponse
	if err := c.do(ctx, http.MethodGet, "/api/artists/"+url.PathEscape(id), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Probe inspects a track's upstream audio with ffprobe.
func (c *Client) Probe(ctx context.Context, id string) (*api.ProbeResponse, error) {
	var resp api.ProbeResponse
	if err := c.do(ctx, http.MethodGet, "/api/tracks/"+url.PathEscape(id)+"/probe", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Setlists searches concert setlists.
func (c *Client) Setlists(ctx context.Context, query string, page int) (*api.SetlistListResponse, error) {
	params := url.Values{"q": {query}}
	if page > 0 {
		params.Set("page", strconv.Itoa(page))
	}
	var resp api.SetlistListResponse
	if err := c.do(ctx, http.MethodGet, "/api/setlists?"+params.Encode(), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Setlist fetches one full setlist.
func (c *Client) Setlist(ctx context.Context, id string) (*api.SetlistResponse, error) {
	var resp api.SetlistResponse
	if err := c.do(ctx, http.MethodGet, "/api/setlists/"+url.PathEscape(id), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Recommendations retrieves resolved track recommendations. An empty user
// asks for the daemon's configured ListenBrainz account.
func (c *Client) Recommendations(ctx context.Context, user string, count int) (*api.RecommendationsResponse, error) {
	var resp api.RecommendationsResponse
	if err := c.do(ctx, http.MethodGet, "/api/recommendations"+listenParams(user, count), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Listens retrieves the scrobble journal and remote listening history. An
// empty user asks for the daemon's configured ListenBrainz account.
func (c *Client) Listens(ctx context.Context, user string, count int) (*api.ListensResponse, error) {
	var resp api.ListensResponse
	if err := c.do(ctx, http.MethodGet, "/api/listens"+listenParams(user, count), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func listenParams(user string, count int) string {
	params := url.Values{}
	if user = strings.TrimSpace(user); user != "" {
		params.Set("user", user)
	}
	if count > 0 {
		params.Set("count", strconv.Itoa(count))
	}
	if encoded := params.Encode(); encoded != "" {
		return "?" + encoded
	}
	return ""
}

// SubmitListen journals a listen for background submission.
func (c *Client) SubmitListen(ctx context.Context, listen api.ListenRequest) (*api.ListenAck, error) {
	var resp api.ListenAck
	if err := c.do(ctx, http.MethodPost, "/api/listens", listen, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// PlayingNow announces the currently playing track.
func (c *Client) PlayingNow(ctx context.Context, listen api.ListenRequest) (*api.ListenAck, error) {
	var resp api.ListenAck
	if err := c.do(ctx, http.MethodPost, "/api/listens/now", listen, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ValidateToken checks a ListenBrainz token against the daemon.
func (c *Client) ValidateToken(ctx context.Context, token string) (*api.TokenResponse, error) {
	var resp api.TokenResponse
	if err := c.do(ctx, http.MethodPost, "/api/listenbrainz/token", api.TokenRequest{Token: token}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// StreamURL builds the playback URL for a track so callers can hand it to
// an external player.
func (c *Client) StreamURL(id, format string, bitrate int) string {
	target := c.baseURL + "/api/tracks/" + url.PathEscape(id) + "/stream"
	params := url.Values{}
	if format != "" {
		params.Set("format", format)
	}
	if bitrate > 0 {
		params.Set("bitrate", strconv.Itoa(bitrate))
	}
	if encoded := params.Encode(); encoded != "" {
		target += "?" + encoded
	}
	return target
}
