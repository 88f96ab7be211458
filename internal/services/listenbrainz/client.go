package listenbrainz

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
	"sync"
	"time"

	"freedify/internal/catalog"
	"freedify/internal/services"
)

const maxRecommendations = 15

// Submission describes one listen to report.
type Submission struct {
	TrackName   string
	ArtistName  string
	DurationMS  int64
	ReleaseName string
	ISRC        string
	TrackNumber int

	// ListenedAt is a unix timestamp; zero means now.
	ListenedAt int64
}

// Submitter defines the ListenBrainz operations used by the scrobble worker
// and the HTTP API.
type Submitter interface {
	SubmitPlayingNow(ctx context.Context, listen Submission) error
	SubmitListen(ctx context.Context, listen Submission) error
	ValidateToken(ctx context.Context, token string) (string, error)
	SetToken(token string)
	Listens(ctx context.Context, user string, count int) ([]catalog.Listen, error)
	Recommendations(ctx context.Context, user string, count int) ([]string, error)
}

// Client provides access to the ListenBrainz API.
type Client struct {
	mu         sync.RWMutex
	token      string
	username   string
	baseURL    string
	httpClient *http.Client
	now        func() time.Time
}

var _ Submitter = (*Client)(nil)

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

// WithClock overrides the time source used for default listen timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
	}
}

// New creates a ListenBrainz client. Token and username may be empty; the
// operations that need them fail with a configuration error when missing.
func New(token, username, baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("listenbrainz base url required")
	}
	client := &Client{
		token:      strings.TrimSpace(token),
		username:   strings.TrimSpace(username),
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// SetToken replaces the token used for authenticated calls. Validating a
// token through the daemon API applies it to the running client this way.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = strings.TrimSpace(token)
	c.mu.Unlock()
}

func (c *Client) currentToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

type additionalInfo struct {
	DurationMS  int64  `json:"duration_ms,omitempty"`
	ReleaseName string `json:"release_name,omitempty"`
	ISRC        string `json:"isrc,omitempty"`
	TrackNumber int    `json:"tracknumber,omitempty"`
}

type trackMetadata struct {
	ArtistName     string         `json:"artist_name"`
	TrackName      string         `json:"track_name"`
	AdditionalInfo additionalInfo `json:"additional_info"`
}

type listenPayload struct {
	ListenedAt    int64         `json:"listened_at,omitempty"`
	TrackMetadata trackMetadata `json:"track_metadata"`
}

type submitRequest struct {
	ListenType string          `json:"listen_type"`
	Payload    []listenPayload `json:"payload"`
}

// SubmitPlayingNow reports what is currently playing. Playing-now listens
// carry no timestamp.
func (c *Client) SubmitPlayingNow(ctx context.Context, listen Submission) error {
	payload := buildPayload(listen)
	payload.ListenedAt = 0
	return c.submit(ctx, submitRequest{ListenType: "playing_now", Payload: []listenPayload{payload}})
}

// SubmitListen records a completed listen. A zero ListenedAt defaults to the
// current time.
func (c *Client) SubmitListen(ctx context.Context, listen Submission) error {
	payload := buildPayload(listen)
	if payload.ListenedAt == 0 {
		payload.ListenedAt = c.now().Unix()
	}
	return c.submit(ctx, submitRequest{ListenType: "single", Payload: []listenPayload{payload}})
}

func buildPayload(listen Submission) listenPayload {
	info := additionalInfo{
		DurationMS:  listen.DurationMS,
		ReleaseName: listen.ReleaseName,
		TrackNumber: listen.TrackNumber,
	}
	if catalog.IsRealISRC(listen.ISRC) {
		info.ISRC = strings.TrimSpace(listen.ISRC)
	}
	return listenPayload{
		ListenedAt: listen.ListenedAt,
		TrackMetadata: trackMetadata{
			ArtistName:     listen.ArtistName,
			TrackName:      listen.TrackName,
			AdditionalInfo: info,
		},
	}
}

func (c *Client) submit(ctx context.Context, request submitRequest) error {
	token := c.currentToken()
	if token == "" {
		return services.Wrap(services.ErrConfiguration, "listenbrainz", "submit-listens", "token not configured", nil)
	}
	if len(request.Payload) > 0 {
		meta := request.Payload[0].TrackMetadata
		if strings.TrimSpace(meta.ArtistName) == "" || strings.TrimSpace(meta.TrackName) == "" {
			return services.Wrap(services.ErrValidation, "listenbrainz", "submit-listens", "artist and track names required", nil)
		}
	}
	body, err := json.Marshal(request)
	if err != nil {
		return fmt.Errorf("encode listen payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/1/submit-listens", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Token "+token)
	req.Header.Set("Content-Type", "application/json")

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return services.Wrap(services.ErrTransient, "listenbrainz", "submit-listens", fmt.Sprintf("execute request (latency=%v)", latency), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		marker := services.MarkerForStatus(resp.StatusCode)
		return services.Wrap(marker, "listenbrainz", "submit-listens", fmt.Sprintf("returned %d (latency=%v)", resp.StatusCode, latency), nil)
	}
	return nil
}

type validateResponse struct {
	Valid    bool   `json:"valid"`
	UserName string `json:"user_name"`
}

// ValidateToken checks a user token against ListenBrainz and returns the
// account name it belongs to.
func (c *Client) ValidateToken(ctx context.Context, token string) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", services.Wrap(services.ErrValidation, "listenbrainz", "validate-token", "token must not be empty", nil)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/1/validate-token", nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Token "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", services.Wrap(services.ErrTransient, "listenbrainz", "validate-token", "execute request", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		marker := services.MarkerForStatus(resp.StatusCode)
		return "", services.Wrap(marker, "listenbrainz", "validate-token", fmt.Sprintf("returned %d", resp.StatusCode), nil)
	}
	var payload validateResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", services.Wrap(services.ErrTransient, "listenbrainz", "validate-token", "decode response", err)
	}
	if !payload.Valid {
		return "", services.Wrap(services.ErrUnauthorized, "listenbrainz", "validate-token", "token rejected", nil)
	}
	return payload.UserName, nil
}

type listensResponse struct {
	Payload struct {
		Listens []struct {
			ListenedAt    int64 `json:"listened_at"`
			TrackMetadata struct {
				ArtistName string `json:"artist_name"`
				TrackName  string `json:"track_name"`
			} `json:"track_metadata"`
		} `json:"listens"`
	} `json:"payload"`
}

// Listens fetches a user's recent listening history. An empty user falls
// back to the configured username.
func (c *Client) Listens(ctx context.Context, user string, count int) ([]catalog.Listen, error) {
	user = strings.TrimSpace(user)
	if user == "" {
		user = c.username
	}
	if user == "" {
		return nil, services.Wrap(services.ErrConfiguration, "listenbrainz", "listens", "username not configured", nil)
	}
	if count <= 0 {
		count = 25
	}
	target := c.baseURL + "/1/user/" + url.PathEscape(user) + "/listens?count=" + strconv.Itoa(count)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if token := c.currentToken(); token != "" {
		req.Header.Set("Authorization", "Token "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "listenbrainz", "listens", "execute request", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		marker := services.MarkerForStatus(resp.StatusCode)
		return nil, services.Wrap(marker, "listenbrainz", "listens", fmt.Sprintf("returned %d", resp.StatusCode), nil)
	}
	var payload listensResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, services.Wrap(services.ErrTransient, "listenbrainz", "listens", "decode response", err)
	}
	listens := make([]catalog.Listen, 0, len(payload.Payload.Listens))
	for _, l := range payload.Payload.Listens {
		listens = append(listens, catalog.Listen{
			TrackName:  l.TrackMetadata.TrackName,
			ArtistName: l.TrackMetadata.ArtistName,
			ListenedAt: l.ListenedAt,
			Source:     catalog.SourceListenBrainz,
		})
	}
	return listens, nil
}

type recommendationsResponse struct {
	Payload struct {
		MBIDs []struct {
			RecordingMBID string `json:"recording_mbid"`
		} `json:"mbids"`
	} `json:"payload"`
}

// Recommendations fetches collaborative-filtering recording MBIDs, capped
// at 15. An empty user falls back to the configured username.
func (c *Client) Recommendations(ctx context.Context, user string, count int) ([]string, error) {
	user = strings.TrimSpace(user)
	if user == "" {
		user = c.username
	}
	if user == "" {
		return nil, services.Wrap(services.ErrConfiguration, "listenbrainz", "recommendations", "username not configured", nil)
	}
	if count <= 0 || count > maxRecommendations {
		count = maxRecommendations
	}
	target := c.baseURL + "/1/cf/recommendation/recording/" + url.PathEscape(user)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if token := c.currentToken(); token != "" {
		req.Header.Set("Authorization", "Token "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "listenbrainz", "recommendations", "execute request", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		marker := services.MarkerForStatus(resp.StatusCode)
		return nil, services.Wrap(marker, "listenbrainz", "recommendations", fmt.Sprintf("returned %d", resp.StatusCode), nil)
	}
	var payload recommendationsResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, services.Wrap(services.ErrTransient, "listenbrainz", "recommendations", "decode response", err)
	}
	mbids := make([]string, 0, len(payload.Payload.MBIDs))
	for _, entry := range payload.Payload.MBIDs {
		if entry.RecordingMBID == "" {
			continue
		}
		mbids = append(mbids, entry.RecordingMBID)
		if len(mbids) == count {
			break
		}
	}
	return mbids, nil
}
