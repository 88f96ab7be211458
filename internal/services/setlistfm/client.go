package setlistfm

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

const maxSearchResults = 20

// Client provides access to the Setlist.fm REST API.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	now        func() time.Time
}

var _ catalog.SetlistProvider = (*Client)(nil)

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

// WithClock overrides the time source used when a query names a month and
// day without a year.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
	}
}

// New creates a Setlist.fm client.
func New(apiKey, baseURL string, opts ...Option) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("setlist.fm api key required")
	}
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("setlist.fm base url required")
	}
	client := &Client{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// get performs one GET against the API. A false return with nil error means
// the endpoint answered 404, which Setlist.fm uses for empty result sets.
func (c *Client) get(ctx context.Context, path string, params url.Values, out any) (bool, error) {
	target, err := url.Parse(c.baseURL + path)
	if err != nil {
		return false, fmt.Errorf("parse setlist.fm url: %w", err)
	}
	if len(params) > 0 {
		target.RawQuery = params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return false, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("Accept", "application/json")

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return false, services.Wrap(services.ErrTransient, "setlistfm", path, fmt.Sprintf("execute request (latency=%v)", latency), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return false, nil
	}
	if resp.StatusCode != http.StatusOK {
		marker := services.MarkerForStatus(resp.StatusCode)
		return false, services.Wrap(marker, "setlistfm", path, fmt.Sprintf("returned %d (latency=%v)", resp.StatusCode, latency), nil)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return false, services.Wrap(services.ErrTransient, "setlistfm", path, "decode response", err)
	}
	return true, nil
}

// SearchSetlists searches concerts by free-text query. Date expressions in
// the query become structured filters; a 404 from the API is an empty page.
func (c *Client) SearchSetlists(ctx context.Context, query string, page int) ([]catalog.Setlist, error) {
	parts := splitQuery(query, c.now())
	if parts.Artist == "" && parts.Date == "" && parts.Year == "" {
		return nil, services.Wrap(services.ErrValidation, "setlistfm", "search/setlists", "query must not be empty", nil)
	}
	if page <= 0 {
		page = 1
	}
	params := url.Values{}
	if parts.Artist != "" {
		params.Set("artistName", parts.Artist)
	}
	if parts.Date != "" {
		params.Set("date", parts.Date)
	} else if parts.Year != "" {
		params.Set("year", parts.Year)
	}
	params.Set("p", strconv.Itoa(page))

	var payload searchResponse
	found, err := c.get(ctx, "/search/setlists", params, &payload)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	setlists := make([]catalog.Setlist, 0, len(payload.Setlist))
	for _, p := range payload.Setlist {
		setlists = append(setlists, convertSummary(p))
		if len(setlists) == maxSearchResults {
			break
		}
	}
	return setlists, nil
}

// Setlist fetches one full setlist by its namespaced identifier. A nil
// detail means the show is unknown.
func (c *Client) Setlist(ctx context.Context, id string) (*catalog.SetlistDetail, error) {
	raw := catalog.RawSetlistID(id)
	if raw == "" {
		return nil, services.Wrap(services.ErrValidation, "setlistfm", "setlist", "setlist id must not be empty", nil)
	}
	var payload setlistPayload
	found, err := c.get(ctx, "/setlist/"+url.PathEscape(raw), nil, &payload)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	detail := convertDetail(payload)
	return &detail, nil
}
