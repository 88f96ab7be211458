package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"freedify/internal/logging"
)

// Kind selects which entity types a search covers.
type Kind string

const (
	KindAll     Kind = "all"
	KindTrack   Kind = "track"
	KindAlbum   Kind = "album"
	KindArtist  Kind = "artist"
	KindSetlist Kind = "setlist"
)

// ParseKind converts a query parameter into a known search kind.
func ParseKind(value string) (Kind, bool) {
	switch Kind(strings.ToLower(strings.TrimSpace(value))) {
	case "", KindAll:
		return KindAll, true
	case KindTrack:
		return KindTrack, true
	case KindAlbum:
		return KindAlbum, true
	case KindArtist:
		return KindArtist, true
	case KindSetlist:
		return KindSetlist, true
	default:
		return "", false
	}
}

// Provider supplies tracks, albums, and artists from the music catalog.
type Provider interface {
	SearchTracks(ctx context.Context, query string, limit, offset int) ([]Track, error)
	SearchAlbums(ctx context.Context, query string, limit, offset int) ([]Album, error)
	SearchArtists(ctx context.Context, query string, limit, offset int) ([]Artist, error)
	Track(ctx context.Context, id string) (*Track, error)
	Album(ctx context.Context, id string) (*Album, error)
	Artist(ctx context.Context, id string) (*Artist, error)
	StreamURL(ctx context.Context, id string, preferLossless bool) (string, error)
}

// SetlistProvider supplies concert setlists.
type SetlistProvider interface {
	SearchSetlists(ctx context.Context, query string, page int) ([]Setlist, error)
	Setlist(ctx context.Context, id string) (*SetlistDetail, error)
}

// Enricher resolves MusicBrainz metadata for a recording by ISRC.
type Enricher interface {
	LookupISRC(ctx context.Context, isrc string) (*Enrichment, error)
}

// EnrichmentCache stores enrichment results between lookups.
type EnrichmentCache interface {
	Enrichment(ctx context.Context, isrc string) (*Enrichment, bool, error)
	PutEnrichment(ctx context.Context, isrc string, enrichment *Enrichment) error
}

// Results carries one search response across entity types.
type Results struct {
	Tracks   []Track   `json:"tracks,omitempty"`
	Albums   []Album   `json:"albums,omitempty"`
	Artists  []Artist  `json:"artists,omitempty"`
	Setlists []Setlist `json:"setlists,omitempty"`
}

// ErrNotFound indicates the requested catalog entity does not exist upstream.
var ErrNotFound = errors.New("catalog entity not found")

// Service aggregates the upstream catalogs behind a single search surface.
type Service struct {
	provider Provider
	setlists SetlistProvider
	enricher Enricher
	cache    EnrichmentCache
	logger   *slog.Logger
}

// NewService builds the catalog aggregation service. The setlist provider,
// enricher, and cache are optional; missing pieces degrade to empty results
// and unenriched tracks.
func NewService(provider Provider, setlists SetlistProvider, enricher Enricher, cache EnrichmentCache, logger *slog.Logger) (*Service, error) {
	if provider == nil {
		return nil, errors.New("catalog service requires a track provider")
	}
	return &Service{
		provider: provider,
		setlists: setlists,
		enricher: enricher,
		cache:    cache,
		logger:   logging.NewComponentLogger(logger, "catalog"),
	}, nil
}

// Search runs a query against the catalogs selected by kind.
func (s *Service) Search(ctx context.Context, query string, kind Kind, limit, offset int) (*Results, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("search query must not be empty")
	}
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	results := &Results{}
	switch kind {
	case KindTrack:
		tracks, err := s.provider.SearchTracks(ctx, query, limit, offset)
		if err != nil {
			return nil, fmt.Errorf("search tracks: %w", err)
		}
		results.Tracks = tracks
	case KindAlbum:
		albums, err := s.provider.SearchAlbums(ctx, query, limit, offset)
		if err != nil {
			return nil, fmt.Errorf("search albums: %w", err)
		}
		results.Albums = albums
	case KindArtist:
		artists, err := s.provider.SearchArtists(ctx, query, limit, offset)
		if err != nil {
			return nil, fmt.Errorf("search artists: %w", err)
		}
		results.Artists = artists
	case KindSetlist:
		results.Setlists = s.searchSetlists(ctx, query)
	case KindAll, "":
		tracks, err := s.provider.SearchTracks(ctx, query, limit, offset)
		if err != nil {
			return nil, fmt.Errorf("search tracks: %w", err)
		}
		results.Tracks = tracks

		// Album, artist, and setlist legs are best-effort on combined
		// searches; a track response alone is still useful.
		if albums, err := s.provider.SearchAlbums(ctx, query, limit, offset); err == nil {
			results.Albums = albums
		} else {
			s.logger.Warn("album search failed", logging.String("query", query), logging.Error(err))
		}
		if artists, err := s.provider.SearchArtists(ctx, query, limit, offset); err == nil {
			results.Artists = artists
		} else {
			s.logger.Warn("artist search failed", logging.String("query", query), logging.Error(err))
		}
		results.Setlists = s.searchSetlists(ctx, query)
	default:
		return nil, fmt.Errorf("unknown search kind %q", kind)
	}
	return results, nil
}

func (s *Service) searchSetlists(ctx context.Context, query string) []Setlist {
	if s.setlists == nil {
		return nil
	}
	setlists, err := s.setlists.SearchSetlists(ctx, query, 1)
	if err != nil {
		s.logger.Warn("setlist search failed", logging.String("query", query), logging.Error(err))
		return nil
	}
	return setlists
}

// Track fetches a single track and attaches enrichment when available.
func (s *Service) Track(ctx context.Context, id string) (*Track, error) {
	track, err := s.provider.Track(ctx, id)
	if err != nil {
		return nil, err
	}
	if track == nil {
		return nil, ErrNotFound
	}
	if enrichment := s.enrich(ctx, track.ISRC); enrichment != nil {
		track.Enrichment = enrichment
	}
	return track, nil
}

// Album fetches a single album with its tracks.
func (s *Service) Album(ctx context.Context, id string) (*Album, error) {
	album, err := s.provider.Album(ctx, id)
	if err != nil {
		return nil, err
	}
	if album == nil {
		return nil, ErrNotFound
	}
	return album, nil
}

// Artist fetches a single artist with top tracks.
func (s *Service) Artist(ctx context.Context, id string) (*Artist, error) {
	artist, err := s.provider.Artist(ctx, id)
	if err != nil {
		return nil, err
	}
	if artist == nil {
		return nil, ErrNotFound
	}
	return artist, nil
}

// StreamURL resolves the upstream audio URL for a track.
func (s *Service) StreamURL(ctx context.Context, id string, preferLossless bool) (string, error) {
	url, err := s.provider.StreamURL(ctx, id, preferLossless)
	if err != nil {
		return "", err
	}
	if url == "" {
		return "", ErrNotFound
	}
	return url, nil
}

// SearchSetlists exposes setlist search for the dedicated API endpoint.
func (s *Service) SearchSetlists(ctx context.Context, query string, page int) ([]Setlist, error) {
	if s.setlists == nil {
		return nil, nil
	}
	if page <= 0 {
		page = 1
	}
	return s.setlists.SearchSetlists(ctx, query, page)
}

// Setlist fetches one full setlist.
func (s *Service) Setlist(ctx context.Context, id string) (*SetlistDetail, error) {
	if s.setlists == nil {
		return nil, ErrNotFound
	}
	detail, err := s.setlists.Setlist(ctx, id)
	if err != nil {
		return nil, err
	}
	if detail == nil {
		return nil, ErrNotFound
	}
	return detail, nil
}

// enrich resolves MusicBrainz metadata for real ISRCs, consulting the cache
// first. Failures are logged and swallowed; enrichment never blocks a track.
func (s *Service) enrich(ctx context.Context, isrc string) *Enrichment {
	if s.enricher == nil || !IsRealISRC(isrc) {
		return nil
	}
	if s.cache != nil {
		if cached, ok, err := s.cache.Enrichment(ctx, isrc); err == nil && ok {
			return cached
		} else if err != nil {
			s.logger.Warn("enrichment cache read failed", logging.String("isrc", isrc), logging.Error(err))
		}
	}
	enrichment, err := s.enricher.LookupISRC(ctx, isrc)
	if err != nil {
		s.logger.Debug("enrichment lookup failed", logging.String("isrc", isrc), logging.Error(err))
		return nil
	}
	if enrichment == nil {
		return nil
	}
	if s.cache != nil {
		if err := s.cache.PutEnrichment(ctx, isrc, enrichment); err != nil {
			s.logger.Warn("enrichment cache write failed", logging.String("isrc", isrc), logging.Error(err))
		}
	}
	return enrichment
}
