package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"freedify/internal/catalog"
)

var _ catalog.EnrichmentCache = (*Store)(nil)

// Enrichment returns the cached MusicBrainz metadata for an ISRC. Entries
// older than the configured TTL are treated as absent.
func (s *Store) Enrichment(ctx context.Context, isrc string) (*catalog.Enrichment, bool, error) {
	var (
		payload    string
		fetchedRaw string
	)
	row := s.db.QueryRowContext(ctx, `SELECT payload, fetched_at FROM enrichment_cache WHERE isrc = ?`, isrc)
	if err := row.Scan(&payload, &fetchedRaw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("get enrichment: %w", err)
	}

	if s.enrichmentTTL > 0 {
		fetchedAt, err := time.Parse(time.RFC3339Nano, fetchedRaw)
		if err != nil || time.Since(fetchedAt) > s.enrichmentTTL {
			return nil, false, nil
		}
	}

	var enrichment catalog.Enrichment
	if err := json.Unmarshal([]byte(payload), &enrichment); err != nil {
		return nil, false, fmt.Errorf("decode enrichment payload: %w", err)
	}
	return &enrichment, true, nil
}

// PutEnrichment caches a MusicBrainz lookup result, replacing any previous
// entry for the ISRC.
func (s *Store) PutEnrichment(ctx context.Context, isrc string, enrichment *catalog.Enrichment) error {
	if isrc == "" || enrichment == nil {
		return errors.New("enrichment cache requires isrc and payload")
	}
	payload, err := json.Marshal(enrichment)
	if err != nil {
		return fmt.Errorf("encode enrichment payload: %w", err)
	}
	_, err = s.db.ExecContext(
		ctx,
		`INSERT INTO enrichment_cache (isrc, payload, fetched_at) VALUES (?, ?, ?)
         ON CONFLICT(isrc) DO UPDATE SET payload = excluded.payload, fetched_at = excluded.fetched_at`,
		isrc,
		string(payload),
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("put enrichment: %w", err)
	}
	return nil
}

// PruneEnrichment removes entries fetched before the cutoff.
func (s *Store) PruneEnrichment(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(
		ctx,
		`DELETE FROM enrichment_cache WHERE fetched_at < ?`,
		cutoff.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, fmt.Errorf("prune enrichment cache: %w", err)
	}
	return res.RowsAffected()
}

// EnrichmentCount reports the number of cached entries.
func (s *Store) EnrichmentCount(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM enrichment_cache`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count enrichment cache: %w", err)
	}
	return count, nil
}
