package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"freedify/internal/config"
)

// Store manages scrobble and enrichment persistence backed by SQLite.
type Store struct {
	db            *sql.DB
	path          string
	enrichmentTTL time.Duration
}

// Open initializes or connects to the Freedify database.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := filepath.Join(cfg.Paths.DataDir, "freedify.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	ttl := time.Duration(cfg.MusicBrainz.CacheTTLDays) * 24 * time.Hour
	store := &Store{db: db, path: dbPath, enrichmentTTL: ttl}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

const scrobbleColumns = "id, track_id, track_name, artist_name, album_name, duration_ms, isrc, track_number, listened_at, status, attempts, last_error, created_at, updated_at"

// Enqueue journals a listen for later submission. The scrobble receives an
// identifier and a pending status; a zero ListenedAt defaults to now.
func (s *Store) Enqueue(ctx context.Context, scrobble Scrobble) (*Scrobble, error) {
	if scrobble.TrackName == "" || scrobble.ArtistName == "" {
		return nil, errors.New("scrobble requires track and artist names")
	}
	now := time.Now().UTC()
	scrobble.ID = uuid.NewString()
	scrobble.Status = StatusPending
	scrobble.Attempts = 0
	scrobble.CreatedAt = now
	scrobble.UpdatedAt = now
	if scrobble.ListenedAt == 0 {
		scrobble.ListenedAt = now.Unix()
	}

	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO scrobbles (`+scrobbleColumns+`)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		scrobble.ID,
		nullableString(scrobble.TrackID),
		scrobble.TrackName,
		scrobble.ArtistName,
		nullableString(scrobble.AlbumName),
		scrobble.DurationMS,
		nullableString(scrobble.ISRC),
		scrobble.TrackNumber,
		scrobble.ListenedAt,
		scrobble.Status,
		scrobble.Attempts,
		nullableString(scrobble.LastError),
		now.Format(time.RFC3339Nano),
		now.Format(time.RFC3339Nano),
	)
	if err != nil {
		return nil, fmt.Errorf("insert scrobble: %w", err)
	}
	return &scrobble, nil
}

// GetByID fetches a scrobble by identifier.
func (s *Store) GetByID(ctx context.Context, id string) (*Scrobble, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+scrobbleColumns+` FROM scrobbles WHERE id = ?`, id)
	scrobble, err := scanScrobble(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get scrobble: %w", err)
	}
	return scrobble, nil
}

// PendingScrobbles returns the oldest pending scrobbles up to limit.
func (s *Store) PendingScrobbles(ctx context.Context, limit int) ([]*Scrobble, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+scrobbleColumns+` FROM scrobbles WHERE status = ? ORDER BY created_at LIMIT ?`,
		StatusPending, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query pending scrobbles: %w", err)
	}
	defer rows.Close()

	var scrobbles []*Scrobble
	for rows.Next() {
		scrobble, err := scanScrobble(rows)
		if err != nil {
			return nil, err
		}
		scrobbles = append(scrobbles, scrobble)
	}
	return scrobbles, rows.Err()
}

// RecentScrobbles returns the newest journal entries across all statuses.
func (s *Store) RecentScrobbles(ctx context.Context, limit int) ([]*Scrobble, error) {
	if limit <= 0 {
		limit = 25
	}
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+scrobbleColumns+` FROM scrobbles ORDER BY listened_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query recent scrobbles: %w", err)
	}
	defer rows.Close()

	var scrobbles []*Scrobble
	for rows.Next() {
		scrobble, err := scanScrobble(rows)
		if err != nil {
			return nil, err
		}
		scrobbles = append(scrobbles, scrobble)
	}
	return scrobbles, rows.Err()
}

// MarkSubmitted records a successful delivery.
func (s *Store) MarkSubmitted(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(
		ctx,
		`UPDATE scrobbles SET status = ?, last_error = NULL, updated_at = ? WHERE id = ?`,
		StatusSubmitted,
		time.Now().UTC().Format(time.RFC3339Nano),
		id,
	)
	if err != nil {
		return fmt.Errorf("mark submitted: %w", err)
	}
	return nil
}

// MarkFailed records a delivery failure. The scrobble stays pending for
// another attempt until maxAttempts is reached, then moves to failed.
func (s *Store) MarkFailed(ctx context.Context, id, message string, maxAttempts int) error {
	if maxAttempts <= 0 {
		maxAttempts = 1
	}
	_, err := s.db.ExecContext(
		ctx,
		`UPDATE scrobbles
         SET attempts = attempts + 1,
             last_error = ?,
             status = CASE WHEN attempts + 1 >= ? THEN ? ELSE ? END,
             updated_at = ?
         WHERE id = ?`,
		nullableString(message),
		maxAttempts,
		StatusFailed,
		StatusPending,
		time.Now().UTC().Format(time.RFC3339Nano),
		id,
	)
	if err != nil {
		return fmt.Errorf("mark failed: %w", err)
	}
	return nil
}

// RetryFailed moves failed scrobbles back to pending with a fresh attempt
// budget.
func (s *Store) RetryFailed(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(
		ctx,
		`UPDATE scrobbles SET status = ?, attempts = 0, last_error = NULL, updated_at = ? WHERE status = ?`,
		StatusPending,
		time.Now().UTC().Format(time.RFC3339Nano),
		StatusFailed,
	)
	if err != nil {
		return 0, fmt.Errorf("retry failed scrobbles: %w", err)
	}
	return res.RowsAffected()
}

// ClearSubmitted removes delivered entries from the journal.
func (s *Store) ClearSubmitted(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM scrobbles WHERE status = ?`, StatusSubmitted)
	if err != nil {
		return 0, fmt.Errorf("clear submitted scrobbles: %w", err)
	}
	return res.RowsAffected()
}

// Stats returns a count of scrobbles grouped by status.
func (s *Store) Stats(ctx context.Context) (map[Status]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(1) FROM scrobbles GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("scrobble stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[Status]int)
	for rows.Next() {
		var status Status
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats[status] = count
	}
	return stats, rows.Err()
}

// Summary aggregates journal state for diagnostic output.
func (s *Store) Summary(ctx context.Context) (JournalSummary, error) {
	stats, err := s.Stats(ctx)
	if err != nil {
		return JournalSummary{}, err
	}
	summary := JournalSummary{}
	for status, count := range stats {
		summary.Total += count
		switch status {
		case StatusPending:
			summary.Pending += count
		case StatusSubmitted:
			summary.Submitted += count
		case StatusFailed:
			summary.Failed += count
		}
	}
	return summary, nil
}

func scanScrobble(scanner interface{ Scan(dest ...any) error }) (*Scrobble, error) {
	var (
		id          string
		trackID     sql.NullString
		trackName   string
		artistName  string
		albumName   sql.NullString
		durationMS  int64
		isrc        sql.NullString
		trackNumber int
		listenedAt  int64
		statusStr   string
		attempts    int
		lastError   sql.NullString
		createdRaw  string
		updatedRaw  string
	)

	if err := scanner.Scan(
		&id,
		&trackID,
		&trackName,
		&artistName,
		&albumName,
		&durationMS,
		&isrc,
		&trackNumber,
		&listenedAt,
		&statusStr,
		&attempts,
		&lastError,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}

	scrobble := &Scrobble{
		ID:          id,
		TrackID:     trackID.String,
		TrackName:   trackName,
		ArtistName:  artistName,
		AlbumName:   albumName.String,
		DurationMS:  durationMS,
		ISRC:        isrc.String,
		TrackNumber: trackNumber,
		ListenedAt:  listenedAt,
		Status:      Status(statusStr),
		Attempts:    attempts,
		LastError:   lastError.String,
	}
	if created, err := time.Parse(time.RFC3339Nano, createdRaw); err == nil {
		scrobble.CreatedAt = created
	}
	if updated, err := time.Parse(time.RFC3339Nano, updatedRaw); err == nil {
		scrobble.UpdatedAt = updated
	}
	return scrobble, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
