package scrobble

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"freedify/internal/logging"
	"freedify/internal/services"
	"freedify/internal/services/listenbrainz"
	"freedify/internal/store"
)

const flushBatchSize = 50

// Worker flushes pending scrobbles from the journal to ListenBrainz.
type Worker struct {
	store       *store.Store
	submitter   listenbrainz.Submitter
	interval    time.Duration
	maxAttempts int
	logger      *slog.Logger
}

// NewWorker builds a scrobble worker.
func NewWorker(st *store.Store, submitter listenbrainz.Submitter, interval time.Duration, maxAttempts int, logger *slog.Logger) (*Worker, error) {
	if st == nil {
		return nil, errors.New("scrobble worker requires a store")
	}
	if submitter == nil {
		return nil, errors.New("scrobble worker requires a submitter")
	}
	if interval <= 0 {
		interval = 30 * time.Second
	}
	if maxAttempts <= 0 {
		maxAttempts = 5
	}
	return &Worker{
		store:       st,
		submitter:   submitter,
		interval:    interval,
		maxAttempts: maxAttempts,
		logger:      logging.NewComponentLogger(logger, "scrobble"),
	}, nil
}

// Run flushes the journal on an interval until the context is cancelled.
// One flush runs immediately so restarts drain the backlog without waiting a
// full interval.
func (w *Worker) Run(ctx context.Context) {
	w.logger.Info("scrobble worker started", logging.Duration("interval", w.interval))
	w.Flush(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("scrobble worker stopped")
			return
		case <-ticker.C:
			w.Flush(ctx)
		}
	}
}

// Flush submits pending scrobbles once. Failures are recorded against each
// scrobble's attempt budget; a missing token skips the whole flush without
// consuming attempts.
func (w *Worker) Flush(ctx context.Context) {
	pending, err := w.store.PendingScrobbles(ctx, flushBatchSize)
	if err != nil {
		w.logger.Error("load pending scrobbles", logging.Error(err))
		return
	}
	if len(pending) == 0 {
		return
	}

	submitted := 0
	for _, scrobble := range pending {
		if ctx.Err() != nil {
			return
		}
		err := w.submitter.SubmitListen(ctx, listenbrainz.Submission{
			TrackName:   scrobble.TrackName,
			ArtistName:  scrobble.ArtistName,
			DurationMS:  scrobble.DurationMS,
			ReleaseName: scrobble.AlbumName,
			ISRC:        scrobble.ISRC,
			TrackNumber: scrobble.TrackNumber,
			ListenedAt:  scrobble.ListenedAt,
		})
		if err != nil {
			if errors.Is(err, services.ErrConfiguration) {
				w.logger.Debug("scrobbling disabled, token not configured")
				return
			}
			w.logger.Warn("listen submission failed",
				logging.String("scrobble_id", scrobble.ID),
				logging.String(logging.FieldTrackID, scrobble.TrackID),
				logging.Int("attempts", scrobble.Attempts+1),
				logging.Error(err))
			if markErr := w.store.MarkFailed(ctx, scrobble.ID, err.Error(), w.maxAttempts); markErr != nil {
				w.logger.Error("record submission failure", logging.Error(markErr))
			}
			continue
		}
		if err := w.store.MarkSubmitted(ctx, scrobble.ID); err != nil {
			w.logger.Error("record submission", logging.Error(err))
			continue
		}
		submitted++
	}
	if submitted > 0 {
		w.logger.Info("flushed scrobbles", logging.Int("submitted", submitted), logging.Int("pending", len(pending)-submitted))
	}
}
