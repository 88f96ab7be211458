package transcode

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"freedify/internal/logging"
)

// Service streams renditions to clients, consulting the cache before
// running ffmpeg and filling it afterwards.
type Service struct {
	transcoder *Transcoder
	cache      *Cache
	logger     *slog.Logger
}

// NewService builds the streaming service. A nil cache disables caching.
func NewService(transcoder *Transcoder, cache *Cache, logger *slog.Logger) *Service {
	return &Service{
		transcoder: transcoder,
		cache:      cache,
		logger:     logging.NewComponentLogger(logger, "transcode"),
	}
}

// CacheStats reports cache occupancy, or zeros when caching is disabled.
func (s *Service) CacheStats() CacheStats {
	if s.cache == nil {
		return CacheStats{}
	}
	return s.cache.Stats()
}

// Stream writes the requested rendition of source to out. Cached renditions
// are served from disk; fresh transcodes are teed into the cache while they
// stream. Returns whether the bytes came from the cache.
func (s *Service) Stream(ctx context.Context, trackID, source string, opts Options, out io.Writer) (bool, error) {
	if _, err := opts.validate(); err != nil {
		return false, err
	}

	if s.cache != nil {
		key := Key(trackID, opts)
		if path, ok := s.cache.Get(key); ok {
			file, err := os.Open(path)
			if err == nil {
				defer file.Close()
				if _, err := io.Copy(out, file); err != nil {
					return true, fmt.Errorf("serve cached rendition: %w", err)
				}
				s.logger.Debug("served from cache",
					logging.String(logging.FieldTrackID, trackID),
					logging.String("format", opts.Format))
				return true, nil
			}
		}

		entry, err := s.cache.Create(key)
		if err != nil {
			s.logger.Warn("cache unavailable, streaming without it", logging.Error(err))
			return false, s.transcoder.Transcode(ctx, source, opts, out)
		}
		if err := s.transcoder.Transcode(ctx, source, opts, io.MultiWriter(out, entry)); err != nil {
			entry.Abort()
			return false, err
		}
		if _, err := entry.Commit(); err != nil {
			s.logger.Warn("cache commit failed", logging.Error(err))
		}
		return false, nil
	}

	return false, s.transcoder.Transcode(ctx, source, opts, out)
}
