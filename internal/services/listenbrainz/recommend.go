package listenbrainz

import (
	"context"
	"log/slog"

	"freedify/internal/catalog"
	"freedify/internal/logging"
	"freedify/internal/services/musicbrainz"
)

// ResolveRecommendations expands recommendation MBIDs into displayable
// tracks via MusicBrainz. Unresolvable entries are logged and skipped so one
// stale MBID never empties the list.
func ResolveRecommendations(ctx context.Context, mbids []string, lookuper musicbrainz.Lookuper, logger *slog.Logger) []catalog.Track {
	logger = logging.NewComponentLogger(logger, "recommendations")
	tracks := make([]catalog.Track, 0, len(mbids))
	for _, mbid := range mbids {
		rec, err := lookuper.LookupRecording(ctx, mbid)
		if err != nil {
			logger.Debug("recording lookup failed", logging.String("mbid", mbid), logging.Error(err))
			continue
		}
		if rec == nil {
			continue
		}
		tracks = append(tracks, catalog.Track{
			ID:          rec.MBID,
			Name:        rec.Title,
			Artist:      rec.Artist,
			Album:       rec.Release,
			ReleaseDate: rec.ReleaseDate,
			DurationMS:  rec.DurationMS,
			Source:      catalog.SourceListenBrainz,
		})
	}
	return tracks
}
