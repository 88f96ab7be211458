package main

import (
	"log/slog"
	"strings"
	"time"

	"freedify/internal/catalog"
	"freedify/internal/config"
	"freedify/internal/daemon"
	"freedify/internal/logging"
	"freedify/internal/scrobble"
	"freedify/internal/services/jamendo"
	"freedify/internal/services/listenbrainz"
	"freedify/internal/services/musicbrainz"
	"freedify/internal/services/setlistfm"
	"freedify/internal/store"
	"freedify/internal/transcode"
)

// buildDaemon wires the upstream clients, catalog service, scrobble worker,
// and transcoding pipeline from configuration. Optional services that lack
// credentials are left out; their API surfaces degrade gracefully.
func buildDaemon(cfg *config.Config, st *store.Store, logger *slog.Logger) (*daemon.Daemon, error) {
	provider, err := jamendo.New(cfg.Jamendo.ClientID, cfg.Jamendo.BaseURL, cfg.Jamendo.AudioFormat)
	if err != nil {
		return nil, err
	}

	var enricher catalog.Enricher
	var lookuper musicbrainz.Lookuper
	mb, err := musicbrainz.New(cfg.MusicBrainz.BaseURL, cfg.MusicBrainz.CoverArtURL, cfg.MusicBrainz.UserAgent)
	if err != nil {
		logger.Warn("musicbrainz disabled", logging.Error(err))
	} else {
		enricher = mb
		lookuper = mb
	}

	var setlists catalog.SetlistProvider
	if strings.TrimSpace(cfg.SetlistFM.APIKey) != "" {
		sl, err := setlistfm.New(cfg.SetlistFM.APIKey, cfg.SetlistFM.BaseURL)
		if err != nil {
			return nil, err
		}
		setlists = sl
	} else {
		logger.Info("setlist.fm api key not configured, concert search disabled")
	}

	catalogSvc, err := catalog.NewService(provider, setlists, enricher, st, logger)
	if err != nil {
		return nil, err
	}

	lb, err := listenbrainz.New(cfg.ListenBrainz.Token, cfg.ListenBrainz.Username, cfg.ListenBrainz.BaseURL)
	if err != nil {
		return nil, err
	}

	var worker *scrobble.Worker
	if strings.TrimSpace(cfg.ListenBrainz.Token) != "" {
		interval := time.Duration(cfg.Scrobble.FlushIntervalSeconds) * time.Second
		worker, err = scrobble.NewWorker(st, lb, interval, cfg.Scrobble.MaxAttempts, logger)
		if err != nil {
			return nil, err
		}
	} else {
		logger.Info("listenbrainz token not configured, journal flushing disabled")
	}

	var streamer *transcode.Service
	transcoder := transcode.NewTranscoder(cfg.FFmpegBinary())
	if cfg.Transcode.CacheEnabled {
		cache, err := transcode.NewCache(cfg.Paths.TranscodeCacheDir, float64(cfg.Transcode.CacheMaxGiB))
		if err != nil {
			return nil, err
		}
		streamer = transcode.NewService(transcoder, cache, logger)
	} else {
		streamer = transcode.NewService(transcoder, nil, logger)
	}

	return daemon.New(daemon.Options{
		Config:   cfg,
		Logger:   logger,
		Store:    st,
		Catalog:  catalogSvc,
		Listens:  lb,
		Lookuper: lookuper,
		Streamer: streamer,
		Worker:   worker,
	})
}
