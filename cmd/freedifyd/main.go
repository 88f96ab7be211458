package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"freedify/internal/config"
	"freedify/internal/deps"
	"freedify/internal/logging"
	"freedify/internal/store"
)

func main() {
	configPath := flag.String("config", "", "path to the configuration file")
	logLevel := flag.String("log-level", "", "override the configured log level")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, _, _, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		log.Fatalf("prepare directories: %v", err)
	}

	level := cfg.Logging.Level
	if *logLevel != "" {
		level = *logLevel
	}
	logPath := filepath.Join(cfg.Paths.LogDir, "freedifyd.log")
	logger, err := logging.New(logging.Options{
		Level:            level,
		Format:           cfg.Logging.Format,
		OutputPaths:      []string{"stdout", logPath},
		ErrorOutputPaths: []string{"stderr", logPath},
	})
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	logging.CleanupOldLogs(logger, cfg.Logging.RetentionDays,
		logging.RetentionTarget{Dir: cfg.Paths.LogDir, Pattern: "freedifyd*.log", Exclude: []string{logPath}})

	statuses := deps.CheckBinaries(deps.Requirements(cfg))
	for _, missing := range deps.MissingRequired(statuses) {
		logger.Warn("required dependency unavailable", logging.String("dependency", missing))
	}

	st, err := store.Open(cfg)
	if err != nil {
		logger.Error("open store", logging.Error(err))
		os.Exit(1)
	}

	d, err := buildDaemon(cfg, st, logger)
	if err != nil {
		logger.Error("create daemon", logging.Error(err))
		_ = st.Close()
		os.Exit(1)
	}
	defer d.Close()

	if err := d.Start(ctx); err != nil {
		logger.Error("start daemon", logging.Error(err))
		os.Exit(1)
	}

	go pruneEnrichment(ctx, cfg, st, logger)

	<-ctx.Done()
	logger.Info("freedifyd shutting down")
}

// pruneEnrichment trims expired MusicBrainz cache rows once a day.
func pruneEnrichment(ctx context.Context, cfg *config.Config, st *store.Store, logger *slog.Logger) {
	ttl := time.Duration(cfg.MusicBrainz.CacheTTLDays) * 24 * time.Hour
	if ttl <= 0 {
		return
	}
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := st.PruneEnrichment(ctx, time.Now().Add(-ttl))
			if err != nil {
				logger.Warn("enrichment prune failed", logging.Error(err))
				continue
			}
			if removed > 0 {
				logger.Debug("enrichment cache pruned", logging.Int64("removed", removed))
			}
		}
	}
}
