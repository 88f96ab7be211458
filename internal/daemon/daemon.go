package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/gofrs/flock"

	"freedify/internal/catalog"
	"freedify/internal/config"
	"freedify/internal/deps"
	"freedify/internal/logging"
	"freedify/internal/scrobble"
	"freedify/internal/services/listenbrainz"
	"freedify/internal/services/musicbrainz"
	"freedify/internal/store"
	"freedify/internal/transcode"
)

// Daemon owns the background services and enforces single-instance execution.
type Daemon struct {
	cfg      *config.Config
	logger   *slog.Logger
	store    *store.Store
	catalog  *catalog.Service
	listens  listenbrainz.Submitter
	lookuper musicbrainz.Lookuper
	streamer *transcode.Service
	worker   *scrobble.Worker

	lockPath string
	lock     *flock.Flock

	api *apiServer

	running atomic.Bool
	cancel  context.CancelFunc
}

// Options collects the services the daemon coordinates. Catalog and store
// are required; the rest degrade gracefully when absent.
type Options struct {
	Config   *config.Config
	Logger   *slog.Logger
	Store    *store.Store
	Catalog  *catalog.Service
	Listens  listenbrainz.Submitter
	Lookuper musicbrainz.Lookuper
	Streamer *transcode.Service
	Worker   *scrobble.Worker
}

// Status represents daemon runtime information.
type Status struct {
	Running      bool
	PID          int
	DatabasePath string
	LockFilePath string
	Dependencies []deps.Status
	Journal      store.JournalSummary
	Cache        transcode.CacheStats
}

// New constructs a daemon with initialized dependencies.
func New(opts Options) (*Daemon, error) {
	if opts.Config == nil || opts.Store == nil || opts.Catalog == nil {
		return nil, errors.New("daemon requires config, store, and catalog service")
	}

	lockPath := filepath.Join(opts.Config.Paths.DataDir, "freedifyd.lock")
	return &Daemon{
		cfg:      opts.Config,
		logger:   logging.NewComponentLogger(opts.Logger, "daemon"),
		store:    opts.Store,
		catalog:  opts.Catalog,
		listens:  opts.Listens,
		lookuper: opts.Lookuper,
		streamer: opts.Streamer,
		worker:   opts.Worker,
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}, nil
}

// Start acquires the daemon lock, launches the scrobble worker, and begins
// serving the HTTP API.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another freedify daemon instance is already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	if d.worker != nil {
		go d.worker.Run(runCtx)
	}

	server, err := newAPIServer(d.cfg, d, d.logger)
	if err != nil {
		d.releaseLock()
		cancel()
		d.cancel = nil
		return err
	}
	d.api = server
	if err := d.api.start(runCtx); err != nil {
		d.releaseLock()
		cancel()
		d.cancel = nil
		return err
	}

	d.running.Store(true)
	d.logger.Info("freedify daemon started", logging.String("lock", d.lockPath))
	return nil
}

// Stop halts background processing and releases the daemon lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	if d.api != nil {
		d.api.stop()
		d.api = nil
	}
	d.releaseLock()
	d.running.Store(false)
	d.logger.Info("freedify daemon stopped")
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	if d.store != nil {
		return d.store.Close()
	}
	return nil
}

// Addr returns the bound API address, or empty before Start.
func (d *Daemon) Addr() string {
	if d.api == nil {
		return ""
	}
	return d.api.addr()
}

func (d *Daemon) releaseLock() {
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
}

// Status returns the current daemon status.
func (d *Daemon) Status(ctx context.Context) Status {
	status := Status{
		Running:      d.running.Load(),
		PID:          os.Getpid(),
		DatabasePath: d.store.Path(),
		LockFilePath: d.lockPath,
		Dependencies: deps.CheckBinaries(deps.Requirements(d.cfg)),
	}
	summary, err := d.store.Summary(ctx)
	if err != nil {
		d.logger.Warn("journal summary unavailable", logging.Error(err))
	} else {
		status.Journal = summary
	}
	if d.streamer != nil {
		status.Cache = d.streamer.CacheStats()
	}
	return status
}
