package daemon

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"

	"github.com/simoneroux/magicbox/internal/config"
	"github.com/simoneroux/magicbox/internal/dispatch"
	"github.com/simoneroux/magicbox/internal/feedback"
	"github.com/simoneroux/magicbox/internal/logging"
	"github.com/simoneroux/magicbox/internal/reader"
	"github.com/simoneroux/magicbox/internal/services"
)

// teardownStepTimeout bounds each shutdown step so a wedged external
// process cannot hang the exit path.
const teardownStepTimeout = 5 * time.Second

// goodbyeCueWait is how long shutdown lingers so the farewell tone is
// audible before the process exits.
const goodbyeCueWait = time.Second

// Options bundles the collaborators the daemon coordinates. Room is the
// speaker endpoint named on the command line; it never changes during a
// run.
type Options struct {
	Config     *config.Config
	Room       string
	Reader     reader.Reader
	Dispatcher *dispatch.Dispatcher
	Signaler   feedback.Signaler
	Reporter   *feedback.Reporter
	Logger     *slog.Logger
}

// Daemon owns the long-running pieces of the box: the single-instance
// lock, the tag listener loop, the observational reader watcher, and the
// shutdown teardown sequence.
type Daemon struct {
	cfg        *config.Config
	room       string
	logger     *slog.Logger
	reader     reader.Reader
	dispatcher *dispatch.Dispatcher
	signaler   feedback.Signaler
	reporter   *feedback.Reporter

	lockPath string
	lock     *flock.Flock

	listener *listener
	watcher  *readerWatcher

	running atomic.Bool
	cancel  context.CancelFunc
}

// Status reports daemon runtime information.
type Status struct {
	Running      bool
	Room         string
	LockFilePath string
}

// New constructs a daemon with initialized dependencies.
func New(opts Options) (*Daemon, error) {
	if opts.Config == nil || opts.Reader == nil || opts.Dispatcher == nil {
		return nil, services.Wrap(services.ErrValidation, "daemon", "new", "config, reader, and dispatcher required", nil)
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	signaler := opts.Signaler
	if signaler == nil {
		signaler = feedback.NewSignaler(nil, nil)
	}

	lockPath := filepath.Join(opts.Config.Logging.Dir, "magicboxd.lock")
	d := &Daemon{
		cfg:        opts.Config,
		room:       opts.Room,
		logger:     logging.NewComponentLogger(logger, "daemon"),
		reader:     opts.Reader,
		dispatcher: opts.Dispatcher,
		signaler:   signaler,
		reporter:   opts.Reporter,
		lockPath:   lockPath,
		lock:       flock.New(lockPath),
	}
	d.listener = newListener(opts.Reader, opts.Dispatcher, logger,
		time.Duration(opts.Config.Reader.RetryBackoff)*time.Second)
	d.watcher = newReaderWatcher(opts.Config, logger)
	return d, nil
}

// Start acquires the single-instance lock and launches the listener loop
// and the reader watcher.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return services.Wrap(services.ErrValidation, "daemon", "start", "already running", nil)
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return services.Wrap(services.ErrConfiguration, "daemon", "start", "acquire lock", err)
	}
	if !ok {
		return services.Wrap(services.ErrConfiguration, "daemon", "start",
			"another magicbox instance is already running", nil)
	}

	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	d.watcher.Start(runCtx)
	d.listener.Start(runCtx)

	d.running.Store(true)
	d.logger.Info("magicbox daemon started",
		logging.String(logging.FieldRoom, d.room),
		logging.String("lock", d.lockPath))
	return nil
}

// Stop winds the box down: no new scans, best-effort playback teardown,
// reader release, farewell cue. Every step logs and continues on failure;
// shutdown always completes.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	if d.reporter != nil {
		d.reporter.Goodbye()
	}

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.listener.Stop()
	d.watcher.Stop()

	d.dispatcher.Teardown(teardownStepTimeout)

	if err := d.reader.Close(); err != nil {
		d.logger.Warn("reader close failed", logging.Error(err))
	}

	d.signaler.EmitAndWait(feedback.KindInfo, goodbyeCueWait)

	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.running.Store(false)
	d.logger.Info("magicbox daemon stopped")
}

// Status returns the current daemon status.
func (d *Daemon) Status() Status {
	return Status{
		Running:      d.running.Load(),
		Room:         d.room,
		LockFilePath: d.lockPath,
	}
}
