package daemon

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/simoneroux/magicbox/internal/dispatch"
	"github.com/simoneroux/magicbox/internal/logging"
	"github.com/simoneroux/magicbox/internal/reader"
	"github.com/simoneroux/magicbox/internal/services"
)

// listener is the box's scan loop: block on the reader, stamp the scan
// with a correlation ID, hand it to the dispatcher, repeat. Reader faults
// never kill the loop; they are logged and retried after a fixed backoff.
type listener struct {
	reader     reader.Reader
	dispatcher *dispatch.Dispatcher
	logger     *slog.Logger
	backoff    time.Duration

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

func newListener(rdr reader.Reader, dispatcher *dispatch.Dispatcher, logger *slog.Logger, backoff time.Duration) *listener {
	if backoff <= 0 {
		backoff = time.Second
	}
	return &listener{
		reader:     rdr,
		dispatcher: dispatcher,
		logger:     logging.NewComponentLogger(logger, "listener"),
		backoff:    backoff,
	}
}

func (l *listener) Start(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.running {
		return
	}
	runCtx, cancel := context.WithCancel(ctx)
	l.cancel = cancel
	l.running = true
	l.wg.Add(1)
	go l.loop(runCtx)
}

// Stop cancels the loop and waits for any in-flight dispatch to finish,
// so teardown never races a live intent.
func (l *listener) Stop() {
	l.mu.Lock()
	if !l.running {
		l.mu.Unlock()
		return
	}
	cancel := l.cancel
	l.running = false
	l.cancel = nil
	l.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	l.wg.Wait()
}

func (l *listener) loop(ctx context.Context) {
	defer l.wg.Done()

	for {
		if ctx.Err() != nil {
			return
		}
		payload, err := l.reader.WaitForTag(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return
			}
			l.logger.Error("tag wait failed",
				logging.Error(err),
				logging.String(logging.FieldEventType, "reader_fault"),
				logging.String(logging.FieldErrorHint, "check the reader's serial connection"))
			if err := sleepListener(ctx, l.backoff); err != nil {
				return
			}
			continue
		}
		if payload == nil {
			continue
		}

		scanCtx := services.WithScanID(ctx, uuid.NewString())
		scanCtx = services.WithTagUID(scanCtx, payload.UID)
		log := logging.WithContext(scanCtx, l.logger)
		log.Info("tag detected",
			logging.String(logging.FieldEventType, "tag_detected"),
			logging.Bool("ndef", payload.HasNDEF),
			logging.Int("records", len(payload.Records)))

		l.dispatcher.Dispatch(scanCtx, payload)
	}
}

func sleepListener(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
