package remote

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Refresher periodically triggers a refresh of the asset resource.
//
// It owns no fetching logic; refresh is typically [asset.Facade.Refresh],
// which issues a dependent fetch for the current field1. The first tick
// happens one interval after Start, since the facade already fetches when it
// starts.
//
// All lifecycle methods (Start, Stop) are safe for concurrent use.
type Refresher struct {
	interval time.Duration
	refresh  func() bool
	logger   *slog.Logger

	mu      sync.Mutex
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	started bool
	stopped bool
}

// NewRefresher creates a [Refresher] calling refresh every interval.
func NewRefresher(interval time.Duration, refresh func() bool, logger *slog.Logger) *Refresher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Refresher{
		interval: interval,
		refresh:  refresh,
		logger:   logger,
	}
}

// Start begins the refresh loop in a background goroutine.
//
// Start is idempotent; subsequent calls after the first are no-ops. If Stop
// was called before Start, or the interval is not positive, Start is a no-op.
func (r *Refresher) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.started || r.stopped || r.interval <= 0 {
		return
	}
	r.started = true

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, r.cancel = context.WithCancel(ctx)

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()

		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if !r.refresh() {
					r.logger.Debug("periodic refresh skipped, facade not running")
				}
			}
		}
	}()
}

// Stop halts the loop and waits for it to exit. Stop is idempotent and safe
// to call before Start.
func (r *Refresher) Stop() {
	r.mu.Lock()
	if !r.stopped {
		r.stopped = true
		if r.cancel != nil {
			r.cancel()
		}
	}
	r.mu.Unlock()

	r.wg.Wait()
}
