package asset

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/jpalmerr/assetboard/reactive"
)

// Facade maintains the asset snapshot, exposes deduplicated views over it and
// keeps field2 synchronized with the remote resource.
//
// The lifecycle is:
//
//	container := asset.NewContainer(asset.State{})
//	f := asset.New(container, fetcher, asset.WithURL(url))
//	f.Start(ctx) // attaches fetch-on-change; issues the first fetch
//	defer f.Close()
//
// Every change of field1, including the current value at [Facade.Start],
// issues a dependent fetch whose result replaces field2.
type Facade struct {
	container *Container
	fetcher   Fetcher
	url       string
	policy    OverlapPolicy
	logger    *slog.Logger

	field1   *reactive.Observable[*string]
	field2   *reactive.Observable[Items]
	combined *reactive.Observable[State]
	results  *reactive.Subject[FetchResult]

	issued  atomic.Uint64
	applied uint64 // guarded by the container subject's lock

	mu      sync.Mutex
	ctx     context.Context
	cancel  context.CancelFunc
	stage   *reactive.Subscription
	started bool
	closed  bool
	wg      sync.WaitGroup
}

// Option configures a [Facade].
type Option func(*Facade)

// WithURL sets the resource URL passed to the [Fetcher]. Defaults to "".
func WithURL(url string) Option {
	return func(f *Facade) {
		f.url = url
	}
}

// WithOverlapPolicy selects how overlapping fetches are reconciled.
// Defaults to [LastResolvedWins].
func WithOverlapPolicy(p OverlapPolicy) Option {
	return func(f *Facade) {
		f.policy = p
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(f *Facade) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// New builds a [Facade] over container. No fetch is issued until
// [Facade.Start] is called.
func New(container *Container, fetcher Fetcher, opts ...Option) *Facade {
	f := &Facade{
		container: container,
		fetcher:   fetcher,
		policy:    LastResolvedWins,
		logger:    slog.Default(),
		results:   reactive.NewSubject(FetchResult{}),
	}
	for _, opt := range opts {
		opt(f)
	}

	state := container.observable()
	f.field1 = reactive.DistinctUntilChanged(
		reactive.Map(state, func(s State) *string { return cloneString(s.Field1) }),
		equalString,
	)
	f.field2 = reactive.DistinctUntilChanged(
		reactive.Map(state, func(s State) Items { return s.Field2.Clone() }),
		Items.Equal,
	)
	f.combined = reactive.CombineLatest(f.field1, f.field2, func(field1 *string, field2 Items) State {
		return State{Field1: field1, Field2: field2}
	})

	return f
}

// Snapshot returns a copy of the current state.
func (f *Facade) Snapshot() State {
	return f.container.Snapshot()
}

// UpdateField1 replaces field1, leaving field2 untouched, and publishes the
// new snapshot. If the value changed and the facade is started, a dependent
// fetch is issued.
func (f *Facade) UpdateField1(value *string) {
	f.container.update(func(cur State) State {
		cur.Field1 = cloneString(value)
		return cur
	})
}

// UpdateField2 replaces field2, leaving field1 untouched, and publishes the
// new snapshot.
func (f *Facade) UpdateField2(data Items) {
	f.container.update(func(cur State) State {
		cur.Field2 = data.Clone()
		return cur
	})
}

// Field1View emits field1 whenever its value changes. New subscribers
// receive the current value.
func (f *Facade) Field1View() *reactive.Observable[*string] {
	return f.field1
}

// Field2View emits field2 whenever its value changes. New subscribers
// receive the current value.
func (f *Facade) Field2View() *reactive.Observable[Items] {
	return f.field2
}

// CombinedView emits the merged record whenever either field view emits.
func (f *Facade) CombinedView() *reactive.Observable[State] {
	return f.combined
}

// Results emits one [FetchResult] per completed fetch. It does not replay
// past results to new subscribers.
func (f *Facade) Results() *reactive.Observable[FetchResult] {
	return reactive.Skip(f.results.Observable(), 1)
}

// Start attaches the fetch-on-change stage to [Facade.Field1View]. Because
// the view replays its current value, one fetch is issued immediately.
//
// Fetches are bound to ctx. Start is idempotent; calling it after
// [Facade.Close] is a no-op.
func (f *Facade) Start(ctx context.Context) {
	f.mu.Lock()
	if f.started || f.closed {
		f.mu.Unlock()
		return
	}
	f.started = true
	if ctx == nil {
		ctx = context.Background()
	}
	f.ctx, f.cancel = context.WithCancel(ctx)
	f.mu.Unlock()

	stage := f.field1.Subscribe(f.fetchOnChange)

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		stage.Unsubscribe()
		return
	}
	f.stage = stage
}

// Refresh issues the dependent fetch for the current field1 without changing
// it. It reports false if the facade is not running.
func (f *Facade) Refresh() bool {
	return f.issueFetch(f.container.Snapshot().Field1)
}

// Close detaches the fetch-on-change stage, cancels in-flight fetches and
// waits for them to finish. Safe to call multiple times.
func (f *Facade) Close() {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		f.wg.Wait()
		return
	}
	f.closed = true
	stage := f.stage
	cancel := f.cancel
	f.mu.Unlock()

	stage.Unsubscribe()
	if cancel != nil {
		cancel()
	}
	f.wg.Wait()
}

// fetchOnChange is the pipeline stage subscribed to Field1View: each
// emitted field1 value turns into one dependent fetch.
func (f *Facade) fetchOnChange(field1 *string) {
	f.issueFetch(field1)
}

// issueFetch starts a fetch in its own goroutine. Overlapping fetches are not
// cancelled; the overlap policy decides which responses are applied.
func (f *Facade) issueFetch(trigger *string) bool {
	f.mu.Lock()
	if !f.started || f.closed {
		f.mu.Unlock()
		return false
	}
	ctx := f.ctx
	f.wg.Add(1)
	f.mu.Unlock()

	seq := f.issued.Add(1)
	id := uuid.NewString()

	f.logger.Debug("asset fetch issued", "fetch_id", id, "seq", seq, "url", f.url)

	go func() {
		defer f.wg.Done()

		start := time.Now()
		items, err := f.fetcher.Fetch(ctx, f.url)
		res := FetchResult{
			ID:          id,
			Seq:         seq,
			Trigger:     trigger,
			Latency:     time.Since(start),
			CompletedAt: time.Now(),
		}

		if err != nil {
			res.Err = &FetchError{ID: id, URL: f.url, Err: err}
			if errors.Is(err, context.Canceled) && ctx.Err() != nil {
				f.logger.Debug("asset fetch cancelled", "fetch_id", id)
			} else {
				f.logger.Warn("asset fetch failed",
					"fetch_id", id,
					"url", f.url,
					"latency_ms", res.Latency.Milliseconds(),
					"error", err.Error(),
				)
			}
		} else {
			res.Items = items.Clone()
			res.Applied = f.apply(seq, items)
			if !res.Applied {
				f.logger.Info("stale asset response discarded", "fetch_id", id, "seq", seq)
			}
		}

		f.results.Next(res)
	}()

	return true
}

// apply writes a fetched payload into field2 if the overlap policy allows it.
func (f *Facade) apply(seq uint64, items Items) bool {
	_, ok := f.container.subject.CompareAndUpdate(func(cur State) (State, bool) {
		if f.policy == LatestIssuedWins && seq < f.applied {
			return cur, false
		}
		if seq > f.applied {
			f.applied = seq
		}
		cur.Field2 = items
		return cur.Clone(), true
	})
	return ok
}
