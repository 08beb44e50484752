package assetboard

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/jpalmerr/assetboard/asset"
	"github.com/jpalmerr/assetboard/dashboard"
	"github.com/jpalmerr/assetboard/internal/metrics"
	"github.com/jpalmerr/assetboard/internal/remote"
	"github.com/jpalmerr/assetboard/internal/server"
	"github.com/jpalmerr/assetboard/internal/store"
	"github.com/jpalmerr/assetboard/reactive"
)

const (
	defaultPort         = 8080
	defaultFetchTimeout = 10 * time.Second
)

// View names used in metrics and logs.
const (
	viewField1   = "field1"
	viewField2   = "field2"
	viewCombined = "combined"
)

// AssetBoard is the host application: it serves the route table and keeps
// the asset facade running.
//
// AssetBoard is created using [New] with functional options and started with
// [AssetBoard.Start].
//
// The typical lifecycle is:
//
//	ab, err := assetboard.New(assetboard.WithAssetURL("https://api.example.com/asset"))
//	if err != nil {
//	    slog.Error("failed to create assetboard", "error", err)
//	    os.Exit(1)
//	}
//
//	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
//	defer cancel()
//
//	ab.Start(ctx) // blocks until context cancelled
type AssetBoard struct {
	title           string
	port            int
	assetURL        string
	baseURL         string
	resultsPath     string
	fetchTimeout    time.Duration
	overlap         asset.OverlapPolicy
	initialField1   *string
	refreshInterval time.Duration
	logger          *slog.Logger
	stateCallbacks  []func(asset.State)
	fetchCallbacks  []func(asset.FetchResult)
}

// New creates a new [AssetBoard] instance with the given options.
//
// Defaults:
//   - Port: 8080
//   - Asset URL: "" (the host root)
//   - Fetch timeout: 10 seconds
//   - Overlap policy: last resolved wins
//   - Periodic refresh: disabled
//
// Returns an error if any option is invalid.
func New(opts ...Option) (*AssetBoard, error) {
	cfg := &abConfig{
		port:         defaultPort,
		resultsPath:  remote.DefaultResultsPath,
		fetchTimeout: defaultFetchTimeout,
		overlap:      asset.LastResolvedWins,
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	logger := cfg.logger
	if logger == nil {
		logger = slog.Default()
	}

	baseURL := cfg.baseURL
	if baseURL == "" {
		baseURL = fmt.Sprintf("http://localhost:%d/", cfg.port)
	}

	return &AssetBoard{
		title:           cfg.title,
		port:            cfg.port,
		assetURL:        cfg.assetURL,
		baseURL:         baseURL,
		resultsPath:     cfg.resultsPath,
		fetchTimeout:    cfg.fetchTimeout,
		overlap:         cfg.overlap,
		initialField1:   cfg.initialField1,
		refreshInterval: cfg.refreshInterval,
		logger:          logger,
		stateCallbacks:  cfg.stateCallbacks,
		fetchCallbacks:  cfg.fetchCallbacks,
	}, nil
}

// Start serves the feature units and runs the asset facade.
//
// Start is a blocking call that runs until the provided context is cancelled.
// During execution:
//
//   - The HTTP server starts on the configured port
//   - The fetch-on-change stage is attached, which fetches once immediately
//   - Every combined view emission and failed fetch is streamed to SSE clients
//   - The asset view is available at http://localhost:<port>/asset
//
// Returns nil on graceful shutdown. Returns an error if the HTTP server fails to start.
func (ab *AssetBoard) Start(ctx context.Context) error {
	ab.logger.Info("assetboard starting",
		"asset_url", ab.assetURL,
		"overlap_policy", ab.overlap.String(),
	)
	ab.logger.Info("dashboard available", "url", fmt.Sprintf("http://localhost:%d", ab.port))

	// check if context already cancelled
	if ctx.Err() != nil {
		return nil
	}

	client, err := remote.NewClient(
		remote.WithBaseURL(ab.baseURL),
		remote.WithTimeout(ab.fetchTimeout),
	)
	if err != nil {
		return fmt.Errorf("failed to create remote client: %w", err)
	}

	viewStore := store.NewMemoryStore()
	m := metrics.New()

	container := asset.NewContainer(asset.State{Field1: copyString(ab.initialField1)})
	facade := asset.New(container,
		remote.NewResultsFetcher(client).WithPath(ab.resultsPath),
		asset.WithURL(ab.assetURL),
		asset.WithOverlapPolicy(ab.overlap),
		asset.WithLogger(ab.logger),
	)

	// views are observed before the stage starts so the replayed state is
	// published to the store
	subs := ab.observe(facade, viewStore, m)

	// cleanup detaches the stage, waits for in-flight fetches and releases
	// the observers
	cleanup := func() {
		facade.Close()
		for _, sub := range subs {
			sub.Unsubscribe()
		}
		client.Close()
	}

	httpServer, err := server.NewServer(server.Deps{
		Store:   viewStore,
		Facade:  facade,
		Metrics: m.Handler(),
		Assets:  dashboard.Assets,
	}, ab.port, ab.title, ab.logger)
	if err != nil {
		cleanup()
		return err
	}

	// the server is listening before the first fetch so that relative asset
	// URLs resolve against a live host
	if err := httpServer.Start(ctx); err != nil {
		cleanup()
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	facade.Start(ctx)

	refresher := remote.NewRefresher(ab.refreshInterval, facade.Refresh, ab.logger)
	refresher.Start(ctx)

	<-ctx.Done()
	refresher.Stop()
	cleanup()
	httpServer.Wait()
	ab.logger.Info("assetboard stopped")
	return nil
}

// observe subscribes the store, metrics and callbacks to the facade.
func (ab *AssetBoard) observe(facade *asset.Facade, st store.Store, m *metrics.Metrics) []*reactive.Subscription {
	return []*reactive.Subscription{
		facade.Field1View().Subscribe(func(*string) {
			m.ObserveEmission(viewField1)
		}),
		facade.Field2View().Subscribe(func(asset.Items) {
			m.ObserveEmission(viewField2)
		}),
		facade.CombinedView().Subscribe(func(state asset.State) {
			// store update first (callbacks fire after data is published)
			m.ObserveEmission(viewCombined)
			st.Publish(store.Event{Type: store.EventState, State: state, At: time.Now()})

			for _, cb := range ab.stateCallbacks {
				invokeCallbackSafe(ab.logger, "state", func() { cb(state.Clone()) })
			}
		}),
		facade.Results().Subscribe(func(res asset.FetchResult) {
			m.ObserveFetch(res)

			logAttrs := []any{
				"fetch_id", res.ID,
				"outcome", res.Outcome(),
				"latency_ms", res.Latency.Milliseconds(),
			}
			if res.Err != nil {
				msg := res.Err.Error()
				st.Publish(store.Event{
					Type:    store.EventFetchError,
					State:   facade.Snapshot(),
					FetchID: res.ID,
					Error:   &msg,
					At:      res.CompletedAt,
				})
			} else {
				ab.logger.Debug("fetch completed", logAttrs...)
			}

			for _, cb := range ab.fetchCallbacks {
				invokeCallbackSafe(ab.logger, "fetch", func() { cb(res) })
			}
		}),
	}
}

// Port returns the configured HTTP port.
func (ab *AssetBoard) Port() int {
	return ab.port
}

// AssetURL returns the configured resource URL.
func (ab *AssetBoard) AssetURL() string {
	return ab.assetURL
}

// ResolvedAssetURL returns the absolute URL the dependent fetch will hit.
func (ab *AssetBoard) ResolvedAssetURL() (string, error) {
	return remote.ResolveURL(ab.baseURL, ab.assetURL)
}

// OverlapPolicy returns the configured overlap policy.
func (ab *AssetBoard) OverlapPolicy() asset.OverlapPolicy {
	return ab.overlap
}

// RefreshInterval returns the periodic refresh interval, zero when disabled.
func (ab *AssetBoard) RefreshInterval() time.Duration {
	return ab.refreshInterval
}

// copyString returns a copy of s, or nil if s is nil.
func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

// invokeCallbackSafe runs a user callback with panic recovery.
// Panics are logged with a correlation id but do not propagate.
func invokeCallbackSafe(logger *slog.Logger, kind string, call func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("callback panicked",
				"callback", kind,
				"panic", r,
				"correlation_id", uuid.NewString(),
			)
		}
	}()
	call()
}
