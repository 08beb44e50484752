package assetboard

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/jpalmerr/assetboard/asset"
)

// abConfig holds mutable state during AssetBoard construction.
type abConfig struct {
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

// Option is a function that configures an [AssetBoard] instance during construction.
//
// Option implements the functional options pattern. Options return an error
// if validation fails.
type Option func(*abConfig) error

// WithTitle sets the page title displayed in the browser tab and header.
//
// If not specified, defaults to "AssetBoard".
func WithTitle(title string) Option {
	return func(cfg *abConfig) error {
		cfg.title = title
		return nil
	}
}

// WithPort sets the HTTP port of the host.
//
// The feature units will be available at http://localhost:<port>.
// Defaults to 8080 if not specified.
//
// Returns an error if the port is outside the valid range (1-65535).
func WithPort(port int) Option {
	return func(cfg *abConfig) error {
		if port < 1 || port > 65535 {
			return errors.New("port must be between 1 and 65535")
		}
		cfg.port = port
		return nil
	}
}

// WithAssetURL sets the URL of the remote resource fetched whenever field1
// changes. Relative URLs, including the default "", are resolved against the
// base URL (see [WithBaseURL]).
func WithAssetURL(u string) Option {
	return func(cfg *abConfig) error {
		if _, err := url.Parse(u); err != nil {
			return fmt.Errorf("invalid asset url: %w", err)
		}
		cfg.assetURL = u
		return nil
	}
}

// WithBaseURL sets the absolute URL relative asset URLs are resolved against.
//
// Defaults to the host itself, http://localhost:<port>/.
func WithBaseURL(base string) Option {
	return func(cfg *abConfig) error {
		u, err := url.Parse(base)
		if err != nil {
			return fmt.Errorf("invalid base url: %w", err)
		}
		if !u.IsAbs() {
			return fmt.Errorf("base url must be absolute, got %q", base)
		}
		cfg.baseURL = base
		return nil
	}
}

// WithResultsPath sets the JSON path of the payload copied into field2.
// Defaults to "results".
func WithResultsPath(path string) Option {
	return func(cfg *abConfig) error {
		if path == "" {
			return errors.New("results path cannot be empty")
		}
		cfg.resultsPath = path
		return nil
	}
}

// WithFetchTimeout sets the timeout of a single dependent fetch.
// Defaults to 10 seconds.
//
// Returns an error if the duration is zero or negative.
func WithFetchTimeout(d time.Duration) Option {
	return func(cfg *abConfig) error {
		if d <= 0 {
			return errors.New("fetch timeout must be positive")
		}
		cfg.fetchTimeout = d
		return nil
	}
}

// WithOverlapPolicy selects how overlapping fetches are reconciled.
// Defaults to [asset.LastResolvedWins].
func WithOverlapPolicy(p asset.OverlapPolicy) Option {
	return func(cfg *abConfig) error {
		switch p {
		case asset.LastResolvedWins, asset.LatestIssuedWins:
			cfg.overlap = p
			return nil
		default:
			return fmt.Errorf("unknown overlap policy %d", p)
		}
	}
}

// WithInitialField1 sets field1 of the initial snapshot. The first fetch
// carries it as its trigger.
func WithInitialField1(value string) Option {
	return func(cfg *abConfig) error {
		cfg.initialField1 = asset.String(value)
		return nil
	}
}

// WithRefreshInterval re-issues the dependent fetch for the current field1
// periodically. Zero, the default, disables periodic refresh.
//
// Returns an error if the duration is negative.
func WithRefreshInterval(d time.Duration) Option {
	return func(cfg *abConfig) error {
		if d < 0 {
			return errors.New("refresh interval cannot be negative")
		}
		cfg.refreshInterval = d
		return nil
	}
}

// WithLogger sets a custom [slog.Logger] for the AssetBoard instance.
//
// If not specified, [slog.Default] is used.
//
// Returns an error if the logger is nil.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *abConfig) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		cfg.logger = logger
		return nil
	}
}

// WithStateCallback registers a function called with every emission of the
// combined view, starting with the current state when the board starts.
//
// Callbacks run synchronously on the publishing goroutine and must not
// block. Panics are recovered and logged. Nil callbacks are ignored.
func WithStateCallback(cb func(asset.State)) Option {
	return func(cfg *abConfig) error {
		if cb == nil {
			return nil
		}
		cfg.stateCallbacks = append(cfg.stateCallbacks, cb)
		return nil
	}
}

// WithFetchCallback registers a function called for every completed fetch,
// whether applied, discarded or failed.
//
// The same rules as [WithStateCallback] apply.
func WithFetchCallback(cb func(asset.FetchResult)) Option {
	return func(cfg *abConfig) error {
		if cb == nil {
			return nil
		}
		cfg.fetchCallbacks = append(cfg.fetchCallbacks, cb)
		return nil
	}
}
