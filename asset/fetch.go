package asset

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Fetcher loads the remote payload that replaces [State.Field2].
//
// Implementations must honour ctx cancellation. The production
// implementation lives in internal/remote.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (Items, error)
}

// FetcherFunc adapts a function to the [Fetcher] interface.
type FetcherFunc func(ctx context.Context, url string) (Items, error)

// Fetch calls f(ctx, url).
func (f FetcherFunc) Fetch(ctx context.Context, url string) (Items, error) {
	return f(ctx, url)
}

// OverlapPolicy decides which response wins when dependent fetches overlap.
type OverlapPolicy int

const (
	// LastResolvedWins applies every successful response when it arrives, so
	// the snapshot reflects whichever response resolved last, independent of
	// the order the fetches were issued in.
	LastResolvedWins OverlapPolicy = iota

	// LatestIssuedWins applies a response only if no fetch issued after it
	// has already been applied. Stale responses are reported as discarded.
	LatestIssuedWins
)

// String returns the config spelling of the policy.
func (p OverlapPolicy) String() string {
	switch p {
	case LastResolvedWins:
		return "last_resolved"
	case LatestIssuedWins:
		return "latest_issued"
	default:
		return fmt.Sprintf("OverlapPolicy(%d)", int(p))
	}
}

// ParseOverlapPolicy parses the config spelling of an [OverlapPolicy].
// The empty string selects [LastResolvedWins].
func ParseOverlapPolicy(s string) (OverlapPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "last_resolved":
		return LastResolvedWins, nil
	case "latest_issued":
		return LatestIssuedWins, nil
	default:
		return 0, fmt.Errorf("unknown overlap policy %q (expected 'last_resolved' or 'latest_issued')", s)
	}
}

// FetchResult is published on [Facade.Results] for every completed fetch.
type FetchResult struct {
	// ID is the fetch correlation id.
	ID string

	// Seq orders fetches by issue time, starting at 1.
	Seq uint64

	// Trigger is the field1 value that caused the fetch.
	Trigger *string

	// Items is the fetched payload. Zero when Err is set.
	Items Items

	// Err is a *FetchError when the fetch failed.
	Err error

	// Applied reports whether Items was written into the snapshot.
	Applied bool

	// Latency is the time the fetch took.
	Latency time.Duration

	// CompletedAt is when the fetch finished.
	CompletedAt time.Time
}

// Outcome classifies the result as "applied", "discarded" or "failed".
func (r FetchResult) Outcome() string {
	switch {
	case r.Err != nil:
		return "failed"
	case r.Applied:
		return "applied"
	default:
		return "discarded"
	}
}
