// Package assetboard provides a small embeddable host application: a route
// table of independently loaded feature units and an asset state facade kept
// in sync with a remote resource.
//
// AssetBoard is designed as an SDK-first library, with configuration via the
// functional options pattern. The standalone binary in cmd/assetboard drives
// the same API from a YAML file.
//
// # Quick Start
//
//	ab, _ := assetboard.New(
//	    assetboard.WithAssetURL("https://api.example.com/asset"),
//	    assetboard.WithInitialField1("https://api.example.com/asset"),
//	)
//
//	// Set up graceful shutdown on SIGINT/SIGTERM
//	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
//	defer stop()
//
//	ab.Start(ctx) // blocks until context is cancelled
//
// # Routes
//
// The host serves three routes, listed by [Routes]:
//
//   - "/" redirects to "/welcome"
//   - "/welcome" serves the welcome unit
//   - "/asset" serves the asset unit: its page, a JSON API and an SSE stream
//
// # Asset state
//
// The asset unit is backed by an [asset.Facade]. Whenever field1 changes the
// facade fetches the asset URL and copies the "results" payload of the
// response into field2. Observe the facade with [WithStateCallback] and
// [WithFetchCallback], or over HTTP at /asset/api/sse.
//
// # Architecture
//
// AssetBoard consists of several packages:
//
//   - reactive: Subjects and derived observables with serialized delivery
//   - asset: The state container and facade
//   - internal/router: Route table and feature units
//   - internal/remote: HTTP client, results decoding and periodic refresh
//   - internal/store: Fan-out of view events to SSE clients
//   - internal/server: HTTP server with REST API and Server-Sent Events
//   - internal/metrics: Prometheus instrumentation
//   - dashboard: Embedded web UI assets
//
// The internal packages are not part of the public API and may change
// without notice.
package assetboard
