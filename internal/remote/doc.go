// Package remote provides the HTTP side of AssetBoard's fetch-on-change
// stage.
//
// This package is internal to AssetBoard. The main components are:
//
//   - [Client]: HTTP client wrapper with per-request timeouts, a 1MB body cap
//     and base-URL resolution for relative resource URLs
//   - [ResultsFetcher]: [asset.Fetcher] implementation that decodes the
//     "results" field of a JSON response
//   - [Refresher]: optional periodic refresh loop
//
// Users of the assetboard library should not need to interact with this
// package directly. Configuration is done through the main assetboard package.
package remote
