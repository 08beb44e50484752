// Package server provides the HTTP server for the AssetBoard feature units and API.
//
// This package is internal to AssetBoard and handles all HTTP concerns:
//
//   - Routing: the route table from package router, mounted on a chi router
//   - Pages: the embedded welcome and asset pages with title substitution
//   - REST API: the asset state under "/asset/api" (state, field1, field2, refresh)
//   - Server-Sent Events: real-time view events at "/asset/api/sse"
//   - Operations: "/healthz" and, when configured, "/metrics"
//
// The server supports graceful shutdown via context cancellation, with a
// 5-second timeout for in-flight requests.
//
// Users of the assetboard library should not need to interact with this
// package directly. The server is started automatically by [assetboard.AssetBoard.Start].
package server
