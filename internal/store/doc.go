// Package store fans facade notifications out to HTTP clients.
//
// This package is internal to AssetBoard. The orchestrator subscribes to the
// facade's combined view and fetch results and publishes them here as
// [Event] values; the server streams them to dashboard clients.
//
// The main components are:
//
//   - [Store]: Interface defining publication and subscription operations
//   - [MemoryStore]: In-memory implementation of Store with pub/sub
//   - [Event]: JSON representation of a state change or fetch failure
//
// Subscribers receive events via channels with non-blocking sends (slow
// subscribers will miss events rather than block the facade).
package store
