package store

import (
	"time"

	"github.com/jpalmerr/assetboard/asset"
)

// Event types published through a [Store].
const (
	// EventState carries a new combined view of the asset state.
	EventState = "state"

	// EventFetchError reports a failed dependent fetch.
	EventFetchError = "fetch_error"
)

// Event is the storage representation of a facade notification, optimized
// for JSON serialization (used by the REST API and SSE).
type Event struct {
	// Type is [EventState] or [EventFetchError].
	Type string `json:"type"`

	// State is the combined view at the time of the event.
	State asset.State `json:"state"`

	// FetchID is the correlation id of the fetch, for fetch events.
	FetchID string `json:"fetch_id,omitempty"`

	// Error contains the error message of a failed fetch.
	Error *string `json:"error,omitempty"`

	// At is when the event was published.
	At time.Time `json:"at"`
}

// Store defines the interface for storing and subscribing to view events.
//
// Store implementations must be safe for concurrent access. The pub/sub
// mechanism allows real-time updates to be pushed to connected clients
// (e.g., via Server-Sent Events).
type Store interface {
	// Publish records an event and notifies all subscribers. State events
	// replace the latest state.
	Publish(event Event)

	// Latest returns the most recent state event, and false if none has
	// been published yet.
	Latest() (Event, bool)

	// Subscribe returns a channel that receives events.
	// The returned channel has a buffer; slow consumers may miss events.
	// Caller must call Unsubscribe when done to prevent resource leaks.
	Subscribe() <-chan Event

	// Unsubscribe removes a subscription and closes the channel.
	// Safe to call with a channel that was already unsubscribed.
	Unsubscribe(ch <-chan Event)
}
