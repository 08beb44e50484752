// Package asset implements the asset state facade: a single in-memory
// snapshot of [State], deduplicated views over it, and a fetch-on-change
// stage that keeps field2 synchronized with a remote resource.
//
// # State
//
// [State] has two fields. Field1 is an optional string. Field2 is an [Items]
// record holding two optional strings. The snapshot lives in a [Container]
// that the caller creates and hands to [New]; the resulting [Facade] is its
// only writer.
//
// # Views
//
// [Facade.Field1View] and [Facade.Field2View] project one field each and
// emit only when the projected value changes (compared by value, not by
// pointer). [Facade.CombinedView] joins the two and emits the merged record
// whenever either of them emits. All views replay their current value to
// new subscribers.
//
// # Fetch-on-change
//
// [Facade.Start] subscribes a named stage to Field1View. Each field1 value it
// receives, including the one replayed at Start, issues a fetch through the
// configured [Fetcher]; a successful response replaces field2 and the new
// snapshot is republished. Callers never fetch field2 directly.
//
// Overlapping fetches are never cancelled by newer ones. The [OverlapPolicy]
// decides which responses are applied: [LastResolvedWins] (the default)
// applies every response on arrival, [LatestIssuedWins] drops responses that
// are older than one already applied.
//
// Every completed fetch is published on [Facade.Results]. Failures carry a
// [FetchError] matching [ErrFetchFailed]; they leave the snapshot untouched
// and do not detach the stage.
package asset
