// Package reactive provides the small push-based runtime that AssetBoard's
// state facade is built on.
//
// The core type is [Subject], a value container that remembers its current
// value, replays it to every new subscriber, and pushes each published value
// to its subscribers in subscription order:
//
//	s := reactive.NewSubject(0)
//	sub := s.Subscribe(func(v int) { fmt.Println(v) }) // prints 0
//	s.Next(5)                                          // prints 5
//	sub.Unsubscribe()
//
// Derived views are composed from an [Observable] with [Map],
// [DistinctUntilChanged] and [CombineLatest]. Stateful operators keep their
// state per subscription, so two subscribers of the same derived view never
// share suppression or join state.
//
// # Delivery
//
// Deliveries of a single Subject are serialized: at most one goroutine
// delivers values at a time, draining a FIFO of pending deliveries. When no
// delivery is in progress, [Subject.Next] delivers to every observer before
// it returns. A publish issued from inside an observer, or from another
// goroutine while a delivery is running, is queued and delivered once the
// running delivery completes. Observers therefore never see values out of
// order and can publish without deadlocking.
//
// The queued case means a publish is not always synchronous: if another
// goroutine is delivering when [Subject.Next] or [Subject.Update] is called,
// the call returns once the value is queued, and its observers are notified
// by that goroutine shortly after. For the asset facade this means
// UpdateField2 can return before its combined view emission when a fetch is
// completing concurrently. The new value is visible through
// [Subject.Value] as soon as the call returns.
//
// A panicking observer is recovered and logged through [slog.Default]. The
// remaining observers still receive the value, and values it queued are still
// delivered.
package reactive
