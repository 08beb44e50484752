package reactive

import "sync"

// Subscription is the handle returned by Subscribe. Cancelling it stops
// further deliveries to the subscribed function.
type Subscription struct {
	once   sync.Once
	cancel func()
}

// NewSubscription returns a [Subscription] that runs cancel once, on the
// first call to [Subscription.Unsubscribe].
func NewSubscription(cancel func()) *Subscription {
	return &Subscription{cancel: cancel}
}

// Unsubscribe cancels the subscription. Safe to call multiple times and on a
// nil Subscription.
func (s *Subscription) Unsubscribe() {
	if s == nil {
		return
	}
	s.once.Do(func() {
		if s.cancel != nil {
			s.cancel()
		}
	})
}

// Observable is a read-only stream of values of type T.
//
// Observables are cold wrappers: each call to [Observable.Subscribe] sets up a
// fresh chain down to the source [Subject].
type Observable[T any] struct {
	subscribe func(func(T)) *Subscription
}

// Subscribe registers fn on the stream.
func (o *Observable[T]) Subscribe(fn func(T)) *Subscription {
	return o.subscribe(fn)
}

// Map returns an [Observable] that applies fn to every value of src.
func Map[T, R any](src *Observable[T], fn func(T) R) *Observable[R] {
	return &Observable[R]{
		subscribe: func(next func(R)) *Subscription {
			return src.Subscribe(func(v T) { next(fn(v)) })
		},
	}
}

// DistinctUntilChanged returns an [Observable] that suppresses values equal
// (according to eq) to the previous value delivered to the same subscriber.
func DistinctUntilChanged[T any](src *Observable[T], eq func(a, b T) bool) *Observable[T] {
	return &Observable[T]{
		subscribe: func(next func(T)) *Subscription {
			var (
				mu   sync.Mutex
				last T
				seen bool
			)
			return src.Subscribe(func(v T) {
				mu.Lock()
				if seen && eq(last, v) {
					mu.Unlock()
					return
				}
				last, seen = v, true
				mu.Unlock()
				next(v)
			})
		},
	}
}

// Skip returns an [Observable] that drops the first n values delivered to
// each subscriber. Skip(subject.Observable(), 1) turns a replaying subject
// into a stream of future values only.
func Skip[T any](src *Observable[T], n int) *Observable[T] {
	return &Observable[T]{
		subscribe: func(next func(T)) *Subscription {
			var (
				mu      sync.Mutex
				skipped int
			)
			return src.Subscribe(func(v T) {
				mu.Lock()
				if skipped < n {
					skipped++
					mu.Unlock()
					return
				}
				mu.Unlock()
				next(v)
			})
		},
	}
}

// CombineLatest returns an [Observable] that, once both a and b have
// delivered at least one value, emits fn(latestA, latestB) every time either
// of them delivers.
func CombineLatest[A, B, R any](a *Observable[A], b *Observable[B], fn func(A, B) R) *Observable[R] {
	return &Observable[R]{
		subscribe: func(next func(R)) *Subscription {
			var (
				mu         sync.Mutex
				va         A
				vb         B
				hasA, hasB bool
			)
			emit := func() {
				if !hasA || !hasB {
					mu.Unlock()
					return
				}
				x, y := va, vb
				mu.Unlock()
				next(fn(x, y))
			}

			subA := a.Subscribe(func(v A) {
				mu.Lock()
				va, hasA = v, true
				emit()
			})
			subB := b.Subscribe(func(v B) {
				mu.Lock()
				vb, hasB = v, true
				emit()
			})

			return NewSubscription(func() {
				subA.Unsubscribe()
				subB.Unsubscribe()
			})
		},
	}
}
