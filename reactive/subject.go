package reactive

import (
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// observer is a single registered callback on a [Subject].
type observer[T any] struct {
	fn     func(T)
	active atomic.Bool

	// joined is the sequence number of the last broadcast enqueued before the
	// observer subscribed; earlier broadcasts are not delivered to it.
	joined uint64
}

// delivery is a pending unit of work in a Subject's queue. A nil target
// broadcasts to every observer that joined before seq.
type delivery[T any] struct {
	value  T
	seq    uint64
	target *observer[T]
}

// Subject holds a current value and pushes every new value to its observers.
//
// Subject is safe for concurrent use. See the package documentation for the
// delivery guarantees.
type Subject[T any] struct {
	mu        sync.Mutex
	value     T
	seq       uint64
	observers []*observer[T]
	queue     []delivery[T]
	draining  bool
}

// NewSubject creates a [Subject] holding initial.
func NewSubject[T any](initial T) *Subject[T] {
	return &Subject[T]{value: initial}
}

// Value returns the most recently published value.
func (s *Subject[T]) Value() T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

// Next publishes v to all observers.
func (s *Subject[T]) Next(v T) {
	s.Update(func(T) T { return v })
}

// Update atomically replaces the current value with fn(current) and
// publishes the result. fn runs under the subject's lock and must not call
// back into the subject.
func (s *Subject[T]) Update(fn func(T) T) T {
	next, _ := s.CompareAndUpdate(func(cur T) (T, bool) { return fn(cur), true })
	return next
}

// CompareAndUpdate is like [Subject.Update] but fn may decline the update by
// returning false, in which case nothing is published. It returns the
// resulting current value and whether an update was published.
func (s *Subject[T]) CompareAndUpdate(fn func(T) (T, bool)) (T, bool) {
	s.mu.Lock()
	next, ok := fn(s.value)
	if !ok {
		cur := s.value
		s.mu.Unlock()
		return cur, false
	}
	s.value = next
	s.seq++
	s.queue = append(s.queue, delivery[T]{value: next, seq: s.seq})
	s.drainLocked()
	return next, true
}

// Subscribe registers fn and immediately replays the current value to it.
// fn is called for every value published after that until the returned
// [Subscription] is cancelled.
func (s *Subject[T]) Subscribe(fn func(T)) *Subscription {
	o := &observer[T]{fn: fn}
	o.active.Store(true)

	s.mu.Lock()
	o.joined = s.seq
	s.observers = append(s.observers, o)
	s.queue = append(s.queue, delivery[T]{value: s.value, seq: s.seq, target: o})
	s.drainLocked()

	return NewSubscription(func() { s.remove(o) })
}

// Observable exposes the subject as a read-only [Observable].
func (s *Subject[T]) Observable() *Observable[T] {
	return &Observable[T]{subscribe: s.Subscribe}
}

// drainLocked delivers queued values until the queue is empty. It must be
// called with s.mu held and always returns with s.mu released. If another
// call is already draining, the queued work is left to it.
func (s *Subject[T]) drainLocked() {
	if s.draining {
		s.mu.Unlock()
		return
	}
	s.draining = true

	for len(s.queue) > 0 {
		d := s.queue[0]
		s.queue[0] = delivery[T]{}
		s.queue = s.queue[1:]

		var targets []*observer[T]
		if d.target != nil {
			targets = []*observer[T]{d.target}
		} else {
			targets = make([]*observer[T], 0, len(s.observers))
			for _, o := range s.observers {
				if o.joined < d.seq {
					targets = append(targets, o)
				}
			}
		}
		s.mu.Unlock()

		for _, o := range targets {
			if o.active.Load() {
				s.deliver(o, d.value)
			}
		}

		s.mu.Lock()
	}

	s.queue = nil
	s.draining = false
	s.mu.Unlock()
}

// deliver calls a single observer. Panics are logged with a correlation id
// and do not stop delivery to the remaining observers or queued values.
func (s *Subject[T]) deliver(o *observer[T], v T) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("observer panicked",
				"panic", r,
				"correlation_id", uuid.NewString(),
			)
		}
	}()
	o.fn(v)
}

func (s *Subject[T]) remove(o *observer[T]) {
	o.active.Store(false)

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, cur := range s.observers {
		if cur == o {
			s.observers = append(s.observers[:i:i], s.observers[i+1:]...)
			break
		}
	}
}
