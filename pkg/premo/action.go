package premo

import (
	"context"
	"sync"

	"go.uber.org/atomic"
)

// Action is a multicast emitter. Every subscriber receives emissions on its own
// goroutine; a value emitted while a subscriber is still handling the previous
// one is dropped for that subscriber only. Action is safe for concurrent use.
type Action[T any] struct {
	mu   sync.Mutex
	subs map[*Subscription[T]]struct{}
}

// NewAction creates an Action with no subscribers.
func NewAction[T any]() *Action[T] {
	return &Action[T]{subs: make(map[*Subscription[T]]struct{})}
}

// Subscription is a single consumer of an Action.
type Subscription[T any] struct {
	action  *Action[T]
	values  chan T
	busy    atomic.Bool
	dropped atomic.Int64
	cancel  context.CancelFunc
	done    chan struct{}
}

// Subscribe starts delivering emissions to fn until ctx is cancelled or the
// subscription is cancelled. fn receives the subscription's context.
func (a *Action[T]) Subscribe(ctx context.Context, fn func(ctx context.Context, value T)) *Subscription[T] {
	ctx, cancel := context.WithCancel(ctx)
	s := &Subscription[T]{
		action: a,
		values: make(chan T, 1),
		cancel: cancel,
		done:   make(chan struct{}),
	}

	a.mu.Lock()
	a.subs[s] = struct{}{}
	a.mu.Unlock()

	go s.run(ctx, fn)
	return s
}

// Emit delivers value to every subscriber that is currently free.
func (a *Action[T]) Emit(value T) {
	a.mu.Lock()
	defer a.mu.Unlock()

	for s := range a.subs {
		if !s.busy.CompareAndSwap(false, true) {
			s.dropped.Inc()
			continue
		}
		// The buffer is empty whenever busy was false.
		s.values <- value
	}
}

// Subscribers returns the number of active subscriptions.
func (a *Action[T]) Subscribers() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.subs)
}

func (s *Subscription[T]) run(ctx context.Context, fn func(ctx context.Context, value T)) {
	defer close(s.done)
	defer s.action.remove(s)

	for {
		select {
		case <-ctx.Done():
			return
		case v := <-s.values:
			if ctx.Err() != nil {
				return
			}
			fn(ctx, v)
			s.busy.Store(false)
		}
	}
}

func (a *Action[T]) remove(s *Subscription[T]) {
	a.mu.Lock()
	delete(a.subs, s)
	a.mu.Unlock()
}

// Cancel stops delivery. Other subscribers are unaffected.
func (s *Subscription[T]) Cancel() {
	s.cancel()
}

// Done is closed once the subscription's goroutine has exited.
func (s *Subscription[T]) Done() <-chan struct{} {
	return s.done
}

// Busy reports whether the subscriber is still handling a delivered value.
func (s *Subscription[T]) Busy() bool {
	return s.busy.Load()
}

// Dropped returns how many emissions this subscriber missed while busy.
func (s *Subscription[T]) Dropped() int64 {
	return s.dropped.Load()
}
