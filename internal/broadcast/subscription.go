// Package broadcast provides in-process multicast of values to channel
// subscribers. Publishing never blocks: every subscriber owns an unbounded
// queue drained by its own goroutine, so a slow reader delays only itself.
package broadcast

import "sync"

// Subscription delivers published values in order on C until it is
// unsubscribed or its broadcaster is closed.
type Subscription[T any] struct {
	mu     sync.Mutex
	queue  []T
	signal chan struct{}
	out    chan T
	done   chan struct{}
	once   sync.Once
	detach func()
}

func newSubscription[T any]() *Subscription[T] {
	s := &Subscription[T]{
		signal: make(chan struct{}, 1),
		out:    make(chan T),
		done:   make(chan struct{}),
	}
	go s.pump()
	return s
}

// C is closed once the subscription ends
func (s *Subscription[T]) C() <-chan T {
	return s.out
}

// Unsubscribe stops delivery and releases the subscription. Values still
// queued are dropped. Safe to call more than once.
func (s *Subscription[T]) Unsubscribe() {
	if s.detach != nil {
		s.detach()
	}
	s.stop()
}

func (s *Subscription[T]) stop() {
	s.once.Do(func() { close(s.done) })
}

func (s *Subscription[T]) push(v T) {
	s.mu.Lock()
	s.queue = append(s.queue, v)
	s.mu.Unlock()

	select {
	case s.signal <- struct{}{}:
	default:
	}
}

func (s *Subscription[T]) pump() {
	defer close(s.out)

	for {
		s.mu.Lock()
		if len(s.queue) == 0 {
			s.mu.Unlock()
			select {
			case <-s.signal:
				continue
			case <-s.done:
				return
			}
		}
		v := s.queue[0]
		var zero T
		s.queue[0] = zero
		s.queue = s.queue[1:]
		s.mu.Unlock()

		select {
		case s.out <- v:
		case <-s.done:
			return
		}
	}
}
