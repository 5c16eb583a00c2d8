package broadcast

import "sync"

type hub[T any] struct {
	mu     sync.Mutex
	subs   map[*Subscription[T]]struct{}
	closed bool
}

// subscribe registers a new subscription; seed runs under the hub lock
// before any later publish can reach the subscriber.
func (h *hub[T]) subscribe(seed func(*Subscription[T])) *Subscription[T] {
	s := newSubscription[T]()
	s.detach = func() { h.remove(s) }

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		s.stop()
		return s
	}
	if seed != nil {
		seed(s)
	}
	if h.subs == nil {
		h.subs = make(map[*Subscription[T]]struct{})
	}
	h.subs[s] = struct{}{}
	return s
}

func (h *hub[T]) remove(s *Subscription[T]) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.subs, s)
}

// publishLocked must be called with h.mu held
func (h *hub[T]) publishLocked(v T) {
	for s := range h.subs {
		s.push(v)
	}
}

func (h *hub[T]) close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for s := range h.subs {
		s.stop()
	}
	h.subs = nil
}

func (h *hub[T]) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Publisher delivers values to the subscribers present at publish time.
// Late subscribers see nothing of the past.
type Publisher[T any] struct {
	hub hub[T]
}

// NewPublisher creates an open publisher
func NewPublisher[T any]() *Publisher[T] {
	return &Publisher[T]{}
}

// Subscribe returns a subscription receiving values published from now on
func (p *Publisher[T]) Subscribe() *Subscription[T] {
	return p.hub.subscribe(nil)
}

// Publish fans v out; it is a no-op after Close
func (p *Publisher[T]) Publish(v T) {
	p.hub.mu.Lock()
	defer p.hub.mu.Unlock()
	if p.hub.closed {
		return
	}
	p.hub.publishLocked(v)
}

// Close ends every subscription
func (p *Publisher[T]) Close() {
	p.hub.close()
}

// Subscribers returns the number of live subscriptions
func (p *Publisher[T]) Subscribers() int {
	return p.hub.count()
}

// Replay caches the latest value and hands it to every new subscriber
// before anything published later.
type Replay[T any] struct {
	hub    hub[T]
	latest T
}

// NewReplay creates a replay holding initial
func NewReplay[T any](initial T) *Replay[T] {
	return &Replay[T]{latest: initial}
}

// Subscribe returns a subscription whose first value is the cached one
func (r *Replay[T]) Subscribe() *Subscription[T] {
	return r.hub.subscribe(func(s *Subscription[T]) {
		s.push(r.latest)
	})
}

// Publish caches v and fans it out; it is a no-op after Close
func (r *Replay[T]) Publish(v T) {
	r.hub.mu.Lock()
	defer r.hub.mu.Unlock()
	if r.hub.closed {
		return
	}
	r.latest = v
	r.hub.publishLocked(v)
}

// Latest returns the cached value
func (r *Replay[T]) Latest() T {
	r.hub.mu.Lock()
	defer r.hub.mu.Unlock()
	return r.latest
}

// Close ends every subscription; Latest keeps returning the last value
func (r *Replay[T]) Close() {
	r.hub.close()
}

// Subscribers returns the number of live subscriptions
func (r *Replay[T]) Subscribers() int {
	return r.hub.count()
}
