// Package subscription provides the receiving side of a broker channel.
package subscription

import "sync"

// DefaultCapacity is the queue size of a subscription.
const DefaultCapacity = 64

// Subscription is a bounded queue of messages for one subscriber. Messages
// sent to a full queue are dropped.
type Subscription struct {
	id     string
	mu     sync.Mutex
	closed bool
	queue  chan any
}

// New creates a new Subscription of the subscriber.
func New(id string, capacity int) *Subscription {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Subscription{
		id:    id,
		queue: make(chan any, capacity),
	}
}

// ID returns the subscriber id.
func (s *Subscription) ID() string {
	return s.id
}

// Send enqueues the message without blocking. It returns false when the
// message was dropped.
func (s *Subscription) Send(message any) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	select {
	case s.queue <- message:
		return true
	default:
		return false
	}
}

// Receive returns the queue. It is closed when the subscription is closed.
func (s *Subscription) Receive() <-chan any {
	return s.queue
}

// Close closes the queue. Messages already queued can still be received.
func (s *Subscription) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	close(s.queue)
}
