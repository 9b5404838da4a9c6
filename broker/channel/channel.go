// Package channel provides the implementation of message channels.
package channel

import (
	"sfu/broker/subscription"
	"sync"
)

// Channel represents a message channel that can have multiple subscribers.
type Channel struct {
	mu   sync.RWMutex
	subs []*subscription.Subscription
}

// New creates and initializes a new Channel instance.
func New() *Channel {
	return &Channel{
		subs: make([]*subscription.Subscription, 0),
	}
}

// SendAll sends a message to every subscription except the excluded id and
// returns the number of dropped messages. Messages are enqueued in publish
// order for each subscription.
func (c *Channel) SendAll(message any, except string) int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	dropped := 0
	for _, sub := range c.subs {
		if except != "" && sub.ID() == except {
			continue
		}
		if !sub.Send(message) {
			dropped++
		}
	}
	return dropped
}

// SendTo sends a message to the subscriptions of the id. found reports
// whether the id is subscribed and sent whether any of them enqueued it.
func (c *Channel) SendTo(id string, message any) (found, sent bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, sub := range c.subs {
		if sub.ID() != id {
			continue
		}
		found = true
		if sub.Send(message) {
			sent = true
		}
	}
	return found, sent
}

// AddSubscription adds a new Subscription Channel.
func (c *Channel) AddSubscription(sub *subscription.Subscription) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.subs = append(c.subs, sub)
}

// RemoveSubscription removes and closes every subscription of the id. It
// returns the number of remaining subscriptions.
func (c *Channel) RemoveSubscription(id string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	kept := c.subs[:0]
	for _, s := range c.subs {
		if s.ID() == id {
			s.Close()
			continue
		}
		kept = append(kept, s)
	}
	for i := len(kept); i < len(c.subs); i++ {
		c.subs[i] = nil
	}
	c.subs = kept
	return len(c.subs)
}

// Len returns the number of subscriptions.
func (c *Channel) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.subs)
}
