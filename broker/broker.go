// Package broker provides publish/subscribe topics between components.
package broker

import (
	"errors"
	"fmt"
	"sfu/broker/channel"
	"sfu/broker/subscription"
	"sync"
)

// Topic is a category of channels.
type Topic int

const (
	// Room is the topic of room notifications. Its detail is the room id and
	// its subscribers are the peers of the room.
	Room Topic = iota
)

// Detail identifies a channel within a topic.
type Detail string

var (
	// ErrNoSubscriber is returned when a message is published to a channel without subscriber.
	ErrNoSubscriber = errors.New("no subscriber")

	// ErrMessageDropped is returned when a subscriber queue was full.
	ErrMessageDropped = errors.New("message dropped")
)

// Broker routes messages from publishers to the subscribers of a channel.
// Delivery is at-most-once and ordered per subscriber.
type Broker struct {
	mu       sync.RWMutex
	capacity int
	channels map[Topic]map[Detail]*channel.Channel
}

// New creates a new Broker whose subscriptions hold up to capacity messages.
func New(capacity int) *Broker {
	return &Broker{
		capacity: capacity,
		channels: make(map[Topic]map[Detail]*channel.Channel),
	}
}

// Subscribe subscribes the id to the channel.
func (b *Broker) Subscribe(topic Topic, detail Detail, id string) *subscription.Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	details, ok := b.channels[topic]
	if !ok {
		details = make(map[Detail]*channel.Channel)
		b.channels[topic] = details
	}
	ch, ok := details[detail]
	if !ok {
		ch = channel.New()
		details[detail] = ch
	}

	sub := subscription.New(id, b.capacity)
	ch.AddSubscription(sub)
	return sub
}

// Unsubscribe closes the subscriptions of the id. The channel is removed
// with its last subscription.
func (b *Broker) Unsubscribe(topic Topic, detail Detail, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch, ok := b.channels[topic][detail]
	if !ok {
		return fmt.Errorf("%v/%s: %w", topic, detail, ErrNoSubscriber)
	}
	if ch.RemoveSubscription(id) == 0 {
		delete(b.channels[topic], detail)
	}
	return nil
}

func (b *Broker) channel(topic Topic, detail Detail) (*channel.Channel, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	ch, ok := b.channels[topic][detail]
	if !ok {
		return nil, fmt.Errorf("%v/%s: %w", topic, detail, ErrNoSubscriber)
	}
	return ch, nil
}

// Publish sends the message to every subscriber of the channel.
func (b *Broker) Publish(topic Topic, detail Detail, message any) error {
	return b.PublishExcept(topic, detail, "", message)
}

// PublishExcept sends the message to every subscriber of the channel but the given one.
func (b *Broker) PublishExcept(topic Topic, detail Detail, except string, message any) error {
	ch, err := b.channel(topic, detail)
	if err != nil {
		return err
	}
	if dropped := ch.SendAll(message, except); dropped > 0 {
		return fmt.Errorf("%d subscribers of %v/%s: %w", dropped, topic, detail, ErrMessageDropped)
	}
	return nil
}

// PublishTo sends the message to one subscriber of the channel.
func (b *Broker) PublishTo(topic Topic, detail Detail, id string, message any) error {
	ch, err := b.channel(topic, detail)
	if err != nil {
		return err
	}
	found, sent := ch.SendTo(id, message)
	if !found {
		return fmt.Errorf("%s of %v/%s: %w", id, topic, detail, ErrNoSubscriber)
	}
	if !sent {
		return fmt.Errorf("%s of %v/%s: %w", id, topic, detail, ErrMessageDropped)
	}
	return nil
}

// Subscribers returns the number of subscribers of the channel.
func (b *Broker) Subscribers(topic Topic, detail Detail) int {
	ch, err := b.channel(topic, detail)
	if err != nil {
		return 0
	}
	return ch.Len()
}
