// Package media contains the contract of the media engine and its WebRTC implementation.
package media

import "context"

// Engine creates routing domains. It is the only entry point into the media engine.
//
//go:generate mockgen -destination=mock_media.go -package=media . Engine,Router,Transport,Producer,Consumer
type Engine interface {
	CreateRouter(ctx context.Context, codecs []Codec) (Router, error)
	Ready() bool
}

// Router is a routing domain. Every room owns exactly one router.
type Router interface {
	ID() string
	RTPCapabilities() RTPCapabilities
	CreateTransport(ctx context.Context, direction Direction) (Transport, error)
	CanConsume(producerID string, caps RTPCapabilities) bool
	Close() error
	OnClose(fn func())
}

// Transport is a secured media connection created by a Router.
type Transport interface {
	ID() string
	Parameters() TransportParameters
	Connect(ctx context.Context, params ConnectParameters) error
	Produce(ctx context.Context, kind Kind, params RTPParameters) (Producer, error)
	Consume(ctx context.Context, producerID string, caps RTPCapabilities) (Consumer, error)
	Close() error
	OnClose(fn func())
}

// Producer is an inbound media stream.
type Producer interface {
	ID() string
	Kind() Kind
	RTPParameters() RTPParameters
	Close() error
	OnClose(fn func())
}

// Consumer is an outbound copy of a producer delivered to one peer.
type Consumer interface {
	ID() string
	ProducerID() string
	Kind() Kind
	RTPParameters() RTPParameters
	Close() error
	OnClose(fn func())
}
