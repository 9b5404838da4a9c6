// Package controller handles HTTP and signaling logic.
package controller

import (
	"context"
	"sfu/broker/subscription"
	"sfu/coordinator"
	"sfu/media"
	apiresponse "sfu/types/api/response"
	"sfu/types/client/response"
)

// Coordinator is the set of room operations driven by the controllers.
//
//go:generate mockgen -destination=mock_coordinator.go -package=controller . Coordinator
type Coordinator interface {
	Join(ctx context.Context, req coordinator.JoinRequest) (response.JoinedRoom, *subscription.Subscription, error)
	Leave(ctx context.Context, roomID, peerID string) error
	CreateTransport(ctx context.Context, roomID, peerID string, direction media.Direction) (response.TransportCreated, error)
	ConnectTransport(ctx context.Context, roomID, peerID, transportID string, params media.ConnectParameters) error
	Produce(ctx context.Context, roomID, peerID string, kind media.Kind, params media.RTPParameters) (response.ProducerCreated, error)
	Consume(ctx context.Context, roomID, peerID, producerID string, caps media.RTPCapabilities) (response.ConsumerCreated, error)
	CloseProducer(ctx context.Context, roomID, peerID, producerID string) error
	CloseConsumer(ctx context.Context, roomID, peerID, consumerID string) error
	Rooms() ([]apiresponse.RoomSummary, error)
	Room(roomID string) (apiresponse.Room, error)
	Ready() bool
	Fatal() <-chan struct{}
}
