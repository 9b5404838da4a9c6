package coordinator

import (
	"context"
	"errors"
	"fmt"
	"go.uber.org/zap"
	"sfu/database"
	"sfu/media"
	"sfu/types/client/response"
	"time"
)

// Consume creates a consumer of the producer on the connected receive
// transport of the peer. A producer closed before the consumer is registered
// yields ErrNotFound and the consumer is discarded.
func (c *Coordinator) Consume(ctx context.Context, roomID, peerID, producerID string, caps media.RTPCapabilities) (response.ConsumerCreated, error) {
	if _, err := c.peer(roomID, peerID); err != nil {
		return response.ConsumerCreated{}, fmt.Errorf("consume: %w", err)
	}
	transport, err := c.connectedTransport(peerID, media.DirectionRecv)
	if err != nil {
		return response.ConsumerCreated{}, fmt.Errorf("consume: %w", err)
	}
	producer, err := c.database.FindProducerInfoByID(producerID)
	if err != nil {
		return response.ConsumerCreated{}, translate(err)
	}
	if producer.RoomID != roomID {
		return response.ConsumerCreated{}, fmt.Errorf("producer %s: %w", producerID, ErrNotFound)
	}
	room, err := c.database.FindRoomInfoByID(roomID)
	if err != nil {
		return response.ConsumerCreated{}, translate(err)
	}
	if !room.Router.CanConsume(producerID, caps) {
		return response.ConsumerCreated{}, fmt.Errorf("consume %s: %w", producerID, ErrIncompatibleCapabilities)
	}

	ectx, cancel := c.engineContext(ctx)
	defer cancel()
	start := time.Now()
	handle, err := transport.Handle.Consume(ectx, producerID, caps)
	c.metrics.ObserveEngineCall("consume", start)
	if err != nil {
		return response.ConsumerCreated{}, c.fail("consume", err)
	}

	info := &database.ConsumerInfo{
		ID:             handle.ID(),
		RoomID:         roomID,
		PeerID:         peerID,
		TransportID:    transport.ID,
		ProducerID:     producerID,
		ProducerPeerID: producer.PeerID,
		Kind:           handle.Kind(),
		RTPParameters:  handle.RTPParameters(),
		Handle:         handle,
		CreatedAt:      time.Now(),
	}

	unlock, err := c.registry.Lock(ctx, roomID)
	if err != nil {
		_ = handle.Close()
		return response.ConsumerCreated{}, translate(fmt.Errorf("consume: %w", err))
	}
	err = c.database.CreateConsumerInfo(info)
	unlock()
	if err != nil {
		_ = handle.Close()
		return response.ConsumerCreated{}, translate(fmt.Errorf("consume: %w", err))
	}

	c.metrics.AddConsumers(1)
	handle.OnClose(func() { c.consumerClosed(roomID, info.ID) })

	c.logger.Info("consumer created",
		zap.String("room_id", roomID),
		zap.String("peer_id", peerID),
		zap.String("consumer_id", info.ID),
		zap.String("producer_id", producerID),
	)
	return response.ConsumerCreated{
		ID:            info.ID,
		ProducerID:    producerID,
		PeerID:        producer.PeerID,
		Kind:          info.Kind,
		RTPParameters: info.RTPParameters,
	}, nil
}

// CloseConsumer closes the consumer. An empty peerID skips the ownership
// check and notifies the owner.
func (c *Coordinator) CloseConsumer(ctx context.Context, roomID, peerID, consumerID string) error {
	unlock, err := c.registry.Lock(ctx, roomID)
	if err != nil {
		return translate(fmt.Errorf("close consumer %s: %w", consumerID, err))
	}
	info, err := c.database.FindConsumerInfoByID(consumerID)
	if err != nil {
		unlock()
		return translate(err)
	}
	if info.RoomID != roomID || (peerID != "" && info.PeerID != peerID) {
		unlock()
		return fmt.Errorf("consumer %s: %w", consumerID, ErrNotFound)
	}
	removed, err := c.database.DeleteConsumerInfo(consumerID)
	if err != nil {
		unlock()
		return translate(err)
	}
	if peerID == "" {
		c.notifyConsumerClosed(roomID, "", []*database.ConsumerInfo{removed})
	}
	unlock()

	c.registry.release(&database.Removal{Consumers: []*database.ConsumerInfo{removed}})
	c.logger.Info("consumer closed", zap.String("room_id", roomID), zap.String("consumer_id", consumerID))
	return nil
}

// consumerClosed removes a consumer closed by the media engine.
func (c *Coordinator) consumerClosed(roomID, consumerID string) {
	err := c.CloseConsumer(context.Background(), roomID, "", consumerID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		c.logger.Warn("failed to remove closed consumer", zap.String("consumer_id", consumerID), zap.Error(err))
	}
}
