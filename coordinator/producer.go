package coordinator

import (
	"context"
	"errors"
	"fmt"
	"go.uber.org/zap"
	"sfu/database"
	"sfu/media"
	"sfu/types/client/response"
	"sfu/types/message"
	"time"
)

// Produce creates a producer on the connected send transport of the peer. A
// producer of the same kind is closed with its consumers before the new one
// is announced to the other peers.
func (c *Coordinator) Produce(ctx context.Context, roomID, peerID string, kind media.Kind, params media.RTPParameters) (response.ProducerCreated, error) {
	if _, err := media.ParseKind(string(kind)); err != nil {
		return response.ProducerCreated{}, translate(err)
	}
	peer, err := c.peer(roomID, peerID)
	if err != nil {
		return response.ProducerCreated{}, fmt.Errorf("produce: %w", err)
	}
	if !peer.CanProduce {
		return response.ProducerCreated{}, fmt.Errorf("peer %s can not produce: %w", peerID, ErrInvalidState)
	}
	transport, err := c.connectedTransport(peerID, media.DirectionSend)
	if err != nil {
		return response.ProducerCreated{}, fmt.Errorf("produce: %w", err)
	}

	ectx, cancel := c.engineContext(ctx)
	defer cancel()
	start := time.Now()
	handle, err := transport.Handle.Produce(ectx, kind, params)
	c.metrics.ObserveEngineCall("produce", start)
	if err != nil {
		return response.ProducerCreated{}, c.fail("produce", err)
	}

	info := &database.ProducerInfo{
		ID:            handle.ID(),
		RoomID:        roomID,
		PeerID:        peerID,
		TransportID:   transport.ID,
		Kind:          kind,
		RTPParameters: handle.RTPParameters(),
		Handle:        handle,
		CreatedAt:     time.Now(),
	}

	unlock, err := c.registry.Lock(ctx, roomID)
	if err != nil {
		_ = handle.Close()
		return response.ProducerCreated{}, translate(fmt.Errorf("produce: %w", err))
	}
	removal, err := c.database.CreateProducerInfo(info)
	if err != nil {
		unlock()
		_ = handle.Close()
		return response.ProducerCreated{}, translate(fmt.Errorf("produce: %w", err))
	}
	c.notifyConsumerClosed(roomID, "", removal.Consumers)
	c.publish(roomID, peerID, message.NewProducer{ProducerID: info.ID, PeerID: peerID, Kind: kind})
	unlock()

	c.registry.release(removal)
	c.metrics.AddProducers(1)
	handle.OnClose(func() { c.producerClosed(roomID, info.ID) })

	c.logger.Info("producer created",
		zap.String("room_id", roomID),
		zap.String("peer_id", peerID),
		zap.String("producer_id", info.ID),
		zap.String("kind", string(kind)),
		zap.Int("replaced", len(removal.Producers)),
	)
	return response.ProducerCreated{ID: info.ID, Kind: kind, RTPParameters: info.RTPParameters}, nil
}

// CloseProducer closes the producer and every consumer paired to it. An empty
// peerID skips the ownership check.
func (c *Coordinator) CloseProducer(ctx context.Context, roomID, peerID, producerID string) error {
	unlock, err := c.registry.Lock(ctx, roomID)
	if err != nil {
		return translate(fmt.Errorf("close producer %s: %w", producerID, err))
	}
	info, err := c.database.FindProducerInfoByID(producerID)
	if err != nil {
		unlock()
		return translate(err)
	}
	if info.RoomID != roomID || (peerID != "" && info.PeerID != peerID) {
		unlock()
		return fmt.Errorf("producer %s: %w", producerID, ErrNotFound)
	}
	removal, err := c.database.DeleteProducerInfo(producerID)
	if err != nil {
		unlock()
		return translate(err)
	}
	c.notifyConsumerClosed(roomID, "", removal.Consumers)
	unlock()

	c.registry.release(removal)
	c.logger.Info("producer closed",
		zap.String("room_id", roomID),
		zap.String("producer_id", producerID),
		zap.Int("consumers", len(removal.Consumers)),
	)
	return nil
}

// producerClosed removes a producer closed by the media engine.
func (c *Coordinator) producerClosed(roomID, producerID string) {
	err := c.CloseProducer(context.Background(), roomID, "", producerID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		c.logger.Warn("failed to remove closed producer", zap.String("producer_id", producerID), zap.Error(err))
	}
}

// connectedTransport returns the connected transport of the peer in the direction.
func (c *Coordinator) connectedTransport(peerID string, direction media.Direction) (*database.TransportInfo, error) {
	transport, err := c.database.FindTransportInfoByDirection(peerID, direction)
	if errors.Is(err, database.ErrTransportNotFound) {
		return nil, fmt.Errorf("no %s transport: %w", direction, ErrInvalidState)
	}
	if err != nil {
		return nil, err
	}
	if !transport.IsConnected() {
		return nil, fmt.Errorf("%s transport is %s: %w", direction, transport.State, ErrInvalidState)
	}
	return transport, nil
}
