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

// CreateTransport creates the transport of the peer in the direction. A peer
// has at most one transport per direction, so a repeated request returns the
// existing transport.
func (c *Coordinator) CreateTransport(ctx context.Context, roomID, peerID string, direction media.Direction) (response.TransportCreated, error) {
	if _, err := media.ParseDirection(string(direction)); err != nil {
		return response.TransportCreated{}, translate(err)
	}
	if _, err := c.peer(roomID, peerID); err != nil {
		return response.TransportCreated{}, fmt.Errorf("create transport: %w", err)
	}
	if existing, err := c.database.FindTransportInfoByDirection(peerID, direction); err == nil {
		return transportCreated(existing), nil
	}
	room, err := c.database.FindRoomInfoByID(roomID)
	if err != nil {
		return response.TransportCreated{}, translate(err)
	}

	ectx, cancel := c.engineContext(ctx)
	defer cancel()
	start := time.Now()
	handle, err := room.Router.CreateTransport(ectx, direction)
	c.metrics.ObserveEngineCall("create_transport", start)
	if err != nil {
		return response.TransportCreated{}, c.fail("create transport", err)
	}

	info := &database.TransportInfo{
		ID:         handle.ID(),
		RoomID:     roomID,
		PeerID:     peerID,
		Direction:  direction,
		State:      database.New,
		Parameters: handle.Parameters(),
		Handle:     handle,
		CreatedAt:  time.Now(),
	}

	unlock, err := c.registry.Lock(ctx, roomID)
	if err != nil {
		_ = handle.Close()
		return response.TransportCreated{}, translate(fmt.Errorf("create transport: %w", err))
	}
	err = c.database.CreateTransportInfo(info)
	if errors.Is(err, database.ErrTransportAlreadyExists) {
		existing, findErr := c.database.FindTransportInfoByDirection(peerID, direction)
		unlock()
		_ = handle.Close()
		if findErr != nil {
			return response.TransportCreated{}, translate(findErr)
		}
		return transportCreated(existing), nil
	}
	unlock()
	if err != nil {
		_ = handle.Close()
		return response.TransportCreated{}, translate(fmt.Errorf("create transport: %w", err))
	}

	c.metrics.AddTransports(1)
	c.logger.Info("transport created",
		zap.String("room_id", roomID),
		zap.String("peer_id", peerID),
		zap.String("transport_id", info.ID),
		zap.String("direction", string(direction)),
	)
	return transportCreated(info), nil
}

func transportCreated(info *database.TransportInfo) response.TransportCreated {
	return response.TransportCreated{
		TransportID:    info.ID,
		Direction:      info.Direction,
		ICEParameters:  info.Parameters.ICEParameters,
		ICECandidates:  info.Parameters.ICECandidates,
		DTLSParameters: info.Parameters.DTLSParameters,
		SCTPParameters: info.Parameters.SCTPParameters,
	}
}

// ConnectTransport finalizes the handshake of the transport. An empty peerID
// skips the ownership check. Connecting a connected transport is a no-op and
// connecting a transport whose handshake is in flight fails.
func (c *Coordinator) ConnectTransport(ctx context.Context, roomID, peerID, transportID string, params media.ConnectParameters) error {
	info, err := c.database.FindTransportInfoByID(transportID)
	if err != nil {
		return translate(err)
	}
	if info.RoomID != roomID || (peerID != "" && info.PeerID != peerID) {
		return fmt.Errorf("transport %s: %w", transportID, ErrNotFound)
	}
	if err := params.DTLSParameters.Validate(); err != nil {
		return translate(err)
	}

	current, err := c.database.UpdateTransportInfoState(transportID, database.New, database.Connecting)
	if errors.Is(err, database.ErrTransportStateMismatch) && current != nil && current.State == database.Connected {
		return nil
	}
	if err != nil {
		return translate(fmt.Errorf("connect transport: %w", err))
	}

	ectx, cancel := c.engineContext(ctx)
	defer cancel()
	start := time.Now()
	err = info.Handle.Connect(ectx, params)
	c.metrics.ObserveEngineCall("connect_transport", start)
	if err != nil {
		if _, rerr := c.database.UpdateTransportInfoState(transportID, database.Connecting, database.New); rerr != nil {
			c.logger.Debug("failed to revert transport state", zap.String("transport_id", transportID), zap.Error(rerr))
		}
		return c.fail("connect transport", err)
	}

	if _, err := c.database.UpdateTransportInfoState(transportID, database.Connecting, database.Connected); err != nil {
		return translate(fmt.Errorf("connect transport: %w", err))
	}
	c.logger.Info("transport connected", zap.String("room_id", roomID), zap.String("transport_id", transportID))
	return nil
}
