package controller

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"sfu/broker/subscription"
	"sfu/coordinator"
	"sfu/media"
	"sfu/pkg/socket"
	"sfu/types/client/request"
	"sfu/types/client/response"
	"sfu/types/message"
	"sync"
	"time"
)

// outboundSize is the number of messages queued for the writer.
const outboundSize = 64

type state int

// Connection states. Joined is entered with join-room, Active with the first transport.
const (
	stateConnected state = iota
	stateJoined
	stateActive
	stateDisconnected
)

func (s state) joined() bool {
	return s == stateJoined || s == stateActive
}

// session is the state of one signaling connection. Requests run
// concurrently and every message is written by a single writer.
type session struct {
	controller *Controller
	conn       socket.Socket
	logger     *zap.Logger
	limiter    *rate.Limiter

	mu      sync.Mutex
	state   state
	joining bool
	roomID  string
	peerID  string

	outbound chan any
	done     chan struct{}
	written  chan struct{}
	wg       sync.WaitGroup
}

func newSession(c *Controller, conn socket.Socket) *session {
	return &session{
		controller: c,
		conn:       conn,
		logger:     c.logger,
		limiter:    c.options.limiter(),
		outbound:   make(chan any, outboundSize),
		done:       make(chan struct{}),
		written:    make(chan struct{}),
	}
}

// write writes the outbound messages and pings the connection until the
// session is disconnected. A failed write closes the connection so the reader
// stops too.
func (s *session) write() {
	defer close(s.written)
	ticker := time.NewTicker(s.controller.options.Socket.PingPeriod())
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case msg := <-s.outbound:
			if err := s.conn.WriteJSON(msg); err != nil {
				s.logger.Debug("failed to write message", zap.Error(err))
				_ = s.conn.Close()
				return
			}
		case <-ticker.C:
			if err := s.conn.Ping(); err != nil {
				s.logger.Debug("failed to ping", zap.Error(err))
				_ = s.conn.Close()
				return
			}
		}
	}
}

// send queues the message for the writer. It is discarded after disconnect.
func (s *session) send(msg any) {
	select {
	case s.outbound <- msg:
	case <-s.done:
	}
}

// read dispatches the requests of the connection until it fails. Malformed
// and rate limited requests are answered without closing the connection.
func (s *session) read() error {
	for {
		var req request.Common
		if err := s.conn.ReadJSON(&req); err != nil {
			var syntaxErr *json.SyntaxError
			var typeErr *json.UnmarshalTypeError
			if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
				s.reply(req, nil, fmt.Errorf("%w: %w", ErrBadRequest, err))
				continue
			}
			if socket.IsClosed(err) {
				return nil
			}
			return fmt.Errorf("failed to read request: %w", err)
		}
		if !s.limiter.Allow() {
			s.reply(req, nil, ErrRateLimited)
			continue
		}

		s.wg.Add(1)
		go s.handle(req)
	}
}

// disconnect marks the session disconnected and removes its peer. A join
// still in flight removes its peer itself.
func (s *session) disconnect() {
	s.mu.Lock()
	joined := s.state.joined()
	roomID, peerID := s.roomID, s.peerID
	s.state = stateDisconnected
	s.mu.Unlock()

	close(s.done)
	if joined {
		s.leave(roomID, peerID)
	}
}

// wait waits for the requests in flight and the writer.
func (s *session) wait() {
	s.wg.Wait()
	<-s.written
}

// leave removes the peer of a disconnected session. It waits for the room
// without deadline so that the peer is always removed.
func (s *session) leave(roomID, peerID string) {
	if err := s.controller.coordinator.Leave(context.Background(), roomID, peerID); err != nil {
		s.logger.Warn("failed to leave disconnected peer",
			zap.String("room_id", roomID),
			zap.String("peer_id", peerID),
			zap.Error(err),
		)
	}
}

// joined returns the room and the peer of the session when it is in one of the states.
func (s *session) joined(states ...state) (string, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, st := range states {
		if s.state == st {
			return s.roomID, s.peerID, nil
		}
	}
	return "", "", fmt.Errorf("connection is not in state for request: %w", coordinator.ErrInvalidState)
}

// handle runs the request under the request timeout and replies to it.
func (s *session) handle(req request.Common) {
	defer s.wg.Done()
	ctx, cancel := context.WithTimeout(context.Background(), s.controller.options.requestTimeout())
	defer cancel()

	var (
		payload any
		sub     *subscription.Subscription
		err     error
	)
	switch req.Type {
	case request.JOIN_ROOM:
		payload, sub, err = s.joinRoom(ctx, req.Payload)
	case request.CREATE_TRANSPORT:
		payload, err = s.createTransport(ctx, req.Payload)
	case request.CONNECT_TRANSPORT:
		payload, err = s.connectTransport(ctx, req.Payload)
	case request.PRODUCE:
		payload, err = s.produce(ctx, req.Payload)
	case request.CONSUME:
		payload, err = s.consume(ctx, req.Payload)
	case request.CLOSE_PRODUCER:
		payload, err = s.closeProducer(ctx, req.Payload)
	case request.CLOSE_CONSUMER:
		payload, err = s.closeConsumer(ctx, req.Payload)
	case request.LEAVE_ROOM:
		payload, err = s.leaveRoom(ctx)
	default:
		err = fmt.Errorf("request type %q: %w", req.Type, ErrBadRequest)
	}
	s.reply(req, payload, err)

	if sub != nil {
		s.wg.Add(1)
		go s.forward(sub)
	}
}

// reply answers the request with the payload or the error.
func (s *session) reply(req request.Common, payload any, err error) {
	code, status := Status(err)
	s.controller.metric.CountRequest(requestLabel(req.Type), code)

	res := response.Response{
		RequestID:  req.RequestID,
		StatusCode: status,
	}
	if err != nil {
		res.Type = response.ERROR
		res.Error, _ = toError(err, s.controller.options.Debug)
		s.logger.Debug("request failed",
			zap.String("request_id", req.RequestID),
			zap.String("type", req.Type),
			zap.String("code", code),
			zap.Error(err),
		)
	} else {
		res.Type = responseType(req.Type)
		res.Payload = payload
	}
	s.send(res)
}

// forward sends the notifications of the room until the subscription is closed.
func (s *session) forward(sub *subscription.Subscription) {
	defer s.wg.Done()
	for {
		select {
		case <-s.done:
			return
		case msg, ok := <-sub.Receive():
			if !ok {
				return
			}
			typ, ok := message.Type(msg)
			if !ok {
				s.logger.Warn("unknown notification", zap.Any("message", msg))
				continue
			}
			s.send(response.Notification{Type: typ, Payload: msg})
		}
	}
}

func responseType(requestType string) string {
	switch requestType {
	case request.JOIN_ROOM:
		return response.JOINED_ROOM
	case request.CREATE_TRANSPORT:
		return response.TRANSPORT_CREATED
	case request.CONNECT_TRANSPORT:
		return response.TRANSPORT_CONNECTED
	case request.PRODUCE:
		return response.PRODUCER_CREATED
	case request.CONSUME:
		return response.CONSUMER_CREATED
	case request.CLOSE_PRODUCER:
		return response.PRODUCER_CLOSED
	case request.CLOSE_CONSUMER:
		return response.CONSUMER_CLOSED
	case request.LEAVE_ROOM:
		return response.LEFT_ROOM
	}
	return response.ERROR
}

// requestLabel returns the metric label of the request type. Types sent by
// clients outside the protocol share one label.
func requestLabel(requestType string) string {
	if responseType(requestType) == response.ERROR {
		return "unknown"
	}
	return requestType
}

func decode(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		return fmt.Errorf("empty payload: %w", ErrBadRequest)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	return nil
}

// joinRoom joins the room. When the connection drops during the join, the
// joined peer leaves again.
func (s *session) joinRoom(ctx context.Context, raw json.RawMessage) (any, *subscription.Subscription, error) {
	var p request.JoinRoom
	if err := decode(raw, &p); err != nil {
		return nil, nil, err
	}

	s.mu.Lock()
	if s.state != stateConnected || s.joining {
		s.mu.Unlock()
		return nil, nil, fmt.Errorf("already joined: %w", coordinator.ErrInvalidState)
	}
	s.joining = true
	s.mu.Unlock()

	joined, sub, err := s.controller.coordinator.Join(ctx, coordinator.JoinRequest{
		RoomID:      p.RoomID,
		RoomName:    p.RoomName,
		PeerID:      p.PeerID,
		UserID:      p.UserID,
		DisplayName: p.DisplayName,
		Role:        p.Role,
		CanProduce:  p.CanProduce,
		Subscribe:   true,
	})

	s.mu.Lock()
	s.joining = false
	if err != nil {
		s.mu.Unlock()
		return nil, nil, err
	}
	if s.state == stateDisconnected {
		s.mu.Unlock()
		s.leave(joined.RoomID, joined.PeerID)
		return nil, nil, ErrDisconnected
	}
	s.state = stateJoined
	s.roomID, s.peerID = joined.RoomID, joined.PeerID
	s.mu.Unlock()

	s.logger.Debug("peer joined over signaling", zap.String("room_id", joined.RoomID), zap.String("peer_id", joined.PeerID))
	return joined, sub, nil
}

func (s *session) createTransport(ctx context.Context, raw json.RawMessage) (any, error) {
	var p request.CreateTransport
	if err := decode(raw, &p); err != nil {
		return nil, err
	}
	direction, err := media.ParseDirection(p.Direction)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	roomID, peerID, err := s.joined(stateJoined, stateActive)
	if err != nil {
		return nil, err
	}

	created, err := s.controller.coordinator.CreateTransport(ctx, roomID, peerID, direction)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.state == stateJoined && s.peerID == peerID {
		s.state = stateActive
	}
	s.mu.Unlock()
	return created, nil
}

func (s *session) connectTransport(ctx context.Context, raw json.RawMessage) (any, error) {
	var p request.ConnectTransport
	if err := decode(raw, &p); err != nil {
		return nil, err
	}
	roomID, peerID, err := s.joined(stateActive)
	if err != nil {
		return nil, err
	}

	params := media.ConnectParameters{DTLSParameters: p.DTLSParameters, ICEParameters: p.ICEParameters}
	if err := s.controller.coordinator.ConnectTransport(ctx, roomID, peerID, p.TransportID, params); err != nil {
		return nil, err
	}
	return response.TransportConnected{TransportID: p.TransportID}, nil
}

func (s *session) produce(ctx context.Context, raw json.RawMessage) (any, error) {
	var p request.Produce
	if err := decode(raw, &p); err != nil {
		return nil, err
	}
	kind, err := media.ParseKind(p.Kind)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	roomID, peerID, err := s.joined(stateJoined, stateActive)
	if err != nil {
		return nil, err
	}
	return s.controller.coordinator.Produce(ctx, roomID, peerID, kind, p.RTPParameters)
}

func (s *session) consume(ctx context.Context, raw json.RawMessage) (any, error) {
	var p request.Consume
	if err := decode(raw, &p); err != nil {
		return nil, err
	}
	roomID, peerID, err := s.joined(stateJoined, stateActive)
	if err != nil {
		return nil, err
	}
	return s.controller.coordinator.Consume(ctx, roomID, peerID, p.ProducerID, p.RTPCapabilities)
}

func (s *session) closeProducer(ctx context.Context, raw json.RawMessage) (any, error) {
	var p request.CloseProducer
	if err := decode(raw, &p); err != nil {
		return nil, err
	}
	roomID, peerID, err := s.joined(stateJoined, stateActive)
	if err != nil {
		return nil, err
	}
	if err := s.controller.coordinator.CloseProducer(ctx, roomID, peerID, p.ProducerID); err != nil {
		return nil, err
	}
	return response.Closed{ID: p.ProducerID}, nil
}

func (s *session) closeConsumer(ctx context.Context, raw json.RawMessage) (any, error) {
	var p request.CloseConsumer
	if err := decode(raw, &p); err != nil {
		return nil, err
	}
	roomID, peerID, err := s.joined(stateJoined, stateActive)
	if err != nil {
		return nil, err
	}
	if err := s.controller.coordinator.CloseConsumer(ctx, roomID, peerID, p.ConsumerID); err != nil {
		return nil, err
	}
	return response.Closed{ID: p.ConsumerID}, nil
}

// leaveRoom leaves the room and returns the connection to the connected state.
func (s *session) leaveRoom(ctx context.Context) (any, error) {
	roomID, peerID, err := s.joined(stateJoined, stateActive)
	if err != nil {
		return nil, err
	}
	if err := s.controller.coordinator.Leave(ctx, roomID, peerID); err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.state.joined() && s.peerID == peerID {
		s.state = stateConnected
		s.roomID, s.peerID = "", ""
	}
	s.mu.Unlock()
	return response.LeftRoom{PeerID: peerID}, nil
}
