// Package client contains a signaling client of the sfu.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"sfu/media"
	"sfu/types/client/request"
	"sfu/types/client/response"
	"sync"
	"time"
)

// Default values of the client.
const (
	DefaultTimeout       = 10 * time.Second
	notificationCapacity = 64
)

// Below is the error list of the client.
var (
	ErrTimeout = errors.New("request timed out")
	ErrClosed  = errors.New("client is closed")
)

// Error is a failed response of the server.
type Error struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s (%d)", e.Code, e.StatusCode)
	}
	return fmt.Sprintf("%s (%d): %s", e.Code, e.StatusCode, e.Message)
}

// Notification is a message the server sent without request.
type Notification struct {
	Type    string
	Payload json.RawMessage
}

// envelope is any message of the server.
type envelope struct {
	RequestID  string          `json:"request_id"`
	Type       string          `json:"type"`
	StatusCode int             `json:"status_code"`
	Payload    json.RawMessage `json:"payload"`
	Error      *response.Error `json:"error"`
}

// Client sends requests over one signaling connection and correlates the
// responses by request id.
type Client struct {
	conn    *websocket.Conn
	timeout time.Duration

	writeMu sync.Mutex

	mu      sync.Mutex
	pending map[string]chan envelope
	closed  bool

	notifications chan Notification
	done          chan struct{}
}

// Dial connects to the signaling url, e.g. ws://localhost:7070/ws. A zero
// timeout uses DefaultTimeout.
func Dial(ctx context.Context, url string, timeout time.Duration) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to dial: %w", err)
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	c := &Client{
		conn:          conn,
		timeout:       timeout,
		pending:       make(map[string]chan envelope),
		notifications: make(chan Notification, notificationCapacity),
		done:          make(chan struct{}),
	}
	go c.read()
	return c, nil
}

// Notifications returns the notifications of the server. Notifications are
// dropped while the channel is full. It is closed with the connection.
func (c *Client) Notifications() <-chan Notification {
	return c.notifications
}

// Close closes the connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

// Done is closed when the connection is closed.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

func (c *Client) read() {
	defer func() {
		c.mu.Lock()
		c.closed = true
		c.pending = make(map[string]chan envelope)
		c.mu.Unlock()
		close(c.notifications)
		close(c.done)
	}()

	for {
		var msg envelope
		if err := c.conn.ReadJSON(&msg); err != nil {
			return
		}
		if msg.RequestID == "" && msg.StatusCode == 0 {
			select {
			case c.notifications <- Notification{Type: msg.Type, Payload: msg.Payload}:
			default:
			}
			continue
		}

		c.mu.Lock()
		future, ok := c.pending[msg.RequestID]
		delete(c.pending, msg.RequestID)
		c.mu.Unlock()
		if ok {
			future <- msg
		}
	}
}

// Request sends the request and decodes the payload of its response into out.
// It fails with ErrTimeout when no response arrives in time. A late response
// is dropped.
func (c *Client) Request(ctx context.Context, typ string, payload, out any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}
	id := uuid.NewString()
	future := make(chan envelope, 1)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	c.pending[id] = future
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		delete(c.pending, id)
		c.mu.Unlock()
	}()

	c.writeMu.Lock()
	err = c.conn.WriteJSON(request.Common{RequestID: id, Type: typ, Payload: raw})
	c.writeMu.Unlock()
	if err != nil {
		return fmt.Errorf("failed to send %s: %w", typ, err)
	}

	timer := time.NewTimer(c.timeout)
	defer timer.Stop()

	select {
	case res := <-future:
		if res.Error != nil {
			return &Error{StatusCode: res.StatusCode, Code: res.Error.Code, Message: res.Error.Message}
		}
		if out == nil {
			return nil
		}
		if err := json.Unmarshal(res.Payload, out); err != nil {
			return fmt.Errorf("failed to unmarshal %s: %w", res.Type, err)
		}
		return nil
	case <-timer.C:
		return fmt.Errorf("%s %s: %w", typ, id, ErrTimeout)
	case <-c.done:
		return fmt.Errorf("%s: %w", typ, ErrClosed)
	case <-ctx.Done():
		return ctx.Err()
	}
}

// JoinRoom joins the room.
func (c *Client) JoinRoom(ctx context.Context, req request.JoinRoom) (response.JoinedRoom, error) {
	var res response.JoinedRoom
	err := c.Request(ctx, request.JOIN_ROOM, req, &res)
	return res, err
}

// CreateTransport creates a transport of the direction.
func (c *Client) CreateTransport(ctx context.Context, direction media.Direction) (response.TransportCreated, error) {
	var res response.TransportCreated
	err := c.Request(ctx, request.CREATE_TRANSPORT, request.CreateTransport{Direction: string(direction)}, &res)
	return res, err
}

// ConnectTransport finalizes the handshake of the transport.
func (c *Client) ConnectTransport(ctx context.Context, transportID string, params media.ConnectParameters) error {
	return c.Request(ctx, request.CONNECT_TRANSPORT, request.ConnectTransport{
		TransportID:    transportID,
		DTLSParameters: params.DTLSParameters,
		ICEParameters:  params.ICEParameters,
	}, nil)
}

// Produce publishes a stream of the kind on the send transport.
func (c *Client) Produce(ctx context.Context, kind media.Kind, params media.RTPParameters) (response.ProducerCreated, error) {
	var res response.ProducerCreated
	err := c.Request(ctx, request.PRODUCE, request.Produce{Kind: string(kind), RTPParameters: params}, &res)
	return res, err
}

// Consume subscribes to the producer on the receive transport.
func (c *Client) Consume(ctx context.Context, producerID string, caps media.RTPCapabilities) (response.ConsumerCreated, error) {
	var res response.ConsumerCreated
	err := c.Request(ctx, request.CONSUME, request.Consume{ProducerID: producerID, RTPCapabilities: caps}, &res)
	return res, err
}

// CloseProducer closes an own producer.
func (c *Client) CloseProducer(ctx context.Context, producerID string) error {
	return c.Request(ctx, request.CLOSE_PRODUCER, request.CloseProducer{ProducerID: producerID}, nil)
}

// CloseConsumer closes an own consumer.
func (c *Client) CloseConsumer(ctx context.Context, consumerID string) error {
	return c.Request(ctx, request.CLOSE_CONSUMER, request.CloseConsumer{ConsumerID: consumerID}, nil)
}

// LeaveRoom leaves the room. The connection stays open.
func (c *Client) LeaveRoom(ctx context.Context) error {
	return c.Request(ctx, request.LEAVE_ROOM, struct{}{}, nil)
}
