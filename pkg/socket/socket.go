// Package socket provides an interface for managing socket.
package socket

import (
	"github.com/gorilla/websocket"
	"net/http"
	"time"
)

// Default values for socket options.
const (
	DefaultMaxMessageSize = 64 << 10
	DefaultPongWait       = 60 * time.Second
	DefaultWriteWait      = 10 * time.Second
)

// Options bounds the messages and the liveness of a connection.
type Options struct {
	MaxMessageSize int64
	PongWait       time.Duration
	WriteWait      time.Duration
}

// PingPeriod returns the interval of pings, shorter than the pong wait.
func (o Options) PingPeriod() time.Duration {
	return o.pongWait() * 9 / 10
}

func (o Options) pongWait() time.Duration {
	if o.PongWait <= 0 {
		return DefaultPongWait
	}
	return o.PongWait
}

func (o Options) writeWait() time.Duration {
	if o.WriteWait <= 0 {
		return DefaultWriteWait
	}
	return o.WriteWait
}

// WebSocket wraps the gorilla/websocket connection.
type WebSocket struct {
	conn    *websocket.Conn
	options Options
}

// New creates a new WebSocket connection by upgrading the HTTP request. The
// read deadline is extended on every pong.
func New(w http.ResponseWriter, r *http.Request, options Options) (*WebSocket, error) {
	ug := websocket.Upgrader{
		CheckOrigin: func(_ *http.Request) bool {
			return true
		},
	}

	conn, err := ug.Upgrade(w, r, nil)
	if err != nil {
		return nil, err
	}

	maxSize := options.MaxMessageSize
	if maxSize <= 0 {
		maxSize = DefaultMaxMessageSize
	}
	conn.SetReadLimit(maxSize)
	pongWait := options.pongWait()
	if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		_ = conn.Close()
		return nil, err
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	return &WebSocket{
		conn:    conn,
		options: options,
	}, nil
}

// Close closes the WebSocket connection.
func (s *WebSocket) Close() error {
	return s.conn.Close()
}

// WriteJSON sends a JSON message to the WebSocket connection.
func (s *WebSocket) WriteJSON(data any) error {
	if err := s.conn.SetWriteDeadline(time.Now().Add(s.options.writeWait())); err != nil {
		return err
	}
	return s.conn.WriteJSON(data)
}

// ReadJSON reads a JSON message from the WebSocket connection and unmarshals it into the provided variable.
func (s *WebSocket) ReadJSON(v any) error {
	return s.conn.ReadJSON(v)
}

// Ping sends a ping control message.
func (s *WebSocket) Ping() error {
	return s.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(s.options.writeWait()))
}

// IsClosed reports whether the error is a normal closure of the peer.
func IsClosed(err error) bool {
	return websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived)
}
