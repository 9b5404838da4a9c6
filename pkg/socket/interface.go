// Package socket provides an interface for managing socket.
package socket

// Socket is an interface for managing socket. WriteJSON and Ping must not be
// called concurrently with each other.
//
//go:generate mockgen -destination=mock_socket.go -package=socket . Socket
type Socket interface {
	Close() error
	WriteJSON(data any) error
	ReadJSON(v any) error
	Ping() error
}
