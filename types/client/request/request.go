// Package request defines structures for client request messages.
package request

import (
	"encoding/json"
	"sfu/media"
)

// Constants for request types
const (
	JOIN_ROOM         = "join-room"
	CREATE_TRANSPORT  = "create-transport"
	CONNECT_TRANSPORT = "connect-transport"
	PRODUCE           = "produce"
	CONSUME           = "consume"
	CLOSE_PRODUCER    = "close-producer"
	CLOSE_CONSUMER    = "close-consumer"
	LEAVE_ROOM        = "leave-room"
)

// Common represents a generic request structure used in WebSocket communication.
// RequestID is echoed in the response.
type Common struct {
	RequestID string          `json:"request_id"`
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload"`
}

// JoinRoom is data type for joining a room
type JoinRoom struct {
	RoomID      string `json:"roomId"`
	RoomName    string `json:"roomName,omitempty"`
	PeerID      string `json:"peerId,omitempty"`
	UserID      string `json:"userId,omitempty"`
	DisplayName string `json:"displayName,omitempty"`
	Role        string `json:"role,omitempty"`
	CanProduce  *bool  `json:"canProduce,omitempty"`
}

// CreateTransport is data type for creating a transport
type CreateTransport struct {
	Direction string `json:"direction"`
}

// ConnectTransport is data type for finalizing the handshake of a transport
type ConnectTransport struct {
	TransportID    string               `json:"transportId"`
	DTLSParameters media.DTLSParameters `json:"dtlsParameters"`
	ICEParameters  *media.ICEParameters `json:"iceParameters,omitempty"`
}

// Produce is data type for publishing a stream
type Produce struct {
	Kind          string              `json:"kind"`
	RTPParameters media.RTPParameters `json:"rtpParameters"`
}

// Consume is data type for subscribing to a producer
type Consume struct {
	ProducerID      string                `json:"producerId"`
	RTPCapabilities media.RTPCapabilities `json:"rtpCapabilities"`
}

// CloseProducer is data type for closing a producer
type CloseProducer struct {
	ProducerID string `json:"producerId"`
}

// CloseConsumer is data type for closing a consumer
type CloseConsumer struct {
	ConsumerID string `json:"consumerId"`
}
