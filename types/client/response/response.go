// Package response provides data types for server response to client.
package response

import (
	"sfu/media"
	"time"
)

// Constants for response types
const (
	JOINED_ROOM         = "joined-room"
	TRANSPORT_CREATED   = "transport-created"
	TRANSPORT_CONNECTED = "transport-connected"
	PRODUCER_CREATED    = "producer-created"
	CONSUMER_CREATED    = "consumer-created"
	PRODUCER_CLOSED     = "producer-closed"
	CONSUMER_CLOSED     = "consumer-closed"
	LEFT_ROOM           = "left-room"
	ERROR               = "error"
)

// Constants for notification types
const (
	PEER_JOINED              = "peerJoined"
	PEER_LEFT                = "peerLeft"
	NEW_PRODUCER             = "newProducer"
	CONSUMER_CLOSED_NOTIFIED = "consumerClosed"
)

// Response answers exactly one request. Either Payload or Error is set.
type Response struct {
	RequestID  string `json:"request_id"`
	Type       string `json:"type"`
	StatusCode int    `json:"status_code"`
	Payload    any    `json:"payload,omitempty"`
	Error      *Error `json:"error,omitempty"`
}

// Notification is sent by the server without request.
type Notification struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// Error is data type for failed request
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
}

// Producer is a live producer listed in a roster
type Producer struct {
	ID   string     `json:"id"`
	Kind media.Kind `json:"kind"`
}

// Peer is data type for a roster entry
type Peer struct {
	ID          string     `json:"id"`
	UserID      string     `json:"userId,omitempty"`
	DisplayName string     `json:"displayName,omitempty"`
	Role        string     `json:"role"`
	CanProduce  bool       `json:"canProduce"`
	JoinedAt    time.Time  `json:"joinedAt"`
	Producers   []Producer `json:"producers"`
}

// JoinedRoom is data type for a successful join
type JoinedRoom struct {
	RoomID          string                `json:"roomId"`
	PeerID          string                `json:"peerId"`
	RTPCapabilities media.RTPCapabilities `json:"rtpCapabilities"`
	Peers           []Peer                `json:"peers"`
}

// TransportCreated is data type for a created transport
type TransportCreated struct {
	TransportID    string                `json:"transportId"`
	Direction      media.Direction       `json:"direction"`
	ICEParameters  media.ICEParameters   `json:"iceParameters"`
	ICECandidates  []media.ICECandidate  `json:"iceCandidates"`
	DTLSParameters media.DTLSParameters  `json:"dtlsParameters"`
	SCTPParameters *media.SCTPParameters `json:"sctpParameters,omitempty"`
}

// TransportConnected is data type for a connected transport
type TransportConnected struct {
	TransportID string `json:"transportId"`
}

// ProducerCreated is data type for a created producer
type ProducerCreated struct {
	ID            string              `json:"id"`
	Kind          media.Kind          `json:"kind"`
	RTPParameters media.RTPParameters `json:"rtpParameters"`
}

// ConsumerCreated is data type for a created consumer
type ConsumerCreated struct {
	ID            string              `json:"id"`
	ProducerID    string              `json:"producerId"`
	PeerID        string              `json:"peerId"`
	Kind          media.Kind          `json:"kind"`
	RTPParameters media.RTPParameters `json:"rtpParameters"`
}

// Closed is data type for a closed producer or consumer
type Closed struct {
	ID string `json:"id"`
}

// LeftRoom is data type for a successful leave
type LeftRoom struct {
	PeerID string `json:"peerId"`
}
