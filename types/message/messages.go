// Package message provides data types for broker message. Every message is
// forwarded to signaling connections as a notification payload.
package message

import (
	"sfu/media"
	"sfu/types/client/response"
)

// PeerJoined is published when a peer joined the room
type PeerJoined struct {
	PeerID string        `json:"peerId"`
	Peer   response.Peer `json:"peer"`
}

// PeerLeft is published when a peer left the room
type PeerLeft struct {
	PeerID string `json:"peerId"`
}

// NewProducer is published when a peer started producing
type NewProducer struct {
	ProducerID string     `json:"producerId"`
	PeerID     string     `json:"peerId"`
	Kind       media.Kind `json:"kind"`
}

// ConsumerClosed is sent to the owner of a consumer closed by cascade
type ConsumerClosed struct {
	ConsumerID string `json:"consumerId"`
	ProducerID string `json:"producerId"`
}

// Type returns the notification type of the message.
func Type(msg any) (string, bool) {
	switch msg.(type) {
	case PeerJoined:
		return response.PEER_JOINED, true
	case PeerLeft:
		return response.PEER_LEFT, true
	case NewProducer:
		return response.NEW_PRODUCER, true
	case ConsumerClosed:
		return response.CONSUMER_CLOSED_NOTIFIED, true
	}
	return "", false
}
