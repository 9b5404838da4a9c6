// Package request contains api request type
package request

import "sfu/media"

// JoinRoom is type of join request. The room id is taken from the path.
type JoinRoom struct {
	PeerID      string `json:"peerId"`
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
	Role        string `json:"role"`
	CanProduce  *bool  `json:"canProduce"`
	RoomName    string `json:"roomName"`
}

// CreateTransport is type of transport creation request
type CreateTransport struct {
	PeerID    string `json:"peerId" binding:"required"`
	Direction string `json:"direction" binding:"required"`
}

// ConnectTransport is type of transport connection request. PeerID is
// optional and restricts the request to the transports of the peer.
type ConnectTransport struct {
	PeerID         string               `json:"peerId"`
	DTLSParameters media.DTLSParameters `json:"dtlsParameters"`
	ICEParameters  *media.ICEParameters `json:"iceParameters"`
}

// Produce is type of produce request
type Produce struct {
	PeerID        string              `json:"peerId" binding:"required"`
	Kind          string              `json:"kind" binding:"required"`
	RTPParameters media.RTPParameters `json:"rtpParameters"`
}

// Consume is type of consume request
type Consume struct {
	PeerID          string                `json:"peerId" binding:"required"`
	ProducerID      string                `json:"producerId" binding:"required"`
	RTPCapabilities media.RTPCapabilities `json:"rtpCapabilities"`
}

// Close is type of optional body of close requests
type Close struct {
	PeerID string `json:"peerId"`
}
