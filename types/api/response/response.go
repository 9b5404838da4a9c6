// Package response provides data types for server response to api client.
package response

import (
	"sfu/media"
	"sfu/types/client/response"
	"time"
)

// Health status values.
const (
	StatusOK          = "ok"
	StatusUnavailable = "unavailable"
	StatusFatal       = "fatal"
)

// Success is data type for operations without result
type Success struct {
	Success bool `json:"success"`
}

// Error is data type for failed request
type Error struct {
	Error response.Error `json:"error"`
}

// RoomSummary is data type for an entry of the room list
type RoomSummary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	PeerCount int       `json:"peerCount"`
	CreatedAt time.Time `json:"createdAt"`
}

// Rooms is data type for the room list
type Rooms struct {
	Rooms []RoomSummary `json:"rooms"`
}

// Room is data type for room info
type Room struct {
	ID              string                `json:"id"`
	Name            string                `json:"name"`
	CreatedAt       time.Time             `json:"createdAt"`
	RTPCapabilities media.RTPCapabilities `json:"rtpCapabilities"`
	Peers           []response.Peer       `json:"peers"`
}

// Health is data type for liveness
type Health struct {
	Status      string `json:"status"`
	EngineReady bool   `json:"engineReady"`
}
