package database

import (
	"sfu/media"
	"time"
)

// TransportState is the handshake state of a transport.
type TransportState int

const (
	// New is the state of a created transport.
	New TransportState = iota

	// Connecting is the state while the engine finalizes the handshake.
	Connecting

	// Connected is the state once the engine accepted the remote parameters.
	Connected

	// Closed is the terminal state of a transport removed by teardown.
	Closed
)

// String returns the name of the state.
func (s TransportState) String() string {
	switch s {
	case New:
		return "new"
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	case Closed:
		return "closed"
	}
	return "unknown"
}

// TransportInfo is a struct for transport information.
type TransportInfo struct {
	ID         string
	RoomID     string
	PeerID     string
	Direction  media.Direction
	State      TransportState
	Parameters media.TransportParameters
	Handle     media.Transport
	CreatedAt  time.Time
}

// IsConnected returns whether the transport handshake is finalized.
func (t *TransportInfo) IsConnected() bool {
	return t.State == Connected
}

// DeepCopy creates a copy of the given TransportInfo. Parameters are never
// modified after creation and are shared.
func (t *TransportInfo) DeepCopy() *TransportInfo {
	copied := *t
	return &copied
}
