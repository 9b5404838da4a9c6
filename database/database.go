// Package database provides an interface for the registry of rooms, peers,
// transports, producers and consumers.
package database

import (
	"errors"
	"sfu/media"
)

var (
	// ErrRoomNotFound is returned when the room is not found.
	ErrRoomNotFound = errors.New("room not found")

	// ErrPeerNotFound is returned when the peer is not found.
	ErrPeerNotFound = errors.New("peer not found")

	// ErrTransportNotFound is returned when the transport is not found.
	ErrTransportNotFound = errors.New("transport not found")

	// ErrProducerNotFound is returned when the producer is not found.
	ErrProducerNotFound = errors.New("producer not found")

	// ErrConsumerNotFound is returned when the consumer is not found.
	ErrConsumerNotFound = errors.New("consumer not found")

	// ErrPeerAlreadyExists is returned when the peer id is already registered.
	ErrPeerAlreadyExists = errors.New("peer already exists")

	// ErrTransportAlreadyExists is returned when the peer already has a transport of the direction.
	ErrTransportAlreadyExists = errors.New("transport already exists")

	// ErrTransportStateMismatch is returned when the transport is not in the expected state.
	ErrTransportStateMismatch = errors.New("transport state mismatch")

	// ErrRoomMismatch is returned when the room of a new peer does not match the given room.
	ErrRoomMismatch = errors.New("room mismatch")
)

// Database is an interface for registry operations. Every method runs in a
// single transaction, so readers never observe a partial change.
type Database interface {
	FindRoomInfoByID(roomID string) (*RoomInfo, error)
	FindAllRoomInfo() ([]*RoomInfo, error)

	CreatePeerInfo(room *RoomInfo, peer *PeerInfo) error
	FindPeerInfoByID(peerID string) (*PeerInfo, error)
	FindPeerInfoByRoomID(roomID string) ([]*PeerInfo, error)
	DeletePeerInfo(peerID string) (*Removal, error)

	CreateTransportInfo(info *TransportInfo) error
	FindTransportInfoByID(transportID string) (*TransportInfo, error)
	FindTransportInfoByDirection(peerID string, direction media.Direction) (*TransportInfo, error)
	UpdateTransportInfoState(transportID string, from, to TransportState) (*TransportInfo, error)

	CreateProducerInfo(info *ProducerInfo) (*Removal, error)
	FindProducerInfoByID(producerID string) (*ProducerInfo, error)
	FindProducerInfoByPeerID(peerID string) ([]*ProducerInfo, error)
	DeleteProducerInfo(producerID string) (*Removal, error)

	CreateConsumerInfo(info *ConsumerInfo) error
	FindConsumerInfoByID(consumerID string) (*ConsumerInfo, error)
	FindConsumerInfoByPeerID(peerID string) ([]*ConsumerInfo, error)
	FindConsumerInfoByProducerID(producerID string) ([]*ConsumerInfo, error)
	DeleteConsumerInfo(consumerID string) (*ConsumerInfo, error)
}

// Removal contains the records removed by one transaction. Room is set only
// when the room itself was removed.
type Removal struct {
	Room       *RoomInfo
	Peer       *PeerInfo
	Transports []*TransportInfo
	Producers  []*ProducerInfo
	Consumers  []*ConsumerInfo
}

// Empty reports whether nothing was removed.
func (r *Removal) Empty() bool {
	return r == nil || (r.Room == nil && r.Peer == nil && len(r.Transports) == 0 &&
		len(r.Producers) == 0 && len(r.Consumers) == 0)
}
