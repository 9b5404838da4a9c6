package database

import (
	"sfu/media"
	"time"
)

// ProducerInfo is a struct for producer information.
type ProducerInfo struct {
	ID            string
	RoomID        string
	PeerID        string
	TransportID   string
	Kind          media.Kind
	RTPParameters media.RTPParameters
	Handle        media.Producer
	CreatedAt     time.Time
}

// DeepCopy creates a copy of the given ProducerInfo.
func (p *ProducerInfo) DeepCopy() *ProducerInfo {
	copied := *p
	return &copied
}

// ConsumerInfo is a struct for consumer information. ProducerPeerID is the
// owner of the consumed producer.
type ConsumerInfo struct {
	ID             string
	RoomID         string
	PeerID         string
	TransportID    string
	ProducerID     string
	ProducerPeerID string
	Kind           media.Kind
	RTPParameters  media.RTPParameters
	Handle         media.Consumer
	CreatedAt      time.Time
}

// DeepCopy creates a copy of the given ConsumerInfo.
func (c *ConsumerInfo) DeepCopy() *ConsumerInfo {
	copied := *c
	return &copied
}
