package database

import (
	"sfu/media"
	"time"
)

// RoomInfo is a struct for room information. Router is the routing domain
// owned by the room.
type RoomInfo struct {
	ID        string
	Name      string
	Router    media.Router
	CreatedAt time.Time
}

// DeepCopy creates a copy of the given RoomInfo. The router handle is shared.
func (r *RoomInfo) DeepCopy() *RoomInfo {
	return &RoomInfo{
		ID:        r.ID,
		Name:      r.Name,
		Router:    r.Router,
		CreatedAt: r.CreatedAt,
	}
}

// Default peer roles.
const (
	RoleParticipant = "participant"
	RoleViewer      = "viewer"
)

// PeerInfo is a struct for peer information.
type PeerInfo struct {
	ID          string
	RoomID      string
	UserID      string
	DisplayName string
	Role        string
	CanProduce  bool
	JoinedAt    time.Time
}

// DeepCopy creates a deep copy of the given PeerInfo.
func (p *PeerInfo) DeepCopy() *PeerInfo {
	return &PeerInfo{
		ID:          p.ID,
		RoomID:      p.RoomID,
		UserID:      p.UserID,
		DisplayName: p.DisplayName,
		Role:        p.Role,
		CanProduce:  p.CanProduce,
		JoinedAt:    p.JoinedAt,
	}
}
