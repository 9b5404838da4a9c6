package coordinator

import (
	"context"
	"errors"
	"fmt"
	"sfu/database"
	"sfu/media"
	"sfu/metric"
	"sfu/pool"
	"sync/atomic"
	"time"
)

// Registry is the table of active rooms. A room is registered together with
// its first peer and removed in the same transaction as its last one. Every
// room is guarded by its own lock.
type Registry struct {
	engine   media.Engine
	database database.Database
	metrics  *metric.Metrics
	locks    *pool.Pool
	codecs   []media.Codec
	timeout  time.Duration
	refused  atomic.Bool
}

// NewRegistry creates a new Registry whose routers are created with the codecs.
func NewRegistry(engine media.Engine, db database.Database, metrics *metric.Metrics, codecs []media.Codec, timeout time.Duration) *Registry {
	return &Registry{
		engine:   engine,
		database: db,
		metrics:  metrics,
		locks:    pool.New(),
		codecs:   codecs,
		timeout:  timeout,
	}
}

// Lock locks the room and returns the function that unlocks it. Waiting for
// the room ends with the context.
func (r *Registry) Lock(ctx context.Context, roomID string) (unlock func(), err error) {
	unlock, err = r.locks.LockContext(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("lock room %s: %w", roomID, err)
	}
	return unlock, nil
}

// Refuse makes the registry refuse new rooms.
func (r *Registry) Refuse() {
	r.refused.Store(true)
}

// getOrCreateRoom returns the registered room or a new room with a fresh
// router. created reports that the room is not registered yet. The caller
// holds the room lock.
func (r *Registry) getOrCreateRoom(ctx context.Context, roomID, name string) (room *database.RoomInfo, created bool, err error) {
	room, err = r.database.FindRoomInfoByID(roomID)
	if err == nil {
		return room, false, nil
	}
	if !errors.Is(err, database.ErrRoomNotFound) {
		return nil, false, err
	}
	if r.refused.Load() {
		return nil, false, fmt.Errorf("room %s refused: %w", roomID, ErrEngineFatal)
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	start := time.Now()
	router, err := r.engine.CreateRouter(ctx, r.codecs)
	r.metrics.ObserveEngineCall("create_router", start)
	if err != nil {
		return nil, false, fmt.Errorf("create router of %s: %w", roomID, err)
	}

	if name == "" {
		name = roomID
	}
	return &database.RoomInfo{
		ID:        roomID,
		Name:      name,
		Router:    router,
		CreatedAt: time.Now(),
	}, true, nil
}

// addPeer registers the peer, creating its room on first reference. The
// caller holds the room lock.
func (r *Registry) addPeer(ctx context.Context, roomName string, peer *database.PeerInfo) (room *database.RoomInfo, created bool, err error) {
	if _, err := r.database.FindPeerInfoByID(peer.ID); err == nil {
		return nil, false, fmt.Errorf("%s: %w", peer.ID, ErrDuplicatePeer)
	}

	room, created, err = r.getOrCreateRoom(ctx, peer.RoomID, roomName)
	if err != nil {
		return nil, false, err
	}
	if err := r.database.CreatePeerInfo(room, peer); err != nil {
		if created {
			_ = room.Router.Close()
		}
		return nil, false, err
	}
	return room, created, nil
}

// removePeer removes the peer with everything it owns. It returns nil when
// the peer is already removed. The caller holds the room lock.
func (r *Registry) removePeer(roomID, peerID string) (*database.Removal, error) {
	peer, err := r.database.FindPeerInfoByID(peerID)
	if errors.Is(err, database.ErrPeerNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if peer.RoomID != roomID {
		return nil, fmt.Errorf("peer %s in room %s: %w", peerID, roomID, ErrNotFound)
	}
	return r.database.DeletePeerInfo(peerID)
}

// release closes the engine handles of the removed records, the room router last.
func (r *Registry) release(removal *database.Removal) {
	if removal.Empty() {
		return
	}
	for _, info := range removal.Consumers {
		if info.Handle != nil {
			_ = info.Handle.Close()
		}
	}
	for _, info := range removal.Producers {
		if info.Handle != nil {
			_ = info.Handle.Close()
		}
	}
	for _, info := range removal.Transports {
		if info.Handle != nil {
			_ = info.Handle.Close()
		}
	}
	if removal.Room != nil && removal.Room.Router != nil {
		_ = removal.Room.Router.Close()
	}

	r.metrics.AddConsumers(-len(removal.Consumers))
	r.metrics.AddProducers(-len(removal.Producers))
	r.metrics.AddTransports(-len(removal.Transports))
	if removal.Peer != nil {
		r.metrics.AddPeers(-1)
	}
	if removal.Room != nil {
		r.metrics.AddRooms(-1)
	}
}
