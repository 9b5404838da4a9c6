// Package coordinator manages rooms, peers, transports, producers and consumers
// on top of the media engine.
package coordinator

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"github.com/lithammer/shortuuid/v4"
	"go.uber.org/zap"
	"sfu/broker"
	"sfu/broker/subscription"
	"sfu/database"
	"sfu/media"
	"sfu/metric"
	apiresponse "sfu/types/api/response"
	"sfu/types/client/response"
	"sfu/types/message"
	"slices"
	"sync"
	"sync/atomic"
	"time"
)

// Coordinator runs the operations of peers against the shared registry. Engine
// calls never run under a room lock, except router creation and the rollback
// of a failed join which run under the lock of their own room.
type Coordinator struct {
	config   Config
	logger   *zap.Logger
	engine   media.Engine
	broker   *broker.Broker
	database database.Database
	metrics  *metric.Metrics
	registry *Registry

	fatal     atomic.Bool
	fatalOnce sync.Once
	fatalCh   chan struct{}
}

// New creates a new instance of Coordinator.
func New(c Config, logger *zap.Logger, engine media.Engine, b *broker.Broker, db database.Database, metrics *metric.Metrics) *Coordinator {
	if c.EngineTimeout <= 0 {
		c.EngineTimeout = DefaultEngineTimeout
	}
	return &Coordinator{
		config:   c,
		logger:   logger.Named("coordinator"),
		engine:   engine,
		broker:   b,
		database: db,
		metrics:  metrics,
		registry: NewRegistry(engine, db, metrics, c.codecs(), c.EngineTimeout),
		fatalCh:  make(chan struct{}),
	}
}

// JoinRequest is the identity of a joining peer.
type JoinRequest struct {
	RoomID      string
	RoomName    string
	PeerID      string // generated when empty
	UserID      string
	DisplayName string
	Role        string // database.RoleParticipant when empty
	CanProduce  *bool  // true for participants when nil

	// Subscribe subscribes the peer to the notifications of the room.
	Subscribe bool
}

// Ready reports whether the coordinator and the media engine accept requests.
func (c *Coordinator) Ready() bool {
	return !c.fatal.Load() && c.engine.Ready()
}

// Fatal is closed when the media engine failed fatally.
func (c *Coordinator) Fatal() <-chan struct{} {
	return c.fatalCh
}

// Join registers the peer in the room, creating the room on first reference.
// The returned roster excludes the peer. When requested, the subscription to
// the room is created before any other peer can observe the join.
func (c *Coordinator) Join(ctx context.Context, req JoinRequest) (response.JoinedRoom, *subscription.Subscription, error) {
	if req.RoomID == "" {
		return response.JoinedRoom{}, nil, fmt.Errorf("empty room id: %w", ErrInvalidArgument)
	}
	if c.fatal.Load() {
		return response.JoinedRoom{}, nil, fmt.Errorf("join %s: %w", req.RoomID, ErrEngineFatal)
	}

	role := req.Role
	switch role {
	case "":
		role = database.RoleParticipant
	case database.RoleParticipant, database.RoleViewer:
	default:
		return response.JoinedRoom{}, nil, fmt.Errorf("role %q: %w", role, ErrInvalidArgument)
	}
	canProduce := role == database.RoleParticipant
	if req.CanProduce != nil {
		canProduce = *req.CanProduce
	}
	peer := &database.PeerInfo{
		ID:          req.PeerID,
		RoomID:      req.RoomID,
		UserID:      req.UserID,
		DisplayName: req.DisplayName,
		Role:        role,
		CanProduce:  canProduce,
		JoinedAt:    time.Now(),
	}
	if peer.ID == "" {
		peer.ID = shortuuid.New()
	}

	unlock, err := c.registry.Lock(ctx, req.RoomID)
	if err != nil {
		return response.JoinedRoom{}, nil, translate(fmt.Errorf("join %s: %w", req.RoomID, err))
	}
	defer unlock()

	room, created, err := c.registry.addPeer(ctx, req.RoomName, peer)
	if err != nil {
		return response.JoinedRoom{}, nil, c.fail(fmt.Sprintf("join %s as %s", req.RoomID, peer.ID), err)
	}
	if created {
		c.metrics.AddRooms(1)
		c.watchRouter(room.ID, room.Router)
		c.logger.Info("room created", zap.String("room_id", room.ID), zap.String("router_id", room.Router.ID()))
	}
	c.metrics.AddPeers(1)

	roster, err := c.roster(room.ID, peer.ID)
	if err != nil {
		c.discard(room.ID, peer.ID)
		return response.JoinedRoom{}, nil, fmt.Errorf("join %s as %s: %w", room.ID, peer.ID, err)
	}

	var sub *subscription.Subscription
	if req.Subscribe {
		sub = c.broker.Subscribe(broker.Room, broker.Detail(room.ID), peer.ID)
	}
	c.publish(room.ID, peer.ID, message.PeerJoined{PeerID: peer.ID, Peer: toPeer(peer, nil)})

	c.logger.Info("peer joined", zap.String("room_id", room.ID), zap.String("peer_id", peer.ID))
	return response.JoinedRoom{
		RoomID:          room.ID,
		PeerID:          peer.ID,
		RTPCapabilities: room.Router.RTPCapabilities(),
		Peers:           roster,
	}, sub, nil
}

// Leave removes the peer with its consumers, its producers, the consumers
// paired to them and its transports. The room is removed with its last peer.
// Leaving a peer that is already gone succeeds.
func (c *Coordinator) Leave(ctx context.Context, roomID, peerID string) error {
	unlock, err := c.registry.Lock(ctx, roomID)
	if err != nil {
		return translate(fmt.Errorf("leave %s: %w", roomID, err))
	}
	removal, err := c.registry.removePeer(roomID, peerID)
	if err != nil {
		unlock()
		return translate(fmt.Errorf("leave %s: %w", roomID, err))
	}
	if removal == nil {
		unlock()
		return nil
	}
	if err := c.broker.Unsubscribe(broker.Room, broker.Detail(roomID), peerID); err != nil && !errors.Is(err, broker.ErrNoSubscriber) {
		c.logger.Warn("failed to unsubscribe", zap.String("room_id", roomID), zap.String("peer_id", peerID), zap.Error(err))
	}
	c.publish(roomID, peerID, message.PeerLeft{PeerID: peerID})
	c.notifyConsumerClosed(roomID, peerID, removal.Consumers)
	unlock()

	c.registry.release(removal)
	c.logger.Info("peer left",
		zap.String("room_id", roomID),
		zap.String("peer_id", peerID),
		zap.Int("producers", len(removal.Producers)),
		zap.Int("consumers", len(removal.Consumers)),
		zap.Bool("room_removed", removal.Room != nil),
	)
	return nil
}

// discard removes a peer whose join failed after it was registered. The
// caller holds the lock of the room.
func (c *Coordinator) discard(roomID, peerID string) {
	removal, err := c.registry.removePeer(roomID, peerID)
	if err != nil {
		c.logger.Error("failed to discard peer", zap.String("room_id", roomID), zap.String("peer_id", peerID), zap.Error(err))
		return
	}
	if removal != nil {
		c.registry.release(removal)
	}
}

// Rooms lists the active rooms.
func (c *Coordinator) Rooms() ([]apiresponse.RoomSummary, error) {
	rooms, err := c.database.FindAllRoomInfo()
	if err != nil {
		return nil, err
	}
	summaries := make([]apiresponse.RoomSummary, 0, len(rooms))
	for _, room := range rooms {
		peers, err := c.database.FindPeerInfoByRoomID(room.ID)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, apiresponse.RoomSummary{
			ID:        room.ID,
			Name:      room.Name,
			PeerCount: len(peers),
			CreatedAt: room.CreatedAt,
		})
	}
	return summaries, nil
}

// Room returns the metadata and the full roster of the room.
func (c *Coordinator) Room(roomID string) (apiresponse.Room, error) {
	room, err := c.database.FindRoomInfoByID(roomID)
	if err != nil {
		return apiresponse.Room{}, translate(err)
	}
	roster, err := c.roster(roomID, "")
	if err != nil {
		return apiresponse.Room{}, err
	}
	return apiresponse.Room{
		ID:              room.ID,
		Name:            room.Name,
		CreatedAt:       room.CreatedAt,
		RTPCapabilities: room.Router.RTPCapabilities(),
		Peers:           roster,
	}, nil
}

// peer returns the peer of the room.
func (c *Coordinator) peer(roomID, peerID string) (*database.PeerInfo, error) {
	peer, err := c.database.FindPeerInfoByID(peerID)
	if err != nil {
		return nil, translate(err)
	}
	if peer.RoomID != roomID {
		return nil, fmt.Errorf("peer %s in room %s: %w", peerID, roomID, ErrNotFound)
	}
	return peer, nil
}

// roster returns the peers of the room with their producers, except one.
func (c *Coordinator) roster(roomID, except string) ([]response.Peer, error) {
	peers, err := c.database.FindPeerInfoByRoomID(roomID)
	if err != nil {
		return nil, err
	}
	slices.SortFunc(peers, func(a, b *database.PeerInfo) int {
		if n := a.JoinedAt.Compare(b.JoinedAt); n != 0 {
			return n
		}
		return cmp.Compare(a.ID, b.ID)
	})

	roster := make([]response.Peer, 0, len(peers))
	for _, p := range peers {
		if p.ID == except {
			continue
		}
		producers, err := c.database.FindProducerInfoByPeerID(p.ID)
		if err != nil {
			return nil, err
		}
		roster = append(roster, toPeer(p, producers))
	}
	return roster, nil
}

func toPeer(p *database.PeerInfo, producers []*database.ProducerInfo) response.Peer {
	peer := response.Peer{
		ID:          p.ID,
		UserID:      p.UserID,
		DisplayName: p.DisplayName,
		Role:        p.Role,
		CanProduce:  p.CanProduce,
		JoinedAt:    p.JoinedAt,
		Producers:   make([]response.Producer, 0, len(producers)),
	}
	for _, producer := range producers {
		peer.Producers = append(peer.Producers, response.Producer{ID: producer.ID, Kind: producer.Kind})
	}
	return peer
}

// publish sends the message to every peer of the room but one.
func (c *Coordinator) publish(roomID, except string, msg any) {
	err := c.broker.PublishExcept(broker.Room, broker.Detail(roomID), except, msg)
	if err != nil && !errors.Is(err, broker.ErrNoSubscriber) {
		c.logger.Warn("failed to publish", zap.String("room_id", roomID), zap.Error(err))
	}
}

// notifyConsumerClosed tells the owners of the consumers that they were closed.
func (c *Coordinator) notifyConsumerClosed(roomID, except string, consumers []*database.ConsumerInfo) {
	for _, info := range consumers {
		if info.PeerID == except {
			continue
		}
		err := c.broker.PublishTo(broker.Room, broker.Detail(roomID), info.PeerID, message.ConsumerClosed{
			ConsumerID: info.ID,
			ProducerID: info.ProducerID,
		})
		if err != nil && !errors.Is(err, broker.ErrNoSubscriber) {
			c.logger.Warn("failed to notify consumer closure",
				zap.String("room_id", roomID), zap.String("peer_id", info.PeerID), zap.Error(err))
		}
	}
}

// engineContext bounds an engine call.
func (c *Coordinator) engineContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, c.config.EngineTimeout)
}

// fail translates the error of the operation and marks the coordinator fatal
// when the media engine is unavailable.
func (c *Coordinator) fail(op string, err error) error {
	err = translate(err)
	if errors.Is(err, ErrEngineFatal) {
		c.setFatal(err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func (c *Coordinator) setFatal(err error) {
	c.fatalOnce.Do(func() {
		c.logger.Error("media engine failed", zap.Error(err))
		c.fatal.Store(true)
		c.registry.Refuse()
		close(c.fatalCh)
	})
}

// watchRouter treats the closure of a router whose room is still registered as fatal.
func (c *Coordinator) watchRouter(roomID string, router media.Router) {
	routerID := router.ID()
	router.OnClose(func() {
		room, err := c.database.FindRoomInfoByID(roomID)
		if err != nil || room.Router == nil || room.Router.ID() != routerID {
			return
		}
		c.setFatal(fmt.Errorf("router %s of room %s closed: %w", routerID, roomID, ErrEngineFatal))
	})
}
