package memory_test

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"sfu/database"
	"sfu/database/memory"
	"sfu/media"
	"testing"
	"time"
)

func room(id string) *database.RoomInfo {
	return &database.RoomInfo{ID: id, Name: id, CreatedAt: time.Now()}
}

func peer(roomID, id string) *database.PeerInfo {
	return &database.PeerInfo{ID: id, RoomID: roomID, Role: database.RoleParticipant, CanProduce: true, JoinedAt: time.Now()}
}

// connect registers a connected transport of the direction for the peer.
func connect(t *testing.T, db *memory.DB, roomID, peerID string, direction media.Direction) string {
	t.Helper()
	id := peerID + "-" + string(direction)
	require.NoError(t, db.CreateTransportInfo(&database.TransportInfo{
		ID: id, RoomID: roomID, PeerID: peerID, Direction: direction, State: database.New,
	}))
	_, err := db.UpdateTransportInfoState(id, database.New, database.Connected)
	require.NoError(t, err)
	return id
}

func TestPeerInfo(t *testing.T) {
	t.Run("given new room when first peer is created then room is registered with it", func(t *testing.T) {
		db := memory.New()
		require.NoError(t, db.CreatePeerInfo(room("r1"), peer("r1", "a")))

		info, err := db.FindRoomInfoByID("r1")
		require.NoError(t, err)
		assert.Equal(t, "r1", info.ID)

		peers, err := db.FindPeerInfoByRoomID("r1")
		require.NoError(t, err)
		assert.Len(t, peers, 1)
	})

	t.Run("given existing peer id when peer is created then return already exists", func(t *testing.T) {
		db := memory.New()
		require.NoError(t, db.CreatePeerInfo(room("r1"), peer("r1", "a")))

		err := db.CreatePeerInfo(room("r1"), peer("r1", "a"))
		assert.ErrorIs(t, err, database.ErrPeerAlreadyExists)
		err = db.CreatePeerInfo(room("r2"), peer("r2", "a"))
		assert.ErrorIs(t, err, database.ErrPeerAlreadyExists)

		_, err = db.FindRoomInfoByID("r2")
		assert.ErrorIs(t, err, database.ErrRoomNotFound)
	})

	t.Run("given peer of other room when created then return room mismatch", func(t *testing.T) {
		db := memory.New()
		err := db.CreatePeerInfo(room("r1"), peer("r2", "a"))
		assert.ErrorIs(t, err, database.ErrRoomMismatch)
	})

	t.Run("given two peers when each is deleted then room is removed only with the last", func(t *testing.T) {
		db := memory.New()
		require.NoError(t, db.CreatePeerInfo(room("r1"), peer("r1", "a")))
		require.NoError(t, db.CreatePeerInfo(room("r1"), peer("r1", "b")))

		removal, err := db.DeletePeerInfo("a")
		require.NoError(t, err)
		assert.Nil(t, removal.Room)
		_, err = db.FindRoomInfoByID("r1")
		assert.NoError(t, err)

		removal, err = db.DeletePeerInfo("b")
		require.NoError(t, err)
		require.NotNil(t, removal.Room)
		assert.Equal(t, "r1", removal.Room.ID)
		_, err = db.FindRoomInfoByID("r1")
		assert.ErrorIs(t, err, database.ErrRoomNotFound)

		_, err = db.DeletePeerInfo("b")
		assert.ErrorIs(t, err, database.ErrPeerNotFound)
	})
}

func TestTransportInfo(t *testing.T) {
	db := memory.New()
	require.NoError(t, db.CreatePeerInfo(room("r1"), peer("r1", "a")))

	t.Run("given unknown peer when transport is created then return peer not found", func(t *testing.T) {
		err := db.CreateTransportInfo(&database.TransportInfo{ID: "t0", PeerID: "nobody", Direction: media.DirectionSend})
		assert.ErrorIs(t, err, database.ErrPeerNotFound)
	})

	t.Run("given existing direction when transport is created then return already exists", func(t *testing.T) {
		require.NoError(t, db.CreateTransportInfo(&database.TransportInfo{ID: "t1", RoomID: "r1", PeerID: "a", Direction: media.DirectionSend}))
		err := db.CreateTransportInfo(&database.TransportInfo{ID: "t2", RoomID: "r1", PeerID: "a", Direction: media.DirectionSend})
		assert.ErrorIs(t, err, database.ErrTransportAlreadyExists)

		info, err := db.FindTransportInfoByDirection("a", media.DirectionSend)
		require.NoError(t, err)
		assert.Equal(t, "t1", info.ID)
	})

	t.Run("given transport in other state when state is updated then return current record", func(t *testing.T) {
		info, err := db.UpdateTransportInfoState("t1", database.New, database.Connecting)
		require.NoError(t, err)
		assert.Equal(t, database.Connecting, info.State)

		info, err = db.UpdateTransportInfoState("t1", database.New, database.Connecting)
		assert.ErrorIs(t, err, database.ErrTransportStateMismatch)
		require.NotNil(t, info)
		assert.Equal(t, database.Connecting, info.State)
	})
}

func TestProducerConsumerInfo(t *testing.T) {
	setup := func(t *testing.T) *memory.DB {
		db := memory.New()
		require.NoError(t, db.CreatePeerInfo(room("r1"), peer("r1", "a")))
		require.NoError(t, db.CreatePeerInfo(room("r1"), peer("r1", "b")))
		connect(t, db, "r1", "a", media.DirectionSend)
		connect(t, db, "r1", "b", media.DirectionRecv)
		return db
	}

	t.Run("given unconnected transport when producer is created then return state mismatch", func(t *testing.T) {
		db := memory.New()
		require.NoError(t, db.CreatePeerInfo(room("r1"), peer("r1", "a")))
		require.NoError(t, db.CreateTransportInfo(&database.TransportInfo{ID: "t", RoomID: "r1", PeerID: "a", Direction: media.DirectionSend}))

		_, err := db.CreateProducerInfo(&database.ProducerInfo{ID: "p", RoomID: "r1", PeerID: "a", TransportID: "t", Kind: media.KindVideo})
		assert.ErrorIs(t, err, database.ErrTransportStateMismatch)
	})

	t.Run("given producer of same kind when producer is created then prior one is removed with its consumers", func(t *testing.T) {
		db := setup(t)
		_, err := db.CreateProducerInfo(&database.ProducerInfo{ID: "p1", RoomID: "r1", PeerID: "a", TransportID: "a-send", Kind: media.KindVideo})
		require.NoError(t, err)
		require.NoError(t, db.CreateConsumerInfo(&database.ConsumerInfo{ID: "c1", RoomID: "r1", PeerID: "b", TransportID: "b-recv", ProducerID: "p1", ProducerPeerID: "a"}))

		removal, err := db.CreateProducerInfo(&database.ProducerInfo{ID: "p2", RoomID: "r1", PeerID: "a", TransportID: "a-send", Kind: media.KindVideo})
		require.NoError(t, err)
		require.Len(t, removal.Producers, 1)
		assert.Equal(t, "p1", removal.Producers[0].ID)
		require.Len(t, removal.Consumers, 1)
		assert.Equal(t, "c1", removal.Consumers[0].ID)

		producers, err := db.FindProducerInfoByPeerID("a")
		require.NoError(t, err)
		require.Len(t, producers, 1)
		assert.Equal(t, "p2", producers[0].ID)
		_, err = db.FindConsumerInfoByID("c1")
		assert.ErrorIs(t, err, database.ErrConsumerNotFound)
	})

	t.Run("given removed producer when consumer is created then return producer not found", func(t *testing.T) {
		db := setup(t)
		_, err := db.CreateProducerInfo(&database.ProducerInfo{ID: "p1", RoomID: "r1", PeerID: "a", TransportID: "a-send", Kind: media.KindAudio})
		require.NoError(t, err)
		_, err = db.DeleteProducerInfo("p1")
		require.NoError(t, err)

		err = db.CreateConsumerInfo(&database.ConsumerInfo{ID: "c1", RoomID: "r1", PeerID: "b", TransportID: "b-recv", ProducerID: "p1"})
		assert.ErrorIs(t, err, database.ErrProducerNotFound)
	})

	t.Run("given producing peer when peer is deleted then consumers elsewhere are removed", func(t *testing.T) {
		db := setup(t)
		_, err := db.CreateProducerInfo(&database.ProducerInfo{ID: "p1", RoomID: "r1", PeerID: "a", TransportID: "a-send", Kind: media.KindVideo})
		require.NoError(t, err)
		require.NoError(t, db.CreateConsumerInfo(&database.ConsumerInfo{ID: "c1", RoomID: "r1", PeerID: "b", TransportID: "b-recv", ProducerID: "p1", ProducerPeerID: "a"}))

		removal, err := db.DeletePeerInfo("a")
		require.NoError(t, err)
		assert.Len(t, removal.Producers, 1)
		assert.Len(t, removal.Transports, 1)
		assert.Equal(t, database.Closed, removal.Transports[0].State)
		require.Len(t, removal.Consumers, 1)
		assert.Equal(t, "b", removal.Consumers[0].PeerID)

		consumers, err := db.FindConsumerInfoByPeerID("b")
		require.NoError(t, err)
		assert.Empty(t, consumers)
		consumers, err = db.FindConsumerInfoByProducerID("p1")
		require.NoError(t, err)
		assert.Empty(t, consumers)
	})
}
