package coordinator_test

import (
	"context"
	"errors"
	"fmt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"sfu/broker"
	"sfu/broker/subscription"
	"sfu/coordinator"
	"sfu/database"
	"sfu/database/memory"
	"sfu/media"
	"sfu/media/mediatest"
	"sfu/metric"
	"sfu/types/client/response"
	"sfu/types/message"
	"sync"
	"testing"
	"time"
)

type fixture struct {
	c      *coordinator.Coordinator
	engine *mediatest.Engine
	db     *memory.DB
}

func setup(t *testing.T, config coordinator.Config) *fixture {
	t.Helper()
	if config.EngineTimeout == 0 {
		config.EngineTimeout = time.Second
	}
	engine := mediatest.New()
	db := memory.New()
	c := coordinator.New(config, zap.NewNop(), engine, broker.New(16), db, metric.New(metric.Config{}, zap.NewNop()))
	return &fixture{c: c, engine: engine, db: db}
}

func (f *fixture) join(t *testing.T, roomID, peerID string) (response.JoinedRoom, *subscription.Subscription) {
	t.Helper()
	joined, sub, err := f.c.Join(context.Background(), coordinator.JoinRequest{RoomID: roomID, PeerID: peerID, Subscribe: true})
	require.NoError(t, err)
	return joined, sub
}

func (f *fixture) transport(t *testing.T, roomID, peerID string, direction media.Direction) string {
	t.Helper()
	created, err := f.c.CreateTransport(context.Background(), roomID, peerID, direction)
	require.NoError(t, err)
	require.NoError(t, f.c.ConnectTransport(context.Background(), roomID, peerID, created.TransportID, dtls))
	return created.TransportID
}

var dtls = media.ConnectParameters{DTLSParameters: media.DTLSParameters{
	Role:         media.DTLSRoleClient,
	Fingerprints: []media.Fingerprint{{Algorithm: "sha-256", Value: "AB:CD:EF"}},
}}

func vp8() media.RTPParameters {
	return media.RTPParameters{
		MID:       "0",
		Codecs:    []media.CodecParameters{{MimeType: media.MimeTypeVP8, PayloadType: 101, ClockRate: 90000}},
		Encodings: []media.Encoding{{SSRC: 1111}},
		RTCP:      media.RTCPParameters{CNAME: "a"},
	}
}

// receive waits for the next message of the subscription.
func receive(t *testing.T, sub *subscription.Subscription) any {
	t.Helper()
	select {
	case msg, ok := <-sub.Receive():
		require.True(t, ok, "subscription closed")
		return msg
	case <-time.After(time.Second):
		require.FailNow(t, "no message received")
		return nil
	}
}

func TestJoin(t *testing.T) {
	t.Run("given empty room when peers join concurrently then one router is created", func(t *testing.T) {
		f := setup(t, coordinator.Config{})
		f.engine.SetDelay(20 * time.Millisecond)

		var wg sync.WaitGroup
		errs := make(chan error, 10)
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, _, err := f.c.Join(context.Background(), coordinator.JoinRequest{RoomID: "r1", PeerID: fmt.Sprintf("p%d", i)})
				errs <- err
			}(i)
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			assert.NoError(t, err)
		}

		assert.Equal(t, 1, f.engine.Routers())
		rooms, err := f.c.Rooms()
		require.NoError(t, err)
		require.Len(t, rooms, 1)
		assert.Equal(t, 10, rooms[0].PeerCount)
	})

	t.Run("given joined peer when same id joins then return duplicate peer", func(t *testing.T) {
		f := setup(t, coordinator.Config{})
		f.join(t, "r1", "a")

		_, _, err := f.c.Join(context.Background(), coordinator.JoinRequest{RoomID: "r1", PeerID: "a"})
		assert.ErrorIs(t, err, coordinator.ErrDuplicatePeer)
		_, _, err = f.c.Join(context.Background(), coordinator.JoinRequest{RoomID: "r2", PeerID: "a"})
		assert.ErrorIs(t, err, coordinator.ErrDuplicatePeer)

		rooms, err := f.c.Rooms()
		require.NoError(t, err)
		assert.Len(t, rooms, 1)
		assert.Equal(t, 1, f.engine.Live())
	})

	t.Run("given joined peer when another joins then roster excludes itself and first peer is notified", func(t *testing.T) {
		f := setup(t, coordinator.Config{})
		joinedA, subA := f.join(t, "r1", "a")
		assert.Empty(t, joinedA.Peers)
		assert.NotEmpty(t, joinedA.RTPCapabilities.Codecs)

		joinedB, _ := f.join(t, "r1", "b")
		require.Len(t, joinedB.Peers, 1)
		assert.Equal(t, "a", joinedB.Peers[0].ID)

		msg := receive(t, subA)
		require.IsType(t, message.PeerJoined{}, msg)
		assert.Equal(t, "b", msg.(message.PeerJoined).PeerID)
		assert.Equal(t, "b", msg.(message.PeerJoined).Peer.ID)
	})

	t.Run("given no peer id when joined then id is generated", func(t *testing.T) {
		f := setup(t, coordinator.Config{})
		joined, _, err := f.c.Join(context.Background(), coordinator.JoinRequest{RoomID: "r1"})
		require.NoError(t, err)
		assert.NotEmpty(t, joined.PeerID)
	})

	t.Run("given unknown role when joined then return invalid argument", func(t *testing.T) {
		f := setup(t, coordinator.Config{})
		_, _, err := f.c.Join(context.Background(), coordinator.JoinRequest{RoomID: "r1", PeerID: "a", Role: "owner"})
		assert.ErrorIs(t, err, coordinator.ErrInvalidArgument)
	})
}

// brokenRoster fails to list the peers of a room.
type brokenRoster struct {
	*memory.DB
}

var errRoster = errors.New("roster unavailable")

func (brokenRoster) FindPeerInfoByRoomID(string) ([]*database.PeerInfo, error) {
	return nil, errRoster
}

func TestJoinRollback(t *testing.T) {
	t.Run("given roster failure when joined then peer and room are removed", func(t *testing.T) {
		engine := mediatest.New()
		db := memory.New()
		c := coordinator.New(coordinator.Config{EngineTimeout: time.Second}, zap.NewNop(), engine, broker.New(16), brokenRoster{db}, metric.New(metric.Config{}, zap.NewNop()))

		_, _, err := c.Join(context.Background(), coordinator.JoinRequest{RoomID: "r1", PeerID: "a", Subscribe: true})
		assert.ErrorIs(t, err, errRoster)

		_, err = db.FindPeerInfoByID("a")
		assert.ErrorIs(t, err, database.ErrPeerNotFound)
		_, err = db.FindRoomInfoByID("r1")
		assert.ErrorIs(t, err, database.ErrRoomNotFound)
		assert.Equal(t, 0, engine.Live())
		assert.True(t, c.Ready())
	})
}

func TestLeave(t *testing.T) {
	t.Run("given producing peer when it leaves then paired consumers elsewhere are closed", func(t *testing.T) {
		f := setup(t, coordinator.Config{})
		f.join(t, "r1", "a")
		joinedB, subB := f.join(t, "r1", "b")
		f.transport(t, "r1", "a", media.DirectionSend)
		f.transport(t, "r1", "b", media.DirectionRecv)

		producer, err := f.c.Produce(context.Background(), "r1", "a", media.KindVideo, vp8())
		require.NoError(t, err)
		consumer, err := f.c.Consume(context.Background(), "r1", "b", producer.ID, joinedB.RTPCapabilities)
		require.NoError(t, err)
		assert.Equal(t, "a", consumer.PeerID)
		assert.IsType(t, message.NewProducer{}, receive(t, subB))

		require.NoError(t, f.c.Leave(context.Background(), "r1", "a"))

		assert.Equal(t, message.PeerLeft{PeerID: "a"}, receive(t, subB))
		assert.Equal(t, message.ConsumerClosed{ConsumerID: consumer.ID, ProducerID: producer.ID}, receive(t, subB))
		assert.False(t, f.engine.IsLive(producer.ID))
		assert.False(t, f.engine.IsLive(consumer.ID))

		consumers, err := f.db.FindConsumerInfoByPeerID("b")
		require.NoError(t, err)
		assert.Empty(t, consumers)
		producers, err := f.db.FindProducerInfoByPeerID("a")
		require.NoError(t, err)
		assert.Empty(t, producers)
		_, err = f.db.FindTransportInfoByDirection("a", media.DirectionSend)
		assert.Error(t, err)

		rooms, err := f.c.Rooms()
		require.NoError(t, err)
		assert.Len(t, rooms, 1)
	})

	t.Run("given last peer when it leaves then room is removed and handles released", func(t *testing.T) {
		f := setup(t, coordinator.Config{})
		f.join(t, "r1", "a")
		f.transport(t, "r1", "a", media.DirectionSend)

		require.NoError(t, f.c.Leave(context.Background(), "r1", "a"))
		rooms, err := f.c.Rooms()
		require.NoError(t, err)
		assert.Empty(t, rooms)
		assert.Equal(t, 0, f.engine.Live())

		_, err = f.c.Room("r1")
		assert.ErrorIs(t, err, coordinator.ErrNotFound)
	})

	t.Run("given left peer when it leaves again then nothing happens", func(t *testing.T) {
		f := setup(t, coordinator.Config{})
		_, subA := f.join(t, "r1", "a")
		f.join(t, "r1", "b")
		receive(t, subA)

		require.NoError(t, f.c.Leave(context.Background(), "r1", "b"))
		require.NoError(t, f.c.Leave(context.Background(), "r1", "b"))
		assert.Equal(t, message.PeerLeft{PeerID: "b"}, receive(t, subA))
		assert.Empty(t, subA.Receive())
	})

	t.Run("given two leaves of one peer racing when run then teardown happens once", func(t *testing.T) {
		for round := 0; round < 50; round++ {
			f := setup(t, coordinator.Config{})
			_, subB := f.join(t, "r1", "b")
			f.join(t, "r1", "a")
			assert.IsType(t, message.PeerJoined{}, receive(t, subB))
			f.transport(t, "r1", "a", media.DirectionSend)
			f.transport(t, "r1", "a", media.DirectionRecv)
			_, err := f.c.Produce(context.Background(), "r1", "a", media.KindVideo, vp8())
			require.NoError(t, err)
			assert.IsType(t, message.NewProducer{}, receive(t, subB))

			// two transports and one producer belong to a
			before := f.engine.Live()
			var wg sync.WaitGroup
			errs := make(chan error, 2)
			for i := 0; i < 2; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					errs <- f.c.Leave(context.Background(), "r1", "a")
				}()
			}
			wg.Wait()
			close(errs)
			for err := range errs {
				require.NoError(t, err)
			}

			assert.Equal(t, before-3, f.engine.Live())
			assert.Equal(t, message.PeerLeft{PeerID: "a"}, receive(t, subB))
			assert.Empty(t, subB.Receive())

			rooms, err := f.c.Rooms()
			require.NoError(t, err)
			require.Len(t, rooms, 1)
			assert.Equal(t, 1, rooms[0].PeerCount)
		}
	})

	t.Run("given removed room when joined again then a fresh router is created", func(t *testing.T) {
		f := setup(t, coordinator.Config{})
		f.join(t, "r1", "a")
		require.NoError(t, f.c.Leave(context.Background(), "r1", "a"))
		f.join(t, "r1", "a")

		assert.Equal(t, 2, f.engine.Routers())
		assert.Equal(t, 1, f.engine.Live())
	})
}

func TestRoomLock(t *testing.T) {
	t.Run("given room held by a joining peer when others wait past their deadline then return timeout", func(t *testing.T) {
		f := setup(t, coordinator.Config{})
		f.engine.SetDelay(300 * time.Millisecond)

		joined := make(chan error, 1)
		go func() {
			_, _, err := f.c.Join(context.Background(), coordinator.JoinRequest{RoomID: "r1", PeerID: "a"})
			joined <- err
		}()
		time.Sleep(50 * time.Millisecond)

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
		defer cancel()
		start := time.Now()
		_, _, err := f.c.Join(ctx, coordinator.JoinRequest{RoomID: "r1", PeerID: "b"})
		assert.ErrorIs(t, err, coordinator.ErrTimeout)
		assert.Less(t, time.Since(start), 200*time.Millisecond)
		assert.ErrorIs(t, f.c.CloseProducer(ctx, "r1", "", "p1"), coordinator.ErrTimeout)
		assert.ErrorIs(t, f.c.Leave(ctx, "r1", "a"), coordinator.ErrTimeout)

		require.NoError(t, <-joined)
		f.engine.SetDelay(0)
		f.join(t, "r1", "b")
		rooms, err := f.c.Rooms()
		require.NoError(t, err)
		require.Len(t, rooms, 1)
		assert.Equal(t, 2, rooms[0].PeerCount)
	})
}

func TestTransport(t *testing.T) {
	t.Run("given created transport when created again then the same transport is returned", func(t *testing.T) {
		f := setup(t, coordinator.Config{})
		f.join(t, "r1", "a")

		first, err := f.c.CreateTransport(context.Background(), "r1", "a", media.DirectionSend)
		require.NoError(t, err)
		second, err := f.c.CreateTransport(context.Background(), "r1", "a", media.DirectionSend)
		require.NoError(t, err)
		assert.Equal(t, first.TransportID, second.TransportID)
		assert.NotEmpty(t, first.ICECandidates)
		assert.NotEmpty(t, first.DTLSParameters.Fingerprints)
	})

	t.Run("given connected transport when connected again then it is a no-op", func(t *testing.T) {
		f := setup(t, coordinator.Config{})
		f.join(t, "r1", "a")
		id := f.transport(t, "r1", "a", media.DirectionSend)

		assert.NoError(t, f.c.ConnectTransport(context.Background(), "r1", "a", id, dtls))
		info, err := f.db.FindTransportInfoByID(id)
		require.NoError(t, err)
		assert.Equal(t, 1, info.Handle.(*mediatest.Transport).Connects())
	})

	t.Run("given unknown or foreign transport when connected then return not found", func(t *testing.T) {
		f := setup(t, coordinator.Config{})
		f.join(t, "r1", "a")
		f.join(t, "r1", "b")
		created, err := f.c.CreateTransport(context.Background(), "r1", "a", media.DirectionSend)
		require.NoError(t, err)

		err = f.c.ConnectTransport(context.Background(), "r1", "a", "nothing", dtls)
		assert.ErrorIs(t, err, coordinator.ErrNotFound)
		err = f.c.ConnectTransport(context.Background(), "r1", "b", created.TransportID, dtls)
		assert.ErrorIs(t, err, coordinator.ErrNotFound)
	})

	t.Run("given invalid dtls parameters when connected then return invalid argument", func(t *testing.T) {
		f := setup(t, coordinator.Config{})
		f.join(t, "r1", "a")
		created, err := f.c.CreateTransport(context.Background(), "r1", "a", media.DirectionSend)
		require.NoError(t, err)

		err = f.c.ConnectTransport(context.Background(), "r1", "a", created.TransportID, media.ConnectParameters{})
		assert.ErrorIs(t, err, coordinator.ErrInvalidArgument)
	})

	t.Run("given slow engine when connect times out then transport can be connected again", func(t *testing.T) {
		f := setup(t, coordinator.Config{EngineTimeout: 20 * time.Millisecond})
		f.join(t, "r1", "a")
		created, err := f.c.CreateTransport(context.Background(), "r1", "a", media.DirectionSend)
		require.NoError(t, err)

		f.engine.SetDelay(200 * time.Millisecond)
		err = f.c.ConnectTransport(context.Background(), "r1", "a", created.TransportID, dtls)
		assert.ErrorIs(t, err, coordinator.ErrTimeout)

		f.engine.SetDelay(0)
		assert.NoError(t, f.c.ConnectTransport(context.Background(), "r1", "a", created.TransportID, dtls))
	})
}

func TestProduce(t *testing.T) {
	t.Run("given unconnected send transport when produced then return invalid state", func(t *testing.T) {
		f := setup(t, coordinator.Config{})
		f.join(t, "r1", "a")

		_, err := f.c.Produce(context.Background(), "r1", "a", media.KindVideo, vp8())
		assert.ErrorIs(t, err, coordinator.ErrInvalidState)

		_, err = f.c.CreateTransport(context.Background(), "r1", "a", media.DirectionSend)
		require.NoError(t, err)
		_, err = f.c.Produce(context.Background(), "r1", "a", media.KindVideo, vp8())
		assert.ErrorIs(t, err, coordinator.ErrInvalidState)
	})

	t.Run("given viewer when produced then return invalid state", func(t *testing.T) {
		f := setup(t, coordinator.Config{})
		_, _, err := f.c.Join(context.Background(), coordinator.JoinRequest{RoomID: "r1", PeerID: "v", Role: "viewer"})
		require.NoError(t, err)
		f.transport(t, "r1", "v", media.DirectionSend)

		_, err = f.c.Produce(context.Background(), "r1", "v", media.KindVideo, vp8())
		assert.ErrorIs(t, err, coordinator.ErrInvalidState)
	})

	t.Run("given unsupported codec when produced then return incompatible capabilities", func(t *testing.T) {
		f := setup(t, coordinator.Config{})
		f.join(t, "r1", "a")
		f.transport(t, "r1", "a", media.DirectionSend)

		params := vp8()
		params.Codecs[0].MimeType = "video/AV1"
		_, err := f.c.Produce(context.Background(), "r1", "a", media.KindVideo, params)
		assert.ErrorIs(t, err, coordinator.ErrIncompatibleCapabilities)
	})

	t.Run("given producer of same kind when produced again then one producer remains and its consumers are closed", func(t *testing.T) {
		f := setup(t, coordinator.Config{})
		f.join(t, "r1", "a")
		joinedB, subB := f.join(t, "r1", "b")
		f.transport(t, "r1", "a", media.DirectionSend)
		f.transport(t, "r1", "b", media.DirectionRecv)

		first, err := f.c.Produce(context.Background(), "r1", "a", media.KindVideo, vp8())
		require.NoError(t, err)
		consumer, err := f.c.Consume(context.Background(), "r1", "b", first.ID, joinedB.RTPCapabilities)
		require.NoError(t, err)
		second, err := f.c.Produce(context.Background(), "r1", "a", media.KindVideo, vp8())
		require.NoError(t, err)

		producers, err := f.db.FindProducerInfoByPeerID("a")
		require.NoError(t, err)
		require.Len(t, producers, 1)
		assert.Equal(t, second.ID, producers[0].ID)
		assert.False(t, f.engine.IsLive(first.ID))
		assert.False(t, f.engine.IsLive(consumer.ID))

		assert.Equal(t, message.NewProducer{ProducerID: first.ID, PeerID: "a", Kind: media.KindVideo}, receive(t, subB))
		assert.Equal(t, message.ConsumerClosed{ConsumerID: consumer.ID, ProducerID: first.ID}, receive(t, subB))
		assert.Equal(t, message.NewProducer{ProducerID: second.ID, PeerID: "a", Kind: media.KindVideo}, receive(t, subB))
	})

	t.Run("given producer when late peer joins then roster lists it", func(t *testing.T) {
		f := setup(t, coordinator.Config{})
		f.join(t, "r1", "a")
		f.transport(t, "r1", "a", media.DirectionSend)
		producer, err := f.c.Produce(context.Background(), "r1", "a", media.KindVideo, vp8())
		require.NoError(t, err)

		joined, _ := f.join(t, "r1", "b")
		require.Len(t, joined.Peers, 1)
		assert.Equal(t, []response.Producer{{ID: producer.ID, Kind: media.KindVideo}}, joined.Peers[0].Producers)
	})

	t.Run("given peer leaving while engine produces then return not found", func(t *testing.T) {
		f := setup(t, coordinator.Config{})
		f.join(t, "r1", "a")
		f.join(t, "r1", "b")
		f.transport(t, "r1", "a", media.DirectionSend)
		f.engine.SetDelay(100 * time.Millisecond)

		errs := make(chan error, 1)
		go func() {
			_, err := f.c.Produce(context.Background(), "r1", "a", media.KindVideo, vp8())
			errs <- err
		}()
		time.Sleep(20 * time.Millisecond)
		require.NoError(t, f.c.Leave(context.Background(), "r1", "a"))

		assert.ErrorIs(t, <-errs, coordinator.ErrNotFound)
		producers, err := f.db.FindProducerInfoByPeerID("a")
		require.NoError(t, err)
		assert.Empty(t, producers)
	})
}

func TestConsume(t *testing.T) {
	setupPair := func(t *testing.T) (*fixture, response.JoinedRoom, response.ProducerCreated) {
		f := setup(t, coordinator.Config{})
		f.join(t, "r1", "a")
		joinedB, _ := f.join(t, "r1", "b")
		f.transport(t, "r1", "a", media.DirectionSend)
		f.transport(t, "r1", "b", media.DirectionRecv)
		producer, err := f.c.Produce(context.Background(), "r1", "a", media.KindVideo, vp8())
		require.NoError(t, err)
		return f, joinedB, producer
	}

	t.Run("given closed producer when consumed then return not found", func(t *testing.T) {
		f, joinedB, producer := setupPair(t)
		require.NoError(t, f.c.CloseProducer(context.Background(), "r1", "a", producer.ID))

		_, err := f.c.Consume(context.Background(), "r1", "b", producer.ID, joinedB.RTPCapabilities)
		assert.ErrorIs(t, err, coordinator.ErrNotFound)
		consumers, err := f.db.FindConsumerInfoByPeerID("b")
		require.NoError(t, err)
		assert.Empty(t, consumers)
	})

	t.Run("given audio only capabilities when video is consumed then return incompatible capabilities", func(t *testing.T) {
		f, joinedB, producer := setupPair(t)
		var caps media.RTPCapabilities
		for _, codec := range joinedB.RTPCapabilities.Codecs {
			if codec.Kind == media.KindAudio {
				caps.Codecs = append(caps.Codecs, codec)
			}
		}

		_, err := f.c.Consume(context.Background(), "r1", "b", producer.ID, caps)
		assert.ErrorIs(t, err, coordinator.ErrIncompatibleCapabilities)
	})

	t.Run("given consumer of other peer when closed by non owner then return not found", func(t *testing.T) {
		f, joinedB, producer := setupPair(t)
		consumer, err := f.c.Consume(context.Background(), "r1", "b", producer.ID, joinedB.RTPCapabilities)
		require.NoError(t, err)

		assert.ErrorIs(t, f.c.CloseConsumer(context.Background(), "r1", "a", consumer.ID), coordinator.ErrNotFound)
		assert.NoError(t, f.c.CloseConsumer(context.Background(), "r1", "b", consumer.ID))
		assert.False(t, f.engine.IsLive(consumer.ID))
		assert.ErrorIs(t, f.c.CloseConsumer(context.Background(), "r1", "b", consumer.ID), coordinator.ErrNotFound)
	})

	t.Run("given producer closed by engine then its record and consumers are removed", func(t *testing.T) {
		f, joinedB, producer := setupPair(t)
		consumer, err := f.c.Consume(context.Background(), "r1", "b", producer.ID, joinedB.RTPCapabilities)
		require.NoError(t, err)

		info, err := f.db.FindProducerInfoByID(producer.ID)
		require.NoError(t, err)
		require.NoError(t, info.Handle.Close())

		_, err = f.db.FindProducerInfoByID(producer.ID)
		assert.Error(t, err)
		_, err = f.db.FindConsumerInfoByID(consumer.ID)
		assert.Error(t, err)
	})
}

func TestEngineFatal(t *testing.T) {
	t.Run("given fatal engine when joined then coordinator is marked fatal", func(t *testing.T) {
		f := setup(t, coordinator.Config{})
		f.join(t, "r1", "a")
		f.engine.SetFatal()

		_, err := f.c.CreateTransport(context.Background(), "r1", "a", media.DirectionSend)
		assert.ErrorIs(t, err, coordinator.ErrEngineFatal)

		select {
		case <-f.c.Fatal():
		case <-time.After(time.Second):
			require.FailNow(t, "fatal channel is not closed")
		}
		assert.False(t, f.c.Ready())

		_, _, err = f.c.Join(context.Background(), coordinator.JoinRequest{RoomID: "r2", PeerID: "b"})
		assert.ErrorIs(t, err, coordinator.ErrEngineFatal)
	})
}

func TestConfig(t *testing.T) {
	assert.NoError(t, coordinator.Config{EngineTimeout: time.Second}.Validate())
	assert.ErrorIs(t, coordinator.Config{}.Validate(), coordinator.ErrInvalidEngineTimeout)
	assert.ErrorIs(t, coordinator.Config{
		EngineTimeout: time.Second,
		Codecs:        []media.Codec{{Kind: media.KindAudio, MimeType: media.MimeTypeVP8, ClockRate: 90000}},
	}.Validate(), coordinator.ErrInvalidCodecs)
}
