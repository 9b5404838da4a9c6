package memory

import (
	"fmt"
	"github.com/hashicorp/go-memdb"
	"sfu/database"
	"sfu/media"
)

// DB is a memory-backed database.
type DB struct {
	db *memdb.MemDB
}

// New creates a new memory-backed database.
func New() *DB {
	db, err := memdb.NewMemDB(schema)
	if err != nil {
		panic(err)
	}
	return &DB{
		db: db,
	}
}

// all collects every object of the index so that the caller can modify the
// table while walking the result.
func all(txn *memdb.Txn, table, index string, args ...any) ([]any, error) {
	iter, err := txn.Get(table, index, args...)
	if err != nil {
		return nil, err
	}
	var objs []any
	for raw := iter.Next(); raw != nil; raw = iter.Next() {
		objs = append(objs, raw)
	}
	return objs, nil
}

// FindRoomInfoByID finds a room by its ID.
func (d *DB) FindRoomInfoByID(roomID string) (*database.RoomInfo, error) {
	txn := d.db.Txn(false)
	defer txn.Abort()
	raw, err := txn.First(tblRooms, idxID, roomID)
	if err != nil {
		return nil, fmt.Errorf("find room by id: %w", err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%s: %w", roomID, database.ErrRoomNotFound)
	}
	return raw.(*database.RoomInfo).DeepCopy(), nil
}

// FindAllRoomInfo returns every room ordered by ID.
func (d *DB) FindAllRoomInfo() ([]*database.RoomInfo, error) {
	txn := d.db.Txn(false)
	defer txn.Abort()
	objs, err := all(txn, tblRooms, idxID)
	if err != nil {
		return nil, fmt.Errorf("find rooms: %w", err)
	}
	rooms := make([]*database.RoomInfo, 0, len(objs))
	for _, raw := range objs {
		rooms = append(rooms, raw.(*database.RoomInfo).DeepCopy())
	}
	return rooms, nil
}

// CreatePeerInfo registers a peer. The room is registered in the same
// transaction when it does not exist yet.
func (d *DB) CreatePeerInfo(room *database.RoomInfo, peer *database.PeerInfo) error {
	if room.ID != peer.RoomID {
		return fmt.Errorf("%s in %s: %w", peer.ID, room.ID, database.ErrRoomMismatch)
	}

	txn := d.db.Txn(true)
	defer txn.Abort()

	raw, err := txn.First(tblPeers, idxID, peer.ID)
	if err != nil {
		return fmt.Errorf("find peer by id: %w", err)
	}
	if raw != nil {
		return fmt.Errorf("%s: %w", peer.ID, database.ErrPeerAlreadyExists)
	}

	raw, err = txn.First(tblRooms, idxID, room.ID)
	if err != nil {
		return fmt.Errorf("find room by id: %w", err)
	}
	if raw == nil {
		if err := txn.Insert(tblRooms, room.DeepCopy()); err != nil {
			return fmt.Errorf("insert room: %w", err)
		}
	}

	if err := txn.Insert(tblPeers, peer.DeepCopy()); err != nil {
		return fmt.Errorf("insert peer: %w", err)
	}
	txn.Commit()
	return nil
}

// FindPeerInfoByID finds a peer by its ID.
func (d *DB) FindPeerInfoByID(peerID string) (*database.PeerInfo, error) {
	txn := d.db.Txn(false)
	defer txn.Abort()
	raw, err := txn.First(tblPeers, idxID, peerID)
	if err != nil {
		return nil, fmt.Errorf("find peer by id: %w", err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%s: %w", peerID, database.ErrPeerNotFound)
	}
	return raw.(*database.PeerInfo).DeepCopy(), nil
}

// FindPeerInfoByRoomID returns every peer of the room.
func (d *DB) FindPeerInfoByRoomID(roomID string) ([]*database.PeerInfo, error) {
	txn := d.db.Txn(false)
	defer txn.Abort()
	objs, err := all(txn, tblPeers, idxRoom, roomID)
	if err != nil {
		return nil, fmt.Errorf("find peers by room id: %w", err)
	}
	peers := make([]*database.PeerInfo, 0, len(objs))
	for _, raw := range objs {
		peers = append(peers, raw.(*database.PeerInfo).DeepCopy())
	}
	return peers, nil
}

// DeletePeerInfo removes a peer with its consumers, its producers and the
// consumers paired to them, and its transports. The room is removed when the
// peer was its last one.
func (d *DB) DeletePeerInfo(peerID string) (*database.Removal, error) {
	txn := d.db.Txn(true)
	defer txn.Abort()

	raw, err := txn.First(tblPeers, idxID, peerID)
	if err != nil {
		return nil, fmt.Errorf("find peer by id: %w", err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%s: %w", peerID, database.ErrPeerNotFound)
	}
	peer := raw.(*database.PeerInfo)
	removal := &database.Removal{Peer: peer.DeepCopy()}

	consumers, err := deleteConsumers(txn, idxPeer, peerID)
	if err != nil {
		return nil, err
	}
	removal.Consumers = append(removal.Consumers, consumers...)

	objs, err := all(txn, tblProducers, idxPeer, peerID)
	if err != nil {
		return nil, fmt.Errorf("find producers by peer id: %w", err)
	}
	for _, obj := range objs {
		producer := obj.(*database.ProducerInfo)
		consumers, err := deleteProducer(txn, producer)
		if err != nil {
			return nil, err
		}
		removal.Producers = append(removal.Producers, producer.DeepCopy())
		removal.Consumers = append(removal.Consumers, consumers...)
	}

	objs, err = all(txn, tblTransports, idxPeer, peerID)
	if err != nil {
		return nil, fmt.Errorf("find transports by peer id: %w", err)
	}
	for _, obj := range objs {
		if err := txn.Delete(tblTransports, obj); err != nil {
			return nil, fmt.Errorf("delete transport: %w", err)
		}
		closed := obj.(*database.TransportInfo).DeepCopy()
		closed.State = database.Closed
		removal.Transports = append(removal.Transports, closed)
	}

	if err := txn.Delete(tblPeers, peer); err != nil {
		return nil, fmt.Errorf("delete peer: %w", err)
	}

	remaining, err := txn.First(tblPeers, idxRoom, peer.RoomID)
	if err != nil {
		return nil, fmt.Errorf("find peers by room id: %w", err)
	}
	if remaining == nil {
		room, err := txn.First(tblRooms, idxID, peer.RoomID)
		if err != nil {
			return nil, fmt.Errorf("find room by id: %w", err)
		}
		if room != nil {
			if err := txn.Delete(tblRooms, room); err != nil {
				return nil, fmt.Errorf("delete room: %w", err)
			}
			removal.Room = room.(*database.RoomInfo).DeepCopy()
		}
	}

	txn.Commit()
	return removal, nil
}

// CreateTransportInfo registers a transport. A peer has at most one transport per direction.
func (d *DB) CreateTransportInfo(info *database.TransportInfo) error {
	txn := d.db.Txn(true)
	defer txn.Abort()

	if err := requirePeer(txn, info.PeerID); err != nil {
		return err
	}
	raw, err := txn.First(tblTransports, idxDirection, info.PeerID, string(info.Direction))
	if err != nil {
		return fmt.Errorf("find transport by direction: %w", err)
	}
	if raw != nil {
		return fmt.Errorf("%s %s: %w", info.PeerID, info.Direction, database.ErrTransportAlreadyExists)
	}
	if err := txn.Insert(tblTransports, info.DeepCopy()); err != nil {
		return fmt.Errorf("insert transport: %w", err)
	}
	txn.Commit()
	return nil
}

// FindTransportInfoByID finds a transport by its ID.
func (d *DB) FindTransportInfoByID(transportID string) (*database.TransportInfo, error) {
	txn := d.db.Txn(false)
	defer txn.Abort()
	raw, err := txn.First(tblTransports, idxID, transportID)
	if err != nil {
		return nil, fmt.Errorf("find transport by id: %w", err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%s: %w", transportID, database.ErrTransportNotFound)
	}
	return raw.(*database.TransportInfo).DeepCopy(), nil
}

// FindTransportInfoByDirection finds the transport of the peer in the direction.
func (d *DB) FindTransportInfoByDirection(peerID string, direction media.Direction) (*database.TransportInfo, error) {
	txn := d.db.Txn(false)
	defer txn.Abort()
	raw, err := txn.First(tblTransports, idxDirection, peerID, string(direction))
	if err != nil {
		return nil, fmt.Errorf("find transport by direction: %w", err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%s %s: %w", peerID, direction, database.ErrTransportNotFound)
	}
	return raw.(*database.TransportInfo).DeepCopy(), nil
}

// UpdateTransportInfoState moves the transport from one state to another. When
// the transport is not in the expected state, its current record is returned
// with ErrTransportStateMismatch.
func (d *DB) UpdateTransportInfoState(transportID string, from, to database.TransportState) (*database.TransportInfo, error) {
	txn := d.db.Txn(true)
	defer txn.Abort()
	raw, err := txn.First(tblTransports, idxID, transportID)
	if err != nil {
		return nil, fmt.Errorf("find transport by id: %w", err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%s: %w", transportID, database.ErrTransportNotFound)
	}
	info := raw.(*database.TransportInfo).DeepCopy()
	if info.State != from {
		return info, fmt.Errorf("%s is %s: %w", transportID, info.State, database.ErrTransportStateMismatch)
	}
	info.State = to
	if err := txn.Insert(tblTransports, info); err != nil {
		return nil, fmt.Errorf("update transport: %w", err)
	}
	txn.Commit()
	return info.DeepCopy(), nil
}

// CreateProducerInfo registers a producer on a connected send transport. A
// producer of the same kind owned by the peer is removed with its consumers.
func (d *DB) CreateProducerInfo(info *database.ProducerInfo) (*database.Removal, error) {
	txn := d.db.Txn(true)
	defer txn.Abort()

	if err := requirePeer(txn, info.PeerID); err != nil {
		return nil, err
	}
	if err := requireConnectedTransport(txn, info.TransportID, info.PeerID); err != nil {
		return nil, err
	}

	removal := &database.Removal{}
	raw, err := txn.First(tblProducers, idxKind, info.PeerID, string(info.Kind))
	if err != nil {
		return nil, fmt.Errorf("find producer by kind: %w", err)
	}
	if raw != nil {
		prior := raw.(*database.ProducerInfo)
		consumers, err := deleteProducer(txn, prior)
		if err != nil {
			return nil, err
		}
		removal.Producers = append(removal.Producers, prior.DeepCopy())
		removal.Consumers = consumers
	}

	if err := txn.Insert(tblProducers, info.DeepCopy()); err != nil {
		return nil, fmt.Errorf("insert producer: %w", err)
	}
	txn.Commit()
	return removal, nil
}

// FindProducerInfoByID finds a producer by its ID.
func (d *DB) FindProducerInfoByID(producerID string) (*database.ProducerInfo, error) {
	txn := d.db.Txn(false)
	defer txn.Abort()
	raw, err := txn.First(tblProducers, idxID, producerID)
	if err != nil {
		return nil, fmt.Errorf("find producer by id: %w", err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%s: %w", producerID, database.ErrProducerNotFound)
	}
	return raw.(*database.ProducerInfo).DeepCopy(), nil
}

// FindProducerInfoByPeerID returns every producer of the peer.
func (d *DB) FindProducerInfoByPeerID(peerID string) ([]*database.ProducerInfo, error) {
	txn := d.db.Txn(false)
	defer txn.Abort()
	objs, err := all(txn, tblProducers, idxPeer, peerID)
	if err != nil {
		return nil, fmt.Errorf("find producers by peer id: %w", err)
	}
	producers := make([]*database.ProducerInfo, 0, len(objs))
	for _, raw := range objs {
		producers = append(producers, raw.(*database.ProducerInfo).DeepCopy())
	}
	return producers, nil
}

// DeleteProducerInfo removes a producer and every consumer paired to it.
func (d *DB) DeleteProducerInfo(producerID string) (*database.Removal, error) {
	txn := d.db.Txn(true)
	defer txn.Abort()
	raw, err := txn.First(tblProducers, idxID, producerID)
	if err != nil {
		return nil, fmt.Errorf("find producer by id: %w", err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%s: %w", producerID, database.ErrProducerNotFound)
	}
	producer := raw.(*database.ProducerInfo)
	consumers, err := deleteProducer(txn, producer)
	if err != nil {
		return nil, err
	}
	txn.Commit()
	return &database.Removal{
		Producers: []*database.ProducerInfo{producer.DeepCopy()},
		Consumers: consumers,
	}, nil
}

// CreateConsumerInfo registers a consumer on a connected receive transport.
// The consumed producer must still be registered.
func (d *DB) CreateConsumerInfo(info *database.ConsumerInfo) error {
	txn := d.db.Txn(true)
	defer txn.Abort()

	if err := requirePeer(txn, info.PeerID); err != nil {
		return err
	}
	if err := requireConnectedTransport(txn, info.TransportID, info.PeerID); err != nil {
		return err
	}
	raw, err := txn.First(tblProducers, idxID, info.ProducerID)
	if err != nil {
		return fmt.Errorf("find producer by id: %w", err)
	}
	if raw == nil {
		return fmt.Errorf("%s: %w", info.ProducerID, database.ErrProducerNotFound)
	}
	if err := txn.Insert(tblConsumers, info.DeepCopy()); err != nil {
		return fmt.Errorf("insert consumer: %w", err)
	}
	txn.Commit()
	return nil
}

// FindConsumerInfoByID finds a consumer by its ID.
func (d *DB) FindConsumerInfoByID(consumerID string) (*database.ConsumerInfo, error) {
	txn := d.db.Txn(false)
	defer txn.Abort()
	raw, err := txn.First(tblConsumers, idxID, consumerID)
	if err != nil {
		return nil, fmt.Errorf("find consumer by id: %w", err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%s: %w", consumerID, database.ErrConsumerNotFound)
	}
	return raw.(*database.ConsumerInfo).DeepCopy(), nil
}

// FindConsumerInfoByPeerID returns every consumer owned by the peer.
func (d *DB) FindConsumerInfoByPeerID(peerID string) ([]*database.ConsumerInfo, error) {
	return d.findConsumers(idxPeer, peerID)
}

// FindConsumerInfoByProducerID returns every consumer paired to the producer.
func (d *DB) FindConsumerInfoByProducerID(producerID string) ([]*database.ConsumerInfo, error) {
	return d.findConsumers(idxProducer, producerID)
}

func (d *DB) findConsumers(index, id string) ([]*database.ConsumerInfo, error) {
	txn := d.db.Txn(false)
	defer txn.Abort()
	objs, err := all(txn, tblConsumers, index, id)
	if err != nil {
		return nil, fmt.Errorf("find consumers by %s: %w", index, err)
	}
	consumers := make([]*database.ConsumerInfo, 0, len(objs))
	for _, raw := range objs {
		consumers = append(consumers, raw.(*database.ConsumerInfo).DeepCopy())
	}
	return consumers, nil
}

// DeleteConsumerInfo removes a consumer.
func (d *DB) DeleteConsumerInfo(consumerID string) (*database.ConsumerInfo, error) {
	txn := d.db.Txn(true)
	defer txn.Abort()
	raw, err := txn.First(tblConsumers, idxID, consumerID)
	if err != nil {
		return nil, fmt.Errorf("find consumer by id: %w", err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%s: %w", consumerID, database.ErrConsumerNotFound)
	}
	if err := txn.Delete(tblConsumers, raw); err != nil {
		return nil, fmt.Errorf("delete consumer: %w", err)
	}
	txn.Commit()
	return raw.(*database.ConsumerInfo).DeepCopy(), nil
}

func requirePeer(txn *memdb.Txn, peerID string) error {
	raw, err := txn.First(tblPeers, idxID, peerID)
	if err != nil {
		return fmt.Errorf("find peer by id: %w", err)
	}
	if raw == nil {
		return fmt.Errorf("%s: %w", peerID, database.ErrPeerNotFound)
	}
	return nil
}

func requireConnectedTransport(txn *memdb.Txn, transportID, peerID string) error {
	raw, err := txn.First(tblTransports, idxID, transportID)
	if err != nil {
		return fmt.Errorf("find transport by id: %w", err)
	}
	if raw == nil || raw.(*database.TransportInfo).PeerID != peerID {
		return fmt.Errorf("%s: %w", transportID, database.ErrTransportNotFound)
	}
	if info := raw.(*database.TransportInfo); !info.IsConnected() {
		return fmt.Errorf("%s is %s: %w", transportID, info.State, database.ErrTransportStateMismatch)
	}
	return nil
}

// deleteProducer removes the producer and the consumers paired to it.
func deleteProducer(txn *memdb.Txn, producer *database.ProducerInfo) ([]*database.ConsumerInfo, error) {
	consumers, err := deleteConsumers(txn, idxProducer, producer.ID)
	if err != nil {
		return nil, err
	}
	if err := txn.Delete(tblProducers, producer); err != nil {
		return nil, fmt.Errorf("delete producer: %w", err)
	}
	return consumers, nil
}

func deleteConsumers(txn *memdb.Txn, index, id string) ([]*database.ConsumerInfo, error) {
	objs, err := all(txn, tblConsumers, index, id)
	if err != nil {
		return nil, fmt.Errorf("find consumers by %s: %w", index, err)
	}
	consumers := make([]*database.ConsumerInfo, 0, len(objs))
	for _, obj := range objs {
		if err := txn.Delete(tblConsumers, obj); err != nil {
			return nil, fmt.Errorf("delete consumer: %w", err)
		}
		consumers = append(consumers, obj.(*database.ConsumerInfo).DeepCopy())
	}
	return consumers, nil
}
