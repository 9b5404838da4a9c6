// Package memory provides an in-memory database implementation.
package memory

import "github.com/hashicorp/go-memdb"

const (
	tblRooms      = "rooms"
	tblPeers      = "peers"
	tblTransports = "transports"
	tblProducers  = "producers"
	tblConsumers  = "consumers"
)

const (
	idxID        = "id"
	idxRoom      = "room"
	idxPeer      = "peer"
	idxDirection = "direction"
	idxKind      = "kind"
	idxProducer  = "producer"
)

// schema is the schema of the memory database.
var schema = &memdb.DBSchema{
	Tables: map[string]*memdb.TableSchema{
		tblRooms: {
			Name: tblRooms,
			Indexes: map[string]*memdb.IndexSchema{
				idxID: {
					Name:    idxID,
					Unique:  true,
					Indexer: &memdb.StringFieldIndex{Field: "ID"},
				},
			},
		},
		tblPeers: {
			Name: tblPeers,
			Indexes: map[string]*memdb.IndexSchema{
				idxID: {
					Name:    idxID,
					Unique:  true,
					Indexer: &memdb.StringFieldIndex{Field: "ID"},
				},
				idxRoom: {
					Name:    idxRoom,
					Unique:  false,
					Indexer: &memdb.StringFieldIndex{Field: "RoomID"},
				},
			},
		},
		tblTransports: {
			Name: tblTransports,
			Indexes: map[string]*memdb.IndexSchema{
				idxID: {
					Name:    idxID,
					Unique:  true,
					Indexer: &memdb.StringFieldIndex{Field: "ID"},
				},
				idxPeer: {
					Name:    idxPeer,
					Unique:  false,
					Indexer: &memdb.StringFieldIndex{Field: "PeerID"},
				},
				idxDirection: {
					Name:   idxDirection,
					Unique: true,
					Indexer: &memdb.CompoundIndex{
						Indexes: []memdb.Indexer{
							&memdb.StringFieldIndex{Field: "PeerID"},
							&memdb.StringFieldIndex{Field: "Direction"},
						},
					},
				},
			},
		},
		tblProducers: {
			Name: tblProducers,
			Indexes: map[string]*memdb.IndexSchema{
				idxID: {
					Name:    idxID,
					Unique:  true,
					Indexer: &memdb.StringFieldIndex{Field: "ID"},
				},
				idxPeer: {
					Name:    idxPeer,
					Unique:  false,
					Indexer: &memdb.StringFieldIndex{Field: "PeerID"},
				},
				idxKind: {
					Name:   idxKind,
					Unique: true,
					Indexer: &memdb.CompoundIndex{
						Indexes: []memdb.Indexer{
							&memdb.StringFieldIndex{Field: "PeerID"},
							&memdb.StringFieldIndex{Field: "Kind"},
						},
					},
				},
				idxRoom: {
					Name:    idxRoom,
					Unique:  false,
					Indexer: &memdb.StringFieldIndex{Field: "RoomID"},
				},
			},
		},
		tblConsumers: {
			Name: tblConsumers,
			Indexes: map[string]*memdb.IndexSchema{
				idxID: {
					Name:    idxID,
					Unique:  true,
					Indexer: &memdb.StringFieldIndex{Field: "ID"},
				},
				idxPeer: {
					Name:    idxPeer,
					Unique:  false,
					Indexer: &memdb.StringFieldIndex{Field: "PeerID"},
				},
				idxProducer: {
					Name:    idxProducer,
					Unique:  false,
					Indexer: &memdb.StringFieldIndex{Field: "ProducerID"},
				},
			},
		},
	},
}
