package db

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/babylonchain/mesh-provider/internal/db/model"
	"github.com/babylonchain/mesh-provider/internal/types"
)

// NextPacketSequence increments and returns the outgoing packet sequence.
// Sequences start at 1.
func (db *Database) NextPacketSequence(ctx context.Context) (uint64, error) {
	client := db.collection(model.CounterCollection)
	filter := bson.M{"_id": model.PacketSequenceCounterId}
	update := bson.M{"$inc": bson.M{"value": 1}}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var counter model.CounterDocument
	if err := client.FindOneAndUpdate(ctx, filter, update, opts).Decode(&counter); err != nil {
		return 0, err
	}
	return uint64(counter.Value), nil
}

func (db *Database) SavePacket(ctx context.Context, packet *types.PacketRecord) error {
	client := db.collection(model.PacketCollection)
	document, err := model.NewPacketDocument(packet)
	if err != nil {
		return err
	}
	filter := bson.M{"_id": document.Sequence}
	_, err = client.ReplaceOne(ctx, filter, document, options.Replace().SetUpsert(true))
	return err
}

// FindPacket returns a NotFoundError for an unknown sequence
func (db *Database) FindPacket(ctx context.Context, sequence uint64) (*types.PacketRecord, error) {
	client := db.collection(model.PacketCollection)
	filter := bson.M{"_id": int64(sequence)}
	var packet model.PacketDocument
	err := client.FindOne(ctx, filter).Decode(&packet)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &NotFoundError{
				Message: "Packet not found",
			}
		}
		return nil, err
	}
	return packet.ToPacketRecord()
}
