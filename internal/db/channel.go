package db

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/babylonchain/mesh-provider/internal/db/model"
	"github.com/babylonchain/mesh-provider/internal/types"
)

// FindChannel returns a NotFoundError while no channel is bound
func (db *Database) FindChannel(ctx context.Context) (*types.Channel, error) {
	client := db.collection(model.ChannelCollection)
	filter := bson.M{"_id": model.ChannelDocumentId}
	var channel model.ChannelDocument
	err := client.FindOne(ctx, filter).Decode(&channel)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &NotFoundError{
				Key:     model.ChannelDocumentId,
				Message: "Channel not established",
			}
		}
		return nil, err
	}
	return channel.ToChannel(), nil
}

// SaveChannel binds the channel. A second bind fails with a DuplicateKeyError.
func (db *Database) SaveChannel(ctx context.Context, channel *types.Channel) error {
	client := db.collection(model.ChannelCollection)
	_, err := client.InsertOne(ctx, model.NewChannelDocument(channel))
	if err != nil {
		var writeErr mongo.WriteException
		if errors.As(err, &writeErr) {
			for _, e := range writeErr.WriteErrors {
				if mongo.IsDuplicateKeyError(e) {
					return &DuplicateKeyError{
						Key:     channel.ChannelID,
						Message: "Contract already has a bound channel",
					}
				}
			}
		}
		return err
	}
	return nil
}
