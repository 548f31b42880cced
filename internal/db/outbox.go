package db

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/babylonchain/mesh-provider/internal/db/model"
	"github.com/babylonchain/mesh-provider/internal/types"
)

// MarkMessageProcessed records key as consumed. A key seen before fails
// with a DuplicateKeyError, which aborts the surrounding transaction.
func (db *Database) MarkMessageProcessed(ctx context.Context, key string) error {
	client := db.collection(model.ProcessedMessageCollection)
	_, err := client.InsertOne(ctx, model.NewProcessedMessageDocument(key, time.Now()))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return &DuplicateKeyError{
				Key:     key,
				Message: "Message already processed",
			}
		}
		return err
	}
	return nil
}

func (db *Database) SaveOutboxRecord(ctx context.Context, record *types.OutboxRecord) error {
	client := db.collection(model.OutboxCollection)
	document, err := model.NewOutboxDocument(record)
	if err != nil {
		return err
	}
	_, err = client.InsertOne(ctx, document)
	return err
}

// FindOutboxRecords returns the undelivered records, oldest first.
func (db *Database) FindOutboxRecords(ctx context.Context) ([]types.OutboxRecord, error) {
	client := db.collection(model.OutboxCollection)
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := client.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var documents []model.OutboxDocument
	if err = cursor.All(ctx, &documents); err != nil {
		return nil, err
	}
	records := make([]types.OutboxRecord, 0, len(documents))
	for _, d := range documents {
		record, err := d.ToOutboxRecord()
		if err != nil {
			return nil, err
		}
		records = append(records, *record)
	}
	return records, nil
}

// DeleteOutboxRecord removes a delivered record. Deleting an unknown id is
// not an error.
func (db *Database) DeleteOutboxRecord(ctx context.Context, id string) error {
	client := db.collection(model.OutboxCollection)
	_, err := client.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
