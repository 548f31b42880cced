package db

import (
	"context"

	"github.com/babylonchain/mesh-provider/internal/db/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (db *Database) SaveUnprocessableMessage(ctx context.Context, messageBody, receipt, reason string) error {
	unprocessableMsgClient := db.collection(model.UnprocessableMsgCollection)

	_, err := unprocessableMsgClient.InsertOne(ctx, model.NewUnprocessableMessageDocument(messageBody, receipt, reason))
	if err != nil {
		return err
	}

	return nil
}

func (db *Database) FindUnprocessableMessages(ctx context.Context) ([]model.UnprocessableMessageDocument, error) {
	client := db.collection(model.UnprocessableMsgCollection)
	filter := bson.M{}
	options := options.FindOptions{}

	cursor, err := client.Find(ctx, filter, &options)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var unprocessableMessages []model.UnprocessableMessageDocument
	if err = cursor.All(ctx, &unprocessableMessages); err != nil {
		return nil, err
	}

	return unprocessableMessages, nil
}

func (db *Database) DeleteUnprocessableMessage(ctx context.Context, Receipt interface{}) error {
	unprocessableMsgClient := db.collection(model.UnprocessableMsgCollection)
	filter := bson.M{"receipt": Receipt}
	_, err := unprocessableMsgClient.DeleteOne(ctx, filter)
	return err
}
