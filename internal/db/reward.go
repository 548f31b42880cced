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

func (db *Database) FindRewardPool(ctx context.Context, validator string) (*types.RewardPool, error) {
	client := db.collection(model.RewardPoolCollection)
	filter := bson.M{"_id": validator}
	var pool model.RewardPoolDocument
	err := client.FindOne(ctx, filter).Decode(&pool)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &NotFoundError{
				Key:     validator,
				Message: "Reward pool not found",
			}
		}
		return nil, err
	}
	return pool.ToRewardPool()
}

func (db *Database) SaveRewardPool(ctx context.Context, pool *types.RewardPool) error {
	client := db.collection(model.RewardPoolCollection)
	filter := bson.M{"_id": pool.Validator}
	_, err := client.ReplaceOne(ctx, filter, model.NewRewardPoolDocument(pool), options.Replace().SetUpsert(true))
	return err
}
