package model

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/babylonchain/mesh-provider/internal/config"
	"github.com/rs/zerolog/log"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type index struct {
	Indexes map[string]int
	Unique  bool
}

var collections = map[string][]index{
	ValidatorCollection: {{Indexes: map[string]int{}}},
	ClaimCollection: {
		{Indexes: map[string]int{"owner": 1, "validator": 1}, Unique: true},
		{Indexes: map[string]int{"validator": 1, "state": 1}, Unique: false},
	},
	RewardPoolCollection:       {{Indexes: map[string]int{}}},
	ChannelCollection:          {{Indexes: map[string]int{}}},
	PacketCollection:           {{Indexes: map[string]int{"status": 1}, Unique: false}},
	CounterCollection:          {{Indexes: map[string]int{}}},
	UnprocessableMsgCollection: {{Indexes: map[string]int{}}},
	OutboxCollection:           {{Indexes: map[string]int{"created_at": 1}, Unique: false}},
	ProcessedMessageCollection: {{Indexes: map[string]int{}}},
}

func Setup(ctx context.Context, cfg *config.Config) error {
	clientOps := options.Client().ApplyURI(cfg.Db.Address)
	client, err := mongo.Connect(ctx, clientOps)
	if err != nil {
		return err
	}

	// Create a context with timeout.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Access a database and create collections.
	database := client.Database(cfg.Db.DbName)

	// Create collections.
	for collection := range collections {
		createCollection(ctx, database, collection)
	}

	for name, idxs := range collections {
		for _, idx := range idxs {
			createIndex(ctx, database, name, idx)
		}
	}

	log.Info().Msg("Collections and Indexes created successfully.")
	return nil
}

func createCollection(ctx context.Context, database *mongo.Database, collectionName string) {
	// Check if the collection already exists.
	if _, err := database.Collection(collectionName).Indexes().CreateOne(ctx, mongo.IndexModel{}); err != nil {
		log.Debug().Msg(fmt.Sprintf("Collection maybe already exists: %s, skip the rest. info: %s", collectionName, err))
		return
	}

	// Create the collection.
	if err := database.CreateCollection(ctx, collectionName); err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("Failed to create collection: " + collectionName)
		return
	}

	log.Debug().Msg("Collection created successfully: " + collectionName)
}

func createIndex(ctx context.Context, database *mongo.Database, collectionName string, idx index) {
	if len(idx.Indexes) == 0 {
		return
	}

	// map iteration is random, keep compound keys in a stable order
	keys := make([]string, 0, len(idx.Indexes))
	for k := range idx.Indexes {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	indexKeys := bson.D{}
	for _, k := range keys {
		indexKeys = append(indexKeys, bson.E{Key: k, Value: idx.Indexes[k]})
	}

	index := mongo.IndexModel{
		Keys:    indexKeys,
		Options: options.Index().SetUnique(idx.Unique),
	}

	if _, err := database.Collection(collectionName).Indexes().CreateOne(ctx, index); err != nil {
		log.Debug().Msg(fmt.Sprintf("Failed to create index on collection '%s': %v", collectionName, err))
		return
	}

	log.Debug().Msg("Index created successfully on collection: " + collectionName)
}
