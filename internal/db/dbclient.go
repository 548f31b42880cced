package db

import (
	"context"

	"github.com/babylonchain/mesh-provider/internal/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Database struct {
	DbName string
	Client *mongo.Client
	cfg    config.DbConfig
}

type DbResultMap[T any] struct {
	Data            []T    `json:"data"`
	PaginationToken string `json:"paginationToken"`
}

func New(ctx context.Context, cfg config.DbConfig) (*Database, error) {
	clientOps := options.Client().ApplyURI(cfg.Address)
	client, err := mongo.Connect(ctx, clientOps)
	if err != nil {
		return nil, err
	}

	return &Database{
		DbName: cfg.DbName,
		Client: client,
		cfg:    cfg,
	}, nil
}

func (db *Database) Ping(ctx context.Context) error {
	err := db.Client.Ping(ctx, nil)
	if err != nil {
		return err
	}
	return nil
}

// RunInTransaction runs fn inside a mongo multi-document transaction. The
// store handed to fn is the database itself: every call made with the
// session context joins the transaction.
func (db *Database) RunInTransaction(ctx context.Context, fn func(ctx context.Context, store StateStore) error) error {
	txnFunc := func(sessCtx mongo.SessionContext) (interface{}, error) {
		return nil, fn(sessCtx, db)
	}
	_, err := TxWithRetries(ctx, &dbTransactionClient{db.Client}, db.maxTxAttempts(), txnFunc)
	return err
}

func (db *Database) maxTxAttempts() int {
	if db.cfg.MaxTxAttempts > 0 {
		return db.cfg.MaxTxAttempts
	}
	return DefaultMaxAttempts
}

func (db *Database) collection(name string) *mongo.Collection {
	return db.Client.Database(db.DbName).Collection(name)
}

// This function is used to build the result map with pagination token
// It will return the result map with pagination token if the result length is equal to the fetch limit
// Otherwise it will return the result map without pagination token. i.e pagination token will be empty string
func toResultMapWithPaginationToken[T any](limit int64, result []T, paginationKeyBuilder func(T) (string, error)) (*DbResultMap[T], error) {
	if len(result) > 0 && len(result) == int(limit) {
		paginationToken, err := paginationKeyBuilder(result[len(result)-1])
		if err != nil {
			return nil, err
		}
		return &DbResultMap[T]{
			Data:            result,
			PaginationToken: paginationToken,
		}, nil

	}

	return &DbResultMap[T]{
		Data:            result,
		PaginationToken: "",
	}, nil
}
