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

const DefaultPaginationLimit = 100

// FindValidator returns a NotFoundError if the validator has never been seen
func (db *Database) FindValidator(ctx context.Context, address string) (*types.Validator, error) {
	client := db.collection(model.ValidatorCollection)
	filter := bson.M{"_id": address}
	var validator model.ValidatorDocument
	err := client.FindOne(ctx, filter).Decode(&validator)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &NotFoundError{
				Key:     address,
				Message: "Validator not found",
			}
		}
		return nil, err
	}
	return validator.ToValidator()
}

func (db *Database) SaveValidator(ctx context.Context, validator *types.Validator) error {
	client := db.collection(model.ValidatorCollection)
	filter := bson.M{"_id": validator.Address}
	_, err := client.ReplaceOne(ctx, filter, model.NewValidatorDocument(validator), options.Replace().SetUpsert(true))
	return err
}

// FindValidators returns the validators sorted by address, one page at a time
func (db *Database) FindValidators(ctx context.Context, paginationToken string) (*DbResultMap[types.Validator], error) {
	client := db.collection(model.ValidatorCollection)
	limit := db.paginationLimit()

	filter := bson.M{}
	options := options.Find().SetSort(bson.M{"_id": 1}).SetLimit(limit)
	if paginationToken != "" {
		decodedToken, err := model.DecodePaginationToken[model.ValidatorPagination](paginationToken)
		if err != nil {
			return nil, &InvalidPaginationTokenError{
				Message: "Invalid pagination token",
			}
		}
		filter = bson.M{"_id": bson.M{"$gt": decodedToken.Address}}
	}

	cursor, err := client.Find(ctx, filter, options)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var documents []model.ValidatorDocument
	if err = cursor.All(ctx, &documents); err != nil {
		return nil, err
	}

	page, err := toResultMapWithPaginationToken(limit, documents, model.BuildValidatorPaginationToken)
	if err != nil {
		return nil, err
	}
	validators := make([]types.Validator, 0, len(page.Data))
	for _, d := range page.Data {
		v, err := d.ToValidator()
		if err != nil {
			return nil, err
		}
		validators = append(validators, *v)
	}
	return &DbResultMap[types.Validator]{
		Data:            validators,
		PaginationToken: page.PaginationToken,
	}, nil
}

func (db *Database) paginationLimit() int64 {
	if db.cfg.MaxPaginationLimit > 0 {
		return db.cfg.MaxPaginationLimit
	}
	return DefaultPaginationLimit
}
