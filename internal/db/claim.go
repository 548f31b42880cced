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

// FindClaim returns a NotFoundError if the owner holds no claim on the validator
func (db *Database) FindClaim(ctx context.Context, owner, validator string) (*types.Claim, error) {
	client := db.collection(model.ClaimCollection)
	filter := bson.M{"_id": model.ClaimId(owner, validator)}
	var claim model.ClaimDocument
	err := client.FindOne(ctx, filter).Decode(&claim)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &NotFoundError{
				Key:     model.ClaimId(owner, validator),
				Message: "Claim not found",
			}
		}
		return nil, err
	}
	return claim.ToClaim()
}

// FindClaimsByOwner returns every claim of the owner ordered by validator
func (db *Database) FindClaimsByOwner(ctx context.Context, owner string) ([]types.Claim, error) {
	client := db.collection(model.ClaimCollection)
	filter := bson.M{"owner": owner}
	options := options.Find().SetSort(bson.M{"validator": 1})

	cursor, err := client.Find(ctx, filter, options)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var documents []model.ClaimDocument
	if err = cursor.All(ctx, &documents); err != nil {
		return nil, err
	}

	claims := make([]types.Claim, 0, len(documents))
	for _, d := range documents {
		c, err := d.ToClaim()
		if err != nil {
			return nil, err
		}
		claims = append(claims, *c)
	}
	return claims, nil
}

func (db *Database) SaveClaim(ctx context.Context, claim *types.Claim) error {
	client := db.collection(model.ClaimCollection)
	document := model.NewClaimDocument(claim)
	filter := bson.M{"_id": document.Id}
	_, err := client.ReplaceOne(ctx, filter, document, options.Replace().SetUpsert(true))
	return err
}

// DeleteClaim returns a NotFoundError if there was nothing to delete
func (db *Database) DeleteClaim(ctx context.Context, owner, validator string) error {
	client := db.collection(model.ClaimCollection)
	filter := bson.M{"_id": model.ClaimId(owner, validator)}
	result, err := client.DeleteOne(ctx, filter)
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return &NotFoundError{
			Key:     model.ClaimId(owner, validator),
			Message: "Claim not found",
		}
	}
	return nil
}
