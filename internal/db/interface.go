package db

import (
	"context"

	"github.com/babylonchain/mesh-provider/internal/db/model"
	"github.com/babylonchain/mesh-provider/internal/types"
)

// StateReader exposes reads of the provider state.
type StateReader interface {
	FindValidator(ctx context.Context, address string) (*types.Validator, error)
	FindClaim(ctx context.Context, owner, validator string) (*types.Claim, error)
	FindClaimsByOwner(ctx context.Context, owner string) ([]types.Claim, error)
	FindRewardPool(ctx context.Context, validator string) (*types.RewardPool, error)
	FindChannel(ctx context.Context) (*types.Channel, error)
	FindPacket(ctx context.Context, sequence uint64) (*types.PacketRecord, error)
}

// StateStore is the view of the provider state handed to a state
// transition. Writes only become visible once the transition commits.
type StateStore interface {
	StateReader
	SaveValidator(ctx context.Context, validator *types.Validator) error
	SaveClaim(ctx context.Context, claim *types.Claim) error
	DeleteClaim(ctx context.Context, owner, validator string) error
	SaveRewardPool(ctx context.Context, pool *types.RewardPool) error
	// SaveChannel returns a DuplicateKeyError if a channel is already bound.
	SaveChannel(ctx context.Context, channel *types.Channel) error
	NextPacketSequence(ctx context.Context) (uint64, error)
	SavePacket(ctx context.Context, packet *types.PacketRecord) error
	// MarkMessageProcessed returns a DuplicateKeyError if key was already
	// recorded by a committed transition.
	MarkMessageProcessed(ctx context.Context, key string) error
	SaveOutboxRecord(ctx context.Context, record *types.OutboxRecord) error
}

type DBClient interface {
	StateReader
	Ping(ctx context.Context) error
	// RunInTransaction executes fn with all-or-nothing semantics: if fn
	// returns an error none of its writes are committed. fn may be invoked
	// more than once when the transaction is retried.
	RunInTransaction(ctx context.Context, fn func(ctx context.Context, store StateStore) error) error
	FindValidators(ctx context.Context, paginationToken string) (*DbResultMap[types.Validator], error)
	SaveUnprocessableMessage(ctx context.Context, messageBody, receipt, reason string) error
	FindUnprocessableMessages(ctx context.Context) ([]model.UnprocessableMessageDocument, error)
	DeleteUnprocessableMessage(ctx context.Context, Receipt interface{}) error
	FindOutboxRecords(ctx context.Context) ([]types.OutboxRecord, error)
	DeleteOutboxRecord(ctx context.Context, id string) error
}
