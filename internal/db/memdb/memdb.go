// Package memdb is an in-memory implementation of db.DBClient. It backs the
// service tests and the `--in-memory` development mode.
package memdb

import (
	"context"
	"maps"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/babylonchain/mesh-provider/internal/db"
	"github.com/babylonchain/mesh-provider/internal/db/model"
	"github.com/babylonchain/mesh-provider/internal/types"
)

const defaultPaginationLimit = 100

type state struct {
	validators     map[string]types.Validator
	claims         map[string]types.Claim
	rewardPools    map[string]types.RewardPool
	channel        *types.Channel
	packets        map[uint64]types.PacketRecord
	packetSequence uint64
	processed      map[string]struct{}
	outbox         map[string]types.OutboxRecord
}

func newState() *state {
	return &state{
		validators:  make(map[string]types.Validator),
		claims:      make(map[string]types.Claim),
		rewardPools: make(map[string]types.RewardPool),
		packets:     make(map[uint64]types.PacketRecord),
		processed:   make(map[string]struct{}),
		outbox:      make(map[string]types.OutboxRecord),
	}
}

func (s *state) clone() *state {
	c := &state{
		validators:     maps.Clone(s.validators),
		claims:         maps.Clone(s.claims),
		rewardPools:    maps.Clone(s.rewardPools),
		packets:        maps.Clone(s.packets),
		packetSequence: s.packetSequence,
		processed:      maps.Clone(s.processed),
		outbox:         maps.Clone(s.outbox),
	}
	if s.channel != nil {
		channel := *s.channel
		c.channel = &channel
	}
	return c
}

type Database struct {
	mu              sync.RWMutex
	committed       *state
	unprocessable   []model.UnprocessableMessageDocument
	paginationLimit int64
}

var _ db.DBClient = (*Database)(nil)

func New() *Database {
	return &Database{
		committed:       newState(),
		paginationLimit: defaultPaginationLimit,
	}
}

// WithPaginationLimit sets the page size of FindValidators.
func (d *Database) WithPaginationLimit(limit int64) *Database {
	d.paginationLimit = limit
	return d
}

func (d *Database) Ping(ctx context.Context) error {
	return nil
}

// RunInTransaction runs fn against a private copy of the state and swaps
// it in only when fn succeeds.
func (d *Database) RunInTransaction(ctx context.Context, fn func(ctx context.Context, store db.StateStore) error) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	tx := &store{state: d.committed.clone()}
	if err := fn(ctx, tx); err != nil {
		return err
	}
	d.committed = tx.state
	return nil
}

func (d *Database) read() *store {
	return &store{state: d.committed}
}

func (d *Database) FindValidator(ctx context.Context, address string) (*types.Validator, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.read().FindValidator(ctx, address)
}

func (d *Database) FindClaim(ctx context.Context, owner, validator string) (*types.Claim, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.read().FindClaim(ctx, owner, validator)
}

func (d *Database) FindClaimsByOwner(ctx context.Context, owner string) ([]types.Claim, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.read().FindClaimsByOwner(ctx, owner)
}

func (d *Database) FindRewardPool(ctx context.Context, validator string) (*types.RewardPool, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.read().FindRewardPool(ctx, validator)
}

func (d *Database) FindChannel(ctx context.Context) (*types.Channel, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.read().FindChannel(ctx)
}

func (d *Database) FindPacket(ctx context.Context, sequence uint64) (*types.PacketRecord, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.read().FindPacket(ctx, sequence)
}

func (d *Database) FindValidators(ctx context.Context, paginationToken string) (*db.DbResultMap[types.Validator], error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	after := ""
	if paginationToken != "" {
		decoded, err := model.DecodePaginationToken[model.ValidatorPagination](paginationToken)
		if err != nil {
			return nil, &db.InvalidPaginationTokenError{Message: "Invalid pagination token"}
		}
		after = decoded.Address
	}

	addresses := make([]string, 0, len(d.committed.validators))
	for addr := range d.committed.validators {
		if addr > after {
			addresses = append(addresses, addr)
		}
	}
	sort.Strings(addresses)

	result := &db.DbResultMap[types.Validator]{Data: []types.Validator{}}
	for _, addr := range addresses {
		if int64(len(result.Data)) == d.paginationLimit {
			break
		}
		result.Data = append(result.Data, d.committed.validators[addr])
	}
	if len(result.Data) > 0 && int64(len(result.Data)) == d.paginationLimit {
		last := result.Data[len(result.Data)-1]
		token, err := model.BuildValidatorPaginationToken(model.ValidatorDocument{Address: last.Address})
		if err != nil {
			return nil, err
		}
		result.PaginationToken = token
	}
	return result, nil
}

func (d *Database) SaveUnprocessableMessage(ctx context.Context, messageBody, receipt, reason string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if receipt == "" {
		receipt = uuid.NewString()
	}
	d.unprocessable = append(d.unprocessable, *model.NewUnprocessableMessageDocument(messageBody, receipt, reason))
	return nil
}

func (d *Database) FindUnprocessableMessages(ctx context.Context) ([]model.UnprocessableMessageDocument, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]model.UnprocessableMessageDocument(nil), d.unprocessable...), nil
}

func (d *Database) DeleteUnprocessableMessage(ctx context.Context, receipt interface{}) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	kept := d.unprocessable[:0]
	for _, m := range d.unprocessable {
		if m.Receipt != receipt {
			kept = append(kept, m)
		}
	}
	d.unprocessable = kept
	return nil
}

func (d *Database) FindOutboxRecords(ctx context.Context) ([]types.OutboxRecord, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	records := make([]types.OutboxRecord, 0, len(d.committed.outbox))
	for _, r := range d.committed.outbox {
		records = append(records, r)
	}
	sort.Slice(records, func(i, j int) bool {
		if !records[i].CreatedAt.Equal(records[j].CreatedAt) {
			return records[i].CreatedAt.Before(records[j].CreatedAt)
		}
		return records[i].ID < records[j].ID
	})
	return records, nil
}

func (d *Database) DeleteOutboxRecord(ctx context.Context, id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.committed.outbox, id)
	return nil
}
