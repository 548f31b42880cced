package memdb

import (
	"context"
	"sort"

	"github.com/babylonchain/mesh-provider/internal/db"
	"github.com/babylonchain/mesh-provider/internal/db/model"
	"github.com/babylonchain/mesh-provider/internal/types"
)

type store struct {
	state *state
}

var _ db.StateStore = (*store)(nil)

func (s *store) FindValidator(ctx context.Context, address string) (*types.Validator, error) {
	v, ok := s.state.validators[address]
	if !ok {
		return nil, &db.NotFoundError{Key: address, Message: "Validator not found"}
	}
	return &v, nil
}

func (s *store) SaveValidator(ctx context.Context, validator *types.Validator) error {
	s.state.validators[validator.Address] = *validator
	return nil
}

func (s *store) FindClaim(ctx context.Context, owner, validator string) (*types.Claim, error) {
	c, ok := s.state.claims[model.ClaimId(owner, validator)]
	if !ok {
		return nil, &db.NotFoundError{Key: model.ClaimId(owner, validator), Message: "Claim not found"}
	}
	return &c, nil
}

func (s *store) FindClaimsByOwner(ctx context.Context, owner string) ([]types.Claim, error) {
	claims := []types.Claim{}
	for _, c := range s.state.claims {
		if c.Owner == owner {
			claims = append(claims, c)
		}
	}
	sort.Slice(claims, func(i, j int) bool { return claims[i].Validator < claims[j].Validator })
	return claims, nil
}

func (s *store) SaveClaim(ctx context.Context, claim *types.Claim) error {
	s.state.claims[model.ClaimId(claim.Owner, claim.Validator)] = *claim
	return nil
}

func (s *store) DeleteClaim(ctx context.Context, owner, validator string) error {
	id := model.ClaimId(owner, validator)
	if _, ok := s.state.claims[id]; !ok {
		return &db.NotFoundError{Key: id, Message: "Claim not found"}
	}
	delete(s.state.claims, id)
	return nil
}

func (s *store) FindRewardPool(ctx context.Context, validator string) (*types.RewardPool, error) {
	p, ok := s.state.rewardPools[validator]
	if !ok {
		return nil, &db.NotFoundError{Key: validator, Message: "Reward pool not found"}
	}
	return &p, nil
}

func (s *store) SaveRewardPool(ctx context.Context, pool *types.RewardPool) error {
	s.state.rewardPools[pool.Validator] = *pool
	return nil
}

func (s *store) FindChannel(ctx context.Context) (*types.Channel, error) {
	if s.state.channel == nil {
		return nil, &db.NotFoundError{Key: model.ChannelDocumentId, Message: "Channel not established"}
	}
	c := *s.state.channel
	return &c, nil
}

func (s *store) SaveChannel(ctx context.Context, channel *types.Channel) error {
	if s.state.channel != nil {
		return &db.DuplicateKeyError{Key: channel.ChannelID, Message: "Contract already has a bound channel"}
	}
	c := *channel
	s.state.channel = &c
	return nil
}

func (s *store) NextPacketSequence(ctx context.Context) (uint64, error) {
	s.state.packetSequence++
	return s.state.packetSequence, nil
}

func (s *store) SavePacket(ctx context.Context, packet *types.PacketRecord) error {
	s.state.packets[packet.Sequence] = *packet
	return nil
}

func (s *store) FindPacket(ctx context.Context, sequence uint64) (*types.PacketRecord, error) {
	p, ok := s.state.packets[sequence]
	if !ok {
		return nil, &db.NotFoundError{Message: "Packet not found"}
	}
	return &p, nil
}

func (s *store) MarkMessageProcessed(ctx context.Context, key string) error {
	if _, ok := s.state.processed[key]; ok {
		return &db.DuplicateKeyError{Key: key, Message: "Message already processed"}
	}
	s.state.processed[key] = struct{}{}
	return nil
}

func (s *store) SaveOutboxRecord(ctx context.Context, record *types.OutboxRecord) error {
	s.state.outbox[record.ID] = *record
	return nil
}
