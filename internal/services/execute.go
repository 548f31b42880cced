package services

import (
	"context"
	"fmt"

	"github.com/babylonchain/mesh-provider/internal/db"
	"github.com/babylonchain/mesh-provider/internal/types"
)

// Execute dispatches an authenticated execute message to its transition.
func (s *Services) Execute(ctx context.Context, env types.Env, msg types.ExecuteMsg) (*types.Response, *types.Error) {
	variant, err := msg.Variant()
	if err != nil {
		return nil, types.NewValidationError(err.Error())
	}
	switch m := variant.(type) {
	case *types.ReceiveClaimMsg:
		return s.ReceiveClaim(ctx, env, m)
	case *types.UnstakeMsg:
		return s.Unstake(ctx, env, m)
	case *types.UnbondMsg:
		return s.Unbond(ctx, env)
	case *types.SlashMsg:
		return s.Slash(ctx, env, m)
	case *types.ClaimRewardsMsg:
		return s.ClaimRewards(ctx, env, m)
	default:
		return nil, types.NewValidationError(fmt.Sprintf("unsupported execute message %T", variant))
	}
}

// ReceivePacket dispatches a packet sent by the consumer on channelID.
func (s *Services) ReceivePacket(ctx context.Context, channelID string, packet types.ConsumerPacket) (*types.Response, *types.Error) {
	if err := packet.Validate(); err != nil {
		return nil, types.NewValidationError(err.Error())
	}
	switch {
	case packet.ReceiveRewards != nil:
		return s.ReceiveRewards(ctx, channelID, packet.ReceiveRewards)
	case packet.UpdateValidators != nil:
		return s.AddValidators(ctx, channelID, packet.UpdateValidators.Added)
	default:
		return nil, types.NewValidationError("empty consumer packet")
	}
}

// AddValidators registers validators announced by the consumer.
func (s *Services) AddValidators(ctx context.Context, channelID string, addresses []string) (*types.Response, *types.Error) {
	return s.runTransition(ctx, "update_validators", func(ctx context.Context, store db.StateStore, res *types.Response) error {
		if err := requireOrigin(ctx, store, channelID); err != nil {
			return err
		}
		return addValidators(ctx, store, res, addresses)
	})
}
