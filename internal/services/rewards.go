package services

import (
	"context"
	"fmt"
	"sort"

	sdkmath "cosmossdk.io/math"
	"github.com/rs/zerolog/log"

	"github.com/babylonchain/mesh-provider/internal/db"
	"github.com/babylonchain/mesh-provider/internal/types"
	"github.com/babylonchain/mesh-provider/internal/utils"
)

func getOrCreateRewardPool(ctx context.Context, store db.StateStore, validator string) (*types.RewardPool, error) {
	pool, err := store.FindRewardPool(ctx, validator)
	if err != nil {
		if db.IsNotFoundError(err) {
			fresh := types.NewRewardPool(validator)
			return &fresh, nil
		}
		return nil, internalError(err)
	}
	return pool, nil
}

// settleRewards moves what the claim's active stake earned since its last
// checkpoint into its pending rewards. It must run before the active
// amount of the claim changes.
func settleRewards(pool *types.RewardPool, claim *types.Claim) error {
	delta := pool.Index.Sub(claim.RewardIndex)
	if delta.IsPositive() {
		earned := delta.MulInt(claim.Active()).TruncateInt()
		pending, err := types.AddAmounts(claim.PendingRewards, earned)
		if err != nil {
			return err
		}
		claim.PendingRewards = pending
	}
	claim.RewardIndex = pool.Index
	return nil
}

// distribute spreads reward over the bonded stake of the pool. Without any
// bonded stake the reward is kept for the next distribution.
func distribute(pool *types.RewardPool, reward sdkmath.Int) error {
	total, err := types.AddAmounts(reward, pool.Undistributed)
	if err != nil {
		return err
	}
	if pool.Bonded.IsZero() {
		pool.Undistributed = total
		return nil
	}
	index, err := types.AddIndex(pool.Index, sdkmath.LegacyNewDecFromInt(total).QuoInt(pool.Bonded))
	if err != nil {
		return err
	}
	pool.Index = index
	pool.Undistributed = sdkmath.ZeroInt()
	return nil
}

// ReceiveRewards distributes rewards pushed by the consumer over the
// channel. Amounts are converted to the local reward denom with the
// configured exchange rate.
func (s *Services) ReceiveRewards(ctx context.Context, channelID string, packet *types.ReceiveRewardsPacket) (*types.Response, *types.Error) {
	return s.runTransition(ctx, "receive_rewards", func(ctx context.Context, store db.StateStore, res *types.Response) error {
		if err := requireOrigin(ctx, store, channelID); err != nil {
			return err
		}

		validators := make([]string, 0, len(packet.RewardsByValidator))
		for validator := range packet.RewardsByValidator {
			validators = append(validators, validator)
		}
		sort.Strings(validators)

		rate := s.providerCfg().ExchangeRate()
		total := sdkmath.ZeroInt()
		for _, validator := range validators {
			coin := packet.RewardsByValidator[validator]
			if err := coin.Validate(); err != nil {
				return types.NewValidationError(err.Error())
			}
			reward := rate.MulInt(coin.Amount).TruncateInt()
			pool, err := getOrCreateRewardPool(ctx, store, validator)
			if err != nil {
				return err
			}
			if err := distribute(pool, reward); err != nil {
				return err
			}
			if err := store.SaveRewardPool(ctx, pool); err != nil {
				return internalError(err)
			}
			total = total.Add(reward)
			log.Ctx(ctx).Debug().Str("validator", validator).Str("reward", reward.String()).
				Str("index", pool.Index.String()).Msg("rewards distributed")
		}
		res.AddAttribute("rewards", types.NewCoin(s.providerCfg().RewardDenom, total).String())
		return nil
	})
}

// ClaimRewards pays the sender everything its claim on the validator has
// earned so far.
func (s *Services) ClaimRewards(ctx context.Context, env types.Env, msg *types.ClaimRewardsMsg) (*types.Response, *types.Error) {
	return s.runTransition(ctx, "claim_rewards", func(ctx context.Context, store db.StateStore, res *types.Response) error {
		claim, err := store.FindClaim(ctx, env.Sender, msg.Validator)
		if err != nil {
			if db.IsNotFoundError(err) {
				return types.NewUnauthorizedError(
					fmt.Sprintf("%s holds no claim on validator %s", env.Sender, msg.Validator),
				)
			}
			return internalError(err)
		}
		if !utils.Contains(utils.QualifiedStatesToClaimRewards(), claim.State()) {
			return types.NewUnauthorizedError(
				fmt.Sprintf("claim of %s on validator %s is %s", env.Sender, msg.Validator, claim.State()),
			)
		}
		pool, err := getOrCreateRewardPool(ctx, store, msg.Validator)
		if err != nil {
			return err
		}
		if err := settleRewards(pool, claim); err != nil {
			return err
		}

		payout := claim.PendingRewards
		if payout.IsPositive() {
			res.Transfers = append(res.Transfers, types.BankSend{
				ToAddress: env.Sender,
				Amount:    []types.Coin{types.NewCoin(s.providerCfg().RewardDenom, payout)},
			})
		}
		claim.PendingRewards = sdkmath.ZeroInt()
		if err := store.SaveClaim(ctx, claim); err != nil {
			return internalError(err)
		}
		res.AddAttribute("validator", msg.Validator)
		res.AddAttribute("amount", payout.String())
		return nil
	})
}

// requireOrigin checks that an inbound packet arrived on the bound channel.
func requireOrigin(ctx context.Context, store db.StateStore, channelID string) error {
	channel, err := requireChannel(ctx, store)
	if err != nil {
		return err
	}
	if channel.ChannelID != channelID {
		return types.NewUnauthorizedError(
			fmt.Sprintf("packet must arrive on channel %s", channel.ChannelID),
		)
	}
	return nil
}
