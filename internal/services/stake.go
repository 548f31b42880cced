package services

import (
	"context"
	"fmt"
	"net/http"

	sdkmath "cosmossdk.io/math"

	"github.com/babylonchain/mesh-provider/internal/db"
	"github.com/babylonchain/mesh-provider/internal/types"
	"github.com/babylonchain/mesh-provider/internal/utils"
)

func validateAmount(amount sdkmath.Int) error {
	if amount.IsNil() || !amount.IsPositive() {
		return types.NewValidationError("amount must be positive")
	}
	return types.CheckAmountRange(amount)
}

// ReceiveClaim records stake locked by the lockup contract for owner and
// tells the consumer to delegate it.
func (s *Services) ReceiveClaim(ctx context.Context, env types.Env, msg *types.ReceiveClaimMsg) (*types.Response, *types.Error) {
	return s.runTransition(ctx, "receive_claim", func(ctx context.Context, store db.StateStore, res *types.Response) error {
		if env.Sender != s.providerCfg().LockupAddress {
			return types.NewUnauthorizedError("only the lockup contract can send claims")
		}
		if msg.Owner == "" || msg.Validator == "" {
			return types.NewValidationError("owner and validator are required")
		}
		if err := validateAmount(msg.Amount); err != nil {
			return err
		}
		if _, err := requireChannel(ctx, store); err != nil {
			return err
		}

		validator, err := getOrCreateValidator(ctx, store, msg.Validator)
		if err != nil {
			return err
		}
		pool, err := getOrCreateRewardPool(ctx, store, msg.Validator)
		if err != nil {
			return err
		}
		claim, err := store.FindClaim(ctx, msg.Owner, msg.Validator)
		if err != nil {
			if !db.IsNotFoundError(err) {
				return internalError(err)
			}
			fresh := types.NewClaim(msg.Owner, msg.Validator, pool.Index)
			claim = &fresh
		}

		if err := settleRewards(pool, claim); err != nil {
			return err
		}
		if claim.Amount, err = types.AddAmounts(claim.Amount, msg.Amount); err != nil {
			return err
		}
		if pool.Bonded, err = types.AddAmounts(pool.Bonded, msg.Amount); err != nil {
			return err
		}
		if err := adjustStake(validator, msg.Amount); err != nil {
			return err
		}

		if err := store.SaveValidator(ctx, validator); err != nil {
			return internalError(err)
		}
		if err := store.SaveRewardPool(ctx, pool); err != nil {
			return internalError(err)
		}
		if err := store.SaveClaim(ctx, claim); err != nil {
			return internalError(err)
		}

		res.AddAttribute("owner", msg.Owner)
		res.AddAttribute("validator", msg.Validator)
		res.AddAttribute("amount", msg.Amount.String())
		return s.sendPacket(ctx, store, res, env.BlockTime, types.ProviderPacket{
			Stake: &types.StakePacket{
				Validator: msg.Validator,
				Amount:    msg.Amount,
				Key:       msg.Owner,
			},
		})
	})
}

// Unstake moves part of the sender's active stake on a validator into
// unbonding. The unbonding period restarts at the current block time.
func (s *Services) Unstake(ctx context.Context, env types.Env, msg *types.UnstakeMsg) (*types.Response, *types.Error) {
	return s.runTransition(ctx, "unstake", func(ctx context.Context, store db.StateStore, res *types.Response) error {
		if err := validateAmount(msg.Amount); err != nil {
			return err
		}
		claim, err := store.FindClaim(ctx, env.Sender, msg.Validator)
		if err != nil {
			if db.IsNotFoundError(err) {
				return types.NewErrorWithMsg(
					http.StatusNotFound, types.ClaimNotFound,
					fmt.Sprintf("%s holds no claim on validator %s", env.Sender, msg.Validator),
				)
			}
			return internalError(err)
		}
		if !utils.Contains(utils.QualifiedStatesToUnstake(), claim.State()) {
			return types.NewErrorWithMsg(
				http.StatusBadRequest, types.InsufficientStake,
				fmt.Sprintf("claim in state %s cannot be unstaked", claim.State()),
			)
		}
		if msg.Amount.GT(claim.Active()) {
			return types.NewErrorWithMsg(
				http.StatusBadRequest, types.InsufficientStake,
				fmt.Sprintf("cannot unstake %s, only %s is staked", msg.Amount, claim.Active()),
			)
		}

		pool, err := getOrCreateRewardPool(ctx, store, msg.Validator)
		if err != nil {
			return err
		}
		if err := settleRewards(pool, claim); err != nil {
			return err
		}
		bonded := pool.Bonded.Sub(msg.Amount)
		if bonded.IsNegative() {
			return types.NewErrorWithMsg(
				http.StatusBadRequest, types.Underflow,
				fmt.Sprintf("bonded stake of validator %s cannot go below zero", msg.Validator),
			)
		}
		pool.Bonded = bonded
		claim.UnbondingAmount = claim.UnbondingAmount.Add(msg.Amount)
		claim.UnbondingStart = env.BlockTime

		if err := store.SaveRewardPool(ctx, pool); err != nil {
			return internalError(err)
		}
		if err := store.SaveClaim(ctx, claim); err != nil {
			return internalError(err)
		}

		res.AddAttribute("owner", env.Sender)
		res.AddAttribute("validator", msg.Validator)
		res.AddAttribute("amount", msg.Amount.String())
		return s.sendPacket(ctx, store, res, env.BlockTime, types.ProviderPacket{
			Unstake: &types.UnstakePacket{
				Validator: msg.Validator,
				Amount:    msg.Amount,
				Key:       env.Sender,
			},
		})
	})
}
