package services

import (
	"context"
	"fmt"
	"net/http"
	"time"

	sdkmath "cosmossdk.io/math"
	"github.com/rs/zerolog/log"

	"github.com/babylonchain/mesh-provider/internal/db"
	"github.com/babylonchain/mesh-provider/internal/types"
	"github.com/babylonchain/mesh-provider/internal/utils"
)

// Unbond releases every unbonding claim of the sender whose unbonding
// period has elapsed. The validator multiplier at release time decides how
// much of the claim is returned; the rest is reported as slashed to the
// lockup contract. Immature claims are left untouched.
func (s *Services) Unbond(ctx context.Context, env types.Env) (*types.Response, *types.Error) {
	return s.runTransition(ctx, "unbond", func(ctx context.Context, store db.StateStore, res *types.Response) error {
		claims, err := store.FindClaimsByOwner(ctx, env.Sender)
		if err != nil {
			return internalError(err)
		}

		unbonding := 0
		matured := 0
		for i := range claims {
			claim := &claims[i]
			if !utils.Contains(utils.QualifiedStatesToRelease(), claim.State()) {
				continue
			}
			unbonding++
			if !claim.IsMatured(env.BlockTime, s.providerCfg().UnbondingPeriod) {
				log.Ctx(ctx).Debug().Str("owner", claim.Owner).Str("validator", claim.Validator).
					Time("maturesAt", claim.MaturesAt(s.providerCfg().UnbondingPeriod)).Msg("claim not matured yet")
				continue
			}
			if err := s.releaseClaim(ctx, store, res, claim); err != nil {
				return err
			}
			matured++
		}
		if unbonding == 0 {
			return types.NewErrorWithMsg(
				http.StatusBadRequest, types.NoMaturedClaims,
				fmt.Sprintf("%s has no unbonding claims", env.Sender),
			)
		}
		res.AddAttribute("matured", fmt.Sprintf("%d", matured))
		return nil
	})
}

func (s *Services) releaseClaim(ctx context.Context, store db.StateStore, res *types.Response, claim *types.Claim) error {
	validator, err := getValidator(ctx, store, claim.Validator)
	if err != nil {
		return err
	}
	amount := claim.UnbondingAmount
	final := validator.ApplyMultiplier(amount)
	slashed := amount.Sub(final)

	res.Messages = append(res.Messages, types.LockupMsg{
		Contract: s.providerCfg().LockupAddress,
		Msg: types.ClaimProviderMsg{
			SlashClaim: &types.SlashClaimMsg{
				Owner:     claim.Owner,
				Validator: claim.Validator,
				Amount:    amount,
				Slashed:   slashed,
			},
		},
	})

	if err := adjustStake(validator, amount.Neg()); err != nil {
		return err
	}
	if err := store.SaveValidator(ctx, validator); err != nil {
		return internalError(err)
	}

	claim.Amount = claim.Amount.Sub(amount)
	claim.UnbondingAmount = sdkmath.ZeroInt()
	claim.UnbondingStart = time.Time{}

	log.Ctx(ctx).Info().Str("owner", claim.Owner).Str("validator", claim.Validator).
		Str("amount", amount.String()).Str("slashed", slashed.String()).Msg("claim released")

	if claim.Amount.IsPositive() {
		if err := store.SaveClaim(ctx, claim); err != nil {
			return internalError(err)
		}
		return nil
	}

	// Fully released. Pay out what is still pending before the record goes away.
	pool, err := getOrCreateRewardPool(ctx, store, claim.Validator)
	if err != nil {
		return err
	}
	if err := settleRewards(pool, claim); err != nil {
		return err
	}
	if claim.PendingRewards.IsPositive() {
		res.Transfers = append(res.Transfers, types.BankSend{
			ToAddress: claim.Owner,
			Amount:    []types.Coin{types.NewCoin(s.providerCfg().RewardDenom, claim.PendingRewards)},
		})
	}
	if err := store.DeleteClaim(ctx, claim.Owner, claim.Validator); err != nil {
		return internalError(err)
	}
	return nil
}
