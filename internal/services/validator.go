package services

import (
	"context"
	"fmt"
	"net/http"

	sdkmath "cosmossdk.io/math"
	"github.com/rs/zerolog/log"

	"github.com/babylonchain/mesh-provider/internal/db"
	"github.com/babylonchain/mesh-provider/internal/types"
)

func getValidator(ctx context.Context, store db.StateStore, address string) (*types.Validator, error) {
	v, err := store.FindValidator(ctx, address)
	if err != nil {
		if db.IsNotFoundError(err) {
			return nil, types.NewErrorWithMsg(
				http.StatusNotFound, types.ValidatorNotFound,
				fmt.Sprintf("validator %s not found", address),
			)
		}
		return nil, internalError(err)
	}
	return v, nil
}

// getOrCreateValidator returns the stored validator or a fresh one with
// multiplier 1 and nothing staked. The fresh one is not saved.
func getOrCreateValidator(ctx context.Context, store db.StateStore, address string) (*types.Validator, error) {
	v, err := store.FindValidator(ctx, address)
	if err != nil {
		if db.IsNotFoundError(err) {
			fresh := types.NewValidator(address)
			return &fresh, nil
		}
		return nil, internalError(err)
	}
	return v, nil
}

// applySlash compounds the slash into the validator multiplier:
// multiplier = multiplier * (1 - fraction).
func applySlash(ctx context.Context, store db.StateStore, address string, fraction sdkmath.LegacyDec) (*types.Validator, error) {
	v, err := getValidator(ctx, store, address)
	if err != nil {
		return nil, err
	}
	if fraction.IsNil() || fraction.IsNegative() || fraction.GT(sdkmath.LegacyOneDec()) {
		return nil, types.NewErrorWithMsg(
			http.StatusBadRequest, types.InvalidFraction,
			"slash fraction must be between 0 and 1",
		)
	}
	v.Multiplier = v.Multiplier.Mul(sdkmath.LegacyOneDec().Sub(fraction))
	if err := store.SaveValidator(ctx, v); err != nil {
		return nil, internalError(err)
	}
	return v, nil
}

// adjustStake changes the validator's total stake by delta.
func adjustStake(v *types.Validator, delta sdkmath.Int) error {
	total, err := types.AddAmounts(v.TotalStaked, delta)
	if err != nil {
		return err
	}
	if total.IsNegative() {
		return types.NewErrorWithMsg(
			http.StatusBadRequest, types.Underflow,
			fmt.Sprintf("total stake of validator %s cannot go below zero", v.Address),
		)
	}
	v.TotalStaked = total
	return nil
}

// addValidators registers the validators announced by the consumer chain.
// Known validators are left untouched.
func addValidators(ctx context.Context, store db.StateStore, res *types.Response, addresses []string) error {
	added := 0
	for _, address := range addresses {
		if address == "" {
			return types.NewValidationError("empty validator address")
		}
		_, err := store.FindValidator(ctx, address)
		if err == nil {
			continue
		}
		if !db.IsNotFoundError(err) {
			return internalError(err)
		}
		v := types.NewValidator(address)
		if err := store.SaveValidator(ctx, &v); err != nil {
			return internalError(err)
		}
		added++
		log.Ctx(ctx).Info().Str("validator", address).Msg("validator registered")
	}
	res.AddAttribute("added", fmt.Sprintf("%d", added))
	return nil
}
