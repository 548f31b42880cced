package types

import (
	sdkmath "cosmossdk.io/math"
)

// Validator is the local bookkeeping entry of a remote-chain validator.
type Validator struct {
	Address string
	// Multiplier is the surviving share of stake after cumulative slashing.
	// It starts at 1 and only ever decreases.
	Multiplier  sdkmath.LegacyDec
	TotalStaked sdkmath.Int
}

func NewValidator(address string) Validator {
	return Validator{
		Address:     address,
		Multiplier:  sdkmath.LegacyOneDec(),
		TotalStaked: sdkmath.ZeroInt(),
	}
}

// ApplyMultiplier returns floor(amount * multiplier).
func (v Validator) ApplyMultiplier(amount sdkmath.Int) sdkmath.Int {
	return v.Multiplier.MulInt(amount).TruncateInt()
}

// RewardPool accrues rewards pushed by the consumer chain for one validator.
type RewardPool struct {
	Validator string
	// Index is the cumulative reward paid per unit of active stake.
	Index sdkmath.LegacyDec
	// Bonded is the sum of active (not unbonding) claim amounts.
	Bonded sdkmath.Int
	// Undistributed holds rewards that arrived while nothing was bonded.
	Undistributed sdkmath.Int
}

func NewRewardPool(validator string) RewardPool {
	return RewardPool{
		Validator:     validator,
		Index:         sdkmath.LegacyZeroDec(),
		Bonded:        sdkmath.ZeroInt(),
		Undistributed: sdkmath.ZeroInt(),
	}
}
