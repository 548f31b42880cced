package types

import (
	"time"

	sdkmath "cosmossdk.io/math"
)

type ClaimState string

const (
	Staked    ClaimState = "staked"
	Unbonding ClaimState = "unbonding"
	Released  ClaimState = "released"
)

func (s ClaimState) ToString() string {
	return string(s)
}

// Claim is a delegator's stake position against a single validator.
// Amount is the original staked amount and never reflects slashing; the
// validator multiplier is applied only when the claim is released.
type Claim struct {
	Owner     string
	Validator string
	Amount    sdkmath.Int
	// UnbondingAmount is the part of Amount that has been unstaked and is
	// waiting for the unbonding period to elapse.
	UnbondingAmount sdkmath.Int
	UnbondingStart  time.Time
	// RewardIndex is the reward pool index at the last settlement.
	RewardIndex    sdkmath.LegacyDec
	PendingRewards sdkmath.Int
}

func NewClaim(owner, validator string, rewardIndex sdkmath.LegacyDec) Claim {
	return Claim{
		Owner:           owner,
		Validator:       validator,
		Amount:          sdkmath.ZeroInt(),
		UnbondingAmount: sdkmath.ZeroInt(),
		RewardIndex:     rewardIndex,
		PendingRewards:  sdkmath.ZeroInt(),
	}
}

func (c Claim) State() ClaimState {
	if c.Amount.IsZero() {
		return Released
	}
	if c.UnbondingAmount.IsPositive() {
		return Unbonding
	}
	return Staked
}

// Active is the part of the claim that is still delegated on the remote chain.
func (c Claim) Active() sdkmath.Int {
	return c.Amount.Sub(c.UnbondingAmount)
}

// MaturesAt is the earliest block time at which the unbonding part can be released.
func (c Claim) MaturesAt(unbondingPeriod time.Duration) time.Time {
	return c.UnbondingStart.Add(unbondingPeriod)
}

func (c Claim) IsMatured(now time.Time, unbondingPeriod time.Duration) bool {
	return c.State() == Unbonding && !now.Before(c.MaturesAt(unbondingPeriod))
}
