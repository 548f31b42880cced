package utils

import (
	"github.com/babylonchain/mesh-provider/internal/types"
)

// QualifiedStatesToUnstake returns the claim states from which more stake can be moved into unbonding.
// An already unbonding claim may unstake the rest of its active amount.
func QualifiedStatesToUnstake() []types.ClaimState {
	return []types.ClaimState{types.Staked, types.Unbonding}
}

// QualifiedStatesToRelease returns the claim states that can be released once matured
func QualifiedStatesToRelease() []types.ClaimState {
	return []types.ClaimState{types.Unbonding}
}

// QualifiedStatesToClaimRewards returns the claim states that still accrue or hold rewards
func QualifiedStatesToClaimRewards() []types.ClaimState {
	return []types.ClaimState{types.Staked, types.Unbonding}
}
