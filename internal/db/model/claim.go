package model

import (
	"fmt"
	"time"

	"github.com/babylonchain/mesh-provider/internal/types"
)

const ClaimCollection = "claims"

type ClaimDocument struct {
	Id              string `bson:"_id"` // owner/validator
	Owner           string `bson:"owner"`
	Validator       string `bson:"validator"`
	Amount          string `bson:"amount"`
	UnbondingAmount string `bson:"unbonding_amount"`
	// Unix nanoseconds, zero while nothing is unbonding.
	UnbondingStart int64  `bson:"unbonding_start"`
	State          string `bson:"state"`
	RewardIndex    string `bson:"reward_index"`
	PendingRewards string `bson:"pending_rewards"`
}

func ClaimId(owner, validator string) string {
	return owner + "/" + validator
}

func NewClaimDocument(c *types.Claim) *ClaimDocument {
	var unbondingStart int64
	if !c.UnbondingStart.IsZero() {
		unbondingStart = c.UnbondingStart.UnixNano()
	}
	return &ClaimDocument{
		Id:              ClaimId(c.Owner, c.Validator),
		Owner:           c.Owner,
		Validator:       c.Validator,
		Amount:          c.Amount.String(),
		UnbondingAmount: c.UnbondingAmount.String(),
		UnbondingStart:  unbondingStart,
		State:           c.State().ToString(),
		RewardIndex:     c.RewardIndex.String(),
		PendingRewards:  c.PendingRewards.String(),
	}
}

func (d *ClaimDocument) ToClaim() (*types.Claim, error) {
	amount, err := parseInt(d.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount for claim %s: %w", d.Id, err)
	}
	unbondingAmount, err := parseInt(d.UnbondingAmount)
	if err != nil {
		return nil, fmt.Errorf("invalid unbonding amount for claim %s: %w", d.Id, err)
	}
	rewardIndex, err := parseDec(d.RewardIndex)
	if err != nil {
		return nil, fmt.Errorf("invalid reward index for claim %s: %w", d.Id, err)
	}
	pendingRewards, err := parseInt(d.PendingRewards)
	if err != nil {
		return nil, fmt.Errorf("invalid pending rewards for claim %s: %w", d.Id, err)
	}
	var unbondingStart time.Time
	if d.UnbondingStart != 0 {
		unbondingStart = time.Unix(0, d.UnbondingStart).UTC()
	}
	return &types.Claim{
		Owner:           d.Owner,
		Validator:       d.Validator,
		Amount:          amount,
		UnbondingAmount: unbondingAmount,
		UnbondingStart:  unbondingStart,
		RewardIndex:     rewardIndex,
		PendingRewards:  pendingRewards,
	}, nil
}
