package model

import (
	"fmt"

	"github.com/babylonchain/mesh-provider/internal/types"
)

const RewardPoolCollection = "reward_pools"

type RewardPoolDocument struct {
	Validator     string `bson:"_id"` // Primary key
	Index         string `bson:"index"`
	Bonded        string `bson:"bonded"`
	Undistributed string `bson:"undistributed"`
}

func NewRewardPoolDocument(p *types.RewardPool) *RewardPoolDocument {
	return &RewardPoolDocument{
		Validator:     p.Validator,
		Index:         p.Index.String(),
		Bonded:        p.Bonded.String(),
		Undistributed: p.Undistributed.String(),
	}
}

func (d *RewardPoolDocument) ToRewardPool() (*types.RewardPool, error) {
	index, err := parseDec(d.Index)
	if err != nil {
		return nil, fmt.Errorf("invalid reward index for validator %s: %w", d.Validator, err)
	}
	bonded, err := parseInt(d.Bonded)
	if err != nil {
		return nil, fmt.Errorf("invalid bonded amount for validator %s: %w", d.Validator, err)
	}
	undistributed, err := parseInt(d.Undistributed)
	if err != nil {
		return nil, fmt.Errorf("invalid undistributed rewards for validator %s: %w", d.Validator, err)
	}
	return &types.RewardPool{
		Validator:     d.Validator,
		Index:         index,
		Bonded:        bonded,
		Undistributed: undistributed,
	}, nil
}
