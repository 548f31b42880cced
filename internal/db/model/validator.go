package model

import (
	"fmt"

	sdkmath "cosmossdk.io/math"

	"github.com/babylonchain/mesh-provider/internal/types"
)

const ValidatorCollection = "validators"

// Amounts and decimals are stored as strings to keep full precision.
type ValidatorDocument struct {
	Address     string `bson:"_id"` // Primary key
	Multiplier  string `bson:"multiplier"`
	TotalStaked string `bson:"total_staked"`
}

func NewValidatorDocument(v *types.Validator) *ValidatorDocument {
	return &ValidatorDocument{
		Address:     v.Address,
		Multiplier:  v.Multiplier.String(),
		TotalStaked: v.TotalStaked.String(),
	}
}

func (d *ValidatorDocument) ToValidator() (*types.Validator, error) {
	multiplier, err := sdkmath.LegacyNewDecFromStr(d.Multiplier)
	if err != nil {
		return nil, fmt.Errorf("invalid multiplier for validator %s: %w", d.Address, err)
	}
	totalStaked, err := parseInt(d.TotalStaked)
	if err != nil {
		return nil, fmt.Errorf("invalid total staked for validator %s: %w", d.Address, err)
	}
	return &types.Validator{
		Address:     d.Address,
		Multiplier:  multiplier,
		TotalStaked: totalStaked,
	}, nil
}

type ValidatorPagination struct {
	Address string `json:"address"`
}

func BuildValidatorPaginationToken(d ValidatorDocument) (string, error) {
	return GetPaginationToken(ValidatorPagination{Address: d.Address})
}

func parseInt(s string) (sdkmath.Int, error) {
	i, ok := sdkmath.NewIntFromString(s)
	if !ok {
		return sdkmath.Int{}, fmt.Errorf("invalid integer %q", s)
	}
	return i, nil
}

func parseDec(s string) (sdkmath.LegacyDec, error) {
	return sdkmath.LegacyNewDecFromStr(s)
}
