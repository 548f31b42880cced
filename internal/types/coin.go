package types

import (
	"fmt"

	sdkmath "cosmossdk.io/math"
)

// Coin is an amount of a single denomination. Amount is encoded as a
// decimal string in JSON.
type Coin struct {
	Denom  string      `json:"denom"`
	Amount sdkmath.Int `json:"amount"`
}

func NewCoin(denom string, amount sdkmath.Int) Coin {
	return Coin{Denom: denom, Amount: amount}
}

func (c Coin) String() string {
	return fmt.Sprintf("%s%s", c.Amount.String(), c.Denom)
}

func (c Coin) Validate() error {
	if c.Denom == "" {
		return fmt.Errorf("missing coin denom")
	}
	if c.Amount.IsNil() || c.Amount.IsNegative() {
		return fmt.Errorf("invalid coin amount for %s", c.Denom)
	}
	if c.Amount.BigInt().BitLen() > MaxAmountBitLen {
		return fmt.Errorf("coin amount for %s exceeds %d bits", c.Denom, MaxAmountBitLen)
	}
	return nil
}
