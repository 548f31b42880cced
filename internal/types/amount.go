package types

import (
	"fmt"
	"net/http"

	sdkmath "cosmossdk.io/math"
)

// MaxAmountBitLen bounds every token amount to an unsigned 128-bit integer,
// the widest amount the chains exchanging packets can carry.
const MaxAmountBitLen = 128

// maxIndexBitLen bounds the internal representation of a reward index so
// that index * amount always fits in a LegacyDec.
const maxIndexBitLen = MaxAmountBitLen + sdkmath.LegacyDecimalPrecisionBits - 1

func NewOverflowError(msg string) *Error {
	return NewErrorWithMsg(http.StatusBadRequest, Overflow, msg)
}

// CheckAmountRange fails when amount does not fit in MaxAmountBitLen bits.
func CheckAmountRange(amount sdkmath.Int) error {
	if amount.IsNil() {
		return fmt.Errorf("missing amount")
	}
	if amount.BigInt().BitLen() > MaxAmountBitLen {
		return NewOverflowError(fmt.Sprintf("amount %s exceeds %d bits", amount, MaxAmountBitLen))
	}
	return nil
}

// AddAmounts returns a + b, or an overflow error when the sum leaves the
// amount range.
func AddAmounts(a, b sdkmath.Int) (sdkmath.Int, error) {
	sum, err := a.SafeAdd(b)
	if err != nil {
		return sdkmath.Int{}, NewOverflowError(err.Error())
	}
	if err := CheckAmountRange(sum); err != nil {
		return sdkmath.Int{}, err
	}
	return sum, nil
}

// AddIndex returns index + delta, or an overflow error when the result can
// no longer be multiplied by an amount.
func AddIndex(index, delta sdkmath.LegacyDec) (sdkmath.LegacyDec, error) {
	if delta.BigInt().BitLen() > maxIndexBitLen {
		return sdkmath.LegacyDec{}, NewOverflowError("reward index increment out of range")
	}
	sum := index.Add(delta)
	if sum.BigInt().BitLen() > maxIndexBitLen {
		return sdkmath.LegacyDec{}, NewOverflowError("reward index out of range")
	}
	return sum, nil
}
