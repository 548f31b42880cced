package types

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	sdkmath "cosmossdk.io/math"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClaimState(t *testing.T) {
	claim := NewClaim("owner", "validator", sdkmath.LegacyZeroDec())
	assert.Equal(t, Released, claim.State())

	claim.Amount = sdkmath.NewInt(1000)
	assert.Equal(t, Staked, claim.State())
	assert.Equal(t, "1000", claim.Active().String())

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	claim.UnbondingAmount = sdkmath.NewInt(400)
	claim.UnbondingStart = start
	assert.Equal(t, Unbonding, claim.State())
	assert.Equal(t, "600", claim.Active().String())

	period := 24 * time.Hour
	assert.False(t, claim.IsMatured(start.Add(period-time.Nanosecond), period))
	assert.True(t, claim.IsMatured(start.Add(period), period))
}

func TestApplyMultiplierRoundsDown(t *testing.T) {
	v := NewValidator("validator")
	assert.Equal(t, "1000", v.ApplyMultiplier(sdkmath.NewInt(1000)).String())

	v.Multiplier = sdkmath.LegacyMustNewDecFromStr("0.333")
	assert.Equal(t, "3", v.ApplyMultiplier(sdkmath.NewInt(10)).String())
}

func TestSlashClaimFinal(t *testing.T) {
	msg := SlashClaimMsg{Amount: sdkmath.NewInt(1000), Slashed: sdkmath.NewInt(100)}
	assert.Equal(t, "900", msg.Final().String())
}

func TestExecuteMsgVariant(t *testing.T) {
	var msg ExecuteMsg
	require.NoError(t, json.Unmarshal(
		[]byte(`{"unstake":{"validator":"validator","amount":"250"}}`), &msg,
	))
	variant, err := msg.Variant()
	require.NoError(t, err)
	unstake, ok := variant.(*UnstakeMsg)
	require.True(t, ok)
	assert.Equal(t, "250", unstake.Amount.String())
	assert.Equal(t, "unstake", msg.Name())

	_, err = ExecuteMsg{}.Variant()
	assert.Error(t, err)
	assert.Equal(t, "unknown", ExecuteMsg{}.Name())

	_, err = ExecuteMsg{Unbond: &UnbondMsg{}, ClaimRewards: &ClaimRewardsMsg{}}.Variant()
	assert.Error(t, err)
}

func TestConsumerPacketValidate(t *testing.T) {
	rewards := ConsumerPacket{ReceiveRewards: &ReceiveRewardsPacket{
		RewardsByValidator: map[string]Coin{"validator": NewCoin("ustake", sdkmath.NewInt(10))},
	}}
	assert.NoError(t, rewards.Validate())

	assert.Error(t, ConsumerPacket{}.Validate())
	assert.Error(t, ConsumerPacket{ReceiveRewards: &ReceiveRewardsPacket{
		RewardsByValidator: map[string]Coin{"validator": NewCoin("", sdkmath.NewInt(10))},
	}}.Validate())
	assert.Error(t, ConsumerPacket{ReceiveRewards: &ReceiveRewardsPacket{
		RewardsByValidator: map[string]Coin{"validator": NewCoin("ustake", sdkmath.NewInt(-1))},
	}}.Validate())
	assert.Error(t, ConsumerPacket{
		ReceiveRewards:   &ReceiveRewardsPacket{},
		UpdateValidators: &UpdateValidatorsPacket{},
	}.Validate())
}

func TestErrorHelpers(t *testing.T) {
	rejection := NewErrorWithMsg(http.StatusBadRequest, InsufficientStake, "not enough")
	assert.True(t, rejection.IsRejection())
	assert.False(t, NewInternalServiceError(errors.New("boom")).IsRejection())

	wrapped := fmt.Errorf("transition failed: %w", rejection)
	assert.True(t, HasErrorCode(wrapped, InsufficientStake))
	assert.False(t, HasErrorCode(wrapped, Underflow))
	assert.Same(t, rejection, AsError(wrapped))

	converted := AsError(errors.New("plain"))
	assert.Equal(t, http.StatusInternalServerError, converted.StatusCode)
	assert.Equal(t, InternalServiceError, converted.ErrorCode)
	assert.Nil(t, AsError(nil))

	defaulted := NewError(0, "", errors.New("x"))
	assert.Equal(t, http.StatusInternalServerError, defaulted.StatusCode)
	assert.Equal(t, InternalServiceError, defaulted.ErrorCode)
}

func TestResponseAttributes(t *testing.T) {
	res := &Response{}
	assert.True(t, res.IsEmpty())
	res.AddAttribute("action", "unbond")
	value, ok := res.Attribute("action")
	assert.True(t, ok)
	assert.Equal(t, "unbond", value)
	_, ok = res.Attribute("missing")
	assert.False(t, ok)
	assert.True(t, res.IsEmpty())
}
