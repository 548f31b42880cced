package services

import (
	"context"
	"math/big"
	"testing"
	"time"

	sdkmath "cosmossdk.io/math"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/babylonchain/mesh-provider/internal/config"
	"github.com/babylonchain/mesh-provider/internal/db/memdb"
	"github.com/babylonchain/mesh-provider/internal/ibc"
	"github.com/babylonchain/mesh-provider/internal/types"
)

const (
	lockupAddr    = "lockup"
	slasherAddr   = "slasher"
	delegatorAddr = "delegator"
	validatorAddr = "validator"
	channelID     = "channel-0"
	rewardDenom   = "ibc/rewards"
)

var blockTime = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

type mockOutbox struct {
	mock.Mock
}

func (m *mockOutbox) Publish(ctx context.Context, record types.OutboxRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func testConfig(t *testing.T, exchangeRate string) *config.Config {
	cfg := &config.Config{
		Provider: config.ProviderConfig{
			ConsumerPortID:            "wasm.consumer",
			ConsumerConnectionID:      "connection-0",
			PortID:                    "wasm.provider",
			RemoteToLocalExchangeRate: exchangeRate,
			LockupAddress:             lockupAddr,
			SlasherAddress:            slasherAddr,
			UnbondingPeriod:           21 * 24 * time.Hour,
			PacketTimeout:             10 * time.Minute,
			RewardDenom:               rewardDenom,
		},
	}
	require.NoError(t, cfg.Provider.Validate())
	return cfg
}

func setupServices(t *testing.T) *Services {
	return setupServicesWithRate(t, "1")
}

func setupServicesWithRate(t *testing.T, exchangeRate string) *Services {
	return NewWithClient(testConfig(t, exchangeRate), memdb.New())
}

func openChannel(t *testing.T, s *Services) {
	_, err := s.OpenChannel(context.Background(), blockTime, ibc.ChannelOpenRequest{
		ChannelID:          channelID,
		CounterpartyPortID: "wasm.consumer",
		ConnectionID:       "connection-0",
		Order:              types.UnorderedChannel,
		Version:            config.DefaultIbcVersion,
	})
	require.Nil(t, err)
}

func env(sender string, at time.Time) types.Env {
	return types.Env{Sender: sender, BlockTime: at}
}

func stake(t *testing.T, s *Services, owner string, amount int64) *types.Response {
	res, err := s.ReceiveClaim(context.Background(), env(lockupAddr, blockTime), &types.ReceiveClaimMsg{
		Owner:     owner,
		Validator: validatorAddr,
		Amount:    sdkmath.NewInt(amount),
	})
	require.Nil(t, err)
	return res
}

func unstake(t *testing.T, s *Services, owner string, amount int64, at time.Time) *types.Response {
	res, err := s.Unstake(context.Background(), env(owner, at), &types.UnstakeMsg{
		Validator: validatorAddr,
		Amount:    sdkmath.NewInt(amount),
	})
	require.Nil(t, err)
	return res
}

func slash(s *Services, sender, fraction string) (*types.Response, *types.Error) {
	return s.Slash(context.Background(), env(sender, blockTime), &types.SlashMsg{
		Validator: validatorAddr,
		Fraction:  sdkmath.LegacyMustNewDecFromStr(fraction),
	})
}

func pushRewards(t *testing.T, s *Services, amount int64) {
	_, err := s.ReceivePacket(context.Background(), channelID, types.ConsumerPacket{
		ReceiveRewards: &types.ReceiveRewardsPacket{
			RewardsByValidator: map[string]types.Coin{
				validatorAddr: types.NewCoin("ustake", sdkmath.NewInt(amount)),
			},
		},
	})
	require.Nil(t, err)
}

func attribute(t *testing.T, res *types.Response, key string) string {
	value, ok := res.Attribute(key)
	require.True(t, ok, "missing attribute %s", key)
	return value
}

func TestSlashCompoundsMultiplier(t *testing.T) {
	ctx := context.Background()
	s := setupServices(t)
	openChannel(t, s)

	_, err := s.ReceivePacket(ctx, channelID, types.ConsumerPacket{
		UpdateValidators: &types.UpdateValidatorsPacket{Added: []string{validatorAddr}},
	})
	require.Nil(t, err)

	_, err = slash(s, slasherAddr, "0.1")
	require.Nil(t, err)
	v, dbErr := s.DbClient.FindValidator(ctx, validatorAddr)
	require.NoError(t, dbErr)
	assert.Equal(t, "0.900000000000000000", v.Multiplier.String())

	_, err = slash(s, slasherAddr, "0.5")
	require.Nil(t, err)
	v, dbErr = s.DbClient.FindValidator(ctx, validatorAddr)
	require.NoError(t, dbErr)
	assert.Equal(t, "0.450000000000000000", v.Multiplier.String())

	// a zero fraction is a no-op, a full slash zeroes the multiplier
	_, err = slash(s, slasherAddr, "0")
	require.Nil(t, err)
	_, err = slash(s, slasherAddr, "1")
	require.Nil(t, err)
	v, dbErr = s.DbClient.FindValidator(ctx, validatorAddr)
	require.NoError(t, dbErr)
	assert.True(t, v.Multiplier.IsZero())
}

func TestSlashRejections(t *testing.T) {
	ctx := context.Background()
	s := setupServices(t)
	openChannel(t, s)

	_, err := slash(s, slasherAddr, "0.1")
	require.NotNil(t, err)
	assert.Equal(t, types.ValidatorNotFound, err.ErrorCode)

	// an unknown validator is reported before the fraction is checked
	_, err = slash(s, slasherAddr, "1.5")
	require.NotNil(t, err)
	assert.Equal(t, types.ValidatorNotFound, err.ErrorCode)

	stake(t, s, delegatorAddr, 1000)

	_, err = slash(s, delegatorAddr, "0.1")
	require.NotNil(t, err)
	assert.Equal(t, types.Unauthorized, err.ErrorCode)

	_, err = slash(s, slasherAddr, "1.5")
	require.NotNil(t, err)
	assert.Equal(t, types.InvalidFraction, err.ErrorCode)

	_, err = slash(s, slasherAddr, "-0.1")
	require.NotNil(t, err)
	assert.Equal(t, types.InvalidFraction, err.ErrorCode)

	v, dbErr := s.DbClient.FindValidator(ctx, validatorAddr)
	require.NoError(t, dbErr)
	assert.True(t, v.Multiplier.Equal(sdkmath.LegacyOneDec()))
}

func TestReceiveClaimRequiresLockup(t *testing.T) {
	ctx := context.Background()
	s := setupServices(t)
	openChannel(t, s)

	_, err := s.ReceiveClaim(ctx, env(delegatorAddr, blockTime), &types.ReceiveClaimMsg{
		Owner:     delegatorAddr,
		Validator: validatorAddr,
		Amount:    sdkmath.NewInt(1000),
	})
	require.NotNil(t, err)
	assert.Equal(t, types.Unauthorized, err.ErrorCode)

	_, dbErr := s.DbClient.FindValidator(ctx, validatorAddr)
	assert.Error(t, dbErr)
	_, dbErr = s.DbClient.FindClaim(ctx, delegatorAddr, validatorAddr)
	assert.Error(t, dbErr)
}

func TestReceiveClaimWithoutChannel(t *testing.T) {
	ctx := context.Background()
	s := setupServices(t)

	_, err := s.ReceiveClaim(ctx, env(lockupAddr, blockTime), &types.ReceiveClaimMsg{
		Owner:     delegatorAddr,
		Validator: validatorAddr,
		Amount:    sdkmath.NewInt(1000),
	})
	require.NotNil(t, err)
	assert.Equal(t, types.ChannelNotEstablished, err.ErrorCode)

	_, dbErr := s.DbClient.FindClaim(ctx, delegatorAddr, validatorAddr)
	assert.Error(t, dbErr)
}

func TestReceiveClaimRejectsZeroAmount(t *testing.T) {
	s := setupServices(t)
	openChannel(t, s)

	_, err := s.ReceiveClaim(context.Background(), env(lockupAddr, blockTime), &types.ReceiveClaimMsg{
		Owner:     delegatorAddr,
		Validator: validatorAddr,
		Amount:    sdkmath.ZeroInt(),
	})
	require.NotNil(t, err)
	assert.Equal(t, types.ValidationError, err.ErrorCode)
}

func TestStakeUnstakeUnbond(t *testing.T) {
	ctx := context.Background()
	s := setupServices(t)
	openChannel(t, s)

	res := stake(t, s, delegatorAddr, 1000)
	require.Len(t, res.Packets, 1)
	packet := res.Packets[0]
	assert.Equal(t, uint64(1), packet.Sequence)
	assert.Equal(t, channelID, packet.ChannelID)
	require.NotNil(t, packet.Data.Stake)
	assert.Equal(t, validatorAddr, packet.Data.Stake.Validator)
	assert.Equal(t, "1000", packet.Data.Stake.Amount.String())
	assert.Equal(t, delegatorAddr, packet.Data.Stake.Key)
	assert.Equal(t, blockTime.Add(10*time.Minute), packet.Timeout.Timestamp)
	assert.True(t, packet.Timeout.Timestamp.After(blockTime))

	v, dbErr := s.DbClient.FindValidator(ctx, validatorAddr)
	require.NoError(t, dbErr)
	assert.Equal(t, "1000", v.TotalStaked.String())

	res = unstake(t, s, delegatorAddr, 1000, blockTime)
	require.Len(t, res.Packets, 1)
	require.NotNil(t, res.Packets[0].Data.Unstake)
	assert.Equal(t, uint64(2), res.Packets[0].Sequence)
	assert.Equal(t, "1000", res.Packets[0].Data.Unstake.Amount.String())

	claim, dbErr := s.DbClient.FindClaim(ctx, delegatorAddr, validatorAddr)
	require.NoError(t, dbErr)
	assert.Equal(t, types.Unbonding, claim.State())
	assert.Equal(t, blockTime, claim.UnbondingStart)

	// total stake only drops on release
	v, dbErr = s.DbClient.FindValidator(ctx, validatorAddr)
	require.NoError(t, dbErr)
	assert.Equal(t, "1000", v.TotalStaked.String())

	matureAt := blockTime.Add(s.cfg.Provider.UnbondingPeriod)
	res, err := s.Unbond(ctx, env(delegatorAddr, matureAt))
	require.Nil(t, err)
	assert.Equal(t, "1", attribute(t, res, "matured"))
	require.Len(t, res.Messages, 1)
	assert.Equal(t, lockupAddr, res.Messages[0].Contract)
	release := res.Messages[0].Msg.SlashClaim
	require.NotNil(t, release)
	assert.Equal(t, delegatorAddr, release.Owner)
	assert.Equal(t, "1000", release.Amount.String())
	assert.True(t, release.Slashed.IsZero())

	_, dbErr = s.DbClient.FindClaim(ctx, delegatorAddr, validatorAddr)
	assert.Error(t, dbErr)
	v, dbErr = s.DbClient.FindValidator(ctx, validatorAddr)
	require.NoError(t, dbErr)
	assert.True(t, v.TotalStaked.IsZero())

	// nothing left to unbond
	_, err = s.Unbond(ctx, env(delegatorAddr, matureAt))
	require.NotNil(t, err)
	assert.Equal(t, types.NoMaturedClaims, err.ErrorCode)
}

func TestUnbondAppliesSlashAtRelease(t *testing.T) {
	ctx := context.Background()
	s := setupServices(t)
	openChannel(t, s)

	stake(t, s, delegatorAddr, 1000)
	unstake(t, s, delegatorAddr, 1000, blockTime)

	// slashing after unstake still hits the unbonding claim
	_, err := slash(s, slasherAddr, "0.1")
	require.Nil(t, err)

	res, err := s.Unbond(ctx, env(delegatorAddr, blockTime.Add(s.cfg.Provider.UnbondingPeriod)))
	require.Nil(t, err)
	require.Len(t, res.Messages, 1)
	release := res.Messages[0].Msg.SlashClaim
	assert.Equal(t, "1000", release.Amount.String())
	assert.Equal(t, "100", release.Slashed.String())
	assert.Equal(t, "900", release.Final().String())
}

func TestUnbondBeforeMaturity(t *testing.T) {
	ctx := context.Background()
	s := setupServices(t)
	openChannel(t, s)

	stake(t, s, delegatorAddr, 1000)
	unstake(t, s, delegatorAddr, 1000, blockTime)

	early := blockTime.Add(s.cfg.Provider.UnbondingPeriod - time.Second)
	res, err := s.Unbond(ctx, env(delegatorAddr, early))
	require.Nil(t, err)
	assert.Equal(t, "0", attribute(t, res, "matured"))
	assert.Empty(t, res.Messages)

	claim, dbErr := s.DbClient.FindClaim(ctx, delegatorAddr, validatorAddr)
	require.NoError(t, dbErr)
	assert.Equal(t, types.Unbonding, claim.State())
	assert.Equal(t, "1000", claim.UnbondingAmount.String())
}

func TestUnbondWithoutUnbondingClaims(t *testing.T) {
	s := setupServices(t)
	openChannel(t, s)

	_, err := s.Unbond(context.Background(), env(delegatorAddr, blockTime))
	require.NotNil(t, err)
	assert.Equal(t, types.NoMaturedClaims, err.ErrorCode)

	stake(t, s, delegatorAddr, 1000)
	_, err = s.Unbond(context.Background(), env(delegatorAddr, blockTime))
	require.NotNil(t, err)
	assert.Equal(t, types.NoMaturedClaims, err.ErrorCode)
}

func TestPartialUnstake(t *testing.T) {
	ctx := context.Background()
	s := setupServices(t)
	openChannel(t, s)

	stake(t, s, delegatorAddr, 1000)
	unstake(t, s, delegatorAddr, 400, blockTime)

	later := blockTime.Add(time.Hour)
	unstake(t, s, delegatorAddr, 100, later)

	claim, dbErr := s.DbClient.FindClaim(ctx, delegatorAddr, validatorAddr)
	require.NoError(t, dbErr)
	assert.Equal(t, "500", claim.UnbondingAmount.String())
	assert.Equal(t, "500", claim.Active().String())
	// the second unstake restarted the clock
	assert.Equal(t, later, claim.UnbondingStart)

	_, err := s.Unstake(ctx, env(delegatorAddr, later), &types.UnstakeMsg{
		Validator: validatorAddr,
		Amount:    sdkmath.NewInt(501),
	})
	require.NotNil(t, err)
	assert.Equal(t, types.InsufficientStake, err.ErrorCode)

	res, err := s.Unbond(ctx, env(delegatorAddr, later.Add(s.cfg.Provider.UnbondingPeriod)))
	require.Nil(t, err)
	assert.Equal(t, "1", attribute(t, res, "matured"))
	assert.Equal(t, "500", res.Messages[0].Msg.SlashClaim.Amount.String())

	claim, dbErr = s.DbClient.FindClaim(ctx, delegatorAddr, validatorAddr)
	require.NoError(t, dbErr)
	assert.Equal(t, types.Staked, claim.State())
	assert.Equal(t, "500", claim.Amount.String())

	v, dbErr := s.DbClient.FindValidator(ctx, validatorAddr)
	require.NoError(t, dbErr)
	assert.Equal(t, "500", v.TotalStaked.String())
}

func TestUnstakeRejections(t *testing.T) {
	ctx := context.Background()
	s := setupServices(t)
	openChannel(t, s)

	_, err := s.Unstake(ctx, env(delegatorAddr, blockTime), &types.UnstakeMsg{
		Validator: validatorAddr,
		Amount:    sdkmath.NewInt(10),
	})
	require.NotNil(t, err)
	assert.Equal(t, types.ClaimNotFound, err.ErrorCode)

	stake(t, s, delegatorAddr, 1000)
	_, err = s.Unstake(ctx, env(delegatorAddr, blockTime), &types.UnstakeMsg{
		Validator: validatorAddr,
		Amount:    sdkmath.NewInt(1500),
	})
	require.NotNil(t, err)
	assert.Equal(t, types.InsufficientStake, err.ErrorCode)

	// the lockup contract cannot unstake on behalf of the delegator
	_, err = s.Unstake(ctx, env(lockupAddr, blockTime), &types.UnstakeMsg{
		Validator: validatorAddr,
		Amount:    sdkmath.NewInt(10),
	})
	require.NotNil(t, err)
	assert.Equal(t, types.ClaimNotFound, err.ErrorCode)
}

func TestClaimRewards(t *testing.T) {
	ctx := context.Background()
	s := setupServices(t)
	openChannel(t, s)

	stake(t, s, delegatorAddr, 1000)
	pushRewards(t, s, 1000)

	res, err := s.ClaimRewards(ctx, env(delegatorAddr, blockTime), &types.ClaimRewardsMsg{Validator: validatorAddr})
	require.Nil(t, err)
	require.Len(t, res.Transfers, 1)
	assert.Equal(t, delegatorAddr, res.Transfers[0].ToAddress)
	require.Len(t, res.Transfers[0].Amount, 1)
	assert.Equal(t, "1000"+rewardDenom, res.Transfers[0].Amount[0].String())

	res, err = s.ClaimRewards(ctx, env(delegatorAddr, blockTime), &types.ClaimRewardsMsg{Validator: validatorAddr})
	require.Nil(t, err)
	assert.Empty(t, res.Transfers)
	assert.Equal(t, "0", attribute(t, res, "amount"))
}

func TestClaimRewardsProRata(t *testing.T) {
	ctx := context.Background()
	s := setupServicesWithRate(t, "0.1")
	openChannel(t, s)

	stake(t, s, delegatorAddr, 3000)
	stake(t, s, "other", 1000)
	// 10000 remote units convert to 1000 local units
	pushRewards(t, s, 10000)

	res, err := s.ClaimRewards(ctx, env(delegatorAddr, blockTime), &types.ClaimRewardsMsg{Validator: validatorAddr})
	require.Nil(t, err)
	assert.Equal(t, "750", res.Transfers[0].Amount[0].Amount.String())

	res, err = s.ClaimRewards(ctx, env("other", blockTime), &types.ClaimRewardsMsg{Validator: validatorAddr})
	require.Nil(t, err)
	assert.Equal(t, "250", res.Transfers[0].Amount[0].Amount.String())

	_, err = s.ClaimRewards(ctx, env("stranger", blockTime), &types.ClaimRewardsMsg{Validator: validatorAddr})
	require.NotNil(t, err)
	assert.Equal(t, types.Unauthorized, err.ErrorCode)
}

func TestRewardsWithoutBondedStakeAreKept(t *testing.T) {
	ctx := context.Background()
	s := setupServices(t)
	openChannel(t, s)

	pushRewards(t, s, 500)
	pool, dbErr := s.DbClient.FindRewardPool(ctx, validatorAddr)
	require.NoError(t, dbErr)
	assert.Equal(t, "500", pool.Undistributed.String())

	stake(t, s, delegatorAddr, 1000)
	pushRewards(t, s, 500)

	res, err := s.ClaimRewards(ctx, env(delegatorAddr, blockTime), &types.ClaimRewardsMsg{Validator: validatorAddr})
	require.Nil(t, err)
	assert.Equal(t, "1000", res.Transfers[0].Amount[0].Amount.String())
}

func TestUnstakedStakeStopsEarning(t *testing.T) {
	ctx := context.Background()
	s := setupServices(t)
	openChannel(t, s)

	stake(t, s, delegatorAddr, 1000)
	pushRewards(t, s, 100)
	unstake(t, s, delegatorAddr, 1000, blockTime)
	// nothing is bonded anymore
	pushRewards(t, s, 100)

	// releasing the whole claim pays out what it earned before unstaking
	res, err := s.Unbond(ctx, env(delegatorAddr, blockTime.Add(s.cfg.Provider.UnbondingPeriod)))
	require.Nil(t, err)
	require.Len(t, res.Transfers, 1)
	assert.Equal(t, "100", res.Transfers[0].Amount[0].Amount.String())
}

func TestRewardsFromWrongChannel(t *testing.T) {
	s := setupServices(t)

	_, err := s.ReceivePacket(context.Background(), channelID, types.ConsumerPacket{
		ReceiveRewards: &types.ReceiveRewardsPacket{RewardsByValidator: map[string]types.Coin{}},
	})
	require.NotNil(t, err)
	assert.Equal(t, types.ChannelNotEstablished, err.ErrorCode)

	openChannel(t, s)
	_, err = s.ReceivePacket(context.Background(), "channel-7", types.ConsumerPacket{
		ReceiveRewards: &types.ReceiveRewardsPacket{RewardsByValidator: map[string]types.Coin{}},
	})
	require.NotNil(t, err)
	assert.Equal(t, types.Unauthorized, err.ErrorCode)

	_, err = s.ReceivePacket(context.Background(), channelID, types.ConsumerPacket{})
	require.NotNil(t, err)
	assert.Equal(t, types.ValidationError, err.ErrorCode)
}

func TestOpenChannel(t *testing.T) {
	ctx := context.Background()
	s := setupServices(t)

	req := ibc.ChannelOpenRequest{
		ChannelID:          channelID,
		CounterpartyPortID: "wasm.other",
		ConnectionID:       "connection-0",
		Order:              types.UnorderedChannel,
		Version:            config.DefaultIbcVersion,
	}
	_, err := s.OpenChannel(ctx, blockTime, req)
	require.NotNil(t, err)
	assert.Equal(t, types.Unauthorized, err.ErrorCode)

	openChannel(t, s)

	req.CounterpartyPortID = "wasm.consumer"
	req.ChannelID = "channel-1"
	_, err = s.OpenChannel(ctx, blockTime, req)
	require.NotNil(t, err)
	assert.Equal(t, types.ChannelAlreadyBound, err.ErrorCode)
	assert.Equal(t, "Contract already has a bound channel", err.Error())

	cfg, err := s.GetProviderConfig(ctx)
	require.Nil(t, err)
	require.NotNil(t, cfg.Channel)
	assert.Equal(t, channelID, cfg.Channel.ChannelID)
}

func TestPacketAcknowledgementAndTimeout(t *testing.T) {
	ctx := context.Background()
	s := setupServices(t)
	openChannel(t, s)

	stake(t, s, delegatorAddr, 1000)
	unstake(t, s, delegatorAddr, 500, blockTime)

	_, err := s.AcknowledgePacket(ctx, 1, true, "")
	require.Nil(t, err)

	// the relayer cannot time a packet out before its deadline
	_, err = s.TimeoutPacket(ctx, blockTime.Add(10*time.Minute-time.Second), 2)
	require.NotNil(t, err)
	assert.Equal(t, types.ValidationError, err.ErrorCode)
	packet, err := s.GetPacket(ctx, 2)
	require.Nil(t, err)
	assert.Equal(t, types.PacketPending.ToString(), packet.Status)

	_, err = s.TimeoutPacket(ctx, blockTime.Add(10*time.Minute), 2)
	require.Nil(t, err)

	packet, err = s.GetPacket(ctx, 1)
	require.Nil(t, err)
	assert.Equal(t, types.PacketAcknowledged.ToString(), packet.Status)

	packet, err = s.GetPacket(ctx, 2)
	require.Nil(t, err)
	assert.Equal(t, types.PacketTimedOut.ToString(), packet.Status)

	// a late acknowledgement does not overwrite the timeout
	_, err = s.AcknowledgePacket(ctx, 2, false, "boom")
	require.Nil(t, err)
	packet, err = s.GetPacket(ctx, 2)
	require.Nil(t, err)
	assert.Equal(t, types.PacketTimedOut.ToString(), packet.Status)

	// local state is kept as is
	claim, dbErr := s.DbClient.FindClaim(ctx, delegatorAddr, validatorAddr)
	require.NoError(t, dbErr)
	assert.Equal(t, "500", claim.UnbondingAmount.String())

	_, err = s.AcknowledgePacket(ctx, 99, true, "")
	require.NotNil(t, err)
	assert.Equal(t, types.NotFound, err.ErrorCode)
}

func TestExecuteDispatch(t *testing.T) {
	ctx := context.Background()
	s := setupServices(t)
	openChannel(t, s)

	res, err := s.Execute(ctx, env(lockupAddr, blockTime), types.ExecuteMsg{
		ReceiveClaim: &types.ReceiveClaimMsg{Owner: delegatorAddr, Validator: validatorAddr, Amount: sdkmath.NewInt(10)},
	})
	require.Nil(t, err)
	assert.Equal(t, "receive_claim", attribute(t, res, "action"))

	_, err = s.Execute(ctx, env(lockupAddr, blockTime), types.ExecuteMsg{
		Unbond:       &types.UnbondMsg{},
		ClaimRewards: &types.ClaimRewardsMsg{Validator: validatorAddr},
	})
	require.NotNil(t, err)
	assert.Equal(t, types.ValidationError, err.ErrorCode)

	_, err = s.Execute(ctx, env(lockupAddr, blockTime), types.ExecuteMsg{})
	require.NotNil(t, err)
	assert.Equal(t, types.ValidationError, err.ErrorCode)
}

func TestOutboxOnlySeesCommittedTransitions(t *testing.T) {
	s := setupServices(t)
	outbox := &mockOutbox{}
	s.SetOutbox(outbox)

	outbox.On("Publish", mock.Anything, mock.MatchedBy(func(r types.OutboxRecord) bool {
		return r.Transition == "channel_open"
	})).Return(nil).Once()
	outbox.On("Publish", mock.Anything, mock.MatchedBy(func(r types.OutboxRecord) bool {
		return r.Transition == "receive_claim" && len(r.Response.Packets) == 1
	})).Return(nil).Once()

	openChannel(t, s)
	stake(t, s, delegatorAddr, 1000)

	// rejected transitions are never published
	_, err := slash(s, delegatorAddr, "0.1")
	require.NotNil(t, err)

	outbox.AssertExpectations(t)
	outbox.AssertNumberOfCalls(t, "Publish", 2)
}

func TestAdjustStakeUnderflow(t *testing.T) {
	v := types.NewValidator(validatorAddr)
	v.TotalStaked = sdkmath.NewInt(10)

	err := adjustStake(&v, sdkmath.NewInt(-11))
	require.Error(t, err)
	assert.True(t, types.HasErrorCode(err, types.Underflow))
	assert.Equal(t, "10", v.TotalStaked.String())

	require.NoError(t, adjustStake(&v, sdkmath.NewInt(-10)))
	assert.True(t, v.TotalStaked.IsZero())
}

func TestGetAccount(t *testing.T) {
	ctx := context.Background()
	s := setupServices(t)
	openChannel(t, s)

	stake(t, s, delegatorAddr, 1000)
	pushRewards(t, s, 200)
	unstake(t, s, delegatorAddr, 400, blockTime)
	_, err := slash(s, slasherAddr, "0.5")
	require.Nil(t, err)

	account, err := s.GetAccount(ctx, delegatorAddr)
	require.Nil(t, err)
	require.Len(t, account.Claims, 1)
	claim := account.Claims[0]
	assert.Equal(t, types.Unbonding.ToString(), claim.State)
	assert.Equal(t, "1000", claim.Amount)
	assert.Equal(t, "400", claim.UnbondingAmount)
	assert.Equal(t, "200", claim.FinalAmount)
	assert.Equal(t, "200", claim.PendingRewards)
	assert.NotEmpty(t, claim.MaturesAt)

	validators, token, err := s.GetValidators(ctx, "")
	require.Nil(t, err)
	assert.Empty(t, token)
	require.Len(t, validators, 1)
	assert.Equal(t, "0.500000000000000000", validators[0].Multiplier)
}

func TestUpdateValidatorsPacket(t *testing.T) {
	ctx := context.Background()
	s := setupServices(t)
	openChannel(t, s)
	stake(t, s, delegatorAddr, 100)

	res, err := s.ReceivePacket(ctx, channelID, types.ConsumerPacket{
		UpdateValidators: &types.UpdateValidatorsPacket{Added: []string{validatorAddr, "validator-2"}},
	})
	require.Nil(t, err)
	assert.Equal(t, "1", attribute(t, res, "added"))

	v, dbErr := s.DbClient.FindValidator(ctx, "validator-2")
	require.NoError(t, dbErr)
	assert.Equal(t, sdkmath.LegacyOneDec().String(), v.Multiplier.String())
	assert.True(t, v.TotalStaked.IsZero())

	// known validators keep their stake
	v, dbErr = s.DbClient.FindValidator(ctx, validatorAddr)
	require.NoError(t, dbErr)
	assert.Equal(t, "100", v.TotalStaked.String())

	_, err = s.ReceivePacket(ctx, "channel-9", types.ConsumerPacket{
		UpdateValidators: &types.UpdateValidatorsPacket{Added: []string{"validator-3"}},
	})
	require.NotNil(t, err)
	assert.Equal(t, types.Unauthorized, err.ErrorCode)
}

func TestFullReleasePaysPendingRewards(t *testing.T) {
	ctx := context.Background()
	s := setupServices(t)
	openChannel(t, s)

	stake(t, s, delegatorAddr, 1000)
	pushRewards(t, s, 500)
	unstake(t, s, delegatorAddr, 1000, blockTime)

	res, err := s.Unbond(ctx, env(delegatorAddr, blockTime.Add(s.cfg.Provider.UnbondingPeriod)))
	require.Nil(t, err)
	require.Len(t, res.Transfers, 1)
	assert.Equal(t, delegatorAddr, res.Transfers[0].ToAddress)
	require.Len(t, res.Transfers[0].Amount, 1)
	assert.Equal(t, rewardDenom, res.Transfers[0].Amount[0].Denom)
	assert.Equal(t, "500", res.Transfers[0].Amount[0].Amount.String())

	_, dbErr := s.DbClient.FindClaim(ctx, delegatorAddr, validatorAddr)
	assert.Error(t, dbErr)
}

func pow2(bits uint) *big.Int {
	return new(big.Int).Lsh(big.NewInt(1), bits)
}

func TestReceiveClaimAmountBounds(t *testing.T) {
	ctx := context.Background()
	s := setupServices(t)
	openChannel(t, s)

	claimOf := func(owner string, amount *big.Int) *types.Error {
		_, err := s.ReceiveClaim(ctx, env(lockupAddr, blockTime), &types.ReceiveClaimMsg{
			Owner:     owner,
			Validator: validatorAddr,
			Amount:    sdkmath.NewIntFromBigInt(amount),
		})
		return err
	}

	err := claimOf(delegatorAddr, pow2(types.MaxAmountBitLen))
	require.NotNil(t, err)
	assert.Equal(t, types.Overflow, err.ErrorCode)

	// far beyond the range of the underlying integer type
	err = claimOf(delegatorAddr, pow2(255))
	require.NotNil(t, err)
	assert.Equal(t, types.Overflow, err.ErrorCode)

	maxAmount := new(big.Int).Sub(pow2(types.MaxAmountBitLen), big.NewInt(1))
	require.Nil(t, claimOf(delegatorAddr, maxAmount))

	// the claim and the bonded stake would both leave the range
	err = claimOf(delegatorAddr, big.NewInt(1))
	require.NotNil(t, err)
	assert.Equal(t, types.Overflow, err.ErrorCode)
	err = claimOf("other", big.NewInt(1))
	require.NotNil(t, err)
	assert.Equal(t, types.Overflow, err.ErrorCode)

	claim, dbErr := s.DbClient.FindClaim(ctx, delegatorAddr, validatorAddr)
	require.NoError(t, dbErr)
	assert.Equal(t, maxAmount.String(), claim.Amount.String())
	_, dbErr = s.DbClient.FindClaim(ctx, "other", validatorAddr)
	assert.Error(t, dbErr)
	v, dbErr := s.DbClient.FindValidator(ctx, validatorAddr)
	require.NoError(t, dbErr)
	assert.Equal(t, maxAmount.String(), v.TotalStaked.String())

	// the position still unwinds normally
	_, err = s.Unstake(ctx, env(delegatorAddr, blockTime), &types.UnstakeMsg{
		Validator: validatorAddr,
		Amount:    sdkmath.NewIntFromBigInt(maxAmount),
	})
	require.Nil(t, err)
}

func TestRewardAmountBounds(t *testing.T) {
	ctx := context.Background()
	s := setupServices(t)
	openChannel(t, s)

	rewards := func(amounts map[string]*big.Int) *types.Error {
		coins := make(map[string]types.Coin, len(amounts))
		for validator, amount := range amounts {
			coins[validator] = types.NewCoin("ustake", sdkmath.NewIntFromBigInt(amount))
		}
		_, err := s.ReceivePacket(ctx, channelID, types.ConsumerPacket{
			ReceiveRewards: &types.ReceiveRewardsPacket{RewardsByValidator: coins},
		})
		return err
	}

	err := rewards(map[string]*big.Int{validatorAddr: pow2(255), "validator-2": pow2(255)})
	require.NotNil(t, err)
	assert.Equal(t, types.ValidationError, err.ErrorCode)

	// nothing is bonded, the undistributed rewards pile up until they overflow
	maxAmount := new(big.Int).Sub(pow2(types.MaxAmountBitLen), big.NewInt(1))
	require.Nil(t, rewards(map[string]*big.Int{validatorAddr: maxAmount}))
	err = rewards(map[string]*big.Int{validatorAddr: big.NewInt(1)})
	require.NotNil(t, err)
	assert.Equal(t, types.Overflow, err.ErrorCode)

	pool, dbErr := s.DbClient.FindRewardPool(ctx, validatorAddr)
	require.NoError(t, dbErr)
	assert.Equal(t, maxAmount.String(), pool.Undistributed.String())
	_, dbErr = s.DbClient.FindRewardPool(ctx, "validator-2")
	assert.Error(t, dbErr)
}

func TestStakeUnstakeUnbondRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := setupServices(t)
	openChannel(t, s)
	period := s.cfg.Provider.UnbondingPeriod

	owners := []string{delegatorAddr, "other"}
	staked := map[string]int64{}
	released := map[string]int64{}
	var totalReleased, totalFinal int64

	at := blockTime
	for round := int64(1); round <= 5; round++ {
		for i, owner := range owners {
			amount := round*100 + int64(i)*37
			stake(t, s, owner, amount)
			staked[owner] += amount
			unstake(t, s, owner, amount/3+1, at)
		}
		if round == 3 {
			_, err := slash(s, slasherAddr, "0.25")
			require.Nil(t, err)
		}

		at = at.Add(period)
		v, dbErr := s.DbClient.FindValidator(ctx, validatorAddr)
		require.NoError(t, dbErr)
		for _, owner := range owners {
			res, err := s.Unbond(ctx, env(owner, at))
			require.Nil(t, err)
			require.Len(t, res.Messages, 1)
			release := res.Messages[0].Msg.SlashClaim
			require.NotNil(t, release)

			final := release.Final()
			assert.Equal(t, v.ApplyMultiplier(release.Amount).String(), final.String())
			assert.False(t, final.IsNegative())
			assert.True(t, final.LTE(release.Amount))
			assert.Equal(t, release.Amount.String(), final.Add(release.Slashed).String())

			released[owner] += release.Amount.Int64()
			totalReleased += release.Amount.Int64()
			totalFinal += final.Int64()
		}

		// every unit staked is either still held or was released once
		var remaining int64
		for _, owner := range owners {
			claim, dbErr := s.DbClient.FindClaim(ctx, owner, validatorAddr)
			require.NoError(t, dbErr)
			assert.Equal(t, staked[owner]-released[owner], claim.Amount.Int64())
			assert.True(t, claim.UnbondingAmount.IsZero())
			remaining += claim.Amount.Int64()
		}
		v, dbErr = s.DbClient.FindValidator(ctx, validatorAddr)
		require.NoError(t, dbErr)
		assert.Equal(t, remaining, v.TotalStaked.Int64())
	}

	var totalStaked int64
	for _, amount := range staked {
		totalStaked += amount
	}
	assert.LessOrEqual(t, totalReleased, totalStaked)
	// rounds after the slash returned less than was released
	assert.Less(t, totalFinal, totalReleased)
}

func TestComposedSlashesMatchSingleSlash(t *testing.T) {
	testCases := []struct {
		first, second, combined string
	}{
		{"0.1", "0.2", "0.28"},
		{"0.5", "0.5", "0.75"},
		{"0.25", "0", "0.25"},
		{"0.3", "1", "1"},
	}
	for _, tc := range testCases {
		t.Run(tc.first+"_then_"+tc.second, func(t *testing.T) {
			ctx := context.Background()
			release := func(fractions ...string) (*types.Validator, *types.SlashClaimMsg) {
				s := setupServices(t)
				openChannel(t, s)
				stake(t, s, delegatorAddr, 1000)
				unstake(t, s, delegatorAddr, 1000, blockTime)
				for _, f := range fractions {
					_, err := slash(s, slasherAddr, f)
					require.Nil(t, err)
				}
				v, dbErr := s.DbClient.FindValidator(ctx, validatorAddr)
				require.NoError(t, dbErr)
				res, err := s.Unbond(ctx, env(delegatorAddr, blockTime.Add(s.cfg.Provider.UnbondingPeriod)))
				require.Nil(t, err)
				require.Len(t, res.Messages, 1)
				return v, res.Messages[0].Msg.SlashClaim
			}

			twice, twiceRelease := release(tc.first, tc.second)
			once, onceRelease := release(tc.combined)

			// (1-f)(1-g) == 1-(1-(1-f)(1-g))
			f := sdkmath.LegacyMustNewDecFromStr(tc.first)
			g := sdkmath.LegacyMustNewDecFromStr(tc.second)
			expected := sdkmath.LegacyOneDec().Sub(f).Mul(sdkmath.LegacyOneDec().Sub(g))
			assert.Equal(t, expected.String(), twice.Multiplier.String())
			assert.Equal(t, once.Multiplier.String(), twice.Multiplier.String())
			assert.Equal(t, onceRelease.Final().String(), twiceRelease.Final().String())
			assert.Equal(t, onceRelease.Slashed.String(), twiceRelease.Slashed.String())
		})
	}
}
