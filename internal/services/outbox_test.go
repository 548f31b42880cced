package services

import (
	"context"
	"errors"
	"testing"

	sdkmath "cosmossdk.io/math"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/babylonchain/mesh-provider/internal/types"
)

func receiveClaim(ctx context.Context, s *Services, amount int64) (*types.Response, *types.Error) {
	return s.ReceiveClaim(ctx, env(lockupAddr, blockTime), &types.ReceiveClaimMsg{
		Owner:     delegatorAddr,
		Validator: validatorAddr,
		Amount:    sdkmath.NewInt(amount),
	})
}

func TestRedeliveredMessageIsAppliedOnce(t *testing.T) {
	ctx := context.Background()
	s := setupServices(t)
	outbox := &mockOutbox{}
	s.SetOutbox(outbox)
	outbox.On("Publish", mock.Anything, mock.Anything).Return(nil)
	openChannel(t, s)

	keyed := WithMessageKey(ctx, "execute/m1")
	res, err := receiveClaim(keyed, s, 1000)
	require.Nil(t, err)
	require.Len(t, res.Packets, 1)

	// the broker delivers the same intent again
	res, err = receiveClaim(keyed, s, 1000)
	require.Nil(t, err)
	assert.Empty(t, res.Packets)

	claim, dbErr := s.DbClient.FindClaim(ctx, delegatorAddr, validatorAddr)
	require.NoError(t, dbErr)
	assert.Equal(t, "1000", claim.Amount.String())
	v, dbErr := s.DbClient.FindValidator(ctx, validatorAddr)
	require.NoError(t, dbErr)
	assert.Equal(t, "1000", v.TotalStaked.String())

	// channel_open and a single receive_claim
	outbox.AssertNumberOfCalls(t, "Publish", 2)

	// a different message is a new intent
	_, err = receiveClaim(WithMessageKey(ctx, "execute/m2"), s, 1000)
	require.Nil(t, err)
	claim, dbErr = s.DbClient.FindClaim(ctx, delegatorAddr, validatorAddr)
	require.NoError(t, dbErr)
	assert.Equal(t, "2000", claim.Amount.String())
}

func TestRejectedMessageKeyIsNotConsumed(t *testing.T) {
	ctx := context.Background()
	s := setupServices(t)
	keyed := WithMessageKey(ctx, "execute/m1")

	_, err := receiveClaim(keyed, s, 1000)
	require.NotNil(t, err)
	assert.Equal(t, types.ChannelNotEstablished, err.ErrorCode)

	// once the channel exists the same message applies
	openChannel(t, s)
	_, err = receiveClaim(keyed, s, 1000)
	require.Nil(t, err)

	claim, dbErr := s.DbClient.FindClaim(ctx, delegatorAddr, validatorAddr)
	require.NoError(t, dbErr)
	assert.Equal(t, "1000", claim.Amount.String())
}

func TestUndeliveredResponsesStayInOutbox(t *testing.T) {
	ctx := context.Background()
	s := setupServices(t)
	outbox := &mockOutbox{}
	s.SetOutbox(outbox)

	brokerGone := errors.New("broker gone")
	outbox.On("Publish", mock.Anything, mock.Anything).Return(brokerGone).Times(3)

	openChannel(t, s)
	stake(t, s, delegatorAddr, 1000)

	// the transitions are committed even though nothing was delivered
	claim, dbErr := s.DbClient.FindClaim(ctx, delegatorAddr, validatorAddr)
	require.NoError(t, dbErr)
	assert.Equal(t, "1000", claim.Amount.String())

	records, dbErr := s.DbClient.FindOutboxRecords(ctx)
	require.NoError(t, dbErr)
	require.Len(t, records, 2)
	assert.Equal(t, "channel_open", records[0].Transition)
	assert.Equal(t, "receive_claim", records[1].Transition)
	require.Len(t, records[1].Response.Packets, 1)
	assert.Equal(t, "1000", records[1].Response.Packets[0].Data.Stake.Amount.String())

	// a failing relay delivers nothing and keeps the order
	delivered, flushErr := s.FlushOutbox(ctx)
	require.ErrorIs(t, flushErr, brokerGone)
	assert.Equal(t, 0, delivered)

	var published []string
	outbox.On("Publish", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		published = append(published, args.Get(1).(types.OutboxRecord).ID)
	}).Return(nil)

	delivered, flushErr = s.FlushOutbox(ctx)
	require.NoError(t, flushErr)
	assert.Equal(t, 2, delivered)
	assert.Equal(t, []string{records[0].ID, records[1].ID}, published)

	records, dbErr = s.DbClient.FindOutboxRecords(ctx)
	require.NoError(t, dbErr)
	assert.Empty(t, records)
}

func TestDeliveredResponsesLeaveOutbox(t *testing.T) {
	ctx := context.Background()
	s := setupServices(t)
	outbox := &mockOutbox{}
	s.SetOutbox(outbox)
	outbox.On("Publish", mock.Anything, mock.Anything).Return(nil)

	openChannel(t, s)
	stake(t, s, delegatorAddr, 1000)
	_, err := slash(s, delegatorAddr, "0.1")
	require.NotNil(t, err)

	records, dbErr := s.DbClient.FindOutboxRecords(ctx)
	require.NoError(t, dbErr)
	assert.Empty(t, records)

	delivered, flushErr := s.FlushOutbox(ctx)
	require.NoError(t, flushErr)
	assert.Equal(t, 0, delivered)
	outbox.AssertNumberOfCalls(t, "Publish", 2)
}

func TestRejectedTransitionWritesNoOutboxRecord(t *testing.T) {
	ctx := context.Background()
	s := setupServices(t)
	outbox := &mockOutbox{}
	s.SetOutbox(outbox)
	outbox.On("Publish", mock.Anything, mock.Anything).Return(errors.New("broker gone"))

	// rejected before any write
	_, err := receiveClaim(ctx, s, 1000)
	require.NotNil(t, err)

	records, dbErr := s.DbClient.FindOutboxRecords(ctx)
	require.NoError(t, dbErr)
	assert.Empty(t, records)
	outbox.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestFlushWithoutOutbox(t *testing.T) {
	s := setupServices(t)
	openChannel(t, s)

	delivered, err := s.FlushOutbox(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, delivered)

	records, dbErr := s.DbClient.FindOutboxRecords(context.Background())
	require.NoError(t, dbErr)
	assert.Empty(t, records)
}
