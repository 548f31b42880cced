package services

import (
	"context"
	"fmt"
	"net/http"
	"time"

	sdkmath "cosmossdk.io/math"
	"github.com/rs/zerolog/log"

	"github.com/babylonchain/mesh-provider/internal/db"
	"github.com/babylonchain/mesh-provider/internal/types"
)

type ProviderConfigPublic struct {
	ConsumerPortID            string         `json:"consumer_port_id"`
	ConsumerConnectionID      string         `json:"consumer_connection_id"`
	IbcVersion                string         `json:"ibc_version"`
	RemoteToLocalExchangeRate string         `json:"remote_to_local_exchange_rate"`
	Lockup                    string         `json:"lockup"`
	Slasher                   string         `json:"slasher"`
	UnbondingPeriodSeconds    int64          `json:"unbonding_period"`
	PacketTimeoutSeconds      int64          `json:"packet_timeout"`
	RewardDenom               string         `json:"reward_denom"`
	Channel                   *ChannelPublic `json:"channel,omitempty"`
}

type ChannelPublic struct {
	ChannelID          string `json:"channel_id"`
	CounterpartyPortID string `json:"counterparty_port_id"`
	ConnectionID       string `json:"connection_id"`
	EstablishedAt      string `json:"established_at"`
}

type ValidatorPublic struct {
	Address     string `json:"address"`
	Multiplier  string `json:"multiplier"`
	TotalStaked string `json:"total_staked"`
}

type ClaimPublic struct {
	Validator       string `json:"validator"`
	State           string `json:"state"`
	Amount          string `json:"amount"`
	UnbondingAmount string `json:"unbonding_amount"`
	UnbondingStart  string `json:"unbonding_start,omitempty"`
	MaturesAt       string `json:"matures_at,omitempty"`
	// Amount the unbonding part would release at the current multiplier.
	FinalAmount    string `json:"final_amount"`
	PendingRewards string `json:"pending_rewards"`
}

type AccountPublic struct {
	Owner  string        `json:"owner"`
	Claims []ClaimPublic `json:"claims"`
}

type PacketPublic struct {
	Sequence  uint64               `json:"sequence"`
	ChannelID string               `json:"channel_id"`
	Data      types.ProviderPacket `json:"data"`
	Timeout   types.PacketTimeout  `json:"timeout"`
	Status    string               `json:"status"`
	Error     string               `json:"error,omitempty"`
}

func fromValidator(v types.Validator) ValidatorPublic {
	return ValidatorPublic{
		Address:     v.Address,
		Multiplier:  v.Multiplier.String(),
		TotalStaked: v.TotalStaked.String(),
	}
}

func (s *Services) GetProviderConfig(ctx context.Context) (*ProviderConfigPublic, *types.Error) {
	cfg := s.providerCfg()
	result := &ProviderConfigPublic{
		ConsumerPortID:            cfg.ConsumerPortID,
		ConsumerConnectionID:      cfg.ConsumerConnectionID,
		IbcVersion:                cfg.IbcVersion,
		RemoteToLocalExchangeRate: cfg.ExchangeRate().String(),
		Lockup:                    cfg.LockupAddress,
		Slasher:                   cfg.SlasherAddress,
		UnbondingPeriodSeconds:    int64(cfg.UnbondingPeriod / time.Second),
		PacketTimeoutSeconds:      int64(cfg.PacketTimeout / time.Second),
		RewardDenom:               cfg.RewardDenom,
	}
	channel, err := s.DbClient.FindChannel(ctx)
	if err != nil {
		if !db.IsNotFoundError(err) {
			log.Ctx(ctx).Error().Err(err).Msg("Failed to find channel")
			return nil, types.NewInternalServiceError(err)
		}
		return result, nil
	}
	result.Channel = &ChannelPublic{
		ChannelID:          channel.ChannelID,
		CounterpartyPortID: channel.CounterpartyPortID,
		ConnectionID:       channel.ConnectionID,
		EstablishedAt:      channel.EstablishedAt.Format(time.RFC3339),
	}
	return result, nil
}

func (s *Services) GetValidators(ctx context.Context, pageToken string) ([]ValidatorPublic, string, *types.Error) {
	resultMap, err := s.DbClient.FindValidators(ctx, pageToken)
	if err != nil {
		if db.IsInvalidPaginationTokenError(err) {
			log.Ctx(ctx).Warn().Err(err).Msg("Invalid pagination token when fetching validators")
			return nil, "", types.NewError(http.StatusBadRequest, types.BadRequest, err)
		}
		log.Ctx(ctx).Error().Err(err).Msg("Failed to find validators")
		return nil, "", types.NewInternalServiceError(err)
	}
	validators := make([]ValidatorPublic, 0, len(resultMap.Data))
	for _, v := range resultMap.Data {
		validators = append(validators, fromValidator(v))
	}
	return validators, resultMap.PaginationToken, nil
}

func (s *Services) GetValidator(ctx context.Context, address string) (*ValidatorPublic, *types.Error) {
	v, err := s.DbClient.FindValidator(ctx, address)
	if err != nil {
		if db.IsNotFoundError(err) {
			return nil, types.NewErrorWithMsg(http.StatusNotFound, types.ValidatorNotFound, fmt.Sprintf("validator %s not found", address))
		}
		log.Ctx(ctx).Error().Err(err).Msg("Failed to find validator")
		return nil, types.NewInternalServiceError(err)
	}
	result := fromValidator(*v)
	return &result, nil
}

// GetAccount returns the claims of owner with their rewards settled up to
// the latest distribution.
func (s *Services) GetAccount(ctx context.Context, owner string) (*AccountPublic, *types.Error) {
	claims, err := s.DbClient.FindClaimsByOwner(ctx, owner)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("Failed to find claims by owner")
		return nil, types.NewInternalServiceError(err)
	}
	period := s.providerCfg().UnbondingPeriod
	account := &AccountPublic{Owner: owner, Claims: []ClaimPublic{}}
	for _, c := range claims {
		claim := c
		multiplier := sdkmath.LegacyOneDec()
		v, err := s.DbClient.FindValidator(ctx, claim.Validator)
		if err != nil && !db.IsNotFoundError(err) {
			return nil, types.NewInternalServiceError(err)
		}
		if v != nil {
			multiplier = v.Multiplier
		}
		pool, err := s.DbClient.FindRewardPool(ctx, claim.Validator)
		if err != nil && !db.IsNotFoundError(err) {
			return nil, types.NewInternalServiceError(err)
		}
		if pool != nil {
			if err := settleRewards(pool, &claim); err != nil {
				return nil, types.AsError(err)
			}
		}

		public := ClaimPublic{
			Validator:       claim.Validator,
			State:           claim.State().ToString(),
			Amount:          claim.Amount.String(),
			UnbondingAmount: claim.UnbondingAmount.String(),
			FinalAmount:     multiplier.MulInt(claim.UnbondingAmount).TruncateInt().String(),
			PendingRewards:  claim.PendingRewards.String(),
		}
		if !claim.UnbondingStart.IsZero() {
			public.UnbondingStart = claim.UnbondingStart.Format(time.RFC3339)
			public.MaturesAt = claim.MaturesAt(period).Format(time.RFC3339)
		}
		account.Claims = append(account.Claims, public)
	}
	return account, nil
}

func (s *Services) GetPacket(ctx context.Context, sequence uint64) (*PacketPublic, *types.Error) {
	packet, err := s.DbClient.FindPacket(ctx, sequence)
	if err != nil {
		if db.IsNotFoundError(err) {
			return nil, types.NewErrorWithMsg(http.StatusNotFound, types.NotFound, fmt.Sprintf("packet %d not found", sequence))
		}
		log.Ctx(ctx).Error().Err(err).Msg("Failed to find packet")
		return nil, types.NewInternalServiceError(err)
	}
	return &PacketPublic{
		Sequence:  packet.Sequence,
		ChannelID: packet.ChannelID,
		Data:      packet.Data,
		Timeout:   packet.Timeout,
		Status:    packet.Status.ToString(),
		Error:     packet.Error,
	}, nil
}
