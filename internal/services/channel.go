package services

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/babylonchain/mesh-provider/internal/db"
	"github.com/babylonchain/mesh-provider/internal/ibc"
	"github.com/babylonchain/mesh-provider/internal/observability/metrics"
	"github.com/babylonchain/mesh-provider/internal/types"
)

func channelNotEstablished() error {
	return types.NewErrorWithMsg(
		http.StatusPreconditionFailed, types.ChannelNotEstablished,
		"no channel to the consumer has been established",
	)
}

func requireChannel(ctx context.Context, store db.StateStore) (*types.Channel, error) {
	channel, err := store.FindChannel(ctx)
	if err != nil {
		if db.IsNotFoundError(err) {
			return nil, channelNotEstablished()
		}
		return nil, internalError(err)
	}
	return channel, nil
}

// sendPacket queues a packet to the consumer on the established channel.
// The packet is stored as pending together with the rest of the transition.
func (s *Services) sendPacket(
	ctx context.Context, store db.StateStore, res *types.Response,
	blockTime time.Time, data types.ProviderPacket,
) error {
	channel, err := requireChannel(ctx, store)
	if err != nil {
		return err
	}
	timeout, err := ibc.BuildTimeout(s.providerCfg(), blockTime)
	if err != nil {
		return internalError(err)
	}
	sequence, err := store.NextPacketSequence(ctx)
	if err != nil {
		return internalError(err)
	}
	packet := types.OutgoingPacket{
		Sequence:  sequence,
		ChannelID: channel.ChannelID,
		Data:      data,
		Timeout:   timeout,
	}
	if err := store.SavePacket(ctx, &types.PacketRecord{
		OutgoingPacket: packet,
		Status:         types.PacketPending,
	}); err != nil {
		return internalError(err)
	}
	res.Packets = append(res.Packets, packet)
	return nil
}

// OpenChannel binds the provider to the consumer channel. Only one channel
// can ever be bound.
func (s *Services) OpenChannel(ctx context.Context, blockTime time.Time, req ibc.ChannelOpenRequest) (*types.Response, *types.Error) {
	return s.runTransition(ctx, "channel_open", func(ctx context.Context, store db.StateStore, res *types.Response) error {
		if _, err := store.FindChannel(ctx); err == nil {
			return channelAlreadyBound()
		} else if !db.IsNotFoundError(err) {
			return internalError(err)
		}
		if err := ibc.ValidateChannelOpen(s.providerCfg(), req); err != nil {
			return err
		}
		channel := &types.Channel{
			ChannelID:          req.ChannelID,
			CounterpartyPortID: req.CounterpartyPortID,
			ConnectionID:       req.ConnectionID,
			EstablishedAt:      blockTime,
		}
		if err := store.SaveChannel(ctx, channel); err != nil {
			if db.IsDuplicateKeyError(err) {
				return channelAlreadyBound()
			}
			return internalError(err)
		}
		log.Ctx(ctx).Info().Str("channelId", req.ChannelID).Str("connectionId", req.ConnectionID).
			Msg("consumer channel established")
		res.AddAttribute("channel_id", req.ChannelID)
		return nil
	})
}

func channelAlreadyBound() error {
	return types.NewErrorWithMsg(
		http.StatusConflict, types.ChannelAlreadyBound,
		"Contract already has a bound channel",
	)
}

// AcknowledgePacket records the consumer's acknowledgement of a packet. A
// failed acknowledgement is recorded and logged, local state is not reverted.
func (s *Services) AcknowledgePacket(ctx context.Context, sequence uint64, success bool, ackErr string) (*types.Response, *types.Error) {
	status := types.PacketAcknowledged
	if !success {
		status = types.PacketFailed
	}
	return s.finishPacket(ctx, "packet_ack", sequence, status, ackErr, nil)
}

// TimeoutPacket records that a packet was never delivered. The timeout is
// only accepted once blockTime has reached the packet's timeout timestamp.
func (s *Services) TimeoutPacket(ctx context.Context, blockTime time.Time, sequence uint64) (*types.Response, *types.Error) {
	return s.finishPacket(ctx, "packet_timeout", sequence, types.PacketTimedOut, "packet timed out",
		func(packet *types.PacketRecord) error {
			if !packet.Timeout.IsExpired(blockTime) {
				return types.NewValidationError(fmt.Sprintf(
					"packet %d does not time out before %s", sequence, packet.Timeout.Timestamp.Format(time.RFC3339),
				))
			}
			return nil
		})
}

// finishPacket moves a pending packet to status. check, if set, may reject
// the transition before anything is written.
func (s *Services) finishPacket(
	ctx context.Context, name string, sequence uint64, status types.PacketStatus, reason string,
	check func(packet *types.PacketRecord) error,
) (*types.Response, *types.Error) {
	res, err := s.runTransition(ctx, name, func(ctx context.Context, store db.StateStore, res *types.Response) error {
		packet, err := store.FindPacket(ctx, sequence)
		if err != nil {
			if db.IsNotFoundError(err) {
				return types.NewErrorWithMsg(
					http.StatusNotFound, types.NotFound,
					fmt.Sprintf("packet %d not found", sequence),
				)
			}
			return internalError(err)
		}
		if packet.Status != types.PacketPending {
			// duplicate delivery of the same outcome
			log.Ctx(ctx).Debug().Uint64("sequence", sequence).Str("status", packet.Status.ToString()).
				Msg("packet already finished, ignoring")
			return nil
		}
		if check != nil {
			if err := check(packet); err != nil {
				return err
			}
		}
		packet.Status = status
		if status != types.PacketAcknowledged {
			packet.Error = reason
			log.Ctx(ctx).Warn().Uint64("sequence", sequence).Str("status", status.ToString()).
				Str("reason", reason).Msg("packet was not applied by the consumer")
		}
		if err := store.SavePacket(ctx, packet); err != nil {
			return internalError(err)
		}
		res.AddAttribute("sequence", fmt.Sprintf("%d", sequence))
		res.AddAttribute("status", status.ToString())
		return nil
	})
	if err != nil {
		return nil, err
	}
	if recorded, ok := res.Attribute("status"); ok {
		metrics.RecordPacketOutcome(recorded)
	}
	return res, nil
}
