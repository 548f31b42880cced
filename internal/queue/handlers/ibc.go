package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/babylonchain/mesh-provider/internal/ibc"
	"github.com/babylonchain/mesh-provider/internal/queue/client"
	"github.com/babylonchain/mesh-provider/internal/services"
	"github.com/babylonchain/mesh-provider/internal/types"
	"github.com/babylonchain/mesh-provider/internal/utils"
)

// IbcHandler applies channel and packet lifecycle events relayed from the
// consumer chain.
func (h *QueueHandler) IbcHandler(ctx context.Context, messageBody string) *types.Error {
	eventType, err := peekEventType(ctx, messageBody)
	if err != nil {
		return err
	}
	switch eventType {
	case client.ChannelOpenEventType:
		return h.channelOpen(ctx, messageBody)
	case client.PacketReceiveEventType:
		return h.packetReceive(ctx, messageBody)
	case client.PacketAckEventType:
		return h.packetAck(ctx, messageBody)
	case client.PacketTimeoutEventType:
		return h.packetTimeout(ctx, messageBody)
	default:
		return types.NewErrorWithMsg(http.StatusBadRequest, types.BadRequest,
			fmt.Sprintf("unknown event type %d on ibc queue", eventType))
	}
}

func (h *QueueHandler) channelOpen(ctx context.Context, messageBody string) *types.Error {
	event, err := decodeEvent[client.ChannelOpenEvent](ctx, messageBody)
	if err != nil {
		return err
	}
	blockTime, parseErr := utils.ParseBlockTime(event.BlockTime)
	if parseErr != nil {
		return types.NewError(http.StatusBadRequest, types.BadRequest, parseErr)
	}
	_, err = h.Services.OpenChannel(ctx, blockTime, ibc.ChannelOpenRequest{
		ChannelID:          event.ChannelID,
		CounterpartyPortID: event.CounterpartyPortID,
		ConnectionID:       event.ConnectionID,
		Order:              event.Order,
		Version:            event.Version,
	})
	return err
}

func (h *QueueHandler) packetReceive(ctx context.Context, messageBody string) *types.Error {
	event, err := decodeEvent[client.PacketReceiveEvent](ctx, messageBody)
	if err != nil {
		return err
	}
	if event.Sequence == 0 {
		return types.NewValidationError("missing packet sequence")
	}
	ctx = services.WithMessageKey(ctx, fmt.Sprintf("recv/%s/%d", event.DestinationChannel, event.Sequence))
	_, err = h.Services.ReceivePacket(ctx, event.DestinationChannel, event.Packet)
	return err
}

func (h *QueueHandler) packetAck(ctx context.Context, messageBody string) *types.Error {
	event, err := decodeEvent[client.PacketAckEvent](ctx, messageBody)
	if err != nil {
		return err
	}
	_, err = h.Services.AcknowledgePacket(ctx, event.Sequence, event.Success, event.Error)
	return err
}

func (h *QueueHandler) packetTimeout(ctx context.Context, messageBody string) *types.Error {
	event, err := decodeEvent[client.PacketTimeoutEvent](ctx, messageBody)
	if err != nil {
		return err
	}
	blockTime, parseErr := utils.ParseBlockTime(event.BlockTime)
	if parseErr != nil {
		return types.NewError(http.StatusBadRequest, types.BadRequest, parseErr)
	}
	_, err = h.Services.TimeoutPacket(ctx, blockTime, event.Sequence)
	return err
}
