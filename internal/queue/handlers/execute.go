package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/babylonchain/mesh-provider/internal/queue/client"
	"github.com/babylonchain/mesh-provider/internal/services"
	"github.com/babylonchain/mesh-provider/internal/types"
	"github.com/babylonchain/mesh-provider/internal/utils"
)

// ExecuteHandler applies an authenticated execute intent.
func (h *QueueHandler) ExecuteHandler(ctx context.Context, messageBody string) *types.Error {
	event, err := decodeEvent[client.ExecuteEvent](ctx, messageBody)
	if err != nil {
		return err
	}
	if event.EventType != client.ExecuteEventType {
		return types.NewErrorWithMsg(http.StatusBadRequest, types.BadRequest,
			fmt.Sprintf("unexpected event type %d on execute queue", event.EventType))
	}
	if event.MessageID == "" {
		return types.NewValidationError("missing message id")
	}
	if event.Sender == "" {
		return types.NewValidationError("missing sender")
	}
	blockTime, parseErr := utils.ParseBlockTime(event.BlockTime)
	if parseErr != nil {
		return types.NewError(http.StatusBadRequest, types.BadRequest, parseErr)
	}

	log.Ctx(ctx).Debug().Str("messageId", event.MessageID).Str("sender", event.Sender).
		Str("msg", event.Msg.Name()).Msg("executing message")
	ctx = services.WithMessageKey(ctx, "execute/"+event.MessageID)
	_, err = h.Services.Execute(ctx, types.Env{Sender: event.Sender, BlockTime: blockTime}, event.Msg)
	return err
}
