package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/babylonchain/mesh-provider/internal/queue/client"
	"github.com/babylonchain/mesh-provider/internal/services"
	"github.com/babylonchain/mesh-provider/internal/types"
)

type QueueHandler struct {
	Services *services.Services
}

type MessageHandler func(ctx context.Context, messageBody string) *types.Error

func NewQueueHandler(services *services.Services) *QueueHandler {
	return &QueueHandler{
		Services: services,
	}
}

func decodeEvent[T any](ctx context.Context, messageBody string) (*T, *types.Error) {
	var event T
	if err := json.Unmarshal([]byte(messageBody), &event); err != nil {
		log.Ctx(ctx).Error().Err(err).Msg(fmt.Sprintf("Failed to unmarshal the message body into %T", event))
		return nil, types.NewError(http.StatusBadRequest, types.BadRequest, err)
	}
	return &event, nil
}

func peekEventType(ctx context.Context, messageBody string) (client.EventType, *types.Error) {
	event, err := decodeEvent[client.GenericEvent](ctx, messageBody)
	if err != nil {
		return 0, err
	}
	return event.EventType, nil
}
