package scripts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/babylonchain/mesh-provider/internal/config"
	"github.com/babylonchain/mesh-provider/internal/db"
	"github.com/babylonchain/mesh-provider/internal/queue"
	queueClient "github.com/babylonchain/mesh-provider/internal/queue/client"
	"github.com/rs/zerolog/log"
)

// ReplayUnprocessableMessages pushes every parked message back onto the
// queue its event type belongs to and removes it from the store.
func ReplayUnprocessableMessages(ctx context.Context, cfg *config.Config, queues *queue.Queues, db db.DBClient) (err error) {
	// Fetch unprocessable messages
	unprocessableMessages, err := db.FindUnprocessableMessages(ctx)
	if err != nil {
		return errors.New("failed to retrieve unprocessable messages")
	}

	messageCount := len(unprocessableMessages)

	// Inform the user of the number of unprocessable messages
	fmt.Printf("There are %d unprocessable messages.\n", messageCount)
	if messageCount == 0 {
		return errors.New("no unprocessable messages to replay")
	}

	for _, msg := range unprocessableMessages {
		var genericEvent queueClient.GenericEvent
		if err := json.Unmarshal([]byte(msg.MessageBody), &genericEvent); err != nil {
			log.Error().Err(err).Str("reason", msg.Reason).Msg("Failed to unmarshal unprocessable message")
			return errors.New("failed to unmarshal event message")
		}

		if err := processEventMessage(ctx, queues, genericEvent, msg.MessageBody); err != nil {
			log.Error().Err(err).Msg("Failed to replay unprocessable message")
			return errors.New("failed to process message")
		}

		if err := db.DeleteUnprocessableMessage(ctx, msg.Receipt); err != nil {
			return errors.New("failed to delete unprocessable message")
		}
	}

	log.Info().Int("count", messageCount).Msg("Reprocessing of unprocessable messages completed.")
	return
}

// processEventMessage routes the message to the queue of its EventType.
// Outbox events are never parked, undelivered responses stay in the outbox.
func processEventMessage(ctx context.Context, queues *queue.Queues, event queueClient.GenericEvent, messageBody string) error {
	switch event.EventType {
	case queueClient.ExecuteEventType:
		return queues.ExecuteQueueClient.SendMessage(ctx, messageBody)
	case queueClient.ChannelOpenEventType,
		queueClient.PacketReceiveEventType,
		queueClient.PacketAckEventType,
		queueClient.PacketTimeoutEventType:
		return queues.IbcQueueClient.SendMessage(ctx, messageBody)
	default:
		return fmt.Errorf("unknown event type: %v", event.EventType)
	}
}
