package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/babylonchain/mesh-provider/internal/queue/client"
	"github.com/babylonchain/mesh-provider/internal/types"
)

const defaultOutboxRelaySeconds = 30

// Outbox publishes committed transition responses to the outbox queue. The
// record id travels as the message id so the chain writer can drop
// redeliveries.
type Outbox struct {
	queueClient client.QueueClient
}

func NewOutbox(queueClient client.QueueClient) *Outbox {
	return &Outbox{queueClient: queueClient}
}

func (o *Outbox) Publish(ctx context.Context, record types.OutboxRecord) error {
	event := client.NewOutboxEvent(record.ID, record.Transition, record.Response)
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode outbox event: %w", err)
	}
	return o.queueClient.SendMessage(ctx, string(body))
}

type OutboxFlusher interface {
	FlushOutbox(ctx context.Context) (int, error)
}

// StartOutboxRelayCron periodically publishes the outbox records that could
// not be delivered right after their transition committed.
func StartOutboxRelayCron(ctx context.Context, flusher OutboxFlusher, cronTime int) error {
	c := cron.New()
	log.Info().Msg("Initiated Outbox Relay Cron")

	if cronTime == 0 {
		cronTime = defaultOutboxRelaySeconds
	}

	_, err := c.AddFunc(fmt.Sprintf("@every %ds", cronTime), func() {
		relayOutbox(ctx, flusher)
	})
	if err != nil {
		return err
	}

	c.Start()

	go func() {
		<-ctx.Done()
		log.Info().Msg("Stopping Outbox Relay Cron")
		c.Stop()
	}()

	return nil
}

func relayOutbox(ctx context.Context, flusher OutboxFlusher) {
	delivered, err := flusher.FlushOutbox(ctx)
	if err != nil {
		log.Error().Err(err).Int("delivered", delivered).Msg("outbox relay stopped early")
	}
}
