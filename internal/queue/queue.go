package queue

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/babylonchain/mesh-provider/internal/config"
	"github.com/babylonchain/mesh-provider/internal/observability/metrics"
	"github.com/babylonchain/mesh-provider/internal/observability/tracing"
	"github.com/babylonchain/mesh-provider/internal/queue/client"
	"github.com/babylonchain/mesh-provider/internal/queue/handlers"
	"github.com/babylonchain/mesh-provider/internal/services"
	"github.com/babylonchain/mesh-provider/internal/types"
)

type Queues struct {
	ExecuteQueueClient client.QueueClient
	IbcQueueClient     client.QueueClient
	OutboxQueueClient  client.QueueClient
	Handlers           *handlers.QueueHandler
	processingTimeout  time.Duration
	maxRetryAttempts   int32
}

func New(cfg *config.QueueConfig, service *services.Services) (*Queues, error) {
	executeQueueClient, err := client.NewQueueClient(cfg, client.ExecuteQueueName)
	if err != nil {
		return nil, fmt.Errorf("error while creating ExecuteQueueClient: %w", err)
	}
	ibcQueueClient, err := client.NewQueueClient(cfg, client.IbcQueueName)
	if err != nil {
		return nil, fmt.Errorf("error while creating IbcQueueClient: %w", err)
	}
	outboxQueueClient, err := client.NewQueueClient(cfg, client.OutboxQueueName)
	if err != nil {
		return nil, fmt.Errorf("error while creating OutboxQueueClient: %w", err)
	}
	return NewWithClients(cfg, service, executeQueueClient, ibcQueueClient, outboxQueueClient), nil
}

// NewWithClients wires the queues around existing clients and installs the
// outbox on the services.
func NewWithClients(
	cfg *config.QueueConfig, service *services.Services,
	executeQueueClient, ibcQueueClient, outboxQueueClient client.QueueClient,
) *Queues {
	service.SetOutbox(NewOutbox(outboxQueueClient))
	return &Queues{
		ExecuteQueueClient: executeQueueClient,
		IbcQueueClient:     ibcQueueClient,
		OutboxQueueClient:  outboxQueueClient,
		Handlers:           handlers.NewQueueHandler(service),
		processingTimeout:  cfg.QueueProcessingTimeout,
		maxRetryAttempts:   cfg.MsgMaxRetryAttempts,
	}
}

// Start all message processing
func (q *Queues) StartReceivingMessages() {
	q.startQueueMessageProcessing(q.ExecuteQueueClient, q.Handlers.ExecuteHandler)
	q.startQueueMessageProcessing(q.IbcQueueClient, q.Handlers.IbcHandler)
	// the outbox is only written to
}

// Turn off all message processing
func (q *Queues) StopReceivingMessages() {
	for _, c := range q.clients() {
		if err := c.Stop(); err != nil {
			log.Error().Err(err).Str("queueName", c.GetQueueName()).Msg("error while stopping queue")
		}
	}
}

// IsConnectionHealthy checks all queue connections.
func (q *Queues) IsConnectionHealthy() error {
	var errs []error
	for _, c := range q.clients() {
		if err := c.Ping(); err != nil {
			errs = append(errs, fmt.Errorf("queue %s is not healthy: %w", c.GetQueueName(), err))
		}
	}
	return errors.Join(errs...)
}

func (q *Queues) clients() []client.QueueClient {
	return []client.QueueClient{q.ExecuteQueueClient, q.IbcQueueClient, q.OutboxQueueClient}
}

func (q *Queues) startQueueMessageProcessing(queueClient client.QueueClient, handler handlers.MessageHandler) {
	messagesChan, err := queueClient.ReceiveMessages()
	if err != nil {
		log.Fatal().Err(err).Str("queueName", queueClient.GetQueueName()).Msg("error setting up message channel from queue")
	}

	go func() {
		for message := range messagesChan {
			q.processMessage(queueClient, handler, message)
		}
		log.Info().Str("queueName", queueClient.GetQueueName()).Msg("stopped receiving messages")
	}()
}

// processMessage handles one message. Rejected transitions are parked as
// unprocessable right away; other failures are retried until the retry
// budget is spent.
func (q *Queues) processMessage(queueClient client.QueueClient, handler handlers.MessageHandler, message client.QueueMessage) {
	queueName := queueClient.GetQueueName()
	// For each message, create a new context with a deadline or timeout
	ctx, cancel := context.WithTimeout(context.Background(), q.processingTimeout)
	defer cancel()
	ctx = tracing.AttachTracingIntoContext(ctx)
	logger := log.With().Str("queueName", queueName).
		Str("traceId", tracing.GetTraceId(ctx)).Str("receipt", message.Receipt).Logger()
	ctx = logger.WithContext(ctx)

	timer := metrics.StartQueueProcessingTimer(queueName)
	procErr := handler(ctx, message.Body)
	if procErr == nil {
		timer(metrics.Success)
		q.deleteMessage(ctx, queueClient, message)
		return
	}

	if procErr.IsRejection() {
		timer(metrics.Rejected)
		logger.Warn().Err(procErr).Str("errorCode", procErr.ErrorCode.String()).Msg("message rejected, moving it to unprocessable store")
		q.park(ctx, &logger, queueClient, message, procErr)
		return
	}

	timer(metrics.Error)
	logger.Error().Err(procErr).Int32("attempts", message.GetRetryAttempts()).Msg("error while processing message from queue")
	if message.GetRetryAttempts()+1 >= q.maxRetryAttempts {
		logger.Error().Msg("retry attempts exhausted, moving message to unprocessable store")
		q.park(ctx, &logger, queueClient, message, procErr)
		return
	}
	if err := queueClient.ReQueueMessage(ctx, message); err != nil {
		logger.Error().Err(err).Msg("error while requeuing message")
	}
}

func (q *Queues) park(
	ctx context.Context, logger *zerolog.Logger, queueClient client.QueueClient,
	message client.QueueMessage, procErr *types.Error,
) {
	reason := fmt.Sprintf("%s: %s", procErr.ErrorCode, procErr.Error())
	// delivery tags are only unique per channel, the stored copy gets its own id
	if err := q.Handlers.Services.SaveUnprocessableMessages(ctx, message.Body, uuid.NewString(), reason); err != nil {
		// leave it unacked, the broker redelivers it
		logger.Error().Err(err).Msg("error while saving unprocessable message")
		return
	}
	metrics.RecordUnprocessableMessage(queueClient.GetQueueName())
	q.deleteMessage(ctx, queueClient, message)
}

func (q *Queues) deleteMessage(ctx context.Context, queueClient client.QueueClient, message client.QueueMessage) {
	if err := queueClient.DeleteMessage(message.Receipt); err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("error while deleting message from queue")
	}
}
