package client

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"

	"github.com/babylonchain/mesh-provider/internal/config"
)

const (
	dlxName                 = "common_dlx"
	delayedQueueSuffix      = "_delay"
	retryAttemptsHeader     = "x-processing-attempts"
	defaultPrefetchCount    = 1
	defaultPublishTimeout   = 5 * time.Second
	defaultRequeueDelayTime = 5 * time.Second
)

type RabbitMqClient struct {
	connection       *amqp.Connection
	channel          *amqp.Channel
	queueName        string
	requeueDelayTime time.Duration
	stopOnce         sync.Once
}

func NewRabbitMqClient(cfg *config.QueueConfig, queueName string) (*RabbitMqClient, error) {
	conn, err := amqp.Dial(cfg.AmqpURI())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}

	if err := ch.Qos(defaultPrefetchCount, 0, false); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to set qos: %w", err)
	}

	requeueDelayTime := cfg.ReQueueDelayTime
	if requeueDelayTime <= 0 {
		requeueDelayTime = defaultRequeueDelayTime
	}

	// Requeued messages wait in the delay queue until their ttl expires,
	// then dead-letter back into the main queue.
	if err := ch.ExchangeDeclare(dlxName, amqp.ExchangeDirect, true, false, false, false, nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to declare dead letter exchange: %w", err)
	}
	if _, err := ch.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue %s: %w", queueName, err)
	}
	if err := ch.QueueBind(queueName, queueName, dlxName, false, nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to bind queue %s: %w", queueName, err)
	}
	if _, err := ch.QueueDeclare(queueName+delayedQueueSuffix, true, false, false, false, amqp.Table{
		"x-dead-letter-exchange":    dlxName,
		"x-dead-letter-routing-key": queueName,
		"x-message-ttl":             requeueDelayTime.Milliseconds(),
	}); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to declare delay queue for %s: %w", queueName, err)
	}

	return &RabbitMqClient{
		connection:       conn,
		channel:          ch,
		queueName:        queueName,
		requeueDelayTime: requeueDelayTime,
	}, nil
}

func (c *RabbitMqClient) ReceiveMessages() (<-chan QueueMessage, error) {
	deliveries, err := c.channel.Consume(
		c.queueName,
		"",    // consumer
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		return nil, err
	}

	output := make(chan QueueMessage)
	go func() {
		defer close(output)
		for d := range deliveries {
			output <- QueueMessage{
				Body:          string(d.Body),
				Receipt:       strconv.FormatUint(d.DeliveryTag, 10),
				RetryAttempts: retryAttempts(d.Headers),
			}
		}
	}()
	return output, nil
}

func retryAttempts(headers amqp.Table) int32 {
	if headers == nil {
		return 0
	}
	switch v := headers[retryAttemptsHeader].(type) {
	case int32:
		return v
	case int64:
		return int32(v)
	case int:
		return int32(v)
	default:
		return 0
	}
}

// DeleteMessage acks the delivery identified by receipt.
func (c *RabbitMqClient) DeleteMessage(receipt string) error {
	deliveryTag, err := strconv.ParseUint(receipt, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid receipt %q: %w", receipt, err)
	}
	return c.channel.Ack(deliveryTag, false)
}

func (c *RabbitMqClient) ReQueueMessage(ctx context.Context, message QueueMessage) error {
	attempts := message.IncrementRetryAttempts()
	if err := c.publish(ctx, c.queueName+delayedQueueSuffix, message.Body, amqp.Table{
		retryAttemptsHeader: attempts,
	}); err != nil {
		return fmt.Errorf("failed to requeue message: %w", err)
	}
	log.Ctx(ctx).Debug().Str("queueName", c.queueName).Int32("attempts", attempts).
		Dur("delay", c.requeueDelayTime).Msg("message requeued")
	return c.DeleteMessage(message.Receipt)
}

func (c *RabbitMqClient) SendMessage(ctx context.Context, messageBody string) error {
	return c.publish(ctx, c.queueName, messageBody, nil)
}

func (c *RabbitMqClient) publish(ctx context.Context, routingKey, messageBody string, headers amqp.Table) error {
	ctx, cancel := context.WithTimeout(ctx, defaultPublishTimeout)
	defer cancel()

	return c.channel.PublishWithContext(ctx,
		"",         // default exchange
		routingKey, // routing key
		false,      // mandatory
		false,      // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    uuid.NewString(),
			Timestamp:    time.Now(),
			Headers:      headers,
			Body:         []byte(messageBody),
		},
	)
}

func (c *RabbitMqClient) Stop() error {
	var err error
	c.stopOnce.Do(func() {
		err = errors.Join(c.channel.Close(), c.connection.Close())
	})
	return err
}

func (c *RabbitMqClient) GetQueueName() string {
	return c.queueName
}

func (c *RabbitMqClient) Ping() error {
	if c.connection.IsClosed() {
		return fmt.Errorf("rabbitmq connection for queue %s is closed", c.queueName)
	}
	if c.channel.IsClosed() {
		return fmt.Errorf("rabbitmq channel for queue %s is closed", c.queueName)
	}
	return nil
}
