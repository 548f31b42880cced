package config

import (
	"errors"
	"fmt"
	"time"
)

type QueueConfig struct {
	QueueUser              string        `mapstructure:"queue_user"`
	QueuePassword          string        `mapstructure:"queue_password"`
	Url                    string        `mapstructure:"url"`
	QueueProcessingTimeout time.Duration `mapstructure:"processing_timeout"`
	MsgMaxRetryAttempts    int32         `mapstructure:"msg_max_retry_attempts"`
	ReQueueDelayTime       time.Duration `mapstructure:"requeue_delay_time"`
	OutboxRelayInterval    int           `mapstructure:"outbox_relay_interval"` // seconds
}

func (cfg *QueueConfig) Validate() error {
	if cfg.Url == "" {
		return errors.New("missing queue url")
	}

	if cfg.QueueUser == "" {
		return errors.New("missing queue user")
	}

	if cfg.QueueProcessingTimeout <= 0 {
		return errors.New("invalid queue processing timeout")
	}

	if cfg.MsgMaxRetryAttempts <= 0 {
		return fmt.Errorf("invalid msg max retry attempts: %d", cfg.MsgMaxRetryAttempts)
	}

	if cfg.ReQueueDelayTime < 0 {
		return errors.New("requeue delay time cannot be negative")
	}

	if cfg.OutboxRelayInterval < 0 {
		return errors.New("outbox relay interval cannot be negative")
	}

	return nil
}

// AmqpURI builds the connection string for the broker.
func (cfg *QueueConfig) AmqpURI() string {
	return fmt.Sprintf("amqp://%s:%s@%s", cfg.QueueUser, cfg.QueuePassword, cfg.Url)
}
