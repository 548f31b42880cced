package client

import (
	"github.com/babylonchain/mesh-provider/internal/types"
)

const (
	ExecuteQueueName string = "provider_execute_queue"
	IbcQueueName     string = "provider_ibc_queue"
	OutboxQueueName  string = "provider_outbox_queue"
)

const (
	ExecuteEventType       EventType = 1
	ChannelOpenEventType   EventType = 2
	PacketReceiveEventType EventType = 3
	PacketAckEventType     EventType = 4
	PacketTimeoutEventType EventType = 5
	OutboxEventType        EventType = 6
)

type EventType int

// GenericEvent is used to peek at the type of an event before decoding it.
type GenericEvent struct {
	EventType EventType `json:"event_type"`
}

// ExecuteEvent carries an authenticated intent. MessageID is unique per
// intent, a redelivered intent is applied once.
type ExecuteEvent struct {
	EventType EventType        `json:"event_type"` // always 1
	MessageID string           `json:"message_id"`
	Sender    string           `json:"sender"`
	BlockTime string           `json:"block_time"`
	Msg       types.ExecuteMsg `json:"msg"`
}

type ChannelOpenEvent struct {
	EventType          EventType `json:"event_type"` // always 2
	BlockTime          string    `json:"block_time"`
	ChannelID          string    `json:"channel_id"`
	CounterpartyPortID string    `json:"counterparty_port_id"`
	ConnectionID       string    `json:"connection_id"`
	Order              string    `json:"order"`
	Version            string    `json:"version"`
}

// PacketReceiveEvent carries a consumer packet that arrived on the local
// DestinationChannel with the given Sequence.
type PacketReceiveEvent struct {
	EventType          EventType            `json:"event_type"` // always 3
	DestinationChannel string               `json:"destination_channel"`
	Sequence           uint64               `json:"sequence"`
	Packet             types.ConsumerPacket `json:"packet"`
}

type PacketAckEvent struct {
	EventType EventType `json:"event_type"` // always 4
	Sequence  uint64    `json:"sequence"`
	Success   bool      `json:"success"`
	Error     string    `json:"error,omitempty"`
}

type PacketTimeoutEvent struct {
	EventType EventType `json:"event_type"` // always 5
	BlockTime string    `json:"block_time"`
	Sequence  uint64    `json:"sequence"`
}

// OutboxEvent carries the output of a committed state transition to the
// chain writer.
type OutboxEvent struct {
	EventType  EventType      `json:"event_type"` // always 6
	MessageID  string         `json:"message_id"`
	Transition string         `json:"transition"`
	Response   types.Response `json:"response"`
}

func NewOutboxEvent(messageID, transition string, res types.Response) OutboxEvent {
	return OutboxEvent{
		EventType:  OutboxEventType,
		MessageID:  messageID,
		Transition: transition,
		Response:   res,
	}
}
