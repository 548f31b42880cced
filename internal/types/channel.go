package types

import "time"

const (
	// UnorderedChannel is the only channel ordering the provider accepts.
	UnorderedChannel = "ORDER_UNORDERED"
)

// Channel is the established IBC channel to the consumer chain. It is set
// once by the handshake and never changes afterwards.
type Channel struct {
	ChannelID          string    `json:"channel_id"`
	CounterpartyPortID string    `json:"counterparty_port_id"`
	ConnectionID       string    `json:"connection_id"`
	EstablishedAt      time.Time `json:"established_at"`
}

type PacketStatus string

const (
	PacketPending      PacketStatus = "pending"
	PacketAcknowledged PacketStatus = "acknowledged"
	PacketFailed       PacketStatus = "failed"
	PacketTimedOut     PacketStatus = "timed_out"
)

func (s PacketStatus) ToString() string {
	return string(s)
}

// PacketRecord is an outgoing packet as stored by the provider.
type PacketRecord struct {
	OutgoingPacket
	Status PacketStatus `json:"status"`
	Error  string       `json:"error,omitempty"`
}
