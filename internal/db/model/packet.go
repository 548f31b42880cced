package model

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/babylonchain/mesh-provider/internal/types"
)

const (
	PacketCollection  = "packets"
	CounterCollection = "counters"

	PacketSequenceCounterId = "packet_sequence"
)

type PacketDocument struct {
	Sequence            int64  `bson:"_id"` // Primary key
	ChannelID           string `bson:"channel_id"`
	Data                string `bson:"data"` // JSON encoded ProviderPacket
	TimeoutTimestamp    int64  `bson:"timeout_timestamp"`
	TimeoutPortID       string `bson:"timeout_port_id"`
	TimeoutConnectionID string `bson:"timeout_connection_id"`
	Status              string `bson:"status"`
	Error               string `bson:"error,omitempty"`
}

type CounterDocument struct {
	Id    string `bson:"_id"`
	Value int64  `bson:"value"`
}

func NewPacketDocument(p *types.PacketRecord) (*PacketDocument, error) {
	data, err := json.Marshal(p.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to encode packet %d: %w", p.Sequence, err)
	}
	return &PacketDocument{
		Sequence:            int64(p.Sequence),
		ChannelID:           p.ChannelID,
		Data:                string(data),
		TimeoutTimestamp:    p.Timeout.Timestamp.UnixNano(),
		TimeoutPortID:       p.Timeout.PortID,
		TimeoutConnectionID: p.Timeout.ConnectionID,
		Status:              p.Status.ToString(),
		Error:               p.Error,
	}, nil
}

func (d *PacketDocument) ToPacketRecord() (*types.PacketRecord, error) {
	var data types.ProviderPacket
	if err := json.Unmarshal([]byte(d.Data), &data); err != nil {
		return nil, fmt.Errorf("failed to decode packet %d: %w", d.Sequence, err)
	}
	return &types.PacketRecord{
		OutgoingPacket: types.OutgoingPacket{
			Sequence:  uint64(d.Sequence),
			ChannelID: d.ChannelID,
			Data:      data,
			Timeout: types.PacketTimeout{
				Timestamp:    time.Unix(0, d.TimeoutTimestamp).UTC(),
				PortID:       d.TimeoutPortID,
				ConnectionID: d.TimeoutConnectionID,
			},
		},
		Status: types.PacketStatus(d.Status),
		Error:  d.Error,
	}, nil
}
