package model

import (
	"time"

	"github.com/babylonchain/mesh-provider/internal/types"
)

const (
	ChannelCollection = "channel"
	// The provider binds a single channel, stored under a fixed key.
	ChannelDocumentId = "consumer"
)

type ChannelDocument struct {
	Id                 string `bson:"_id"`
	ChannelID          string `bson:"channel_id"`
	CounterpartyPortID string `bson:"counterparty_port_id"`
	ConnectionID       string `bson:"connection_id"`
	EstablishedAt      int64  `bson:"established_at"`
}

func NewChannelDocument(c *types.Channel) *ChannelDocument {
	return &ChannelDocument{
		Id:                 ChannelDocumentId,
		ChannelID:          c.ChannelID,
		CounterpartyPortID: c.CounterpartyPortID,
		ConnectionID:       c.ConnectionID,
		EstablishedAt:      c.EstablishedAt.UnixNano(),
	}
}

func (d *ChannelDocument) ToChannel() *types.Channel {
	return &types.Channel{
		ChannelID:          d.ChannelID,
		CounterpartyPortID: d.CounterpartyPortID,
		ConnectionID:       d.ConnectionID,
		EstablishedAt:      time.Unix(0, d.EstablishedAt).UTC(),
	}
}
