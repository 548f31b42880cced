package model

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/babylonchain/mesh-provider/internal/types"
)

const (
	OutboxCollection           = "outbox"
	ProcessedMessageCollection = "processed_messages"
)

type OutboxDocument struct {
	ID         string `bson:"_id"` // Primary key
	Transition string `bson:"transition"`
	Response   string `bson:"response"` // JSON encoded Response
	CreatedAt  int64  `bson:"created_at"`
}

// ProcessedMessageDocument marks an inbound message whose transition was
// committed. The key is the primary key so a second insert fails.
type ProcessedMessageDocument struct {
	Key         string `bson:"_id"`
	ProcessedAt int64  `bson:"processed_at"`
}

func NewOutboxDocument(r *types.OutboxRecord) (*OutboxDocument, error) {
	res, err := json.Marshal(r.Response)
	if err != nil {
		return nil, fmt.Errorf("failed to encode outbox record %s: %w", r.ID, err)
	}
	return &OutboxDocument{
		ID:         r.ID,
		Transition: r.Transition,
		Response:   string(res),
		CreatedAt:  r.CreatedAt.UnixNano(),
	}, nil
}

func (d *OutboxDocument) ToOutboxRecord() (*types.OutboxRecord, error) {
	var res types.Response
	if err := json.Unmarshal([]byte(d.Response), &res); err != nil {
		return nil, fmt.Errorf("failed to decode outbox record %s: %w", d.ID, err)
	}
	return &types.OutboxRecord{
		ID:         d.ID,
		Transition: d.Transition,
		Response:   res,
		CreatedAt:  time.Unix(0, d.CreatedAt).UTC(),
	}, nil
}

func NewProcessedMessageDocument(key string, processedAt time.Time) *ProcessedMessageDocument {
	return &ProcessedMessageDocument{
		Key:         key,
		ProcessedAt: processedAt.Unix(),
	}
}
