package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/babylonchain/mesh-provider/internal/types"
)

// deliver publishes a committed record and removes it from the outbox.
// Must be called with s.mu held.
func (s *Services) deliver(ctx context.Context, record types.OutboxRecord) error {
	if err := s.outbox.Publish(ctx, record); err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("recordId", record.ID).Str("transition", record.Transition).
			Msg("failed to publish transition response, keeping it in the outbox")
		return fmt.Errorf("failed to publish outbox record %s: %w", record.ID, err)
	}
	if err := s.DbClient.DeleteOutboxRecord(ctx, record.ID); err != nil {
		// the relay publishes it again, the chain writer dedups on the record id
		log.Ctx(ctx).Error().Err(err).Str("recordId", record.ID).Msg("failed to delete delivered outbox record")
		return fmt.Errorf("failed to delete outbox record %s: %w", record.ID, err)
	}
	return nil
}

// FlushOutbox publishes the committed records that were not delivered yet,
// oldest first. It stops at the first failure so that records keep their
// commit order, and returns how many were delivered.
func (s *Services) FlushOutbox(ctx context.Context) (int, error) {
	if s.outbox == nil {
		return 0, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.DbClient.FindOutboxRecords(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load outbox records: %w", err)
	}
	for i, record := range records {
		if err := s.deliver(ctx, record); err != nil {
			return i, err
		}
	}
	if len(records) > 0 {
		log.Ctx(ctx).Info().Int("records", len(records)).Msg("flushed outbox")
	}
	return len(records), nil
}
