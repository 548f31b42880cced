package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/babylonchain/mesh-provider/internal/db"
	"github.com/babylonchain/mesh-provider/internal/observability/metrics"
	"github.com/babylonchain/mesh-provider/internal/types"
)

// transitionFunc mutates the state through store and records its output in
// res. Returning an error discards every mutation and the response.
type transitionFunc func(ctx context.Context, store db.StateStore, res *types.Response) error

type messageKeyCtxKey struct{}

// errAlreadyProcessed aborts a transition whose inbound message was already
// committed once.
var errAlreadyProcessed = errors.New("message already processed")

// WithMessageKey tags ctx with the key identifying the inbound message
// behind the next transition. A key is consumed by the first transition
// that commits with it; later transitions with the same key are no-ops.
func WithMessageKey(ctx context.Context, key string) context.Context {
	return context.WithValue(ctx, messageKeyCtxKey{}, key)
}

func messageKey(ctx context.Context) string {
	key, _ := ctx.Value(messageKeyCtxKey{}).(string)
	return key
}

// runTransition executes fn as a single atomic state transition. The
// message key and the outbox record are written in the same transaction,
// and the record is published once committed.
func (s *Services) runTransition(ctx context.Context, name string, fn transitionFunc) (*types.Response, *types.Error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := messageKey(ctx)
	var (
		res    *types.Response
		record *types.OutboxRecord
	)
	err := s.DbClient.RunInTransaction(ctx, func(ctx context.Context, store db.StateStore) error {
		// the db client may run fn again on a retryable failure
		res = &types.Response{}
		res.AddAttribute("action", name)
		record = nil
		if key != "" {
			if err := store.MarkMessageProcessed(ctx, key); err != nil {
				if db.IsDuplicateKeyError(err) {
					return errAlreadyProcessed
				}
				return internalError(err)
			}
		}
		if err := fn(ctx, store, res); err != nil {
			return err
		}
		if s.outbox == nil {
			return nil
		}
		record = &types.OutboxRecord{
			ID:         uuid.NewString(),
			Transition: name,
			Response:   *res,
			CreatedAt:  s.outboxTime(),
		}
		if err := store.SaveOutboxRecord(ctx, record); err != nil {
			return internalError(err)
		}
		return nil
	})
	if errors.Is(err, errAlreadyProcessed) {
		metrics.RecordStateTransition(name, metrics.Duplicate)
		log.Ctx(ctx).Info().Str("transition", name).Str("messageKey", key).
			Msg("message already processed, skipping")
		res = &types.Response{}
		res.AddAttribute("action", name)
		return res, nil
	}
	if err != nil {
		e := types.AsError(err)
		if e.IsRejection() {
			metrics.RecordStateTransition(name, metrics.Rejected)
			log.Ctx(ctx).Warn().Err(err).Str("transition", name).
				Str("errorCode", e.ErrorCode.String()).Msg("state transition rejected")
		} else {
			metrics.RecordStateTransition(name, metrics.Error)
			log.Ctx(ctx).Error().Err(err).Str("transition", name).Msg("state transition failed")
		}
		return nil, e
	}
	metrics.RecordStateTransition(name, metrics.Success)
	log.Ctx(ctx).Debug().Str("transition", name).Int("packets", len(res.Packets)).
		Int("messages", len(res.Messages)).Int("transfers", len(res.Transfers)).Msg("state transition committed")

	if record != nil {
		// an undelivered record stays in the outbox for the relay
		s.deliver(ctx, *record)
	}
	return res, nil
}

// outboxTime returns strictly increasing timestamps so that outbox records
// sort in commit order. Must be called with s.mu held.
func (s *Services) outboxTime() time.Time {
	now := time.Now().UTC()
	if !now.After(s.lastOutboxAt) {
		now = s.lastOutboxAt.Add(time.Nanosecond)
	}
	s.lastOutboxAt = now
	return now
}

// internalError wraps unexpected storage errors.
func internalError(err error) error {
	return types.NewInternalServiceError(err)
}
