package services

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/babylonchain/mesh-provider/internal/config"
	"github.com/babylonchain/mesh-provider/internal/db"
	"github.com/babylonchain/mesh-provider/internal/types"
)

// Outbox delivers the output of committed state transitions to the chain
// writer. It is only called with records that have been committed.
type Outbox interface {
	Publish(ctx context.Context, record types.OutboxRecord) error
}

// Service layer contains the business logic of the provider. Every state
// transition is serialised and committed atomically through the db client.
type Services struct {
	DbClient db.DBClient
	cfg      *config.Config
	outbox   Outbox
	// mu serialises state transitions
	mu           sync.Mutex
	lastOutboxAt time.Time
}

func New(ctx context.Context, cfg *config.Config) (*Services, error) {
	dbClient, err := db.New(ctx, cfg.Db)
	if err != nil {
		log.Ctx(ctx).Fatal().Err(err).Msg("error while creating db client")
		return nil, err
	}
	return NewWithClient(cfg, dbClient), nil
}

func NewWithClient(cfg *config.Config, dbClient db.DBClient) *Services {
	return &Services{
		DbClient: dbClient,
		cfg:      cfg,
	}
}

// SetOutbox sets where committed responses are published. Without an
// outbox responses are only returned to the caller and no outbox records
// are written.
func (s *Services) SetOutbox(outbox Outbox) {
	s.outbox = outbox
}

// DoHealthCheck checks the health of the services by ping the database.
func (s *Services) DoHealthCheck(ctx context.Context) error {
	return s.DbClient.Ping(ctx)
}

func (s *Services) SaveUnprocessableMessages(ctx context.Context, messageBody, receipt, reason string) error {
	err := s.DbClient.SaveUnprocessableMessage(ctx, messageBody, receipt, reason)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("error while saving unprocessable message")
		return types.NewErrorWithMsg(http.StatusInternalServerError, types.InternalServiceError, "error while saving unprocessable message")
	}
	return nil
}

func (s *Services) providerCfg() *config.ProviderConfig {
	return &s.cfg.Provider
}
