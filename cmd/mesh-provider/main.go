package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/babylonchain/mesh-provider/cmd/mesh-provider/cli"
	"github.com/babylonchain/mesh-provider/cmd/mesh-provider/scripts"
	"github.com/babylonchain/mesh-provider/internal/api"
	"github.com/babylonchain/mesh-provider/internal/config"
	"github.com/babylonchain/mesh-provider/internal/db/memdb"
	"github.com/babylonchain/mesh-provider/internal/db/model"
	"github.com/babylonchain/mesh-provider/internal/observability/healthcheck"
	"github.com/babylonchain/mesh-provider/internal/observability/metrics"
	"github.com/babylonchain/mesh-provider/internal/queue"
	"github.com/babylonchain/mesh-provider/internal/services"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func init() {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("failed to load .env file")
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// setup cli commands and flags
	if err := cli.Setup(); err != nil {
		log.Fatal().Err(err).Msg("error while setting up cli")
	}

	// load config
	cfgPath := cli.GetConfigPath()
	cfg, err := config.New(cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg(fmt.Sprintf("error while loading config file: %s", cfgPath))
	}

	// initialize metrics with the metrics port from config
	metricsPort := cfg.Metrics.GetMetricsPort()
	metrics.Init(metricsPort)

	var service *services.Services
	if cli.GetInMemoryFlag() {
		log.Warn().Msg("In-memory flag is set. State will be lost on restart.")
		service = services.NewWithClient(cfg, memdb.New().WithPaginationLimit(cfg.Db.MaxPaginationLimit))
	} else {
		err = model.Setup(ctx, cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("error while setting up provider db model")
		}
		service, err = services.New(ctx, cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("error while setting up provider services layer")
		}
	}

	// Start the event queue processing
	queues, err := queue.New(&cfg.Queue, service)
	if err != nil {
		log.Fatal().Err(err).Msg("error while setting up queues")
	}

	// Check if the replay flag is set
	if cli.GetReplayFlag() {
		log.Info().Msg("Replay flag is set. Starting replay of unprocessable messages.")
		err := scripts.ReplayUnprocessableMessages(ctx, cfg, queues, service.DbClient)
		if err != nil {
			log.Fatal().Err(err).Msg("error while replaying unprocessable messages")
		}
		return
	}

	// deliver responses committed before the last shutdown
	if _, err := service.FlushOutbox(ctx); err != nil {
		log.Warn().Err(err).Msg("outbox not fully flushed at startup, the relay retries it")
	}
	err = queue.StartOutboxRelayCron(ctx, service, cfg.Queue.OutboxRelayInterval)
	if err != nil {
		log.Fatal().Err(err).Msg("error while starting outbox relay cron")
	}

	queues.StartReceivingMessages()

	err = healthcheck.StartHealthCheckCron(ctx, queues, service, cfg.Server.HealthCheckInterval)
	if err != nil {
		log.Fatal().Err(err).Msg("error while starting health check cron")
	}

	apiServer, err := api.New(ctx, cfg, service)
	if err != nil {
		log.Fatal().Err(err).Msg("error while setting up provider api")
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := apiServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("error while starting provider api: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("Shutting down provider")
		queues.StopReceivingMessages()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return apiServer.Shutdown(shutdownCtx)
	})
	if err := g.Wait(); err != nil {
		log.Fatal().Err(err).Msg("provider stopped with error")
	}
}
