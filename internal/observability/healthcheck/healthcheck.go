package healthcheck

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const defaultCronTimeSeconds = 60

var logger zerolog.Logger = log.Logger

func SetLogger(customLogger zerolog.Logger) {
	logger = customLogger
}

type QueueChecker interface {
	IsConnectionHealthy() error
}

type DbChecker interface {
	DoHealthCheck(ctx context.Context) error
}

// terminate is swapped in tests
var terminate = terminateService

func StartHealthCheckCron(ctx context.Context, queues QueueChecker, db DbChecker, cronTime int) error {
	c := cron.New()
	logger.Info().Msg("Initiated Health Check Cron")

	if cronTime == 0 {
		cronTime = defaultCronTimeSeconds
	}

	cronSpec := fmt.Sprintf("@every %ds", cronTime)

	_, err := c.AddFunc(cronSpec, func() {
		runHealthCheck(ctx, queues, db)
	})

	if err != nil {
		return err
	}

	c.Start()

	go func() {
		<-ctx.Done()
		logger.Info().Msg("Stopping Health Check Cron")
		c.Stop()
	}()

	return nil
}

func runHealthCheck(ctx context.Context, queues QueueChecker, db DbChecker) {
	if err := queues.IsConnectionHealthy(); err != nil {
		logger.Error().Err(err).Msg("One or more queue connections are not healthy.")
		terminate()
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.DoHealthCheck(ctx); err != nil {
		logger.Error().Err(err).Msg("Database is not healthy.")
		terminate()
	}
}

func terminateService() {
	logger.Fatal().Msg("Terminating service due to health check failure.")
	os.Exit(1)
}
