package healthcheck

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type checker struct {
	queueErr error
	dbErr    error
}

func (c checker) IsConnectionHealthy() error {
	return c.queueErr
}

func (c checker) DoHealthCheck(ctx context.Context) error {
	return c.dbErr
}

func withTerminateCounter(t *testing.T) *int {
	count := 0
	terminate = func() { count++ }
	t.Cleanup(func() { terminate = terminateService })
	return &count
}

func TestRunHealthCheck(t *testing.T) {
	terminated := withTerminateCounter(t)

	runHealthCheck(context.Background(), checker{}, checker{})
	assert.Equal(t, 0, *terminated)

	runHealthCheck(context.Background(), checker{queueErr: errors.New("closed")}, checker{})
	assert.Equal(t, 1, *terminated)

	runHealthCheck(context.Background(), checker{}, checker{dbErr: errors.New("timeout")})
	assert.Equal(t, 2, *terminated)
}

func TestStartHealthCheckCron(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	err := StartHealthCheckCron(ctx, checker{}, checker{}, 3600)
	assert.NoError(t, err)
}
