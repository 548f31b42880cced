package ibc

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/babylonchain/mesh-provider/internal/config"
	"github.com/babylonchain/mesh-provider/internal/types"
)

func providerConfig() *config.ProviderConfig {
	return &config.ProviderConfig{
		ConsumerPortID:       "wasm.consumer",
		ConsumerConnectionID: "connection-0",
		IbcVersion:           config.DefaultIbcVersion,
		PacketTimeout:        10 * time.Minute,
	}
}

func TestBuildTimeout(t *testing.T) {
	blockTime := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	timeout, err := BuildTimeout(providerConfig(), blockTime)
	require.NoError(t, err)
	assert.Equal(t, blockTime.Add(10*time.Minute), timeout.Timestamp)
	assert.True(t, timeout.Timestamp.After(blockTime))
	assert.Equal(t, "wasm.consumer", timeout.PortID)
	assert.Equal(t, "connection-0", timeout.ConnectionID)
	assert.False(t, timeout.IsExpired(blockTime))
	assert.True(t, timeout.IsExpired(timeout.Timestamp))

	again, err := BuildTimeout(providerConfig(), blockTime)
	require.NoError(t, err)
	assert.Equal(t, timeout, again)
}

func TestBuildTimeoutRejectsNonPositiveWindow(t *testing.T) {
	cfg := providerConfig()
	for _, window := range []time.Duration{0, -time.Second} {
		cfg.PacketTimeout = window
		_, err := BuildTimeout(cfg, time.Now())
		assert.Error(t, err, "window %s", window)
	}
}

func TestValidateChannelOpen(t *testing.T) {
	valid := ChannelOpenRequest{
		ChannelID:          "channel-0",
		CounterpartyPortID: "wasm.consumer",
		ConnectionID:       "connection-0",
		Order:              types.UnorderedChannel,
		Version:            config.DefaultIbcVersion,
	}
	assert.Nil(t, ValidateChannelOpen(providerConfig(), valid))

	tests := []struct {
		name       string
		mutate     func(r *ChannelOpenRequest)
		statusCode int
		errorCode  types.ErrorCode
	}{
		{"missing channel id", func(r *ChannelOpenRequest) { r.ChannelID = "" }, http.StatusBadRequest, types.ValidationError},
		{"wrong connection", func(r *ChannelOpenRequest) { r.ConnectionID = "connection-9" }, http.StatusForbidden, types.Unauthorized},
		{"wrong counterparty port", func(r *ChannelOpenRequest) { r.CounterpartyPortID = "wasm.other" }, http.StatusForbidden, types.Unauthorized},
		{"ordered channel", func(r *ChannelOpenRequest) { r.Order = "ORDER_ORDERED" }, http.StatusBadRequest, types.ValidationError},
		{"wrong version", func(r *ChannelOpenRequest) { r.Version = "ics20-1" }, http.StatusBadRequest, types.ValidationError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)
			err := ValidateChannelOpen(providerConfig(), req)
			require.NotNil(t, err)
			assert.Equal(t, tt.statusCode, err.StatusCode)
			assert.Equal(t, tt.errorCode, err.ErrorCode)
		})
	}
}
