package ibc

import (
	"fmt"
	"time"

	"github.com/babylonchain/mesh-provider/internal/config"
	"github.com/babylonchain/mesh-provider/internal/types"
)

// BuildTimeout returns the timeout for a packet sent at blockTime. The result
// only depends on its inputs so every packet of a transition shares it.
func BuildTimeout(cfg *config.ProviderConfig, blockTime time.Time) (types.PacketTimeout, error) {
	if cfg.PacketTimeout <= 0 {
		return types.PacketTimeout{}, fmt.Errorf("packet timeout window must be positive, got %s", cfg.PacketTimeout)
	}
	return types.PacketTimeout{
		Timestamp:    blockTime.Add(cfg.PacketTimeout),
		PortID:       cfg.ConsumerPortID,
		ConnectionID: cfg.ConsumerConnectionID,
	}, nil
}
