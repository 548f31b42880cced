package ibc

import (
	"fmt"
	"net/http"

	"github.com/babylonchain/mesh-provider/internal/config"
	"github.com/babylonchain/mesh-provider/internal/types"
)

// ChannelOpenRequest is the part of a channel handshake the provider checks.
type ChannelOpenRequest struct {
	ChannelID          string `json:"channel_id"`
	CounterpartyPortID string `json:"counterparty_port_id"`
	ConnectionID       string `json:"connection_id"`
	Order              string `json:"order"`
	Version            string `json:"version"`
}

// ValidateChannelOpen checks that the handshake comes from the configured
// consumer over the configured connection with the expected parameters.
func ValidateChannelOpen(cfg *config.ProviderConfig, req ChannelOpenRequest) *types.Error {
	if req.ChannelID == "" {
		return types.NewValidationError("missing channel id")
	}
	if req.ConnectionID != cfg.ConsumerConnectionID {
		return types.NewUnauthorizedError(
			fmt.Sprintf("channel must use connection %s", cfg.ConsumerConnectionID),
		)
	}
	if req.CounterpartyPortID != cfg.ConsumerPortID {
		return types.NewUnauthorizedError(
			fmt.Sprintf("channel counterparty must be port %s", cfg.ConsumerPortID),
		)
	}
	if req.Order != types.UnorderedChannel {
		return types.NewErrorWithMsg(
			http.StatusBadRequest, types.ValidationError,
			fmt.Sprintf("only %s channels are supported", types.UnorderedChannel),
		)
	}
	if req.Version != cfg.IbcVersion {
		return types.NewErrorWithMsg(
			http.StatusBadRequest, types.ValidationError,
			fmt.Sprintf("invalid ibc version %q, expected %q", req.Version, cfg.IbcVersion),
		)
	}
	return nil
}
