package handlers

import (
	"net/http"

	"github.com/babylonchain/mesh-provider/internal/types"
)

// GetProviderConfig godoc
// @Summary Get provider configuration
// @Description Retrieves the provider parameters and the bound consumer channel, if any.
// @Produce json
// @Success 200 {object} PublicResponse[services.ProviderConfigPublic] "Provider configuration"
// @Router /v1/config [get]
func (h *Handler) GetProviderConfig(request *http.Request) (*Result, *types.Error) {
	cfg, err := h.services.GetProviderConfig(request.Context())
	if err != nil {
		return nil, err
	}
	return NewResult(cfg), nil
}
