package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	"github.com/babylonchain/mesh-provider/internal/types"
)

// GetAccount godoc
// @Summary Get a delegator account
// @Description Retrieves the claims of a delegator with their state, release amount at the current multiplier and pending rewards.
// @Produce json
// @Param owner path string true "Delegator address"
// @Success 200 {object} PublicResponse[services.AccountPublic] "Account"
// @Router /v1/accounts/{owner} [get]
func (h *Handler) GetAccount(request *http.Request) (*Result, *types.Error) {
	owner := chi.URLParam(request, "owner")
	if owner == "" {
		return nil, types.NewErrorWithMsg(http.StatusBadRequest, types.BadRequest, "owner is required")
	}
	account, err := h.services.GetAccount(request.Context(), owner)
	if err != nil {
		return nil, err
	}
	return NewResult(account), nil
}

// GetPacket godoc
// @Summary Get an outgoing packet
// @Description Retrieves an outgoing packet and its delivery status.
// @Produce json
// @Param sequence path int true "Packet sequence"
// @Success 200 {object} PublicResponse[services.PacketPublic] "Packet"
// @Failure 400 {object} types.Error "Error: Bad Request"
// @Failure 404 {object} types.Error "Error: Packet not found"
// @Router /v1/packets/{sequence} [get]
func (h *Handler) GetPacket(request *http.Request) (*Result, *types.Error) {
	sequence, parseErr := strconv.ParseUint(chi.URLParam(request, "sequence"), 10, 64)
	if parseErr != nil {
		return nil, types.NewErrorWithMsg(http.StatusBadRequest, types.BadRequest, "sequence must be a positive integer")
	}
	packet, err := h.services.GetPacket(request.Context(), sequence)
	if err != nil {
		return nil, err
	}
	return NewResult(packet), nil
}
