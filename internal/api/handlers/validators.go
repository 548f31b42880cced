package handlers

import (
	"net/http"

	"github.com/go-chi/chi"

	"github.com/babylonchain/mesh-provider/internal/types"
)

// GetValidators godoc
// @Summary Get validators
// @Description Lists the validators known to the provider, sorted by address.
// @Produce json
// @Param pagination_key query string false "Pagination key to fetch the next page of validators"
// @Success 200 {object} PublicResponse[[]services.ValidatorPublic] "List of validators and pagination token"
// @Failure 400 {object} types.Error "Error: Bad Request"
// @Router /v1/validators [get]
func (h *Handler) GetValidators(request *http.Request) (*Result, *types.Error) {
	paginationKey, err := parsePaginationQuery(request)
	if err != nil {
		return nil, err
	}
	validators, paginationToken, err := h.services.GetValidators(request.Context(), paginationKey)
	if err != nil {
		return nil, err
	}
	return NewResultWithPagination(validators, paginationToken), nil
}

// GetValidator godoc
// @Summary Get a validator
// @Description Retrieves the multiplier and total stake of a single validator.
// @Produce json
// @Param address path string true "Validator address"
// @Success 200 {object} PublicResponse[services.ValidatorPublic] "Validator"
// @Failure 404 {object} types.Error "Error: Validator not found"
// @Router /v1/validators/{address} [get]
func (h *Handler) GetValidator(request *http.Request) (*Result, *types.Error) {
	address := chi.URLParam(request, "address")
	if address == "" {
		return nil, types.NewErrorWithMsg(http.StatusBadRequest, types.BadRequest, "address is required")
	}
	validator, err := h.services.GetValidator(request.Context(), address)
	if err != nil {
		return nil, err
	}
	return NewResult(validator), nil
}
