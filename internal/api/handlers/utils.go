package handlers

import (
	"net/http"

	"github.com/babylonchain/mesh-provider/internal/types"
)

func parsePaginationQuery(r *http.Request) (string, *types.Error) {
	pageKey := r.URL.Query().Get("pagination_key")
	if pageKey == "" {
		return "", nil
	}
	if len(pageKey) > 512 {
		return "", types.NewErrorWithMsg(http.StatusBadRequest, types.BadRequest, "invalid pagination key")
	}
	return pageKey, nil
}
