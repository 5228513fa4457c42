package api

import (
	"net/http"

	"github.com/ethpandaops/blobscope/services"
)

type APIChainProfilesResponse struct {
	Status string                   `json:"status"`
	Data   []*services.ChainProfile `json:"data"`
}

// APIChainProfilesV1 returns the per-rollup posting behavior profiles
// from the current market snapshot.
func APIChainProfilesV1(w http.ResponseWriter, r *http.Request) {
	if services.GlobalMarketService == nil {
		writeErrorResponse(w, http.StatusServiceUnavailable, "market service not ready")
		return
	}

	snapshot := services.GlobalMarketService.GetSnapshot()
	if snapshot == nil {
		writeErrorResponse(w, http.StatusServiceUnavailable, "market snapshot not ready")
		return
	}

	writeJsonResponse(w, &APIChainProfilesResponse{
		Status: "OK",
		Data:   snapshot.ChainProfiles,
	})
}
