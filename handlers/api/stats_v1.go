package api

import (
	"net/http"

	"github.com/ethpandaops/blobscope/blobmarket"
	"github.com/ethpandaops/blobscope/db"
	"github.com/ethpandaops/blobscope/services"
	"github.com/ethpandaops/blobscope/utils"
)

type APIStatsResponse struct {
	Status string        `json:"status"`
	Data   *APIStatsData `json:"data"`
}

type APIStatsData struct {
	TotalBlocks       uint64  `json:"total_blocks"`
	TotalBlobs        uint64  `json:"total_blobs"`
	TotalTransactions uint64  `json:"total_transactions"`
	TotalBlobBytes    uint64  `json:"total_blob_bytes"`
	LatestBlock       *uint64 `json:"latest_block"`
	EarliestBlock     *uint64 `json:"earliest_block"`

	TargetBlobsPerBlock uint64 `json:"target_blobs_per_block"`
	MaxBlobsPerBlock    uint64 `json:"max_blobs_per_block"`
	BytesPerBlob        uint64 `json:"bytes_per_blob"`
}

// APIStatsV1 returns the global ingestion counters and the active
// protocol capacity parameters.
func APIStatsV1(w http.ResponseWriter, r *http.Request) {
	stats := db.GetBlobStats()
	if stats == nil {
		writeErrorResponse(w, http.StatusInternalServerError, "could not load stats")
		return
	}

	var params *blobmarket.ProtocolParameters
	if services.GlobalMarketService != nil {
		params = services.GlobalMarketService.GetProtocolParameters()
	} else {
		params = utils.Config.Chain.Protocol
	}

	writeJsonResponse(w, &APIStatsResponse{
		Status: "OK",
		Data: &APIStatsData{
			TotalBlocks:       stats.TotalBlocks,
			TotalBlobs:        stats.TotalBlobs,
			TotalTransactions: stats.TotalTransactions,
			TotalBlobBytes:    stats.TotalBlobs * params.BytesPerBlob,
			LatestBlock:       stats.LatestBlock,
			EarliestBlock:     stats.EarliestBlock,

			TargetBlobsPerBlock: params.TargetBlobsPerBlock,
			MaxBlobsPerBlock:    params.MaxBlobsPerBlock,
			BytesPerBlob:        params.BytesPerBlob,
		},
	})
}
