package api

import (
	"net/http"
	"strconv"

	"github.com/ethpandaops/blobscope/blobmarket"
	"github.com/ethpandaops/blobscope/db"
	"github.com/ethpandaops/blobscope/dbtypes"
	"github.com/ethpandaops/blobscope/services"
	"github.com/ethpandaops/blobscope/utils"
)

type APIBlocksResponse struct {
	Status string          `json:"status"`
	Data   []*APIBlockInfo `json:"data"`
}

type APIBlockInfo struct {
	BlockNumber    uint64  `json:"block_number"`
	BlockTime      uint64  `json:"block_time"`
	TxCount        uint64  `json:"tx_count"`
	BlobCount      uint64  `json:"blob_count"`
	BlobGasUsed    uint64  `json:"blob_gas_used"`
	GasPriceGwei   float64 `json:"gas_price_gwei"`
	ExcessBlobGas  *uint64 `json:"excess_blob_gas"`
	UtilizationPct float64 `json:"utilization_pct"`
	SaturationPct  float64 `json:"saturation_pct"`
	Regime         string  `json:"regime"`
}

// APIBlocksV1 returns the most recently ingested blocks with their
// per-block market classification.
func APIBlocksV1(w http.ResponseWriter, r *http.Request) {
	limit := uint64(20)
	limitStr := r.URL.Query().Get("limit")
	if limitStr != "" {
		parsedLimit, err := strconv.ParseUint(limitStr, 10, 64)
		if err != nil {
			writeErrorResponse(w, http.StatusBadRequest, "invalid limit parameter")
			return
		}
		if parsedLimit > 100 {
			parsedLimit = 100
		}
		if parsedLimit > 0 {
			limit = parsedLimit
		}
	}

	blocks := db.GetRecentBlobBlocks(uint32(limit))
	blockInfos := make([]*APIBlockInfo, len(blocks))
	for i, block := range blocks {
		blockInfos[i] = buildBlockInfo(block)
	}

	writeJsonResponse(w, &APIBlocksResponse{
		Status: "OK",
		Data:   blockInfos,
	})
}

func buildBlockInfo(block *dbtypes.BlobBlock) *APIBlockInfo {
	var params *blobmarket.ProtocolParameters
	if services.GlobalMarketService != nil {
		params = services.GlobalMarketService.GetProtocolParameters()
	} else {
		params = utils.Config.Chain.Protocol
	}

	utilization := blobmarket.TargetUtilization(block.BlobCount, *params)
	return &APIBlockInfo{
		BlockNumber:    block.BlockNumber,
		BlockTime:      block.BlockTime,
		TxCount:        block.TxCount,
		BlobCount:      block.BlobCount,
		BlobGasUsed:    block.GasUsed,
		GasPriceGwei:   utils.WeiToGwei(block.GasPrice),
		ExcessBlobGas:  block.ExcessBlobGas,
		UtilizationPct: utilization,
		SaturationPct:  blobmarket.SaturationIndex(block.BlobCount, *params),
		Regime:         blobmarket.ClassifyRegime(utilization).String(),
	}
}
