package api

import (
	"net/http"

	"github.com/ethpandaops/blobscope/blobmarket"
	"github.com/ethpandaops/blobscope/services"
)

type APIMarketResponse struct {
	Status string         `json:"status"`
	Data   *APIMarketData `json:"data"`
}

type APIMarketData struct {
	BuiltAt     int64              `json:"built_at"`
	LatestBlock *APIBlockInfo      `json:"latest_block"`
	Baseline    *APIMarketWindow   `json:"baseline"`
	Windows     []*APIMarketWindow `json:"windows"`
}

type APIMarketWindow struct {
	Name              string            `json:"name"`
	BlockCount        uint64            `json:"block_count"`
	AvgBlobsPerBlock  *float64          `json:"avg_blobs_per_block"`
	AvgGasPrice       *float64          `json:"avg_gas_price"`
	AvgUtilizationPct *float64          `json:"avg_utilization_pct"`
	AvgSaturationPct  *float64          `json:"avg_saturation_pct"`
	RegimeCounts      map[string]uint64 `json:"regime_counts"`
	DominantRegime    *APIRegimeInfo    `json:"dominant_regime"`
	BlobsChangePct    *float64          `json:"blobs_change_pct"`
	GasPriceChangePct *float64          `json:"gas_price_change_pct"`
}

type APIRegimeInfo struct {
	Regime      string `json:"regime"`
	Label       string `json:"label"`
	ColorToken  string `json:"color_token"`
	Description string `json:"description"`
}

// APIMarketV1 returns the rolling window aggregation from the current
// market snapshot.
func APIMarketV1(w http.ResponseWriter, r *http.Request) {
	if services.GlobalMarketService == nil {
		writeErrorResponse(w, http.StatusServiceUnavailable, "market service not ready")
		return
	}

	snapshot := services.GlobalMarketService.GetSnapshot()
	if snapshot == nil || snapshot.Rolling == nil {
		writeErrorResponse(w, http.StatusServiceUnavailable, "market snapshot not ready")
		return
	}

	marketData := &APIMarketData{
		BuiltAt:  snapshot.BuiltAt.Unix(),
		Baseline: buildMarketWindow(snapshot.Rolling.Baseline, nil, nil),
		Windows:  make([]*APIMarketWindow, 0, len(snapshot.Rolling.Windows)),
	}
	if snapshot.LatestBlock != nil {
		marketData.LatestBlock = buildBlockInfo(snapshot.LatestBlock)
	}
	for _, comparison := range snapshot.Rolling.Windows {
		marketData.Windows = append(marketData.Windows, buildMarketWindow(comparison.Summary, comparison.BlobsChangePct, comparison.GasPriceChangePct))
	}

	writeJsonResponse(w, &APIMarketResponse{
		Status: "OK",
		Data:   marketData,
	})
}

func buildMarketWindow(summary *blobmarket.WindowSummary, blobsChange *float64, gasPriceChange *float64) *APIMarketWindow {
	window := &APIMarketWindow{
		Name:              summary.Window.Name,
		BlockCount:        summary.BlockCount,
		AvgBlobsPerBlock:  summary.AvgBlobsPerBlock,
		AvgGasPrice:       summary.AvgGasPrice,
		AvgUtilizationPct: summary.AvgUtilizationPct,
		AvgSaturationPct:  summary.AvgSaturationPct,
		RegimeCounts:      map[string]uint64{},
		BlobsChangePct:    blobsChange,
		GasPriceChangePct: gasPriceChange,
	}

	for regime, count := range summary.RegimeCounts {
		window.RegimeCounts[regime.String()] = count
	}

	if dominant, ok := blobmarket.DominantRegime(summary.RegimeCounts); ok {
		info := blobmarket.GetRegimeInfo(dominant)
		window.DominantRegime = &APIRegimeInfo{
			Regime:      dominant.String(),
			Label:       info.Label,
			ColorToken:  info.ColorToken,
			Description: info.Description,
		}
	}

	return window
}
