package api

import (
	"net/http"

	"github.com/ethpandaops/blobscope/blobmarket"
	"github.com/ethpandaops/blobscope/services"
)

type APIHeatmapResponse struct {
	Status string          `json:"status"`
	Data   *APIHeatmapData `json:"data"`
}

type APIHeatmapData struct {
	Cells             []*APIHeatmapCell `json:"cells"`
	MinUtilizationPct float64           `json:"min_utilization_pct"`
	AvgUtilizationPct float64           `json:"avg_utilization_pct"`
	MaxUtilizationPct float64           `json:"max_utilization_pct"`
}

type APIHeatmapCell struct {
	DayOfWeek         int     `json:"day_of_week"`
	Hour              int     `json:"hour"`
	BlockCount        uint64  `json:"block_count"`
	AvgUtilizationPct float64 `json:"avg_utilization_pct"`
	AvgSaturationPct  float64 `json:"avg_saturation_pct"`
	AvgGasPrice       float64 `json:"avg_gas_price"`
	Regime            string  `json:"regime"`
}

// APIHeatmapV1 returns the weekly utilization heatmap from the current
// market snapshot. Only observed cells are included.
func APIHeatmapV1(w http.ResponseWriter, r *http.Request) {
	if services.GlobalMarketService == nil {
		writeErrorResponse(w, http.StatusServiceUnavailable, "market service not ready")
		return
	}

	snapshot := services.GlobalMarketService.GetSnapshot()
	if snapshot == nil || snapshot.Heatmap == nil {
		writeErrorResponse(w, http.StatusServiceUnavailable, "market snapshot not ready")
		return
	}

	heatmapData := &APIHeatmapData{
		Cells:             make([]*APIHeatmapCell, 0, len(snapshot.Heatmap.Cells)),
		MinUtilizationPct: snapshot.Heatmap.MinUtilizationPct,
		AvgUtilizationPct: snapshot.Heatmap.AvgUtilizationPct,
		MaxUtilizationPct: snapshot.Heatmap.MaxUtilizationPct,
	}
	for _, cell := range snapshot.Heatmap.Cells {
		heatmapData.Cells = append(heatmapData.Cells, &APIHeatmapCell{
			DayOfWeek:         cell.DayOfWeek,
			Hour:              cell.Hour,
			BlockCount:        cell.BlockCount,
			AvgUtilizationPct: cell.AvgUtilizationPct,
			AvgSaturationPct:  cell.AvgSaturationPct,
			AvgGasPrice:       cell.AvgGasPrice,
			Regime:            blobmarket.ClassifyRegime(cell.AvgUtilizationPct).String(),
		})
	}

	writeJsonResponse(w, &APIHeatmapResponse{
		Status: "OK",
		Data:   heatmapData,
	})
}
