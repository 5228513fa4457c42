package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/ethpandaops/blobscope/services"
	"github.com/ethpandaops/blobscope/utils"
)

type APIChartResponse struct {
	Status string              `json:"status"`
	Data   *services.ChartData `json:"data"`
}

// APIChartV1 returns the recent-activity chart. The blocks parameter
// selects the trailing block range, the series is compressed to the
// configured bucket count.
func APIChartV1(w http.ResponseWriter, r *http.Request) {
	if services.GlobalMarketService == nil {
		writeErrorResponse(w, http.StatusServiceUnavailable, "market service not ready")
		return
	}

	numBlocks := uint64(150)
	blocksStr := r.URL.Query().Get("blocks")
	if blocksStr != "" {
		parsedBlocks, err := strconv.ParseUint(blocksStr, 10, 64)
		if err != nil {
			writeErrorResponse(w, http.StatusBadRequest, "invalid blocks parameter")
			return
		}
		if parsedBlocks > 10000 {
			parsedBlocks = 10000
		}
		if parsedBlocks > 0 {
			numBlocks = parsedBlocks
		}
	}

	maxBuckets := utils.Config.Market.ChartBuckets
	if maxBuckets == 0 {
		maxBuckets = 60
	}

	cacheKey := fmt.Sprintf("api.chart.%v.%v", numBlocks, maxBuckets)
	cachedResponse(w, cacheKey, 12*time.Second, func() (interface{}, error) {
		return &APIChartResponse{
			Status: "OK",
			Data:   services.GlobalMarketService.GetChartData(numBlocks, maxBuckets),
		}, nil
	})
}
