package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/ethpandaops/blobscope/services"
	"github.com/ethpandaops/blobscope/utils"
)

type APIAllTimeChartResponse struct {
	Status string                     `json:"status"`
	Data   *services.AllTimeChartData `json:"data"`
}

// APIAllTimeChartV1 returns the stride-sampled full-history chart.
func APIAllTimeChartV1(w http.ResponseWriter, r *http.Request) {
	if services.GlobalMarketService == nil {
		writeErrorResponse(w, http.StatusServiceUnavailable, "market service not ready")
		return
	}

	threshold := utils.Config.Market.ChartThreshold
	if threshold == 0 {
		threshold = 500
	}

	cacheKey := fmt.Sprintf("api.alltime_chart.%v", threshold)
	cachedResponse(w, cacheKey, time.Minute, func() (interface{}, error) {
		chartData, err := services.GlobalMarketService.GetAllTimeChartData(threshold)
		if err != nil {
			logger.WithError(err).Errorf("error building all time chart")
			return nil, err
		}
		return &APIAllTimeChartResponse{
			Status: "OK",
			Data:   chartData,
		}, nil
	})
}
