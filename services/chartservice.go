package services

import (
	"github.com/ethpandaops/blobscope/blobmarket"
	"github.com/ethpandaops/blobscope/db"
	"github.com/ethpandaops/blobscope/dbtypes"
	"github.com/ethpandaops/blobscope/utils"
)

// ChartData is a recent-activity chart series over a contiguous block
// range. Blocks without blob activity are zero-filled, the gas price
// carries the last observed value so the price line has no gaps.
type ChartData struct {
	Labels    []uint64  `json:"labels"`
	Blobs     []float64 `json:"blobs"`
	GasPrices []float64 `json:"gas_prices"`
}

// AllTimeChartData is the full-history chart, stride-sampled down to the
// configured point threshold.
type AllTimeChartData struct {
	Labels     []uint64  `json:"labels"`
	Blobs      []float64 `json:"blobs"`
	GasPrices  []float64 `json:"gas_prices"`
	Timestamps []uint64  `json:"timestamps"`
}

// GetChartData builds the chart for the most recent numBlocks blocks and
// compresses it to at most maxBuckets points per series.
func (ms *MarketService) GetChartData(numBlocks uint64, maxBuckets int) *ChartData {
	latestBlock := db.GetLatestBlockNumber()
	if latestBlock == 0 || numBlocks == 0 {
		return &ChartData{
			Labels:    []uint64{},
			Blobs:     []float64{},
			GasPrices: []float64{},
		}
	}

	startBlock := uint64(1)
	if latestBlock >= numBlocks {
		startBlock = latestBlock - numBlocks + 1
	}

	rows := db.GetBlobBlockRange(startBlock, latestBlock)
	rowByNumber := map[uint64]*dbtypes.BlobBlock{}
	for _, row := range rows {
		rowByNumber[row.BlockNumber] = row
	}

	blobPoints := make([]blobmarket.SeriesPoint, 0, latestBlock-startBlock+1)
	gasPoints := make([]blobmarket.SeriesPoint, 0, latestBlock-startBlock+1)
	lastGasPrice := float64(0)
	for blockNumber := startBlock; blockNumber <= latestBlock; blockNumber++ {
		blobCount := float64(0)
		if row, ok := rowByNumber[blockNumber]; ok {
			blobCount = float64(row.BlobCount)
			lastGasPrice = utils.WeiToGwei(row.GasPrice)
		}
		blobPoints = append(blobPoints, blobmarket.SeriesPoint{Label: blockNumber, Value: blobCount})
		gasPoints = append(gasPoints, blobmarket.SeriesPoint{Label: blockNumber, Value: lastGasPrice})
	}

	blobPoints = blobmarket.DownsampleAverage(blobPoints, maxBuckets)
	gasPoints = blobmarket.DownsampleAverage(gasPoints, maxBuckets)

	chartData := &ChartData{
		Labels:    make([]uint64, len(blobPoints)),
		Blobs:     make([]float64, len(blobPoints)),
		GasPrices: make([]float64, len(gasPoints)),
	}
	for i, point := range blobPoints {
		chartData.Labels[i] = point.Label
		chartData.Blobs[i] = point.Value
	}
	for i, point := range gasPoints {
		chartData.GasPrices[i] = point.Value
	}
	return chartData
}

// GetAllTimeChartData builds the full-history chart. When the history
// exceeds the point threshold the series is thinned with a stride sampler
// inside the query, so only the kept rows are ever loaded.
func (ms *MarketService) GetAllTimeChartData(threshold uint64) (*AllTimeChartData, error) {
	blockCount, err := db.GetBlobBlockCount()
	if err != nil {
		return nil, err
	}

	rows, err := db.GetStridedBlobBlocks(blobmarket.StrideFor(blockCount, threshold))
	if err != nil {
		return nil, err
	}

	chartData := &AllTimeChartData{
		Labels:     make([]uint64, len(rows)),
		Blobs:      make([]float64, len(rows)),
		GasPrices:  make([]float64, len(rows)),
		Timestamps: make([]uint64, len(rows)),
	}
	for i, row := range rows {
		chartData.Labels[i] = row.BlockNumber
		chartData.Blobs[i] = float64(row.BlobCount)
		chartData.GasPrices[i] = utils.WeiToGwei(row.GasPrice)
		chartData.Timestamps[i] = row.BlockTime
	}
	return chartData, nil
}
