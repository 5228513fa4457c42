package services

import (
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ethpandaops/blobscope/blobmarket"
	"github.com/ethpandaops/blobscope/db"
	"github.com/ethpandaops/blobscope/dbtypes"
	"github.com/ethpandaops/blobscope/metrics"
	"github.com/ethpandaops/blobscope/utils"
)

// MarketWindows are the rolling windows exposed by the market endpoints.
// The 7 day baseline is aggregated separately by the engine and reported
// as such, so it is not listed here - comparing it against itself would
// only produce a change pinned at 0%.
var MarketWindows = []blobmarket.WindowSpec{
	{Name: "1h", Duration: time.Hour},
	{Name: "6h", Duration: 6 * time.Hour},
	{Name: "24h", Duration: 24 * time.Hour},
}

// MarketSnapshot is an immutable view of the blob market state. A new
// snapshot replaces the old one atomically on each refresh, readers never
// see partially updated data.
type MarketSnapshot struct {
	BuiltAt       time.Time
	LatestBlock   *dbtypes.BlobBlock
	Rolling       *blobmarket.RollingStats
	Heatmap       *blobmarket.Heatmap
	ChainProfiles []*ChainProfile
}

type MarketService struct {
	logger          logrus.FieldLogger
	params          *blobmarket.ProtocolParameters
	refreshInterval time.Duration

	snapshotMutex sync.RWMutex
	snapshot      *MarketSnapshot
}

var GlobalMarketService *MarketService

// StartMarketService initializes the global market service and starts its
// refresh loop.
func StartMarketService(logger logrus.FieldLogger) error {
	if GlobalMarketService != nil {
		return nil
	}

	refreshInterval := utils.Config.Market.RefreshInterval
	if refreshInterval == 0 {
		refreshInterval = 12 * time.Second
	}

	ms := &MarketService{
		logger:          logger,
		params:          utils.Config.Chain.Protocol,
		refreshInterval: refreshInterval,
	}

	if err := ms.refreshSnapshot(); err != nil {
		// initial refresh may run against an empty db, keep going
		logger.WithError(err).Warnf("could not build initial market snapshot")
	}

	go ms.runRefreshLoop()

	metrics.AddPreCollectFn(ms.collectMetrics)

	GlobalMarketService = ms
	return nil
}

func (ms *MarketService) runRefreshLoop() {
	defer utils.HandleSubroutinePanic("MarketService.runRefreshLoop")

	for {
		time.Sleep(ms.refreshInterval)

		err := ms.refreshSnapshot()
		if err != nil {
			metrics.MarketRefreshErrors.Inc()
			ms.logger.WithError(err).Errorf("error refreshing market snapshot")
		}
	}
}

// refreshSnapshot rebuilds the market snapshot from the last 7 days of
// ingested blocks. On failure the previous snapshot stays in place, so a
// transient db error never blanks the dashboard with an empty snapshot.
func (ms *MarketService) refreshSnapshot() error {
	now := time.Now()

	blocks, err := db.GetBlobBlocksSince(uint64(now.Add(-blobmarket.BaselineWindow.Duration).Unix()))
	if err != nil {
		return fmt.Errorf("error loading blocks: %w", err)
	}
	samples := make([]*blobmarket.BlockSample, len(blocks))
	for i, block := range blocks {
		samples[i] = blockToSample(block)
	}

	rolling, err := blobmarket.AggregateWindows(samples, MarketWindows, now, *ms.params)
	if err != nil {
		return fmt.Errorf("error aggregating rolling windows: %w", err)
	}

	heatmap, err := blobmarket.BuildHeatmap(samples, now, *ms.params)
	if err != nil {
		return fmt.Errorf("error building heatmap: %w", err)
	}

	txs, err := db.GetBlobTransactionsSince(uint64(now.Add(-24 * time.Hour).Unix()))
	if err != nil {
		return fmt.Errorf("error loading blob transactions: %w", err)
	}
	profiles := BuildChainProfiles(txs)

	var latestBlock *dbtypes.BlobBlock
	if len(blocks) > 0 {
		latestBlock = blocks[len(blocks)-1]
	}

	ms.snapshotMutex.Lock()
	ms.snapshot = &MarketSnapshot{
		BuiltAt:       now,
		LatestBlock:   latestBlock,
		Rolling:       rolling,
		Heatmap:       heatmap,
		ChainProfiles: profiles,
	}
	ms.snapshotMutex.Unlock()

	metrics.MarketRefreshes.Inc()
	return nil
}

// GetSnapshot returns the current market snapshot or nil when nothing has
// been built yet.
func (ms *MarketService) GetSnapshot() *MarketSnapshot {
	ms.snapshotMutex.RLock()
	defer ms.snapshotMutex.RUnlock()
	return ms.snapshot
}

func (ms *MarketService) GetProtocolParameters() *blobmarket.ProtocolParameters {
	return ms.params
}

func (ms *MarketService) collectMetrics() {
	snapshot := ms.GetSnapshot()
	if snapshot == nil || snapshot.LatestBlock == nil {
		return
	}

	utilization := blobmarket.TargetUtilization(snapshot.LatestBlock.BlobCount, *ms.params)
	metrics.MarketUtilization.Set(utilization)
	metrics.MarketRegime.Set(float64(blobmarket.ClassifyRegime(utilization)))
}

func blockToSample(block *dbtypes.BlobBlock) *blobmarket.BlockSample {
	return &blobmarket.BlockSample{
		BlockNumber:   block.BlockNumber,
		Timestamp:     block.BlockTime,
		BlobCount:     block.BlobCount,
		GasPrice:      block.GasPrice,
		ExcessBlobGas: block.ExcessBlobGas,
	}
}
