package blobmarket

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testParams = ProtocolParameters{TargetBlobsPerBlock: 10, MaxBlobsPerBlock: 15, BytesPerBlob: 131072}

func sampleAt(now time.Time, age time.Duration, blockNumber uint64, blobCount uint64, gasPrice uint64) *BlockSample {
	return &BlockSample{
		BlockNumber: blockNumber,
		Timestamp:   uint64(now.Add(-age).Unix()),
		BlobCount:   blobCount,
		GasPrice:    gasPrice,
	}
}

func TestAggregateWindowsAverages(t *testing.T) {
	now := time.Unix(1700000000, 0)
	samples := []*BlockSample{
		sampleAt(now, 10*time.Minute, 100, 4, 2000000000),
		sampleAt(now, 20*time.Minute, 101, 8, 4000000000),
		sampleAt(now, 30*time.Minute, 102, 12, 6000000000),
	}

	stats, err := AggregateWindows(samples, []WindowSpec{{Name: "1h", Duration: time.Hour}}, now, testParams)
	require.NoError(t, err)
	require.Len(t, stats.Windows, 1)

	summary := stats.Windows[0].Summary
	require.Equal(t, uint64(3), summary.BlockCount)
	require.NotNil(t, summary.AvgBlobsPerBlock)
	assert.InDelta(t, 8.0, *summary.AvgBlobsPerBlock, 1e-9)
	assert.InDelta(t, 4000000000.0, *summary.AvgGasPrice, 1e-3)

	// mean of per-block utilization: (40 + 80 + 120) / 3
	assert.InDelta(t, 80.0, *summary.AvgUtilizationPct, 1e-9)

	// regime counts must cover every member block
	var total uint64
	for _, count := range summary.RegimeCounts {
		total += count
	}
	assert.Equal(t, summary.BlockCount, total)
	assert.Equal(t, uint64(1), summary.RegimeCounts[RegimeAbundant])
	assert.Equal(t, uint64(1), summary.RegimeCounts[RegimeNormal])
	assert.Equal(t, uint64(1), summary.RegimeCounts[RegimeCongested])
}

// a block in the last hour must also be counted in the 24h window and the
// baseline - windows are overlapping views, not a partition
func TestAggregateWindowsOverlap(t *testing.T) {
	now := time.Unix(1700000000, 0)
	samples := []*BlockSample{
		sampleAt(now, 30*time.Minute, 200, 6, 1000000000),
		sampleAt(now, 5*time.Hour, 201, 6, 1000000000),
		sampleAt(now, 3*24*time.Hour, 202, 6, 1000000000),
	}

	windows := []WindowSpec{
		{Name: "1h", Duration: time.Hour},
		{Name: "24h", Duration: 24 * time.Hour},
	}
	stats, err := AggregateWindows(samples, windows, now, testParams)
	require.NoError(t, err)

	assert.Equal(t, uint64(1), stats.Windows[0].Summary.BlockCount)
	assert.Equal(t, uint64(2), stats.Windows[1].Summary.BlockCount)
	assert.Equal(t, uint64(3), stats.Baseline.BlockCount)
}

func TestAggregateWindowsPercentChange(t *testing.T) {
	now := time.Unix(1700000000, 0)
	samples := []*BlockSample{
		// recent hour: 12 blobs/block at 3 gwei
		sampleAt(now, 10*time.Minute, 300, 12, 3000000000),
		// older baseline blocks: 6 blobs/block at 2 gwei
		sampleAt(now, 2*24*time.Hour, 301, 6, 2000000000),
		sampleAt(now, 3*24*time.Hour, 302, 0, 1000000000),
	}

	stats, err := AggregateWindows(samples, []WindowSpec{{Name: "1h", Duration: time.Hour}}, now, testParams)
	require.NoError(t, err)

	comparison := stats.Windows[0]
	require.NotNil(t, comparison.BlobsChangePct)
	// baseline avg blobs = (12+6+0)/3 = 6, current = 12 -> +100%
	assert.InDelta(t, 100.0, *comparison.BlobsChangePct, 1e-9)
	require.NotNil(t, comparison.GasPriceChangePct)
	// baseline avg gas = 2 gwei, current = 3 gwei -> +50%
	assert.InDelta(t, 50.0, *comparison.GasPriceChangePct, 1e-9)
}

func TestAggregateWindowsZeroBaseline(t *testing.T) {
	now := time.Unix(1700000000, 0)
	samples := []*BlockSample{
		// the only baseline blocks carry zero blobs, so the blob baseline
		// average is zero and the comparison is undefined
		sampleAt(now, 10*time.Minute, 400, 0, 1000000000),
		sampleAt(now, 2*24*time.Hour, 401, 0, 1000000000),
	}

	stats, err := AggregateWindows(samples, []WindowSpec{{Name: "1h", Duration: time.Hour}}, now, testParams)
	require.NoError(t, err)

	assert.Nil(t, stats.Windows[0].BlobsChangePct, "zero baseline must yield an undefined comparison, not Inf")
	assert.NotNil(t, stats.Windows[0].GasPriceChangePct)
}

func TestAggregateWindowsEmptyWindow(t *testing.T) {
	now := time.Unix(1700000000, 0)
	samples := []*BlockSample{
		// nothing in the last hour, plenty in the last 24 hours
		sampleAt(now, 5*time.Hour, 500, 8, 2000000000),
		sampleAt(now, 7*time.Hour, 501, 4, 2000000000),
	}

	windows := []WindowSpec{
		{Name: "1h", Duration: time.Hour},
		{Name: "24h", Duration: 24 * time.Hour},
	}
	stats, err := AggregateWindows(samples, windows, now, testParams)
	require.NoError(t, err)

	empty := stats.Windows[0].Summary
	assert.Equal(t, uint64(0), empty.BlockCount)
	assert.Nil(t, empty.AvgBlobsPerBlock)
	assert.Nil(t, empty.AvgGasPrice)
	assert.Nil(t, empty.AvgUtilizationPct)
	assert.Nil(t, empty.AvgSaturationPct)
	assert.Nil(t, stats.Windows[0].BlobsChangePct)

	assert.Equal(t, uint64(2), stats.Windows[1].Summary.BlockCount)
}

func TestAggregateWindowsMalformedSample(t *testing.T) {
	now := time.Unix(1700000000, 0)
	samples := []*BlockSample{
		sampleAt(now, 10*time.Minute, 600, 5, 1000000000),
		{BlockNumber: 601, Timestamp: 0, BlobCount: 5},
	}

	_, err := AggregateWindows(samples, []WindowSpec{{Name: "1h", Duration: time.Hour}}, now, testParams)
	require.Error(t, err)

	var malformedErr *MalformedSampleError
	assert.True(t, errors.As(err, &malformedErr))
}
