package blobmarket

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildHeatmapSingleCell(t *testing.T) {
	// 2023-11-20 is a Monday; pin all blocks to 14:xx UTC
	monday14 := time.Date(2023, 11, 20, 14, 0, 0, 0, time.UTC)
	now := monday14.Add(2 * time.Hour)

	samples := []*BlockSample{}
	for idx := uint64(0); idx < 30; idx++ {
		samples = append(samples, &BlockSample{
			BlockNumber: 1000 + idx,
			Timestamp:   uint64(monday14.Add(time.Duration(idx) * time.Minute).Unix()),
			BlobCount:   idx % 16,
			GasPrice:    1000000000,
		})
	}

	heatmap, err := BuildHeatmap(samples, now, testParams)
	require.NoError(t, err)

	// all blocks fall into (Monday, 14) - every other cell is absent
	require.Len(t, heatmap.Cells, 1)
	cell := heatmap.Cells[0]
	assert.Equal(t, 1, cell.DayOfWeek)
	assert.Equal(t, 14, cell.Hour)
	assert.Equal(t, uint64(30), cell.BlockCount)

	assert.Equal(t, heatmap.MinUtilizationPct, heatmap.MaxUtilizationPct)
	assert.Equal(t, heatmap.AvgUtilizationPct, cell.AvgUtilizationPct)
}

func TestBuildHeatmapCellAverages(t *testing.T) {
	sunday0 := time.Date(2023, 11, 19, 0, 0, 0, 0, time.UTC)
	now := sunday0.Add(26 * time.Hour)

	samples := []*BlockSample{
		{BlockNumber: 1, Timestamp: uint64(sunday0.Add(5 * time.Minute).Unix()), BlobCount: 5, GasPrice: 2000000000},
		{BlockNumber: 2, Timestamp: uint64(sunday0.Add(25 * time.Minute).Unix()), BlobCount: 15, GasPrice: 4000000000},
		{BlockNumber: 3, Timestamp: uint64(sunday0.Add(90 * time.Minute).Unix()), BlobCount: 10, GasPrice: 1000000000},
	}

	heatmap, err := BuildHeatmap(samples, now, testParams)
	require.NoError(t, err)
	require.Len(t, heatmap.Cells, 2)

	// cells come out in grid order: (0,0) before (0,1)
	first := heatmap.Cells[0]
	assert.Equal(t, 0, first.DayOfWeek)
	assert.Equal(t, 0, first.Hour)
	assert.Equal(t, uint64(2), first.BlockCount)
	assert.InDelta(t, 100.0, first.AvgUtilizationPct, 1e-9)
	assert.InDelta(t, 3000000000.0, first.AvgGasPrice, 1e-3)

	second := heatmap.Cells[1]
	assert.Equal(t, 1, second.Hour)
	assert.InDelta(t, 100.0, second.AvgUtilizationPct, 1e-9)

	assert.InDelta(t, 100.0, heatmap.MinUtilizationPct, 1e-9)
	assert.InDelta(t, 100.0, heatmap.MaxUtilizationPct, 1e-9)
	assert.InDelta(t, 100.0, heatmap.AvgUtilizationPct, 1e-9)
}

func TestBuildHeatmapGlobalStats(t *testing.T) {
	base := time.Date(2023, 11, 19, 0, 0, 0, 0, time.UTC)
	now := base.Add(72 * time.Hour)

	samples := []*BlockSample{
		{BlockNumber: 1, Timestamp: uint64(base.Add(10 * time.Minute).Unix()), BlobCount: 2, GasPrice: 1},
		{BlockNumber: 2, Timestamp: uint64(base.Add(24 * time.Hour).Unix()), BlobCount: 10, GasPrice: 1},
		{BlockNumber: 3, Timestamp: uint64(base.Add(48 * time.Hour).Unix()), BlobCount: 15, GasPrice: 1},
	}

	heatmap, err := BuildHeatmap(samples, now, testParams)
	require.NoError(t, err)
	require.Len(t, heatmap.Cells, 3)

	assert.InDelta(t, 20.0, heatmap.MinUtilizationPct, 1e-9)
	assert.InDelta(t, 150.0, heatmap.MaxUtilizationPct, 1e-9)
	assert.InDelta(t, (20.0+100.0+150.0)/3, heatmap.AvgUtilizationPct, 1e-9)
}

func TestBuildHeatmapDropsOldSamples(t *testing.T) {
	now := time.Date(2023, 11, 26, 12, 0, 0, 0, time.UTC)

	samples := []*BlockSample{
		{BlockNumber: 1, Timestamp: uint64(now.Add(-8 * 24 * time.Hour).Unix()), BlobCount: 10, GasPrice: 1},
		{BlockNumber: 2, Timestamp: uint64(now.Add(-time.Hour).Unix()), BlobCount: 10, GasPrice: 1},
	}

	heatmap, err := BuildHeatmap(samples, now, testParams)
	require.NoError(t, err)
	require.Len(t, heatmap.Cells, 1)
	assert.Equal(t, uint64(1), heatmap.Cells[0].BlockCount)
}

func TestBuildHeatmapMalformedSample(t *testing.T) {
	now := time.Date(2023, 11, 26, 12, 0, 0, 0, time.UTC)

	samples := []*BlockSample{
		{BlockNumber: 0, Timestamp: uint64(now.Unix()), BlobCount: 1},
	}

	_, err := BuildHeatmap(samples, now, testParams)
	assert.Error(t, err)
}
