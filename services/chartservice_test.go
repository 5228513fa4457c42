package services

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ethpandaops/blobscope/db"
	"github.com/ethpandaops/blobscope/dbtypes"
	"github.com/ethpandaops/blobscope/types"
	"github.com/ethpandaops/blobscope/utils"
)

func initChartTestDb(t *testing.T, blocks []*dbtypes.BlobBlock) *MarketService {
	t.Helper()

	utils.Config = &types.Config{
		Database: types.DatabaseConfig{
			Engine: "sqlite",
			Sqlite: &types.SqliteDatabaseConfig{
				File: filepath.Join(t.TempDir(), "test.sqlite"),
			},
		},
	}

	db.MustInitDB()
	t.Cleanup(db.MustCloseDB)
	require.NoError(t, db.ApplyEmbeddedDbSchema(-2))

	dbTx, err := db.WriterDb.Beginx()
	require.NoError(t, err)
	for _, block := range blocks {
		require.NoError(t, db.InsertBlobBlock(block, dbTx))
	}
	require.NoError(t, dbTx.Commit())

	return &MarketService{}
}

func TestGetChartDataGapFill(t *testing.T) {
	ms := initChartTestDb(t, []*dbtypes.BlobBlock{
		{BlockNumber: 100, BlockTime: 1000, BlobCount: 2, GasPrice: 2000000000},
		{BlockNumber: 102, BlockTime: 1024, BlobCount: 4, GasPrice: 3000000000},
	})

	chartData := ms.GetChartData(3, 10)

	assert.Equal(t, []uint64{100, 101, 102}, chartData.Labels)
	assert.Equal(t, []float64{2, 0, 4}, chartData.Blobs)
	// the gap block carries the last observed gas price
	assert.Equal(t, []float64{2, 2, 3}, chartData.GasPrices)
}

func TestGetChartDataBuckets(t *testing.T) {
	ms := initChartTestDb(t, []*dbtypes.BlobBlock{
		{BlockNumber: 100, BlockTime: 1000, BlobCount: 2, GasPrice: 1000000000},
		{BlockNumber: 101, BlockTime: 1012, BlobCount: 4, GasPrice: 1000000000},
		{BlockNumber: 102, BlockTime: 1024, BlobCount: 6, GasPrice: 1000000000},
		{BlockNumber: 103, BlockTime: 1036, BlobCount: 8, GasPrice: 1000000000},
	})

	chartData := ms.GetChartData(4, 2)

	// 4 blocks in 2 buckets, labeled by the last block of each bucket
	assert.Equal(t, []uint64{101, 103}, chartData.Labels)
	assert.Equal(t, []float64{3, 7}, chartData.Blobs)
}

func TestGetChartDataEmpty(t *testing.T) {
	ms := initChartTestDb(t, nil)

	chartData := ms.GetChartData(100, 10)
	assert.Empty(t, chartData.Labels)
	assert.Empty(t, chartData.Blobs)
	assert.Empty(t, chartData.GasPrices)
}

func TestGetAllTimeChartData(t *testing.T) {
	blocks := make([]*dbtypes.BlobBlock, 10)
	for i := range blocks {
		blocks[i] = &dbtypes.BlobBlock{
			BlockNumber: uint64(100 + i),
			BlockTime:   uint64(1000 + 12*i),
			BlobCount:   uint64(i),
			GasPrice:    1000000000,
		}
	}
	ms := initChartTestDb(t, blocks)

	// below the threshold the full history passes through untouched
	chartData, err := ms.GetAllTimeChartData(100)
	require.NoError(t, err)
	assert.Len(t, chartData.Labels, 10)

	// above the threshold every 5th block is kept
	chartData, err = ms.GetAllTimeChartData(4)
	require.NoError(t, err)
	require.Len(t, chartData.Labels, 2)
	assert.Equal(t, uint64(100), chartData.Labels[0])
	assert.Equal(t, uint64(105), chartData.Labels[1])
	assert.Equal(t, float64(5), chartData.Blobs[1])
	assert.Equal(t, uint64(1060), chartData.Timestamps[1])
}
