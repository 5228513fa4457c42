package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ethpandaops/blobscope/dbtypes"
	"github.com/ethpandaops/blobscope/types"
	"github.com/ethpandaops/blobscope/utils"
)

func initTestDb(t *testing.T) {
	t.Helper()

	utils.Config = &types.Config{
		Database: types.DatabaseConfig{
			Engine: "sqlite",
			Sqlite: &types.SqliteDatabaseConfig{
				File: filepath.Join(t.TempDir(), "test.sqlite"),
			},
		},
	}

	MustInitDB()
	t.Cleanup(MustCloseDB)

	err := ApplyEmbeddedDbSchema(-2)
	require.NoError(t, err)
}

func TestSqliteRoundTrip(t *testing.T) {
	initTestDb(t)

	excess := uint64(131072)
	blocks := []*dbtypes.BlobBlock{
		{BlockNumber: 100, BlockTime: 1000, TxCount: 1, BlobCount: 3, GasUsed: 3 * 131072, GasPrice: 2000000000},
		{BlockNumber: 101, BlockTime: 1012, TxCount: 2, BlobCount: 10, GasUsed: 10 * 131072, GasPrice: 3000000000, ExcessBlobGas: &excess},
		{BlockNumber: 103, BlockTime: 1036, TxCount: 0, BlobCount: 0, GasUsed: 0, GasPrice: 1000000000},
	}

	tx, err := WriterDb.Beginx()
	require.NoError(t, err)
	for _, block := range blocks {
		require.NoError(t, InsertBlobBlock(block, tx))
	}
	require.NoError(t, tx.Commit())

	// single block fetch
	block := GetBlobBlock(101)
	require.NotNil(t, block)
	assert.Equal(t, uint64(10), block.BlobCount)
	require.NotNil(t, block.ExcessBlobGas)
	assert.Equal(t, excess, *block.ExcessBlobGas)

	assert.Nil(t, GetBlobBlock(999))

	// upsert replaces the existing row
	tx, err = WriterDb.Beginx()
	require.NoError(t, err)
	require.NoError(t, InsertBlobBlock(&dbtypes.BlobBlock{BlockNumber: 101, BlockTime: 1012, TxCount: 2, BlobCount: 12, GasUsed: 12 * 131072, GasPrice: 3000000000}, tx))
	require.NoError(t, tx.Commit())
	assert.Equal(t, uint64(12), GetBlobBlock(101).BlobCount)

	// range and time based queries
	recentBlocks := GetRecentBlobBlocks(2)
	require.Len(t, recentBlocks, 2)
	assert.Equal(t, uint64(103), recentBlocks[0].BlockNumber)

	sinceBlocks, err := GetBlobBlocksSince(1012)
	require.NoError(t, err)
	require.Len(t, sinceBlocks, 2)
	assert.Equal(t, uint64(101), sinceBlocks[0].BlockNumber)

	rangeBlocks := GetBlobBlockRange(100, 102)
	require.Len(t, rangeBlocks, 2)

	assert.Equal(t, uint64(103), GetLatestBlockNumber())

	blockCount, err := GetBlobBlockCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(3), blockCount)

	// stride 2 over rows (100, 101, 103) keeps the 1st and 3rd row
	stridedBlocks, err := GetStridedBlobBlocks(2)
	require.NoError(t, err)
	require.Len(t, stridedBlocks, 2)
	assert.Equal(t, uint64(100), stridedBlocks[0].BlockNumber)
	assert.Equal(t, uint64(103), stridedBlocks[1].BlockNumber)

	stats := GetBlobStats()
	require.NotNil(t, stats)
	assert.Equal(t, uint64(3), stats.TotalBlocks)
	assert.Equal(t, uint64(15), stats.TotalBlobs)
	require.NotNil(t, stats.LatestBlock)
	assert.Equal(t, uint64(103), *stats.LatestBlock)
	require.NotNil(t, stats.EarliestBlock)
	assert.Equal(t, uint64(100), *stats.EarliestBlock)
}

func TestSqliteTransactionsAndSenders(t *testing.T) {
	initTestDb(t)

	sender1 := []byte{0x11, 0x11, 0x11, 0x11, 0x11, 0x11, 0x11, 0x11, 0x11, 0x11, 0x11, 0x11, 0x11, 0x11, 0x11, 0x11, 0x11, 0x11, 0x11, 0x11}
	sender2 := []byte{0x22, 0x22, 0x22, 0x22, 0x22, 0x22, 0x22, 0x22, 0x22, 0x22, 0x22, 0x22, 0x22, 0x22, 0x22, 0x22, 0x22, 0x22, 0x22, 0x22}

	txs := []*dbtypes.BlobTransaction{
		{TxHash: []byte{0x01}, BlockNumber: 100, Sender: sender1, BlobCount: 3, GasPrice: 2000000000, BlockTime: 1000},
		{TxHash: []byte{0x02}, BlockNumber: 100, Sender: sender2, BlobCount: 1, GasPrice: 2000000000, BlockTime: 1000},
		{TxHash: []byte{0x03}, BlockNumber: 101, Sender: sender1, BlobCount: 5, GasPrice: 3000000000, BlockTime: 1012},
	}

	dbTx, err := WriterDb.Beginx()
	require.NoError(t, err)
	for _, tx := range txs {
		require.NoError(t, InsertBlobTransaction(tx, dbTx))
		require.NoError(t, UpsertBlobSender(tx.Sender, tx.BlobCount, dbTx))
	}
	require.NoError(t, dbTx.Commit())

	blockTxs := GetBlockBlobTransactions(100)
	assert.Len(t, blockTxs, 2)

	sinceTxs, err := GetBlobTransactionsSince(1012)
	require.NoError(t, err)
	require.Len(t, sinceTxs, 1)
	assert.Equal(t, uint64(5), sinceTxs[0].BlobCount)

	recentTxs := GetRecentBlobTransactions(10)
	assert.Len(t, recentTxs, 3)

	senders := GetTopBlobSenders(10)
	require.Len(t, senders, 2)
	assert.Equal(t, sender1, senders[0].Address)
	assert.Equal(t, uint64(8), senders[0].TotalBlobs)
	assert.Equal(t, uint64(2), senders[0].TxCount)
}

func TestExplorerState(t *testing.T) {
	initTestDb(t)

	type testState struct {
		LastBlock uint64 `json:"last_block"`
	}

	state := testState{}
	_, err := GetExplorerState("test.state", &state)
	assert.Error(t, err)

	dbTx, err := WriterDb.Beginx()
	require.NoError(t, err)
	require.NoError(t, SetExplorerState("test.state", &testState{LastBlock: 42}, dbTx))
	require.NoError(t, dbTx.Commit())

	_, err = GetExplorerState("test.state", &state)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), state.LastBlock)
}
