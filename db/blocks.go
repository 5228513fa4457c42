package db

import (
	"github.com/jmoiron/sqlx"

	"github.com/ethpandaops/blobscope/dbtypes"
)

func InsertBlobBlock(block *dbtypes.BlobBlock, tx *sqlx.Tx) error {
	_, err := tx.Exec(EngineQuery(map[dbtypes.DBEngineType]string{
		dbtypes.DBEnginePgsql: `
			INSERT INTO blob_blocks (
				block_number, block_time, tx_count, blob_count, gas_used, gas_price, excess_blob_gas
			) VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (block_number) DO UPDATE SET
				block_time = excluded.block_time,
				tx_count = excluded.tx_count,
				blob_count = excluded.blob_count,
				gas_used = excluded.gas_used,
				gas_price = excluded.gas_price,
				excess_blob_gas = excluded.excess_blob_gas`,
		dbtypes.DBEngineSqlite: `
			INSERT OR REPLACE INTO blob_blocks (
				block_number, block_time, tx_count, blob_count, gas_used, gas_price, excess_blob_gas
			) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
	}),
		block.BlockNumber, block.BlockTime, block.TxCount, block.BlobCount, block.GasUsed, block.GasPrice, block.ExcessBlobGas)
	if err != nil {
		return err
	}
	return nil
}

// DeleteBlobBlock removes a block and its transactions after a chain reorg.
func DeleteBlobBlock(blockNumber uint64, tx *sqlx.Tx) error {
	_, err := tx.Exec(`DELETE FROM blob_blocks WHERE block_number = $1`, blockNumber)
	if err != nil {
		return err
	}
	_, err = tx.Exec(`DELETE FROM blob_transactions WHERE block_number = $1`, blockNumber)
	if err != nil {
		return err
	}
	return nil
}

func GetBlobBlock(blockNumber uint64) *dbtypes.BlobBlock {
	block := dbtypes.BlobBlock{}
	err := ReaderDb.Get(&block, `
	SELECT block_number, block_time, tx_count, blob_count, gas_used, gas_price, excess_blob_gas
	FROM blob_blocks
	WHERE block_number = $1
	`, blockNumber)
	if err != nil {
		return nil
	}
	return &block
}

func GetRecentBlobBlocks(limit uint32) []*dbtypes.BlobBlock {
	blocks := []*dbtypes.BlobBlock{}
	err := ReaderDb.Select(&blocks, `
	SELECT block_number, block_time, tx_count, blob_count, gas_used, gas_price, excess_blob_gas
	FROM blob_blocks
	ORDER BY block_number DESC
	LIMIT $1
	`, limit)
	if err != nil {
		logger.Errorf("Error while fetching recent blocks: %v", err)
		return nil
	}
	return blocks
}

// GetBlobBlocksSince returns all blocks at or after the given unix time in
// ascending block order. This is the query feeding the market engine, so a
// query failure is returned to the caller instead of being collapsed into
// an empty result - a failed refresh must keep the previous snapshot.
func GetBlobBlocksSince(blockTime uint64) ([]*dbtypes.BlobBlock, error) {
	blocks := []*dbtypes.BlobBlock{}
	err := ReaderDb.Select(&blocks, `
	SELECT block_number, block_time, tx_count, blob_count, gas_used, gas_price, excess_blob_gas
	FROM blob_blocks
	WHERE block_time >= $1
	ORDER BY block_number ASC
	`, blockTime)
	if err != nil {
		return nil, err
	}
	return blocks, nil
}

// GetBlobBlockRange returns the blocks in [firstBlock, lastBlock] in
// ascending order. Gaps (blocks without blob activity) are not filled here -
// the chart service zero-fills them.
func GetBlobBlockRange(firstBlock uint64, lastBlock uint64) []*dbtypes.BlobBlock {
	blocks := []*dbtypes.BlobBlock{}
	err := ReaderDb.Select(&blocks, `
	SELECT block_number, block_time, tx_count, blob_count, gas_used, gas_price, excess_blob_gas
	FROM blob_blocks
	WHERE block_number >= $1 AND block_number <= $2
	ORDER BY block_number ASC
	`, firstBlock, lastBlock)
	if err != nil {
		logger.Errorf("Error while fetching block range %v-%v: %v", firstBlock, lastBlock, err)
		return nil
	}
	return blocks
}

func GetLatestBlockNumber() uint64 {
	var blockNumber uint64
	err := ReaderDb.Get(&blockNumber, `SELECT COALESCE(MAX(block_number), 0) FROM blob_blocks`)
	if err != nil {
		logger.Errorf("Error while fetching latest block number: %v", err)
		return 0
	}
	return blockNumber
}

func GetBlobBlockCount() (uint64, error) {
	var count uint64
	err := ReaderDb.Get(&count, `SELECT COUNT(*) FROM blob_blocks`)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// GetStridedBlobBlocks returns every stride-th block of the full history in
// ascending order. The thinning runs in SQL so the all-time chart does not
// materialize the whole table.
func GetStridedBlobBlocks(stride uint64) ([]*dbtypes.BlobBlock, error) {
	if stride < 1 {
		stride = 1
	}
	blocks := []*dbtypes.BlobBlock{}
	err := ReaderDb.Select(&blocks, `
	SELECT block_number, block_time, tx_count, blob_count, gas_used, gas_price, excess_blob_gas
	FROM (
		SELECT *, ROW_NUMBER() OVER (ORDER BY block_number ASC) AS row_idx
		FROM blob_blocks
	) numbered
	WHERE (row_idx - 1) % $1 = 0
	ORDER BY block_number ASC
	`, stride)
	if err != nil {
		return nil, err
	}
	return blocks, nil
}

func GetBlobStats() *dbtypes.BlobStats {
	stats := dbtypes.BlobStats{}
	err := ReaderDb.Get(&stats, `
	SELECT
		COUNT(*) AS total_blocks,
		COALESCE(SUM(blob_count), 0) AS total_blobs,
		COALESCE(SUM(tx_count), 0) AS total_transactions,
		MAX(block_number) AS latest_block,
		MIN(block_number) AS earliest_block
	FROM blob_blocks
	`)
	if err != nil {
		logger.Errorf("Error while fetching blob stats: %v", err)
		return nil
	}
	return &stats
}
