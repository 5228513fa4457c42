package db

import (
	"github.com/jmoiron/sqlx"

	"github.com/ethpandaops/blobscope/dbtypes"
)

func InsertBlobTransaction(blobTx *dbtypes.BlobTransaction, tx *sqlx.Tx) error {
	_, err := tx.Exec(EngineQuery(map[dbtypes.DBEngineType]string{
		dbtypes.DBEnginePgsql: `
			INSERT INTO blob_transactions (
				tx_hash, block_number, sender, blob_count, gas_price, block_time
			) VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (tx_hash) DO UPDATE SET
				block_number = excluded.block_number,
				blob_count = excluded.blob_count,
				gas_price = excluded.gas_price,
				block_time = excluded.block_time`,
		dbtypes.DBEngineSqlite: `
			INSERT OR REPLACE INTO blob_transactions (
				tx_hash, block_number, sender, blob_count, gas_price, block_time
			) VALUES ($1, $2, $3, $4, $5, $6)`,
	}),
		blobTx.TxHash, blobTx.BlockNumber, blobTx.Sender, blobTx.BlobCount, blobTx.GasPrice, blobTx.BlockTime)
	if err != nil {
		return err
	}
	return nil
}

func UpsertBlobSender(address []byte, blobCount uint64, tx *sqlx.Tx) error {
	_, err := tx.Exec(EngineQuery(map[dbtypes.DBEngineType]string{
		dbtypes.DBEnginePgsql: `
			INSERT INTO blob_senders (address, tx_count, total_blobs)
			VALUES ($1, 1, $2)
			ON CONFLICT (address) DO UPDATE SET
				tx_count = blob_senders.tx_count + 1,
				total_blobs = blob_senders.total_blobs + excluded.total_blobs`,
		dbtypes.DBEngineSqlite: `
			INSERT INTO blob_senders (address, tx_count, total_blobs)
			VALUES ($1, 1, $2)
			ON CONFLICT (address) DO UPDATE SET
				tx_count = tx_count + 1,
				total_blobs = total_blobs + excluded.total_blobs`,
	}), address, blobCount)
	if err != nil {
		return err
	}
	return nil
}

func GetTopBlobSenders(limit uint32) []*dbtypes.BlobSender {
	senders := []*dbtypes.BlobSender{}
	err := ReaderDb.Select(&senders, `
	SELECT address, tx_count, total_blobs
	FROM blob_senders
	ORDER BY total_blobs DESC
	LIMIT $1
	`, limit)
	if err != nil {
		logger.Errorf("Error while fetching top senders: %v", err)
		return nil
	}
	return senders
}

func GetBlockBlobTransactions(blockNumber uint64) []*dbtypes.BlobTransaction {
	txs := []*dbtypes.BlobTransaction{}
	err := ReaderDb.Select(&txs, `
	SELECT tx_hash, block_number, sender, blob_count, gas_price, block_time
	FROM blob_transactions
	WHERE block_number = $1
	`, blockNumber)
	if err != nil {
		logger.Errorf("Error while fetching transactions for block %v: %v", blockNumber, err)
		return nil
	}
	return txs
}

// GetBlobTransactionsSince returns all blob transactions at or after the
// given unix time ordered by sender, feeding the chain profile aggregation.
// Errors are returned to the caller so a failed market refresh can keep
// the previous snapshot.
func GetBlobTransactionsSince(blockTime uint64) ([]*dbtypes.BlobTransaction, error) {
	txs := []*dbtypes.BlobTransaction{}
	err := ReaderDb.Select(&txs, `
	SELECT tx_hash, block_number, sender, blob_count, gas_price, block_time
	FROM blob_transactions
	WHERE block_time >= $1
	ORDER BY sender ASC, block_time ASC
	`, blockTime)
	if err != nil {
		return nil, err
	}
	return txs, nil
}

func GetRecentBlobTransactions(limit uint32) []*dbtypes.BlobTransaction {
	txs := []*dbtypes.BlobTransaction{}
	err := ReaderDb.Select(&txs, `
	SELECT tx_hash, block_number, sender, blob_count, gas_price, block_time
	FROM blob_transactions
	ORDER BY block_time DESC
	LIMIT $1
	`, limit)
	if err != nil {
		logger.Errorf("Error while fetching recent transactions: %v", err)
		return nil
	}
	return txs
}
