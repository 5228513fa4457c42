package dbtypes

// BlobBlock is one ingested block with its blob statistics.
type BlobBlock struct {
	BlockNumber   uint64  `db:"block_number"`
	BlockTime     uint64  `db:"block_time"`
	TxCount       uint64  `db:"tx_count"`
	BlobCount     uint64  `db:"blob_count"`
	GasUsed       uint64  `db:"gas_used"`
	GasPrice      uint64  `db:"gas_price"`
	ExcessBlobGas *uint64 `db:"excess_blob_gas"`
}

// BlobTransaction is one type-3 transaction carrying blobs.
type BlobTransaction struct {
	TxHash      []byte `db:"tx_hash"`
	BlockNumber uint64 `db:"block_number"`
	Sender      []byte `db:"sender"`
	BlobCount   uint64 `db:"blob_count"`
	GasPrice    uint64 `db:"gas_price"`
	BlockTime   uint64 `db:"block_time"`
}

// BlobSender is the per-address rollup of blob activity.
type BlobSender struct {
	Address    []byte `db:"address"`
	TxCount    uint64 `db:"tx_count"`
	TotalBlobs uint64 `db:"total_blobs"`
}

// BlobStats carries the global ingestion counters for the stats endpoint.
type BlobStats struct {
	TotalBlocks       uint64  `db:"total_blocks"`
	TotalBlobs        uint64  `db:"total_blobs"`
	TotalTransactions uint64  `db:"total_transactions"`
	LatestBlock       *uint64 `db:"latest_block"`
	EarliestBlock     *uint64 `db:"earliest_block"`
}

type ExplorerState struct {
	Key   string `db:"key"`
	Value string `db:"value"`
}
