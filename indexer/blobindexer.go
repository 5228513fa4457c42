package indexer

import (
	"context"
	"fmt"
	"math/big"
	"time"

	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/sirupsen/logrus"

	"github.com/ethpandaops/blobscope/blobmarket"
	"github.com/ethpandaops/blobscope/db"
	"github.com/ethpandaops/blobscope/dbtypes"
	"github.com/ethpandaops/blobscope/metrics"
	"github.com/ethpandaops/blobscope/rpc"
	"github.com/ethpandaops/blobscope/utils"
)

const indexerStateKey = "indexer.state"

type indexerState struct {
	LastBlock uint64 `json:"last_block"`
}

// BlobIndexer follows the execution chain head and ingests per-block blob
// statistics and blob transactions into the database.
type BlobIndexer struct {
	logger       logrus.FieldLogger
	client       *rpc.ExecutionClient
	params       *blobmarket.ProtocolParameters
	signer       ethtypes.Signer
	pollInterval time.Duration
	batchSize    uint64
	startBlock   uint64

	lastBlock uint64
}

func NewBlobIndexer(logger logrus.FieldLogger, client *rpc.ExecutionClient) *BlobIndexer {
	pollInterval := utils.Config.ExecutionApi.PollInterval
	if pollInterval == 0 {
		pollInterval = 6 * time.Second
	}
	batchSize := utils.Config.ExecutionApi.BatchSize
	if batchSize == 0 {
		batchSize = 50
	}

	return &BlobIndexer{
		logger:       logger,
		client:       client,
		params:       utils.Config.Chain.Protocol,
		pollInterval: pollInterval,
		batchSize:    batchSize,
		startBlock:   utils.Config.ExecutionApi.StartBlock,
	}
}

// Start connects the execution client, restores the ingestion position and
// launches the polling loop.
func (bi *BlobIndexer) Start(ctx context.Context) error {
	err := bi.client.Initialize(ctx)
	if err != nil {
		return fmt.Errorf("error initializing execution client: %w", err)
	}

	chainId, err := bi.client.GetChainId(ctx)
	if err != nil {
		return fmt.Errorf("error fetching chain id: %w", err)
	}
	bi.signer = ethtypes.LatestSignerForChainID(chainId)

	state := indexerState{}
	if _, err := db.GetExplorerState(indexerStateKey, &state); err == nil {
		bi.lastBlock = state.LastBlock
	}
	if bi.lastBlock < bi.startBlock {
		if bi.startBlock > 0 {
			bi.lastBlock = bi.startBlock - 1
		}
	}

	go bi.runIndexerLoop(ctx)
	return nil
}

func (bi *BlobIndexer) runIndexerLoop(ctx context.Context) {
	defer utils.HandleSubroutinePanic("BlobIndexer.runIndexerLoop")

	for {
		select {
		case <-ctx.Done():
			return
		case <-time.After(bi.pollInterval):
		}

		err := bi.processHead(ctx)
		if err != nil {
			metrics.IndexerErrors.Inc()
			bi.logger.WithError(err).Errorf("error processing chain head")
		}
	}
}

// processHead ingests all blocks between the last indexed block and the
// current head, at most batchSize blocks per poll cycle.
func (bi *BlobIndexer) processHead(ctx context.Context) error {
	header, err := bi.client.GetLatestBlockHeader(ctx)
	if err != nil {
		return fmt.Errorf("error fetching latest header: %w", err)
	}

	headNumber := header.Number.Uint64()
	if headNumber <= bi.lastBlock {
		return nil
	}

	firstBlock := bi.lastBlock + 1
	if bi.lastBlock == 0 && bi.startBlock == 0 {
		// fresh db without explicit start block, begin at the head
		firstBlock = headNumber
	}

	lastBlock := headNumber
	if lastBlock-firstBlock+1 > bi.batchSize {
		lastBlock = firstBlock + bi.batchSize - 1
	}

	for blockNumber := firstBlock; blockNumber <= lastBlock; blockNumber++ {
		block, err := bi.client.GetBlockByNumber(ctx, blockNumber)
		if err != nil {
			return fmt.Errorf("error fetching block %v: %w", blockNumber, err)
		}

		err = bi.processBlock(block)
		if err != nil {
			return fmt.Errorf("error processing block %v: %w", blockNumber, err)
		}

		bi.lastBlock = blockNumber
		metrics.IndexedBlocks.Inc()
		metrics.IndexerHeadBlock.Set(float64(blockNumber))
	}

	return nil
}

func (bi *BlobIndexer) processBlock(block *ethtypes.Block) error {
	blobBlock := &dbtypes.BlobBlock{
		BlockNumber:   block.NumberU64(),
		BlockTime:     block.Time(),
		ExcessBlobGas: block.ExcessBlobGas(),
	}

	excessBlobGas := uint64(0)
	if blobBlock.ExcessBlobGas != nil {
		excessBlobGas = *blobBlock.ExcessBlobGas
	}
	blobGasPrice := capUint64(blobmarket.BlobBaseFee(excessBlobGas, bi.params.BaseFeeUpdateFraction))
	blobBlock.GasPrice = blobGasPrice

	blobTxs := []*dbtypes.BlobTransaction{}
	for _, tx := range block.Transactions() {
		if tx.Type() != ethtypes.BlobTxType {
			continue
		}

		blobCount := uint64(len(tx.BlobHashes()))
		blobBlock.TxCount++
		blobBlock.BlobCount += blobCount
		blobBlock.GasUsed += blobCount * bi.params.BytesPerBlob

		sender, err := ethtypes.Sender(bi.signer, tx)
		if err != nil {
			bi.logger.WithError(err).Warnf("could not recover sender of tx %v", tx.Hash())
			continue
		}

		blobTxs = append(blobTxs, &dbtypes.BlobTransaction{
			TxHash:      tx.Hash().Bytes(),
			BlockNumber: blobBlock.BlockNumber,
			Sender:      sender.Bytes(),
			BlobCount:   blobCount,
			GasPrice:    blobGasPrice,
			BlockTime:   blobBlock.BlockTime,
		})
	}

	dbTx, err := db.WriterDb.Beginx()
	if err != nil {
		return fmt.Errorf("error starting db transaction: %w", err)
	}
	defer dbTx.Rollback()

	err = db.InsertBlobBlock(blobBlock, dbTx)
	if err != nil {
		return fmt.Errorf("error inserting block: %w", err)
	}

	for _, blobTx := range blobTxs {
		err = db.InsertBlobTransaction(blobTx, dbTx)
		if err != nil {
			return fmt.Errorf("error inserting blob transaction: %w", err)
		}
		err = db.UpsertBlobSender(blobTx.Sender, blobTx.BlobCount, dbTx)
		if err != nil {
			return fmt.Errorf("error updating sender: %w", err)
		}
	}

	err = db.SetExplorerState(indexerStateKey, &indexerState{LastBlock: blobBlock.BlockNumber}, dbTx)
	if err != nil {
		return fmt.Errorf("error updating indexer state: %w", err)
	}

	err = dbTx.Commit()
	if err != nil {
		return fmt.Errorf("error committing db transaction: %w", err)
	}

	bi.logger.WithFields(logrus.Fields{
		"block": blobBlock.BlockNumber,
		"txs":   blobBlock.TxCount,
		"blobs": blobBlock.BlobCount,
	}).Infof("indexed block")

	return nil
}

func capUint64(value *big.Int) uint64 {
	if !value.IsUint64() {
		return ^uint64(0)
	}
	return value.Uint64()
}
