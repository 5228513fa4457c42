package api

import (
	"net/http"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gorilla/mux"

	"github.com/ethpandaops/blobscope/db"
	"github.com/ethpandaops/blobscope/dbtypes"
	"github.com/ethpandaops/blobscope/services"
	"github.com/ethpandaops/blobscope/utils"
)

type APIBlockResponse struct {
	Status string        `json:"status"`
	Data   *APIBlockData `json:"data"`
}

type APIBlockData struct {
	Block        *APIBlockInfo         `json:"block"`
	Transactions []*APITransactionInfo `json:"transactions"`
}

type APITransactionInfo struct {
	TxHash       string  `json:"tx_hash"`
	BlockNumber  uint64  `json:"block_number"`
	Sender       string  `json:"sender"`
	Chain        string  `json:"chain"`
	BlobCount    uint64  `json:"blob_count"`
	GasPriceGwei float64 `json:"gas_price_gwei"`
	BlockTime    uint64  `json:"block_time"`
}

// APIBlockV1 returns one block with its blob transactions.
func APIBlockV1(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	blockNumber, err := strconv.ParseUint(vars["number"], 10, 64)
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "invalid block number")
		return
	}

	block := db.GetBlobBlock(blockNumber)
	if block == nil {
		writeErrorResponse(w, http.StatusNotFound, "block not found")
		return
	}

	txs := db.GetBlockBlobTransactions(blockNumber)
	txInfos := make([]*APITransactionInfo, len(txs))
	for i, tx := range txs {
		txInfos[i] = buildTransactionInfo(tx)
	}

	writeJsonResponse(w, &APIBlockResponse{
		Status: "OK",
		Data: &APIBlockData{
			Block:        buildBlockInfo(block),
			Transactions: txInfos,
		},
	})
}

func buildTransactionInfo(tx *dbtypes.BlobTransaction) *APITransactionInfo {
	return &APITransactionInfo{
		TxHash:       common.BytesToHash(tx.TxHash).Hex(),
		BlockNumber:  tx.BlockNumber,
		Sender:       common.BytesToAddress(tx.Sender).Hex(),
		Chain:        services.ResolveChainName(tx.Sender),
		BlobCount:    tx.BlobCount,
		GasPriceGwei: utils.WeiToGwei(tx.GasPrice),
		BlockTime:    tx.BlockTime,
	}
}
