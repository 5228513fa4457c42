package api

import (
	"net/http"
	"strconv"

	"github.com/ethpandaops/blobscope/db"
)

type APITransactionsResponse struct {
	Status string                `json:"status"`
	Data   []*APITransactionInfo `json:"data"`
}

// APIBlobTransactionsV1 returns the most recent blob transactions.
func APIBlobTransactionsV1(w http.ResponseWriter, r *http.Request) {
	limit := uint64(20)
	limitStr := r.URL.Query().Get("limit")
	if limitStr != "" {
		parsedLimit, err := strconv.ParseUint(limitStr, 10, 64)
		if err != nil {
			writeErrorResponse(w, http.StatusBadRequest, "invalid limit parameter")
			return
		}
		if parsedLimit > 100 {
			parsedLimit = 100
		}
		if parsedLimit > 0 {
			limit = parsedLimit
		}
	}

	txs := db.GetRecentBlobTransactions(uint32(limit))
	txInfos := make([]*APITransactionInfo, len(txs))
	for i, tx := range txs {
		txInfos[i] = buildTransactionInfo(tx)
	}

	writeJsonResponse(w, &APITransactionsResponse{
		Status: "OK",
		Data:   txInfos,
	})
}
