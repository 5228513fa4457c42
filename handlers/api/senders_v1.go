package api

import (
	"net/http"
	"strconv"

	"github.com/ethereum/go-ethereum/common"

	"github.com/ethpandaops/blobscope/db"
	"github.com/ethpandaops/blobscope/services"
)

type APISendersResponse struct {
	Status string           `json:"status"`
	Data   []*APISenderInfo `json:"data"`
}

type APISenderInfo struct {
	Address    string `json:"address"`
	Chain      string `json:"chain"`
	TxCount    uint64 `json:"tx_count"`
	TotalBlobs uint64 `json:"total_blobs"`
}

// APISendersV1 returns the top blob senders with their chain attribution.
func APISendersV1(w http.ResponseWriter, r *http.Request) {
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

	senders := db.GetTopBlobSenders(uint32(limit))
	senderInfos := make([]*APISenderInfo, len(senders))
	for i, sender := range senders {
		senderInfos[i] = &APISenderInfo{
			Address:    common.BytesToAddress(sender.Address).Hex(),
			Chain:      services.ResolveChainName(sender.Address),
			TxCount:    sender.TxCount,
			TotalBlobs: sender.TotalBlobs,
		}
	}

	writeJsonResponse(w, &APISendersResponse{
		Status: "OK",
		Data:   senderInfos,
	})
}
