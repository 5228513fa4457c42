package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ethpandaops/blobscope/cache"
)

var logger = logrus.StandardLogger().WithField("module", "api")

var apiCache *cache.TieredCache

// InitApiCache wires the shared response cache used by the chart endpoints.
func InitApiCache(tieredCache *cache.TieredCache) {
	apiCache = tieredCache
}

func writeJsonResponse(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	err := json.NewEncoder(w).Encode(data)
	if err != nil {
		logger.WithError(err).Errorf("error encoding api response")
	}
}

func writeErrorResponse(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(map[string]string{
		"status": "ERROR: " + message,
	})
	if err != nil {
		logger.WithError(err).Errorf("error encoding api error response")
	}
}

// cachedResponse serves the response for cacheKey from the tiered cache,
// invoking buildFn on a miss. Caching is skipped when no cache is wired.
func cachedResponse(w http.ResponseWriter, cacheKey string, ttl time.Duration, buildFn func() (interface{}, error)) {
	if apiCache != nil {
		cached := json.RawMessage{}
		if _, err := apiCache.Get(cacheKey, &cached); err == nil && len(cached) > 0 {
			w.Header().Set("Content-Type", "application/json")
			_, err := w.Write(cached)
			if err != nil {
				logger.WithError(err).Errorf("error writing cached api response")
			}
			return
		}
	}

	data, err := buildFn()
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if apiCache != nil {
		encoded, err := json.Marshal(data)
		if err == nil {
			err = apiCache.Set(cacheKey, json.RawMessage(encoded), ttl)
			if err != nil {
				logger.WithError(err).Warnf("error caching api response for %v", cacheKey)
			}
		}
	}

	writeJsonResponse(w, data)
}
