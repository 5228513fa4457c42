package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/coocood/freecache"
	"github.com/sirupsen/logrus"

	"github.com/ethpandaops/blobscope/utils"
)

// TieredCache combines a process-local freecache with an optional shared
// redis cache. API responses are served from the local tier and fall back
// to redis when running multiple instances behind a load balancer.
type TieredCache struct {
	localCache  *freecache.Cache
	remoteCache RemoteCache
}

type cachedValue struct {
	Version uint64      `json:"i"`
	Timeout uint64      `json:"t"`
	Value   interface{} `json:"v"`
}

var ErrCacheMiss = errors.New("cache miss")

type RemoteCache interface {
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	SetBytes(ctx context.Context, key string, value []byte, expiration time.Duration) error
	SetUint64(ctx context.Context, key string, value uint64, expiration time.Duration) error

	Get(ctx context.Context, key string, returnValue any) (any, error)
	GetBytes(ctx context.Context, key string) ([]byte, error)
	GetUint64(ctx context.Context, key string) (uint64, error)
}

// NewTieredCache initializes the local cache with the given size in MB and
// connects the remote redis tier when an address is configured.
func NewTieredCache(cacheSizeMB int, redisAddress string, redisPrefix string) (*TieredCache, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*30)
	defer cancel()

	var remoteCache RemoteCache
	if redisAddress != "" {
		var err error
		remoteCache, err = InitRedisCache(ctx, redisAddress, redisPrefix)
		if err != nil {
			logrus.WithError(err).Errorf("error initializing remote redis cache. address: %v", redisAddress)
			return nil, err
		}
	}

	return &TieredCache{
		remoteCache: remoteCache,
		localCache:  freecache.NewCache(cacheSizeMB * 1024 * 1024),
	}, nil
}

func (cache *TieredCache) Set(key string, value interface{}, expiration time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*30)
	defer cancel()
	cacheValue := cachedValue{
		Version: 1,
		Value:   value,
	}
	if expiration > 0 {
		cacheValue.Timeout = uint64(time.Now().Add(expiration).Unix())
	}

	valueMarshal, err := json.Marshal(cacheValue)
	if err != nil {
		return err
	}
	cache.localCache.Set([]byte(key), valueMarshal, int(expiration.Seconds()))
	if cache.remoteCache != nil {
		return cache.remoteCache.SetBytes(ctx, key, valueMarshal, expiration)
	}
	return nil
}

func (cache *TieredCache) Get(key string, returnValue interface{}) (interface{}, error) {
	cacheValue := &cachedValue{
		Value: returnValue,
	}

	// local tier first
	wanted, err := cache.localCache.Get([]byte(key))
	if err == nil {
		err = json.Unmarshal(wanted, cacheValue)
		if err != nil {
			utils.LogError(err, "error unmarshalling data for key", 0, map[string]interface{}{"key": key})
			return nil, err
		}

		return returnValue, nil
	}

	if cache.remoteCache == nil {
		return nil, ErrCacheMiss
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*30)
	defer cancel()

	_, err = cache.remoteCache.Get(ctx, key, cacheValue)
	if err != nil {
		return nil, err
	}

	// refill the local tier with the remaining lifetime
	if cacheValue.Timeout == 0 || cacheValue.Timeout > uint64(time.Now().Add(2*time.Second).Unix()) {
		valueMarshal, err := json.Marshal(cacheValue)
		if err != nil {
			return nil, err
		}
		var timeout uint64
		if cacheValue.Timeout > 0 {
			timeout = cacheValue.Timeout - uint64(time.Now().Unix())
		}
		cache.localCache.Set([]byte(key), valueMarshal, int(timeout))
	}
	return returnValue, nil
}
