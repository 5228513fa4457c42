package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/ethpandaops/blobscope/utils"
)

type RedisCache struct {
	redisClient *redis.Client
	keyPrefix   string
}

func InitRedisCache(ctx context.Context, redisAddress string, keyPrefix string) (*RedisCache, error) {
	rdc := redis.NewClient(&redis.Options{
		Addr:        redisAddress,
		ReadTimeout: time.Second * 20,
	})

	if err := rdc.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	r := &RedisCache{
		redisClient: rdc,
		keyPrefix:   keyPrefix,
	}
	return r, nil
}

func (cache *RedisCache) prefixedKey(key string) string {
	return fmt.Sprintf("%s%s", cache.keyPrefix, key)
}

func (cache *RedisCache) SetBytes(ctx context.Context, key string, value []byte, expiration time.Duration) error {
	return cache.redisClient.Set(ctx, cache.prefixedKey(key), value, expiration).Err()
}

func (cache *RedisCache) GetBytes(ctx context.Context, key string) ([]byte, error) {
	value, err := cache.redisClient.Get(ctx, cache.prefixedKey(key)).Result()
	if err != nil {
		return nil, err
	}
	return []byte(value), nil
}

func (cache *RedisCache) SetUint64(ctx context.Context, key string, value uint64, expiration time.Duration) error {
	return cache.redisClient.Set(ctx, cache.prefixedKey(key), fmt.Sprintf("%d", value), expiration).Err()
}

func (cache *RedisCache) GetUint64(ctx context.Context, key string) (uint64, error) {
	value, err := cache.redisClient.Get(ctx, cache.prefixedKey(key)).Result()
	if err != nil {
		return 0, err
	}

	returnValue, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, err
	}
	return returnValue, nil
}

func (cache *RedisCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	valueMarshal, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return cache.redisClient.Set(ctx, cache.prefixedKey(key), valueMarshal, expiration).Err()
}

func (cache *RedisCache) Get(ctx context.Context, key string, returnValue interface{}) (interface{}, error) {
	value, err := cache.redisClient.Get(ctx, cache.prefixedKey(key)).Result()
	if err != nil {
		return nil, err
	}

	err = json.Unmarshal([]byte(value), returnValue)
	if err != nil {
		cache.redisClient.Del(ctx, cache.prefixedKey(key))
		utils.LogError(err, "error unmarshalling data for key", 0, map[string]interface{}{"key": key})
		return nil, err
	}

	return returnValue, nil
}
