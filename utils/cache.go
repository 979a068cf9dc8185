// File: utils/cache.go
package utils

import (
	"context"
	"fastpark/config"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// CacheClient is the client behind the parking snapshot cache.
var CacheClient *redis.Client

// InitCache connects to the redis DB configured for snapshots.
func InitCache() error {
	CacheClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisCacheDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := CacheClient.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to Redis (Cache): %w", err)
	}
	return nil
}

// GetCacheClient returns the snapshot cache client, connecting on first use.
// The client is returned even when the first ping failed so the health
// monitor can report recovery.
func GetCacheClient() (*redis.Client, error) {
	if CacheClient != nil {
		return CacheClient, nil
	}
	err := InitCache()
	return CacheClient, err
}
