// File: utils/cache.go
package utils

import (
	"context"
	"fmt"
	"time"

	"medibook/config"

	"github.com/go-redis/redis/v8"
)

// CacheClient is the generic cache client.
var CacheClient *redis.Client

// InitCache initializes the generic Redis cache client (using DB from AppConfig for general caching).
func InitCache() error {
	CacheClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisCacheDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := CacheClient.Ping(ctx).Result(); err != nil {
		return fmt.Errorf("failed to connect to Redis (Cache): %w", err)
	}
	return nil
}

// GetCacheClient returns the generic cache client.
func GetCacheClient() *redis.Client {
	return CacheClient
}
