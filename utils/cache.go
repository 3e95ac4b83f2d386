package utils

import (
	"context"
	"fmt"
	"time"

	"travelagency/config"

	"github.com/go-redis/redis/v8"
)

var (
	// CacheClient backs the reservation store's local cache.
	CacheClient *redis.Client
	// SessionClient holds wizard sessions, chat context and reset codes.
	SessionClient *redis.Client
)

func newRedisClient(db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       db,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := client.Ping(ctx).Result(); err != nil {
		client.Close()
		return nil, err
	}
	return client, nil
}

// RedisEnabled reports whether a Redis address is configured.
func RedisEnabled() bool {
	return config.AppConfig.RedisAddr != ""
}

// InitRedis connects the cache and session clients. When Redis is not configured
// both stay nil and callers fall back to in-process storage.
func InitRedis() error {
	if !RedisEnabled() {
		GetLogger().Warn("REDIS_ADDR not set, using in-memory cache and sessions")
		return nil
	}
	var err error
	if CacheClient, err = newRedisClient(config.AppConfig.RedisCacheDB); err != nil {
		return fmt.Errorf("failed to connect to Redis (cache): %w", err)
	}
	if SessionClient, err = newRedisClient(config.AppConfig.RedisSessionDB); err != nil {
		return fmt.Errorf("failed to connect to Redis (sessions): %w", err)
	}
	return nil
}

// GetCacheClient returns the cache client, or nil when Redis is disabled.
func GetCacheClient() *redis.Client {
	return CacheClient
}

// GetSessionClient returns the session client, or nil when Redis is disabled.
func GetSessionClient() *redis.Client {
	return SessionClient
}

// RedisClients lists the connected clients for health checks.
func RedisClients() []*redis.Client {
	var clients []*redis.Client
	for _, c := range []*redis.Client{CacheClient, SessionClient} {
		if c != nil {
			clients = append(clients, c)
		}
	}
	return clients
}
