package redis

import (
	"context"
	"easy11ML/pkg/config"
	"easy11ML/pkg/logger"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrDisabled is returned by Connect when REDIS_ENABLED is off.
var ErrDisabled = errors.New("redis online store is disabled")

// Connect opens the online feature store client. Reads and writes are bounded by
// callTimeout so a slow store surfaces as an error the breaker can count.
func Connect(ctx context.Context, cfg config.RedisConfig, callTimeout time.Duration) (*redis.Client, error) {
	if !cfg.Enabled {
		return nil, ErrDisabled
	}
	if callTimeout <= 0 {
		callTimeout = 2 * time.Second
	}

	addr := net.JoinHostPort(cfg.RedisHost, cfg.RedisPort)
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  callTimeout,
		WriteTimeout: callTimeout,
		PoolSize:     10,
		MinIdleConns: 2,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}

	logger.Info("online feature store connected", "addr", addr, "db", cfg.RedisDB)
	return client, nil
}

// Close closes the client, tolerating nil.
func Close(client *redis.Client) {
	if client == nil {
		return
	}
	if err := client.Close(); err != nil {
		logger.Warn("failed to close Redis client", "error", err)
	}
}
