// Package redis opens the client behind the raw payload cache.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrNoAddress is returned when Config.Address is empty.
var ErrNoAddress = errors.New("redis: no address configured")

const defaultPingTimeout = 3 * time.Second

// Config selects the cache server. ClientName tags the connections in
// CLIENT LIST; PoolSize 0 keeps the go-redis default.
type Config struct {
	Address     string
	Password    string
	DB          int
	ClientName  string
	PoolSize    int
	PingTimeout time.Duration
}

// Connect dials cfg.Address and verifies it with a bounded PING, so a dead
// cache fails startup quickly instead of on the first request.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	if cfg.Address == "" {
		return nil, ErrNoAddress
	}
	if cfg.PingTimeout <= 0 {
		cfg.PingTimeout = defaultPingTimeout
	}

	client := redis.NewClient(&redis.Options{
		Addr:       cfg.Address,
		Password:   cfg.Password,
		DB:         cfg.DB,
		ClientName: cfg.ClientName,
		PoolSize:   cfg.PoolSize,
	})

	pingCtx, cancel := context.WithTimeout(ctx, cfg.PingTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis at %s: %w", cfg.Address, err)
	}
	return client, nil
}

// Ping adapts client to the health check signature.
func Ping(client *redis.Client) func(context.Context) error {
	return func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}
}
