package database

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/redis/go-redis/v9"
)

// Session lookups run on every authenticated request, so the client
// dials with a short timeout instead of the go-redis default.
const (
	redisDialTimeout = 2 * time.Second
	redisPingTimeout = 5 * time.Second
)

// RedisConfig describes the instance backing the session token store.
// A zero PoolSize leaves the pool at the go-redis default.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	PoolSize int
}

// Addr returns the host:port form go-redis dials.
func (c RedisConfig) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

// NewRedis connects to the session store and verifies it answers a
// ping before anything is wired on top of it. Sessions cannot be
// resolved without the store, so callers treat a failure as fatal.
func NewRedis(cfg RedisConfig, logger *slog.Logger) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:        cfg.Addr(),
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: redisDialTimeout,
		PoolSize:    cfg.PoolSize,
	})

	ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr(), err)
	}

	logger.Info("connected to session store", "addr", cfg.Addr(), "db", cfg.DB)
	return client, nil
}
