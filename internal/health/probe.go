package health

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// Probes implements Checker on the service's postgres pool and redis client.
type Probes struct {
	Pool  *pgxpool.Pool
	Redis *redis.Client
}

// PingDB probes the postgres pool.
func (p Probes) PingDB(ctx context.Context, timeout time.Duration) error {
	if p.Pool == nil {
		return errors.New("health: no database pool")
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return p.Pool.Ping(ctx)
}

// PingRedis probes the redis client.
func (p Probes) PingRedis(ctx context.Context, timeout time.Duration) error {
	if p.Redis == nil {
		return errors.New("health: no redis client")
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return p.Redis.Ping(ctx).Err()
}
