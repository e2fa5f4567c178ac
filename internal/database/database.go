// Package database provides PostgreSQL connection management using pgx.
package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Options tunes the pool opened by NewPool. Zero values take defaults.
type Options struct {
	MaxConns     int32
	Attempts     int
	RetryBackoff time.Duration
}

func (o Options) withDefaults() Options {
	if o.MaxConns <= 0 {
		// One CLI invocation issues at most a couple of concurrent queries.
		o.MaxConns = 4
	}
	if o.Attempts <= 0 {
		o.Attempts = 3
	}
	if o.RetryBackoff <= 0 {
		o.RetryBackoff = time.Second
	}
	return o
}

// NewPool creates and validates a pgxpool connection pool for dsn, which may
// be a URL or a libpq keyword string. It retries a few times so that a
// database container that is still starting is tolerated.
func NewPool(ctx context.Context, dsn string, opts Options) (*pgxpool.Pool, error) {
	opts = opts.withDefaults()

	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse db config: %w", err)
	}
	poolCfg.MaxConns = opts.MaxConns
	poolCfg.MinConns = 0
	poolCfg.MaxConnLifetime = 30 * time.Minute
	poolCfg.MaxConnIdleTime = 5 * time.Minute

	var pool *pgxpool.Pool
	for attempt := 1; attempt <= opts.Attempts; attempt++ {
		pool, err = pgxpool.NewWithConfig(ctx, poolCfg)
		if err == nil {
			if err = pool.Ping(ctx); err == nil {
				return pool, nil
			}
			pool.Close()
		}
		if attempt == opts.Attempts {
			break
		}
		log.Printf("db connect attempt %d/%d failed: %v - retrying in %s", attempt, opts.Attempts, err, opts.RetryBackoff)
		select {
		case <-time.After(opts.RetryBackoff):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return nil, fmt.Errorf("connect to postgres: %w", err)
}
