// Package database provides PostgreSQL connection management using pgx.
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// Options tunes pool construction.
type Options struct {
	MaxConns      int32
	MinConns      int32
	Attempts      int
	RetryInterval time.Duration
}

// DefaultOptions suits the journal's low write volume.
var DefaultOptions = Options{
	MaxConns:      4,
	MinConns:      1,
	Attempts:      5,
	RetryInterval: 2 * time.Second,
}

// NewPool creates and validates a pgxpool connection pool.
// It retries to accommodate a database container that is still starting.
func NewPool(ctx context.Context, url string, opts Options, logger zerolog.Logger) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse db config: %w", err)
	}

	poolCfg.MaxConns = opts.MaxConns
	poolCfg.MinConns = opts.MinConns
	poolCfg.MaxConnLifetime = 30 * time.Minute
	poolCfg.MaxConnIdleTime = 5 * time.Minute

	attempts := max(opts.Attempts, 1)
	var pool *pgxpool.Pool
	for attempt := 1; attempt <= attempts; attempt++ {
		pool, err = pgxpool.NewWithConfig(ctx, poolCfg)
		if err == nil {
			if err = pool.Ping(ctx); err == nil {
				return pool, nil
			}
			pool.Close()
		}
		logger.Warn().Err(err).
			Int("attempt", attempt).
			Int("attempts", attempts).
			Msg("db connect failed")
		if attempt == attempts {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(opts.RetryInterval):
		}
	}

	return nil, fmt.Errorf("connect to postgres: %w", err)
}
