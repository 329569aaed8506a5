package db

import (
	"context"
	"fmt"
	"time"

	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mocketh/walletd/pkg/retry"
	"github.com/mocketh/walletd/pkg/utils"
	"go.uber.org/zap"
)

// Client wraps a PostgreSQL connection pool and owns the wallet schema.
// All balance mutations go through AtomicTransfer; nothing else touches
// the two tables.
type Client struct {
	Logger *zap.Logger
	Pool   *pgxpool.Pool
}

// New initializes a PostgreSQL client from DATABASE_URL with bounded pool
// sizing and a connect retry loop.
func New(ctx context.Context, logger *zap.Logger) (*Client, error) {
	connCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	dbURL := utils.Env("DATABASE_URL", "postgres://localhost:5432/walletd")

	config, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse DATABASE_URL: %w", err)
	}

	config.MinConns = int32(utils.EnvInt("DB_MIN_CONNS", 2))
	config.MaxConns = int32(utils.EnvInt("DB_MAX_CONNS", 20))
	config.MaxConnLifetime = 1 * time.Hour
	config.MaxConnIdleTime = 30 * time.Minute
	// Register shopspring decimal codecs so NUMERIC columns scan losslessly.
	config.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}

	client := &Client{Logger: logger}

	retryErr := retry.WithBackoff(connCtx, retry.DefaultConfig(), logger, "postgres_connection", func() error {
		pool, openErr := pgxpool.NewWithConfig(connCtx, config)
		if openErr != nil {
			return fmt.Errorf("failed to create postgres connection pool: %w", openErr)
		}

		if pingErr := pool.Ping(connCtx); pingErr != nil {
			pool.Close()
			return fmt.Errorf("failed to ping postgres: %w", pingErr)
		}

		client.Pool = pool
		return nil
	})
	if retryErr != nil {
		return nil, retryErr
	}

	logger.Info("PostgreSQL connection pool configured",
		zap.Int32("min_conns", config.MinConns),
		zap.Int32("max_conns", config.MaxConns))

	return client, nil
}

// NewWithPool wraps an existing pool. Used by tests.
func NewWithPool(logger *zap.Logger, pool *pgxpool.Pool) *Client {
	return &Client{Logger: logger, Pool: pool}
}

// Ping verifies the pool still reaches the database.
func (c *Client) Ping(ctx context.Context) error {
	return c.Pool.Ping(ctx)
}

// Close closes the connection pool.
func (c *Client) Close() {
	c.Pool.Close()
}
