package db

import "context"

// Init creates the wallet tables if they do not exist.
func (c *Client) Init(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS accounts (
			id UUID PRIMARY KEY,
			address TEXT NOT NULL UNIQUE,
			balance NUMERIC(38,18) NOT NULL DEFAULT 0 CHECK (balance >= 0),
			email TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);

		CREATE TABLE IF NOT EXISTS transactions (
			id UUID PRIMARY KEY,
			from_address TEXT NOT NULL,
			to_address TEXT NOT NULL,
			amount NUMERIC(38,18) NOT NULL,
			rate_at_time NUMERIC(24,8),
			signature TEXT NOT NULL DEFAULT '',
			tx_hash TEXT NOT NULL UNIQUE,
			status TEXT NOT NULL DEFAULT 'completed',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);

		CREATE INDEX IF NOT EXISTS idx_transactions_from ON transactions(from_address);
		CREATE INDEX IF NOT EXISTS idx_transactions_to ON transactions(to_address);
		CREATE INDEX IF NOT EXISTS idx_transactions_created_at ON transactions(created_at DESC);
	`

	_, err := c.Pool.Exec(ctx, query)
	return err
}
