package db

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// TransferParams carries one validated transfer into the store. Amount is in
// native units; Rate is the fiat snapshot captured by the caller, nil when
// the oracle had no price.
type TransferParams struct {
	FromAddress string
	ToAddress   string
	Amount      decimal.Decimal
	Rate        *decimal.Decimal
	Signature   string
	TxHash      string
}

// AtomicTransfer debits the sender, credits the recipient (creating it with a
// zero balance if absent) and appends the ledger row, all inside a single
// transaction. The FOR UPDATE lock on the sender row serializes concurrent
// transfers from the same account, so two racing overdrafts can never both
// pass the balance check.
func (c *Client) AtomicTransfer(ctx context.Context, p TransferParams) (*Transaction, error) {
	from := strings.ToLower(p.FromAddress)
	to := strings.ToLower(p.ToAddress)

	var out Transaction
	err := pgx.BeginFunc(ctx, c.Pool, func(tx pgx.Tx) error {
		var balance decimal.Decimal
		err := tx.QueryRow(ctx,
			`SELECT balance FROM accounts WHERE address = $1 FOR UPDATE`, from,
		).Scan(&balance)
		if err != nil {
			if IsNoRows(err) {
				return ErrAccountNotFound
			}
			return err
		}

		if balance.LessThan(p.Amount) {
			return ErrInsufficientFunds
		}

		// Recipient upsert lives inside the same transaction so two
		// concurrent first-time transfers cannot both observe it absent.
		if _, err := tx.Exec(ctx, `
			INSERT INTO accounts (id, address, balance)
			VALUES ($1, $2, 0)
			ON CONFLICT (address) DO NOTHING`,
			uuid.New(), to,
		); err != nil {
			return err
		}

		if _, err := tx.Exec(ctx,
			`UPDATE accounts SET balance = balance - $1 WHERE address = $2`,
			p.Amount, from,
		); err != nil {
			return err
		}

		if _, err := tx.Exec(ctx,
			`UPDATE accounts SET balance = balance + $1 WHERE address = $2`,
			p.Amount, to,
		); err != nil {
			return err
		}

		err = tx.QueryRow(ctx, `
			INSERT INTO transactions (id, from_address, to_address, amount, rate_at_time, signature, tx_hash, status)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING id, from_address, to_address, amount, rate_at_time, signature, tx_hash, status, created_at`,
			uuid.New(), from, to, p.Amount, p.Rate, p.Signature, p.TxHash, StatusCompleted,
		).Scan(&out.ID, &out.FromAddress, &out.ToAddress, &out.Amount, &out.RateAtTime,
			&out.Signature, &out.TxHash, &out.Status, &out.CreatedAt)
		if err != nil {
			if isUniqueViolation(err) {
				return ErrDuplicateTxHash
			}
			return err
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &out, nil
}

// HistoryLimit caps how many ledger entries a single history query returns.
const HistoryLimit = 50

// ListTransactions returns the ledger entries where the address is sender or
// recipient, newest first, capped at HistoryLimit.
func (c *Client) ListTransactions(ctx context.Context, address string, limit int) ([]*Transaction, error) {
	if limit <= 0 || limit > HistoryLimit {
		limit = HistoryLimit
	}

	rows, err := c.Pool.Query(ctx, `
		SELECT id, from_address, to_address, amount, rate_at_time, signature, tx_hash, status, created_at
		FROM transactions
		WHERE from_address = $1 OR to_address = $1
		ORDER BY created_at DESC
		LIMIT $2`,
		strings.ToLower(address), limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	txs := make([]*Transaction, 0, limit)
	for rows.Next() {
		var t Transaction
		if err := rows.Scan(&t.ID, &t.FromAddress, &t.ToAddress, &t.Amount, &t.RateAtTime,
			&t.Signature, &t.TxHash, &t.Status, &t.CreatedAt); err != nil {
			return nil, err
		}
		txs = append(txs, &t)
	}

	return txs, rows.Err()
}

// GetTransaction fetches a single ledger entry by its tx hash.
func (c *Client) GetTransaction(ctx context.Context, txHash string) (*Transaction, error) {
	var t Transaction
	err := c.Pool.QueryRow(ctx, `
		SELECT id, from_address, to_address, amount, rate_at_time, signature, tx_hash, status, created_at
		FROM transactions WHERE tx_hash = $1`,
		txHash,
	).Scan(&t.ID, &t.FromAddress, &t.ToAddress, &t.Amount, &t.RateAtTime,
		&t.Signature, &t.TxHash, &t.Status, &t.CreatedAt)
	if err != nil {
		if IsNoRows(err) {
			return nil, ErrTxNotFound
		}
		return nil, err
	}

	return &t, nil
}
