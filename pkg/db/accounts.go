package db

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StartingBalance is credited to every explicitly created wallet.
var StartingBalance = decimal.NewFromInt(100)

// CreateAccount inserts a wallet with the canonical (lowercase) address and
// the fixed starting balance. Returns ErrAccountExists on a duplicate address.
func (c *Client) CreateAccount(ctx context.Context, address, email string) (*Account, error) {
	addr := strings.ToLower(address)

	var emailArg any
	if email != "" {
		emailArg = email
	}

	var a Account
	err := c.Pool.QueryRow(ctx, `
		INSERT INTO accounts (id, address, balance, email)
		VALUES ($1, $2, $3, $4)
		RETURNING id, address, balance, COALESCE(email, ''), created_at`,
		uuid.New(), addr, StartingBalance, emailArg,
	).Scan(&a.ID, &a.Address, &a.Balance, &a.Email, &a.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrAccountExists
		}
		return nil, err
	}

	return &a, nil
}

// GetAccount looks up a wallet by address, case-insensitively.
func (c *Client) GetAccount(ctx context.Context, address string) (*Account, error) {
	var a Account
	err := c.Pool.QueryRow(ctx, `
		SELECT id, address, balance, COALESCE(email, ''), created_at
		FROM accounts WHERE address = $1`,
		strings.ToLower(address),
	).Scan(&a.ID, &a.Address, &a.Balance, &a.Email, &a.CreatedAt)
	if err != nil {
		if IsNoRows(err) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}

	return &a, nil
}
