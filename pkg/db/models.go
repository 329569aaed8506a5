package db

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Transaction statuses. Rows are only written once committed, so everything
// durably observed is completed; pending/failed are reserved for multi-step
// flows.
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Account is a wallet: a lowercase address and its native-unit balance.
type Account struct {
	ID        uuid.UUID       `json:"id"`
	Address   string          `json:"address"`
	Balance   decimal.Decimal `json:"balance"`
	Email     string          `json:"email,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// Transaction is one immutable ledger entry. Amount is always native units;
// RateAtTime snapshots the fiat rate used at transfer time, nil when no rate
// was known.
type Transaction struct {
	ID          uuid.UUID        `json:"id"`
	FromAddress string           `json:"from_address"`
	ToAddress   string           `json:"to_address"`
	Amount      decimal.Decimal  `json:"amount"`
	RateAtTime  *decimal.Decimal `json:"rate_at_time"`
	Signature   string           `json:"signature"`
	TxHash      string           `json:"tx_hash"`
	Status      string           `json:"status"`
	CreatedAt   time.Time        `json:"created_at"`
}
