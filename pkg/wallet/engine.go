package wallet

import (
	"context"
	"strings"

	"github.com/mocketh/walletd/pkg/db"
	"github.com/mocketh/walletd/pkg/signature"
	"github.com/mocketh/walletd/pkg/utils"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Amount units accepted by Send.
const (
	UnitNative = "eth"
	UnitFiat   = "usd"
)

// NativePrecision is the decimal scale used when dividing fiat amounts into
// native units.
const NativePrecision = 18

// Ledger is the slice of the store the engine drives. The store owns both
// tables; the engine never mutates balances outside AtomicTransfer.
type Ledger interface {
	CreateAccount(ctx context.Context, address, email string) (*db.Account, error)
	GetAccount(ctx context.Context, address string) (*db.Account, error)
	AtomicTransfer(ctx context.Context, p db.TransferParams) (*db.Transaction, error)
	ListTransactions(ctx context.Context, address string, limit int) ([]*db.Transaction, error)
	GetTransaction(ctx context.Context, txHash string) (*db.Transaction, error)
}

// RateSource supplies the current native/fiat exchange rate.
type RateSource interface {
	Rate(ctx context.Context) (decimal.Decimal, error)
}

// SignatureChecker validates transfer authorization.
type SignatureChecker interface {
	Bypassed(sig string) bool
	Verify(message, sig, claimedAddress string) bool
}

// Notifier receives fire-and-forget notifications after committed operations.
type Notifier interface {
	Welcome(email, address string, balance decimal.Decimal)
	TransferSent(email string, amount decimal.Decimal, toAddress, txHash string, rate *decimal.Decimal)
	TransferReceived(email string, amount decimal.Decimal, fromAddress, txHash string, rate *decimal.Decimal)
}

// Engine orchestrates wallet operations over its collaborators.
type Engine struct {
	store    Ledger
	rates    RateSource
	verifier SignatureChecker
	notify   Notifier
	logger   *zap.Logger
}

func NewEngine(store Ledger, rates RateSource, verifier SignatureChecker, notify Notifier, logger *zap.Logger) *Engine {
	return &Engine{
		store:    store,
		rates:    rates,
		verifier: verifier,
		notify:   notify,
		logger:   logger,
	}
}

// SendRequest is one inbound transfer. AmountUnit defaults to native units.
type SendRequest struct {
	From       string
	To         string
	Amount     decimal.Decimal
	AmountUnit string
	Signature  string
	Message    string
}

// Receipt describes a committed transfer. AmountUSD is nil when no rate was
// known at transfer time.
type Receipt struct {
	TxHash    string
	AmountETH decimal.Decimal
	AmountUSD *decimal.Decimal
	From      string
	To        string
}

// Send runs one transfer end to end: validation, signature check, unit
// conversion against a single rate snapshot, the atomic store mutation, and
// post-commit notifications. If the store call fails nothing is observable:
// no balances move, no ledger row exists, no email goes out.
func (e *Engine) Send(ctx context.Context, req SendRequest) (*Receipt, error) {
	if req.From == "" || req.To == "" || req.Signature == "" || req.Message == "" || !req.Amount.IsPositive() {
		return nil, ErrInvalidRequest
	}
	if !signature.IsHexAddress(req.From) || !signature.IsHexAddress(req.To) {
		return nil, ErrInvalidRequest
	}

	unit := req.AmountUnit
	if unit == "" {
		unit = UnitNative
	}
	if unit != UnitNative && unit != UnitFiat {
		return nil, ErrInvalidRequest
	}

	if !e.verifier.Bypassed(req.Signature) && !e.verifier.Verify(req.Message, req.Signature, req.From) {
		return nil, ErrUnauthorized
	}

	// One rate snapshot serves conversion, the ledger row and the receipt,
	// so a single transfer never mixes prices.
	var rate *decimal.Decimal
	if r, err := e.rates.Rate(ctx); err == nil {
		rate = &r
	}

	amountNative := req.Amount
	if unit == UnitFiat {
		if rate == nil {
			return nil, ErrPriceUnavailable
		}
		amountNative = req.Amount.DivRound(*rate, NativePrecision)
	}

	tx, err := e.store.AtomicTransfer(ctx, db.TransferParams{
		FromAddress: req.From,
		ToAddress:   req.To,
		Amount:      amountNative,
		Rate:        rate,
		Signature:   req.Signature,
		TxHash:      utils.NewTxHash(),
	})
	if err != nil {
		return nil, err
	}

	e.notifyTransfer(ctx, tx)

	receipt := &Receipt{
		TxHash:    tx.TxHash,
		AmountETH: tx.Amount,
		From:      tx.FromAddress,
		To:        tx.ToAddress,
	}
	if rate != nil {
		usd := tx.Amount.Mul(*rate)
		receipt.AmountUSD = &usd
	}

	return receipt, nil
}

// notifyTransfer emails both parties of a committed transfer, best-effort.
func (e *Engine) notifyTransfer(ctx context.Context, tx *db.Transaction) {
	if sender, err := e.store.GetAccount(ctx, tx.FromAddress); err == nil && sender.Email != "" {
		e.notify.TransferSent(sender.Email, tx.Amount, tx.ToAddress, tx.TxHash, tx.RateAtTime)
	}
	if recipient, err := e.store.GetAccount(ctx, tx.ToAddress); err == nil && recipient.Email != "" {
		e.notify.TransferReceived(recipient.Email, tx.Amount, tx.FromAddress, tx.TxHash, tx.RateAtTime)
	}
}

// CreateWallet registers an address with the fixed starting balance and
// sends the welcome mail when an email was supplied.
func (e *Engine) CreateWallet(ctx context.Context, address, email string) (*db.Account, error) {
	if !signature.IsHexAddress(address) {
		return nil, ErrInvalidRequest
	}

	acct, err := e.store.CreateAccount(ctx, address, email)
	if err != nil {
		return nil, err
	}

	if acct.Email != "" {
		e.notify.Welcome(acct.Email, acct.Address, acct.Balance)
	}

	return acct, nil
}

// BalanceInfo is a wallet balance with its fiat equivalent. BalanceUSD and
// Rate are nil when the oracle is down; balance reads degrade rather than
// fail.
type BalanceInfo struct {
	Address    string
	BalanceETH decimal.Decimal
	BalanceUSD *decimal.Decimal
	Rate       *decimal.Decimal
}

func (e *Engine) Balance(ctx context.Context, address string) (*BalanceInfo, error) {
	if !signature.IsHexAddress(address) {
		return nil, ErrInvalidRequest
	}

	acct, err := e.store.GetAccount(ctx, address)
	if err != nil {
		return nil, err
	}

	info := &BalanceInfo{Address: strings.ToLower(address), BalanceETH: acct.Balance}
	if r, err := e.rates.Rate(ctx); err == nil {
		usd := acct.Balance.Mul(r)
		info.BalanceUSD = &usd
		info.Rate = &r
	}

	return info, nil
}

// Price returns the current exchange rate.
func (e *Engine) Price(ctx context.Context) (decimal.Decimal, error) {
	r, err := e.rates.Rate(ctx)
	if err != nil {
		return decimal.Zero, ErrPriceUnavailable
	}
	return r, nil
}

// Conversion is a USD/ETH pair under one rate.
type Conversion struct {
	USD  decimal.Decimal
	ETH  decimal.Decimal
	Rate decimal.Decimal
}

// Convert fills in the missing side of a USD/ETH pair using the current
// rate. Exactly one of usd, eth must be set; usd wins when both are.
func (e *Engine) Convert(ctx context.Context, usd, eth *decimal.Decimal) (*Conversion, error) {
	if usd == nil && eth == nil {
		return nil, ErrInvalidRequest
	}

	rate, err := e.rates.Rate(ctx)
	if err != nil {
		return nil, ErrPriceUnavailable
	}

	if usd != nil {
		return &Conversion{USD: *usd, ETH: usd.DivRound(rate, NativePrecision), Rate: rate}, nil
	}
	return &Conversion{USD: eth.Mul(rate), ETH: *eth, Rate: rate}, nil
}

// History returns the address's ledger entries, newest first.
func (e *Engine) History(ctx context.Context, address string) ([]*db.Transaction, error) {
	if !signature.IsHexAddress(address) {
		return nil, ErrInvalidRequest
	}
	return e.store.ListTransactions(ctx, address, db.HistoryLimit)
}

// TransactionByHash fetches one ledger entry.
func (e *Engine) TransactionByHash(ctx context.Context, txHash string) (*db.Transaction, error) {
	return e.store.GetTransaction(ctx, txHash)
}
