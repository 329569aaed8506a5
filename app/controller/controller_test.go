package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mocketh/walletd/app/types"
	"github.com/mocketh/walletd/pkg/db"
	"github.com/mocketh/walletd/pkg/wallet"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const (
	addrA = "0xAAaAAAAAaAAAAAAAAAaaAAAAAaaaaAAAAAAAAaaa"
	addrB = "0xBBbBBBBBbBBBBBBBBBbbBBBBBbbbbBBBBBBBBbbb"
)

type memLedger struct {
	accounts map[string]*db.Account
	txs      []*db.Transaction
}

func (m *memLedger) seed(address string, balance int64) {
	m.accounts[strings.ToLower(address)] = &db.Account{
		ID:        uuid.New(),
		Address:   strings.ToLower(address),
		Balance:   decimal.NewFromInt(balance),
		CreatedAt: time.Now(),
	}
}

func (m *memLedger) CreateAccount(_ context.Context, address, email string) (*db.Account, error) {
	addr := strings.ToLower(address)
	if _, ok := m.accounts[addr]; ok {
		return nil, db.ErrAccountExists
	}
	a := &db.Account{ID: uuid.New(), Address: addr, Balance: db.StartingBalance, Email: email, CreatedAt: time.Now()}
	m.accounts[addr] = a
	return a, nil
}

func (m *memLedger) GetAccount(_ context.Context, address string) (*db.Account, error) {
	a, ok := m.accounts[strings.ToLower(address)]
	if !ok {
		return nil, db.ErrAccountNotFound
	}
	return a, nil
}

func (m *memLedger) AtomicTransfer(_ context.Context, p db.TransferParams) (*db.Transaction, error) {
	from, to := strings.ToLower(p.FromAddress), strings.ToLower(p.ToAddress)
	sender, ok := m.accounts[from]
	if !ok {
		return nil, db.ErrAccountNotFound
	}
	if sender.Balance.LessThan(p.Amount) {
		return nil, db.ErrInsufficientFunds
	}
	if _, ok := m.accounts[to]; !ok {
		m.seed(to, 0)
	}
	sender.Balance = sender.Balance.Sub(p.Amount)
	m.accounts[to].Balance = m.accounts[to].Balance.Add(p.Amount)
	tx := &db.Transaction{
		ID: uuid.New(), FromAddress: from, ToAddress: to, Amount: p.Amount,
		RateAtTime: p.Rate, Signature: p.Signature, TxHash: p.TxHash,
		Status: db.StatusCompleted, CreatedAt: time.Now(),
	}
	m.txs = append(m.txs, tx)
	return tx, nil
}

func (m *memLedger) ListTransactions(_ context.Context, address string, limit int) ([]*db.Transaction, error) {
	addr := strings.ToLower(address)
	var out []*db.Transaction
	for i := len(m.txs) - 1; i >= 0 && len(out) < limit; i-- {
		if m.txs[i].FromAddress == addr || m.txs[i].ToAddress == addr {
			out = append(out, m.txs[i])
		}
	}
	return out, nil
}

func (m *memLedger) GetTransaction(_ context.Context, txHash string) (*db.Transaction, error) {
	for _, tx := range m.txs {
		if tx.TxHash == txHash {
			return tx, nil
		}
	}
	return nil, db.ErrTxNotFound
}

type stubRates struct {
	rate decimal.Decimal
	err  error
}

func (s *stubRates) Rate(context.Context) (decimal.Decimal, error) {
	if s.err != nil {
		return decimal.Zero, s.err
	}
	return s.rate, nil
}

type stubVerifier struct{ valid bool }

func (s *stubVerifier) Bypassed(sig string) bool   { return sig == "0xbypass" }
func (s *stubVerifier) Verify(_, _, _ string) bool { return s.valid }

type noopNotifier struct{}

func (noopNotifier) Welcome(string, string, decimal.Decimal)                                    {}
func (noopNotifier) TransferSent(string, decimal.Decimal, string, string, *decimal.Decimal)     {}
func (noopNotifier) TransferReceived(string, decimal.Decimal, string, string, *decimal.Decimal) {}

type testEnv struct {
	router http.Handler
	ledger *memLedger
	rates  *stubRates
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	ledger := &memLedger{accounts: map[string]*db.Account{}}
	rates := &stubRates{rate: decimal.NewFromInt(2000)}
	logger := zaptest.NewLogger(t)

	engine := wallet.NewEngine(ledger, rates, &stubVerifier{}, noopNotifier{}, logger)
	ctler := NewController(&types.App{Logger: logger, Engine: engine})

	router, err := ctler.NewRouter()
	require.NoError(t, err)

	return &testEnv{router: router, ledger: ledger, rates: rates}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)

	var decoded map[string]any
	if rec.Body.Len() > 0 {
		_ = json.Unmarshal(rec.Body.Bytes(), &decoded)
	}
	return rec, decoded
}

func TestCreateWalletEndpoint(t *testing.T) {
	env := newTestEnv(t)

	rec, body := env.do(t, http.MethodPost, "/api/wallet/create", map[string]string{"address": addrA})
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, strings.ToLower(addrA), body["address"])
	assert.Equal(t, "100", body["balance"])

	rec, _ = env.do(t, http.MethodPost, "/api/wallet/create", map[string]string{"address": addrA})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec, _ = env.do(t, http.MethodPost, "/api/wallet/create", map[string]string{"address": "0x123"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = env.do(t, http.MethodPost, "/api/wallet/create", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBalanceEndpoint(t *testing.T) {
	env := newTestEnv(t)
	env.ledger.seed(addrA, 100)

	rec, body := env.do(t, http.MethodGet, "/api/wallet/"+addrA+"/balance", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "100", body["balance_eth"])
	assert.Equal(t, "200000", body["balance_usd"])
	assert.Equal(t, "2000", body["eth_price"])

	// Oracle outage degrades the fiat fields to null instead of failing.
	env.rates.err = errors.New("down")
	rec, body = env.do(t, http.MethodGet, "/api/wallet/"+addrA+"/balance", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, body["balance_usd"])
	assert.Nil(t, body["eth_price"])

	rec, _ = env.do(t, http.MethodGet, "/api/wallet/"+addrB+"/balance", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = env.do(t, http.MethodGet, "/api/wallet/nonsense/balance", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPriceEndpoint(t *testing.T) {
	env := newTestEnv(t)

	rec, body := env.do(t, http.MethodGet, "/api/price", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2000", body["eth_usd"])

	env.rates.err = errors.New("down")
	rec, _ = env.do(t, http.MethodGet, "/api/price", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestConvertEndpoint(t *testing.T) {
	env := newTestEnv(t)

	rec, body := env.do(t, http.MethodPost, "/api/convert", map[string]any{"usd": 200})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "0.1", body["eth"])
	assert.Equal(t, "2000", body["eth_price"])

	rec, _ = env.do(t, http.MethodPost, "/api/convert", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	env.rates.err = errors.New("down")
	rec, _ = env.do(t, http.MethodPost, "/api/convert", map[string]any{"eth": 1})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func sendBody(unit string) map[string]any {
	return map[string]any{
		"from":        addrA,
		"to":          addrB,
		"amount":      30,
		"amount_unit": unit,
		"signature":   "0xbypass",
		"message":     "transfer",
	}
}

func TestSendEndpoint(t *testing.T) {
	env := newTestEnv(t)
	env.ledger.seed(addrA, 100)

	rec, body := env.do(t, http.MethodPost, "/api/transaction/send", sendBody("eth"))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "30", body["amount_eth"])
	assert.Equal(t, "60000", body["amount_usd"])
	assert.NotEmpty(t, body["tx_hash"])

	// Receipt's hash resolves through the lookup endpoint.
	rec, got := env.do(t, http.MethodGet, "/api/transaction/"+body["tx_hash"].(string), nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, body["tx_hash"], got["tx_hash"])
}

func TestSendEndpoint_Failures(t *testing.T) {
	env := newTestEnv(t)
	env.ledger.seed(addrA, 10)

	// Insufficient funds.
	rec, _ := env.do(t, http.MethodPost, "/api/transaction/send", sendBody("eth"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Unknown sender.
	b := sendBody("eth")
	b["from"] = addrB
	rec, _ = env.do(t, http.MethodPost, "/api/transaction/send", b)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Bad signature.
	b = sendBody("eth")
	b["signature"] = "0xdeadbeef"
	rec, _ = env.do(t, http.MethodPost, "/api/transaction/send", b)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Fiat transfer during an oracle outage.
	env.rates.err = errors.New("down")
	rec, _ = env.do(t, http.MethodPost, "/api/transaction/send", sendBody("usd"))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	// Nothing committed along the way.
	acct, err := env.ledger.GetAccount(context.Background(), addrA)
	require.NoError(t, err)
	assert.True(t, acct.Balance.Equal(decimal.NewFromInt(10)))
	assert.Empty(t, env.ledger.txs)
}

func TestTransactionsEndpoint(t *testing.T) {
	env := newTestEnv(t)
	env.ledger.seed(addrA, 100)

	_, first := env.do(t, http.MethodPost, "/api/transaction/send", sendBody("eth"))
	_, second := env.do(t, http.MethodPost, "/api/transaction/send", sendBody("eth"))

	rec, body := env.do(t, http.MethodGet, "/api/transactions/"+addrA, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	txs := body["transactions"].([]any)
	require.Len(t, txs, 2)
	// Newest first.
	assert.Equal(t, second["tx_hash"], txs[0].(map[string]any)["tx_hash"])
	assert.Equal(t, first["tx_hash"], txs[1].(map[string]any)["tx_hash"])

	rec, _ = env.do(t, http.MethodGet, "/api/transactions/nonsense", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTransactionByHashEndpoint_NotFound(t *testing.T) {
	env := newTestEnv(t)

	rec, _ := env.do(t, http.MethodGet, "/api/transaction/0xmissing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealthEndpoint(t *testing.T) {
	env := newTestEnv(t)

	rec, body := env.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", body["status"])
	assert.NotEmpty(t, body["timestamp"])
}
