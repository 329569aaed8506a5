package controller

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/mocketh/walletd/pkg/wallet"
	"github.com/shopspring/decimal"
)

type sendRequest struct {
	From       string          `json:"from"`
	To         string          `json:"to"`
	Amount     decimal.Decimal `json:"amount"`
	AmountUnit string          `json:"amount_unit"`
	Signature  string          `json:"signature"`
	Message    string          `json:"message"`
}

func (c *Controller) HandleSend(w http.ResponseWriter, r *http.Request) {
	var req sendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	receipt, err := c.App.Engine.Send(r.Context(), wallet.SendRequest{
		From:       req.From,
		To:         req.To,
		Amount:     req.Amount,
		AmountUnit: req.AmountUnit,
		Signature:  req.Signature,
		Message:    req.Message,
	})
	if err != nil {
		c.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"tx_hash":    receipt.TxHash,
		"amount_eth": receipt.AmountETH,
		"amount_usd": nullableDecimal(receipt.AmountUSD),
		"from":       receipt.From,
		"to":         receipt.To,
	})
}

func (c *Controller) HandleTransactions(w http.ResponseWriter, r *http.Request) {
	address := mux.Vars(r)["address"]

	txs, err := c.App.Engine.History(r.Context(), address)
	if err != nil {
		c.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"transactions": txs})
}

func (c *Controller) HandleTransactionByHash(w http.ResponseWriter, r *http.Request) {
	hash := mux.Vars(r)["hash"]

	tx, err := c.App.Engine.TransactionByHash(r.Context(), hash)
	if err != nil {
		c.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tx)
}
