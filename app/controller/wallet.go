package controller

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
)

type createWalletRequest struct {
	Address string `json:"address"`
	Email   string `json:"email"`
}

func (c *Controller) HandleCreateWallet(w http.ResponseWriter, r *http.Request) {
	var req createWalletRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Address == "" {
		writeError(w, http.StatusBadRequest, "address is required")
		return
	}

	acct, err := c.App.Engine.CreateWallet(r.Context(), req.Address, req.Email)
	if err != nil {
		c.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"address": acct.Address,
		"balance": acct.Balance,
	})
}

func (c *Controller) HandleBalance(w http.ResponseWriter, r *http.Request) {
	address := mux.Vars(r)["address"]

	info, err := c.App.Engine.Balance(r.Context(), address)
	if err != nil {
		c.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"address":     info.Address,
		"balance_eth": info.BalanceETH,
		"balance_usd": nullableDecimal(info.BalanceUSD),
		"eth_price":   nullableDecimal(info.Rate),
	})
}

// nullableDecimal keeps nil pointers rendering as JSON null.
func nullableDecimal(d *decimal.Decimal) any {
	if d == nil {
		return nil
	}
	return *d
}
