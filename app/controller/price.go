package controller

import (
	"encoding/json"
	"net/http"

	"github.com/shopspring/decimal"
)

func (c *Controller) HandlePrice(w http.ResponseWriter, r *http.Request) {
	rate, err := c.App.Engine.Price(r.Context())
	if err != nil {
		c.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"eth_usd": rate})
}

type convertRequest struct {
	USD *decimal.Decimal `json:"usd"`
	ETH *decimal.Decimal `json:"eth"`
}

func (c *Controller) HandleConvert(w http.ResponseWriter, r *http.Request) {
	var req convertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.USD == nil && req.ETH == nil {
		writeError(w, http.StatusBadRequest, "provide either USD or ETH amount")
		return
	}

	conv, err := c.App.Engine.Convert(r.Context(), req.USD, req.ETH)
	if err != nil {
		c.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"usd":       conv.USD,
		"eth":       conv.ETH,
		"eth_price": conv.Rate,
	})
}
