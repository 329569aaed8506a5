package controller

import (
	"errors"
	"net/http"

	"github.com/mocketh/walletd/pkg/db"
	"github.com/mocketh/walletd/pkg/wallet"
	"go.uber.org/zap"
)

// writeDomainError maps engine and store errors to stable statuses and short
// reason strings. Anything unrecognized is a 500 with no internals leaked.
func (c *Controller) writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, wallet.ErrInvalidRequest):
		writeError(w, http.StatusBadRequest, "invalid request")
	case errors.Is(err, wallet.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "invalid signature")
	case errors.Is(err, wallet.ErrPriceUnavailable):
		writeError(w, http.StatusServiceUnavailable, "failed to fetch ETH price")
	case errors.Is(err, db.ErrAccountExists):
		writeError(w, http.StatusConflict, "wallet already exists")
	case errors.Is(err, db.ErrAccountNotFound):
		writeError(w, http.StatusNotFound, "wallet not found")
	case errors.Is(err, db.ErrTxNotFound):
		writeError(w, http.StatusNotFound, "transaction not found")
	case errors.Is(err, db.ErrInsufficientFunds):
		writeError(w, http.StatusBadRequest, "insufficient balance")
	default:
		c.App.Logger.Error("Request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
