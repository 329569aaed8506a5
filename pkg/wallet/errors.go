package wallet

import "errors"

var (
	// ErrInvalidRequest covers missing fields, non-positive amounts, unknown
	// units and malformed addresses.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrUnauthorized means the signature did not recover to the sender.
	ErrUnauthorized = errors.New("invalid signature")
	// ErrPriceUnavailable blocks fiat-denominated operations while the
	// oracle is unreachable.
	ErrPriceUnavailable = errors.New("exchange rate unavailable")
)
