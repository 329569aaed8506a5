package price

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/mocketh/walletd/pkg/utils"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DefaultAPIURL is the CoinGecko simple-price endpoint for ETH/USD.
const DefaultAPIURL = "https://api.coingecko.com/api/v3/simple/price?ids=ethereum&vs_currencies=usd"

// ErrUnavailable is the only error Rate returns. Callers must treat an
// unavailable rate as a first-class outcome, not an exception.
var ErrUnavailable = errors.New("price source unavailable")

// Oracle fetches the current ETH/USD rate from an external price source with
// a bounded timeout. When a Cache is attached, fetched rates are served from
// it for a short TTL; cache failures never surface to callers.
type Oracle struct {
	url    string
	client *http.Client
	cache  *Cache
	logger *zap.Logger
}

// New returns an oracle reading PRICE_API_URL (CoinGecko by default) with a
// 5 second request timeout. cache may be nil.
func New(logger *zap.Logger, cache *Cache) *Oracle {
	return &Oracle{
		url:    utils.Env("PRICE_API_URL", DefaultAPIURL),
		client: &http.Client{Timeout: 5 * time.Second},
		cache:  cache,
		logger: logger,
	}
}

// Rate returns the current ETH/USD rate or ErrUnavailable. Network errors,
// non-200 responses and malformed bodies all collapse into ErrUnavailable;
// the underlying cause is logged, never returned.
func (o *Oracle) Rate(ctx context.Context) (decimal.Decimal, error) {
	if o.cache != nil {
		if rate, ok := o.cache.Get(ctx); ok {
			return rate, nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.url, nil)
	if err != nil {
		o.logger.Warn("Failed to build price request", zap.Error(err))
		return decimal.Zero, ErrUnavailable
	}

	resp, err := o.client.Do(req)
	if err != nil {
		o.logger.Warn("Price fetch failed", zap.Error(err))
		return decimal.Zero, ErrUnavailable
	}

	if resp.StatusCode != http.StatusOK {
		_ = utils.DrainAndClose(resp.Body)
		o.logger.Warn("Price source returned non-200", zap.Int("status", resp.StatusCode))
		return decimal.Zero, ErrUnavailable
	}

	var body struct {
		Ethereum struct {
			USD json.Number `json:"usd"`
		} `json:"ethereum"`
	}
	decodeErr := json.NewDecoder(resp.Body).Decode(&body)
	_ = utils.DrainAndClose(resp.Body)
	if decodeErr != nil {
		o.logger.Warn("Malformed price response", zap.Error(decodeErr))
		return decimal.Zero, ErrUnavailable
	}

	rate, err := decimal.NewFromString(body.Ethereum.USD.String())
	if err != nil || !rate.IsPositive() {
		o.logger.Warn("Price response missing usable rate", zap.String("usd", body.Ethereum.USD.String()))
		return decimal.Zero, ErrUnavailable
	}

	if o.cache != nil {
		o.cache.Set(ctx, rate)
	}

	return rate, nil
}
