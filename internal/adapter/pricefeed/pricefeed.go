package pricefeed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/cardsonbase/cards-tcg-store/internal/core/domain"
	"github.com/cardsonbase/cards-tcg-store/internal/core/port"
	"github.com/cardsonbase/cards-tcg-store/pkg/retry"
)

var ErrNoPairData = errors.New("no pair data in feed response")

var _ port.PriceSource = (*Feed)(nil)

type httpDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// A pairsResponse mirrors the DEX aggregator payload.
//
// PriceUSD is the asset price in dollars, PriceNative the same price
// denominated in the chain's gas token.
type pairsResponse struct {
	Pairs []struct {
		PriceUSD    string `json:"priceUsd"`
		PriceNative string `json:"priceNative"`
	} `json:"pairs"`
}

// A Feed polls a DEX pair endpoint and caches the asset prices
// needed to convert checkout totals.
//
// USDC is pinned at one dollar. The gas-token price is derived from
// the pair's two quotes, so one endpoint covers every asset.
type Feed struct {
	opPrefix     string
	client       httpDoer
	pairURL      string
	pollInterval time.Duration

	mu        sync.RWMutex
	cardsUSD  *big.Rat
	nativeUSD *big.Rat
}

func New(pairURL string, pollInterval time.Duration) *Feed {
	return &Feed{
		opPrefix:     "Feed",
		client:       &http.Client{Timeout: 10 * time.Second},
		pairURL:      pairURL,
		pollInterval: pollInterval,
	}
}

// Run polls until the context is done. The first poll happens
// immediately so checkout is usable right after startup.
func (f *Feed) Run(ctx context.Context) {
	const op = "Run"
	log := slog.With("op", makeOp(f.opPrefix, op))

	log.Info("running", "pairURL", f.pairURL, "interval", f.pollInterval)

	ticker := time.NewTicker(f.pollInterval)
	defer ticker.Stop()

	for {
		if err := f.poll(ctx); err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			log.Error("failed to refresh prices", "err", err)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (f *Feed) PriceUSD(asset domain.Asset) (*big.Rat, error) {
	const op = "PriceUSD"

	if asset == domain.AssetUSDC {
		return big.NewRat(1, 1), nil
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	var price *big.Rat
	switch asset {
	case domain.AssetCards:
		price = f.cardsUSD
	case domain.AssetETH:
		price = f.nativeUSD
	default:
		return nil, opErr(domain.ErrUnknownAsset, f.opPrefix, op)
	}

	if price == nil {
		return nil, opErr(domain.ErrPriceUnavailable, f.opPrefix, op)
	}
	return new(big.Rat).Set(price), nil
}

func (f *Feed) poll(ctx context.Context) error {
	const op = "poll"

	retryConfig := retry.RetryConfig{
		MaxAttempts: 3,
		Backoff:     retry.ExponentialBackoff(500 * time.Millisecond),
	}

	res, err := retry.DoWithResult(ctx, retryConfig, func() (pairsResponse, error) {
		return f.fetch(ctx)
	})
	if err != nil {
		return opErr(err, f.opPrefix, op)
	}

	cardsUSD, nativeUSD, err := derivePrices(res)
	if err != nil {
		return opErr(err, f.opPrefix, op)
	}

	f.mu.Lock()
	f.cardsUSD = cardsUSD
	f.nativeUSD = nativeUSD
	f.mu.Unlock()
	return nil
}

func (f *Feed) fetch(ctx context.Context) (pairsResponse, error) {
	const op = "fetch"

	var res pairsResponse

	req, err := http.NewRequestWithContext(
		ctx, http.MethodGet, f.pairURL, nil,
	)
	if err != nil {
		return res, opErr(err, f.opPrefix, op)
	}
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := f.client.Do(req)
	if err != nil {
		return res, opErr(err, f.opPrefix, op)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return res, opErr(
			fmt.Errorf("unexpected status %d", resp.StatusCode),
			f.opPrefix, op,
		)
	}

	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return res, opErr(err, f.opPrefix, op)
	}
	return res, nil
}

// derivePrices returns the pair asset's dollar price and the
// gas token's dollar price, the latter as priceUsd over priceNative.
func derivePrices(res pairsResponse) (cardsUSD, nativeUSD *big.Rat, err error) {
	if len(res.Pairs) == 0 {
		return nil, nil, ErrNoPairData
	}
	pair := res.Pairs[0]

	cardsUSD, ok := new(big.Rat).SetString(pair.PriceUSD)
	if !ok || cardsUSD.Sign() <= 0 {
		return nil, nil, fmt.Errorf("invalid priceUsd %q", pair.PriceUSD)
	}

	priceNative, ok := new(big.Rat).SetString(pair.PriceNative)
	if !ok || priceNative.Sign() <= 0 {
		return nil, nil, fmt.Errorf("invalid priceNative %q", pair.PriceNative)
	}

	nativeUSD = new(big.Rat).Quo(cardsUSD, priceNative)
	return cardsUSD, nativeUSD, nil
}

func makeOp(s ...string) string {
	return strings.Join(s, ".")
}

func opErr(err error, op ...string) error {
	return fmt.Errorf("%s: %w", makeOp(op...), err)
}
