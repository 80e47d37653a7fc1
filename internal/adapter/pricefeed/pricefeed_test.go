package pricefeed

import (
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cardsonbase/cards-tcg-store/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pairsPayload = `{
	"pairs": [
		{"priceUsd": "0.00000066593", "priceNative": "0.0000000002"}
	]
}`

func newTestFeed(t *testing.T, handler http.HandlerFunc) *Feed {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	f := New(srv.URL, time.Minute)
	f.client = srv.Client()
	return f
}

func TestPriceUSD(t *testing.T) {
	t.Run("USDCIsAlwaysOneDollar", func(t *testing.T) {
		f := New("http://127.0.0.1:0", time.Minute)
		price, err := f.PriceUSD(domain.AssetUSDC)
		require.NoError(t, err)
		assert.Zero(t, price.Cmp(big.NewRat(1, 1)))
	})

	t.Run("UnavailableBeforeFirstPoll", func(t *testing.T) {
		f := New("http://127.0.0.1:0", time.Minute)

		_, err := f.PriceUSD(domain.AssetCards)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrPriceUnavailable)

		_, err = f.PriceUSD(domain.AssetETH)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrPriceUnavailable)
	})

	t.Run("UnknownAsset", func(t *testing.T) {
		f := New("http://127.0.0.1:0", time.Minute)
		_, err := f.PriceUSD(domain.Asset("DOGE"))
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrUnknownAsset)
	})

	t.Run("ServesPolledPrices", func(t *testing.T) {
		f := newTestFeed(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(pairsPayload))
		})

		require.NoError(t, f.poll(t.Context()))

		cards, err := f.PriceUSD(domain.AssetCards)
		require.NoError(t, err)
		wantCards, _ := new(big.Rat).SetString("0.00000066593")
		assert.Zero(t, cards.Cmp(wantCards))

		eth, err := f.PriceUSD(domain.AssetETH)
		require.NoError(t, err)
		wantETH := new(big.Rat).Quo(
			wantCards, big.NewRat(2, 10000000000),
		)
		assert.Zero(t, eth.Cmp(wantETH))
	})

	t.Run("CallerCannotMutateCache", func(t *testing.T) {
		f := newTestFeed(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(pairsPayload))
		})
		require.NoError(t, f.poll(t.Context()))

		price, err := f.PriceUSD(domain.AssetCards)
		require.NoError(t, err)
		price.SetInt64(0)

		again, err := f.PriceUSD(domain.AssetCards)
		require.NoError(t, err)
		assert.Positive(t, again.Sign())
	})
}

func TestPoll(t *testing.T) {
	t.Run("EmptyPairs", func(t *testing.T) {
		f := newTestFeed(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"pairs": []}`))
		})

		err := f.poll(t.Context())
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrNoPairData)
	})

	t.Run("InvalidPrice", func(t *testing.T) {
		f := newTestFeed(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(
				`{"pairs": [{"priceUsd": "-1", "priceNative": "0.1"}]}`,
			))
		})

		err := f.poll(t.Context())
		require.Error(t, err)
	})

	t.Run("KeepsLastGoodPriceOnFailure", func(t *testing.T) {
		healthy := true
		f := newTestFeed(t, func(w http.ResponseWriter, r *http.Request) {
			if !healthy {
				w.WriteHeader(http.StatusBadGateway)
				return
			}
			w.Write([]byte(pairsPayload))
		})

		require.NoError(t, f.poll(t.Context()))
		healthy = false
		require.Error(t, f.poll(t.Context()))

		_, err := f.PriceUSD(domain.AssetCards)
		assert.NoError(t, err)
	})
}
