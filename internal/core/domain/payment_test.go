package domain_test

import (
	"math/big"
	"testing"

	"github.com/cardsonbase/cards-tcg-store/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAsset(t *testing.T) {
	t.Run("Known", func(t *testing.T) {
		for _, s := range []string{"CARDS", "USDC", "ETH"} {
			a, err := domain.ParseAsset(s)
			require.NoError(t, err)
			assert.Equal(t, s, string(a))
		}
	})

	t.Run("Unknown", func(t *testing.T) {
		_, err := domain.ParseAsset("DOGE")
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrUnknownAsset)
	})
}

func TestAssetProperties(t *testing.T) {
	assert.Equal(t, 9, domain.AssetCards.Decimals())
	assert.Equal(t, 6, domain.AssetUSDC.Decimals())
	assert.Equal(t, 18, domain.AssetETH.Decimals())

	assert.Equal(t, int64(1000), domain.AssetCards.DiscountBps())
	assert.Zero(t, domain.AssetUSDC.DiscountBps())
	assert.Zero(t, domain.AssetETH.DiscountBps())

	assert.True(t, domain.AssetCards.FreeShipping())
	assert.False(t, domain.AssetUSDC.FreeShipping())
	assert.False(t, domain.AssetETH.FreeShipping())
}

func TestBaseUnits(t *testing.T) {
	t.Run("ExactDivision", func(t *testing.T) {
		// $47.30 in USDC at $1.00: 47.30 * 10^6
		units, err := domain.BaseUnits(4730, big.NewRat(1, 1), 6)
		require.NoError(t, err)
		assert.Equal(t, "47300000", units.String())
	})

	t.Run("RoundsUp", func(t *testing.T) {
		// $1.00 at $3.00 per unit with 0 decimals must become 1, not 0
		units, err := domain.BaseUnits(100, big.NewRat(3, 1), 0)
		require.NoError(t, err)
		assert.Equal(t, "1", units.String())
	})

	t.Run("MerchantNeverUnderpaid", func(t *testing.T) {
		prices := []*big.Rat{
			new(big.Rat).SetFrac64(66593, 100000000000), // token microprice
			big.NewRat(1, 1),
			new(big.Rat).SetFrac64(311457, 100), // gas asset
		}
		decimals := []int{9, 6, 18}

		for i, price := range prices {
			for _, totalCents := range []int64{1, 99, 4730, 123457, 999999} {
				units, err := domain.BaseUnits(totalCents, price, decimals[i])
				require.NoError(t, err)

				// reconstructed = units / 10^dec * price, compared to total/100
				scale := new(big.Int).Exp(
					big.NewInt(10), big.NewInt(int64(decimals[i])), nil,
				)
				reconstructed := new(big.Rat).SetFrac(units, scale)
				reconstructed.Mul(reconstructed, price)

				quoted := new(big.Rat).SetFrac64(totalCents, 100)
				require.GreaterOrEqual(t, reconstructed.Cmp(quoted), 0,
					"price %s total %d", price, totalCents)
			}
		}
	})

	t.Run("RejectsNonPositiveTotal", func(t *testing.T) {
		_, err := domain.BaseUnits(0, big.NewRat(1, 1), 6)
		assert.ErrorIs(t, err, domain.ErrInvalidAmount)
	})

	t.Run("RejectsNonPositivePrice", func(t *testing.T) {
		_, err := domain.BaseUnits(100, big.NewRat(0, 1), 6)
		assert.ErrorIs(t, err, domain.ErrInvalidPrice)

		_, err = domain.BaseUnits(100, nil, 6)
		assert.ErrorIs(t, err, domain.ErrInvalidPrice)
	})
}

func TestDiscountCents(t *testing.T) {
	assert.Equal(t, int64(420), domain.DiscountCents(4200, 1000))
	assert.Zero(t, domain.DiscountCents(4200, 0))
	// rounds down, never over the advertised rate
	assert.Equal(t, int64(9), domain.DiscountCents(99, 1000))
}
