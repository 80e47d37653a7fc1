package domain_test

import (
	"math/big"
	"testing"
	"time"

	"github.com/cardsonbase/cards-tcg-store/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComposeTotal(t *testing.T) {
	usdc := big.NewRat(1, 1)

	t.Run("SubtotalPlusShipping", func(t *testing.T) {
		// $42.00 cart, zone 1, 6 oz -> $5.30 shipping -> $47.30 total
		shipping := domain.QuoteShipping("71001", 6)
		require.Equal(t, int64(530), shipping)

		total, err := domain.ComposeTotal(4200, shipping, domain.AssetUSDC, usdc)
		require.NoError(t, err)

		assert.Equal(t, int64(4730), total.TotalCents)
		assert.Zero(t, total.DiscountCents)
		assert.Equal(t, "47300000", total.Payable.String())
	})

	t.Run("PlatformTokenDiscountAndFreeShipping", func(t *testing.T) {
		price := new(big.Rat).SetFrac64(5, 100) // $0.05 per CARDS

		total, err := domain.ComposeTotal(4200, 530, domain.AssetCards, price)
		require.NoError(t, err)

		assert.Equal(t, int64(420), total.DiscountCents)
		assert.Zero(t, total.ShippingCents)
		assert.Equal(t, int64(3780), total.TotalCents)
		// 37.80 / 0.05 = 756 tokens, in 9-decimal base units
		assert.Equal(t, "756000000000", total.Payable.String())
	})

	t.Run("PropagatesPriceError", func(t *testing.T) {
		_, err := domain.ComposeTotal(4200, 530, domain.AssetETH, nil)
		assert.ErrorIs(t, err, domain.ErrInvalidPrice)
	})
}

func TestCheckoutStateMachine(t *testing.T) {
	now := time.Now()

	newSession := func() *domain.CheckoutSession {
		return &domain.CheckoutSession{
			ID:    "s1",
			State: domain.StateBrowsing,
		}
	}

	t.Run("HappyPath", func(t *testing.T) {
		cs := newSession()
		steps := []domain.CheckoutState{
			domain.StateAddressEntered,
			domain.StateShippingQuoted,
			domain.StateTermsAccepted,
			domain.StatePaymentSubmitted,
			domain.StateConfirmed,
		}
		for _, next := range steps {
			require.NoError(t, cs.Advance(next, now))
		}
		assert.True(t, cs.State.Terminal())
	})

	t.Run("CannotSkipQuote", func(t *testing.T) {
		cs := newSession()
		require.NoError(t, cs.Advance(domain.StateAddressEntered, now))

		err := cs.Advance(domain.StateTermsAccepted, now)
		assert.ErrorIs(t, err, domain.ErrIllegalTransition)
	})

	t.Run("RequoteAfterAddressChange", func(t *testing.T) {
		cs := newSession()
		require.NoError(t, cs.Advance(domain.StateAddressEntered, now))
		require.NoError(t, cs.Advance(domain.StateShippingQuoted, now))
		// editing the address drops back and requires a fresh quote
		require.NoError(t, cs.Advance(domain.StateAddressEntered, now))
		err := cs.Advance(domain.StateTermsAccepted, now)
		assert.ErrorIs(t, err, domain.ErrIllegalTransition)
	})

	t.Run("TerminalIsFinal", func(t *testing.T) {
		cs := newSession()
		cs.Fail("expired", now)
		assert.Equal(t, domain.StateFailed, cs.State)

		err := cs.Advance(domain.StateAddressEntered, now)
		assert.ErrorIs(t, err, domain.ErrIllegalTransition)

		// Fail on a terminal session is a no-op
		cs.State = domain.StateConfirmed
		cs.Fail("late", now)
		assert.Equal(t, domain.StateConfirmed, cs.State)
	})
}
