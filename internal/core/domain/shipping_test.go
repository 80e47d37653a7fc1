package domain_test

import (
	"fmt"
	"testing"

	"github.com/cardsonbase/cards-tcg-store/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZoneForZIP(t *testing.T) {
	t.Run("KnownPrefixes", func(t *testing.T) {
		tests := []struct {
			zip  string
			zone int
		}{
			{"71001", 1},
			{"75601", 1},
			{"70112", 2},
			{"76102", 2},
			{"72201", 3},
			{"60601", 5},
			{"50309", 6},
			{"57101", 6},
			{"02108", 7},
			{"10001", 8},
		}
		for _, tc := range tests {
			t.Run(tc.zip, func(t *testing.T) {
				assert.Equal(t, tc.zone, domain.ZoneForZIP(tc.zip))
			})
		}
	})

	t.Run("UnknownPrefixFallsBack", func(t *testing.T) {
		assert.Equal(t, domain.FallbackZone, domain.ZoneForZIP("99999"))
	})

	t.Run("GapsInsideBandsFallBack", func(t *testing.T) {
		// 702, 715 and 632 sit between mapped ranges.
		assert.Equal(t, domain.FallbackZone, domain.ZoneForZIP("70250"))
		assert.Equal(t, domain.FallbackZone, domain.ZoneForZIP("71500"))
		assert.Equal(t, domain.FallbackZone, domain.ZoneForZIP("63201"))
		// the prefixes flanking the 632 gap stay in zone 5
		assert.Equal(t, 5, domain.ZoneForZIP("63101"))
		assert.Equal(t, 5, domain.ZoneForZIP("63301"))
	})

	t.Run("AlwaysInRange", func(t *testing.T) {
		for prefix := 0; prefix < 1000; prefix++ {
			zip := fmt.Sprintf("%03d00", prefix)
			zone := domain.ZoneForZIP(zip)
			require.GreaterOrEqual(t, zone, 1)
			require.LessOrEqual(t, zone, 8)
		}
	})

	t.Run("Deterministic", func(t *testing.T) {
		assert.Equal(t, domain.ZoneForZIP("60601"), domain.ZoneForZIP("60601"))
	})
}

func TestWeightBracket(t *testing.T) {
	tests := []struct {
		weightOz float64
		bracket  int
	}{
		{0.5, 1},
		{4, 1},
		{4.01, 2},
		{6, 2},
		{8, 3},
		{10, 4},
		{12, 5},
		{14, 6},
		{15.999, 7},
		{16, 8},
		{40, 8},
	}
	for _, tc := range tests {
		t.Run(fmt.Sprintf("%.3foz", tc.weightOz), func(t *testing.T) {
			assert.Equal(t, tc.bracket, domain.WeightBracket(tc.weightOz))
		})
	}
}

func TestShippingCostCents(t *testing.T) {
	t.Run("Zone1SixOunces", func(t *testing.T) {
		assert.Equal(t, int64(530), domain.ShippingCostCents(1, 6))
	})

	t.Run("FallbackZoneHeaviestBracket", func(t *testing.T) {
		assert.Equal(t, int64(1540), domain.ShippingCostCents(8, 16))
	})

	t.Run("OverageBeyondCeiling", func(t *testing.T) {
		// one extra 16 oz block on top of the zone 1 top bracket
		assert.Equal(t, int64(830+1150), domain.ShippingCostCents(1, 17))
		// two extra blocks
		assert.Equal(t, int64(830+2300), domain.ShippingCostCents(1, 33))
	})

	t.Run("MonotonicInWeight", func(t *testing.T) {
		for zone := 1; zone <= 8; zone++ {
			prev := int64(0)
			for w := 0.5; w <= 64; w += 0.5 {
				cost := domain.ShippingCostCents(zone, w)
				require.GreaterOrEqual(t, cost, prev,
					"zone %d weight %.1f", zone, w)
				prev = cost
			}
		}
	})

	t.Run("NickelRounding", func(t *testing.T) {
		for zone := 1; zone <= 8; zone++ {
			for w := 0.3; w <= 48; w += 0.7 {
				cost := domain.ShippingCostCents(zone, w)
				require.Zero(t, cost%5, "zone %d weight %.1f", zone, w)
			}
		}
	})

	t.Run("NeverBelowLightestZone1Rate", func(t *testing.T) {
		for zone := 1; zone <= 8; zone++ {
			for w := 0.5; w <= 48; w += 1.5 {
				require.GreaterOrEqual(
					t, domain.ShippingCostCents(zone, w), int64(480),
				)
			}
		}
	})
}

func TestQuoteShipping(t *testing.T) {
	t.Run("ComposesZoneAndRate", func(t *testing.T) {
		assert.Equal(t, int64(530), domain.QuoteShipping("71001", 6))
	})

	t.Run("UnknownZIPMostExpensive", func(t *testing.T) {
		assert.Equal(t, int64(700), domain.QuoteShipping("99999", 2))
	})

	t.Run("Idempotent", func(t *testing.T) {
		first := domain.QuoteShipping("60601", 11.5)
		second := domain.QuoteShipping("60601", 11.5)
		assert.Equal(t, first, second)
	})
}
