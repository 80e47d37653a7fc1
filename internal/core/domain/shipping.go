package domain

import (
	"math"
	"strconv"
)

// FallbackZone is applied when the ZIP prefix is not in the table. It is
// the most expensive zone, never an error.
const FallbackZone = 8

// First-three-digit ZIP prefix ranges mapped to shipping zones. Gaps inside
// a band (e.g. 702, 715, 621, 632) intentionally fall through to FallbackZone.
var zipZoneRanges = []struct {
	lo, hi int
	zone   int
}{
	{710, 714, 1}, {716, 719, 1}, {755, 759, 1},
	{700, 701, 2}, {703, 709, 2}, {750, 754, 2}, {760, 799, 2},
	{720, 731, 3}, {733, 741, 3}, {743, 749, 3},
	{600, 620, 5}, {622, 631, 5}, {633, 699, 5},
	{500, 516, 6}, {520, 522, 6}, {524, 528, 6}, {570, 577, 6}, {580, 595, 6},
	{10, 99, 7},
}

// ZoneForZIP resolves a 5-digit ZIP to a shipping zone in [1,8].
// The ZIP is validated upstream; a malformed prefix resolves to FallbackZone.
func ZoneForZIP(zip string) int {
	if len(zip) < 3 {
		return FallbackZone
	}
	prefix, err := strconv.Atoi(zip[:3])
	if err != nil {
		return FallbackZone
	}
	for _, r := range zipZoneRanges {
		if prefix >= r.lo && prefix <= r.hi {
			return r.zone
		}
	}
	return FallbackZone
}

// Flat rates in cents per (zone, weight bracket). Brackets are 2 oz wide up
// to the 16 oz ceiling; index 0 is unused.
var shippingRatesCents = [9][9]int64{
	1: {0, 480, 530, 580, 630, 680, 730, 780, 830},
	2: {0, 510, 570, 630, 690, 750, 810, 870, 930},
	3: {0, 540, 610, 680, 750, 820, 890, 960, 1030},
	4: {0, 570, 650, 730, 810, 890, 970, 1050, 1130},
	5: {0, 600, 690, 780, 870, 960, 1050, 1140, 1230},
	6: {0, 630, 730, 830, 930, 1030, 1130, 1230, 1330},
	7: {0, 660, 770, 880, 990, 1100, 1210, 1320, 1430},
	8: {0, 700, 820, 940, 1060, 1180, 1300, 1420, 1540},
}

// overageCents is charged per additional 16 oz beyond the bracket ceiling.
const overageCents = 1150

// WeightBracket maps a parcel weight in ounces to a rate-table bracket.
// Weight beyond 16 oz stays in the top bracket; the overage surcharge is
// applied separately.
func WeightBracket(weightOz float64) int {
	switch {
	case weightOz <= 4:
		return 1
	case weightOz <= 6:
		return 2
	case weightOz <= 8:
		return 3
	case weightOz <= 10:
		return 4
	case weightOz <= 12:
		return 5
	case weightOz <= 14:
		return 6
	case weightOz <= 15.999:
		return 7
	default:
		return 8
	}
}

// ShippingCostCents computes the cost of shipping weightOz ounces to the
// given zone. The result is ceiling-rounded to the nearest $0.05, the
// postage-rate convention. Pure and deterministic; zone must be in [1,8]
// and weightOz positive, both guaranteed by upstream validation.
func ShippingCostCents(zone int, weightOz float64) int64 {
	cost := shippingRatesCents[zone][WeightBracket(weightOz)]
	if weightOz > 16 {
		cost += int64(math.Ceil((weightOz-16)/16)) * overageCents
	}
	return ceilToNickel(cost)
}

func ceilToNickel(cents int64) int64 {
	return (cents + 4) / 5 * 5
}

// QuoteShipping is the shipping quote boundary exposed to the checkout
// flow: destination ZIP plus total parcel weight in, cost in cents out.
func QuoteShipping(zip string, weightOz float64) int64 {
	return ShippingCostCents(ZoneForZIP(zip), weightOz)
}
