package domain

import (
	"errors"
	"fmt"
	"math/big"
)

var (
	ErrUnknownAsset     = errors.New("unknown payment asset")
	ErrInvalidPrice     = errors.New("unit price must be positive")
	ErrInvalidAmount    = errors.New("amount must be positive")
	ErrPriceUnavailable = errors.New("asset price unavailable")
)

// An Asset is a payment option the store accepts on-chain.
type Asset string

const (
	AssetCards Asset = "CARDS" // platform token
	AssetUSDC  Asset = "USDC"
	AssetETH   Asset = "ETH"
)

func ParseAsset(s string) (Asset, error) {
	switch Asset(s) {
	case AssetCards, AssetUSDC, AssetETH:
		return Asset(s), nil
	}
	return "", fmt.Errorf("%q: %w", s, ErrUnknownAsset)
}

// Decimals is the asset's fixed base-unit precision.
func (a Asset) Decimals() int {
	switch a {
	case AssetCards:
		return 9
	case AssetUSDC:
		return 6
	case AssetETH:
		return 18
	}
	return 0
}

// DiscountBps is the payment-method discount in basis points off the
// items subtotal. Paying in the platform token earns 10% off.
func (a Asset) DiscountBps() int64 {
	if a == AssetCards {
		return 1000
	}
	return 0
}

// FreeShipping reports whether the payment method overrides the shipping
// quote to zero.
func (a Asset) FreeShipping() bool {
	return a == AssetCards
}

// DiscountCents applies a basis-point discount to a subtotal, rounding
// down so the discount never exceeds the advertised rate.
func DiscountCents(subtotalCents, bps int64) int64 {
	return subtotalCents * bps / 10000
}

// BaseUnits converts a USD total to the asset's smallest integer unit at
// the given USD unit price, rounding up. Ceiling rounding means the
// reconstructed USD value of the result is never below the quoted total:
// truncation must not shortchange the merchant.
func BaseUnits(totalCents int64, unitPriceUsd *big.Rat, decimals int) (*big.Int, error) {
	const op = "BaseUnits"

	if totalCents <= 0 {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidAmount)
	}
	if unitPriceUsd == nil || unitPriceUsd.Sign() <= 0 {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidPrice)
	}

	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)

	// totalCents/100 / price * 10^decimals
	r := new(big.Rat).SetFrac(big.NewInt(totalCents), big.NewInt(100))
	r.Quo(r, unitPriceUsd)
	r.Mul(r, new(big.Rat).SetInt(scale))

	units, rem := new(big.Int).QuoRem(r.Num(), r.Denom(), new(big.Int))
	if rem.Sign() > 0 {
		units.Add(units, big.NewInt(1))
	}
	return units, nil
}

// A PaymentInstruction is handed to the external wallet-transaction
// submitter: who to pay, how much, and in what.
type PaymentInstruction struct {
	Recipient       string
	AmountBaseUnits *big.Int
	Asset           Asset
	AssetContract   string // empty for the native gas asset
}
