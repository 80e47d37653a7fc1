package domain

import (
	"errors"
	"fmt"
	"math/big"
	"time"
)

var (
	ErrStockConflict     = errors.New("requested quantity exceeds stock")
	ErrIllegalTransition = errors.New("illegal checkout state transition")
	ErrNoShippingQuote   = errors.New("shipping quote required first")
	ErrTermsNotAccepted  = errors.New("terms must be accepted")
	ErrNoPayer           = errors.New("payment identity not connected")
	ErrSessionNotFound   = errors.New("checkout session not found")
)

// A CheckoutState is one step of the checkout session lifecycle.
type CheckoutState string

const (
	StateBrowsing         CheckoutState = "BROWSING"
	StateAddressEntered   CheckoutState = "ADDRESS_ENTERED"
	StateShippingQuoted   CheckoutState = "SHIPPING_QUOTED"
	StateTermsAccepted    CheckoutState = "TERMS_ACCEPTED"
	StatePaymentSubmitted CheckoutState = "PAYMENT_SUBMITTED"
	StateConfirmed        CheckoutState = "CONFIRMED"
	StateFailed           CheckoutState = "FAILED"
)

func (s CheckoutState) Terminal() bool {
	return s == StateConfirmed || s == StateFailed
}

func (s CheckoutState) String() string {
	return string(s)
}

var checkoutTransitions = map[CheckoutState][]CheckoutState{
	StateBrowsing:         {StateAddressEntered, StateFailed},
	StateAddressEntered:   {StateAddressEntered, StateShippingQuoted, StateFailed},
	StateShippingQuoted:   {StateAddressEntered, StateShippingQuoted, StateTermsAccepted, StateFailed},
	StateTermsAccepted:    {StatePaymentSubmitted, StateFailed},
	StatePaymentSubmitted: {StateConfirmed, StateFailed},
}

func (s CheckoutState) canTransition(to CheckoutState) bool {
	for _, next := range checkoutTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// A CheckoutTotal is derived per checkout attempt and never stored.
type CheckoutTotal struct {
	SubtotalCents int64
	ShippingCents int64
	DiscountCents int64
	TotalCents    int64
	Payable       *big.Int
	Asset         Asset
}

// ComposeTotal combines the items subtotal, the shipping quote, and the
// payment-method discount, then converts to the asset's base units.
// Paying in the platform token zeroes shipping regardless of the quote.
func ComposeTotal(
	subtotalCents, shippingCents int64, asset Asset, unitPriceUsd *big.Rat,
) (CheckoutTotal, error) {
	const op = "ComposeTotal"

	discount := DiscountCents(subtotalCents, asset.DiscountBps())
	if asset.FreeShipping() {
		shippingCents = 0
	}
	total := subtotalCents - discount + shippingCents

	payable, err := BaseUnits(total, unitPriceUsd, asset.Decimals())
	if err != nil {
		return CheckoutTotal{}, fmt.Errorf("%s: %w", op, err)
	}

	return CheckoutTotal{
		SubtotalCents: subtotalCents,
		ShippingCents: shippingCents,
		DiscountCents: discount,
		TotalCents:    total,
		Payable:       payable,
		Asset:         asset,
	}, nil
}

// A CheckoutSession tracks one checkout attempt from cart to confirmation.
// It is transient: created at "proceed to checkout", discarded after a
// terminal state.
type CheckoutSession struct {
	ID            string
	Cart          Cart
	Catalog       ProductIndex
	Address       Address
	ShippingCents int64
	Quoted        bool
	TermsAccepted bool
	PayerAddress  string
	Asset         Asset
	Total         CheckoutTotal
	TxHash        string
	FailReason    string
	State         CheckoutState
	UpdatedAt     time.Time
}

// Advance moves the session to the next state, rejecting transitions the
// lifecycle does not permit.
func (cs *CheckoutSession) Advance(to CheckoutState, now time.Time) error {
	const op = "CheckoutSession.Advance"

	if !cs.State.canTransition(to) {
		return fmt.Errorf(
			"%s: %s -> %s: %w", op, cs.State, to, ErrIllegalTransition,
		)
	}
	cs.State = to
	cs.UpdatedAt = now
	return nil
}

// Fail is terminal and always legal for a non-terminal session.
func (cs *CheckoutSession) Fail(reason string, now time.Time) {
	if cs.State.Terminal() {
		return
	}
	cs.State = StateFailed
	cs.FailReason = reason
	cs.UpdatedAt = now
}
