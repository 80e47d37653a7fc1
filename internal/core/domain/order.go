package domain

import "time"

type OrderItem struct {
	ProductID string
	Name      string
	Quantity  int
}

// An Order is the flat post-payment summary persisted and emitted for
// notification once a payment is confirmed on-chain.
type Order struct {
	OrderID         string
	Name            string
	Email           string
	Street          string
	City            string
	State           string
	ZIP             string
	Items           []OrderItem
	Asset           Asset
	AmountBaseUnits string
	TotalCents      int64
	ShippingCents   int64
	TxHash          string
	PlacedAt        time.Time
}
