package domain

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyCart       = errors.New("cart is empty")
	ErrUnknownProduct  = errors.New("unknown product")
	ErrInvalidQuantity = errors.New("quantity must be positive")
)

type CartLine struct {
	ProductID string
	Quantity  int
}

// A Cart holds the buyer's selected lines. It is an explicit value passed
// to whoever needs it, never shared ambient state.
type Cart struct {
	lines []CartLine
}

func NewCart(lines ...CartLine) (Cart, error) {
	var c Cart
	for _, l := range lines {
		if err := c.Add(l.ProductID, l.Quantity); err != nil {
			return Cart{}, err
		}
	}
	return c, nil
}

func (c *Cart) Add(productID string, quantity int) error {
	const op = "Cart.Add"

	if quantity < 1 {
		return fmt.Errorf("%s: %w", op, ErrInvalidQuantity)
	}

	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			c.lines[i].Quantity += quantity
			return nil
		}
	}
	c.lines = append(c.lines, CartLine{productID, quantity})
	return nil
}

func (c *Cart) SetQuantity(productID string, quantity int) error {
	const op = "Cart.SetQuantity"

	if quantity < 1 {
		return fmt.Errorf("%s: %w", op, ErrInvalidQuantity)
	}

	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			c.lines[i].Quantity = quantity
			return nil
		}
	}
	return fmt.Errorf("%s: %w", op, ErrUnknownProduct)
}

func (c *Cart) Remove(productID string) {
	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return
		}
	}
}

func (c *Cart) Clear() {
	c.lines = nil
}

func (c Cart) Empty() bool {
	return len(c.lines) == 0
}

func (c Cart) Lines() []CartLine {
	lines := make([]CartLine, len(c.lines))
	copy(lines, c.lines)
	return lines
}

// SubtotalCents sums quantity times unit price over the catalog snapshot.
func (c Cart) SubtotalCents(idx ProductIndex) (int64, error) {
	const op = "Cart.SubtotalCents"

	var total int64
	for _, l := range c.lines {
		p, ok := idx[l.ProductID]
		if !ok {
			return 0, fmt.Errorf("%s: %q: %w", op, l.ProductID, ErrUnknownProduct)
		}
		total += p.UnitPriceCents * int64(l.Quantity)
	}
	return total, nil
}

// TotalWeightOz sums quantity times unit weight over the catalog snapshot.
func (c Cart) TotalWeightOz(idx ProductIndex) (float64, error) {
	const op = "Cart.TotalWeightOz"

	var total float64
	for _, l := range c.lines {
		p, ok := idx[l.ProductID]
		if !ok {
			return 0, fmt.Errorf("%s: %q: %w", op, l.ProductID, ErrUnknownProduct)
		}
		total += p.WeightOz * float64(l.Quantity)
	}
	return total, nil
}
