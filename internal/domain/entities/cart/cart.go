// Package cart provides domain entities for the cart ledger: line items,
// the cart itself, and total derivation with the quantity discount rule.
package cart

import (
	"strconv"
	"strings"
)

// Category classifies a line item for display grouping.
type Category string

const (
	CategoryAccessory Category = "accessory"
	CategoryPart      Category = "part"
	CategoryOther     Category = "other"
)

// NormalizeCategory maps arbitrary input to a known category.
func NormalizeCategory(raw string) Category {
	switch Category(strings.ToLower(strings.TrimSpace(raw))) {
	case CategoryAccessory:
		return CategoryAccessory
	case CategoryPart:
		return CategoryPart
	default:
		return CategoryOther
	}
}

// Discount rule: 10% off once the cart holds more than three units.
const (
	QuantityDiscountRate      = 0.10
	QuantityDiscountThreshold = 3
)

// LineItem is one product entry in a cart. Quantity is always >= 1 for a
// persisted item; an item driven to zero is removed, never retained.
type LineItem struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	UnitPrice float64  `json:"unitPrice"`
	Quantity  int      `json:"quantity"`
	ImageRef  string   `json:"imageRef"`
	Category  Category `json:"category"`
}

// Subtotal returns the line's contribution to the cart subtotal.
func (li LineItem) Subtotal() float64 {
	return li.UnitPrice * float64(li.Quantity)
}

// Cart is an ordered sequence of line items. Order is insertion order and
// carries no pricing significance.
type Cart []LineItem

// Totals holds the derived pricing view of a cart. Shipping is always zero.
type Totals struct {
	Subtotal      float64 `json:"subtotal"`
	TotalQuantity int     `json:"totalQuantity"`
	DiscountRate  float64 `json:"discountRate"`
	Discount      float64 `json:"discount"`
	Shipping      float64 `json:"shipping"`
	Total         float64 `json:"total"`
}

// ComputeTotals derives subtotal, quantity, discount and total. It is a pure
// function of the cart contents.
func (c Cart) ComputeTotals() Totals {
	var t Totals
	for _, item := range c {
		t.Subtotal += item.Subtotal()
		t.TotalQuantity += item.Quantity
	}
	if t.TotalQuantity > QuantityDiscountThreshold {
		t.DiscountRate = QuantityDiscountRate
		t.Discount = t.Subtotal * QuantityDiscountRate
	}
	t.Total = t.Subtotal - t.Discount
	return t
}

// IndexOf returns the position of the item with the given id, or -1.
func (c Cart) IndexOf(id string) int {
	for i, item := range c {
		if item.ID == id {
			return i
		}
	}
	return -1
}

// AddOrIncrement merges the incoming item into the cart: an existing id has
// its quantity incremented by the incoming quantity (default 1), a new id is
// appended. Returns the updated cart.
func (c Cart) AddOrIncrement(item LineItem) Cart {
	if item.Quantity < 1 {
		item.Quantity = 1
	}
	if item.UnitPrice < 0 {
		item.UnitPrice = 0
	}
	if idx := c.IndexOf(item.ID); idx >= 0 {
		c[idx].Quantity += item.Quantity
		return c
	}
	return append(c, item)
}

// SetQuantity sets the quantity of the item at idx. A quantity <= 0 removes
// the item. Out-of-range indexes leave the cart untouched.
func (c Cart) SetQuantity(idx, quantity int) Cart {
	if idx < 0 || idx >= len(c) {
		return c
	}
	if quantity <= 0 {
		return c.RemoveAt(idx)
	}
	c[idx].Quantity = quantity
	return c
}

// RemoveAt deletes the item at idx, preserving order.
func (c Cart) RemoveAt(idx int) Cart {
	if idx < 0 || idx >= len(c) {
		return c
	}
	return append(c[:idx], c[idx+1:]...)
}

// IsEmpty reports whether the cart has no line items.
func (c Cart) IsEmpty() bool {
	return len(c) == 0
}

// ParseDisplayPrice converts currency-formatted display text ("$1,299.50")
// into a decimal. Malformed or negative input yields 0 so a display-layer
// defect never fails a cart mutation.
func ParseDisplayPrice(display string) float64 {
	cleaned := strings.TrimSpace(display)
	cleaned = strings.ReplaceAll(cleaned, "$", "")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	price, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || price < 0 {
		return 0
	}
	return price
}
