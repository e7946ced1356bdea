// Package checkout provides domain entities for the pending-purchase
// handoff: the snapshot that lets checkout intent survive an authentication
// detour across page loads.
package checkout

import (
	"time"

	"github.com/motonorte/storefront-go/internal/domain/entities/cart"
)

// PendingPurchase is the single optional snapshot of a cart captured when
// checkout is attempted without an authenticated session. It stays captured
// across login/registration round-trips; only completion, an explicit cart
// clear, or the cart emptying out clears it.
type PendingPurchase struct {
	Items         cart.Cart `json:"items"`
	Subtotal      float64   `json:"subtotal"`
	TotalQuantity int       `json:"totalQuantity"`
	CapturedAt    time.Time `json:"capturedAt"`
	FromCartPage  bool      `json:"fromCartPage"`
}

// Capture snapshots the cart with its derived totals at this moment.
func Capture(c cart.Cart, fromCartPage bool) *PendingPurchase {
	totals := c.ComputeTotals()
	snapshot := make(cart.Cart, len(c))
	copy(snapshot, c)
	return &PendingPurchase{
		Items:         snapshot,
		Subtotal:      totals.Subtotal,
		TotalQuantity: totals.TotalQuantity,
		CapturedAt:    time.Now().UTC(),
		FromCartPage:  fromCartPage,
	}
}

// Expired reports whether the snapshot is older than ttl. A ttl of zero
// disables expiry.
func (p *PendingPurchase) Expired(ttl time.Duration) bool {
	if ttl <= 0 {
		return false
	}
	return time.Since(p.CapturedAt) > ttl
}

// Order is the summary produced by completing checkout.
type Order struct {
	Number        string      `json:"number"`
	Items         cart.Cart   `json:"items"`
	Totals        cart.Totals `json:"totals"`
	CustomerName  string      `json:"customerName"`
	CustomerEmail string      `json:"customerEmail"`
	PlacedAt      time.Time   `json:"placedAt"`
}
