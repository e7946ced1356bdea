package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/motonorte/storefront-go/internal/domain/entities/checkout"
	"github.com/motonorte/storefront-go/internal/infrastructure/email"
	"github.com/motonorte/storefront-go/internal/infrastructure/observability/logging"
	"github.com/motonorte/storefront-go/internal/infrastructure/observability/performance"
	"github.com/motonorte/storefront-go/internal/infrastructure/persistence/kv"
	"github.com/motonorte/storefront-go/internal/infrastructure/security"
	"github.com/motonorte/storefront-go/pkg/config"
)

// ErrEmptyCart is returned when checkout is attempted with nothing in
// the cart.
var ErrEmptyCart = errors.New("cart is empty")

// ErrNotAuthenticated is returned when order completion is attempted
// without an active session.
var ErrNotAuthenticated = errors.New("no active session")

// CheckoutService handles the purchase flow: capturing a pending
// purchase when an anonymous visitor reaches checkout, resuming it
// after login, and completing the order.
type CheckoutService struct {
	carts    *CartService
	sessions *SessionService
	mailer   email.Service
	store    kv.Store
	logger   *logging.ChanneledLogger
	tracker  *performance.Tracker
}

// NewCheckoutService creates a checkout service.
func NewCheckoutService(carts *CartService, sessions *SessionService, mailer email.Service, store kv.Store, logger *logging.ChanneledLogger, tracker *performance.Tracker) *CheckoutService {
	return &CheckoutService{
		carts:    carts,
		sessions: sessions,
		mailer:   mailer,
		store:    store,
		logger:   logger,
		tracker:  tracker,
	}
}

// Capture snapshots the current cart as a pending purchase so the
// visitor can log in and pick up where they left off. The cart itself
// is untouched.
func (s *CheckoutService) Capture(profileID string, fromCartPage bool, origin string) (*checkout.PendingPurchase, error) {
	marker := s.tracker.StartOperation("checkout_capture", profileID)
	defer marker.Complete()

	c := s.carts.Load(profileID)
	if c.IsEmpty() {
		marker.SetError(ErrEmptyCart)
		return nil, ErrEmptyCart
	}
	pending := checkout.Capture(c, fromCartPage)
	data, err := json.Marshal(pending)
	if err != nil {
		marker.SetError(err)
		return nil, fmt.Errorf("failed to encode pending purchase: %w", err)
	}
	if err := s.store.Set(profileID, kv.KeyPendingPurchase, string(data), origin); err != nil {
		marker.SetError(err)
		return nil, err
	}
	s.logger.Checkout().Info("Pending purchase captured",
		"profileId", profileID, "items", len(pending.Items), "fromCartPage", fromCartPage)
	marker.SetSuccess(true)
	return pending, nil
}

// Pending returns the stored pending purchase, or nil when none exists.
// A snapshot older than the configured TTL is removed on read and
// reported as absent.
func (s *CheckoutService) Pending(profileID, origin string) *checkout.PendingPurchase {
	raw, ok := s.store.Get(profileID, kv.KeyPendingPurchase)
	if !ok {
		return nil
	}
	var pending checkout.PendingPurchase
	if err := json.Unmarshal([]byte(raw), &pending); err != nil {
		s.logger.Checkout().Warn("Pending purchase unparseable, dropping",
			"profileId", profileID, "error", err.Error())
		_ = s.store.Remove(profileID, kv.KeyPendingPurchase, origin)
		return nil
	}
	if pending.Expired(config.PendingPurchaseTTL) {
		s.logger.Checkout().Info("Pending purchase expired, dropping",
			"profileId", profileID, "capturedAt", pending.CapturedAt)
		_ = s.store.Remove(profileID, kv.KeyPendingPurchase, origin)
		return nil
	}
	return &pending
}

// Resume reports the pending purchase a freshly logged-in visitor
// should be sent back to. The snapshot stays in place until the order
// is completed or the cart empties, so a second login resumes it too.
func (s *CheckoutService) Resume(profileID, origin string) *checkout.PendingPurchase {
	return s.Pending(profileID, origin)
}

// ClearPending drops the pending purchase snapshot.
func (s *CheckoutService) ClearPending(profileID, origin string) error {
	return s.store.Remove(profileID, kv.KeyPendingPurchase, origin)
}

// Confirm completes the purchase for a logged-in visitor: it assigns
// an order number, empties the cart, drops the pending snapshot, and
// emails the confirmation.
func (s *CheckoutService) Confirm(profileID, origin string) (*checkout.Order, error) {
	marker := s.tracker.StartOperation("checkout_confirm", profileID)
	defer marker.Complete()

	user := s.sessions.Resolve(profileID, origin)
	if user == nil {
		marker.SetError(ErrNotAuthenticated)
		return nil, ErrNotAuthenticated
	}
	c := s.carts.Load(profileID)
	if c.IsEmpty() {
		marker.SetError(ErrEmptyCart)
		return nil, ErrEmptyCart
	}

	order := &checkout.Order{
		Number:        security.GenerateOrderNumber(),
		Items:         c,
		Totals:        c.ComputeTotals(),
		CustomerName:  user.Name,
		CustomerEmail: user.Email,
		PlacedAt:      time.Now(),
	}

	// Clearing the cart also drops the pending snapshot.
	if err := s.carts.Clear(profileID, origin); err != nil {
		marker.SetError(err)
		return nil, err
	}

	if err := s.mailer.SendOrderConfirmationEmail(user.Email, order); err != nil {
		// The order went through; delivery failure is logged, not fatal.
		s.logger.Checkout().Warn("Order confirmation email failed",
			"profileId", profileID, "order", order.Number, "error", err.Error())
	}

	s.logger.Checkout().Info("Order completed",
		"profileId", profileID, "order", order.Number, "total", order.Totals.Total)
	marker.AddMetadata("order", order.Number)
	marker.SetSuccess(true)
	return order, nil
}
