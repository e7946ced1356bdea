package services

import (
	"encoding/json"
	"fmt"

	"github.com/motonorte/storefront-go/internal/domain/entities/cart"
	"github.com/motonorte/storefront-go/internal/domain/events"
	"github.com/motonorte/storefront-go/internal/infrastructure/messaging"
	"github.com/motonorte/storefront-go/internal/infrastructure/observability/logging"
	"github.com/motonorte/storefront-go/internal/infrastructure/observability/performance"
	"github.com/motonorte/storefront-go/internal/infrastructure/persistence/kv"
)

// CartService owns the cart ledger: every mutation loads the stored
// cart, applies one change, persists the result, and announces it on
// the event bus.
type CartService struct {
	store   kv.Store
	bus     messaging.Publisher
	logger  *logging.ChanneledLogger
	tracker *performance.Tracker
}

// NewCartService creates a cart service.
func NewCartService(store kv.Store, bus messaging.Publisher, logger *logging.ChanneledLogger, tracker *performance.Tracker) *CartService {
	return &CartService{store: store, bus: bus, logger: logger, tracker: tracker}
}

// Load reads the stored cart. Absent or unparseable data reads as an
// empty cart rather than an error.
func (s *CartService) Load(profileID string) cart.Cart {
	raw, ok := s.store.Get(profileID, kv.KeyCart)
	if !ok {
		return cart.Cart{}
	}
	var c cart.Cart
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		s.logger.Cart().Warn("Stored cart unparseable, treating as empty",
			"profileId", profileID, "error", err.Error())
		return cart.Cart{}
	}
	return c
}

// Totals computes the price summary for the stored cart.
func (s *CartService) Totals(profileID string) cart.Totals {
	return s.Load(profileID).ComputeTotals()
}

// AddItem merges an item into the cart, incrementing quantity when the
// product is already present.
func (s *CartService) AddItem(profileID string, item cart.LineItem, origin string) (cart.Cart, error) {
	marker := s.tracker.StartOperation("cart_add_item", profileID)
	defer marker.Complete()

	if item.ID == "" {
		err := fmt.Errorf("cart item requires an id")
		marker.SetError(err)
		return nil, err
	}
	c := s.Load(profileID).AddOrIncrement(item)
	if err := s.persist(profileID, c, origin); err != nil {
		marker.SetError(err)
		return nil, err
	}
	s.logger.Cart().Info("Item added to cart", "profileId", profileID, "itemId", item.ID, "quantity", item.Quantity)
	marker.SetSuccess(true)
	return c, nil
}

// SetQuantity updates the quantity of a cart line. Zero or negative
// removes the line.
func (s *CartService) SetQuantity(profileID, itemID string, quantity int, origin string) (cart.Cart, error) {
	marker := s.tracker.StartOperation("cart_set_quantity", profileID)
	defer marker.Complete()

	c := s.Load(profileID)
	idx := c.IndexOf(itemID)
	if idx < 0 {
		err := fmt.Errorf("item %q not in cart", itemID)
		marker.SetError(err)
		return nil, err
	}
	c = c.SetQuantity(idx, quantity)
	if err := s.persist(profileID, c, origin); err != nil {
		marker.SetError(err)
		return nil, err
	}
	marker.SetSuccess(true)
	return c, nil
}

// RemoveItem deletes a cart line by product id. Removing an absent item
// is a no-op.
func (s *CartService) RemoveItem(profileID, itemID, origin string) (cart.Cart, error) {
	marker := s.tracker.StartOperation("cart_remove_item", profileID)
	defer marker.Complete()

	c := s.Load(profileID)
	idx := c.IndexOf(itemID)
	if idx < 0 {
		marker.SetSuccess(true)
		return c, nil
	}
	c = c.RemoveAt(idx)
	if err := s.persist(profileID, c, origin); err != nil {
		marker.SetError(err)
		return nil, err
	}
	s.logger.Cart().Info("Item removed from cart", "profileId", profileID, "itemId", itemID)
	marker.SetSuccess(true)
	return c, nil
}

// Clear empties the cart.
func (s *CartService) Clear(profileID, origin string) error {
	marker := s.tracker.StartOperation("cart_clear", profileID)
	defer marker.Complete()

	if err := s.persist(profileID, cart.Cart{}, origin); err != nil {
		marker.SetError(err)
		return err
	}
	s.logger.Cart().Info("Cart cleared", "profileId", profileID)
	marker.SetSuccess(true)
	return nil
}

// persist writes the cart and publishes the update. An empty cart also
// invalidates any pending purchase, since its snapshot no longer
// reflects anything buyable.
func (s *CartService) persist(profileID string, c cart.Cart, origin string) error {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}
	if err := s.store.Set(profileID, kv.KeyCart, string(data), origin); err != nil {
		return err
	}
	if c.IsEmpty() {
		if err := s.store.Remove(profileID, kv.KeyPendingPurchase, origin); err != nil {
			s.logger.Cart().Warn("Failed to drop pending purchase for empty cart",
				"profileId", profileID, "error", err.Error())
		}
	}
	s.bus.Publish(events.SignalCartUpdated, profileID)
	return nil
}
