package services

import (
	"testing"

	"github.com/motonorte/storefront-go/internal/domain/entities/cart"
	"github.com/motonorte/storefront-go/internal/domain/events"
	"github.com/motonorte/storefront-go/internal/infrastructure/persistence/kv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddItemPersistsAndPublishes(t *testing.T) {
	f := newFixture(t)

	c, err := f.carts.AddItem(testProfile, cart.LineItem{ID: "casco", Name: "Casco integral", UnitPrice: 850, Quantity: 1}, "ctx")
	require.NoError(t, err)
	require.Len(t, c, 1)

	reloaded := f.carts.Load(testProfile)
	require.Len(t, reloaded, 1)
	assert.Equal(t, "casco", reloaded[0].ID)

	assert.Equal(t, 1, f.bus.count(events.SignalCartUpdated))
}

func TestAddItemRequiresID(t *testing.T) {
	f := newFixture(t)

	_, err := f.carts.AddItem(testProfile, cart.LineItem{Name: "sin id"}, "ctx")
	assert.Error(t, err)
}

func TestAddItemMergesDuplicate(t *testing.T) {
	f := newFixture(t)

	_, err := f.carts.AddItem(testProfile, cart.LineItem{ID: "casco", UnitPrice: 850, Quantity: 1}, "ctx")
	require.NoError(t, err)
	c, err := f.carts.AddItem(testProfile, cart.LineItem{ID: "casco", UnitPrice: 850, Quantity: 2}, "ctx")
	require.NoError(t, err)

	require.Len(t, c, 1)
	assert.Equal(t, 3, c[0].Quantity)
}

func TestLoadCorruptCartReadsEmpty(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.store.Set(testProfile, kv.KeyCart, "{not json", "ctx"))

	assert.Empty(t, f.carts.Load(testProfile))
}

func TestSetQuantityUnknownItem(t *testing.T) {
	f := newFixture(t)

	_, err := f.carts.SetQuantity(testProfile, "fantasma", 2, "ctx")
	assert.Error(t, err)
}

func TestRemoveLastItemDropsPendingPurchase(t *testing.T) {
	f := newFixture(t)
	_, err := f.carts.AddItem(testProfile, cart.LineItem{ID: "casco", UnitPrice: 850, Quantity: 1}, "ctx")
	require.NoError(t, err)
	_, err = f.checkout.Capture(testProfile, false, "ctx")
	require.NoError(t, err)

	c, err := f.carts.RemoveItem(testProfile, "casco", "ctx")
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())

	_, ok := f.store.Get(testProfile, kv.KeyPendingPurchase)
	assert.False(t, ok, "emptying the cart invalidates the pending purchase")
}

func TestRemoveAbsentItemIsNoop(t *testing.T) {
	f := newFixture(t)
	_, err := f.carts.AddItem(testProfile, cart.LineItem{ID: "casco", UnitPrice: 850, Quantity: 1}, "ctx")
	require.NoError(t, err)
	before := f.bus.count(events.SignalCartUpdated)

	c, err := f.carts.RemoveItem(testProfile, "fantasma", "ctx")
	require.NoError(t, err)
	assert.Len(t, c, 1)
	assert.Equal(t, before, f.bus.count(events.SignalCartUpdated), "no mutation, no signal")
}

func TestClearEmptiesCartAndPending(t *testing.T) {
	f := newFixture(t)
	_, err := f.carts.AddItem(testProfile, cart.LineItem{ID: "casco", UnitPrice: 850, Quantity: 2}, "ctx")
	require.NoError(t, err)
	_, err = f.checkout.Capture(testProfile, true, "ctx")
	require.NoError(t, err)

	require.NoError(t, f.carts.Clear(testProfile, "ctx"))

	assert.True(t, f.carts.Load(testProfile).IsEmpty())
	_, ok := f.store.Get(testProfile, kv.KeyPendingPurchase)
	assert.False(t, ok)
}

func TestTotalsOverStoredCart(t *testing.T) {
	f := newFixture(t)
	_, err := f.carts.AddItem(testProfile, cart.LineItem{ID: "a", UnitPrice: 10, Quantity: 2}, "ctx")
	require.NoError(t, err)
	_, err = f.carts.AddItem(testProfile, cart.LineItem{ID: "b", UnitPrice: 5, Quantity: 2}, "ctx")
	require.NoError(t, err)

	totals := f.carts.Totals(testProfile)

	assert.InDelta(t, 27.0, totals.Total, 0.0001)
}
