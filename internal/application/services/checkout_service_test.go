package services

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/motonorte/storefront-go/internal/domain/entities/cart"
	"github.com/motonorte/storefront-go/internal/domain/entities/checkout"
	"github.com/motonorte/storefront-go/internal/infrastructure/persistence/kv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedCart(t *testing.T, f *fixture) {
	t.Helper()
	_, err := f.carts.AddItem(testProfile, cart.LineItem{ID: "a", Name: "Filtro", UnitPrice: 10, Quantity: 2}, "ctx")
	require.NoError(t, err)
	_, err = f.carts.AddItem(testProfile, cart.LineItem{ID: "b", Name: "Bujía", UnitPrice: 5, Quantity: 2}, "ctx")
	require.NoError(t, err)
}

func TestCaptureEmptyCart(t *testing.T) {
	f := newFixture(t)

	_, err := f.checkout.Capture(testProfile, false, "ctx")
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestCaptureSnapshotsCurrentCart(t *testing.T) {
	f := newFixture(t)
	seedCart(t, f)

	pending, err := f.checkout.Capture(testProfile, true, "ctx")
	require.NoError(t, err)
	assert.Equal(t, 30.0, pending.Subtotal)
	assert.Equal(t, 4, pending.TotalQuantity)
	assert.True(t, pending.FromCartPage)

	stored := f.checkout.Pending(testProfile, "ctx")
	require.NotNil(t, stored)
	assert.Len(t, stored.Items, 2)
}

func TestResumeDoesNotClearPending(t *testing.T) {
	f := newFixture(t)
	seedCart(t, f)
	_, err := f.checkout.Capture(testProfile, false, "ctx")
	require.NoError(t, err)

	first := f.checkout.Resume(testProfile, "ctx")
	second := f.checkout.Resume(testProfile, "ctx")

	require.NotNil(t, first)
	require.NotNil(t, second, "resume leaves the snapshot for a later login")
}

func TestPendingExpiresLazily(t *testing.T) {
	f := newFixture(t)
	stale := &checkout.PendingPurchase{
		Items:      cart.Cart{{ID: "a", UnitPrice: 10, Quantity: 1}},
		CapturedAt: time.Now().Add(-48 * time.Hour),
	}
	data, err := json.Marshal(stale)
	require.NoError(t, err)
	require.NoError(t, f.store.Set(testProfile, kv.KeyPendingPurchase, string(data), "ctx"))

	assert.Nil(t, f.checkout.Pending(testProfile, "ctx"))

	_, ok := f.store.Get(testProfile, kv.KeyPendingPurchase)
	assert.False(t, ok, "expired snapshot is removed on read")
}

func TestPendingCorruptDataDropped(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.store.Set(testProfile, kv.KeyPendingPurchase, "{not json", "ctx"))

	assert.Nil(t, f.checkout.Pending(testProfile, "ctx"))
	_, ok := f.store.Get(testProfile, kv.KeyPendingPurchase)
	assert.False(t, ok)
}

func TestConfirmRequiresSession(t *testing.T) {
	f := newFixture(t)
	seedCart(t, f)

	_, err := f.checkout.Confirm(testProfile, "ctx")
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestConfirmEmptyCart(t *testing.T) {
	f := newFixture(t)
	_, err := f.sessions.Establish(testProfile, "Ana", "ana@example.com", "ctx")
	require.NoError(t, err)

	_, err = f.checkout.Confirm(testProfile, "ctx")
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestConfirmCompletesOrder(t *testing.T) {
	f := newFixture(t)
	seedCart(t, f)
	_, err := f.checkout.Capture(testProfile, false, "ctx")
	require.NoError(t, err)
	_, err = f.sessions.Establish(testProfile, "Ana", "ana@example.com", "ctx")
	require.NoError(t, err)

	order, err := f.checkout.Confirm(testProfile, "ctx")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(order.Number, "PED-"), order.Number)
	assert.Equal(t, "ana@example.com", order.CustomerEmail)
	assert.InDelta(t, 27.0, order.Totals.Total, 0.0001)

	assert.True(t, f.carts.Load(testProfile).IsEmpty(), "completion empties the cart")
	_, ok := f.store.Get(testProfile, kv.KeyPendingPurchase)
	assert.False(t, ok, "completion drops the snapshot")

	require.Len(t, f.mailer.orders, 1)
	assert.Equal(t, order.Number, f.mailer.orders[0].Number)
}

func TestClearPending(t *testing.T) {
	f := newFixture(t)
	seedCart(t, f)
	_, err := f.checkout.Capture(testProfile, false, "ctx")
	require.NoError(t, err)

	require.NoError(t, f.checkout.ClearPending(testProfile, "ctx"))
	assert.Nil(t, f.checkout.Pending(testProfile, "ctx"))
}
