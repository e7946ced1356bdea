package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/motonorte/storefront-go/internal/application/container"
	"github.com/motonorte/storefront-go/internal/application/services"
	"github.com/motonorte/storefront-go/internal/presentation/http/middleware"
)

// PostCheckout begins checkout. A logged-in visitor proceeds directly;
// an anonymous one gets their cart snapshotted as a pending purchase
// and is pointed at the login page.
func PostCheckout(ctn *container.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		profileID := middleware.GetProfileID(c)
		contextID := middleware.GetContextID(c)

		var body struct {
			FromCartPage bool `json:"fromCartPage"`
		}
		// Body is optional; absence means a plain checkout attempt.
		_ = c.ShouldBindJSON(&body)

		if ctn.SessionService.IsLoggedIn(profileID, contextID) {
			c.JSON(http.StatusOK, gin.H{
				"authenticated": true,
				"totals":        ctn.CartService.Totals(profileID),
			})
			return
		}

		pending, err := ctn.CheckoutService.Capture(profileID, body.FromCartPage, contextID)
		if err != nil {
			if errors.Is(err, services.ErrEmptyCart) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "el carrito está vacío"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "checkout failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"authenticated": false,
			"pending":       pending,
			"redirect":      "sesion.html?redirect=carrito.html&pendingPurchase=true",
		})
	}
}

// GetPendingPurchase returns the stored pending purchase, expiring
// stale snapshots on read.
func GetPendingPurchase(ctn *container.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		profileID := middleware.GetProfileID(c)

		pending := ctn.CheckoutService.Pending(profileID, middleware.GetContextID(c))
		if pending == nil {
			c.JSON(http.StatusOK, gin.H{"pending": nil})
			return
		}
		c.JSON(http.StatusOK, gin.H{"pending": pending})
	}
}

// DeletePendingPurchase discards the pending purchase snapshot.
func DeletePendingPurchase(ctn *container.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		profileID := middleware.GetProfileID(c)

		if err := ctn.CheckoutService.ClearPending(profileID, middleware.GetContextID(c)); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to clear pending purchase"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"pending": nil})
	}
}

// PostCheckoutConfirm completes the order for a logged-in visitor.
func PostCheckoutConfirm(ctn *container.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		profileID := middleware.GetProfileID(c)

		order, err := ctn.CheckoutService.Confirm(profileID, middleware.GetContextID(c))
		if err != nil {
			switch {
			case errors.Is(err, services.ErrNotAuthenticated):
				c.JSON(http.StatusUnauthorized, gin.H{"error": "debes iniciar sesión para completar la compra"})
			case errors.Is(err, services.ErrEmptyCart):
				c.JSON(http.StatusBadRequest, gin.H{"error": "el carrito está vacío"})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": "order completion failed"})
			}
			return
		}
		c.JSON(http.StatusCreated, gin.H{"order": order})
	}
}
