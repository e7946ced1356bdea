// Package handlers implements the storefront HTTP endpoints
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/motonorte/storefront-go/internal/application/container"
	"github.com/motonorte/storefront-go/internal/domain/entities/cart"
	"github.com/motonorte/storefront-go/internal/presentation/http/middleware"
)

// cartResponse is the common reply shape for cart reads and mutations.
func cartResponse(c cart.Cart) gin.H {
	return gin.H{
		"items":  c,
		"totals": c.ComputeTotals(),
	}
}

// GetCart returns the cart with computed totals.
func GetCart(ctn *container.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		profileID := middleware.GetProfileID(c)
		stored := ctn.CartService.Load(profileID)
		c.JSON(http.StatusOK, cartResponse(stored))
	}
}

// GetCartTotals returns just the derived price summary.
func GetCartTotals(ctn *container.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		profileID := middleware.GetProfileID(c)
		c.JSON(http.StatusOK, gin.H{"totals": ctn.CartService.Totals(profileID)})
	}
}

// PostCartItem adds an item to the cart, merging by product id.
func PostCartItem(ctn *container.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		profileID := middleware.GetProfileID(c)

		var item cart.LineItem
		if err := c.ShouldBindJSON(&item); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid cart item payload"})
			return
		}

		updated, err := ctn.CartService.AddItem(profileID, item, middleware.GetContextID(c))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, cartResponse(updated))
	}
}

// PutCartItemQuantity sets the quantity of one cart line.
func PutCartItemQuantity(ctn *container.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		profileID := middleware.GetProfileID(c)
		itemID := c.Param("itemId")

		var body struct {
			Quantity int `json:"quantity"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid quantity payload"})
			return
		}

		updated, err := ctn.CartService.SetQuantity(profileID, itemID, body.Quantity, middleware.GetContextID(c))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, cartResponse(updated))
	}
}

// DeleteCartItem removes one cart line.
func DeleteCartItem(ctn *container.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		profileID := middleware.GetProfileID(c)
		itemID := c.Param("itemId")

		updated, err := ctn.CartService.RemoveItem(profileID, itemID, middleware.GetContextID(c))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, cartResponse(updated))
	}
}

// DeleteCart empties the cart.
func DeleteCart(ctn *container.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		profileID := middleware.GetProfileID(c)

		if err := ctn.CartService.Clear(profileID, middleware.GetContextID(c)); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, cartResponse(cart.Cart{}))
	}
}
