// Package routes maps the storefront API surface onto handlers
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/motonorte/storefront-go/internal/application/container"
	"github.com/motonorte/storefront-go/internal/presentation/http/handlers"
	"github.com/motonorte/storefront-go/internal/presentation/http/middleware"
)

// Setup registers all routes on the engine.
func Setup(router *gin.Engine, ctn *container.Container) {
	router.Use(middleware.CORS())

	router.GET("/health", handlers.GetHealth(ctn))

	api := router.Group("/api/v1")
	api.Use(middleware.ProfileContext())
	{
		cart := api.Group("/cart")
		{
			cart.GET("", handlers.GetCart(ctn))
			cart.GET("/totals", handlers.GetCartTotals(ctn))
			cart.POST("/items", handlers.PostCartItem(ctn))
			cart.PUT("/items/:itemId", handlers.PutCartItemQuantity(ctn))
			cart.DELETE("/items/:itemId", handlers.DeleteCartItem(ctn))
			cart.DELETE("", handlers.DeleteCart(ctn))
		}

		checkout := api.Group("/checkout")
		{
			checkout.POST("", handlers.PostCheckout(ctn))
			checkout.POST("/confirm", handlers.PostCheckoutConfirm(ctn))
			checkout.GET("/pending", handlers.GetPendingPurchase(ctn))
			checkout.DELETE("/pending", handlers.DeletePendingPurchase(ctn))
		}

		auth := api.Group("/auth")
		{
			auth.POST("/register", handlers.PostRegister(ctn))
			auth.POST("/login", handlers.PostLogin(ctn))
			auth.POST("/logout", handlers.PostLogout(ctn))
			auth.GET("/status", handlers.GetAuthStatus(ctn))
			auth.GET("/profile/decode", handlers.GetProfileDecode(ctn))
		}

		contact := api.Group("/contact")
		{
			contact.POST("", handlers.PostContact(ctn))
			contact.GET("/history", handlers.GetContactHistory(ctn))
		}

		state := api.Group("/state")
		{
			state.GET("/sse", handlers.GetStateSSE(ctn))
			state.GET("/ws", handlers.GetStateWS(ctn))
		}
	}
}
