package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/motonorte/storefront-go/internal/application/container"
)

// GetHealth reports service liveness.
func GetHealth(ctn *container.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
