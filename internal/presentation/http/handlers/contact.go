package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/motonorte/storefront-go/internal/application/container"
	"github.com/motonorte/storefront-go/internal/application/services"
	"github.com/motonorte/storefront-go/internal/presentation/http/middleware"
)

// PostContact validates and stores a contact-form submission.
func PostContact(ctn *container.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		profileID := middleware.GetProfileID(c)

		var input services.ContactInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid contact payload"})
			return
		}

		msg, err := ctn.ContactService.Submit(profileID, input, middleware.GetContextID(c))
		if err != nil {
			var verr *services.ValidationError
			if errors.As(err, &verr) {
				c.JSON(http.StatusBadRequest, gin.H{"error": verr.Message, "field": verr.Field})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": msg})
	}
}

// GetContactHistory returns the stored submissions, newest first.
func GetContactHistory(ctn *container.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		profileID := middleware.GetProfileID(c)
		history := ctn.ContactService.History(profileID)
		if history == nil {
			history = []services.ContactMessage{}
		}
		c.JSON(http.StatusOK, gin.H{"messages": history})
	}
}
