// Package middleware provides request middleware for the storefront API
package middleware

import (
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"
	"github.com/motonorte/storefront-go/internal/infrastructure/security"
)

const (
	// ProfileHeader names the browser profile whose state the request
	// operates on. Every state namespace is keyed by it.
	ProfileHeader = "X-Profile-ID"
	// ContextHeader identifies the tab or page making the request, so
	// change notifications can skip their originator.
	ContextHeader = "X-Context-ID"

	profileIDKey = "profileId"
	contextIDKey = "contextId"
)

var profileIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// DefaultProfileID is used when a client sends no profile header.
const DefaultProfileID = "default"

// ProfileContext extracts and validates the profile and context headers.
// Requests without a profile fall back to the default namespace; requests
// without a context get a generated one so origin suppression still works.
func ProfileContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		profileID := c.GetHeader(ProfileHeader)
		if profileID == "" {
			profileID = DefaultProfileID
		}
		if !profileIDPattern.MatchString(profileID) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid profile id"})
			c.Abort()
			return
		}

		contextID := c.GetHeader(ContextHeader)
		if contextID == "" || !profileIDPattern.MatchString(contextID) {
			contextID = security.GenerateULID()
		}

		c.Set(profileIDKey, profileID)
		c.Set(contextIDKey, contextID)
		c.Next()
	}
}

// GetProfileID returns the validated profile id for the request.
func GetProfileID(c *gin.Context) string {
	return c.GetString(profileIDKey)
}

// GetContextID returns the request's originating context id.
func GetContextID(c *gin.Context) string {
	return c.GetString(contextIDKey)
}
