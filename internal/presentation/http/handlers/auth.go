package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/motonorte/storefront-go/internal/application/container"
	"github.com/motonorte/storefront-go/internal/application/services"
	"github.com/motonorte/storefront-go/internal/presentation/http/middleware"
	"github.com/motonorte/storefront-go/pkg/config"
)

const sessionCookieName = "profile_token"

// setSessionCookie attaches the profile token as an HTTP-only cookie so
// page loads carry the session without client-side token handling.
func setSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookieName, token, config.SessionCookieMaxAge, "/", "", false, true)
}

func clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookieName, "", -1, "/", "", false, true)
}

// PostRegister creates an account and logs the new user in.
func PostRegister(ctn *container.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		profileID := middleware.GetProfileID(c)

		var body struct {
			services.RegistrationInput
			services.LoginOptions
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid registration payload"})
			return
		}

		result, err := ctn.RegistrationService.Register(profileID, body.RegistrationInput, body.LoginOptions, middleware.GetContextID(c))
		if err != nil {
			var verr *services.ValidationError
			if errors.As(err, &verr) {
				c.JSON(http.StatusBadRequest, gin.H{"error": verr.Message, "field": verr.Field})
				return
			}
			if errors.Is(err, services.ErrDuplicateAccount) {
				c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "field": "email"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "registration failed"})
			return
		}
		setSessionCookie(c, result.Token)
		c.JSON(http.StatusCreated, result)
	}
}

// PostLogin verifies credentials and establishes the session.
func PostLogin(ctn *container.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		profileID := middleware.GetProfileID(c)

		var body struct {
			Email    string `json:"email"`
			Password string `json:"password"`
			services.LoginOptions
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid login payload"})
			return
		}

		result, err := ctn.AuthService.Login(profileID, body.Email, body.Password, body.LoginOptions, middleware.GetContextID(c))
		if err != nil {
			if errors.Is(err, services.ErrInvalidCredentials) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
			return
		}
		setSessionCookie(c, result.Token)
		c.JSON(http.StatusOK, result)
	}
}

// PostLogout tears down the session.
func PostLogout(ctn *container.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		profileID := middleware.GetProfileID(c)

		if err := ctn.AuthService.Logout(profileID, middleware.GetContextID(c)); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "logout failed"})
			return
		}
		clearSessionCookie(c)
		c.JSON(http.StatusOK, gin.H{"loggedIn": false})
	}
}

// GetAuthStatus reports whether a session is active, resolving any of
// the legacy storage schemas.
func GetAuthStatus(ctn *container.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		profileID := middleware.GetProfileID(c)

		user := ctn.SessionService.Resolve(profileID, middleware.GetContextID(c))
		resp := gin.H{"loggedIn": user != nil}
		if user != nil {
			resp["user"] = user
		}
		if remembered, ok := ctn.AuthService.RememberedEmail(profileID); ok {
			resp["rememberedEmail"] = remembered
		}
		c.JSON(http.StatusOK, resp)
	}
}

// GetProfileDecode validates a bearer token and returns the embedded
// profile.
func GetProfileDecode(ctn *container.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		if token == "" {
			token, _ = c.Cookie(sessionCookieName)
		}
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing profile token"})
			return
		}

		profile, err := ctn.AuthService.DecodeProfileToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"profile": profile})
	}
}
