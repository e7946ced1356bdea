package services

import (
	"errors"
	"time"

	"github.com/motonorte/storefront-go/internal/domain/account"
	"github.com/motonorte/storefront-go/internal/infrastructure/observability/logging"
	"github.com/motonorte/storefront-go/internal/infrastructure/observability/performance"
	"github.com/motonorte/storefront-go/internal/infrastructure/persistence/kv"
	"github.com/motonorte/storefront-go/internal/infrastructure/security"
	"github.com/motonorte/storefront-go/pkg/config"
)

// ErrInvalidCredentials is the single error surfaced for any login
// failure. One message for unknown email and wrong password alike, so
// responses don't reveal which emails are registered.
var ErrInvalidCredentials = errors.New("correo o contraseña incorrectos")

// RedirectCheckout sends the visitor back to the cart page with the
// purchase modal open.
const RedirectCheckout = "carrito.html?openModal=true"

// RedirectHome is the default post-login destination.
const RedirectHome = "index.html"

// LoginOptions carry the flags the login page forwards from its query
// string.
type LoginOptions struct {
	RememberEmail   bool   `json:"rememberEmail"`
	Redirect        string `json:"redirect"`
	FromCartModal   bool   `json:"fromCartModal"`
	PendingPurchase bool   `json:"pendingPurchase"`
}

// LoginResult is what a successful login hands back to the caller.
type LoginResult struct {
	User     *account.SessionUser `json:"user"`
	Token    string               `json:"token"`
	Redirect string               `json:"redirect"`
}

// AuthService handles login and logout against the registered-user
// directory.
type AuthService struct {
	directory account.DirectoryRepository
	sessions  *SessionService
	checkout  *CheckoutService
	store     kv.Store
	logger    *logging.ChanneledLogger
	tracker   *performance.Tracker
}

// NewAuthService creates an auth service.
func NewAuthService(directory account.DirectoryRepository, sessions *SessionService, checkout *CheckoutService, store kv.Store, logger *logging.ChanneledLogger, tracker *performance.Tracker) *AuthService {
	return &AuthService{
		directory: directory,
		sessions:  sessions,
		checkout:  checkout,
		store:     store,
		logger:    logger,
		tracker:   tracker,
	}
}

// Login verifies credentials, establishes the session under every
// schema, and decides where to send the visitor next.
func (s *AuthService) Login(profileID, emailAddr, password string, opts LoginOptions, origin string) (*LoginResult, error) {
	marker := s.tracker.StartOperation("auth_login", profileID)
	defer marker.Complete()

	acct, found := s.directory.FindByEmail(profileID, emailAddr)
	if !found || !security.CheckPassword(acct.PasswordHash, password) {
		s.logger.LogAuthOperation("login", profileID, emailAddr, false)
		marker.SetError(ErrInvalidCredentials)
		return nil, ErrInvalidCredentials
	}

	now := time.Now()
	acct.LastLogin = &now
	if err := s.directory.Update(profileID, *acct, origin); err != nil {
		s.logger.Auth().Warn("Failed to record last login", "profileId", profileID, "error", err.Error())
	}

	name := account.DisplayName(acct.Name, acct.Email)
	user, err := s.sessions.Establish(profileID, name, acct.Email, origin)
	if err != nil {
		marker.SetError(err)
		return nil, err
	}

	// A returning login ends the first-visit window.
	if flag, ok := s.store.Get(profileID, kv.KeyIsNewUser); ok && flag == "true" {
		if err := s.store.Set(profileID, kv.KeyIsNewUser, "false", origin); err != nil {
			s.logger.Auth().Warn("Failed to reset new-user flag", "profileId", profileID, "error", err.Error())
		}
	}

	if opts.RememberEmail {
		if err := s.store.Set(profileID, kv.KeyRememberedEmail, acct.Email, origin); err != nil {
			s.logger.Auth().Warn("Failed to remember email", "profileId", profileID, "error", err.Error())
		}
	} else {
		_ = s.store.Remove(profileID, kv.KeyRememberedEmail, origin)
	}

	profile := &account.Profile{
		Name:      name,
		Email:     acct.Email,
		FirstName: account.FirstName(name),
	}
	token, err := security.GenerateProfileToken(profile, config.JWTSecret, config.ProfileTokenTTL)
	if err != nil {
		marker.SetError(err)
		return nil, err
	}

	s.logger.LogAuthOperation("login", profileID, acct.Email, true)
	marker.SetSuccess(true)
	return &LoginResult{
		User:     user,
		Token:    token,
		Redirect: s.postLoginRedirect(profileID, opts, origin),
	}, nil
}

// postLoginRedirect picks the destination after login or registration.
// An interrupted purchase wins over everything else.
func (s *AuthService) postLoginRedirect(profileID string, opts LoginOptions, origin string) string {
	if s.checkout.Resume(profileID, origin) != nil {
		return RedirectCheckout
	}
	if opts.PendingPurchase || opts.FromCartModal || opts.Redirect == "carrito" {
		return RedirectCheckout
	}
	if opts.Redirect != "" {
		return opts.Redirect + ".html"
	}
	return RedirectHome
}

// RememberedEmail returns the email saved by a previous "remember me"
// login, if any.
func (s *AuthService) RememberedEmail(profileID string) (string, bool) {
	return s.store.Get(profileID, kv.KeyRememberedEmail)
}

// Logout tears down the session. The cart survives; the remembered
// email and the pending purchase are cleared with it.
func (s *AuthService) Logout(profileID, origin string) error {
	marker := s.tracker.StartOperation("auth_logout", profileID)
	defer marker.Complete()

	if err := s.sessions.Clear(profileID, origin); err != nil {
		marker.SetError(err)
		return err
	}
	s.logger.LogAuthOperation("logout", profileID, "", true)
	marker.SetSuccess(true)
	return nil
}

// DecodeProfileToken validates a bearer token and returns the profile
// embedded in it.
func (s *AuthService) DecodeProfileToken(tokenString string) (*account.Profile, error) {
	claims, err := security.ValidateJWT(tokenString, config.JWTSecret)
	if err != nil {
		return nil, err
	}
	profile := security.GetProfileFromClaims(claims)
	if profile == nil {
		return nil, errors.New("token carries no profile")
	}
	return profile, nil
}
