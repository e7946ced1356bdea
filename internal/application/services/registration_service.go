package services

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/motonorte/storefront-go/internal/domain/account"
	"github.com/motonorte/storefront-go/internal/infrastructure/email"
	"github.com/motonorte/storefront-go/internal/infrastructure/observability/logging"
	"github.com/motonorte/storefront-go/internal/infrastructure/observability/performance"
	"github.com/motonorte/storefront-go/internal/infrastructure/persistence/kv"
	"github.com/motonorte/storefront-go/internal/infrastructure/security"
	"github.com/motonorte/storefront-go/pkg/config"
)

// ErrDuplicateAccount is returned when the email already has an account.
var ErrDuplicateAccount = errors.New("este correo ya está registrado")

var (
	namePattern  = regexp.MustCompile(`^[a-zA-Z\x{00c0}-\x{00ff}\x{00d1}\x{00f1}\s]{2,}$`)
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	digitPattern = regexp.MustCompile(`\D`)

	passwordUpper   = regexp.MustCompile(`[A-Z]`)
	passwordLower   = regexp.MustCompile(`[a-z]`)
	passwordDigit   = regexp.MustCompile(`[0-9]`)
	passwordSpecial = regexp.MustCompile(`[^A-Za-z0-9]`)
)

// RegistrationInput is the signup form payload.
type RegistrationInput struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	Address         string `json:"address"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	AcceptTerms     bool   `json:"acceptTerms"`
	Newsletter      bool   `json:"newsletter"`
}

// ValidationError reports which form field failed and why, in the
// language the storefront speaks.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Validate checks every signup field and returns the first failure.
func (in *RegistrationInput) Validate() *ValidationError {
	name := strings.TrimSpace(in.Name)
	if len([]rune(name)) < 2 || !namePattern.MatchString(name) {
		return &ValidationError{Field: "name", Message: "El nombre debe tener al menos 2 caracteres y solo letras"}
	}
	if !emailPattern.MatchString(strings.TrimSpace(in.Email)) {
		return &ValidationError{Field: "email", Message: "Ingresa un correo electrónico válido"}
	}
	digits := digitPattern.ReplaceAllString(in.Phone, "")
	if len(digits) < 10 {
		return &ValidationError{Field: "phone", Message: "El teléfono debe tener al menos 10 dígitos"}
	}
	if len(in.Password) < 8 ||
		!passwordUpper.MatchString(in.Password) ||
		!passwordLower.MatchString(in.Password) ||
		!passwordDigit.MatchString(in.Password) ||
		!passwordSpecial.MatchString(in.Password) {
		return &ValidationError{Field: "password", Message: "La contraseña debe tener al menos 8 caracteres, con mayúscula, minúscula, número y símbolo"}
	}
	if in.Password != in.ConfirmPassword {
		return &ValidationError{Field: "confirmPassword", Message: "Las contraseñas no coinciden"}
	}
	if !in.AcceptTerms {
		return &ValidationError{Field: "acceptTerms", Message: "Debes aceptar los términos y condiciones"}
	}
	return nil
}

// RegistrationService creates accounts and logs the new user straight
// in.
type RegistrationService struct {
	directory account.DirectoryRepository
	sessions  *SessionService
	checkout  *CheckoutService
	mailer    email.Service
	store     kv.Store
	logger    *logging.ChanneledLogger
	tracker   *performance.Tracker
}

// NewRegistrationService creates a registration service.
func NewRegistrationService(directory account.DirectoryRepository, sessions *SessionService, checkout *CheckoutService, mailer email.Service, store kv.Store, logger *logging.ChanneledLogger, tracker *performance.Tracker) *RegistrationService {
	return &RegistrationService{
		directory: directory,
		sessions:  sessions,
		checkout:  checkout,
		mailer:    mailer,
		store:     store,
		logger:    logger,
		tracker:   tracker,
	}
}

// Register validates the signup form, stores the account with a hashed
// password, and establishes the session immediately.
func (s *RegistrationService) Register(profileID string, in RegistrationInput, opts LoginOptions, origin string) (*LoginResult, error) {
	marker := s.tracker.StartOperation("auth_register", profileID)
	defer marker.Complete()

	if verr := in.Validate(); verr != nil {
		marker.SetError(verr)
		return nil, verr
	}

	emailAddr := strings.ToLower(strings.TrimSpace(in.Email))
	if _, exists := s.directory.FindByEmail(profileID, emailAddr); exists {
		s.logger.LogAuthOperation("register", profileID, emailAddr, false)
		marker.SetError(ErrDuplicateAccount)
		return nil, ErrDuplicateAccount
	}

	hash, err := security.HashPassword(in.Password)
	if err != nil {
		marker.SetError(err)
		return nil, err
	}

	acct := account.UserAccount{
		ID:           security.GenerateAccountID(),
		Name:         strings.TrimSpace(in.Name),
		Email:        emailAddr,
		PasswordHash: hash,
		Address:      strings.TrimSpace(in.Address),
		Phone:        strings.TrimSpace(in.Phone),
		CreatedAt:    time.Now(),
		Newsletter:   in.Newsletter,
		Role:         "customer",
	}
	if err := s.directory.Append(profileID, acct, origin); err != nil {
		marker.SetError(err)
		return nil, err
	}

	user, err := s.sessions.Establish(profileID, acct.Name, acct.Email, origin)
	if err != nil {
		marker.SetError(err)
		return nil, err
	}

	// First-visit flag consumed by the welcome banner.
	if err := s.store.Set(profileID, kv.KeyIsNewUser, "true", origin); err != nil {
		s.logger.Auth().Warn("Failed to set new-user flag", "profileId", profileID, "error", err.Error())
	}

	if err := s.mailer.SendWelcomeEmail(acct.Email, acct.Name); err != nil {
		s.logger.Auth().Warn("Welcome email failed", "profileId", profileID, "error", err.Error())
	}

	profile := &account.Profile{
		Name:      acct.Name,
		Email:     acct.Email,
		FirstName: account.FirstName(acct.Name),
	}
	token, err := security.GenerateProfileToken(profile, config.JWTSecret, config.ProfileTokenTTL)
	if err != nil {
		marker.SetError(err)
		return nil, err
	}

	s.logger.LogAuthOperation("register", profileID, emailAddr, true)
	marker.SetSuccess(true)
	return &LoginResult{
		User:     user,
		Token:    token,
		Redirect: s.postRegisterRedirect(profileID, opts, origin),
	}, nil
}

func (s *RegistrationService) postRegisterRedirect(profileID string, opts LoginOptions, origin string) string {
	if s.checkout.Resume(profileID, origin) != nil {
		return RedirectCheckout
	}
	if opts.PendingPurchase || opts.FromCartModal || opts.Redirect == "carrito" {
		return RedirectCheckout
	}
	return RedirectHome
}
