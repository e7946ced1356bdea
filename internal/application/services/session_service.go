// Package services contains the storefront business operations
package services

import (
	"encoding/json"
	"time"

	"github.com/motonorte/storefront-go/internal/domain/account"
	"github.com/motonorte/storefront-go/internal/domain/events"
	"github.com/motonorte/storefront-go/internal/infrastructure/messaging"
	"github.com/motonorte/storefront-go/internal/infrastructure/observability/logging"
	"github.com/motonorte/storefront-go/internal/infrastructure/observability/performance"
	"github.com/motonorte/storefront-go/internal/infrastructure/persistence/kv"
)

// SessionService resolves and maintains the active login session. Three
// storage schemas coexist from earlier releases of the storefront; the
// resolver reads all of them and migrates stragglers to the canonical
// form on sight.
type SessionService struct {
	store   kv.Store
	bus     messaging.Publisher
	logger  *logging.ChanneledLogger
	tracker *performance.Tracker
}

// NewSessionService creates a session service.
func NewSessionService(store kv.Store, bus messaging.Publisher, logger *logging.ChanneledLogger, tracker *performance.Tracker) *SessionService {
	return &SessionService{store: store, bus: bus, logger: logger, tracker: tracker}
}

// Resolve returns the active session user, or nil when nobody is logged
// in. Resolution order: canonical "user" record, then the split
// currentUser/isLoggedIn pair, then the prefixed legacy pair. A session
// found under an older schema is written back to the canonical key so
// the next read short-circuits.
func (s *SessionService) Resolve(profileID, origin string) *account.SessionUser {
	marker := s.tracker.StartOperation("session_resolve", profileID)
	defer marker.Complete()

	// Canonical schema.
	if raw, ok := s.store.Get(profileID, kv.KeyUser); ok {
		var user account.SessionUser
		if err := json.Unmarshal([]byte(raw), &user); err == nil && user.LoggedIn {
			marker.SetSuccess(true)
			return &user
		}
		s.logger.Auth().Debug("Canonical session record not usable, trying older schemas", "profileId", profileID)
	}

	// Split schema: currentUser + isLoggedIn flag.
	if user := s.resolvePair(profileID, kv.KeyCurrentUser, kv.KeyIsLoggedIn); user != nil {
		s.migrate(profileID, user, origin, "split", nil)
		marker.SetSuccess(true)
		return user
	}

	// Oldest schema: prefixed key pair. Migration fills the split schema
	// too so the next resolver short-circuits one step earlier.
	if user := s.resolvePair(profileID, kv.KeyLegacyCurrentUser, kv.KeyLegacyIsLoggedIn); user != nil {
		s.migrate(profileID, user, origin, "legacy", []string{kv.KeyCurrentUser, kv.KeyIsLoggedIn})
		marker.SetSuccess(true)
		return user
	}

	marker.SetSuccess(true)
	return nil
}

// resolvePair reads one of the older record+flag schemas. Both halves
// must agree: the flag must be the literal "true" and the record must
// parse with an email.
func (s *SessionService) resolvePair(profileID, recordKey, flagKey string) *account.SessionUser {
	flag, ok := s.store.Get(profileID, flagKey)
	if !ok || flag != "true" {
		return nil
	}
	raw, ok := s.store.Get(profileID, recordKey)
	if !ok {
		return nil
	}
	var user account.SessionUser
	if err := json.Unmarshal([]byte(raw), &user); err != nil || user.Email == "" {
		return nil
	}
	// Older records may carry no name; fall back to the email local part.
	user.Name = account.DisplayName(user.Name, user.Email)
	user.LoggedIn = true
	return &user
}

// migrate writes a session resolved from an older schema to the
// canonical key, plus any intermediate keys named in also. The older
// keys are left in place so concurrent legacy readers keep working;
// running the migration twice is harmless.
func (s *SessionService) migrate(profileID string, user *account.SessionUser, origin, schema string, also []string) {
	data, err := json.Marshal(user)
	if err != nil {
		return
	}
	if err := s.store.Set(profileID, kv.KeyUser, string(data), origin); err != nil {
		s.logger.Auth().Warn("Session schema migration failed", "profileId", profileID, "schema", schema, "error", err.Error())
		return
	}
	for _, key := range also {
		value := string(data)
		if key == kv.KeyIsLoggedIn {
			value = "true"
		}
		if err := s.store.Set(profileID, key, value, origin); err != nil {
			s.logger.Auth().Warn("Session schema migration failed", "profileId", profileID, "schema", schema, "key", key, "error", err.Error())
		}
	}
	s.logger.Auth().Info("Migrated session to canonical schema", "profileId", profileID, "from", schema)
}

// IsLoggedIn reports whether any schema holds an active session.
func (s *SessionService) IsLoggedIn(profileID, origin string) bool {
	return s.Resolve(profileID, origin) != nil
}

// Establish records a logged-in session under every schema so that
// readers of any vintage observe the login.
func (s *SessionService) Establish(profileID, name, email, origin string) (*account.SessionUser, error) {
	user := &account.SessionUser{
		Name:      name,
		Email:     email,
		LoggedIn:  true,
		Timestamp: time.Now().UTC(),
	}
	data, err := json.Marshal(user)
	if err != nil {
		return nil, err
	}
	if err := s.store.Set(profileID, kv.KeyUser, string(data), origin); err != nil {
		return nil, err
	}
	if err := s.store.Set(profileID, kv.KeyCurrentUser, string(data), origin); err != nil {
		return nil, err
	}
	if err := s.store.Set(profileID, kv.KeyIsLoggedIn, "true", origin); err != nil {
		return nil, err
	}
	if err := s.store.Set(profileID, kv.KeyLegacyCurrentUser, string(data), origin); err != nil {
		return nil, err
	}
	if err := s.store.Set(profileID, kv.KeyLegacyIsLoggedIn, "true", origin); err != nil {
		return nil, err
	}
	s.bus.Publish(events.SignalAuthStateChanged, profileID)
	return user, nil
}

// Clear removes the session from every schema along with the remembered
// email and any pending purchase tied to it. The cart itself survives
// logout.
func (s *SessionService) Clear(profileID, origin string) error {
	marker := s.tracker.StartOperation("session_clear", profileID)
	defer marker.Complete()

	sessionKeys := []string{
		kv.KeyUser,
		kv.KeyCurrentUser,
		kv.KeyIsLoggedIn,
		kv.KeyLegacyCurrentUser,
		kv.KeyLegacyIsLoggedIn,
		kv.KeyRememberedEmail,
		kv.KeyPendingPurchase,
	}
	for _, key := range sessionKeys {
		if err := s.store.Remove(profileID, key, origin); err != nil {
			marker.SetError(err)
			return err
		}
	}
	s.bus.Publish(events.SignalAuthStateChanged, profileID)
	marker.SetSuccess(true)
	return nil
}
