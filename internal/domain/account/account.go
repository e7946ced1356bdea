// Package account defines the user-facing identity entities and the
// interface for the account directory. The directory abstracts where
// accounts live, keeping the application decoupled from the key-value store.
// Note: sessions are persisted per browser profile, not in the directory.
package account

import (
	"strings"
	"time"
)

// UserAccount represents a registered customer in the account directory.
type UserAccount struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"passwordHash"`
	Address      string     `json:"address"`
	Phone        string     `json:"phone"`
	CreatedAt    time.Time  `json:"createdAt"`
	Newsletter   bool       `json:"newsletter"`
	Role         string     `json:"role"`
	LastLogin    *time.Time `json:"lastLogin,omitempty"`
}

// SessionUser is the canonical resolved view of "who is signed in" for one
// browser profile. It is what the canonical session schema persists.
type SessionUser struct {
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	LoggedIn  bool      `json:"loggedIn"`
	Timestamp time.Time `json:"timestamp"`
}

// Profile is the view of session data handed to clients (and embedded in
// profile tokens). Derived, never persisted directly.
type Profile struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
}

// DisplayName returns the user's name, falling back to the email local part
// when no name was recorded.
func DisplayName(name, email string) string {
	if name != "" {
		return name
	}
	if at := strings.Index(email, "@"); at > 0 {
		return email[:at]
	}
	return email
}

// FirstName returns the leading word of a full name.
func FirstName(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return name
	}
	return fields[0]
}

// DirectoryRepository defines the operations for the account directory.
// Email matching is case-insensitive everywhere.
type DirectoryRepository interface {
	All(profileID string) ([]UserAccount, error)
	FindByEmail(profileID, email string) (*UserAccount, bool)
	Append(profileID string, acct UserAccount, origin string) error
	Update(profileID string, acct UserAccount, origin string) error
}
