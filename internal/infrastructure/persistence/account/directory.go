// Package account persists the registered-user directory in the key-value store
package account

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/motonorte/storefront-go/internal/domain/account"
	"github.com/motonorte/storefront-go/internal/infrastructure/observability/logging"
	"github.com/motonorte/storefront-go/internal/infrastructure/persistence/kv"
)

// Directory implements account.DirectoryRepository over a kv.Store.
// The whole directory lives under a single key as a JSON array, with
// a legacy mirror kept in lockstep for older readers.
type Directory struct {
	store  kv.Store
	logger *logging.ChanneledLogger
}

// NewDirectory creates a Directory backed by the given store.
func NewDirectory(store kv.Store, logger *logging.ChanneledLogger) *Directory {
	return &Directory{store: store, logger: logger}
}

// All returns every registered account for the profile. Missing or
// unparseable data reads as an empty directory.
func (d *Directory) All(profileID string) ([]account.UserAccount, error) {
	raw, ok := d.store.Get(profileID, kv.KeyAllUsers)
	if !ok {
		// Older deployments wrote only the prefixed key.
		raw, ok = d.store.Get(profileID, kv.KeyLegacyAllUsers)
		if !ok {
			return nil, nil
		}
	}
	var accounts []account.UserAccount
	if err := json.Unmarshal([]byte(raw), &accounts); err != nil {
		d.logger.Storage().Warn("User directory unparseable, treating as empty",
			"profileId", profileID, "error", err.Error())
		return nil, nil
	}
	return accounts, nil
}

// FindByEmail looks up an account by email, case-insensitively.
func (d *Directory) FindByEmail(profileID, email string) (*account.UserAccount, bool) {
	accounts, err := d.All(profileID)
	if err != nil {
		return nil, false
	}
	needle := strings.ToLower(strings.TrimSpace(email))
	for i := range accounts {
		if strings.ToLower(accounts[i].Email) == needle {
			return &accounts[i], true
		}
	}
	return nil, false
}

// Append adds a new account to the directory.
func (d *Directory) Append(profileID string, acct account.UserAccount, origin string) error {
	accounts, err := d.All(profileID)
	if err != nil {
		return err
	}
	accounts = append(accounts, acct)
	return d.write(profileID, accounts, origin)
}

// Update replaces the stored account matching on email. Unknown
// accounts are appended rather than lost.
func (d *Directory) Update(profileID string, acct account.UserAccount, origin string) error {
	accounts, err := d.All(profileID)
	if err != nil {
		return err
	}
	needle := strings.ToLower(acct.Email)
	found := false
	for i := range accounts {
		if strings.ToLower(accounts[i].Email) == needle {
			accounts[i] = acct
			found = true
			break
		}
	}
	if !found {
		accounts = append(accounts, acct)
	}
	return d.write(profileID, accounts, origin)
}

func (d *Directory) write(profileID string, accounts []account.UserAccount, origin string) error {
	data, err := json.Marshal(accounts)
	if err != nil {
		return fmt.Errorf("failed to encode user directory: %w", err)
	}
	if err := d.store.Set(profileID, kv.KeyAllUsers, string(data), origin); err != nil {
		return err
	}
	// Keep the prefixed mirror readable for legacy consumers.
	return d.store.Set(profileID, kv.KeyLegacyAllUsers, string(data), origin)
}
