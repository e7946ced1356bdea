package kv

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/motonorte/storefront-go/pkg/config"

	_ "github.com/mattn/go-sqlite3"
	_ "github.com/tursodatabase/libsql-client-go/libsql"
)

const createTableSQL = `CREATE TABLE IF NOT EXISTS storefront_kv (
	profile_id TEXT NOT NULL,
	key TEXT NOT NULL,
	value TEXT NOT NULL,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (profile_id, key)
)`

// SQLStore is the durable Store backend: a single key-value table in a local
// SQLite file or a remote libsql database. Each Set is one atomic row write,
// so there are no partial writes at the store level.
type SQLStore struct {
	*notifier
	db        *sql.DB
	UseRemote bool
}

// SQLConfig selects the backend. A non-empty RemoteURL switches from the
// local SQLite file to the libsql driver with the given auth token.
type SQLConfig struct {
	Path        string
	RemoteURL   string
	RemoteToken string
}

// NewSQLStore opens (and if needed creates) the backing database.
func NewSQLStore(cfg SQLConfig) (*SQLStore, error) {
	var conn *sql.DB
	var err error
	var useRemote bool

	if cfg.RemoteURL != "" {
		connStr := cfg.RemoteURL
		if cfg.RemoteToken != "" {
			connStr += "?authToken=" + cfg.RemoteToken
		}
		conn, err = sql.Open("libsql", connStr)
		if err != nil {
			return nil, fmt.Errorf("libsql connection failed: %w", err)
		}
		if err := conn.Ping(); err != nil {
			conn.Close()
			return nil, fmt.Errorf("libsql ping failed: %w", err)
		}
		useRemote = true
	} else {
		dbDir := filepath.Dir(cfg.Path)
		if err := os.MkdirAll(dbDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create store directory: %w", err)
		}
		conn, err = sql.Open("sqlite3", cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("sqlite connection failed: %w", err)
		}
		if err := conn.Ping(); err != nil {
			conn.Close()
			return nil, fmt.Errorf("sqlite ping failed: %w", err)
		}
	}

	conn.SetMaxOpenConns(config.DBMaxOpenConns)
	conn.SetMaxIdleConns(config.DBMaxIdleConns)
	conn.SetConnMaxLifetime(time.Duration(config.DBConnMaxLifetimeMinutes) * time.Minute)
	conn.SetConnMaxIdleTime(time.Duration(config.DBConnMaxIdleMinutes) * time.Minute)

	if _, err := conn.Exec(createTableSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create kv table: %w", err)
	}

	return &SQLStore{
		notifier:  newNotifier(),
		db:        conn,
		UseRemote: useRemote,
	}, nil
}

func (s *SQLStore) Get(profileID, key string) (string, bool) {
	var value string
	err := s.db.QueryRow(
		`SELECT value FROM storefront_kv WHERE profile_id = ? AND key = ?`,
		profileID, key,
	).Scan(&value)
	if err != nil {
		return "", false
	}
	return value, true
}

func (s *SQLStore) Set(profileID, key, value, origin string) error {
	_, err := s.db.Exec(
		`INSERT INTO storefront_kv (profile_id, key, value, updated_at)
		 VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(profile_id, key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		profileID, key, value,
	)
	if err != nil {
		return fmt.Errorf("failed to set %s/%s: %w", profileID, key, err)
	}
	s.notify(ChangeEvent{ProfileID: profileID, Key: key, Origin: origin})
	return nil
}

func (s *SQLStore) Remove(profileID, key, origin string) error {
	res, err := s.db.Exec(
		`DELETE FROM storefront_kv WHERE profile_id = ? AND key = ?`,
		profileID, key,
	)
	if err != nil {
		return fmt.Errorf("failed to remove %s/%s: %w", profileID, key, err)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		s.notify(ChangeEvent{ProfileID: profileID, Key: key, Removed: true, Origin: origin})
	}
	return nil
}

func (s *SQLStore) Subscribe(profileID, origin string) *Subscription {
	return s.subscribe(profileID, origin)
}

func (s *SQLStore) Unsubscribe(sub *Subscription) {
	s.unsubscribe(sub)
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}
