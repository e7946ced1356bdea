// Package container wires the storefront's services and infrastructure
package container

import (
	"fmt"
	"log/slog"

	"github.com/motonorte/storefront-go/internal/application/services"
	"github.com/motonorte/storefront-go/internal/domain/account"
	"github.com/motonorte/storefront-go/internal/infrastructure/email"
	"github.com/motonorte/storefront-go/internal/infrastructure/messaging"
	"github.com/motonorte/storefront-go/internal/infrastructure/observability/logging"
	"github.com/motonorte/storefront-go/internal/infrastructure/observability/performance"
	accountrepo "github.com/motonorte/storefront-go/internal/infrastructure/persistence/account"
	"github.com/motonorte/storefront-go/internal/infrastructure/persistence/kv"
	"github.com/motonorte/storefront-go/pkg/config"
)

// Container holds every singleton the application needs. Built once at
// startup, handed to the HTTP layer whole.
type Container struct {
	Logger  *logging.ChanneledLogger
	Tracker *performance.Tracker
	Store   kv.Store
	Bus     *messaging.Bus
	SyncHub *messaging.SyncHub

	Directory account.DirectoryRepository
	Mailer    email.Service

	SessionService      *services.SessionService
	CartService         *services.CartService
	CheckoutService     *services.CheckoutService
	AuthService         *services.AuthService
	RegistrationService *services.RegistrationService
	ContactService      *services.ContactService
}

// NewContainer builds the full dependency graph.
func NewContainer() (*Container, error) {
	loggerConfig := &logging.LoggerConfig{
		OutputToFile:    config.LogToFile,
		OutputToConsole: config.LogToConsole,
		LogDirectory:    config.LogDirectory,
		JSONFormat:      config.LogJSONFormat,
		DefaultLevel:    slog.LevelInfo,
		ChannelLevels:   make(map[logging.Channel]slog.Level),
	}
	logger, err := logging.NewChanneledLogger(loggerConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logging: %w", err)
	}

	tracker := performance.NewTracker(nil)

	store, err := newStore(logger)
	if err != nil {
		return nil, err
	}

	bus := messaging.NewBus(logger)
	hub := messaging.NewSyncHub(store, logger)
	mailer := email.NewService(logger)
	directory := accountrepo.NewDirectory(store, logger)

	sessions := services.NewSessionService(store, bus, logger, tracker)
	carts := services.NewCartService(store, bus, logger, tracker)
	checkouts := services.NewCheckoutService(carts, sessions, mailer, store, logger, tracker)
	auth := services.NewAuthService(directory, sessions, checkouts, store, logger, tracker)
	registration := services.NewRegistrationService(directory, sessions, checkouts, mailer, store, logger, tracker)
	contact := services.NewContactService(store, logger, tracker)

	return &Container{
		Logger:              logger,
		Tracker:             tracker,
		Store:               store,
		Bus:                 bus,
		SyncHub:             hub,
		Directory:           directory,
		Mailer:              mailer,
		SessionService:      sessions,
		CartService:         carts,
		CheckoutService:     checkouts,
		AuthService:         auth,
		RegistrationService: registration,
		ContactService:      contact,
	}, nil
}

// newStore picks the key-value backend: in-memory for ephemeral runs,
// remote libsql when a URL is configured, local SQLite otherwise.
func newStore(logger *logging.ChanneledLogger) (kv.Store, error) {
	if config.MemoryStore {
		logger.Startup().Info("Using in-memory key-value store")
		return kv.NewMemoryStore(), nil
	}
	store, err := kv.NewSQLStore(kv.SQLConfig{
		Path:        config.StorePath,
		RemoteURL:   config.LibsqlURL,
		RemoteToken: config.LibsqlToken,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open key-value store: %w", err)
	}
	if config.LibsqlURL != "" {
		logger.Startup().Info("Using remote libsql key-value store", "url", config.LibsqlURL)
	} else {
		logger.Startup().Info("Using local SQLite key-value store", "path", config.StorePath)
	}
	return store, nil
}

// Close releases held resources during shutdown.
func (c *Container) Close() error {
	c.Logger.Shutdown().Info("Closing application container")
	return c.Store.Close()
}
