package services

import (
	"log/slog"
	"sync"
	"testing"

	"github.com/motonorte/storefront-go/internal/domain/entities/checkout"
	"github.com/motonorte/storefront-go/internal/domain/events"
	"github.com/motonorte/storefront-go/internal/infrastructure/observability/logging"
	"github.com/motonorte/storefront-go/internal/infrastructure/observability/performance"
	accountrepo "github.com/motonorte/storefront-go/internal/infrastructure/persistence/account"
	"github.com/motonorte/storefront-go/internal/infrastructure/persistence/kv"
	"github.com/stretchr/testify/require"
)

// recordingBus captures published signals in order.
type recordingBus struct {
	mu      sync.Mutex
	signals []events.Signal
}

func (b *recordingBus) Publish(signal events.Signal, profileID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.signals = append(b.signals, signal)
}

func (b *recordingBus) published() []events.Signal {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]events.Signal, len(b.signals))
	copy(out, b.signals)
	return out
}

func (b *recordingBus) count(signal events.Signal) int {
	n := 0
	for _, s := range b.published() {
		if s == signal {
			n++
		}
	}
	return n
}

// recordingMailer captures outbound email instead of sending it.
type recordingMailer struct {
	mu       sync.Mutex
	welcomes []string
	orders   []*checkout.Order
}

func (m *recordingMailer) SendWelcomeEmail(toEmail, toName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.welcomes = append(m.welcomes, toEmail)
	return nil
}

func (m *recordingMailer) SendOrderConfirmationEmail(toEmail string, order *checkout.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders = append(m.orders, order)
	return nil
}

// fixture wires the full service graph over an in-memory store.
type fixture struct {
	store        *kv.MemoryStore
	bus          *recordingBus
	mailer       *recordingMailer
	sessions     *SessionService
	carts        *CartService
	checkout     *CheckoutService
	auth         *AuthService
	registration *RegistrationService
	contact      *ContactService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger, err := logging.NewChanneledLogger(&logging.LoggerConfig{
		OutputToFile:    false,
		OutputToConsole: false,
		DefaultLevel:    slog.LevelError,
		ChannelLevels:   make(map[logging.Channel]slog.Level),
	})
	require.NoError(t, err)

	tracker := performance.NewTracker(nil)
	store := kv.NewMemoryStore()
	bus := &recordingBus{}
	mailer := &recordingMailer{}
	directory := accountrepo.NewDirectory(store, logger)

	sessions := NewSessionService(store, bus, logger, tracker)
	carts := NewCartService(store, bus, logger, tracker)
	checkouts := NewCheckoutService(carts, sessions, mailer, store, logger, tracker)
	auth := NewAuthService(directory, sessions, checkouts, store, logger, tracker)
	registration := NewRegistrationService(directory, sessions, checkouts, mailer, store, logger, tracker)
	contact := NewContactService(store, logger, tracker)

	return &fixture{
		store:        store,
		bus:          bus,
		mailer:       mailer,
		sessions:     sessions,
		carts:        carts,
		checkout:     checkouts,
		auth:         auth,
		registration: registration,
		contact:      contact,
	}
}

func validRegistration() RegistrationInput {
	return RegistrationInput{
		Name:            "Ana Soto",
		Email:           "ana@example.com",
		Phone:           "555-123-4567",
		Address:         "Av. Principal 100",
		Password:        "Segura#123",
		ConfirmPassword: "Segura#123",
		AcceptTerms:     true,
	}
}
