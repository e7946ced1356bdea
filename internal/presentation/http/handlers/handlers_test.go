package handlers_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/motonorte/storefront-go/internal/application/container"
	"github.com/motonorte/storefront-go/internal/application/services"
	"github.com/motonorte/storefront-go/internal/domain/entities/checkout"
	"github.com/motonorte/storefront-go/internal/infrastructure/messaging"
	"github.com/motonorte/storefront-go/internal/infrastructure/observability/logging"
	"github.com/motonorte/storefront-go/internal/infrastructure/observability/performance"
	accountrepo "github.com/motonorte/storefront-go/internal/infrastructure/persistence/account"
	"github.com/motonorte/storefront-go/internal/infrastructure/persistence/kv"
	"github.com/motonorte/storefront-go/internal/presentation/http/routes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type silentMailer struct{}

func (silentMailer) SendWelcomeEmail(string, string) error                    { return nil }
func (silentMailer) SendOrderConfirmationEmail(string, *checkout.Order) error { return nil }

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger, err := logging.NewChanneledLogger(&logging.LoggerConfig{
		OutputToFile:    false,
		OutputToConsole: false,
		DefaultLevel:    slog.LevelError,
		ChannelLevels:   make(map[logging.Channel]slog.Level),
	})
	require.NoError(t, err)

	tracker := performance.NewTracker(nil)
	store := kv.NewMemoryStore()
	bus := messaging.NewBus(logger)
	hub := messaging.NewSyncHub(store, logger)
	go hub.Run()
	directory := accountrepo.NewDirectory(store, logger)
	mailer := silentMailer{}

	sessions := services.NewSessionService(store, bus, logger, tracker)
	carts := services.NewCartService(store, bus, logger, tracker)
	checkouts := services.NewCheckoutService(carts, sessions, mailer, store, logger, tracker)
	auth := services.NewAuthService(directory, sessions, checkouts, store, logger, tracker)
	registration := services.NewRegistrationService(directory, sessions, checkouts, mailer, store, logger, tracker)
	contact := services.NewContactService(store, logger, tracker)

	ctn := &container.Container{
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
	}

	router := gin.New()
	routes.Setup(router, ctn)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Profile-ID", "profile-1")
	req.Header.Set("X-Context-ID", "tab-1")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestHealth(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMissingProfileHeaderUsesDefault(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestInvalidProfileHeaderRejected(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set("X-Profile-ID", "no válido!")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCartLifecycle(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/cart/items", gin.H{
		"id": "casco", "name": "Casco integral", "unitPrice": 850.0, "quantity": 1,
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodPut, "/api/v1/cart/items/casco", gin.H{"quantity": 4})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/v1/cart", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	totals := body["totals"].(map[string]any)
	assert.InDelta(t, 3400.0, totals["subtotal"].(float64), 0.0001)
	assert.InDelta(t, 0.10, totals["discountRate"].(float64), 0.0001)

	w = doJSON(t, router, http.MethodGet, "/api/v1/cart/totals", nil)
	require.Equal(t, http.StatusOK, w.Code)
	totals = decodeBody(t, w)["totals"].(map[string]any)
	assert.InDelta(t, 3060.0, totals["total"].(float64), 0.0001)

	w = doJSON(t, router, http.MethodDelete, "/api/v1/cart/items/casco", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/v1/cart", nil)
	body = decodeBody(t, w)
	assert.Empty(t, body["items"])
}

func TestCheckoutAnonymousCapturesPending(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/cart/items", gin.H{
		"id": "casco", "unitPrice": 850.0, "quantity": 1,
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/v1/checkout", gin.H{"fromCartPage": true})
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, false, body["authenticated"])
	assert.NotNil(t, body["pending"])
	assert.Equal(t, "sesion.html?redirect=carrito.html&pendingPurchase=true", body["redirect"])

	w = doJSON(t, router, http.MethodGet, "/api/v1/checkout/pending", nil)
	body = decodeBody(t, w)
	assert.NotNil(t, body["pending"])
}

func TestCheckoutEmptyCartRejected(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/checkout", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegisterLoginConfirmFlow(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/cart/items", gin.H{
		"id": "casco", "unitPrice": 850.0, "quantity": 1,
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/v1/checkout", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/v1/auth/register", gin.H{
		"name":            "Ana Soto",
		"email":           "ana@example.com",
		"phone":           "5551234567",
		"password":        "Segura#123",
		"confirmPassword": "Segura#123",
		"acceptTerms":     true,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "carrito.html?openModal=true", body["redirect"], "registration resumes the interrupted purchase")
	assert.Contains(t, w.Header().Get("Set-Cookie"), "profile_token=")

	w = doJSON(t, router, http.MethodPost, "/api/v1/checkout/confirm", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	body = decodeBody(t, w)
	order := body["order"].(map[string]any)
	assert.Contains(t, order["number"].(string), "PED-")

	// Completion emptied the cart and dropped the snapshot.
	w = doJSON(t, router, http.MethodGet, "/api/v1/cart", nil)
	body = decodeBody(t, w)
	assert.Empty(t, body["items"])
	w = doJSON(t, router, http.MethodGet, "/api/v1/checkout/pending", nil)
	body = decodeBody(t, w)
	assert.Nil(t, body["pending"])
}

func TestLoginInvalidCredentials(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/auth/login", gin.H{
		"email": "nadie@example.com", "password": "Loquesea#1",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthStatusAnonymous(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/v1/auth/status", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, false, body["loggedIn"])
}

func TestProfileDecodeRoundTrip(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/auth/register", gin.H{
		"name":            "Ana Soto",
		"email":           "ana@example.com",
		"phone":           "5551234567",
		"password":        "Segura#123",
		"confirmPassword": "Segura#123",
		"acceptTerms":     true,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	token := decodeBody(t, w)["token"].(string)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/profile/decode", nil)
	req.Header.Set("X-Profile-ID", "profile-1")
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	profile := decodeBody(t, rec)["profile"].(map[string]any)
	assert.Equal(t, "ana@example.com", profile["email"])
}

func TestContactSubmitAndHistory(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/contact", gin.H{
		"name":    "Ana Soto",
		"email":   "ana@example.com",
		"subject": "garantia",
		"message": "El casco llegó con un rayón en la visera.",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	msg := decodeBody(t, w)["message"].(map[string]any)
	assert.Contains(t, msg["id"], "msg_")
	assert.Equal(t, false, msg["read"])

	w = doJSON(t, router, http.MethodGet, "/api/v1/contact/history", nil)
	require.Equal(t, http.StatusOK, w.Code)
	messages := decodeBody(t, w)["messages"].([]any)
	require.Len(t, messages, 1)
	assert.Equal(t, "garantia", messages[0].(map[string]any)["subject"])
}

func TestContactRejectsShortMessage(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/contact", gin.H{
		"name":    "Ana Soto",
		"email":   "ana@example.com",
		"subject": "garantia",
		"message": "corto",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "message", decodeBody(t, w)["field"])
}
